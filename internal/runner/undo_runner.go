package runner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

// UndoRunner はシーン画像を編集履歴の直前の画像に戻すのだ。
type UndoRunner struct {
	reverter Reverter
}

// NewUndoRunner は UndoRunner を生成するのだ。
func NewUndoRunner(reverter Reverter) (*UndoRunner, error) {
	if reverter == nil {
		return nil, errors.New("reverter は必須です")
	}
	return &UndoRunner{reverter: reverter}, nil
}

// Run は指定シーンの画像を戻すのだ。戻した結果はプロジェクトファイルに保存されるのだ。
func (r *UndoRunner) Run(ctx context.Context, sceneID string) error {
	if sceneID == "" {
		return errors.New("戻すシーン（--scene）を指定してほしいのだ")
	}

	if _, err := r.reverter.RevertScene(sceneID); err != nil {
		return fmt.Errorf("シーン %s を戻せなかったのだ: %w", sceneID, err)
	}
	slog.InfoContext(ctx, "シーン画像を直前の画像に戻したのだ", "scene_id", sceneID)
	return nil
}
