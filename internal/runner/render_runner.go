package runner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/shouni/go-storyboard-kit/pkg/domain"
	kitrunner "github.com/shouni/go-storyboard-kit/pkg/runner"
)

// RenderRunner は CLI から1シーンの生成を実行するのだ。
type RenderRunner struct {
	renderer Renderer
	strict   bool
}

// NewRenderRunner は RenderRunner を生成するのだ。
// strict が false の場合、プロバイダの失敗はシーンに記録してログに出すだけで成功扱いにするのだ。
func NewRenderRunner(renderer Renderer, strict bool) (*RenderRunner, error) {
	if renderer == nil {
		return nil, errors.New("renderer は必須です")
	}
	return &RenderRunner{renderer: renderer, strict: strict}, nil
}

// Run は指定シーンを生成するのだ。
func (r *RenderRunner) Run(ctx context.Context, sceneID, refinement string) (*kitrunner.RenderResult, error) {
	res, err := r.renderer.RenderScene(ctx, sceneID, kitrunner.RenderOptions{Refinement: refinement})
	if err == nil {
		slog.InfoContext(ctx, "シーン画像を生成したのだ",
			"scene_id", res.SceneID,
			"uploaded", res.Uploaded,
			"shared", res.Shared,
		)
		return res, nil
	}

	if domain.IsRenderFailure(err) && !r.strict {
		slog.ErrorContext(ctx, "シーン画像の生成に失敗したのだ。エラーはシーンに記録したのだ",
			"scene_id", sceneID,
			"error", err,
		)
		return nil, nil
	}
	return nil, fmt.Errorf("シーン %s の生成に失敗したのだ: %w", sceneID, err)
}
