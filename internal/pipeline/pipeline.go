package pipeline

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/shouni/go-storyboard-kit/internal/builder"
	"github.com/shouni/go-storyboard-kit/internal/config"
	"github.com/shouni/go-storyboard-kit/internal/runner"
	"github.com/shouni/go-storyboard-kit/pkg/pipeline"
)

// ExecuteCompile は、プロバイダを呼ばずにシーンの生成リクエストを out に書き出すのだ。
// 認証情報が無くても動くドライランなのだ。
func ExecuteCompile(ctx context.Context, cfg *config.Config, out io.Writer) error {
	appCtx, err := setupAppContext(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeAppContext(ctx, appCtx)

	compileRunner, err := runner.NewCompileRunner(appCtx.Manager, out)
	if err != nil {
		return fmt.Errorf("CompileRunner の構築に失敗したのだ: %w", err)
	}

	_, err = compileRunner.Run(cfg.Options.SceneID, cfg.Options.Refinement, cfg.Options.JSON)
	return err
}

// ExecuteRender は、1シーンの画像を生成してプロジェクトファイルに反映するのだ。
func ExecuteRender(ctx context.Context, cfg *config.Config) error {
	appCtx, err := setupAppContext(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeAppContext(ctx, appCtx)

	renderRunner, err := runner.NewRenderRunner(appCtx.Manager, cfg.Options.Strict)
	if err != nil {
		return fmt.Errorf("RenderRunner の構築に失敗したのだ: %w", err)
	}

	slog.InfoContext(ctx, "シーン画像の生成を開始するのだ",
		"project", appCtx.Store.Path(),
		"scene_id", cfg.Options.SceneID,
	)
	_, err = renderRunner.Run(ctx, cfg.Options.SceneID, cfg.Options.Refinement)
	return err
}

// ExecuteBatch は、未生成のシーンを配列順に1件ずつ生成するのだ。
func ExecuteBatch(ctx context.Context, cfg *config.Config) (*pipeline.BatchResult, error) {
	appCtx, err := setupAppContext(ctx, cfg)
	if err != nil {
		return nil, err
	}
	defer closeAppContext(ctx, appCtx)

	batchRunner, err := runner.NewBatchRunner(appCtx.Manager)
	if err != nil {
		return nil, fmt.Errorf("BatchRunner の構築に失敗したのだ: %w", err)
	}

	slog.InfoContext(ctx, "一括生成を開始するのだ", "project", appCtx.Store.Path())
	return batchRunner.Run(ctx)
}

// ExecuteUndo は、シーン画像を編集履歴の直前の画像に戻すのだ。
func ExecuteUndo(ctx context.Context, cfg *config.Config) error {
	appCtx, err := setupAppContext(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeAppContext(ctx, appCtx)

	undoRunner, err := runner.NewUndoRunner(appCtx.Manager)
	if err != nil {
		return fmt.Errorf("UndoRunner の構築に失敗したのだ: %w", err)
	}
	return undoRunner.Run(ctx, cfg.Options.SceneID)
}

// setupAppContext は、提供された設定を使用してアプリケーションコンテキストを初期化して返すのだ。
func setupAppContext(ctx context.Context, cfg *config.Config) (*builder.AppContext, error) {
	appCtx, err := builder.BuildAppContext(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("アプリケーションの初期化に失敗したのだ: %w", err)
	}
	return appCtx, nil
}

func closeAppContext(ctx context.Context, appCtx *builder.AppContext) {
	if err := appCtx.Close(); err != nil {
		slog.WarnContext(ctx, "リソースの解放に失敗したのだ", "error", err)
	}
}
