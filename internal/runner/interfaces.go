package runner

import (
	"context"

	"github.com/shouni/go-storyboard-kit/pkg/domain"
	"github.com/shouni/go-storyboard-kit/pkg/generator"
	"github.com/shouni/go-storyboard-kit/pkg/pipeline"
	kitrunner "github.com/shouni/go-storyboard-kit/pkg/runner"
)

// Compiler はシーンの GenerationRequest を組み立てるのだ。
type Compiler interface {
	Compile(sceneID string, opts generator.CompileOptions) (*domain.GenerationRequest, error)
}

// Renderer は1シーンを生成して状態に反映するのだ。
type Renderer interface {
	RenderScene(ctx context.Context, sceneID string, opts kitrunner.RenderOptions) (*kitrunner.RenderResult, error)
}

// BatchController は一括生成の実行と停止を担うのだ。
type BatchController interface {
	RunBatch(ctx context.Context) (*pipeline.BatchResult, error)
	StopBatchGeneration() bool
}

// Reverter はシーン画像を編集履歴から戻すのだ。
type Reverter interface {
	RevertScene(sceneID string) (string, error)
}
