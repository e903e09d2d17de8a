package runner

import (
	"context"

	"github.com/shouni/go-storyboard-kit/pkg/domain"
	"github.com/shouni/go-storyboard-kit/pkg/generator"
)

// ImageProvider は生成リクエストから1枚の画像を生成する外部プロバイダです。
type ImageProvider interface {
	GenerateImage(ctx context.Context, req *domain.GenerationRequest) (*domain.RenderedImage, error)
}

// ObjectStorage は data URI の画像を保存し、安定した公開URLを返します。
type ObjectStorage interface {
	Upload(ctx context.Context, dataURI, path string) (string, error)
}

// StateStore はプロジェクト状態の唯一の更新窓口です。
// 更新関数は新しい状態を返し、受け取った状態を変更してはいけません。
type StateStore interface {
	Snapshot() *domain.ProjectState
	UpdateStateAndRecord(updater func(*domain.ProjectState) (*domain.ProjectState, error)) error
}

// RequestCompiler はプロジェクト状態から生成リクエストを組み立てます。
type RequestCompiler interface {
	Compile(state *domain.ProjectState, sceneID string, opts generator.CompileOptions) (*domain.GenerationRequest, error)
}

// SceneRenderer は1シーンの生成を実行します。
type SceneRenderer interface {
	Render(ctx context.Context, sceneID string, opts RenderOptions) (*RenderResult, error)
}
