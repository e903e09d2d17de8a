package workflow

import (
	"context"
	"time"

	"github.com/shouni/gemini-image-kit/ports"
	"github.com/shouni/go-gemini-client/gemini"
	"github.com/shouni/go-remote-io/remoteio"

	"github.com/shouni/go-storyboard-kit/pkg/config"
	"github.com/shouni/go-storyboard-kit/pkg/domain"
	"github.com/shouni/go-storyboard-kit/pkg/generator"
	"github.com/shouni/go-storyboard-kit/pkg/pipeline"
	"github.com/shouni/go-storyboard-kit/pkg/runner"
)

const (
	defaultGeminiTemperature = float32(0.4)
	defaultGeminiMaxRetries  = 1
	defaultImageTTL          = 10 * time.Minute
)

// ManagerArgs は Manager の構築に必要な依存関係です。
type ManagerArgs struct {
	Config config.Config
	// Store はプロジェクト状態の唯一の保持先です。必須です。
	Store runner.StateStore
	// HTTPClient は http(s) の参照画像の取得に使います。nil の場合は httpkit で生成します。
	HTTPClient ports.Downloader
	// Reader は gs:// やローカルの参照画像の読み込みに使います。
	Reader remoteio.InputReader
	// Writer は生成画像の保存に使います。nil の場合、画像は data URI のまま状態に残ります。
	Writer remoteio.OutputWriter
	// AIClient は生成に使う Gemini クライアントです。nil で認証情報がある場合は Config から生成します。
	AIClient gemini.GenerativeModel
	// Provider を指定した場合は AIClient より優先されます。
	Provider runner.ImageProvider
}

// History は undo/redo をサポートするストアです。
type History interface {
	Undo() error
	Redo() error
}

// Compiler はシーンから GenerationRequest を組み立てます。
type Compiler interface {
	Compile(state *domain.ProjectState, sceneID string, opts generator.CompileOptions) (*domain.GenerationRequest, error)
}

// SceneRenderer は1シーンの生成を担います。
type SceneRenderer interface {
	Render(ctx context.Context, sceneID string, opts runner.RenderOptions) (*runner.RenderResult, error)
}

// BatchRunner は未生成シーンの一括生成を担います。
type BatchRunner interface {
	Run(ctx context.Context) (*pipeline.BatchResult, error)
	Stop() bool
	State() pipeline.State
}
