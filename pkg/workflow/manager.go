package workflow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/shouni/go-storyboard-kit/pkg/config"
	"github.com/shouni/go-storyboard-kit/pkg/domain"
	"github.com/shouni/go-storyboard-kit/pkg/generator"
	"github.com/shouni/go-storyboard-kit/pkg/pipeline"
	"github.com/shouni/go-storyboard-kit/pkg/prompts"
	"github.com/shouni/go-storyboard-kit/pkg/runner"
)

// Manager はストーリーボード生成の各コンポーネントを構築し、UI や CLI への入口を提供します。
type Manager struct {
	cfg      config.Config
	store    runner.StateStore
	compiler Compiler
	renderer SceneRenderer
	batch    BatchRunner
	provider runner.ImageProvider
}

// New は設定と依存関係を基に新しい Manager を初期化します。
// 認証情報が無い場合でも構築は成功し、Compile は利用できます。
func New(ctx context.Context, args ManagerArgs) (*Manager, error) {
	if args.Store == nil {
		return nil, errors.New("Store は必須です")
	}

	assembler, err := prompts.NewAssembler()
	if err != nil {
		return nil, fmt.Errorf("プロンプトアセンブラの初期化に失敗しました: %w", err)
	}
	compiler, err := generator.NewRequestCompiler(args.Config, assembler)
	if err != nil {
		return nil, fmt.Errorf("リクエストコンパイラの初期化に失敗しました: %w", err)
	}

	provider, err := initializeProvider(ctx, args)
	if err != nil {
		return nil, err
	}
	if provider == nil {
		slog.WarnContext(ctx, "認証情報が設定されていないため、画像生成は利用できません")
	}

	storage, err := initializeStorage(args.Config, args.Writer)
	if err != nil {
		return nil, err
	}

	renderer, err := runner.NewSceneRenderRunner(args.Config, compiler, provider, storage, args.Store)
	if err != nil {
		return nil, fmt.Errorf("SceneRenderRunner の初期化に失敗しました: %w", err)
	}

	batch, err := pipeline.NewBatchScheduler(args.Config, renderer, args.Store)
	if err != nil {
		return nil, fmt.Errorf("BatchScheduler の初期化に失敗しました: %w", err)
	}

	return &Manager{
		cfg:      args.Config,
		store:    args.Store,
		compiler: compiler,
		renderer: renderer,
		batch:    batch,
		provider: provider,
	}, nil
}

// CanRender は画像生成が可能か（プロバイダが構成済みか）を返します。
func (m *Manager) CanRender() bool {
	return m.provider != nil
}

// Snapshot は現在のプロジェクト状態のコピーを返します。
func (m *Manager) Snapshot() *domain.ProjectState {
	return m.store.Snapshot()
}

// Compile はプロバイダを呼び出さずに、シーンの GenerationRequest を組み立てます。
func (m *Manager) Compile(sceneID string, opts generator.CompileOptions) (*domain.GenerationRequest, error) {
	return m.compiler.Compile(m.store.Snapshot(), sceneID, opts)
}

// RenderScene は1シーンを生成し、状態に反映します。
func (m *Manager) RenderScene(ctx context.Context, sceneID string, opts runner.RenderOptions) (*runner.RenderResult, error) {
	return m.renderer.Render(ctx, sceneID, opts)
}

// RunBatch は未生成のシーンを配列順に1件ずつ生成します。
func (m *Manager) RunBatch(ctx context.Context) (*pipeline.BatchResult, error) {
	return m.batch.Run(ctx)
}

// StopBatchGeneration は実行中の一括生成に停止を要求します。
// 現在生成中のシーンは完了まで待たれ、次のシーンには進みません。
func (m *Manager) StopBatchGeneration() bool {
	return m.batch.Stop()
}

// BatchState は一括生成の状態を返します。
func (m *Manager) BatchState() pipeline.State {
	return m.batch.State()
}

// Undo は直前の状態変更を取り消します。
func (m *Manager) Undo() error {
	h, ok := m.store.(History)
	if !ok {
		return errors.New("このストアは履歴をサポートしていません")
	}
	return h.Undo()
}

// Redo は取り消した状態変更を再適用します。
func (m *Manager) Redo() error {
	h, ok := m.store.(History)
	if !ok {
		return errors.New("このストアは履歴をサポートしていません")
	}
	return h.Redo()
}

// RevertScene はシーンの画像を編集履歴の直前の画像に戻します。
// 戻した画像は編集履歴から取り除かれます。
func (m *Manager) RevertScene(sceneID string) (string, error) {
	var restored string
	err := m.store.UpdateStateAndRecord(func(st *domain.ProjectState) (*domain.ProjectState, error) {
		scene, _, err := st.FindScene(sceneID)
		if err != nil {
			return nil, err
		}
		if scene.IsGenerating {
			return nil, fmt.Errorf("%w: %s", domain.ErrSceneBusy, sceneID)
		}
		if len(scene.EditHistory) == 0 {
			return nil, fmt.Errorf("シーン %s に戻せる編集履歴がありません", sceneID)
		}
		return st.UpdateScene(sceneID, func(sc domain.Scene) domain.Scene {
			last := len(sc.EditHistory) - 1
			restored = sc.EditHistory[last].Image
			sc.GeneratedImage = restored
			sc.EditHistory = sc.EditHistory[:last]
			sc.Error = ""
			return sc
		})
	})
	if err != nil {
		return "", err
	}
	return restored, nil
}
