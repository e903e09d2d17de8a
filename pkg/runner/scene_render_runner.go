package runner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/semaphore"
	"golang.org/x/sync/singleflight"

	"github.com/shouni/go-storyboard-kit/pkg/asset"
	"github.com/shouni/go-storyboard-kit/pkg/config"
	"github.com/shouni/go-storyboard-kit/pkg/domain"
	"github.com/shouni/go-storyboard-kit/pkg/generator"
)

// RenderOptions は1回のシーン生成に対する指定です。
type RenderOptions struct {
	// Refinement は再生成時の上書き指示です。
	Refinement string
}

// RenderResult はシーン生成の結果です。
type RenderResult struct {
	SceneID string
	// Image は状態に保存された画像（公開URLまたは data URI）です。
	Image string
	// Uploaded はオブジェクトストレージへ保存できたかを示します。
	Uploaded bool
	// Shared は同一シーンの進行中の生成に合流したかを示します。
	Shared bool
}

// SceneRenderRunner は1シーンのコンパイル、生成、保存、状態反映を行います。
// 同一シーンへの同時呼び出しは1回の生成に集約されます。
type SceneRenderRunner struct {
	cfg      config.Config
	compiler RequestCompiler
	provider ImageProvider
	storage  ObjectStorage
	store    StateStore

	flight     singleflight.Group
	mu         sync.Mutex
	groupLocks map[string]*semaphore.Weighted
	now        func() time.Time
}

// NewSceneRenderRunner は SceneRenderRunner を生成します。
// provider が nil の場合、Render は ErrMissingCredential を返します。storage は省略可能です。
func NewSceneRenderRunner(
	cfg config.Config,
	compiler RequestCompiler,
	provider ImageProvider,
	storage ObjectStorage,
	store StateStore,
) (*SceneRenderRunner, error) {
	if compiler == nil {
		return nil, errors.New("compiler は必須です")
	}
	if store == nil {
		return nil, errors.New("store は必須です")
	}
	return &SceneRenderRunner{
		cfg:        cfg,
		compiler:   compiler,
		provider:   provider,
		storage:    storage,
		store:      store,
		groupLocks: make(map[string]*semaphore.Weighted),
		now:        time.Now,
	}, nil
}

// Render は指定シーンの画像を生成し、状態に反映します。
// 失敗時はシーンの Error に内容を記録し、IsGenerating を戻したうえでエラーを返します。
func (r *SceneRenderRunner) Render(ctx context.Context, sceneID string, opts RenderOptions) (*RenderResult, error) {
	if r.provider == nil {
		return nil, domain.ErrMissingCredential
	}

	val, err, shared := r.flight.Do(sceneID, func() (interface{}, error) {
		return r.render(ctx, sceneID, opts)
	})
	if err != nil {
		return nil, err
	}

	res, ok := val.(*RenderResult)
	if !ok {
		return nil, fmt.Errorf("unexpected return type from singleflight: %T", val)
	}
	if shared {
		copied := *res
		copied.Shared = true
		return &copied, nil
	}
	return res, nil
}

func (r *SceneRenderRunner) render(ctx context.Context, sceneID string, opts RenderOptions) (*RenderResult, error) {
	scene, _, err := r.store.Snapshot().FindScene(sceneID)
	if err != nil {
		return nil, err
	}

	if r.cfg.SerializeGroups && scene.GroupID != "" {
		lock := r.groupLock(scene.GroupID)
		if err := lock.Acquire(ctx, 1); err != nil {
			return nil, fmt.Errorf("グループ %s のロック取得に失敗しました: %w", scene.GroupID, err)
		}
		defer lock.Release(1)
	}

	if err := r.markGenerating(sceneID); err != nil {
		// 保存に失敗してもメモリ上の生成中フラグは立っているので戻します
		if !errors.Is(err, domain.ErrSceneBusy) && !errors.Is(err, domain.ErrSceneNotFound) {
			r.recordFailure(ctx, sceneID, err)
		}
		return nil, err
	}

	req, err := r.compiler.Compile(r.store.Snapshot(), sceneID, generator.CompileOptions{Refinement: opts.Refinement})
	if err != nil {
		r.recordFailure(ctx, sceneID, err)
		return nil, fmt.Errorf("シーン %s のコンパイルに失敗しました: %w", sceneID, err)
	}

	slog.InfoContext(ctx, "シーン画像を生成しています",
		"scene_id", sceneID,
		"model", req.Model,
		"attachments", len(req.Attachments),
	)

	img, err := r.generate(ctx, req)
	if err != nil {
		r.recordFailure(ctx, sceneID, err)
		return nil, fmt.Errorf("シーン %s の画像生成に失敗しました: %w", sceneID, err)
	}

	dataURI := domain.EncodeDataURI(img.Data, img.MimeType)
	image, uploaded := r.upload(ctx, sceneID, dataURI, img.MimeType)

	if err := r.commit(sceneID, image, opts.Refinement); err != nil {
		return nil, fmt.Errorf("シーン %s の反映に失敗しました: %w", sceneID, err)
	}

	slog.InfoContext(ctx, "シーン画像を反映しました", "scene_id", sceneID, "uploaded", uploaded)
	return &RenderResult{SceneID: sceneID, Image: image, Uploaded: uploaded}, nil
}

func (r *SceneRenderRunner) generate(ctx context.Context, req *domain.GenerationRequest) (*domain.RenderedImage, error) {
	callCtx := ctx
	if r.cfg.RequestTimeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, r.cfg.RequestTimeout)
		defer cancel()
	}

	img, err := r.provider.GenerateImage(callCtx, req)
	if err != nil {
		return nil, err
	}
	if img == nil || len(img.Data) == 0 {
		return nil, domain.ErrMalformedResponse
	}
	return img, nil
}

// upload はストレージが設定されていれば画像を保存し、公開URLを返します。
// 保存に失敗した場合は data URI のまま扱います。
func (r *SceneRenderRunner) upload(ctx context.Context, sceneID, dataURI, mimeType string) (string, bool) {
	if r.storage == nil {
		return dataURI, false
	}
	url, err := r.storage.Upload(ctx, dataURI, asset.SceneImageObjectName(sceneID, mimeType))
	if err != nil {
		slog.WarnContext(ctx, "画像の保存に失敗したため data URI のまま保持します",
			"scene_id", sceneID,
			"error", err,
		)
		return dataURI, false
	}
	return url, true
}

func (r *SceneRenderRunner) markGenerating(sceneID string) error {
	return r.store.UpdateStateAndRecord(func(s *domain.ProjectState) (*domain.ProjectState, error) {
		scene, _, err := s.FindScene(sceneID)
		if err != nil {
			return nil, err
		}
		if scene.IsGenerating {
			return nil, fmt.Errorf("%w: %s", domain.ErrSceneBusy, sceneID)
		}
		return s.UpdateScene(sceneID, func(sc domain.Scene) domain.Scene {
			sc.IsGenerating = true
			sc.Error = ""
			return sc
		})
	})
}

func (r *SceneRenderRunner) recordFailure(ctx context.Context, sceneID string, cause error) {
	err := r.store.UpdateStateAndRecord(func(s *domain.ProjectState) (*domain.ProjectState, error) {
		return s.UpdateScene(sceneID, func(sc domain.Scene) domain.Scene {
			sc.IsGenerating = false
			sc.Error = cause.Error()
			return sc
		})
	})
	if err != nil {
		slog.ErrorContext(ctx, "シーンのエラー記録に失敗しました", "scene_id", sceneID, "error", err)
	}
}

// commit は生成画像を反映します。既存の画像は EditHistory に退避します。
func (r *SceneRenderRunner) commit(sceneID, image, refinement string) error {
	return r.store.UpdateStateAndRecord(func(s *domain.ProjectState) (*domain.ProjectState, error) {
		return s.UpdateScene(sceneID, func(sc domain.Scene) domain.Scene {
			if sc.GeneratedImage != "" {
				sc.EditHistory = append(sc.EditHistory, domain.EditEntry{
					ID:         uuid.NewString(),
					Image:      sc.GeneratedImage,
					Refinement: refinement,
					CreatedAt:  r.now(),
				})
			}
			sc.GeneratedImage = image
			sc.IsGenerating = false
			sc.Error = ""
			return sc
		})
	})
}

func (r *SceneRenderRunner) groupLock(groupID string) *semaphore.Weighted {
	r.mu.Lock()
	defer r.mu.Unlock()
	lock, ok := r.groupLocks[groupID]
	if !ok {
		lock = semaphore.NewWeighted(1)
		r.groupLocks[groupID] = lock
	}
	return lock
}
