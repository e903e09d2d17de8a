package builder

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/shouni/go-http-kit/httpkit"
	"github.com/shouni/go-remote-io/remoteio"
	"github.com/shouni/go-remote-io/remoteio/gcs"
	"github.com/shouni/go-remote-io/remoteio/s3"

	"github.com/shouni/go-storyboard-kit/internal/config"
	"github.com/shouni/go-storyboard-kit/pkg/store"
	"github.com/shouni/go-storyboard-kit/pkg/workflow"
)

// BuildAppContext は設定からリモート I/O、ファイルストア、Manager を組み立てるのだ。
// 呼び出し側は使い終わったら Close を呼ぶ必要があるのだ。
func BuildAppContext(ctx context.Context, cfg *config.Config) (*AppContext, error) {
	if cfg == nil {
		return nil, errors.New("config は必須です")
	}
	kitCfg := cfg.KitConfig()

	factory, err := initializeIOFactory(ctx, kitCfg.StorageBaseURI)
	if err != nil {
		return nil, err
	}

	appCtx := &AppContext{
		Config:  cfg,
		Options: cfg.Options,
		factory: factory,
	}
	if factory != nil {
		if appCtx.Reader, err = factory.InputReader(); err != nil {
			_ = factory.Close()
			return nil, fmt.Errorf("InputReader の取得に失敗したのだ: %w", err)
		}
		if appCtx.Writer, err = factory.OutputWriter(); err != nil {
			_ = factory.Close()
			return nil, fmt.Errorf("OutputWriter の取得に失敗したのだ: %w", err)
		}
	} else {
		appCtx.Reader = remoteio.NewUniversalInputReader(nil, nil)
		appCtx.Writer = remoteio.NewUniversalIOWriter(nil, nil)
	}

	fileStore, err := store.OpenFileStore(cfg.Options.ProjectFile, store.WithHistoryLimit(kitCfg.HistoryLimit))
	if err != nil {
		_ = appCtx.Close()
		return nil, fmt.Errorf("プロジェクトファイルの読み込みに失敗したのだ: %w", err)
	}
	appCtx.Store = fileStore

	manager, err := workflow.New(ctx, workflow.ManagerArgs{
		Config:     kitCfg,
		Store:      fileStore,
		HTTPClient: httpkit.New(kitCfg.HTTPTimeout),
		Reader:     appCtx.Reader,
		Writer:     appCtx.Writer,
	})
	if err != nil {
		_ = appCtx.Close()
		return nil, fmt.Errorf("Manager の初期化に失敗したのだ: %w", err)
	}
	appCtx.Manager = manager

	return appCtx, nil
}

// initializeIOFactory は保存先のスキームに応じて GCS / S3 のファクトリを生成するのだ。
// ローカル保存や保存先なしの場合は nil を返すのだ。
func initializeIOFactory(ctx context.Context, baseURI string) (remoteio.IOFactory, error) {
	switch {
	case remoteio.IsGCSURI(baseURI):
		slog.DebugContext(ctx, "GCS クライアントを初期化するのだ", "base_uri", baseURI)
		f, err := gcs.New(ctx)
		if err != nil {
			return nil, fmt.Errorf("GCS クライアントファクトリの作成に失敗したのだ: %w", err)
		}
		return f, nil
	case remoteio.IsS3URI(baseURI):
		slog.DebugContext(ctx, "S3 クライアントを初期化するのだ", "base_uri", baseURI)
		f, err := s3.New(ctx)
		if err != nil {
			return nil, fmt.Errorf("S3 クライアントファクトリの作成に失敗したのだ: %w", err)
		}
		return f, nil
	default:
		return nil, nil
	}
}
