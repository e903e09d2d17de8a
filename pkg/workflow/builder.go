package workflow

import (
	"context"
	"fmt"
	"io"

	"github.com/patrickmn/go-cache"
	imagekit "github.com/shouni/gemini-image-kit/generator"
	"github.com/shouni/gemini-image-kit/ports"
	"github.com/shouni/go-gemini-client/gemini"
	"github.com/shouni/go-http-kit/httpkit"
	"github.com/shouni/go-remote-io/remoteio"
	"google.golang.org/genai"

	"github.com/shouni/go-storyboard-kit/pkg/adapters"
	"github.com/shouni/go-storyboard-kit/pkg/config"
	"github.com/shouni/go-storyboard-kit/pkg/publisher"
	"github.com/shouni/go-storyboard-kit/pkg/runner"
)

// initializeAIClient は gemini クライアントを初期化します。
// ProjectID が設定されている場合は Vertex AI を、そうでなければ API キーを使います。
func initializeAIClient(ctx context.Context, cfg config.Config) (gemini.GenerativeModel, error) {
	clientConfig := gemini.Config{
		Temperature: genai.Ptr(defaultGeminiTemperature),
		MaxRetries:  defaultGeminiMaxRetries,
	}
	if cfg.ProjectID != "" {
		clientConfig.ProjectID = cfg.ProjectID
		clientConfig.LocationID = cfg.LocationID
	} else {
		clientConfig.APIKey = cfg.GeminiAPIKey
	}

	aiClient, err := gemini.NewClient(ctx, clientConfig)
	if err != nil {
		return nil, fmt.Errorf("AIクライアントの初期化に失敗しました: %w", err)
	}
	return aiClient, nil
}

// initializeCore は画像キャッシュ付きの GeminiImageCore を初期化します。
func initializeCore(cfg config.Config, aiClient gemini.GenerativeModel, reader ports.ContentReader, downloader ports.Downloader) (*imagekit.GeminiImageCore, error) {
	imgCache := cache.New(cfg.CacheExpiration, cfg.CacheCleanup)
	core, err := imagekit.NewGeminiImageCore(
		aiClient,
		reader,
		downloader,
		imgCache,
		defaultImageTTL,
		cfg.CompressReferences,
	)
	if err != nil {
		return nil, fmt.Errorf("GeminiImageCore の初期化に失敗しました: %w", err)
	}
	return core, nil
}

// initializeProvider は ImageProvider を初期化します。
// 明示的な Provider も認証情報も無い場合は nil を返し、生成は ErrMissingCredential になります。
func initializeProvider(ctx context.Context, args ManagerArgs) (runner.ImageProvider, error) {
	if args.Provider != nil {
		return args.Provider, nil
	}

	aiClient := args.AIClient
	if aiClient == nil {
		if !args.Config.HasCredential() {
			return nil, nil
		}
		var err error
		aiClient, err = initializeAIClient(ctx, args.Config)
		if err != nil {
			return nil, err
		}
	}

	downloader := args.HTTPClient
	if downloader == nil {
		downloader = httpkit.New(args.Config.HTTPTimeout)
	}

	core, err := initializeCore(args.Config, aiClient, readerOrNop(args.Reader), downloader)
	if err != nil {
		return nil, err
	}

	provider, err := adapters.NewGeminiImageProvider(
		aiClient,
		core,
		args.Reader,
		adapters.WithCompression(args.Config.CompressReferences),
		adapters.WithPartConcurrency(args.Config.PartConcurrency),
	)
	if err != nil {
		return nil, fmt.Errorf("ImageProvider の初期化に失敗しました: %w", err)
	}
	return provider, nil
}

// initializeStorage は生成画像の保存先を初期化します。保存先が未設定の場合は nil を返します。
func initializeStorage(cfg config.Config, writer remoteio.OutputWriter) (runner.ObjectStorage, error) {
	if writer == nil || cfg.StorageBaseURI == "" {
		return nil, nil
	}
	storage, err := publisher.NewRemoteStorage(writer, cfg.StorageBaseURI, cfg.StoragePublicBaseURL)
	if err != nil {
		return nil, fmt.Errorf("ストレージの初期化に失敗しました: %w", err)
	}
	return storage, nil
}

// unavailableReader はリーダー未設定時に GeminiImageCore へ渡す代替です。
type unavailableReader struct{}

func (unavailableReader) Open(_ context.Context, uri string) (io.ReadCloser, error) {
	return nil, fmt.Errorf("参照画像のリーダーが設定されていません: %s", uri)
}

func readerOrNop(reader remoteio.InputReader) ports.ContentReader {
	if reader == nil {
		return unavailableReader{}
	}
	return reader
}
