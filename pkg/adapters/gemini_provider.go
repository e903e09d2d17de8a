package adapters

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/shouni/gemini-image-kit/generator"
	"github.com/shouni/gemini-image-kit/imgutil"
	"github.com/shouni/gemini-image-kit/ports"
	"github.com/shouni/go-gemini-client/gemini"
	"github.com/shouni/go-remote-io/remoteio"
	"golang.org/x/sync/errgroup"
	"google.golang.org/genai"

	"github.com/shouni/go-storyboard-kit/pkg/domain"
)

const (
	// DefaultCompressThreshold はこのサイズを超える PNG/GIF の inline 画像を JPEG に圧縮します。
	DefaultCompressThreshold = 512 * 1024
	defaultPartConcurrency   = 4
)

// ImageCore は参照画像の準備とレスポンス解析を担う gemini-image-kit の基盤です。
type ImageCore interface {
	PrepareImagePart(ctx context.Context, rawURL string) *genai.Part
	ParseToResponse(resp *gemini.Response, seed int64) (*ports.ImageResponse, error)
}

// GeminiImageProvider は GenerationRequest を Gemini のマルチパートリクエストに変換して画像を生成します。
type GeminiImageProvider struct {
	client      gemini.Generator
	core        ImageCore
	reader      remoteio.InputReader
	compress    bool
	threshold   int
	concurrency int
}

// Option は GeminiImageProvider の設定を変更します。
type Option func(*GeminiImageProvider)

// WithCompression は inline 画像の圧縮を有効にします。
func WithCompression(enabled bool) Option {
	return func(p *GeminiImageProvider) { p.compress = enabled }
}

// WithPartConcurrency は参照画像を並行して準備する上限数を設定します。
func WithPartConcurrency(n int) Option {
	return func(p *GeminiImageProvider) {
		if n > 0 {
			p.concurrency = n
		}
	}
}

// NewGeminiImageProvider は GeminiImageProvider を生成します。
// reader は s3:// やローカルパスの参照画像を読むために使われ、省略可能です。
func NewGeminiImageProvider(client gemini.Generator, core ImageCore, reader remoteio.InputReader, opts ...Option) (*GeminiImageProvider, error) {
	if client == nil {
		return nil, errors.New("client は必須です")
	}
	if core == nil {
		return nil, errors.New("core は必須です")
	}
	p := &GeminiImageProvider{
		client:      client,
		core:        core,
		reader:      reader,
		threshold:   DefaultCompressThreshold,
		concurrency: defaultPartConcurrency,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// GenerateImage は添付をラベル、画像の順に並べ、最後にプロンプトを置いて生成を実行します。
func (p *GeminiImageProvider) GenerateImage(ctx context.Context, req *domain.GenerationRequest) (*domain.RenderedImage, error) {
	if req == nil {
		return nil, errors.New("リクエストが nil です")
	}

	parts, err := p.buildParts(ctx, req)
	if err != nil {
		return nil, err
	}

	opts := gemini.GenerateOptions{
		AspectRatio:      req.AspectRatio,
		PersonGeneration: gemini.PersonGenerationAllowAll,
	}
	resp, err := p.client.GenerateWithParts(ctx, req.Model, parts, opts)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrProviderFailure, err)
	}

	img, err := p.core.ParseToResponse(resp, 0)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrMalformedResponse, err)
	}
	if img == nil || len(img.Data) == 0 {
		return nil, domain.ErrMalformedResponse
	}

	mimeType := img.MimeType
	if mimeType == "" {
		mimeType = "image/png"
	}
	return &domain.RenderedImage{Data: img.Data, MimeType: mimeType}, nil
}

// buildParts は添付の画像を並行して準備し、元の順序を保ってパートを組み立てます。
// 取得できなかった参照画像はラベルごと除外します。
func (p *GeminiImageProvider) buildParts(ctx context.Context, req *domain.GenerationRequest) ([]*genai.Part, error) {
	images := make([]*genai.Part, len(req.Attachments))

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(p.concurrency)
	for i, att := range req.Attachments {
		eg.Go(func() error {
			part, err := p.imagePart(egCtx, att)
			if err != nil {
				slog.WarnContext(egCtx, "参照画像を準備できなかったため除外します",
					"scene_id", req.SceneID,
					"role", att.Role,
					"error", err,
				)
				return nil
			}
			images[i] = part
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	parts := make([]*genai.Part, 0, len(images)*2+1)
	for i, img := range images {
		if img == nil {
			continue
		}
		parts = append(parts, &genai.Part{Text: req.Attachments[i].Label}, img)
	}
	parts = append(parts, &genai.Part{Text: req.PromptText})
	return parts, nil
}

func (p *GeminiImageProvider) imagePart(ctx context.Context, att domain.Attachment) (*genai.Part, error) {
	src := strings.TrimSpace(att.Image)
	switch {
	case src == "":
		return nil, errors.New("画像の参照先が空です")
	case domain.IsDataURI(src):
		data, mimeType, err := domain.DecodeDataURI(src)
		if err != nil {
			return nil, err
		}
		return p.inline(data, mimeType), nil
	case isHTTPURL(src) || remoteio.IsGCSURI(src):
		part := p.core.PrepareImagePart(ctx, src)
		if part == nil {
			return nil, fmt.Errorf("参照画像の取得に失敗しました: %s", src)
		}
		return part, nil
	default:
		if p.reader == nil {
			return nil, fmt.Errorf("参照画像を読み込むリーダーが設定されていません: %s", src)
		}
		rc, err := p.reader.Open(ctx, src)
		if err != nil {
			return nil, fmt.Errorf("参照画像のオープンに失敗しました: %w", err)
		}
		defer rc.Close()
		data, err := io.ReadAll(rc)
		if err != nil {
			return nil, fmt.Errorf("参照画像の読み込みに失敗しました: %w", err)
		}
		mimeType := att.MimeType
		if mimeType == "" {
			mimeType = imgutil.GuessMIMEType(src)
		}
		return p.inline(data, mimeType), nil
	}
}

func (p *GeminiImageProvider) inline(data []byte, mimeType string) *genai.Part {
	if p.compress && len(data) > p.threshold && imgutil.IsCompressibleMimeType(mimeType) {
		if compressed, err := imgutil.CompressToJPEG(bytes.NewReader(data), generator.ImageCompressionQuality); err == nil {
			data, mimeType = compressed, "image/jpeg"
		}
	}
	return &genai.Part{InlineData: &genai.Blob{MIMEType: mimeType, Data: data}}
}

func isHTTPURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}
