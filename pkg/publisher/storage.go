package publisher

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/shouni/go-remote-io/remoteio"

	"github.com/shouni/go-storyboard-kit/pkg/asset"
	"github.com/shouni/go-storyboard-kit/pkg/domain"
)

// RemoteStorage は data URI の画像を GCS / S3 / ローカルに保存し、公開URLを返します。
type RemoteStorage struct {
	writer        remoteio.OutputWriter
	baseURI       string
	publicBaseURL string
}

// NewRemoteStorage は RemoteStorage を生成します。
// baseURI は保存先のベース（例: "gs://bucket/storyboards"）です。
func NewRemoteStorage(writer remoteio.OutputWriter, baseURI, publicBaseURL string) (*RemoteStorage, error) {
	if writer == nil {
		return nil, errors.New("writer は必須です")
	}
	if baseURI == "" {
		return nil, errors.New("baseURI は必須です")
	}
	return &RemoteStorage{
		writer:        writer,
		baseURI:       baseURI,
		publicBaseURL: publicBaseURL,
	}, nil
}

// Upload は画像を baseURI 配下の objectPath に保存し、公開URLを返します。
func (s *RemoteStorage) Upload(ctx context.Context, dataURI, objectPath string) (string, error) {
	data, mimeType, err := domain.DecodeDataURI(dataURI)
	if err != nil {
		return "", err
	}

	target, err := asset.ResolveOutputPath(s.baseURI, objectPath)
	if err != nil {
		return "", fmt.Errorf("出力パスの解決に失敗しました: %w", err)
	}

	slog.DebugContext(ctx, "画像を保存しています", "path", target, "bytes", len(data))
	if err := s.writer.Write(ctx, target, bytes.NewReader(data), mimeType); err != nil {
		return "", fmt.Errorf("画像の保存に失敗しました (path: %s): %w", target, err)
	}

	return PublicURL(target, s.baseURI, s.publicBaseURL)
}
