package publisher

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/shouni/go-storyboard-kit/pkg/domain"
)

type fakeWriter struct {
	uri         string
	data        []byte
	contentType string
	err         error
}

func (w *fakeWriter) Write(_ context.Context, uri string, r io.Reader, contentType string) error {
	if w.err != nil {
		return w.err
	}
	b, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	w.uri, w.data, w.contentType = uri, b, contentType
	return nil
}

func TestRemoteStorage_Upload(t *testing.T) {
	ctx := context.Background()
	payload := []byte("jpeg-bytes")
	dataURI := domain.EncodeDataURI(payload, "image/jpeg")

	t.Run("GCS に保存し公開URLを返すこと", func(t *testing.T) {
		w := &fakeWriter{}
		s, err := NewRemoteStorage(w, "gs://my-bucket/boards", "")
		if err != nil {
			t.Fatalf("NewRemoteStorage() error = %v", err)
		}
		url, err := s.Upload(ctx, dataURI, "scenes/s1_abc.jpg")
		if err != nil {
			t.Fatalf("Upload() error = %v", err)
		}
		if w.uri != "gs://my-bucket/boards/scenes/s1_abc.jpg" {
			t.Errorf("保存先: %s", w.uri)
		}
		if !bytes.Equal(w.data, payload) || w.contentType != "image/jpeg" {
			t.Errorf("保存内容が一致しません: %q %s", w.data, w.contentType)
		}
		if url != "https://storage.googleapis.com/my-bucket/boards/scenes/s1_abc.jpg" {
			t.Errorf("公開URL: %s", url)
		}
	})

	t.Run("公開ベースURLが指定されている場合はその下に結合すること", func(t *testing.T) {
		s, err := NewRemoteStorage(&fakeWriter{}, "s3://assets/boards/", "https://cdn.example.com/boards")
		if err != nil {
			t.Fatalf("NewRemoteStorage() error = %v", err)
		}
		url, err := s.Upload(ctx, dataURI, "scenes/s2.png")
		if err != nil {
			t.Fatalf("Upload() error = %v", err)
		}
		if url != "https://cdn.example.com/boards/scenes/s2.png" {
			t.Errorf("公開URL: %s", url)
		}
	})

	t.Run("書き込み失敗はエラーを返すこと", func(t *testing.T) {
		boom := errors.New("permission denied")
		s, _ := NewRemoteStorage(&fakeWriter{err: boom}, "gs://b", "")
		if _, err := s.Upload(ctx, dataURI, "x.png"); !errors.Is(err, boom) {
			t.Errorf("期待値 %v, 実際の値 %v", boom, err)
		}
	})

	t.Run("data URI でない入力はエラー", func(t *testing.T) {
		s, _ := NewRemoteStorage(&fakeWriter{}, "gs://b", "")
		if _, err := s.Upload(ctx, "https://example.com/a.png", "x.png"); err == nil {
			t.Error("エラーが期待されましたが nil でした")
		}
	})
}

func TestPublicURL(t *testing.T) {
	tests := []struct {
		name   string
		target string
		want   string
	}{
		{"S3", "s3://assets/a/b.png", "https://assets.s3.amazonaws.com/a/b.png"},
		{"ローカル", "output/scenes/a.png", "output/scenes/a.png"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := PublicURL(tt.target, "", "")
			if err != nil {
				t.Fatalf("PublicURL() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("期待値 %s, 実際の値 %s", tt.want, got)
			}
		})
	}
}
