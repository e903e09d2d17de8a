package domain

import (
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/shouni/gemini-image-kit/imgutil"
)

const dataURIPrefix = "data:"

// IsDataURI は画像が base64 の data URI としてインラインに保持されているかを返します。
func IsDataURI(s string) bool {
	return strings.HasPrefix(s, dataURIPrefix)
}

// EncodeDataURI は画像データを data URI に変換します。
func EncodeDataURI(data []byte, mimeType string) string {
	if mimeType == "" {
		mimeType = "image/png"
	}
	return fmt.Sprintf("data:%s;base64,%s", mimeType, base64.StdEncoding.EncodeToString(data))
}

// DecodeDataURI は base64 形式の data URI を画像データと MIME タイプに分解します。
func DecodeDataURI(uri string) ([]byte, string, error) {
	if !IsDataURI(uri) {
		return nil, "", fmt.Errorf("data URI ではありません")
	}
	header, payload, ok := strings.Cut(strings.TrimPrefix(uri, dataURIPrefix), ",")
	if !ok {
		return nil, "", fmt.Errorf("data URI の形式が不正です")
	}
	mimeType, encoding, _ := strings.Cut(header, ";")
	if encoding != "base64" {
		return nil, "", fmt.Errorf("base64 以外の data URI には対応していません: %q", encoding)
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, "", fmt.Errorf("data URI のデコードに失敗しました: %w", err)
	}
	if mimeType == "" {
		mimeType = "image/png"
	}
	return data, mimeType, nil
}

// MimeTypeOf は画像の参照先から MIME タイプを推測します。
func MimeTypeOf(src string) string {
	if IsDataURI(src) {
		header, _, _ := strings.Cut(strings.TrimPrefix(src, dataURIPrefix), ",")
		if mimeType, _, _ := strings.Cut(header, ";"); mimeType != "" {
			return mimeType
		}
		return "image/png"
	}
	return imgutil.GuessMIMEType(src)
}
