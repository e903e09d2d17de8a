package asset

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shouni/go-utils/urlpath"
)

const (
	// DefaultSceneImageDir はシーン画像を格納するデフォルトのディレクトリ名です。
	DefaultSceneImageDir = "scenes"
)

// extensions は MIME タイプと保存時の拡張子の対応です。
var extensions = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
	"image/webp": ".webp",
	"image/gif":  ".gif",
}

// ExtensionFor は MIME タイプに対応する拡張子を返します。未知の場合は .png です。
func ExtensionFor(mimeType string) string {
	if ext, ok := extensions[strings.ToLower(mimeType)]; ok {
		return ext
	}
	return ".png"
}

// SceneImageObjectName はシーン画像の保存用の一意なオブジェクト名を生成します。
// 例: "scenes/scene-3_1f0c....png"
func SceneImageObjectName(sceneID, mimeType string) string {
	return fmt.Sprintf("%s/%s_%s%s", DefaultSceneImageDir, sanitizeID(sceneID), uuid.NewString(), ExtensionFor(mimeType))
}

// ResolveOutputPath は、ベースとなるディレクトリパスとファイル名から、
// GCS/S3/ローカルを考慮した最終的な出力パスを生成します。
func ResolveOutputPath(baseDir, fileName string) (string, error) {
	if baseDir == "" {
		return "", fmt.Errorf("出力先のベースディレクトリが指定されていません")
	}
	return urlpath.ResolvePath(baseDir, fileName)
}

func sanitizeID(id string) string {
	id = strings.TrimSpace(id)
	if id == "" {
		return "scene"
	}
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		default:
			return '-'
		}
	}, id)
}
