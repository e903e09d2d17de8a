package publisher

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/shouni/go-remote-io/remoteio"
)

const gcsPublicHost = "https://storage.googleapis.com"

// PublicURL は保存先URIを公開URLに変換します。
//
// publicBaseURL が指定されている場合は baseURI からの相対パスをその下に結合します。
// 指定が無い場合、gs://bucket/path は https://storage.googleapis.com/bucket/path、
// s3://bucket/path は https://bucket.s3.amazonaws.com/path になり、ローカルパスはそのまま返します。
func PublicURL(target, baseURI, publicBaseURL string) (string, error) {
	if publicBaseURL != "" {
		rel := strings.TrimPrefix(strings.TrimPrefix(target, strings.TrimSuffix(baseURI, "/")), "/")
		u, err := url.JoinPath(publicBaseURL, rel)
		if err != nil {
			return "", fmt.Errorf("公開URLの結合に失敗しました: %w", err)
		}
		return u, nil
	}

	switch {
	case remoteio.IsGCSURI(target):
		bucket, object, err := remoteio.ParseGCSURI(target)
		if err != nil {
			return "", err
		}
		return url.JoinPath(gcsPublicHost, bucket, object)
	case remoteio.IsS3URI(target):
		bucket, key, err := remoteio.ParseS3URI(target)
		if err != nil {
			return "", err
		}
		return url.JoinPath(fmt.Sprintf("https://%s.s3.amazonaws.com", bucket), key)
	default:
		return target, nil
	}
}
