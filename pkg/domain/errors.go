package domain

import "errors"

var (
	// ErrMissingCredential はプロバイダの認証情報が設定されていないことを示します。
	ErrMissingCredential = errors.New("画像生成プロバイダの認証情報が設定されていません")
	// ErrProviderFailure はプロバイダ呼び出し（通信・検証）の失敗です。
	ErrProviderFailure = errors.New("画像生成プロバイダの呼び出しに失敗しました")
	// ErrMalformedResponse はプロバイダが画像パートを返さなかったことを示します。
	ErrMalformedResponse = errors.New("プロバイダのレスポンスに画像が含まれていません")

	ErrSceneNotFound = errors.New("シーンが見つかりません")
	ErrSceneBusy     = errors.New("シーンは生成中です")
	ErrBatchRunning  = errors.New("一括生成はすでに実行中です")
)

// IsRenderFailure はシーン単位で記録される失敗（ProviderFailure / MalformedResponse）かを判定します。
func IsRenderFailure(err error) bool {
	return errors.Is(err, ErrProviderFailure) || errors.Is(err, ErrMalformedResponse)
}
