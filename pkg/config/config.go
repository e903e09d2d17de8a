package config

import (
	"time"
)

// ErrorPolicy は一括生成中にシーン単位の失敗が起きたときの振る舞いです。
type ErrorPolicy string

const (
	// ErrorPolicyAbort は最初の失敗で一括生成を中止します。
	ErrorPolicyAbort ErrorPolicy = "abort"
	// ErrorPolicyContinue は失敗したシーンを記録して次のシーンへ進みます。
	ErrorPolicyContinue ErrorPolicy = "continue"
)

// デフォルト値の定義
const (
	DefaultLocationID         = "asia-northeast1"
	DefaultImageStandardModel = "gemini-2.5-flash-image"
	DefaultImageQualityModel  = "gemini-3-pro-image-preview"
	DefaultAspectRatio        = "16:9"
	DefaultBatchDelay         = 500 * time.Millisecond
	DefaultErrorPolicy        = ErrorPolicyAbort
	DefaultHTTPTimeout        = 30 * time.Second
	DefaultCacheExpiration    = 30 * time.Minute
	DefaultCacheCleanup       = 10 * time.Minute
	DefaultHistoryLimit       = 50
	DefaultPartConcurrency    = 4
)

// Config はシーン生成の各コンポーネントを動作させるための基本設定です。
type Config struct {
	// --- AI Model Settings ---
	ImageStandardModel string // standard ティア
	ImageQualityModel  string // high ティア

	// --- Google AI (Gemini API) Settings ---
	GeminiAPIKey string

	// --- Vertex AI Settings ---
	ProjectID  string // Google Cloud Project ID
	LocationID string // 例: "us-central1"

	// --- Generation Settings ---
	DefaultAspectRatio string
	// CompressReferences は大きな PNG/GIF の参照画像を JPEG に圧縮して送信します。
	CompressReferences bool
	PartConcurrency    int

	// --- Batch Settings ---
	BatchDelay  time.Duration
	ErrorPolicy ErrorPolicy

	// --- Concurrency ---
	// SerializeGroups は同一グループのシーン生成を1件ずつに制限します。
	SerializeGroups bool

	// --- Storage ---
	StorageBaseURI       string // 例: "gs://bucket/storyboards"
	StoragePublicBaseURL string // GCS 以外の公開URLのベース

	// --- Cache ---
	CacheExpiration time.Duration
	CacheCleanup    time.Duration

	// --- History ---
	HistoryLimit int

	// --- Timeout ---
	// RequestTimeout はプロバイダ呼び出し1回の上限です。0 の場合は無制限です。
	RequestTimeout time.Duration
	HTTPTimeout    time.Duration
}

// DefaultConfig は推奨されるデフォルト設定を返すヘルパー関数です。
func DefaultConfig() Config {
	return Config{
		LocationID:         DefaultLocationID,
		ImageStandardModel: DefaultImageStandardModel,
		ImageQualityModel:  DefaultImageQualityModel,
		DefaultAspectRatio: DefaultAspectRatio,
		CompressReferences: true,
		PartConcurrency:    DefaultPartConcurrency,
		BatchDelay:         DefaultBatchDelay,
		ErrorPolicy:        DefaultErrorPolicy,
		SerializeGroups:    true,
		CacheExpiration:    DefaultCacheExpiration,
		CacheCleanup:       DefaultCacheCleanup,
		HistoryLimit:       DefaultHistoryLimit,
		HTTPTimeout:        DefaultHTTPTimeout,
	}
}

// HasCredential はプロバイダを呼び出すための認証情報が設定されているかを返します。
func (c Config) HasCredential() bool {
	return c.GeminiAPIKey != "" || c.ProjectID != ""
}

// ParseErrorPolicy は文字列をエラーポリシーに変換します。未知の値は既定値になります。
func ParseErrorPolicy(s string) ErrorPolicy {
	switch ErrorPolicy(s) {
	case ErrorPolicyContinue:
		return ErrorPolicyContinue
	case ErrorPolicyAbort:
		return ErrorPolicyAbort
	default:
		return DefaultErrorPolicy
	}
}
