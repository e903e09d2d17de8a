package config

import (
	"log/slog"
	"time"

	"github.com/joho/godotenv"
	"github.com/shouni/go-utils/envutil"

	kitconfig "github.com/shouni/go-storyboard-kit/pkg/config"
)

// デフォルト値の定義なのだ
const (
	DefaultEnvFile     = ".env"
	DefaultProjectFile = "storyboard.yaml" // 作業ディレクトリに置くプロジェクトファイル（YAML / JSON）なのだ
	DefaultHTTPTimeout = kitconfig.DefaultHTTPTimeout
)

// Config はアプリケーション全体の環境設定（APIキーやクラウド設定）を保持する構造体なのだ。
type Config struct {
	ProjectID          string
	LocationID         string
	GeminiAPIKey       string
	ImageStandardModel string
	ImageQualityModel  string

	StorageBaseURI       string
	StoragePublicBaseURL string

	BatchDelay       time.Duration
	BatchErrorPolicy kitconfig.ErrorPolicy
	SerializeGroups  bool

	Options GenerateOptions
}

// GenerateOptions は CLI フラグから渡される実行時のパラメータなのだ。
type GenerateOptions struct {
	ProjectFile string // --project
	SceneID     string // --scene

	Refinement  string // --refine
	Strict      bool   // --strict
	ErrorPolicy string // --error-policy
	JSON        bool   // --json

	HTTPTimeout    time.Duration // --http-timeout
	RequestTimeout time.Duration // --request-timeout
}

// LoadConfig は .env と環境変数から設定を読み込み、構造体を返すのだ！
func LoadConfig() *Config {
	if err := godotenv.Load(DefaultEnvFile); err == nil {
		slog.Debug(".env を読み込んだのだ", "path", DefaultEnvFile)
	}

	defaults := kitconfig.DefaultConfig()
	cfg := &Config{
		ProjectID:            envutil.GetEnv("PROJECT_ID", ""),
		LocationID:           envutil.GetEnv("REGION", defaults.LocationID),
		GeminiAPIKey:         envutil.GetEnv("GEMINI_API_KEY", ""),
		ImageStandardModel:   envutil.GetEnv("IMAGE_STANDARD_MODEL", defaults.ImageStandardModel),
		ImageQualityModel:    envutil.GetEnv("IMAGE_QUALITY_MODEL", defaults.ImageQualityModel),
		StorageBaseURI:       envutil.GetEnv("STORAGE_BASE_URI", ""),
		StoragePublicBaseURL: envutil.GetEnv("STORAGE_PUBLIC_BASE_URL", ""),
		BatchDelay:           time.Duration(envutil.GetEnvAsInt("BATCH_DELAY_MS", int(defaults.BatchDelay/time.Millisecond))) * time.Millisecond,
		BatchErrorPolicy:     kitconfig.ParseErrorPolicy(envutil.GetEnv("BATCH_ERROR_POLICY", string(defaults.ErrorPolicy))),
		SerializeGroups:      envutil.GetEnvAsBool("SERIALIZE_GROUPS", defaults.SerializeGroups),
	}
	return cfg
}

// KitConfig は CLI の設定をライブラリの Config に変換するのだ。
// フラグで指定された値は環境変数より優先されるのだ。
func (c *Config) KitConfig() kitconfig.Config {
	kc := kitconfig.DefaultConfig()
	kc.GeminiAPIKey = c.GeminiAPIKey
	kc.ProjectID = c.ProjectID
	if c.LocationID != "" {
		kc.LocationID = c.LocationID
	}
	if c.ImageStandardModel != "" {
		kc.ImageStandardModel = c.ImageStandardModel
	}
	if c.ImageQualityModel != "" {
		kc.ImageQualityModel = c.ImageQualityModel
	}
	kc.StorageBaseURI = c.StorageBaseURI
	kc.StoragePublicBaseURL = c.StoragePublicBaseURL
	kc.BatchDelay = c.BatchDelay
	kc.ErrorPolicy = c.BatchErrorPolicy
	kc.SerializeGroups = c.SerializeGroups

	if c.Options.ErrorPolicy != "" {
		kc.ErrorPolicy = kitconfig.ParseErrorPolicy(c.Options.ErrorPolicy)
	}
	if c.Options.HTTPTimeout > 0 {
		kc.HTTPTimeout = c.Options.HTTPTimeout
	}
	kc.RequestTimeout = c.Options.RequestTimeout
	return kc
}
