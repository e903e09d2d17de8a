package config

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	kitconfig "github.com/shouni/go-storyboard-kit/pkg/config"
)

func setEnv(t *testing.T, env map[string]string) {
	t.Helper()
	for _, key := range []string{
		"PROJECT_ID", "REGION", "GEMINI_API_KEY", "IMAGE_STANDARD_MODEL", "IMAGE_QUALITY_MODEL",
		"STORAGE_BASE_URI", "STORAGE_PUBLIC_BASE_URL", "BATCH_DELAY_MS", "BATCH_ERROR_POLICY", "SERIALIZE_GROUPS",
	} {
		t.Setenv(key, env[key])
	}
}

func TestLoadConfig(t *testing.T) {
	setEnv(t, map[string]string{
		"GEMINI_API_KEY":     "key",
		"REGION":             "us-central1",
		"STORAGE_BASE_URI":   "gs://bucket/boards",
		"BATCH_DELAY_MS":     "1200",
		"BATCH_ERROR_POLICY": "continue",
		"SERIALIZE_GROUPS":   "false",
	})

	cfg := LoadConfig()
	if cfg.GeminiAPIKey != "key" || cfg.LocationID != "us-central1" {
		t.Errorf("認証情報の読み込み: %+v", cfg)
	}
	if cfg.BatchDelay != 1200*time.Millisecond {
		t.Errorf("BatchDelay = %v, 期待値 1.2s", cfg.BatchDelay)
	}
	if cfg.BatchErrorPolicy != kitconfig.ErrorPolicyContinue {
		t.Errorf("BatchErrorPolicy = %q", cfg.BatchErrorPolicy)
	}
	if cfg.SerializeGroups {
		t.Error("SERIALIZE_GROUPS=false が反映されていません")
	}
}

func TestConfig_KitConfig(t *testing.T) {
	base := &Config{
		GeminiAPIKey:     "key",
		BatchDelay:       time.Second,
		BatchErrorPolicy: kitconfig.ErrorPolicyAbort,
		SerializeGroups:  true,
	}

	t.Run("空のモデル名は既定値のままであること", func(t *testing.T) {
		kc := base.KitConfig()
		if kc.ImageStandardModel != kitconfig.DefaultImageStandardModel {
			t.Errorf("ImageStandardModel = %q", kc.ImageStandardModel)
		}
		if kc.LocationID != kitconfig.DefaultLocationID {
			t.Errorf("LocationID = %q", kc.LocationID)
		}
		if !kc.HasCredential() {
			t.Error("API キーが引き継がれていません")
		}
	})

	t.Run("フラグは環境変数より優先されること", func(t *testing.T) {
		cfg := *base
		cfg.Options = GenerateOptions{
			ErrorPolicy:    "continue",
			HTTPTimeout:    5 * time.Second,
			RequestTimeout: time.Minute,
		}
		kc := cfg.KitConfig()
		if kc.ErrorPolicy != kitconfig.ErrorPolicyContinue {
			t.Errorf("ErrorPolicy = %q, 期待値 continue", kc.ErrorPolicy)
		}
		if kc.HTTPTimeout != 5*time.Second || kc.RequestTimeout != time.Minute {
			t.Errorf("タイムアウト: http=%v request=%v", kc.HTTPTimeout, kc.RequestTimeout)
		}
		if kc.BatchDelay != time.Second {
			t.Errorf("BatchDelay = %v", kc.BatchDelay)
		}
	})
}

func TestDefaultProjectFile(t *testing.T) {
	if dir := filepath.Dir(DefaultProjectFile); dir != "." {
		t.Errorf("既定のプロジェクトファイル %q は作業ディレクトリ直下であるべきです", DefaultProjectFile)
	}
	if strings.HasPrefix(filepath.ToSlash(DefaultProjectFile), "examples/") {
		t.Errorf("既定のプロジェクトファイルが同梱のサンプルを指しています: %q", DefaultProjectFile)
	}
}
