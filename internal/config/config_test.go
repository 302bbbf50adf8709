package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"

	"github.com/epd-tools/epd2lcabyg/internal/apperr"
)

func TestLoad_Defaults(t *testing.T) {
	v := viper.New()
	Bind(v)
	v.Set(KeyCachePath, filepath.Join(t.TempDir(), "c.db"))

	cfg, err := Load(v)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ResultFolder != "results" || cfg.Timeout != 30*time.Second || cfg.CacheTTL != 24*time.Hour {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
	if cfg.Strategy != "interactive" || cfg.Node != "ECOPLATFORM" {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
}

func TestLoad_Env(t *testing.T) {
	t.Setenv("EPD2LCABYG_API_KEY", "tok-123")
	t.Setenv("EPD2LCABYG_CACHE_TTL", "1h")
	t.Setenv("EPD2LCABYG_RESOLVE_STRATEGY", "strict")

	v := viper.New()
	Bind(v)
	v.Set(KeyCachePath, filepath.Join(t.TempDir(), "c.db"))

	cfg, err := Load(v)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.APIKey != "tok-123" || cfg.CacheTTL != time.Hour || cfg.Strategy != "strict" {
		t.Fatalf("unexpected config %+v", cfg)
	}
}

func TestLoad_Invalid(t *testing.T) {
	v := viper.New()
	Bind(v)
	v.Set(KeyAPIKey, "bad key!")
	if _, err := Load(v); !apperr.IsUser(err) {
		t.Fatalf("expected user error for invalid key, got %v", err)
	}

	v = viper.New()
	Bind(v)
	v.Set(KeyTimeout, "0s")
	if _, err := Load(v); !apperr.IsUser(err) {
		t.Fatalf("expected user error for zero timeout, got %v", err)
	}
}

func TestValidateAPIKey(t *testing.T) {
	tcs := []struct {
		key string
		ok  bool
	}{
		{"", true},
		{"abc.DEF-123_x", true},
		{"eyJhbGciOi.J9", true},
		{"has space", false},
		{"semi;colon", false},
		{"slash/", false},
	}
	for _, tc := range tcs {
		err := ValidateAPIKey(tc.key)
		if (err == nil) != tc.ok {
			t.Fatalf("ValidateAPIKey(%q) err=%v, want ok=%v", tc.key, err, tc.ok)
		}
	}
}

func TestSetAPIKey_Persists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conf", "settings.yaml")
	v := viper.New()
	v.SetConfigFile(path)

	got, err := SetAPIKey(v, "  secret-1 ")
	if err != nil || got != path {
		t.Fatalf("SetAPIKey = %q, %v", got, err)
	}
	if _, err := SetResultFolder(v, "out/stages"); err != nil {
		t.Fatalf("SetResultFolder: %v", err)
	}

	reread := viper.New()
	reread.SetConfigFile(path)
	if err := reread.ReadInConfig(); err != nil {
		t.Fatalf("ReadInConfig: %v", err)
	}
	if reread.GetString(KeyAPIKey) != "secret-1" || reread.GetString(KeyResultFolder) != "out/stages" {
		t.Fatalf("unexpected persisted values: %v", reread.AllSettings())
	}
}

func TestSetters_Reject(t *testing.T) {
	v := viper.New()
	if _, err := SetAPIKey(v, "a b"); !apperr.IsUser(err) {
		t.Fatalf("expected user error, got %v", err)
	}
	if _, err := SetResultFolder(v, "  "); !apperr.IsUser(err) {
		t.Fatalf("expected user error, got %v", err)
	}
}

func TestLoadDotEnv(t *testing.T) {
	t.Setenv("EPD2LCABYG_RESULT_FOLDER", "")
	os.Unsetenv("EPD2LCABYG_RESULT_FOLDER")

	p := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(p, []byte("EPD2LCABYG_RESULT_FOLDER=from-dotenv\n"), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	LoadDotEnv(p)
	LoadDotEnv(filepath.Join(t.TempDir(), "missing.env"))

	v := viper.New()
	Bind(v)
	if got := v.GetString(KeyResultFolder); got != "from-dotenv" {
		t.Fatalf("result folder = %q", got)
	}
}

func TestMasked(t *testing.T) {
	if Masked("") != "(not set)" || Masked("abc") != "***" || Masked("abcdefgh") != "****efgh" {
		t.Fatalf("unexpected masking")
	}
}
