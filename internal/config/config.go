// Package config resolves the persistent settings of the CLI from a .env
// file, the environment and the viper config file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/epd-tools/epd2lcabyg/internal/apperr"
)

// EnvPrefix is prepended to every environment key: api_key ->
// EPD2LCABYG_API_KEY, cache.ttl -> EPD2LCABYG_CACHE_TTL.
const EnvPrefix = "EPD2LCABYG"

// FileName is the config file looked up in the home directory.
const FileName = ".epd2lcabyg"

const (
	KeyAPIKey       = "api_key"
	KeyResultFolder = "result_folder"
	KeyTimeout      = "timeout"
	KeyNode         = "node"
	KeyCachePath    = "cache.path"
	KeyCacheTTL     = "cache.ttl"
	KeyCacheOff     = "cache.disabled"
	KeyStrategy     = "resolve.strategy"
	KeyAnswers      = "resolve.answers"
)

// Config is the typed view of the settings.
type Config struct {
	APIKey       string
	ResultFolder string
	Timeout      time.Duration
	Node         string
	CachePath    string
	CacheTTL     time.Duration
	NoCache      bool
	Strategy     string
	AnswersFile  string
}

var apiKeyPattern = regexp.MustCompile(`^[-._A-Za-z0-9]*$`)

// LoadDotEnv loads .env files into the process environment. Missing files
// are ignored and variables already set are kept.
func LoadDotEnv(paths ...string) {
	_ = godotenv.Load(paths...)
}

// Bind enables environment lookup on v and registers the defaults.
func Bind(v *viper.Viper) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	v.SetDefault(KeyResultFolder, "results")
	v.SetDefault(KeyTimeout, 30*time.Second)
	v.SetDefault(KeyNode, "ECOPLATFORM")
	v.SetDefault(KeyCacheTTL, 24*time.Hour)
	v.SetDefault(KeyStrategy, "interactive")
}

// Load reads the settings from v.
func Load(v *viper.Viper) (Config, error) {
	cfg := Config{
		APIKey:       strings.TrimSpace(v.GetString(KeyAPIKey)),
		ResultFolder: v.GetString(KeyResultFolder),
		Timeout:      v.GetDuration(KeyTimeout),
		Node:         v.GetString(KeyNode),
		CachePath:    v.GetString(KeyCachePath),
		CacheTTL:     v.GetDuration(KeyCacheTTL),
		NoCache:      v.GetBool(KeyCacheOff),
		Strategy:     v.GetString(KeyStrategy),
		AnswersFile:  v.GetString(KeyAnswers),
	}
	if err := ValidateAPIKey(cfg.APIKey); err != nil {
		return Config{}, err
	}
	if cfg.Timeout <= 0 {
		return Config{}, apperr.Userf("invalid %s %q: must be positive", KeyTimeout, v.GetString(KeyTimeout))
	}
	if cfg.CachePath == "" {
		p, err := DefaultCachePath()
		if err != nil {
			return Config{}, err
		}
		cfg.CachePath = p
	}
	return cfg, nil
}

// ValidateAPIKey checks that key only holds token characters.
func ValidateAPIKey(key string) error {
	if !apiKeyPattern.MatchString(key) {
		return apperr.Userf("invalid API key: only letters, digits and -._ are allowed")
	}
	return nil
}

// SetAPIKey validates key and persists it.
func SetAPIKey(v *viper.Viper, key string) (string, error) {
	key = strings.TrimSpace(key)
	if err := ValidateAPIKey(key); err != nil {
		return "", err
	}
	v.Set(KeyAPIKey, key)
	return Save(v)
}

// SetResultFolder persists the folder stages are written to.
func SetResultFolder(v *viper.Viper, folder string) (string, error) {
	folder = strings.TrimSpace(folder)
	if folder == "" {
		return "", apperr.Userf("result folder must not be empty")
	}
	v.Set(KeyResultFolder, folder)
	return Save(v)
}

// Save writes v to the config file in use, or to the default file in the
// home directory when none was read. It returns the path written.
func Save(v *viper.Viper) (string, error) {
	path := v.ConfigFileUsed()
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return "", err
		}
		path = p
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", err
	}
	if err := v.WriteConfigAs(path); err != nil {
		return "", fmt.Errorf("write config %s: %w", path, err)
	}
	return path, nil
}

// DefaultPath is $HOME/.epd2lcabyg.yaml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, FileName+".yaml"), nil
}

// DefaultCachePath is the sqlite file under the user cache directory.
func DefaultCachePath() (string, error) {
	dir, err := os.UserCacheDir()
	if err != nil {
		return "", errors.Join(errors.New("locate cache directory"), err)
	}
	return filepath.Join(dir, "epd2lcabyg", "responses.db"), nil
}

// Masked hides all but the last four characters of key.
func Masked(key string) string {
	if key == "" {
		return "(not set)"
	}
	if len(key) <= 4 {
		return strings.Repeat("*", len(key))
	}
	return strings.Repeat("*", len(key)-4) + key[len(key)-4:]
}
