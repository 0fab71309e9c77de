package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"github.com/stefanpenner/stratlife/pkg/ai"
	"github.com/stefanpenner/stratlife/pkg/store"
)

// EnvPrefix scopes environment overrides, e.g. STRATLIFE_MODEL.
const EnvPrefix = "STRATLIFE"

// Config holds all runtime configuration.
// Values are populated from config.yaml, STRATLIFE_* env vars, and CLI flags.
type Config struct {
	DataDir  string `mapstructure:"data_dir"`
	APIKey   string `mapstructure:"api_key"`
	Model    string `mapstructure:"model"`
	LogLevel string `mapstructure:"log_level"`
	LogFile  string `mapstructure:"log_file"`
	JSON     bool   `mapstructure:"json"`
}

// Init points viper at the config file and environment. An explicit
// cfgFile wins; otherwise config.yaml in the data dir, then ~/.stratlife.yaml.
// A missing file is not an error.
func Init(cfgFile string) error {
	viper.SetEnvPrefix(EnvPrefix)
	viper.AutomaticEnv()

	if cfgFile == "" {
		cfgFile = discover(dataDir())
	}
	if cfgFile == "" {
		return nil
	}
	viper.SetConfigFile(cfgFile)
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) || errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("reading config %s: %w", cfgFile, err)
	}
	return nil
}

func dataDir() string {
	if dir := viper.GetString("data_dir"); dir != "" {
		return dir
	}
	return store.DefaultDataDir()
}

func discover(dir string) string {
	candidates := []string{filepath.Join(dir, "config.yaml")}
	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(home, ".stratlife.yaml"))
	}
	for _, c := range candidates {
		if _, err := os.Stat(c); err == nil {
			return c
		}
	}
	return ""
}

// Load reads configuration from viper, applying built-in defaults for any
// values not set by config file, environment, or flags.
func Load() (Config, error) {
	viper.SetDefault("data_dir", store.DefaultDataDir())
	viper.SetDefault("api_key", "")
	viper.SetDefault("model", ai.DefaultModel)
	viper.SetDefault("log_level", "info")
	viper.SetDefault("log_file", "")
	viper.SetDefault("json", false)

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decoding config: %w", err)
	}

	if cfg.APIKey == "" {
		for _, env := range []string{"GEMINI_API_KEY", "API_KEY"} {
			if v := os.Getenv(env); v != "" {
				cfg.APIKey = v
				break
			}
		}
	}
	if cfg.LogFile == "" {
		cfg.LogFile = filepath.Join(cfg.DataDir, "stratlife.log")
	}
	return cfg, nil
}
