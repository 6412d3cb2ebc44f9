package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config holds everything the batch runner needs.
type Config struct {
	Storage    StorageConfig    `mapstructure:"storage"`
	Log        LogConfig        `mapstructure:"log"`
	Evaluation EvaluationConfig `mapstructure:"evaluation"`
}

type StorageConfig struct {
	DBPath string `mapstructure:"db_path"`
}

type LogConfig struct {
	Path  string `mapstructure:"path"`
	Level string `mapstructure:"level"`
}

type EvaluationConfig struct {
	// Workers bounds how many players are evaluated concurrently.
	Workers int `mapstructure:"workers"`
	// RecentDays is the default window for the recent-awards report.
	RecentDays int `mapstructure:"recent_days"`
}

// Load reads configuration from an optional YAML file, with DUGOUT_-prefixed
// environment variables overriding file values and defaults filling the rest.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	v.SetDefault("storage.db_path", "dugout.db")
	v.SetDefault("log.path", "dugout.log")
	v.SetDefault("log.level", "info")
	v.SetDefault("evaluation.workers", 4)
	v.SetDefault("evaluation.recent_days", 7)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("dugout")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	v.SetEnvPrefix("DUGOUT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		// A missing default-location file is fine; defaults and env cover
		// everything. An explicit or broken file is not.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if cfg.Evaluation.Workers < 1 {
		cfg.Evaluation.Workers = 1
	}
	return &cfg, nil
}
