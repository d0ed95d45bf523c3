package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.yaml.in/yaml/v3"
)

type TelegramConfig struct {
	BotToken string `yaml:"bot_token"`
}

type Config struct {
	Port      string         `yaml:"port"`
	DBPath    string         `yaml:"db_path"`
	SecretKey string         `yaml:"secret_key"`
	Timezone  string         `yaml:"timezone"`
	LogLevel  string         `yaml:"log_level"`
	Telegram  TelegramConfig `yaml:"telegram"`
}

func defaults() Config {
	return Config{
		Port:      "8080",
		DBPath:    filepath.Join("data", "habita.db"),
		SecretKey: "change_me_in_production",
		Timezone:  "UTC",
		LogLevel:  "info",
	}
}

// Load builds the runtime configuration from defaults, an optional YAML file
// and environment variable overrides, in that order of precedence.
func Load(path string) (Config, error) {
	cfg := defaults()

	if strings.TrimSpace(path) != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config file %s: %w", path, err)
		}
	}

	applyEnv(&cfg.Port, "PORT")
	applyEnv(&cfg.DBPath, "DB_PATH")
	applyEnv(&cfg.SecretKey, "SECRET_KEY")
	applyEnv(&cfg.Timezone, "TZ")
	applyEnv(&cfg.LogLevel, "LOG_LEVEL")
	applyEnv(&cfg.Telegram.BotToken, "TELEGRAM_BOT_TOKEN")

	return cfg, nil
}

func applyEnv(target *string, key string) {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		*target = value
	}
}
