package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	appDir   = ".mindfocus"
	fileName = "config.yaml"
)

type Config struct {
	DataPath      string `yaml:"-"`
	DBPath        string `yaml:"db_path"`
	ProvidersPath string `yaml:"providers_path"`
	LogLevel      string `yaml:"log_level"`
	LogFormat     string `yaml:"log_format"`
	HTTPAddr      string `yaml:"http_addr"`
	DesktopNotify bool   `yaml:"desktop_notify"`
	Seed          uint64 `yaml:"seed"`
}

// Default returns the configuration used when no file or environment
// override is present.
func Default(dataPath string) Config {
	return Config{
		DataPath:      dataPath,
		DBPath:        filepath.Join(dataPath, appDir, "mindfocus.db"),
		ProvidersPath: filepath.Join(dataPath, appDir, "providers.yaml"),
		LogLevel:      "info",
		LogFormat:     "text",
		HTTPAddr:      "127.0.0.1:7420",
	}
}

// New resolves configuration for dataPath. Precedence, lowest first:
// defaults, <data>/.mindfocus/config.yaml, .env, MINDFOCUS_* variables.
func New(dataPath string) (Config, error) {
	if dataPath == "" {
		dataPath = os.Getenv("MINDFOCUS_DATA")
	}
	if dataPath == "" {
		return Config{}, fmt.Errorf("data path is required")
	}
	cfg := Default(dataPath)
	if err := loadFromFile(&cfg, filepath.Join(dataPath, appDir, fileName)); err != nil {
		return Config{}, err
	}
	_ = godotenv.Load()
	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	cfg.DBPath = resolve(dataPath, cfg.DBPath)
	cfg.ProvidersPath = resolve(dataPath, cfg.ProvidersPath)
	return cfg, nil
}

func loadFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("decode config %s: %w", path, err)
	}
	return nil
}

func applyEnv(cfg *Config) error {
	cfg.DBPath = getenvDefault("MINDFOCUS_DB", cfg.DBPath)
	cfg.ProvidersPath = getenvDefault("MINDFOCUS_PROVIDERS", cfg.ProvidersPath)
	cfg.LogLevel = getenvDefault("MINDFOCUS_LOG_LEVEL", cfg.LogLevel)
	cfg.LogFormat = getenvDefault("MINDFOCUS_LOG_FORMAT", cfg.LogFormat)
	cfg.HTTPAddr = getenvDefault("MINDFOCUS_HTTP_ADDR", cfg.HTTPAddr)
	if v := os.Getenv("MINDFOCUS_DESKTOP_NOTIFY"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("config: MINDFOCUS_DESKTOP_NOTIFY=%q: %w", v, err)
		}
		cfg.DesktopNotify = b
	}
	if v := os.Getenv("MINDFOCUS_SEED"); v != "" {
		seed, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return fmt.Errorf("config: MINDFOCUS_SEED=%q: %w", v, err)
		}
		cfg.Seed = seed
	}
	return nil
}

func getenvDefault(k, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(k)); v != "" {
		return v
	}
	return fallback
}

func resolve(base, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(base, path)
}
