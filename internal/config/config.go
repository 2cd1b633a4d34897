package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

type LogLevel string

const (
	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"

	envConfigPath = "FILEORG_CONFIG"

	defaultProgressEvery = 25
)

type AnalyzerConfig struct {
	ProgressEvery int      `yaml:"progress_every"`
	Excludes      []string `yaml:"excludes"`
}

type ExporterConfig struct {
	ProgressEvery     int    `yaml:"progress_every"`
	PreserveStructure bool   `yaml:"preserve_structure"`
	Mode              string `yaml:"mode"`
}

type Config struct {
	LogLevel      LogLevel       `yaml:"log_level"`
	InventoryPath string         `yaml:"inventory_path"`
	Analyzer      AnalyzerConfig `yaml:"analyzer"`
	Exporter      ExporterConfig `yaml:"exporter"`
}

func defaultConfig() *Config {
	return &Config{
		LogLevel:      LogLevelInfo,
		InventoryPath: "fileorg.db",
		Analyzer:      AnalyzerConfig{ProgressEvery: defaultProgressEvery},
		Exporter:      ExporterConfig{ProgressEvery: defaultProgressEvery, Mode: "copy"},
	}
}

// Load reads the yaml config at path. A missing file is not an error: the
// defaults are returned, so the CLI works without any config at all. An
// optional .env file may override the config location via FILEORG_CONFIG.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	if env := os.Getenv(envConfigPath); env != "" {
		path = env
	}

	cfg := defaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}

		return nil, fmt.Errorf("cannot read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("cannot parse config file: %w", err)
	}

	if cfg.Analyzer.ProgressEvery <= 0 {
		cfg.Analyzer.ProgressEvery = defaultProgressEvery
	}
	if cfg.Exporter.ProgressEvery <= 0 {
		cfg.Exporter.ProgressEvery = defaultProgressEvery
	}

	return cfg, nil
}

func MustLoad(path string) *Config {
	cfg, err := Load(path)
	if err != nil {
		panic(err)
	}

	return cfg
}
