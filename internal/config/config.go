package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all client settings. Values are fixed at startup; nothing
// rewrites the config after Load returns.
type Config struct {
	Backend  BackendConfig  `yaml:"backend"`
	Download DownloadConfig `yaml:"download"`
	Log      LogConfig      `yaml:"log"`
}

type BackendConfig struct {
	URL     string        `yaml:"url"`
	Timeout time.Duration `yaml:"timeout"`
}

type DownloadConfig struct {
	Dir string `yaml:"dir"`
}

type LogConfig struct {
	File string `yaml:"file"`
}

// Default returns the built-in settings used when no config file exists.
func Default() *Config {
	return &Config{
		Backend: BackendConfig{
			URL:     "http://127.0.0.1:8000/api",
			Timeout: 30 * time.Second,
		},
		Download: DownloadConfig{
			Dir: ".",
		},
		Log: LogConfig{
			File: "chemviz-tui.log",
		},
	}
}

// LoadOrDefault reads the config file if it exists and falls back to the
// defaults when it does not.
func LoadOrDefault(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return Default(), nil
	}
	return Load(path)
}

// Load reads a YAML config file over the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}
