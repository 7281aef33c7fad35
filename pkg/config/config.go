package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// StoreConfig locates the shared record store file.
type StoreConfig struct {
	Path string `yaml:"path"`
}

// BrowserConfig holds the browser session settings.
type BrowserConfig struct {
	Headless           bool `yaml:"headless"`
	PageLoadTimeoutSec int  `yaml:"page_load_timeout_sec"`
	ElementTimeoutSec  int  `yaml:"element_timeout_sec"`
	SettleWaitSec      int  `yaml:"settle_wait_sec"`
}

// SearchConfig holds the discovery pipeline settings.
type SearchConfig struct {
	QueryPrefix   string  `yaml:"query_prefix"`
	ResultWaitSec int     `yaml:"result_wait_sec"`
	PauseSec      float64 `yaml:"pause_between_queries_sec"`
}

// ConverterConfig holds the conversion pipeline settings.
type ConverterConfig struct {
	BaseURL                  string  `yaml:"base_url"`
	DownloadButtonTimeoutSec int     `yaml:"download_button_timeout_sec"`
	DownloadDetectTimeoutSec int     `yaml:"download_detect_timeout_sec"`
	PauseSec                 float64 `yaml:"pause_between_entries_sec"`
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level    string `yaml:"level"`
	Encoding string `yaml:"encoding"`
}

// Config is the complete structure for the config.yml file.
type Config struct {
	Store     StoreConfig     `yaml:"store"`
	Browser   BrowserConfig   `yaml:"browser"`
	Search    SearchConfig    `yaml:"search"`
	Converter ConverterConfig `yaml:"converter"`
	Log       LogConfig       `yaml:"log"`
}

// Default returns the built-in configuration. Override in config.yml.
func Default() *Config {
	return &Config{
		Store: StoreConfig{Path: "tunes_database.json"},
		Browser: BrowserConfig{
			Headless:           true,
			PageLoadTimeoutSec: 20,
			ElementTimeoutSec:  2,
			SettleWaitSec:      3,
		},
		Search: SearchConfig{
			QueryPrefix:   "song: ",
			ResultWaitSec: 15,
			PauseSec:      0.8,
		},
		Converter: ConverterConfig{
			BaseURL:                  "https://y2mate.nu/R2lu/",
			DownloadButtonTimeoutSec: 60,
			DownloadDetectTimeoutSec: 10,
			PauseSec:                 2,
		},
		Log: LogConfig{Level: "info", Encoding: "console"},
	}
}

// Load reads a config file over the defaults. An empty path falls back to
// config.yml when present, otherwise pure defaults are returned.
func Load(path string) (*Config, error) {
	cfg := Default()

	optional := false
	if path == "" {
		path = "config.yml"
		optional = true
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if optional && os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config YAML: %w", err)
	}
	return cfg, nil
}

func (c BrowserConfig) PageLoadTimeout() time.Duration {
	return time.Duration(c.PageLoadTimeoutSec) * time.Second
}

func (c BrowserConfig) ElementTimeout() time.Duration {
	return time.Duration(c.ElementTimeoutSec) * time.Second
}

func (c BrowserConfig) SettleWait() time.Duration {
	return time.Duration(c.SettleWaitSec) * time.Second
}

func (c SearchConfig) ResultWait() time.Duration {
	return time.Duration(c.ResultWaitSec) * time.Second
}

func (c SearchConfig) Pause() time.Duration {
	return time.Duration(c.PauseSec * float64(time.Second))
}

func (c ConverterConfig) DownloadButtonTimeout() time.Duration {
	return time.Duration(c.DownloadButtonTimeoutSec) * time.Second
}

func (c ConverterConfig) DownloadDetectTimeout() time.Duration {
	return time.Duration(c.DownloadDetectTimeoutSec) * time.Second
}

func (c ConverterConfig) Pause() time.Duration {
	return time.Duration(c.PauseSec * float64(time.Second))
}
