package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	defaultTimezone = "UTC"
	configPathEnv   = "PAPER_SUMMARIZER_CONFIG"
	openAIKeyEnv    = "OPENAI_API_KEY"
	openAIModelEnv  = "OPENAI_MODEL"
	storeRootEnv    = "STORE_ROOT"
	historyPathEnv  = "HISTORY_PATH"
)

// Config holds high-level settings required across the application.
type Config struct {
	Store     StoreConfig     `yaml:"store"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
	OpenAI    OpenAIConfig    `yaml:"openai"`
	History   HistoryConfig   `yaml:"history"`
	Logging   LoggingConfig   `yaml:"logging"`
	Sites     []SiteConfig    `yaml:"sites"`
}

// StoreConfig describes where cache artifacts live.
type StoreConfig struct {
	Root string `yaml:"root"`
}

// SchedulerConfig defines when recurring runs trigger in watch mode.
type SchedulerConfig struct {
	Interval string         `yaml:"interval"`
	Timezone string         `yaml:"timezone"`
	location *time.Location `yaml:"-"`
}

// Every parses the configured interval, reverting to 24h on bad input.
func (s SchedulerConfig) Every() time.Duration {
	d, err := time.ParseDuration(s.Interval)
	if err != nil || d <= 0 {
		return 24 * time.Hour
	}
	return d
}

// Location resolves the scheduler timezone string to a time.Location.
func (s SchedulerConfig) Location() *time.Location {
	if s.location != nil {
		return s.location
	}
	loc, _ := time.LoadLocation(defaultTimezone)
	return loc
}

// OpenAIConfig defines how to contact the chat completions API.
type OpenAIConfig struct {
	Endpoint            string `yaml:"endpoint"`
	Model               string `yaml:"model"`
	APIKey              string `yaml:"apiKey"`
	MaxCompletionTokens int    `yaml:"maxCompletionTokens"`
	MaxInputRunes       int    `yaml:"maxInputRunes"`
}

// HistoryConfig wires the optional run-history database.
type HistoryConfig struct {
	Path string `yaml:"path"`
}

// LoggingConfig controls console verbosity.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// SiteConfig describes a single listing site with its scanner strategy.
type SiteConfig struct {
	Name     string            `yaml:"name"`
	Scanner  string            `yaml:"scanner"`
	Category string            `yaml:"category"`
	URL      string            `yaml:"url"`
	Limit    int               `yaml:"limit"`
	Options  map[string]string `yaml:"options"`
}

// Load reads YAML configuration (if present) and applies environment
// overrides.
func Load() Config {
	cfg := defaultConfig()

	if path := os.Getenv(configPathEnv); path != "" {
		if raw, err := os.ReadFile(path); err != nil {
			log.Printf("config: cannot read %s: %v (falling back to defaults)", path, err)
		} else {
			var fileCfg Config
			if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
				log.Printf("config: cannot parse %s: %v (falling back to defaults)", path, err)
			} else {
				cfg = mergeConfig(cfg, fileCfg)
			}
		}
	}

	cfg.applyEnvOverrides()
	cfg.bindTimezone()

	if len(cfg.Sites) == 0 {
		cfg.Sites = defaultConfig().Sites
	}

	return cfg
}

// Validate reports startup-level misconfiguration. A missing API key is
// fatal before any per-item work begins.
func (c Config) Validate() error {
	if c.OpenAI.APIKey == "" {
		return fmt.Errorf("%s is not set", openAIKeyEnv)
	}
	if c.Store.Root == "" {
		return fmt.Errorf("store root is not configured")
	}
	return nil
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(openAIKeyEnv); v != "" {
		c.OpenAI.APIKey = v
	}

	if v := os.Getenv(openAIModelEnv); v != "" {
		c.OpenAI.Model = v
	}

	if v := os.Getenv(storeRootEnv); v != "" {
		c.Store.Root = v
	}

	if v := os.Getenv(historyPathEnv); v != "" {
		c.History.Path = v
	}
}

func (c *Config) bindTimezone() {
	tz := c.Scheduler.Timezone
	if tz == "" {
		tz = defaultTimezone
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		log.Printf("config: unknown timezone %s, reverting to %s", tz, defaultTimezone)
		loc, _ = time.LoadLocation(defaultTimezone)
	}
	c.Scheduler.location = loc
}

func mergeConfig(base, override Config) Config {
	if override.Store.Root != "" {
		base.Store = override.Store
	}

	if override.Scheduler.Interval != "" {
		base.Scheduler.Interval = override.Scheduler.Interval
	}
	if override.Scheduler.Timezone != "" {
		base.Scheduler.Timezone = override.Scheduler.Timezone
	}

	if override.OpenAI.Endpoint != "" {
		base.OpenAI.Endpoint = override.OpenAI.Endpoint
	}
	if override.OpenAI.Model != "" {
		base.OpenAI.Model = override.OpenAI.Model
	}
	if override.OpenAI.APIKey != "" {
		base.OpenAI.APIKey = override.OpenAI.APIKey
	}
	if override.OpenAI.MaxCompletionTokens != 0 {
		base.OpenAI.MaxCompletionTokens = override.OpenAI.MaxCompletionTokens
	}
	if override.OpenAI.MaxInputRunes != 0 {
		base.OpenAI.MaxInputRunes = override.OpenAI.MaxInputRunes
	}

	if override.History.Path != "" {
		base.History = override.History
	}

	if override.Logging.Level != "" {
		base.Logging = override.Logging
	}

	if len(override.Sites) > 0 {
		base.Sites = override.Sites
	}

	return base
}

func defaultConfig() Config {
	tz, _ := time.LoadLocation(defaultTimezone)

	root := "ras"
	if home, err := os.UserHomeDir(); err == nil {
		root = filepath.Join(home, "ras")
	}

	return Config{
		Store:     StoreConfig{Root: root},
		Scheduler: SchedulerConfig{Interval: "24h", Timezone: defaultTimezone, location: tz},
		OpenAI: OpenAIConfig{
			Endpoint:            "https://api.openai.com/v1/chat/completions",
			Model:               "gpt-4o-mini",
			APIKey:              "",
			MaxCompletionTokens: 2000,
			MaxInputRunes:       50000,
		},
		History: HistoryConfig{Path: ""},
		Logging: LoggingConfig{Level: "info"},
		Sites: []SiteConfig{
			{
				Name:     "arxiv",
				Scanner:  "arxiv",
				Category: "cs.AI",
				URL:      "https://arxiv.org/list/cs.AI/recent",
				Limit:    100,
			},
		},
	}
}
