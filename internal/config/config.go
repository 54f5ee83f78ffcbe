// Package config handles configuration for ladderweb.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"
)

// DefaultBaseURL is where the ladder backend listens by default
const DefaultBaseURL = "http://localhost:5050"

// EnvBaseURL overrides the configured backend URL
const EnvBaseURL = "LADDERWEB_URL"

// MarkdownConfig configures markdown rendering options
type MarkdownConfig struct {
	Style            string `json:"style"`              // "dark", "light", or a glamour style name
	EnableEmoji      bool   `json:"enable_emoji"`       // Convert :emoji: to unicode
	PreserveNewLines bool   `json:"preserve_newlines"`  // Preserve original line breaks
	TableWrap        bool   `json:"table_wrap"`         // Enable word wrap in table cells
	InlineTableLinks bool   `json:"inline_table_links"` // Render links inline in tables
}

// PollConfig holds the telemetry refresh intervals in seconds
type PollConfig struct {
	GPU      int `json:"gpu"`
	Health   int `json:"health"`
	Progress int `json:"progress"`
}

// Config represents the user configuration
type Config struct {
	// BaseURL is the root of the ladder backend, without a trailing slash.
	BaseURL string `json:"base_url"`
	// RequestTimeout is the per-request timeout in seconds. Chat calls can
	// take minutes when the agent runs a pipeline step.
	RequestTimeout int  `json:"request_timeout"`
	InsecureTLS    bool `json:"insecure_tls"`
	// UseRAG is the default for the chat "use_rag" flag.
	UseRAG          bool           `json:"use_rag"`
	CopyToClipboard bool           `json:"copy_to_clipboard"`
	TUITheme        string         `json:"tui_theme,omitempty"`
	LogLevel        string         `json:"log_level"`
	LogFormat       string         `json:"log_format"`
	Poll            PollConfig     `json:"poll"`
	Markdown        MarkdownConfig `json:"markdown,omitempty"`
}

// DefaultMarkdownConfig returns the default markdown configuration
func DefaultMarkdownConfig() MarkdownConfig {
	return MarkdownConfig{
		Style:            "dark",
		EnableEmoji:      true,
		PreserveNewLines: true,
		TableWrap:        true,
		InlineTableLinks: false,
	}
}

// DefaultPollConfig returns the dashboard refresh cadence
func DefaultPollConfig() PollConfig {
	return PollConfig{
		GPU:      5,
		Health:   30,
		Progress: 60,
	}
}

// DefaultConfig returns the default configuration
func DefaultConfig() Config {
	return Config{
		BaseURL:         DefaultBaseURL,
		RequestTimeout:  300,
		InsecureTLS:     false,
		UseRAG:          true,
		CopyToClipboard: false,
		TUITheme:        "tokyonight",
		LogLevel:        "info",
		LogFormat:       "text",
		Poll:            DefaultPollConfig(),
		Markdown:        DefaultMarkdownConfig(),
	}
}

// Timeout returns the request timeout as a duration
func (c Config) Timeout() time.Duration {
	if c.RequestTimeout <= 0 {
		return 300 * time.Second
	}
	return time.Duration(c.RequestTimeout) * time.Second
}

// Interval converts a poll setting to a duration, falling back to def when unset
func Interval(seconds int, def time.Duration) time.Duration {
	if seconds <= 0 {
		return def
	}
	return time.Duration(seconds) * time.Second
}

// GetConfigDir returns the configuration directory path
func GetConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	configDir := filepath.Join(home, ".ladderweb")
	return configDir, nil
}

// EnsureConfigDir creates the configuration directory if it doesn't exist
func EnsureConfigDir() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(configDir, 0o700); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}

	return configDir, nil
}

// GetConfigPath returns the path to the config file
func GetConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "config.json"), nil
}

// GetLogPath returns the path to the log file
func GetLogPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "ladderweb.log"), nil
}

// LoadConfig loads the configuration from disk and applies environment overrides
func LoadConfig() (Config, error) {
	cfg := DefaultConfig()

	configPath, err := GetConfigPath()
	if err != nil {
		return cfg, err
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			applyEnv(&cfg)
			return cfg, nil // Use defaults if config doesn't exist
		}
		return cfg, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := json.Unmarshal(data, &cfg); err != nil {
		return DefaultConfig(), fmt.Errorf("failed to parse config file: %w", err)
	}

	applyEnv(&cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if url := strings.TrimSpace(os.Getenv(EnvBaseURL)); url != "" {
		cfg.BaseURL = url
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
}

// SaveConfig saves the configuration to disk
func SaveConfig(cfg Config) error {
	configDir, err := EnsureConfigDir()
	if err != nil {
		return err
	}

	configPath := filepath.Join(configDir, "config.json")

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// setters maps user-facing keys to field assignments
var setters = map[string]func(*Config, string) error{
	"base_url": func(c *Config, v string) error {
		c.BaseURL = strings.TrimRight(v, "/")
		return nil
	},
	"request_timeout": func(c *Config, v string) error {
		return setInt(&c.RequestTimeout, v)
	},
	"insecure_tls": func(c *Config, v string) error {
		return setBool(&c.InsecureTLS, v)
	},
	"use_rag": func(c *Config, v string) error {
		return setBool(&c.UseRAG, v)
	},
	"copy_to_clipboard": func(c *Config, v string) error {
		return setBool(&c.CopyToClipboard, v)
	},
	"tui_theme": func(c *Config, v string) error {
		c.TUITheme = v
		return nil
	},
	"log_level": func(c *Config, v string) error {
		c.LogLevel = v
		return nil
	},
	"log_format": func(c *Config, v string) error {
		if v != "text" && v != "json" {
			return fmt.Errorf("log_format must be text or json, got %q", v)
		}
		c.LogFormat = v
		return nil
	},
	"markdown.emoji": func(c *Config, v string) error {
		return setBool(&c.Markdown.EnableEmoji, v)
	},
	"markdown.preserve_newlines": func(c *Config, v string) error {
		return setBool(&c.Markdown.PreserveNewLines, v)
	},
	"markdown.table_wrap": func(c *Config, v string) error {
		return setBool(&c.Markdown.TableWrap, v)
	},
	"markdown.inline_table_links": func(c *Config, v string) error {
		return setBool(&c.Markdown.InlineTableLinks, v)
	},
	"markdown.style": func(c *Config, v string) error {
		c.Markdown.Style = v
		return nil
	},
	"poll.gpu": func(c *Config, v string) error {
		return setInt(&c.Poll.GPU, v)
	},
	"poll.health": func(c *Config, v string) error {
		return setInt(&c.Poll.Health, v)
	},
	"poll.progress": func(c *Config, v string) error {
		return setInt(&c.Poll.Progress, v)
	},
}

// Set assigns a single key on cfg from its string form
func Set(cfg *Config, key, value string) error {
	fn, ok := setters[key]
	if !ok {
		return fmt.Errorf("unknown config key %q (valid: %s)", key, strings.Join(Keys(), ", "))
	}
	return fn(cfg, value)
}

// Keys returns the settable config keys in sorted order
func Keys() []string {
	keys := make([]string, 0, len(setters))
	for k := range setters {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func setInt(dst *int, v string) error {
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("invalid integer %q: %w", v, err)
	}
	if n < 0 {
		return fmt.Errorf("value must not be negative, got %d", n)
	}
	*dst = n
	return nil
}

func setBool(dst *bool, v string) error {
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fmt.Errorf("invalid boolean %q: %w", v, err)
	}
	*dst = b
	return nil
}
