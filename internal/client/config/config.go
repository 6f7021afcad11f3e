package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// MinDuration is the shortest accepted request timeout and online check
// interval.
const MinDuration = 100 * time.Millisecond

const (
	LogFormatConsole = "console"
	LogFormatJSON    = "json"
)

// Config holds runtime settings for the smartcalc CLI.
//
// Fields:
//   - ServerURL: API root including the version prefix, e.g. http://host:8000/api/v1.
//   - RequestTimeout: upper bound for a single API call.
//   - OnlineCheckInterval: how often the client probes server reachability.
//   - DatabasePath: SQLite file holding the persisted session.
//   - PageSize: initial history page size.
//   - LogLevel, LogFormat: diagnostics written to stderr.
type Config struct {
	ServerURL           string        `mapstructure:"server_url"`
	RequestTimeout      time.Duration `mapstructure:"request_timeout"`
	OnlineCheckInterval time.Duration `mapstructure:"online_check_interval"`
	DatabasePath        string        `mapstructure:"database_path"`
	PageSize            int           `mapstructure:"page_size"`
	LogLevel            string        `mapstructure:"log_level"`
	LogFormat           string        `mapstructure:"log_format"`
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerURL = "http://127.0.0.1:8000/api/v1"
	c.RequestTimeout = 10 * time.Second
	c.OnlineCheckInterval = 5 * time.Second
	c.DatabasePath = defaultDatabasePath()
	c.PageSize = 10
	c.LogLevel = "info"
	c.LogFormat = LogFormatConsole
}

// LoadConfig constructs a Config from defaults, then overlays the config file
// (if -c/-config is given), SMARTCALC_* environment variables and finally
// command-line flags. Later sources take precedence over earlier ones.
func LoadConfig(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if err := parseFile(cfg, args); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}

	cfg.DatabasePath = expandHome(cfg.DatabasePath)
	cfg.ServerURL = strings.TrimRight(strings.TrimSpace(cfg.ServerURL), "/")

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects values the client cannot run with.
func (c *Config) Validate() error {
	switch {
	case c.ServerURL == "":
		return fmt.Errorf("config: server url is empty")
	case c.RequestTimeout < MinDuration:
		return fmt.Errorf("config: request timeout must be at least %s, got %s", MinDuration, c.RequestTimeout)
	case c.OnlineCheckInterval < MinDuration:
		return fmt.Errorf("config: online check interval must be at least %s, got %s", MinDuration, c.OnlineCheckInterval)
	case c.DatabasePath == "":
		return fmt.Errorf("config: database path is empty")
	case c.PageSize < 1 || c.PageSize > 100:
		return fmt.Errorf("config: page size must be between 1 and 100, got %d", c.PageSize)
	case c.LogFormat != LogFormatConsole && c.LogFormat != LogFormatJSON:
		return fmt.Errorf("config: unknown log format %q", c.LogFormat)
	}
	return nil
}

func defaultDatabasePath() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return filepath.Join(".smartcalc", "session.db")
	}
	return filepath.Join(home, ".smartcalc", "session.db")
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
