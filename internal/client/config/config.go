package config

import (
	"time"
)

// Config holds runtime settings for the operator console.
//
// Fields:
//   - ServerBaseURL: scheme://host[:port] of the backend REST API.
//   - StateDBPath: sqlite file holding the session and the submission journal.
//   - RequestTimeout: per-request timeout; zero leaves the transport default.
//   - LogLevel: debug, info, warn or error.
type Config struct {
	ServerBaseURL  string
	StateDBPath    string
	RequestTimeout time.Duration
	LogLevel       string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerBaseURL = "http://127.0.0.1:8080"
	c.StateDBPath = "console.db"
	c.RequestTimeout = 0
	c.LogLevel = "info"
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
