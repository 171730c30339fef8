// Package config loads runtime settings for the shop client. Sources are
// layered: built-in defaults, then a .env file / environment variables, then
// a JSON file, then command-line flags. Later sources take precedence.
package config

import "time"

// Config holds runtime settings for the shop client.
//
// Fields:
//   - BackendBaseURL: scheme://host:port of the shop backend.
//   - RequestTimeout: per-request HTTP timeout.
//   - StateDBPath: path of the sqlite file holding persisted client state
//     (currently just the bearer token).
type Config struct {
	BackendBaseURL string
	RequestTimeout time.Duration
	StateDBPath    string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.BackendBaseURL = "http://127.0.0.1:8000"
	c.RequestTimeout = 15 * time.Second
	c.StateDBPath = "shop.db"
}

// LoadConfig constructs a Config, applies defaults, then overlays values
// from the environment, JSON (if a config file was given) and command-line
// flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)
	parseJSON(cfg)
	parseFlags(cfg)
	return cfg
}
