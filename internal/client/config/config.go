// Package config loads runtime settings for the fintrack CLI.
package config

import "time"

// Config holds runtime settings for the fintrack CLI.
//
// Fields:
//   - APIBaseURL: base URL of the backend REST API, including the version
//     prefix (e.g. http://localhost:8000/api/v1).
//   - RequestTimeout: fixed per-request timeout of the HTTP pipeline.
//   - DatabaseDSN: path of the local sqlite session cache.
type Config struct {
	APIBaseURL     string
	RequestTimeout time.Duration
	DatabaseDSN    string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = "http://localhost:8000/api/v1"
	c.RequestTimeout = 10 * time.Second
	c.DatabaseDSN = "fintrack.db"
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
