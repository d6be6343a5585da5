package config

import "time"

// Config holds runtime settings for the account client.
//
// Durations are time.Duration values; flags give them in whole seconds.
// SessionTTL of zero means a stored session never expires locally.
type Config struct {
	ServerEndpointURL   string
	AvatarEndpointURL   string
	DatabasePath        string
	RequestTimeout      time.Duration
	OnlineCheckInterval time.Duration
	SessionTTL          time.Duration
	LogLevel            string
	LogFormat           string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerEndpointURL = "http://127.0.0.1:8080/auth"
	c.AvatarEndpointURL = "http://127.0.0.1:8080/upload-avatar"
	c.DatabasePath = "session.db"
	c.RequestTimeout = 10 * time.Second
	c.OnlineCheckInterval = 3 * time.Second
	c.SessionTTL = 0
	c.LogLevel = "info"
	c.LogFormat = "text"
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
