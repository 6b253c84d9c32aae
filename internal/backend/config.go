package backend

import "time"

// Config holds configuration for the backend client.
type Config struct {
	// BaseURL is the scheme and host of the stock backend.
	BaseURL string
	// Timeout bounds every request.
	Timeout time.Duration
	// UserAgent is sent with each request.
	UserAgent string
}

// DefaultConfig returns a Config with reasonable defaults.
func DefaultConfig() Config {
	return Config{
		BaseURL:   "http://localhost:8000",
		Timeout:   10 * time.Second,
		UserAgent: "stocksuggester/1.0",
	}
}

func (c Config) withDefaults() Config {
	def := DefaultConfig()
	if c.BaseURL == "" {
		c.BaseURL = def.BaseURL
	}
	if c.Timeout <= 0 {
		c.Timeout = def.Timeout
	}
	if c.UserAgent == "" {
		c.UserAgent = def.UserAgent
	}
	return c
}
