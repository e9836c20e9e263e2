package app

import (
	"time"

	"github.com/hyperifyio/idscan/internal/fetch"
)

// Config holds runtime configuration for the application.
type Config struct {
	ImagePath string

	// Optional YAML/JSON config file, see LoadConfigFile
	ConfigPath string

	// Fetch
	Timeout      time.Duration
	UserAgent    string
	MaxRedirects int

	// Decode
	TryHarder bool

	// Field pattern overrides keyed by record field name
	Patterns map[string]string

	Verbose bool
}

// DefaultConfig returns the built-in settings that file and env layers refine.
func DefaultConfig() Config {
	return Config{
		Timeout:      fetch.DefaultTimeout,
		UserAgent:    fetch.DefaultUserAgent,
		MaxRedirects: fetch.DefaultRedirectHops,
		TryHarder:    true,
	}
}
