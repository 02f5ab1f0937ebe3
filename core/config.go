package core

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

const (
	// DefaultAPIURL is the public tracking API endpoint used when the host
	// configuration does not override it.
	DefaultAPIURL = "https://api.gametrack.dev"

	DefaultHeartbeatInterval = 30 * time.Second
	DefaultAuthInterval      = 30 * time.Minute
)

type Config struct {
	// APIURL is the base URL of the remote tracking API.
	APIURL string `koanf:"api_url" mapstructure:"api_url"`
	// APIKey is the long-lived refresh key issued for this server. Empty
	// means authentication is disabled for the process lifetime: the token
	// refresh loop never starts and write operations are rejected.
	APIKey string `koanf:"api_key" mapstructure:"api_key"`
	// PluginVersion is reported alongside the refresh key when exchanging
	// it for an access token.
	PluginVersion string `koanf:"plugin_version" mapstructure:"plugin_version"`

	HeartbeatInterval time.Duration `koanf:"heartbeat_interval" mapstructure:"heartbeat_interval"`
	AuthInterval      time.Duration `koanf:"auth_interval" mapstructure:"auth_interval"`
}

func DefaultConfig() Config {
	return Config{
		APIURL:            DefaultAPIURL,
		PluginVersion:     "dev",
		HeartbeatInterval: DefaultHeartbeatInterval,
		AuthInterval:      DefaultAuthInterval,
	}
}

func (c Config) Validate() error {
	base := strings.TrimSpace(c.APIURL)
	if base == "" {
		return fmt.Errorf("core: api_url is required")
	}
	parsed, err := url.Parse(base)
	if err != nil {
		return fmt.Errorf("core: api_url is not a valid url: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("core: api_url must use http or https, got %q", parsed.Scheme)
	}
	if strings.TrimSpace(c.PluginVersion) == "" {
		return fmt.Errorf("core: plugin_version is required")
	}
	if c.HeartbeatInterval <= 0 {
		return fmt.Errorf("core: heartbeat_interval must be positive")
	}
	if c.AuthInterval <= 0 {
		return fmt.Errorf("core: auth_interval must be positive")
	}
	return nil
}

// Authenticates reports whether the configuration carries a refresh key.
func (c Config) Authenticates() bool {
	return strings.TrimSpace(c.APIKey) != ""
}

func (c Config) baseURL() string {
	return strings.TrimRight(strings.TrimSpace(c.APIURL), "/")
}
