package config

import (
	"fmt"
	"strconv"
)

// Config represents the persistent steer configuration stored as config.toml
// in the .steer/ directory. The TOML layout uses sections for logical grouping.
type Config struct {
	Version int           `toml:"version"`
	Client  ClientConfig  `toml:"client"`
	Console ConsoleConfig `toml:"console"`
}

// ClientConfig holds settings for commands that connect to the assistant
// backend (console, status, docs). APITarget is a full URL (scheme + host +
// port).
type ClientConfig struct {
	APITarget      string `toml:"api_target,omitempty"`
	TimeoutSeconds uint   `toml:"timeout_seconds,omitempty"`
}

// ConsoleConfig holds console display settings.
type ConsoleConfig struct {
	PageLimit uint   `toml:"page_limit,omitempty"`
	StartTab  string `toml:"start_tab,omitempty"`
}

// configKeyInfo maps a user-facing dotted key name to a getter and setter on *Config.
type configKeyInfo struct {
	get func(c *Config) string
	set func(c *Config, v string) error
}

// configKeys is the authoritative map of all supported config keys.
// Keys use dotted notation matching the TOML section structure.
var configKeys = map[string]configKeyInfo{
	"client.api_target": {
		get: func(c *Config) string { return c.Client.APITarget },
		set: func(c *Config, v string) error { c.Client.APITarget = v; return nil },
	},
	"client.timeout_seconds": {
		get: func(c *Config) string {
			if c.Client.TimeoutSeconds == 0 {
				return ""
			}
			return strconv.FormatUint(uint64(c.Client.TimeoutSeconds), 10)
		},
		set: func(c *Config, v string) error {
			n, err := strconv.ParseUint(v, 10, 64)
			if err != nil {
				return fmt.Errorf("invalid value for client.timeout_seconds: %w", err)
			}
			c.Client.TimeoutSeconds = uint(n)
			return nil
		},
	},
	"console.page_limit": {
		get: func(c *Config) string {
			if c.Console.PageLimit == 0 {
				return ""
			}
			return strconv.FormatUint(uint64(c.Console.PageLimit), 10)
		},
		set: func(c *Config, v string) error {
			n, err := strconv.ParseUint(v, 10, 64)
			if err != nil {
				return fmt.Errorf("invalid value for console.page_limit: %w", err)
			}
			c.Console.PageLimit = uint(n)
			return nil
		},
	},
	"console.start_tab": {
		get: func(c *Config) string { return c.Console.StartTab },
		set: func(c *Config, v string) error {
			switch v {
			case "intents", "querylogs", "fewshots", "dashboard":
				c.Console.StartTab = v
				return nil
			default:
				return fmt.Errorf("invalid value for console.start_tab: %q (intents|querylogs|fewshots|dashboard)", v)
			}
		},
	},
}
