package config

const (
	defaultAPITarget      = "http://localhost:8000"
	defaultTimeoutSeconds = 30

	defaultPageLimit = 100
	defaultStartTab  = "intents"
)

// NewDefaultConfig returns a Config with sane defaults for all fields.
// This is the single source of truth for default values.
func NewDefaultConfig() *Config {
	return &Config{
		Version: CurrentV,
		Client: ClientConfig{
			APITarget:      defaultAPITarget,
			TimeoutSeconds: defaultTimeoutSeconds,
		},
		Console: ConsoleConfig{
			PageLimit: defaultPageLimit,
			StartTab:  defaultStartTab,
		},
	}
}
