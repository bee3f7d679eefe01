package config

// Config is built once per process and shared by every invocation.
type Config struct {
	// Environment holds defaults with environment (and secret) values
	// already applied. Invocation overrides are layered on by Resolve.
	Environment Settings

	PostgresPort    string
	PostgresSSLMode string

	// TolerateConnectErrors keeps an invocation going when a store fails
	// its connectivity check; the failure then surfaces on first use.
	TolerateConnectErrors bool
}

// Resolve returns the settings for one invocation.
func (c Config) Resolve(o Overrides) Settings {
	return c.Environment.Apply(o)
}
