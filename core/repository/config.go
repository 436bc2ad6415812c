package repository

// Config selects the repository backend and the impersonated account.
type Config struct {
	// Backend chooses the implementation: "mysql" or "memory".
	Backend string `mapstructure:"backend" default:"mysql"`
	// User is the login impersonated for every batch. Empty disables
	// impersonation.
	User string `mapstructure:"user" default:"admin"`
}

const (
	BackendMySQL  = "mysql"
	BackendMemory = "memory"
)

// IsValidBackend checks if the configured backend is known.
func (c Config) IsValidBackend() bool {
	switch c.Backend {
	case BackendMySQL, BackendMemory:
		return true
	default:
		return false
	}
}
