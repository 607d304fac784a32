package journal

// Config holds configuration for the export journal database.
// An empty host disables the journal.
type Config struct {
	// Host is the database host. Empty disables the journal.
	Host string `mapstructure:"host" default:""`
	// Port is the database port.
	Port int `mapstructure:"port" default:"3306"`
	// User is the database user.
	User string `mapstructure:"user" default:"root"`
	// Password is the database password.
	Password string `mapstructure:"password" default:""`
	// Name is the database name.
	Name string `mapstructure:"name" default:"orders_export"`
	// TimeoutSeconds bounds connection setup and I/O.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"30"`
}

// Enabled reports whether a journal database is configured.
func (c Config) Enabled() bool {
	return c.Host != ""
}
