package logger

// Config holds configuration for the logger.
type Config struct {
	// Level sets the minimum log level (debug, info, warn, error).
	Level string `mapstructure:"level" default:"info"`
	// Format selects the encoding: json or console.
	Format string `mapstructure:"format" default:"json"`
}
