// Package config loads the server's environment-variable configuration
// using Viper: defaults set programmatically, then bound to environment
// variables via AutomaticEnv(). There is no config-file mechanism and no
// variable-name prefix — the six variables below are flat, top-level names.
package config

// Config is the root configuration structure.
type Config struct {
	DNSBindAddr string // DNS_BIND_ADDR
	APIBindAddr string // API_BIND_ADDR
	MetricsPort int    // METRICS_PORT
	ServerID    string // SERVER_ID
	LogLevel    string // LOG_LEVEL
	LogFormat   string // LOG_FORMAT
}
