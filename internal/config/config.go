package config

import (
	"fmt"
	"os"

	"github.com/spf13/viper"
)

// Load builds a Config from the process environment, applying the
// defaults named in the external interface: DNS_BIND_ADDR
// (0.0.0.0:1053), API_BIND_ADDR (0.0.0.0:8080), METRICS_PORT (9090),
// SERVER_ID (dns-server-<pid>), LOG_LEVEL (info), LOG_FORMAT (text).
func Load() *Config {
	v := viper.New()

	v.SetDefault("DNS_BIND_ADDR", "0.0.0.0:1053")
	v.SetDefault("API_BIND_ADDR", "0.0.0.0:8080")
	v.SetDefault("METRICS_PORT", 9090)
	v.SetDefault("SERVER_ID", defaultServerID())
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "text")

	v.AutomaticEnv()

	return &Config{
		DNSBindAddr: v.GetString("DNS_BIND_ADDR"),
		APIBindAddr: v.GetString("API_BIND_ADDR"),
		MetricsPort: v.GetInt("METRICS_PORT"),
		ServerID:    v.GetString("SERVER_ID"),
		LogLevel:    v.GetString("LOG_LEVEL"),
		LogFormat:   v.GetString("LOG_FORMAT"),
	}
}

func defaultServerID() string {
	return fmt.Sprintf("dns-server-%d", os.Getpid())
}
