package config

import (
	"fmt"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadAppliesDefaults(t *testing.T) {
	for _, key := range envKeys {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}

	cfg := Load()

	assert.Equal(t, "0.0.0.0:1053", cfg.DNSBindAddr)
	assert.Equal(t, "0.0.0.0:8080", cfg.APIBindAddr)
	assert.Equal(t, 9090, cfg.MetricsPort)
	assert.Equal(t, fmt.Sprintf("dns-server-%d", os.Getpid()), cfg.ServerID)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
}

func TestLoadReadsEnvironmentOverrides(t *testing.T) {
	t.Setenv("DNS_BIND_ADDR", "127.0.0.1:12312")
	t.Setenv("API_BIND_ADDR", "127.0.0.1:9999")
	t.Setenv("METRICS_PORT", "9091")
	t.Setenv("SERVER_ID", "test-instance")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "json")

	cfg := Load()

	assert.Equal(t, "127.0.0.1:12312", cfg.DNSBindAddr)
	assert.Equal(t, "127.0.0.1:9999", cfg.APIBindAddr)
	assert.Equal(t, 9091, cfg.MetricsPort)
	assert.Equal(t, "test-instance", cfg.ServerID)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
}

var envKeys = []string{
	"DNS_BIND_ADDR", "API_BIND_ADDR", "METRICS_PORT", "SERVER_ID", "LOG_LEVEL", "LOG_FORMAT",
}
