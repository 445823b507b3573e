package server

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "casino.hcl")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()
	require.NoError(t, config.Validate())
	assert.Equal(t, "localhost:8080", config.Addr())

	opts, err := config.SessionOptions()
	require.NoError(t, err)
	assert.Equal(t, 2, opts.PlayerCount)
	assert.Equal(t, 45*time.Second, opts.TurnTimeout)
	assert.Equal(t, 2*time.Minute, opts.ReconnectWindow)
	assert.Equal(t, PolicyStandIn, opts.AbandonPolicy)
	assert.True(t, opts.ShowRunningScores)
}

func TestLoadConfigMissingFile(t *testing.T) {
	config, err := LoadConfig(filepath.Join(t.TempDir(), "nope.hcl"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), config)
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
server {
  port      = 9090
  log_level = "debug"
}

session {
  player_count        = 3
  turn_timeout        = "30s"
  abandon_policy      = "forfeit"
  seed                = 7
  show_running_scores = false
}
`)
	config, err := LoadConfig(path)
	require.NoError(t, err)
	require.NoError(t, config.Validate())

	assert.Equal(t, "localhost:9090", config.Addr())
	assert.Equal(t, "debug", config.Server.LogLevel)

	opts, err := config.SessionOptions()
	require.NoError(t, err)
	assert.Equal(t, SessionOptions{
		PlayerCount:       3,
		TurnTimeout:       30 * time.Second,
		ReconnectWindow:   2 * time.Minute,
		AbandonPolicy:     PolicyForfeit,
		Seed:              7,
		ShowRunningScores: false,
	}, opts)
}

func TestLoadConfigParseError(t *testing.T) {
	_, err := LoadConfig(writeConfig(t, `server {`))
	assert.Error(t, err)

	_, err = LoadConfig(writeConfig(t, `server { bogus = 1 }`))
	assert.Error(t, err)
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"port", func(c *Config) { c.Server.Port = 70000 }},
		{"log level", func(c *Config) { c.Server.LogLevel = "loud" }},
		{"player count", func(c *Config) { c.Session.PlayerCount = 4 }},
		{"turn timeout too short", func(c *Config) { c.Session.TurnTimeout = "10s" }},
		{"turn timeout too long", func(c *Config) { c.Session.TurnTimeout = "2m" }},
		{"turn timeout unparsable", func(c *Config) { c.Session.TurnTimeout = "soon" }},
		{"reconnect window", func(c *Config) { c.Session.ReconnectWindow = "5m" }},
		{"policy", func(c *Config) { c.Session.AbandonPolicy = "kick" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := DefaultConfig()
			tt.mutate(config)
			assert.Error(t, config.Validate())
		})
	}

	config := DefaultConfig()
	config.Session.TurnTimeout = "0s"
	assert.NoError(t, config.Validate(), "zero disables the turn timer")
}

func TestConfigEncodeRoundTrip(t *testing.T) {
	config := DefaultConfig()
	config.Session.PlayerCount = 3
	config.Session.AbandonPolicy = string(PolicyForfeit)

	loaded, err := LoadConfig(writeConfig(t, string(config.Encode())))
	require.NoError(t, err)
	assert.Equal(t, config, loaded)
}
