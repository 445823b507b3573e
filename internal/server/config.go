package server

import (
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/hashicorp/hcl/v2/hclwrite"
)

// Config represents the complete server configuration
type Config struct {
	Server  *ServerSettings  `hcl:"server,block"`
	Session *SessionSettings `hcl:"session,block"`
}

// ServerSettings contains server-level configuration
type ServerSettings struct {
	Address  string `hcl:"address,optional"`
	Port     int    `hcl:"port,optional"`
	LogLevel string `hcl:"log_level,optional"`
}

// SessionSettings configures every session the server creates
type SessionSettings struct {
	PlayerCount       int    `hcl:"player_count,optional"`
	TurnTimeout       string `hcl:"turn_timeout,optional"`
	ReconnectWindow   string `hcl:"reconnect_window,optional"`
	AbandonPolicy     string `hcl:"abandon_policy,optional"`
	Seed              int64  `hcl:"seed,optional"`
	ShowRunningScores *bool  `hcl:"show_running_scores,optional"`
}

const (
	minTurnTimeout     = 30 * time.Second
	maxTurnTimeout     = 60 * time.Second
	minReconnectWindow = 2 * time.Minute
	maxReconnectWindow = 3 * time.Minute
)

// DefaultConfig returns default server configuration
func DefaultConfig() *Config {
	show := true
	return &Config{
		Server: &ServerSettings{
			Address:  "localhost",
			Port:     8080,
			LogLevel: "info",
		},
		Session: &SessionSettings{
			PlayerCount:       2,
			TurnTimeout:       "45s",
			ReconnectWindow:   "2m",
			AbandonPolicy:     string(PolicyStandIn),
			ShowRunningScores: &show,
		},
	}
}

// LoadConfig loads server configuration from an HCL file. A missing file
// yields the defaults.
func LoadConfig(filename string) (*Config, error) {
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return DefaultConfig(), nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var config Config
	diags = gohcl.DecodeBody(file.Body, nil, &config)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	config.applyDefaults()
	return &config, nil
}

func (c *Config) applyDefaults() {
	def := DefaultConfig()
	if c.Server == nil {
		c.Server = def.Server
	}
	if c.Session == nil {
		c.Session = def.Session
	}
	if c.Server.Address == "" {
		c.Server.Address = def.Server.Address
	}
	if c.Server.Port == 0 {
		c.Server.Port = def.Server.Port
	}
	if c.Server.LogLevel == "" {
		c.Server.LogLevel = def.Server.LogLevel
	}
	if c.Session.PlayerCount == 0 {
		c.Session.PlayerCount = def.Session.PlayerCount
	}
	if c.Session.TurnTimeout == "" {
		c.Session.TurnTimeout = def.Session.TurnTimeout
	}
	if c.Session.ReconnectWindow == "" {
		c.Session.ReconnectWindow = def.Session.ReconnectWindow
	}
	if c.Session.AbandonPolicy == "" {
		c.Session.AbandonPolicy = def.Session.AbandonPolicy
	}
	if c.Session.ShowRunningScores == nil {
		c.Session.ShowRunningScores = def.Session.ShowRunningScores
	}
}

// Validate validates the server configuration
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Server.Port)
	}
	if _, err := log.ParseLevel(c.Server.LogLevel); err != nil {
		return fmt.Errorf("invalid log level %q: %w", c.Server.LogLevel, err)
	}
	_, err := c.SessionOptions()
	return err
}

// Addr returns the listen address
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Address, c.Server.Port)
}

// SessionOptions parses and range-checks the session settings
func (c *Config) SessionOptions() (SessionOptions, error) {
	s := c.Session
	opts := SessionOptions{
		PlayerCount:       s.PlayerCount,
		AbandonPolicy:     AbandonPolicy(s.AbandonPolicy),
		Seed:              s.Seed,
		ShowRunningScores: s.ShowRunningScores == nil || *s.ShowRunningScores,
	}

	var err error
	if opts.TurnTimeout, err = time.ParseDuration(s.TurnTimeout); err != nil {
		return opts, fmt.Errorf("invalid turn_timeout: %w", err)
	}
	if opts.ReconnectWindow, err = time.ParseDuration(s.ReconnectWindow); err != nil {
		return opts, fmt.Errorf("invalid reconnect_window: %w", err)
	}
	return opts, opts.Validate()
}

// Encode renders the configuration as HCL
func (c *Config) Encode() []byte {
	f := hclwrite.NewEmptyFile()
	gohcl.EncodeIntoBody(c, f.Body())
	return f.Bytes()
}
