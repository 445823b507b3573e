package main

import (
	"context"
	"time"

	"github.com/coder/quartz"
	"golang.org/x/sync/errgroup"

	"github.com/mphaphulimavhungu/casino/cmd/casino/shared"
	"github.com/mphaphulimavhungu/casino/internal/server"
)

// ServerCmd runs the websocket server. Flags override the config file.
type ServerCmd struct {
	Config          string `kong:"default='casino.hcl',help='HCL config file (defaults apply when missing)'"`
	Address         string `kong:"help='Listen address'"`
	Port            int    `kong:"help='Listen port'"`
	LogLevel        string `kong:"help='Log level (debug|info|warn|error)'"`
	Players         int    `kong:"help='Players per session (2 or 3)'"`
	TurnTimeout     string `kong:"help='Turn timeout, 30s to 60s, or 0s to disable'"`
	ReconnectWindow string `kong:"help='Reconnection window, 2m to 3m'"`
	AbandonPolicy   string `kong:"help='What happens when the reconnection window runs out (standin|forfeit)'"`
	Seed            *int64 `kong:"help='Deterministic seed for every session (optional)'"`
}

func (c *ServerCmd) apply(config *server.Config) {
	if c.Address != "" {
		config.Server.Address = c.Address
	}
	if c.Port != 0 {
		config.Server.Port = c.Port
	}
	if c.LogLevel != "" {
		config.Server.LogLevel = c.LogLevel
	}
	if c.Players != 0 {
		config.Session.PlayerCount = c.Players
	}
	if c.TurnTimeout != "" {
		config.Session.TurnTimeout = c.TurnTimeout
	}
	if c.ReconnectWindow != "" {
		config.Session.ReconnectWindow = c.ReconnectWindow
	}
	if c.AbandonPolicy != "" {
		config.Session.AbandonPolicy = c.AbandonPolicy
	}
	if c.Seed != nil {
		config.Session.Seed = *c.Seed
	}
}

func (c *ServerCmd) Run() error {
	config, err := server.LoadConfig(c.Config)
	if err != nil {
		return err
	}
	c.apply(config)
	if err := config.Validate(); err != nil {
		return err
	}
	opts, err := config.SessionOptions()
	if err != nil {
		return err
	}

	logger, err := shared.SetupLogger(config.Server.LogLevel)
	if err != nil {
		return err
	}

	store := server.NewStore(opts, quartz.NewReal(), logger)
	srv, err := server.NewServer(config.Addr(), store, logger)
	if err != nil {
		return err
	}

	logger.Info("Starting casino server",
		"addr", config.Addr(),
		"players", opts.PlayerCount,
		"turn_timeout", opts.TurnTimeout,
		"reconnect_window", opts.ReconnectWindow,
		"abandon_policy", opts.AbandonPolicy,
		"fixed_seed", opts.Seed != 0)

	g, ctx := errgroup.WithContext(shared.SetupSignalHandler(logger))
	g.Go(srv.Start)
	g.Go(func() error {
		<-ctx.Done()
		logger.Info("Shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
