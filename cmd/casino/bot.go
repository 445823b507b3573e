package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/mphaphulimavhungu/casino/cmd/casino/shared"
	"github.com/mphaphulimavhungu/casino/internal/bot"
	"github.com/mphaphulimavhungu/casino/internal/client"
	"github.com/mphaphulimavhungu/casino/internal/randutil"
)

// BotCmd joins one seat of a session and plays it with a strategy
type BotCmd struct {
	Strategy string `arg:"" optional:"" help:"Strategy (greedy, lowest, random); overrides the config file"`
	Config   string `help:"HCL client config file (defaults apply when missing)" default:"casino-bot.hcl"`
	URL      string `help:"Server URL, e.g. ws://localhost:8080/ws"`
	Session  string `help:"Session to join; leave empty with --create"`
	Create   int    `help:"Create a session for this many players before joining"`
	Name     string `help:"Player id for the seat"`
	Seed     int64  `help:"Seed for the random strategy (0 for time based)"`
	LogLevel string `help:"Log level (debug|info|warn|error)"`
}

func (c *BotCmd) Run() error {
	config, err := client.LoadClientConfig(c.Config)
	if err != nil {
		return err
	}
	if c.Strategy != "" {
		config.Player.Strategy = c.Strategy
	}
	if c.URL != "" {
		config.Server.URL = c.URL
	}
	if c.Name != "" {
		config.Player.Name = c.Name
	}
	if c.LogLevel != "" {
		config.Player.LogLevel = c.LogLevel
	}
	if err := config.Validate(); err != nil {
		return err
	}

	logger, err := shared.SetupLogger(config.Player.LogLevel)
	if err != nil {
		return err
	}
	seed := c.Seed
	if seed == 0 {
		seed = randutil.NewSeed()
	}
	strategy, err := bot.New(config.Player.Strategy, randutil.New(seed))
	if err != nil {
		return err
	}

	ctx := shared.SetupSignalHandler(logger)
	sessionID := c.Session
	if sessionID == "" {
		if c.Create == 0 {
			return fmt.Errorf("either --session or --create is required")
		}
		if sessionID, err = createSession(ctx, config, c.Create); err != nil {
			return err
		}
		fmt.Fprintln(os.Stdout, sessionID)
	}

	player := client.NewPlayer(config.PlayerOptions(sessionID), strategy, logger)
	end, err := player.Run(ctx)
	if err != nil {
		return err
	}

	for _, sc := range end.Scores {
		fmt.Fprintf(os.Stdout, "%-12s %2d pts  (%d cards, %d spades, %d aces)\n",
			sc.PlayerID, sc.Total, sc.Cards, sc.Spades, sc.Aces)
	}
	fmt.Fprintf(os.Stdout, "winners: %v\n", end.Winners)
	return nil
}

func createSession(ctx context.Context, config *client.ClientConfig, players int) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, time.Duration(config.Server.ConnectTimeout)*time.Second)
	defer cancel()

	c := client.NewClient(config.Server.URL, shared.Discard())
	if err := c.Connect(ctx); err != nil {
		return "", err
	}
	defer c.Disconnect()
	return c.CreateAndWait(ctx, players)
}
