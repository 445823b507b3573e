package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/mphaphulimavhungu/casino/cmd/casino/shared"
	"github.com/mphaphulimavhungu/casino/internal/fileutil"
	"github.com/mphaphulimavhungu/casino/internal/randutil"
	"github.com/mphaphulimavhungu/casino/internal/simulator"
)

// SimulateCmd plays rounds between strategies without a server
type SimulateCmd struct {
	Rounds   int      `kong:"default='1000',help='Rounds to play'"`
	Players  int      `kong:"default='2',help='Players per round (2 or 3)'"`
	Strategy []string `kong:"default='greedy',help='Strategy per seat; a single value fills every seat'"`
	Seed     int64    `kong:"help='Base seed (0 for random)'"`
	Workers  int      `kong:"help='Parallel workers (0 = GOMAXPROCS)'"`
	Output   string   `kong:"help='Also write results as JSON to this file'"`
	Force    bool     `kong:"help='Overwrite --output if it exists'"`
	LogLevel string   `kong:"default='warn',help='Log level (debug|info|warn|error)'"`
}

func (c *SimulateCmd) strategies() ([]string, error) {
	switch {
	case len(c.Strategy) == 1:
		s := make([]string, c.Players)
		for i := range s {
			s[i] = c.Strategy[0]
		}
		return s, nil
	case len(c.Strategy) == c.Players:
		return c.Strategy, nil
	default:
		return nil, fmt.Errorf("got %d strategies for %d players", len(c.Strategy), c.Players)
	}
}

func (c *SimulateCmd) Run() error {
	logger, err := shared.SetupLogger(c.LogLevel)
	if err != nil {
		return err
	}
	strategies, err := c.strategies()
	if err != nil {
		return err
	}
	seed := c.Seed
	if seed == 0 {
		seed = randutil.NewSeed()
	}
	logger.Info("Starting simulation", "rounds", c.Rounds, "strategies", strategies, "seed", seed)

	sim := simulator.New(simulator.Config{
		Rounds:     c.Rounds,
		Strategies: strategies,
		Seed:       seed,
		Workers:    c.Workers,
		Logger:     logger,
	})
	res, err := sim.Run(shared.SetupSignalHandler(logger))
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stdout, "seed %d\n", seed)
	simulator.PrintSummary(os.Stdout, res)

	if c.Output == "" {
		return nil
	}
	data, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return err
	}
	if err := fileutil.WriteFile(c.Output, append(data, '\n'), 0o644, c.Force); err != nil {
		return err
	}
	logger.Info("Wrote results", "file", c.Output)
	return nil
}
