package simulator

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mphaphulimavhungu/casino/internal/bot"
	"github.com/mphaphulimavhungu/casino/internal/game"
)

func TestRunIsReproducible(t *testing.T) {
	t.Parallel()

	cfg := Config{Rounds: 40, Strategies: []string{"greedy", "random", "lowest"}, Seed: 9}

	cfg.Workers = 1
	serial, err := New(cfg).Run(context.Background())
	require.NoError(t, err)

	cfg.Workers = 8
	parallel, err := New(cfg).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, serial, parallel)
	assert.Equal(t, 40, serial.Rounds)

	wins := 0
	for _, s := range serial.Slots {
		wins += s.Wins
		assert.LessOrEqual(t, s.Best, 11)
	}
	assert.LessOrEqual(t, wins, 40)
}

func TestRunRejectsBadConfig(t *testing.T) {
	_, err := New(Config{Rounds: 1, Strategies: []string{"greedy"}}).Run(context.Background())
	assert.Error(t, err)

	_, err = New(Config{Rounds: 1, Strategies: []string{"greedy", "shark"}}).Run(context.Background())
	assert.Error(t, err)
}

func TestPlayRound(t *testing.T) {
	r, err := PlayRound(
		game.Config{PlayerIDs: []string{"a", "b"}, Seed: 77},
		[]bot.Strategy{bot.Greedy{}, bot.Lowest{}},
	)
	require.NoError(t, err)
	assert.Equal(t, game.Scored, r.Phase)
	assert.Len(t, r.Scores(), 2)
}

func TestPrintSummary(t *testing.T) {
	res, err := New(Config{Rounds: 4, Strategies: []string{"greedy", "lowest"}, Seed: 1}).Run(context.Background())
	require.NoError(t, err)

	var buf bytes.Buffer
	PrintSummary(&buf, res)
	assert.Contains(t, buf.String(), "4 rounds")
	assert.Contains(t, buf.String(), "greedy")
}
