// Package simulator plays complete rounds between bot strategies without a
// server and aggregates their scores.
package simulator

import (
	"context"
	"fmt"
	"io"
	"runtime"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/mphaphulimavhungu/casino/internal/bot"
	"github.com/mphaphulimavhungu/casino/internal/game"
	"github.com/mphaphulimavhungu/casino/internal/randutil"
)

// maxSteps bounds a single round; a legal round needs at most 40 plays plus
// one steal per loose card.
const maxSteps = 400

// Config holds configuration for running simulations
type Config struct {
	Rounds     int
	Strategies []string // one per seat; the player count is len(Strategies)
	Seed       int64
	Workers    int
	Logger     *log.Logger
}

// SlotStats aggregates one strategy slot across rounds. Slots rotate
// through the seats so no strategy keeps the same position.
type SlotStats struct {
	Strategy string `json:"strategy"`
	Points   int    `json:"points"`
	Wins     int    `json:"wins"`
	Ties     int    `json:"ties"`
	Best     int    `json:"best"`
}

// Mean returns the average points per round
func (s SlotStats) Mean(rounds int) float64 {
	if rounds == 0 {
		return 0
	}
	return float64(s.Points) / float64(rounds)
}

// Results is the outcome of a simulation
type Results struct {
	Rounds    int         `json:"rounds"`
	Slots     []SlotStats `json:"slots"`
	Unclaimed int         `json:"unclaimed"` // rounds where nobody captured and the sweep was discarded
}

type roundResult struct {
	index  int
	scores []game.Score // indexed by slot
	swept  bool
}

// Simulator runs seeded rounds concurrently
type Simulator struct {
	config Config
}

// New creates a new simulator with the given configuration
func New(config Config) *Simulator {
	if config.Workers <= 0 {
		config.Workers = runtime.GOMAXPROCS(0)
	}
	if config.Logger == nil {
		config.Logger = log.New(io.Discard)
	}
	return &Simulator{config: config}
}

// Run plays config.Rounds rounds. Round i uses seed Seed+i, so results are
// reproducible regardless of worker count.
func (s *Simulator) Run(ctx context.Context) (*Results, error) {
	n := len(s.config.Strategies)
	if n < game.MinPlayers || n > game.MaxPlayers {
		return nil, fmt.Errorf("need %d or %d strategies, got %d", game.MinPlayers, game.MaxPlayers, n)
	}
	for _, name := range s.config.Strategies {
		if _, err := bot.New(name, nil); err != nil {
			return nil, err
		}
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.config.Workers)
	results := make(chan roundResult, s.config.Workers)

	go func() {
		defer close(results)
		for i := 0; i < s.config.Rounds; i++ {
			if ctx.Err() != nil {
				break
			}
			g.Go(func() error {
				res, err := s.playRound(i)
				if err != nil {
					return err
				}
				select {
				case results <- res:
					return nil
				case <-ctx.Done():
					return ctx.Err()
				}
			})
		}
		_ = g.Wait()
	}()

	out := &Results{Slots: make([]SlotStats, n)}
	for i, name := range s.config.Strategies {
		out.Slots[i].Strategy = name
	}
	for res := range results {
		out.add(res)
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	s.config.Logger.Debug("Simulation complete", "rounds", out.Rounds, "unclaimed", out.Unclaimed)
	return out, nil
}

func (s *Simulator) playRound(i int) (roundResult, error) {
	n := len(s.config.Strategies)
	seed := s.config.Seed + int64(i)

	// slot k sits in seat (k+i)%n
	seats := make([]bot.Strategy, n)
	ids := make([]string, n)
	for k, name := range s.config.Strategies {
		seat := (k + i) % n
		strat, err := bot.New(name, randutil.New(seed*int64(n)+int64(k)))
		if err != nil {
			return roundResult{}, err
		}
		seats[seat] = strat
		ids[seat] = fmt.Sprintf("slot%d", k)
	}

	r, err := PlayRound(game.Config{PlayerIDs: ids, Seed: seed}, seats)
	if err != nil {
		return roundResult{}, fmt.Errorf("round %d (seed %d): %w", i, seed, err)
	}

	scores := r.Scores()
	res := roundResult{index: i, scores: make([]game.Score, n)}
	for k := range s.config.Strategies {
		res.scores[k] = scores[(k+i)%n]
	}
	_, to := r.Sweep()
	res.swept = to == game.NoSeat
	return res, nil
}

func (r *Results) add(res roundResult) {
	r.Rounds++
	if res.swept {
		r.Unclaimed++
	}
	winners := game.Winners(res.scores)
	for k, sc := range res.scores {
		slot := &r.Slots[k]
		slot.Points += sc.Total
		slot.Best = max(slot.Best, sc.Total)
	}
	for _, k := range winners {
		if len(winners) == 1 {
			r.Slots[k].Wins++
		} else {
			r.Slots[k].Ties++
		}
	}
}

// PlayRound plays one round to completion with one strategy per seat,
// checking the card invariants after every action.
func PlayRound(cfg game.Config, seats []bot.Strategy) (*game.Round, error) {
	r, err := game.NewRound(cfg)
	if err != nil {
		return nil, err
	}
	if len(seats) != r.Seats() {
		return nil, fmt.Errorf("%d strategies for %d seats", len(seats), r.Seats())
	}

	for step := 0; r.Phase == game.InPlay; step++ {
		if step >= maxSteps {
			return nil, fmt.Errorf("round did not finish in %d steps", maxSteps)
		}
		a, ok := seats[r.Active].Choose(r.View(r.Active))
		if !ok {
			return nil, fmt.Errorf("seat %d has no move", r.Active)
		}
		if _, err := r.Apply(r.Active, a); err != nil {
			return nil, fmt.Errorf("seat %d %s: %w", r.Active, a, err)
		}
		if err := r.CheckInvariants(); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// PrintSummary writes a plain-text summary of simulation results
func PrintSummary(w io.Writer, res *Results) {
	fmt.Fprintf(w, "\n=== RESULTS (%d rounds) ===\n", res.Rounds)
	for k, s := range res.Slots {
		fmt.Fprintf(w, "Slot %d %-8s %6.2f pts/round  best %2d  wins %d  ties %d\n",
			k, s.Strategy, s.Mean(res.Rounds), s.Best, s.Wins, s.Ties)
	}
	if res.Unclaimed > 0 {
		fmt.Fprintf(w, "Rounds without any capture: %d\n", res.Unclaimed)
	}
}
