// Package bot provides automated strategies that choose an action from a
// seat's view of the round. They drive disconnected seats on the server,
// the bot client and the simulator.
package bot

import (
	"fmt"
	rand "math/rand/v2"
	"sort"

	"github.com/mphaphulimavhungu/casino/internal/game"
)

// Strategy chooses the next action for the viewing seat. ok is false when
// the seat has nothing to do.
type Strategy interface {
	Name() string
	Choose(v game.View) (a game.Action, ok bool)
}

var registry = map[string]func(rng *rand.Rand) Strategy{
	"lowest": func(*rand.Rand) Strategy { return Lowest{} },
	"greedy": func(*rand.Rand) Strategy { return Greedy{} },
	"random": func(rng *rand.Rand) Strategy { return NewRandom(rng) },
}

// New returns the named strategy. rng is only used by strategies that
// need randomness.
func New(name string, rng *rand.Rand) (Strategy, error) {
	mk, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("unknown strategy %q (want one of %v)", name, Names())
	}
	return mk(rng), nil
}

// Names lists the registered strategy names
func Names() []string {
	names := make([]string, 0, len(registry))
	for n := range registry {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Lowest always throws its lowest card. It is the stand-in for abandoned
// seats and matches the forced throw on turn timeout.
type Lowest struct{}

func (Lowest) Name() string { return "lowest" }

func (Lowest) Choose(v game.View) (game.Action, bool) {
	if v.Phase != game.InPlay || v.Viewer != v.Active {
		return game.Action{}, false
	}
	c, ok := game.LowestCard(v.Hand)
	if !ok {
		return game.Action{}, false
	}
	return game.ThrowCard(c), true
}

// Random plays a uniformly random legal move
type Random struct {
	rng *rand.Rand
}

func NewRandom(rng *rand.Rand) *Random {
	return &Random{rng: rng}
}

func (*Random) Name() string { return "random" }

func (r *Random) Choose(v game.View) (game.Action, bool) {
	moves := v.LegalMoves()
	if len(moves) == 0 {
		return game.Action{}, false
	}
	return moves[r.rng.IntN(len(moves))], true
}
