// Package game implements the authoritative rules engine for a 40-card
// Casino-family capture game for two or three players.
//
// The main type is Round, which owns every container a card can live in:
// the players' hands and captured piles, the table (loose cards and
// two-card builds), the undealt stock, and a discard for the end-of-round
// sweep when nobody captured.
//
// # Basic Usage
//
//	r, err := game.NewRound(game.Config{PlayerIDs: []string{"alice", "bob"}, Seed: 42})
//	if err != nil {
//	    return err
//	}
//	res, err := r.Apply(r.Active, game.ThrowCard(r.Players[r.Active].Hand[0]))
//	if game.KindOf(err) == game.KindNotYourTurn {
//	    // rejected, state unchanged
//	}
//	if res.RoundOver {
//	    scores := r.Scores()
//	}
//
// # Validation and application
//
// Validate is side-effect free: it checks one proposed action against the
// current state and returns a typed *Error naming the rejection reason.
// Apply runs Validate and, on success, mutates the round, advances the turn,
// deals the second hand (two players) and runs the end-of-round sweep and
// scoring when every hand and the stock are empty. Transition does the same
// on a clone so callers can explore moves without touching the original.
//
// # Determinism
//
// All randomness comes from the round seed: the shuffle and the starting
// seat are drawn from randutil.New(seed), so a stored seed replays the deal.
//
// # Invariants
//
// CheckInvariants verifies that the 40 cards are each in exactly one
// container and that every build holds two cards summing to its value. A
// failure is an engine defect and is reported as *InvariantError.
package game
