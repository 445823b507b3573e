package game

import (
	"github.com/mphaphulimavhungu/casino/internal/deck"
)

// Validate checks whether seat may perform a in the current state. It never
// modifies the round. Checks run in a fixed order so each illegal action
// maps to a single rejection kind.
func (r *Round) Validate(seat int, a Action) error {
	if r.Phase != InPlay {
		return reject(KindWrongPhase, "round is %s", r.Phase)
	}
	if seat < 0 || seat >= len(r.Players) {
		return reject(KindMalformedAction, "no seat %d", seat)
	}
	if a.Kind == ActionExchange {
		return r.validateExchange(seat, a)
	}
	if seat != r.Active {
		return reject(KindNotYourTurn, "seat %d to act", r.Active)
	}
	if !a.HandCard.IsValid() {
		return reject(KindMalformedAction, "hand card required")
	}
	if !deck.Contains(r.Players[seat].Hand, a.HandCard) {
		return reject(KindCardNotInHand, "%s is not in hand", a.HandCard)
	}

	switch a.Kind {
	case ActionThrow:
		return nil
	case ActionCaptureSingle:
		return r.validateCapture(a)
	case ActionCaptureBuild:
		return r.validateCaptureBuild(a)
	case ActionCreateBuild:
		return r.validateCreateBuild(seat, a)
	case ActionStealBuild:
		return r.validateSteal(seat, a)
	default:
		return reject(KindMalformedAction, "unknown action %s", a.Kind)
	}
}

func (r *Round) validateCapture(a Action) error {
	if !a.TableCard.IsValid() {
		return reject(KindMalformedAction, "table card required")
	}
	if r.Table.InBuild(a.TableCard) {
		return reject(KindIllegalBuildMutation, "%s is part of a build", a.TableCard)
	}
	if !r.Table.HasLoose(a.TableCard) {
		return reject(KindNoMatchingCard, "%s is not on the table", a.TableCard)
	}
	if a.TableCard.Value() != a.HandCard.Value() {
		return reject(KindNoMatchingCard, "%s does not match %s", a.HandCard, a.TableCard)
	}
	return nil
}

func (r *Round) validateCaptureBuild(a Action) error {
	t0, t1 := a.Target[0], a.Target[1]
	if !t0.IsValid() || !t1.IsValid() || t0 == t1 {
		return reject(KindMalformedAction, "build target needs two distinct cards")
	}
	i := r.Table.BuildIndex(t0, t1)
	if i < 0 {
		return reject(KindNoMatchingBuild, "no build %s+%s on the table", t0, t1)
	}
	if v := r.Table.Builds[i].Value; v != a.HandCard.Value() {
		return reject(KindNoMatchingBuild, "%s cannot capture a build of %d", a.HandCard, v)
	}
	return nil
}

func (r *Round) validateCreateBuild(seat int, a Action) error {
	if !a.TableCard.IsValid() {
		return reject(KindMalformedAction, "table card required")
	}
	if r.Table.InBuild(a.TableCard) {
		return reject(KindIllegalBuildMutation, "%s is already in a build", a.TableCard)
	}
	if !r.Table.HasLoose(a.TableCard) {
		return reject(KindNoBuildableSum, "%s is not loose on the table", a.TableCard)
	}
	sum := a.HandCard.Value() + a.TableCard.Value()
	if a.BuildValue != 0 && a.BuildValue != sum {
		return reject(KindNoBuildableSum, "%s+%s is %d, not %d", a.HandCard, a.TableCard, sum, a.BuildValue)
	}
	if !hasValueExcept(r.Players[seat].Hand, sum, a.HandCard) {
		return reject(KindNoFollowUpCard, "no card in hand captures %d", sum)
	}
	return nil
}

func (r *Round) validateSteal(seat int, a Action) error {
	if a.FromSeat < 0 || a.FromSeat >= len(r.Players) {
		return reject(KindMalformedAction, "no seat %d", a.FromSeat)
	}
	if a.FromSeat == seat {
		return reject(KindMalformedAction, "cannot steal from own pile")
	}
	if !a.StolenCard.IsValid() || !a.TableCard.IsValid() {
		return reject(KindMalformedAction, "stolen card and table card required")
	}

	top, ok := r.Players[a.FromSeat].PileTop()
	if !ok {
		return reject(KindPileNotVisible, "seat %d has no pile", a.FromSeat)
	}
	if a.StolenCard != top {
		if deck.Contains(r.Players[a.FromSeat].Pile, a.StolenCard) {
			return reject(KindCardNotTopOfPile, "%s is not on top of seat %d's pile", a.StolenCard, a.FromSeat)
		}
		return reject(KindPileNotVisible, "%s is not visible in seat %d's pile", a.StolenCard, a.FromSeat)
	}

	if r.Table.InBuild(a.TableCard) {
		return reject(KindIllegalBuildMutation, "%s is already in a build", a.TableCard)
	}
	if !r.Table.HasLoose(a.TableCard) {
		return reject(KindNoBuildableSum, "%s is not loose on the table", a.TableCard)
	}
	sum := a.StolenCard.Value() + a.TableCard.Value()
	if a.BuildValue != 0 && a.BuildValue != sum {
		return reject(KindNoBuildableSum, "%s+%s is %d, not %d", a.StolenCard, a.TableCard, sum, a.BuildValue)
	}
	if a.HandCard.Value() != sum {
		return reject(KindNotImmediateUse, "%s cannot capture a build of %d", a.HandCard, sum)
	}
	return nil
}

func (r *Round) validateExchange(seat int, a Action) error {
	if !r.ExchangeOpen() {
		return reject(KindExchangeUnavailable, "exchange is closed")
	}
	if a.HandCard.IsValid() && a.HandCard != threeOfHearts {
		return reject(KindMalformedAction, "only the 3♥ can be exchanged")
	}
	if !deck.Contains(r.Players[seat].Hand, threeOfHearts) {
		return reject(KindExchangeUnavailable, "3♥ is not in hand")
	}
	return nil
}

// hasValueExcept reports whether hand holds a card other than skip with
// value v
func hasValueExcept(hand []deck.Card, v int, skip deck.Card) bool {
	for _, c := range hand {
		if c != skip && c.Value() == v {
			return true
		}
	}
	return false
}
