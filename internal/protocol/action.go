package protocol

import (
	"github.com/mphaphulimavhungu/casino/internal/deck"
	"github.com/mphaphulimavhungu/casino/internal/game"
)

// Action type names on the wire
const (
	ActionCapture    = "capture"
	ActionBuild      = "build"
	ActionThrow      = "throw"
	ActionStealBuild = "steal-build"
	ActionExchange   = "exchange"
)

func malformed(msg string) error {
	return &game.Error{Kind: game.KindMalformedAction, Msg: msg}
}

// ToAction converts a wire action into an engine action. seatOf resolves
// the player referenced by pilePlayerId. Shape errors are MalformedAction.
func (d ActionData) ToAction(seatOf func(playerID string) (int, bool)) (game.Action, error) {
	if d.Type == ActionExchange {
		a := game.ExchangeStarter()
		if d.HandCard != nil {
			a.HandCard = *d.HandCard
		}
		return a, nil
	}
	if d.HandCard == nil {
		return game.Action{}, malformed("handCard is required")
	}
	hand := *d.HandCard

	switch d.Type {
	case ActionThrow:
		return game.ThrowCard(hand), nil

	case ActionCapture:
		switch {
		case d.TableCard != nil && len(d.Target) > 0:
			return game.Action{}, malformed("capture takes either tableCard or target, not both")
		case d.TableCard != nil:
			return game.CaptureCard(hand, *d.TableCard), nil
		case len(d.Target) == 2:
			return game.CaptureBuildWith(hand, d.Target[0], d.Target[1]), nil
		case len(d.Target) > 0:
			return game.Action{}, malformed("target must name the build's two cards")
		default:
			return game.Action{}, malformed("capture needs tableCard or target")
		}

	case ActionBuild:
		if d.TableCard == nil {
			return game.Action{}, malformed("build needs tableCard")
		}
		return game.Action{
			Kind:       game.ActionCreateBuild,
			HandCard:   hand,
			TableCard:  *d.TableCard,
			BuildValue: d.BuildValue,
		}, nil

	case ActionStealBuild:
		if d.TableCard == nil || d.StolenCard == nil {
			return game.Action{}, malformed("steal-build needs stolenCard and tableCard")
		}
		seat, ok := seatOf(d.PilePlayerID)
		if !ok {
			return game.Action{}, malformed("unknown pilePlayerId " + d.PilePlayerID)
		}
		return game.Action{
			Kind:       game.ActionStealBuild,
			HandCard:   hand,
			TableCard:  *d.TableCard,
			FromSeat:   seat,
			StolenCard: *d.StolenCard,
			BuildValue: d.BuildValue,
		}, nil

	default:
		return game.Action{}, malformed("unknown action type " + d.Type)
	}
}

// FromAction converts an engine action taken by playerID back to its wire
// form. idOf maps seats to player ids.
func FromAction(a game.Action, playerID string, idOf func(seat int) string) ActionData {
	card := func(c deck.Card) *deck.Card {
		if !c.IsValid() {
			return nil
		}
		return &c
	}

	d := ActionData{PlayerID: playerID, HandCard: card(a.HandCard)}
	switch a.Kind {
	case game.ActionThrow:
		d.Type = ActionThrow
	case game.ActionCaptureSingle:
		d.Type = ActionCapture
		d.TableCard = card(a.TableCard)
	case game.ActionCaptureBuild:
		d.Type = ActionCapture
		d.Target = []deck.Card{a.Target[0], a.Target[1]}
	case game.ActionCreateBuild:
		d.Type = ActionBuild
		d.TableCard = card(a.TableCard)
		d.BuildValue = a.BuildValue
	case game.ActionStealBuild:
		d.Type = ActionStealBuild
		d.TableCard = card(a.TableCard)
		d.StolenCard = card(a.StolenCard)
		d.PilePlayerID = idOf(a.FromSeat)
		d.BuildValue = a.BuildValue
	case game.ActionExchange:
		d.Type = ActionExchange
	}
	return d
}
