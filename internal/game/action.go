package game

import (
	"fmt"

	"github.com/mphaphulimavhungu/casino/internal/deck"
)

// ActionKind identifies the shape of a player action
type ActionKind int

const (
	ActionThrow ActionKind = iota + 1
	ActionCaptureSingle
	ActionCaptureBuild
	ActionCreateBuild
	ActionStealBuild
	ActionExchange
)

var actionKindNames = map[ActionKind]string{
	ActionThrow:         "throw",
	ActionCaptureSingle: "capture-single",
	ActionCaptureBuild:  "capture-build",
	ActionCreateBuild:   "create-build",
	ActionStealBuild:    "steal-build",
	ActionExchange:      "exchange",
}

func (k ActionKind) String() string {
	if s, ok := actionKindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("action(%d)", int(k))
}

// Action is a proposed move by one seat. Which fields are meaningful
// depends on Kind:
//
//	ActionThrow          HandCard
//	ActionCaptureSingle  HandCard, TableCard
//	ActionCaptureBuild   HandCard, Target
//	ActionCreateBuild    HandCard, TableCard, BuildValue (optional)
//	ActionStealBuild     HandCard (capturing card, not played), FromSeat, StolenCard, TableCard, BuildValue (optional)
//	ActionExchange       HandCard (optional, must be 3♥ when set)
type Action struct {
	Kind       ActionKind
	HandCard   deck.Card
	TableCard  deck.Card
	Target     [2]deck.Card
	BuildValue int
	FromSeat   int
	StolenCard deck.Card
}

// ThrowCard discards c loose onto the table
func ThrowCard(c deck.Card) Action {
	return Action{Kind: ActionThrow, HandCard: c}
}

// CaptureCard captures the loose table card with the equal-valued hand card
func CaptureCard(hand, table deck.Card) Action {
	return Action{Kind: ActionCaptureSingle, HandCard: hand, TableCard: table}
}

// CaptureBuildWith captures the build made of a and b
func CaptureBuildWith(hand, a, b deck.Card) Action {
	return Action{Kind: ActionCaptureBuild, HandCard: hand, Target: [2]deck.Card{a, b}}
}

// BuildWith plays hand onto the loose table card to form a build
func BuildWith(hand, table deck.Card) Action {
	return Action{Kind: ActionCreateBuild, HandCard: hand, TableCard: table, BuildValue: hand.Value() + table.Value()}
}

// StealFrom takes the top card of seat's pile and combines it with the
// loose table card into a build that hand (kept in hand) can capture.
func StealFrom(seat int, stolen, table, hand deck.Card) Action {
	return Action{
		Kind:       ActionStealBuild,
		HandCard:   hand,
		TableCard:  table,
		FromSeat:   seat,
		StolenCard: stolen,
		BuildValue: stolen.Value() + table.Value(),
	}
}

// ExchangeStarter swaps the 3♥ in hand for the starter card on the table
func ExchangeStarter() Action {
	return Action{Kind: ActionExchange, HandCard: threeOfHearts}
}

func (a Action) String() string {
	switch a.Kind {
	case ActionThrow:
		return fmt.Sprintf("throw %s", a.HandCard)
	case ActionCaptureSingle:
		return fmt.Sprintf("capture %s with %s", a.TableCard, a.HandCard)
	case ActionCaptureBuild:
		return fmt.Sprintf("capture build %s+%s with %s", a.Target[0], a.Target[1], a.HandCard)
	case ActionCreateBuild:
		return fmt.Sprintf("build %s+%s", a.HandCard, a.TableCard)
	case ActionStealBuild:
		return fmt.Sprintf("steal %s from seat %d onto %s for %s", a.StolenCard, a.FromSeat, a.TableCard, a.HandCard)
	case ActionExchange:
		return "exchange 3♥ for starter"
	default:
		return a.Kind.String()
	}
}
