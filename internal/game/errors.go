package game

import (
	"errors"
	"fmt"
)

// Kind names the reason an action was rejected. Kinds travel over the wire
// as error codes.
type Kind string

const (
	KindNotYourTurn          Kind = "NotYourTurn"
	KindNoMatchingCard       Kind = "NoMatchingCard"
	KindNoMatchingBuild      Kind = "NoMatchingBuild"
	KindNoBuildableSum       Kind = "NoBuildableSum"
	KindNoFollowUpCard       Kind = "NoFollowUpCard"
	KindCardNotTopOfPile     Kind = "CardNotTopOfPile"
	KindPileNotVisible       Kind = "PileNotVisible"
	KindNotImmediateUse      Kind = "NotImmediateUse"
	KindIllegalBuildMutation Kind = "IllegalBuildMutation"
	KindCardNotInHand        Kind = "CardNotInHand"
	KindMalformedAction      Kind = "MalformedAction"
	KindExchangeUnavailable  Kind = "ExchangeUnavailable"
	KindWrongPhase           Kind = "WrongPhase"
)

// Error is a recoverable rejection of a proposed action. The round is
// never modified when an Error is returned.
type Error struct {
	Kind Kind
	Msg  string
}

func (e *Error) Error() string {
	if e.Msg == "" {
		return string(e.Kind)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

// Is matches any *Error of the same kind, so errors.Is(err, ErrNotYourTurn)
// works regardless of the detail message.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

var (
	ErrNotYourTurn          = &Error{Kind: KindNotYourTurn}
	ErrNoMatchingCard       = &Error{Kind: KindNoMatchingCard}
	ErrNoMatchingBuild      = &Error{Kind: KindNoMatchingBuild}
	ErrNoBuildableSum       = &Error{Kind: KindNoBuildableSum}
	ErrNoFollowUpCard       = &Error{Kind: KindNoFollowUpCard}
	ErrCardNotTopOfPile     = &Error{Kind: KindCardNotTopOfPile}
	ErrPileNotVisible       = &Error{Kind: KindPileNotVisible}
	ErrNotImmediateUse      = &Error{Kind: KindNotImmediateUse}
	ErrIllegalBuildMutation = &Error{Kind: KindIllegalBuildMutation}
	ErrCardNotInHand        = &Error{Kind: KindCardNotInHand}
	ErrMalformedAction      = &Error{Kind: KindMalformedAction}
	ErrExchangeUnavailable  = &Error{Kind: KindExchangeUnavailable}
	ErrWrongPhase           = &Error{Kind: KindWrongPhase}
)

func reject(kind Kind, format string, args ...any) error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// KindOf returns the rejection kind carried by err, or "" if err is not a
// rejection.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// InvariantError reports a broken engine invariant. It indicates a defect,
// not a player error, and callers treat it as fatal for the session.
type InvariantError struct {
	Reason string
}

func (e *InvariantError) Error() string {
	return "invariant violation: " + e.Reason
}
