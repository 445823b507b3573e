package game

import "fmt"

// Phase is the lifecycle stage of a round
type Phase int

const (
	Dealing Phase = iota
	InPlay
	RoundEnd
	Scored
)

// String returns the wire name of the phase
func (p Phase) String() string {
	switch p {
	case Dealing:
		return "dealing"
	case InPlay:
		return "in_play"
	case RoundEnd:
		return "round_end"
	case Scored:
		return "scored"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// MarshalText encodes the phase by name
func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}
