package deck

import (
	"fmt"
	"strconv"
	"strings"
)

// Suit represents a card suit
type Suit int

// Suit order doubles as the fixed tie-break order when two cards share a value.
const (
	Spades Suit = iota
	Hearts
	Diamonds
	Clubs
)

// String returns the symbol for the suit
func (s Suit) String() string {
	switch s {
	case Spades:
		return "♠"
	case Hearts:
		return "♥"
	case Diamonds:
		return "♦"
	case Clubs:
		return "♣"
	default:
		return "?"
	}
}

// Letter returns the single-letter wire code for the suit (S, H, D, C)
func (s Suit) Letter() string {
	switch s {
	case Spades:
		return "S"
	case Hearts:
		return "H"
	case Diamonds:
		return "D"
	case Clubs:
		return "C"
	default:
		return "?"
	}
}

// IsValid reports whether s is one of the four suits
func (s Suit) IsValid() bool {
	return s >= Spades && s <= Clubs
}

// Rank represents a card rank. Ranks are 1 (Ace) through 10 and
// the rank doubles as the card's game value.
type Rank int

const (
	Ace Rank = iota + 1
	Two
	Three
	Four
	Five
	Six
	Seven
	Eight
	Nine
	Ten
)

// String returns the rank label (A, 2..10)
func (r Rank) String() string {
	switch {
	case r == Ace:
		return "A"
	case r >= Two && r <= Ten:
		return strconv.Itoa(int(r))
	default:
		return "?"
	}
}

// IsValid reports whether r is within 1..10
func (r Rank) IsValid() bool {
	return r >= Ace && r <= Ten
}

// Card represents a playing card. The zero value is not a valid card.
type Card struct {
	Suit Suit
	Rank Rank
}

// NewCard creates a new card
func NewCard(suit Suit, rank Rank) Card {
	return Card{Suit: suit, Rank: rank}
}

// String returns the display form of a card (e.g., "A♠", "10♦")
func (c Card) String() string {
	return c.Rank.String() + c.Suit.String()
}

// Code returns the ASCII wire form of a card (e.g., "AS", "10D")
func (c Card) Code() string {
	return c.Rank.String() + c.Suit.Letter()
}

// Value returns the numeric game value of the card (Ace = 1)
func (c Card) Value() int {
	return int(c.Rank)
}

// IsValid reports whether the card is one of the 40 cards of the deck
func (c Card) IsValid() bool {
	return c.Suit.IsValid() && c.Rank.IsValid()
}

// Less orders cards by value, breaking ties by suit order
func Less(a, b Card) bool {
	if a.Rank != b.Rank {
		return a.Rank < b.Rank
	}
	return a.Suit < b.Suit
}

// MarshalText encodes the card as its wire code
func (c Card) MarshalText() ([]byte, error) {
	if !c.IsValid() {
		return nil, fmt.Errorf("invalid card: rank=%d suit=%d", c.Rank, c.Suit)
	}
	return []byte(c.Code()), nil
}

// UnmarshalText decodes a wire code such as "7H"
func (c *Card) UnmarshalText(text []byte) error {
	parsed, err := ParseCard(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// ParseCard parses a single card such as "AS", "10d", "7♥"
func ParseCard(s string) (Card, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Card{}, fmt.Errorf("empty card")
	}

	runes := []rune(s)
	suitPart := strings.ToUpper(string(runes[len(runes)-1]))
	rankPart := strings.ToUpper(string(runes[:len(runes)-1]))

	var suit Suit
	switch suitPart {
	case "S", "♠":
		suit = Spades
	case "H", "♥":
		suit = Hearts
	case "D", "♦":
		suit = Diamonds
	case "C", "♣":
		suit = Clubs
	default:
		return Card{}, fmt.Errorf("invalid suit in %q", s)
	}

	var rank Rank
	switch rankPart {
	case "A", "1":
		rank = Ace
	default:
		n, err := strconv.Atoi(rankPart)
		if err != nil || n < 2 || n > 10 {
			return Card{}, fmt.Errorf("invalid rank in %q", s)
		}
		rank = Rank(n)
	}

	return NewCard(suit, rank), nil
}

// ParseCards parses a whitespace or comma separated list of cards
func ParseCards(s string) ([]Card, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ' ' || r == ','
	})
	cards := make([]Card, 0, len(fields))
	for _, f := range fields {
		c, err := ParseCard(f)
		if err != nil {
			return nil, err
		}
		cards = append(cards, c)
	}
	return cards, nil
}

// MustParseCards is like ParseCards but panics on error. Intended for tests
// and fixed tables.
func MustParseCards(s string) []Card {
	cards, err := ParseCards(s)
	if err != nil {
		panic(err)
	}
	return cards
}

// MustParseCard is like ParseCard but panics on error
func MustParseCard(s string) Card {
	c, err := ParseCard(s)
	if err != nil {
		panic(err)
	}
	return c
}
