package deck

import (
	"encoding/json"
	"testing"
)

func TestParseCards(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []Card
		wantErr  bool
	}{
		{
			name:  "letters",
			input: "AS 10D 7H",
			expected: []Card{
				{Suit: Spades, Rank: Ace},
				{Suit: Diamonds, Rank: Ten},
				{Suit: Hearts, Rank: Seven},
			},
		},
		{
			name:  "symbols and commas",
			input: "5♦,5♣",
			expected: []Card{
				{Suit: Diamonds, Rank: Five},
				{Suit: Clubs, Rank: Five},
			},
		},
		{
			name:  "case insensitive with numeric ace",
			input: "1c 3h",
			expected: []Card{
				{Suit: Clubs, Rank: Ace},
				{Suit: Hearts, Rank: Three},
			},
		},
		{
			name:    "face cards are not in the deck",
			input:   "KS",
			wantErr: true,
		},
		{
			name:    "invalid suit",
			input:   "4X",
			wantErr: true,
		},
		{
			name:    "rank out of range",
			input:   "11H",
			wantErr: true,
		},
		{
			name:     "empty string",
			input:    "",
			expected: []Card{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseCards(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ParseCards() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if tt.wantErr {
				return
			}
			if len(got) != len(tt.expected) {
				t.Fatalf("ParseCards() got %d cards, want %d", len(got), len(tt.expected))
			}
			for i := range got {
				if got[i] != tt.expected[i] {
					t.Errorf("card %d = %v, want %v", i, got[i], tt.expected[i])
				}
			}
		})
	}
}

func TestCardStrings(t *testing.T) {
	c := NewCard(Diamonds, Ten)
	if c.String() != "10♦" {
		t.Errorf("String() = %q, want 10♦", c.String())
	}
	if c.Code() != "10D" {
		t.Errorf("Code() = %q, want 10D", c.Code())
	}
	if NewCard(Spades, Ace).Code() != "AS" {
		t.Errorf("ace code = %q, want AS", NewCard(Spades, Ace).Code())
	}
}

func TestCardJSON(t *testing.T) {
	in := []Card{MustParseCard("3H"), MustParseCard("10C")}
	data, err := json.Marshal(in)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(data) != `["3H","10C"]` {
		t.Errorf("json = %s", data)
	}

	var out []Card
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if out[0] != in[0] || out[1] != in[1] {
		t.Errorf("round trip = %v, want %v", out, in)
	}

	if _, err := json.Marshal(Card{}); err == nil {
		t.Error("zero card should not marshal")
	}
}

func TestLess(t *testing.T) {
	if !Less(MustParseCard("2C"), MustParseCard("3S")) {
		t.Error("value should dominate suit")
	}
	if !Less(MustParseCard("4S"), MustParseCard("4H")) {
		t.Error("spades sort before hearts on equal value")
	}
	if Less(MustParseCard("4C"), MustParseCard("4D")) {
		t.Error("clubs sort after diamonds on equal value")
	}
}
