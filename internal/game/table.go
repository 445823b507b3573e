package game

import (
	"fmt"

	"github.com/mphaphulimavhungu/casino/internal/deck"
)

// Build is two cards placed together on the table. Only a card whose value
// equals Value can capture it. Builds never change after they are formed.
type Build struct {
	Cards [2]deck.Card
	Value int
	Owner int // seat that formed the build; informational only
}

func newBuild(a, b deck.Card, owner int) Build {
	return Build{Cards: [2]deck.Card{a, b}, Value: a.Value() + b.Value(), Owner: owner}
}

// Contains reports whether c is one of the build's two cards
func (b Build) Contains(c deck.Card) bool {
	return b.Cards[0] == c || b.Cards[1] == c
}

// Matches reports whether the build consists of exactly a and b, in any order
func (b Build) Matches(a, c deck.Card) bool {
	return (b.Cards[0] == a && b.Cards[1] == c) || (b.Cards[0] == c && b.Cards[1] == a)
}

func (b Build) String() string {
	return fmt.Sprintf("%d:%s+%s", b.Value, b.Cards[0], b.Cards[1])
}

// Table holds the face-up cards: loose singletons and builds. A card on the
// table is in exactly one of the two.
type Table struct {
	Loose  []deck.Card
	Builds []Build
}

// HasLoose reports whether c is a loose card on the table
func (t *Table) HasLoose(c deck.Card) bool {
	return deck.Contains(t.Loose, c)
}

// BuildIndex returns the index of the build made of a and b, or -1
func (t *Table) BuildIndex(a, b deck.Card) int {
	for i, bld := range t.Builds {
		if bld.Matches(a, b) {
			return i
		}
	}
	return -1
}

// InBuild reports whether c belongs to any build on the table
func (t *Table) InBuild(c deck.Card) bool {
	for _, bld := range t.Builds {
		if bld.Contains(c) {
			return true
		}
	}
	return false
}

// Size returns the number of cards on the table
func (t *Table) Size() int {
	return len(t.Loose) + 2*len(t.Builds)
}

// Cards returns every card on the table, loose cards first
func (t *Table) Cards() []deck.Card {
	out := make([]deck.Card, 0, t.Size())
	out = append(out, t.Loose...)
	for _, b := range t.Builds {
		out = append(out, b.Cards[0], b.Cards[1])
	}
	return out
}

func (t *Table) removeLoose(c deck.Card) bool {
	var ok bool
	t.Loose, ok = deck.Remove(t.Loose, c)
	return ok
}

func (t *Table) removeBuild(i int) Build {
	b := t.Builds[i]
	t.Builds = append(t.Builds[:i], t.Builds[i+1:]...)
	return b
}

func (t *Table) clone() Table {
	return Table{
		Loose:  append([]deck.Card(nil), t.Loose...),
		Builds: append([]Build(nil), t.Builds...),
	}
}
