// internal/models/card.go
package models

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Color is the suit of a card. Wild is only carried by Wild and WildDrawFour cards.
type Color int

const (
	ColorRed Color = iota
	ColorYellow
	ColorGreen
	ColorBlue
	ColorWild
)

// PlayableColors are the four colors a wild can be declared as.
var PlayableColors = []Color{ColorRed, ColorYellow, ColorGreen, ColorBlue}

func (c Color) String() string {
	switch c {
	case ColorRed:
		return "red"
	case ColorYellow:
		return "yellow"
	case ColorGreen:
		return "green"
	case ColorBlue:
		return "blue"
	case ColorWild:
		return "wild"
	default:
		return fmt.Sprintf("color(%d)", int(c))
	}
}

// IsPlayable reports whether c can be chosen after a wild.
func (c Color) IsPlayable() bool {
	return c >= ColorRed && c <= ColorBlue
}

// ParseColor maps a user-supplied name ("red", "r", ...) to a playable color.
func ParseColor(s string) (Color, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "red", "r":
		return ColorRed, nil
	case "yellow", "y":
		return ColorYellow, nil
	case "green", "g":
		return ColorGreen, nil
	case "blue", "b":
		return ColorBlue, nil
	}
	return ColorWild, fmt.Errorf("invalid color '%s'", s)
}

// Rank is the face of a card. 0-9 are number cards; the rest carry effects.
type Rank int

const (
	RankZero Rank = iota
	RankOne
	RankTwo
	RankThree
	RankFour
	RankFive
	RankSix
	RankSeven
	RankEight
	RankNine
	RankSkip
	RankReverse
	RankDrawTwo
	RankWild
	RankWildDrawFour
)

func (r Rank) String() string {
	switch {
	case r >= RankZero && r <= RankNine:
		return fmt.Sprintf("%d", int(r))
	case r == RankSkip:
		return "skip"
	case r == RankReverse:
		return "reverse"
	case r == RankDrawTwo:
		return "draw-two"
	case r == RankWild:
		return "wild"
	case r == RankWildDrawFour:
		return "wild-draw-four"
	default:
		return fmt.Sprintf("rank(%d)", int(r))
	}
}

// IsNumber reports whether the rank is 0-9.
func (r Rank) IsNumber() bool {
	return r >= RankZero && r <= RankNine
}

// IsWild reports whether the rank needs a color choice when played.
func (r Rank) IsWild() bool {
	return r == RankWild || r == RankWildDrawFour
}

// Card is an immutable, comparable value. Two physical copies of the same face
// are told apart by ID.
type Card struct {
	ID    uuid.UUID `json:"id"`
	Color Color     `json:"color"`
	Rank  Rank      `json:"rank"`
}

// NewCard builds a card with a fresh ID. Wild ranks always get ColorWild.
func NewCard(color Color, rank Rank) Card {
	if rank.IsWild() {
		color = ColorWild
	}
	return Card{ID: uuid.New(), Color: color, Rank: rank}
}

func (c Card) String() string {
	if c.Rank.IsWild() {
		return c.Rank.String()
	}
	return c.Color.String() + " " + c.Rank.String()
}

// Points is the classic end-of-round value of a card left in hand.
func (c Card) Points() int {
	switch {
	case c.Rank.IsNumber():
		return int(c.Rank)
	case c.Rank.IsWild():
		return 50
	default:
		return 20
	}
}

// Effect describes what happens after a card is successfully played.
type Effect struct {
	Skip        bool // next player loses their turn
	Reverse     bool // direction flips
	Draw        int  // cards the next player must draw
	ChooseColor bool // player must pick the active color before the effect resolves
}

// EffectFor returns the effect of a rank. It is a pure lookup; the state machine
// consumes the descriptor.
func EffectFor(r Rank) Effect {
	switch r {
	case RankSkip:
		return Effect{Skip: true}
	case RankReverse:
		return Effect{Reverse: true}
	case RankDrawTwo:
		return Effect{Skip: true, Draw: 2}
	case RankWild:
		return Effect{ChooseColor: true}
	case RankWildDrawFour:
		return Effect{ChooseColor: true, Skip: true, Draw: 4}
	default:
		return Effect{}
	}
}

// DeckSize is the number of cards in a full deck.
const DeckSize = 64

// StandardDeck builds the full, unshuffled 64-card deck: per color one of each
// 0-9, two draw-two, one skip and one reverse, plus four wild and four wild-draw-four.
func StandardDeck() []Card {
	cards := make([]Card, 0, DeckSize)
	for _, color := range PlayableColors {
		for r := RankZero; r <= RankNine; r++ {
			cards = append(cards, NewCard(color, r))
		}
		cards = append(cards,
			NewCard(color, RankDrawTwo),
			NewCard(color, RankDrawTwo),
			NewCard(color, RankSkip),
			NewCard(color, RankReverse),
		)
	}
	for i := 0; i < 4; i++ {
		cards = append(cards, NewCard(ColorWild, RankWild), NewCard(ColorWild, RankWildDrawFour))
	}
	return cards
}

// Face identifies a card ignoring its ID.
type Face struct {
	Color Color
	Rank  Rank
}

// FaceCounts returns how many cards of each face are in cards.
func FaceCounts(cards []Card) map[Face]int {
	counts := make(map[Face]int)
	for _, c := range cards {
		counts[Face{Color: c.Color, Rank: c.Rank}]++
	}
	return counts
}

// ValidateComposition checks that cards is exactly one standard deck with no
// duplicated IDs.
func ValidateComposition(cards []Card) error {
	if len(cards) != DeckSize {
		return fmt.Errorf("deck has %d cards, want %d", len(cards), DeckSize)
	}
	seen := make(map[uuid.UUID]struct{}, len(cards))
	for _, c := range cards {
		if _, dup := seen[c.ID]; dup {
			return fmt.Errorf("duplicate card id %s", c.ID)
		}
		seen[c.ID] = struct{}{}
	}
	want := FaceCounts(StandardDeck())
	got := FaceCounts(cards)
	for face, n := range want {
		if got[face] != n {
			return fmt.Errorf("deck has %d x %s %s, want %d", got[face], face.Color, face.Rank, n)
		}
	}
	return nil
}
