// internal/game/deck.go
package game

import (
	"errors"
	"math/rand"

	"github.com/jason-s-yu/lastcard/internal/models"
)

// ErrEmptyDeck is returned by Deck.Draw when no cards remain. The game decides
// whether to recycle the discard pile and retry.
var ErrEmptyDeck = errors.New("deck is empty")

// Deck is the draw pile. Index 0 is the next card drawn.
// Deck is not safe for concurrent use; the owning Game serializes access.
type Deck struct {
	cards []models.Card
}

// NewDeck wraps cards as a draw pile without shuffling.
func NewDeck(cards []models.Card) *Deck {
	d := &Deck{cards: make([]models.Card, len(cards))}
	copy(d.cards, cards)
	return d
}

// Shuffle applies a uniform permutation using r.
func (d *Deck) Shuffle(r *rand.Rand) {
	r.Shuffle(len(d.cards), func(i, j int) {
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	})
}

// Draw removes and returns the front card.
func (d *Deck) Draw() (models.Card, error) {
	if len(d.cards) == 0 {
		return models.Card{}, ErrEmptyDeck
	}
	c := d.cards[0]
	d.cards = d.cards[1:]
	return c, nil
}

func (d *Deck) Size() int {
	return len(d.cards)
}

// Absorb adds a recycled batch and reshuffles the whole pile.
func (d *Deck) Absorb(cards []models.Card, r *rand.Rand) {
	d.cards = append(d.cards, cards...)
	d.Shuffle(r)
}

// PutBack returns a card to the pile and reshuffles.
func (d *Deck) PutBack(c models.Card, r *rand.Rand) {
	d.Absorb([]models.Card{c}, r)
}

// Cards returns a copy of the remaining cards in draw order.
func (d *Deck) Cards() []models.Card {
	cards := make([]models.Card, len(d.cards))
	copy(cards, d.cards)
	return cards
}
