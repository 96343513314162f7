package game

import (
	"errors"

	"github.com/jason-s-yu/lastcard/internal/models"
)

// ErrEmptyPile is returned by Top before anything has been discarded.
var ErrEmptyPile = errors.New("discard pile is empty")

// DiscardPile is the stack of played cards; the last element is the top.
type DiscardPile struct {
	cards []models.Card
}

func NewDiscardPile() *DiscardPile {
	return &DiscardPile{cards: make([]models.Card, 0, models.DeckSize)}
}

// Discard pushes c on top. Validation is the game's job.
func (p *DiscardPile) Discard(c models.Card) {
	p.cards = append(p.cards, c)
}

func (p *DiscardPile) Top() (models.Card, error) {
	if len(p.cards) == 0 {
		return models.Card{}, ErrEmptyPile
	}
	return p.cards[len(p.cards)-1], nil
}

// Recycle removes every card except the top and returns them. With one card or
// none the pile is untouched and the result is empty.
func (p *DiscardPile) Recycle() []models.Card {
	if len(p.cards) <= 1 {
		return []models.Card{}
	}
	top := p.cards[len(p.cards)-1]
	recycled := make([]models.Card, len(p.cards)-1)
	copy(recycled, p.cards[:len(p.cards)-1])
	p.cards = append(p.cards[:0], top)
	return recycled
}

func (p *DiscardPile) Size() int {
	return len(p.cards)
}

// Cards returns a copy, bottom first.
func (p *DiscardPile) Cards() []models.Card {
	cards := make([]models.Card, len(p.cards))
	copy(cards, p.cards)
	return cards
}
