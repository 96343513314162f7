package models

import (
	"github.com/google/uuid"
)

// PlayerKind distinguishes the human seat from the automated one.
type PlayerKind int

const (
	KindHuman PlayerKind = iota
	KindAutomated
)

func (k PlayerKind) String() string {
	if k == KindAutomated {
		return "automated"
	}
	return "human"
}

// Player owns a hand and the per-window declaration flags. Only the game engine
// mutates a Player, and only while holding the game lock.
type Player struct {
	ID   uuid.UUID  `json:"id"`
	Name string     `json:"name"`
	Kind PlayerKind `json:"kind"`
	Hand []Card     `json:"hand"`

	declareCandidate bool
	declared         bool
}

// NewPlayer creates a player with an empty hand.
func NewPlayer(name string, kind PlayerKind) *Player {
	return &Player{
		ID:   uuid.New(),
		Name: name,
		Kind: kind,
		Hand: make([]Card, 0, 8),
	}
}

func (p *Player) AddCard(c Card) {
	p.Hand = append(p.Hand, c)
}

// RemoveCard removes the card with the given ID, keeping the order of the rest.
// Returns false and leaves the hand alone if the card is not held.
func (p *Player) RemoveCard(id uuid.UUID) (Card, bool) {
	for i, c := range p.Hand {
		if c.ID == id {
			p.Hand = append(p.Hand[:i], p.Hand[i+1:]...)
			return c, true
		}
	}
	return Card{}, false
}

// FindCard returns the held card with the given ID.
func (p *Player) FindCard(id uuid.UUID) (Card, bool) {
	for _, c := range p.Hand {
		if c.ID == id {
			return c, true
		}
	}
	return Card{}, false
}

func (p *Player) HandSize() int {
	return len(p.Hand)
}

func (p *Player) ClearHand() {
	p.Hand = p.Hand[:0]
}

// HandCopy returns a copy of the hand safe to hand to observers.
func (p *Player) HandCopy() []Card {
	hand := make([]Card, len(p.Hand))
	copy(hand, p.Hand)
	return hand
}

func (p *Player) MarkDeclareCandidate(v bool) {
	p.declareCandidate = v
}

func (p *Player) MarkDeclaredThisTurn(v bool) {
	p.declared = v
}

// ResetDeclarationStatus clears both declaration flags.
func (p *Player) ResetDeclarationStatus() {
	p.declareCandidate = false
	p.declared = false
}

func (p *Player) IsDeclareCandidate() bool {
	return p.declareCandidate
}

func (p *Player) HasDeclaredThisTurn() bool {
	return p.declared
}

// HandPoints sums Card.Points over the hand.
func (p *Player) HandPoints() int {
	sum := 0
	for _, c := range p.Hand {
		sum += c.Points()
	}
	return sum
}
