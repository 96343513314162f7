// internal/game/sync_state.go
package game

import (
	"github.com/google/uuid"
)

// ObfPlayerState is one seat as seen by the requesting player. Only the
// viewer's own hand is revealed.
type ObfPlayerState struct {
	PlayerID         uuid.UUID   `json:"player_id"`
	Name             string      `json:"name"`
	Kind             string      `json:"kind"`
	HandSize         int         `json:"hand_size"`
	IsCurrentTurn    bool        `json:"isCurrentTurn"`
	DeclareCandidate bool        `json:"declareCandidate"`
	Declared         bool        `json:"declared"`
	RevealedHand     []EventCard `json:"revealedHand,omitempty"`
}

// ObfGameState is returned by GetCurrentObfuscatedGameState.
type ObfGameState struct {
	GameID           uuid.UUID        `json:"game_id"`
	Phase            string           `json:"phase"`
	CurrentPlayerID  uuid.UUID        `json:"currentPlayerId"`
	Direction        int              `json:"direction"`
	ActiveColor      string           `json:"activeColor"`
	PendingDrawCount int              `json:"pendingDrawCount"`
	TurnID           int              `json:"turnId"`
	DeckSize         int              `json:"deckSize"`
	DiscardSize      int              `json:"discardSize"`
	DiscardTop       *EventCard       `json:"discardTop,omitempty"`
	DrawnCardID      *uuid.UUID       `json:"drawnCardId,omitempty"`
	CanPass          bool             `json:"canPass"`
	Winner           *uuid.UUID       `json:"winner,omitempty"`
	Players          []ObfPlayerState `json:"players"`
}

// GetCurrentObfuscatedGameState generates a snapshot of the game for forUser.
func (g *Game) GetCurrentObfuscatedGameState(forUser uuid.UUID) ObfGameState {
	g.Mu.Lock()
	defer g.Mu.Unlock()

	obf := ObfGameState{
		GameID:           g.ID,
		Phase:            g.Phase.String(),
		CurrentPlayerID:  g.Players[g.CurrentPlayerIndex].ID,
		Direction:        g.Direction,
		ActiveColor:      g.ActiveColor.String(),
		PendingDrawCount: g.PendingDrawCount,
		TurnID:           g.TurnID,
		DeckSize:         g.deck.Size(),
		DiscardSize:      g.pile.Size(),
	}
	if g.Winner != uuid.Nil {
		winner := g.Winner
		obf.Winner = &winner
	}
	if top, err := g.pile.Top(); err == nil {
		obf.DiscardTop = buildEventCard(top)
	}

	cur := g.Players[g.CurrentPlayerIndex]
	if cur.ID == forUser && g.Phase == PhaseAwaitingPlay {
		obf.CanPass = g.drewThisTurn || g.drawImpossible()
		if g.drewThisTurn {
			drawn := g.drawnCardID
			obf.DrawnCardID = &drawn
		}
	}

	for i, pl := range g.Players {
		ps := ObfPlayerState{
			PlayerID:         pl.ID,
			Name:             pl.Name,
			Kind:             pl.Kind.String(),
			HandSize:         pl.HandSize(),
			IsCurrentTurn:    i == g.CurrentPlayerIndex,
			DeclareCandidate: pl.IsDeclareCandidate(),
			Declared:         pl.HasDeclaredThisTurn(),
		}
		if pl.ID == forUser {
			ps.RevealedHand = make([]EventCard, len(pl.Hand))
			for j, c := range pl.Hand {
				ps.RevealedHand[j] = *buildEventCard(c)
			}
		}
		obf.Players = append(obf.Players, ps)
	}
	return obf
}
