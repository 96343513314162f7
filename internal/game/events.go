// internal/game/events.go
package game

import (
	"github.com/google/uuid"
	"github.com/jason-s-yu/lastcard/internal/models"
)

// GameEventType names a notification sent to the view.
type GameEventType string

const (
	EventGameStarted          GameEventType = "game_started"
	EventTurnChanged          GameEventType = "turn_changed"
	EventCardPlayed           GameEventType = "card_played"
	EventCardDrawn            GameEventType = "card_drawn"
	EventHandChanged          GameEventType = "hand_changed"
	EventForcedDraw           GameEventType = "forced_draw"
	EventPlayerSkipped        GameEventType = "player_skipped"
	EventMustChooseColor      GameEventType = "must_choose_color"
	EventColorChosen          GameEventType = "color_chosen"
	EventDeclareStatusChanged GameEventType = "declare_status_changed"
	EventDeclarationResult    GameEventType = "declaration_result"
	EventGameOver             GameEventType = "game_over"
	EventDeckRecycled         GameEventType = "deck_recycled"
	EventPlayerPassed         GameEventType = "player_passed"
	EventPlayerCaught         GameEventType = "player_caught"
)

// EventUser identifies the player an event is about.
type EventUser struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// EventCard describes a card in an event.
type EventCard struct {
	ID    uuid.UUID `json:"id"`
	Color string    `json:"color"`
	Rank  string    `json:"rank"`
}

// GameEvent is the single notification shape handed to a Notifier.
type GameEvent struct {
	Type    GameEventType          `json:"type"`
	User    *EventUser             `json:"user,omitempty"`
	Card    *EventCard             `json:"card,omitempty"`
	Payload map[string]interface{} `json:"payload,omitempty"`
}

// Notifier receives every state change synchronously, while the game lock is
// held. Implementations must not call back into the Game from Notify.
type Notifier interface {
	Notify(ev GameEvent)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(ev GameEvent)

func (f NotifierFunc) Notify(ev GameEvent) {
	f(ev)
}

func buildEventUser(p *models.Player) *EventUser {
	return &EventUser{ID: p.ID, Name: p.Name}
}

func buildEventCard(c models.Card) *EventCard {
	return &EventCard{ID: c.ID, Color: c.Color.String(), Rank: c.Rank.String()}
}

// fireEvent hands ev to the notifier. Assumes lock is held.
func (g *Game) fireEvent(ev GameEvent) {
	if g.notifier == nil {
		return
	}
	g.notifier.Notify(ev)
}

// fireHandChanged sends the player's new hand. Assumes lock is held.
func (g *Game) fireHandChanged(p *models.Player) {
	hand := p.HandCopy()
	cards := make([]EventCard, len(hand))
	for i, c := range hand {
		cards[i] = *buildEventCard(c)
	}
	g.fireEvent(GameEvent{
		Type: EventHandChanged,
		User: buildEventUser(p),
		Payload: map[string]interface{}{
			"handSize": len(hand),
			"hand":     cards,
		},
	})
}

// fireDeclareStatus reports the player's declaration flags. Assumes lock is held.
func (g *Game) fireDeclareStatus(p *models.Player) {
	g.fireEvent(GameEvent{
		Type: EventDeclareStatusChanged,
		User: buildEventUser(p),
		Payload: map[string]interface{}{
			"candidate": p.IsDeclareCandidate(),
			"declared":  p.HasDeclaredThisTurn(),
		},
	})
}
