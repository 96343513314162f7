package game

import (
	"github.com/google/uuid"
	"github.com/jason-s-yu/lastcard/internal/models"
	"github.com/sirupsen/logrus"
)

// resolveEffect applies skip/reverse/draw and advances the turn. Assumes lock is held.
func (g *Game) resolveEffect(effect models.Effect) {
	if effect.Reverse {
		g.Direction = -g.Direction
	}
	// with two players a reverse hands the turn straight back
	skip := effect.Skip || (effect.Reverse && len(g.Players) == 2)
	next := g.Players[g.nextIndex(1)]
	if effect.Draw > 0 {
		g.forceDraw(next, effect.Draw, "card_effect")
	}
	if skip {
		g.fireEvent(GameEvent{Type: EventPlayerSkipped, User: buildEventUser(next)})
		g.advanceTurn(2)
		return
	}
	g.advanceTurn(1)
}

// forceDraw adds up to n cards to p, recycling as needed. Returns how many were
// actually drawn. Assumes lock is held.
func (g *Game) forceDraw(p *models.Player, n int, reason string) int {
	if n <= 0 {
		return 0
	}
	before := p.HandSize()
	drawn := 0
	for drawn < n {
		c, err := g.drawFromDeck()
		if err != nil {
			g.log.WithFields(logrus.Fields{"player": p.Name, "drawn": drawn, "requested": n}).Warn("forced draw cut short, no cards left")
			break
		}
		p.AddCard(c)
		drawn++
	}
	g.logAction(p.ID, string(EventForcedDraw), map[string]interface{}{"count": drawn, "requested": n, "reason": reason})
	g.fireEvent(GameEvent{
		Type: EventForcedDraw,
		User: buildEventUser(p),
		Payload: map[string]interface{}{
			"count":     drawn,
			"requested": n,
			"reason":    reason,
		},
	})
	if drawn > 0 {
		g.fireHandChanged(p)
		g.handSizeChanged(p, before)
	}
	return drawn
}

// drawFromDeck draws one card, recycling the discard pile into the deck first
// when the deck is empty. Assumes lock is held.
func (g *Game) drawFromDeck() (models.Card, error) {
	c, err := g.deck.Draw()
	if err == nil {
		return c, nil
	}
	recycled := g.pile.Recycle()
	if len(recycled) == 0 {
		return models.Card{}, ErrDeckExhausted
	}
	g.deck.Absorb(recycled, g.rng)
	g.log.WithField("count", len(recycled)).Info("discard pile recycled into deck")
	g.logAction(uuid.Nil, string(EventDeckRecycled), map[string]interface{}{"count": len(recycled)})
	g.fireEvent(GameEvent{
		Type:    EventDeckRecycled,
		Payload: map[string]interface{}{"count": len(recycled), "deckSize": g.deck.Size()},
	})
	return g.deck.Draw()
}

// drawImpossible reports whether neither the deck nor the pile can supply a card.
func (g *Game) drawImpossible() bool {
	return g.deck.Size() == 0 && g.pile.Size() <= 1
}
