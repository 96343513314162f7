// internal/game/declaration.go
package game

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jason-s-yu/lastcard/internal/models"
	"github.com/sirupsen/logrus"
)

// declarationTimer names the three delayed checks that can close a window.
type declarationTimer int

const (
	timerDeclareTimeout declarationTimer = iota // human ran out of time
	timerCatch                                  // automated opponent caught the human
	timerSelfDeclare                            // automated player declares for itself
)

func (t declarationTimer) String() string {
	switch t {
	case timerDeclareTimeout:
		return "timeout"
	case timerCatch:
		return "caught"
	case timerSelfDeclare:
		return "self_declare"
	default:
		return "unknown"
	}
}

// declarationWindow is opened each time a hand drops to one card. Its id ties
// timer callbacks to this window; a callback for any other id is stale.
type declarationWindow struct {
	id       int
	playerID uuid.UUID
	timers   []Timer
}

// Declare announces that playerID holds one card. Declaring when not a
// candidate, twice, or after being caught fails with ErrIllegalDeclaration and
// changes nothing.
func (g *Game) Declare(playerID uuid.UUID) error {
	g.Mu.Lock()
	defer g.Mu.Unlock()

	p, _, err := g.commandPlayer(playerID)
	if err != nil {
		return err
	}
	if !p.IsDeclareCandidate() || p.HasDeclaredThisTurn() {
		g.log.WithFields(logrus.Fields{"player": p.Name, "handSize": p.HandSize()}).Warn("declaration refused")
		g.fireEvent(GameEvent{
			Type: EventDeclarationResult,
			User: buildEventUser(p),
			Payload: map[string]interface{}{
				"success": false,
				"reason":  "not_candidate",
			},
		})
		return fmt.Errorf("%w: %s holds %d card(s)", ErrIllegalDeclaration, p.Name, p.HandSize())
	}
	g.declare(p)
	return nil
}

// Catch lets catcherID call out an opponent who is sitting on one undeclared card.
func (g *Game) Catch(catcherID uuid.UUID) error {
	g.Mu.Lock()
	defer g.Mu.Unlock()

	catcher, _, err := g.commandPlayer(catcherID)
	if err != nil {
		return err
	}
	target := g.opponentOf(catcher.ID)
	if target == nil || g.windows[target.ID] == nil || !target.IsDeclareCandidate() || target.HasDeclaredThisTurn() {
		return ErrNothingToCatch
	}
	g.penalizeMissedDeclaration(target, "caught")
	return nil
}

// declare marks p as declared and closes its window. Assumes lock is held.
func (g *Game) declare(p *models.Player) {
	g.closeDeclarationWindow(p.ID)
	p.MarkDeclareCandidate(false)
	p.MarkDeclaredThisTurn(true)

	g.log.WithField("player", p.Name).Info("player declared one card")
	g.logAction(p.ID, string(EventDeclarationResult), map[string]interface{}{"success": true})
	g.fireEvent(GameEvent{
		Type:    EventDeclarationResult,
		User:    buildEventUser(p),
		Payload: map[string]interface{}{"success": true},
	})
	g.fireDeclareStatus(p)
}

// penalizeMissedDeclaration applies the fixed penalty once for the window.
// If p holds the turn, the turn then passes. Assumes lock is held.
func (g *Game) penalizeMissedDeclaration(p *models.Player, reason string) {
	g.closeDeclarationWindow(p.ID)
	p.MarkDeclareCandidate(false)

	g.log.WithFields(logrus.Fields{"player": p.Name, "reason": reason}).Info("missed declaration penalized")
	g.fireEvent(GameEvent{
		Type: EventPlayerCaught,
		User: buildEventUser(p),
		Payload: map[string]interface{}{
			"reason":  reason,
			"penalty": g.HouseRules.PenaltyDrawCount,
		},
	})
	g.fireEvent(GameEvent{
		Type: EventDeclarationResult,
		User: buildEventUser(p),
		Payload: map[string]interface{}{
			"success": false,
			"reason":  reason,
		},
	})
	g.fireDeclareStatus(p)
	g.forceDraw(p, g.HouseRules.PenaltyDrawCount, "missed_declaration")

	if g.Players[g.CurrentPlayerIndex].ID == p.ID && g.Phase == PhaseAwaitingPlay {
		g.advanceTurn(1)
	}
}

// handSizeChanged keeps the declaration flags in step with the hand. Dropping
// to one card opens a window; any other change closes it. Assumes lock is held.
func (g *Game) handSizeChanged(p *models.Player, before int) {
	after := p.HandSize()
	if after == before {
		return
	}
	if after == 1 {
		p.ResetDeclarationStatus()
		p.MarkDeclareCandidate(true)
		g.fireDeclareStatus(p)
		g.openDeclarationWindow(p)
		return
	}
	hadStatus := p.IsDeclareCandidate() || p.HasDeclaredThisTurn() || g.windows[p.ID] != nil
	g.closeDeclarationWindow(p.ID)
	p.ResetDeclarationStatus()
	if hadStatus {
		g.fireDeclareStatus(p)
	}
}

// openDeclarationWindow starts the timers for p's new window. A human gets the
// timeout and the opponent's catch; the automated player gets its self-declare.
// Assumes lock is held.
func (g *Game) openDeclarationWindow(p *models.Player) {
	g.closeDeclarationWindow(p.ID)
	g.windowSeq++
	w := &declarationWindow{id: g.windowSeq, playerID: p.ID}
	g.windows[p.ID] = w

	schedule := func(d time.Duration, kind declarationTimer) {
		id, pid := w.id, p.ID
		w.timers = append(w.timers, g.scheduler.AfterFunc(d, func() {
			g.onDeclarationTimer(pid, id, kind)
		}))
	}
	if p.Kind == models.KindHuman {
		schedule(g.HouseRules.DeclareTimeout, timerDeclareTimeout)
		schedule(g.HouseRules.CatchDelay, timerCatch)
	} else {
		schedule(g.HouseRules.SelfDeclareDelay, timerSelfDeclare)
	}
}

// closeDeclarationWindow stops the window's timers. Assumes lock is held.
func (g *Game) closeDeclarationWindow(playerID uuid.UUID) {
	w := g.windows[playerID]
	if w == nil {
		return
	}
	for _, t := range w.timers {
		t.Stop()
	}
	delete(g.windows, playerID)
}

// onDeclarationTimer is the timer entry point. It re-checks, under the game
// lock, that the window is still open and the player still undeclared before
// acting, so at most one of declare/penalty lands per window.
func (g *Game) onDeclarationTimer(playerID uuid.UUID, windowID int, kind declarationTimer) {
	g.Mu.Lock()
	defer g.Mu.Unlock()

	entry := g.log.WithFields(logrus.Fields{"player": playerID, "window": windowID, "timer": kind.String()})
	if g.closed || g.Phase == PhaseGameOver {
		entry.Debug("stale declaration timer, game finished")
		return
	}
	w := g.windows[playerID]
	if w == nil || w.id != windowID {
		entry.Debug("stale declaration timer, window closed")
		return
	}
	p := g.getPlayerByID(playerID)
	if p == nil || p.HandSize() != 1 || !p.IsDeclareCandidate() || p.HasDeclaredThisTurn() {
		g.closeDeclarationWindow(playerID)
		return
	}

	switch kind {
	case timerSelfDeclare:
		g.declare(p)
	case timerDeclareTimeout, timerCatch:
		g.penalizeMissedDeclaration(p, kind.String())
	}
}
