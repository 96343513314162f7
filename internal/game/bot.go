package game

import (
	"github.com/google/uuid"
	"github.com/jason-s-yu/lastcard/internal/models"
	"github.com/sirupsen/logrus"
)

// scheduleBotMove arms the automated player's think timer when it holds the
// turn. Assumes lock is held.
func (g *Game) scheduleBotMove() {
	if g.botTimer != nil {
		g.botTimer.Stop()
		g.botTimer = nil
	}
	if g.closed || g.Phase == PhaseGameOver || g.Phase == PhaseNotStarted {
		return
	}
	cur := g.Players[g.CurrentPlayerIndex]
	if cur.Kind != models.KindAutomated {
		return
	}
	botID, turnID := cur.ID, g.TurnID
	g.botTimer = g.scheduler.AfterFunc(g.HouseRules.BotMoveDelay, func() {
		g.runBotTurn(botID, turnID)
	})
}

// runBotTurn plays a uniformly random legal card. With none in hand it draws
// once, plays the drawn card if it fits, and passes otherwise.
func (g *Game) runBotTurn(botID uuid.UUID, turnID int) {
	g.Mu.Lock()
	defer g.Mu.Unlock()

	if g.closed || g.Phase == PhaseGameOver || g.TurnID != turnID || g.Players[g.CurrentPlayerIndex].ID != botID {
		g.log.WithFields(logrus.Fields{"turn": turnID, "current": g.TurnID}).Debug("stale bot timer, ignoring")
		return
	}
	bot := g.Players[g.CurrentPlayerIndex]
	entry := g.log.WithField("player", bot.Name)

	if g.Phase == PhaseAwaitingColorChoice {
		g.botChooseColor(bot)
		return
	}

	playable := g.playableCards(bot)
	if len(playable) == 0 {
		drawn, err := g.drawTurnCard(bot.ID)
		if err == nil && g.isValidPlay(drawn) {
			playable = []models.Card{drawn}
		} else {
			if err := g.passTurn(bot.ID); err != nil {
				entry.WithError(err).Warn("automated player could not pass")
			}
			return
		}
	}

	choice := playable[g.rng.Intn(len(playable))]
	if err := g.playCard(bot.ID, choice.ID); err != nil {
		entry.WithError(err).Warn("automated player play rejected")
		return
	}
	if g.Phase == PhaseAwaitingColorChoice && g.Players[g.CurrentPlayerIndex].ID == bot.ID {
		g.botChooseColor(bot)
	}
}

// botChooseColor picks one of the four colors at random. Assumes lock is held.
func (g *Game) botChooseColor(bot *models.Player) {
	color := models.PlayableColors[g.rng.Intn(len(models.PlayableColors))]
	if err := g.chooseColor(bot.ID, color); err != nil {
		g.log.WithError(err).WithField("player", bot.Name).Warn("automated player color choice rejected")
	}
}

// playableCards lists the cards in p's hand that are legal right now.
// Assumes lock is held.
func (g *Game) playableCards(p *models.Player) []models.Card {
	var playable []models.Card
	for _, c := range p.Hand {
		if g.isValidPlay(c) {
			playable = append(playable, c)
		}
	}
	return playable
}

// PlayableCards is the locked form of playableCards, for views that want to
// highlight legal moves.
func (g *Game) PlayableCards(playerID uuid.UUID) []models.Card {
	g.Mu.Lock()
	defer g.Mu.Unlock()
	p := g.getPlayerByID(playerID)
	if p == nil || g.Phase != PhaseAwaitingPlay || g.Players[g.CurrentPlayerIndex].ID != playerID {
		return nil
	}
	if g.drewThisTurn {
		if c, ok := p.FindCard(g.drawnCardID); ok && g.isValidPlay(c) {
			return []models.Card{c}
		}
		return nil
	}
	return g.playableCards(p)
}
