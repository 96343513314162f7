package game

import (
	"testing"

	"github.com/jason-s-yu/lastcard/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// humanDrawsAndPasses hands the turn to the bot without changing the pile.
func humanDrawsAndPasses(t *testing.T, tt *testTable) {
	t.Helper()
	_, err := tt.g.DrawTurnCard(tt.human.ID)
	require.NoError(t, err)
	require.NoError(t, tt.g.PassTurn(tt.human.ID))
	require.Equal(t, tt.bot.ID, tt.currentID())
}

func TestBotPlaysLegalCard(t *testing.T) {
	tt := setupTestGame(t, hand(green1, yellow3, green4), hand(red2, blue9, green8), red7, green3)
	humanDrawsAndPasses(t, tt)

	require.Equal(t, 1, tt.sched.fire(testBotMove))

	top := tt.g.mustTop()
	assert.Equal(t, models.ColorRed, top.Color)
	assert.Equal(t, models.RankTwo, top.Rank)
	assert.Len(t, tt.bot.Hand, 2)
	assert.Equal(t, tt.human.ID, tt.currentID())
}

func TestBotPlaysDrawnCard(t *testing.T) {
	tt := setupTestGame(t, hand(green1, yellow3, green4), hand(blue9, green8, yellow5), red7, green3, red4)
	humanDrawsAndPasses(t, tt)

	require.Equal(t, 1, tt.sched.fire(testBotMove))

	assert.Equal(t, models.RankFour, tt.g.mustTop().Rank, "the drawn red 4 is played")
	assert.Len(t, tt.bot.Hand, 3)
	assert.Equal(t, tt.human.ID, tt.currentID())
}

func TestBotPassesOnUnplayableDraw(t *testing.T) {
	tt := setupTestGame(t, hand(green1, yellow3, green4), hand(blue9, green8, yellow5), red7, green3, blue2)
	humanDrawsAndPasses(t, tt)
	tt.mb.clear()

	require.Equal(t, 1, tt.sched.fire(testBotMove))

	assert.Equal(t, models.RankSeven, tt.g.mustTop().Rank)
	assert.Len(t, tt.bot.Hand, 4)
	assert.Equal(t, 1, tt.mb.count(EventPlayerPassed))
	assert.Equal(t, tt.human.ID, tt.currentID())
}

func TestBotChoosesColorAfterWild(t *testing.T) {
	tt := setupTestGame(t, hand(green1, yellow3), hand(wild, blue9), red7, green3)
	humanDrawsAndPasses(t, tt)
	tt.mb.clear()

	require.Equal(t, 1, tt.sched.fire(testBotMove))

	assert.Equal(t, PhaseAwaitingPlay, tt.g.Phase)
	assert.True(t, tt.g.ActiveColor.IsPlayable())
	assert.Equal(t, 1, tt.mb.count(EventColorChosen))
	assert.Equal(t, tt.human.ID, tt.currentID())
	assert.Equal(t, 1, tt.sched.pending(testSelfDeclare), "bot is down to one card")
}

func TestBotSkipKeepsTurn(t *testing.T) {
	tt := setupTestGame(t, hand(green1, yellow3, green4), hand(redSkip, blue9, green8), red7, green3)
	humanDrawsAndPasses(t, tt)

	require.Equal(t, 1, tt.sched.fire(testBotMove))

	assert.Equal(t, tt.bot.ID, tt.currentID())
	assert.Equal(t, 1, tt.sched.pending(testBotMove), "a fresh think timer for the next turn")
}

func TestStaleBotTimerIgnored(t *testing.T) {
	tt := setupTestGame(t, hand(green1, yellow3, green4), hand(red2, blue9, green8), red7, green3)
	humanDrawsAndPasses(t, tt)

	tt.g.runBotTurn(tt.bot.ID, tt.g.TurnID+1)
	assert.Len(t, tt.bot.Hand, 3)

	tt.g.runBotTurn(tt.human.ID, tt.g.TurnID)
	assert.Len(t, tt.human.Hand, 4)
	assert.Equal(t, tt.bot.ID, tt.currentID())
}
