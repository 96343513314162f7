package game

import (
	"testing"
	"time"

	"github.com/jason-s-yu/lastcard/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultHouseRulesValid(t *testing.T) {
	rules := DefaultHouseRules()
	require.NoError(t, rules.Validate())
	assert.Equal(t, 7, rules.InitialHandSize)
	assert.Equal(t, 2, rules.PenaltyDrawCount)
	assert.Equal(t, 3*time.Second, rules.DeclareTimeout)
	assert.Equal(t, 2*time.Second, rules.CatchDelay)
	assert.Equal(t, time.Second, rules.SelfDeclareDelay)
	assert.Less(t, rules.CatchDelay, rules.DeclareTimeout, "the catch lands first by default")
}

func TestSlowCatcherLeavesPenaltyToTimeout(t *testing.T) {
	human := models.NewPlayer("alice", models.KindHuman)
	bot := models.NewPlayer("robot", models.KindAutomated)
	rules, err := ParseRules(map[string]interface{}{
		"initialHandSize":  float64(2),
		"declareTimeoutMs": float64(2000),
		"catchDelayMs":     float64(3000),
	}, testRules(2))
	require.NoError(t, err)

	sched := &manualScheduler{}
	mb := &mockBroadcaster{}
	g, err := NewGame(human, bot, rules,
		withDeck(stackDeck(t, hand(red5, red6), hand(blue2, yellow3), red7)),
		WithScheduler(sched),
		WithNotifier(mb),
	)
	require.NoError(t, err)
	require.NoError(t, g.Start())
	require.NoError(t, g.PlayCard(human.ID, findCard(t, human, red5).ID))

	// The shorter timer is now the human timeout
	require.Equal(t, 1, sched.fire(2*time.Second))
	assert.Len(t, human.Hand, 3)
	caught := mb.last(EventPlayerCaught)
	require.NotNil(t, caught)
	assert.Equal(t, "timeout", caught.Payload["reason"])
	assert.Equal(t, 0, sched.pending(3*time.Second), "the catch is cancelled with the window")
}

func TestHouseRulesValidate(t *testing.T) {
	cases := map[string]func(*HouseRules){
		"hand too small":   func(r *HouseRules) { r.InitialHandSize = 1 },
		"hand too large":   func(r *HouseRules) { r.InitialHandSize = 32 },
		"negative penalty": func(r *HouseRules) { r.PenaltyDrawCount = -1 },
		"zero timeout":     func(r *HouseRules) { r.DeclareTimeout = 0 },
		"zero bot delay":   func(r *HouseRules) { r.BotMoveDelay = 0 },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			rules := DefaultHouseRules()
			mutate(&rules)
			assert.Error(t, rules.Validate())
		})
	}

	rules := DefaultHouseRules()
	rules.InitialHandSize = 31
	rules.PenaltyDrawCount = 0
	assert.NoError(t, rules.Validate(), "31 each still leaves two cards")
}

func TestParseRules(t *testing.T) {
	rules, err := ParseRules(map[string]interface{}{
		"initialHandSize":  float64(5),
		"penaltyDrawCount": 4,
		"catchDelayMs":     float64(750),
	}, DefaultHouseRules())
	require.NoError(t, err)

	assert.Equal(t, 5, rules.InitialHandSize)
	assert.Equal(t, 4, rules.PenaltyDrawCount)
	assert.Equal(t, 750*time.Millisecond, rules.CatchDelay)
	assert.Equal(t, 3*time.Second, rules.DeclareTimeout, "absent keys are untouched")

	_, err = ParseRules(map[string]interface{}{"initialHandSize": "seven"}, DefaultHouseRules())
	assert.Error(t, err)
	_, err = ParseRules(map[string]interface{}{"declareTimeoutMs": float64(0)}, DefaultHouseRules())
	assert.Error(t, err)
	_, err = ParseRules(map[string]interface{}{"initialHandSize": float64(1)}, DefaultHouseRules())
	assert.Error(t, err)
}
