package main

import (
	"bytes"
	"fmt"
	"io"
	"math/rand"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/jason-s-yu/lastcard/internal/game"
	"github.com/jason-s-yu/lastcard/internal/models"
	"github.com/jason-s-yu/lastcard/internal/view"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDescribe(t *testing.T) {
	assert.Equal(t, "Wait for your turn.", describe(fmt.Errorf("%w: %w", game.ErrInvalidPlay, game.ErrNotYourTurn)))
	assert.Equal(t, "", describe(fmt.Errorf("%w: x", game.ErrIllegalDeclaration)))
	assert.Contains(t, describe(game.ErrGameOver), "restart")
}

func TestRunScript(t *testing.T) {
	color.NoColor = true
	human := models.NewPlayer("alice", models.KindHuman)
	bot := models.NewPlayer("robot", models.KindAutomated)
	var out bytes.Buffer
	term := view.NewTerminal(&out, human.ID)
	session := game.NewSession(human, bot, game.DefaultHouseRules(),
		game.WithRand(rand.New(rand.NewSource(9))),
		game.WithNotifier(term),
	)
	defer session.Close()

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	in := strings.NewReader("hand\nfly\nplay 99\nuno\npass\nscore\nquit\nhand\n")
	require.NoError(t, run(session, term, in, logger))

	text := out.String()
	assert.Contains(t, text, "commands:")
	assert.Contains(t, text, "Your hand: [1]")
	assert.Contains(t, text, `unknown command "fly"`)
	assert.Contains(t, text, "no card 99 in your hand")
	assert.Contains(t, text, "Draw a card before passing.")
	assert.Contains(t, text, "Games finished: 0")
	assert.Contains(t, text, "rating 1500")
	assert.Contains(t, text, "Your chance to win the next game: 50%")
}
