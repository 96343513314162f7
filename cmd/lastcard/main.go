// cmd/lastcard/main.go
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/jason-s-yu/lastcard/internal/cache"
	"github.com/jason-s-yu/lastcard/internal/config"
	"github.com/jason-s-yu/lastcard/internal/game"
	"github.com/jason-s-yu/lastcard/internal/logging"
	"github.com/jason-s-yu/lastcard/internal/models"
	"github.com/jason-s-yu/lastcard/internal/rating"
	"github.com/jason-s-yu/lastcard/internal/view"
	_ "github.com/joho/godotenv/autoload"
	"github.com/sirupsen/logrus"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	logger, err := logging.New(os.Stderr, cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	human := models.NewPlayer(cfg.PlayerName, models.KindHuman)
	bot := models.NewPlayer(cfg.BotName, models.KindAutomated)
	term := view.NewTerminal(color.Output, human.ID)

	opts := []game.Option{
		game.WithRand(rand.New(rand.NewSource(seed))),
		game.WithLogger(logger),
		game.WithNotifier(term),
	}

	if cfg.RedisAddr != "" {
		sink, err := cache.NewRedisSink(context.Background(), cfg.RedisAddr, cfg.RedisDB, cfg.RedisQueue)
		if err != nil {
			logger.WithError(err).Warn("action log disabled")
		} else {
			defer sink.Close()
			opts = append(opts, game.WithActionSink(sink))
			logger.WithField("queue", sink.Queue()).Info("publishing game actions to Redis")
		}
	}

	session := game.NewSession(human, bot, cfg.HouseRules(), opts...)
	defer session.Close()

	if err := run(session, term, os.Stdin, logger); err != nil {
		logger.WithError(err).Error("exiting")
		os.Exit(1)
	}
}

const help = `commands:
  play <n>      play the n-th card of your hand
  draw          draw a card
  pass          end your turn after drawing
  color <name>  choose red, yellow, green or blue after a wild
  uno           declare your last card
  catch         catch the bot sitting on one undeclared card
  hand          show the table
  score         show wins and ratings for this session
  restart       start a new game
  quit          leave`

// run reads commands until quit or EOF. Commands go through the game's own
// lock, so the bot's timers can fire at any point between them. Everything is
// written through term so event lines never split a printed table.
func run(session *game.Session, term *view.Terminal, in io.Reader, logger *logrus.Logger) error {
	g, err := session.Start()
	if err != nil {
		return err
	}
	me := session.HumanID()
	term.Println(help)
	term.RenderState(g.GetCurrentObfuscatedGameState(me))

	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		if fields[0] == "quit" || fields[0] == "exit" {
			return nil
		}
		g = session.Game()
		if g == nil && fields[0] != "restart" {
			term.Println("No game running, type restart.")
			continue
		}

		var cmdErr error
		switch fields[0] {
		case "help":
			term.Println(help)
			continue
		case "score":
			term.Println(scoreText(session))
			continue
		case "hand":
		case "restart":
			g, cmdErr = session.Restart()
		case "play":
			cmdErr = playByIndex(g, me, fields)
		case "draw":
			_, cmdErr = g.DrawTurnCard(me)
		case "pass":
			cmdErr = g.PassTurn(me)
		case "color":
			if len(fields) < 2 {
				cmdErr = errors.New("usage: color <red|yellow|green|blue>")
				break
			}
			cmdErr = g.HandlePlayerAction(me, models.GameAction{
				ActionType: models.ActionColor,
				Payload:    map[string]interface{}{"color": fields[1]},
			})
		case "uno":
			cmdErr = g.Declare(me)
		case "catch":
			cmdErr = g.Catch(me)
		default:
			cmdErr = fmt.Errorf("unknown command %q, type help", fields[0])
		}

		if cmdErr != nil {
			logger.WithError(cmdErr).Debug("command refused")
			if msg := describe(cmdErr); msg != "" {
				term.Println(msg)
			}
		}
		if g != nil {
			term.RenderState(g.GetCurrentObfuscatedGameState(me))
		}
	}
	return scanner.Err()
}

// scoreText renders the scoreboard, the ratings and the odds of the next game.
func scoreText(session *game.Session) string {
	played, wins, points := session.Scoreboard()
	ratings := session.Ratings()
	var b strings.Builder
	fmt.Fprintf(&b, "Games finished: %d\n", played)
	for _, seat := range []struct {
		label string
		id    uuid.UUID
	}{{"You", session.HumanID()}, {"Bot", session.BotID()}} {
		r := ratings[seat.id]
		fmt.Fprintf(&b, "  %-4s wins %d  points %d  rating %.0f (±%.0f)\n", seat.label, wins[seat.id], points[seat.id], r.Value, 2*r.Deviation)
	}
	odds := rating.Expected(ratings[session.HumanID()], ratings[session.BotID()])
	fmt.Fprintf(&b, "  Your chance to win the next game: %.0f%%", 100*odds)
	return b.String()
}

func playByIndex(g *game.Game, me uuid.UUID, fields []string) error {
	if len(fields) < 2 {
		return errors.New("usage: play <n>")
	}
	n, err := strconv.Atoi(fields[1])
	if err != nil {
		return fmt.Errorf("not a card number: %s", fields[1])
	}
	var hand []game.EventCard
	for _, ps := range g.GetCurrentObfuscatedGameState(me).Players {
		if ps.PlayerID == me {
			hand = ps.RevealedHand
		}
	}
	if n < 1 || n > len(hand) {
		return fmt.Errorf("no card %d in your hand", n)
	}
	return g.HandlePlayerAction(me, models.GameAction{
		ActionType: models.ActionPlay,
		Payload:    map[string]interface{}{"id": hand[n-1].ID.String()},
	})
}

// describe turns an engine error into a line for the player.
func describe(err error) string {
	switch {
	case errors.Is(err, game.ErrGameOver):
		return "The game is over. Type 'restart' to play again."
	case errors.Is(err, game.ErrNotYourTurn):
		return "Wait for your turn."
	case errors.Is(err, game.ErrDeckExhausted):
		return "No cards left to draw. You may pass."
	case errors.Is(err, game.ErrPassNotAllowed):
		return "Draw a card before passing."
	case errors.Is(err, game.ErrIllegalDeclaration):
		// the terminal view already printed the declaration result
		return ""
	default:
		return err.Error()
	}
}
