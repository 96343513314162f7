// internal/view/terminal.go
package view

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/jason-s-yu/lastcard/internal/game"
)

var painters = map[string]func(a ...interface{}) string{
	"red":    color.New(color.FgHiRed).SprintFunc(),
	"yellow": color.New(color.FgHiYellow).SprintFunc(),
	"green":  color.New(color.FgHiGreen).SprintFunc(),
	"blue":   color.New(color.FgHiCyan).SprintFunc(),
	"wild":   color.New(color.FgHiMagenta, color.Bold).SprintFunc(),
}

var (
	alert = color.New(color.FgHiRed, color.Bold).SprintFunc()
	info  = color.New(color.Faint).SprintFunc()
)

// Paint renders a card name in its color.
func Paint(c game.EventCard) string {
	label := c.Rank
	if c.Color != "wild" {
		label = c.Color + " " + c.Rank
	}
	if p, ok := painters[c.Color]; ok {
		return p(label)
	}
	return label
}

func paintName(name string) string {
	if p, ok := painters[name]; ok {
		return p(name)
	}
	return name
}

// Terminal is a Notifier that writes one line per event. It never calls back
// into the game.
type Terminal struct {
	mu      sync.Mutex
	out     io.Writer
	humanID uuid.UUID
}

func NewTerminal(out io.Writer, humanID uuid.UUID) *Terminal {
	return &Terminal{out: out, humanID: humanID}
}

func (t *Terminal) Notify(ev game.GameEvent) {
	line := t.format(ev)
	if line == "" {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	fmt.Fprintln(t.out, line)
}

func (t *Terminal) who(u *game.EventUser) string {
	if u == nil {
		return ""
	}
	if u.ID == t.humanID {
		return "You"
	}
	return u.Name
}

func (t *Terminal) format(ev game.GameEvent) string {
	who := t.who(ev.User)
	switch ev.Type {
	case game.EventGameStarted:
		return fmt.Sprintf("New game. Opening card: %s", Paint(*ev.Card))
	case game.EventTurnChanged:
		return info(fmt.Sprintf("-- %s to play (active color %v)", who, ev.Payload["activeColor"]))
	case game.EventCardPlayed:
		return fmt.Sprintf("%s played %s", who, Paint(*ev.Card))
	case game.EventCardDrawn:
		if ev.User != nil && ev.User.ID == t.humanID {
			return fmt.Sprintf("You drew %s", Paint(*ev.Card))
		}
		return fmt.Sprintf("%s drew a card", who)
	case game.EventForcedDraw:
		return fmt.Sprintf("%s draws %v (%v)", who, ev.Payload["count"], ev.Payload["reason"])
	case game.EventPlayerSkipped:
		return fmt.Sprintf("%s is skipped", who)
	case game.EventMustChooseColor:
		if ev.User != nil && ev.User.ID == t.humanID {
			return "Choose a color: color <red|yellow|green|blue>"
		}
		return ""
	case game.EventColorChosen:
		name, _ := ev.Payload["color"].(string)
		return fmt.Sprintf("%s chose %s", who, paintName(name))
	case game.EventDeclareStatusChanged:
		if cand, _ := ev.Payload["candidate"].(bool); cand && ev.User != nil && ev.User.ID == t.humanID {
			return alert("One card left! Type 'uno' before you are caught.")
		}
		return ""
	case game.EventDeclarationResult:
		if ok, _ := ev.Payload["success"].(bool); ok {
			return fmt.Sprintf("%s called UNO!", who)
		}
		if reason, _ := ev.Payload["reason"].(string); reason == "not_candidate" {
			return "You can only call UNO with exactly one card."
		}
		return ""
	case game.EventPlayerCaught:
		return alert(fmt.Sprintf("%s missed the call (%v)", who, ev.Payload["reason"]))
	case game.EventDeckRecycled:
		return info(fmt.Sprintf("Discard pile reshuffled into the deck (%v cards)", ev.Payload["count"]))
	case game.EventPlayerPassed:
		return fmt.Sprintf("%s passed", who)
	case game.EventGameOver:
		return alert(fmt.Sprintf("%s won! Score %v. Type 'restart' for a new game.", who, ev.Payload["score"]))
	default:
		return ""
	}
}

// Println writes a line under the same lock as Notify, so REPL output and
// timer-driven events never interleave mid-line.
func (t *Terminal) Println(a ...interface{}) {
	t.mu.Lock()
	defer t.mu.Unlock()
	fmt.Fprintln(t.out, a...)
}

// RenderState writes the human's table in one locked write: the pile top, the
// opponent's count and the numbered hand.
func (t *Terminal) RenderState(st game.ObfGameState) {
	table := renderState(st, t.humanID)
	t.mu.Lock()
	defer t.mu.Unlock()
	fmt.Fprint(t.out, table)
}

func renderState(st game.ObfGameState, viewer uuid.UUID) string {
	var b strings.Builder
	if st.DiscardTop != nil {
		fmt.Fprintf(&b, "Top: %s  Active: %s  Deck: %d\n", Paint(*st.DiscardTop), st.ActiveColor, st.DeckSize)
	}
	for _, ps := range st.Players {
		if ps.PlayerID == viewer {
			continue
		}
		fmt.Fprintf(&b, "%s holds %d card(s)\n", ps.Name, ps.HandSize)
	}
	for _, ps := range st.Players {
		if ps.PlayerID != viewer {
			continue
		}
		parts := make([]string, len(ps.RevealedHand))
		for i, c := range ps.RevealedHand {
			parts[i] = fmt.Sprintf("[%d] %s", i+1, Paint(c))
		}
		fmt.Fprintf(&b, "Your hand: %s\n", strings.Join(parts, "  "))
	}
	return b.String()
}
