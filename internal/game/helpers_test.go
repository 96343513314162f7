package game

import (
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jason-s-yu/lastcard/internal/models"
	"github.com/stretchr/testify/require"
)

// Test timings. The manual scheduler tells timers apart by delay, so these
// must all differ.
const (
	testBotMove     = 500 * time.Millisecond
	testSelfDeclare = 1 * time.Second
	testCatch       = 2 * time.Second
	testTimeout     = 3 * time.Second
)

func testRules(handSize int) HouseRules {
	return HouseRules{
		InitialHandSize:  handSize,
		PenaltyDrawCount: 2,
		DeclareTimeout:   testTimeout,
		CatchDelay:       testCatch,
		SelfDeclareDelay: testSelfDeclare,
		BotMoveDelay:     testBotMove,
	}
}

// mockBroadcaster collects events instead of rendering them.
type mockBroadcaster struct {
	mu     sync.Mutex
	events []GameEvent
}

func (mb *mockBroadcaster) Notify(ev GameEvent) {
	mb.mu.Lock()
	defer mb.mu.Unlock()
	mb.events = append(mb.events, ev)
}

func (mb *mockBroadcaster) clear() {
	mb.mu.Lock()
	defer mb.mu.Unlock()
	mb.events = nil
}

func (mb *mockBroadcaster) count(t GameEventType) int {
	mb.mu.Lock()
	defer mb.mu.Unlock()
	n := 0
	for _, ev := range mb.events {
		if ev.Type == t {
			n++
		}
	}
	return n
}

func (mb *mockBroadcaster) last(t GameEventType) *GameEvent {
	mb.mu.Lock()
	defer mb.mu.Unlock()
	for i := len(mb.events) - 1; i >= 0; i-- {
		if mb.events[i].Type == t {
			ev := mb.events[i]
			return &ev
		}
	}
	return nil
}

// manualScheduler hands out timers that only run when the test fires them.
type manualScheduler struct {
	mu    sync.Mutex
	tasks []*manualTask
}

type manualTask struct {
	s       *manualScheduler
	d       time.Duration
	f       func()
	stopped bool
	fired   bool
}

func (t *manualTask) Stop() bool {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	if t.stopped || t.fired {
		return false
	}
	t.stopped = true
	return true
}

func (s *manualScheduler) AfterFunc(d time.Duration, f func()) Timer {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := &manualTask{s: s, d: d, f: f}
	s.tasks = append(s.tasks, t)
	return t
}

// due marks every pending task with one of the delays as fired and returns them.
func (s *manualScheduler) due(ds ...time.Duration) []*manualTask {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*manualTask
	for _, t := range s.tasks {
		if t.stopped || t.fired {
			continue
		}
		for _, d := range ds {
			if t.d == d {
				t.fired = true
				out = append(out, t)
				break
			}
		}
	}
	return out
}

// fire runs the pending tasks with delay d one after another.
func (s *manualScheduler) fire(d time.Duration) int {
	tasks := s.due(d)
	for _, t := range tasks {
		t.f()
	}
	return len(tasks)
}

// fireTogether runs the pending tasks for all delays at once on separate goroutines.
func (s *manualScheduler) fireTogether(ds ...time.Duration) int {
	tasks := s.due(ds...)
	start := make(chan struct{})
	var wg sync.WaitGroup
	for _, t := range tasks {
		wg.Add(1)
		go func(f func()) {
			defer wg.Done()
			<-start
			f()
		}(t.f)
	}
	close(start)
	wg.Wait()
	return len(tasks)
}

func (s *manualScheduler) pending(d time.Duration) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, t := range s.tasks {
		if !t.stopped && !t.fired && t.d == d {
			n++
		}
	}
	return n
}

func face(c models.Color, r models.Rank) models.Face {
	if r.IsWild() {
		c = models.ColorWild
	}
	return models.Face{Color: c, Rank: r}
}

// stackDeck orders a standard deck so the deal gives human and bot the listed
// faces, the opening card is top, and the deck then starts with front.
func stackDeck(t *testing.T, human, bot []models.Face, top models.Face, front ...models.Face) []models.Card {
	t.Helper()
	require.Equal(t, len(human), len(bot), "hands must be the same size")
	pool := models.StandardDeck()
	take := func(f models.Face) models.Card {
		for i, c := range pool {
			if c.Color == f.Color && c.Rank == f.Rank {
				pool = append(pool[:i], pool[i+1:]...)
				return c
			}
		}
		t.Fatalf("no %s %s left in the deck", f.Color, f.Rank)
		return models.Card{}
	}
	var cards []models.Card
	for i := range human {
		cards = append(cards, take(human[i]), take(bot[i]))
	}
	cards = append(cards, take(top))
	for _, f := range front {
		cards = append(cards, take(f))
	}
	return append(cards, pool...)
}

type testTable struct {
	g     *Game
	human *models.Player
	bot   *models.Player
	mb    *mockBroadcaster
	sched *manualScheduler
}

// setupTestGame starts a game on a stacked deck with the manual scheduler.
func setupTestGame(t *testing.T, human, bot []models.Face, top models.Face, front ...models.Face) *testTable {
	t.Helper()
	tt := &testTable{
		human: models.NewPlayer("alice", models.KindHuman),
		bot:   models.NewPlayer("robot", models.KindAutomated),
		mb:    &mockBroadcaster{},
		sched: &manualScheduler{},
	}
	g, err := NewGame(tt.human, tt.bot, testRules(len(human)),
		withDeck(stackDeck(t, human, bot, top, front...)),
		WithRand(rand.New(rand.NewSource(1))),
		WithScheduler(tt.sched),
		WithNotifier(tt.mb),
	)
	require.NoError(t, err)
	require.NoError(t, g.Start())
	tt.g = g
	tt.mb.clear()
	return tt
}

// findCard returns the first card in p's hand with the given face.
func findCard(t *testing.T, p *models.Player, f models.Face) models.Card {
	t.Helper()
	for _, c := range p.Hand {
		if c.Color == f.Color && c.Rank == f.Rank {
			return c
		}
	}
	t.Fatalf("%s holds no %s %s", p.Name, f.Color, f.Rank)
	return models.Card{}
}

func (tt *testTable) play(t *testing.T, p *models.Player, f models.Face) {
	t.Helper()
	require.NoError(t, tt.g.PlayCard(p.ID, findCard(t, p, f).ID))
}

func (tt *testTable) currentID() uuid.UUID {
	tt.g.Mu.Lock()
	defer tt.g.Mu.Unlock()
	return tt.g.Players[tt.g.CurrentPlayerIndex].ID
}

// Faces used across the tests.
var (
	red2         = face(models.ColorRed, models.RankTwo)
	red4         = face(models.ColorRed, models.RankFour)
	red5         = face(models.ColorRed, models.RankFive)
	red6         = face(models.ColorRed, models.RankSix)
	red7         = face(models.ColorRed, models.RankSeven)
	redSkip      = face(models.ColorRed, models.RankSkip)
	redReverse   = face(models.ColorRed, models.RankReverse)
	redDrawTwo   = face(models.ColorRed, models.RankDrawTwo)
	blue2        = face(models.ColorBlue, models.RankTwo)
	blue3        = face(models.ColorBlue, models.RankThree)
	blue9        = face(models.ColorBlue, models.RankNine)
	green1       = face(models.ColorGreen, models.RankOne)
	green2       = face(models.ColorGreen, models.RankTwo)
	green3       = face(models.ColorGreen, models.RankThree)
	green4       = face(models.ColorGreen, models.RankFour)
	green8       = face(models.ColorGreen, models.RankEight)
	yellow3      = face(models.ColorYellow, models.RankThree)
	yellow5      = face(models.ColorYellow, models.RankFive)
	wild         = face(models.ColorWild, models.RankWild)
	wildDrawFour = face(models.ColorWild, models.RankWildDrawFour)
)

func hand(faces ...models.Face) []models.Face { return faces }
