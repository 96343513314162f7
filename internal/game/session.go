package game

import (
	"sync"

	"github.com/google/uuid"
	"github.com/jason-s-yu/lastcard/internal/models"
	"github.com/jason-s-yu/lastcard/internal/rating"
)

// Session owns the current game for a fixed pair of seats and replaces it
// wholesale on restart.
type Session struct {
	mu   sync.Mutex
	game *Game

	human, bot models.Player
	rules      HouseRules
	opts       []Option

	scoreMu sync.Mutex // never held while taking a Game lock
	wins    map[uuid.UUID]int
	points  map[uuid.UUID]int
	ratings map[uuid.UUID]rating.Rating
	played  int
}

// NewSession fixes the two seat identities used by every game it starts.
// Only ID, Name and Kind are taken from human and bot; each game gets fresh
// Player values so a closed game never shares a hand with its successor.
func NewSession(human, bot *models.Player, rules HouseRules, opts ...Option) *Session {
	return &Session{
		human:  models.Player{ID: human.ID, Name: human.Name, Kind: human.Kind},
		bot:    models.Player{ID: bot.ID, Name: bot.Name, Kind: bot.Kind},
		rules:  rules,
		opts:   opts,
		wins:   make(map[uuid.UUID]int),
		points: make(map[uuid.UUID]int),
		ratings: map[uuid.UUID]rating.Rating{
			human.ID: rating.Default(),
			bot.ID:   rating.Default(),
		},
	}
}

func (s *Session) HumanID() uuid.UUID { return s.human.ID }
func (s *Session) BotID() uuid.UUID   { return s.bot.ID }

// Start closes any running game, cancelling its timers, then builds and
// starts a fresh one.
func (s *Session) Start() (*Game, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.game != nil {
		s.game.Close()
		s.game = nil
	}

	human := &models.Player{ID: s.human.ID, Name: s.human.Name, Kind: s.human.Kind}
	bot := &models.Player{ID: s.bot.ID, Name: s.bot.Name, Kind: s.bot.Kind}

	opts := append([]Option{}, s.opts...)
	opts = append(opts, WithOnGameEnd(s.recordResult))
	g, err := NewGame(human, bot, s.rules, opts...)
	if err != nil {
		return nil, err
	}
	if err := g.Start(); err != nil {
		return nil, err
	}
	s.game = g
	return g, nil
}

// Restart is Start; the name reads better at call sites.
func (s *Session) Restart() (*Game, error) {
	return s.Start()
}

// Game returns the running game, or nil before Start.
func (s *Session) Game() *Game {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.game
}

// Close stops the running game.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.game != nil {
		s.game.Close()
	}
}

// Scoreboard reports games finished, wins and points per seat.
func (s *Session) Scoreboard() (played int, wins, points map[uuid.UUID]int) {
	s.scoreMu.Lock()
	defer s.scoreMu.Unlock()
	wins = make(map[uuid.UUID]int, len(s.wins))
	points = make(map[uuid.UUID]int, len(s.points))
	for id, n := range s.wins {
		wins[id] = n
	}
	for id, n := range s.points {
		points[id] = n
	}
	return s.played, wins, points
}

// Ratings returns each seat's Glicko-2 rating over the games finished so far.
func (s *Session) Ratings() map[uuid.UUID]rating.Rating {
	s.scoreMu.Lock()
	defer s.scoreMu.Unlock()
	out := make(map[uuid.UUID]rating.Rating, len(s.ratings))
	for id, r := range s.ratings {
		out[id] = r
	}
	return out
}

// recordResult runs under the finishing game's lock.
func (s *Session) recordResult(_ uuid.UUID, winner uuid.UUID, score int) {
	s.scoreMu.Lock()
	defer s.scoreMu.Unlock()
	s.played++
	s.wins[winner]++
	s.points[winner] += score

	loser := s.bot.ID
	if winner == s.bot.ID {
		loser = s.human.ID
	}
	s.ratings[winner], s.ratings[loser] = rating.Update1v1(s.ratings[winner], s.ratings[loser])
}
