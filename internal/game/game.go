// internal/game/game.go
package game

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jason-s-yu/lastcard/internal/cache"
	"github.com/jason-s-yu/lastcard/internal/models"
	"github.com/sirupsen/logrus"
)

var (
	ErrInvalidPlay        = errors.New("invalid play")
	ErrDeckExhausted      = errors.New("deck exhausted")
	ErrIllegalDeclaration = errors.New("illegal declaration")
	ErrGameOver           = errors.New("game is over")
	ErrNotYourTurn        = errors.New("not your turn")
	ErrWrongPhase         = errors.New("command not allowed in this phase")
	ErrCardNotInHand      = errors.New("card not in hand")
	ErrInvalidColor       = errors.New("invalid color")
	ErrPassNotAllowed     = errors.New("pass not allowed before drawing")
	ErrAlreadyDrew        = errors.New("already drew this turn")
	ErrNothingToCatch     = errors.New("nothing to catch")
	ErrUnknownPlayer      = errors.New("unknown player")
	ErrMalformedDeck      = errors.New("malformed deck")
	ErrBadSeating         = errors.New("game needs exactly one human and one automated player")
)

// Phase is the state of the turn machine.
type Phase int

const (
	PhaseNotStarted Phase = iota
	PhaseAwaitingPlay
	PhaseAwaitingColorChoice
	PhaseGameOver
)

func (p Phase) String() string {
	switch p {
	case PhaseNotStarted:
		return "not_started"
	case PhaseAwaitingPlay:
		return "awaiting_play"
	case PhaseAwaitingColorChoice:
		return "awaiting_color_choice"
	case PhaseGameOver:
		return "game_over"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// ActionSink receives the game's action log. Publish is called off the game
// lock on its own goroutine.
type ActionSink interface {
	Publish(ctx context.Context, record cache.GameActionRecord) error
}

// OnGameEndFunc is invoked once when a player empties their hand. It runs with
// the game lock held.
type OnGameEndFunc func(gameID uuid.UUID, winner uuid.UUID, score int)

// Option configures a Game at construction.
type Option func(*Game)

// WithRand sets the source of randomness used for shuffles and automated choices.
func WithRand(r *rand.Rand) Option {
	return func(g *Game) { g.rng = r }
}

// WithScheduler sets the scheduler used for declaration and automated-move timers.
func WithScheduler(s Scheduler) Option {
	return func(g *Game) { g.scheduler = s }
}

// WithNotifier sets the view that receives every event.
func WithNotifier(n Notifier) Option {
	return func(g *Game) { g.notifier = n }
}

// WithActionSink sets where the action log is published.
func WithActionSink(s ActionSink) Option {
	return func(g *Game) { g.sink = s }
}

// WithLogger sets the logger; the game adds its own "game" field.
func WithLogger(l logrus.FieldLogger) Option {
	return func(g *Game) { g.baseLogger = l }
}

// WithOnGameEnd registers the end-of-game callback.
func WithOnGameEnd(f OnGameEndFunc) Option {
	return func(g *Game) { g.OnGameEnd = f }
}

// withDeck replaces the standard shuffled deck with a fixed order. Tests only.
func withDeck(cards []models.Card) Option {
	return func(g *Game) { g.fixedDeck = cards }
}

// Game holds the entire state of one two-player game. Every exported method
// takes Mu; timer callbacks take it too, so all transitions are serialized.
type Game struct {
	ID         uuid.UUID
	HouseRules HouseRules

	Players []*models.Player

	CurrentPlayerIndex int
	Direction          int // +1 or -1
	ActiveColor        models.Color
	PendingDrawCount   int
	Phase              Phase
	Winner             uuid.UUID
	TurnID             int

	Mu sync.Mutex

	OnGameEnd OnGameEndFunc

	deck *Deck
	pile *DiscardPile

	rng        *rand.Rand
	scheduler  Scheduler
	notifier   Notifier
	sink       ActionSink
	baseLogger logrus.FieldLogger
	log        logrus.FieldLogger
	fixedDeck  []models.Card

	pendingEffect models.Effect
	drewThisTurn  bool
	drawnCardID   uuid.UUID

	windows   map[uuid.UUID]*declarationWindow
	windowSeq int
	botTimer  Timer

	closed      bool
	actionIndex int
}

// NewGame seats human and bot, validates the deck, shuffles, deals and flips the
// opening card. No events are sent until Start.
func NewGame(human, bot *models.Player, rules HouseRules, opts ...Option) (*Game, error) {
	if human == nil || bot == nil || human.Kind != models.KindHuman || bot.Kind != models.KindAutomated || human.ID == bot.ID {
		return nil, ErrBadSeating
	}
	if err := rules.Validate(); err != nil {
		return nil, fmt.Errorf("invalid house rules: %w", err)
	}

	g := &Game{
		ID:         uuid.New(),
		HouseRules: rules,
		Players:    []*models.Player{human, bot},
		Direction:  1,
		Phase:      PhaseNotStarted,
		windows:    make(map[uuid.UUID]*declarationWindow),
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.rng == nil {
		g.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if g.scheduler == nil {
		g.scheduler = RealScheduler{}
	}
	if g.baseLogger == nil {
		g.baseLogger = logrus.StandardLogger()
	}
	g.log = g.baseLogger.WithField("game", g.ID)

	cards := g.fixedDeck
	if cards == nil {
		cards = models.StandardDeck()
	}
	if err := models.ValidateComposition(cards); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedDeck, err)
	}
	g.deck = NewDeck(cards)
	if g.fixedDeck == nil {
		g.deck.Shuffle(g.rng)
	}
	g.pile = NewDiscardPile()

	for _, p := range g.Players {
		p.ClearHand()
		p.ResetDeclarationStatus()
	}
	for i := 0; i < rules.InitialHandSize; i++ {
		for _, p := range g.Players {
			c, err := g.deck.Draw()
			if err != nil {
				return nil, fmt.Errorf("%w: ran out of cards while dealing", ErrMalformedDeck)
			}
			p.AddCard(c)
		}
	}

	if err := g.flipOpeningCard(); err != nil {
		return nil, err
	}
	g.log.WithField("top", g.mustTop().String()).Info("game created")
	return g, nil
}

// flipOpeningCard draws until a number card comes up, returning anything else
// to the deck with a reshuffle. Bounded by the deck size.
func (g *Game) flipOpeningCard() error {
	for attempts := g.deck.Size(); attempts > 0; attempts-- {
		c, err := g.deck.Draw()
		if err != nil {
			break
		}
		if c.Rank.IsNumber() {
			g.pile.Discard(c)
			g.ActiveColor = c.Color
			return nil
		}
		g.deck.PutBack(c, g.rng)
	}
	return fmt.Errorf("%w: no number card available to open the discard pile", ErrMalformedDeck)
}

// Start announces the game and begins the turn cycle with the human seat.
func (g *Game) Start() error {
	g.Mu.Lock()
	defer g.Mu.Unlock()

	if g.closed {
		return ErrGameOver
	}
	if g.Phase != PhaseNotStarted {
		return fmt.Errorf("%w: game already started", ErrWrongPhase)
	}
	g.Phase = PhaseAwaitingPlay
	g.CurrentPlayerIndex = 0

	top := g.mustTop()
	players := make([]EventUser, len(g.Players))
	for i, p := range g.Players {
		players[i] = *buildEventUser(p)
	}
	g.fireEvent(GameEvent{
		Type: EventGameStarted,
		Card: buildEventCard(top),
		Payload: map[string]interface{}{
			"activeColor": g.ActiveColor.String(),
			"players":     players,
			"deckSize":    g.deck.Size(),
		},
	})
	g.logAction(uuid.Nil, string(EventGameStarted), map[string]interface{}{"top": top.String()})
	for _, p := range g.Players {
		g.fireHandChanged(p)
	}
	g.broadcastPlayerTurn()
	g.scheduleBotMove()
	g.log.Info("game started")
	return nil
}

// Close stops every outstanding timer. Any callback that still fires finds the
// game closed and does nothing.
func (g *Game) Close() {
	g.Mu.Lock()
	defer g.Mu.Unlock()
	if g.closed {
		return
	}
	g.closed = true
	g.stopAllTimers()
	g.log.Debug("game closed")
}

// PlayCard plays cardID from playerID's hand.
func (g *Game) PlayCard(playerID, cardID uuid.UUID) error {
	g.Mu.Lock()
	defer g.Mu.Unlock()
	return g.playCard(playerID, cardID)
}

// playCard assumes lock is held.
func (g *Game) playCard(playerID, cardID uuid.UUID) error {
	p, idx, err := g.commandPlayer(playerID)
	if err != nil {
		return err
	}
	if g.Phase != PhaseAwaitingPlay {
		return fmt.Errorf("%w: %w", ErrInvalidPlay, ErrWrongPhase)
	}
	if idx != g.CurrentPlayerIndex {
		return fmt.Errorf("%w: %w", ErrInvalidPlay, ErrNotYourTurn)
	}
	card, ok := p.FindCard(cardID)
	if !ok {
		return fmt.Errorf("%w: %w", ErrInvalidPlay, ErrCardNotInHand)
	}
	if g.drewThisTurn && card.ID != g.drawnCardID {
		return fmt.Errorf("%w: only the drawn card may be played after drawing", ErrInvalidPlay)
	}
	if !g.isValidPlay(card) {
		top := g.mustTop()
		return fmt.Errorf("%w: %s does not match %s on %s", ErrInvalidPlay, card, g.ActiveColor, top)
	}

	before := p.HandSize()
	p.RemoveCard(card.ID)
	g.pile.Discard(card)
	g.drewThisTurn = false
	g.drawnCardID = uuid.Nil

	g.log.WithFields(logrus.Fields{"player": p.Name, "card": card.String()}).Info("card played")
	g.logAction(p.ID, string(EventCardPlayed), map[string]interface{}{"cardId": card.ID, "card": card.String()})
	g.fireEvent(GameEvent{
		Type:    EventCardPlayed,
		User:    buildEventUser(p),
		Card:    buildEventCard(card),
		Payload: map[string]interface{}{"handSize": p.HandSize()},
	})
	g.fireHandChanged(p)
	g.handSizeChanged(p, before)

	effect := models.EffectFor(card.Rank)
	if p.HandSize() == 0 {
		if !effect.ChooseColor {
			g.ActiveColor = card.Color
		}
		if effect.Draw > 0 {
			g.forceDraw(g.Players[g.nextIndex(1)], effect.Draw, "card_effect")
		}
		g.endGame(idx)
		return nil
	}

	if effect.ChooseColor {
		g.Phase = PhaseAwaitingColorChoice
		g.pendingEffect = effect
		g.PendingDrawCount = effect.Draw
		g.fireEvent(GameEvent{
			Type:    EventMustChooseColor,
			User:    buildEventUser(p),
			Card:    buildEventCard(card),
			Payload: map[string]interface{}{"pendingDraw": effect.Draw},
		})
		return nil
	}

	g.ActiveColor = card.Color
	g.resolveEffect(effect)
	return nil
}

// ChooseColor sets the active color after a wild and resolves its pending effect.
func (g *Game) ChooseColor(playerID uuid.UUID, color models.Color) error {
	g.Mu.Lock()
	defer g.Mu.Unlock()
	return g.chooseColor(playerID, color)
}

// chooseColor assumes lock is held.
func (g *Game) chooseColor(playerID uuid.UUID, color models.Color) error {
	p, idx, err := g.commandPlayer(playerID)
	if err != nil {
		return err
	}
	if g.Phase != PhaseAwaitingColorChoice {
		return fmt.Errorf("%w: no color choice pending", ErrWrongPhase)
	}
	if idx != g.CurrentPlayerIndex {
		return ErrNotYourTurn
	}
	if !color.IsPlayable() {
		return fmt.Errorf("%w: %s", ErrInvalidColor, color)
	}

	g.ActiveColor = color
	effect := g.pendingEffect
	g.pendingEffect = models.Effect{}
	g.Phase = PhaseAwaitingPlay

	g.log.WithFields(logrus.Fields{"player": p.Name, "color": color.String()}).Info("color chosen")
	g.logAction(p.ID, string(EventColorChosen), map[string]interface{}{"color": color.String()})
	g.fireEvent(GameEvent{
		Type:    EventColorChosen,
		User:    buildEventUser(p),
		Payload: map[string]interface{}{"color": color.String()},
	})
	g.resolveEffect(effect)
	return nil
}

// DrawTurnCard draws the current player's one voluntary card for the turn.
// The turn stays with the player, who may play that card or pass.
func (g *Game) DrawTurnCard(playerID uuid.UUID) (models.Card, error) {
	g.Mu.Lock()
	defer g.Mu.Unlock()
	return g.drawTurnCard(playerID)
}

// drawTurnCard assumes lock is held.
func (g *Game) drawTurnCard(playerID uuid.UUID) (models.Card, error) {
	p, idx, err := g.commandPlayer(playerID)
	if err != nil {
		return models.Card{}, err
	}
	if g.Phase != PhaseAwaitingPlay || g.PendingDrawCount != 0 {
		return models.Card{}, fmt.Errorf("%w: cannot draw while a choice is pending", ErrWrongPhase)
	}
	if idx != g.CurrentPlayerIndex {
		return models.Card{}, ErrNotYourTurn
	}
	if g.drewThisTurn {
		return models.Card{}, ErrAlreadyDrew
	}

	before := p.HandSize()
	c, err := g.drawFromDeck()
	if err != nil {
		g.log.WithField("player", p.Name).Warn("draw requested but no cards are left")
		return models.Card{}, err
	}
	p.AddCard(c)
	g.drewThisTurn = true
	g.drawnCardID = c.ID

	g.logAction(p.ID, string(EventCardDrawn), map[string]interface{}{"cardId": c.ID, "deckSize": g.deck.Size()})
	g.fireEvent(GameEvent{
		Type: EventCardDrawn,
		User: buildEventUser(p),
		Card: buildEventCard(c),
		Payload: map[string]interface{}{
			"deckSize": g.deck.Size(),
			"playable": g.isValidPlay(c),
		},
	})
	g.fireHandChanged(p)
	g.handSizeChanged(p, before)
	return c, nil
}

// PassTurn ends the current player's turn after a draw, or when nothing could be drawn.
func (g *Game) PassTurn(playerID uuid.UUID) error {
	g.Mu.Lock()
	defer g.Mu.Unlock()
	return g.passTurn(playerID)
}

// passTurn assumes lock is held.
func (g *Game) passTurn(playerID uuid.UUID) error {
	p, idx, err := g.commandPlayer(playerID)
	if err != nil {
		return err
	}
	if g.Phase != PhaseAwaitingPlay {
		return fmt.Errorf("%w: cannot pass now", ErrWrongPhase)
	}
	if idx != g.CurrentPlayerIndex {
		return ErrNotYourTurn
	}
	if !g.drewThisTurn && !g.drawImpossible() {
		return ErrPassNotAllowed
	}
	g.logAction(p.ID, string(EventPlayerPassed), nil)
	g.fireEvent(GameEvent{Type: EventPlayerPassed, User: buildEventUser(p)})
	g.advanceTurn(1)
	return nil
}

// IsValidPlay reports whether card may be played on the current pile.
func (g *Game) IsValidPlay(card models.Card) bool {
	g.Mu.Lock()
	defer g.Mu.Unlock()
	return g.isValidPlay(card)
}

// isValidPlay assumes lock is held.
func (g *Game) isValidPlay(card models.Card) bool {
	top, err := g.pile.Top()
	if err != nil {
		return false
	}
	return CanPlayOn(card, g.ActiveColor, top)
}

// CanPlayOn is the matching rule: a wild, the active color, or the top card's rank.
func CanPlayOn(card models.Card, activeColor models.Color, top models.Card) bool {
	return card.Color == models.ColorWild || card.Color == activeColor || card.Rank == top.Rank
}

// advanceTurn moves the turn pointer steps seats along the direction.
// Assumes lock is held.
func (g *Game) advanceTurn(steps int) {
	if g.Phase == PhaseGameOver {
		return
	}
	prev := g.Players[g.CurrentPlayerIndex]
	if prev.HandSize() != 1 {
		prev.ResetDeclarationStatus()
	}
	g.CurrentPlayerIndex = g.nextIndex(steps)
	g.PendingDrawCount = 0
	g.pendingEffect = models.Effect{}
	g.drewThisTurn = false
	g.drawnCardID = uuid.Nil
	g.Phase = PhaseAwaitingPlay
	g.TurnID++

	g.broadcastPlayerTurn()
	g.scheduleBotMove()
}

// nextIndex is the seat steps positions away in the current direction.
func (g *Game) nextIndex(steps int) int {
	n := len(g.Players)
	return ((g.CurrentPlayerIndex+steps*g.Direction)%n + n) % n
}

// broadcastPlayerTurn notifies whose turn it is. Assumes lock is held.
func (g *Game) broadcastPlayerTurn() {
	cur := g.Players[g.CurrentPlayerIndex]
	g.log.WithFields(logrus.Fields{"turn": g.TurnID, "player": cur.Name}).Debug("turn started")
	g.fireEvent(GameEvent{
		Type: EventTurnChanged,
		User: buildEventUser(cur),
		Payload: map[string]interface{}{
			"turn":        g.TurnID,
			"direction":   g.Direction,
			"activeColor": g.ActiveColor.String(),
		},
	})
}

// endGame records the winner, stops all timers and scores the loser's hand.
// Assumes lock is held.
func (g *Game) endGame(winnerIdx int) {
	if g.Phase == PhaseGameOver {
		return
	}
	winner := g.Players[winnerIdx]
	g.Phase = PhaseGameOver
	g.Winner = winner.ID
	g.PendingDrawCount = 0
	g.pendingEffect = models.Effect{}
	g.stopAllTimers()

	score := 0
	for i, p := range g.Players {
		if i != winnerIdx {
			score += p.HandPoints()
		}
	}
	g.log.WithFields(logrus.Fields{"winner": winner.Name, "score": score}).Info("game over")
	g.logAction(winner.ID, string(EventGameOver), map[string]interface{}{"score": score})
	g.fireEvent(GameEvent{
		Type:    EventGameOver,
		User:    buildEventUser(winner),
		Payload: map[string]interface{}{"score": score},
	})
	if g.OnGameEnd != nil {
		g.OnGameEnd(g.ID, winner.ID, score)
	}
}

// commandPlayer resolves the acting player and rejects commands on a finished
// or unstarted game. Assumes lock is held.
func (g *Game) commandPlayer(playerID uuid.UUID) (*models.Player, int, error) {
	if g.closed || g.Phase == PhaseGameOver {
		return nil, -1, ErrGameOver
	}
	if g.Phase == PhaseNotStarted {
		return nil, -1, fmt.Errorf("%w: game not started", ErrWrongPhase)
	}
	for i, p := range g.Players {
		if p.ID == playerID {
			return p, i, nil
		}
	}
	return nil, -1, fmt.Errorf("%w: %s", ErrUnknownPlayer, playerID)
}

// getPlayerByID assumes lock is held.
func (g *Game) getPlayerByID(playerID uuid.UUID) *models.Player {
	for _, p := range g.Players {
		if p.ID == playerID {
			return p
		}
	}
	return nil
}

// opponentOf returns the other seat. Assumes lock is held.
func (g *Game) opponentOf(playerID uuid.UUID) *models.Player {
	for _, p := range g.Players {
		if p.ID != playerID {
			return p
		}
	}
	return nil
}

// mustTop returns the discard top; the pile is never empty after construction.
func (g *Game) mustTop() models.Card {
	top, _ := g.pile.Top()
	return top
}

// TotalCards counts every card the game owns: deck, pile and hands.
func (g *Game) TotalCards() int {
	g.Mu.Lock()
	defer g.Mu.Unlock()
	total := g.deck.Size() + g.pile.Size()
	for _, p := range g.Players {
		total += p.HandSize()
	}
	return total
}

// stopAllTimers assumes lock is held.
func (g *Game) stopAllTimers() {
	for id := range g.windows {
		g.closeDeclarationWindow(id)
	}
	if g.botTimer != nil {
		g.botTimer.Stop()
		g.botTimer = nil
	}
}

// logAction publishes to the action sink asynchronously. Assumes lock is held.
func (g *Game) logAction(actorID uuid.UUID, actionType string, payload map[string]interface{}) {
	g.actionIndex++
	if g.sink == nil {
		return
	}
	if payload == nil {
		payload = make(map[string]interface{})
	}
	record := cache.GameActionRecord{
		GameID:        g.ID,
		ActionIndex:   g.actionIndex,
		ActorUserID:   actorID,
		ActionType:    actionType,
		ActionPayload: payload,
		Timestamp:     time.Now().UnixMilli(),
	}
	sink, log := g.sink, g.log
	go func(rec cache.GameActionRecord) {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := sink.Publish(ctx, rec); err != nil {
			log.WithError(err).WithField("action", rec.ActionIndex).Warn("failed to publish game action")
		}
	}(record)
}
