// internal/game/rules.go
package game

import (
	"fmt"
	"time"

	"github.com/jason-s-yu/lastcard/internal/models"
)

// HouseRules holds the tunable parts of a game: hand size, the missed-declaration
// penalty and every timer delay.
type HouseRules struct {
	InitialHandSize  int           `json:"initialHandSize"`  // cards dealt to each player
	PenaltyDrawCount int           `json:"penaltyDrawCount"` // cards drawn for a missed declaration
	DeclareTimeout   time.Duration `json:"declareTimeout"`   // human window before the timeout penalty
	CatchDelay       time.Duration `json:"catchDelay"`       // automated player's reaction time to catch the human
	SelfDeclareDelay time.Duration `json:"selfDeclareDelay"` // automated player's delay before declaring itself
	BotMoveDelay     time.Duration `json:"botMoveDelay"`     // automated player's think time per turn
}

// DefaultHouseRules returns the standard timings. CatchDelay is shorter than
// DeclareTimeout, so with these values the automated player catches a silent
// human before the timeout fires; the timeout only decides the penalty when
// the catch delay is configured above it.
func DefaultHouseRules() HouseRules {
	return HouseRules{
		InitialHandSize:  7,
		PenaltyDrawCount: 2,
		DeclareTimeout:   3 * time.Second,
		CatchDelay:       2 * time.Second,
		SelfDeclareDelay: time.Second,
		BotMoveDelay:     1200 * time.Millisecond,
	}
}

// Validate rejects rules that would make the game unplayable.
func (rules HouseRules) Validate() error {
	if rules.InitialHandSize < 2 {
		return fmt.Errorf("initialHandSize must be at least 2")
	}
	if 2*rules.InitialHandSize+1 > models.DeckSize {
		return fmt.Errorf("initialHandSize %d leaves no cards to draw", rules.InitialHandSize)
	}
	if rules.PenaltyDrawCount < 0 {
		return fmt.Errorf("penaltyDrawCount must be non-negative")
	}
	if rules.DeclareTimeout <= 0 || rules.CatchDelay <= 0 || rules.SelfDeclareDelay <= 0 || rules.BotMoveDelay <= 0 {
		return fmt.Errorf("timer delays must be positive")
	}
	return nil
}

// Update applies the keys present in newRules and leaves the others untouched.
// Delays are given in milliseconds.
func (rules *HouseRules) Update(newRules map[string]interface{}) error {
	readInt := func(key string) (int, bool, error) {
		val, exists := newRules[key]
		if !exists || val == nil {
			return 0, false, nil
		}
		// JSON numbers decode as float64
		switch v := val.(type) {
		case float64:
			return int(v), true, nil
		case int:
			return v, true, nil
		default:
			return 0, false, fmt.Errorf("invalid type for %s", key)
		}
	}

	assignInt := func(field *int, key string, minVal int) error {
		v, ok, err := readInt(key)
		if err != nil || !ok {
			return err
		}
		if v < minVal {
			return fmt.Errorf("%s must be at least %d", key, minVal)
		}
		*field = v
		return nil
	}

	assignMillis := func(field *time.Duration, key string) error {
		v, ok, err := readInt(key)
		if err != nil || !ok {
			return err
		}
		if v <= 0 {
			return fmt.Errorf("%s must be positive", key)
		}
		*field = time.Duration(v) * time.Millisecond
		return nil
	}

	if err := assignInt(&rules.InitialHandSize, "initialHandSize", 2); err != nil {
		return err
	}
	if err := assignInt(&rules.PenaltyDrawCount, "penaltyDrawCount", 0); err != nil {
		return err
	}
	if err := assignMillis(&rules.DeclareTimeout, "declareTimeoutMs"); err != nil {
		return err
	}
	if err := assignMillis(&rules.CatchDelay, "catchDelayMs"); err != nil {
		return err
	}
	if err := assignMillis(&rules.SelfDeclareDelay, "selfDeclareDelayMs"); err != nil {
		return err
	}
	if err := assignMillis(&rules.BotMoveDelay, "botMoveDelayMs"); err != nil {
		return err
	}
	return nil
}

// ParseRules returns a copy of current with newRules applied.
func ParseRules(newRules map[string]interface{}, current HouseRules) (HouseRules, error) {
	rules := current
	err := rules.Update(newRules)
	return rules, err
}
