// internal/game/handlers.go
package game

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/jason-s-yu/lastcard/internal/models"
)

// HandlePlayerAction routes a view command to the matching game operation.
func (g *Game) HandlePlayerAction(playerID uuid.UUID, action models.GameAction) error {
	switch action.ActionType {
	case models.ActionPlay:
		cardID, err := payloadUUID(action.Payload, "id")
		if err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidPlay, err)
		}
		return g.PlayCard(playerID, cardID)
	case models.ActionDraw:
		_, err := g.DrawTurnCard(playerID)
		return err
	case models.ActionPass:
		return g.PassTurn(playerID)
	case models.ActionColor:
		name, _ := action.Payload["color"].(string)
		color, err := models.ParseColor(name)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidColor, err)
		}
		return g.ChooseColor(playerID, color)
	case models.ActionDeclare:
		return g.Declare(playerID)
	case models.ActionCatch:
		return g.Catch(playerID)
	default:
		return fmt.Errorf("unknown action type '%s'", action.ActionType)
	}
}

func payloadUUID(payload map[string]interface{}, key string) (uuid.UUID, error) {
	raw, _ := payload[key].(string)
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid %s '%s'", key, raw)
	}
	return id, nil
}
