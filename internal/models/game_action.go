package models

// Action types accepted by Game.HandlePlayerAction.
const (
	ActionPlay    = "action_play"
	ActionDraw    = "action_draw"
	ActionPass    = "action_pass"
	ActionColor   = "action_choose_color"
	ActionDeclare = "action_declare"
	ActionCatch   = "action_catch"
)

// GameAction captures a player's in-game move as it arrives from a view.
// Payload keys: "id" (card uuid string) for play, "color" for choose_color.
type GameAction struct {
	ActionType string                 `json:"action_type"`
	Payload    map[string]interface{} `json:"payload"`
}
