package event

import "github.com/cory-johannsen/corsair/internal/game/hex"

// UnitMovedPayload accompanies UnitMoved. From is nil when the unit was
// just placed on the grid.
type UnitMovedPayload struct {
	UnitID string          `json:"unit_id"`
	From   *hex.Coordinate `json:"from,omitempty"`
	To     hex.Coordinate  `json:"to"`
}

// UnitRemovedPayload accompanies UnitRemoved.
type UnitRemovedPayload struct {
	UnitID string         `json:"unit_id"`
	At     hex.Coordinate `json:"at"`
	Died   bool           `json:"died"`
}

// TurnPayload accompanies TurnBegan and TurnEnded.
type TurnPayload struct {
	ActorID string `json:"actor_id"`
	Mode    string `json:"mode"`
	Round   int    `json:"round"`
	Human   bool   `json:"human"`
}

// ModePayload accompanies ModeChanged.
type ModePayload struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// AbilityPayload accompanies AbilitySelected and AbilityUsed.
type AbilityPayload struct {
	ActorID   string           `json:"actor_id"`
	AbilityID int              `json:"ability_id"`
	Target    *hex.Coordinate  `json:"target,omitempty"`
	Affected  []hex.Coordinate `json:"affected,omitempty"`
}

// RejectedPayload accompanies ActionRejected.
type RejectedPayload struct {
	ActorID string `json:"actor_id"`
	Action  string `json:"action"`
	Reason  string `json:"reason"`
}

// SkillcheckPayload accompanies SkillcheckRequested and SkillcheckResolved.
type SkillcheckPayload struct {
	ActorID   string   `json:"actor_id"`
	AbilityID int      `json:"ability_id"`
	Hostile   []string `json:"hostile,omitempty"`
	Friendly  []string `json:"friendly,omitempty"`
}

// CharacterPayload accompanies CharacterDowned and CharacterDied.
type CharacterPayload struct {
	CharacterID string `json:"character_id"`
	Name        string `json:"name"`
}

// ObjectPayload accompanies ObjectSpawned.
type ObjectPayload struct {
	ObjectID string         `json:"object_id"`
	Kind     string         `json:"kind"`
	OwnerID  string         `json:"owner_id"`
	At       hex.Coordinate `json:"at"`
}

// CombatPayload accompanies CombatStarted and CombatEnded.
type CombatPayload struct {
	SessionID string `json:"session_id"`
	Result    string `json:"result,omitempty"`
}

// LogPayload accompanies LogMessage.
type LogPayload struct {
	Message string `json:"message"`
}
