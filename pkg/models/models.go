package models

import (
	"encoding/json"
	"time"
)

// Character is the wire shape of an AI persona. Schedule and Profile are
// the parser outputs carried as raw JSON; the API never reinterprets them.
type Character struct {
	ID                string          `json:"id"`
	Name              string          `json:"name"`
	Schedule          json.RawMessage `json:"schedule,omitempty"`
	ScheduleUpdatedAt *time.Time      `json:"schedule_updated_at,omitempty"`
	Profile           json.RawMessage `json:"profile,omitempty"`
	LastStatus        string          `json:"last_status"`
	CreatedAt         time.Time       `json:"created_at"`
}

// CreateCharacterRequest creates a persona shell to hang parsed data on.
// ScheduleText optionally seeds the schedule in the same call.
type CreateCharacterRequest struct {
	Name         string `json:"name"`
	ScheduleText string `json:"schedule_text,omitempty"`
}

// ParseTextRequest carries one raw LLM text block to a parser endpoint.
type ParseTextRequest struct {
	Text string `json:"text"`
}

// StatusResponse is the presence engine's snapshot for a character.
type StatusResponse struct {
	CharacterID string  `json:"character_id"`
	Status      string  `json:"status"`
	Activity    *string `json:"activity"`
	NextChange  *string `json:"nextChange"`
}

// SwipeRequest records one swipe.
type SwipeRequest struct {
	UserID      string `json:"user_id"`
	CharacterID string `json:"character_id"`
	Direction   string `json:"direction"` // "left" or "right"
}

// ErrorResponse is the uniform error envelope.
type ErrorResponse struct {
	Error string `json:"error"`
}
