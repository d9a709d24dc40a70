package model

import (
	"time"
)

// EventType represents the type of conversation event.
type EventType string

const (
	// EventTypeCrisis is emitted when a message matches the crisis lexicon.
	EventTypeCrisis EventType = "crisis"
)

// ConversationEvent is an operator-facing event published outside the
// request path.
type ConversationEvent struct {
	ID             string    `json:"id"`
	ConversationID string    `json:"conversation_id"`
	UserID         string    `json:"user_id"`
	Type           EventType `json:"type"`
	CreatedAt      time.Time `json:"created_at"`
}
