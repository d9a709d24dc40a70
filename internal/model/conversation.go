// Package model defines data structures for the support chat service.
package model

import (
	"time"
)

// MoodStage is the current position in the scripted mood check-in.
type MoodStage string

const (
	StageGreeting         MoodStage = "greeting"
	StageAwaitingDuration MoodStage = "awaiting_duration"
	StageAwaitingImpact   MoodStage = "awaiting_impact"
	StageAwaitingSupport  MoodStage = "awaiting_support"
	StageAssessed         MoodStage = "assessed"
)

// MoodState captures the answers collected during the mood check-in.
// It is replaced wholesale on every transition, never mutated in place.
type MoodState struct {
	Stage    MoodStage `json:"stage"`
	Mood     string    `json:"mood,omitempty"`
	Duration string    `json:"duration,omitempty"`
	Impact   string    `json:"impact,omitempty"`
	Support  string    `json:"support,omitempty"`
}

// Assessed reports whether the check-in has completed.
func (m MoodState) Assessed() bool {
	return m.Stage == StageAssessed
}

// Conversation represents one user's conversation thread.
type Conversation struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Title     string    `json:"title"`
	MoodState MoodState `json:"mood_state"`
	Turns     []Turn    `json:"turns"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Revision is store bookkeeping for optimistic concurrency.
	Revision uint64 `json:"-"`
}

// DefaultTitle is the placeholder for a conversation that has no user turns yet.
const DefaultTitle = "New Conversation"

// ConversationSummary is the compact listing shape.
type ConversationSummary struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Mood         string    `json:"mood,omitempty"`
	MoodStage    MoodStage `json:"mood_stage"`
	MessageCount int       `json:"message_count"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Summary returns the listing shape for a conversation.
func (c *Conversation) Summary() ConversationSummary {
	return ConversationSummary{
		ID:           c.ID,
		Title:        c.Title,
		Mood:         c.MoodState.Mood,
		MoodStage:    c.MoodState.Stage,
		MessageCount: len(c.Turns),
		CreatedAt:    c.CreatedAt,
		UpdatedAt:    c.UpdatedAt,
	}
}

// HasUserTurn reports whether any user turn has been recorded.
func (c *Conversation) HasUserTurn() bool {
	for _, t := range c.Turns {
		if t.Role == RoleUser {
			return true
		}
	}
	return false
}

// HasCrisisTurn reports whether any turn was flagged as a crisis.
func (c *Conversation) HasCrisisTurn() bool {
	for _, t := range c.Turns {
		if t.IsCrisis {
			return true
		}
	}
	return false
}

// RecentTurns returns up to the last n turns in chronological order.
func (c *Conversation) RecentTurns(n int) []Turn {
	if len(c.Turns) <= n {
		return c.Turns
	}
	return c.Turns[len(c.Turns)-n:]
}
