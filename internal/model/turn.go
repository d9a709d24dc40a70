package model

import (
	"time"
)

// Role represents the role of a turn's author.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// Sentiment is a classification result for a user turn.
type Sentiment struct {
	Label      string  `json:"label"`
	Confidence float64 `json:"confidence"`
}

// Turn is one message exchange unit stored in a conversation.
type Turn struct {
	Role      Role       `json:"role"`
	Content   string     `json:"content"`
	Sentiment *Sentiment `json:"sentiment,omitempty"`
	IsCrisis  bool       `json:"is_crisis"`
	Timestamp time.Time  `json:"timestamp"`
}
