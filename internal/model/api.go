package model

// SendMessageRequest is the request to send a message to the companion.
type SendMessageRequest struct {
	Message        string `json:"message"`
	ConversationID string `json:"conversationId,omitempty"`
}

// ChatResponse is the response for both the begin and send operations.
type ChatResponse struct {
	Reply            string     `json:"reply"`
	Sentiment        *Sentiment `json:"sentiment,omitempty"`
	IsCrisis         bool       `json:"isCrisis"`
	ConversationID   string     `json:"conversationId"`
	MoodStage        MoodStage  `json:"moodStage"`
	QuickReplies     []string   `json:"quickReplies,omitempty"`
	FollowUpQuestion bool       `json:"followUpQuestion,omitempty"`
}

// ListConversationsResponse is the response for listing conversations.
type ListConversationsResponse struct {
	Conversations []ConversationSummary `json:"conversations"`
}

// AdminStatsResponse is the response for the admin stats endpoint.
type AdminStatsResponse struct {
	TotalConversations  int `json:"totalConversations"`
	CrisisConversations int `json:"crisisConversations"`
}
