// Package service provides the conversation orchestration logic.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mindfulchat/mindfulchat/internal/crisis"
	"github.com/mindfulchat/mindfulchat/internal/model"
	"github.com/mindfulchat/mindfulchat/internal/mood"
	"github.com/mindfulchat/mindfulchat/internal/store"
	"github.com/mindfulchat/mindfulchat/pkg/logger"
	"github.com/mindfulchat/mindfulchat/pkg/metrics"
)

const (
	// maxMessageRunes is the inbound message length cap.
	maxMessageRunes = 2000

	// titleRunes is how much of the first user message seeds the title.
	titleRunes = 50

	// historyTurns is how many stored turns feed freeform generation.
	historyTurns = 10
)

// Classifier yields a sentiment for a message. Implementations never fail.
type Classifier interface {
	Classify(ctx context.Context, text string) model.Sentiment
}

// Responder produces a freeform assistant reply. Implementations never fail.
type Responder interface {
	Generate(ctx context.Context, userMessage string, sentiment model.Sentiment, history []model.Turn, mood model.MoodState) string
}

// EventPublisher emits operator-facing events. Publishing is best-effort.
type EventPublisher interface {
	Publish(ctx context.Context, event *model.ConversationEvent) error
}

// ConversationService orchestrates every inbound message: crisis detection,
// sentiment classification, the mood check-in, freeform generation, and the
// atomic append of the user/assistant turn pair.
type ConversationService struct {
	store      store.Store
	classifier Classifier
	responder  Responder
	events     EventPublisher
	logger     *logger.Logger
}

// NewConversationService creates the orchestrator. events may be nil.
func NewConversationService(
	st store.Store,
	classifier Classifier,
	responder Responder,
	events EventPublisher,
	log *logger.Logger,
) *ConversationService {
	return &ConversationService{
		store:      st,
		classifier: classifier,
		responder:  responder,
		events:     events,
		logger:     log,
	}
}

// Begin explicitly starts a fresh conversation: stage greeting, one assistant
// turn carrying the greeting question, no user input processed.
func (s *ConversationService) Begin(ctx context.Context, userID string) (*model.ChatResponse, error) {
	now := time.Now()
	conv := &model.Conversation{
		ID:        uuid.Must(uuid.NewV7()).String(),
		UserID:    userID,
		Title:     model.DefaultTitle,
		MoodState: model.MoodState{Stage: model.StageGreeting},
		CreatedAt: now,
		UpdatedAt: now,
	}

	greeting := mood.Greeting()
	conv.Turns = append(conv.Turns, model.Turn{
		Role:      model.RoleAssistant,
		Content:   greeting.Text,
		Timestamp: now,
	})

	if err := s.store.Save(ctx, conv); err != nil {
		return nil, fmt.Errorf("failed to save conversation: %w", err)
	}

	metrics.ConversationsTotal.Inc()
	metrics.TurnsTotal.WithLabelValues(string(model.RoleAssistant)).Inc()
	s.logger.Info("conversation started",
		zap.String("conversation_id", conv.ID),
		zap.String("user_id", userID),
	)

	return &model.ChatResponse{
		Reply:            greeting.Text,
		ConversationID:   conv.ID,
		MoodStage:        conv.MoodState.Stage,
		QuickReplies:     greeting.QuickReplies,
		FollowUpQuestion: greeting.FollowUp,
	}, nil
}

// Send processes one inbound user message and returns the assistant reply.
// The user turn and its reply are appended and persisted as one document
// update; on any failure nothing is persisted.
func (s *ConversationService) Send(ctx context.Context, userID, message, conversationID string) (*model.ChatResponse, error) {
	if strings.TrimSpace(message) == "" {
		return nil, invalidInput("Message cannot be empty.")
	}
	if utf8.RuneCountInString(message) > maxMessageRunes {
		return nil, invalidInput("Message too long. Maximum 2000 characters.")
	}

	isCrisis := crisis.Detect(message)
	sentiment := s.classifier.Classify(ctx, message)

	conv, err := s.loadOrCreate(ctx, userID, conversationID)
	if err != nil {
		return nil, err
	}

	// The first user message names the conversation.
	if !conv.HasUserTurn() {
		conv.Title = deriveTitle(message)
	}

	now := time.Now()
	conv.Turns = append(conv.Turns, model.Turn{
		Role:      model.RoleUser,
		Content:   message,
		Sentiment: &sentiment,
		IsCrisis:  isCrisis,
		Timestamp: now,
	})

	var reply mood.Reply
	switch {
	case isCrisis:
		// Crisis preempts everything; the mood stage is left untouched.
		reply = mood.Reply{Text: crisis.Response}

	case !conv.MoodState.Assessed():
		conv.MoodState, reply = mood.Advance(conv.MoodState, message)

	default:
		history := conv.RecentTurns(historyTurns)
		reply = mood.Reply{
			Text: s.responder.Generate(ctx, message, sentiment, history, conv.MoodState),
		}
	}

	conv.Turns = append(conv.Turns, model.Turn{
		Role:      model.RoleAssistant,
		Content:   reply.Text,
		IsCrisis:  isCrisis,
		Timestamp: time.Now(),
	})
	conv.UpdatedAt = time.Now()

	if err := s.store.Save(ctx, conv); err != nil {
		return nil, fmt.Errorf("failed to save conversation: %w", err)
	}

	metrics.TurnsTotal.WithLabelValues(string(model.RoleUser)).Inc()
	metrics.TurnsTotal.WithLabelValues(string(model.RoleAssistant)).Inc()

	if isCrisis {
		metrics.CrisisDetectionsTotal.Inc()
		s.publishCrisisEvent(ctx, conv)
	}

	return &model.ChatResponse{
		Reply:            reply.Text,
		Sentiment:        &sentiment,
		IsCrisis:         isCrisis,
		ConversationID:   conv.ID,
		MoodStage:        conv.MoodState.Stage,
		QuickReplies:     reply.QuickReplies,
		FollowUpQuestion: reply.FollowUp,
	}, nil
}

// History lists the caller's conversations, most recently updated first.
func (s *ConversationService) History(ctx context.Context, userID string) ([]model.ConversationSummary, error) {
	return s.store.List(ctx, userID)
}

// Get loads a single conversation owned by the caller.
func (s *ConversationService) Get(ctx context.Context, userID, conversationID string) (*model.Conversation, error) {
	return s.store.Find(ctx, conversationID, userID)
}

// Delete removes a conversation owned by the caller.
func (s *ConversationService) Delete(ctx context.Context, userID, conversationID string) error {
	return s.store.Delete(ctx, conversationID, userID)
}

// DeleteAllForUser removes every conversation of a user. Used by the admin
// cascade when an account is removed.
func (s *ConversationService) DeleteAllForUser(ctx context.Context, userID string) (int, error) {
	n, err := s.store.DeleteByOwner(ctx, userID)
	if err != nil {
		return 0, err
	}
	s.logger.Info("deleted user conversations",
		zap.String("user_id", userID),
		zap.Int("count", n),
	)
	return n, nil
}

// Stats aggregates counts for the admin dashboard.
func (s *ConversationService) Stats(ctx context.Context) (*model.AdminStatsResponse, error) {
	all, err := s.store.All(ctx)
	if err != nil {
		return nil, err
	}

	stats := &model.AdminStatsResponse{TotalConversations: len(all)}
	for _, conv := range all {
		if conv.HasCrisisTurn() {
			stats.CrisisConversations++
		}
	}
	return stats, nil
}

// loadOrCreate resolves the target conversation. A missing or foreign ID
// silently starts a new conversation rather than failing the message.
func (s *ConversationService) loadOrCreate(ctx context.Context, userID, conversationID string) (*model.Conversation, error) {
	if conversationID != "" {
		conv, err := s.store.Find(ctx, conversationID, userID)
		if err == nil {
			return conv, nil
		}
		if !errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("failed to load conversation: %w", err)
		}
	}

	now := time.Now()
	metrics.ConversationsTotal.Inc()
	return &model.Conversation{
		ID:        uuid.Must(uuid.NewV7()).String(),
		UserID:    userID,
		Title:     model.DefaultTitle,
		MoodState: model.MoodState{Stage: model.StageGreeting},
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

func (s *ConversationService) publishCrisisEvent(ctx context.Context, conv *model.Conversation) {
	if s.events == nil {
		return
	}

	event := &model.ConversationEvent{
		ID:             uuid.Must(uuid.NewV7()).String(),
		ConversationID: conv.ID,
		UserID:         conv.UserID,
		Type:           model.EventTypeCrisis,
		CreatedAt:      time.Now(),
	}
	if err := s.events.Publish(ctx, event); err != nil {
		s.logger.Warn("failed to publish crisis event", zap.Error(err))
	}
}

func deriveTitle(message string) string {
	runes := []rune(message)
	if len(runes) <= titleRunes {
		return message
	}
	return string(runes[:titleRunes]) + "..."
}
