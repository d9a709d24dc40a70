package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mindfulchat/mindfulchat/internal/model"
	"github.com/mindfulchat/mindfulchat/internal/store"
	"github.com/mindfulchat/mindfulchat/pkg/logger"
)

type stubClassifier struct {
	sentiment model.Sentiment
}

func (s stubClassifier) Classify(context.Context, string) model.Sentiment {
	return s.sentiment
}

type stubResponder struct {
	reply string
	calls int
}

func (s *stubResponder) Generate(_ context.Context, _ string, _ model.Sentiment, _ []model.Turn, _ model.MoodState) string {
	s.calls++
	return s.reply
}

type recordingPublisher struct {
	events []*model.ConversationEvent
}

func (p *recordingPublisher) Publish(_ context.Context, e *model.ConversationEvent) error {
	p.events = append(p.events, e)
	return nil
}

func newService(t *testing.T) (*ConversationService, *store.Memory, *stubResponder, *recordingPublisher) {
	t.Helper()
	mem := store.NewMemory()
	responder := &stubResponder{reply: "generated reply"}
	events := &recordingPublisher{}
	svc := NewConversationService(
		mem,
		stubClassifier{sentiment: model.Sentiment{Label: "neutral", Confidence: 0.5}},
		responder,
		events,
		logger.NewNop(),
	)
	return svc, mem, responder, events
}

// completeCheckIn drives a conversation through the mood check-in so that
// subsequent messages reach freeform generation.
func completeCheckIn(t *testing.T, svc *ConversationService, userID string) string {
	t.Helper()
	var convID string
	for _, answer := range []string{"Anxious", "A few weeks", "A lot", "Not really"} {
		resp, err := svc.Send(context.Background(), userID, answer, convID)
		require.NoError(t, err)
		convID = resp.ConversationID
	}
	return convID
}

func TestBegin(t *testing.T) {
	svc, _, _, _ := newService(t)

	resp, err := svc.Begin(context.Background(), "alice")
	require.NoError(t, err)

	assert.NotEmpty(t, resp.ConversationID)
	assert.Equal(t, model.StageGreeting, resp.MoodStage)
	assert.NotEmpty(t, resp.Reply)
	assert.NotEmpty(t, resp.QuickReplies)
	assert.True(t, resp.FollowUpQuestion)

	conv, err := svc.Get(context.Background(), "alice", resp.ConversationID)
	require.NoError(t, err)
	require.Len(t, conv.Turns, 1)
	assert.Equal(t, model.RoleAssistant, conv.Turns[0].Role)
	assert.Equal(t, model.DefaultTitle, conv.Title)
}

func TestSendValidation(t *testing.T) {
	svc, mem, _, _ := newService(t)
	ctx := context.Background()

	var invalid *InvalidInputError

	_, err := svc.Send(ctx, "alice", "", "")
	require.ErrorAs(t, err, &invalid)

	_, err = svc.Send(ctx, "alice", "   \n\t  ", "")
	require.ErrorAs(t, err, &invalid)

	_, err = svc.Send(ctx, "alice", strings.Repeat("a", 2001), "")
	require.ErrorAs(t, err, &invalid)

	// No turns were stored.
	all, err := mem.All(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestSendAcceptsExactly2000Runes(t *testing.T) {
	svc, _, _, _ := newService(t)

	_, err := svc.Send(context.Background(), "alice", strings.Repeat("é", 2000), "")
	assert.NoError(t, err)
}

func TestMoodCheckInProgression(t *testing.T) {
	svc, _, responder, _ := newService(t)
	ctx := context.Background()

	var convID string
	answers := []string{"Anxious", "A few weeks", "A lot", "Not really"}
	wantStages := []model.MoodStage{
		model.StageAwaitingDuration,
		model.StageAwaitingImpact,
		model.StageAwaitingSupport,
		model.StageAssessed,
	}

	var last *model.ChatResponse
	for i, answer := range answers {
		resp, err := svc.Send(ctx, "alice", answer, convID)
		require.NoError(t, err)
		convID = resp.ConversationID
		assert.Equal(t, wantStages[i], resp.MoodStage, "message %d", i+1)
		last = resp
	}

	// The 4th reply is the synthesized summary with the captured answers.
	assert.Contains(t, last.Reply, "Anxious")
	assert.Contains(t, last.Reply, "A few weeks")
	assert.Contains(t, last.Reply, "A lot")
	assert.False(t, last.FollowUpQuestion)

	// The generator was never consulted during the check-in.
	assert.Zero(t, responder.calls)

	conv, err := svc.Get(ctx, "alice", convID)
	require.NoError(t, err)
	assert.Equal(t, "Anxious", conv.MoodState.Mood)
	assert.Equal(t, "A few weeks", conv.MoodState.Duration)
	assert.Equal(t, "A lot", conv.MoodState.Impact)
	assert.Equal(t, "Not really", conv.MoodState.Support)
}

func TestFreeformAfterAssessment(t *testing.T) {
	svc, _, responder, _ := newService(t)
	convID := completeCheckIn(t, svc, "alice")

	resp, err := svc.Send(context.Background(), "alice", "I have an exam tomorrow", convID)
	require.NoError(t, err)

	assert.Equal(t, "generated reply", resp.Reply)
	assert.Equal(t, model.StageAssessed, resp.MoodStage)
	assert.Equal(t, 1, responder.calls)
	assert.Empty(t, resp.QuickReplies)
}

func TestCrisisShortCircuits(t *testing.T) {
	svc, _, responder, events := newService(t)
	ctx := context.Background()

	// First message is non-crisis and advances the stage.
	resp, err := svc.Send(ctx, "alice", "feeling low", "")
	require.NoError(t, err)
	convID := resp.ConversationID
	require.Equal(t, model.StageAwaitingDuration, resp.MoodStage)

	// Crisis message: fixed resources text, stage untouched, generator idle.
	resp, err = svc.Send(ctx, "alice", "I want to kill myself", convID)
	require.NoError(t, err)

	assert.True(t, resp.IsCrisis)
	assert.Contains(t, resp.Reply, "988")
	assert.Equal(t, model.StageAwaitingDuration, resp.MoodStage)
	assert.Zero(t, responder.calls)

	// Both turns carry the crisis flag.
	conv, err := svc.Get(ctx, "alice", convID)
	require.NoError(t, err)
	require.Len(t, conv.Turns, 4)
	assert.True(t, conv.Turns[2].IsCrisis)
	assert.True(t, conv.Turns[3].IsCrisis)

	// Mood answers were not overwritten by the crisis turn.
	assert.Equal(t, "feeling low", conv.MoodState.Mood)
	assert.Empty(t, conv.MoodState.Duration)

	// A crisis event was published.
	require.Len(t, events.events, 1)
	assert.Equal(t, model.EventTypeCrisis, events.events[0].Type)
	assert.Equal(t, convID, events.events[0].ConversationID)
}

func TestRoundTripBeginMessageGet(t *testing.T) {
	svc, _, _, _ := newService(t)
	ctx := context.Background()

	begin, err := svc.Begin(ctx, "alice")
	require.NoError(t, err)

	_, err = svc.Send(ctx, "alice", "Anxious", begin.ConversationID)
	require.NoError(t, err)

	conv, err := svc.Get(ctx, "alice", begin.ConversationID)
	require.NoError(t, err)

	require.Len(t, conv.Turns, 3)
	assert.Equal(t, model.RoleAssistant, conv.Turns[0].Role)
	assert.Equal(t, model.RoleUser, conv.Turns[1].Role)
	assert.Equal(t, model.RoleAssistant, conv.Turns[2].Role)

	// User turn carries the classified sentiment.
	require.NotNil(t, conv.Turns[1].Sentiment)
	assert.Equal(t, "neutral", conv.Turns[1].Sentiment.Label)
	assert.Nil(t, conv.Turns[0].Sentiment)
}

func TestTitleDerivedFromFirstMessage(t *testing.T) {
	svc, _, _, _ := newService(t)
	ctx := context.Background()

	long := strings.Repeat("a", 60)
	resp, err := svc.Send(ctx, "alice", long, "")
	require.NoError(t, err)

	conv, err := svc.Get(ctx, "alice", resp.ConversationID)
	require.NoError(t, err)
	assert.Equal(t, strings.Repeat("a", 50)+"...", conv.Title)

	// Title is set once; later messages do not rename.
	_, err = svc.Send(ctx, "alice", "something else entirely", resp.ConversationID)
	require.NoError(t, err)

	conv, err = svc.Get(ctx, "alice", resp.ConversationID)
	require.NoError(t, err)
	assert.Equal(t, strings.Repeat("a", 50)+"...", conv.Title)
}

func TestTitleFromBeginThenFirstMessage(t *testing.T) {
	svc, _, _, _ := newService(t)
	ctx := context.Background()

	begin, err := svc.Begin(ctx, "alice")
	require.NoError(t, err)

	_, err = svc.Send(ctx, "alice", "exam stress", begin.ConversationID)
	require.NoError(t, err)

	conv, err := svc.Get(ctx, "alice", begin.ConversationID)
	require.NoError(t, err)
	assert.Equal(t, "exam stress", conv.Title)
}

func TestUnknownConversationIDStartsFresh(t *testing.T) {
	svc, _, _, _ := newService(t)

	resp, err := svc.Send(context.Background(), "alice", "hello there", "00000000-0000-0000-0000-000000000000")
	require.NoError(t, err)

	assert.NotEqual(t, "00000000-0000-0000-0000-000000000000", resp.ConversationID)
}

func TestOwnershipIsolation(t *testing.T) {
	svc, _, _, _ := newService(t)
	ctx := context.Background()

	resp, err := svc.Send(ctx, "alice", "my private thoughts", "")
	require.NoError(t, err)

	_, err = svc.Get(ctx, "bob", resp.ConversationID)
	assert.ErrorIs(t, err, store.ErrNotFound)

	err = svc.Delete(ctx, "bob", resp.ConversationID)
	assert.ErrorIs(t, err, store.ErrNotFound)

	// Bob sending into Alice's conversation silently gets his own.
	bobResp, err := svc.Send(ctx, "bob", "hi", resp.ConversationID)
	require.NoError(t, err)
	assert.NotEqual(t, resp.ConversationID, bobResp.ConversationID)
}

func TestDeleteThenGetNotFound(t *testing.T) {
	svc, _, _, _ := newService(t)
	ctx := context.Background()

	resp, err := svc.Send(ctx, "alice", "hello", "")
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, "alice", resp.ConversationID))

	_, err = svc.Get(ctx, "alice", resp.ConversationID)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestHistory(t *testing.T) {
	svc, _, _, _ := newService(t)
	ctx := context.Background()

	_, err := svc.Send(ctx, "alice", "first conversation", "")
	require.NoError(t, err)
	_, err = svc.Send(ctx, "alice", "second conversation", "")
	require.NoError(t, err)
	_, err = svc.Send(ctx, "bob", "someone else", "")
	require.NoError(t, err)

	summaries, err := svc.History(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, summaries, 2)
	for _, s := range summaries {
		assert.Equal(t, 2, s.MessageCount)
	}
}

func TestDeleteAllForUserAndStats(t *testing.T) {
	svc, _, _, _ := newService(t)
	ctx := context.Background()

	_, err := svc.Send(ctx, "alice", "hello", "")
	require.NoError(t, err)
	_, err = svc.Send(ctx, "alice", "I want to kill myself", "")
	require.NoError(t, err)
	_, err = svc.Send(ctx, "bob", "hi", "")
	require.NoError(t, err)

	stats, err := svc.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, stats.TotalConversations)
	assert.Equal(t, 1, stats.CrisisConversations)

	n, err := svc.DeleteAllForUser(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	stats, err = svc.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.TotalConversations)
	assert.Equal(t, 0, stats.CrisisConversations)
}
