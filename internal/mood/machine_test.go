package mood

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mindfulchat/mindfulchat/internal/model"
)

func TestGreeting(t *testing.T) {
	reply := Greeting()

	assert.Equal(t, GreetingQuestion, reply.Text)
	assert.NotEmpty(t, reply.QuickReplies)
	assert.True(t, reply.FollowUp)
}

func TestAdvanceFullSequence(t *testing.T) {
	state := model.MoodState{Stage: model.StageGreeting}

	state, reply := Advance(state, "Anxious")
	assert.Equal(t, model.StageAwaitingDuration, state.Stage)
	assert.Equal(t, "Anxious", state.Mood)
	assert.True(t, reply.FollowUp)
	assert.NotEmpty(t, reply.QuickReplies)

	state, reply = Advance(state, "A few weeks")
	assert.Equal(t, model.StageAwaitingImpact, state.Stage)
	assert.Equal(t, "A few weeks", state.Duration)
	assert.True(t, reply.FollowUp)

	state, reply = Advance(state, "A lot")
	assert.Equal(t, model.StageAwaitingSupport, state.Stage)
	assert.Equal(t, "A lot", state.Impact)
	assert.True(t, reply.FollowUp)

	state, reply = Advance(state, "Yes, friends or family")
	require.Equal(t, model.StageAssessed, state.Stage)
	assert.Equal(t, "Yes, friends or family", state.Support)

	// Final reply is the synthesized summary, not another question.
	assert.False(t, reply.FollowUp)
	assert.Empty(t, reply.QuickReplies)
	assert.Contains(t, reply.Text, "Anxious")
	assert.Contains(t, reply.Text, "A few weeks")
	assert.Contains(t, reply.Text, "A lot")
}

func TestAdvanceDoesNotMutateInput(t *testing.T) {
	state := model.MoodState{Stage: model.StageGreeting}

	next, _ := Advance(state, "Sad")

	assert.Equal(t, model.StageGreeting, state.Stage)
	assert.Empty(t, state.Mood)
	assert.Equal(t, model.StageAwaitingDuration, next.Stage)
}

func TestAdvanceOnAssessedIsNoop(t *testing.T) {
	state := model.MoodState{Stage: model.StageAssessed, Mood: "ok"}

	next, reply := Advance(state, "anything")

	assert.Equal(t, state, next)
	assert.Empty(t, reply.Text)
}

func TestSummarySupportPhrasing(t *testing.T) {
	base := model.MoodState{
		Stage:    model.StageAwaitingSupport,
		Mood:     "Sad or down",
		Duration: "A month or more",
		Impact:   "Somewhat",
	}

	_, noSupport := Advance(base, "Not really")
	assert.Contains(t, noSupport.Text, "safe space")

	_, therapist := Advance(base, "I have a therapist")
	assert.Contains(t, therapist.Text, "therapist")

	_, friends := Advance(base, "Yes, friends or family")
	assert.Contains(t, friends.Text, "glad you have people")
}

func TestAdvanceTrimsWhitespace(t *testing.T) {
	state := model.MoodState{Stage: model.StageGreeting}

	state, _ = Advance(state, "  stressed out  ")

	assert.Equal(t, "stressed out", state.Mood)
}
