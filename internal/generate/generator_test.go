package generate

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mindfulchat/mindfulchat/internal/llm"
	"github.com/mindfulchat/mindfulchat/internal/model"
	"github.com/mindfulchat/mindfulchat/pkg/logger"
)

type fakeLLM struct {
	responses []*llm.CompletionResponse
	errs      []error
	calls     int
	lastReq   *llm.CompletionRequest
}

func (f *fakeLLM) Complete(_ context.Context, req *llm.CompletionRequest) (*llm.CompletionResponse, error) {
	i := f.calls
	f.calls++
	f.lastReq = req
	if i < len(f.errs) && f.errs[i] != nil {
		return nil, f.errs[i]
	}
	if i < len(f.responses) {
		return f.responses[i], nil
	}
	return &llm.CompletionResponse{Content: "fallthrough"}, nil
}

func (f *fakeLLM) Name() string { return "fake" }

func testOptions() Options {
	opts := DefaultOptions()
	opts.BackoffBase = time.Millisecond
	return opts
}

func TestGenerateSuccess(t *testing.T) {
	client := &fakeLLM{responses: []*llm.CompletionResponse{{Content: "here for you"}}}
	g := New(client, testOptions(), logger.NewNop())

	got := g.Generate(context.Background(), "I'm stressed about exams",
		model.Sentiment{Label: "stressed", Confidence: 0.8}, nil, model.MoodState{})

	assert.Equal(t, "here for you", got)
	assert.Equal(t, 1, client.calls)
}

func TestGenerateRetriesOnRateLimitThenSucceeds(t *testing.T) {
	client := &fakeLLM{
		errs:      []error{llm.ErrRateLimited, nil},
		responses: []*llm.CompletionResponse{nil, {Content: "second try"}},
	}
	g := New(client, testOptions(), logger.NewNop())

	got := g.Generate(context.Background(), "hi", model.Sentiment{Label: "neutral"}, nil, model.MoodState{})

	assert.Equal(t, "second try", got)
	assert.Equal(t, 2, client.calls)
}

func TestGenerateExhaustedRetriesFallsBack(t *testing.T) {
	client := &fakeLLM{errs: []error{llm.ErrRateLimited, llm.ErrRateLimited, llm.ErrRateLimited}}

	var slept []time.Duration
	g := New(client, testOptions(), logger.NewNop())
	g.sleep = func(_ context.Context, d time.Duration) { slept = append(slept, d) }

	sent := model.Sentiment{Label: "anxious", Confidence: 0.9}
	got := g.Generate(context.Background(), "hi", sent, nil, model.MoodState{})

	require.Equal(t, 3, client.calls)
	assert.Contains(t, FallbackBucket("anxious"), got)

	// Backoff doubles per attempt: base, 2x, 4x.
	require.Len(t, slept, 3)
	assert.Equal(t, time.Millisecond, slept[0])
	assert.Equal(t, 2*time.Millisecond, slept[1])
	assert.Equal(t, 4*time.Millisecond, slept[2])
}

func TestGenerateNonRateLimitErrorFallsBackImmediately(t *testing.T) {
	client := &fakeLLM{errs: []error{errors.New("boom")}}
	g := New(client, testOptions(), logger.NewNop())

	got := g.Generate(context.Background(), "hi", model.Sentiment{Label: "lonely"}, nil, model.MoodState{})

	assert.Equal(t, 1, client.calls)
	assert.Contains(t, FallbackBucket("lonely"), got)
}

func TestGenerateNilClientUsesFallback(t *testing.T) {
	g := New(nil, testOptions(), logger.NewNop())

	got := g.Generate(context.Background(), "hi", model.Sentiment{Label: "happy"}, nil, model.MoodState{})

	assert.Contains(t, FallbackBucket("happy"), got)
}

func TestFallbackUnknownLabelUsesNeutralBucket(t *testing.T) {
	got := Fallback("bewildered")
	assert.Contains(t, FallbackBucket("neutral"), got)
}

func TestBuildPrompt(t *testing.T) {
	history := []model.Turn{
		{Role: model.RoleAssistant, Content: "How are you?"},
		{Role: model.RoleUser, Content: "Not great"},
	}
	mood := model.MoodState{
		Stage:    model.StageAssessed,
		Mood:     "Anxious",
		Duration: "A few weeks",
		Impact:   "A lot",
		Support:  "Not really",
	}

	prompt := buildPrompt("My exam is tomorrow", model.Sentiment{Label: "anxious", Confidence: 0.82}, history, mood)

	assert.Contains(t, prompt, "MindfulChat")
	assert.Contains(t, prompt, "DETECTED EMOTIONAL STATE: anxious (confidence: 82.0%)")
	assert.Contains(t, prompt, "Current mood: Anxious")
	assert.Contains(t, prompt, "Counselor: How are you?")
	assert.Contains(t, prompt, "User: Not great")
	assert.Contains(t, prompt, "USER MESSAGE: My exam is tomorrow")
}

func TestBuildPromptHistoryWindow(t *testing.T) {
	var history []model.Turn
	for i := 0; i < 10; i++ {
		history = append(history, model.Turn{Role: model.RoleUser, Content: strings.Repeat("x", i+1)})
	}

	prompt := buildPrompt("hi", model.Sentiment{Label: "neutral"}, history, model.MoodState{})

	// Only the last 6 turns appear.
	assert.NotContains(t, prompt, "User: xxxx\n")
	assert.Contains(t, prompt, "User: xxxxx\n")
	assert.Contains(t, prompt, "User: xxxxxxxxxx")
}

func TestBuildPromptOmitsMoodWhenUnset(t *testing.T) {
	prompt := buildPrompt("hi", model.Sentiment{Label: "neutral"}, nil, model.MoodState{Stage: model.StageGreeting})
	assert.NotContains(t, prompt, "MOOD CHECK-IN")
}

func TestGeneratePassesBoundedRequest(t *testing.T) {
	client := &fakeLLM{responses: []*llm.CompletionResponse{{Content: "ok"}}}
	opts := testOptions()
	g := New(client, opts, logger.NewNop())

	g.Generate(context.Background(), "hi", model.Sentiment{Label: "neutral"}, nil, model.MoodState{})

	require.NotNil(t, client.lastReq)
	assert.Equal(t, opts.MaxTokens, client.lastReq.MaxTokens)
	assert.Equal(t, opts.Temperature, client.lastReq.Temperature)
}
