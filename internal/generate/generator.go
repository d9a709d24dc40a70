// Package generate produces the assistant's freeform replies via an external
// LLM, with bounded retry on rate limiting and a canned fallback bank.
package generate

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/mindfulchat/mindfulchat/internal/llm"
	"github.com/mindfulchat/mindfulchat/internal/model"
	"github.com/mindfulchat/mindfulchat/pkg/logger"
	"github.com/mindfulchat/mindfulchat/pkg/metrics"
)

// Options configure the generator.
type Options struct {
	Model       string
	MaxTokens   int
	Temperature float64
	// MaxRetries is the total number of completion attempts on rate limiting.
	MaxRetries int
	// BackoffBase is the first backoff delay; it doubles per attempt.
	BackoffBase time.Duration
}

// DefaultOptions returns the production defaults: 500-token replies at
// temperature 0.7, three attempts with 2s/4s/8s backoff.
func DefaultOptions() Options {
	return Options{
		MaxTokens:   500,
		Temperature: 0.7,
		MaxRetries:  3,
		BackoffBase: 2 * time.Second,
	}
}

// Generator wraps an explicitly injected llm.Client. A nil client is valid
// and serves every request from the fallback bank.
type Generator struct {
	client llm.Client
	opts   Options
	logger *logger.Logger
	sleep  func(ctx context.Context, d time.Duration)
}

// New creates a generator.
func New(client llm.Client, opts Options, log *logger.Logger) *Generator {
	if opts.MaxRetries <= 0 {
		opts.MaxRetries = 1
	}
	return &Generator{
		client: client,
		opts:   opts,
		logger: log,
		sleep:  sleepCtx,
	}
}

// Generate returns a reply for the user's message. It never fails: on any
// upstream error or retry exhaustion it degrades to the fallback bank.
func (g *Generator) Generate(ctx context.Context, userMessage string, sentiment model.Sentiment, history []model.Turn, mood model.MoodState) string {
	if g.client == nil {
		return g.fallback(sentiment)
	}

	prompt := buildPrompt(userMessage, sentiment, history, mood)
	req := &llm.CompletionRequest{
		Model:       g.opts.Model,
		Prompt:      prompt,
		MaxTokens:   g.opts.MaxTokens,
		Temperature: g.opts.Temperature,
	}

	for attempt := 1; attempt <= g.opts.MaxRetries; attempt++ {
		start := time.Now()
		resp, err := g.client.Complete(ctx, req)
		if err == nil {
			if resp.Content == "" {
				metrics.RecordLLMRequest(g.client.Name(), "empty", time.Since(start).Seconds())
				return g.fallback(sentiment)
			}
			metrics.RecordLLMRequest(g.client.Name(), "ok", time.Since(start).Seconds())
			return resp.Content
		}

		if !errors.Is(err, llm.ErrRateLimited) {
			g.logger.Error("generation call failed, using fallback", zap.Error(err))
			metrics.RecordLLMRequest(g.client.Name(), "error", time.Since(start).Seconds())
			return g.fallback(sentiment)
		}

		// Rate limited: back off, then retry.
		delay := g.opts.BackoffBase << (attempt - 1)
		g.logger.Warn("generation rate limited, backing off",
			zap.Int("attempt", attempt),
			zap.Int("max_retries", g.opts.MaxRetries),
			zap.Duration("delay", delay),
		)
		metrics.RecordLLMRequest(g.client.Name(), "rate_limited", time.Since(start).Seconds())
		metrics.LLMRetriesTotal.Inc()
		g.sleep(ctx, delay)
	}

	return g.fallback(sentiment)
}

func (g *Generator) fallback(sentiment model.Sentiment) string {
	metrics.LLMFallbacksTotal.WithLabelValues(sentiment.Label).Inc()
	return Fallback(sentiment.Label)
}

func sleepCtx(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
