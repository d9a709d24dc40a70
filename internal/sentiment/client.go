// Package sentiment calls the external sentiment classification service.
package sentiment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/mindfulchat/mindfulchat/internal/model"
	"github.com/mindfulchat/mindfulchat/pkg/logger"
	"github.com/mindfulchat/mindfulchat/pkg/metrics"
)

// Default is returned whenever the classifier cannot produce a result.
var Default = model.Sentiment{Label: "neutral", Confidence: 0.5}

// Client is an HTTP adapter for the sentiment classifier. It never fails a
// user-facing request: any transport error, timeout, or bad response degrades
// to the neutral default.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *logger.Logger
}

// NewClient creates a sentiment client with a hard per-call timeout.
func NewClient(baseURL string, timeout time.Duration, log *logger.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
		logger:  log,
	}
}

type predictRequest struct {
	Text string `json:"text"`
}

type predictResponse struct {
	Sentiment  string  `json:"sentiment"`
	Confidence float64 `json:"confidence"`
}

// Classify returns the sentiment for the given text, or the neutral default
// if the classifier is unreachable, slow, or returns garbage.
func (c *Client) Classify(ctx context.Context, text string) model.Sentiment {
	start := time.Now()

	result, err := c.predict(ctx, text)
	if err != nil {
		c.logger.Warn("sentiment service unavailable, using default", zap.Error(err))
		metrics.RecordSentiment("fallback", time.Since(start).Seconds())
		metrics.SentimentFallbacksTotal.Inc()
		return Default
	}

	metrics.RecordSentiment("ok", time.Since(start).Seconds())
	return result
}

func (c *Client) predict(ctx context.Context, text string) (model.Sentiment, error) {
	body, err := json.Marshal(predictRequest{Text: text})
	if err != nil {
		return model.Sentiment{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/predict", bytes.NewReader(body))
	if err != nil {
		return model.Sentiment{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return model.Sentiment{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return model.Sentiment{}, fmt.Errorf("sentiment service returned status %d", resp.StatusCode)
	}

	var pr predictResponse
	if err := json.NewDecoder(resp.Body).Decode(&pr); err != nil {
		return model.Sentiment{}, fmt.Errorf("failed to decode sentiment response: %w", err)
	}

	if pr.Sentiment == "" {
		return model.Sentiment{}, fmt.Errorf("sentiment service returned empty label")
	}

	return model.Sentiment{Label: pr.Sentiment, Confidence: pr.Confidence}, nil
}
