package scoring

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/prepatef/prepatef-api/pkg/config"
)

// Request is the payload forwarded to the external scoring engine. Exactly
// one of ResponseText or ResponseAudio is set, depending on the skill.
type Request struct {
	Skill         string `json:"skill"`
	Prompt        string `json:"prompt"`
	ResponseText  string `json:"response_text,omitempty"`
	ResponseAudio string `json:"response_audio,omitempty"`
}

// Result is the scoring engine's evaluation, returned to the caller as-is.
type Result struct {
	Score         float64           `json:"score"`
	Transcription string            `json:"transcription,omitempty"`
	Feedback      map[string]string `json:"feedback,omitempty"`
	Suggestions   []string          `json:"suggestions,omitempty"`
}

// Client calls the external scoring engine over HTTP.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient builds a scoring client from configuration.
func NewClient(cfg config.ScoringConfig, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL:    cfg.BaseURL,
		apiKey:     cfg.APIKey,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// Evaluate submits a candidate response for scoring.
func (c *Client) Evaluate(ctx context.Context, req Request) (*Result, error) {
	if c.baseURL == "" {
		return nil, fmt.Errorf("scoring engine not configured")
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal scoring request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/evaluations", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build scoring request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("call scoring engine: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		c.logger.Warn("scoring engine returned error",
			zap.Int("status", resp.StatusCode),
			zap.String("skill", req.Skill),
			zap.Duration("latency", time.Since(start)))
		return nil, fmt.Errorf("scoring engine returned %d: %s", resp.StatusCode, string(snippet))
	}

	var result Result
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode scoring response: %w", err)
	}

	c.logger.Debug("scoring engine evaluation complete",
		zap.String("skill", req.Skill),
		zap.Float64("score", result.Score),
		zap.Duration("latency", time.Since(start)))

	return &result, nil
}
