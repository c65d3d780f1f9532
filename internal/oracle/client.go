// internal/oracle/client.go
package oracle

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	commonhttp "vehicle-recommender/internal/common/http"
	"vehicle-recommender/internal/common/logger"
	"vehicle-recommender/internal/models"
)

var (
	ErrTimeout         = errors.New("ORACLE_TIMEOUT")
	ErrCallFailed      = errors.New("ORACLE_CALL_FAILED")
	ErrInvalidResponse = errors.New("ORACLE_RESPONSE_INVALID")
)

// BatchCandidate is one candidate presented to the oracle, with the
// option-value and sentiment context precomputed by earlier stages.
type BatchCandidate struct {
	ID               string   `json:"id"`
	Manufacturer     string   `json:"manufacturer"`
	Model            string   `json:"model"`
	Year             int      `json:"year"`
	Price            int      `json:"price"`
	Mileage          int      `json:"mileage"`
	FuelType         string   `json:"fuelType"`
	Category         string   `json:"category"`
	OptionValueScore float64  `json:"optionValueScore"`
	MissingCritical  []string `json:"missingCritical,omitempty"`
	SentimentDelta   float64  `json:"sentimentDelta"`
	SentimentInsight string   `json:"sentimentInsight,omitempty"`
}

// BatchRequest is the structured scoring request for one batch.
type BatchRequest struct {
	RequestID  string                 `json:"requestId"`
	BatchIndex int                    `json:"batchIndex"`
	UserText   string                 `json:"userText"`
	Persona    *models.PersonaProfile `json:"persona,omitempty"`
	Candidates []BatchCandidate       `json:"candidates"`
}

// CandidateScore is the oracle's verdict for one candidate.
type CandidateScore struct {
	CandidateID string   `json:"candidateId"`
	Score       float64  `json:"score"` // 0-100
	Reasoning   string   `json:"reasoning"`
	Insights    []string `json:"insights,omitempty"`
}

// BatchResponse is the parsed, schema-validated oracle response.
type BatchResponse struct {
	Scores []CandidateScore `json:"scores"`
}

// ScoresByID indexes the response per candidate.
func (r *BatchResponse) ScoresByID() map[string]CandidateScore {
	out := make(map[string]CandidateScore, len(r.Scores))
	for _, s := range r.Scores {
		out[s.CandidateID] = s
	}
	return out
}

// Scorer is the external scoring capability consumed by the reranker.
type Scorer interface {
	Score(ctx context.Context, req *BatchRequest) (*BatchResponse, error)
}

type Config struct {
	BaseURL    string
	APIKey     string
	MaxRetries int
}

// Client calls the generative scoring service over HTTP. Timeouts come
// from the caller's context; any non-conforming response body is an error.
type Client struct {
	config Config
	client *commonhttp.Client
	logger logger.Logger
}

func NewClient(config Config, log logger.Logger) *Client {
	return &Client{
		config: config,
		// No client-level timeout; the per-call context bounds each request.
		client: commonhttp.NewClient(0),
		logger: log.WithFields(map[string]interface{}{"component": "oracle-client"}),
	}
}

func (c *Client) Score(ctx context.Context, batchReq *BatchRequest) (*BatchResponse, error) {
	payload := map[string]interface{}{
		"instruction": c.buildInstruction(batchReq),
		"request":     batchReq,
	}

	body, _ := json.Marshal(payload)

	var resp *http.Response
	var lastErr error

	for attempt := 0; attempt <= c.config.MaxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(100*(1<<(attempt-1))) * time.Millisecond
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return nil, ErrTimeout
			}
		}

		req, err := http.NewRequestWithContext(ctx, "POST", c.config.BaseURL+"/api/ai/score-batch", bytes.NewBuffer(body))
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCallFailed, err)
		}
		req.Header.Set("Content-Type", "application/json")
		if c.config.APIKey != "" {
			req.Header.Set("Authorization", "Bearer "+c.config.APIKey)
		}

		resp, lastErr = c.client.DoWithContext(ctx, req)

		if ctx.Err() != nil ||
			errors.Is(lastErr, context.DeadlineExceeded) ||
			errors.Is(lastErr, context.Canceled) {
			return nil, ErrTimeout
		}

		if lastErr == nil {
			if resp.StatusCode == http.StatusOK {
				break
			}
			resp.Body.Close()
			lastErr = fmt.Errorf("status %d", resp.StatusCode)
			resp = nil
		}
	}

	if lastErr != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return nil, ErrTimeout
		}
		return nil, fmt.Errorf("%w: %v", ErrCallFailed, lastErr)
	}

	if resp == nil {
		return nil, fmt.Errorf("%w: no successful response after retries", ErrCallFailed)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %v", ErrCallFailed, err)
	}

	violations, err := validateResponse(raw)
	if err != nil || len(violations) > 0 {
		c.logger.Warn("oracle response failed validation", map[string]interface{}{
			"batchIndex": batchReq.BatchIndex,
			"violations": violations,
		})
		return nil, fmt.Errorf("%w: %s", ErrInvalidResponse, strings.Join(violations, "; "))
	}

	var parsed BatchResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("%w: decode error: %v", ErrInvalidResponse, err)
	}

	c.logger.Info("oracle batch scored", map[string]interface{}{
		"batchIndex": batchReq.BatchIndex,
		"candidates": len(batchReq.Candidates),
		"scores":     len(parsed.Scores),
	})

	return &parsed, nil
}

func (c *Client) buildInstruction(req *BatchRequest) string {
	var parts []string

	parts = append(parts, "You are a used-vehicle advisor. Score each candidate 0-100 for how well it fits the buyer.")
	parts = append(parts, fmt.Sprintf("Buyer's request: %s", req.UserText))

	if req.Persona != nil {
		parts = append(parts, fmt.Sprintf("Detected buyer profile: %s (priorities: %s)",
			req.Persona.Name, strings.Join(req.Persona.Priorities, ", ")))
	}

	parts = append(parts, "Each candidate includes a precomputed equipment-value score and a review-sentiment delta; weigh both.")
	parts = append(parts, "Respond with JSON only: {\"scores\":[{\"candidateId\",\"score\",\"reasoning\",\"insights\"}]}, one entry per candidate.")

	return strings.Join(parts, "\n")
}
