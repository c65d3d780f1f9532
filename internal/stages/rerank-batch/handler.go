// internal/stages/rerank-batch/handler.go
package rerankbatch

import (
	"context"
	"errors"
	"sync"
	"time"

	"vehicle-recommender/internal/catalog"
	commonerrors "vehicle-recommender/internal/common/errors"
	"vehicle-recommender/internal/common/logger"
	"vehicle-recommender/internal/common/metrics"
	"vehicle-recommender/internal/models"
	"vehicle-recommender/internal/oracle"
)

const StageName = "rerank-batch"

// Batch outcomes. Every batch ends in exactly one of these; a failure in
// one batch never aborts or discards the others.
const (
	outcomeSuccess  = "success"
	outcomeFallback = "fallback"
)

var ErrNilInput = errors.New("input cannot be nil")

type Handler struct {
	config  *Config
	scorer  oracle.Scorer
	catalog *catalog.Catalog
	logger  logger.Logger
}

func NewHandler(config *Config, scorer oracle.Scorer, cat *catalog.Catalog, log logger.Logger) *Handler {
	return &Handler{
		config:  config,
		scorer:  scorer,
		catalog: cat,
		logger:  log.WithFields(map[string]interface{}{"stage": StageName}),
	}
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	if input == nil {
		return nil, ErrNilInput
	}
	if len(input.Candidates) == 0 {
		return &Output{}, nil
	}

	batches := h.partition(input.Candidates)
	results := make([][]models.RankedCandidate, len(batches))
	fallbacks := make([]bool, len(batches))

	// Batches are independent units of work: each writes only its own slot,
	// bounded by a semaphore to respect the oracle's rate limits.
	sem := make(chan struct{}, h.config.Workers)
	var wg sync.WaitGroup

	offset := 0
	for i, batch := range batches {
		wg.Add(1)
		go func(i, offset int, batch []Candidate) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			scored, usedFallback := h.scoreBatch(ctx, input, i, offset, batch)
			results[i] = scored
			fallbacks[i] = usedFallback
		}(i, offset, batch)
		offset += len(batch)
	}
	wg.Wait()

	var candidates []models.RankedCandidate
	for _, r := range results {
		candidates = append(candidates, r...)
	}

	h.logger.Info("rerank completed", map[string]interface{}{
		"requestId":  input.RequestID,
		"candidates": len(candidates),
		"batches":    len(batches),
		"fallbacks":  countTrue(fallbacks),
	})

	return &Output{
		Candidates:     candidates,
		BatchFallbacks: fallbacks,
	}, nil
}

func (h *Handler) partition(candidates []Candidate) [][]Candidate {
	var batches [][]Candidate
	for start := 0; start < len(candidates); start += h.config.BatchSize {
		end := start + h.config.BatchSize
		if end > len(candidates) {
			end = len(candidates)
		}
		batches = append(batches, candidates[start:end])
	}
	return batches
}

// scoreBatch walks one batch through scoring and parsing. Any oracle error,
// timeout or schema violation lands the whole batch on the rule-based
// fallback path; a candidate the oracle skipped falls back individually.
func (h *Handler) scoreBatch(ctx context.Context, input *Input, batchIndex, offset int, batch []Candidate) ([]models.RankedCandidate, bool) {
	callCtx, cancel := context.WithTimeout(ctx, h.config.OracleTimeout)
	defer cancel()

	start := time.Now()
	resp, err := h.scorer.Score(callCtx, h.buildRequest(input, batchIndex, batch))
	if err != nil {
		h.logger.WithError(classifyOracleError(err, batchIndex)).
			Warn("oracle batch failed, using rule-based scoring", map[string]interface{}{
				"requestId":  input.RequestID,
				"batchIndex": batchIndex,
				"durationMs": time.Since(start).Milliseconds(),
			})
		metrics.OracleBatches.WithLabelValues(outcomeFallback).Inc()
		return h.fallbackBatch(input, offset, batch), true
	}

	metrics.OracleBatches.WithLabelValues(outcomeSuccess).Inc()

	byID := resp.ScoresByID()
	scored := make([]models.RankedCandidate, 0, len(batch))
	for pos, c := range batch {
		ranked := c.Ranked
		if verdict, ok := byID[ranked.Vehicle.ID]; ok {
			ranked.RerankScore = models.Clamp(verdict.Score, 0, 100)
			ranked.Reasoning = verdict.Reasoning
			ranked.Insights = append(ranked.Insights, verdict.Insights...)
			ranked.UsedFallback = false
		} else {
			ranked = h.fallbackCandidate(input, c, offset+pos)
		}
		scored = append(scored, ranked)
	}
	return scored, false
}

// classifyOracleError maps a scorer failure to its structured error code
// for the log stream; the fallback path is the same either way.
func classifyOracleError(err error, batchIndex int) *commonerrors.StandardError {
	switch {
	case errors.Is(err, oracle.ErrTimeout):
		return commonerrors.NewOracleTimeoutError(batchIndex)
	case errors.Is(err, oracle.ErrInvalidResponse):
		return commonerrors.NewOracleResponseInvalidError(err.Error())
	default:
		return commonerrors.NewOracleCallFailedError(err)
	}
}

func (h *Handler) buildRequest(input *Input, batchIndex int, batch []Candidate) *oracle.BatchRequest {
	candidates := make([]oracle.BatchCandidate, 0, len(batch))
	for _, c := range batch {
		v := c.Ranked.Vehicle
		candidates = append(candidates, oracle.BatchCandidate{
			ID:               v.ID,
			Manufacturer:     v.Manufacturer,
			Model:            v.Model,
			Year:             v.Year,
			Price:            v.Price,
			Mileage:          v.Mileage,
			FuelType:         v.FuelType,
			Category:         v.Category,
			OptionValueScore: c.Ranked.OptionValueScore,
			MissingCritical:  c.MissingCritical,
			SentimentDelta:   c.Ranked.SentimentDelta,
			SentimentInsight: c.SentimentInsight,
		})
	}

	return &oracle.BatchRequest{
		RequestID:  input.RequestID,
		BatchIndex: batchIndex,
		UserText:   input.UserText,
		Persona:    input.Persona,
		Candidates: candidates,
	}
}

func countTrue(flags []bool) int {
	n := 0
	for _, f := range flags {
		if f {
			n++
		}
	}
	return n
}
