// internal/stages/aggregate-scores/handler.go
package aggregatescores

import (
	"context"
	"sort"

	"vehicle-recommender/internal/common/logger"
	"vehicle-recommender/internal/models"
)

const StageName = "aggregate-scores"

type Handler struct {
	config *Config
	logger logger.Logger
}

func NewHandler(config *Config, log logger.Logger) *Handler {
	return &Handler{
		config: config,
		logger: log.WithFields(map[string]interface{}{"stage": StageName}),
	}
}

// Execute finalizes the ranking. The rerank score already incorporates
// persona, options and sentiment context (oracle path) or the documented
// fallback formula, so it serves as the final score directly.
func (h *Handler) Execute(_ context.Context, input *Input) (*Output, error) {
	candidates := make([]models.RankedCandidate, len(input.Candidates))
	copy(candidates, input.Candidates)

	for i := range candidates {
		candidates[i].FinalScore = models.Clamp(candidates[i].RerankScore, 0, 100)
	}

	// Stable sort with retrievalScore then id tie-breaks guarantees
	// reproducible output for identical input.
	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.FinalScore != b.FinalScore {
			return a.FinalScore > b.FinalScore
		}
		if a.RetrievalScore != b.RetrievalScore {
			return a.RetrievalScore > b.RetrievalScore
		}
		return a.Vehicle.ID < b.Vehicle.ID
	})

	limit := input.Limit
	if limit <= 0 {
		limit = h.config.OutputSize
	}
	if len(candidates) > limit {
		candidates = candidates[:limit]
	}

	return &Output{Candidates: candidates}, nil
}
