// internal/stages/analyze-options/handler.go
package analyzeoptions

import (
	"context"
	"sort"

	"vehicle-recommender/internal/catalog"
	"vehicle-recommender/internal/common/logger"
	"vehicle-recommender/internal/models"
)

const StageName = "analyze-options"

// neutralValue is returned when no weight table exists for the persona;
// absent information neither rewards nor penalizes a candidate.
const neutralValue = 50

type Handler struct {
	config  *Config
	catalog *catalog.Catalog
	logger  logger.Logger
}

func NewHandler(config *Config, cat *catalog.Catalog, log logger.Logger) *Handler {
	return &Handler{
		config:  config,
		catalog: cat,
		logger:  log.WithFields(map[string]interface{}{"stage": StageName}),
	}
}

// Execute is a pure function of the equipment list and persona weight
// table; no I/O, safe per-candidate without rate limiting.
func (h *Handler) Execute(_ context.Context, input *Input) (*Output, error) {
	weights := h.catalog.OptionWeights[input.PersonaID]
	if len(weights) == 0 {
		return &Output{
			TotalOptionValue: neutralValue,
			Recommendation:   RecommendationAverage,
		}, nil
	}

	owned := make(map[string]bool, len(input.Equipment))
	for _, tag := range input.Equipment {
		owned[tag] = true
	}

	// Fixed tag order keeps highlights and missing lists reproducible.
	tags := make([]string, 0, len(weights))
	for tag := range weights {
		tags = append(tags, tag)
	}
	sort.Slice(tags, func(i, j int) bool {
		if weights[tags[i]] != weights[tags[j]] {
			return weights[tags[i]] > weights[tags[j]]
		}
		return tags[i] < tags[j]
	})

	var ownedSum, maxSum float64
	var highlights, missing []string
	for _, tag := range tags {
		maxSum += weights[tag]
		if owned[tag] {
			ownedSum += weights[tag]
			if len(highlights) < h.config.HighlightCount {
				highlights = append(highlights, tag)
			}
		} else if len(missing) < h.config.MissingCriticalCount {
			missing = append(missing, tag)
		}
	}

	value := models.Clamp(ownedSum/maxSum*100, 0, 100)
	value = neutralValue + personaWeight(input)*(value-neutralValue)

	return &Output{
		TotalOptionValue: value,
		Highlights:       highlights,
		MissingCritical:  missing,
		Recommendation:   classify(value),
	}, nil
}

func personaWeight(input *Input) float64 {
	if input.PersonaWeight > 0 && input.PersonaWeight <= 1 {
		return input.PersonaWeight
	}
	return 1
}

func classify(value float64) OptionRecommendation {
	switch {
	case value >= 85:
		return RecommendationExcellent
	case value >= 70:
		return RecommendationGood
	case value >= 50:
		return RecommendationAverage
	default:
		return RecommendationPoor
	}
}
