// internal/stages/adjust-sentiment/handler.go
package adjustsentiment

import (
	"context"
	"fmt"
	"strings"

	"vehicle-recommender/internal/catalog"
	commonerrors "vehicle-recommender/internal/common/errors"
	"vehicle-recommender/internal/common/logger"
	"vehicle-recommender/internal/models"
	"vehicle-recommender/internal/reviews"
)

const StageName = "adjust-sentiment"

type Handler struct {
	config  *Config
	source  reviews.Source
	catalog *catalog.Catalog
	logger  logger.Logger
}

func NewHandler(config *Config, source reviews.Source, cat *catalog.Catalog, log logger.Logger) *Handler {
	return &Handler{
		config:  config,
		source:  source,
		catalog: cat,
		logger:  log.WithFields(map[string]interface{}{"stage": StageName}),
	}
}

// Execute never returns a data-source failure to the caller; a lookup error
// degrades to a deterministic brand-tier fallback with low confidence.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	agg, err := h.source.GetAggregateSentiment(ctx, input.Manufacturer, input.Model, input.Category)
	if err != nil {
		h.logger.Warn("review lookup failed, using brand-tier fallback", map[string]interface{}{
			"manufacturer": input.Manufacturer,
			"model":        input.Model,
			"error":        err.Error(),
		})
		return h.tierFallback(input), nil
	}

	baseline := agg.Baseline
	sampleSize := agg.SampleSize
	scope := "model reviews"

	if sampleSize == 0 {
		// Absent data is valid zero information; use the category-level
		// default baseline instead.
		baseline = h.catalog.CategorySentiment[strings.ToLower(input.Category)]
		scope = "category average"
		h.logger.Debug("no review rows, using category baseline", map[string]interface{}{
			"code":         string(commonerrors.ErrCodeReviewDataAbsent),
			"manufacturer": input.Manufacturer,
			"model":        input.Model,
			"category":     input.Category,
		})
	}

	delta := h.scaleDelta(baseline, input)

	return &Output{
		Delta:      delta,
		Insight:    h.describe(input, delta, scope),
		Confidence: h.confidence(sampleSize),
	}, nil
}

func (h *Handler) scaleDelta(baseline float64, input *Input) float64 {
	delta := baseline * h.config.BaseScale
	delta *= h.catalog.BrandTiers.Multiplier(input.Manufacturer)
	delta *= blendedSensitivity(h.catalog.Sensitivity(input.PersonaID), input.PersonaWeight)
	return models.Clamp(delta, -h.config.DeltaBound, h.config.DeltaBound)
}

// blendedSensitivity moves the persona multiplier toward the unit default
// when the detection was only advisory.
func blendedSensitivity(sensitivity, weight float64) float64 {
	if weight > 0 && weight <= 1 {
		return 1 + weight*(sensitivity-1)
	}
	return sensitivity
}

// tierFallback derives a small deterministic delta from the brand tier
// alone: above-midrange brands get the benefit of the doubt, economy brands
// a slight discount.
func (h *Handler) tierFallback(input *Input) *Output {
	multiplier := h.catalog.BrandTiers.Multiplier(input.Manufacturer)
	delta := models.Clamp((multiplier-1.0)*10, -h.config.DeltaBound, h.config.DeltaBound)

	return &Output{
		Delta:      delta,
		Insight:    fmt.Sprintf("%s %s: estimated from brand tier, no review data reachable", input.Manufacturer, input.Model),
		Confidence: ConfidenceLow,
	}
}

func (h *Handler) confidence(sampleSize int) Confidence {
	switch {
	case sampleSize >= h.config.HighSampleSize:
		return ConfidenceHigh
	case sampleSize >= h.config.MediumSampleSize:
		return ConfidenceMedium
	default:
		return ConfidenceLow
	}
}

func (h *Handler) describe(input *Input, delta float64, scope string) string {
	direction := "in line with"
	if delta > 2 {
		direction = "better than"
	} else if delta < -2 {
		direction = "below"
	}
	return fmt.Sprintf("%s %s owners rate it %s segment expectations (%s)",
		input.Manufacturer, input.Model, direction, scope)
}
