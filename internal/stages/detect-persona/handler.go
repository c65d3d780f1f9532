// internal/stages/detect-persona/handler.go
package detectpersona

import (
	"context"
	"sort"
	"sync"

	"vehicle-recommender/internal/catalog"
	commonerrors "vehicle-recommender/internal/common/errors"
	"vehicle-recommender/internal/common/logger"
	"vehicle-recommender/internal/models"
)

const StageName = "detect-persona"

type Handler struct {
	config    *Config
	detectors []Detector
	logger    logger.Logger
}

func NewHandler(config *Config, cat *catalog.Catalog, log logger.Logger) *Handler {
	return &Handler{
		config: config,
		detectors: []Detector{
			&keywordDetector{catalog: cat},
			&budgetDetector{catalog: cat},
			&situationalDetector{catalog: cat},
		},
		logger: log.WithFields(map[string]interface{}{"stage": StageName}),
	}
}

// Execute fans the input out to all detectors and fuses their verdicts.
// Detectors share no state, so concurrent and sequential runs produce
// identical results.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	verdicts := h.runDetectors(ctx, input)
	if len(verdicts) == 0 {
		h.logger.Info("no persona detected", map[string]interface{}{
			"textLength": len(input.Text),
		})
		return &Output{Result: nil}, nil
	}

	result := h.fuse(verdicts)

	h.logger.Info("persona fused", map[string]interface{}{
		"personaId":      result.PersonaID,
		"confidence":     result.OverallConfidence,
		"recommendation": result.Recommendation,
		"convergence":    result.ConvergenceEvidence,
		"methods":        len(result.ContributingMethods),
	})

	return &Output{Result: result}, nil
}

func (h *Handler) runDetectors(ctx context.Context, input *Input) []models.DetectionVerdict {
	results := make([][]models.DetectionVerdict, len(h.detectors))

	var wg sync.WaitGroup
	for i, det := range h.detectors {
		wg.Add(1)
		go func(i int, det Detector) {
			defer wg.Done()
			// A panicking detector is omitted from fusion, never fatal.
			defer func() {
				if r := recover(); r != nil {
					h.logger.Warn("detector panicked", map[string]interface{}{
						"code":   string(commonerrors.ErrCodeDetectorFailed),
						"method": det.Name(),
						"panic":  r,
					})
				}
			}()
			if ctx.Err() != nil {
				return
			}
			results[i] = det.Detect(input.Text, input.Budget)
		}(i, det)
	}
	wg.Wait()

	// Flatten in detector order to keep fusion input deterministic.
	var verdicts []models.DetectionVerdict
	for _, vs := range results {
		verdicts = append(verdicts, vs...)
	}
	return verdicts
}

func (h *Handler) fuse(verdicts []models.DetectionVerdict) *models.FusionResult {
	type personaEvidence struct {
		verdicts     []models.DetectionVerdict
		weightedSum  float64
		weightSum    float64
		maxAgreeing  float64
		methodsAbove map[string]bool
	}

	byPersona := make(map[string]*personaEvidence)
	for _, v := range verdicts {
		pe := byPersona[v.PersonaID]
		if pe == nil {
			pe = &personaEvidence{methodsAbove: make(map[string]bool)}
			byPersona[v.PersonaID] = pe
		}
		weight := 1.0
		if w, ok := h.config.MethodWeights[v.MethodName]; ok {
			weight = w
		}
		pe.verdicts = append(pe.verdicts, v)
		pe.weightedSum += v.Confidence * weight
		pe.weightSum += weight
		if v.Confidence >= h.config.ConvergenceFloor {
			pe.methodsAbove[v.MethodName] = true
			if v.Confidence > pe.maxAgreeing {
				pe.maxAgreeing = v.Confidence
			}
		}
	}

	// Fixed iteration order for reproducible tie-breaks.
	personaIDs := make([]string, 0, len(byPersona))
	for id := range byPersona {
		personaIDs = append(personaIDs, id)
	}
	sort.Strings(personaIDs)

	var best *models.FusionResult
	for _, id := range personaIDs {
		pe := byPersona[id]
		fused := pe.weightedSum / pe.weightSum

		// Independent methods agreeing is stronger evidence than one strong
		// signal; lift above the best single verdict and apply the bonus.
		converged := len(pe.methodsAbove) >= 2
		if converged {
			if pe.maxAgreeing > fused {
				fused = pe.maxAgreeing
			}
			fused *= h.config.ConvergenceBonus
		}
		fused = models.Clamp(fused, 0, 100)

		if best == nil || fused > best.OverallConfidence {
			best = &models.FusionResult{
				PersonaID:           id,
				OverallConfidence:   fused,
				Recommendation:      models.ClassifyConfidence(fused),
				ConvergenceEvidence: converged,
				ContributingMethods: pe.verdicts,
			}
		}
	}

	return best
}
