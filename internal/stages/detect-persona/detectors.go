// internal/stages/detect-persona/detectors.go
package detectpersona

import (
	"fmt"
	"sort"
	"strings"

	"vehicle-recommender/internal/catalog"
	"vehicle-recommender/internal/models"
)

const (
	MethodKeywordPattern = "keyword-pattern"
	MethodBudgetFit      = "budget-fit"
	MethodSituational    = "situational-role"

	// maxDetectorConfidence keeps every single-method verdict strictly below
	// the fused ceiling so convergence always lifts the result above any
	// individual detector.
	maxDetectorConfidence = 95
)

// Detector is one independent persona detection method. Detectors are pure
// functions of the input; they share no state and may run concurrently.
type Detector interface {
	Name() string
	Detect(text string, budget *models.BudgetRange) []models.DetectionVerdict
}

// keywordDetector matches generic intent keywords per persona.
type keywordDetector struct {
	catalog *catalog.Catalog
}

func (d *keywordDetector) Name() string { return MethodKeywordPattern }

func (d *keywordDetector) Detect(text string, _ *models.BudgetRange) []models.DetectionVerdict {
	lower := strings.ToLower(text)

	var verdicts []models.DetectionVerdict
	for _, personaID := range sortedPersonaIDs(d.catalog) {
		var hits []string
		for _, kw := range d.catalog.PatternKeywords[personaID] {
			if strings.Contains(lower, kw) {
				hits = append(hits, kw)
			}
		}
		if len(hits) == 0 {
			continue
		}
		confidence := models.Clamp(float64(len(hits))*25, 0, maxDetectorConfidence)
		verdicts = append(verdicts, models.DetectionVerdict{
			PersonaID:  personaID,
			MethodName: MethodKeywordPattern,
			Confidence: confidence,
			Evidence:   fmt.Sprintf("matched keywords: %s", strings.Join(hits, ", ")),
		})
	}
	return verdicts
}

// budgetDetector scores the overlap between the extracted budget and each
// persona's typical budget range.
type budgetDetector struct {
	catalog *catalog.Catalog
}

func (d *budgetDetector) Name() string { return MethodBudgetFit }

func (d *budgetDetector) Detect(_ string, budget *models.BudgetRange) []models.DetectionVerdict {
	if budget == nil || budget.Max <= budget.Min {
		return nil
	}

	var verdicts []models.DetectionVerdict
	for _, personaID := range sortedPersonaIDs(d.catalog) {
		profile := d.catalog.Personas[personaID]
		overlap := budget.Overlap(profile.Budget)
		if overlap <= 0 {
			continue
		}
		confidence := models.Clamp(overlap*100, 0, maxDetectorConfidence)
		verdicts = append(verdicts, models.DetectionVerdict{
			PersonaID:  personaID,
			MethodName: MethodBudgetFit,
			Confidence: confidence,
			Evidence:   fmt.Sprintf("budget [%d, %d] overlaps persona range %.0f%%", budget.Min, budget.Max, overlap*100),
		})
	}
	return verdicts
}

// situationalDetector matches life-situation phrases ("kids", "first car",
// "camping") that signal the buyer's role more strongly than generic
// vocabulary.
type situationalDetector struct {
	catalog *catalog.Catalog
}

func (d *situationalDetector) Name() string { return MethodSituational }

func (d *situationalDetector) Detect(text string, _ *models.BudgetRange) []models.DetectionVerdict {
	lower := strings.ToLower(text)

	var verdicts []models.DetectionVerdict
	for _, personaID := range sortedPersonaIDs(d.catalog) {
		profile := d.catalog.Personas[personaID]
		var hits []string
		for _, kw := range profile.SituationalKeywords {
			if strings.Contains(lower, kw) {
				hits = append(hits, kw)
			}
		}
		if len(hits) == 0 {
			continue
		}
		confidence := models.Clamp(30+float64(len(hits))*30, 0, maxDetectorConfidence)
		verdicts = append(verdicts, models.DetectionVerdict{
			PersonaID:  personaID,
			MethodName: MethodSituational,
			Confidence: confidence,
			Evidence:   fmt.Sprintf("situational cues: %s", strings.Join(hits, ", ")),
		})
	}
	return verdicts
}

// sortedPersonaIDs returns catalog persona ids in a fixed order so detector
// output is deterministic regardless of map iteration.
func sortedPersonaIDs(c *catalog.Catalog) []string {
	ids := make([]string, 0, len(c.Personas))
	for id := range c.Personas {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
