// internal/stages/rerank-batch/fallback.go
package rerankbatch

import (
	"fmt"
	"strings"

	"vehicle-recommender/internal/catalog"
	"vehicle-recommender/internal/models"
)

// personaTierAffinity rewards brand tiers that match a persona's taste when
// the oracle is unavailable. Unlisted combinations are neutral.
var personaTierAffinity = map[string]map[catalog.BrandTier]float64{
	"executive": {
		catalog.TierUltraLuxury: 8,
		catalog.TierLuxury:      8,
		catalog.TierPremium:     5,
	},
	"first-timer": {
		catalog.TierMidRange: 4,
		catalog.TierEconomy:  4,
	},
	"commuter": {
		catalog.TierMidRange: 3,
	},
	"family": {
		catalog.TierMidRange: 3,
		catalog.TierPremium:  2,
	},
}

// fallbackBatch applies the deterministic rule to a whole failed batch.
func (h *Handler) fallbackBatch(input *Input, offset int, batch []Candidate) []models.RankedCandidate {
	scored := make([]models.RankedCandidate, 0, len(batch))
	for pos, c := range batch {
		scored = append(scored, h.fallbackCandidate(input, c, offset+pos))
	}
	return scored
}

// fallbackCandidate is the documented oracle-independent scoring rule:
// budget fit plus brand/persona affinity plus a small positional bonus that
// preserves retrieval ordering as a last resort.
func (h *Handler) fallbackCandidate(input *Input, c Candidate, globalIndex int) models.RankedCandidate {
	ranked := c.Ranked
	v := ranked.Vehicle

	score := 50.0
	var reasons []string

	// Budget fit: closer to the window center scores higher, up to 20.
	fit := budgetFit(v.Price, input.Budget)
	score += fit * 20
	reasons = append(reasons, fmt.Sprintf("budget fit %.0f%%", fit*100))

	// Brand affinity: trusted manufacturers and persona tier taste.
	if h.catalog.TrustedManufacturers[strings.ToLower(v.Manufacturer)] {
		score += 6
		reasons = append(reasons, "trusted manufacturer")
	}
	if input.Persona != nil && input.PersonaWeight > 0 {
		tier := h.catalog.BrandTiers.TierOf(v.Manufacturer)
		if bonus := personaTierAffinity[input.Persona.ID][tier]; bonus > 0 {
			score += bonus * input.PersonaWeight
			reasons = append(reasons, fmt.Sprintf("%s brand fits %s", tier, input.Persona.ID))
		}
	}

	// Precomputed signals keep contributing even without the oracle.
	score += ranked.OptionValueScore * 0.1
	score += ranked.SentimentDelta * 0.4

	// Positional bonus: retrieval order is the tie-breaking prior.
	positional := 5 - float64(globalIndex)*0.25
	if positional > 0 {
		score += positional
	}

	ranked.RerankScore = models.Clamp(score, 0, 100)
	ranked.Reasoning = "rule-based: " + strings.Join(reasons, ", ")
	ranked.UsedFallback = true
	return ranked
}

// budgetFit maps price distance from the budget midpoint to [0, 1].
func budgetFit(price int, budget models.BudgetRange) float64 {
	if budget.Max <= budget.Min {
		return 0.5
	}
	mid := float64(budget.Min+budget.Max) / 2
	halfWidth := float64(budget.Max-budget.Min) / 2
	fit := 1 - (abs(float64(price)-mid) / halfWidth)
	return models.Clamp(fit, 0, 1)
}

func abs(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}
