// internal/models/persona.go
package models

// BudgetRange is a price window in currency units. Min <= Max.
type BudgetRange struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// Contains reports whether price falls inside the range.
func (b BudgetRange) Contains(price int) bool {
	return price >= b.Min && price <= b.Max
}

// Widen returns a copy of the range expanded by factor on both sides.
// Widen(0.3) turns [100, 200] into [70, 260].
func (b BudgetRange) Widen(factor float64) BudgetRange {
	return BudgetRange{
		Min: int(float64(b.Min) * (1 - factor)),
		Max: int(float64(b.Max) * (1 + factor)),
	}
}

// Overlap returns the fraction of b covered by other, in [0, 1].
func (b BudgetRange) Overlap(other BudgetRange) float64 {
	lo := b.Min
	if other.Min > lo {
		lo = other.Min
	}
	hi := b.Max
	if other.Max < hi {
		hi = other.Max
	}
	if hi <= lo || b.Max <= b.Min {
		return 0
	}
	return float64(hi-lo) / float64(b.Max-b.Min)
}

// PersonaProfile is a named cluster of buyer priorities, budget and
// situational cues. Loaded from the static catalog, immutable for the
// process lifetime.
type PersonaProfile struct {
	ID                  string      `json:"id"`
	Name                string      `json:"name"`
	Priorities          []string    `json:"priorities"`
	Budget              BudgetRange `json:"budget"`
	SituationalKeywords []string    `json:"situationalKeywords"`
}

// DetectionVerdict is one detector's vote for one persona.
// Produced per detector invocation, consumed only by fusion.
type DetectionVerdict struct {
	PersonaID  string  `json:"personaId"`
	MethodName string  `json:"methodName"`
	Confidence float64 `json:"confidence"` // 0-100
	Evidence   string  `json:"evidence,omitempty"`
}

// Recommendation classifies how strongly a fused persona should be applied.
type Recommendation string

const (
	RecommendationUse      Recommendation = "use"      // >= 80
	RecommendationAdvisory Recommendation = "advisory" // 50-79
	RecommendationIgnore   Recommendation = "ignore"   // < 50
)

// ClassifyConfidence maps a fused confidence to a Recommendation.
func ClassifyConfidence(confidence float64) Recommendation {
	switch {
	case confidence >= 80:
		return RecommendationUse
	case confidence >= 50:
		return RecommendationAdvisory
	default:
		return RecommendationIgnore
	}
}

// FusionResult is the outcome of multi-method persona detection.
// Immutable after creation; created once per request.
type FusionResult struct {
	PersonaID           string             `json:"personaId"`
	OverallConfidence   float64            `json:"overallConfidence"` // 0-100
	Recommendation      Recommendation     `json:"recommendation"`
	ConvergenceEvidence bool               `json:"convergenceEvidence"`
	ContributingMethods []DetectionVerdict `json:"contributingMethods"`
}
