// internal/stages/adjust-sentiment/models.go
package adjustsentiment

type Input struct {
	Manufacturer string `json:"manufacturer"`
	Model        string `json:"model"`
	Year         int    `json:"year"`
	Category     string `json:"category"`
	PersonaID    string `json:"personaId"`
	// PersonaWeight blends the persona sensitivity multiplier toward the
	// unit default: 1.0 full strength, 0.5 advisory half strength. Values
	// outside (0,1] mean full strength.
	PersonaWeight float64 `json:"personaWeight,omitempty"`
}

// Confidence reflects how much underlying review data backs the delta.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"   // >= 10 reviews
	ConfidenceMedium Confidence = "medium" // 5-9 reviews
	ConfidenceLow    Confidence = "low"    // < 5 reviews or fallback
)

type Output struct {
	Delta      float64    `json:"delta"` // -20..+20
	Insight    string     `json:"insight,omitempty"`
	Confidence Confidence `json:"confidence"`
}
