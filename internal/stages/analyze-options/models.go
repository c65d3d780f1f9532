// internal/stages/analyze-options/models.go
package analyzeoptions

type Input struct {
	Equipment []string `json:"equipment"`
	PersonaID string   `json:"personaId"`
	// PersonaWeight blends the persona-specific value toward neutral:
	// 1.0 full strength, 0.5 advisory half strength. Values outside (0,1]
	// mean full strength.
	PersonaWeight float64 `json:"personaWeight,omitempty"`
}

// OptionRecommendation buckets the equipment value for display.
type OptionRecommendation string

const (
	RecommendationExcellent OptionRecommendation = "EXCELLENT" // >= 85
	RecommendationGood      OptionRecommendation = "GOOD"      // 70-84
	RecommendationAverage   OptionRecommendation = "AVERAGE"   // 50-69
	RecommendationPoor      OptionRecommendation = "POOR"      // < 50
)

type Output struct {
	TotalOptionValue float64              `json:"totalOptionValue"` // 0-100
	Highlights       []string             `json:"highlights,omitempty"`
	MissingCritical  []string             `json:"missingCritical,omitempty"`
	Recommendation   OptionRecommendation `json:"recommendation"`
}
