// internal/stages/detect-persona/models.go
package detectpersona

import "vehicle-recommender/internal/models"

type Input struct {
	Text   string              `json:"text"`
	Budget *models.BudgetRange `json:"budget,omitempty"`
}

// Output carries the fused persona guess. Result is nil when no detector
// produced a verdict; callers skip personalization in that case.
type Output struct {
	Result *models.FusionResult `json:"result,omitempty"`
}
