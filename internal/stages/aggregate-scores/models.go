// internal/stages/aggregate-scores/models.go
package aggregatescores

import "vehicle-recommender/internal/models"

type Input struct {
	Candidates []models.RankedCandidate `json:"candidates"`
	// Limit overrides the configured output size when positive.
	Limit int `json:"limit,omitempty"`
}

type Output struct {
	Candidates []models.RankedCandidate `json:"candidates"`
}
