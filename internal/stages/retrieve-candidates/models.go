// internal/stages/retrieve-candidates/models.go
package retrievecandidates

import "vehicle-recommender/internal/models"

type Input struct {
	Budget models.BudgetRange `json:"budget"`
	// Persona biases ordering only; it never excludes candidates.
	Persona *models.PersonaProfile `json:"persona,omitempty"`
	// PersonaWeight scales persona-dependent bonuses: 1.0 for a "use"
	// recommendation, 0.5 for "advisory", 0 otherwise.
	PersonaWeight float64 `json:"personaWeight"`
	Limit         int     `json:"limit"`
}

type Output struct {
	Candidates []models.RankedCandidate `json:"candidates"`
	// Widened reports whether the budget window was expanded to reach the
	// minimum viable candidate count.
	Widened     bool               `json:"widened"`
	BudgetUsed  models.BudgetRange `json:"budgetUsed"`
}
