// internal/stages/rerank-batch/models.go
package rerankbatch

import "vehicle-recommender/internal/models"

// Candidate pairs a retrieval-stage candidate with the analysis context the
// oracle receives alongside it.
type Candidate struct {
	Ranked           models.RankedCandidate `json:"ranked"`
	MissingCritical  []string               `json:"missingCritical,omitempty"`
	SentimentInsight string                 `json:"sentimentInsight,omitempty"`
}

type Input struct {
	RequestID     string                 `json:"requestId"`
	UserText      string                 `json:"userText"`
	Persona       *models.PersonaProfile `json:"persona,omitempty"`
	PersonaWeight float64                `json:"personaWeight"`
	Budget        models.BudgetRange     `json:"budget"`
	Candidates    []Candidate            `json:"candidates"`
}

type Output struct {
	Candidates []models.RankedCandidate `json:"candidates"`
	// BatchFallbacks reports, per batch, whether the rule-based path scored
	// it instead of the oracle.
	BatchFallbacks []bool `json:"batchFallbacks"`
}
