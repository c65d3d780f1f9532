// internal/models/vehicle.go
package models

import "time"

// CandidateVehicle is an inventory vehicle under consideration for the
// current request. It is read-only inside the pipeline; stages attach
// derived fields on RankedCandidate, never here.
type CandidateVehicle struct {
	ID           string    `json:"id"`
	Manufacturer string    `json:"manufacturer"`
	Model        string    `json:"model"`
	Year         int       `json:"year"`
	Price        int       `json:"price"`
	Mileage      int       `json:"mileage"`
	Distance     float64   `json:"distance"`
	FuelType     string    `json:"fuelType"`
	Category     string    `json:"category"`
	Location     string    `json:"location"`
	Equipment    []string  `json:"equipment"`
	ListedAt     time.Time `json:"listedAt"`
}

// HasEquipment reports whether the vehicle carries the given equipment tag.
func (v CandidateVehicle) HasEquipment(tag string) bool {
	for _, e := range v.Equipment {
		if e == tag {
			return true
		}
	}
	return false
}

// RankedCandidate is a CandidateVehicle plus the derived fields attached by
// each pipeline stage. Lifetime is a single request.
type RankedCandidate struct {
	Vehicle CandidateVehicle `json:"vehicle"`

	RetrievalScore   float64  `json:"retrievalScore"`
	RerankScore      float64  `json:"rerankScore"`
	OptionValueScore float64  `json:"optionValueScore"`
	SentimentDelta   float64  `json:"sentimentDelta"`
	FinalScore       float64  `json:"finalScore"`
	Reasoning        string   `json:"reasoning,omitempty"`
	Insights         []string `json:"insights,omitempty"`
	UsedFallback     bool     `json:"usedFallback"`
}

// Clamp bounds v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
