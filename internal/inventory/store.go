// internal/inventory/store.go
package inventory

import (
	"context"

	"vehicle-recommender/internal/models"
)

// Filters narrows an inventory query. Zero values mean "no filter".
// Persona is never translated into Filters; it only affects ordering
// downstream.
type Filters struct {
	Categories []string
	FuelTypes  []string
	Query      string // free-text feature search, Elasticsearch only
	Limit      int
}

// Store is the read-only inventory query capability. The pipeline never
// writes to inventory.
type Store interface {
	FindVehicles(ctx context.Context, priceRange models.BudgetRange, filters Filters) ([]models.CandidateVehicle, error)
}
