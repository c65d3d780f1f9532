// internal/stages/retrieve-candidates/handler.go
package retrievecandidates

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"vehicle-recommender/internal/catalog"
	"vehicle-recommender/internal/common/logger"
	"vehicle-recommender/internal/common/metrics"
	"vehicle-recommender/internal/inventory"
	"vehicle-recommender/internal/models"
)

const StageName = "retrieve-candidates"

var ErrNilInput = errors.New("input cannot be nil")

type Handler struct {
	config  *Config
	store   inventory.Store
	catalog *catalog.Catalog
	logger  logger.Logger
}

func NewHandler(config *Config, store inventory.Store, cat *catalog.Catalog, log logger.Logger) *Handler {
	return &Handler{
		config:  config,
		store:   store,
		catalog: cat,
		logger:  log.WithFields(map[string]interface{}{"stage": StageName}),
	}
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	if input == nil {
		return nil, ErrNilInput
	}

	budget := input.Budget
	filters := inventory.Filters{Limit: input.Limit}

	vehicles, err := h.store.FindVehicles(ctx, budget, filters)
	if err != nil {
		return nil, err
	}

	widened := false
	if len(vehicles) < h.config.MinViable {
		// Narrow or unusual budgets risk an empty result; widen once and
		// take whatever the wider window yields.
		widerBudget := budget.Widen(h.config.WidenFactor)
		wider, err := h.store.FindVehicles(ctx, widerBudget, filters)
		if err == nil && len(wider) > len(vehicles) {
			vehicles = wider
			budget = widerBudget
			widened = true
			metrics.BudgetWidened.Inc()
		}
	}

	candidates := make([]models.RankedCandidate, 0, len(vehicles))
	for _, v := range vehicles {
		candidates = append(candidates, models.RankedCandidate{
			Vehicle:        v,
			RetrievalScore: h.scoreVehicle(v, input.Persona, input.PersonaWeight),
		})
	}

	sortCandidates(candidates)

	if input.Limit > 0 && len(candidates) > input.Limit {
		candidates = candidates[:input.Limit]
	}

	metrics.CandidatesRetrieved.Observe(float64(len(candidates)))
	h.logger.Info("candidates retrieved", map[string]interface{}{
		"count":   len(candidates),
		"widened": widened,
		"min":     budget.Min,
		"max":     budget.Max,
	})

	return &Output{
		Candidates: candidates,
		Widened:    widened,
		BudgetUsed: budget,
	}, nil
}

// scoreVehicle accrues bounded bonuses on the fixed baseline. All bonuses
// together stay under the [0, 100] cap.
func (h *Handler) scoreVehicle(v models.CandidateVehicle, persona *models.PersonaProfile, personaWeight float64) float64 {
	score := h.config.BaselineScore

	currentYear := time.Now().Year()
	age := currentYear - v.Year
	if age < 0 {
		age = 0
	}

	// Recent model year.
	switch {
	case age <= 3:
		score += 8
	case age <= 6:
		score += 4
	}

	// Low mileage for age.
	perYear := v.Mileage
	if age > 0 {
		perYear = v.Mileage / age
	}
	switch {
	case perYear < 10000:
		score += 8
	case perYear < 15000:
		score += 4
	}

	// Fuel-type/usage alignment with persona priorities.
	if persona != nil && personaWeight > 0 {
		score += h.fuelAlignment(v, persona) * personaWeight
	}

	// Trusted-manufacturer affinity.
	if h.catalog.TrustedManufacturers[strings.ToLower(v.Manufacturer)] {
		score += 7
	}

	return models.Clamp(score, 0, 100)
}

func (h *Handler) fuelAlignment(v models.CandidateVehicle, persona *models.PersonaProfile) float64 {
	fuel := strings.ToLower(v.FuelType)
	for _, p := range persona.Priorities {
		switch p {
		case "fuel_economy":
			if fuel == "hybrid" || fuel == "electric" {
				return 7
			}
			if fuel == "diesel" {
				return 3
			}
		case "awd", "durability", "towing":
			if fuel == "diesel" {
				return 5
			}
		}
	}
	return 0
}

// sortCandidates orders by score descending with deterministic tie-breaks:
// lower price, then newer year, then id.
func sortCandidates(candidates []models.RankedCandidate) {
	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.RetrievalScore != b.RetrievalScore {
			return a.RetrievalScore > b.RetrievalScore
		}
		if a.Vehicle.Price != b.Vehicle.Price {
			return a.Vehicle.Price < b.Vehicle.Price
		}
		if a.Vehicle.Year != b.Vehicle.Year {
			return a.Vehicle.Year > b.Vehicle.Year
		}
		return a.Vehicle.ID < b.Vehicle.ID
	})
}
