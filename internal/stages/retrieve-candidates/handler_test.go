// internal/stages/retrieve-candidates/handler_test.go
package retrievecandidates

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vehicle-recommender/internal/catalog"
	"vehicle-recommender/internal/common/logger"
	"vehicle-recommender/internal/inventory"
	"vehicle-recommender/internal/models"
)

type fakeStore struct {
	calls   int
	budgets []models.BudgetRange
	respond func(budget models.BudgetRange) []models.CandidateVehicle
	err     error
}

func (f *fakeStore) FindVehicles(_ context.Context, budget models.BudgetRange, _ inventory.Filters) ([]models.CandidateVehicle, error) {
	f.calls++
	f.budgets = append(f.budgets, budget)
	if f.err != nil {
		return nil, f.err
	}
	return f.respond(budget), nil
}

func testVehicle(id string, price, year, mileage int) models.CandidateVehicle {
	return models.CandidateVehicle{
		ID:           id,
		Manufacturer: "ford",
		Model:        "focus",
		Year:         year,
		Price:        price,
		Mileage:      mileage,
		FuelType:     "petrol",
		Category:     "hatchback",
	}
}

func manyVehicles(n int) []models.CandidateVehicle {
	year := time.Now().Year() - 10
	out := make([]models.CandidateVehicle, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, testVehicle(string(rune('a'+i)), 1000+i, year, 120000))
	}
	return out
}

func newTestHandler(t *testing.T, store inventory.Store) *Handler {
	t.Helper()
	return NewHandler(LoadConfig(), store, catalog.Default(), logger.NewTestLogger(t))
}

func TestHandler_Execute_ScoresStayInBounds(t *testing.T) {
	currentYear := time.Now().Year()
	store := &fakeStore{respond: func(models.BudgetRange) []models.CandidateVehicle {
		return []models.CandidateVehicle{
			testVehicle("new-low-miles", 2000, currentYear-1, 5000),
			testVehicle("old-high-miles", 2000, currentYear-15, 300000),
			{ID: "trusted-hybrid", Manufacturer: "toyota", Model: "prius",
				Year: currentYear - 2, Price: 2500, Mileage: 8000, FuelType: "hybrid"},
			testVehicle("x", 1500, currentYear-5, 60000),
			testVehicle("y", 1800, currentYear-5, 60000),
		}
	}}
	handler := newTestHandler(t, store)

	persona := catalog.Default().Persona("commuter")
	output, err := handler.Execute(context.Background(), &Input{
		Budget:        models.BudgetRange{Min: 1000, Max: 3000},
		Persona:       persona,
		PersonaWeight: 1.0,
		Limit:         50,
	})

	require.NoError(t, err)
	require.Len(t, output.Candidates, 5)
	for _, c := range output.Candidates {
		assert.GreaterOrEqual(t, c.RetrievalScore, 0.0)
		assert.LessOrEqual(t, c.RetrievalScore, 100.0)
	}

	// The trusted-manufacturer hybrid collects every bonus and must rank
	// above the aged high-mileage entry.
	assert.Equal(t, "trusted-hybrid", output.Candidates[0].Vehicle.ID)
	assert.Equal(t, "old-high-miles", output.Candidates[len(output.Candidates)-1].Vehicle.ID)
}

func TestHandler_Execute_TieBreaksAreDeterministic(t *testing.T) {
	year := time.Now().Year() - 5
	store := &fakeStore{respond: func(models.BudgetRange) []models.CandidateVehicle {
		// Identical scoring features; only tie-break fields differ.
		return []models.CandidateVehicle{
			testVehicle("b", 2000, year, 60000),
			testVehicle("a", 2000, year, 60000),
			testVehicle("c", 1500, year, 60000),
		}
	}}
	handler := newTestHandler(t, store)

	output, err := handler.Execute(context.Background(), &Input{
		Budget: models.BudgetRange{Min: 1000, Max: 3000},
		Limit:  50,
	})

	require.NoError(t, err)
	require.Len(t, output.Candidates, 3)
	// Cheaper first, then id.
	assert.Equal(t, "c", output.Candidates[0].Vehicle.ID)
	assert.Equal(t, "a", output.Candidates[1].Vehicle.ID)
	assert.Equal(t, "b", output.Candidates[2].Vehicle.ID)
}

func TestHandler_Execute_WidensOnceWhenBelowMinViable(t *testing.T) {
	narrow := models.BudgetRange{Min: 2000, Max: 2200}
	store := &fakeStore{respond: func(budget models.BudgetRange) []models.CandidateVehicle {
		if budget == narrow {
			return manyVehicles(2)
		}
		return manyVehicles(8)
	}}
	handler := newTestHandler(t, store)

	output, err := handler.Execute(context.Background(), &Input{
		Budget: narrow,
		Limit:  50,
	})

	require.NoError(t, err)
	assert.Equal(t, 2, store.calls)
	assert.True(t, output.Widened)
	assert.Len(t, output.Candidates, 8)
	assert.Equal(t, narrow.Widen(LoadConfig().WidenFactor), output.BudgetUsed)
}

func TestHandler_Execute_NoSecondWideningEvenIfStillSparse(t *testing.T) {
	store := &fakeStore{respond: func(models.BudgetRange) []models.CandidateVehicle {
		return manyVehicles(1)
	}}
	handler := newTestHandler(t, store)

	output, err := handler.Execute(context.Background(), &Input{
		Budget: models.BudgetRange{Min: 2000, Max: 2200},
		Limit:  50,
	})

	require.NoError(t, err)
	// One widening attempt at most; equal counts keep the original window.
	assert.Equal(t, 2, store.calls)
	assert.False(t, output.Widened)
	assert.Len(t, output.Candidates, 1)
}

func TestHandler_Execute_StoreErrorSurfaces(t *testing.T) {
	storeErr := errors.New("connection refused")
	store := &fakeStore{err: storeErr}
	handler := newTestHandler(t, store)

	_, err := handler.Execute(context.Background(), &Input{
		Budget: models.BudgetRange{Min: 1000, Max: 3000},
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, storeErr)
}

func TestHandler_Execute_PersonaNeverFilters(t *testing.T) {
	year := time.Now().Year() - 5
	store := &fakeStore{respond: func(models.BudgetRange) []models.CandidateVehicle {
		return []models.CandidateVehicle{
			{ID: "diesel-truck", Manufacturer: "ford", Year: year, Price: 2000,
				Mileage: 60000, FuelType: "diesel", Category: "pickup"},
			{ID: "tiny-city-car", Manufacturer: "fiat", Year: year, Price: 2000,
				Mileage: 60000, FuelType: "petrol", Category: "hatchback"},
		}
	}}
	handler := newTestHandler(t, store)

	persona := catalog.Default().Persona("outdoor")
	output, err := handler.Execute(context.Background(), &Input{
		Budget:        models.BudgetRange{Min: 1000, Max: 3000},
		Persona:       persona,
		PersonaWeight: 1.0,
		Limit:         50,
	})

	require.NoError(t, err)
	// Persona biases order, it never excludes.
	require.Len(t, output.Candidates, 2)
	assert.Equal(t, "diesel-truck", output.Candidates[0].Vehicle.ID)
}

func TestHandler_Execute_LimitTruncates(t *testing.T) {
	store := &fakeStore{respond: func(models.BudgetRange) []models.CandidateVehicle {
		return manyVehicles(10)
	}}
	handler := newTestHandler(t, store)

	output, err := handler.Execute(context.Background(), &Input{
		Budget: models.BudgetRange{Min: 500, Max: 5000},
		Limit:  6,
	})

	require.NoError(t, err)
	assert.Len(t, output.Candidates, 6)
}
