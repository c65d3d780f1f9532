// internal/stages/aggregate-scores/handler_test.go
package aggregatescores

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vehicle-recommender/internal/common/logger"
	"vehicle-recommender/internal/models"
)

func candidate(id string, rerank, retrieval float64) models.RankedCandidate {
	return models.RankedCandidate{
		Vehicle:        models.CandidateVehicle{ID: id},
		RerankScore:    rerank,
		RetrievalScore: retrieval,
	}
}

func newTestHandler(t *testing.T) *Handler {
	t.Helper()
	return NewHandler(LoadConfig(), logger.NewTestLogger(t))
}

func TestHandler_Execute_OrdersByFinalScore(t *testing.T) {
	handler := newTestHandler(t)

	output, err := handler.Execute(context.Background(), &Input{
		Candidates: []models.RankedCandidate{
			candidate("low", 40, 70),
			candidate("high", 95, 70),
			candidate("mid", 60, 70),
		},
	})

	require.NoError(t, err)
	require.Len(t, output.Candidates, 3)
	assert.Equal(t, "high", output.Candidates[0].Vehicle.ID)
	assert.Equal(t, "mid", output.Candidates[1].Vehicle.ID)
	assert.Equal(t, "low", output.Candidates[2].Vehicle.ID)
	for _, c := range output.Candidates {
		assert.Equal(t, c.RerankScore, c.FinalScore)
	}
}

func TestHandler_Execute_TieBreaks(t *testing.T) {
	handler := newTestHandler(t)

	output, err := handler.Execute(context.Background(), &Input{
		Candidates: []models.RankedCandidate{
			candidate("b", 80, 60),
			candidate("a", 80, 60),
			candidate("c", 80, 75),
		},
	})

	require.NoError(t, err)
	require.Len(t, output.Candidates, 3)
	// Equal final scores: higher retrieval score first, then id.
	assert.Equal(t, "c", output.Candidates[0].Vehicle.ID)
	assert.Equal(t, "a", output.Candidates[1].Vehicle.ID)
	assert.Equal(t, "b", output.Candidates[2].Vehicle.ID)
}

func TestHandler_Execute_ClampsFinalScore(t *testing.T) {
	handler := newTestHandler(t)

	output, err := handler.Execute(context.Background(), &Input{
		Candidates: []models.RankedCandidate{
			candidate("over", 130, 60),
			candidate("under", -5, 60),
		},
	})

	require.NoError(t, err)
	assert.Equal(t, 100.0, output.Candidates[0].FinalScore)
	assert.Equal(t, 0.0, output.Candidates[1].FinalScore)
}

func TestHandler_Execute_TruncatesToOutputSize(t *testing.T) {
	handler := newTestHandler(t)

	var candidates []models.RankedCandidate
	for i := 0; i < 30; i++ {
		candidates = append(candidates, candidate(fmt.Sprintf("veh-%02d", i), float64(i), 50))
	}

	output, err := handler.Execute(context.Background(), &Input{Candidates: candidates})

	require.NoError(t, err)
	assert.Len(t, output.Candidates, LoadConfig().OutputSize)
	// Highest scores survive the cut.
	assert.Equal(t, "veh-29", output.Candidates[0].Vehicle.ID)
}

func TestHandler_Execute_ExplicitLimitWins(t *testing.T) {
	handler := newTestHandler(t)

	var candidates []models.RankedCandidate
	for i := 0; i < 10; i++ {
		candidates = append(candidates, candidate(fmt.Sprintf("veh-%02d", i), float64(i), 50))
	}

	output, err := handler.Execute(context.Background(), &Input{Candidates: candidates, Limit: 3})

	require.NoError(t, err)
	assert.Len(t, output.Candidates, 3)
}

func TestHandler_Execute_DoesNotMutateInput(t *testing.T) {
	handler := newTestHandler(t)

	input := &Input{Candidates: []models.RankedCandidate{
		candidate("b", 50, 60),
		candidate("a", 90, 60),
	}}

	_, err := handler.Execute(context.Background(), input)

	require.NoError(t, err)
	assert.Equal(t, "b", input.Candidates[0].Vehicle.ID)
	assert.Zero(t, input.Candidates[0].FinalScore)
}
