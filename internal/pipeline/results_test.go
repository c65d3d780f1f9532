// internal/pipeline/results_test.go
package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vehicle-recommender/internal/models"
)

func setupResultStore(t *testing.T, ttl time.Duration) (*ResultStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	return NewResultStore(rdb, ttl), mr
}

func TestResultStore_SaveAndLoad(t *testing.T) {
	store, _ := setupResultStore(t, time.Minute)

	saved := &Response{
		RequestID: "req-abc",
		Refined:   true,
		Vehicles: []models.RankedCandidate{
			{Vehicle: models.CandidateVehicle{ID: "veh-1"}, FinalScore: 88},
		},
		Diagnostics: Diagnostics{PersonaID: "family", CandidatesRetrieved: 12},
	}
	require.NoError(t, store.Save(context.Background(), saved))

	loaded, err := store.Load(context.Background(), "req-abc")
	require.NoError(t, err)
	assert.Equal(t, saved.RequestID, loaded.RequestID)
	assert.True(t, loaded.Refined)
	require.Len(t, loaded.Vehicles, 1)
	assert.Equal(t, 88.0, loaded.Vehicles[0].FinalScore)
	assert.Equal(t, "family", loaded.Diagnostics.PersonaID)
}

func TestResultStore_RefinedOverwritesFastResult(t *testing.T) {
	store, _ := setupResultStore(t, time.Minute)

	fast := &Response{RequestID: "req-1", Refined: false}
	require.NoError(t, store.Save(context.Background(), fast))

	refined := &Response{RequestID: "req-1", Refined: true}
	require.NoError(t, store.Save(context.Background(), refined))

	loaded, err := store.Load(context.Background(), "req-1")
	require.NoError(t, err)
	assert.True(t, loaded.Refined)
}

func TestResultStore_MissingIDNotFound(t *testing.T) {
	store, _ := setupResultStore(t, time.Minute)

	_, err := store.Load(context.Background(), "never-saved")
	assert.ErrorIs(t, err, ErrResultNotFound)
}

func TestResultStore_SaveErrorSurfaces(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	store := NewResultStore(rdb, time.Minute)

	resp := &Response{RequestID: "req-x"}
	payload, err := json.Marshal(resp)
	require.NoError(t, err)

	mock.ExpectSet("recommend:result:req-x", payload, time.Minute).
		SetErr(errors.New("redis down"))

	err = store.Save(context.Background(), resp)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "store result req-x")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestResultStore_TTLExpiry(t *testing.T) {
	store, mr := setupResultStore(t, 30*time.Second)

	require.NoError(t, store.Save(context.Background(), &Response{RequestID: "req-2"}))

	mr.FastForward(31 * time.Second)

	_, err := store.Load(context.Background(), "req-2")
	assert.ErrorIs(t, err, ErrResultNotFound)
}
