// internal/inventory/postgres_test.go
package inventory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	commonerrors "vehicle-recommender/internal/common/errors"
	"vehicle-recommender/internal/common/logger"
	"vehicle-recommender/internal/models"
)

var vehicleColumns = []string{
	"id", "manufacturer", "model", "year", "price", "mileage", "distance",
	"fuel_type", "category", "location", "equipment", "listed_at",
}

func setupMockDB(t *testing.T) (*PostgresStore, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewPostgresStore(db, logger.NewTestLogger(t)), mock
}

func TestPostgresStore_FindVehicles(t *testing.T) {
	store, mock := setupMockDB(t)

	listed := time.Date(2026, 5, 10, 0, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows(vehicleColumns).
		AddRow("veh-1", "toyota", "rav4", 2019, 2800, 60000, 12.5,
			"hybrid", "suv", "east", []byte(`["rear_camera","isofix"]`), listed).
		AddRow("veh-2", "honda", "cr-v", 2018, 2500, 80000, 8.0,
			"petrol", "suv", "west", []byte(`[]`), listed)

	mock.ExpectQuery("SELECT id, manufacturer").
		WithArgs(1500, 3000, 50).
		WillReturnRows(rows)

	vehicles, err := store.FindVehicles(context.Background(),
		models.BudgetRange{Min: 1500, Max: 3000}, Filters{Limit: 50})

	require.NoError(t, err)
	require.Len(t, vehicles, 2)
	assert.Equal(t, "veh-1", vehicles[0].ID)
	assert.Equal(t, []string{"rear_camera", "isofix"}, vehicles[0].Equipment)
	assert.True(t, vehicles[0].HasEquipment("isofix"))
	assert.Empty(t, vehicles[1].Equipment)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_FindVehicles_CategoryAndFuelFilters(t *testing.T) {
	store, mock := setupMockDB(t)

	mock.ExpectQuery("AND category = ANY").
		WithArgs(500, 2000, sqlmock.AnyArg(), sqlmock.AnyArg(), 100).
		WillReturnRows(sqlmock.NewRows(vehicleColumns))

	vehicles, err := store.FindVehicles(context.Background(),
		models.BudgetRange{Min: 500, Max: 2000},
		Filters{Categories: []string{"suv", "minivan"}, FuelTypes: []string{"hybrid"}})

	require.NoError(t, err)
	assert.Empty(t, vehicles)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_FindVehicles_MalformedEquipmentIsEmptyNotFatal(t *testing.T) {
	store, mock := setupMockDB(t)

	rows := sqlmock.NewRows(vehicleColumns).
		AddRow("veh-1", "kia", "sorento", 2020, 3000, 40000, 5.0,
			"diesel", "suv", "north", []byte(`not-json`), time.Now())

	mock.ExpectQuery("SELECT id, manufacturer").
		WithArgs(1000, 4000, 100).
		WillReturnRows(rows)

	vehicles, err := store.FindVehicles(context.Background(),
		models.BudgetRange{Min: 1000, Max: 4000}, Filters{})

	require.NoError(t, err)
	require.Len(t, vehicles, 1)
	assert.Empty(t, vehicles[0].Equipment)
}

func TestPostgresStore_FindVehicles_QueryError(t *testing.T) {
	store, mock := setupMockDB(t)

	mock.ExpectQuery("SELECT id, manufacturer").
		WillReturnError(errors.New("connection refused"))

	_, err := store.FindVehicles(context.Background(),
		models.BudgetRange{Min: 1000, Max: 4000}, Filters{})

	require.Error(t, err)
	assert.Equal(t, commonerrors.ErrCodeInventoryQueryFailed, commonerrors.CodeOf(err))
	assert.Contains(t, err.Error(), "Inventory query failed")
}
