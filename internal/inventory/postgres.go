// internal/inventory/postgres.go
package inventory

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	commonerrors "vehicle-recommender/internal/common/errors"
	"vehicle-recommender/internal/common/logger"
	"vehicle-recommender/internal/models"

	"github.com/lib/pq"
)

const defaultLimit = 100

// PostgresStore reads candidate vehicles from the inventory database.
type PostgresStore struct {
	db     *sql.DB
	logger logger.Logger
}

func NewPostgresStore(db *sql.DB, log logger.Logger) *PostgresStore {
	return &PostgresStore{
		db:     db,
		logger: log.WithFields(map[string]interface{}{"store": "inventory-postgres"}),
	}
}

func (s *PostgresStore) FindVehicles(ctx context.Context, priceRange models.BudgetRange, filters Filters) ([]models.CandidateVehicle, error) {
	limit := filters.Limit
	if limit <= 0 {
		limit = defaultLimit
	}

	query := `
		SELECT id, manufacturer, model, year, price, mileage, distance,
		       fuel_type, category, location, equipment, listed_at
		FROM vehicles
		WHERE price BETWEEN $1 AND $2
		  AND status = 'available'`
	args := []interface{}{priceRange.Min, priceRange.Max}

	if len(filters.Categories) > 0 {
		args = append(args, pq.Array(filters.Categories))
		query += fmt.Sprintf(" AND category = ANY($%d)", len(args))
	}
	if len(filters.FuelTypes) > 0 {
		args = append(args, pq.Array(filters.FuelTypes))
		query += fmt.Sprintf(" AND fuel_type = ANY($%d)", len(args))
	}

	args = append(args, limit)
	query += fmt.Sprintf(" ORDER BY listed_at DESC LIMIT $%d", len(args))

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, commonerrors.NewInventoryQueryFailedError(fmt.Errorf("inventory query: %w", err))
	}
	defer rows.Close()

	var vehicles []models.CandidateVehicle
	for rows.Next() {
		var v models.CandidateVehicle
		var equipment []byte
		err := rows.Scan(&v.ID, &v.Manufacturer, &v.Model, &v.Year, &v.Price,
			&v.Mileage, &v.Distance, &v.FuelType, &v.Category, &v.Location,
			&equipment, &v.ListedAt)
		if err != nil {
			return nil, fmt.Errorf("inventory scan: %w", err)
		}
		if err := json.Unmarshal(equipment, &v.Equipment); err != nil {
			v.Equipment = []string{}
		}
		vehicles = append(vehicles, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("inventory rows: %w", err)
	}

	s.logger.Debug("inventory query completed", map[string]interface{}{
		"priceMin": priceRange.Min,
		"priceMax": priceRange.Max,
		"count":    len(vehicles),
	})

	return vehicles, nil
}
