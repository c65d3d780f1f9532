// internal/reviews/postgres.go
package reviews

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"vehicle-recommender/internal/common/logger"
)

// PostgresSource reads aggregate sentiment from the review warehouse.
// Brand/model rows are preferred; category rows are the fallback scope.
type PostgresSource struct {
	db     *sql.DB
	logger logger.Logger
}

func NewPostgresSource(db *sql.DB, log logger.Logger) *PostgresSource {
	return &PostgresSource{
		db:     db,
		logger: log.WithFields(map[string]interface{}{"source": "reviews-postgres"}),
	}
}

func (s *PostgresSource) GetAggregateSentiment(ctx context.Context, manufacturer, model, category string) (Aggregate, error) {
	var agg Aggregate

	row := s.db.QueryRowContext(ctx, `
		SELECT avg_sentiment, review_count
		FROM review_aggregates
		WHERE manufacturer = $1 AND model = $2`,
		strings.ToLower(manufacturer), strings.ToLower(model))

	err := row.Scan(&agg.Baseline, &agg.SampleSize)
	if err == nil {
		return agg, nil
	}
	if err != sql.ErrNoRows {
		return Aggregate{}, fmt.Errorf("review lookup: %w", err)
	}

	// No brand/model data; fall back to the category scope.
	row = s.db.QueryRowContext(ctx, `
		SELECT avg_sentiment, review_count
		FROM review_aggregates
		WHERE manufacturer = '' AND model = '' AND category = $1`,
		strings.ToLower(category))

	err = row.Scan(&agg.Baseline, &agg.SampleSize)
	if err == sql.ErrNoRows {
		return Aggregate{}, nil
	}
	if err != nil {
		return Aggregate{}, fmt.Errorf("review category lookup: %w", err)
	}

	return agg, nil
}
