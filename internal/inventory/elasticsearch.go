// internal/inventory/elasticsearch.go
package inventory

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	commonerrors "vehicle-recommender/internal/common/errors"
	"vehicle-recommender/internal/common/logger"
	"vehicle-recommender/internal/models"

	"github.com/elastic/go-elasticsearch/v8"
)

// ElasticsearchStore serves inventory queries that carry a free-text
// feature component. Price filtering happens server-side like the
// Postgres store; the text query only affects recall, never ordering
// guarantees downstream.
type ElasticsearchStore struct {
	client *elasticsearch.Client
	index  string
	logger logger.Logger
}

func NewElasticsearchStore(client *elasticsearch.Client, index string, log logger.Logger) *ElasticsearchStore {
	return &ElasticsearchStore{
		client: client,
		index:  index,
		logger: log.WithFields(map[string]interface{}{"store": "inventory-elasticsearch"}),
	}
}

func (s *ElasticsearchStore) FindVehicles(ctx context.Context, priceRange models.BudgetRange, filters Filters) ([]models.CandidateVehicle, error) {
	limit := filters.Limit
	if limit <= 0 {
		limit = defaultLimit
	}

	filter := []map[string]interface{}{
		{
			"range": map[string]interface{}{
				"price": map[string]interface{}{
					"gte": priceRange.Min,
					"lte": priceRange.Max,
				},
			},
		},
		{
			"term": map[string]interface{}{"status": "available"},
		},
	}
	if len(filters.Categories) > 0 {
		filter = append(filter, map[string]interface{}{
			"terms": map[string]interface{}{"category": filters.Categories},
		})
	}
	if len(filters.FuelTypes) > 0 {
		filter = append(filter, map[string]interface{}{
			"terms": map[string]interface{}{"fuel_type": filters.FuelTypes},
		})
	}

	boolQuery := map[string]interface{}{"filter": filter}
	if filters.Query != "" {
		boolQuery["must"] = map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":  filters.Query,
				"fields": []string{"description", "equipment", "model"},
			},
		}
	}

	body := map[string]interface{}{
		"size":  limit,
		"query": map[string]interface{}{"bool": boolQuery},
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return nil, fmt.Errorf("encode search body: %w", err)
	}

	res, err := s.client.Search(
		s.client.Search.WithContext(ctx),
		s.client.Search.WithIndex(s.index),
		s.client.Search.WithBody(&buf),
	)
	if err != nil {
		return nil, commonerrors.NewInventoryQueryFailedError(fmt.Errorf("inventory search: %w", err))
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, commonerrors.NewInventoryQueryFailedError(fmt.Errorf("inventory search error: %s", res.Status()))
	}

	var parsed struct {
		Hits struct {
			Hits []struct {
				Source esVehicle `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}

	vehicles := make([]models.CandidateVehicle, 0, len(parsed.Hits.Hits))
	for _, hit := range parsed.Hits.Hits {
		vehicles = append(vehicles, hit.Source.toModel())
	}

	s.logger.Debug("inventory search completed", map[string]interface{}{
		"priceMin": priceRange.Min,
		"priceMax": priceRange.Max,
		"count":    len(vehicles),
	})

	return vehicles, nil
}

type esVehicle struct {
	ID           string   `json:"id"`
	Manufacturer string   `json:"manufacturer"`
	Model        string   `json:"model"`
	Year         int      `json:"year"`
	Price        int      `json:"price"`
	Mileage      int      `json:"mileage"`
	Distance     float64  `json:"distance"`
	FuelType     string   `json:"fuel_type"`
	Category     string   `json:"category"`
	Location     string   `json:"location"`
	Equipment    []string `json:"equipment"`
	ListedAt     string   `json:"listed_at"`
}

func (e esVehicle) toModel() models.CandidateVehicle {
	listedAt, _ := time.Parse(time.RFC3339, e.ListedAt)
	return models.CandidateVehicle{
		ID:           e.ID,
		Manufacturer: e.Manufacturer,
		Model:        e.Model,
		Year:         e.Year,
		Price:        e.Price,
		Mileage:      e.Mileage,
		Distance:     e.Distance,
		FuelType:     e.FuelType,
		Category:     e.Category,
		Location:     e.Location,
		Equipment:    e.Equipment,
		ListedAt:     listedAt,
	}
}
