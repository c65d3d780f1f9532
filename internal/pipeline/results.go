// internal/pipeline/results.go
package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrResultNotFound is returned when no stored result exists for a
// request id, either because it never existed or its TTL expired.
var ErrResultNotFound = errors.New("RESULT_NOT_FOUND")

// ResultStore persists finished recommendation responses so callers can
// fetch the refined result after the initial reply was already sent.
type ResultStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewResultStore creates a Redis-backed result store. Entries expire
// after ttl.
func NewResultStore(client *redis.Client, ttl time.Duration) *ResultStore {
	return &ResultStore{client: client, ttl: ttl}
}

func resultKey(requestID string) string {
	return fmt.Sprintf("recommend:result:%s", requestID)
}

// Save stores the response under its request id.
func (s *ResultStore) Save(ctx context.Context, resp *Response) error {
	payload, err := json.Marshal(resp)
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}
	if err := s.client.Set(ctx, resultKey(resp.RequestID), payload, s.ttl).Err(); err != nil {
		return fmt.Errorf("store result %s: %w", resp.RequestID, err)
	}
	return nil
}

// Load retrieves a stored response by request id.
func (s *ResultStore) Load(ctx context.Context, requestID string) (*Response, error) {
	payload, err := s.client.Get(ctx, resultKey(requestID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrResultNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load result %s: %w", requestID, err)
	}
	var resp Response
	if err := json.Unmarshal(payload, &resp); err != nil {
		return nil, fmt.Errorf("decode result %s: %w", requestID, err)
	}
	return &resp, nil
}
