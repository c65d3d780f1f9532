// internal/reviews/source.go
package reviews

import "context"

// Aggregate is the sentiment summary for a brand/model or category.
// Baseline is in [-1, 1]. SampleSize 0 means no data, which is a valid
// response, not a fault.
type Aggregate struct {
	Baseline   float64 `json:"baseline"`
	SampleSize int     `json:"sampleSize"`
}

// Source provides aggregate review sentiment. Implementations return a
// zero-sample Aggregate when no data exists.
type Source interface {
	GetAggregateSentiment(ctx context.Context, manufacturer, model, category string) (Aggregate, error)
}
