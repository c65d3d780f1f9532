// internal/stages/retrieve-candidates/config.go
package retrievecandidates

type Config struct {
	// BaselineScore is the retrieval score every in-budget candidate starts
	// with before bonuses.
	BaselineScore float64
	// WidenFactor expands the budget window when the first pass yields fewer
	// than MinViable candidates. Applied once.
	WidenFactor float64
	MinViable   int
}

func LoadConfig() *Config {
	return &Config{
		BaselineScore: 70,
		WidenFactor:   0.3,
		MinViable:     5,
	}
}
