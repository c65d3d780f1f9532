// internal/stages/rerank-batch/config.go
package rerankbatch

import "time"

type Config struct {
	// BatchSize bounds how many candidates go into one oracle call,
	// respecting the oracle's context limits.
	BatchSize int
	// Workers bounds concurrent oracle batches to respect rate limits.
	// 1 is valid and only affects latency, not results.
	Workers int
	// OracleTimeout caps each oracle call; an expired call takes the
	// fallback path like any other failure.
	OracleTimeout time.Duration
}

func LoadConfig() *Config {
	return &Config{
		BatchSize:     5,
		Workers:       2,
		OracleTimeout: 10 * time.Second,
	}
}
