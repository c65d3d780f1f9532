// internal/stages/aggregate-scores/config.go
package aggregatescores

type Config struct {
	// OutputSize truncates the final ranked list.
	OutputSize int
}

func LoadConfig() *Config {
	return &Config{
		OutputSize: 15,
	}
}
