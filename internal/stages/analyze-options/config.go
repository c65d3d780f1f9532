// internal/stages/analyze-options/config.go
package analyzeoptions

type Config struct {
	// MissingCriticalCount is how many of the persona's highest-weight
	// absent tags are reported.
	MissingCriticalCount int
	// HighlightCount caps the reported equipment highlights.
	HighlightCount int
}

func LoadConfig() *Config {
	return &Config{
		MissingCriticalCount: 3,
		HighlightCount:       5,
	}
}
