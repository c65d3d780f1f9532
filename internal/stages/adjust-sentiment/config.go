// internal/stages/adjust-sentiment/config.go
package adjustsentiment

type Config struct {
	// BaseScale converts a [-1, 1] sentiment baseline into delta points
	// before tier and persona scaling.
	BaseScale float64
	// DeltaBound clamps the final delta to [-DeltaBound, +DeltaBound].
	DeltaBound float64
	// Sample-size thresholds driving the confidence label.
	HighSampleSize   int
	MediumSampleSize int
}

func LoadConfig() *Config {
	return &Config{
		BaseScale:        15,
		DeltaBound:       20,
		HighSampleSize:   10,
		MediumSampleSize: 5,
	}
}
