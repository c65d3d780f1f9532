// internal/stages/detect-persona/config.go
package detectpersona

type Config struct {
	// ConvergenceFloor is the minimum per-detector confidence that counts
	// toward convergence evidence.
	ConvergenceFloor float64
	// ConvergenceBonus multiplies the fused confidence when two or more
	// independent detectors agree above the floor.
	ConvergenceBonus float64
	// MethodWeights biases the fusion mean toward more reliable detectors.
	// Missing methods weigh 1.0.
	MethodWeights map[string]float64
}

func LoadConfig() *Config {
	return &Config{
		ConvergenceFloor: 50,
		ConvergenceBonus: 1.2,
		MethodWeights: map[string]float64{
			MethodKeywordPattern: 1.0,
			MethodBudgetFit:      0.8,
			MethodSituational:    1.2,
		},
	}
}
