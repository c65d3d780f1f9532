// internal/catalog/catalog.go
package catalog

import "vehicle-recommender/internal/models"

// Catalog is the versioned static configuration injected into pipeline
// components: persona profiles, detector keyword tables, equipment weight
// tables, brand tiers and sentiment scaling. One value per process.
type Catalog struct {
	Version string

	Personas        map[string]models.PersonaProfile
	PatternKeywords map[string][]string // persona id -> generic intent keywords

	OptionWeights map[string]map[string]float64 // persona id -> equipment tag -> weight

	BrandTiers BrandTierTable

	TrustedManufacturers map[string]bool

	// SentimentSensitivity scales review deltas per persona lens.
	SentimentSensitivity map[string]float64

	// CategorySentiment holds category-level baseline fallbacks used when no
	// brand/model review data exists. Values in [-1, 1].
	CategorySentiment map[string]float64
}

// Persona returns the profile for id, or nil when unknown.
func (c *Catalog) Persona(id string) *models.PersonaProfile {
	if p, ok := c.Personas[id]; ok {
		return &p
	}
	return nil
}

// Sensitivity returns the persona sentiment multiplier, defaulting to 1.0.
func (c *Catalog) Sensitivity(personaID string) float64 {
	if s, ok := c.SentimentSensitivity[personaID]; ok {
		return s
	}
	return 1.0
}

// Default returns the catalog shipped with the service.
func Default() *Catalog {
	return &Catalog{
		Version:              "2026-05",
		Personas:             defaultPersonas(),
		PatternKeywords:      defaultPatternKeywords(),
		OptionWeights:        defaultOptionWeights(),
		BrandTiers:           defaultBrandTiers(),
		TrustedManufacturers: defaultTrustedManufacturers(),
		SentimentSensitivity: defaultSentimentSensitivity(),
		CategorySentiment:    defaultCategorySentiment(),
	}
}
