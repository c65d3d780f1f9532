// internal/catalog/personas.go
package catalog

import "vehicle-recommender/internal/models"

func defaultPersonas() map[string]models.PersonaProfile {
	return map[string]models.PersonaProfile{
		"family": {
			ID:         "family",
			Name:       "Family Driver",
			Priorities: []string{"safety", "space", "comfort", "fuel_economy"},
			Budget:     models.BudgetRange{Min: 1500, Max: 4000},
			SituationalKeywords: []string{
				"kids", "children", "baby", "car seat", "school run",
				"family trip", "stroller", "second row",
			},
		},
		"commuter": {
			ID:         "commuter",
			Name:       "Daily Commuter",
			Priorities: []string{"fuel_economy", "reliability", "convenience", "compact"},
			Budget:     models.BudgetRange{Min: 800, Max: 2500},
			SituationalKeywords: []string{
				"commute", "work", "office", "daily driving", "traffic",
				"highway", "parking downtown",
			},
		},
		"first-timer": {
			ID:         "first-timer",
			Name:       "First-Time Buyer",
			Priorities: []string{"price", "reliability", "safety", "low_maintenance"},
			Budget:     models.BudgetRange{Min: 500, Max: 1800},
			SituationalKeywords: []string{
				"first car", "new driver", "just got my license", "beginner",
				"student", "learner",
			},
		},
		"outdoor": {
			ID:         "outdoor",
			Name:       "Outdoor Enthusiast",
			Priorities: []string{"cargo", "awd", "durability", "towing"},
			Budget:     models.BudgetRange{Min: 1500, Max: 4500},
			SituationalKeywords: []string{
				"camping", "hiking", "fishing", "surfboard", "bike rack",
				"off-road", "trailer", "gear",
			},
		},
		"executive": {
			ID:         "executive",
			Name:       "Executive",
			Priorities: []string{"comfort", "brand", "quietness", "technology"},
			Budget:     models.BudgetRange{Min: 3000, Max: 9000},
			SituationalKeywords: []string{
				"business", "clients", "chauffeur", "image", "long drives",
				"meetings",
			},
		},
	}
}

func defaultPatternKeywords() map[string][]string {
	return map[string][]string{
		"family": {
			"family", "suv", "minivan", "safe", "safety", "spacious", "7 seats",
			"seven seater",
		},
		"commuter": {
			"commuter", "sedan", "hatchback", "hybrid", "economical", "mpg",
			"fuel efficient", "cheap to run",
		},
		"first-timer": {
			"first", "cheap", "affordable", "small", "easy to drive",
			"easy to park", "reliable",
		},
		"outdoor": {
			"4x4", "awd", "pickup", "truck", "roof rack", "cargo", "towing",
			"adventure",
		},
		"executive": {
			"luxury", "premium", "executive", "leather", "quiet", "prestige",
			"german",
		},
	}
}

func defaultSentimentSensitivity() map[string]float64 {
	return map[string]float64{
		"family":      1.1,
		"commuter":    1.0,
		"first-timer": 1.2,
		"outdoor":     0.9,
		"executive":   1.15,
	}
}
