// internal/catalog/brandtiers.go
package catalog

import "strings"

// BrandTier is a coarse brand-prestige bucket used to scale review-sentiment
// expectations. Ordered UltraLuxury > Luxury > Premium > MidRange > Economy.
type BrandTier string

const (
	TierUltraLuxury BrandTier = "ultra-luxury"
	TierLuxury      BrandTier = "luxury"
	TierPremium     BrandTier = "premium"
	TierMidRange    BrandTier = "mid-range"
	TierEconomy     BrandTier = "economy"
)

// BrandTierTable maps manufacturers to tiers and tiers to multipliers.
type BrandTierTable struct {
	Manufacturers map[string]BrandTier
	Multipliers   map[BrandTier]float64
}

// TierOf returns the tier for a manufacturer, defaulting to MidRange for
// unknown brands.
func (t BrandTierTable) TierOf(manufacturer string) BrandTier {
	if tier, ok := t.Manufacturers[strings.ToLower(manufacturer)]; ok {
		return tier
	}
	return TierMidRange
}

// Multiplier returns the sentiment multiplier for a manufacturer's tier.
func (t BrandTierTable) Multiplier(manufacturer string) float64 {
	if m, ok := t.Multipliers[t.TierOf(manufacturer)]; ok {
		return m
	}
	return 1.0
}

func defaultBrandTiers() BrandTierTable {
	return BrandTierTable{
		Manufacturers: map[string]BrandTier{
			"rolls-royce":   TierUltraLuxury,
			"bentley":       TierUltraLuxury,
			"ferrari":       TierUltraLuxury,
			"maserati":      TierUltraLuxury,
			"mercedes-benz": TierLuxury,
			"bmw":           TierLuxury,
			"porsche":       TierLuxury,
			"lexus":         TierLuxury,
			"audi":          TierPremium,
			"genesis":       TierPremium,
			"volvo":         TierPremium,
			"land rover":    TierPremium,
			"mini":          TierPremium,
			"hyundai":       TierMidRange,
			"kia":           TierMidRange,
			"toyota":        TierMidRange,
			"honda":         TierMidRange,
			"volkswagen":    TierMidRange,
			"ford":          TierMidRange,
			"mazda":         TierMidRange,
			"nissan":        TierMidRange,
			"chevrolet":     TierEconomy,
			"renault":       TierEconomy,
			"ssangyong":     TierEconomy,
			"fiat":          TierEconomy,
			"mitsubishi":    TierEconomy,
			"suzuki":        TierEconomy,
		},
		Multipliers: map[BrandTier]float64{
			TierUltraLuxury: 1.5,
			TierLuxury:      1.3,
			TierPremium:     1.15,
			TierMidRange:    1.0,
			TierEconomy:     0.9,
		},
	}
}

func defaultTrustedManufacturers() map[string]bool {
	return map[string]bool{
		"toyota":  true,
		"honda":   true,
		"hyundai": true,
		"kia":     true,
		"lexus":   true,
		"mazda":   true,
	}
}

func defaultCategorySentiment() map[string]float64 {
	return map[string]float64{
		"suv":       0.15,
		"sedan":     0.10,
		"hatchback": 0.05,
		"minivan":   0.10,
		"pickup":    0.05,
		"coupe":     0.0,
		"wagon":     0.05,
	}
}
