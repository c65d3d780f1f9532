// internal/pipeline/budget.go
package pipeline

import (
	"regexp"
	"strconv"
	"strings"

	"vehicle-recommender/internal/models"
)

// DefaultBudget is used when no magnitude can be extracted from the text;
// an unparseable budget never fails the request.
var DefaultBudget = models.BudgetRange{Min: 500, Max: 5000}

// The suffix needs a word boundary: "3 kids" is not "3k".
var magnitudePattern = regexp.MustCompile(`(\d[\d,]*(?:\.\d+)?)\s*((?:k|thousand)\b)?`)

// Magnitudes below this are seat counts and door counts, not prices.
const minPlausiblePrice = 100

// ExtractBudget derives a budget window from free text: the largest
// detected magnitude, widened by 20% on both sides. The second return is
// false when the text carries no usable number.
func ExtractBudget(text string) (models.BudgetRange, bool) {
	matches := magnitudePattern.FindAllStringSubmatch(strings.ToLower(text), -1)

	var largest float64
	for _, m := range matches {
		raw := strings.ReplaceAll(m[1], ",", "")
		value, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			continue
		}
		if m[2] != "" {
			value *= 1000
		}
		if value < minPlausiblePrice {
			continue
		}
		if value > largest {
			largest = value
		}
	}

	if largest <= 0 {
		return models.BudgetRange{}, false
	}

	return models.BudgetRange{
		Min: int(largest * 0.8),
		Max: int(largest * 1.2),
	}, true
}
