// internal/pipeline/budget_test.go
package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"vehicle-recommender/internal/models"
)

func TestExtractBudget(t *testing.T) {
	tests := []struct {
		name string
		text string
		want models.BudgetRange
		ok   bool
	}{
		{
			name: "plain number",
			text: "family suv under 3000",
			want: models.BudgetRange{Min: 2400, Max: 3600},
			ok:   true,
		},
		{
			name: "thousands separator",
			text: "around 2,500 would be ideal",
			want: models.BudgetRange{Min: 2000, Max: 3000},
			ok:   true,
		},
		{
			name: "k suffix",
			text: "my budget is about 3k",
			want: models.BudgetRange{Min: 2400, Max: 3600},
			ok:   true,
		},
		{
			name: "thousand word",
			text: "up to 2 thousand",
			want: models.BudgetRange{Min: 1600, Max: 2400},
			ok:   true,
		},
		{
			name: "largest magnitude wins",
			text: "a 5 seater for 4000 or less",
			want: models.BudgetRange{Min: 3200, Max: 4800},
			ok:   true,
		},
		{
			name: "word starting with k is not a suffix",
			text: "suv that seats 3 kids, around 2000",
			want: models.BudgetRange{Min: 1600, Max: 2400},
			ok:   true,
		},
		{name: "seat count alone is not a price", text: "a car that seats 3 kids", ok: false},
		{name: "no numbers", text: "something reliable for the family", ok: false},
		{name: "empty text", text: "", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ExtractBudget(tt.text)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestDefaultBudget(t *testing.T) {
	assert.Less(t, DefaultBudget.Min, DefaultBudget.Max)
	assert.Positive(t, DefaultBudget.Min)
}
