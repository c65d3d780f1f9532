// internal/stages/analyze-options/handler_test.go
package analyzeoptions

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vehicle-recommender/internal/catalog"
	"vehicle-recommender/internal/common/logger"
)

func newTestHandler(t *testing.T) *Handler {
	t.Helper()
	return NewHandler(LoadConfig(), catalog.Default(), logger.NewTestLogger(t))
}

func TestHandler_Execute(t *testing.T) {
	tests := []struct {
		name           string
		personaID      string
		equipment      []string
		wantValue      float64
		wantRecommend  OptionRecommendation
		validateOutput func(t *testing.T, output *Output)
	}{
		{
			name:      "fully equipped for persona",
			personaID: "first-timer",
			equipment: []string{
				"rear_camera", "parking_sensors", "blind_spot_warning",
				"lane_keep_assist", "apple_carplay", "keyless_entry",
			},
			wantValue:     100,
			wantRecommend: RecommendationExcellent,
			validateOutput: func(t *testing.T, output *Output) {
				assert.Empty(t, output.MissingCritical)
				assert.Len(t, output.Highlights, 5) // capped
			},
		},
		{
			name:          "bare vehicle",
			personaID:     "first-timer",
			equipment:     nil,
			wantValue:     0,
			wantRecommend: RecommendationPoor,
			validateOutput: func(t *testing.T, output *Output) {
				assert.Empty(t, output.Highlights)
				// Top three weights absent: camera 10, sensors 9, blind spot 7.
				assert.Equal(t, []string{"rear_camera", "parking_sensors", "blind_spot_warning"}, output.MissingCritical)
			},
		},
		{
			name:      "partial coverage",
			personaID: "first-timer",
			// 10 + 9 of a 39-point table.
			equipment:     []string{"rear_camera", "parking_sensors"},
			wantValue:     float64(10+9) / 39 * 100,
			wantRecommend: RecommendationPoor,
			validateOutput: func(t *testing.T, output *Output) {
				assert.Equal(t, []string{"rear_camera", "parking_sensors"}, output.Highlights)
			},
		},
		{
			name:      "unknown tags carry no weight",
			personaID: "first-timer",
			equipment: []string{
				"rear_camera", "parking_sensors",
				"chrome_rims", "neon_underglow",
			},
			wantValue:     float64(10+9) / 39 * 100,
			wantRecommend: RecommendationPoor,
		},
		{
			name:          "no weight table falls back to neutral",
			personaID:     "unknown-persona",
			equipment:     []string{"rear_camera"},
			wantValue:     50,
			wantRecommend: RecommendationAverage,
			validateOutput: func(t *testing.T, output *Output) {
				assert.Empty(t, output.Highlights)
				assert.Empty(t, output.MissingCritical)
			},
		},
		{
			name:          "empty persona id falls back to neutral",
			personaID:     "",
			equipment:     []string{"rear_camera"},
			wantValue:     50,
			wantRecommend: RecommendationAverage,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := newTestHandler(t)

			output, err := handler.Execute(context.Background(), &Input{
				Equipment: tt.equipment,
				PersonaID: tt.personaID,
			})

			require.NoError(t, err)
			require.NotNil(t, output)
			assert.InDelta(t, tt.wantValue, output.TotalOptionValue, 0.001)
			assert.Equal(t, tt.wantRecommend, output.Recommendation)
			if tt.validateOutput != nil {
				tt.validateOutput(t, output)
			}
		})
	}
}

func TestHandler_Execute_AdvisoryWeightBlendsTowardNeutral(t *testing.T) {
	handler := newTestHandler(t)

	full, err := handler.Execute(context.Background(), &Input{
		Equipment: []string{"rear_camera", "parking_sensors"},
		PersonaID: "first-timer",
	})
	require.NoError(t, err)

	half, err := handler.Execute(context.Background(), &Input{
		Equipment:     []string{"rear_camera", "parking_sensors"},
		PersonaID:     "first-timer",
		PersonaWeight: 0.5,
	})
	require.NoError(t, err)

	// Half-strength personalization lands halfway between the full value
	// and neutral 50.
	assert.InDelta(t, 50+0.5*(full.TotalOptionValue-50), half.TotalOptionValue, 0.001)
	// The highlight and missing lists still describe the equipment itself.
	assert.Equal(t, full.Highlights, half.Highlights)
	assert.Equal(t, full.MissingCritical, half.MissingCritical)
}

func TestHandler_Execute_Deterministic(t *testing.T) {
	handler := newTestHandler(t)

	input := &Input{
		Equipment: []string{"awd", "roof_rack", "rear_camera"},
		PersonaID: "outdoor",
	}

	first, err := handler.Execute(context.Background(), input)
	require.NoError(t, err)

	for i := 0; i < 10; i++ {
		again, err := handler.Execute(context.Background(), input)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}
