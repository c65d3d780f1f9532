// internal/catalog/optionweights.go
package catalog

// Equipment tags known to the option analyzer. Unknown tags carry zero
// weight and never penalize a candidate.
func defaultOptionWeights() map[string]map[string]float64 {
	return map[string]map[string]float64{
		"family": {
			"rear_seat_airbags":   10,
			"isofix":              9,
			"blind_spot_warning":  8,
			"rear_camera":         8,
			"lane_keep_assist":    7,
			"parking_sensors":     6,
			"third_row_seats":     6,
			"sliding_doors":       5,
			"sunshades":           3,
			"apple_carplay":       2,
		},
		"commuter": {
			"cruise_control":   9,
			"smart_cruise":     8,
			"heated_seats":     6,
			"apple_carplay":    6,
			"rear_camera":      5,
			"parking_sensors":  5,
			"keyless_entry":    4,
			"auto_headlights":  3,
		},
		"first-timer": {
			"rear_camera":        10,
			"parking_sensors":    9,
			"blind_spot_warning": 7,
			"lane_keep_assist":   6,
			"apple_carplay":      4,
			"keyless_entry":      3,
		},
		"outdoor": {
			"awd":             10,
			"roof_rack":       8,
			"tow_hitch":       8,
			"cargo_cover":     5,
			"heated_seats":    4,
			"all_weather_mats": 4,
			"rear_camera":     3,
		},
		"executive": {
			"leather_seats":    9,
			"ventilated_seats": 8,
			"hud":              7,
			"smart_cruise":     7,
			"premium_audio":    6,
			"sunroof":          5,
			"power_trunk":      4,
			"ambient_lighting": 3,
		},
	}
}
