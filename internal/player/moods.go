package player

import "strings"

// moodFeatures maps a mood to recommendation tuning parameters. Only the
// target_* keys are forwarded to the recommendations endpoint; the min/max
// bounds are kept for future filtering.
var moodFeatures = map[string]map[string]float64{
	"happy":     {"target_valence": 0.8, "target_energy": 0.7, "min_valence": 0.6},
	"sad":       {"target_valence": 0.2, "target_energy": 0.3, "max_valence": 0.4},
	"chill":     {"target_energy": 0.3, "target_valence": 0.5, "max_energy": 0.5},
	"energetic": {"target_energy": 0.9, "min_energy": 0.7},
	"focus":     {"target_energy": 0.5, "target_instrumentalness": 0.7, "min_instrumentalness": 0.3},
	"party":     {"target_danceability": 0.9, "target_energy": 0.8, "min_danceability": 0.7},
	"workout":   {"target_energy": 0.9, "target_tempo": 140, "min_energy": 0.7, "min_tempo": 120},
	"sleep":     {"target_energy": 0.2, "target_instrumentalness": 0.5, "max_energy": 0.4},
}

// MoodFeatures returns the recommendation parameters for a mood, or an
// empty map for an unknown one.
func MoodFeatures(mood string) map[string]float64 {
	if features, ok := moodFeatures[strings.ToLower(mood)]; ok {
		return features
	}
	return map[string]float64{}
}
