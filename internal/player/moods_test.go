package player

import "testing"

// ------------------------------------------------------------------------------------------------------
func TestMoodFeaturesKnownMoods(t *testing.T) {
	for _, mood := range []string{"happy", "sad", "chill", "energetic", "focus", "party", "workout", "sleep"} {
		features := MoodFeatures(mood)
		if len(features) == 0 {
			t.Errorf("expected features for mood %q", mood)
		}
	}
}

// ------------------------------------------------------------------------------------------------------
func TestMoodFeaturesCaseInsensitive(t *testing.T) {
	features := MoodFeatures("HAPPY")
	if features["target_valence"] != 0.8 {
		t.Errorf("expected target_valence 0.8, got %v", features["target_valence"])
	}
}

// ------------------------------------------------------------------------------------------------------
func TestMoodFeaturesUnknownMood(t *testing.T) {
	features := MoodFeatures("melancholic-jazz")
	if len(features) != 0 {
		t.Errorf("expected empty features for unknown mood, got %v", features)
	}
}
