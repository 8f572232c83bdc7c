package advisory

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agrodrone/internal/types"
)

// clearSkies returns a snapshot that passes every rule and every badge.
func clearSkies() *types.WeatherSnapshot {
	return &types.WeatherSnapshot{
		Timestamp:       time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC),
		TemperatureC:    24.0,
		FeelsLikeC:      25.5,
		HumidityPct:     65,
		WindSpeedMs:     1.0, // 3.6 km/h
		PrecipitationMM: 0,
		CloudCoverPct:   10,
		VisibilityM:     10000, // 10 km
		LocationName:    "Ribeirão Preto",
		CountryCode:     "BR",
	}
}

func TestClassify_NilSnapshot_ReturnsUnknown(t *testing.T) {
	adv := Classify(nil)

	assert.Equal(t, types.AdvisoryUnknown, adv.Status)
	assert.Empty(t, adv.Reasons)
	assert.Equal(t, "loading weather data", adv.Message)
}

func TestClassify_IdealConditions_ReturnsGood(t *testing.T) {
	// Concrete scenario A: wind 1.0 m/s, no rain, 10 km visibility, 10% clouds.
	adv := Classify(clearSkies())

	assert.Equal(t, types.AdvisoryGood, adv.Status)
	assert.Empty(t, adv.Reasons)
	assert.Equal(t, "ideal conditions for flight and spraying", adv.Message)
	assert.Equal(t, 4, adv.WindSpeedKmh) // 3.6 rounds to 4
	assert.Equal(t, 10, adv.VisibilityKm)
}

func TestClassify_SingleViolations_ReturnWarning(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(s *types.WeatherSnapshot)
		reason string
	}{
		{
			name:   "strong wind",
			mutate: func(s *types.WeatherSnapshot) { s.WindSpeedMs = 5.0 }, // 18 km/h
			reason: "wind too strong for spraying",
		},
		{
			name:   "rain",
			mutate: func(s *types.WeatherSnapshot) { s.PrecipitationMM = 0.3 },
			reason: "rain detected",
		},
		{
			name:   "low visibility",
			mutate: func(s *types.WeatherSnapshot) { s.VisibilityM = 2000 },
			reason: "low visibility",
		},
		{
			name:   "overcast",
			mutate: func(s *types.WeatherSnapshot) { s.CloudCoverPct = 90 },
			reason: "sky too overcast",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := clearSkies()
			tt.mutate(s)

			adv := Classify(s)

			assert.Equal(t, types.AdvisoryWarning, adv.Status)
			require.Len(t, adv.Reasons, 1)
			assert.Equal(t, tt.reason, adv.Reasons[0])
			assert.Equal(t, "Attention: "+tt.reason, adv.Message)
		})
	}
}

func TestClassify_TwoViolations_WarningWithOrderedReasons(t *testing.T) {
	// Concrete scenario B: wind 3.0 m/s (10.8 -> 11 km/h, violates), clouds 90%.
	s := clearSkies()
	s.WindSpeedMs = 3.0
	s.CloudCoverPct = 90

	adv := Classify(s)

	assert.Equal(t, types.AdvisoryWarning, adv.Status)
	assert.Equal(t, []string{"wind too strong for spraying", "sky too overcast"}, adv.Reasons)
	assert.Equal(t, "Attention: wind too strong for spraying, sky too overcast", adv.Message)
	assert.Equal(t, 11, adv.WindSpeedKmh)
}

func TestClassify_AllViolations_BadWithEvaluationOrder(t *testing.T) {
	// Concrete scenario C: 20 km/h wind, 2 mm/h rain, 1 km visibility, 95% clouds.
	s := clearSkies()
	s.WindSpeedMs = 20.0 / 3.6
	s.PrecipitationMM = 2
	s.VisibilityM = 1000
	s.CloudCoverPct = 95

	adv := Classify(s)

	assert.Equal(t, types.AdvisoryBad, adv.Status)
	assert.Equal(t, []string{
		"wind too strong for spraying",
		"rain detected",
		"low visibility",
		"sky too overcast",
	}, adv.Reasons)
	assert.Equal(t,
		"Unfavorable conditions: wind too strong for spraying, rain detected, low visibility, sky too overcast",
		adv.Message)
}

func TestClassify_ThreeViolations_ReturnsBad(t *testing.T) {
	s := clearSkies()
	s.WindSpeedMs = 10
	s.PrecipitationMM = 1.2
	s.VisibilityM = 500

	adv := Classify(s)

	assert.Equal(t, types.AdvisoryBad, adv.Status)
	assert.Equal(t, []string{"wind too strong for spraying", "rain detected", "low visibility"}, adv.Reasons)
}

func TestClassify_Idempotent(t *testing.T) {
	s := clearSkies()
	s.WindSpeedMs = 3.0
	s.CloudCoverPct = 85

	first := Classify(s)
	second := Classify(s)

	assert.Equal(t, first, second)
}

func TestClassify_DoesNotMutateSnapshot(t *testing.T) {
	s := clearSkies()
	before := *s

	Classify(s)

	assert.Equal(t, before, *s)
}

func TestClassify_WindBoundary(t *testing.T) {
	// Exactly 6 km/h is still sprayable; the rule fires strictly above.
	s := clearSkies()
	s.WindSpeedMs = 6.0 / 3.6

	adv := Classify(s)

	assert.Equal(t, types.AdvisoryGood, adv.Status)
	assert.Equal(t, 6, adv.WindSpeedKmh)
	assert.True(t, adv.Badges.WindOK)

	// 1.8 m/s is 6.48 km/h which rounds to 6: still OK after rounding.
	s.WindSpeedMs = 1.8
	adv = Classify(s)
	assert.Equal(t, types.AdvisoryGood, adv.Status)
	assert.Equal(t, 6, adv.WindSpeedKmh)

	// 1.9 m/s is 6.84 km/h which rounds to 7: violation.
	s.WindSpeedMs = 1.9
	adv = Classify(s)
	assert.Equal(t, types.AdvisoryWarning, adv.Status)
	assert.Equal(t, 7, adv.WindSpeedKmh)
	assert.False(t, adv.Badges.WindOK)
}

func TestClassify_VisibilityBoundary(t *testing.T) {
	// 2501 m rounds to 3 km: acceptable.
	s := clearSkies()
	s.VisibilityM = 2501

	adv := Classify(s)
	assert.Equal(t, types.AdvisoryGood, adv.Status)
	assert.Equal(t, 3, adv.VisibilityKm)

	// 2400 m rounds to 2 km: violation.
	s.VisibilityM = 2400
	adv = Classify(s)
	assert.Equal(t, types.AdvisoryWarning, adv.Status)
	assert.Equal(t, 2, adv.VisibilityKm)
}

func TestClassify_CloudBoundary(t *testing.T) {
	s := clearSkies()
	s.CloudCoverPct = 80

	adv := Classify(s)
	assert.Equal(t, types.AdvisoryGood, adv.Status)

	s.CloudCoverPct = 81
	adv = Classify(s)
	assert.Equal(t, types.AdvisoryWarning, adv.Status)
}

func TestBadges_ConsistentWithClassifier(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(s *types.WeatherSnapshot)
		want   types.SprayBadges
	}{
		{
			name:   "all green",
			mutate: func(s *types.WeatherSnapshot) {},
			want:   types.SprayBadges{WindOK: true, NoRain: true, HumidityOK: true, TemperatureOK: true},
		},
		{
			name:   "drizzle clears the rain badge",
			mutate: func(s *types.WeatherSnapshot) { s.PrecipitationMM = 0.1 },
			want:   types.SprayBadges{WindOK: true, NoRain: false, HumidityOK: true, TemperatureOK: true},
		},
		{
			name:   "dry air out of humidity band",
			mutate: func(s *types.WeatherSnapshot) { s.HumidityPct = 49 },
			want:   types.SprayBadges{WindOK: true, NoRain: true, HumidityOK: false, TemperatureOK: true},
		},
		{
			name:   "humidity band is inclusive",
			mutate: func(s *types.WeatherSnapshot) { s.HumidityPct = 90 },
			want:   types.SprayBadges{WindOK: true, NoRain: true, HumidityOK: true, TemperatureOK: true},
		},
		{
			name:   "cold morning out of temperature band",
			mutate: func(s *types.WeatherSnapshot) { s.TemperatureC = 9.5 },
			want:   types.SprayBadges{WindOK: true, NoRain: true, HumidityOK: true, TemperatureOK: false},
		},
		{
			name:   "temperature band is inclusive",
			mutate: func(s *types.WeatherSnapshot) { s.TemperatureC = 35 },
			want:   types.SprayBadges{WindOK: true, NoRain: true, HumidityOK: true, TemperatureOK: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := clearSkies()
			tt.mutate(s)

			adv := Classify(s)

			assert.Equal(t, tt.want, adv.Badges)
		})
	}
}

func TestWindSpeedKmh(t *testing.T) {
	assert.Equal(t, 4, WindSpeedKmh(1.0))   // 3.6
	assert.Equal(t, 11, WindSpeedKmh(3.0))  // 10.8
	assert.Equal(t, 0, WindSpeedKmh(0))
	assert.Equal(t, 18, WindSpeedKmh(5.0)) // 18.0 exact
	assert.Equal(t, 8, WindSpeedKmh(2.36)) // 8.496 rounds down
}

func TestVisibilityKm(t *testing.T) {
	assert.Equal(t, 10, VisibilityKm(10000))
	assert.Equal(t, 3, VisibilityKm(2500)) // half rounds up
	assert.Equal(t, 2, VisibilityKm(2499))
	assert.Equal(t, 0, VisibilityKm(0))
}
