package types

import "time"

// WeatherSnapshot is a single weather observation or forecast sample at a
// specific instant and location, normalized from the upstream provider's
// units. Wind arrives in m/s and visibility in meters; downstream decisions
// convert them via the advisory package so every consumer rounds the same way.
//
// A snapshot is immutable once produced; the advisory engine never mutates
// its input.
type WeatherSnapshot struct {
	Timestamp       time.Time `json:"timestamp"`
	TemperatureC    float64   `json:"temperature_c"`
	FeelsLikeC      float64   `json:"feels_like_c"`
	HumidityPct     int       `json:"humidity_percent"`
	WindSpeedMs     float64   `json:"wind_speed_ms"`
	PrecipitationMM float64   `json:"precipitation_mm_per_hour"`
	CloudCoverPct   int       `json:"cloud_cover_percent"`
	VisibilityM     float64   `json:"visibility_meters"`

	// Display-only fields; never used in classification.
	LocationName string `json:"location_name"`
	CountryCode  string `json:"country_code"`
}

// AdvisoryStatus is the qualitative flight/spraying recommendation.
type AdvisoryStatus string

const (
	AdvisoryGood    AdvisoryStatus = "good"
	AdvisoryWarning AdvisoryStatus = "warning"
	AdvisoryBad     AdvisoryStatus = "bad"
	AdvisoryUnknown AdvisoryStatus = "unknown"
)

// SprayBadges are standalone per-field suitability flags shown alongside the
// main classification. They are display-only and never aggregated into the
// advisory status, but they must stay numerically consistent with it (same
// wind and visibility rounding).
type SprayBadges struct {
	WindOK        bool `json:"wind_ok"`
	NoRain        bool `json:"no_rain"`
	HumidityOK    bool `json:"humidity_ok"`
	TemperatureOK bool `json:"temperature_ok"`
}

// FlightAdvisory is the advisory engine's output: a status classification,
// the ordered list of violated-condition descriptions (insertion order equals
// evaluation order), a human-readable summary, and the per-field badges.
// Created fresh per classification call; never persisted or mutated.
type FlightAdvisory struct {
	Status  AdvisoryStatus `json:"status"`
	Reasons []string       `json:"reasons,omitempty"`
	Message string         `json:"message"`
	Badges  SprayBadges    `json:"badges"`

	// Derived display values, rounded with the same rule as the rules above.
	WindSpeedKmh int `json:"wind_speed_kmh"`
	VisibilityKm int `json:"visibility_km"`
}
