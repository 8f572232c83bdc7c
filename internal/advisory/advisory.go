// Package advisory implements the flight-condition advisory engine for
// agricultural drone operations. It turns a normalized weather snapshot into
// a deterministic go/no-go recommendation for flight and spraying.
//
// The engine is a pure function over its input: no caching, no retries, no
// hidden state. Staleness is the caller's responsibility.
package advisory

import (
	"strings"

	"agrodrone/internal/types"
)

// Operational thresholds for spraying flights.
const (
	// MaxSprayWindKmh is the strongest wind (km/h, rounded) at which
	// spraying remains effective; drift ruins coverage above it.
	MaxSprayWindKmh = 6

	// MinVisibilityKm is the minimum rounded visibility for visual line
	// of sight operation.
	MinVisibilityKm = 3

	// MaxCloudCoverPct is the cloud cover ceiling before light conditions
	// degrade imaging and pilot visibility.
	MaxCloudCoverPct = 80

	// Humidity and temperature bands for the spray suitability badges.
	MinSprayHumidityPct = 50
	MaxSprayHumidityPct = 90
	MinSprayTempC       = 10.0
	MaxSprayTempC       = 35.0
)

// Advisory messages.
const (
	msgGood       = "ideal conditions for flight and spraying"
	msgUnknown    = "loading weather data"
	warningPrefix = "Attention: "
	badPrefix     = "Unfavorable conditions: "
)

// derived holds the snapshot values after unit conversion, computed once so
// every rule and badge sees identical numbers.
type derived struct {
	windKmh      int
	visibilityKm int
	precipMM     float64
	cloudPct     int
	humidityPct  int
	tempC        float64
}

// rule pairs a violation predicate with its human-readable reason. Rules are
// evaluated in order and all of them run; none short-circuits another. The
// order of this table is a contract: reasons appear in advisories exactly in
// this sequence.
type rule struct {
	reason   string
	violated func(d derived) bool
}

var rules = []rule{
	{"wind too strong for spraying", func(d derived) bool { return d.windKmh > MaxSprayWindKmh }},
	{"rain detected", func(d derived) bool { return d.precipMM > 0 }},
	{"low visibility", func(d derived) bool { return d.visibilityKm < MinVisibilityKm }},
	{"sky too overcast", func(d derived) bool { return d.cloudPct > MaxCloudCoverPct }},
}

// Classify evaluates a weather snapshot against the spraying rule table and
// returns a fresh FlightAdvisory. It is total over any well-formed snapshot;
// a nil snapshot yields AdvisoryUnknown, the "not yet fetched" placeholder.
func Classify(s *types.WeatherSnapshot) types.FlightAdvisory {
	if s == nil {
		return types.FlightAdvisory{
			Status:  types.AdvisoryUnknown,
			Message: msgUnknown,
		}
	}

	d := derive(s)

	var reasons []string
	for _, r := range rules {
		if r.violated(d) {
			reasons = append(reasons, r.reason)
		}
	}

	adv := types.FlightAdvisory{
		Reasons:      reasons,
		Badges:       badges(d),
		WindSpeedKmh: d.windKmh,
		VisibilityKm: d.visibilityKm,
	}

	switch n := len(reasons); {
	case n == 0:
		adv.Status = types.AdvisoryGood
		adv.Message = msgGood
	case n <= 2:
		adv.Status = types.AdvisoryWarning
		adv.Message = warningPrefix + strings.Join(reasons, ", ")
	default:
		adv.Status = types.AdvisoryBad
		adv.Message = badPrefix + strings.Join(reasons, ", ")
	}

	return adv
}

// derive converts the snapshot into the units the rules operate on.
func derive(s *types.WeatherSnapshot) derived {
	return derived{
		windKmh:      WindSpeedKmh(s.WindSpeedMs),
		visibilityKm: VisibilityKm(s.VisibilityM),
		precipMM:     s.PrecipitationMM,
		cloudPct:     s.CloudCoverPct,
		humidityPct:  s.HumidityPct,
		tempC:        s.TemperatureC,
	}
}

// badges computes the standalone per-field suitability flags. They share the
// derived values with the rule table, which guarantees the wind badge and the
// wind rule can never disagree about the rounded speed.
func badges(d derived) types.SprayBadges {
	return types.SprayBadges{
		WindOK:        d.windKmh <= MaxSprayWindKmh,
		NoRain:        d.precipMM == 0,
		HumidityOK:    d.humidityPct >= MinSprayHumidityPct && d.humidityPct <= MaxSprayHumidityPct,
		TemperatureOK: d.tempC >= MinSprayTempC && d.tempC <= MaxSprayTempC,
	}
}
