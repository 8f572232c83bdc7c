package weather

import (
	"context"
	"log/slog"
	"time"

	"github.com/jonboulle/clockwork"

	"agrodrone/internal/types"
)

// defaultTargetHour is assumed when a request names a date but no hour,
// matching the noon default of the original dashboard's hour picker.
const defaultTargetHour = 12

// Target is a requested date and optional hour for a forecast lookup.
// The zero hour is meaningful (midnight), so HourSet distinguishes "hour 0"
// from "no hour given".
type Target struct {
	Date    time.Time
	Hour    int
	HourSet bool
}

// instant resolves the target to a concrete UTC instant for distance
// comparison against forecast sample timestamps.
func (t Target) instant() time.Time {
	hour := defaultTargetHour
	if t.HourSet {
		hour = t.Hour
	}
	d := t.Date.UTC()
	return time.Date(d.Year(), d.Month(), d.Day(), hour, 0, 0, 0, time.UTC)
}

// Service resolves "what will conditions be at time T" requests against the
// provider: current conditions when T is effectively now, otherwise the
// forecast sample closest to T. It holds no state between calls; every
// invocation re-derives its result from a fresh provider fetch.
type Service struct {
	provider Provider
	clock    clockwork.Clock
	logger   *slog.Logger
}

// NewService creates a Service. A nil clock defaults to the real clock and a
// nil logger to slog's default, mirroring how the rest of the app constructs
// services.
func NewService(provider Provider, clock clockwork.Clock, logger *slog.Logger) *Service {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		provider: provider,
		clock:    clock,
		logger:   logger,
	}
}

// Snapshot returns the weather snapshot for the city at the requested target.
//
// A nil target, or a target on the current date whose hour (when set) matches
// the current hour, is answered from the provider's current-conditions
// endpoint without consulting the forecast list. Any other target selects the
// forecast sample whose timestamp has the minimum absolute distance from the
// target instant; ties resolve to the earliest-indexed sample.
//
// An empty forecast list for a non-current target is a provider failure, not
// a silent default.
func (s *Service) Snapshot(ctx context.Context, city string, target *Target) (*types.WeatherSnapshot, error) {
	if s.isCurrent(target) {
		return s.provider.Current(ctx, city)
	}

	samples, err := s.provider.Forecast(ctx, city)
	if err != nil {
		return nil, err
	}
	if len(samples) == 0 {
		return nil, types.NewAppError(
			types.ErrCodeUpstreamWeather,
			"weather provider returned an empty forecast",
			nil,
		)
	}

	want := target.instant()
	best := 0
	bestDiff := absDuration(samples[0].Timestamp.Sub(want))
	for i := 1; i < len(samples); i++ {
		diff := absDuration(samples[i].Timestamp.Sub(want))
		if diff < bestDiff {
			best = i
			bestDiff = diff
		}
	}

	s.logger.DebugContext(ctx, "forecast sample selected",
		"city", city,
		"target", want,
		"sample", samples[best].Timestamp,
		"distance", bestDiff.String(),
	)

	return &samples[best], nil
}

// isCurrent reports whether the target should be answered from current
// conditions rather than the forecast list.
func (s *Service) isCurrent(target *Target) bool {
	if target == nil {
		return true
	}
	now := s.clock.Now().UTC()
	d := target.Date.UTC()
	sameDay := d.Year() == now.Year() && d.Month() == now.Month() && d.Day() == now.Day()
	if !sameDay {
		return false
	}
	return !target.HourSet || target.Hour == now.Hour()
}

func absDuration(d time.Duration) time.Duration {
	if d < 0 {
		return -d
	}
	return d
}
