package weather

import (
	"context"

	"agrodrone/internal/types"
)

// LookupRecorder counts upstream weather calls by source endpoint and outcome.
// Implemented by observability.Metrics.
type LookupRecorder interface {
	RecordWeatherLookup(source string, err error)
}

// InstrumentedProvider wraps a Provider and records every upstream call.
type InstrumentedProvider struct {
	next     Provider
	recorder LookupRecorder
}

// NewInstrumentedProvider decorates next with lookup metrics. A nil recorder
// returns next unwrapped.
func NewInstrumentedProvider(next Provider, recorder LookupRecorder) Provider {
	if recorder == nil {
		return next
	}
	return &InstrumentedProvider{next: next, recorder: recorder}
}

// Current fetches current conditions and records the outcome.
func (p *InstrumentedProvider) Current(ctx context.Context, city string) (*types.WeatherSnapshot, error) {
	snap, err := p.next.Current(ctx, city)
	p.recorder.RecordWeatherLookup("current", err)
	return snap, err
}

// Forecast fetches the forecast list and records the outcome.
func (p *InstrumentedProvider) Forecast(ctx context.Context, city string) ([]types.WeatherSnapshot, error) {
	samples, err := p.next.Forecast(ctx, city)
	p.recorder.RecordWeatherLookup("forecast", err)
	return samples, err
}
