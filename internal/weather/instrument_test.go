package weather

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agrodrone/internal/types"
)

type recordedLookup struct {
	source string
	err    error
}

type fakeRecorder struct {
	lookups []recordedLookup
}

func (r *fakeRecorder) RecordWeatherLookup(source string, err error) {
	r.lookups = append(r.lookups, recordedLookup{source: source, err: err})
}

func TestInstrumentedProvider_RecordsOutcomes(t *testing.T) {
	upstream := errors.New("upstream down")
	provider := &mockProvider{
		forecastFn: func(_ context.Context, _ string) ([]types.WeatherSnapshot, error) {
			return nil, upstream
		},
	}
	recorder := &fakeRecorder{}
	instrumented := NewInstrumentedProvider(provider, recorder)

	_, err := instrumented.Current(context.Background(), "Campinas")
	require.NoError(t, err)

	_, err = instrumented.Forecast(context.Background(), "Campinas")
	require.Error(t, err)

	require.Len(t, recorder.lookups, 2)
	assert.Equal(t, "current", recorder.lookups[0].source)
	assert.NoError(t, recorder.lookups[0].err)
	assert.Equal(t, "forecast", recorder.lookups[1].source)
	assert.ErrorIs(t, recorder.lookups[1].err, upstream)
}

func TestNewInstrumentedProvider_NilRecorderPassthrough(t *testing.T) {
	provider := &mockProvider{}
	assert.Equal(t, Provider(provider), NewInstrumentedProvider(provider, nil))
}
