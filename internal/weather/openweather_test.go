package weather

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agrodrone/internal/types"
)

const currentBody = `{
	"dt": 1788177600,
	"main": {"temp": 27.3, "feels_like": 29.1, "humidity": 62},
	"wind": {"speed": 1.4},
	"clouds": {"all": 20},
	"rain": {"1h": 0.5},
	"visibility": 10000,
	"name": "São Paulo",
	"sys": {"country": "BR"}
}`

const forecastBody = `{
	"list": [
		{"dt": 1788177600, "main": {"temp": 24.0, "feels_like": 24.5, "humidity": 70}, "wind": {"speed": 2.0}, "clouds": {"all": 40}, "visibility": 9000},
		{"dt": 1788188400, "main": {"temp": 22.1, "feels_like": 22.0, "humidity": 75}, "wind": {"speed": 3.1}, "clouds": {"all": 85}, "rain": {"1h": 1.2}, "visibility": 7000}
	],
	"city": {"name": "São Paulo", "country": "BR"}
}`

func TestOpenWeatherClient_Current(t *testing.T) {
	var gotPath, gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(currentBody))
	}))
	defer srv.Close()

	client := NewOpenWeatherClient(srv.Client(), srv.URL, "test-key")
	snap, err := client.Current(context.Background(), "São Paulo")

	require.NoError(t, err)
	assert.Equal(t, "/weather", gotPath)
	assert.Contains(t, gotQuery, "appid=test-key")
	assert.Contains(t, gotQuery, "units=metric")

	assert.Equal(t, time.Unix(1788177600, 0).UTC(), snap.Timestamp)
	assert.Equal(t, 27.3, snap.TemperatureC)
	assert.Equal(t, 29.1, snap.FeelsLikeC)
	assert.Equal(t, 62, snap.HumidityPct)
	assert.Equal(t, 1.4, snap.WindSpeedMs)
	assert.Equal(t, 0.5, snap.PrecipitationMM)
	assert.Equal(t, 20, snap.CloudCoverPct)
	assert.Equal(t, 10000.0, snap.VisibilityM)
	assert.Equal(t, "São Paulo", snap.LocationName)
	assert.Equal(t, "BR", snap.CountryCode)
}

func TestOpenWeatherClient_Forecast(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/forecast", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(forecastBody))
	}))
	defer srv.Close()

	client := NewOpenWeatherClient(srv.Client(), srv.URL, "test-key")
	samples, err := client.Forecast(context.Background(), "São Paulo")

	require.NoError(t, err)
	require.Len(t, samples, 2)

	// Missing rain block normalizes to zero precipitation.
	assert.Zero(t, samples[0].PrecipitationMM)
	assert.Equal(t, 1.2, samples[1].PrecipitationMM)

	// City metadata is carried onto every sample.
	for _, s := range samples {
		assert.Equal(t, "São Paulo", s.LocationName)
		assert.Equal(t, "BR", s.CountryCode)
	}
}

func TestOpenWeatherClient_UnknownCity_ReturnsNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"cod":"404","message":"city not found"}`))
	}))
	defer srv.Close()

	client := NewOpenWeatherClient(srv.Client(), srv.URL, "test-key")
	_, err := client.Current(context.Background(), "Atlantis")

	var appErr *types.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, types.ErrCodeNotFoundLocation, appErr.Code)
	assert.Contains(t, appErr.Message, "Atlantis")
}

func TestOpenWeatherClient_ServerError_RetriesThenFails(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewOpenWeatherClient(srv.Client(), srv.URL, "test-key")
	client.base.sleepFn = func(time.Duration) {} // no real backoff in tests

	_, err := client.Current(context.Background(), "São Paulo")

	var appErr *types.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, types.ErrCodeUpstreamWeather, appErr.Code)
	assert.Equal(t, 1+DefaultRetryPolicy().MaxRetries, calls)
}

func TestOpenWeatherClient_MalformedBody_ReturnsUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("not json"))
	}))
	defer srv.Close()

	client := NewOpenWeatherClient(srv.Client(), srv.URL, "test-key")
	_, err := client.Forecast(context.Background(), "São Paulo")

	var appErr *types.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, types.ErrCodeUpstreamWeather, appErr.Code)
}
