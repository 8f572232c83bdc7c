package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"agrodrone/internal/types"
)

// Provider abstracts the upstream weather data source. Locations are
// free-text city names; country/region disambiguation is not handled here.
type Provider interface {
	// Current returns the current-conditions snapshot for a city.
	Current(ctx context.Context, city string) (*types.WeatherSnapshot, error)
	// Forecast returns the ordered sequence of future snapshots for a city,
	// typically spanning several days at fixed time steps.
	Forecast(ctx context.Context, city string) ([]types.WeatherSnapshot, error)
}

// OpenWeatherClient implements Provider against the OpenWeatherMap v2.5 API
// (current weather + 5-day/3-hour forecast), requesting metric units.
type OpenWeatherClient struct {
	base    *baseClient
	baseURL string
	apiKey  string
}

// NewOpenWeatherClient builds a provider client. baseURL should point at the
// API root (e.g. "https://api.openweathermap.org/data/2.5") without a
// trailing slash.
func NewOpenWeatherClient(httpClient *http.Client, baseURL, apiKey string) *OpenWeatherClient {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &OpenWeatherClient{
		base:    newBaseClient(httpClient, "openweather", DefaultRetryPolicy(), "agrodrone-crm/1.0"),
		baseURL: baseURL,
		apiKey:  apiKey,
	}
}

// --- Wire types ---
//
// These mirror the subset of the OpenWeatherMap payload the CRM consumes.
// Fields the dashboard never reads (pressure, wind direction, icons) are
// intentionally not decoded.

type owMain struct {
	Temp      float64 `json:"temp"`
	FeelsLike float64 `json:"feels_like"`
	Humidity  int     `json:"humidity"`
}

type owWind struct {
	Speed float64 `json:"speed"` // m/s in metric mode
}

type owClouds struct {
	All int `json:"all"`
}

type owRain struct {
	OneHour float64 `json:"1h"`
}

type owEntry struct {
	Dt         int64    `json:"dt"`
	Main       owMain   `json:"main"`
	Wind       owWind   `json:"wind"`
	Clouds     owClouds `json:"clouds"`
	Rain       *owRain  `json:"rain,omitempty"`
	Visibility float64  `json:"visibility"`
}

type owCurrentResponse struct {
	owEntry
	Name string `json:"name"`
	Sys  struct {
		Country string `json:"country"`
	} `json:"sys"`
}

type owForecastResponse struct {
	List []owEntry `json:"list"`
	City struct {
		Name    string `json:"name"`
		Country string `json:"country"`
	} `json:"city"`
}

// snapshot normalizes a wire entry into the domain type. A missing rain
// block means no precipitation.
func (e owEntry) snapshot(name, country string) types.WeatherSnapshot {
	s := types.WeatherSnapshot{
		Timestamp:     time.Unix(e.Dt, 0).UTC(),
		TemperatureC:  e.Main.Temp,
		FeelsLikeC:    e.Main.FeelsLike,
		HumidityPct:   e.Main.Humidity,
		WindSpeedMs:   e.Wind.Speed,
		CloudCoverPct: e.Clouds.All,
		VisibilityM:   e.Visibility,
		LocationName:  name,
		CountryCode:   country,
	}
	if e.Rain != nil {
		s.PrecipitationMM = e.Rain.OneHour
	}
	return s
}

// Current implements Provider.
func (c *OpenWeatherClient) Current(ctx context.Context, city string) (*types.WeatherSnapshot, error) {
	var out owCurrentResponse
	if err := c.get(ctx, "/weather", city, &out); err != nil {
		return nil, err
	}
	s := out.snapshot(out.Name, out.Sys.Country)
	return &s, nil
}

// Forecast implements Provider.
func (c *OpenWeatherClient) Forecast(ctx context.Context, city string) ([]types.WeatherSnapshot, error) {
	var out owForecastResponse
	if err := c.get(ctx, "/forecast", city, &out); err != nil {
		return nil, err
	}

	snapshots := make([]types.WeatherSnapshot, 0, len(out.List))
	for _, entry := range out.List {
		snapshots = append(snapshots, entry.snapshot(out.City.Name, out.City.Country))
	}
	return snapshots, nil
}

// get performs a provider request and decodes the JSON body into dst.
// A 404 means the city name could not be resolved.
func (c *OpenWeatherClient) get(ctx context.Context, path, city string, dst any) error {
	q := url.Values{}
	q.Set("q", city)
	q.Set("appid", c.apiKey)
	q.Set("units", "metric")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+q.Encode(), nil)
	if err != nil {
		return types.NewAppError(types.ErrCodeInternalUnexpected, "building weather request", err)
	}

	resp, err := c.base.do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return types.NewAppError(
			types.ErrCodeNotFoundLocation,
			fmt.Sprintf("unknown location %q", city),
			nil,
		)
	case resp.StatusCode != http.StatusOK:
		return types.NewAppError(
			types.ErrCodeUpstreamWeather,
			fmt.Sprintf("weather provider returned %d", resp.StatusCode),
			nil,
		)
	}

	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return types.NewAppError(types.ErrCodeUpstreamWeather, "decoding weather response", err)
	}
	return nil
}
