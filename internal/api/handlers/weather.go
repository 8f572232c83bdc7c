package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"agrodrone/internal/advisory"
	"agrodrone/internal/core"
	"agrodrone/internal/types"
	"agrodrone/internal/weather"
)

// SnapshotProvider resolves a city and optional target date/hour to the
// weather snapshot the advisory should be computed from. Mirrors the
// concrete weather.Service.
type SnapshotProvider interface {
	Snapshot(ctx context.Context, city string, target *weather.Target) (*types.WeatherSnapshot, error)
}

// AdvisoryResponse pairs the snapshot the advisory was derived from with the
// classification itself, so clients can render both.
type AdvisoryResponse struct {
	City     string                 `json:"city"`
	Snapshot *types.WeatherSnapshot `json:"snapshot"`
	Advisory types.FlightAdvisory   `json:"advisory"`
}

// WeatherHandler serves flight-condition advisories.
type WeatherHandler struct {
	provider    SnapshotProvider
	defaultCity string
	logger      *slog.Logger
}

// NewWeatherHandler creates a new WeatherHandler. defaultCity is used when a
// request names no city.
func NewWeatherHandler(provider SnapshotProvider, defaultCity string, l *slog.Logger) *WeatherHandler {
	if l == nil {
		l = slog.Default()
	}
	return &WeatherHandler{
		provider:    provider,
		defaultCity: defaultCity,
		logger:      l,
	}
}

// RegisterRoutes mounts weather routes on the provided chi.Router.
func (h *WeatherHandler) RegisterRoutes(r chi.Router) {
	r.Route("/weather", func(r chi.Router) {
		r.Get("/advisory", h.Advisory)
	})
}

// Advisory handles GET /v1/weather/advisory?city=&date=YYYY-MM-DD&hour=HH.
//
// With no date the advisory reflects current conditions. With a date (and
// optional hour) it reflects the forecast sample nearest the target instant.
// Every advisory is derived from a fresh provider fetch within this request;
// no weather state is held between requests.
func (h *WeatherHandler) Advisory(w http.ResponseWriter, r *http.Request) {
	city := r.URL.Query().Get("city")
	if city == "" {
		city = h.defaultCity
	}

	target, err := parseTarget(r.URL.Query().Get("date"), r.URL.Query().Get("hour"))
	if err != nil {
		core.Error(w, r, err)
		return
	}

	snapshot, err := h.provider.Snapshot(r.Context(), city, target)
	if err != nil {
		core.Error(w, r, err)
		return
	}

	result := advisory.Classify(snapshot)

	h.logger.InfoContext(r.Context(), "advisory computed",
		"city", city,
		"status", result.Status,
		"reasons", len(result.Reasons),
	)

	core.JSON(w, r, http.StatusOK, core.APIResponse{Data: AdvisoryResponse{
		City:     city,
		Snapshot: snapshot,
		Advisory: result,
	}})
}

// parseTarget builds the forecast target from the raw query parameters.
// An empty date means "now" (nil target). An hour without a date is invalid
// by omission of the date, so it is rejected the same way as a bad date.
func parseTarget(rawDate, rawHour string) (*weather.Target, error) {
	if rawDate == "" {
		if rawHour != "" {
			return nil, types.NewAppError(
				types.ErrCodeValidationInvalidDate,
				"hour requires a date in YYYY-MM-DD format",
				nil,
			)
		}
		return nil, nil
	}

	date, err := time.Parse("2006-01-02", rawDate)
	if err != nil {
		return nil, types.NewAppError(
			types.ErrCodeValidationInvalidDate,
			"date must be in YYYY-MM-DD format",
			err,
		)
	}

	target := &weather.Target{Date: date}

	if rawHour != "" {
		hour, err := strconv.Atoi(rawHour)
		if err != nil || hour < 0 || hour > 23 {
			return nil, types.NewAppError(
				types.ErrCodeValidationInvalidHour,
				"hour must be an integer between 0 and 23",
				err,
			)
		}
		target.Hour = hour
		target.HourSet = true
	}

	return target, nil
}
