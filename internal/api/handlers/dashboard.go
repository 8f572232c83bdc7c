package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/jonboulle/clockwork"
	"golang.org/x/sync/errgroup"

	"agrodrone/internal/core"
)

// DashboardLeadStats provides the lead aggregates shown on the dashboard.
type DashboardLeadStats interface {
	CountActive(ctx context.Context) (int, error)
	ActivePotentialValues(ctx context.Context) ([]string, error)
}

// DashboardAppointmentStats provides the appointment aggregates shown on the
// dashboard.
type DashboardAppointmentStats interface {
	CountOnDate(ctx context.Context, date string) (int, error)
}

// DashboardTaskStats provides the task aggregates shown on the dashboard.
type DashboardTaskStats interface {
	CountPending(ctx context.Context) (int, error)
}

// DashboardStats is the response body for GET /v1/dashboard/stats.
type DashboardStats struct {
	AppointmentsToday   int     `json:"appointments_today"`
	PendingTasks        int     `json:"pending_tasks"`
	ActiveLeads         int     `json:"active_leads"`
	TotalPotentialValue float64 `json:"total_potential_value"`
}

// DashboardHandler aggregates cross-entity stats for the dashboard header.
type DashboardHandler struct {
	leads        DashboardLeadStats
	appointments DashboardAppointmentStats
	tasks        DashboardTaskStats
	clock        clockwork.Clock
	logger       *slog.Logger
}

// NewDashboardHandler creates a new DashboardHandler. A nil clock defaults
// to the real clock.
func NewDashboardHandler(
	leads DashboardLeadStats,
	appointments DashboardAppointmentStats,
	tasks DashboardTaskStats,
	clock clockwork.Clock,
	l *slog.Logger,
) *DashboardHandler {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if l == nil {
		l = slog.Default()
	}
	return &DashboardHandler{
		leads:        leads,
		appointments: appointments,
		tasks:        tasks,
		clock:        clock,
		logger:       l,
	}
}

// RegisterRoutes mounts dashboard routes on the provided chi.Router.
func (h *DashboardHandler) RegisterRoutes(r chi.Router) {
	r.Route("/dashboard", func(r chi.Router) {
		r.Get("/stats", h.Stats)
	})
}

// Stats handles GET /v1/dashboard/stats. The four aggregates are independent
// queries, so they run concurrently; the first failure cancels the rest.
func (h *DashboardHandler) Stats(w http.ResponseWriter, r *http.Request) {
	var stats DashboardStats
	today := h.clock.Now().UTC().Format("2006-01-02")

	g, ctx := errgroup.WithContext(r.Context())

	g.Go(func() error {
		count, err := h.appointments.CountOnDate(ctx, today)
		if err != nil {
			return err
		}
		stats.AppointmentsToday = count
		return nil
	})

	g.Go(func() error {
		count, err := h.tasks.CountPending(ctx)
		if err != nil {
			return err
		}
		stats.PendingTasks = count
		return nil
	})

	g.Go(func() error {
		count, err := h.leads.CountActive(ctx)
		if err != nil {
			return err
		}
		stats.ActiveLeads = count
		return nil
	})

	g.Go(func() error {
		values, err := h.leads.ActivePotentialValues(ctx)
		if err != nil {
			return err
		}
		var total float64
		for _, v := range values {
			total += parseCurrency(v)
		}
		stats.TotalPotentialValue = total
		return nil
	})

	if err := g.Wait(); err != nil {
		core.Error(w, r, err)
		return
	}

	core.JSON(w, r, http.StatusOK, core.APIResponse{Data: stats})
}

// parseCurrency extracts a numeric amount from free-form Brazilian currency
// text ("R$ 15.000,50" -> 15000.50). Unparseable values count as zero rather
// than failing the whole aggregate.
func parseCurrency(s string) float64 {
	var b strings.Builder
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == ',' || r == '.' {
			b.WriteRune(r)
		}
	}
	cleaned := b.String()
	if cleaned == "" {
		return 0
	}

	// pt-BR formatting: '.' separates thousands, ',' marks decimals.
	cleaned = strings.ReplaceAll(cleaned, ".", "")
	cleaned = strings.ReplaceAll(cleaned, ",", ".")

	value, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0
	}
	return value
}
