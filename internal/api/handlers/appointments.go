package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"agrodrone/internal/core"
	"agrodrone/internal/types"
)

// AppointmentRepo defines the data access contract for appointment
// operations. Mirrors the concrete db.AppointmentRepository methods used by
// this handler.
type AppointmentRepo interface {
	Create(ctx context.Context, apt *types.Appointment) error
	GetByID(ctx context.Context, id string) (*types.Appointment, error)
	Update(ctx context.Context, apt *types.Appointment) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]*types.Appointment, error)
}

// CreateAppointmentRequest is the request body for POST /v1/appointments.
type CreateAppointmentRequest struct {
	ClientName  string `json:"client_name" validate:"required,max=200"`
	ServiceType string `json:"service_type" validate:"required,max=100"`
	Date        string `json:"date" validate:"required,date_ymd"`
	Time        string `json:"time" validate:"required,time_hm"`
	Status      string `json:"status,omitempty" validate:"max=50"`
	Notes       string `json:"notes,omitempty" validate:"max=2000"`
}

// UpdateAppointmentRequest is the request body for PATCH /v1/appointments/{id}.
type UpdateAppointmentRequest struct {
	ClientName  *string `json:"client_name,omitempty" validate:"omitempty,min=1,max=200"`
	ServiceType *string `json:"service_type,omitempty" validate:"omitempty,min=1,max=100"`
	Date        *string `json:"date,omitempty" validate:"omitempty,date_ymd"`
	Time        *string `json:"time,omitempty" validate:"omitempty,time_hm"`
	Status      *string `json:"status,omitempty" validate:"omitempty,max=50"`
	Notes       *string `json:"notes,omitempty" validate:"omitempty,max=2000"`
}

// AppointmentHandler manages appointment CRUD operations.
type AppointmentHandler struct {
	repo      AppointmentRepo
	validator *core.Validator
	logger    *slog.Logger
}

// NewAppointmentHandler creates a new AppointmentHandler with the provided
// dependencies.
func NewAppointmentHandler(repo AppointmentRepo, v *core.Validator, l *slog.Logger) *AppointmentHandler {
	if l == nil {
		l = slog.Default()
	}
	return &AppointmentHandler{
		repo:      repo,
		validator: v,
		logger:    l,
	}
}

// RegisterRoutes mounts appointment routes on the provided chi.Router.
func (h *AppointmentHandler) RegisterRoutes(r chi.Router) {
	r.Route("/appointments", func(r chi.Router) {
		r.Post("/", h.Create)
		r.Get("/", h.List)

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.Get)
			r.Patch("/", h.Update)
			r.Delete("/", h.Delete)
		})
	})
}

// Create handles POST /v1/appointments.
func (h *AppointmentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateAppointmentRequest
	if err := core.DecodeJSON(w, r, &req); err != nil {
		core.Error(w, r, err)
		return
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		core.Error(w, r, err)
		return
	}

	status := req.Status
	if status == "" {
		status = "scheduled"
	}

	now := time.Now().UTC()
	apt := &types.Appointment{
		ID:          "apt_" + uuid.New().String(),
		ClientName:  req.ClientName,
		ServiceType: req.ServiceType,
		Date:        req.Date,
		Time:        req.Time,
		Status:      status,
		Notes:       req.Notes,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := h.repo.Create(r.Context(), apt); err != nil {
		core.Error(w, r, err)
		return
	}

	h.logger.InfoContext(r.Context(), "appointment created",
		"appointment_id", apt.ID,
		"date", apt.Date,
		"service_type", apt.ServiceType,
	)
	core.JSON(w, r, http.StatusCreated, core.APIResponse{Data: apt})
}

// Get handles GET /v1/appointments/{id}.
func (h *AppointmentHandler) Get(w http.ResponseWriter, r *http.Request) {
	apt, err := h.repo.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		core.Error(w, r, err)
		return
	}
	core.JSON(w, r, http.StatusOK, core.APIResponse{Data: apt})
}

// List handles GET /v1/appointments. Results are newest-first.
func (h *AppointmentHandler) List(w http.ResponseWriter, r *http.Request) {
	apts, err := h.repo.List(r.Context())
	if err != nil {
		core.Error(w, r, err)
		return
	}
	if apts == nil {
		apts = []*types.Appointment{}
	}
	core.JSON(w, r, http.StatusOK, core.APIResponse{Data: apts})
}

// Update handles PATCH /v1/appointments/{id}.
func (h *AppointmentHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req UpdateAppointmentRequest
	if err := core.DecodeJSON(w, r, &req); err != nil {
		core.Error(w, r, err)
		return
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		core.Error(w, r, err)
		return
	}

	apt, err := h.repo.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		core.Error(w, r, err)
		return
	}

	if req.ClientName != nil {
		apt.ClientName = *req.ClientName
	}
	if req.ServiceType != nil {
		apt.ServiceType = *req.ServiceType
	}
	if req.Date != nil {
		apt.Date = *req.Date
	}
	if req.Time != nil {
		apt.Time = *req.Time
	}
	if req.Status != nil {
		apt.Status = *req.Status
	}
	if req.Notes != nil {
		apt.Notes = *req.Notes
	}

	if err := h.repo.Update(r.Context(), apt); err != nil {
		core.Error(w, r, err)
		return
	}

	core.JSON(w, r, http.StatusOK, core.APIResponse{Data: apt})
}

// Delete handles DELETE /v1/appointments/{id}. Deletion is idempotent.
func (h *AppointmentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.repo.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		core.Error(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
