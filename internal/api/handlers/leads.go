// Package handlers contains the HTTP handler implementations for the CRM API.
//
// Handlers depend on locally defined interfaces (mirroring the concrete db
// repositories and services) so each handler can be tested with hand-rolled
// mocks and stays decoupled from concrete implementations.
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

// LeadRepo defines the data access contract for lead operations.
// Mirrors the concrete db.LeadRepository methods used by this handler.
type LeadRepo interface {
	Create(ctx context.Context, lead *types.Lead) error
	GetByID(ctx context.Context, id string) (*types.Lead, error)
	Update(ctx context.Context, lead *types.Lead) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]*types.Lead, error)
}

// CreateLeadRequest is the request body for POST /v1/leads.
type CreateLeadRequest struct {
	Name           string `json:"name" validate:"required,max=200"`
	Company        string `json:"company" validate:"required,max=200"`
	Email          string `json:"email" validate:"required,email"`
	Phone          string `json:"phone" validate:"required,max=40"`
	Status         string `json:"status,omitempty" validate:"omitempty,lead_status"`
	PotentialValue string `json:"potential_value,omitempty" validate:"max=40"`
	Source         string `json:"source,omitempty" validate:"max=100"`
	Notes          string `json:"notes,omitempty" validate:"max=2000"`
	FarmHectares   string `json:"farm_hectares,omitempty" validate:"max=40"`
	CropType       string `json:"crop_type,omitempty" validate:"max=100"`
	City           string `json:"city,omitempty" validate:"max=100"`
	LocationNote   string `json:"location_note,omitempty" validate:"max=200"`
}

// UpdateLeadRequest is the request body for PATCH /v1/leads/{id}.
// Pointer fields distinguish "not provided" from "set to empty".
type UpdateLeadRequest struct {
	Name           *string `json:"name,omitempty" validate:"omitempty,min=1,max=200"`
	Company        *string `json:"company,omitempty" validate:"omitempty,min=1,max=200"`
	Email          *string `json:"email,omitempty" validate:"omitempty,email"`
	Phone          *string `json:"phone,omitempty" validate:"omitempty,max=40"`
	Status         *string `json:"status,omitempty" validate:"omitempty,lead_status"`
	PotentialValue *string `json:"potential_value,omitempty" validate:"omitempty,max=40"`
	Source         *string `json:"source,omitempty" validate:"omitempty,max=100"`
	Notes          *string `json:"notes,omitempty" validate:"omitempty,max=2000"`
	FarmHectares   *string `json:"farm_hectares,omitempty" validate:"omitempty,max=40"`
	CropType       *string `json:"crop_type,omitempty" validate:"omitempty,max=100"`
	City           *string `json:"city,omitempty" validate:"omitempty,max=100"`
	LocationNote   *string `json:"location_note,omitempty" validate:"omitempty,max=200"`
}

// LeadHandler manages lead CRUD operations.
type LeadHandler struct {
	repo      LeadRepo
	validator *core.Validator
	logger    *slog.Logger
}

// NewLeadHandler creates a new LeadHandler with the provided dependencies.
func NewLeadHandler(repo LeadRepo, v *core.Validator, l *slog.Logger) *LeadHandler {
	if l == nil {
		l = slog.Default()
	}
	return &LeadHandler{
		repo:      repo,
		validator: v,
		logger:    l,
	}
}

// RegisterRoutes mounts lead routes on the provided chi.Router.
func (h *LeadHandler) RegisterRoutes(r chi.Router) {
	r.Route("/leads", func(r chi.Router) {
		r.Post("/", h.Create)
		r.Get("/", h.List)

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.Get)
			r.Patch("/", h.Update)
			r.Delete("/", h.Delete)
		})
	})
}

// Create handles POST /v1/leads.
func (h *LeadHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateLeadRequest
	if err := core.DecodeJSON(w, r, &req); err != nil {
		core.Error(w, r, err)
		return
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		core.Error(w, r, err)
		return
	}

	status := types.LeadStatus(req.Status)
	if status == "" {
		status = types.LeadStatusNew
	}

	now := time.Now().UTC()
	lead := &types.Lead{
		ID:             "lead_" + uuid.New().String(),
		Name:           req.Name,
		Company:        req.Company,
		Email:          req.Email,
		Phone:          req.Phone,
		Status:         status,
		PotentialValue: req.PotentialValue,
		Source:         req.Source,
		Notes:          req.Notes,
		FarmHectares:   req.FarmHectares,
		CropType:       req.CropType,
		City:           req.City,
		LocationNote:   req.LocationNote,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := h.repo.Create(r.Context(), lead); err != nil {
		core.Error(w, r, err)
		return
	}

	h.logger.InfoContext(r.Context(), "lead created", "lead_id", lead.ID)
	core.JSON(w, r, http.StatusCreated, core.APIResponse{Data: lead})
}

// Get handles GET /v1/leads/{id}.
func (h *LeadHandler) Get(w http.ResponseWriter, r *http.Request) {
	lead, err := h.repo.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		core.Error(w, r, err)
		return
	}
	core.JSON(w, r, http.StatusOK, core.APIResponse{Data: lead})
}

// List handles GET /v1/leads. Results are newest-first.
func (h *LeadHandler) List(w http.ResponseWriter, r *http.Request) {
	leads, err := h.repo.List(r.Context())
	if err != nil {
		core.Error(w, r, err)
		return
	}
	if leads == nil {
		leads = []*types.Lead{}
	}
	core.JSON(w, r, http.StatusOK, core.APIResponse{Data: leads})
}

// Update handles PATCH /v1/leads/{id}. Only fields present in the body are
// changed; a read-merge-write keeps untouched fields intact.
func (h *LeadHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req UpdateLeadRequest
	if err := core.DecodeJSON(w, r, &req); err != nil {
		core.Error(w, r, err)
		return
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		core.Error(w, r, err)
		return
	}

	lead, err := h.repo.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		core.Error(w, r, err)
		return
	}

	statusChanged := applyLeadPatch(lead, &req)

	// A status move counts as contact with the lead.
	if statusChanged {
		now := time.Now().UTC()
		lead.LastContactAt = &now
	}

	if err := h.repo.Update(r.Context(), lead); err != nil {
		core.Error(w, r, err)
		return
	}

	core.JSON(w, r, http.StatusOK, core.APIResponse{Data: lead})
}

// Delete handles DELETE /v1/leads/{id}. Returns 204 regardless of whether
// the lead still existed; deletion is idempotent.
func (h *LeadHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.repo.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		core.Error(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// applyLeadPatch merges non-nil request fields into the lead and reports
// whether the funnel status changed.
func applyLeadPatch(lead *types.Lead, req *UpdateLeadRequest) bool {
	if req.Name != nil {
		lead.Name = *req.Name
	}
	if req.Company != nil {
		lead.Company = *req.Company
	}
	if req.Email != nil {
		lead.Email = *req.Email
	}
	if req.Phone != nil {
		lead.Phone = *req.Phone
	}
	statusChanged := false
	if req.Status != nil && types.LeadStatus(*req.Status) != lead.Status {
		lead.Status = types.LeadStatus(*req.Status)
		statusChanged = true
	}
	if req.PotentialValue != nil {
		lead.PotentialValue = *req.PotentialValue
	}
	if req.Source != nil {
		lead.Source = *req.Source
	}
	if req.Notes != nil {
		lead.Notes = *req.Notes
	}
	if req.FarmHectares != nil {
		lead.FarmHectares = *req.FarmHectares
	}
	if req.CropType != nil {
		lead.CropType = *req.CropType
	}
	if req.City != nil {
		lead.City = *req.City
	}
	if req.LocationNote != nil {
		lead.LocationNote = *req.LocationNote
	}
	return statusChanged
}
