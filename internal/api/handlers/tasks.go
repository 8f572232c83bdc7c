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

// TaskRepo defines the data access contract for task operations.
// Mirrors the concrete db.TaskRepository methods used by this handler.
type TaskRepo interface {
	Create(ctx context.Context, task *types.Task) error
	GetByID(ctx context.Context, id string) (*types.Task, error)
	Update(ctx context.Context, task *types.Task) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]*types.Task, error)
}

// CreateTaskRequest is the request body for POST /v1/tasks.
type CreateTaskRequest struct {
	Title       string `json:"title" validate:"required,max=200"`
	Description string `json:"description,omitempty" validate:"max=2000"`
	Status      string `json:"status,omitempty" validate:"max=50"`
	Priority    string `json:"priority,omitempty" validate:"omitempty,task_priority"`
	DueDate     string `json:"due_date,omitempty" validate:"omitempty,date_ymd"`
	Assignee    string `json:"assignee,omitempty" validate:"max=100"`
}

// UpdateTaskRequest is the request body for PATCH /v1/tasks/{id}.
type UpdateTaskRequest struct {
	Title       *string `json:"title,omitempty" validate:"omitempty,min=1,max=200"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=2000"`
	Status      *string `json:"status,omitempty" validate:"omitempty,max=50"`
	Priority    *string `json:"priority,omitempty" validate:"omitempty,task_priority"`
	DueDate     *string `json:"due_date,omitempty" validate:"omitempty,date_ymd"`
	Assignee    *string `json:"assignee,omitempty" validate:"omitempty,max=100"`
}

// TaskHandler manages internal task CRUD operations.
type TaskHandler struct {
	repo      TaskRepo
	validator *core.Validator
	logger    *slog.Logger
}

// NewTaskHandler creates a new TaskHandler with the provided dependencies.
func NewTaskHandler(repo TaskRepo, v *core.Validator, l *slog.Logger) *TaskHandler {
	if l == nil {
		l = slog.Default()
	}
	return &TaskHandler{
		repo:      repo,
		validator: v,
		logger:    l,
	}
}

// RegisterRoutes mounts task routes on the provided chi.Router.
func (h *TaskHandler) RegisterRoutes(r chi.Router) {
	r.Route("/tasks", func(r chi.Router) {
		r.Post("/", h.Create)
		r.Get("/", h.List)

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.Get)
			r.Patch("/", h.Update)
			r.Delete("/", h.Delete)
		})
	})
}

// Create handles POST /v1/tasks.
func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateTaskRequest
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
		status = "pending"
	}
	priority := types.TaskPriority(req.Priority)
	if priority == "" {
		priority = types.PriorityMedium
	}

	now := time.Now().UTC()
	task := &types.Task{
		ID:          "task_" + uuid.New().String(),
		Title:       req.Title,
		Description: req.Description,
		Status:      status,
		Priority:    priority,
		DueDate:     req.DueDate,
		Assignee:    req.Assignee,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := h.repo.Create(r.Context(), task); err != nil {
		core.Error(w, r, err)
		return
	}

	h.logger.InfoContext(r.Context(), "task created", "task_id", task.ID, "priority", task.Priority)
	core.JSON(w, r, http.StatusCreated, core.APIResponse{Data: task})
}

// Get handles GET /v1/tasks/{id}.
func (h *TaskHandler) Get(w http.ResponseWriter, r *http.Request) {
	task, err := h.repo.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		core.Error(w, r, err)
		return
	}
	core.JSON(w, r, http.StatusOK, core.APIResponse{Data: task})
}

// List handles GET /v1/tasks. Results are newest-first.
func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	tasks, err := h.repo.List(r.Context())
	if err != nil {
		core.Error(w, r, err)
		return
	}
	if tasks == nil {
		tasks = []*types.Task{}
	}
	core.JSON(w, r, http.StatusOK, core.APIResponse{Data: tasks})
}

// Update handles PATCH /v1/tasks/{id}.
func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req UpdateTaskRequest
	if err := core.DecodeJSON(w, r, &req); err != nil {
		core.Error(w, r, err)
		return
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		core.Error(w, r, err)
		return
	}

	task, err := h.repo.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		core.Error(w, r, err)
		return
	}

	if req.Title != nil {
		task.Title = *req.Title
	}
	if req.Description != nil {
		task.Description = *req.Description
	}
	if req.Status != nil {
		task.Status = *req.Status
	}
	if req.Priority != nil {
		task.Priority = types.TaskPriority(*req.Priority)
	}
	if req.DueDate != nil {
		task.DueDate = *req.DueDate
	}
	if req.Assignee != nil {
		task.Assignee = *req.Assignee
	}

	if err := h.repo.Update(r.Context(), task); err != nil {
		core.Error(w, r, err)
		return
	}

	core.JSON(w, r, http.StatusOK, core.APIResponse{Data: task})
}

// Delete handles DELETE /v1/tasks/{id}. Deletion is idempotent.
func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.repo.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		core.Error(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
