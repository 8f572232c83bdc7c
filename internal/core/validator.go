package core

import (
	"log/slog"
	"time"

	"github.com/go-playground/validator/v10"

	"agrodrone/internal/types"
)

// Validator wraps go-playground/validator and registers the domain-specific
// rules used by the CRM request structs.
type Validator struct {
	validate *validator.Validate
	logger   *slog.Logger
}

// ValidationError describes a single failed field constraint.
type ValidationError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ValidationResult carries blocking errors and non-blocking warnings.
type ValidationResult struct {
	Errors   []ValidationError
	Warnings []string
}

// IsValid reports whether the result has no blocking errors. Warnings do not
// affect validity.
func (r ValidationResult) IsValid() bool {
	return len(r.Errors) == 0
}

// NewValidator creates a new Validator and registers custom validation tags.
func NewValidator(logger *slog.Logger) *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	// date_ymd: calendar date in YYYY-MM-DD form.
	_ = v.RegisterValidation("date_ymd", func(fl validator.FieldLevel) bool {
		_, err := time.Parse("2006-01-02", fl.Field().String())
		return err == nil
	})

	// time_hm: wall-clock time in HH:MM form.
	_ = v.RegisterValidation("time_hm", func(fl validator.FieldLevel) bool {
		_, err := time.Parse("15:04", fl.Field().String())
		return err == nil
	})

	// lead_status: one of the funnel stages.
	_ = v.RegisterValidation("lead_status", func(fl validator.FieldLevel) bool {
		switch types.LeadStatus(fl.Field().String()) {
		case types.LeadStatusNew, types.LeadStatusQualified, types.LeadStatusProposal,
			types.LeadStatusWon, types.LeadStatusLost:
			return true
		}
		return false
	})

	// task_priority: one of the urgency buckets.
	_ = v.RegisterValidation("task_priority", func(fl validator.FieldLevel) bool {
		switch types.TaskPriority(fl.Field().String()) {
		case types.PriorityLow, types.PriorityMedium, types.PriorityHigh:
			return true
		}
		return false
	})

	return &Validator{
		validate: v,
		logger:   logger,
	}
}

// ValidateStruct validates the struct's `validate` tags and returns a
// *types.AppError describing every failed field, or nil when valid.
//
// The error code reflects the first failure: a missing required field maps to
// validation_missing_required_field; anything else maps to validation_failed.
// All failures are listed under Details["validation_errors"].
func (v *Validator) ValidateStruct(s interface{}) error {
	result := v.ValidateStructWithWarnings(s)
	if result.IsValid() {
		return nil
	}

	code := types.ErrCodeValidationFailed
	if result.Errors[0].Code == "required" {
		code = types.ErrCodeValidationMissingField
	}

	return types.NewAppErrorWithDetails(
		code,
		"request validation failed",
		nil,
		map[string]any{"validation_errors": result.Errors},
	)
}

// ValidateStructWithWarnings validates the struct and returns the full
// ValidationResult instead of collapsing it into an error.
func (v *Validator) ValidateStructWithWarnings(s interface{}) ValidationResult {
	result := ValidationResult{}

	err := v.validate.Struct(s)
	if err == nil {
		return result
	}

	validationErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		// Non-field error (e.g. passing a non-struct). Surface it as a
		// single opaque failure rather than panicking.
		v.logger.Error("validator returned non-field error", "error", err)
		result.Errors = append(result.Errors, ValidationError{
			Field:   "",
			Code:    "invalid",
			Message: "value could not be validated",
		})
		return result
	}

	for _, fe := range validationErrs {
		result.Errors = append(result.Errors, ValidationError{
			Field:   fe.Field(),
			Code:    fe.Tag(),
			Message: validationMessage(fe),
		})
	}

	return result
}

// validationMessage renders a human-readable message for a field error.
func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "email":
		return fe.Field() + " must be a valid email address"
	case "date_ymd":
		return fe.Field() + " must be a date in YYYY-MM-DD format"
	case "time_hm":
		return fe.Field() + " must be a time in HH:MM format"
	case "lead_status":
		return fe.Field() + " must be one of: new, qualified, proposal, won, lost"
	case "task_priority":
		return fe.Field() + " must be one of: low, medium, high"
	case "min":
		return fe.Field() + " must be at least " + fe.Param()
	case "max":
		return fe.Field() + " must be at most " + fe.Param()
	default:
		return fe.Field() + " failed validation rule: " + fe.Tag()
	}
}
