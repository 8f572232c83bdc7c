package core

import (
	"errors"
	"io"
	"log/slog"
	"testing"

	"agrodrone/internal/types"
)

func newTestValidator() *Validator {
	return NewValidator(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

type leadForm struct {
	Name   string `validate:"required,max=200"`
	Email  string `validate:"required,email"`
	Status string `validate:"omitempty,lead_status"`
}

type scheduleForm struct {
	Date string `validate:"required,date_ymd"`
	Time string `validate:"required,time_hm"`
}

type taskForm struct {
	Priority string `validate:"omitempty,task_priority"`
}

func TestValidateStruct_Valid(t *testing.T) {
	v := newTestValidator()

	err := v.ValidateStruct(leadForm{
		Name:   "Carlos Mendes",
		Email:  "carlos@boavista.agr.br",
		Status: "qualified",
	})
	if err != nil {
		t.Errorf("expected no error, got %v", err)
	}
}

func TestValidateStruct_MissingRequiredField(t *testing.T) {
	v := newTestValidator()

	err := v.ValidateStruct(leadForm{Email: "carlos@boavista.agr.br"})
	if err == nil {
		t.Fatal("expected error for missing name")
	}

	var appErr *types.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("expected *types.AppError, got %T", err)
	}
	if appErr.Code != types.ErrCodeValidationMissingField {
		t.Errorf("expected code %s, got %s", types.ErrCodeValidationMissingField, appErr.Code)
	}

	ve, ok := appErr.Details["validation_errors"].([]ValidationError)
	if !ok {
		t.Fatalf("expected validation_errors detail, got %T", appErr.Details["validation_errors"])
	}
	if len(ve) != 1 || ve[0].Field != "Name" {
		t.Errorf("expected single Name error, got %+v", ve)
	}
}

func TestValidateStruct_InvalidEmail(t *testing.T) {
	v := newTestValidator()

	err := v.ValidateStruct(leadForm{Name: "A", Email: "not-an-email"})
	if err == nil {
		t.Fatal("expected error for invalid email")
	}

	var appErr *types.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("expected *types.AppError, got %T", err)
	}
	if appErr.Code != types.ErrCodeValidationFailed {
		t.Errorf("expected code %s, got %s", types.ErrCodeValidationFailed, appErr.Code)
	}
}

func TestValidateStruct_LeadStatusTag(t *testing.T) {
	v := newTestValidator()

	for _, status := range []string{"new", "qualified", "proposal", "won", "lost"} {
		if err := v.ValidateStruct(leadForm{Name: "A", Email: "a@b.com", Status: status}); err != nil {
			t.Errorf("status %q: expected valid, got %v", status, err)
		}
	}

	if err := v.ValidateStruct(leadForm{Name: "A", Email: "a@b.com", Status: "archived"}); err == nil {
		t.Error("expected error for unknown status")
	}
}

func TestValidateStruct_DateAndTimeTags(t *testing.T) {
	v := newTestValidator()

	if err := v.ValidateStruct(scheduleForm{Date: "2026-03-15", Time: "07:30"}); err != nil {
		t.Errorf("expected valid schedule, got %v", err)
	}

	invalid := []scheduleForm{
		{Date: "15/03/2026", Time: "07:30"},
		{Date: "2026-13-01", Time: "07:30"},
		{Date: "2026-03-15", Time: "7h30"},
		{Date: "2026-03-15", Time: "25:00"},
	}
	for _, form := range invalid {
		if err := v.ValidateStruct(form); err == nil {
			t.Errorf("expected error for %+v", form)
		}
	}
}

func TestValidateStruct_TaskPriorityTag(t *testing.T) {
	v := newTestValidator()

	for _, p := range []string{"low", "medium", "high", ""} {
		if err := v.ValidateStruct(taskForm{Priority: p}); err != nil {
			t.Errorf("priority %q: expected valid, got %v", p, err)
		}
	}

	if err := v.ValidateStruct(taskForm{Priority: "urgent"}); err == nil {
		t.Error("expected error for unknown priority")
	}
}

func TestValidateStructWithWarnings_CollectsAllErrors(t *testing.T) {
	v := newTestValidator()

	result := v.ValidateStructWithWarnings(leadForm{})
	if result.IsValid() {
		t.Fatal("expected invalid result")
	}
	// Name and Email are both required.
	if len(result.Errors) != 2 {
		t.Errorf("expected 2 errors, got %d: %+v", len(result.Errors), result.Errors)
	}
	for _, e := range result.Errors {
		if e.Code != "required" {
			t.Errorf("expected required code, got %q", e.Code)
		}
		if e.Message == "" {
			t.Error("expected non-empty message")
		}
	}
}

func TestValidateStructWithWarnings_NonStruct(t *testing.T) {
	v := newTestValidator()

	result := v.ValidateStructWithWarnings("not a struct")
	if result.IsValid() {
		t.Error("expected invalid result for non-struct input")
	}
}
