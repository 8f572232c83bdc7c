package core

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"agrodrone/internal/config"
)

type stubCloser struct {
	closed bool
	err    error
}

func (c *stubCloser) Close() error {
	c.closed = true
	return c.err
}

func TestNewServer_NilConfig(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	if _, err := NewServer(nil, logger); err == nil {
		t.Error("expected error for nil config")
	}
}

func TestNewServer_NilLogger(t *testing.T) {
	if _, err := NewServer(&config.Config{}, nil); err == nil {
		t.Error("expected error for nil logger")
	}
}

func TestNewServer_InitializesDependencies(t *testing.T) {
	s := newTestServer(t)

	if s.Validator == nil {
		t.Error("expected validator to be initialized")
	}
	if s.Router() == nil {
		t.Error("expected router to be initialized")
	}
	if s.Handler() == nil {
		t.Error("expected handler to be available")
	}
}

func TestShutdown_ClosesRegisteredResources(t *testing.T) {
	s := newTestServer(t)

	first := &stubCloser{}
	second := &stubCloser{}
	s.RegisterCloser(first)
	s.RegisterCloser(second)

	if err := s.Shutdown(context.Background()); err != nil {
		t.Fatalf("expected clean shutdown, got %v", err)
	}
	if !first.closed || !second.closed {
		t.Error("expected all registered closers to be closed")
	}
}

func TestShutdown_ReturnsFirstError(t *testing.T) {
	s := newTestServer(t)

	failing := &stubCloser{err: errors.New("pool close failed")}
	healthy := &stubCloser{}
	s.RegisterCloser(failing)
	s.RegisterCloser(healthy)

	err := s.Shutdown(context.Background())
	if err == nil {
		t.Fatal("expected shutdown error")
	}
	// The failing closer must not prevent later closers from running.
	if !healthy.closed {
		t.Error("expected remaining closers to run after a failure")
	}
}
