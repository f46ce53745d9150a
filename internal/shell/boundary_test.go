package shell_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"zephyrs-web/internal/shell"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBoundary(production bool, logs *bytes.Buffer, failures *int) *shell.Boundary {
	return shell.NewBoundary(shell.Options{
		Logger:     slog.New(slog.NewTextHandler(logs, nil)),
		Production: production,
		OnFailure: func(context.Context, error, string) {
			*failures++
		},
	})
}

func TestBoundaryRenderHealthy(t *testing.T) {
	var logs bytes.Buffer
	var failures int
	b := newBoundary(false, &logs, &failures)

	w := httptest.NewRecorder()
	b.Render(w, httptest.NewRequest(http.MethodGet, "/staff", nil), func(w io.Writer) error {
		_, err := io.WriteString(w, "<h1>Staff</h1>")
		return err
	})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "<h1>Staff</h1>", w.Body.String())
	assert.Equal(t, shell.Healthy, b.State())
	assert.Zero(t, failures)
}

func TestBoundaryRenderPanic(t *testing.T) {
	var logs bytes.Buffer
	var failures int
	b := newBoundary(false, &logs, &failures)

	w := httptest.NewRecorder()
	b.Render(w, httptest.NewRequest(http.MethodGet, "/amenities", nil), func(w io.Writer) error {
		_, _ = io.WriteString(w, "<h1>half a page")
		panic("nil amenity")
	})

	assert.Equal(t, shell.Failed, b.State())
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	body := w.Body.String()
	assert.NotContains(t, body, "half a page")
	assert.NotContains(t, body, "nil amenity")
	assert.Equal(t, 1, strings.Count(body, `href="/"`))
	assert.Equal(t, 1, failures)
	assert.Contains(t, logs.String(), "stack=")

	// stays failed: the view is never run again and the fallback is not repeated
	called := false
	b.Render(w, httptest.NewRequest(http.MethodGet, "/amenities", nil), func(io.Writer) error {
		called = true
		return nil
	})
	assert.False(t, called)
	assert.Equal(t, body, w.Body.String())
	assert.Equal(t, 1, failures)
}

func TestBoundaryProductionLogsMessageOnly(t *testing.T) {
	var logs bytes.Buffer
	var failures int
	b := newBoundary(true, &logs, &failures)

	w := httptest.NewRecorder()
	b.Render(w, httptest.NewRequest(http.MethodGet, "/", nil), func(io.Writer) error {
		return errors.New("template: home: missing plan")
	})

	assert.Equal(t, shell.Failed, b.State())
	assert.Contains(t, logs.String(), "missing plan")
	assert.NotContains(t, logs.String(), "stack=")
	assert.NotContains(t, w.Body.String(), "missing plan")
}

func TestCatchRenderError(t *testing.T) {
	var logs bytes.Buffer
	var failures int
	b := newBoundary(false, &logs, &failures)

	fb := b.CatchRenderError(errors.New("boom"), "pickleball")
	assert.Equal(t, "/", fb.ActionHref)
	assert.NotEmpty(t, fb.ActionLabel)
	assert.Equal(t, shell.Failed, b.State())

	b.CatchRenderError(errors.New("again"), "pickleball")
	assert.Equal(t, 1, failures)
}

func TestBoundaryRecover(t *testing.T) {
	var logs bytes.Buffer
	var failures int
	b := newBoundary(true, &logs, &failures)

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/plans-and-rates", nil)
	require.NotPanics(t, func() {
		defer b.Recover(w, r)
		panic(errors.New("handler exploded"))
	})

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), `<a href="/">`)
	assert.Equal(t, 1, failures)
}
