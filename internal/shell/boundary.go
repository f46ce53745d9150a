package shell

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"io"
	"log/slog"
	"net/http"
	"runtime/debug"
	"sync"
)

// BoundaryState is Healthy until a render fails, then Failed for good.
type BoundaryState int

const (
	Healthy BoundaryState = iota
	Failed
)

func (s BoundaryState) String() string {
	if s == Failed {
		return "failed"
	}
	return "healthy"
}

// View renders a page body.
type View func(io.Writer) error

// Fallback is what the visitor sees after a render failure.
type Fallback struct {
	Title       string
	Message     string
	ActionLabel string
	ActionHref  string
}

var defaultFallback = Fallback{
	Title:       "Something went wrong",
	Message:     "We hit a problem loading this page.",
	ActionLabel: "Go to the home page",
	ActionHref:  "/",
}

var fallbackTmpl = template.Must(template.New("fallback").Parse(`<!DOCTYPE html>
<html lang="en">
<head><meta charset="UTF-8"><title>{{.Title}} | Zephyrs Fitness</title></head>
<body style="font-family: Arial, sans-serif; padding: 2rem; text-align: center;">
<h1>{{.Title}}</h1>
<p>{{.Message}}</p>
<p><a href="{{.ActionHref}}">{{.ActionLabel}}</a></p>
</body>
</html>
`))

// Options configure a Boundary.
type Options struct {
	Logger     *slog.Logger
	Production bool
	// OnFailure is called once when the boundary trips.
	OnFailure func(ctx context.Context, err error, where string)
}

// Boundary contains render failures for one mounted page tree.
type Boundary struct {
	opts Options

	mu       sync.Mutex
	state    BoundaryState
	fallback Fallback
	written  bool
}

func NewBoundary(opts Options) *Boundary {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Boundary{opts: opts}
}

func (b *Boundary) State() BoundaryState {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

// Render runs view into a buffer and copies it out only on success. A panic
// or error trips the boundary; a tripped boundary never runs a view again.
func (b *Boundary) Render(w http.ResponseWriter, r *http.Request, view View) {
	if b.State() == Failed {
		b.writeFallback(w)
		return
	}

	var buf bytes.Buffer
	err := runView(view, &buf)
	if err != nil {
		b.fail(r.Context(), err, r.URL.Path)
		b.writeFallback(w)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if _, err := buf.WriteTo(w); err != nil {
		b.opts.Logger.Warn("Failed to write page", "path", r.URL.Path, "error", err)
	}
}

// CatchRenderError trips the boundary and returns the fallback to show.
func (b *Boundary) CatchRenderError(err error, where string) Fallback {
	return b.fail(context.Background(), err, where)
}

// Recover is deferred around a handler chain; it turns a panic into the fallback.
func (b *Boundary) Recover(w http.ResponseWriter, r *http.Request) {
	rec := recover()
	if rec == nil {
		return
	}
	if rec == http.ErrAbortHandler {
		panic(rec)
	}
	b.fail(r.Context(), &panicError{value: rec, stack: debug.Stack()}, r.URL.Path)
	b.writeFallback(w)
}

func (b *Boundary) fail(ctx context.Context, err error, where string) Fallback {
	b.mu.Lock()
	first := b.state == Healthy
	b.state = Failed
	b.fallback = defaultFallback
	fb := b.fallback
	b.mu.Unlock()

	if !first {
		return fb
	}

	if b.opts.Production {
		b.opts.Logger.Error("Render failed", "where", where, "error", err.Error())
	} else {
		stack := ""
		if pe, ok := err.(*panicError); ok {
			stack = string(pe.stack)
		} else {
			stack = string(debug.Stack())
		}
		b.opts.Logger.Error("Render failed", "where", where, "error", err.Error(), "stack", stack)
	}
	if b.opts.OnFailure != nil {
		b.opts.OnFailure(ctx, err, where)
	}
	return fb
}

func (b *Boundary) writeFallback(w http.ResponseWriter) {
	b.mu.Lock()
	if b.written {
		b.mu.Unlock()
		return
	}
	b.written = true
	fb := b.fallback
	b.mu.Unlock()

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusInternalServerError)
	_ = fallbackTmpl.Execute(w, fb)
}

type panicError struct {
	value interface{}
	stack []byte
}

func (e *panicError) Error() string {
	return fmt.Sprintf("panic: %v", e.value)
}

func runView(view View, w io.Writer) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = &panicError{value: rec, stack: debug.Stack()}
		}
	}()
	return view(w)
}
