package shell

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
)

const envProduction = "production"

// ConfigSource is the read-only view of configuration the guard needs.
type ConfigSource interface {
	Get(key string) (string, bool)
	Environment() string
}

// ConfigurationError names every required key that is absent.
type ConfigurationError struct {
	Missing []string
}

func (e *ConfigurationError) Error() string {
	return "missing required configuration: " + strings.Join(e.Missing, ", ")
}

// Check reports the required keys src does not provide, in the order given.
func Check(src ConfigSource, required []string) error {
	var missing []string
	for _, key := range required {
		if _, ok := src.Get(key); !ok {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		return &ConfigurationError{Missing: missing}
	}
	return nil
}

// StaticErrorPage is written instead of the site when production config is broken.
const StaticErrorPage = `<!DOCTYPE html>
<html lang="en">
<head><meta charset="UTF-8"><title>Application Error</title></head>
<body style="font-family: Arial, sans-serif; padding: 2rem;">
<h1>Application Error</h1>
<p>This site is temporarily unavailable. Please try again later.</p>
</body>
</html>
`

// Guard runs the startup configuration check before the site is mounted.
type Guard struct {
	src      ConfigSource
	required []string
	log      *slog.Logger
	out      io.Writer
}

func NewGuard(src ConfigSource, required []string, log *slog.Logger, out io.Writer) *Guard {
	if log == nil {
		log = slog.Default()
	}
	if out == nil {
		out = io.Discard
	}
	return &Guard{src: src, required: required, log: log, out: out}
}

// ValidateConfig is fatal in production and advisory everywhere else.
func (g *Guard) ValidateConfig() error {
	err := Check(g.src, g.required)
	if err == nil {
		return nil
	}
	if g.src.Environment() == envProduction {
		return err
	}
	for _, key := range err.(*ConfigurationError).Missing {
		g.log.Warn("Missing configuration key", "key", key, "env", g.src.Environment())
	}
	return nil
}

// Boot validates configuration and only then calls mount. On failure the
// static error page goes to the guard's writer and mount is never called.
func (g *Guard) Boot(mount func() (http.Handler, error)) (http.Handler, error) {
	if err := g.ValidateConfig(); err != nil {
		if _, werr := io.WriteString(g.out, StaticErrorPage); werr != nil {
			g.log.Error("Failed to write static error page", "error", werr)
		}
		return nil, fmt.Errorf("startup aborted: %w", err)
	}
	return mount()
}
