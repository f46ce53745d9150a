package shell_test

import (
	"bytes"
	"errors"
	"log/slog"
	"net/http"
	"testing"

	"zephyrs-web/config"
	"zephyrs-web/internal/shell"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var required = []string{"SMTP_HOST", "SMTP_USERNAME", "SMTP_PASSWORD", "CONTACT_EMAIL_TO"}

func fullConfig() map[string]string {
	return map[string]string{
		"SMTP_HOST":        "smtp.example.com",
		"SMTP_USERNAME":    "relay-user",
		"SMTP_PASSWORD":    "secret",
		"CONTACT_EMAIL_TO": "info@zephyrs24.com",
	}
}

func TestCheck(t *testing.T) {
	assert.NoError(t, shell.Check(config.New(config.EnvProduction, fullConfig()), required))

	values := fullConfig()
	delete(values, "SMTP_HOST")
	values["CONTACT_EMAIL_TO"] = "   "

	err := shell.Check(config.New(config.EnvProduction, values), required)
	var cfgErr *shell.ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, []string{"SMTP_HOST", "CONTACT_EMAIL_TO"}, cfgErr.Missing)
	assert.Contains(t, err.Error(), "SMTP_HOST, CONTACT_EMAIL_TO")
}

func TestGuardBoot(t *testing.T) {
	values := fullConfig()
	delete(values, "SMTP_PASSWORD")

	t.Run("production aborts before mounting", func(t *testing.T) {
		var out, logs bytes.Buffer
		g := shell.NewGuard(config.New(config.EnvProduction, values), required, slog.New(slog.NewTextHandler(&logs, nil)), &out)

		mounted := false
		h, err := g.Boot(func() (http.Handler, error) {
			mounted = true
			return http.NotFoundHandler(), nil
		})

		var cfgErr *shell.ConfigurationError
		require.ErrorAs(t, err, &cfgErr)
		assert.Equal(t, []string{"SMTP_PASSWORD"}, cfgErr.Missing)
		assert.Nil(t, h)
		assert.False(t, mounted)
		assert.Equal(t, shell.StaticErrorPage, out.String())
	})

	t.Run("development warns and mounts", func(t *testing.T) {
		var out, logs bytes.Buffer
		g := shell.NewGuard(config.New(config.EnvDevelopment, values), required, slog.New(slog.NewTextHandler(&logs, nil)), &out)

		h, err := g.Boot(func() (http.Handler, error) {
			return http.NotFoundHandler(), nil
		})

		require.NoError(t, err)
		assert.NotNil(t, h)
		assert.Empty(t, out.String())
		assert.Contains(t, logs.String(), "key=SMTP_PASSWORD")
	})

	t.Run("mount errors propagate", func(t *testing.T) {
		g := shell.NewGuard(config.New(config.EnvProduction, fullConfig()), required, nil, nil)
		_, err := g.Boot(func() (http.Handler, error) {
			return nil, errors.New("templates missing")
		})
		assert.EqualError(t, err, "templates missing")
	})
}
