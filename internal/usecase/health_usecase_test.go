package usecase_test

import (
	"context"
	"errors"
	"testing"

	"zephyrs-web/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestHealthCheck(t *testing.T) {
	t.Run("all up", func(t *testing.T) {
		relay := new(MockRelay)
		relay.On("IsConfigured").Return(true)
		repo := new(MockInquiryRepo)
		repo.On("CountSince", mock.Anything, mock.Anything).Return(3, nil)

		h := usecase.NewHealthUsecase(relay, repo, map[string]usecase.HealthCheck{
			"database": func(context.Context) error { return nil },
			"redis":    nil,
		})

		got := h.Check(context.Background())
		assert.Equal(t, "ok", got["status"])
		assert.Equal(t, "up", got["database"])
		assert.Equal(t, "disabled", got["redis"])
		assert.Equal(t, "configured", got["email_relay"])
		assert.Equal(t, "3", got["inquiries_24h"])
	})

	t.Run("degraded", func(t *testing.T) {
		relay := new(MockRelay)
		relay.On("IsConfigured").Return(false)

		h := usecase.NewHealthUsecase(relay, nil, map[string]usecase.HealthCheck{
			"database": func(context.Context) error { return errors.New("connection refused") },
		})

		got := h.Check(context.Background())
		assert.Equal(t, "degraded", got["status"])
		assert.Equal(t, "down", got["database"])
		assert.Equal(t, "unconfigured", got["email_relay"])
		assert.NotContains(t, got, "inquiries_24h")
	})
}
