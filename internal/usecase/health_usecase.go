package usecase

import (
	"context"
	"sort"
	"strconv"
	"time"

	"zephyrs-web/internal/domain"
)

// HealthCheck reports whether a dependency is reachable.
type HealthCheck func(ctx context.Context) error

type HealthUsecase interface {
	Check(ctx context.Context) map[string]string
}

type healthUsecase struct {
	checks      map[string]HealthCheck
	relay       domain.EmailRelay
	inquiryRepo domain.InquiryRepository
	now         func() time.Time
}

// NewHealthUsecase builds the health check. Optional dependencies that are not
// wired are reported as "disabled".
func NewHealthUsecase(relay domain.EmailRelay, inquiryRepo domain.InquiryRepository, checks map[string]HealthCheck) HealthUsecase {
	return &healthUsecase{
		checks:      checks,
		relay:       relay,
		inquiryRepo: inquiryRepo,
		now:         time.Now,
	}
}

func (u *healthUsecase) Check(ctx context.Context) map[string]string {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	result := map[string]string{
		"status": "ok",
	}

	names := make([]string, 0, len(u.checks))
	for name := range u.checks {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		check := u.checks[name]
		if check == nil {
			result[name] = "disabled"
			continue
		}
		if err := check(ctx); err != nil {
			result[name] = "down"
			result["status"] = "degraded"
			continue
		}
		result[name] = "up"
	}

	if u.relay == nil || !u.relay.IsConfigured() {
		result["email_relay"] = "unconfigured"
		result["status"] = "degraded"
	} else {
		result["email_relay"] = "configured"
	}

	if u.inquiryRepo != nil {
		if n, err := u.inquiryRepo.CountSince(ctx, u.now().Add(-24*time.Hour)); err == nil {
			result["inquiries_24h"] = strconv.Itoa(n)
		}
	}
	return result
}
