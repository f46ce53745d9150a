package validation

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Name    string `validate:"trimmed_min=2"`
	Email   string `validate:"contact_email"`
	Billing string `validate:"oneof=monthly quarterly yearly"`
}

func TestIsValidEmail(t *testing.T) {
	valid := []string{"jo@example.com", "a.b+c@sub.domain.org", " jo@example.com "}
	for _, s := range valid {
		assert.True(t, IsValidEmail(s), s)
	}

	invalid := []string{"", "jo", "jo@", "jo@example", "@example.com", "jo@@example.com", "jo example@x.com", "jo@example."}
	for _, s := range invalid {
		assert.False(t, IsValidEmail(s), s)
	}

	long := strings.Repeat("a", MaxEmailLength) + "@example.com"
	assert.False(t, IsValidEmail(long))
}

func TestTrimmedMin(t *testing.T) {
	v := New()

	err := v.Struct(sample{Name: "  J  ", Email: "jo@example.com", Billing: "monthly"})
	require.Error(t, err)
	fields := FieldErrors(err)
	assert.Equal(t, "Name must be at least 2 characters", fields["name"])
	assert.Len(t, fields, 1)

	assert.NoError(t, v.Struct(sample{Name: "Jo", Email: "jo@example.com", Billing: "yearly"}))
}

func TestFormatValidationErrors(t *testing.T) {
	v := New()

	err := v.Struct(sample{Name: "J", Email: "nope", Billing: "weekly"})
	require.Error(t, err)

	messages := FormatValidationErrors(err)
	assert.Equal(t, []string{
		"Billing cycle must be one of: monthly, quarterly, yearly",
		"Email must be a valid email address",
		"Name must be at least 2 characters",
	}, messages)

	assert.Equal(t, []string{"boom"}, FormatValidationErrors(errors.New("boom")))
}
