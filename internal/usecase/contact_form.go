package usecase

import (
	"context"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"zephyrs-web/internal/domain"
	"zephyrs-web/pkg/validation"

	"github.com/go-playground/validator/v10"
)

// Scheduler runs f once after d. The returned stop function cancels a
// pending run and reports whether it was still pending.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) (stop func() bool)
}

type realScheduler struct{}

func (realScheduler) AfterFunc(d time.Duration, f func()) func() bool {
	return time.AfterFunc(d, f).Stop
}

// RealScheduler is backed by time.AfterFunc.
var RealScheduler Scheduler = realScheduler{}

// Recipients are the fixed business addresses every inquiry goes to.
type Recipients struct {
	To  string
	Bcc string
}

// formRules is the validator view of the form fields.
type formRules struct {
	Name    string `validate:"trimmed_min=2"`
	Email   string `validate:"contact_email"`
	Subject string `validate:"trimmed_min=3"`
	Message string `validate:"trimmed_min=10"`
}

// ContactForm owns one visitor's contact form: field values, validation and
// the Idle -> Sending -> Sent|Failed -> Idle lifecycle.
type ContactForm struct {
	relay      domain.EmailRelay
	recipients Recipients
	scheduler  Scheduler
	validate   *validator.Validate
	now        func() time.Time

	mu         sync.Mutex
	fields     domain.FormFields
	status     domain.SubmissionStatus
	stopReset  func() bool
	resetGen   uint64
	closed     bool
	lastActive time.Time
}

func NewContactForm(relay domain.EmailRelay, recipients Recipients, scheduler Scheduler, validate *validator.Validate) *ContactForm {
	if scheduler == nil {
		scheduler = RealScheduler
	}
	if validate == nil {
		validate = validation.New()
	}
	return &ContactForm{
		relay:      relay,
		recipients: recipients,
		scheduler:  scheduler,
		validate:   validate,
		now:        time.Now,
		status:     domain.Idle(),
		lastActive: time.Now(),
	}
}

// UpdateField clamps and stores a value. An edit clears a Failed status.
func (f *ContactForm) UpdateField(field domain.Field, raw string) {
	max := field.MaxLength()
	if max == 0 {
		return
	}
	value := clamp(raw, max)

	f.mu.Lock()
	defer f.mu.Unlock()

	switch field {
	case domain.FieldName:
		f.fields.Name = value
	case domain.FieldEmail:
		f.fields.Email = value
	case domain.FieldSubject:
		f.fields.Subject = value
	case domain.FieldMessage:
		f.fields.Message = value
	}
	if f.status.Kind == domain.StatusFailed {
		f.status = domain.Idle()
	}
	f.lastActive = f.now()
}

// Validate is a pure function of the current fields.
func (f *ContactForm) Validate() domain.ValidationResult {
	f.mu.Lock()
	fields := f.fields
	f.mu.Unlock()
	return ValidateFields(f.validate, fields)
}

// ValidateFields applies the per-field rules to a set of values.
func ValidateFields(v *validator.Validate, fields domain.FormFields) domain.ValidationResult {
	res := domain.ValidationResult{
		NameValid:    true,
		EmailValid:   true,
		SubjectValid: true,
		MessageValid: true,
	}

	err := v.Struct(formRules{
		Name:    fields.Name,
		Email:   fields.Email,
		Subject: fields.Subject,
		Message: fields.Message,
	})
	if err != nil {
		res.Errors = validation.FieldErrors(err)
		for field := range res.Errors {
			switch domain.Field(field) {
			case domain.FieldName:
				res.NameValid = false
			case domain.FieldEmail:
				res.EmailValid = false
			case domain.FieldSubject:
				res.SubjectValid = false
			case domain.FieldMessage:
				res.MessageValid = false
			}
		}
	}

	res.AllValid = res.NameValid && res.EmailValid && res.SubjectValid && res.MessageValid
	return res
}

// Submit validates and, when valid, hands the inquiry to the relay. A call
// made while another is in flight is a no-op.
func (f *ContactForm) Submit(ctx context.Context) domain.SubmissionOutcome {
	return f.submit(ctx, nil)
}

// SubmitFields stores all four values and submits them in one step. While a
// send is in flight it is a no-op and the stored values are left untouched.
func (f *ContactForm) SubmitFields(ctx context.Context, fields domain.FormFields) domain.SubmissionOutcome {
	return f.submit(ctx, &fields)
}

func (f *ContactForm) submit(ctx context.Context, fields *domain.FormFields) domain.SubmissionOutcome {
	f.mu.Lock()
	if f.status.Kind == domain.StatusSending {
		f.mu.Unlock()
		return domain.SubmissionOutcome{
			Status:    domain.Sending(),
			Message:   domain.MessageAlreadySending,
			Duplicate: true,
		}
	}

	if fields != nil {
		f.fields = domain.FormFields{
			Name:    clamp(fields.Name, domain.MaxNameLength),
			Email:   clamp(fields.Email, domain.MaxEmailLength),
			Subject: clamp(fields.Subject, domain.MaxSubjectLength),
			Message: clamp(fields.Message, domain.MaxMessageLength),
		}
	}
	f.lastActive = f.now()
	f.cancelResetLocked()

	result := ValidateFields(f.validate, f.fields)
	if !result.AllValid {
		f.status = domain.Failed(domain.ReasonValidation)
		f.mu.Unlock()
		return domain.SubmissionOutcome{
			Status:     domain.Failed(domain.ReasonValidation),
			Message:    domain.MessageFixFields,
			Validation: result,
		}
	}

	params := domain.RelayParams{
		Name:     strings.TrimSpace(f.fields.Name),
		Email:    strings.TrimSpace(f.fields.Email),
		Title:    strings.TrimSpace(f.fields.Subject),
		Message:  strings.TrimSpace(f.fields.Message),
		Time:     f.now().UTC().Format(time.RFC3339),
		ReplyTo:  strings.TrimSpace(f.fields.Email),
		ToEmail:  f.recipients.To,
		BccEmail: f.recipients.Bcc,
	}
	f.status = domain.Sending()
	f.mu.Unlock()

	// Once started the send runs to completion or failure; the relay's own
	// timeout bounds it, not the caller.
	err := f.relay.Send(context.WithoutCancel(ctx), params)

	f.mu.Lock()
	defer f.mu.Unlock()

	if err != nil {
		f.status = domain.Failed(domain.ReasonTransport)
		return domain.SubmissionOutcome{
			Status:     f.status,
			Message:    domain.MessageTransportFailed,
			Validation: result,
			Params:     &params,
			Err:        err,
		}
	}

	f.fields = domain.FormFields{}
	f.status = domain.Sent()
	if !f.closed {
		f.scheduleResetLocked()
	}
	return domain.SubmissionOutcome{
		Status:     domain.Sent(),
		Message:    domain.MessageSent,
		Validation: result,
		Params:     &params,
	}
}

// Status returns the current submission status.
func (f *ContactForm) Status() domain.SubmissionStatus {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.status
}

// Fields returns a copy of the stored values.
func (f *ContactForm) Fields() domain.FormFields {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.fields
}

// View snapshots status, fields and validation together.
func (f *ContactForm) View() domain.FormView {
	f.mu.Lock()
	fields, status := f.fields, f.status
	f.mu.Unlock()
	return domain.FormView{
		Status:     status,
		Fields:     fields,
		Validation: ValidateFields(f.validate, fields),
	}
}

// Close tears the form down. A pending Sent -> Idle reset never fires after
// Close returns.
func (f *ContactForm) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	f.cancelResetLocked()
}

// IdleSince reports when the form was last touched.
func (f *ContactForm) IdleSince() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastActive
}

func (f *ContactForm) scheduleResetLocked() {
	f.resetGen++
	gen := f.resetGen
	f.stopReset = f.scheduler.AfterFunc(domain.SentResetDelay, func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		// A stale callback that lost the race with Stop must not mutate state.
		if f.closed || gen != f.resetGen || f.status.Kind != domain.StatusSent {
			return
		}
		f.status = domain.Idle()
		f.stopReset = nil
	})
}

func (f *ContactForm) cancelResetLocked() {
	if f.stopReset != nil {
		f.stopReset()
		f.stopReset = nil
	}
	f.resetGen++
}

// clamp cuts s to at most max characters without splitting a rune.
func clamp(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	n := 0
	for i := range s {
		if n == max {
			return s[:i]
		}
		n++
	}
	return s
}
