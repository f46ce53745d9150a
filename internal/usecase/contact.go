package usecase

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"zephyrs-web/internal/domain"
	"zephyrs-web/pkg/security"
	"zephyrs-web/pkg/validation"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

var _ domain.ContactUsecase = (*ContactSessions)(nil)

// janitorInterval is how often idle contact sessions are swept.
const janitorInterval = time.Minute

type ContactOptions struct {
	Recipients  Recipients
	IdleTimeout time.Duration
	Scheduler   Scheduler
	Production  bool
	// Now overrides the clock used for idle tracking and timestamps
	Now func() time.Time
}

// ContactSessions keeps one ContactForm per visitor session.
type ContactSessions struct {
	relay       domain.EmailRelay
	inquiryRepo domain.InquiryRepository
	secLog      *security.SecurityLogger
	log         *slog.Logger
	validate    *validator.Validate
	opts        ContactOptions
	now         func() time.Time

	mu    sync.Mutex
	forms map[string]*ContactForm
}

// NewContactUsecase creates a new contact usecase. inquiryRepo and secLog may be nil.
func NewContactUsecase(relay domain.EmailRelay, inquiryRepo domain.InquiryRepository, secLog *security.SecurityLogger, log *slog.Logger, validate *validator.Validate, opts ContactOptions) *ContactSessions {
	if opts.IdleTimeout <= 0 {
		opts.IdleTimeout = 30 * time.Minute
	}
	if opts.Scheduler == nil {
		opts.Scheduler = RealScheduler
	}
	if log == nil {
		log = slog.Default()
	}
	if validate == nil {
		validate = validation.New()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &ContactSessions{
		relay:       relay,
		inquiryRepo: inquiryRepo,
		secLog:      secLog,
		log:         log,
		validate:    validate,
		opts:        opts,
		now:         opts.Now,
		forms:       make(map[string]*ContactForm),
	}
}

// Validate checks a request without creating a session
func (uc *ContactSessions) Validate(req *domain.ContactRequest) domain.ValidationResult {
	return ValidateFields(uc.validate, domain.FormFields{
		Name:    clamp(req.Name, domain.MaxNameLength),
		Email:   clamp(req.Email, domain.MaxEmailLength),
		Subject: clamp(req.Subject, domain.MaxSubjectLength),
		Message: clamp(req.Message, domain.MaxMessageLength),
	})
}

// Submit applies the request fields to the visitor's form and submits it
func (uc *ContactSessions) Submit(ctx context.Context, sessionID string, req *domain.ContactRequest, meta domain.SubmissionMeta) (*domain.SubmissionOutcome, error) {
	if !uc.relay.IsConfigured() {
		return nil, domain.ErrContactUnavailable
	}

	out := uc.form(sessionID).SubmitFields(ctx, domain.FormFields{
		Name:    req.Name,
		Email:   req.Email,
		Subject: req.Subject,
		Message: req.Message,
	})

	switch {
	case out.Duplicate:
		uc.audit(ctx, security.EventDuplicateSubmit, sessionID, req.Email, meta, nil)

	case out.Status.Kind == domain.StatusFailed && out.Status.Reason == domain.ReasonValidation:
		invalid := make([]string, 0, len(out.Validation.Errors))
		for field := range out.Validation.Errors {
			invalid = append(invalid, field)
		}
		uc.audit(ctx, security.EventValidationFailed, sessionID, req.Email, meta, map[string]interface{}{"fields": invalid})

	case out.Status.Kind == domain.StatusFailed:
		uc.logTransportError(out.Err, meta)
		uc.audit(ctx, security.EventRelayFailed, sessionID, req.Email, meta, nil)
		uc.archive(ctx, sessionID, out.Params, "failed", meta)

	case out.Status.Kind == domain.StatusSent:
		uc.audit(ctx, security.EventInquirySent, sessionID, req.Email, meta, nil)
		uc.archive(ctx, sessionID, out.Params, "sent", meta)
	}

	return &out, nil
}

// Status returns the visitor's form; unknown sessions read as a fresh Idle form.
func (uc *ContactSessions) Status(sessionID string) domain.FormView {
	uc.mu.Lock()
	form, ok := uc.forms[sessionID]
	uc.mu.Unlock()
	if !ok {
		return domain.FormView{
			Status:     domain.Idle(),
			Validation: ValidateFields(uc.validate, domain.FormFields{}),
		}
	}
	return form.View()
}

// EndSession tears the visitor's form down
func (uc *ContactSessions) EndSession(sessionID string) {
	uc.mu.Lock()
	form, ok := uc.forms[sessionID]
	delete(uc.forms, sessionID)
	uc.mu.Unlock()
	if ok {
		form.Close()
	}
}

// RunJanitor closes idle forms until ctx is done, then closes all of them.
func (uc *ContactSessions) RunJanitor(ctx context.Context) {
	ticker := time.NewTicker(janitorInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			uc.closeAll()
			return
		case <-ticker.C:
			uc.Sweep()
		}
	}
}

// Sweep closes forms idle for longer than the idle timeout and returns how many were closed.
func (uc *ContactSessions) Sweep() int {
	cutoff := uc.now().Add(-uc.opts.IdleTimeout)

	uc.mu.Lock()
	var stale []*ContactForm
	for id, form := range uc.forms {
		if form.Status().Kind == domain.StatusSending {
			continue
		}
		if form.IdleSince().Before(cutoff) {
			stale = append(stale, form)
			delete(uc.forms, id)
		}
	}
	uc.mu.Unlock()

	for _, form := range stale {
		form.Close()
	}
	return len(stale)
}

// Sessions returns the number of live forms.
func (uc *ContactSessions) Sessions() int {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	return len(uc.forms)
}

func (uc *ContactSessions) form(sessionID string) *ContactForm {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	form, ok := uc.forms[sessionID]
	if !ok {
		form = NewContactForm(uc.relay, uc.opts.Recipients, uc.opts.Scheduler, uc.validate)
		form.now = uc.now
		form.lastActive = uc.now()
		uc.forms[sessionID] = form
	}
	return form
}

func (uc *ContactSessions) closeAll() {
	uc.mu.Lock()
	forms := uc.forms
	uc.forms = make(map[string]*ContactForm)
	uc.mu.Unlock()
	for _, form := range forms {
		form.Close()
	}
}

// logTransportError keeps relay detail out of production logs.
func (uc *ContactSessions) logTransportError(err error, meta domain.SubmissionMeta) {
	if err == nil {
		return
	}
	if uc.opts.Production {
		uc.log.Error("Contact relay failed", "request_id", meta.RequestID)
		return
	}
	uc.log.Error("Contact relay failed", "request_id", meta.RequestID, "error", err)
}

// audit records a contact event. The session ID is hashed since it doubles
// as the visitor's cookie value.
func (uc *ContactSessions) audit(ctx context.Context, event security.EventType, sessionID, email string, meta domain.SubmissionMeta, details map[string]interface{}) {
	if uc.secLog == nil {
		return
	}
	if details == nil {
		details = map[string]interface{}{}
	}
	details["session"] = security.HashValue(sessionID)
	uc.secLog.LogContactEvent(ctx, event, email, meta.IP, meta.UserAgent, meta.RequestID, details)
}

func (uc *ContactSessions) archive(ctx context.Context, sessionID string, params *domain.RelayParams, status string, meta domain.SubmissionMeta) {
	if uc.inquiryRepo == nil || params == nil {
		return
	}
	inquiry := &domain.Inquiry{
		ID:        uuid.NewString(),
		SessionID: sessionID,
		Name:      params.Name,
		Email:     strings.ToLower(params.Email),
		Subject:   params.Title,
		Message:   params.Message,
		Status:    status,
		IP:        meta.IP,
		CreatedAt: uc.now().UTC(),
	}
	// The visitor already has their outcome; archiving is best-effort.
	if err := uc.inquiryRepo.Save(context.WithoutCancel(ctx), inquiry); err != nil {
		uc.log.Warn("Failed to archive inquiry", "inquiry_id", inquiry.ID, "error", err)
	}
}
