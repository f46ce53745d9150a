package domain

import (
	"context"
	"errors"
	"time"
)

// Field names of the contact form
type Field string

const (
	FieldName    Field = "name"
	FieldEmail   Field = "email"
	FieldSubject Field = "subject"
	FieldMessage Field = "message"
)

// Maximum lengths in characters; they bound the payload handed to the relay.
const (
	MaxNameLength    = 80
	MaxEmailLength   = 120
	MaxSubjectLength = 120
	MaxMessageLength = 4000
)

// SentResetDelay is how long a Sent status is shown before the form returns to Idle.
const SentResetDelay = 5 * time.Second

// Failure reasons carried by a Failed status
const (
	ReasonValidation = "validation"
	ReasonTransport  = "transport"
)

// User-facing messages. They never contain internal details.
const (
	MessageSent            = "Your message has been sent successfully!"
	MessageFixFields       = "Please correct the highlighted fields."
	MessageTransportFailed = "Failed to send message. Please try again later."
	MessageAlreadySending  = "Your message is already being sent."
)

var ErrContactUnavailable = errors.New("contact relay is not configured")

// MaxLength returns the character cap of a field, or 0 for unknown fields.
func (f Field) MaxLength() int {
	switch f {
	case FieldName:
		return MaxNameLength
	case FieldEmail:
		return MaxEmailLength
	case FieldSubject:
		return MaxSubjectLength
	case FieldMessage:
		return MaxMessageLength
	}
	return 0
}

// ContactRequest represents a contact form submission
type ContactRequest struct {
	Name    string `json:"name" form:"name"`
	Email   string `json:"email" form:"email"`
	Subject string `json:"subject" form:"subject"`
	Message string `json:"message" form:"message"`
}

// FormFields is the user-supplied part of a contact form.
type FormFields struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

type StatusKind string

const (
	StatusIdle    StatusKind = "idle"
	StatusSending StatusKind = "sending"
	StatusSent    StatusKind = "sent"
	StatusFailed  StatusKind = "failed"
)

// SubmissionStatus is Idle, Sending, Sent, or Failed with a reason.
type SubmissionStatus struct {
	Kind   StatusKind `json:"kind"`
	Reason string     `json:"reason,omitempty"`
}

func Idle() SubmissionStatus    { return SubmissionStatus{Kind: StatusIdle} }
func Sending() SubmissionStatus { return SubmissionStatus{Kind: StatusSending} }
func Sent() SubmissionStatus    { return SubmissionStatus{Kind: StatusSent} }

func Failed(reason string) SubmissionStatus {
	return SubmissionStatus{Kind: StatusFailed, Reason: reason}
}

// ValidationResult holds one flag per field so the UI can highlight only the
// offending inputs.
type ValidationResult struct {
	NameValid    bool              `json:"name_valid"`
	EmailValid   bool              `json:"email_valid"`
	SubjectValid bool              `json:"subject_valid"`
	MessageValid bool              `json:"message_valid"`
	AllValid     bool              `json:"all_valid"`
	Errors       map[string]string `json:"errors,omitempty"`
}

// Invalid reports whether the given field failed validation.
func (v ValidationResult) Invalid(field string) bool {
	switch Field(field) {
	case FieldName:
		return !v.NameValid
	case FieldEmail:
		return !v.EmailValid
	case FieldSubject:
		return !v.SubjectValid
	case FieldMessage:
		return !v.MessageValid
	}
	return false
}

// RelayParams is the fixed parameter set handed to the email relay.
type RelayParams struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Title    string `json:"title"`
	Message  string `json:"message"`
	Time     string `json:"time"`
	ReplyTo  string `json:"reply_to"`
	ToEmail  string `json:"to_email"`
	BccEmail string `json:"bcc_email"`
}

// SubmissionOutcome is the result of one Submit call.
type SubmissionOutcome struct {
	Status     SubmissionStatus `json:"status"`
	Message    string           `json:"message"`
	Validation ValidationResult `json:"validation"`
	// Duplicate is set when Submit was ignored because a send was in flight.
	Duplicate bool         `json:"duplicate,omitempty"`
	Params    *RelayParams `json:"-"`
	Err       error        `json:"-"`
}

// FormView is a read-only snapshot of a visitor's form.
type FormView struct {
	Status     SubmissionStatus `json:"status"`
	Fields     FormFields       `json:"fields"`
	Validation ValidationResult `json:"validation"`
}

// SubmissionMeta carries request data used for auditing only.
type SubmissionMeta struct {
	IP        string
	UserAgent string
	RequestID string
}

// EmailRelay delivers an inquiry. It only reports success or failure.
type EmailRelay interface {
	Send(ctx context.Context, params RelayParams) error
	IsConfigured() bool
}

// Inquiry is an archived relay attempt.
type Inquiry struct {
	ID        string
	SessionID string
	Name      string
	Email     string
	Subject   string
	Message   string
	Status    string // "sent" or "failed"
	IP        string
	CreatedAt time.Time
}

type InquiryRepository interface {
	Save(ctx context.Context, inquiry *Inquiry) error
	CountSince(ctx context.Context, since time.Time) (int, error)
}

// ContactUsecase defines the interface for contact form operations
type ContactUsecase interface {
	// Validate checks a request without touching any session
	Validate(req *ContactRequest) ValidationResult
	// Submit applies the request to the visitor's form and sends it
	Submit(ctx context.Context, sessionID string, req *ContactRequest, meta SubmissionMeta) (*SubmissionOutcome, error)
	// Status returns the current view of the visitor's form
	Status(sessionID string) FormView
	// EndSession tears the visitor's form down
	EndSession(sessionID string)
}
