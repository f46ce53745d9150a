package security

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// EventType represents the type of security event
type EventType string

const (
	EventRateLimitTriggered EventType = "rate_limit_triggered"
	EventValidationFailed   EventType = "validation_failed"
	EventRelayFailed        EventType = "relay_failed"
	EventDuplicateSubmit    EventType = "duplicate_submit"
	EventInquirySent        EventType = "inquiry_sent"
	EventCSRFViolation      EventType = "csrf_violation"
	EventRenderFailure      EventType = "render_failure"
	EventConfigInvalid      EventType = "config_invalid"
)

// persistTimeout bounds a single database write of an event.
const persistTimeout = 5 * time.Second

// SecurityEvent represents a security-related event to be logged
type SecurityEvent struct {
	Timestamp    time.Time              `json:"timestamp"`
	Service      string                 `json:"service"`
	Environment  string                 `json:"env"`
	Level        string                 `json:"level"`
	Event        EventType              `json:"event"`
	SubjectType  string                 `json:"subject_type,omitempty"`  // "email", "ip", "system"
	SubjectValue string                 `json:"subject_value,omitempty"` // Masked or hashed for PII
	IP           string                 `json:"ip,omitempty"`
	UserAgent    string                 `json:"user_agent,omitempty"`
	RequestID    string                 `json:"request_id,omitempty"`
	Details      map[string]interface{} `json:"details,omitempty"`
}

func (e SecurityEvent) zapFields() []zap.Field {
	fields := []zap.Field{
		zap.String("service", e.Service),
		zap.String("env", e.Environment),
		zap.String("event", string(e.Event)),
		zap.String("severity", string(GetSeverity(e.Event))),
	}
	optional := []struct{ key, value string }{
		{"subject_type", e.SubjectType},
		{"subject_value", e.SubjectValue},
		{"ip", e.IP},
		{"user_agent", e.UserAgent},
		{"request_id", e.RequestID},
	}
	for _, f := range optional {
		if f.value != "" {
			fields = append(fields, zap.String(f.key, f.value))
		}
	}
	if len(e.Details) > 0 {
		detailsJSON, _ := json.Marshal(e.Details)
		fields = append(fields, zap.String("details", string(detailsJSON)))
	}
	return fields
}

// PersistFunc stores one event, typically SecurityEventRepository.PersistEvent.
type PersistFunc func(ctx context.Context, event SecurityEvent) error

// SecurityLogger writes security events to zap and, once Persist is called,
// queues them for a single background writer.
type SecurityLogger struct {
	zapLogger   *zap.Logger
	serviceName string
	environment string

	mu      sync.RWMutex
	queue   chan SecurityEvent
	done    chan struct{}
	dropped atomic.Int64
}

// InitSecurityLogger builds the process security logger: JSON on stdout with
// ISO8601 timestamps.
func InitSecurityLogger(serviceName, environment string) *SecurityLogger {
	config := zap.NewProductionConfig()
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.EncoderConfig.MessageKey = "message"
	config.OutputPaths = []string{"stdout"}
	config.ErrorOutputPaths = []string{"stderr"}

	logger, err := config.Build(zap.AddStacktrace(zapcore.ErrorLevel))
	if err != nil {
		logger, _ = zap.NewProduction()
	}
	return NewSecurityLogger(logger, serviceName, environment)
}

// NewSecurityLogger wraps an existing zap logger.
func NewSecurityLogger(z *zap.Logger, serviceName, environment string) *SecurityLogger {
	return &SecurityLogger{
		zapLogger:   z,
		serviceName: serviceName,
		environment: environment,
	}
}

// Persist starts the background writer. Events logged while the queue is
// full are dropped from persistence (they are still in the zap output).
// Calling Persist twice is a no-op.
func (sl *SecurityLogger) Persist(persist PersistFunc, buffer int) {
	if buffer <= 0 {
		buffer = 256
	}

	sl.mu.Lock()
	defer sl.mu.Unlock()
	if sl.queue != nil {
		return
	}
	queue := make(chan SecurityEvent, buffer)
	done := make(chan struct{})
	sl.queue, sl.done = queue, done

	go func() {
		defer close(done)
		for e := range queue {
			ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
			if err := persist(ctx, e); err != nil {
				sl.zapLogger.Error("Failed to persist security event", zap.String("event", string(e.Event)), zap.Error(err))
			}
			cancel()
		}
	}()
}

// Close stops accepting events for persistence and waits for the queue to
// drain or ctx to end.
func (sl *SecurityLogger) Close(ctx context.Context) error {
	sl.mu.Lock()
	queue, done := sl.queue, sl.done
	sl.queue = nil
	sl.mu.Unlock()

	if queue == nil {
		return nil
	}
	close(queue)
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Dropped reports how many events were not queued for persistence.
func (sl *SecurityLogger) Dropped() int64 {
	return sl.dropped.Load()
}

// Log logs a security event
func (sl *SecurityLogger) Log(_ context.Context, event SecurityEvent) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}
	event.Service = sl.serviceName
	event.Environment = sl.environment

	level := levelFor(event.Event)
	event.Level = level.String()

	sl.zapLogger.Log(level, string(event.Event), event.zapFields()...)

	sl.mu.RLock()
	defer sl.mu.RUnlock()
	if sl.queue == nil {
		return
	}
	select {
	case sl.queue <- event:
	default:
		sl.dropped.Add(1)
	}
}

// LogRateLimitTriggered logs when rate limiting is triggered
func (sl *SecurityLogger) LogRateLimitTriggered(ctx context.Context, ip, userAgent, requestID, endpoint string) {
	sl.Log(ctx, SecurityEvent{
		Event:        EventRateLimitTriggered,
		SubjectType:  "ip",
		SubjectValue: ip,
		IP:           ip,
		UserAgent:    userAgent,
		RequestID:    requestID,
		Details:      map[string]interface{}{"endpoint": endpoint},
	})
}

// LogContactEvent logs a contact form event about a submitter's address.
func (sl *SecurityLogger) LogContactEvent(ctx context.Context, event EventType, email, ip, userAgent, requestID string, details map[string]interface{}) {
	sl.Log(ctx, SecurityEvent{
		Event:        event,
		SubjectType:  "email",
		SubjectValue: MaskEmail(email),
		IP:           ip,
		UserAgent:    userAgent,
		RequestID:    requestID,
		Details:      details,
	})
}

// Sync flushes any buffered log entries
func (sl *SecurityLogger) Sync() error {
	return sl.zapLogger.Sync()
}

func levelFor(event EventType) zapcore.Level {
	switch GetSeverity(event) {
	case SeverityINFO:
		return zapcore.InfoLevel
	case SeverityHIGH, SeverityCRITICAL:
		return zapcore.ErrorLevel
	default:
		return zapcore.WarnLevel
	}
}

// MaskEmail keeps the first character and the domain: "j***@example.com".
func MaskEmail(email string) string {
	email = strings.TrimSpace(email)
	if len(email) < 3 {
		return "***"
	}
	at := strings.IndexByte(email, '@')
	if at < 1 {
		// not an address; may be any text the visitor typed
		return "***"
	}
	return email[:1] + "***" + email[at:]
}

// HashValue returns a short SHA256 prefix, for correlating values without storing them.
func HashValue(value string) string {
	hash := sha256.Sum256([]byte(value))
	return hex.EncodeToString(hash[:8])
}
