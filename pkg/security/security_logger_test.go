package security

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestMaskEmail(t *testing.T) {
	assert.Equal(t, "j***@example.com", MaskEmail("jo@example.com"))
	assert.Equal(t, "***", MaskEmail("jo"))
	assert.Equal(t, "j***@example.com", MaskEmail("j@example.com"))
	assert.Equal(t, "***", MaskEmail("Jo Smith 555-0100"), "values without @ are fully masked")
	assert.Equal(t, "***", MaskEmail("@example.com"))
}

func TestHashValue(t *testing.T) {
	h := HashValue("7d0c9c55-3b8e-4f3a-9d0e-0f4c2b1a9e11")
	assert.Len(t, h, 16)
	assert.Equal(t, h, HashValue("7d0c9c55-3b8e-4f3a-9d0e-0f4c2b1a9e11"))
	assert.NotEqual(t, h, HashValue("other"))
}

func TestLogContactEvent(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	sl := NewSecurityLogger(zap.New(core), "zephyrs-web", "test")

	sl.LogContactEvent(context.Background(), EventRelayFailed, "jo@example.com", "10.0.0.1", "ua", "req-1",
		map[string]interface{}{"reason": "transport"})

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, zapcore.WarnLevel, entry.Level)
	assert.Equal(t, string(EventRelayFailed), entry.Message)

	fields := entry.ContextMap()
	assert.Equal(t, "j***@example.com", fields["subject_value"])
	assert.Equal(t, "req-1", fields["request_id"])
	assert.Equal(t, `{"reason":"transport"}`, fields["details"])
}

func TestLevelsFollowSeverity(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	sl := NewSecurityLogger(zap.New(core), "zephyrs-web", "test")

	sl.Log(context.Background(), SecurityEvent{Event: EventInquirySent})
	sl.Log(context.Background(), SecurityEvent{Event: EventCSRFViolation})

	require.Equal(t, 2, logs.Len())
	assert.Equal(t, zapcore.InfoLevel, logs.All()[0].Level)
	assert.Equal(t, zapcore.ErrorLevel, logs.All()[1].Level)
	assert.True(t, IsHighOrAbove(EventConfigInvalid))
	assert.Equal(t, SeverityMEDIUM, GetSeverity(EventType("unknown")))
}

type fakeExecer struct {
	mu   sync.Mutex
	args [][]any
	err  error
}

func (f *fakeExecer) Exec(_ context.Context, _ string, arguments ...any) (pgconn.CommandTag, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.args = append(f.args, arguments)
	return pgconn.CommandTag{}, f.err
}

func (f *fakeExecer) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.args)
}

func TestPersistEvent(t *testing.T) {
	db := &fakeExecer{}
	repo := NewSecurityEventRepository(db)

	err := repo.PersistEvent(context.Background(), SecurityEvent{
		Event:     EventRateLimitTriggered,
		Timestamp: time.Now(),
	})
	require.NoError(t, err)
	require.Len(t, db.args, 1)
	assert.Equal(t, "rate_limit_triggered", db.args[0][0])
	assert.Equal(t, "WARN", db.args[0][1])
	assert.Nil(t, db.args[0][6], "empty IP is stored as NULL")
	assert.Equal(t, []byte("null"), db.args[0][9])

	db.err = errors.New("relation does not exist")
	assert.Error(t, repo.PersistEvent(context.Background(), SecurityEvent{Event: EventRelayFailed}))
}

func TestLogPersistsAsynchronously(t *testing.T) {
	core, _ := observer.New(zapcore.DebugLevel)
	sl := NewSecurityLogger(zap.New(core), "zephyrs-web", "test")
	db := &fakeExecer{}
	sl.Persist(NewSecurityEventRepository(db).PersistEvent, 8)

	sl.Log(context.Background(), SecurityEvent{Event: EventDuplicateSubmit})
	sl.Log(context.Background(), SecurityEvent{Event: EventInquirySent})

	require.NoError(t, sl.Close(context.Background()))
	assert.Equal(t, 2, db.calls(), "Close drains the queue")

	// after Close events are only logged
	sl.Log(context.Background(), SecurityEvent{Event: EventInquirySent})
	assert.Equal(t, 2, db.calls())
	assert.NoError(t, sl.Close(context.Background()))
}

func TestPersistDropsWhenQueueIsFull(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	sl := NewSecurityLogger(zap.New(core), "zephyrs-web", "test")

	release := make(chan struct{})
	started := make(chan struct{}, 1)
	sl.Persist(func(ctx context.Context, _ SecurityEvent) error {
		select {
		case started <- struct{}{}:
		default:
		}
		<-release
		return nil
	}, 1)

	sl.Log(context.Background(), SecurityEvent{Event: EventRateLimitTriggered})
	<-started // worker holds the first event
	sl.Log(context.Background(), SecurityEvent{Event: EventRateLimitTriggered}) // fills the queue
	sl.Log(context.Background(), SecurityEvent{Event: EventRateLimitTriggered}) // dropped

	assert.Equal(t, int64(1), sl.Dropped())
	assert.Equal(t, 3, logs.Len(), "dropped events still reach the log")

	close(release)
	require.NoError(t, sl.Close(context.Background()))
}
