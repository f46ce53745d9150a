package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"zephyrs-web/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRow struct {
	count int
	err   error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	*(dest[0].(*int)) = r.count
	return nil
}

type fakeDB struct {
	sql     string
	args    []any
	execErr error
	row     fakeRow
}

func (f *fakeDB) Exec(_ context.Context, sql string, arguments ...any) (pgconn.CommandTag, error) {
	f.sql, f.args = sql, arguments
	return pgconn.NewCommandTag("INSERT 0 1"), f.execErr
}

func (f *fakeDB) QueryRow(_ context.Context, sql string, args ...any) pgx.Row {
	f.sql, f.args = sql, args
	return f.row
}

func TestInquiryRepoSave(t *testing.T) {
	db := &fakeDB{}
	repo := NewInquiryRepository(db)
	created := time.Date(2026, 10, 17, 9, 0, 0, 0, time.UTC)

	err := repo.Save(context.Background(), &domain.Inquiry{
		ID:        "id-1",
		SessionID: "s1",
		Name:      "Jo",
		Email:     "jo@example.com",
		Subject:   "Question",
		Message:   "Interested in pricing options",
		Status:    "sent",
		CreatedAt: created,
	})
	require.NoError(t, err)
	assert.Contains(t, db.sql, "INSERT INTO contact_inquiries")
	require.Len(t, db.args, 9)
	assert.Equal(t, "id-1", db.args[0])
	assert.Nil(t, db.args[7], "missing IP is stored as NULL")
	assert.Equal(t, created, db.args[8])

	db.execErr = errors.New("connection reset")
	err = repo.Save(context.Background(), &domain.Inquiry{ID: "id-2"})
	assert.ErrorContains(t, err, "failed to save inquiry")
}

func TestInquiryRepoCountSince(t *testing.T) {
	db := &fakeDB{row: fakeRow{count: 7}}
	repo := NewInquiryRepository(db)

	n, err := repo.CountSince(context.Background(), time.Now().Add(-24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 7, n)

	db.row = fakeRow{err: pgx.ErrNoRows}
	_, err = repo.CountSince(context.Background(), time.Now())
	assert.ErrorIs(t, err, pgx.ErrNoRows)
}
