package postgres

import (
	"context"
	"fmt"
	"time"

	"zephyrs-web/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// dbtx is satisfied by *pgxpool.Pool and pgx.Tx.
type dbtx interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type inquiryRepo struct {
	db dbtx
}

func NewInquiryRepository(db dbtx) domain.InquiryRepository {
	return &inquiryRepo{db: db}
}

func (r *inquiryRepo) Save(ctx context.Context, inquiry *domain.Inquiry) error {
	query := `INSERT INTO contact_inquiries (id, session_id, name, email, subject, message, status, ip_address, created_at)
              VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	var ip interface{}
	if inquiry.IP != "" {
		ip = inquiry.IP
	}

	_, err := r.db.Exec(ctx, query,
		inquiry.ID, inquiry.SessionID, inquiry.Name, inquiry.Email,
		inquiry.Subject, inquiry.Message, inquiry.Status, ip, inquiry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save inquiry: %w", err)
	}
	return nil
}

func (r *inquiryRepo) CountSince(ctx context.Context, since time.Time) (int, error) {
	query := `SELECT COUNT(*) FROM contact_inquiries WHERE created_at >= $1`
	var count int
	if err := r.db.QueryRow(ctx, query, since).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count inquiries: %w", err)
	}
	return count, nil
}
