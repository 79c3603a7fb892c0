package submission

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

const insertContact = `
INSERT INTO contact_submissions (
id,
first_name,
last_name,
email,
phone,
company_name,
message,
source,
client_ip,
user_agent,
status,
submitted_at
) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
`

const insertFeedback = `
INSERT INTO feedback_submissions (
id,
name,
email,
category,
location_name,
message,
contact_consent,
source,
client_ip,
user_agent,
status,
submitted_at
) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
`

const deleteBySource = `
DELETE FROM contact_submissions WHERE id = $1 AND source = $2
`

// PostgresStore writes submissions to the durable inbox tables read by the
// admin dashboard. Inserts are single-row and attempt-once; rows are never
// updated or deleted by this pipeline (the monitor's synthetic probe record
// is the one exception).
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

func (s *PostgresStore) SaveContact(ctx context.Context, sub ContactSubmission) error {
	_, err := s.pool.Exec(ctx, insertContact,
		sub.ID,
		sub.FirstName,
		sub.LastName,
		sub.Email,
		sub.Phone,
		sub.CompanyName,
		sub.Message,
		sub.Meta.Source,
		sub.Meta.ClientIP,
		sub.Meta.UserAgent,
		"new",
		sub.Meta.SubmittedAt,
	)
	if err != nil {
		return fmt.Errorf("insert contact submission: %w", err)
	}
	return nil
}

func (s *PostgresStore) SaveFeedback(ctx context.Context, sub FeedbackSubmission) error {
	_, err := s.pool.Exec(ctx, insertFeedback,
		sub.ID,
		sub.Name,
		sub.Email,
		string(sub.Category),
		sub.LocationName,
		sub.Message,
		sub.ContactConsent,
		sub.Meta.Source,
		sub.Meta.ClientIP,
		sub.Meta.UserAgent,
		"new",
		sub.Meta.SubmittedAt,
	)
	if err != nil {
		return fmt.Errorf("insert feedback submission: %w", err)
	}
	return nil
}

// Ping exercises database connectivity with a lightweight read.
func (s *PostgresStore) Ping(ctx context.Context) error {
	var one int
	if err := s.pool.QueryRow(ctx, `SELECT 1`).Scan(&one); err != nil {
		return fmt.Errorf("ping database: %w", err)
	}
	return nil
}

// DeleteSynthetic removes a monitor probe record. Guarded by source so a
// probe can never delete a real submission.
func (s *PostgresStore) DeleteSynthetic(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, deleteBySource, id, SourceHealthCheck)
	if err != nil {
		return fmt.Errorf("delete synthetic submission: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("synthetic submission %s not found", id)
	}
	return nil
}
