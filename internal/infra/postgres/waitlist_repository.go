package postgres

import (
	"context"
	"fmt"

	"kuisin/internal/domain"
)

const waitlistColumns = `id, name, email, organization, purpose, status, invited_at, created_at, updated_at`

func scanWaitlistEntry(row scanner) (domain.WaitlistEntry, error) {
	var e domain.WaitlistEntry
	err := row.Scan(&e.ID, &e.Name, &e.Email, &e.Organization, &e.Purpose,
		&e.Status, &e.InvitedAt, &e.CreatedAt, &e.UpdatedAt)
	return e, err
}

func (s *Store) CreateWaitlistEntry(ctx context.Context, e domain.WaitlistEntry) error {
	_, err := s.pool.Exec(ctx, `INSERT INTO waitlist (`+waitlistColumns+`)
		VALUES ($1, $2, lower($3), $4, $5, $6, $7, $8, $9)`,
		e.ID, e.Name, e.Email, e.Organization, e.Purpose, e.Status, e.InvitedAt, e.CreatedAt, e.UpdatedAt)
	return uniqueConflict(err, "waitlist_email_key", domain.ErrDuplicateEmail)
}

func (s *Store) ListWaitlistEntries(ctx context.Context) ([]domain.WaitlistEntry, error) {
	rows, err := s.pool.Query(ctx, `SELECT `+waitlistColumns+` FROM waitlist ORDER BY created_at DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("list waitlist: %w", err)
	}
	defer rows.Close()

	entries := make([]domain.WaitlistEntry, 0)
	for rows.Next() {
		e, err := scanWaitlistEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan waitlist entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (s *Store) GetWaitlistEntry(ctx context.Context, entryID string) (domain.WaitlistEntry, error) {
	e, err := scanWaitlistEntry(s.pool.QueryRow(ctx, `SELECT `+waitlistColumns+` FROM waitlist WHERE id = $1`, entryID))
	return e, notFound(err, domain.ErrWaitlistEntryNotFound)
}

func (s *Store) UpdateWaitlistEntry(ctx context.Context, e domain.WaitlistEntry) error {
	tag, err := s.pool.Exec(ctx, `UPDATE waitlist SET status = $2, invited_at = $3, updated_at = $4 WHERE id = $1`,
		e.ID, e.Status, e.InvitedAt, e.UpdatedAt)
	return mustAffect(tag, err, domain.ErrWaitlistEntryNotFound)
}
