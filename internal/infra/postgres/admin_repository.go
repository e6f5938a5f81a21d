package postgres

import (
	"context"

	"kuisin/internal/domain"
)

const adminColumns = `id, email, name, password_hash, created_at`

func scanAdmin(row scanner) (domain.Admin, error) {
	var a domain.Admin
	err := row.Scan(&a.ID, &a.Email, &a.Name, &a.PasswordHash, &a.CreatedAt)
	return a, err
}

func (s *Store) CreateAdmin(ctx context.Context, a domain.Admin) error {
	_, err := s.pool.Exec(ctx, `INSERT INTO admins (`+adminColumns+`) VALUES ($1, lower($2), $3, $4, $5)`,
		a.ID, a.Email, a.Name, a.PasswordHash, a.CreatedAt)
	return uniqueConflict(err, "admins_email_key", domain.ErrDuplicateEmail)
}

func (s *Store) GetAdmin(ctx context.Context, adminID string) (domain.Admin, error) {
	a, err := scanAdmin(s.pool.QueryRow(ctx, `SELECT `+adminColumns+` FROM admins WHERE id = $1`, adminID))
	return a, notFound(err, domain.ErrAdminNotFound)
}

func (s *Store) GetAdminByEmail(ctx context.Context, email string) (domain.Admin, error) {
	a, err := scanAdmin(s.pool.QueryRow(ctx, `SELECT `+adminColumns+` FROM admins WHERE email = lower($1)`, email))
	return a, notFound(err, domain.ErrAdminNotFound)
}
