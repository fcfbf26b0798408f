package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/aussiebroadwan/edura/internal/auth/domain"
)

type usersRepo struct {
	db DBTX
}

const userColumns = `id, username, full_name, password_hash, role, status, points, created_at, updated_at`

func scanUser(row *sql.Row) (domain.User, error) {
	var u domain.User
	err := row.Scan(
		&u.ID,
		&u.Username,
		&u.FullName,
		&u.PasswordHash,
		&u.Role,
		&u.Status,
		&u.Points,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		return domain.User{}, mapError(err)
	}
	u.CreatedAt = u.CreatedAt.UTC()
	u.UpdatedAt = u.UpdatedAt.UTC()
	return u, nil
}

func (r *usersRepo) GetUserByID(ctx context.Context, id string) (domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(r.db.QueryRowContext(ctx, query, id))
}

func (r *usersRepo) GetUserByUsername(ctx context.Context, username string) (domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE username = $1`
	return scanUser(r.db.QueryRowContext(ctx, query, username))
}

func (r *usersRepo) CreateUser(ctx context.Context, u domain.User) error {
	query :=
		`INSERT INTO users (id, username, full_name, password_hash, role, status, points, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := r.db.ExecContext(ctx, query,
		u.ID, u.Username, u.FullName, u.PasswordHash, u.Role, u.Status, u.Points,
		u.CreatedAt.UTC(), u.UpdatedAt.UTC())
	return mapError(err)
}

func (r *usersRepo) UpdatePasswordHash(ctx context.Context, userID string, newHash string, at time.Time) error {
	query := `UPDATE users SET password_hash = $1, updated_at = $2 WHERE id = $3`
	return requireRow(r.db.ExecContext(ctx, query, newHash, at.UTC(), userID))
}

func (r *usersRepo) UpdateStatus(ctx context.Context, userID string, status string, at time.Time) error {
	query := `UPDATE users SET status = $1, updated_at = $2 WHERE id = $3`
	return requireRow(r.db.ExecContext(ctx, query, status, at.UTC(), userID))
}
