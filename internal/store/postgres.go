package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nanafox/user-management-system/internal/models"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS users (
	id UUID PRIMARY KEY,
	username TEXT UNIQUE NOT NULL,
	password TEXT NOT NULL,
	is_active BOOLEAN NOT NULL DEFAULT TRUE,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_users_username ON users(username);
`

const (
	sqlInsertUser = `
		INSERT INTO users (id, username, password, is_active)
		VALUES ($1, $2, $3, $4)
		RETURNING id, username, password, is_active, created_at, updated_at`

	sqlFindUserByID = `
		SELECT id, username, password, is_active, created_at, updated_at
		FROM   users
		WHERE  id = $1`

	sqlFindUserByUsername = `
		SELECT id, username, password, is_active, created_at, updated_at
		FROM   users
		WHERE  username = $1`

	sqlFindUserPage = `
		SELECT id, username, password, is_active, created_at, updated_at
		FROM   users
		ORDER  BY created_at, id
		LIMIT  $1 OFFSET $2`

	sqlDeleteUser = `
		DELETE FROM users WHERE id = $1`
)

// Postgres is the production Store backed by a pgx connection pool.
type Postgres struct {
	pool *pgxpool.Pool
}

// NewPostgres returns a Store backed by pool.
func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

// Migrate creates the users table if it does not exist yet.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("store: migrate: %w", err)
	}
	return nil
}

func (p *Postgres) Insert(ctx context.Context, user models.User) (models.User, error) {
	row := p.pool.QueryRow(ctx, sqlInsertUser,
		user.ID, user.Username, user.Password, user.IsActive)
	return scanUser(row)
}

func (p *Postgres) FindByID(ctx context.Context, id uuid.UUID) (models.User, error) {
	return scanUser(p.pool.QueryRow(ctx, sqlFindUserByID, id))
}

func (p *Postgres) FindByUsername(ctx context.Context, username string) (models.User, error) {
	return scanUser(p.pool.QueryRow(ctx, sqlFindUserByUsername, username))
}

func (p *Postgres) FindPage(ctx context.Context, skip, limit int) ([]models.User, error) {
	rows, err := p.pool.Query(ctx, sqlFindUserPage, limit, skip)
	if err != nil {
		return nil, fmt.Errorf("store: find page: %w", err)
	}
	defer rows.Close()

	users := []models.User{}
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.Username, &u.Password, &u.IsActive,
			&u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, fmt.Errorf("store: scan: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// Update builds the SET clause from the supplied fields only. updated_at is
// always refreshed, even when no field changed.
func (p *Postgres) Update(ctx context.Context, id uuid.UUID, params UpdateParams) (models.User, error) {
	setClauses := []string{}
	args := []any{}
	argIdx := 1

	if params.Username != nil {
		setClauses = append(setClauses, fmt.Sprintf("username = $%d", argIdx))
		args = append(args, *params.Username)
		argIdx++
	}
	if params.Password != nil {
		setClauses = append(setClauses, fmt.Sprintf("password = $%d", argIdx))
		args = append(args, *params.Password)
		argIdx++
	}
	setClauses = append(setClauses, "updated_at = now()")
	args = append(args, id)

	query := fmt.Sprintf(`
		UPDATE users
		SET    %s
		WHERE  id = $%d
		RETURNING id, username, password, is_active, created_at, updated_at`,
		strings.Join(setClauses, ", "), argIdx)

	return scanUser(p.pool.QueryRow(ctx, query, args...))
}

func (p *Postgres) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := p.pool.Exec(ctx, sqlDeleteUser, id)
	if err != nil {
		return mapPGError(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanUser(row pgx.Row) (models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.Username, &u.Password, &u.IsActive,
		&u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return models.User{}, mapPGError(err)
	}
	return u, nil
}

// PostgreSQL SQLSTATE 23505 is unique_violation.
const pgUniqueViolation = "23505"

func mapPGError(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return fmt.Errorf("%w: %s", ErrDuplicateKey, pgErr.ConstraintName)
	}
	return fmt.Errorf("store: %w", err)
}

var _ Store = (*Postgres)(nil)
