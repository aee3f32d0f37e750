package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/dpereira/go-product-api/internal/types"
)

// DB is the subset of pgxpool.Pool the repository needs. Tests substitute a
// pgxmock pool.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

var _ AuthRepo = (*PostgresAuthRepo)(nil)

// AuthRepo defines the contract for user record persistence. Lookups return
// types.ErrNotFound when no record matches; infrastructure failures are
// wrapped and must not be conflated with auth decisions.
type AuthRepo interface {
	// FindUserByUsernameOrEmail runs the single combined uniqueness lookup
	// used during registration.
	FindUserByUsernameOrEmail(ctx context.Context, username, email string) (*types.User, error)
	FindUserByUsername(ctx context.Context, username string) (*types.User, error)
	FindUserByID(ctx context.Context, id uuid.UUID) (*types.User, error)
	// InsertUser persists a new user record. The users table carries unique
	// constraints on username and email; violations map to
	// types.ErrUsernameTaken / types.ErrEmailTaken so that concurrent
	// registrations racing past the service-level check still fail cleanly.
	InsertUser(ctx context.Context, user *types.User) error
}

const userColumns = "id, username, email, full_name, password_hash, is_active, created_at, updated_at"

type PostgresAuthRepo struct {
	logger *slog.Logger
	pgpool DB
}

func NewPostgresAuthRepo(pgpool DB, logger *slog.Logger) *PostgresAuthRepo {
	return &PostgresAuthRepo{
		logger: logger,
		pgpool: pgpool,
	}
}

func scanUser(row pgx.Row) (*types.User, error) {
	var user types.User
	err := row.Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.FullName,
		&user.PasswordHash,
		&user.IsActive,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, types.ErrNotFound
		}
		return nil, fmt.Errorf("scan user: %w", err)
	}
	return &user, nil
}

func (r *PostgresAuthRepo) FindUserByUsernameOrEmail(ctx context.Context, username, email string) (*types.User, error) {
	row := r.pgpool.QueryRow(ctx,
		"SELECT "+userColumns+" FROM users WHERE username = $1 OR email = $2",
		username, email)
	return scanUser(row)
}

func (r *PostgresAuthRepo) FindUserByUsername(ctx context.Context, username string) (*types.User, error) {
	row := r.pgpool.QueryRow(ctx,
		"SELECT "+userColumns+" FROM users WHERE username = $1",
		username)
	return scanUser(row)
}

func (r *PostgresAuthRepo) FindUserByID(ctx context.Context, id uuid.UUID) (*types.User, error) {
	row := r.pgpool.QueryRow(ctx,
		"SELECT "+userColumns+" FROM users WHERE id = $1",
		id)
	return scanUser(row)
}

func (r *PostgresAuthRepo) InsertUser(ctx context.Context, user *types.User) error {
	_, err := r.pgpool.Exec(ctx,
		`INSERT INTO users (id, username, email, full_name, password_hash, is_active, created_at, updated_at)
         VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		user.ID, user.Username, user.Email, user.FullName, user.PasswordHash,
		user.IsActive, user.CreatedAt, user.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			switch pgErr.ConstraintName {
			case "users_username_key":
				return types.ErrUsernameTaken
			case "users_email_key":
				return types.ErrEmailTaken
			}
		}
		return fmt.Errorf("insert user: db insert failed: %w", err)
	}
	return nil
}
