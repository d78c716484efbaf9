package user

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/dmitrymomot/bluebird/pkg/pg"
)

// DB is the part of *pgxpool.Pool the repository uses.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresRepository stores users in the users table.
type PostgresRepository struct {
	db DB
}

func NewPostgresRepository(db DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const insertUser = `INSERT INTO users (user_id, username, password, created_at) VALUES ($1, $2, $3, $4)`

func (r *PostgresRepository) Create(ctx context.Context, u *User) error {
	_, err := r.db.Exec(ctx, insertUser, u.ID, u.Username, u.PasswordHash, u.CreatedAt)
	if err != nil {
		if pg.IsDuplicateKeyError(err) {
			return ErrUsernameTaken
		}
		return fmt.Errorf("%w: %v", ErrStorage, err)
	}
	return nil
}

const selectUserByUsername = `SELECT user_id, username, password, created_at FROM users WHERE username = $1`

func (r *PostgresRepository) GetByUsername(ctx context.Context, username string) (*User, error) {
	var u User
	err := r.db.QueryRow(ctx, selectUserByUsername, username).
		Scan(&u.ID, &u.Username, &u.PasswordHash, &u.CreatedAt)
	if err != nil {
		if pg.IsNotFoundError(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}
	return &u, nil
}
