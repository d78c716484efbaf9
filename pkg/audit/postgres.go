package audit

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

// DB is the part of *pgxpool.Pool the storage uses.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// PostgresStorage appends events to the auth_events table.
type PostgresStorage struct {
	db DB
}

func NewPostgresStorage(db DB) *PostgresStorage {
	return &PostgresStorage{db: db}
}

const insertEvent = `INSERT INTO auth_events
    (event_id, user_id, action, result, error, request_id, ip, metadata, created_at)
VALUES ($1, NULLIF($2, '')::uuid, $3, $4, NULLIF($5, ''), NULLIF($6, ''), NULLIF($7, '')::inet, $8, $9)`

func (s *PostgresStorage) Store(ctx context.Context, e Event) error {
	var metadata []byte
	if len(e.Metadata) > 0 {
		var err error
		if metadata, err = json.Marshal(e.Metadata); err != nil {
			return fmt.Errorf("%w: metadata: %v", ErrEventValidation, err)
		}
	}

	_, err := s.db.Exec(ctx, insertEvent,
		e.ID, e.UserID, e.Action, string(e.Result), e.Error, e.RequestID, e.IP, metadata, e.CreatedAt)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStorageNotAvailable, err)
	}
	return nil
}
