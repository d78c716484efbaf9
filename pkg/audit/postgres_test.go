package audit_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/bluebird/pkg/audit"
)

type fakeDB struct {
	err      error
	lastSQL  string
	lastArgs []any
}

func (f *fakeDB) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	f.lastSQL, f.lastArgs = sql, args
	return pgconn.NewCommandTag("INSERT 0 1"), f.err
}

func TestPostgresStorage_Store(t *testing.T) {
	t.Parallel()

	event := audit.Event{
		ID:        uuid.New(),
		UserID:    uuid.NewString(),
		Action:    audit.ActionLogin,
		Result:    audit.ResultFailure,
		IP:        "203.0.113.7",
		Metadata:  map[string]any{"reason": "auth.wrong_password"},
		CreatedAt: time.Now().UTC(),
	}

	t.Run("inserts", func(t *testing.T) {
		t.Parallel()
		db := &fakeDB{}
		require.NoError(t, audit.NewPostgresStorage(db).Store(context.Background(), event))
		assert.Contains(t, db.lastSQL, "INSERT INTO auth_events")
		require.Len(t, db.lastArgs, 9)
		assert.Equal(t, event.ID, db.lastArgs[0])
		assert.Equal(t, "failure", db.lastArgs[3])
		assert.JSONEq(t, `{"reason":"auth.wrong_password"}`, string(db.lastArgs[7].([]byte)))
	})

	t.Run("no metadata is null", func(t *testing.T) {
		t.Parallel()
		db := &fakeDB{}
		e := event
		e.Metadata = nil
		require.NoError(t, audit.NewPostgresStorage(db).Store(context.Background(), e))
		assert.Nil(t, db.lastArgs[7])
	})

	t.Run("database failure", func(t *testing.T) {
		t.Parallel()
		db := &fakeDB{err: errors.New("conn reset")}
		err := audit.NewPostgresStorage(db).Store(context.Background(), event)
		assert.ErrorIs(t, err, audit.ErrStorageNotAvailable)
	})
}
