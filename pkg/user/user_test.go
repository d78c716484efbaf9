package user_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/bluebird/pkg/user"
)

func TestNormalizeUsername(t *testing.T) {
	t.Parallel()

	valid := []struct{ in, want string }{
		{"alice", "alice"},
		{"  Alice  ", "alice"},
		{"ALICE", "alice"},
		{"Straße", "strasse"},
		{"ｆｕｌｌｗｉｄｔｈ", "fullwidth"},
	}
	for _, tt := range valid {
		got, err := user.NormalizeUsername(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	invalid := []string{"", "   ", "bad\nname", "tab\tname", strings.Repeat("a", user.MaxUsernameLength+1)}
	for _, in := range invalid {
		_, err := user.NormalizeUsername(in)
		assert.ErrorIs(t, err, user.ErrInvalidUsername, "%q", in)
	}
}

func TestMemoryRepository(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	repo := user.NewMemoryRepository()

	u := &user.User{ID: uuid.New(), Username: "alice", PasswordHash: "hash", CreatedAt: time.Now()}
	require.NoError(t, repo.Create(ctx, u))
	assert.ErrorIs(t, repo.Create(ctx, &user.User{ID: uuid.New(), Username: "alice"}), user.ErrUsernameTaken)

	got, err := repo.GetByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	_, err = repo.GetByUsername(ctx, "bob")
	assert.ErrorIs(t, err, user.ErrNotFound)
}
