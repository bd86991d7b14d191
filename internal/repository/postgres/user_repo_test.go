package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"eventlottery/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var userColumns = []string{"id", "email", "username", "password_hash", "salt", "role", "created_at", "updated_at"}

func TestUserRepository_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		now := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
		mock.ExpectQuery(`INSERT INTO users`).
			WithArgs("alice@example.com", "alice", "hash", "salt", "entrant", now, now).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("user-uuid-1"))

		repo := NewUserRepository(db)
		user := &domain.User{
			Email: "alice@example.com", Username: "alice",
			PasswordHash: "hash", Salt: "salt", Role: domain.RoleEntrant,
			CreatedAt: now, UpdatedAt: now,
		}
		require.NoError(t, repo.Create(ctx, user))
		assert.Equal(t, "user-uuid-1", user.ID)
	})

	t.Run("duplicate email", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`INSERT INTO users`).
			WillReturnError(&pq.Error{Code: "23505"})

		repo := NewUserRepository(db)
		err = repo.Create(ctx, &domain.User{Email: "alice@example.com"})
		assert.ErrorIs(t, err, domain.ErrDuplicateEmail)
	})
}

func TestUserRepository_GetByEmail(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		now := time.Now()
		mock.ExpectQuery(`SELECT id, email, username, password_hash, salt, role, created_at, updated_at`).
			WithArgs("alice@example.com").
			WillReturnRows(sqlmock.NewRows(userColumns).
				AddRow("user-1", "alice@example.com", "alice", "hash", "salt", "organizer", now, now))

		repo := NewUserRepository(db)
		user, err := repo.GetByEmail(ctx, "alice@example.com")
		require.NoError(t, err)
		assert.Equal(t, domain.RoleOrganizer, user.Role)
	})

	t.Run("not found", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`SELECT id, email, username, password_hash, salt, role, created_at, updated_at`).
			WithArgs("nobody@example.com").
			WillReturnError(sql.ErrNoRows)

		repo := NewUserRepository(db)
		_, err = repo.GetByEmail(ctx, "nobody@example.com")
		assert.ErrorIs(t, err, domain.ErrUserNotFound)
	})
}

func TestUserRepository_ListByIDs(t *testing.T) {
	ctx := context.Background()

	t.Run("empty input skips query", func(t *testing.T) {
		db, _, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		repo := NewUserRepository(db)
		users, err := repo.ListByIDs(ctx, nil)
		require.NoError(t, err)
		assert.Empty(t, users)
	})

	t.Run("success", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		now := time.Now()
		mock.ExpectQuery(`SELECT id, email, username, password_hash, salt, role, created_at, updated_at`).
			WithArgs(pq.Array([]string{"user-1", "user-2"})).
			WillReturnRows(sqlmock.NewRows(userColumns).
				AddRow("user-1", "a@example.com", "a", "h", "s", "entrant", now, now).
				AddRow("user-2", "b@example.com", "b", "h", "s", "entrant", now, now))

		repo := NewUserRepository(db)
		users, err := repo.ListByIDs(ctx, []string{"user-1", "user-2"})
		require.NoError(t, err)
		assert.Len(t, users, 2)
	})
}

func TestUserRepository_Delete(t *testing.T) {
	ctx := context.Background()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(`DELETE FROM users WHERE id = \$1`).
		WithArgs("user-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE FROM users WHERE id = \$1`).
		WithArgs("missing").
		WillReturnResult(sqlmock.NewResult(0, 0))

	repo := NewUserRepository(db)
	require.NoError(t, repo.Delete(ctx, "user-1"))
	assert.ErrorIs(t, repo.Delete(ctx, "missing"), domain.ErrUserNotFound)
}
