package postgres

import (
	"context"
	"testing"
	"time"

	"eventlottery/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotificationRepository_CreateBatch(t *testing.T) {
	ctx := context.Background()

	t.Run("inserts all rows in one transaction", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		now := time.Now()
		mock.ExpectBegin()
		mock.ExpectQuery(`INSERT INTO notifications`).
			WithArgs("user-1", "ev-1", "Pottery", "INVITED", now).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("n-1"))
		mock.ExpectQuery(`INSERT INTO notifications`).
			WithArgs("user-2", "ev-1", "Pottery", "WAITLISTED", now).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("n-2"))
		mock.ExpectCommit()

		repo := NewNotificationRepository(db)
		batch := []*domain.Notification{
			{UserID: "user-1", EventID: "ev-1", EventName: "Pottery", Type: domain.NotifyInvited, CreatedAt: now},
			{UserID: "user-2", EventID: "ev-1", EventName: "Pottery", Type: domain.NotifyWaitlisted, CreatedAt: now},
		}
		require.NoError(t, repo.CreateBatch(ctx, batch))
		assert.Equal(t, "n-1", batch[0].ID)
		assert.Equal(t, "n-2", batch[1].ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("empty batch is a no-op", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		repo := NewNotificationRepository(db)
		require.NoError(t, repo.CreateBatch(ctx, nil))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestNotificationRepository_ListByUserID(t *testing.T) {
	ctx := context.Background()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Now()
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM notifications WHERE user_id = \$1`).
		WithArgs("user-1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))
	mock.ExpectQuery(`SELECT id, user_id, event_id, event_name, type, created_at`).
		WithArgs("user-1", 20, 0).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "event_id", "event_name", "type", "created_at"}).
			AddRow("n-2", "user-1", "ev-1", "Pottery", "INVITED", now).
			AddRow("n-1", "user-1", "ev-2", "Run", "WAITLISTED", now.Add(-time.Hour)))

	repo := NewNotificationRepository(db)
	notifications, total, err := repo.ListByUserID(ctx, "user-1", domain.PaginationParams{Page: 1, PageSize: 20})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	require.Len(t, notifications, 2)
	assert.Equal(t, domain.NotifyInvited, notifications[0].Type)
}
