package postgres

import (
	"context"
	"database/sql"

	"eventlottery/internal/domain"
)

type notificationRepository struct {
	DB *sql.DB
}

func NewNotificationRepository(db *sql.DB) domain.NotificationRepository {
	return &notificationRepository{DB: db}
}

func (r *notificationRepository) CreateBatch(ctx context.Context, notifications []*domain.Notification) error {
	if len(notifications) == 0 {
		return nil
	}
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := `
		INSERT INTO notifications (user_id, event_id, event_name, type, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`
	for _, n := range notifications {
		if err := tx.QueryRowContext(ctx, query,
			n.UserID, n.EventID, n.EventName, string(n.Type), n.CreatedAt,
		).Scan(&n.ID); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (r *notificationRepository) ListByUserID(ctx context.Context, userID string, params domain.PaginationParams) ([]*domain.Notification, int, error) {
	var total int
	if err := r.DB.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM notifications WHERE user_id = $1`, userID,
	).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `
		SELECT id, user_id, event_id, event_name, type, created_at
		FROM notifications
		WHERE user_id = $1
		ORDER BY created_at DESC, id
		LIMIT $2 OFFSET $3
	`
	rows, err := r.DB.QueryContext(ctx, query, userID, params.PageSize, params.Offset())
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var notifications []*domain.Notification
	for rows.Next() {
		n := &domain.Notification{}
		if err := rows.Scan(&n.ID, &n.UserID, &n.EventID, &n.EventName, &n.Type, &n.CreatedAt); err != nil {
			return nil, 0, err
		}
		notifications = append(notifications, n)
	}
	return notifications, total, rows.Err()
}
