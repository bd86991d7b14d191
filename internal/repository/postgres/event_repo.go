package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"eventlottery/internal/domain"
)

// eventRepository stores each Event as a whole JSONB document plus a few
// denormalized columns (title, description, capacity, attendee_count) used
// for browse filtering. The version column carries the optimistic
// concurrency token: Save only succeeds against the version it read.
type eventRepository struct {
	DB *sql.DB
}

func NewEventRepository(db *sql.DB) domain.EventRepository {
	return &eventRepository{DB: db}
}

func (r *eventRepository) Create(ctx context.Context, e *domain.Event) error {
	e.Version = 1
	doc, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	query := `
		INSERT INTO events (owner_id, doc, version, title, description, capacity, attendee_count, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id
	`
	if err := r.DB.QueryRowContext(ctx, query,
		e.OwnerID, doc, e.Version, e.Title, e.Description, e.Capacity, len(e.Attendees),
		e.CreatedAt, e.UpdatedAt,
	).Scan(&e.ID); err != nil {
		return err
	}
	// Re-store the document with its assigned id so the raw doc is
	// self-contained.
	doc, err = json.Marshal(e)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	_, err = r.DB.ExecContext(ctx, `UPDATE events SET doc = $1 WHERE id = $2`, doc, e.ID)
	return err
}

func scanEvent(doc []byte, version int64) (*domain.Event, error) {
	e := &domain.Event{}
	if err := json.Unmarshal(doc, e); err != nil {
		return nil, fmt.Errorf("unmarshal event: %w", err)
	}
	e.Version = version
	return e, nil
}

func (r *eventRepository) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	query := `SELECT doc, version FROM events WHERE id = $1`
	var doc []byte
	var version int64
	err := r.DB.QueryRowContext(ctx, query, id).Scan(&doc, &version)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return scanEvent(doc, version)
}

// Save replaces the whole document if and only if the stored version still
// matches the one the caller read. On success the event's version is bumped.
func (r *eventRepository) Save(ctx context.Context, e *domain.Event) error {
	readVersion := e.Version
	e.Version = readVersion + 1
	doc, err := json.Marshal(e)
	if err != nil {
		e.Version = readVersion
		return fmt.Errorf("marshal event: %w", err)
	}
	query := `
		UPDATE events
		SET doc = $1, version = $2, title = $3, description = $4, capacity = $5, attendee_count = $6, updated_at = $7
		WHERE id = $8 AND version = $9
	`
	res, err := r.DB.ExecContext(ctx, query,
		doc, e.Version, e.Title, e.Description, e.Capacity, len(e.Attendees), e.UpdatedAt,
		e.ID, readVersion,
	)
	if err != nil {
		e.Version = readVersion
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		e.Version = readVersion
		return err
	}
	if affected == 0 {
		e.Version = readVersion
		// Either the row is gone or a concurrent writer bumped the version.
		var exists bool
		if err := r.DB.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM events WHERE id = $1)`, e.ID).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			return domain.ErrNotFound
		}
		return domain.ErrVersionConflict
	}
	return nil
}

func (r *eventRepository) Delete(ctx context.Context, id string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM events WHERE id = $1`, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *eventRepository) List(ctx context.Context, filter domain.EventFilter, params domain.PaginationParams) ([]*domain.Event, int, error) {
	where := `WHERE ($1 = '' OR title ILIKE '%' || $1 || '%' OR description ILIKE '%' || $1 || '%')`
	switch filter.Availability {
	case domain.AvailabilityFull:
		where += ` AND capacity > 0 AND attendee_count >= capacity`
	case domain.AvailabilityNotFull:
		where += ` AND (capacity = 0 OR attendee_count < capacity)`
	}

	var total int
	if err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM events `+where, filter.Query).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT doc, version FROM events ` + where + `
		ORDER BY created_at DESC, id
		LIMIT $2 OFFSET $3`
	rows, err := r.DB.QueryContext(ctx, query, filter.Query, params.PageSize, params.Offset())
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var events []*domain.Event
	for rows.Next() {
		var doc []byte
		var version int64
		if err := rows.Scan(&doc, &version); err != nil {
			return nil, 0, err
		}
		e, err := scanEvent(doc, version)
		if err != nil {
			return nil, 0, err
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return events, total, nil
}

func (r *eventRepository) ListAllIDs(ctx context.Context) ([]string, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT id FROM events ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
