package services

import (
	"context"
	"testing"
	"time"

	"eventlottery/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }
func intPtr(n int) *int       { return &n }

func TestEventService_CreateEvent(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		repo := newFakeEventRepo()
		svc := NewEventService(repo, testTimeout)
		event := domain.NewEvent("org-1", "Pottery Class", "Weekly class", 12, 30, time.Now())

		require.NoError(t, svc.CreateEvent(ctx, event))
		assert.NotEmpty(t, event.ID)

		stored, err := repo.GetByID(ctx, event.ID)
		require.NoError(t, err)
		assert.Equal(t, "Pottery Class", stored.Title)
		assert.Equal(t, 12, stored.Capacity)
		assert.Equal(t, 30, stored.MaxEntrants)
		assert.False(t, stored.SelectionsFinalized)
		assert.Empty(t, stored.Waitlist)
	})

	t.Run("validation", func(t *testing.T) {
		svc := NewEventService(newFakeEventRepo(), testTimeout)

		err := svc.CreateEvent(ctx, domain.NewEvent("", "Title", "", 0, 0, time.Now()))
		assert.ErrorIs(t, err, domain.ErrInvalidInput)

		err = svc.CreateEvent(ctx, domain.NewEvent("org-1", "", "", 0, 0, time.Now()))
		assert.ErrorIs(t, err, domain.ErrInvalidInput)

		err = svc.CreateEvent(ctx, domain.NewEvent("org-1", "Title", "", -1, 0, time.Now()))
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})
}

func TestEventService_UpdateEvent(t *testing.T) {
	ctx := context.Background()

	seed := func(t *testing.T) (domain.EventService, *fakeEventRepo, *domain.Event) {
		repo := newFakeEventRepo()
		svc := NewEventService(repo, testTimeout)
		event := domain.NewEvent("org-1", "Pottery", "old", 10, 20, time.Now())
		require.NoError(t, svc.CreateEvent(ctx, event))
		return svc, repo, event
	}

	t.Run("patches provided fields only", func(t *testing.T) {
		svc, _, event := seed(t)
		updated, err := svc.UpdateEvent(ctx, event.ID, "org-1", strPtr("Ceramics"), nil, intPtr(15), nil)
		require.NoError(t, err)
		assert.Equal(t, "Ceramics", updated.Title)
		assert.Equal(t, "old", updated.Description)
		assert.Equal(t, 15, updated.Capacity)
		assert.Equal(t, 20, updated.MaxEntrants)
	})

	t.Run("owner only", func(t *testing.T) {
		svc, _, event := seed(t)
		_, err := svc.UpdateEvent(ctx, event.ID, "intruder", strPtr("X"), nil, nil, nil)
		assert.ErrorIs(t, err, domain.ErrForbidden)
	})

	t.Run("rejects negative limits", func(t *testing.T) {
		svc, _, event := seed(t)
		_, err := svc.UpdateEvent(ctx, event.ID, "org-1", nil, nil, intPtr(-2), nil)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("not found", func(t *testing.T) {
		svc, _, _ := seed(t)
		_, err := svc.UpdateEvent(ctx, "missing", "org-1", strPtr("X"), nil, nil, nil)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("retries version conflicts", func(t *testing.T) {
		svc, repo, event := seed(t)
		repo.conflictsLeft = 1
		updated, err := svc.UpdateEvent(ctx, event.ID, "org-1", strPtr("Ceramics"), nil, nil, nil)
		require.NoError(t, err)
		assert.Equal(t, "Ceramics", updated.Title)
	})
}

func TestEventService_DeleteEvent(t *testing.T) {
	ctx := context.Background()
	repo := newFakeEventRepo()
	svc := NewEventService(repo, testTimeout)
	event := domain.NewEvent("org-1", "Pottery", "", 10, 0, time.Now())
	require.NoError(t, svc.CreateEvent(ctx, event))

	t.Run("non-owner entrant forbidden", func(t *testing.T) {
		err := svc.DeleteEvent(ctx, event.ID, "someone", domain.RoleEntrant)
		assert.ErrorIs(t, err, domain.ErrForbidden)
	})

	t.Run("admin may delete any event", func(t *testing.T) {
		err := svc.DeleteEvent(ctx, event.ID, "admin-1", domain.RoleAdmin)
		require.NoError(t, err)
		_, err = repo.GetByID(ctx, event.ID)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("not found", func(t *testing.T) {
		err := svc.DeleteEvent(ctx, "missing", "org-1", domain.RoleOrganizer)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestEventService_BrowseEvents(t *testing.T) {
	ctx := context.Background()
	repo := newFakeEventRepo()
	svc := NewEventService(repo, testTimeout)

	run := domain.NewEvent("org-1", "City Run", "annual marathon", 2, 0, time.Now())
	require.NoError(t, svc.CreateEvent(ctx, run))
	run.Attendees = []string{"a", "b"}
	require.NoError(t, repo.Save(ctx, run))

	openMic := domain.NewEvent("org-2", "Open Mic", "bring a song", 0, 0, time.Now())
	require.NoError(t, svc.CreateEvent(ctx, openMic))

	params := domain.PaginationParams{Page: 1, PageSize: 20}

	t.Run("full filter", func(t *testing.T) {
		events, total, err := svc.BrowseEvents(ctx, domain.EventFilter{Availability: domain.AvailabilityFull}, params)
		require.NoError(t, err)
		assert.Equal(t, 1, total)
		require.Len(t, events, 1)
		assert.Equal(t, "City Run", events[0].Title)
	})

	t.Run("not-full filter includes unlimited capacity", func(t *testing.T) {
		events, total, err := svc.BrowseEvents(ctx, domain.EventFilter{Availability: domain.AvailabilityNotFull}, params)
		require.NoError(t, err)
		assert.Equal(t, 1, total)
		require.Len(t, events, 1)
		assert.Equal(t, "Open Mic", events[0].Title)
	})

	t.Run("text query", func(t *testing.T) {
		events, total, err := svc.BrowseEvents(ctx, domain.EventFilter{Query: "MARATHON"}, params)
		require.NoError(t, err)
		assert.Equal(t, 1, total)
		require.Len(t, events, 1)
		assert.Equal(t, "City Run", events[0].Title)
	})

	t.Run("empty query matches all", func(t *testing.T) {
		_, total, err := svc.BrowseEvents(ctx, domain.EventFilter{}, params)
		require.NoError(t, err)
		assert.Equal(t, 2, total)
	})
}
