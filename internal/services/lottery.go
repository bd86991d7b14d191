package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"sync"
	"time"

	"eventlottery/internal/domain"
)

// maxSaveRetries bounds the read-modify-write loop when a save loses the
// compare-and-swap to a concurrent writer.
const maxSaveRetries = 3

type lotteryService struct {
	eventRepo        domain.EventRepository
	userRepo         domain.UserRepository
	notificationRepo domain.NotificationRepository
	notifier         domain.Notifier
	logger           *slog.Logger

	mu  sync.Mutex
	rng *rand.Rand

	now            func() time.Time
	contextTimeout time.Duration
}

// NewLotteryService creates a LotteryService. rng is the randomness source
// for draws; pass a seeded source in tests for reproducible selections.
func NewLotteryService(
	eventRepo domain.EventRepository,
	userRepo domain.UserRepository,
	notificationRepo domain.NotificationRepository,
	notifier domain.Notifier,
	logger *slog.Logger,
	rng *rand.Rand,
	timeout time.Duration,
) domain.LotteryService {
	return &lotteryService{
		eventRepo:        eventRepo,
		userRepo:         userRepo,
		notificationRepo: notificationRepo,
		notifier:         notifier,
		logger:           logger,
		rng:              rng,
		now:              time.Now,
		contextTimeout:   timeout,
	}
}

// intN returns a uniform value in [0, n). *rand.Rand is not safe for
// concurrent use, so draws from different requests serialize here.
func (s *lotteryService) intN(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.IntN(n)
}

// sample selects k distinct indices-worth of user ids from waitlist using a
// partial Fisher-Yates shuffle, so every subset of size k is equally likely.
func (s *lotteryService) sample(waitlist []string, k int) []string {
	pool := make([]string, len(waitlist))
	copy(pool, waitlist)
	s.mu.Lock()
	for i := 0; i < k; i++ {
		j := i + s.rng.IntN(len(pool)-i)
		pool[i], pool[j] = pool[j], pool[i]
	}
	s.mu.Unlock()
	return pool[:k]
}

// updateEvent runs one atomic read-modify-write: fetch the latest document,
// apply the transition, and save with the optimistic version check. A
// version conflict retries from a fresh read so no concurrent update is
// silently lost.
func (s *lotteryService) updateEvent(ctx context.Context, eventID string, apply func(*domain.Event) error) (*domain.Event, error) {
	for attempt := 0; attempt < maxSaveRetries; attempt++ {
		event, err := s.eventRepo.GetByID(ctx, eventID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, domain.ErrNotFound
			}
			return nil, fmt.Errorf("get event: %w", err)
		}
		if err := apply(event); err != nil {
			return nil, err
		}
		if err := s.eventRepo.Save(ctx, event); err != nil {
			if errors.Is(err, domain.ErrVersionConflict) {
				continue
			}
			return nil, fmt.Errorf("save event: %w", err)
		}
		return event, nil
	}
	return nil, domain.ErrVersionConflict
}

// emit sends a notification request and records it in the notification log.
// Failures are logged, never returned: notification delivery must not roll
// back or fail the state transition that triggered it.
func (s *lotteryService) emit(ctx context.Context, event *domain.Event, userIDs []string, typ domain.NotificationType) {
	if len(userIDs) == 0 {
		return
	}
	req := domain.NotificationRequest{
		UserIDs:   userIDs,
		EventID:   event.ID,
		EventName: event.Title,
		Type:      typ,
	}
	if err := s.notifier.Notify(ctx, req); err != nil {
		s.logger.ErrorContext(ctx, "notification delivery failed",
			"event_id", event.ID, "type", typ, "recipients", len(userIDs), "err", err)
	}
	now := s.now()
	records := make([]*domain.Notification, len(userIDs))
	for i, id := range userIDs {
		records[i] = &domain.Notification{
			UserID:    id,
			EventID:   event.ID,
			EventName: event.Title,
			Type:      typ,
			CreatedAt: now,
		}
	}
	if err := s.notificationRepo.CreateBatch(ctx, records); err != nil {
		s.logger.ErrorContext(ctx, "notification log write failed",
			"event_id", event.ID, "type", typ, "err", err)
	}
}

func (s *lotteryService) JoinWaitlist(ctx context.Context, eventID, userID string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	var joined bool
	_, err := s.updateEvent(ctx, eventID, func(e *domain.Event) error {
		var err error
		joined, err = e.AddToWaitlist(userID, s.now())
		return err
	})
	if err != nil {
		return false, err
	}
	return joined, nil
}

func (s *lotteryService) LeaveWaitlist(ctx context.Context, eventID, userID string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	var removed bool
	_, err := s.updateEvent(ctx, eventID, func(e *domain.Event) error {
		removed = e.RemoveFromWaitlist(userID, s.now())
		return nil
	})
	if err != nil {
		return false, err
	}
	return removed, nil
}

// drawTarget computes how many users the initial draw should invite. An
// explicit sample size is clamped to [0, len(waitlist)]; otherwise the draw
// fills capacity, or falls back to a random size in [1, MaxEntrants], or
// invites the whole waitlist when both limits are unbounded.
func (s *lotteryService) drawTarget(e *domain.Event, sampleSize *int) int {
	wl := len(e.Waitlist)
	if sampleSize != nil {
		n := *sampleSize
		if n < 0 {
			n = 0
		}
		if n > wl {
			n = wl
		}
		return n
	}
	if e.Capacity > 0 {
		if e.Capacity < wl {
			return e.Capacity
		}
		return wl
	}
	if e.MaxEntrants > 0 {
		n := s.intN(e.MaxEntrants) + 1
		if n > wl {
			n = wl
		}
		return n
	}
	return wl
}

// usernames resolves display names for the selected users. A lookup failure
// only costs the cached username, never the draw.
func (s *lotteryService) usernames(ctx context.Context, userIDs []string) map[string]string {
	names := make(map[string]string, len(userIDs))
	users, err := s.userRepo.ListByIDs(ctx, userIDs)
	if err != nil {
		s.logger.WarnContext(ctx, "username lookup failed", "err", err)
		return names
	}
	for _, u := range users {
		names[u.ID] = u.Username
	}
	return names
}

func (s *lotteryService) DrawAttendees(ctx context.Context, eventID, callerID string, sampleSize *int) (*domain.DrawResult, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	var invited, remaining []string
	event, err := s.updateEvent(ctx, eventID, func(e *domain.Event) error {
		if e.OwnerID != callerID {
			return domain.ErrForbidden
		}
		n := s.drawTarget(e, sampleSize)
		selected := s.sample(e.Waitlist, n)
		names := s.usernames(ctx, selected)
		now := s.now()
		for _, userID := range selected {
			if err := e.Invite(userID, names[userID], now); err != nil {
				return fmt.Errorf("invite %s: %w", userID, err)
			}
		}
		e.SelectionsFinalized = true
		e.UpdatedAt = now
		invited = selected
		remaining = append([]string(nil), e.Waitlist...)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.emit(ctx, event, invited, domain.NotifyInvited)
	s.emit(ctx, event, remaining, domain.NotifyWaitlisted)
	s.logger.InfoContext(ctx, "draw complete",
		"event_id", event.ID, "invited", len(invited), "remaining_waitlist", len(remaining))
	return &domain.DrawResult{Event: event, Invited: invited}, nil
}

func (s *lotteryService) DrawReplacement(ctx context.Context, eventID, callerID string) (*domain.DrawResult, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	var invited []string
	event, err := s.updateEvent(ctx, eventID, func(e *domain.Event) error {
		if e.OwnerID != callerID {
			return domain.ErrForbidden
		}
		if len(e.Waitlist) == 0 {
			return domain.ErrEmptyWaitlist
		}
		if e.OpenDeclineSlots() == 0 {
			return domain.ErrNoDeclinedSlot
		}
		userID := e.Waitlist[s.intN(len(e.Waitlist))]
		names := s.usernames(ctx, []string{userID})
		if err := e.Invite(userID, names[userID], s.now()); err != nil {
			return fmt.Errorf("invite %s: %w", userID, err)
		}
		e.ReplacementsDrawn++
		invited = []string{userID}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.emit(ctx, event, invited, domain.NotifyInvited)
	s.logger.InfoContext(ctx, "replacement drawn", "event_id", event.ID, "user_id", invited[0])
	return &domain.DrawResult{Event: event, Invited: invited}, nil
}

func (s *lotteryService) RespondToInvitation(ctx context.Context, eventID, userID string, accept bool) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.updateEvent(ctx, eventID, func(e *domain.Event) error {
		return e.RespondToInvitation(userID, accept, s.now())
	})
	if err != nil {
		return nil, err
	}

	if accept {
		s.emit(ctx, event, []string{event.OwnerID}, domain.NotifyAccepted)
		s.emit(ctx, event, []string{userID}, domain.NotifyConfirmed)
	} else {
		s.emit(ctx, event, []string{event.OwnerID}, domain.NotifyDeclined)
	}
	return event, nil
}

func (s *lotteryService) CancelInvitation(ctx context.Context, eventID, callerID, userID string) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.updateEvent(ctx, eventID, func(e *domain.Event) error {
		if e.OwnerID != callerID {
			return domain.ErrForbidden
		}
		return e.CancelInvitation(userID, s.now())
	})
	if err != nil {
		return nil, err
	}

	s.emit(ctx, event, []string{userID}, domain.NotifyCancelled)
	return event, nil
}

func (s *lotteryService) UserStatus(ctx context.Context, eventID, userID string) (domain.UserStatus, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "", domain.ErrNotFound
		}
		return "", fmt.Errorf("get event: %w", err)
	}
	return event.DetermineUserStatus(userID), nil
}
