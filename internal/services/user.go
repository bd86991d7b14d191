package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"eventlottery/internal/domain"
)

type userService struct {
	userRepo         domain.UserRepository
	eventRepo        domain.EventRepository
	notificationRepo domain.NotificationRepository
	logger           *slog.Logger
	contextTimeout   time.Duration
}

// NewUserService creates a UserService with the given repositories.
func NewUserService(userRepo domain.UserRepository, eventRepo domain.EventRepository, notificationRepo domain.NotificationRepository, logger *slog.Logger, timeout time.Duration) domain.UserService {
	return &userService{
		userRepo:         userRepo,
		eventRepo:        eventRepo,
		notificationRepo: notificationRepo,
		logger:           logger,
		contextTimeout:   timeout,
	}
}

func (s *userService) GetByID(ctx context.Context, id string) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}

// DeleteUser removes the account and scrubs the user id from the lottery
// state of every event, one compare-and-swap write per affected document.
func (s *userService) DeleteUser(ctx context.Context, userID string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return domain.ErrUserNotFound
		}
		return fmt.Errorf("get user: %w", err)
	}

	ids, err := s.eventRepo.ListAllIDs(ctx)
	if err != nil {
		return fmt.Errorf("list events: %w", err)
	}
	for _, eventID := range ids {
		if err := s.scrubFromEvent(ctx, eventID, userID); err != nil {
			return fmt.Errorf("scrub user from event %s: %w", eventID, err)
		}
	}

	if err := s.userRepo.Delete(ctx, userID); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	s.logger.InfoContext(ctx, "user deleted", "user_id", userID, "events_checked", len(ids))
	return nil
}

func (s *userService) scrubFromEvent(ctx context.Context, eventID, userID string) error {
	for attempt := 0; attempt < maxSaveRetries; attempt++ {
		event, err := s.eventRepo.GetByID(ctx, eventID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				// Deleted since the listing; nothing to scrub.
				return nil
			}
			return err
		}
		if !event.ScrubUser(userID, time.Now()) {
			return nil
		}
		if err := s.eventRepo.Save(ctx, event); err != nil {
			if errors.Is(err, domain.ErrVersionConflict) {
				continue
			}
			return err
		}
		return nil
	}
	return domain.ErrVersionConflict
}

func (s *userService) ListMyNotifications(ctx context.Context, userID string, params domain.PaginationParams) ([]*domain.Notification, int, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	notifications, total, err := s.notificationRepo.ListByUserID(ctx, userID, params)
	if err != nil {
		return nil, 0, fmt.Errorf("list notifications: %w", err)
	}
	if notifications == nil {
		notifications = []*domain.Notification{}
	}
	return notifications, total, nil
}
