package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"eventlottery/internal/domain"
)

type eventService struct {
	eventRepo      domain.EventRepository
	contextTimeout time.Duration
}

// NewEventService creates an EventService backed by the given repository.
func NewEventService(eventRepo domain.EventRepository, timeout time.Duration) domain.EventService {
	return &eventService{
		eventRepo:      eventRepo,
		contextTimeout: timeout,
	}
}

func (s *eventService) CreateEvent(ctx context.Context, event *domain.Event) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if event.OwnerID == "" {
		return fmt.Errorf("event owner is required: %w", domain.ErrInvalidInput)
	}
	if event.Title == "" {
		return fmt.Errorf("event title is required: %w", domain.ErrInvalidInput)
	}
	if event.Capacity < 0 || event.MaxEntrants < 0 {
		return fmt.Errorf("capacity and max_entrants must not be negative: %w", domain.ErrInvalidInput)
	}

	now := time.Now()
	event.CreatedAt = now
	event.UpdatedAt = now
	return s.eventRepo.Create(ctx, event)
}

func (s *eventService) GetEvent(ctx context.Context, eventID string) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	return event, nil
}

func (s *eventService) UpdateEvent(ctx context.Context, eventID, callerID string, title, description *string, capacity, maxEntrants *int) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	for attempt := 0; attempt < maxSaveRetries; attempt++ {
		event, err := s.eventRepo.GetByID(ctx, eventID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, domain.ErrNotFound
			}
			return nil, fmt.Errorf("get event: %w", err)
		}
		if event.OwnerID != callerID {
			return nil, domain.ErrForbidden
		}
		if title != nil {
			if *title == "" {
				return nil, domain.ErrInvalidInput
			}
			event.Title = *title
		}
		if description != nil {
			event.Description = *description
		}
		if capacity != nil {
			if *capacity < 0 {
				return nil, domain.ErrInvalidInput
			}
			event.Capacity = *capacity
		}
		if maxEntrants != nil {
			if *maxEntrants < 0 {
				return nil, domain.ErrInvalidInput
			}
			event.MaxEntrants = *maxEntrants
		}
		event.UpdatedAt = time.Now()
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

func (s *eventService) DeleteEvent(ctx context.Context, eventID, callerID string, callerRole domain.Role) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("get event: %w", err)
	}
	if event.OwnerID != callerID && !domain.RoleCan(callerRole, domain.CapDeleteAnyEvent) {
		return domain.ErrForbidden
	}
	if err := s.eventRepo.Delete(ctx, eventID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("delete event: %w", err)
	}
	return nil
}

func (s *eventService) BrowseEvents(ctx context.Context, filter domain.EventFilter, params domain.PaginationParams) ([]*domain.Event, int, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	events, total, err := s.eventRepo.List(ctx, filter, params)
	if err != nil {
		return nil, 0, fmt.Errorf("list events: %w", err)
	}
	if events == nil {
		events = []*domain.Event{}
	}
	return events, total, nil
}
