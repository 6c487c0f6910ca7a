package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"eventmanagement/internal/domain"
)

type eventService struct {
	eventRepo      domain.EventRepository
	userRepo       domain.UserRepository
	emailService   domain.EmailService
	clock          domain.Clock
	logger         *slog.Logger
	contextTimeout time.Duration
}

// NewEventService creates the host-facing event lifecycle service.
func NewEventService(
	eventRepo domain.EventRepository,
	userRepo domain.UserRepository,
	emailService domain.EmailService,
	clock domain.Clock,
	logger *slog.Logger,
	timeout time.Duration,
) domain.EventService {
	return &eventService{
		eventRepo:      eventRepo,
		userRepo:       userRepo,
		emailService:   emailService,
		clock:          clock,
		logger:         logger,
		contextTimeout: timeout,
	}
}

func (s *eventService) Create(ctx context.Context, input domain.EventInput, hostID string) (*domain.EventView, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if hostID == "" {
		return nil, domain.ErrUnauthorized
	}
	input.Name = strings.TrimSpace(input.Name)
	input.Venue = strings.TrimSpace(input.Venue)
	input.Description = strings.TrimSpace(input.Description)
	if input.Name == "" || input.Venue == "" || input.Description == "" || input.Date.IsZero() {
		return nil, fmt.Errorf("%w: name, date, venue and description are required", domain.ErrValidation)
	}
	if input.TotalSeats < domain.MinTotalSeats || input.TotalSeats > domain.MaxTotalSeats {
		return nil, fmt.Errorf("%w: total seats must be between %d and %d", domain.ErrValidation, domain.MinTotalSeats, domain.MaxTotalSeats)
	}
	if input.Price < 0 {
		return nil, fmt.Errorf("%w: price cannot be negative", domain.ErrValidation)
	}

	now := s.clock.Now()
	if !input.Date.After(now) {
		return nil, fmt.Errorf("%w: event date must be in the future", domain.ErrValidation)
	}

	category := input.Category
	if category == "" {
		category = domain.CategoryOther
	} else if !category.Valid() {
		return nil, fmt.Errorf("%w: unknown category %q", domain.ErrValidation, category)
	}
	eventType := input.Type
	if eventType == "" {
		eventType = domain.TypeOffline
	} else if !eventType.Valid() {
		return nil, fmt.Errorf("%w: unknown event type %q", domain.ErrValidation, eventType)
	}

	event := &domain.Event{
		Name:            input.Name,
		Description:     input.Description,
		Venue:           input.Venue,
		Date:            input.Date,
		Category:        category,
		Type:            eventType,
		Price:           input.Price,
		TotalSeats:      input.TotalSeats,
		Status:          domain.StatusActive,
		HostID:          hostID,
		RegistrationIDs: []string{},
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.eventRepo.Create(ctx, event); err != nil {
		return nil, fmt.Errorf("create event: %w", err)
	}

	host, err := s.userRepo.GetByID(ctx, hostID)
	if err != nil {
		s.logger.Error("load host for creation email", "event_id", event.ID, "err", err)
	} else {
		event.Host = &domain.HostSummary{ID: host.ID, Name: host.Name, Email: host.Email}
		if err := s.emailService.SendEventCreated(ctx, host.Email, host.Name, eventEmailData(event)); err != nil {
			s.logger.Error("send event creation email", "event_id", event.ID, "err", err)
		}
	}
	return domain.NewEventView(event), nil
}

func (s *eventService) Update(ctx context.Context, eventID, hostID string, patch domain.EventPatch) (*domain.EventView, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	if event.HostID != hostID {
		return nil, domain.ErrForbidden
	}

	if patch.TotalSeats != nil {
		if *patch.TotalSeats < event.Occupancy() {
			return nil, domain.ErrCapacityBelowRegistrations
		}
		if *patch.TotalSeats < domain.MinTotalSeats || *patch.TotalSeats > domain.MaxTotalSeats {
			return nil, fmt.Errorf("%w: total seats must be between %d and %d", domain.ErrValidation, domain.MinTotalSeats, domain.MaxTotalSeats)
		}
	}
	if patch.Date != nil {
		now := s.clock.Now()
		// A still-future event cannot be moved into the past. Events already
		// in the past may have their (historic) date corrected.
		if patch.Date.Before(now) && !event.Date.Before(now) {
			return nil, fmt.Errorf("%w: cannot move the event date into the past", domain.ErrValidation)
		}
	}
	if patch.Category != nil && !patch.Category.Valid() {
		return nil, fmt.Errorf("%w: unknown category %q", domain.ErrValidation, *patch.Category)
	}
	if patch.Type != nil && !patch.Type.Valid() {
		return nil, fmt.Errorf("%w: unknown event type %q", domain.ErrValidation, *patch.Type)
	}
	if patch.Price != nil && *patch.Price < 0 {
		return nil, fmt.Errorf("%w: price cannot be negative", domain.ErrValidation)
	}

	updated, err := s.eventRepo.Update(ctx, eventID, patch)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("update event: %w", err)
	}
	return domain.NewEventView(updated), nil
}

func (s *eventService) Delete(ctx context.Context, eventID, hostID string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("get event: %w", err)
	}
	if event.HostID != hostID {
		return domain.ErrForbidden
	}

	// Deletion does not cascade to registrations; readers filter the orphans.
	if err := s.eventRepo.Delete(ctx, eventID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("delete event: %w", err)
	}
	return nil
}
