package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"eventmanagement/internal/domain"
)

const defaultPageSize = 10

type eventQueryService struct {
	eventRepo        domain.EventRepository
	registrationRepo domain.RegistrationRepository
	clock            domain.Clock
	contextTimeout   time.Duration
}

// NewEventQueryService creates the read-side service over events.
func NewEventQueryService(
	eventRepo domain.EventRepository,
	registrationRepo domain.RegistrationRepository,
	clock domain.Clock,
	timeout time.Duration,
) domain.EventQueryService {
	return &eventQueryService{
		eventRepo:        eventRepo,
		registrationRepo: registrationRepo,
		clock:            clock,
		contextTimeout:   timeout,
	}
}

func (s *eventQueryService) List(ctx context.Context, filter domain.EventFilter, sort domain.EventSort, page domain.PaginationParams) (*domain.EventPage, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if page.Page < 1 {
		page.Page = 1
	}
	if page.PageSize < 1 {
		page.PageSize = defaultPageSize
	}

	now := s.clock.Now()
	events, err := s.eventRepo.List(ctx, filter, sort, page, now)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	total, err := s.eventRepo.Count(ctx, filter, now)
	if err != nil {
		return nil, fmt.Errorf("count events: %w", err)
	}

	items := make([]*domain.EventView, 0, len(events))
	for _, e := range events {
		items = append(items, domain.NewEventView(e))
	}

	totalPages := (total + page.PageSize - 1) / page.PageSize
	if totalPages < 1 {
		totalPages = 1
	}
	return &domain.EventPage{
		Items:       items,
		CurrentPage: page.Page,
		TotalPages:  totalPages,
		TotalCount:  total,
		HasNext:     page.Page < totalPages,
		HasPrev:     page.Page > 1,
	}, nil
}

func (s *eventQueryService) Get(ctx context.Context, eventID, callerID string) (*domain.EventDetail, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}

	detail := &domain.EventDetail{EventView: *domain.NewEventView(event)}

	// The resolved roster is host-only; everyone else just gets the counts.
	if callerID != "" && callerID == event.HostID {
		regs, err := s.registrationRepo.ListByEventID(ctx, eventID)
		if err != nil {
			return nil, fmt.Errorf("list registrations: %w", err)
		}
		detail.Attendees = attendeesOf(regs)
	}
	return detail, nil
}

func (s *eventQueryService) Stats(ctx context.Context, eventID, callerID string) (*domain.EventStats, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	if event.HostID != callerID {
		return nil, domain.ErrForbidden
	}

	// Counted from the registration records, which stay authoritative even if
	// the event's cached list has drifted.
	regs, err := s.registrationRepo.ListByEventID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("list registrations: %w", err)
	}

	availability := domain.ComputeAvailability(event.TotalSeats, len(regs))
	attendees := make([]domain.Attendee, 0, len(regs))
	for i := len(regs) - 1; i >= 0; i-- { // newest first
		attendees = append(attendees, attendeeOf(regs[i]))
	}
	return &domain.EventStats{
		EventName:      event.Name,
		TotalSeats:     event.TotalSeats,
		Registered:     availability.RegisteredCount,
		AvailableSeats: availability.AvailableSeats,
		OccupancyRate:  fmt.Sprintf("%.2f%%", float64(len(regs))/float64(event.TotalSeats)*100),
		Attendees:      attendees,
	}, nil
}

func (s *eventQueryService) ListByHost(ctx context.Context, hostID string) ([]*domain.EventView, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	events, err := s.eventRepo.ListByHostID(ctx, hostID)
	if err != nil {
		return nil, fmt.Errorf("list events by host: %w", err)
	}
	views := make([]*domain.EventView, 0, len(events))
	for _, e := range events {
		views = append(views, domain.NewEventView(e))
	}
	return views, nil
}

func (s *eventQueryService) ListRegisteredEvents(ctx context.Context, userID string) ([]*domain.RegisteredEventView, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	regs, err := s.registrationRepo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list registrations: %w", err)
	}

	result := make([]*domain.RegisteredEventView, 0, len(regs))
	for _, reg := range regs {
		event, err := s.eventRepo.GetByID(ctx, reg.EventID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				// Event deleted but registration remains; skip the orphan.
				continue
			}
			return nil, fmt.Errorf("get event for registration: %w", err)
		}
		result = append(result, &domain.RegisteredEventView{
			Event:          domain.NewEventView(event),
			RegistrationID: reg.ID,
			RegisteredAt:   reg.CreatedAt,
		})
	}
	return result, nil
}

func attendeeOf(reg *domain.Registration) domain.Attendee {
	return domain.Attendee{
		RegistrationID: reg.ID,
		Name:           reg.Name,
		Email:          reg.Email,
		Phone:          reg.Phone,
		RegisteredAt:   reg.CreatedAt,
	}
}

func attendeesOf(regs []*domain.Registration) []domain.Attendee {
	attendees := make([]domain.Attendee, 0, len(regs))
	for _, reg := range regs {
		attendees = append(attendees, attendeeOf(reg))
	}
	return attendees
}
