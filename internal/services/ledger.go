package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"eventmanagement/internal/domain"
)

type seatLedger struct {
	eventRepo        domain.EventRepository
	registrationRepo domain.RegistrationRepository
	emailService     domain.EmailService
	clock            domain.Clock
	logger           *slog.Logger
	contextTimeout   time.Duration
}

// NewSeatLedger creates the SeatLedger with the given repositories. All seat
// admission, cancellation, and status-transition decisions go through it.
func NewSeatLedger(
	eventRepo domain.EventRepository,
	registrationRepo domain.RegistrationRepository,
	emailService domain.EmailService,
	clock domain.Clock,
	logger *slog.Logger,
	timeout time.Duration,
) domain.SeatLedger {
	return &seatLedger{
		eventRepo:        eventRepo,
		registrationRepo: registrationRepo,
		emailService:     emailService,
		clock:            clock,
		logger:           logger,
		contextTimeout:   timeout,
	}
}

func (s *seatLedger) AdmitRegistration(ctx context.Context, eventID string, attendee domain.AttendeeFields, callerID string) (*domain.AdmissionResult, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}

	now := s.clock.Now()
	if !event.Date.After(now) {
		return nil, domain.ErrRegistrationClosed
	}

	if _, err := s.registrationRepo.GetByEventAndUser(ctx, eventID, callerID); err == nil {
		return nil, domain.ErrAlreadyRegistered
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("get registration: %w", err)
	}

	if event.Occupancy() >= event.TotalSeats {
		return nil, domain.ErrCapacityExceeded
	}

	if attendee.Name == "" || attendee.Email == "" || attendee.Phone == "" {
		return nil, fmt.Errorf("%w: attendee name, email and phone are required", domain.ErrValidation)
	}

	// Registration record first, event list second: a crash between the two
	// writes leaves the registration as the source of truth for the seat.
	reg := domain.NewRegistration(eventID, callerID, attendee.Name, attendee.Email, attendee.Phone, now)
	if err := s.registrationRepo.Create(ctx, reg); err != nil {
		if errors.Is(err, domain.ErrAlreadyRegistered) {
			return nil, domain.ErrAlreadyRegistered
		}
		return nil, fmt.Errorf("create registration: %w", err)
	}

	occupancy, totalSeats, err := s.eventRepo.AppendRegistrationID(ctx, eventID, reg.ID)
	if err != nil {
		if errors.Is(err, domain.ErrCapacityExceeded) {
			// Lost the race for the last seat; release the registration.
			if delErr := s.registrationRepo.Delete(ctx, reg.ID); delErr != nil {
				s.logger.Error("release registration after lost seat race",
					"event_id", eventID, "registration_id", reg.ID, "err", delErr)
			}
			return nil, domain.ErrCapacityExceeded
		}
		return nil, fmt.Errorf("append registration to event: %w", err)
	}

	data := eventEmailData(event)
	if err := s.emailService.SendRegistrationConfirmed(ctx, reg, data); err != nil {
		s.logger.Error("send registration confirmation", "event_id", eventID, "err", err)
	}
	// The host is notified exactly on the admission that filled the last
	// seat; later attempts never get here because they are rejected above.
	if occupancy == totalSeats && event.Host != nil {
		if err := s.emailService.SendEventFullyBooked(ctx, event.Host.Email, event.Host.Name, data); err != nil {
			s.logger.Error("send fully booked notice", "event_id", eventID, "err", err)
		}
	}

	return &domain.AdmissionResult{
		Registration: reg,
		EventName:    event.Name,
		Availability: domain.ComputeAvailability(totalSeats, occupancy),
	}, nil
}

func (s *seatLedger) CancelRegistration(ctx context.Context, eventID, callerID string) (*domain.CancellationResult, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}

	reg, err := s.registrationRepo.GetByEventAndUser(ctx, eventID, callerID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotRegistered
		}
		return nil, fmt.Errorf("get registration: %w", err)
	}

	if event.Date.Sub(s.clock.Now()) < domain.CancellationWindow {
		return nil, domain.ErrCancellationWindowClosed
	}

	// Event list first, registration second, the mirror image of admission:
	// the registration record stays authoritative until both writes land.
	if err := s.eventRepo.RemoveRegistrationID(ctx, eventID, reg.ID); err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("remove registration from event: %w", err)
	}
	if err := s.registrationRepo.Delete(ctx, reg.ID); err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("delete registration: %w", err)
	}

	return &domain.CancellationResult{
		EventName:      event.Name,
		RefundEligible: true,
	}, nil
}

func (s *seatLedger) RegistrationStatus(ctx context.Context, eventID, callerID string) (*domain.RegistrationStatus, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if _, err := s.eventRepo.GetByID(ctx, eventID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}

	reg, err := s.registrationRepo.GetByEventAndUser(ctx, eventID, callerID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return &domain.RegistrationStatus{IsRegistered: false}, nil
		}
		return nil, fmt.Errorf("get registration: %w", err)
	}
	return &domain.RegistrationStatus{
		IsRegistered:   true,
		RegistrationID: reg.ID,
		RegisteredAt:   &reg.CreatedAt,
	}, nil
}

func (s *seatLedger) SweepExpiredEvents(ctx context.Context, now time.Time) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	completed, err := s.eventRepo.CompleteExpired(ctx, now)
	if err != nil {
		return 0, fmt.Errorf("complete expired events: %w", err)
	}
	if completed > 0 {
		s.logger.Info("completed expired events", "count", completed)
	}
	return completed, nil
}

// eventEmailData builds the email payload shared by the transactional emails.
func eventEmailData(e *domain.Event) *domain.EventEmailData {
	return &domain.EventEmailData{
		EventName:  e.Name,
		EventDate:  e.Date,
		EventVenue: e.Venue,
		Category:   e.Category,
		EventType:  e.Type,
		Price:      e.Price,
		TotalSeats: e.TotalSeats,
	}
}
