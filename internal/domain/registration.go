package domain

import (
	"context"
	"errors"
	"time"
)

// Sentinel errors for seat admission and cancellation decisions.
var (
	ErrAlreadyRegistered        = errors.New("already registered for this event")
	ErrCapacityExceeded         = errors.New("event is fully booked")
	ErrRegistrationClosed       = errors.New("cannot register for past events")
	ErrNotRegistered            = errors.New("not registered for this event")
	ErrCancellationWindowClosed = errors.New("cannot cancel less than 24 hours before the event")
)

// CancellationWindow is the minimum time before an event's start at which a
// registration may still be cancelled.
const CancellationWindow = 24 * time.Hour

// Registration is one attendee's claim on one seat of one event. UserID may
// be empty for legacy registrations made before accounts were required.
type Registration struct {
	ID        string    `json:"id"`
	EventID   string    `json:"event_id"`
	UserID    string    `json:"user_id,omitempty"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	CreatedAt time.Time `json:"registeredAt"`
}

// NewRegistration returns a new Registration. ID is set by the repository on
// create.
func NewRegistration(eventID, userID, name, email, phone string, createdAt time.Time) *Registration {
	return &Registration{
		EventID:   eventID,
		UserID:    userID,
		Name:      name,
		Email:     email,
		Phone:     phone,
		CreatedAt: createdAt,
	}
}

// RegistrationRepository defines storage access for registrations. The store
// enforces uniqueness of (email, event); Create reports a collision as
// ErrAlreadyRegistered. The (user, event) pair is checked by the seat ledger
// instead because UserID may be absent.
type RegistrationRepository interface {
	Create(ctx context.Context, reg *Registration) error
	GetByEventAndUser(ctx context.Context, eventID, userID string) (*Registration, error)
	// ListByEventID returns the event's registrations in insertion order.
	ListByEventID(ctx context.Context, eventID string) ([]*Registration, error)
	ListByUserID(ctx context.Context, userID string) ([]*Registration, error)
	Delete(ctx context.Context, id string) error
}

// AttendeeFields are the details captured for the person taking a seat.
type AttendeeFields struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// AdmissionResult is returned on a successful seat admission.
type AdmissionResult struct {
	Registration *Registration `json:"registration"`
	EventName    string        `json:"eventName"`
	Availability Availability  `json:"availability"`
}

// CancellationResult confirms a cancelled registration. RefundEligible is a
// declared policy flag; no payment integration exists.
type CancellationResult struct {
	EventName      string `json:"eventName"`
	RefundEligible bool   `json:"refundEligible"`
}

// RegistrationStatus reports whether a caller holds a seat on an event.
type RegistrationStatus struct {
	IsRegistered   bool       `json:"isRegistered"`
	RegistrationID string     `json:"registrationId,omitempty"`
	RegisteredAt   *time.Time `json:"registeredAt,omitempty"`
}

// SeatLedger is the sole authority for seat admission, cancellation, and
// event status transitions.
type SeatLedger interface {
	AdmitRegistration(ctx context.Context, eventID string, attendee AttendeeFields, callerID string) (*AdmissionResult, error)
	CancelRegistration(ctx context.Context, eventID, callerID string) (*CancellationResult, error)
	RegistrationStatus(ctx context.Context, eventID, callerID string) (*RegistrationStatus, error)
	// SweepExpiredEvents transitions every expired Active event to Completed.
	SweepExpiredEvents(ctx context.Context, now time.Time) (int64, error)
}
