package domain

import (
	"context"
	"errors"
	"time"
)

// ErrCapacityBelowRegistrations is returned when an edit attempts to shrink
// total seats below the event's current registration count.
var ErrCapacityBelowRegistrations = errors.New("total seats below current registrations")

// EventCategory classifies an event.
type EventCategory string

const (
	CategoryTechnology    EventCategory = "Technology"
	CategoryBusiness      EventCategory = "Business"
	CategoryHealth        EventCategory = "Health"
	CategoryEducation     EventCategory = "Education"
	CategoryEntertainment EventCategory = "Entertainment"
	CategorySports        EventCategory = "Sports"
	CategoryOther         EventCategory = "Other"
)

// Valid reports whether c is one of the known categories.
func (c EventCategory) Valid() bool {
	switch c {
	case CategoryTechnology, CategoryBusiness, CategoryHealth, CategoryEducation,
		CategoryEntertainment, CategorySports, CategoryOther:
		return true
	}
	return false
}

// EventType is the delivery modality of an event.
type EventType string

const (
	TypeOnline  EventType = "Online"
	TypeOffline EventType = "Offline"
	TypeHybrid  EventType = "Hybrid"
)

// Valid reports whether t is one of the known event types.
func (t EventType) Valid() bool {
	switch t {
	case TypeOnline, TypeOffline, TypeHybrid:
		return true
	}
	return false
}

// EventStatus is the lifecycle state of an event.
type EventStatus string

const (
	StatusActive    EventStatus = "Active"
	StatusCancelled EventStatus = "Cancelled"
	StatusCompleted EventStatus = "Completed"
)

// Seat capacity bounds for an event.
const (
	MinTotalSeats = 1
	MaxTotalSeats = 10000
)

// HostSummary is the host reference joined onto events on every read.
type HostSummary struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Event is a hostable, time-boxed activity with finite seat capacity.
// RegistrationIDs is the insertion-ordered cache of registration IDs; the
// Registration records are the source of truth and the list is rebuildable
// from them. The list itself is never exposed through the API.
type Event struct {
	ID              string        `json:"id"`
	Name            string        `json:"name"`
	Description     string        `json:"description"`
	Venue           string        `json:"venue"`
	Date            time.Time     `json:"event_date"`
	Category        EventCategory `json:"category"`
	Type            EventType     `json:"event_type"`
	Price           float64       `json:"price"`
	TotalSeats      int           `json:"total_seats"`
	Status          EventStatus   `json:"status"`
	HostID          string        `json:"-"`
	Host            *HostSummary  `json:"host,omitempty"`
	RegistrationIDs []string      `json:"-"`
	CreatedAt       time.Time     `json:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at"`
}

// Occupancy returns the current registration count.
func (e *Event) Occupancy() int { return len(e.RegistrationIDs) }

// Availability is the derived seat availability attached to every event
// returned by the API.
type Availability struct {
	RegisteredCount int  `json:"registeredCount"`
	AvailableSeats  int  `json:"availableSeats"`
	IsFullyBooked   bool `json:"isFullyBooked"`
}

// ComputeAvailability derives availability from capacity and occupancy. Every
// read path goes through this one function so the derived fields can never be
// computed inconsistently.
func ComputeAvailability(totalSeats, registered int) Availability {
	return Availability{
		RegisteredCount: registered,
		AvailableSeats:  totalSeats - registered,
		IsFullyBooked:   registered >= totalSeats,
	}
}

// Availability returns the event's current derived availability.
func (e *Event) Availability() Availability {
	return ComputeAvailability(e.TotalSeats, e.Occupancy())
}

// EventFilter narrows event listings. Search matches name, description, or
// venue case-insensitively. Category "" or "all" means no category filter.
// Past events are excluded unless IncludePast is set.
type EventFilter struct {
	Search      string
	Category    string
	IncludePast bool
}

// EventSort selects the listing order. Field "" or "event_date" uses the
// smart date ordering: upcoming events (soonest first) before past events
// (most recent first), regardless of Desc. Any other field sorts plainly.
type EventSort struct {
	Field string
	Desc  bool
}

// SmartDate reports whether this sort uses the smart date ordering.
func (s EventSort) SmartDate() bool {
	return s.Field == "" || s.Field == "event_date"
}

// EventPatch carries the host-editable fields of an event. Nil fields are
// left unchanged.
type EventPatch struct {
	Name        *string
	Description *string
	Venue       *string
	Date        *time.Time
	Category    *EventCategory
	Type        *EventType
	Price       *float64
	TotalSeats  *int
}

// EventRepository defines typed storage access for events. It carries no
// business rules; admission and cancellation decisions live in the seat
// ledger, which relies on the atomic append/remove primitives below.
type EventRepository interface {
	Create(ctx context.Context, e *Event) error
	GetByID(ctx context.Context, id string) (*Event, error)
	List(ctx context.Context, filter EventFilter, sort EventSort, page PaginationParams, now time.Time) ([]*Event, error)
	Count(ctx context.Context, filter EventFilter, now time.Time) (int, error)
	ListByHostID(ctx context.Context, hostID string) ([]*Event, error)
	Update(ctx context.Context, id string, patch EventPatch) (*Event, error)
	Delete(ctx context.Context, id string) error

	// AppendRegistrationID appends regID to the event's registration list as a
	// single conditional update that only succeeds while occupancy is below
	// capacity. It returns the occupancy and capacity observed after the
	// append; a failed condition yields ErrCapacityExceeded.
	AppendRegistrationID(ctx context.Context, eventID, regID string) (occupancy, totalSeats int, err error)

	// RemoveRegistrationID removes regID from the event's registration list.
	RemoveRegistrationID(ctx context.Context, eventID, regID string) error

	// CompleteExpired flips every Active event dated before now to Completed
	// and returns how many rows changed. Running it twice is a no-op.
	CompleteExpired(ctx context.Context, now time.Time) (int64, error)
}

// EventInput carries the fields accepted when creating an event.
type EventInput struct {
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Venue       string        `json:"venue"`
	Date        time.Time     `json:"event_date"`
	Category    EventCategory `json:"category"`
	Type        EventType     `json:"event_type"`
	Price       float64       `json:"price"`
	TotalSeats  int           `json:"total_seats"`
}

// EventService defines the host-facing event lifecycle operations.
type EventService interface {
	Create(ctx context.Context, input EventInput, hostID string) (*EventView, error)
	Update(ctx context.Context, eventID, hostID string, patch EventPatch) (*EventView, error)
	Delete(ctx context.Context, eventID, hostID string) error
}
