package domain

import (
	"context"
	"time"
)

// EventView is the API projection of an event: entity fields plus the derived
// availability, with the raw registration-id list stripped.
type EventView struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Venue       string        `json:"venue"`
	Date        time.Time     `json:"event_date"`
	Category    EventCategory `json:"category"`
	Type        EventType     `json:"event_type"`
	Price       float64       `json:"price"`
	TotalSeats  int           `json:"total_seats"`
	Status      EventStatus   `json:"status"`
	Host        *HostSummary  `json:"host,omitempty"`
	Availability
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewEventView projects an event into its API view.
func NewEventView(e *Event) *EventView {
	return &EventView{
		ID:           e.ID,
		Name:         e.Name,
		Description:  e.Description,
		Venue:        e.Venue,
		Date:         e.Date,
		Category:     e.Category,
		Type:         e.Type,
		Price:        e.Price,
		TotalSeats:   e.TotalSeats,
		Status:       e.Status,
		Host:         e.Host,
		Availability: e.Availability(),
		CreatedAt:    e.CreatedAt,
		UpdatedAt:    e.UpdatedAt,
	}
}

// Attendee is one resolved roster entry, visible to the event host only.
type Attendee struct {
	RegistrationID string    `json:"registrationId"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	Phone          string    `json:"phone"`
	RegisteredAt   time.Time `json:"registeredAt"`
}

// EventDetail is the single-event view. Attendees is populated only when the
// caller is the event's host.
type EventDetail struct {
	EventView
	Attendees []Attendee `json:"registeredUsers,omitempty"`
}

// EventPage is one page of an event listing.
type EventPage struct {
	Items       []*EventView `json:"events"`
	CurrentPage int          `json:"currentPage"`
	TotalPages  int          `json:"totalPages"`
	TotalCount  int          `json:"totalCount"`
	HasNext     bool         `json:"hasNext"`
	HasPrev     bool         `json:"hasPrev"`
}

// EventStats is the host-only statistics view. Registered is counted from the
// registration records, not the cached list on the event.
type EventStats struct {
	EventName      string     `json:"eventName"`
	TotalSeats     int        `json:"totalSeats"`
	Registered     int        `json:"registeredUsers"`
	AvailableSeats int        `json:"availableSeats"`
	OccupancyRate  string     `json:"occupancyRate"`
	Attendees      []Attendee `json:"attendees"`
}

// RegisteredEventView pairs one of the caller's registrations with its event.
type RegisteredEventView struct {
	Event          *EventView `json:"event"`
	RegistrationID string     `json:"registrationId"`
	RegisteredAt   time.Time  `json:"registeredAt"`
}

// EventQueryService builds the read-side views over events.
type EventQueryService interface {
	List(ctx context.Context, filter EventFilter, sort EventSort, page PaginationParams) (*EventPage, error)
	// Get returns the event detail; the attendee roster is included only when
	// callerID is the event's host. callerID may be empty for anonymous reads.
	Get(ctx context.Context, eventID, callerID string) (*EventDetail, error)
	Stats(ctx context.Context, eventID, callerID string) (*EventStats, error)
	ListByHost(ctx context.Context, hostID string) ([]*EventView, error)
	ListRegisteredEvents(ctx context.Context, userID string) ([]*RegisteredEventView, error)
}
