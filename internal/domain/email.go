package domain

import (
	"context"
	"time"
)

// Mailer defines the contract for sending emails (infrastructure port).
type Mailer interface {
	Send(to, subject, html, text string) error
}

// EmailTemplateRenderer renders email content from a named template with the given data.
type EmailTemplateRenderer interface {
	Render(templateName string, data any) (subject, htmlBody, textBody string, err error)
}

// EventEmailData holds the event fields shared by the transactional emails.
type EventEmailData struct {
	EventName  string
	EventDate  time.Time
	EventVenue string
	Category   EventCategory
	EventType  EventType
	Price      float64
	TotalSeats int
}

// WelcomeEmailData holds data for the signup welcome email.
type WelcomeEmailData struct {
	Email string
	Name  string
}

// EmailService sends the transactional emails tied to the event lifecycle.
// Sends are best-effort: callers log failures and never propagate them.
type EmailService interface {
	SendWelcome(ctx context.Context, data *WelcomeEmailData) error
	SendEventCreated(ctx context.Context, to, hostName string, data *EventEmailData) error
	SendRegistrationConfirmed(ctx context.Context, reg *Registration, data *EventEmailData) error
	SendEventFullyBooked(ctx context.Context, to, hostName string, data *EventEmailData) error
}
