package services

import (
	"context"
	"fmt"
	"log"

	"eventmanagement/internal/domain"
)

type emailService struct {
	mailer   domain.Mailer
	renderer domain.EmailTemplateRenderer
}

// NewEmailService returns an EmailService that uses the given Mailer and template renderer.
func NewEmailService(mailer domain.Mailer, renderer domain.EmailTemplateRenderer) domain.EmailService {
	return &emailService{mailer: mailer, renderer: renderer}
}

// eventEmailPayload is the template payload shared by the event emails.
type eventEmailPayload struct {
	RecipientName string
	EventName     string
	EventDate     string
	EventVenue    string
	Category      string
	EventType     string
	Price         float64
	TotalSeats    int

	RegistrationID string
	AttendeeName   string
	AttendeeEmail  string
	AttendeePhone  string
}

const emailDateLayout = "Monday, 02 Jan 2006 at 15:04"

func payloadFor(recipientName string, data *domain.EventEmailData) *eventEmailPayload {
	return &eventEmailPayload{
		RecipientName: recipientName,
		EventName:     data.EventName,
		EventDate:     data.EventDate.Format(emailDateLayout),
		EventVenue:    data.EventVenue,
		Category:      string(data.Category),
		EventType:     string(data.EventType),
		Price:         data.Price,
		TotalSeats:    data.TotalSeats,
	}
}

func (s *emailService) send(templateName, to string, payload any) error {
	subject, htmlBody, textBody, err := s.renderer.Render(templateName, payload)
	if err != nil {
		return fmt.Errorf("render %s template: %w", templateName, err)
	}
	if err := s.mailer.Send(to, subject, htmlBody, textBody); err != nil {
		return fmt.Errorf("send %s email: %w", templateName, err)
	}
	log.Printf("[EMAIL] %s email sent to %s", templateName, to)
	return nil
}

// SendWelcome sends the signup welcome email.
func (s *emailService) SendWelcome(ctx context.Context, data *domain.WelcomeEmailData) error {
	if data == nil {
		return fmt.Errorf("welcome email data is nil")
	}
	return s.send("welcome", data.Email, data)
}

// SendEventCreated confirms a newly created event to its host.
func (s *emailService) SendEventCreated(ctx context.Context, to, hostName string, data *domain.EventEmailData) error {
	if data == nil {
		return fmt.Errorf("event email data is nil")
	}
	return s.send("event_created", to, payloadFor(hostName, data))
}

// SendRegistrationConfirmed confirms a seat to the attendee.
func (s *emailService) SendRegistrationConfirmed(ctx context.Context, reg *domain.Registration, data *domain.EventEmailData) error {
	if reg == nil || data == nil {
		return fmt.Errorf("registration email data is nil")
	}
	payload := payloadFor(reg.Name, data)
	payload.RegistrationID = reg.ID
	payload.AttendeeName = reg.Name
	payload.AttendeeEmail = reg.Email
	payload.AttendeePhone = reg.Phone
	return s.send("registration_confirmed", reg.Email, payload)
}

// SendEventFullyBooked tells the host their event just filled its last seat.
func (s *emailService) SendEventFullyBooked(ctx context.Context, to, hostName string, data *domain.EventEmailData) error {
	if data == nil {
		return fmt.Errorf("event email data is nil")
	}
	return s.send("event_fully_booked", to, payloadFor(hostName, data))
}
