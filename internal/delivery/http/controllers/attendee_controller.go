package controllers

import (
	"log/slog"
	"net/http"

	"eventmanagement/internal/delivery/http/helpers"
	"eventmanagement/internal/delivery/http/middleware"
	"eventmanagement/internal/domain"
)

// RegisterRequest is the request body for registering a seat.
type RegisterRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// Validate implements Validator.
func (r RegisterRequest) Validate() []string {
	var errs []string
	if r.Name == "" {
		errs = append(errs, "name is required")
	}
	if r.Email == "" {
		errs = append(errs, "email is required")
	}
	if r.Phone == "" {
		errs = append(errs, "phone is required")
	}
	return errs
}

type AttendeeController struct {
	Logger *slog.Logger
	Ledger domain.SeatLedger
}

func NewAttendeeController(logger *slog.Logger, ledger domain.SeatLedger) *AttendeeController {
	return &AttendeeController{
		Logger: logger,
		Ledger: ledger,
	}
}

// Register godoc
// @Summary Register for an event
// @Description Claims one seat for the authenticated user. Rejected when the event is in the past, the caller already holds a seat, or the event is fully booked.
// @Tags registrations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Param attendee body RegisterRequest true "Attendee details"
// @Success 201 {object} helpers.APIResponse "data contains the admission result"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict (already registered or fully booked)"
// @Router /events/{eventID}/registrations [post]
func (c *AttendeeController) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	callerID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	result, err := c.Ledger.AdmitRegistration(r.Context(), r.PathValue("eventID"), domain.AttendeeFields{
		Name:  req.Name,
		Email: req.Email,
		Phone: req.Phone,
	}, callerID)
	if err != nil {
		handleServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, result)
}

// Cancel godoc
// @Summary Cancel a registration
// @Description Releases the caller's seat. Rejected less than 24 hours before the event starts.
// @Tags registrations
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Success 200 {object} helpers.APIResponse "data contains the cancellation result"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request (cancellation window closed)"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found (event or registration)"
// @Router /events/{eventID}/registrations [delete]
func (c *AttendeeController) Cancel(w http.ResponseWriter, r *http.Request) {
	callerID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	result, err := c.Ledger.CancelRegistration(r.Context(), r.PathValue("eventID"), callerID)
	if err != nil {
		handleServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, result)
}

// Status godoc
// @Summary Registration status
// @Description Whether the authenticated user holds a seat on the event.
// @Tags registrations
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Success 200 {object} helpers.APIResponse "data contains the registration status"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /events/{eventID}/registrations/status [get]
func (c *AttendeeController) Status(w http.ResponseWriter, r *http.Request) {
	callerID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	status, err := c.Ledger.RegistrationStatus(r.Context(), r.PathValue("eventID"), callerID)
	if err != nil {
		handleServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, status)
}
