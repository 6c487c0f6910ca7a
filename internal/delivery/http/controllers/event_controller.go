package controllers

import (
	"log/slog"
	"net/http"
	"time"

	"eventmanagement/internal/delivery/http/helpers"
	"eventmanagement/internal/delivery/http/middleware"
	"eventmanagement/internal/domain"
)

// CreateEventRequest is the request body for POST /events.
type CreateEventRequest struct {
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Venue       string    `json:"venue"`
	Date        time.Time `json:"event_date"`
	Category    string    `json:"category"`
	Type        string    `json:"event_type"`
	Price       float64   `json:"price"`
	TotalSeats  int       `json:"total_seats"`
}

// Validate implements Validator. Returns error messages for required fields.
func (c CreateEventRequest) Validate() []string {
	var errs []string
	if c.Name == "" {
		errs = append(errs, "name is required")
	}
	if c.Date.IsZero() {
		errs = append(errs, "event_date is required")
	}
	if c.Venue == "" {
		errs = append(errs, "venue is required")
	}
	if c.Description == "" {
		errs = append(errs, "description is required")
	}
	if c.TotalSeats == 0 {
		errs = append(errs, "total_seats is required")
	}
	return errs
}

// UpdateEventRequest is the request body for PUT /events/{eventID}. All fields
// are optional; omitted fields are left unchanged.
type UpdateEventRequest struct {
	Name        *string    `json:"name"`
	Description *string    `json:"description"`
	Venue       *string    `json:"venue"`
	Date        *time.Time `json:"event_date"`
	Category    *string    `json:"category"`
	Type        *string    `json:"event_type"`
	Price       *float64   `json:"price"`
	TotalSeats  *int       `json:"total_seats"`
}

type EventController struct {
	Logger  *slog.Logger
	Events  domain.EventService
	Queries domain.EventQueryService
	Ledger  domain.SeatLedger
	Clock   domain.Clock
}

func NewEventController(logger *slog.Logger, events domain.EventService, queries domain.EventQueryService, ledger domain.SeatLedger, clock domain.Clock) *EventController {
	return &EventController{
		Logger:  logger,
		Events:  events,
		Queries: queries,
		Ledger:  ledger,
		Clock:   clock,
	}
}

// List godoc
// @Summary List events
// @Description Paginated event listing. Supports free-text search across name, description and venue, a category filter, an include_past flag, and sorting. The default sort puts upcoming events (soonest first) before past events (most recent first).
// @Tags events
// @Produce json
// @Param search query string false "Free-text search"
// @Param category query string false "Category filter ('all' for no filter)"
// @Param include_past query bool false "Include past events (default false)"
// @Param sort_by query string false "Sort field (default smart event_date)"
// @Param order query string false "asc or desc"
// @Param page query int false "1-indexed page"
// @Param limit query int false "Page size"
// @Success 200 {object} helpers.APIResponse "data contains the event page"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events [get]
func (c *EventController) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := domain.EventFilter{
		Search:      q.Get("search"),
		Category:    q.Get("category"),
		IncludePast: q.Get("include_past") == "true",
	}
	sort := domain.EventSort{
		Field: q.Get("sort_by"),
		Desc:  q.Get("order") == "desc",
	}
	page, err := c.Queries.List(r.Context(), filter, sort, helpers.ParsePagination(r))
	if err != nil {
		handleServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, page)
}

// Get godoc
// @Summary Get one event
// @Description Event detail with derived availability. The attendee roster is included only when the caller is the event's host.
// @Tags events
// @Produce json
// @Param eventID path string true "Event ID"
// @Success 200 {object} helpers.APIResponse "data contains the event detail"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /events/{eventID} [get]
func (c *EventController) Get(w http.ResponseWriter, r *http.Request) {
	callerID, _ := middleware.UserIDFromContext(r.Context())
	detail, err := c.Queries.Get(r.Context(), r.PathValue("eventID"), callerID)
	if err != nil {
		handleServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, detail)
}

// Create godoc
// @Summary Create a new event
// @Description Create an event with the authenticated user as host. The date must be in the future; category defaults to Other and event_type to Offline.
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param event body CreateEventRequest true "Event data"
// @Success 201 {object} helpers.APIResponse "data contains the created event"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Router /events [post]
func (c *EventController) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateEventRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	hostID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	view, err := c.Events.Create(r.Context(), domain.EventInput{
		Name:        req.Name,
		Description: req.Description,
		Venue:       req.Venue,
		Date:        req.Date,
		Category:    domain.EventCategory(req.Category),
		Type:        domain.EventType(req.Type),
		Price:       req.Price,
		TotalSeats:  req.TotalSeats,
	}, hostID)
	if err != nil {
		handleServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, view)
}

// Update godoc
// @Summary Update an event
// @Description Host-only partial update. Seats cannot drop below current registrations and a future event cannot be moved into the past.
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Param event body UpdateEventRequest true "Fields to change"
// @Success 200 {object} helpers.APIResponse "data contains the updated event"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /events/{eventID} [put]
func (c *EventController) Update(w http.ResponseWriter, r *http.Request) {
	var req UpdateEventRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	hostID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	patch := domain.EventPatch{
		Name:        req.Name,
		Description: req.Description,
		Venue:       req.Venue,
		Date:        req.Date,
		Price:       req.Price,
		TotalSeats:  req.TotalSeats,
	}
	if req.Category != nil {
		category := domain.EventCategory(*req.Category)
		patch.Category = &category
	}
	if req.Type != nil {
		eventType := domain.EventType(*req.Type)
		patch.Type = &eventType
	}
	view, err := c.Events.Update(r.Context(), r.PathValue("eventID"), hostID, patch)
	if err != nil {
		handleServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, view)
}

// Delete godoc
// @Summary Delete an event
// @Description Host-only. Registrations are not cascaded; readers filter orphans.
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Success 200 {object} helpers.APIResponse
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /events/{eventID} [delete]
func (c *EventController) Delete(w http.ResponseWriter, r *http.Request) {
	hostID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	if err := c.Events.Delete(r.Context(), r.PathValue("eventID"), hostID); err != nil {
		handleServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, map[string]string{"message": "event deleted"})
}

// Stats godoc
// @Summary Event statistics
// @Description Host-only seat statistics and attendee roster for one event.
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Success 200 {object} helpers.APIResponse "data contains the stats"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /events/{eventID}/stats [get]
func (c *EventController) Stats(w http.ResponseWriter, r *http.Request) {
	callerID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	stats, err := c.Queries.Stats(r.Context(), r.PathValue("eventID"), callerID)
	if err != nil {
		handleServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, stats)
}

// Sweep godoc
// @Summary Complete expired events
// @Description Flips every expired Active event to Completed. Safe to call repeatedly; also runs periodically in the background.
// @Tags admin
// @Produce json
// @Success 200 {object} helpers.APIResponse "data contains the completed count"
// @Router /admin/sweep [post]
func (c *EventController) Sweep(w http.ResponseWriter, r *http.Request) {
	completed, err := c.Ledger.SweepExpiredEvents(r.Context(), c.Clock.Now())
	if err != nil {
		handleServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, map[string]int64{"completedEvents": completed})
}
