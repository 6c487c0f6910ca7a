package http

import (
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	"eventmanagement/internal/delivery/http/controllers"
	"eventmanagement/internal/delivery/http/middleware"
	"eventmanagement/internal/domain"
)

// NewRouter initializes the HTTP router with all application routes.
func NewRouter(
	eventController *controllers.EventController,
	attendeeController *controllers.AttendeeController,
	authController *controllers.AuthController,
	userController *controllers.UserController,
	verifier domain.TokenVerifier,
) *http.ServeMux {
	mux := http.NewServeMux()
	requireAuth := middleware.RequireAuth(verifier)
	optionalAuth := middleware.OptionalAuth(verifier)

	// Auth
	mux.HandleFunc("POST /auth/signup", authController.SignUp)
	mux.HandleFunc("POST /auth/login", authController.Login)

	// Events
	mux.HandleFunc("GET /events", eventController.List)
	mux.HandleFunc("GET /events/{eventID}", optionalAuth(eventController.Get))
	mux.HandleFunc("POST /events", requireAuth(eventController.Create))
	mux.HandleFunc("PUT /events/{eventID}", requireAuth(eventController.Update))
	mux.HandleFunc("DELETE /events/{eventID}", requireAuth(eventController.Delete))
	mux.HandleFunc("GET /events/{eventID}/stats", requireAuth(eventController.Stats))

	// Registrations
	mux.HandleFunc("POST /events/{eventID}/registrations", requireAuth(attendeeController.Register))
	mux.HandleFunc("DELETE /events/{eventID}/registrations", requireAuth(attendeeController.Cancel))
	mux.HandleFunc("GET /events/{eventID}/registrations/status", requireAuth(attendeeController.Status))

	// Users
	mux.HandleFunc("GET /users/me", requireAuth(userController.Me))
	mux.HandleFunc("PUT /users/me", requireAuth(userController.UpdateProfile))
	mux.HandleFunc("PUT /users/me/password", requireAuth(userController.ChangePassword))
	mux.HandleFunc("GET /users/me/events", requireAuth(userController.MyEvents))
	mux.HandleFunc("GET /users/me/registrations", requireAuth(userController.MyRegistrations))

	// Admin / maintenance
	mux.HandleFunc("POST /admin/sweep", eventController.Sweep)

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return mux
}
