package http

import (
	"log/slog"
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	"eventlottery/internal/delivery/http/controllers"
	"eventlottery/internal/delivery/http/middleware"
	"eventlottery/internal/domain"
)

// NewRouter initializes the HTTP router with all application routes.
// Everything except signup, login, and the swagger UI requires a Bearer token.
func NewRouter(
	authController *controllers.AuthController,
	eventController *controllers.EventController,
	lotteryController *controllers.LotteryController,
	userController *controllers.UserController,
	verifier domain.TokenVerifier,
	logger *slog.Logger,
) *http.ServeMux {
	mux := http.NewServeMux()
	auth := middleware.RequireAuth(verifier, logger)

	// Auth
	mux.HandleFunc("POST /auth/signup", authController.SignUp)
	mux.HandleFunc("POST /auth/login", authController.Login)

	// Events
	mux.HandleFunc("POST /events", auth(eventController.CreateEvent))
	mux.HandleFunc("GET /events", auth(eventController.BrowseEvents))
	mux.HandleFunc("GET /events/{eventID}", auth(eventController.GetEvent))
	mux.HandleFunc("PATCH /events/{eventID}", auth(eventController.UpdateEvent))
	mux.HandleFunc("DELETE /events/{eventID}", auth(eventController.DeleteEvent))

	// Lottery
	mux.HandleFunc("POST /events/{eventID}/waitlist", auth(lotteryController.JoinWaitlist))
	mux.HandleFunc("DELETE /events/{eventID}/waitlist", auth(lotteryController.LeaveWaitlist))
	mux.HandleFunc("POST /events/{eventID}/draws", auth(lotteryController.DrawAttendees))
	mux.HandleFunc("POST /events/{eventID}/draws/replacement", auth(lotteryController.DrawReplacement))
	mux.HandleFunc("POST /events/{eventID}/invitations/{userID}/response", auth(lotteryController.RespondToInvitation))
	mux.HandleFunc("DELETE /events/{eventID}/invitations/{userID}", auth(lotteryController.CancelInvitation))
	mux.HandleFunc("GET /events/{eventID}/status", auth(lotteryController.UserStatus))

	// Users
	mux.HandleFunc("GET /me", auth(userController.GetMe))
	mux.HandleFunc("GET /me/notifications", auth(userController.ListMyNotifications))
	mux.HandleFunc("DELETE /users/{userID}", auth(userController.DeleteUser))

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return mux
}
