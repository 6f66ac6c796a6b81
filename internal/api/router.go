package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/skillswap/skillswap-server/internal/api/handlers"
	"github.com/skillswap/skillswap-server/internal/api/middleware"
	"github.com/skillswap/skillswap-server/internal/service"
	"github.com/skillswap/skillswap-server/internal/websocket"
)

func NewRouter(services *service.Services, hub *websocket.Hub) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.RequestID)
	r.Use(middleware.CORS)

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(services.Auth)
	userHandler := handlers.NewUserHandler(services.User)
	requestHandler := handlers.NewSwapRequestHandler(services.SwapRequest)
	swapHandler := handlers.NewSwapHandler(services.Swap, hub)
	sessionHandler := handlers.NewSessionHandler(services.Session)
	wsHandler := handlers.NewWebSocketHandler(hub, services.Auth)

	r.Route("/api", func(r chi.Router) {
		// Public auth routes
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", authHandler.Register)
			r.Post("/verify-otp", authHandler.VerifyOTP)
			r.Post("/resend-otp", authHandler.ResendOTP)
			r.Post("/login", authHandler.Login)

			// Protected auth routes
			r.Group(func(r chi.Router) {
				r.Use(middleware.Auth(services.Auth))
				r.Get("/me", authHandler.Me)
				r.Post("/logout", authHandler.Logout)
			})
		})

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(services.Auth))

			// User routes
			r.Route("/users", func(r chi.Router) {
				r.Get("/{id}", userHandler.Get)
				r.Put("/{id}", userHandler.Update)
			})

			// Swap request routes
			r.Route("/swap-requests", func(r chi.Router) {
				r.Post("/", requestHandler.Create)
				r.Get("/", requestHandler.List)
				r.Get("/my-requests", requestHandler.MyRequests)
				r.Post("/{id}/respond", requestHandler.Respond)
				r.Post("/{id}/accept-response", requestHandler.AcceptResponse)
			})

			// Swap routes
			r.Route("/swaps", func(r chi.Router) {
				r.Get("/", swapHandler.List)
				r.Get("/stats", swapHandler.Stats)
				r.Get("/{id}", swapHandler.Get)
				r.Put("/{id}/accept", swapHandler.Accept)
				r.Put("/{id}/reject", swapHandler.Reject)
				r.Put("/{id}/cancel", swapHandler.Cancel)
				r.Put("/{id}/complete", swapHandler.Complete)
				r.Put("/{id}/setup", swapHandler.Setup)
				r.Post("/{id}/messages", swapHandler.AddMessage)
				r.Get("/{id}/messages", swapHandler.ListMessages)
				r.Patch("/{id}/messages/read", swapHandler.MarkMessagesRead)
				r.Post("/{id}/reviews", swapHandler.AddReview)
			})

			// Session routes
			r.Route("/sessions", func(r chi.Router) {
				r.Post("/", sessionHandler.Create)
				r.Get("/user", sessionHandler.ListForUser)
				r.Get("/swap/{swapId}", sessionHandler.ListForSwap)
				r.Get("/{id}", sessionHandler.Get)
				r.Put("/{id}", sessionHandler.Update)
				r.Delete("/{id}", sessionHandler.Delete)
				r.Patch("/{id}/status", sessionHandler.UpdateStatus)
				r.Patch("/{id}/attendance", sessionHandler.ConfirmAttendance)
				r.Patch("/{id}/rate", sessionHandler.Rate)
				r.Patch("/{id}/notes", sessionHandler.UpdateNotes)
			})
		})

		// WebSocket endpoint
		r.Get("/ws", wsHandler.Handle)
	})

	return r
}
