package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"studybuddy-backend/internal/config"
	"studybuddy-backend/internal/handlers"
	"studybuddy-backend/internal/realtime"
)

// RouterDependencies holds all the dependencies required by the router setup,
// primarily handlers and configuration.
type RouterDependencies struct {
	AuthHandler      *handlers.AuthHandler
	RoomHandler      *handlers.RoomHandler
	MessageHandler   *handlers.MessageHandler
	WebSocketHandler *realtime.WebSocketHandler
	Config           *config.Config
}

// NewRouter creates and configures the main Chi router for the application.
func NewRouter(deps RouterDependencies) *chi.Mux {
	r := chi.NewRouter()

	// --- Base Middleware Stack ---
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	// --- CORS Configuration ---
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:4200", "http://localhost:5173"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// --- Public Routes (No JWT Required) ---
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	r.Route("/v1/auth", func(r chi.Router) {
		r.Post("/signup", deps.AuthHandler.HandleSignup)
		r.Post("/login", deps.AuthHandler.HandleLogin)
	})

	r.Route("/v1/rooms", func(r chi.Router) {
		// Websocket subscriptions sit outside the JWT middleware: browsers
		// cannot attach Authorization headers to the upgrade request. The
		// channel is read-only push; writes all go through the authenticated
		// REST routes.
		r.Get("/{roomID}/ws", deps.WebSocketHandler.HandleRoomSocket)

		// --- Authenticated Routes (JWT Required) ---
		r.Group(func(r chi.Router) {
			r.Use(JwtAuthMiddleware(deps.Config.JWTSecret))

			r.Post("/", deps.RoomHandler.HandleCreateRoom)
			r.Get("/", deps.RoomHandler.HandleListRooms)
			r.Get("/{roomID}", deps.RoomHandler.HandleGetRoom)
			r.Delete("/{roomID}", deps.RoomHandler.HandleDeleteRoom)

			r.Post("/{roomID}/messages", deps.MessageHandler.HandlePostMessage)
			r.Get("/{roomID}/messages", deps.MessageHandler.HandleListMessages)
		})
	})

	return r
}
