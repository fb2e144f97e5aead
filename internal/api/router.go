package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/isdelr/artverse-be/internal/api/handlers"
	apimw "github.com/isdelr/artverse-be/internal/api/middleware"
	"github.com/isdelr/artverse-be/internal/auth"
	"github.com/isdelr/artverse-be/internal/metrics"
	"github.com/isdelr/artverse-be/internal/services"
	"github.com/isdelr/artverse-be/internal/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Dependencies bundles everything the router wires into handlers.
type Dependencies struct {
	Hub      *websocket.Hub
	Verifier *auth.Verifier
	Users    services.UserServiceProvider
	Artworks services.ArtworkServiceProvider
	Wishlist services.WishlistServiceProvider
	Messages services.DirectMessageServiceProvider
	Chats    services.ChatGroupServiceProvider
	Events   services.EventServiceProvider

	AllowedOrigins []string
	SecureCookies  bool
	Realtime       handlers.RealtimeOptions
	RateLimiter    *apimw.RateLimiter // nil disables rate limiting
}

// NewRouter creates and configures a new Chi router.
func NewRouter(deps Dependencies) *chi.Mux {
	r := chi.NewRouter()

	// Basic middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(apimw.RequestLogger)
	r.Use(middleware.Recoverer)
	r.Use(metrics.Middleware)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   deps.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Initialize handlers
	userHandler := handlers.NewUserHandler(deps.Users, deps.Verifier, deps.SecureCookies)
	artworkHandler := handlers.NewArtworkHandler(deps.Artworks)
	wishlistHandler := handlers.NewWishlistHandler(deps.Wishlist)
	messageHandler := handlers.NewMessageHandler(deps.Messages)
	chatHandler := handlers.NewChatHandler(deps.Chats)
	eventHandler := handlers.NewEventHandler(deps.Events)
	realtimeHandler := handlers.NewRealtimeHandler(deps.Hub, deps.Verifier, deps.Messages, deps.Chats, deps.Realtime)

	requireAuth := deps.Verifier.Middleware()

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})
	r.Handle("/metrics", promhttp.Handler())

	// Realtime endpoint; authentication happens in the handshake.
	r.Get("/socket.io/", realtimeHandler.Serve)

	r.Route("/api", func(r chi.Router) {
		if deps.RateLimiter != nil {
			r.Use(deps.RateLimiter.Handler)
		}

		r.Route("/users", func(r chi.Router) {
			r.Post("/register", userHandler.Register)
			r.Post("/login", userHandler.Login)
			r.With(requireAuth).Get("/me", userHandler.GetMe)
		})

		r.Route("/artwork", func(r chi.Router) {
			r.Get("/explore", artworkHandler.Explore)
			r.Get("/featured", artworkHandler.Featured)
			r.Get("/artist/{artistId}", artworkHandler.ByArtist)
			r.Get("/{id}", artworkHandler.Get)

			r.Group(func(r chi.Router) {
				r.Use(requireAuth)
				r.Post("/", artworkHandler.Create)
				r.Get("/my-artworks", artworkHandler.Mine)
				r.Delete("/{id}", artworkHandler.Delete)

				r.Get("/wishlist", wishlistHandler.List)
				r.Post("/wishlist/add", wishlistHandler.Add)
				r.Post("/wishlist/remove", wishlistHandler.Remove)
			})
		})

		r.Route("/messages", func(r chi.Router) {
			r.Use(requireAuth)
			r.Get("/{receiverId}", messageHandler.Conversation)
			r.Post("/{receiverId}", messageHandler.Send)
		})

		r.Route("/chat/groups", func(r chi.Router) {
			r.Use(requireAuth)
			r.Post("/", chatHandler.CreateGroup)
			r.Get("/", chatHandler.ListGroups)
			r.Post("/{groupId}/join", chatHandler.JoinGroup)
			r.Get("/{groupId}/messages", chatHandler.Messages)
			r.Post("/{groupId}/messages", chatHandler.PostMessage)
		})

		r.With(requireAuth).Get("/events", eventHandler.GetRecent)
	})

	return r
}
