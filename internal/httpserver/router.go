package httpserver

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"farmdirect/internal/config"
	"farmdirect/internal/security"
	"farmdirect/internal/service"
	"farmdirect/internal/upload"

	_ "farmdirect/docs"
	httpSwagger "github.com/swaggo/http-swagger"
)

// Deps collects everything the router needs. The caller chooses the store
// driver and constructs the services, so the router stays agnostic of
// sqlite vs postgres.
type Deps struct {
	Config   *config.Config
	Tokens   *security.TokenService
	Auth     *service.AuthService
	Listings *service.ListingService
	Chat     *service.ChatService
	Signer   *upload.Signer
}

// NewRouter constructs the main HTTP router and wires routes and middleware.
func NewRouter(d Deps) http.Handler {
	r := chi.NewRouter()

	// Middlewares
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   d.Config.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"message":"FarmDirect API","version":"1.0.0","docs":"/docs"}`))
	})

	// Swagger documentation
	r.Get("/docs/*", httpSwagger.Handler(
		httpSwagger.URL("/docs/doc.json"),
	))

	// API routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/test", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, map[string]string{"message": "API is working"})
		})

		// Auth routes (no auth required)
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", handleRegister(d.Auth))
			r.Post("/login", handleLogin(d.Auth))
		})

		// Authenticated routes
		r.Group(func(r chi.Router) {
			r.Use(AuthMiddleware(d.Tokens))

			r.Post("/uploads/request-cloudinary-signature", handleUploadSignature(d.Signer))
			r.Post("/ai-assistant/ask", handleAskAssistant())

			r.Route("/listings", func(r chi.Router) {
				r.Post("/create", handleCreateListing(d.Listings))
				r.Get("/", handleListListings(d.Listings))
			})

			r.Route("/chat", func(r chi.Router) {
				r.Post("/initiate", handleInitiateChat(d.Chat))
				r.Get("/conversations", handleListConversations(d.Chat))
				r.Get("/{chatID}/messages", handleListMessages(d.Chat))
				r.Post("/{chatID}/send", handleSendMessage(d.Chat))
			})
		})
	})

	return r
}
