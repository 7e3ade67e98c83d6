// Package fakeapi is an in-memory implementation of the remote booking API.
//
// It serves the same routes and JSON shapes as the production server, issues
// PASETO credentials that expire on a controllable clock, and can be told to
// fail the next call to a route. The CLI's integration tests and the
// fakeapi binary run it.
package fakeapi

import (
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/weddingwise/weddingwise-client/internal/auth"
	"github.com/weddingwise/weddingwise-client/internal/domain"
	"github.com/weddingwise/weddingwise-client/internal/ratelimit"
	"github.com/weddingwise/weddingwise-client/internal/validation"
)

// Options configures a Server.
type Options struct {
	Tokens  *auth.TokenService
	Hasher  *auth.PasswordHasher
	Limiter *ratelimit.KeyedRateLimiter // nil disables rate limiting
	Logger  *slog.Logger

	// AllowedOrigins lists CORS origins. Empty allows any origin.
	AllowedOrigins []string

	// Now stamps created bookings. Defaults to time.Now.
	Now func() time.Time
}

// Server is the fake booking API.
type Server struct {
	router    chi.Router
	tokens    *auth.TokenService
	hasher    *auth.PasswordHasher
	limiter   *ratelimit.KeyedRateLimiter
	validator *validation.Validator
	logger    *slog.Logger
	now       func() time.Time

	mu          sync.Mutex
	users       map[string]*user // by ID
	resetTokens map[string]string
	events      []catalogDoc
	vendors     []catalogDoc
	bookings    map[string]*booking
	order       []string // booking IDs in creation order
	outbox      []Email
	contacts    []ContactMessage
	faults      []fault
}

// New creates a server with the seeded catalog and no users.
func New(opts Options) *Server {
	if opts.Hasher == nil {
		opts.Hasher = auth.NewPasswordHasher(auth.DefaultPasswordParams)
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	s := &Server{
		tokens:      opts.Tokens,
		hasher:      opts.Hasher,
		limiter:     opts.Limiter,
		validator:   validation.New(),
		logger:      opts.Logger.With("component", "fakeapi"),
		now:         opts.Now,
		users:       make(map[string]*user),
		resetTokens: make(map[string]string),
		events:      seedEvents(),
		vendors:     seedVendors(),
		bookings:    make(map[string]*booking),
	}
	s.setupRoutes(opts.AllowedOrigins)
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes(origins []string) {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(corsHandler(origins))
	r.Use(s.rateLimit)
	r.Use(s.injectFaults)

	r.Get("/health", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Post("/contact", s.handleContact)

		r.Route("/users", func(r chi.Router) {
			r.Post("/login", s.handleLogin)
			r.Post("/register", s.handleRegister)
			r.Post("/send-reset-password-email", s.handleSendResetEmail)
			r.Post("/reset-password", s.handleResetPassword)

			r.With(s.requireAuth).Put("/update-profile", s.handleUpdateProfile)
		})

		r.Post("/auth/refresh-token", s.handleRefreshToken)

		r.Route("/events", func(r chi.Router) {
			r.Get("/", s.handleListEvents)
			r.Get("/{id}", s.handleGetEvent)
			s.bookingRoutes(r, domain.KindEvent)
		})
		r.Route("/vendors", func(r chi.Router) {
			r.Get("/", s.handleListVendors)
			r.Get("/{id}", s.handleGetVendor)
			s.bookingRoutes(r, domain.KindVendor)
		})

		r.With(s.requireAuth).Post("/bookings/confirm-booking", s.handleConfirm)
	})

	s.router = r
}

// bookingRoutes mounts the booking routes of one collection.
func (s *Server) bookingRoutes(r chi.Router, kind domain.Kind) {
	r.Group(func(r chi.Router) {
		r.Use(s.requireAuth)
		r.Post("/book", s.handleBook(kind))
		r.Get("/bookings", s.handleListBookings(kind))
		r.Put("/bookings/{id}", s.handleUpdateBooking(kind))
		r.Delete("/bookings/{id}", s.handleDeleteBooking(kind))
	})
}

func corsHandler(origins []string) func(http.Handler) http.Handler {
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           300,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
