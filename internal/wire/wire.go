// internal/wire/wire.go
package wire

import (
	"net/http"

	"court-booking/internal/adaptor"
	"court-booking/internal/data/repository"
	"court-booking/internal/usecase"
	"court-booking/pkg/middleware"
	"court-booking/pkg/mq"
	"court-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// App menyimpan semua dependencies
type App struct {
	Router *chi.Mux
}

// Infra carries the outside collaborators built in main.
type Infra struct {
	Publisher mq.Publisher
	Verifier  middleware.TokenVerifier
	// Counter backs the booking rate limit. Nil disables it.
	Counter middleware.WindowCounter
}

// guards are the middleware stacks shared by route groups.
type guards struct {
	auth         func(http.Handler) http.Handler
	optionalAuth func(http.Handler) http.Handler
	admin        func(http.Handler) http.Handler
}

// Wiring menginisialisasi semua dependencies
func Wiring(repo *repository.Repository, config *utils.Config, infra Infra, logger *zap.Logger) *App {
	// Initialize services and handlers
	service := usecase.NewService(repo, config, infra.Publisher, logger)
	handler := adaptor.NewHandler(service, logger)

	// Setup router
	router := setupRouter(handler, repo, config, infra, logger)

	return &App{
		Router: router,
	}
}

// setupRouter konfigurasi Chi router
func setupRouter(
	handler *adaptor.Handler,
	repo *repository.Repository,
	config *utils.Config,
	infra Infra,
	logger *zap.Logger,
) *chi.Mux {
	r := chi.NewRouter()

	// Apply global middleware
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recover(logger))
	r.Use(middleware.CORS())

	g := guards{
		auth:         middleware.Authenticate(infra.Verifier, logger),
		optionalAuth: middleware.OptionalAuthenticate(infra.Verifier),
		admin:        middleware.RequireRole(logger, utils.RoleAdmin),
	}

	// Apply routes
	wireCourt(r, handler.Court, g)
	wireBooking(r, handler.Booking, handler.Invite, g, bookingLimiter(infra.Counter, config.RateLimit, logger))
	wireEvent(r, handler.Event, g)
	wireOffer(r, handler.Offer, g)

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		if err := repo.Health(r.Context()); err != nil {
			logger.Warn("Health check failed", zap.Error(err))
			utils.ResponseServiceUnavailable(w, "Database unreachable")
			return
		}
		utils.ResponseSuccess(w, "OK", nil)
	})

	return r
}

// bookingLimiter returns a pass-through when no counter is configured.
func bookingLimiter(counter middleware.WindowCounter, cfg utils.RateLimitConfig, logger *zap.Logger) func(http.Handler) http.Handler {
	if counter == nil {
		return func(next http.Handler) http.Handler { return next }
	}
	return middleware.RateLimit(counter, cfg.Bookings, cfg.Window, "bookings", cfg.FailOpen, logger)
}
