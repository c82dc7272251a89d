package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/wisatago/wisatago-backend/api/controllers"
	"github.com/wisatago/wisatago-backend/api/middleware"
	"github.com/wisatago/wisatago-backend/internal/auth"
	"github.com/wisatago/wisatago-backend/internal/bookings"
	"github.com/wisatago/wisatago-backend/internal/cart"
	"github.com/wisatago/wisatago-backend/internal/catalog"
	"github.com/wisatago/wisatago-backend/internal/checkout"
	"github.com/wisatago/wisatago-backend/internal/dashboard"
	"github.com/wisatago/wisatago-backend/pkg/auth/session"
	"github.com/wisatago/wisatago-backend/pkg/config"
	"github.com/wisatago/wisatago-backend/pkg/db"
	"github.com/wisatago/wisatago-backend/pkg/enums"
	"github.com/wisatago/wisatago-backend/pkg/logger"
	"github.com/wisatago/wisatago-backend/pkg/metrics"
	"github.com/wisatago/wisatago-backend/pkg/redis"
)

// Services bundles everything the HTTP surface depends on.
type Services struct {
	Auth     auth.Service
	Register auth.RegisterService
	Catalog  catalog.Service
	Cart     cart.Service
	Checkout checkout.Service
	Bookings bookings.Service
	Dash     dashboard.Service
}

// Params carries the router dependencies that are not domain services.
type Params struct {
	Config         *config.Config
	Logger         *logger.Logger
	DB             db.Pinger
	Redis          *redis.Client
	SessionManager *session.Manager
	Metrics        *metrics.HTTPMetrics
	Registry       *prometheus.Registry
	Services       Services
}

// NewRouter assembles the middleware chain and the full route table.
func NewRouter(p Params) http.Handler {
	cfg := p.Config
	logg := p.Logger

	r := chi.NewRouter()
	r.Use(middleware.Recoverer(logg))
	r.Use(middleware.RequestID(logg))
	r.Use(middleware.Logging(logg))
	if p.Metrics != nil {
		r.Use(middleware.Metrics(p.Metrics))
	}

	r.Get("/health/live", controllers.HealthLive(cfg))
	r.Get("/health/ready", controllers.HealthReady(cfg, logg, p.DB, p.Redis))
	if p.Registry != nil {
		r.Method(http.MethodGet, "/metrics", metrics.Handler(p.Registry))
	}

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterEmailLimit,
	)

	r.Route("/api", func(api chi.Router) {
		api.Route("/auth", func(ar chi.Router) {
			ar.With(middleware.AuthRateLimit(loginPolicy, p.Redis, logg)).
				Post("/login", controllers.AuthLogin(p.Services.Auth, logg))
			ar.With(middleware.AuthRateLimit(registerPolicy, p.Redis, logg)).
				Post("/register", controllers.AuthRegister(p.Services.Register, p.Services.Auth, logg))
			ar.Post("/refresh", controllers.AuthRefresh(p.SessionManager, cfg.JWT, logg))
			ar.Post("/logout", controllers.AuthLogout(p.SessionManager, cfg.JWT, logg))
		})

		api.Get("/destinations", controllers.DestinationList(p.Services.Catalog, logg))
		api.Get("/destinations/{slug}", controllers.DestinationDetail(p.Services.Catalog, logg))
		api.Get("/categories", controllers.CategoryList(p.Services.Catalog, logg))

		// E-ticket lookups stay public: the booking code is the credential.
		api.Get("/bookings/{code}", controllers.BookingDetail(p.Services.Bookings, logg))
		api.Get("/bookings/{code}/ticket", controllers.BookingTicket(p.Services.Bookings, logg))

		api.Group(func(authed chi.Router) {
			authed.Use(middleware.Auth(cfg.JWT, p.SessionManager, logg))

			authed.Get("/cart", controllers.CartList(p.Services.Cart, logg))
			authed.Post("/cart", controllers.CartAdd(p.Services.Cart, logg))
			authed.Delete("/cart/{cartItemId}", controllers.CartRemove(p.Services.Cart, logg))

			authed.Post("/checkout", controllers.Checkout(p.Services.Checkout, logg))
			authed.Get("/my-bookings", controllers.MyBookings(p.Services.Bookings, logg))

			authed.Route("/admin", func(admin chi.Router) {
				admin.Use(middleware.RequireRole(enums.UserRoleAdmin.String(), logg))

				admin.Get("/dashboard", controllers.AdminDashboard(p.Services.Dash, logg))

				admin.Post("/categories", controllers.AdminCategoryCreate(p.Services.Catalog, logg))
				admin.Delete("/categories/{categoryId}", controllers.AdminCategoryDelete(p.Services.Catalog, logg))

				admin.Post("/destinations", controllers.AdminDestinationCreate(p.Services.Catalog, logg))
				admin.Put("/destinations/{destinationId}", controllers.AdminDestinationUpdate(p.Services.Catalog, logg))
				admin.Delete("/destinations/{destinationId}", controllers.AdminDestinationDelete(p.Services.Catalog, logg))
			})
		})
	})

	return r
}
