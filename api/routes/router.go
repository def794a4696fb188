package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/SHERATONS/FISHERMEN/api/controllers"
	"github.com/SHERATONS/FISHERMEN/api/middleware"
	"github.com/SHERATONS/FISHERMEN/internal/cart"
	"github.com/SHERATONS/FISHERMEN/internal/catalog"
	"github.com/SHERATONS/FISHERMEN/internal/checkout"
	"github.com/SHERATONS/FISHERMEN/internal/notifications"
	"github.com/SHERATONS/FISHERMEN/internal/orders"
	"github.com/SHERATONS/FISHERMEN/internal/reviews"
	"github.com/SHERATONS/FISHERMEN/internal/users"
	"github.com/SHERATONS/FISHERMEN/pkg/config"
	"github.com/SHERATONS/FISHERMEN/pkg/enums"
	"github.com/SHERATONS/FISHERMEN/pkg/logger"
	"github.com/SHERATONS/FISHERMEN/pkg/metrics"
	"github.com/SHERATONS/FISHERMEN/pkg/redis"
)

// Deps carries everything the HTTP surface needs.
type Deps struct {
	Config  *config.Config
	Logger  *logger.Logger
	DB      controllers.Pinger
	Redis   *redis.Client
	Metrics *metrics.HTTPMetrics

	Users         users.Service
	Catalog       catalog.Service
	Cart          cart.Service
	Checkout      checkout.Service
	Orders        orders.Service
	Reviews       reviews.Service
	Notifications notifications.Service
}

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)
	if deps.Metrics != nil {
		r.Use(deps.Metrics.Middleware)
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, map[string]controllers.Pinger{
			"postgres": deps.DB,
			"redis":    redisPinger(deps.Redis),
		}))
	})

	if deps.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", deps.Metrics.Handler())
	}

	mediaDir := http.Dir(cfg.Media.Dir)
	r.Handle(cfg.Media.BaseURL+"/*", http.StripPrefix(cfg.Media.BaseURL+"/", http.FileServer(mediaDir)))

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginUserLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterUserLimit,
	)

	r.Route("/api/users", func(r chi.Router) {
		register := chi.Chain()
		login := chi.Chain()
		if deps.Redis != nil {
			register = chi.Chain(middleware.AuthRateLimit(registerPolicy, deps.Redis, logg))
			login = chi.Chain(middleware.AuthRateLimit(loginPolicy, deps.Redis, logg))
		}
		r.With(register.Handler).Post("/register", controllers.RegisterUser(deps.Users, logg))
		r.With(login.Handler).Post("/login", controllers.LoginUser(deps.Users, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, logg))
			r.Get("/{id}", controllers.GetUser(deps.Users, logg))
		})
	})

	r.Route("/api/fishListings", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))
		r.Get("/list", controllers.ListListings(deps.Catalog, logg))
		r.With(middleware.RequireRole(string(enums.UserRoleFisherman), logg)).
			Post("/create", controllers.CreateListing(deps.Catalog, logg))
		r.Get("/fisherman/{id}", controllers.ListFishermanListings(deps.Catalog, logg))
		r.Get("/{id}", controllers.GetListing(deps.Catalog, logg))
	})

	r.Route("/api/cart", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))
		r.Use(middleware.RequireAnyRole(logg, string(enums.UserRoleBuyer), string(enums.UserRoleAdmin)))
		r.Get("/", controllers.GetCart(deps.Cart, logg))
		r.Post("/add", controllers.AddToCart(deps.Cart, logg))
		r.Post("/remove", controllers.RemoveFromCart(deps.Cart, logg))
	})

	r.Route("/api/orders", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))
		r.Get("/buyer/{buyerId}", controllers.ListBuyerOrders(deps.Orders, logg))
		r.With(middleware.RequireAnyRole(logg, string(enums.UserRoleFisherman), string(enums.UserRoleAdmin))).
			Get("/list-dto", controllers.ListOrderSummaries(deps.Orders, logg))
		r.With(middleware.RequireRole(string(enums.UserRoleAdmin), logg)).
			Get("/list", controllers.ListOrders(deps.Orders, logg))
		r.With(middleware.RequireAnyRole(logg, string(enums.UserRoleBuyer), string(enums.UserRoleAdmin))).
			Post("/create", controllers.CreateOrder(deps.Checkout, logg))
		r.Put("/update/{id}", controllers.UpdateOrderStatus(deps.Orders, logg))
		r.With(middleware.RequireRole(string(enums.UserRoleAdmin), logg)).
			Delete("/{id}", controllers.DeleteOrder(deps.Orders, logg))
		r.Get("/{id}", controllers.GetOrder(deps.Orders, logg))
	})

	r.Route("/api/reviews", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))
		r.Get("/buyer/{buyerId}", controllers.ListBuyerReviews(deps.Reviews, logg))
		r.With(middleware.RequireAnyRole(logg, string(enums.UserRoleBuyer), string(enums.UserRoleAdmin))).
			Post("/create", controllers.CreateReview(deps.Reviews, logg))
		r.With(middleware.RequireAnyRole(logg, string(enums.UserRoleBuyer), string(enums.UserRoleAdmin))).
			Put("/update/{reviewId}", controllers.UpdateReview(deps.Reviews, logg))
		r.Get("/list", controllers.ListReviews(deps.Reviews, logg))
		r.Delete("/delete/{id}", controllers.DeleteReview(deps.Reviews, logg))
		r.Get("/{id}", controllers.GetReview(deps.Reviews, logg))
	})

	r.Route("/api/notifications", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))
		r.Post("/read/{id}", controllers.MarkNotificationRead(deps.Notifications, logg))
		r.Get("/{id}", controllers.ListNotifications(deps.Notifications, logg))
	})

	return r
}

// redisPinger keeps a nil *redis.Client from turning into a non-nil Pinger.
func redisPinger(client *redis.Client) controllers.Pinger {
	if client == nil {
		return nil
	}
	return client
}
