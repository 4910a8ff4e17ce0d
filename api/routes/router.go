package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mritika-studio/storefront-backend/api/controllers"
	"github.com/mritika-studio/storefront-backend/api/middleware"
	authsvc "github.com/mritika-studio/storefront-backend/internal/auth"
	cartsvc "github.com/mritika-studio/storefront-backend/internal/cart"
	inquirysvc "github.com/mritika-studio/storefront-backend/internal/inquiries"
	inventorysvc "github.com/mritika-studio/storefront-backend/internal/inventory"
	notificationsvc "github.com/mritika-studio/storefront-backend/internal/notifications"
	ordersvc "github.com/mritika-studio/storefront-backend/internal/orders"
	productsvc "github.com/mritika-studio/storefront-backend/internal/products"
	usersvc "github.com/mritika-studio/storefront-backend/internal/users"
	"github.com/mritika-studio/storefront-backend/pkg/auth/session"
	"github.com/mritika-studio/storefront-backend/pkg/config"
	"github.com/mritika-studio/storefront-backend/pkg/db"
	"github.com/mritika-studio/storefront-backend/pkg/enums"
	"github.com/mritika-studio/storefront-backend/pkg/logger"
	"github.com/mritika-studio/storefront-backend/pkg/metrics"
	"github.com/mritika-studio/storefront-backend/pkg/redis"
)

// Deps bundles everything the HTTP surface needs. Optional members (redis,
// metrics) may be nil; the middleware that relies on them degrades to a
// pass-through.
type Deps struct {
	Config   *config.Config
	Logger   *logger.Logger
	DB       db.Pinger
	Redis    *redis.Client
	Sessions session.AccessSessionChecker
	Metrics  *metrics.HTTPMetrics

	Auth          authsvc.Service
	Cart          cartsvc.Service
	Products      productsvc.Service
	Orders        ordersvc.Service
	Users         usersvc.Service
	Inventory     inventorysvc.Service
	Notifications notificationsvc.Service
	Inquiries     inquirysvc.Service
}

func NewRouter(d Deps) http.Handler {
	cfg := d.Config
	logg := d.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(d.Metrics),
		middleware.CORS(),
	)

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

	var cache db.Pinger
	if d.Redis != nil {
		cache = d.Redis
	}
	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, d.DB, cache))
	})

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(
			middleware.AuthRateLimit(registerPolicy, d.Redis, logg),
			middleware.Idempotency(d.Redis, logg),
		).Post("/register", controllers.AuthRegister(d.Auth, logg))
		r.With(middleware.AuthRateLimit(loginPolicy, d.Redis, logg)).Post("/login", controllers.AuthLogin(d.Auth, logg))
		r.Post("/refresh", controllers.AuthRefresh(d.Auth, logg))
		r.Post("/logout", controllers.AuthLogout(d.Auth, cfg.JWT, logg))
	})

	// Public storefront reads and inquiry intake.
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/products", controllers.ProductsList(d.Products, logg))
		r.Get("/products/{slug}", controllers.ProductBySlug(d.Products, logg))
		r.Get("/categories", controllers.CategoriesList(d.Products, logg))
		r.With(middleware.Idempotency(d.Redis, logg)).Post("/inquiries", controllers.InquiryCreate(d.Inquiries, logg))

		// Customer surface.
		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, d.Sessions, logg))
			r.Use(middleware.Idempotency(d.Redis, logg))

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", controllers.CartGet(d.Cart, logg))
				r.Post("/", controllers.CartAddItem(d.Cart, logg))
				r.Put("/", controllers.CartUpdateItem(d.Cart, logg))
				r.Delete("/", controllers.CartRemove(d.Cart, logg))
			})

			r.Post("/checkout", controllers.Checkout(d.Orders, logg))

			r.Route("/orders", func(r chi.Router) {
				r.Get("/", controllers.OrdersList(d.Orders, logg))
				r.Get("/{orderID}", controllers.OrderGet(d.Orders, logg))
			})
		})
	})

	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, d.Sessions, logg))
		r.Use(middleware.RequireRole(string(enums.UserRoleAdmin), logg))
		r.Use(middleware.Idempotency(d.Redis, logg))

		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.AdminProductsList(d.Products, logg))
			r.Post("/", controllers.AdminProductCreate(d.Products, logg))
			r.Get("/{productID}", controllers.AdminProductGet(d.Products, logg))
			r.Put("/{productID}", controllers.AdminProductUpdate(d.Products, logg))
			r.Delete("/{productID}", controllers.AdminProductDelete(d.Products, logg))
			r.Post("/{productID}/variants", controllers.AdminVariantAdd(d.Products, logg))
		})
		r.Route("/variants", func(r chi.Router) {
			r.Put("/{variantID}", controllers.AdminVariantUpdate(d.Products, logg))
			r.Delete("/{variantID}", controllers.AdminVariantDelete(d.Products, logg))
		})
		r.Route("/categories", func(r chi.Router) {
			r.Get("/", controllers.AdminCategoriesList(d.Products, logg))
			r.Post("/", controllers.AdminCategoryCreate(d.Products, logg))
			r.Put("/{categoryID}", controllers.AdminCategoryUpdate(d.Products, logg))
		})

		r.Route("/inventory", func(r chi.Router) {
			r.Get("/overview", controllers.AdminInventoryOverview(d.Inventory, logg))
			r.Get("/valuation", controllers.AdminInventoryValuation(d.Inventory, logg))
			r.Post("/{productID}/adjust", controllers.AdminInventoryAdjust(d.Inventory, logg))
			r.Get("/{productID}/adjustments", controllers.AdminInventoryAdjustments(d.Inventory, logg))
		})

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", controllers.AdminOrdersList(d.Orders, logg))
			r.Get("/{orderID}", controllers.AdminOrderGet(d.Orders, logg))
			r.Put("/{orderID}/status", controllers.AdminOrderUpdateStatus(d.Orders, logg))
		})

		r.Route("/users", func(r chi.Router) {
			r.Get("/", controllers.AdminUsersList(d.Users, logg))
			r.Get("/{userID}", controllers.AdminUserGet(d.Users, logg))
			r.Put("/{userID}/active", controllers.AdminUserSetActive(d.Users, logg))
			r.Put("/{userID}/role", controllers.AdminUserSetRole(d.Users, logg))
			r.Post("/{userID}/reset-password", controllers.AdminUserResetPassword(d.Users, logg))
		})

		r.Route("/carts", func(r chi.Router) {
			r.Get("/{userID}", controllers.AdminCartGet(d.Cart, logg))
			r.Post("/{userID}/items", controllers.AdminCartBulkAdd(d.Cart, logg))
			r.Post("/clear", controllers.AdminCartBulkClear(d.Cart, logg))
		})

		r.Route("/notifications", func(r chi.Router) {
			r.Get("/", controllers.AdminNotificationsList(d.Notifications, logg))
			r.Post("/{notificationID}/read", controllers.AdminNotificationMarkRead(d.Notifications, logg))
			r.Post("/read-all", controllers.AdminNotificationsMarkAllRead(d.Notifications, logg))
		})

		r.Route("/inquiries", func(r chi.Router) {
			r.Get("/", controllers.AdminInquiriesList(d.Inquiries, logg))
			r.Get("/{inquiryID}", controllers.AdminInquiryGet(d.Inquiries, logg))
			r.Put("/{inquiryID}/status", controllers.AdminInquiryUpdateStatus(d.Inquiries, logg))
		})
	})

	return r
}
