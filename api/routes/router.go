package routes

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dcastellanos/vendapoint-backend/api/controllers"
	"github.com/dcastellanos/vendapoint-backend/api/middleware"
	"github.com/dcastellanos/vendapoint-backend/internal/accounts"
	"github.com/dcastellanos/vendapoint-backend/internal/activities"
	authsvc "github.com/dcastellanos/vendapoint-backend/internal/auth"
	"github.com/dcastellanos/vendapoint-backend/internal/cashouts"
	"github.com/dcastellanos/vendapoint-backend/internal/orders"
	"github.com/dcastellanos/vendapoint-backend/internal/products"
	"github.com/dcastellanos/vendapoint-backend/internal/referrals"
	"github.com/dcastellanos/vendapoint-backend/internal/reports"
	"github.com/dcastellanos/vendapoint-backend/internal/shoppages"
	"github.com/dcastellanos/vendapoint-backend/internal/users"
	"github.com/dcastellanos/vendapoint-backend/pkg/auth/session"
	"github.com/dcastellanos/vendapoint-backend/pkg/config"
	"github.com/dcastellanos/vendapoint-backend/pkg/enums"
	"github.com/dcastellanos/vendapoint-backend/pkg/logger"
	"github.com/dcastellanos/vendapoint-backend/pkg/redis"
)

type sessionManager interface {
	session.AccessSessionChecker
	Rotate(context.Context, string, string) (string, string, error)
	Revoke(context.Context, string) error
}

// Deps carries everything the router wires into handlers.
type Deps struct {
	Config   *config.Config
	Logger   *logger.Logger
	Redis    *redis.Client
	Sessions sessionManager
	Metrics  prometheus.Gatherer

	// Pingers feed the readiness probe, keyed by dependency name.
	Pingers map[string]controllers.Pinger

	AuthService     authsvc.Service
	RegisterService authsvc.RegisterService
	Accounts        accounts.Service
	Referrals       referrals.Service
	Activities      activities.Service
	Products        products.Service
	Orders          orders.Service
	Cashouts        cashouts.Service
	Reports         reports.Service
	ShopPages       shoppages.Service
	Users           *users.Repository
}

func NewRouter(d Deps) http.Handler {
	cfg := d.Config
	logg := d.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, d.Pingers))
	})

	if d.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(d.Metrics, promhttp.HandlerOpts{}))
	}

	r.Route("/api/public/v1", func(r chi.Router) {
		r.Get("/shop/{slug}", controllers.GetPublicShopPage(d.ShopPages, logg))
	})

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(loginPolicy, d.Redis, logg)).Post("/login", controllers.AuthLogin(d.AuthService, logg))
		r.Post("/logout", controllers.AuthLogout(d.Sessions, cfg.JWT, logg))
		r.Post("/refresh", controllers.AuthRefresh(d.Sessions, cfg.JWT, logg))
		// register stays under /auth so the idempotency rules cover it, but
		// only admins get through
		r.With(
			middleware.Auth(cfg.JWT, d.Sessions, logg),
			middleware.RequireRole(string(enums.UserRoleAdmin), logg),
			middleware.Idempotency(d.Redis, logg),
		).Post("/register", controllers.AuthRegister(d.RegisterService, logg))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, d.Sessions, logg))
		r.Use(middleware.Idempotency(d.Redis, logg))

		r.Route("/accounts", func(r chi.Router) {
			r.Post("/", controllers.RegisterAccount(d.Accounts, logg))
			r.Get("/", controllers.ListAccounts(d.Accounts, logg))
			r.Route("/{accountID}", func(r chi.Router) {
				r.Get("/", controllers.GetAccount(d.Accounts, logg))
				r.Patch("/", controllers.UpdateAccount(d.Accounts, logg))
				r.Put("/referrer", controllers.SetAccountReferrer(d.Accounts, logg))
				r.Get("/upline", controllers.GetAccountUpline(d.Referrals, logg))
				r.Get("/referral-codes", controllers.ListAccountReferralCodes(d.Referrals, logg))
				r.Post("/referral-codes", controllers.GenerateReferralCode(d.Referrals, logg))
				r.Get("/activities", controllers.ListAccountActivities(d.Activities, logg))
				r.Get("/balance", controllers.GetAccountBalance(d.Activities, logg))
				r.Get("/cashout-methods", controllers.ListCashoutMethods(d.Cashouts, logg))
			})
		})

		r.Route("/referral-codes", func(r chi.Router) {
			r.Get("/{code}", controllers.LookupReferralCode(d.Referrals, logg))
			r.Delete("/{codeID}", controllers.DeactivateReferralCode(d.Referrals, logg))
		})

		r.Route("/products", func(r chi.Router) {
			r.Post("/", controllers.CreateProduct(d.Products, logg))
			r.Get("/", controllers.ListProducts(d.Products, logg))
			r.Route("/{productID}", func(r chi.Router) {
				r.Get("/", controllers.GetProduct(d.Products, logg))
				r.Patch("/", controllers.UpdateProduct(d.Products, logg))
				r.Post("/variants", controllers.CreateVariant(d.Products, logg))
			})
		})

		r.Route("/variants/{variantID}", func(r chi.Router) {
			r.Patch("/", controllers.UpdateVariant(d.Products, logg))
			r.Put("/point-values", controllers.SetVariantPointValue(d.Products, logg))
			r.Get("/point-values", controllers.ListVariantPointValues(d.Products, logg))
		})

		r.Get("/membership-levels", controllers.ListMembershipLevels(d.Products, logg))

		r.Route("/orders", func(r chi.Router) {
			r.Post("/", controllers.CreateOrder(d.Orders, logg))
			r.Get("/", controllers.ListOrders(d.Orders, logg))
			r.Route("/{orderID}", func(r chi.Router) {
				r.Get("/", controllers.GetOrder(d.Orders, logg))
				r.Post("/status", controllers.UpdateOrderStatus(d.Orders, logg))
				r.Post("/commission-run", controllers.RunOrderCommission(d.Orders, logg))
			})
		})

		r.Post("/cashout-methods", controllers.CreateCashoutMethod(d.Cashouts, logg))
		r.Delete("/cashout-methods/{methodID}", controllers.DeactivateCashoutMethod(d.Cashouts, logg))
		r.Post("/cashouts", controllers.RequestCashout(d.Cashouts, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireRole(string(enums.UserRoleAdmin), logg))

			r.Post("/adjustments", controllers.CreateAdjustment(d.Activities, logg))
			r.Post("/cashouts/{activityID}/settle", controllers.SettleCashout(d.Cashouts, logg))
			r.Post("/cashouts/{activityID}/reject", controllers.RejectCashout(d.Cashouts, logg))

			r.Route("/reports", func(r chi.Router) {
				r.Get("/credited-totals", controllers.CreditedTotalsReport(d.Reports, logg))
				r.Get("/top-referrers", controllers.TopReferrersReport(d.Reports, logg))
				r.Get("/commission-by-level", controllers.CommissionByLevelReport(d.Reports, logg))
			})

			r.Route("/shop-pages", func(r chi.Router) {
				r.Post("/", controllers.CreateShopPage(d.ShopPages, logg))
				r.Get("/", controllers.ListShopPages(d.ShopPages, logg))
				r.Route("/{pageID}", func(r chi.Router) {
					r.Get("/", controllers.GetShopPage(d.ShopPages, logg))
					r.Put("/", controllers.UpdateShopPage(d.ShopPages, logg))
					r.Delete("/", controllers.DeleteShopPage(d.ShopPages, logg))
					r.Post("/publish", controllers.PublishShopPage(d.ShopPages, logg))
					r.Post("/unpublish", controllers.UnpublishShopPage(d.ShopPages, logg))
				})
			})

			r.Route("/users", func(r chi.Router) {
				r.Get("/", controllers.ListUsers(d.Users, logg))
				r.Post("/{userID}/active", controllers.SetUserActive(d.Users, logg))
			})
		})
	})

	return r
}
