package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/dcastellanos/vendapoint-backend/api/controllers"
	"github.com/dcastellanos/vendapoint-backend/api/routes"
	"github.com/dcastellanos/vendapoint-backend/internal/accounts"
	"github.com/dcastellanos/vendapoint-backend/internal/activities"
	authsvc "github.com/dcastellanos/vendapoint-backend/internal/auth"
	"github.com/dcastellanos/vendapoint-backend/internal/cashouts"
	"github.com/dcastellanos/vendapoint-backend/internal/commission"
	"github.com/dcastellanos/vendapoint-backend/internal/orders"
	"github.com/dcastellanos/vendapoint-backend/internal/products"
	"github.com/dcastellanos/vendapoint-backend/internal/referrals"
	"github.com/dcastellanos/vendapoint-backend/internal/reports"
	"github.com/dcastellanos/vendapoint-backend/internal/shoppages"
	"github.com/dcastellanos/vendapoint-backend/internal/users"
	"github.com/dcastellanos/vendapoint-backend/pkg/auth/session"
	"github.com/dcastellanos/vendapoint-backend/pkg/config"
	"github.com/dcastellanos/vendapoint-backend/pkg/db"
	"github.com/dcastellanos/vendapoint-backend/pkg/logger"
	"github.com/dcastellanos/vendapoint-backend/pkg/mailer"
	"github.com/dcastellanos/vendapoint-backend/pkg/metrics"
	"github.com/dcastellanos/vendapoint-backend/pkg/migrate"
	"github.com/dcastellanos/vendapoint-backend/pkg/outbox"
	"github.com/dcastellanos/vendapoint-backend/pkg/redis"
)

const shutdownGrace = 15 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	commissionMetrics := metrics.NewCommissionMetrics(registry)

	mail := mailer.New(cfg.SMTP, logg)
	emitter := outbox.NewService(outbox.NewRepository(dbClient.DB()), logg)

	usersRepo := users.NewRepository(dbClient.DB())
	accountsRepo := accounts.NewRepository(dbClient.DB())
	referralsRepo := referrals.NewRepository(dbClient.DB())
	activitiesRepo := activities.NewRepository(dbClient.DB())
	productsRepo := products.NewRepository(dbClient.DB())
	ordersRepo := orders.NewRepository(dbClient.DB())
	cashoutsRepo := cashouts.NewRepository(dbClient.DB())
	runsRepo := commission.NewRunRepository(dbClient.DB())
	pagesRepo := shoppages.NewRepository(dbClient.DB())

	authService, err := authsvc.NewService(authsvc.ServiceParams{
		UserRepo:       usersRepo,
		SessionManager: sessionManager,
		Limiter:        redisClient,
		JWTConfig:      cfg.JWT,
		RateLimit:      cfg.AuthRateLimit,
		PasswordConfig: cfg.Password,
	})
	exitOn(logg, "failed to create auth service", err)

	registerService, err := authsvc.NewRegisterService(authsvc.RegisterServiceParams{
		DB:             dbClient,
		PasswordConfig: cfg.Password,
	})
	exitOn(logg, "failed to create register service", err)

	referralsService, err := referrals.NewService(referralsRepo, cfg.Settings, logg)
	exitOn(logg, "failed to create referrals service", err)

	accountsService, err := accounts.NewService(accountsRepo, referralsService, dbClient, mail, logg)
	exitOn(logg, "failed to create accounts service", err)

	activitiesService, err := activities.NewService(activitiesRepo)
	exitOn(logg, "failed to create activities service", err)

	productsService, err := products.NewService(productsRepo)
	exitOn(logg, "failed to create products service", err)

	commissionService, err := commission.NewService(commission.Params{
		Orders:   ordersRepo,
		Upline:   referralsService,
		Points:   productsService,
		Ledger:   activitiesService,
		Runs:     runsRepo,
		Tx:       dbClient,
		Emitter:  emitter,
		Recorder: commissionMetrics,
		Logger:   logg,
	})
	exitOn(logg, "failed to create commission service", err)

	ordersService, err := orders.NewService(orders.Params{
		Repo:       ordersRepo,
		Variants:   productsRepo,
		Codes:      referralsService,
		Commission: commissionService,
		Tx:         dbClient,
		Emitter:    emitter,
		Logger:     logg,
	})
	exitOn(logg, "failed to create orders service", err)

	cashoutsService, err := cashouts.NewService(cashouts.Params{
		Repo:     cashoutsRepo,
		Ledger:   activitiesService,
		Accounts: accountsRepo,
		Tx:       dbClient,
		Emitter:  emitter,
		Mail:     mail,
		Settings: cfg.Settings,
		Logger:   logg,
	})
	exitOn(logg, "failed to create cashouts service", err)

	reportsService, err := reports.NewService(reports.NewRepository(dbClient.DB()))
	exitOn(logg, "failed to create reports service", err)

	shopPagesService, err := shoppages.NewService(shoppages.Params{
		Repo:   pagesRepo,
		Tx:     dbClient,
		Logger: logg,
	})
	exitOn(logg, "failed to create shop pages service", err)

	handler := routes.NewRouter(routes.Deps{
		Config:   cfg,
		Logger:   logg,
		Redis:    redisClient,
		Sessions: sessionManager,
		Metrics:  registry,
		Pingers: map[string]controllers.Pinger{
			"database": dbClient,
			"redis":    redisClient,
		},
		AuthService:     authService,
		RegisterService: registerService,
		Accounts:        accountsService,
		Referrals:       referralsService,
		Activities:      activitiesService,
		Products:        productsService,
		Orders:          ordersService,
		Cashouts:        cashoutsService,
		Reports:         reportsService,
		ShopPages:       shopPagesService,
		Users:           usersRepo,
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr:    addr,
		Handler: handler,
	}

	shutdownCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-shutdownCtx.Done():
		logg.Info(ctx, "shutting down api server")
		graceCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		if err := server.Shutdown(graceCtx); err != nil {
			logg.Error(ctx, "api server shutdown failed", err)
			os.Exit(1)
		}
	}
}

func exitOn(logg *logger.Logger, msg string, err error) {
	if err == nil {
		return
	}
	logg.Error(context.Background(), msg, err)
	os.Exit(1)
}
