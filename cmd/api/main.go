package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"github.com/tiffinbox/backend/api/routes"
	authsvc "github.com/tiffinbox/backend/internal/auth"
	cartsvc "github.com/tiffinbox/backend/internal/cart"
	"github.com/tiffinbox/backend/internal/catalog"
	ordersvc "github.com/tiffinbox/backend/internal/orders"
	partnersvc "github.com/tiffinbox/backend/internal/partners"
	"github.com/tiffinbox/backend/internal/users"
	"github.com/tiffinbox/backend/pkg/config"
	"github.com/tiffinbox/backend/pkg/db"
	"github.com/tiffinbox/backend/pkg/logger"
	"github.com/tiffinbox/backend/pkg/migrate"
	"github.com/tiffinbox/backend/pkg/redis"
	"github.com/tiffinbox/backend/pkg/storage/local"
)

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

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	uploads, err := local.New(cfg.Uploads)
	if err != nil {
		logg.Error(context.Background(), "failed to prepare uploads dir", err)
		os.Exit(1)
	}

	deliveryCharge, err := cfg.Cart.DeliveryChargeDecimal()
	if err != nil {
		logg.Error(context.Background(), "invalid delivery charge", err)
		os.Exit(1)
	}

	devCode := ""
	if !cfg.App.IsProd() {
		devCode = cfg.Passcode.DevCode
	}
	passcodes, err := authsvc.NewProvider(redisClient, authsvc.LogSender{Logg: logg}, cfg.Passcode.TTL, devCode)
	if err != nil {
		logg.Error(context.Background(), "failed to create passcode provider", err)
		os.Exit(1)
	}

	authService, err := authsvc.NewService(users.NewRepository(dbClient.DB()), passcodes, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	catalogRepo := catalog.NewRepository(dbClient.DB())
	catalogService, err := catalog.NewService(catalogRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create catalog service", err)
		os.Exit(1)
	}

	cartRepo := cartsvc.NewRepository(dbClient.DB())
	cartService, err := cartsvc.NewService(cartRepo, dbClient, catalogRepo, deliveryCharge)
	if err != nil {
		logg.Error(context.Background(), "failed to create cart service", err)
		os.Exit(1)
	}

	partnerRepo := partnersvc.NewRepository(dbClient.DB())
	partnerService, err := partnersvc.NewService(partnerRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create partner service", err)
		os.Exit(1)
	}

	orderService, err := ordersvc.NewService(ordersvc.NewRepository(dbClient.DB()), cartRepo, partnerRepo, dbClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create order service", err)
		os.Exit(1)
	}

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
		Addr: addr,
		Handler: routes.NewRouter(
			cfg,
			logg,
			dbClient,
			redisClient,
			uploads,
			authService,
			catalogService,
			cartService,
			orderService,
			partnerService,
		),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
