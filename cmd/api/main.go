package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/paulobrigidofilho/orbishistorymaps-sub001/config"
	"github.com/paulobrigidofilho/orbishistorymaps-sub001/internal/delivery/http/middleware"
	v1 "github.com/paulobrigidofilho/orbishistorymaps-sub001/internal/delivery/http/v1"
	"github.com/paulobrigidofilho/orbishistorymaps-sub001/internal/domain"
	"github.com/paulobrigidofilho/orbishistorymaps-sub001/internal/freight"
	"github.com/paulobrigidofilho/orbishistorymaps-sub001/internal/infrastructure/cache"
	"github.com/paulobrigidofilho/orbishistorymaps-sub001/internal/migrate"
	boltrepo "github.com/paulobrigidofilho/orbishistorymaps-sub001/internal/repository/bolt"
	postgresrepo "github.com/paulobrigidofilho/orbishistorymaps-sub001/internal/repository/postgres"
	"github.com/paulobrigidofilho/orbishistorymaps-sub001/internal/usecase"
	"github.com/paulobrigidofilho/orbishistorymaps-sub001/pkg/logger"
	"github.com/paulobrigidofilho/orbishistorymaps-sub001/pkg/utils"

	"github.com/NYTimes/gziphandler"
	"github.com/shopspring/decimal"
	"golang.org/x/time/rate"
)

// store bundles the configuration repository with its lifecycle hooks.
type store struct {
	repo  domain.FreightConfigRepository
	ping  func(ctx context.Context) error
	close func()
}

func openStore(ctx context.Context, cfg *config.Config) (*store, error) {
	switch cfg.StoreDriver {
	case config.StoreDriverBolt:
		s, err := boltrepo.Open(cfg.BoltPath)
		if err != nil {
			return nil, err
		}
		return &store{repo: s, close: func() { s.Close() }}, nil
	default:
		pool, err := postgresrepo.NewPgxPool(ctx, cfg)
		if err != nil {
			return nil, err
		}
		if cfg.DBAutoMigrate {
			if err := migrate.Apply(ctx, pool); err != nil {
				pool.Close()
				return nil, fmt.Errorf("auto migrate: %w", err)
			}
		}
		return &store{repo: postgresrepo.NewFreightConfigRepository(pool), ping: pool.Ping, close: pool.Close}, nil
	}
}

func thresholdDefaults(cfg *config.Config) (freight.ThresholdDefaults, error) {
	parse := func(name, s string) (decimal.Decimal, error) {
		d, err := domain.ParseAmount(s)
		if err != nil || d.IsNegative() {
			return decimal.Zero, fmt.Errorf("%s must be a non-negative number, got %q", name, s)
		}
		return d, nil
	}
	var (
		out freight.ThresholdDefaults
		err error
	)
	if out.Local, err = parse("FREIGHT_THRESHOLD_LOCAL", cfg.FreightThresholdLocal); err != nil {
		return out, err
	}
	if out.National, err = parse("FREIGHT_THRESHOLD_NATIONAL", cfg.FreightThresholdNational); err != nil {
		return out, err
	}
	if out.International, err = parse("FREIGHT_THRESHOLD_INTERNATIONAL", cfg.FreightThresholdInternational); err != nil {
		return out, err
	}
	return out, nil
}

func main() {
	cfg := config.LoadConfig()
	utils.SetSecret(cfg.JWTSecret)

	logger.Init(cfg.Env, cfg.LogLevel)
	log := logger.Get()

	st, err := openStore(context.Background(), cfg)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.StoreDriver).Msg("Failed to open freight config store")
	}
	defer st.close()
	log.Info().Str("driver", cfg.StoreDriver).Msg("Freight config store ready")

	// Default expiration 30m, cleanup every 60m
	memCache := cache.NewMemoryCache(30*time.Minute, 60*time.Minute)

	defaults, err := thresholdDefaults(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid freight threshold defaults")
	}

	// --- Freight Module ---
	table := freight.DefaultZoneTable()
	validator := freight.NewValidator(defaults, freight.NewDefaultsEngine(table.Multipliers()), cfg.FreightLocalCity, cfg.FreightCurrency)
	freightUC := usecase.NewFreightUsecase(
		st.repo,
		memCache,
		table,
		freight.NewResolver(table, cfg.FreightLocalCity),
		validator,
		usecase.FreightOptions{ConfigTTL: cfg.CacheFreightTTL, ZonesTTL: cfg.CacheZonesTTL},
	)
	freightHandler := v1.NewFreightHandler(freightUC)
	adminFreightHandler := v1.NewAdminFreightHandler(freightUC)

	mux := http.NewServeMux()

	// Freight (Public)
	mux.HandleFunc("GET /api/v1/freight/zones", freightHandler.ListZones)
	mux.HandleFunc("POST /api/v1/freight/zone", freightHandler.ResolveZone)
	mux.HandleFunc("POST /api/v1/freight/quote", freightHandler.Quote)

	// Freight (Admin)
	mux.Handle("GET /api/v1/admin/freight/config", middleware.RequireAdmin(adminFreightHandler.GetConfig))
	mux.Handle("PUT /api/v1/admin/freight/config", middleware.RequireAdmin(adminFreightHandler.UpdateConfig))
	mux.Handle("POST /api/v1/admin/freight/validate", middleware.RequireAdmin(adminFreightHandler.ValidateConfig))
	mux.Handle("POST /api/v1/admin/freight/defaults", middleware.RequireAdmin(adminFreightHandler.DeriveDefaults))

	// Health Check
	healthHandler := v1.NewHealthHandler(cfg.StoreDriver, st.ping)
	mux.Handle("GET /api/v1/health", healthHandler)
	mux.Handle("GET /health", healthHandler) // Support root health check for Load Balancers

	addr := fmt.Sprintf(":%s", cfg.Port)

	// cleanup every minute, TTL 3 minutes
	rateLimiter := middleware.NewRateLimiter(
		context.Background(),
		rate.Limit(cfg.RateLimitRPS),
		cfg.RateLimitBurst,
		time.Minute,
		3*time.Minute,
	)

	handler := middleware.NewCORSMiddleware(cfg)(mux)
	handler = middleware.RequestLogger(handler)
	handler = rateLimiter.Middleware()(handler)
	handler = gziphandler.GzipHandler(handler)

	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed to start")
		}
	}()

	logger.ServiceStart("freight-api", cfg.StoreDriver, cfg.Port)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Server shutting down...")

	rateLimiter.Shutdown()

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	logger.ServiceStop("freight-api")
}
