package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/ozzus/holiday-deals/grpcapp"
	"github.com/ozzus/holiday-deals/internal/application/service"
	"github.com/ozzus/holiday-deals/internal/config"
	postgres "github.com/ozzus/holiday-deals/internal/infrastructures/db/postgres/repo"
	cacheredis "github.com/ozzus/holiday-deals/internal/infrastructures/db/redis"
	dealstracing "github.com/ozzus/holiday-deals/internal/infrastructures/db/tracing"
	"github.com/ozzus/holiday-deals/internal/transport/http/handlers"
	"github.com/ozzus/holiday-deals/internal/transport/http/middleware"
	"github.com/ozzus/holiday-deals/internal/validator"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	_ = godotenv.Load(".env")

	cfg := config.MustLoad()
	log := setupLogger(cfg.Log.Level)
	defer func() {
		_ = log.Sync()
	}()

	tp, err := dealstracing.InitTracer("deals-api", cfg.Jaeger.Address, cfg.Jaeger.Enabled)
	if err != nil {
		log.Fatal("failed to init tracer", zap.Error(err))
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tp.Shutdown(shutdownCtx); err != nil {
			log.Warn("failed to shutdown tracer provider", zap.Error(err))
		}
	}()

	log.Info("deals-api starting",
		zap.String("env", cfg.Env),
		zap.String("http_addr", cfg.HTTP.Address()),
		zap.Int("grpc_port", cfg.GRPC.Port),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	repo, err := postgres.New(connectCtx, cfg.DB.DatabaseURL())
	cancel()
	if err != nil {
		log.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer repo.Close()

	if cfg.DB.Migrate {
		if err := repo.Migrate(ctx); err != nil {
			log.Fatal("failed to migrate schema", zap.Error(err))
		}
		log.Info("schema migrated")
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer func() {
		if err := redisClient.Close(); err != nil {
			log.Warn("failed to close redis client", zap.Error(err))
		}
	}()

	dealService := service.NewDealService(log, repo, repo, cacheredis.NewDealCache(redisClient), cfg.DealCacheTTL)
	fareService := service.NewFareService(log, dealService, cfg.Catalog.Concurrency)
	hotelService := service.NewHotelService(log, repo.Hotels())
	bookingService := service.NewBookingService(log, dealService, repo.Bookings())

	var ready atomic.Bool
	ready.Store(true)
	checkStorage := func(ctx context.Context) error {
		err := repo.Ping(ctx)
		ready.Store(err == nil)
		return err
	}

	router := handlers.NewRouter(log, handlers.RouterDeps{
		Deals:          dealService,
		Fares:          fareService,
		Hotels:         hotelService,
		Bookings:       bookingService,
		Validator:      validator.New(),
		BookingLimiter: middleware.NewLimiter(cfg.Booking.RateLimit, cfg.Booking.Burst),
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		MaxUploadBytes: cfg.HTTP.MaxUploadBytes,
		Ready:          ready.Load,
	})

	server := &http.Server{
		Addr:              cfg.HTTP.Address(),
		Handler:           router,
		ReadTimeout:       cfg.HTTP.ReadTimeout,
		ReadHeaderTimeout: cfg.HTTP.ReadTimeout,
		WriteTimeout:      cfg.HTTP.WriteTimeout,
	}

	app := grpcapp.New(log, cfg.GRPC.Host, cfg.GRPC.Port)
	go app.WatchReadiness(ctx, cfg.DB.PingInterval, checkStorage)

	errCh := make(chan error, 2)
	go func() {
		errCh <- app.Run()
	}()
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received")
	case err := <-errCh:
		if err != nil {
			log.Error("server stopped", zap.Error(err))
		}
	}

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancelShutdown()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("http shutdown error", zap.Error(err))
	}
	app.Stop()
}

func setupLogger(level string) *zap.Logger {
	zapLevel := parseLogLevel(level)
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zapLevel)

	log, err := cfg.Build()
	if err != nil {
		panic(err)
	}

	return log
}

func parseLogLevel(level string) zapcore.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return zapcore.DebugLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}
