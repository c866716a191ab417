package main // Entry point package

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"github.com/iliyamo/travel-api/internal/config"
	"github.com/iliyamo/travel-api/internal/database"
	"github.com/iliyamo/travel-api/internal/handler"
	"github.com/iliyamo/travel-api/internal/logging"
	"github.com/iliyamo/travel-api/internal/middleware"
	"github.com/iliyamo/travel-api/internal/repository"
	"github.com/iliyamo/travel-api/internal/router"
	"github.com/iliyamo/travel-api/internal/service"
)

func main() {
	cfg := config.Load() // Load environment config
	log, sync := logging.New(cfg.Env)
	defer func() { _ = sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.Open(ctx, cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatal("database connect failed", zap.Error(err))
	}
	defer db.Close()
	log.Info("database connected", zap.String("host", cfg.DBHost), zap.String("name", cfg.DBName))

	travels := repository.NewTravelRepo(db)
	tours := repository.NewTourRepo(db)
	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	tokenSvc := service.NewTokenService(cfg.JWTSecret, time.Duration(cfg.AccessTTLMin)*time.Minute, tokens, users, log)

	var events handler.EventPublisher = service.NoopPublisher{}
	if cfg.AuditEnabled {
		events = service.NewAuditPublisher(cfg.AMQPURL, log)
	}

	// Redis only backs the login limiter; without it login is unthrottled.
	rdb := config.NewRedisClient(ctx)
	if rdb == nil {
		log.Warn("redis unavailable, login rate limiting disabled")
	} else {
		defer rdb.Close()
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	e := router.New(router.Deps{
		Public:     handler.NewPublicHandler(travels, tours, log),
		Auth:       handler.NewAuthHandler(users, tokenSvc, log),
		Admin:      handler.NewAdminHandler(travels, tours, events, log),
		Verifier:   tokenSvc,
		Roles:      users,
		DB:         db,
		Metrics:    middleware.NewMetrics(reg),
		Gatherer:   reg,
		LoginLimit: middleware.RateLimit(config.LoadRateLimitConfig(), rdb, log),
		Log:        log,
	})

	addr := ":" + cfg.Port // Address string with port
	go func() {
		log.Info("listening", zap.String("addr", addr))
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown", zap.Error(err))
	}
}
