package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	docs "github.com/tazhibayda/devconnector/docs"
	"github.com/tazhibayda/devconnector/internal/config"
	api "github.com/tazhibayda/devconnector/internal/http"
	dlog "github.com/tazhibayda/devconnector/internal/log"
	"github.com/tazhibayda/devconnector/internal/metrics"
	"github.com/tazhibayda/devconnector/internal/queue"
	"github.com/tazhibayda/devconnector/internal/repo"
	"go.uber.org/zap"
	"gopkg.in/DataDog/dd-trace-go.v1/ddtrace/tracer"
)

const service = "devconnector-api"

// @title DevConnector API
// @version 1.0.0
// @description User registration and developer profiles.
// @schemes http https
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, err := config.Load(".")
	if err != nil {
		panic(err)
	}

	l, err := dlog.Init(cfg.App.Production)
	if err != nil {
		panic(err)
	}
	defer func() { _ = l.Sync() }()

	if cfg.DD.Enabled {
		tracer.Start(tracer.WithService(service), tracer.WithEnv(cfg.App.Env))
		defer tracer.Stop()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	store, err := repo.NewStore(ctx, cfg.Mongo.URI, cfg.Mongo.DB)
	if err != nil {
		l.Fatal("mongo connect", zap.Error(err))
	}
	defer store.Close(context.Background())

	if err := store.EnsureIndexes(ctx); err != nil {
		l.Fatal("mongo indexes", zap.Error(err))
	}

	var pub queue.Publisher = queue.NewNoop()
	if cfg.Rabbit.URL != "" {
		rp, err := queue.NewRabbit(cfg.Rabbit.URL, cfg.Rabbit.Exchange)
		if err != nil {
			l.Warn("rabbit unavailable, events disabled", zap.Error(err))
		} else {
			pub = rp
		}
	}
	defer pub.Close()

	var limiter api.Limiter
	if cfg.RateLimit.PerMin > 0 {
		limiter = api.NewRateLimiter(cfg.RateLimit.PerMin, time.Minute)
		if cfg.Redis.Addr != "" {
			rds := repo.NewRedis(cfg.Redis.Addr)
			if err := rds.Ping(ctx); err != nil {
				l.Warn("redis unavailable, using in-process rate limiter", zap.Error(err))
				_ = rds.Close()
			} else {
				defer rds.Close()
				limiter = api.RedisLimiter{R: rds, Rate: cfg.RateLimit.PerMin, Window: time.Minute}
			}
		}
	}

	metrics.MustRegister()
	docs.SwaggerInfo.BasePath = "/"

	h := api.NewHandler(store, cfg.Auth.JWTSecret, cfg.Auth.TokenTTL, pub, l)
	r := api.NewRouter(h, api.RouterOptions{
		RequestTimeout: cfg.HTTP.RequestTimeout,
		Limiter:        limiter,
		Service:        service,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.App.Port,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	srvErr := make(chan error, 1)
	go func() { srvErr <- srv.ListenAndServe() }()
	l.Info("devconnector listening", zap.String("port", cfg.App.Port), zap.String("env", cfg.App.Env))

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	select {
	case s := <-sig:
		l.Info("shutting down", zap.String("signal", s.String()))
	case err := <-srvErr:
		if !errors.Is(err, http.ErrServerClosed) {
			l.Error("server error", zap.Error(err))
		}
	}

	shutCtx, shutCancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer shutCancel()
	if err := srv.Shutdown(shutCtx); err != nil {
		l.Error("graceful shutdown", zap.Error(err))
	}
}
