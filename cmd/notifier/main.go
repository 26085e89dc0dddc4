package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/tazhibayda/devconnector/internal/config"
	dlog "github.com/tazhibayda/devconnector/internal/log"
	"github.com/tazhibayda/devconnector/internal/metrics"
	"github.com/tazhibayda/devconnector/internal/notify"
	"github.com/tazhibayda/devconnector/internal/queue"
	"go.uber.org/zap"
)

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

	if cfg.Rabbit.URL == "" {
		l.Fatal("RABBIT_URL is required for the notifier")
	}

	cons, err := queue.NewConsumer(cfg.Rabbit.URL, cfg.Rabbit.Exchange, cfg.Rabbit.Queue, cfg.Rabbit.BindKeys)
	if err != nil {
		l.Fatal("rabbit consumer init failed", zap.Error(err))
	}
	defer cons.Close()

	metrics.MustRegister()
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	ms := &http.Server{Addr: ":" + cfg.App.Port, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := ms.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			l.Warn("metrics listener", zap.Error(err))
		}
	}()
	defer ms.Close()

	n := notify.New(notify.LogSender{Log: l}, l)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	l.Info("notifier up",
		zap.String("exchange", cfg.Rabbit.Exchange),
		zap.String("queue", cfg.Rabbit.Queue),
		zap.Strings("keys", cfg.Rabbit.BindKeys),
		zap.Int("workers", cfg.Rabbit.Concurrency),
	)

	if err := cons.Consume(ctx, cfg.Rabbit.Concurrency, n.Handle); err != nil {
		l.Error("consumer stopped", zap.Error(err))
	}
}
