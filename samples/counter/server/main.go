package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	pkgerrors "github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/weegigs/wee-counter-go/connectors/wehttp"
	"github.com/weegigs/wee-counter-go/samples/counter"
	"github.com/weegigs/wee-counter-go/support"
)

func run() error {
	cfg, err := support.LoadConfig()
	if err != nil {
		return pkgerrors.Wrap(err, "invalid configuration")
	}

	if err := configureLogging(cfg.LogLevel); err != nil {
		return pkgerrors.Wrap(err, "invalid log level")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := installTelemetry(ctx, cfg)
	if err != nil {
		return pkgerrors.Wrap(err, "failed to install telemetry")
	}
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			log.WithError(err).Warn("failed to flush traces")
		}
	}()

	store, cleanup, err := openStore(ctx, cfg)
	if err != nil {
		return pkgerrors.Wrapf(err, "failed to open %s store", cfg.Store)
	}
	defer cleanup()

	registry, metrics, err := newRegistry()
	if err != nil {
		return pkgerrors.Wrap(err, "failed to register metrics")
	}

	var limiter *wehttp.Limiter
	if cfg.RateLimitRPS > 0 {
		limiter = wehttp.NewLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
		limiter.StartJanitor(ctx, 2*time.Minute)
	}

	service := counter.CreateCounterService(store, metrics)
	server := &http.Server{
		Addr:              cfg.ListenAddress,
		Handler:           routes(service, registry, limiter),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()

		shutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdown); err != nil {
			log.WithError(err).Warn("server shutdown failed")
		}
	}()

	log.WithFields(log.Fields{"address": cfg.ListenAddress, "store": cfg.Store}).Info("listening")
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}

func main() {
	if err := run(); err != nil {
		log.WithError(err).Fatal("server failed")
	}
}
