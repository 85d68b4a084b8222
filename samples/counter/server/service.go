package main

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/wire"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"github.com/weegigs/wee-counter-go/connectors/wehttp"
	"github.com/weegigs/wee-counter-go/samples/counter"
	"github.com/weegigs/wee-counter-go/stores/ds"
	"github.com/weegigs/wee-counter-go/stores/esdbs"
	"github.com/weegigs/wee-counter-go/stores/jetstream"
	"github.com/weegigs/wee-counter-go/stores/memory"
	"github.com/weegigs/wee-counter-go/stores/rds"
	"github.com/weegigs/wee-counter-go/support"
	"github.com/weegigs/wee-counter-go/we"
)

type CounterService = we.EntityService[counter.Counter]

var Live = wire.NewSet(ds.Live)

var Local = wire.NewSet(ds.Local)

var ESDB = wire.NewSet(esdbs.Live)

var JetStream = wire.NewSet(jetstream.Live)

var Redis = wire.NewSet(rds.Live)

func openStore(ctx context.Context, cfg support.Config) (we.EventStore, func(), error) {
	switch cfg.Store {
	case support.DynamoStore:
		return dynamoStore(ctx)
	case support.LocalStore:
		return localStore(ctx)
	case support.ESDBStore:
		return esdbStore(esdbs.Connection(cfg.ESDBConnection))
	case support.JetStreamStore:
		return jetstreamStore(jetstream.URL(cfg.NatsURL), jetstream.StreamName(cfg.NatsStream))
	case support.RedisStore:
		return redisStore(ctx, rds.Address(cfg.RedisAddress))
	default:
		return memory.NewEventStore(), func() {}, nil
	}
}

// newRegistry returns a registry with process and runtime collectors
// alongside the command metrics.
func newRegistry() (*prometheus.Registry, *we.Metrics, error) {
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	metrics, err := we.NewMetrics(registry)
	if err != nil {
		return nil, nil, err
	}

	return registry, metrics, nil
}

func routes(service CounterService, registry *prometheus.Registry, limiter *wehttp.Limiter) http.Handler {
	options := []wehttp.HandlerOption[counter.Counter]{
		wehttp.Logger[counter.Counter](log.Logger),
		wehttp.Encoder[counter.Counter](counter.ResourceEncoder()),
	}
	if limiter != nil {
		options = append(options, wehttp.RateLimit[counter.Counter](limiter))
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	r.Mount("/", wehttp.NewHandler[counter.Counter](service, options...))

	return withLogging(r)
}
