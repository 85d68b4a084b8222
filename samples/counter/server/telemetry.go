package main

import (
	"context"

	"go.opentelemetry.io/otel/sdk/trace"

	"github.com/weegigs/wee-counter-go/support"
	"github.com/weegigs/wee-counter-go/we"
)

func installTelemetry(ctx context.Context, cfg support.Config) (func(context.Context) error, error) {
	var exporter trace.SpanExporter
	var err error

	switch cfg.Telemetry {
	case support.ConsoleTelemetry:
		exporter, err = we.ConsoleExporter()
	case support.JaegerTelemetry:
		exporter, err = we.JaegerExporter(cfg.JaegerEndpoint)
	case support.HoneycombTelemetry:
		exporter, err = we.HoneycombExporter(ctx, cfg.HoneycombTeam, cfg.HoneycombDataset)
	default:
		return func(context.Context) error { return nil }, nil
	}

	if err != nil {
		return nil, err
	}

	return we.InstallTracing(exporter), nil
}
