// Package telemetry centralizes OpenTelemetry meter/tracer access for the
// whole module. Call sites look exactly like the teacher's
// internal/compact/haiku.go ("m := telemetry.Meter(...)",
// "tracer := telemetry.Tracer(...)"); this package just owns the
// MeterProvider/TracerProvider wiring those calls assumed existed
// elsewhere in the teacher repo.
package telemetry

import (
	"context"
	"os"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	stdoutmetric "go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	stdouttrace "go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

// Meter returns a named metric.Meter from the global MeterProvider.
func Meter(name string) metric.Meter {
	return otel.GetMeterProvider().Meter(name)
}

// Tracer returns a named trace.Tracer from the global TracerProvider.
func Tracer(name string) trace.Tracer {
	return otel.GetTracerProvider().Tracer(name)
}

// Init installs a MeterProvider and TracerProvider for the process
// lifetime. With OTEL_EXPORTER_OTLP_ENDPOINT set it exports metrics via
// OTLP/HTTP; otherwise it writes human-readable metrics to stdout. Spans
// are always written to stdout, suitable for local
// `schemadoc plan|document|index` runs. Returns a shutdown func to flush on
// exit.
func Init(ctx context.Context, serviceName string) (shutdown func(context.Context) error, err error) {
	var metricReader sdkmetric.Reader
	if endpoint := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"); endpoint != "" {
		exp, err := otlpmetrichttp.New(ctx)
		if err != nil {
			return nil, err
		}
		metricReader = sdkmetric.NewPeriodicReader(exp)
	} else {
		exp, err := stdoutmetric.New(stdoutmetric.WithoutTimestamps())
		if err != nil {
			return nil, err
		}
		metricReader = sdkmetric.NewPeriodicReader(exp)
	}

	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(metricReader))
	otel.SetMeterProvider(mp)

	traceExp, err := stdouttrace.New(stdouttrace.WithPrettyPrint())
	if err != nil {
		return nil, err
	}
	tp := sdktrace.NewTracerProvider(sdktrace.WithBatcher(traceExp))
	otel.SetTracerProvider(tp)

	return func(ctx context.Context) error {
		if err := tp.Shutdown(ctx); err != nil {
			return err
		}
		return mp.Shutdown(ctx)
	}, nil
}
