package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	otelprometheus "go.opentelemetry.io/otel/exporters/prometheus"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"pkt.systems/pslog"
)

type telemetry struct {
	meterProvider *sdkmetric.MeterProvider
	metricsServer *http.Server
	logger        pslog.Logger
}

type otelErrorHandler struct {
	logger pslog.Logger
}

func (h otelErrorHandler) Handle(err error) {
	if err != nil {
		h.logger.Warn("telemetry.exporter.error", "error", err)
	}
}

// setupTelemetry exports the pool and session instruments on
// listen/metrics. An empty listen address disables it.
func setupTelemetry(listen string, logger pslog.Logger) (*telemetry, error) {
	listen = strings.TrimSpace(listen)
	if listen == "" {
		return nil, nil
	}

	registry := prometheus.NewRegistry()
	exporter, err := otelprometheus.New(otelprometheus.WithRegisterer(registry))
	if err != nil {
		return nil, fmt.Errorf("telemetry: start prometheus exporter: %w", err)
	}
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(exporter))
	otel.SetMeterProvider(provider)
	otel.SetErrorHandler(otelErrorHandler{logger: logger})

	ln, err := net.Listen("tcp", listen)
	if err != nil {
		_ = provider.Shutdown(context.Background())
		return nil, fmt.Errorf("telemetry: metrics listen: %w", err)
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", otelhttp.NewHandler(promhttp.HandlerFor(registry, promhttp.HandlerOpts{}), "metrics"))
	srv := &http.Server{Handler: mux}
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Warn("telemetry.metrics.serve_error", "error", err)
		}
	}()
	logger.Info("telemetry.metrics.enabled", "listen", ln.Addr().String())
	return &telemetry{meterProvider: provider, metricsServer: srv, logger: logger}, nil
}

func (t *telemetry) Shutdown(ctx context.Context) error {
	var errs []error
	if err := t.meterProvider.Shutdown(ctx); err != nil {
		errs = append(errs, fmt.Errorf("metric shutdown: %w", err))
	}
	if err := t.metricsServer.Shutdown(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		errs = append(errs, fmt.Errorf("metrics server shutdown: %w", err))
	}
	if len(errs) > 0 {
		t.logger.Warn("telemetry.shutdown.failed", "error", errors.Join(errs...))
		return errors.Join(errs...)
	}
	return nil
}
