package pool

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"

	"pkt.systems/pslog"
)

type poolMetrics struct {
	active             metric.Int64ObservableGauge
	idle               metric.Int64ObservableGauge
	created            metric.Int64Counter
	destroyed          metric.Int64Counter
	validationFailures metric.Int64Counter
}

type observable interface {
	NumActive() int
	NumIdle() int
}

func newPoolMetrics(logger pslog.Logger, p observable) *poolMetrics {
	meter := otel.Meter("github.com/wuyiadepoju/billing-gateway/pool")
	m := &poolMetrics{}
	var err error

	m.active, err = meter.Int64ObservableGauge(
		"gateway.pool.active",
		metric.WithDescription("Connections currently borrowed"),
	)
	logMetricInitError(logger, "gateway.pool.active", err)

	m.idle, err = meter.Int64ObservableGauge(
		"gateway.pool.idle",
		metric.WithDescription("Connections waiting in the idle set"),
	)
	logMetricInitError(logger, "gateway.pool.idle", err)

	m.created, err = meter.Int64Counter(
		"gateway.pool.created",
		metric.WithDescription("Connections created"),
	)
	logMetricInitError(logger, "gateway.pool.created", err)

	m.destroyed, err = meter.Int64Counter(
		"gateway.pool.destroyed",
		metric.WithDescription("Connections destroyed"),
	)
	logMetricInitError(logger, "gateway.pool.destroyed", err)

	m.validationFailures, err = meter.Int64Counter(
		"gateway.pool.validation_failures",
		metric.WithDescription("Connections that failed validation on borrow"),
	)
	logMetricInitError(logger, "gateway.pool.validation_failures", err)

	if _, err := meter.RegisterCallback(func(_ context.Context, o metric.Observer) error {
		if m.active != nil {
			o.ObserveInt64(m.active, int64(p.NumActive()))
		}
		if m.idle != nil {
			o.ObserveInt64(m.idle, int64(p.NumIdle()))
		}
		return nil
	}, m.active, m.idle); err != nil && logger != nil {
		logger.Warn("telemetry.metric.callback_failed", "name", "gateway.pool", "error", err)
	}
	return m
}

func (m *poolMetrics) add(ctx context.Context, c metric.Int64Counter) {
	if m == nil || c == nil {
		return
	}
	c.Add(ctx, 1)
}

func logMetricInitError(logger pslog.Logger, name string, err error) {
	if err == nil || logger == nil {
		return
	}
	logger.Warn("telemetry.metric.init_failed", "name", name, "error", err)
}
