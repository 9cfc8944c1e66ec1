package session

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"

	"pkt.systems/pslog"
)

type clientMetrics struct {
	relogins metric.Int64Counter
}

var (
	metricsOnce sync.Once
	metricsInst *clientMetrics
)

func sharedMetrics(logger pslog.Logger) *clientMetrics {
	metricsOnce.Do(func() {
		meter := otel.Meter("github.com/wuyiadepoju/billing-gateway/session")
		m := &clientMetrics{}
		var err error
		m.relogins, err = meter.Int64Counter(
			"gateway.session.relogins",
			metric.WithDescription("Logins performed to replace an expired session"),
		)
		logMetricInitError(logger, "gateway.session.relogins", err)
		metricsInst = m
	})
	return metricsInst
}

func (m *clientMetrics) addRelogin(ctx context.Context) {
	if m == nil || m.relogins == nil {
		return
	}
	m.relogins.Add(ctx, 1)
}

func logMetricInitError(logger pslog.Logger, name string, err error) {
	if err == nil || logger == nil {
		return
	}
	logger.Warn("telemetry.metric.init_failed", "name", name, "error", err)
}
