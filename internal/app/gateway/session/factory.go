package session

import (
	"context"

	"pkt.systems/pslog"

	"github.com/wuyiadepoju/billing-gateway/internal/app/gateway/contracts"
)

// Validator runs a cheap read on a connection to prove its session works.
type Validator func(ctx context.Context, conn contracts.Connection) error

// Factory makes session clients for the connection pool.
type Factory struct {
	api      contracts.RemoteAPI
	cfg      Config
	logger   pslog.Logger
	validate Validator
}

func NewFactory(api contracts.RemoteAPI, cfg Config, validate Validator, logger pslog.Logger) *Factory {
	if logger == nil {
		logger = pslog.NoopLogger()
	}
	return &Factory{api: api, cfg: cfg, logger: logger, validate: validate}
}

func (f *Factory) Make(ctx context.Context) (contracts.Connection, error) {
	return Dial(ctx, f.api, f.cfg, f.logger)
}

// Validate reports whether conn still holds a usable session. Without a
// validator only the presence of a session token is checked.
func (f *Factory) Validate(ctx context.Context, conn contracts.Connection) bool {
	if conn == nil || !conn.Session().Valid() {
		return false
	}
	if f.validate == nil {
		return true
	}
	if err := f.validate(ctx, conn); err != nil {
		f.logger.Debug("session.validate.failed", "endpoint", conn.Session().Endpoint, "error", err)
		return false
	}
	return true
}

// Destroy drops a client. Sessions expire on the remote side, so there is
// nothing to release.
func (f *Factory) Destroy(conn contracts.Connection) {
	if conn == nil {
		return
	}
	f.logger.Trace("session.destroy", "endpoint", conn.Session().Endpoint)
}
