package pool

import (
	"context"

	"github.com/rs/xid"
	"pkt.systems/pslog"

	"github.com/wuyiadepoju/billing-gateway/internal/app/gateway/domain"
)

// Lender is the borrow/return half of a pool.
type Lender[C any] interface {
	Borrow(ctx context.Context) (C, error)
	Return(c C) error
}

// WithConnection borrows a client, runs fn on it and returns the client on
// every exit path, panics included. A failed Return is logged and never
// replaces fn's result. A failed Borrow is reported as the error together
// with an unknown-kind failure.
func WithConnection[C, T any](ctx context.Context, p Lender[C], fn func(C) domain.Result[T]) (domain.Result[T], error) {
	logger := loggerOf(p).With("scope", xid.New().String())

	conn, err := p.Borrow(ctx)
	if err != nil {
		logger.Warn("pool.borrow.failed", "error", err)
		return domain.Failuref[T](domain.KindUnknown, "could not borrow a connection: %v", err), err
	}
	logger.Trace("pool.borrow.ok")

	defer func() {
		if err := p.Return(conn); err != nil {
			logger.Warn("pool.return.failed", "error", err)
		}
	}()
	return fn(conn), nil
}

func loggerOf(p any) pslog.Logger {
	if l, ok := p.(interface{ Logger() pslog.Logger }); ok && l.Logger() != nil {
		return l.Logger()
	}
	return pslog.NoopLogger()
}

// Call is WithConnection for callers that want a plain (value, error): a
// failed Result comes back as its *domain.RemoteError.
func Call[C, T any](ctx context.Context, p Lender[C], fn func(C) domain.Result[T]) (T, error) {
	r, err := WithConnection(ctx, p, fn)
	if err != nil {
		var zero T
		return zero, err
	}
	return r.Unwrap()
}
