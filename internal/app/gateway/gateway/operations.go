package gateway

import (
	"context"

	"pkt.systems/pslog"

	"github.com/wuyiadepoju/billing-gateway/internal/app/gateway/contracts"
	"github.com/wuyiadepoju/billing-gateway/internal/app/gateway/domain"
)

var _ contracts.Gateway = (*Operations)(nil)

const DefaultRatePlanCharge = "ning-killbill2-onetime"

type Config struct {
	// RatePlanCharge names the product charge one-off subscriptions use.
	RatePlanCharge string
	// CheckRemoteState enables the find step of every find-or-create. When
	// off, callers are trusted to know from local state what already exists.
	CheckRemoteState bool
	// OverrideGateway, when set, is used for every credit card instead of
	// the account currency.
	OverrideGateway string
}

// Operations implements the multi-step remote workflows. Each method runs
// on a connection the caller has borrowed and stops at the first failing
// step.
type Operations struct {
	cfg     Config
	queries contracts.QueryBuilder
	clock   domain.Clock
	charges *ChargeCache
	logger  pslog.Logger
}

func NewOperations(cfg Config, queries contracts.QueryBuilder, clock domain.Clock, logger pslog.Logger) *Operations {
	if cfg.RatePlanCharge == "" {
		cfg.RatePlanCharge = DefaultRatePlanCharge
	}
	if clock == nil {
		clock = domain.RealClock{}
	}
	if logger == nil {
		logger = pslog.NoopLogger()
	}
	o := &Operations{cfg: cfg, queries: queries, clock: clock, logger: logger}
	o.charges = NewChargeCache(o.LoadRatePlanCharge)
	return o
}

// RatePlanCharge returns the cached reference charge, loading it on first use.
func (o *Operations) RatePlanCharge(ctx context.Context, conn contracts.Connection) domain.Result[*domain.RatePlanCharge] {
	return o.charges.Get(ctx, conn)
}

// LoadRatePlanCharge always queries the back end. It is cheap and read-only,
// which also makes it the connection validation probe.
func (o *Operations) LoadRatePlanCharge(ctx context.Context, conn contracts.Connection) domain.Result[*domain.RatePlanCharge] {
	return required(single[*domain.RatePlanCharge](ctx, o, conn, contracts.QueryRatePlanCharge,
		map[string]any{"name": o.cfg.RatePlanCharge}), "rate plan charge %q", o.cfg.RatePlanCharge)
}

// ValidateConnection adapts LoadRatePlanCharge to a connection validator.
func (o *Operations) ValidateConnection(ctx context.Context, conn contracts.Connection) error {
	if r := o.LoadRatePlanCharge(ctx, conn); r.IsFailure() {
		return r.Err()
	}
	return nil
}

func (o *Operations) build(name string, params map[string]any) domain.Result[string] {
	q, err := o.queries.Build(name, params)
	if err != nil {
		return domain.Failuref[string](domain.KindUnknown, "failed to build query %s: %v", name, err)
	}
	return domain.Success(q)
}

// list runs a named query and types its records.
func list[T domain.Object](ctx context.Context, o *Operations, conn contracts.Connection, name string, params map[string]any) domain.Result[[]T] {
	q := o.build(name, params)
	if q.IsFailure() {
		return domain.Recast[[]T](q)
	}
	rows := conn.Query(ctx, q.Value())
	if rows.IsFailure() {
		return domain.Recast[[]T](rows)
	}
	out := make([]T, 0, len(rows.Value()))
	for _, obj := range rows.Value() {
		typed, ok := obj.(T)
		if !ok {
			return domain.Failuref[[]T](domain.KindUnknown, "query %s returned a %s record", name, obj.ObjectType())
		}
		out = append(out, typed)
	}
	return domain.Success(out)
}

// single runs a named query expected to match at most one record. A miss is
// a success holding the zero value.
func single[T domain.Object](ctx context.Context, o *Operations, conn contracts.Connection, name string, params map[string]any) domain.Result[T] {
	q := o.build(name, params)
	if q.IsFailure() {
		return domain.Recast[T](q)
	}
	row := conn.QuerySingle(ctx, q.Value())
	if row.IsFailure() {
		return domain.Recast[T](row)
	}
	var zero T
	if row.Value() == nil {
		return domain.Success(zero)
	}
	typed, ok := row.Value().(T)
	if !ok {
		return domain.Failuref[T](domain.KindUnknown, "query %s returned a %s record", name, row.Value().ObjectType())
	}
	return domain.Success(typed)
}

// required turns a successful miss into NotFound.
func required[T domain.Object](r domain.Result[T], format string, args ...any) domain.Result[T] {
	return domain.FlatMap(r, func(v T) domain.Result[T] {
		if isAbsent(v) {
			return domain.Failuref[T](domain.KindNotFound, "no "+format, args...)
		}
		return domain.Success(v)
	})
}

// isAbsent reports whether v is the zero value of its type, which for the
// record pointer types means nil.
func isAbsent[T any](v T) bool {
	var zero T
	return any(v) == any(zero)
}
