package contracts

import (
	"context"

	"github.com/wuyiadepoju/billing-gateway/internal/app/gateway/domain"
)

// Connection is an authenticated session with the billing back end. Every
// call recovers from an expired session on its own.
type Connection interface {
	Query(ctx context.Context, query string) domain.Result[[]domain.Object]
	QuerySingle(ctx context.Context, query string) domain.Result[domain.Object]
	Create(ctx context.Context, obj domain.Object) domain.Result[string]
	Update(ctx context.Context, obj domain.Object) domain.Result[string]
	Delete(ctx context.Context, objs []domain.Object) domain.Result[struct{}]
	Subscribe(ctx context.Context, req domain.SubscribeRequest) domain.Result[string]
	Session() domain.Session
}

// ConnectionPool hands out connections to one caller at a time
type ConnectionPool interface {
	Borrow(ctx context.Context) (Connection, error)
	Return(conn Connection) error
	Invalidate(conn Connection) error
	NumActive() int
	NumIdle() int
}
