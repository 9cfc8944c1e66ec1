package contracts

import (
	"context"

	"github.com/wuyiadepoju/billing-gateway/internal/app/gateway/domain"
)

// Fault is an application-level error reported by the billing back end,
// either for a whole call or for one object of a batch.
type Fault struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (f *Fault) Error() string {
	return f.Code + ": " + f.Message
}

// QueryPage is one page of query results. Locator continues a page that is
// not Done.
type QueryPage struct {
	Records []domain.Object
	Done    bool
	Locator string
}

// SaveResult is the per-object outcome of a create, update, delete or
// subscribe call.
type SaveResult struct {
	ID      string
	Success bool
	Errors  []Fault
}

// RemoteAPI is the raw RPC stub of the billing back end. Call-level faults
// are returned as *Fault; any other error is a transport failure.
type RemoteAPI interface {
	Login(ctx context.Context, user, password string) (domain.Session, error)
	Query(ctx context.Context, session domain.Session, query string) (*QueryPage, error)
	QueryMore(ctx context.Context, session domain.Session, locator string) (*QueryPage, error)
	Create(ctx context.Context, session domain.Session, objs []domain.Object) ([]SaveResult, error)
	Update(ctx context.Context, session domain.Session, objs []domain.Object) ([]SaveResult, error)
	Delete(ctx context.Context, session domain.Session, objs []domain.Object) ([]SaveResult, error)
	Subscribe(ctx context.Context, session domain.Session, reqs []domain.SubscribeRequest) ([]SaveResult, error)
}
