package update_account_contact

import (
	"context"

	"github.com/wuyiadepoju/billing-gateway/internal/app/gateway/contracts"
	"github.com/wuyiadepoju/billing-gateway/internal/app/gateway/domain"
	"github.com/wuyiadepoju/billing-gateway/internal/app/gateway/pool"
)

// Interactor pushes host contact details to the remote bill-to contact
type Interactor struct {
	pool      contracts.ConnectionPool
	gateway   contracts.Gateway
	directory contracts.AccountDirectory
}

func NewInteractor(p contracts.ConnectionPool, gateway contracts.Gateway, directory contracts.AccountDirectory) *Interactor {
	return &Interactor{pool: p, gateway: gateway, directory: directory}
}

func (i *Interactor) Execute(ctx context.Context, accountID string) (*domain.Account, error) {
	data, err := i.directory.AccountData(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if data.ExternalKey == "" {
		return nil, domain.ErrAccountNotFound
	}

	return pool.Call(ctx, i.pool, func(conn contracts.Connection) domain.Result[*domain.Account] {
		return domain.FlatMap(i.gateway.AccountByName(ctx, conn, data.ExternalKey), func(account *domain.Account) domain.Result[*domain.Account] {
			return i.gateway.UpdateAccountContact(ctx, conn, account, *data)
		})
	})
}
