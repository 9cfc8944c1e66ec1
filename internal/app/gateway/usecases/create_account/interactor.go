package create_account

import (
	"context"

	"pkt.systems/pslog"

	"github.com/wuyiadepoju/billing-gateway/internal/app/gateway/contracts"
	"github.com/wuyiadepoju/billing-gateway/internal/app/gateway/domain"
	"github.com/wuyiadepoju/billing-gateway/internal/app/gateway/pool"
)

// Interactor makes sure a host account has a remote counterpart
type Interactor struct {
	pool      contracts.ConnectionPool
	gateway   contracts.Gateway
	directory contracts.AccountDirectory
	logger    pslog.Logger
}

func NewInteractor(p contracts.ConnectionPool, gateway contracts.Gateway, directory contracts.AccountDirectory, logger pslog.Logger) *Interactor {
	if logger == nil {
		logger = pslog.NoopLogger()
	}
	return &Interactor{pool: p, gateway: gateway, directory: directory, logger: logger}
}

// Execute finds or creates the remote account for a host account. Running
// it again for the same account returns the existing remote account.
func (i *Interactor) Execute(ctx context.Context, accountID string) (*domain.Account, error) {
	data, err := i.directory.AccountData(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if data.ExternalKey == "" {
		return nil, domain.ErrAccountNotFound
	}

	account, err := pool.Call(ctx, i.pool, func(conn contracts.Connection) domain.Result[*domain.Account] {
		return i.gateway.CreateAccount(ctx, conn, *data)
	})
	if err != nil {
		return nil, err
	}
	i.logger.Info("account.create.ok", "account", accountID, "remote", account.ID, "key", data.ExternalKey)
	return account, nil
}
