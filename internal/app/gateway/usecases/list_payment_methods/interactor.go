package list_payment_methods

import (
	"context"

	"cloud.google.com/go/spanner"
	"pkt.systems/pslog"

	"github.com/wuyiadepoju/billing-gateway/internal/app/gateway/contracts"
	"github.com/wuyiadepoju/billing-gateway/internal/app/gateway/domain"
	"github.com/wuyiadepoju/billing-gateway/internal/app/gateway/pool"
)

// Interactor lists the payment methods of a host account
type Interactor struct {
	pool      contracts.ConnectionPool
	gateway   contracts.Gateway
	directory contracts.AccountDirectory
	store     contracts.PaymentStore
	clock     domain.Clock
	logger    pslog.Logger
}

func NewInteractor(p contracts.ConnectionPool, gateway contracts.Gateway, directory contracts.AccountDirectory, store contracts.PaymentStore, clock domain.Clock, logger pslog.Logger) *Interactor {
	if logger == nil {
		logger = pslog.NoopLogger()
	}
	return &Interactor{
		pool:      p,
		gateway:   gateway,
		directory: directory,
		store:     store,
		clock:     clock,
		logger:    logger,
	}
}

// Execute returns the remote payment methods with their default flag. Local
// default flags that drifted from the remote account are corrected; a failed
// correction is logged only.
func (i *Interactor) Execute(ctx context.Context, accountID string) ([]*domain.PaymentMethodInfo, error) {
	key, err := i.directory.AccountKey(ctx, accountID)
	if err != nil {
		return nil, err
	}

	methods, err := pool.Call(ctx, i.pool, func(conn contracts.Connection) domain.Result[[]*domain.PaymentMethodInfo] {
		return domain.FlatMap(i.gateway.AccountByName(ctx, conn, key), func(account *domain.Account) domain.Result[[]*domain.PaymentMethodInfo] {
			return domain.MapList(i.gateway.PaymentMethodsForAccount(ctx, conn, account), func(pm *domain.PaymentMethod) *domain.PaymentMethodInfo {
				return domain.PaymentMethodInfoFromRecord(pm, account.DefaultPaymentMethodID)
			})
		})
	})
	if err != nil {
		return nil, err
	}

	for _, m := range methods {
		if m.IsDefault {
			if err := i.syncDefault(ctx, accountID, m.RemoteID); err != nil {
				i.logger.Warn("payment_method.list.sync_failed", "account", accountID, "error", err)
			}
			break
		}
	}
	return methods, nil
}

func (i *Interactor) syncDefault(ctx context.Context, accountID, remoteDefault string) error {
	local, err := i.store.ListPaymentMethods(ctx, accountID)
	if err != nil {
		return err
	}
	var mutations []*spanner.Mutation
	for _, pm := range local {
		if !pm.MarkDefault(pm.RemoteID() == remoteDefault, i.clock) {
			continue
		}
		m, err := i.store.SavePaymentMethod(ctx, pm)
		if err != nil {
			return err
		}
		mutations = append(mutations, m)
	}
	if len(mutations) == 0 {
		return nil
	}
	i.logger.Debug("payment_method.list.synced", "account", accountID, "changed", len(mutations))
	return i.store.Apply(ctx, mutations...)
}
