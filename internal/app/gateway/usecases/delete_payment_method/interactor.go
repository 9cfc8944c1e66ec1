package delete_payment_method

import (
	"context"
	"fmt"

	"cloud.google.com/go/spanner"
	"pkt.systems/pslog"

	"github.com/wuyiadepoju/billing-gateway/internal/app/gateway/contracts"
	"github.com/wuyiadepoju/billing-gateway/internal/app/gateway/domain"
	"github.com/wuyiadepoju/billing-gateway/internal/app/gateway/pool"
)

// Interactor handles the delete payment method use case
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

// Execute deletes the remote method mapped to a host payment method. If the
// remote default moved as a result, the local default follows it.
func (i *Interactor) Execute(ctx context.Context, paymentMethodID string) error {
	// 1. Local mapping
	entity, err := i.store.FindPaymentMethodByID(ctx, paymentMethodID)
	if err != nil {
		return err
	}
	if !entity.Active() {
		return fmt.Errorf("payment method %s already deleted: %w", paymentMethodID, domain.ErrPaymentMethodNotFound)
	}

	// 2. Remote account
	key, err := i.directory.AccountKey(ctx, entity.AccountID())
	if err != nil {
		return err
	}

	// 3. Remote delete
	newDefault, err := pool.Call(ctx, i.pool, func(conn contracts.Connection) domain.Result[string] {
		return domain.FlatMap(i.gateway.AccountByName(ctx, conn, key), func(account *domain.Account) domain.Result[string] {
			return i.gateway.DeletePaymentMethod(ctx, conn, account, entity.RemoteID())
		})
	})
	if err != nil {
		return err
	}

	// 4. Local state
	if err := i.record(ctx, entity, newDefault); err != nil {
		return fmt.Errorf("payment method %s deleted remotely but not recorded: %w", paymentMethodID, err)
	}
	i.logger.Info("payment_method.delete.ok", "payment_method", paymentMethodID, "new_default", newDefault)
	return nil
}

func (i *Interactor) record(ctx context.Context, entity *domain.PaymentMethodEntity, newDefault string) error {
	entity.Deactivate(i.clock)
	m, err := i.store.SavePaymentMethod(ctx, entity)
	if err != nil {
		return err
	}
	mutations := []*spanner.Mutation{m}

	if newDefault != "" {
		others, err := i.store.ListPaymentMethods(ctx, entity.AccountID())
		if err != nil {
			return err
		}
		for _, pm := range others {
			if pm.ID() == entity.ID() || !pm.MarkDefault(pm.RemoteID() == newDefault, i.clock) {
				continue
			}
			m, err := i.store.SavePaymentMethod(ctx, pm)
			if err != nil {
				return err
			}
			mutations = append(mutations, m)
		}
	}
	return i.store.Apply(ctx, mutations...)
}
