package set_default_payment_method

import (
	"context"
	"fmt"

	"cloud.google.com/go/spanner"
	"pkt.systems/pslog"

	"github.com/wuyiadepoju/billing-gateway/internal/app/gateway/contracts"
	"github.com/wuyiadepoju/billing-gateway/internal/app/gateway/domain"
	"github.com/wuyiadepoju/billing-gateway/internal/app/gateway/pool"
)

// Interactor handles the set default payment method use case
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

// Execute makes a host payment method the account default on both sides
func (i *Interactor) Execute(ctx context.Context, paymentMethodID string) error {
	// 1. Local mapping
	entity, err := i.store.FindPaymentMethodByID(ctx, paymentMethodID)
	if err != nil {
		return err
	}
	if !entity.Active() {
		return fmt.Errorf("payment method %s is deleted: %w", paymentMethodID, domain.ErrPaymentMethodNotFound)
	}

	// 2. Remote account
	key, err := i.directory.AccountKey(ctx, entity.AccountID())
	if err != nil {
		return err
	}

	// 3. Remote default
	_, err = pool.Call(ctx, i.pool, func(conn contracts.Connection) domain.Result[*domain.Account] {
		return domain.FlatMap(i.gateway.AccountByName(ctx, conn, key), func(account *domain.Account) domain.Result[*domain.Account] {
			return i.gateway.SetDefaultPaymentMethod(ctx, conn, account, entity.RemoteID())
		})
	})
	if err != nil {
		return err
	}

	// 4. Local default flags
	changed, err := i.sync(ctx, entity)
	if err != nil {
		return fmt.Errorf("default payment method %s set remotely but not recorded: %w", paymentMethodID, err)
	}
	i.logger.Info("payment_method.set_default.ok", "payment_method", paymentMethodID, "changed", changed)
	return nil
}

func (i *Interactor) sync(ctx context.Context, entity *domain.PaymentMethodEntity) (int, error) {
	methods, err := i.store.ListPaymentMethods(ctx, entity.AccountID())
	if err != nil {
		return 0, err
	}
	var mutations []*spanner.Mutation
	for _, pm := range methods {
		if !pm.MarkDefault(pm.ID() == entity.ID(), i.clock) {
			continue
		}
		m, err := i.store.SavePaymentMethod(ctx, pm)
		if err != nil {
			return 0, err
		}
		mutations = append(mutations, m)
	}
	if len(mutations) == 0 {
		return 0, nil
	}
	return len(mutations), i.store.Apply(ctx, mutations...)
}
