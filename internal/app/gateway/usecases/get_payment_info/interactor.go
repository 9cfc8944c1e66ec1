package get_payment_info

import (
	"context"
	"errors"
	"fmt"

	"pkt.systems/pslog"

	"github.com/wuyiadepoju/billing-gateway/internal/app/gateway/contracts"
	"github.com/wuyiadepoju/billing-gateway/internal/app/gateway/domain"
	"github.com/wuyiadepoju/billing-gateway/internal/app/gateway/pool"
)

// Interactor reads the remote state of host payments
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

// Execute returns the remote payment behind a host payment. When no local
// mapping exists the payment is looked up by its correlation key and the
// mapping is written back.
func (i *Interactor) Execute(ctx context.Context, paymentID string) (*domain.PaymentInfo, error) {
	entity, err := i.store.FindPaymentByID(ctx, paymentID)
	if err == nil {
		payment, err := pool.Call(ctx, i.pool, func(conn contracts.Connection) domain.Result[*domain.Payment] {
			return i.gateway.PaymentByID(ctx, conn, entity.RemoteID())
		})
		if err != nil {
			return nil, err
		}
		return domain.PaymentInfoFromPayment(payment), nil
	}
	if !errors.Is(err, domain.ErrPaymentNotFound) {
		return nil, err
	}

	// No mapping: find the remote payment through the owning account
	accountID, err := i.directory.AccountIDForPayment(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	key, err := i.directory.AccountKey(ctx, accountID)
	if err != nil {
		return nil, err
	}
	payment, err := pool.Call(ctx, i.pool, func(conn contracts.Connection) domain.Result[*domain.Payment] {
		return i.gateway.PaymentForCorrelationKey(ctx, conn, key, paymentID)
	})
	if err != nil {
		return nil, err
	}
	if payment == nil {
		return nil, fmt.Errorf("payment %s: %w", paymentID, domain.ErrPaymentNotFound)
	}

	if err := i.backfill(ctx, paymentID, accountID, payment); err != nil {
		i.logger.Warn("payment.info.backfill_failed", "payment", paymentID, "remote", payment.ID, "error", err)
	} else {
		i.logger.Info("payment.info.backfilled", "payment", paymentID, "remote", payment.ID)
	}
	return domain.PaymentInfoFromPayment(payment), nil
}

func (i *Interactor) backfill(ctx context.Context, paymentID, accountID string, payment *domain.Payment) error {
	entity, err := domain.NewPaymentEntity(paymentID, accountID, payment, i.clock)
	if err != nil {
		return err
	}
	mutation, err := i.store.SavePayment(ctx, entity)
	if err != nil {
		return err
	}
	return i.store.Apply(ctx, mutation)
}

// ForAccount lists every processed remote payment of the host account.
func (i *Interactor) ForAccount(ctx context.Context, accountID string) ([]*domain.PaymentInfo, error) {
	key, err := i.directory.AccountKey(ctx, accountID)
	if err != nil {
		return nil, err
	}
	return pool.Call(ctx, i.pool, func(conn contracts.Connection) domain.Result[[]*domain.PaymentInfo] {
		return domain.MapList(i.gateway.ProcessedPaymentsForAccount(ctx, conn, key), domain.PaymentInfoFromPayment)
	})
}
