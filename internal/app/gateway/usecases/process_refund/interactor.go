package process_refund

import (
	"context"
	"errors"
	"fmt"

	"pkt.systems/pslog"

	"github.com/wuyiadepoju/billing-gateway/internal/app/gateway/contracts"
	"github.com/wuyiadepoju/billing-gateway/internal/app/gateway/domain"
	"github.com/wuyiadepoju/billing-gateway/internal/app/gateway/pool"
)

// Request contains the input for refunding a host payment
type Request struct {
	PaymentID string
	Amount    int64 // cents
}

// Interactor handles the refund use case
type Interactor struct {
	pool      contracts.ConnectionPool
	gateway   contracts.Gateway
	directory contracts.AccountDirectory
	store     contracts.PaymentStore
	logger    pslog.Logger
}

func NewInteractor(p contracts.ConnectionPool, gateway contracts.Gateway, directory contracts.AccountDirectory, store contracts.PaymentStore, logger pslog.Logger) *Interactor {
	if logger == nil {
		logger = pslog.NoopLogger()
	}
	return &Interactor{
		pool:      p,
		gateway:   gateway,
		directory: directory,
		store:     store,
		logger:    logger,
	}
}

// Execute refunds part or all of a processed host payment
func (i *Interactor) Execute(ctx context.Context, req Request) (*domain.RefundInfo, error) {
	if req.PaymentID == "" {
		return nil, domain.ErrEmptyCorrelationKey
	}
	if req.Amount <= 0 {
		return nil, domain.ErrInvalidAmount
	}

	key, _, err := i.accountFor(ctx, req.PaymentID)
	if err != nil {
		return nil, err
	}

	refund, err := pool.Call(ctx, i.pool, func(conn contracts.Connection) domain.Result[*domain.Refund] {
		return i.gateway.CreateRefund(ctx, conn, key, req.PaymentID, req.Amount)
	})
	if err != nil {
		return nil, err
	}
	i.logger.Info("refund.processed", "payment", req.PaymentID, "refund", refund.ID, "amount", req.Amount)
	return domain.RefundInfoFromRefund(refund), nil
}

// RefundsFor lists the refunds issued against a host payment
func (i *Interactor) RefundsFor(ctx context.Context, paymentID string) ([]*domain.RefundInfo, error) {
	key, entity, err := i.accountFor(ctx, paymentID)
	if err != nil {
		return nil, err
	}

	return pool.Call(ctx, i.pool, func(conn contracts.Connection) domain.Result[[]*domain.RefundInfo] {
		var remoteID domain.Result[string]
		if entity != nil {
			remoteID = domain.Success(entity.RemoteID())
		} else {
			remoteID = domain.FlatMap(i.gateway.PaymentForCorrelationKey(ctx, conn, key, paymentID), func(p *domain.Payment) domain.Result[string] {
				if p == nil {
					return domain.Failuref[string](domain.KindNotFound, "no processed payment for %s", paymentID)
				}
				return domain.Success(p.ID)
			})
		}
		return domain.FlatMap(remoteID, func(id string) domain.Result[[]*domain.RefundInfo] {
			return domain.MapList(i.gateway.RefundsForPayment(ctx, conn, id), domain.RefundInfoFromRefund)
		})
	})
}

// accountFor resolves the remote account key of a host payment, from the
// local mapping when there is one.
func (i *Interactor) accountFor(ctx context.Context, paymentID string) (string, *domain.PaymentEntity, error) {
	entity, err := i.store.FindPaymentByID(ctx, paymentID)
	var accountID string
	switch {
	case err == nil:
		accountID = entity.AccountID()
	case errors.Is(err, domain.ErrPaymentNotFound):
		entity = nil
		if accountID, err = i.directory.AccountIDForPayment(ctx, paymentID); err != nil {
			return "", nil, err
		}
	default:
		return "", nil, fmt.Errorf("failed to look up payment %s: %w", paymentID, err)
	}

	key, err := i.directory.AccountKey(ctx, accountID)
	if err != nil {
		return "", nil, err
	}
	return key, entity, nil
}
