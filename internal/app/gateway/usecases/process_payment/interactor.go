package process_payment

import (
	"context"
	"errors"

	"pkt.systems/pslog"

	"github.com/wuyiadepoju/billing-gateway/internal/app/gateway/contracts"
	"github.com/wuyiadepoju/billing-gateway/internal/app/gateway/domain"
	"github.com/wuyiadepoju/billing-gateway/internal/app/gateway/pool"
)

// Request contains the input for charging a host payment
type Request struct {
	AccountID string
	PaymentID string
	Amount    int64 // cents
}

// Interactor handles the process payment use case
type Interactor struct {
	pool      contracts.ConnectionPool
	gateway   contracts.Gateway
	directory contracts.AccountDirectory
	store     contracts.PaymentStore
	clock     domain.Clock
	logger    pslog.Logger
}

// NewInteractor creates a new process payment interactor
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

// Execute charges the account's default payment method. A payment already
// recorded locally is never charged again; its remote state is returned.
func (i *Interactor) Execute(ctx context.Context, req Request) (*domain.PaymentInfo, error) {
	if req.PaymentID == "" {
		return nil, domain.ErrEmptyCorrelationKey
	}
	if req.Amount <= 0 {
		return nil, domain.ErrInvalidAmount
	}

	// 1. Already processed?
	existing, err := i.store.FindPaymentByID(ctx, req.PaymentID)
	switch {
	case err == nil:
		i.logger.Info("payment.process.already_recorded", "payment", req.PaymentID, "remote", existing.RemoteID())
		payment, err := pool.Call(ctx, i.pool, func(conn contracts.Connection) domain.Result[*domain.Payment] {
			return i.gateway.PaymentByID(ctx, conn, existing.RemoteID())
		})
		if err != nil {
			return nil, err
		}
		return domain.PaymentInfoFromPayment(payment), nil
	case !errors.Is(err, domain.ErrPaymentNotFound):
		return nil, err
	}

	// 2. Remote account for the host account
	key, err := i.directory.AccountKey(ctx, req.AccountID)
	if err != nil {
		return nil, err
	}

	// 3. Charge, tagging the remote objects with the host payment id
	payment, err := pool.Call(ctx, i.pool, func(conn contracts.Connection) domain.Result[*domain.Payment] {
		return i.gateway.ProcessPayment(ctx, conn, key, req.Amount, req.PaymentID)
	})
	if err != nil {
		return nil, err
	}

	// 4. Record the mapping. The charge has happened either way, and a
	// missing mapping is recovered from the correlation key on lookup.
	if err := i.record(ctx, req, payment); err != nil {
		i.logger.Error("payment.process.record_failed", "payment", req.PaymentID, "remote", payment.ID, "error", err)
	}
	return domain.PaymentInfoFromPayment(payment), nil
}

func (i *Interactor) record(ctx context.Context, req Request, payment *domain.Payment) error {
	entity, err := domain.NewPaymentEntity(req.PaymentID, req.AccountID, payment, i.clock)
	if err != nil {
		return err
	}
	mutation, err := i.store.SavePayment(ctx, entity)
	if err != nil {
		return err
	}
	return i.store.Apply(ctx, mutation)
}
