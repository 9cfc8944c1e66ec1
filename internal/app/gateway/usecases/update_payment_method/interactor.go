package update_payment_method

import (
	"context"
	"fmt"

	"github.com/wuyiadepoju/billing-gateway/internal/app/gateway/contracts"
	"github.com/wuyiadepoju/billing-gateway/internal/app/gateway/domain"
	"github.com/wuyiadepoju/billing-gateway/internal/app/gateway/pool"
)

// Request contains the new card details for a host payment method
type Request struct {
	PaymentMethodID string
	Info            *domain.PaymentMethodInfo
}

// Interactor handles the update payment method use case
type Interactor struct {
	pool      contracts.ConnectionPool
	gateway   contracts.Gateway
	directory contracts.AccountDirectory
	store     contracts.PaymentStore
}

func NewInteractor(p contracts.ConnectionPool, gateway contracts.Gateway, directory contracts.AccountDirectory, store contracts.PaymentStore) *Interactor {
	return &Interactor{
		pool:      p,
		gateway:   gateway,
		directory: directory,
		store:     store,
	}
}

// Execute rewrites a credit card in place. Only credit cards can be updated.
func (i *Interactor) Execute(ctx context.Context, req Request) (*domain.PaymentMethodInfo, error) {
	if req.Info == nil || req.Info.Type != domain.PaymentMethodCreditCard {
		return nil, domain.Errorf(domain.KindUnsupported, "only credit card payment methods can be updated")
	}

	entity, err := i.store.FindPaymentMethodByID(ctx, req.PaymentMethodID)
	if err != nil {
		return nil, err
	}
	if !entity.Active() {
		return nil, fmt.Errorf("payment method %s is deleted: %w", req.PaymentMethodID, domain.ErrPaymentMethodNotFound)
	}

	key, err := i.directory.AccountKey(ctx, entity.AccountID())
	if err != nil {
		return nil, err
	}

	info := *req.Info
	info.RemoteID = entity.RemoteID()
	return pool.Call(ctx, i.pool, func(conn contracts.Connection) domain.Result[*domain.PaymentMethodInfo] {
		return domain.FlatMap(i.gateway.AccountByName(ctx, conn, key), func(account *domain.Account) domain.Result[*domain.PaymentMethodInfo] {
			return domain.Map(i.gateway.UpdateCreditCardPaymentMethod(ctx, conn, account, &info), func(pm *domain.PaymentMethod) *domain.PaymentMethodInfo {
				return domain.PaymentMethodInfoFromRecord(pm, account.DefaultPaymentMethodID)
			})
		})
	})
}
