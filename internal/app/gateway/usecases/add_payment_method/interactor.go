package add_payment_method

import (
	"context"
	"fmt"

	"cloud.google.com/go/spanner"
	"pkt.systems/pslog"

	"github.com/wuyiadepoju/billing-gateway/internal/app/gateway/contracts"
	"github.com/wuyiadepoju/billing-gateway/internal/app/gateway/domain"
	"github.com/wuyiadepoju/billing-gateway/internal/app/gateway/pool"
)

// Request contains the input for adding a payment method
type Request struct {
	AccountID       string
	PaymentMethodID string // host id the remote method is mapped to
	Info            *domain.PaymentMethodInfo
	SetDefault      bool
}

// Interactor handles the add payment method use case
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

// Execute creates the remote payment method and records the mapping from
// the host id. When it becomes the default, every other local method of the
// account loses the flag.
func (i *Interactor) Execute(ctx context.Context, req Request) (*domain.PaymentMethodInfo, error) {
	if req.PaymentMethodID == "" || req.Info == nil {
		return nil, fmt.Errorf("payment method id and details are required: %w", domain.ErrPaymentMethodNotFound)
	}

	// 1. Remote account
	key, err := i.directory.AccountKey(ctx, req.AccountID)
	if err != nil {
		return nil, err
	}

	// 2. Remote payment method
	type added struct {
		method    *domain.PaymentMethod
		defaultID string
	}
	result, err := pool.Call(ctx, i.pool, func(conn contracts.Connection) domain.Result[added] {
		return domain.FlatMap(i.gateway.AccountByName(ctx, conn, key), func(account *domain.Account) domain.Result[added] {
			return domain.Map(i.gateway.AddPaymentMethod(ctx, conn, account, req.Info, req.SetDefault), func(pm *domain.PaymentMethod) added {
				defaultID := account.DefaultPaymentMethodID
				if req.SetDefault {
					defaultID = pm.ID
				}
				return added{method: pm, defaultID: defaultID}
			})
		})
	})
	if err != nil {
		return nil, err
	}

	// 3. Local mapping
	if err := i.record(ctx, req, result.method.ID); err != nil {
		return nil, fmt.Errorf("payment method %s created remotely as %s but not recorded: %w", req.PaymentMethodID, result.method.ID, err)
	}
	i.logger.Info("payment_method.add.ok", "payment_method", req.PaymentMethodID, "remote", result.method.ID, "default", req.SetDefault)
	return domain.PaymentMethodInfoFromRecord(result.method, result.defaultID), nil
}

func (i *Interactor) record(ctx context.Context, req Request, remoteID string) error {
	var mutations []*spanner.Mutation
	if req.SetDefault {
		existing, err := i.store.ListPaymentMethods(ctx, req.AccountID)
		if err != nil {
			return err
		}
		for _, pm := range existing {
			if pm.ID() != req.PaymentMethodID && pm.MarkDefault(false, i.clock) {
				m, err := i.store.SavePaymentMethod(ctx, pm)
				if err != nil {
					return err
				}
				mutations = append(mutations, m)
			}
		}
	}

	entity := domain.NewPaymentMethodEntity(req.PaymentMethodID, req.AccountID, remoteID, req.SetDefault, i.clock)
	m, err := i.store.SavePaymentMethod(ctx, entity)
	if err != nil {
		return err
	}
	mutations = append(mutations, m)
	return i.store.Apply(ctx, mutations...)
}
