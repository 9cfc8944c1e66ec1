package mocks

import (
	"context"

	"cloud.google.com/go/spanner"
	"github.com/stretchr/testify/mock"

	"github.com/wuyiadepoju/billing-gateway/internal/app/gateway/contracts"
	"github.com/wuyiadepoju/billing-gateway/internal/app/gateway/domain"
)

var (
	_ contracts.PaymentStore     = (*PaymentStore)(nil)
	_ contracts.AccountDirectory = (*AccountDirectory)(nil)
)

// PaymentStore is a mock implementation of contracts.PaymentStore
type PaymentStore struct {
	mock.Mock
}

func (m *PaymentStore) SavePayment(ctx context.Context, p *domain.PaymentEntity) (*spanner.Mutation, error) {
	args := m.Called(ctx, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*spanner.Mutation), args.Error(1)
}

func (m *PaymentStore) FindPaymentByID(ctx context.Context, id string) (*domain.PaymentEntity, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PaymentEntity), args.Error(1)
}

func (m *PaymentStore) SavePaymentMethod(ctx context.Context, pm *domain.PaymentMethodEntity) (*spanner.Mutation, error) {
	args := m.Called(ctx, pm)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*spanner.Mutation), args.Error(1)
}

func (m *PaymentStore) FindPaymentMethodByID(ctx context.Context, id string) (*domain.PaymentMethodEntity, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PaymentMethodEntity), args.Error(1)
}

func (m *PaymentStore) ListPaymentMethods(ctx context.Context, accountID string) ([]*domain.PaymentMethodEntity, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.PaymentMethodEntity), args.Error(1)
}

func (m *PaymentStore) Apply(ctx context.Context, mutations ...*spanner.Mutation) error {
	// variadic arguments are matched as one slice
	args := m.Called(ctx, mutations)
	return args.Error(0)
}

// AccountDirectory is a mock implementation of contracts.AccountDirectory
type AccountDirectory struct {
	mock.Mock
}

func (m *AccountDirectory) AccountKey(ctx context.Context, accountID string) (string, error) {
	args := m.Called(ctx, accountID)
	return args.String(0), args.Error(1)
}

func (m *AccountDirectory) AccountIDForPaymentMethod(ctx context.Context, paymentMethodID string) (string, error) {
	args := m.Called(ctx, paymentMethodID)
	return args.String(0), args.Error(1)
}

func (m *AccountDirectory) AccountIDForPayment(ctx context.Context, paymentID string) (string, error) {
	args := m.Called(ctx, paymentID)
	return args.String(0), args.Error(1)
}

func (m *AccountDirectory) AccountData(ctx context.Context, accountID string) (*domain.AccountData, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AccountData), args.Error(1)
}
