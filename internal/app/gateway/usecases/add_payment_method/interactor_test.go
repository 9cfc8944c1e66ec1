package add_payment_method

import (
	"context"
	"errors"
	"testing"
	"time"

	"cloud.google.com/go/spanner"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/wuyiadepoju/billing-gateway/internal/app/gateway/domain"
	"github.com/wuyiadepoju/billing-gateway/internal/app/gateway/mocks"
)

var now = time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)

func TestAddPaymentMethod_AsDefault(t *testing.T) {
	ctx := context.Background()
	clock := domain.FixedClock{FixedTime: now}
	gateway := new(mocks.Gateway)
	directory := new(mocks.AccountDirectory)
	store := new(mocks.PaymentStore)
	interactor := NewInteractor(mocks.NewPool(), gateway, directory, store, clock, nil)

	account := &domain.Account{ID: "R-acc", Name: "alice", Currency: "USD", DefaultPaymentMethodID: "R-pm-old"}
	info := &domain.PaymentMethodInfo{Type: domain.PaymentMethodCreditCard, HolderName: "Alice", ExpMonth: 12, ExpYear: 2030}
	oldDefault := domain.ReconstructPaymentMethod("pm-old", "acc-1", "R-pm-old", true, true, now.Add(-time.Hour))

	directory.On("AccountKey", ctx, "acc-1").Return("alice", nil)
	gateway.On("AccountByName", ctx, mock.Anything, "alice").Return(domain.Success(account))
	gateway.On("AddPaymentMethod", ctx, mock.Anything, account, info, true).
		Return(domain.Success(&domain.PaymentMethod{ID: "R-pm-new", AccountID: "R-acc", Type: domain.PaymentMethodCreditCard}))
	store.On("ListPaymentMethods", ctx, "acc-1").Return([]*domain.PaymentMethodEntity{oldDefault}, nil)
	store.On("SavePaymentMethod", ctx, oldDefault).Return(&spanner.Mutation{}, nil)
	store.On("SavePaymentMethod", ctx, mock.MatchedBy(func(pm *domain.PaymentMethodEntity) bool {
		return pm.ID() == "pm-new" && pm.RemoteID() == "R-pm-new" && pm.IsDefault() && pm.Active()
	})).Return(&spanner.Mutation{}, nil)
	store.On("Apply", ctx, mock.MatchedBy(func(ms []*spanner.Mutation) bool { return len(ms) == 2 })).Return(nil)

	got, err := interactor.Execute(ctx, Request{AccountID: "acc-1", PaymentMethodID: "pm-new", Info: info, SetDefault: true})

	require.NoError(t, err)
	assert.Equal(t, "R-pm-new", got.RemoteID)
	assert.True(t, got.IsDefault)
	assert.False(t, oldDefault.IsDefault())
	store.AssertExpectations(t)
	gateway.AssertExpectations(t)
}

func TestAddPaymentMethod_NotDefault(t *testing.T) {
	ctx := context.Background()
	gateway := new(mocks.Gateway)
	directory := new(mocks.AccountDirectory)
	store := new(mocks.PaymentStore)
	interactor := NewInteractor(mocks.NewPool(), gateway, directory, store, domain.FixedClock{FixedTime: now}, nil)

	account := &domain.Account{ID: "R-acc", Name: "alice", DefaultPaymentMethodID: "R-pm-old"}
	info := &domain.PaymentMethodInfo{Type: domain.PaymentMethodPayPal, PaypalBaid: "B-1"}

	directory.On("AccountKey", ctx, "acc-1").Return("alice", nil)
	gateway.On("AccountByName", ctx, mock.Anything, "alice").Return(domain.Success(account))
	gateway.On("AddPaymentMethod", ctx, mock.Anything, account, info, false).
		Return(domain.Success(&domain.PaymentMethod{ID: "R-pm-2", Type: domain.PaymentMethodPayPal}))
	store.On("SavePaymentMethod", ctx, mock.Anything).Return(&spanner.Mutation{}, nil)
	store.On("Apply", ctx, mock.Anything).Return(nil)

	got, err := interactor.Execute(ctx, Request{AccountID: "acc-1", PaymentMethodID: "pm-2", Info: info})

	require.NoError(t, err)
	assert.False(t, got.IsDefault)
	store.AssertNotCalled(t, "ListPaymentMethods", mock.Anything, mock.Anything)
}

func TestAddPaymentMethod_RecordFailureIsReported(t *testing.T) {
	ctx := context.Background()
	gateway := new(mocks.Gateway)
	directory := new(mocks.AccountDirectory)
	store := new(mocks.PaymentStore)
	interactor := NewInteractor(mocks.NewPool(), gateway, directory, store, domain.FixedClock{FixedTime: now}, nil)

	account := &domain.Account{ID: "R-acc", Name: "alice"}
	info := &domain.PaymentMethodInfo{Type: domain.PaymentMethodPayPal}
	boom := errors.New("commit failed")

	directory.On("AccountKey", ctx, "acc-1").Return("alice", nil)
	gateway.On("AccountByName", ctx, mock.Anything, "alice").Return(domain.Success(account))
	gateway.On("AddPaymentMethod", ctx, mock.Anything, account, info, false).
		Return(domain.Success(&domain.PaymentMethod{ID: "R-pm-2"}))
	store.On("SavePaymentMethod", ctx, mock.Anything).Return(&spanner.Mutation{}, nil)
	store.On("Apply", ctx, mock.Anything).Return(boom)

	_, err := interactor.Execute(ctx, Request{AccountID: "acc-1", PaymentMethodID: "pm-2", Info: info})

	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "R-pm-2")
}

func TestAddPaymentMethod_UnsupportedGateway(t *testing.T) {
	ctx := context.Background()
	gateway := new(mocks.Gateway)
	directory := new(mocks.AccountDirectory)
	store := new(mocks.PaymentStore)
	interactor := NewInteractor(mocks.NewPool(), gateway, directory, store, domain.FixedClock{FixedTime: now}, nil)

	account := &domain.Account{ID: "R-acc", Name: "alice", Currency: "JPY"}
	info := &domain.PaymentMethodInfo{Type: domain.PaymentMethodCreditCard}

	directory.On("AccountKey", ctx, "acc-1").Return("alice", nil)
	gateway.On("AccountByName", ctx, mock.Anything, "alice").Return(domain.Success(account))
	gateway.On("AddPaymentMethod", ctx, mock.Anything, account, info, true).
		Return(domain.Failuref[*domain.PaymentMethod](domain.KindUnsupported, "no credit card gateway for currency %q", "JPY"))

	_, err := interactor.Execute(ctx, Request{AccountID: "acc-1", PaymentMethodID: "pm-2", Info: info, SetDefault: true})

	assert.True(t, domain.IsKind(err, domain.KindUnsupported))
	store.AssertNotCalled(t, "SavePaymentMethod", mock.Anything, mock.Anything)
}
