package update_payment_method

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/wuyiadepoju/billing-gateway/internal/app/gateway/domain"
	"github.com/wuyiadepoju/billing-gateway/internal/app/gateway/mocks"
)

func TestUpdatePaymentMethod(t *testing.T) {
	ctx := context.Background()
	gateway := new(mocks.Gateway)
	directory := new(mocks.AccountDirectory)
	store := new(mocks.PaymentStore)
	p := mocks.NewPool()
	interactor := NewInteractor(p, gateway, directory, store)

	account := &domain.Account{ID: "R-acc", Name: "alice", DefaultPaymentMethodID: "R-pm-1"}
	store.On("FindPaymentMethodByID", ctx, "pm-1").
		Return(domain.ReconstructPaymentMethod("pm-1", "acc-1", "R-pm-1", true, true, time.Now()), nil)
	directory.On("AccountKey", ctx, "acc-1").Return("alice", nil)
	gateway.On("AccountByName", ctx, mock.Anything, "alice").Return(domain.Success(account))
	gateway.On("UpdateCreditCardPaymentMethod", ctx, mock.Anything, account, mock.MatchedBy(func(info *domain.PaymentMethodInfo) bool {
		return info.RemoteID == "R-pm-1" && info.ExpYear == 2031
	})).Return(domain.Success(&domain.PaymentMethod{ID: "R-pm-1", Type: domain.PaymentMethodCreditCard, CreditCardExpirationYear: 2031}))

	req := Request{PaymentMethodID: "pm-1", Info: &domain.PaymentMethodInfo{Type: domain.PaymentMethodCreditCard, ExpMonth: 1, ExpYear: 2031}}
	got, err := interactor.Execute(ctx, req)

	require.NoError(t, err)
	assert.Equal(t, 2031, got.ExpYear)
	assert.True(t, got.IsDefault)
	assert.Empty(t, req.Info.RemoteID)
	gateway.AssertExpectations(t)
	assert.True(t, p.Balanced())
}

func TestUpdatePaymentMethod_Refusals(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name  string
		req   Request
		setup func(store *mocks.PaymentStore)
		check func(t *testing.T, err error)
	}{
		{
			name: "paypal cannot be updated",
			req:  Request{PaymentMethodID: "pm-1", Info: &domain.PaymentMethodInfo{Type: domain.PaymentMethodPayPal}},
			check: func(t *testing.T, err error) {
				assert.True(t, domain.IsKind(err, domain.KindUnsupported))
			},
		},
		{
			name: "missing details",
			req:  Request{PaymentMethodID: "pm-1"},
			check: func(t *testing.T, err error) {
				assert.True(t, domain.IsKind(err, domain.KindUnsupported))
			},
		},
		{
			name: "unknown payment method",
			req:  Request{PaymentMethodID: "pm-9", Info: &domain.PaymentMethodInfo{Type: domain.PaymentMethodCreditCard}},
			setup: func(store *mocks.PaymentStore) {
				store.On("FindPaymentMethodByID", ctx, "pm-9").Return(nil, domain.ErrPaymentMethodNotFound)
			},
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, domain.ErrPaymentMethodNotFound)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := new(mocks.PaymentStore)
			if tt.setup != nil {
				tt.setup(store)
			}
			p := mocks.NewPool()
			interactor := NewInteractor(p, new(mocks.Gateway), new(mocks.AccountDirectory), store)

			_, err := interactor.Execute(ctx, tt.req)

			require.Error(t, err)
			tt.check(t, err)
			assert.Equal(t, 0, p.Borrows())
		})
	}
}
