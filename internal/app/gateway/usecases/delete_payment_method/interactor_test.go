package delete_payment_method

import (
	"context"
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

func TestDeletePaymentMethod_DefaultMoves(t *testing.T) {
	ctx := context.Background()
	clock := domain.FixedClock{FixedTime: now}
	gateway := new(mocks.Gateway)
	directory := new(mocks.AccountDirectory)
	store := new(mocks.PaymentStore)
	p := mocks.NewPool()
	interactor := NewInteractor(p, gateway, directory, store, clock, nil)

	deleted := domain.ReconstructPaymentMethod("pm-1", "acc-1", "R-pm-1", true, true, now.Add(-time.Hour))
	next := domain.ReconstructPaymentMethod("pm-2", "acc-1", "R-pm-2", false, true, now.Add(-time.Hour))
	other := domain.ReconstructPaymentMethod("pm-3", "acc-1", "R-pm-3", false, true, now.Add(-time.Hour))
	account := &domain.Account{ID: "R-acc", Name: "alice", DefaultPaymentMethodID: "R-pm-1"}

	store.On("FindPaymentMethodByID", ctx, "pm-1").Return(deleted, nil)
	directory.On("AccountKey", ctx, "acc-1").Return("alice", nil)
	gateway.On("AccountByName", ctx, mock.Anything, "alice").Return(domain.Success(account))
	gateway.On("DeletePaymentMethod", ctx, mock.Anything, account, "R-pm-1").Return(domain.Success("R-pm-2"))
	store.On("SavePaymentMethod", ctx, deleted).Return(&spanner.Mutation{}, nil)
	store.On("ListPaymentMethods", ctx, "acc-1").Return([]*domain.PaymentMethodEntity{deleted, next, other}, nil)
	store.On("SavePaymentMethod", ctx, next).Return(&spanner.Mutation{}, nil)
	store.On("Apply", ctx, mock.MatchedBy(func(ms []*spanner.Mutation) bool { return len(ms) == 2 })).Return(nil)

	err := interactor.Execute(ctx, "pm-1")

	require.NoError(t, err)
	assert.False(t, deleted.Active())
	assert.False(t, deleted.IsDefault())
	assert.True(t, next.IsDefault())
	assert.False(t, other.IsDefault())
	store.AssertExpectations(t)
	assert.True(t, p.Balanced())
}

func TestDeletePaymentMethod_NonDefault(t *testing.T) {
	ctx := context.Background()
	gateway := new(mocks.Gateway)
	directory := new(mocks.AccountDirectory)
	store := new(mocks.PaymentStore)
	interactor := NewInteractor(mocks.NewPool(), gateway, directory, store, domain.FixedClock{FixedTime: now}, nil)

	entity := domain.ReconstructPaymentMethod("pm-2", "acc-1", "R-pm-2", false, true, now)
	account := &domain.Account{ID: "R-acc", Name: "alice", DefaultPaymentMethodID: "R-pm-1"}

	store.On("FindPaymentMethodByID", ctx, "pm-2").Return(entity, nil)
	directory.On("AccountKey", ctx, "acc-1").Return("alice", nil)
	gateway.On("AccountByName", ctx, mock.Anything, "alice").Return(domain.Success(account))
	gateway.On("DeletePaymentMethod", ctx, mock.Anything, account, "R-pm-2").Return(domain.Success(""))
	store.On("SavePaymentMethod", ctx, entity).Return(&spanner.Mutation{}, nil)
	store.On("Apply", ctx, mock.MatchedBy(func(ms []*spanner.Mutation) bool { return len(ms) == 1 })).Return(nil)

	require.NoError(t, interactor.Execute(ctx, "pm-2"))
	assert.False(t, entity.Active())
	store.AssertNotCalled(t, "ListPaymentMethods", mock.Anything, mock.Anything)
}

func TestDeletePaymentMethod_Refusals(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name   string
		setup  func(gateway *mocks.Gateway, directory *mocks.AccountDirectory, store *mocks.PaymentStore)
		assert func(t *testing.T, err error)
	}{
		{
			name: "unknown payment method",
			setup: func(_ *mocks.Gateway, _ *mocks.AccountDirectory, store *mocks.PaymentStore) {
				store.On("FindPaymentMethodByID", ctx, "pm-1").Return(nil, domain.ErrPaymentMethodNotFound)
			},
			assert: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, domain.ErrPaymentMethodNotFound)
			},
		},
		{
			name: "already deleted",
			setup: func(_ *mocks.Gateway, _ *mocks.AccountDirectory, store *mocks.PaymentStore) {
				store.On("FindPaymentMethodByID", ctx, "pm-1").
					Return(domain.ReconstructPaymentMethod("pm-1", "acc-1", "R-pm-1", false, false, now), nil)
			},
			assert: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, domain.ErrPaymentMethodNotFound)
			},
		},
		{
			name: "last remaining method",
			setup: func(gateway *mocks.Gateway, directory *mocks.AccountDirectory, store *mocks.PaymentStore) {
				account := &domain.Account{ID: "R-acc", Name: "alice", DefaultPaymentMethodID: "R-pm-1"}
				store.On("FindPaymentMethodByID", ctx, "pm-1").
					Return(domain.ReconstructPaymentMethod("pm-1", "acc-1", "R-pm-1", true, true, now), nil)
				directory.On("AccountKey", ctx, "acc-1").Return("alice", nil)
				gateway.On("AccountByName", ctx, mock.Anything, "alice").Return(domain.Success(account))
				gateway.On("DeletePaymentMethod", ctx, mock.Anything, account, "R-pm-1").
					Return(domain.Failuref[string](domain.KindUnsupported, "cannot delete the only payment method"))
			},
			assert: func(t *testing.T, err error) {
				assert.True(t, domain.IsKind(err, domain.KindUnsupported))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gateway := new(mocks.Gateway)
			directory := new(mocks.AccountDirectory)
			store := new(mocks.PaymentStore)
			tt.setup(gateway, directory, store)
			interactor := NewInteractor(mocks.NewPool(), gateway, directory, store, domain.FixedClock{FixedTime: now}, nil)

			err := interactor.Execute(ctx, "pm-1")

			require.Error(t, err)
			tt.assert(t, err)
			store.AssertNotCalled(t, "Apply", mock.Anything, mock.Anything)
		})
	}
}
