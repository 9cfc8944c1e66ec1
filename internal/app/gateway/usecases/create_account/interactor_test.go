package create_account

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/wuyiadepoju/billing-gateway/internal/app/gateway/domain"
	"github.com/wuyiadepoju/billing-gateway/internal/app/gateway/mocks"
)

func TestCreateAccount_Success(t *testing.T) {
	ctx := context.Background()
	gateway := new(mocks.Gateway)
	directory := new(mocks.AccountDirectory)
	p := mocks.NewPool()
	interactor := NewInteractor(p, gateway, directory, nil)
	data := &domain.AccountData{ExternalKey: "alice", Currency: "EUR", FirstName: "Alice"}

	directory.On("AccountData", ctx, "acc-1").Return(data, nil)
	gateway.On("CreateAccount", ctx, mock.Anything, *data).
		Return(domain.Success(&domain.Account{ID: "R-acc", Name: "alice", Status: "Active"}))

	account, err := interactor.Execute(ctx, "acc-1")

	require.NoError(t, err)
	assert.Equal(t, "R-acc", account.ID)
	gateway.AssertExpectations(t)
	assert.True(t, p.Balanced())
}

func TestCreateAccount_Failures(t *testing.T) {
	ctx := context.Background()

	t.Run("host account without key", func(t *testing.T) {
		gateway := new(mocks.Gateway)
		directory := new(mocks.AccountDirectory)
		interactor := NewInteractor(mocks.NewPool(), gateway, directory, nil)
		directory.On("AccountData", ctx, "acc-1").Return(&domain.AccountData{}, nil)

		_, err := interactor.Execute(ctx, "acc-1")

		assert.ErrorIs(t, err, domain.ErrAccountNotFound)
		gateway.AssertNotCalled(t, "CreateAccount", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("remote failure", func(t *testing.T) {
		gateway := new(mocks.Gateway)
		directory := new(mocks.AccountDirectory)
		interactor := NewInteractor(mocks.NewPool(), gateway, directory, nil)
		data := &domain.AccountData{ExternalKey: "alice"}
		directory.On("AccountData", ctx, "acc-1").Return(data, nil)
		gateway.On("CreateAccount", ctx, mock.Anything, *data).
			Return(domain.Failure[*domain.Account](domain.CodedError("INVALID_VALUE", "bad currency")))

		_, err := interactor.Execute(ctx, "acc-1")

		var remoteErr *domain.RemoteError
		require.ErrorAs(t, err, &remoteErr)
		assert.Equal(t, "INVALID_VALUE", remoteErr.Code)
	})
}
