package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/wuyiadepoju/billing-gateway/internal/app/gateway/contracts"
	"github.com/wuyiadepoju/billing-gateway/internal/app/gateway/domain"
)

var _ contracts.Gateway = (*Gateway)(nil)

// Gateway is a testify double for contracts.Gateway. The connection argument
// is passed to Called like any other, so expectations usually match it with
// mock.Anything.
type Gateway struct {
	mock.Mock
}

func (m *Gateway) FindAccountByName(ctx context.Context, conn contracts.Connection, name string) domain.Result[*domain.Account] {
	args := m.Called(ctx, conn, name)
	return args.Get(0).(domain.Result[*domain.Account])
}

func (m *Gateway) AccountByName(ctx context.Context, conn contracts.Connection, name string) domain.Result[*domain.Account] {
	args := m.Called(ctx, conn, name)
	return args.Get(0).(domain.Result[*domain.Account])
}

func (m *Gateway) AccountByID(ctx context.Context, conn contracts.Connection, id string) domain.Result[*domain.Account] {
	args := m.Called(ctx, conn, id)
	return args.Get(0).(domain.Result[*domain.Account])
}

func (m *Gateway) CreateAccount(ctx context.Context, conn contracts.Connection, data domain.AccountData) domain.Result[*domain.Account] {
	args := m.Called(ctx, conn, data)
	return args.Get(0).(domain.Result[*domain.Account])
}

func (m *Gateway) UpdateAccountContact(ctx context.Context, conn contracts.Connection, account *domain.Account, data domain.AccountData) domain.Result[*domain.Account] {
	args := m.Called(ctx, conn, account, data)
	return args.Get(0).(domain.Result[*domain.Account])
}

func (m *Gateway) ProcessPayment(ctx context.Context, conn contracts.Connection, accountKey string, amount int64, correlationKey string) domain.Result[*domain.Payment] {
	args := m.Called(ctx, conn, accountKey, amount, correlationKey)
	return args.Get(0).(domain.Result[*domain.Payment])
}

func (m *Gateway) PaymentByID(ctx context.Context, conn contracts.Connection, id string) domain.Result[*domain.Payment] {
	args := m.Called(ctx, conn, id)
	return args.Get(0).(domain.Result[*domain.Payment])
}

func (m *Gateway) PaymentForCorrelationKey(ctx context.Context, conn contracts.Connection, accountKey, correlationKey string) domain.Result[*domain.Payment] {
	args := m.Called(ctx, conn, accountKey, correlationKey)
	return args.Get(0).(domain.Result[*domain.Payment])
}

func (m *Gateway) ProcessedPaymentsForAccount(ctx context.Context, conn contracts.Connection, accountKey string) domain.Result[[]*domain.Payment] {
	args := m.Called(ctx, conn, accountKey)
	return args.Get(0).(domain.Result[[]*domain.Payment])
}

func (m *Gateway) LastPaymentForInvoice(ctx context.Context, conn contracts.Connection, invoiceID string) domain.Result[*domain.Payment] {
	args := m.Called(ctx, conn, invoiceID)
	return args.Get(0).(domain.Result[*domain.Payment])
}

func (m *Gateway) CreateRefund(ctx context.Context, conn contracts.Connection, accountKey, correlationKey string, amount int64) domain.Result[*domain.Refund] {
	args := m.Called(ctx, conn, accountKey, correlationKey, amount)
	return args.Get(0).(domain.Result[*domain.Refund])
}

func (m *Gateway) RefundsForPayment(ctx context.Context, conn contracts.Connection, paymentID string) domain.Result[[]*domain.Refund] {
	args := m.Called(ctx, conn, paymentID)
	return args.Get(0).(domain.Result[[]*domain.Refund])
}

func (m *Gateway) PaymentMethodsForAccount(ctx context.Context, conn contracts.Connection, account *domain.Account) domain.Result[[]*domain.PaymentMethod] {
	args := m.Called(ctx, conn, account)
	return args.Get(0).(domain.Result[[]*domain.PaymentMethod])
}

func (m *Gateway) PaymentMethodByID(ctx context.Context, conn contracts.Connection, id string) domain.Result[*domain.PaymentMethod] {
	args := m.Called(ctx, conn, id)
	return args.Get(0).(domain.Result[*domain.PaymentMethod])
}

func (m *Gateway) AddPaymentMethod(ctx context.Context, conn contracts.Connection, account *domain.Account, info *domain.PaymentMethodInfo, setDefault bool) domain.Result[*domain.PaymentMethod] {
	args := m.Called(ctx, conn, account, info, setDefault)
	return args.Get(0).(domain.Result[*domain.PaymentMethod])
}

func (m *Gateway) UpdateCreditCardPaymentMethod(ctx context.Context, conn contracts.Connection, account *domain.Account, info *domain.PaymentMethodInfo) domain.Result[*domain.PaymentMethod] {
	args := m.Called(ctx, conn, account, info)
	return args.Get(0).(domain.Result[*domain.PaymentMethod])
}

func (m *Gateway) SetDefaultPaymentMethod(ctx context.Context, conn contracts.Connection, account *domain.Account, paymentMethodID string) domain.Result[*domain.Account] {
	args := m.Called(ctx, conn, account, paymentMethodID)
	return args.Get(0).(domain.Result[*domain.Account])
}

func (m *Gateway) DeletePaymentMethod(ctx context.Context, conn contracts.Connection, account *domain.Account, paymentMethodID string) domain.Result[string] {
	args := m.Called(ctx, conn, account, paymentMethodID)
	return args.Get(0).(domain.Result[string])
}

func (m *Gateway) SubscriptionsForAccount(ctx context.Context, conn contracts.Connection, account *domain.Account) domain.Result[[]*domain.Subscription] {
	args := m.Called(ctx, conn, account)
	return args.Get(0).(domain.Result[[]*domain.Subscription])
}

func (m *Gateway) PostedInvoicesForAccount(ctx context.Context, conn contracts.Connection, account *domain.Account) domain.Result[[]*domain.Invoice] {
	args := m.Called(ctx, conn, account)
	return args.Get(0).(domain.Result[[]*domain.Invoice])
}

func (m *Gateway) InvoicesForAccount(ctx context.Context, conn contracts.Connection, account *domain.Account, from, to *time.Time) domain.Result[[]*domain.Invoice] {
	args := m.Called(ctx, conn, account, from, to)
	return args.Get(0).(domain.Result[[]*domain.Invoice])
}

func (m *Gateway) InvoiceContent(ctx context.Context, conn contracts.Connection, account *domain.Account, invoiceNumber string) domain.Result[*domain.Invoice] {
	args := m.Called(ctx, conn, account, invoiceNumber)
	return args.Get(0).(domain.Result[*domain.Invoice])
}
