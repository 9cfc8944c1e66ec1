package contracts

import (
	"context"
	"time"

	"github.com/wuyiadepoju/billing-gateway/internal/app/gateway/domain"
)

// Gateway is the set of remote billing workflows. Every call runs on a
// connection borrowed by the caller and reports through a Result.
type Gateway interface {
	FindAccountByName(ctx context.Context, conn Connection, name string) domain.Result[*domain.Account]
	AccountByName(ctx context.Context, conn Connection, name string) domain.Result[*domain.Account]
	AccountByID(ctx context.Context, conn Connection, id string) domain.Result[*domain.Account]
	CreateAccount(ctx context.Context, conn Connection, data domain.AccountData) domain.Result[*domain.Account]
	UpdateAccountContact(ctx context.Context, conn Connection, account *domain.Account, data domain.AccountData) domain.Result[*domain.Account]

	ProcessPayment(ctx context.Context, conn Connection, accountKey string, amount int64, correlationKey string) domain.Result[*domain.Payment]
	PaymentByID(ctx context.Context, conn Connection, id string) domain.Result[*domain.Payment]
	PaymentForCorrelationKey(ctx context.Context, conn Connection, accountKey, correlationKey string) domain.Result[*domain.Payment]
	ProcessedPaymentsForAccount(ctx context.Context, conn Connection, accountKey string) domain.Result[[]*domain.Payment]
	LastPaymentForInvoice(ctx context.Context, conn Connection, invoiceID string) domain.Result[*domain.Payment]

	CreateRefund(ctx context.Context, conn Connection, accountKey, correlationKey string, amount int64) domain.Result[*domain.Refund]
	RefundsForPayment(ctx context.Context, conn Connection, paymentID string) domain.Result[[]*domain.Refund]

	PaymentMethodsForAccount(ctx context.Context, conn Connection, account *domain.Account) domain.Result[[]*domain.PaymentMethod]
	PaymentMethodByID(ctx context.Context, conn Connection, id string) domain.Result[*domain.PaymentMethod]
	AddPaymentMethod(ctx context.Context, conn Connection, account *domain.Account, info *domain.PaymentMethodInfo, setDefault bool) domain.Result[*domain.PaymentMethod]
	UpdateCreditCardPaymentMethod(ctx context.Context, conn Connection, account *domain.Account, info *domain.PaymentMethodInfo) domain.Result[*domain.PaymentMethod]
	SetDefaultPaymentMethod(ctx context.Context, conn Connection, account *domain.Account, paymentMethodID string) domain.Result[*domain.Account]
	DeletePaymentMethod(ctx context.Context, conn Connection, account *domain.Account, paymentMethodID string) domain.Result[string]

	SubscriptionsForAccount(ctx context.Context, conn Connection, account *domain.Account) domain.Result[[]*domain.Subscription]
	PostedInvoicesForAccount(ctx context.Context, conn Connection, account *domain.Account) domain.Result[[]*domain.Invoice]
	InvoicesForAccount(ctx context.Context, conn Connection, account *domain.Account, from, to *time.Time) domain.Result[[]*domain.Invoice]
	InvoiceContent(ctx context.Context, conn Connection, account *domain.Account, invoiceNumber string) domain.Result[*domain.Invoice]
}
