package contracts

import (
	"context"

	"github.com/wuyiadepoju/billing-gateway/internal/app/gateway/domain"
)

// AccountDirectory answers read-only questions about the host platform's
// accounts. The account key is the name of the matching remote account.
type AccountDirectory interface {
	AccountKey(ctx context.Context, accountID string) (string, error)
	AccountIDForPaymentMethod(ctx context.Context, paymentMethodID string) (string, error)
	AccountIDForPayment(ctx context.Context, paymentID string) (string, error)
	AccountData(ctx context.Context, accountID string) (*domain.AccountData, error)
}
