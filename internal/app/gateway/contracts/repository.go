package contracts

import (
	"context"

	"cloud.google.com/go/spanner"
	"github.com/wuyiadepoju/billing-gateway/internal/app/gateway/domain"
)

// PaymentStore persists the local side of payments and payment methods
type PaymentStore interface {
	SavePayment(ctx context.Context, p *domain.PaymentEntity) (*spanner.Mutation, error)
	FindPaymentByID(ctx context.Context, id string) (*domain.PaymentEntity, error)
	SavePaymentMethod(ctx context.Context, pm *domain.PaymentMethodEntity) (*spanner.Mutation, error)
	FindPaymentMethodByID(ctx context.Context, id string) (*domain.PaymentMethodEntity, error)
	ListPaymentMethods(ctx context.Context, accountID string) ([]*domain.PaymentMethodEntity, error)
	Apply(ctx context.Context, mutations ...*spanner.Mutation) error
}
