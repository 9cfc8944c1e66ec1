package repo

import (
	"context"
	"time"

	"cloud.google.com/go/spanner"
	"google.golang.org/api/iterator"

	"github.com/wuyiadepoju/billing-gateway/internal/app/gateway/contracts"
	"github.com/wuyiadepoju/billing-gateway/internal/app/gateway/domain"
)

var _ contracts.PaymentStore = (*PaymentStore)(nil)

var (
	paymentColumns       = []string{"id", "account_id", "remote_id", "amount_cents", "status", "created_at"}
	paymentMethodColumns = []string{"id", "account_id", "remote_id", "is_default", "active", "updated_at"}
)

// PaymentStore keeps the local payment and payment method mappings in Cloud Spanner
type PaymentStore struct {
	client *spanner.Client
}

func NewPaymentStore(client *spanner.Client) *PaymentStore {
	return &PaymentStore{client: client}
}

// SavePayment returns the mutation persisting p. It takes effect on Apply.
func (r *PaymentStore) SavePayment(ctx context.Context, p *domain.PaymentEntity) (*spanner.Mutation, error) {
	return spanner.InsertOrUpdate("payments", paymentColumns, []any{
		p.ID(),
		p.AccountID(),
		p.RemoteID(),
		p.Amount(),
		p.Status(),
		p.CreatedAt(),
	}), nil
}

func (r *PaymentStore) SavePaymentMethod(ctx context.Context, pm *domain.PaymentMethodEntity) (*spanner.Mutation, error) {
	return spanner.InsertOrUpdate("payment_methods", paymentMethodColumns, []any{
		pm.ID(),
		pm.AccountID(),
		pm.RemoteID(),
		pm.IsDefault(),
		pm.Active(),
		pm.UpdatedAt(),
	}), nil
}

// Apply applies the given mutations atomically
func (r *PaymentStore) Apply(ctx context.Context, mutations ...*spanner.Mutation) error {
	_, err := r.client.Apply(ctx, mutations)
	return err
}

func (r *PaymentStore) FindPaymentByID(ctx context.Context, id string) (*domain.PaymentEntity, error) {
	stmt := spanner.Statement{
		SQL: `
			SELECT id, account_id, remote_id, amount_cents, status, created_at
			FROM payments
			WHERE id = @id
		`,
		Params: map[string]any{"id": id},
	}

	iter := r.client.Single().Query(ctx, stmt)
	defer iter.Stop()

	row, err := iter.Next()
	if err != nil {
		if err == iterator.Done {
			return nil, domain.ErrPaymentNotFound
		}
		return nil, err
	}

	var (
		dbID      string
		accountID string
		remoteID  string
		amount    int64
		status    string
		createdAt time.Time
	)
	if err := row.Columns(&dbID, &accountID, &remoteID, &amount, &status, &createdAt); err != nil {
		return nil, err
	}
	return domain.ReconstructPayment(dbID, accountID, remoteID, amount, status, createdAt), nil
}

func (r *PaymentStore) FindPaymentMethodByID(ctx context.Context, id string) (*domain.PaymentMethodEntity, error) {
	stmt := spanner.Statement{
		SQL: `
			SELECT id, account_id, remote_id, is_default, active, updated_at
			FROM payment_methods
			WHERE id = @id
		`,
		Params: map[string]any{"id": id},
	}

	iter := r.client.Single().Query(ctx, stmt)
	defer iter.Stop()

	row, err := iter.Next()
	if err != nil {
		if err == iterator.Done {
			return nil, domain.ErrPaymentMethodNotFound
		}
		return nil, err
	}
	return paymentMethodFromRow(row)
}

// ListPaymentMethods returns the account's active payment methods
func (r *PaymentStore) ListPaymentMethods(ctx context.Context, accountID string) ([]*domain.PaymentMethodEntity, error) {
	stmt := spanner.Statement{
		SQL: `
			SELECT id, account_id, remote_id, is_default, active, updated_at
			FROM payment_methods
			WHERE account_id = @account_id AND active = true
			ORDER BY id
		`,
		Params: map[string]any{"account_id": accountID},
	}

	iter := r.client.Single().Query(ctx, stmt)
	defer iter.Stop()

	var methods []*domain.PaymentMethodEntity
	for {
		row, err := iter.Next()
		if err == iterator.Done {
			return methods, nil
		}
		if err != nil {
			return nil, err
		}
		pm, err := paymentMethodFromRow(row)
		if err != nil {
			return nil, err
		}
		methods = append(methods, pm)
	}
}

func paymentMethodFromRow(row *spanner.Row) (*domain.PaymentMethodEntity, error) {
	var (
		id        string
		accountID string
		remoteID  string
		isDefault bool
		active    bool
		updatedAt time.Time
	)
	if err := row.Columns(&id, &accountID, &remoteID, &isDefault, &active, &updatedAt); err != nil {
		return nil, err
	}
	return domain.ReconstructPaymentMethod(id, accountID, remoteID, isDefault, active, updatedAt), nil
}
