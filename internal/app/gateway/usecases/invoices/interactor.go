package invoices

import (
	"context"
	"fmt"
	"time"

	"github.com/wuyiadepoju/billing-gateway/internal/app/gateway/contracts"
	"github.com/wuyiadepoju/billing-gateway/internal/app/gateway/domain"
	"github.com/wuyiadepoju/billing-gateway/internal/app/gateway/pool"
)

// Interactor reads invoices and subscriptions of a host account
type Interactor struct {
	pool      contracts.ConnectionPool
	gateway   contracts.Gateway
	directory contracts.AccountDirectory
}

func NewInteractor(p contracts.ConnectionPool, gateway contracts.Gateway, directory contracts.AccountDirectory) *Interactor {
	return &Interactor{
		pool:      p,
		gateway:   gateway,
		directory: directory,
	}
}

// Execute lists the account's posted invoices, optionally bounded by target
// date. With no bounds every posted invoice is returned.
func (i *Interactor) Execute(ctx context.Context, accountID string, from, to *time.Time) ([]*domain.Invoice, error) {
	if from != nil && to != nil && from.After(*to) {
		return nil, fmt.Errorf("invoice range starts %s after it ends %s", from.Format(time.DateOnly), to.Format(time.DateOnly))
	}
	return withAccount(ctx, i, accountID, func(conn contracts.Connection, account *domain.Account) domain.Result[[]*domain.Invoice] {
		if from == nil && to == nil {
			return i.gateway.PostedInvoicesForAccount(ctx, conn, account)
		}
		return i.gateway.InvoicesForAccount(ctx, conn, account, from, to)
	})
}

// Content returns an invoice of the account with its rendered body
func (i *Interactor) Content(ctx context.Context, accountID, invoiceNumber string) (*domain.Invoice, error) {
	inv, err := withAccount(ctx, i, accountID, func(conn contracts.Connection, account *domain.Account) domain.Result[*domain.Invoice] {
		return i.gateway.InvoiceContent(ctx, conn, account, invoiceNumber)
	})
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, fmt.Errorf("invoice %s: %w", invoiceNumber, domain.ErrInvoiceNotFound)
	}
	return inv, nil
}

// LastPayment returns the most recent payment applied to a remote invoice
func (i *Interactor) LastPayment(ctx context.Context, invoiceID string) (*domain.PaymentInfo, error) {
	payment, err := pool.Call(ctx, i.pool, func(conn contracts.Connection) domain.Result[*domain.Payment] {
		return i.gateway.LastPaymentForInvoice(ctx, conn, invoiceID)
	})
	if err != nil {
		return nil, err
	}
	if payment == nil {
		return nil, fmt.Errorf("no payment applied to invoice %s: %w", invoiceID, domain.ErrPaymentNotFound)
	}
	return domain.PaymentInfoFromPayment(payment), nil
}

// Subscriptions lists the account's subscriptions
func (i *Interactor) Subscriptions(ctx context.Context, accountID string) ([]*domain.Subscription, error) {
	return withAccount(ctx, i, accountID, func(conn contracts.Connection, account *domain.Account) domain.Result[[]*domain.Subscription] {
		return i.gateway.SubscriptionsForAccount(ctx, conn, account)
	})
}

func withAccount[T any](ctx context.Context, i *Interactor, accountID string, fn func(contracts.Connection, *domain.Account) domain.Result[T]) (T, error) {
	key, err := i.directory.AccountKey(ctx, accountID)
	if err != nil {
		var zero T
		return zero, err
	}
	return pool.Call(ctx, i.pool, func(conn contracts.Connection) domain.Result[T] {
		return domain.FlatMap(i.gateway.AccountByName(ctx, conn, key), func(account *domain.Account) domain.Result[T] {
			return fn(conn, account)
		})
	})
}
