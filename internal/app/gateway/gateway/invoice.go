package gateway

import (
	"context"
	"time"

	"github.com/wuyiadepoju/billing-gateway/internal/app/gateway/contracts"
	"github.com/wuyiadepoju/billing-gateway/internal/app/gateway/domain"
)

func (o *Operations) SubscriptionsForAccount(ctx context.Context, conn contracts.Connection, account *domain.Account) domain.Result[[]*domain.Subscription] {
	return list[*domain.Subscription](ctx, o, conn, contracts.QuerySubscriptionsForAccount, map[string]any{"accountId": account.ID})
}

func (o *Operations) PostedInvoicesForAccount(ctx context.Context, conn contracts.Connection, account *domain.Account) domain.Result[[]*domain.Invoice] {
	return list[*domain.Invoice](ctx, o, conn, contracts.QueryPostedInvoicesForAccount, map[string]any{"accountId": account.ID})
}

// InvoicesForAccount lists posted invoices with a target date up to to, and
// from on when given. A range open at both ends is refused.
func (o *Operations) InvoicesForAccount(ctx context.Context, conn contracts.Connection, account *domain.Account, from, to *time.Time) domain.Result[[]*domain.Invoice] {
	switch {
	case from == nil && to == nil:
		return domain.Failuref[[]*domain.Invoice](domain.KindUnsupported, "an invoice range needs at least an end date")
	case from == nil:
		return list[*domain.Invoice](ctx, o, conn, contracts.QueryPostedInvoicesForAccountTo,
			map[string]any{"accountId": account.ID, "to": *to})
	case to == nil:
		return list[*domain.Invoice](ctx, o, conn, contracts.QueryPostedInvoicesForAccountRange,
			map[string]any{"accountId": account.ID, "from": *from, "to": o.clock.Now()})
	default:
		return list[*domain.Invoice](ctx, o, conn, contracts.QueryPostedInvoicesForAccountRange,
			map[string]any{"accountId": account.ID, "from": *from, "to": *to})
	}
}

// InvoiceContent loads an invoice with its rendered body. An invoice that
// belongs to another account is reported as absent.
func (o *Operations) InvoiceContent(ctx context.Context, conn contracts.Connection, account *domain.Account, invoiceNumber string) domain.Result[*domain.Invoice] {
	return domain.Map(single[*domain.Invoice](ctx, o, conn, contracts.QueryInvoiceContent, map[string]any{"number": invoiceNumber}),
		func(inv *domain.Invoice) *domain.Invoice {
			if inv == nil || inv.AccountID != account.ID {
				return nil
			}
			return inv
		})
}
