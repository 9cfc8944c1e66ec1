package gateway

import (
	"context"

	"github.com/wuyiadepoju/billing-gateway/internal/app/gateway/contracts"
	"github.com/wuyiadepoju/billing-gateway/internal/app/gateway/domain"
)

const adjustmentCredit = "Credit"

// CreateRefund refunds amount of the payment processed under correlationKey
// and credits its invoice. The payment and its invoice are both resolved
// before anything is written.
func (o *Operations) CreateRefund(ctx context.Context, conn contracts.Connection, accountKey, correlationKey string, amount int64) domain.Result[*domain.Refund] {
	if amount <= 0 {
		return domain.Failuref[*domain.Refund](domain.KindUnsupported, "refund amount must be positive, got %d", amount)
	}

	// 1. Payment processed under the correlation key
	found := o.PaymentForCorrelationKey(ctx, conn, accountKey, correlationKey)
	if found.IsFailure() {
		return domain.Recast[*domain.Refund](found)
	}
	payment := found.Value()
	if payment == nil {
		return domain.Failuref[*domain.Refund](domain.KindNotFound, "no processed payment for %s on account %s", correlationKey, accountKey)
	}

	// 2. Invoice the payment was applied to
	invoiceID := o.invoiceForPayment(ctx, conn, payment, correlationKey)
	if invoiceID.IsFailure() {
		return domain.Recast[*domain.Refund](invoiceID)
	}

	// 3. Refund, then credit the invoice
	refundID := conn.Create(ctx, &domain.Refund{
		PaymentID: payment.ID,
		Amount:    amount,
		Type:      domain.PaymentElectronic,
	})
	if refundID.IsFailure() {
		return domain.Recast[*domain.Refund](refundID)
	}
	o.logger.Info("gateway.refund.created", "refund", refundID.Value(), "payment", payment.ID, "key", correlationKey)

	adjusted := conn.Create(ctx, &domain.InvoiceAdjustment{
		InvoiceID:      invoiceID.Value(),
		Type:           adjustmentCredit,
		Amount:         amount,
		AdjustmentDate: o.clock.Now(),
	})
	if adjusted.IsFailure() {
		o.logger.Warn("gateway.refund.adjustment_failed", "refund", refundID.Value(), "invoice", invoiceID.Value(), "error", adjusted.Err())
		return domain.Recast[*domain.Refund](adjusted)
	}

	return required(single[*domain.Refund](ctx, o, conn, contracts.QueryRefundByID, map[string]any{"id": refundID.Value()}),
		"refund with id %s", refundID.Value())
}

func (o *Operations) invoiceForPayment(ctx context.Context, conn contracts.Connection, payment *domain.Payment, key string) domain.Result[string] {
	if o.cfg.CheckRemoteState {
		inv := required(single[*domain.Invoice](ctx, o, conn, contracts.QueryInvoiceByCorrelationKey,
			map[string]any{"accountId": payment.AccountID, "key": key}), "invoice for %s", key)
		return domain.Map(inv, func(i *domain.Invoice) string { return i.ID })
	}

	links := list[*domain.InvoicePayment](ctx, o, conn, contracts.QueryInvoicePaymentsForPayment, map[string]any{"paymentId": payment.ID})
	return domain.FlatMap(links, func(ls []*domain.InvoicePayment) domain.Result[string] {
		switch len(ls) {
		case 0:
			return domain.Failuref[string](domain.KindNotFound, "payment %s is not applied to any invoice", payment.ID)
		case 1:
			return domain.Success(ls[0].InvoiceID)
		default:
			return domain.Failuref[string](domain.KindUnsupported, "payment %s is applied to %d invoices", payment.ID, len(ls))
		}
	})
}

// RefundsForPayment lists the refunds issued against a payment.
func (o *Operations) RefundsForPayment(ctx context.Context, conn contracts.Connection, paymentID string) domain.Result[[]*domain.Refund] {
	return list[*domain.Refund](ctx, o, conn, contracts.QueryRefundsForPayment, map[string]any{"paymentId": paymentID})
}
