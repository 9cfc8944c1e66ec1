package gateway

import (
	"context"

	"github.com/wuyiadepoju/billing-gateway/internal/app/gateway/contracts"
	"github.com/wuyiadepoju/billing-gateway/internal/app/gateway/domain"
)

// ProcessPayment charges amount to the account's default payment method. The
// correlation key tags the subscription and invoice created on the way, so a
// repeated call reuses them instead of creating duplicates.
func (o *Operations) ProcessPayment(ctx context.Context, conn contracts.Connection, accountKey string, amount int64, correlationKey string) domain.Result[*domain.Payment] {
	if amount <= 0 {
		return domain.Failuref[*domain.Payment](domain.KindUnsupported, "payment amount must be positive, got %d", amount)
	}

	// 1. Resolve the account and the method to charge
	account := o.AccountByName(ctx, conn, accountKey)
	if account.IsFailure() {
		return domain.Recast[*domain.Payment](account)
	}
	acct := account.Value()
	if acct.DefaultPaymentMethodID == "" {
		return domain.Failuref[*domain.Payment](domain.KindNotFound, "account %s has no default payment method", accountKey)
	}

	// 2. Reference charge the subscription is built on
	charge := o.RatePlanCharge(ctx, conn)
	if charge.IsFailure() {
		return domain.Recast[*domain.Payment](charge)
	}

	// 3. Subscription tagged with the correlation key
	sub := o.findOrCreateSubscription(ctx, conn, acct, charge.Value(), amount, correlationKey)
	if sub.IsFailure() {
		return domain.Recast[*domain.Payment](sub)
	}

	// 4. Posted invoice tagged with the correlation key
	invoice := o.findOrCreateInvoice(ctx, conn, acct, correlationKey)
	if invoice.IsFailure() {
		return domain.Recast[*domain.Payment](invoice)
	}

	// 5. Payment against the invoice, read back for its gateway outcome
	paymentID := conn.Create(ctx, &domain.Payment{
		AccountID:            acct.ID,
		InvoiceID:            invoice.Value().ID,
		PaymentMethodID:      acct.DefaultPaymentMethodID,
		Amount:               amount,
		AppliedInvoiceAmount: amount,
		EffectiveDate:        o.clock.Now(),
		Comment:              correlationKey,
		Status:               domain.PaymentProcessed,
		Type:                 domain.PaymentElectronic,
	})
	if paymentID.IsFailure() {
		return domain.Recast[*domain.Payment](paymentID)
	}
	o.logger.Info("gateway.payment.created", "payment", paymentID.Value(), "invoice", invoice.Value().ID, "key", correlationKey)
	return o.PaymentByID(ctx, conn, paymentID.Value())
}

func (o *Operations) findOrCreateSubscription(ctx context.Context, conn contracts.Connection, acct *domain.Account, charge *domain.RatePlanCharge, amount int64, key string) domain.Result[string] {
	if o.cfg.CheckRemoteState {
		existing := single[*domain.Subscription](ctx, o, conn, contracts.QuerySubscriptionByCorrelationKey,
			map[string]any{"accountId": acct.ID, "key": key})
		if existing.IsFailure() {
			return domain.Recast[string](existing)
		}
		if sub := existing.Value(); sub != nil {
			o.logger.Info("gateway.subscription.reused", "subscription", sub.ID, "key", key)
			return domain.Success(sub.ID)
		}
	}

	effective := domain.Yesterday(o.clock)
	created := conn.Subscribe(ctx, domain.SubscribeRequest{
		AccountID: acct.ID,
		Subscription: domain.Subscription{
			AccountID:              acct.ID,
			Name:                   key,
			CorrelationKey:         key,
			AutoRenew:              false,
			InitialTerm:            1,
			RenewalTerm:            0,
			TermStartDate:          effective,
			ContractEffectiveDate:  effective,
			ContractAcceptanceDate: effective,
		},
		ProductRatePlanID:       charge.ProductRatePlanID,
		ProductRatePlanChargeID: charge.ID,
		Price:                   amount,
		TriggerDate:             effective,
	})
	if created.IsSuccess() {
		o.logger.Info("gateway.subscription.created", "subscription", created.Value(), "key", key)
	}
	return created
}

func (o *Operations) findOrCreateInvoice(ctx context.Context, conn contracts.Connection, acct *domain.Account, key string) domain.Result[*domain.Invoice] {
	if o.cfg.CheckRemoteState {
		existing := single[*domain.Invoice](ctx, o, conn, contracts.QueryInvoiceByCorrelationKey,
			map[string]any{"accountId": acct.ID, "key": key})
		if existing.IsFailure() {
			return existing
		}
		if inv := existing.Value(); inv != nil {
			o.logger.Info("gateway.invoice.reused", "invoice", inv.ID, "status", inv.Status, "key", key)
			if inv.Status == domain.InvoiceStatusPosted {
				return existing
			}
			return o.postInvoice(ctx, conn, inv)
		}
	}

	now := o.clock.Now()
	inv := &domain.Invoice{
		AccountID:       acct.ID,
		InvoiceDate:     now,
		TargetDate:      now,
		IncludesOneTime: domain.BoolPtr(true),
		CorrelationKey:  key,
	}
	id := conn.Create(ctx, inv)
	if id.IsFailure() {
		return domain.Recast[*domain.Invoice](id)
	}
	inv.ID = id.Value()
	o.logger.Info("gateway.invoice.created", "invoice", inv.ID, "key", key)
	return o.postInvoice(ctx, conn, inv)
}

func (o *Operations) postInvoice(ctx context.Context, conn contracts.Connection, inv *domain.Invoice) domain.Result[*domain.Invoice] {
	posted := conn.Update(ctx, &domain.Invoice{
		ID:             inv.ID,
		Status:         domain.InvoiceStatusPosted,
		CorrelationKey: inv.CorrelationKey,
	})
	if posted.IsFailure() {
		return domain.Recast[*domain.Invoice](posted)
	}
	inv.Status = domain.InvoiceStatusPosted
	return domain.Success(inv)
}

func (o *Operations) PaymentByID(ctx context.Context, conn contracts.Connection, id string) domain.Result[*domain.Payment] {
	return required(single[*domain.Payment](ctx, o, conn, contracts.QueryPaymentByID, map[string]any{"id": id}),
		"payment with id %s", id)
}

func (o *Operations) ProcessedPaymentsForAccount(ctx context.Context, conn contracts.Connection, accountKey string) domain.Result[[]*domain.Payment] {
	account := o.AccountByName(ctx, conn, accountKey)
	if account.IsFailure() {
		return domain.Recast[[]*domain.Payment](account)
	}
	return o.processedPayments(ctx, conn, account.Value().ID)
}

func (o *Operations) processedPayments(ctx context.Context, conn contracts.Connection, accountID string) domain.Result[[]*domain.Payment] {
	return list[*domain.Payment](ctx, o, conn, contracts.QueryProcessedPaymentsForAccount, map[string]any{"accountId": accountID})
}

// PaymentForCorrelationKey finds the processed payment whose comment carries
// the correlation key. A miss is a success holding nil; if several match the
// most recently created one wins.
func (o *Operations) PaymentForCorrelationKey(ctx context.Context, conn contracts.Connection, accountKey, correlationKey string) domain.Result[*domain.Payment] {
	return domain.Map(o.ProcessedPaymentsForAccount(ctx, conn, accountKey), func(payments []*domain.Payment) *domain.Payment {
		var found *domain.Payment
		for _, p := range payments {
			if p.Comment != correlationKey {
				continue
			}
			if found == nil || p.CreatedDate.After(found.CreatedDate) {
				found = p
			}
		}
		return found
	})
}

// LastPaymentForInvoice returns the most recently created payment applied to
// the invoice, or nil when there is none.
func (o *Operations) LastPaymentForInvoice(ctx context.Context, conn contracts.Connection, invoiceID string) domain.Result[*domain.Payment] {
	links := list[*domain.InvoicePayment](ctx, o, conn, contracts.QueryInvoicePaymentsForInvoice, map[string]any{"invoiceId": invoiceID})
	if links.IsFailure() {
		return domain.Recast[*domain.Payment](links)
	}
	var last *domain.Payment
	for _, link := range links.Value() {
		payment := o.PaymentByID(ctx, conn, link.PaymentID)
		if payment.IsFailure() {
			return payment
		}
		if last == nil || payment.Value().CreatedDate.After(last.CreatedDate) {
			last = payment.Value()
		}
	}
	return domain.Success(last)
}
