package gateway

import (
	"context"
	"sort"
	"strings"

	"github.com/wuyiadepoju/billing-gateway/internal/app/gateway/contracts"
	"github.com/wuyiadepoju/billing-gateway/internal/app/gateway/domain"
)

const gatewayPayPal = "PAYPAL"

// Currencies with a credit card gateway of the same name.
var cardGatewayCurrencies = map[string]bool{
	"AUD": true, "BRL": true, "CAD": true, "EUR": true, "GBP": true, "MXN": true, "USD": true,
}

// gatewayFor picks the payment gateway an account must use for a method type.
func (o *Operations) gatewayFor(account *domain.Account, methodType string) domain.Result[string] {
	switch methodType {
	case domain.PaymentMethodPayPal:
		return domain.Success(gatewayPayPal)
	case domain.PaymentMethodCreditCard:
		if o.cfg.OverrideGateway != "" {
			return domain.Success(o.cfg.OverrideGateway)
		}
		currency := strings.ToUpper(account.Currency)
		if cardGatewayCurrencies[currency] {
			return domain.Success(currency)
		}
		return domain.Failuref[string](domain.KindUnsupported, "no credit card gateway for currency %q", account.Currency)
	default:
		return domain.Failuref[string](domain.KindUnsupported, "unsupported payment method type %q", methodType)
	}
}

// PaymentMethodsForAccount lists the account's payment methods. When the
// account's gateway or auto-pay flag disagree with its default method they
// are repaired; a failed repair is logged and does not fail the listing.
func (o *Operations) PaymentMethodsForAccount(ctx context.Context, conn contracts.Connection, account *domain.Account) domain.Result[[]*domain.PaymentMethod] {
	methods := o.methodsOf(ctx, conn, account.ID)
	if methods.IsFailure() {
		return methods
	}
	for _, pm := range methods.Value() {
		if pm.ID == account.DefaultPaymentMethodID {
			o.repairGateway(ctx, conn, account, pm)
			break
		}
	}
	return methods
}

func (o *Operations) methodsOf(ctx context.Context, conn contracts.Connection, accountID string) domain.Result[[]*domain.PaymentMethod] {
	return list[*domain.PaymentMethod](ctx, o, conn, contracts.QueryPaymentMethods, map[string]any{"accountId": accountID})
}

func (o *Operations) repairGateway(ctx context.Context, conn contracts.Connection, account *domain.Account, pm *domain.PaymentMethod) {
	gw := o.gatewayFor(account, pm.Type)
	if gw.IsFailure() {
		o.logger.Warn("gateway.account.repair_skipped", "account", account.ID, "error", gw.Err())
		return
	}
	if account.PaymentGateway == gw.Value() && account.IsAutoPay() {
		return
	}
	updated := conn.Update(ctx, &domain.Account{
		ID:             account.ID,
		PaymentGateway: gw.Value(),
		AutoPay:        domain.BoolPtr(true),
	})
	if updated.IsFailure() {
		o.logger.Warn("gateway.account.repair_failed", "account", account.ID, "error", updated.Err())
		return
	}
	o.logger.Info("gateway.account.repaired", "account", account.ID, "gateway", gw.Value())
	account.PaymentGateway = gw.Value()
	account.AutoPay = domain.BoolPtr(true)
}

func (o *Operations) PaymentMethodByID(ctx context.Context, conn contracts.Connection, id string) domain.Result[*domain.PaymentMethod] {
	return required(single[*domain.PaymentMethod](ctx, o, conn, contracts.QueryPaymentMethod, map[string]any{"id": id}),
		"payment method with id %s", id)
}

// ownedMethod loads a payment method and checks it belongs to account.
func (o *Operations) ownedMethod(ctx context.Context, conn contracts.Connection, account *domain.Account, id string) domain.Result[*domain.PaymentMethod] {
	return domain.FlatMap(o.PaymentMethodByID(ctx, conn, id), func(pm *domain.PaymentMethod) domain.Result[*domain.PaymentMethod] {
		if pm.AccountID != account.ID {
			return domain.Failuref[*domain.PaymentMethod](domain.KindNotFound, "payment method %s does not belong to account %s", id, account.ID)
		}
		return domain.Success(pm)
	})
}

// AddPaymentMethod creates a PayPal or credit card method on the account and
// optionally makes it the default.
func (o *Operations) AddPaymentMethod(ctx context.Context, conn contracts.Connection, account *domain.Account, info *domain.PaymentMethodInfo, setDefault bool) domain.Result[*domain.PaymentMethod] {
	gw := o.gatewayFor(account, info.Type)
	if gw.IsFailure() {
		return domain.Recast[*domain.PaymentMethod](gw)
	}

	record := info.Record()
	record.ID = ""
	record.AccountID = account.ID
	created := conn.Create(ctx, record)
	if created.IsFailure() {
		return domain.Recast[*domain.PaymentMethod](created)
	}
	o.logger.Info("gateway.payment_method.created", "account", account.ID, "payment_method", created.Value(), "type", info.Type)

	if setDefault {
		if r := o.makeDefault(ctx, conn, account, created.Value(), gw.Value()); r.IsFailure() {
			return domain.Recast[*domain.PaymentMethod](r)
		}
	}
	return o.PaymentMethodByID(ctx, conn, created.Value())
}

// UpdateCreditCardPaymentMethod rewrites an existing credit card. Other
// method types cannot be updated in place.
func (o *Operations) UpdateCreditCardPaymentMethod(ctx context.Context, conn contracts.Connection, account *domain.Account, info *domain.PaymentMethodInfo) domain.Result[*domain.PaymentMethod] {
	if info.Type != domain.PaymentMethodCreditCard {
		return domain.Failuref[*domain.PaymentMethod](domain.KindUnsupported, "cannot update a %q payment method", info.Type)
	}
	existing := o.ownedMethod(ctx, conn, account, info.RemoteID)
	if existing.IsFailure() {
		return existing
	}
	if existing.Value().Type != domain.PaymentMethodCreditCard {
		return domain.Failuref[*domain.PaymentMethod](domain.KindUnsupported, "payment method %s is a %q, not a credit card", info.RemoteID, existing.Value().Type)
	}

	record := info.Record()
	record.AccountID = ""
	record.Type = ""
	updated := conn.Update(ctx, record)
	if updated.IsFailure() {
		return domain.Recast[*domain.PaymentMethod](updated)
	}
	return o.PaymentMethodByID(ctx, conn, info.RemoteID)
}

// SetDefaultPaymentMethod points the account at another of its methods and
// switches the gateway to match. It is a no-op when already the default.
func (o *Operations) SetDefaultPaymentMethod(ctx context.Context, conn contracts.Connection, account *domain.Account, paymentMethodID string) domain.Result[*domain.Account] {
	if account.DefaultPaymentMethodID == paymentMethodID {
		return domain.Success(account)
	}
	pm := o.ownedMethod(ctx, conn, account, paymentMethodID)
	if pm.IsFailure() {
		return domain.Recast[*domain.Account](pm)
	}
	gw := o.gatewayFor(account, pm.Value().Type)
	if gw.IsFailure() {
		return domain.Recast[*domain.Account](gw)
	}
	if r := o.makeDefault(ctx, conn, account, paymentMethodID, gw.Value()); r.IsFailure() {
		return domain.Recast[*domain.Account](r)
	}
	return o.AccountByID(ctx, conn, account.ID)
}

func (o *Operations) makeDefault(ctx context.Context, conn contracts.Connection, account *domain.Account, paymentMethodID, gateway string) domain.Result[string] {
	r := conn.Update(ctx, &domain.Account{
		ID:                     account.ID,
		DefaultPaymentMethodID: paymentMethodID,
		PaymentGateway:         gateway,
		AutoPay:                domain.BoolPtr(true),
	})
	if r.IsSuccess() {
		o.logger.Info("gateway.payment_method.default_set", "account", account.ID, "payment_method", paymentMethodID, "gateway", gateway)
	}
	return r
}

// DeletePaymentMethod removes one of the account's methods. Deleting the
// current default first moves the default to the account's most recently
// created remaining method (lowest id on a tie); when no other method
// remains the delete is refused and nothing is changed. The new default's id
// is returned, or "" when the default did not move.
func (o *Operations) DeletePaymentMethod(ctx context.Context, conn contracts.Connection, account *domain.Account, paymentMethodID string) domain.Result[string] {
	pm := o.ownedMethod(ctx, conn, account, paymentMethodID)
	if pm.IsFailure() {
		return domain.Recast[string](pm)
	}

	replacement := ""
	if account.DefaultPaymentMethodID == paymentMethodID {
		methods := o.methodsOf(ctx, conn, account.ID)
		if methods.IsFailure() {
			return domain.Recast[string](methods)
		}
		next := fallbackDefault(methods.Value(), paymentMethodID)
		if next == nil {
			return domain.Failuref[string](domain.KindUnsupported, "payment method %s is the only one on account %s", paymentMethodID, account.ID)
		}
		gw := o.gatewayFor(account, next.Type)
		if gw.IsFailure() {
			return domain.Recast[string](gw)
		}
		if r := o.makeDefault(ctx, conn, account, next.ID, gw.Value()); r.IsFailure() {
			return r
		}
		replacement = next.ID
	}

	deleted := conn.Delete(ctx, []domain.Object{pm.Value()})
	if deleted.IsFailure() {
		return domain.Recast[string](deleted)
	}
	o.logger.Info("gateway.payment_method.deleted", "account", account.ID, "payment_method", paymentMethodID, "new_default", replacement)
	return domain.Success(replacement)
}

func fallbackDefault(methods []*domain.PaymentMethod, excluded string) *domain.PaymentMethod {
	candidates := make([]*domain.PaymentMethod, 0, len(methods))
	for _, m := range methods {
		if m.ID != excluded {
			candidates = append(candidates, m)
		}
	}
	if len(candidates) == 0 {
		return nil
	}
	sort.Slice(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if !a.CreatedDate.Equal(b.CreatedDate) {
			return a.CreatedDate.After(b.CreatedDate)
		}
		return a.ID < b.ID
	})
	return candidates[0]
}
