package gateway

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/wuyiadepoju/billing-gateway/internal/app/gateway/domain"
)

// stubQueries encodes a query as "name|k=v|k=v" with sorted keys.
type stubQueries struct{}

func (stubQueries) Build(name string, params map[string]any) (string, error) {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := []string{name}
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%v", k, params[k]))
	}
	return strings.Join(parts, "|"), nil
}

func parseQuery(q string) (string, map[string]string) {
	parts := strings.Split(q, "|")
	params := make(map[string]string, len(parts)-1)
	for _, p := range parts[1:] {
		k, v, _ := strings.Cut(p, "=")
		params[k] = v
	}
	return parts[0], params
}

// fakeRemote is an in-memory billing back end behind the Connection surface.
type fakeRemote struct {
	mu            sync.Mutex
	seq           int
	accounts      map[string]*domain.Account
	contacts      map[string]*domain.Contact
	methods       map[string]*domain.PaymentMethod
	payments      map[string]*domain.Payment
	invoices      map[string]*domain.Invoice
	links         map[string]*domain.InvoicePayment
	subscriptions map[string]*domain.Subscription
	refunds       map[string]*domain.Refund
	adjustments   map[string]*domain.InvoiceAdjustment
	charge        *domain.RatePlanCharge

	calls    map[string]int
	failNext map[string]*domain.RemoteError
}

func newFakeRemote() *fakeRemote {
	return &fakeRemote{
		accounts:      map[string]*domain.Account{},
		contacts:      map[string]*domain.Contact{},
		methods:       map[string]*domain.PaymentMethod{},
		payments:      map[string]*domain.Payment{},
		invoices:      map[string]*domain.Invoice{},
		links:         map[string]*domain.InvoicePayment{},
		subscriptions: map[string]*domain.Subscription{},
		refunds:       map[string]*domain.Refund{},
		adjustments:   map[string]*domain.InvoiceAdjustment{},
		charge:        &domain.RatePlanCharge{ID: "charge-1", Name: DefaultRatePlanCharge, ProductRatePlanID: "plan-1"},
		calls:         map[string]int{},
		failNext:      map[string]*domain.RemoteError{},
	}
}

func (f *fakeRemote) nextID(prefix string) string {
	f.seq++
	return fmt.Sprintf("%s-%d", prefix, f.seq)
}

func (f *fakeRemote) count(op string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[op]
}

// fail makes the next call of op (e.g. "create:Payment") fail with err.
func (f *fakeRemote) fail(op string, err *domain.RemoteError) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failNext[op] = err
}

func (f *fakeRemote) injected(op string) *domain.RemoteError {
	f.calls[op]++
	if err, ok := f.failNext[op]; ok {
		delete(f.failNext, op)
		return err
	}
	return nil
}

func (f *fakeRemote) Session() domain.Session {
	return domain.Session{Token: "fake", Endpoint: "memory"}
}

func (f *fakeRemote) Query(ctx context.Context, q string) domain.Result[[]domain.Object] {
	f.mu.Lock()
	defer f.mu.Unlock()
	name, p := parseQuery(q)
	if err := f.injected("query:" + name); err != nil {
		return domain.Failure[[]domain.Object](err)
	}

	var out []domain.Object
	switch name {
	case "getAccountByAccountName":
		for _, a := range f.accounts {
			if a.Name == p["name"] {
				out = append(out, copyOf(a))
			}
		}
	case "getAccountById":
		if a, ok := f.accounts[p["id"]]; ok {
			out = append(out, copyOf(a))
		}
	case "getRatePlanCharge":
		if f.charge != nil && f.charge.Name == p["name"] {
			out = append(out, copyOf(f.charge))
		}
	case "getSubscriptionByCorrelationKey":
		for _, s := range f.subscriptions {
			if s.AccountID == p["accountId"] && s.CorrelationKey == p["key"] {
				out = append(out, copyOf(s))
			}
		}
	case "getInvoiceByCorrelationKey":
		for _, i := range f.invoices {
			if i.AccountID == p["accountId"] && i.CorrelationKey == p["key"] {
				out = append(out, copyOf(i))
			}
		}
	case "getInvoiceContent":
		for _, i := range f.invoices {
			if i.InvoiceNumber == p["number"] {
				out = append(out, copyOf(i))
			}
		}
	case "getPaymentFromId":
		if pay, ok := f.payments[p["id"]]; ok {
			out = append(out, copyOf(pay))
		}
	case "getProcessedPaymentsForAccount":
		for _, pay := range f.payments {
			if pay.AccountID == p["accountId"] && pay.Status == domain.PaymentProcessed {
				out = append(out, copyOf(pay))
			}
		}
	case "getInvoicePaymentsForInvoice":
		for _, l := range f.links {
			if l.InvoiceID == p["invoiceId"] {
				out = append(out, copyOf(l))
			}
		}
	case "getInvoicePayments":
		for _, l := range f.links {
			if l.PaymentID == p["paymentId"] {
				out = append(out, copyOf(l))
			}
		}
	case "getRefundFromId":
		if r, ok := f.refunds[p["id"]]; ok {
			out = append(out, copyOf(r))
		}
	case "getRefundsForPayment":
		for _, r := range f.refunds {
			if r.PaymentID == p["paymentId"] {
				out = append(out, copyOf(r))
			}
		}
	case "getPaymentMethods":
		for _, m := range f.methods {
			if m.AccountID == p["accountId"] {
				out = append(out, copyOf(m))
			}
		}
	case "getPaymentMethod":
		if m, ok := f.methods[p["id"]]; ok {
			out = append(out, copyOf(m))
		}
	case "getSubscriptionsForAccount":
		for _, s := range f.subscriptions {
			if s.AccountID == p["accountId"] {
				out = append(out, copyOf(s))
			}
		}
	case "getPostedInvoicesForAccount", "getPostedInvoicesForAccountTo", "getPostedInvoicesForAccountFromTo":
		for _, i := range f.invoices {
			if i.AccountID == p["accountId"] && i.Status == domain.InvoiceStatusPosted {
				out = append(out, copyOf(i))
			}
		}
	default:
		return domain.Failuref[[]domain.Object](domain.KindUnknown, "unknown query %s", name)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ObjectID() < out[j].ObjectID() })
	if out == nil {
		out = []domain.Object{}
	}
	return domain.Success(out)
}

func (f *fakeRemote) QuerySingle(ctx context.Context, q string) domain.Result[domain.Object] {
	rows := f.Query(ctx, q)
	if rows.IsFailure() {
		return domain.Recast[domain.Object](rows)
	}
	switch len(rows.Value()) {
	case 0:
		return domain.Success[domain.Object](nil)
	case 1:
		return domain.Success(rows.Value()[0])
	default:
		return domain.Failuref[domain.Object](domain.KindUnknown, "more than one record")
	}
}

func (f *fakeRemote) Create(ctx context.Context, obj domain.Object) domain.Result[string] {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.injected("create:" + obj.ObjectType()); err != nil {
		return domain.Failure[string](err)
	}

	switch v := copyOf(obj).(type) {
	case *domain.Account:
		v.ID = f.nextID("acc")
		f.accounts[v.ID] = v
		return domain.Success(v.ID)
	case *domain.Contact:
		v.ID = f.nextID("con")
		f.contacts[v.ID] = v
		return domain.Success(v.ID)
	case *domain.PaymentMethod:
		v.ID = f.nextID("pm")
		f.methods[v.ID] = v
		return domain.Success(v.ID)
	case *domain.Invoice:
		v.ID = f.nextID("inv")
		v.InvoiceNumber = "INV-" + v.ID
		f.invoices[v.ID] = v
		return domain.Success(v.ID)
	case *domain.Payment:
		v.ID = f.nextID("pay")
		f.payments[v.ID] = v
		link := &domain.InvoicePayment{ID: f.nextID("ip"), InvoiceID: v.InvoiceID, PaymentID: v.ID, Amount: v.Amount}
		f.links[link.ID] = link
		return domain.Success(v.ID)
	case *domain.Refund:
		v.ID = f.nextID("ref")
		v.Status = "Processed"
		f.refunds[v.ID] = v
		return domain.Success(v.ID)
	case *domain.InvoiceAdjustment:
		v.ID = f.nextID("adj")
		f.adjustments[v.ID] = v
		return domain.Success(v.ID)
	}
	return domain.Failuref[string](domain.KindUnknown, "cannot create %s", obj.ObjectType())
}

func (f *fakeRemote) Update(ctx context.Context, obj domain.Object) domain.Result[string] {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.injected("update:" + obj.ObjectType()); err != nil {
		return domain.Failure[string](err)
	}

	switch u := obj.(type) {
	case *domain.Account:
		a, ok := f.accounts[u.ID]
		if !ok {
			return domain.Failure[string](domain.CodedError(domain.CodeInvalidID, "no account "+u.ID))
		}
		if u.Name != "" {
			a.Name = u.Name
		}
		if u.Status != "" {
			a.Status = u.Status
		}
		if u.BillToID != "" {
			a.BillToID = u.BillToID
		}
		if u.SoldToID != "" {
			a.SoldToID = u.SoldToID
		}
		if u.DefaultPaymentMethodID != "" {
			a.DefaultPaymentMethodID = u.DefaultPaymentMethodID
		}
		if u.PaymentGateway != "" {
			a.PaymentGateway = u.PaymentGateway
		}
		if u.AutoPay != nil {
			a.AutoPay = domain.BoolPtr(*u.AutoPay)
		}
	case *domain.Invoice:
		i, ok := f.invoices[u.ID]
		if !ok {
			return domain.Failure[string](domain.CodedError(domain.CodeInvalidID, "no invoice "+u.ID))
		}
		if u.Status != "" {
			i.Status = u.Status
		}
		if u.CorrelationKey != "" {
			i.CorrelationKey = u.CorrelationKey
		}
	case *domain.PaymentMethod:
		m, ok := f.methods[u.ID]
		if !ok {
			return domain.Failure[string](domain.CodedError(domain.CodeInvalidID, "no payment method "+u.ID))
		}
		if u.CreditCardHolderName != "" {
			m.CreditCardHolderName = u.CreditCardHolderName
		}
		if u.CreditCardExpirationMonth != 0 {
			m.CreditCardExpirationMonth = u.CreditCardExpirationMonth
		}
		if u.CreditCardExpirationYear != 0 {
			m.CreditCardExpirationYear = u.CreditCardExpirationYear
		}
	case *domain.Contact:
		if _, ok := f.contacts[u.ID]; !ok {
			return domain.Failure[string](domain.CodedError(domain.CodeInvalidID, "no contact "+u.ID))
		}
		f.contacts[u.ID] = copyOf(u).(*domain.Contact)
	default:
		return domain.Failuref[string](domain.KindUnknown, "cannot update %s", obj.ObjectType())
	}
	return domain.Success(obj.ObjectID())
}

func (f *fakeRemote) Delete(ctx context.Context, objs []domain.Object) domain.Result[struct{}] {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(objs) == 0 {
		return domain.Success(struct{}{})
	}
	if err := f.injected("delete:" + objs[0].ObjectType()); err != nil {
		return domain.Failure[struct{}](err)
	}
	for _, obj := range objs {
		if obj.ObjectType() == domain.TypePaymentMethod {
			delete(f.methods, obj.ObjectID())
		}
	}
	return domain.Success(struct{}{})
}

func (f *fakeRemote) Subscribe(ctx context.Context, req domain.SubscribeRequest) domain.Result[string] {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.injected("subscribe"); err != nil {
		return domain.Failure[string](err)
	}
	sub := req.Subscription
	sub.ID = f.nextID("sub")
	sub.AccountID = req.AccountID
	f.subscriptions[sub.ID] = &sub
	return domain.Success(sub.ID)
}

func copyOf(obj domain.Object) domain.Object {
	switch v := obj.(type) {
	case *domain.Account:
		c := *v
		return &c
	case *domain.Contact:
		c := *v
		return &c
	case *domain.PaymentMethod:
		c := *v
		return &c
	case *domain.Payment:
		c := *v
		return &c
	case *domain.Invoice:
		c := *v
		return &c
	case *domain.InvoicePayment:
		c := *v
		return &c
	case *domain.InvoiceAdjustment:
		c := *v
		return &c
	case *domain.Subscription:
		c := *v
		return &c
	case *domain.RatePlanCharge:
		c := *v
		return &c
	case *domain.Refund:
		c := *v
		return &c
	}
	return obj
}
