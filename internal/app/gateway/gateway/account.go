package gateway

import (
	"context"

	"github.com/wuyiadepoju/billing-gateway/internal/app/gateway/contracts"
	"github.com/wuyiadepoju/billing-gateway/internal/app/gateway/domain"
)

const (
	accountStatusDraft   = "Draft"
	accountStatusActive  = "Active"
	accountBatch         = "Batch17"
	paymentTermOnReceipt = "Due Upon Receipt"
	defaultCurrency      = "USD"
)

// FindAccountByName looks an account up by its external key. A miss is a
// success holding nil.
func (o *Operations) FindAccountByName(ctx context.Context, conn contracts.Connection, name string) domain.Result[*domain.Account] {
	return single[*domain.Account](ctx, o, conn, contracts.QueryAccountByName, map[string]any{"name": name})
}

func (o *Operations) AccountByName(ctx context.Context, conn contracts.Connection, name string) domain.Result[*domain.Account] {
	return required(o.FindAccountByName(ctx, conn, name), "account named %q", name)
}

func (o *Operations) AccountByID(ctx context.Context, conn contracts.Connection, id string) domain.Result[*domain.Account] {
	return required(single[*domain.Account](ctx, o, conn, contracts.QueryAccountByID, map[string]any{"id": id}),
		"account with id %s", id)
}

// CreateAccount finds the account for data.ExternalKey or creates it. A new
// account is created as a draft, given a bill-to/sold-to contact and then
// activated. An existing account without a bill-to contact gets one; an
// existing account that already has one is returned as is.
func (o *Operations) CreateAccount(ctx context.Context, conn contracts.Connection, data domain.AccountData) domain.Result[*domain.Account] {
	existing := o.FindAccountByName(ctx, conn, data.ExternalKey)
	if existing.IsFailure() {
		return existing
	}

	accountID := ""
	if acct := existing.Value(); acct != nil {
		if acct.BillToID != "" {
			o.logger.Info("gateway.account.reused", "account", acct.ID, "key", data.ExternalKey)
			return existing
		}
		accountID = acct.ID
	} else {
		created := conn.Create(ctx, o.draftAccount(data))
		if created.IsFailure() {
			return domain.Recast[*domain.Account](created)
		}
		accountID = created.Value()
		o.logger.Info("gateway.account.created", "account", accountID, "key", data.ExternalKey)
	}

	contactID := conn.Create(ctx, contactFor(accountID, data))
	if contactID.IsFailure() {
		return domain.Recast[*domain.Account](contactID)
	}

	activated := conn.Update(ctx, &domain.Account{
		ID:       accountID,
		Name:     data.ExternalKey,
		Status:   accountStatusActive,
		BillToID: contactID.Value(),
		SoldToID: contactID.Value(),
	})
	if activated.IsFailure() {
		return domain.Recast[*domain.Account](activated)
	}
	return o.AccountByID(ctx, conn, accountID)
}

// UpdateAccountContact rewrites the account's bill-to contact from data.
func (o *Operations) UpdateAccountContact(ctx context.Context, conn contracts.Connection, account *domain.Account, data domain.AccountData) domain.Result[*domain.Account] {
	if account.BillToID == "" {
		return domain.Failuref[*domain.Account](domain.KindNotFound, "account %s has no bill-to contact", account.ID)
	}
	contact := contactFor(account.ID, data)
	contact.ID = account.BillToID
	updated := conn.Update(ctx, contact)
	if updated.IsFailure() {
		return domain.Recast[*domain.Account](updated)
	}
	return o.AccountByID(ctx, conn, account.ID)
}

func (o *Operations) draftAccount(data domain.AccountData) *domain.Account {
	currency := data.Currency
	if currency == "" {
		currency = defaultCurrency
	}
	billCycleDay := data.BillCycleDay
	if billCycleDay <= 0 {
		billCycleDay = o.clock.Now().Day()
	}
	return &domain.Account{
		Name:                      data.ExternalKey,
		AccountNumber:             data.ExternalKey,
		Currency:                  currency,
		Status:                    accountStatusDraft,
		Batch:                     accountBatch,
		BillCycleDay:              billCycleDay,
		PaymentTerm:               paymentTermOnReceipt,
		AutoPay:                   domain.BoolPtr(false),
		AllowInvoiceEdit:          domain.BoolPtr(true),
		InvoiceDeliveryPrefsEmail: domain.BoolPtr(false),
	}
}

func contactFor(accountID string, data domain.AccountData) *domain.Contact {
	return &domain.Contact{
		AccountID:  accountID,
		FirstName:  data.FirstName,
		LastName:   data.LastName,
		WorkPhone:  data.Phone,
		Address1:   data.Address1,
		Address2:   data.Address2,
		City:       data.City,
		State:      data.State,
		Country:    data.Country,
		PostalCode: data.PostalCode,
	}
}
