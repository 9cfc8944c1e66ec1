package domain

import "time"

// AccountData is what the host knows about a customer when asking for a
// remote account.
type AccountData struct {
	ExternalKey  string
	Currency     string
	FirstName    string
	LastName     string
	Phone        string
	Address1     string
	Address2     string
	City         string
	State        string
	Country      string
	PostalCode   string
	BillCycleDay int
}

// PaymentInfo is the host-facing view of a remote payment
type PaymentInfo struct {
	PaymentID         string
	InvoiceID         string
	Amount            int64
	AppliedAmount     int64
	Status            string
	Type              string
	CorrelationKey    string
	GatewayResponse   string
	GatewayCode       string
	ReferenceID       string
	SecondReferenceID string
	EffectiveDate     time.Time
	CreatedDate       time.Time
}

func PaymentInfoFromPayment(p *Payment) *PaymentInfo {
	if p == nil {
		return nil
	}
	return &PaymentInfo{
		PaymentID:         p.ID,
		InvoiceID:         p.InvoiceID,
		Amount:            p.Amount,
		AppliedAmount:     p.AppliedInvoiceAmount,
		Status:            p.Status,
		Type:              p.Type,
		CorrelationKey:    p.Comment,
		GatewayResponse:   p.GatewayResponse,
		GatewayCode:       p.GatewayResponseCode,
		ReferenceID:       p.ReferenceID,
		SecondReferenceID: p.SecondReferenceID,
		EffectiveDate:     p.EffectiveDate,
		CreatedDate:       p.CreatedDate,
	}
}

// RefundInfo is the host-facing view of a remote refund
type RefundInfo struct {
	RefundID        string
	PaymentID       string
	Amount          int64
	Status          string
	GatewayResponse string
	ReferenceID     string
	RefundDate      time.Time
}

func RefundInfoFromRefund(r *Refund) *RefundInfo {
	if r == nil {
		return nil
	}
	return &RefundInfo{
		RefundID:        r.ID,
		PaymentID:       r.PaymentID,
		Amount:          r.Amount,
		Status:          r.Status,
		GatewayResponse: r.GatewayResponse,
		ReferenceID:     r.ReferenceID,
		RefundDate:      r.RefundDate,
	}
}

// PaymentMethodInfo is the host-facing view of a remote payment method. It
// doubles as the input when adding or updating one.
type PaymentMethodInfo struct {
	RemoteID    string
	AccountID   string
	Type        string
	IsDefault   bool
	CardType    string
	MaskNumber  string
	HolderName  string
	ExpMonth    int
	ExpYear     int
	Address1    string
	Address2    string
	City        string
	State       string
	PostalCode  string
	Country     string
	PaypalBaid  string
	PaypalEmail string
	CreatedDate time.Time
}

// PaymentMethodInfoFromRecord converts a remote record; defaultID is the
// owning account's current default payment method.
func PaymentMethodInfoFromRecord(pm *PaymentMethod, defaultID string) *PaymentMethodInfo {
	if pm == nil {
		return nil
	}
	return &PaymentMethodInfo{
		RemoteID:    pm.ID,
		AccountID:   pm.AccountID,
		Type:        pm.Type,
		IsDefault:   pm.ID != "" && pm.ID == defaultID,
		CardType:    pm.CreditCardType,
		MaskNumber:  pm.CreditCardMaskNumber,
		HolderName:  pm.CreditCardHolderName,
		ExpMonth:    pm.CreditCardExpirationMonth,
		ExpYear:     pm.CreditCardExpirationYear,
		Address1:    pm.CreditCardAddress1,
		Address2:    pm.CreditCardAddress2,
		City:        pm.CreditCardCity,
		State:       pm.CreditCardState,
		PostalCode:  pm.CreditCardPostalCode,
		Country:     pm.CreditCardCountry,
		PaypalBaid:  pm.PaypalBaid,
		PaypalEmail: pm.PaypalEmail,
		CreatedDate: pm.CreatedDate,
	}
}

// Record builds the remote record for the writable fields.
func (i *PaymentMethodInfo) Record() *PaymentMethod {
	return &PaymentMethod{
		ID:                        i.RemoteID,
		AccountID:                 i.AccountID,
		Type:                      i.Type,
		CreditCardType:            i.CardType,
		CreditCardMaskNumber:      i.MaskNumber,
		CreditCardHolderName:      i.HolderName,
		CreditCardExpirationMonth: i.ExpMonth,
		CreditCardExpirationYear:  i.ExpYear,
		CreditCardAddress1:        i.Address1,
		CreditCardAddress2:        i.Address2,
		CreditCardCity:            i.City,
		CreditCardState:           i.State,
		CreditCardPostalCode:      i.PostalCode,
		CreditCardCountry:         i.Country,
		PaypalBaid:                i.PaypalBaid,
		PaypalEmail:               i.PaypalEmail,
	}
}
