package domain

import "time"

// Object is a record held by the billing back end. Only the identity is
// interpreted by the connection layer; the fields belong to the workflows.
type Object interface {
	ObjectType() string
	ObjectID() string
}

const (
	TypeAccount              = "Account"
	TypeContact              = "Contact"
	TypePaymentMethod        = "PaymentMethod"
	TypePayment              = "Payment"
	TypeInvoice              = "Invoice"
	TypeInvoicePayment       = "InvoicePayment"
	TypeInvoiceAdjustment    = "InvoiceAdjustment"
	TypeSubscription         = "Subscription"
	TypeRatePlanCharge       = "ProductRatePlanCharge"
	TypeRefund               = "Refund"
	TypeRefundInvoicePayment = "RefundInvoicePayment"
)

// Session is an authenticated handle bound to the endpoint that issued it.
type Session struct {
	Token    string
	Endpoint string
}

func (s Session) Valid() bool { return s.Token != "" }

type Account struct {
	ID                        string `json:"Id,omitempty"`
	AccountNumber             string `json:"AccountNumber,omitempty"`
	Name                      string `json:"Name,omitempty"`
	Currency                  string `json:"Currency,omitempty"`
	Status                    string `json:"Status,omitempty"`
	Batch                     string `json:"Batch,omitempty"`
	BillCycleDay              int    `json:"BillCycleDay,omitempty"`
	PaymentTerm               string `json:"PaymentTerm,omitempty"`
	AutoPay                   *bool  `json:"AutoPay,omitempty"`
	AllowInvoiceEdit          *bool  `json:"AllowInvoiceEdit,omitempty"`
	InvoiceDeliveryPrefsEmail *bool  `json:"InvoiceDeliveryPrefsEmail,omitempty"`
	DefaultPaymentMethodID    string `json:"DefaultPaymentMethodId,omitempty"`
	PaymentGateway            string `json:"PaymentGateway,omitempty"`
	BillToID                  string `json:"BillToId,omitempty"`
	SoldToID                  string `json:"SoldToId,omitempty"`
}

func (a *Account) ObjectType() string { return TypeAccount }
func (a *Account) ObjectID() string   { return a.ID }

// IsAutoPay treats an unset flag as false.
func (a *Account) IsAutoPay() bool { return a.AutoPay != nil && *a.AutoPay }

type Contact struct {
	ID         string `json:"Id,omitempty"`
	AccountID  string `json:"AccountId,omitempty"`
	FirstName  string `json:"FirstName,omitempty"`
	LastName   string `json:"LastName,omitempty"`
	WorkPhone  string `json:"WorkPhone,omitempty"`
	Address1   string `json:"Address1,omitempty"`
	Address2   string `json:"Address2,omitempty"`
	City       string `json:"City,omitempty"`
	State      string `json:"State,omitempty"`
	Country    string `json:"Country,omitempty"`
	PostalCode string `json:"PostalCode,omitempty"`
}

func (c *Contact) ObjectType() string { return TypeContact }
func (c *Contact) ObjectID() string   { return c.ID }

const (
	PaymentMethodCreditCard = "CreditCard"
	PaymentMethodPayPal     = "PayPal"
)

type PaymentMethod struct {
	ID                        string    `json:"Id,omitempty"`
	AccountID                 string    `json:"AccountId,omitempty"`
	Type                      string    `json:"Type,omitempty"`
	CreditCardType            string    `json:"CreditCardType,omitempty"`
	CreditCardMaskNumber      string    `json:"CreditCardMaskNumber,omitempty"`
	CreditCardHolderName      string    `json:"CreditCardHolderName,omitempty"`
	CreditCardExpirationMonth int       `json:"CreditCardExpirationMonth,omitempty"`
	CreditCardExpirationYear  int       `json:"CreditCardExpirationYear,omitempty"`
	CreditCardAddress1        string    `json:"CreditCardAddress1,omitempty"`
	CreditCardAddress2        string    `json:"CreditCardAddress2,omitempty"`
	CreditCardCity            string    `json:"CreditCardCity,omitempty"`
	CreditCardState           string    `json:"CreditCardState,omitempty"`
	CreditCardPostalCode      string    `json:"CreditCardPostalCode,omitempty"`
	CreditCardCountry         string    `json:"CreditCardCountry,omitempty"`
	PaypalBaid                string    `json:"PaypalBaid,omitempty"`
	PaypalEmail               string    `json:"PaypalEmail,omitempty"`
	CreatedDate               time.Time `json:"CreatedDate,omitzero"`
}

func (p *PaymentMethod) ObjectType() string { return TypePaymentMethod }
func (p *PaymentMethod) ObjectID() string   { return p.ID }

type Payment struct {
	ID                   string    `json:"Id,omitempty"`
	AccountID            string    `json:"AccountId,omitempty"`
	InvoiceID            string    `json:"InvoiceId,omitempty"`
	PaymentMethodID      string    `json:"PaymentMethodId,omitempty"`
	Amount               int64     `json:"Amount,omitempty"`
	AppliedInvoiceAmount int64     `json:"AppliedInvoiceAmount,omitempty"`
	EffectiveDate        time.Time `json:"EffectiveDate,omitzero"`
	CreatedDate          time.Time `json:"CreatedDate,omitzero"`
	Comment              string    `json:"Comment,omitempty"`
	Status               string    `json:"Status,omitempty"`
	Type                 string    `json:"Type,omitempty"`
	GatewayResponse      string    `json:"GatewayResponse,omitempty"`
	GatewayResponseCode  string    `json:"GatewayResponseCode,omitempty"`
	ReferenceID          string    `json:"ReferenceId,omitempty"`
	SecondReferenceID    string    `json:"SecondPaymentReferenceId,omitempty"`
}

func (p *Payment) ObjectType() string { return TypePayment }
func (p *Payment) ObjectID() string   { return p.ID }

const (
	InvoiceStatusPosted = "Posted"
	PaymentProcessed    = "Processed"
	PaymentElectronic   = "Electronic"
)

type Invoice struct {
	ID                string    `json:"Id,omitempty"`
	AccountID         string    `json:"AccountId,omitempty"`
	InvoiceNumber     string    `json:"InvoiceNumber,omitempty"`
	InvoiceDate       time.Time `json:"InvoiceDate,omitzero"`
	TargetDate        time.Time `json:"TargetDate,omitzero"`
	Status            string    `json:"Status,omitempty"`
	Amount            int64     `json:"Amount,omitempty"`
	Balance           int64     `json:"Balance,omitempty"`
	IncludesOneTime   *bool     `json:"IncludesOneTime,omitempty"`
	IncludesRecurring *bool     `json:"IncludesRecurring,omitempty"`
	IncludesUsage     *bool     `json:"IncludesUsage,omitempty"`
	CorrelationKey    string    `json:"CorrelationKey__c,omitempty"`
	Body              string    `json:"Body,omitempty"`
}

func (i *Invoice) ObjectType() string { return TypeInvoice }
func (i *Invoice) ObjectID() string   { return i.ID }

type InvoicePayment struct {
	ID        string `json:"Id,omitempty"`
	InvoiceID string `json:"InvoiceId,omitempty"`
	PaymentID string `json:"PaymentId,omitempty"`
	Amount    int64  `json:"Amount,omitempty"`
}

func (i *InvoicePayment) ObjectType() string { return TypeInvoicePayment }
func (i *InvoicePayment) ObjectID() string   { return i.ID }

type InvoiceAdjustment struct {
	ID             string    `json:"Id,omitempty"`
	InvoiceID      string    `json:"InvoiceId,omitempty"`
	Type           string    `json:"Type,omitempty"`
	Amount         int64     `json:"Amount,omitempty"`
	AdjustmentDate time.Time `json:"AdjustmentDate,omitzero"`
}

func (i *InvoiceAdjustment) ObjectType() string { return TypeInvoiceAdjustment }
func (i *InvoiceAdjustment) ObjectID() string   { return i.ID }

type Subscription struct {
	ID                     string    `json:"Id,omitempty"`
	AccountID              string    `json:"AccountId,omitempty"`
	Name                   string    `json:"Name,omitempty"`
	Status                 string    `json:"Status,omitempty"`
	CorrelationKey         string    `json:"CorrelationKey__c,omitempty"`
	AutoRenew              bool      `json:"AutoRenew"`
	InitialTerm            int       `json:"InitialTerm,omitempty"`
	RenewalTerm            int       `json:"RenewalTerm"`
	TermStartDate          time.Time `json:"TermStartDate,omitzero"`
	ContractEffectiveDate  time.Time `json:"ContractEffectiveDate,omitzero"`
	ContractAcceptanceDate time.Time `json:"ContractAcceptanceDate,omitzero"`
}

func (s *Subscription) ObjectType() string { return TypeSubscription }
func (s *Subscription) ObjectID() string   { return s.ID }

// RatePlanCharge is the product charge every one-off subscription is
// created against.
type RatePlanCharge struct {
	ID                string `json:"Id,omitempty"`
	Name              string `json:"Name,omitempty"`
	ProductRatePlanID string `json:"ProductRatePlanId,omitempty"`
}

func (r *RatePlanCharge) ObjectType() string { return TypeRatePlanCharge }
func (r *RatePlanCharge) ObjectID() string   { return r.ID }

type Refund struct {
	ID              string    `json:"Id,omitempty"`
	PaymentID       string    `json:"PaymentId,omitempty"`
	Amount          int64     `json:"Amount,omitempty"`
	Type            string    `json:"Type,omitempty"`
	Status          string    `json:"Status,omitempty"`
	RefundDate      time.Time `json:"RefundDate,omitzero"`
	GatewayResponse string    `json:"GatewayResponse,omitempty"`
	ReferenceID     string    `json:"ReferenceID,omitempty"`
}

func (r *Refund) ObjectType() string { return TypeRefund }
func (r *Refund) ObjectID() string   { return r.ID }

type RefundInvoicePayment struct {
	ID               string `json:"Id,omitempty"`
	RefundID         string `json:"RefundId,omitempty"`
	InvoicePaymentID string `json:"InvoicePaymentId,omitempty"`
	RefundAmount     int64  `json:"RefundAmount,omitempty"`
}

func (r *RefundInvoicePayment) ObjectType() string { return TypeRefundInvoicePayment }
func (r *RefundInvoicePayment) ObjectID() string   { return r.ID }

// SubscribeRequest asks the back end to create a subscription for an
// existing account against one rate plan charge.
type SubscribeRequest struct {
	AccountID               string       `json:"accountId"`
	Subscription            Subscription `json:"subscription"`
	ProductRatePlanID       string       `json:"productRatePlanId"`
	ProductRatePlanChargeID string       `json:"productRatePlanChargeId"`
	Price                   int64        `json:"price"`
	TriggerDate             time.Time    `json:"triggerDate"`
	GenerateInvoice         bool         `json:"generateInvoice"`
	ProcessPayments         bool         `json:"processPayments"`
}

// NewObject returns an empty record for a type name, or nil when the name is
// not one of the known types.
func NewObject(typeName string) Object {
	switch typeName {
	case TypeAccount:
		return &Account{}
	case TypeContact:
		return &Contact{}
	case TypePaymentMethod:
		return &PaymentMethod{}
	case TypePayment:
		return &Payment{}
	case TypeInvoice:
		return &Invoice{}
	case TypeInvoicePayment:
		return &InvoicePayment{}
	case TypeInvoiceAdjustment:
		return &InvoiceAdjustment{}
	case TypeSubscription:
		return &Subscription{}
	case TypeRatePlanCharge:
		return &RatePlanCharge{}
	case TypeRefund:
		return &Refund{}
	case TypeRefundInvoicePayment:
		return &RefundInvoicePayment{}
	default:
		return nil
	}
}

func BoolPtr(v bool) *bool { return &v }
