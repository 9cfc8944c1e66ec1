package domain

import (
	"time"
)

// PaymentEntity is the local record linking a host payment to the remote
// payment created for it. The host payment id doubles as the correlation key
// the remote objects are tagged with.
type PaymentEntity struct {
	id        string
	accountID string
	remoteID  string
	amount    int64 // cents
	status    string
	createdAt time.Time
}

// NewPaymentEntity creates the local record for a processed remote payment
func NewPaymentEntity(id, accountID string, remote *Payment, clock Clock) (*PaymentEntity, error) {
	if id == "" {
		return nil, ErrEmptyCorrelationKey
	}
	if remote == nil || remote.ID == "" {
		return nil, ErrPaymentNotFound
	}
	if remote.Amount <= 0 {
		return nil, ErrInvalidAmount
	}
	return &PaymentEntity{
		id:        id,
		accountID: accountID,
		remoteID:  remote.ID,
		amount:    remote.Amount,
		status:    remote.Status,
		createdAt: clock.Now(),
	}, nil
}

// ReconstructPayment recreates a payment entity from the database
func ReconstructPayment(id, accountID, remoteID string, amountCents int64, status string, createdAt time.Time) *PaymentEntity {
	return &PaymentEntity{
		id:        id,
		accountID: accountID,
		remoteID:  remoteID,
		amount:    amountCents,
		status:    status,
		createdAt: createdAt,
	}
}

func (p *PaymentEntity) ID() string             { return p.id }
func (p *PaymentEntity) CorrelationKey() string { return p.id }
func (p *PaymentEntity) AccountID() string      { return p.accountID }
func (p *PaymentEntity) RemoteID() string       { return p.remoteID }
func (p *PaymentEntity) Amount() int64          { return p.amount }
func (p *PaymentEntity) Status() string         { return p.status }
func (p *PaymentEntity) CreatedAt() time.Time   { return p.createdAt }

// PaymentMethodEntity maps a host payment method id onto the remote one.
type PaymentMethodEntity struct {
	id        string
	accountID string
	remoteID  string
	isDefault bool
	active    bool
	updatedAt time.Time
}

func NewPaymentMethodEntity(id, accountID, remoteID string, isDefault bool, clock Clock) *PaymentMethodEntity {
	return &PaymentMethodEntity{
		id:        id,
		accountID: accountID,
		remoteID:  remoteID,
		isDefault: isDefault,
		active:    true,
		updatedAt: clock.Now(),
	}
}

// ReconstructPaymentMethod recreates a payment method entity from the database
func ReconstructPaymentMethod(id, accountID, remoteID string, isDefault, active bool, updatedAt time.Time) *PaymentMethodEntity {
	return &PaymentMethodEntity{
		id:        id,
		accountID: accountID,
		remoteID:  remoteID,
		isDefault: isDefault,
		active:    active,
		updatedAt: updatedAt,
	}
}

// MarkDefault flips the default flag. It reports whether anything changed.
func (p *PaymentMethodEntity) MarkDefault(isDefault bool, clock Clock) bool {
	if p.isDefault == isDefault {
		return false
	}
	p.isDefault = isDefault
	p.updatedAt = clock.Now()
	return true
}

// Deactivate marks the method as deleted on the remote side.
func (p *PaymentMethodEntity) Deactivate(clock Clock) {
	p.active = false
	p.isDefault = false
	p.updatedAt = clock.Now()
}

func (p *PaymentMethodEntity) ID() string           { return p.id }
func (p *PaymentMethodEntity) AccountID() string    { return p.accountID }
func (p *PaymentMethodEntity) RemoteID() string     { return p.remoteID }
func (p *PaymentMethodEntity) IsDefault() bool      { return p.isDefault }
func (p *PaymentMethodEntity) Active() bool         { return p.active }
func (p *PaymentMethodEntity) UpdatedAt() time.Time { return p.updatedAt }
