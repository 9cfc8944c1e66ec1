package adapters

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/wuyiadepoju/billing-gateway/internal/app/gateway/contracts"
	"github.com/wuyiadepoju/billing-gateway/internal/app/gateway/domain"
)

var _ contracts.AccountDirectory = (*HTTPAccountDirectory)(nil)

var errHostNotFound = errors.New("not found on host")

// HTTPAccountDirectory looks accounts up in the host platform's HTTP API
type HTTPAccountDirectory struct {
	client  *http.Client
	baseURL string
}

// NewHTTPAccountDirectory creates a new host directory client
func NewHTTPAccountDirectory(client *http.Client, baseURL string) *HTTPAccountDirectory {
	return &HTTPAccountDirectory{
		client:  client,
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

type hostAccount struct {
	ExternalKey  string `json:"externalKey"`
	Currency     string `json:"currency"`
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	Phone        string `json:"phone"`
	Address1     string `json:"address1"`
	Address2     string `json:"address2"`
	City         string `json:"city"`
	State        string `json:"stateOrProvince"`
	Country      string `json:"country"`
	PostalCode   string `json:"postalCode"`
	BillCycleDay int    `json:"billCycleDay"`
}

type hostOwner struct {
	AccountID string `json:"accountId"`
}

// AccountKey returns the external key the remote account is named after
func (d *HTTPAccountDirectory) AccountKey(ctx context.Context, accountID string) (string, error) {
	data, err := d.AccountData(ctx, accountID)
	if err != nil {
		return "", err
	}
	if data.ExternalKey == "" {
		return "", fmt.Errorf("account %s has no external key: %w", accountID, domain.ErrAccountNotFound)
	}
	return data.ExternalKey, nil
}

func (d *HTTPAccountDirectory) AccountData(ctx context.Context, accountID string) (*domain.AccountData, error) {
	var acct hostAccount
	if err := d.get(ctx, "accounts", accountID, &acct); err != nil {
		if errors.Is(err, errHostNotFound) {
			return nil, fmt.Errorf("account %s: %w", accountID, domain.ErrAccountNotFound)
		}
		return nil, err
	}
	return &domain.AccountData{
		ExternalKey:  acct.ExternalKey,
		Currency:     acct.Currency,
		FirstName:    acct.FirstName,
		LastName:     acct.LastName,
		Phone:        acct.Phone,
		Address1:     acct.Address1,
		Address2:     acct.Address2,
		City:         acct.City,
		State:        acct.State,
		Country:      acct.Country,
		PostalCode:   acct.PostalCode,
		BillCycleDay: acct.BillCycleDay,
	}, nil
}

func (d *HTTPAccountDirectory) AccountIDForPaymentMethod(ctx context.Context, paymentMethodID string) (string, error) {
	var owner hostOwner
	if err := d.get(ctx, "paymentMethods", paymentMethodID, &owner); err != nil {
		if errors.Is(err, errHostNotFound) {
			return "", fmt.Errorf("payment method %s: %w", paymentMethodID, domain.ErrPaymentMethodNotFound)
		}
		return "", err
	}
	return owner.AccountID, nil
}

func (d *HTTPAccountDirectory) AccountIDForPayment(ctx context.Context, paymentID string) (string, error) {
	var owner hostOwner
	if err := d.get(ctx, "payments", paymentID, &owner); err != nil {
		if errors.Is(err, errHostNotFound) {
			return "", fmt.Errorf("payment %s: %w", paymentID, domain.ErrPaymentNotFound)
		}
		return "", err
	}
	return owner.AccountID, nil
}

func (d *HTTPAccountDirectory) get(ctx context.Context, resource, id string, out any) error {
	endpoint := fmt.Sprintf("%s/%s/%s", d.baseURL, resource, url.PathEscape(id))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := d.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to look up %s: %w", resource, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return errHostNotFound
	default:
		return fmt.Errorf("%s lookup failed with status %d", resource, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
