package adapters

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/wuyiadepoju/billing-gateway/internal/app/gateway/contracts"
	"github.com/wuyiadepoju/billing-gateway/internal/app/gateway/domain"
)

var _ contracts.RemoteAPI = (*RPCClient)(nil)

const sessionHeader = "X-Session"

// RPCClient implements the billing back end stub as JSON over HTTP. Login
// goes to the base URL; every other call goes to the endpoint the session
// was bound to.
type RPCClient struct {
	client  *http.Client
	baseURL string
}

func NewRPCClient(client *http.Client, baseURL string) *RPCClient {
	return &RPCClient{
		client:  client,
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

type wireFault struct {
	Fault *contracts.Fault `json:"fault,omitempty"`
}

// wireRecord carries one record with its type name so it can be decoded
// into the matching domain type.
type wireRecord struct {
	Type   string          `json:"type"`
	Fields json.RawMessage `json:"fields"`
}

type wireSaveResult struct {
	ID      string            `json:"id"`
	Success bool              `json:"success"`
	Errors  []contracts.Fault `json:"errors"`
}

type loginResponse struct {
	wireFault
	Session   string `json:"session"`
	ServerURL string `json:"serverUrl"`
}

type queryResponse struct {
	wireFault
	Records      []wireRecord `json:"records"`
	Done         bool         `json:"done"`
	QueryLocator string       `json:"queryLocator"`
}

type saveResponse struct {
	wireFault
	Results []wireSaveResult `json:"results"`
}

func (c *RPCClient) Login(ctx context.Context, user, password string) (domain.Session, error) {
	var resp loginResponse
	payload := map[string]string{"username": user, "password": password}
	if err := c.call(ctx, c.baseURL, "", "login", payload, &resp, &resp.wireFault); err != nil {
		return domain.Session{}, err
	}
	endpoint := strings.TrimRight(resp.ServerURL, "/")
	if endpoint == "" {
		endpoint = c.baseURL
	}
	return domain.Session{Token: resp.Session, Endpoint: endpoint}, nil
}

func (c *RPCClient) Query(ctx context.Context, session domain.Session, query string) (*contracts.QueryPage, error) {
	return c.page(ctx, session, "query", map[string]string{"queryString": query})
}

func (c *RPCClient) QueryMore(ctx context.Context, session domain.Session, locator string) (*contracts.QueryPage, error) {
	return c.page(ctx, session, "queryMore", map[string]string{"queryLocator": locator})
}

func (c *RPCClient) page(ctx context.Context, session domain.Session, op string, payload any) (*contracts.QueryPage, error) {
	var resp queryResponse
	if err := c.call(ctx, session.Endpoint, session.Token, op, payload, &resp, &resp.wireFault); err != nil {
		return nil, err
	}

	page := &contracts.QueryPage{Done: resp.Done, Locator: resp.QueryLocator}
	for _, rec := range resp.Records {
		obj, err := decodeRecord(rec)
		if err != nil {
			return nil, fmt.Errorf("failed to decode %s response: %w", op, err)
		}
		page.Records = append(page.Records, obj)
	}
	return page, nil
}

func (c *RPCClient) Create(ctx context.Context, session domain.Session, objs []domain.Object) ([]contracts.SaveResult, error) {
	return c.save(ctx, session, "create", objs)
}

func (c *RPCClient) Update(ctx context.Context, session domain.Session, objs []domain.Object) ([]contracts.SaveResult, error) {
	return c.save(ctx, session, "update", objs)
}

func (c *RPCClient) Delete(ctx context.Context, session domain.Session, objs []domain.Object) ([]contracts.SaveResult, error) {
	return c.save(ctx, session, "delete", objs)
}

func (c *RPCClient) Subscribe(ctx context.Context, session domain.Session, reqs []domain.SubscribeRequest) ([]contracts.SaveResult, error) {
	var resp saveResponse
	payload := map[string]any{"subscribes": reqs}
	if err := c.call(ctx, session.Endpoint, session.Token, "subscribe", payload, &resp, &resp.wireFault); err != nil {
		return nil, err
	}
	return saveResults(resp.Results), nil
}

func (c *RPCClient) save(ctx context.Context, session domain.Session, op string, objs []domain.Object) ([]contracts.SaveResult, error) {
	records := make([]wireRecord, 0, len(objs))
	for _, obj := range objs {
		fields, err := json.Marshal(obj)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal %s: %w", obj.ObjectType(), err)
		}
		records = append(records, wireRecord{Type: obj.ObjectType(), Fields: fields})
	}

	var resp saveResponse
	if err := c.call(ctx, session.Endpoint, session.Token, op, map[string]any{"objects": records}, &resp, &resp.wireFault); err != nil {
		return nil, err
	}
	return saveResults(resp.Results), nil
}

// call posts payload to endpoint/op and decodes the reply into out. A fault
// in the reply is returned as *contracts.Fault whatever the HTTP status.
func (c *RPCClient) call(ctx context.Context, endpoint, token, op string, payload, out any, fault *wireFault) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint+"/"+op, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set(sessionHeader, token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s call failed: %w", op, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read %s response: %w", op, err)
	}
	decodeErr := json.Unmarshal(raw, out)
	if decodeErr == nil && fault.Fault != nil {
		return fault.Fault
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%s failed with status %d: %s", op, resp.StatusCode, string(raw))
	}
	if decodeErr != nil {
		return fmt.Errorf("failed to decode %s response: %w", op, decodeErr)
	}
	return nil
}

// decodeRecord maps a null record to nil.
func decodeRecord(rec wireRecord) (domain.Object, error) {
	if rec.Type == "" && len(rec.Fields) == 0 {
		return nil, nil
	}
	obj := domain.NewObject(rec.Type)
	if obj == nil {
		return nil, fmt.Errorf("unknown record type %q", rec.Type)
	}
	if len(rec.Fields) == 0 {
		return obj, nil
	}
	if err := json.Unmarshal(rec.Fields, obj); err != nil {
		return nil, fmt.Errorf("record %s: %w", rec.Type, err)
	}
	return obj, nil
}

func saveResults(in []wireSaveResult) []contracts.SaveResult {
	out := make([]contracts.SaveResult, 0, len(in))
	for _, r := range in {
		out = append(out, contracts.SaveResult{ID: r.ID, Success: r.Success, Errors: r.Errors})
	}
	return out
}
