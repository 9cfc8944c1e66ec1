package adapters

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wuyiadepoju/billing-gateway/internal/app/gateway/contracts"
	"github.com/wuyiadepoju/billing-gateway/internal/app/gateway/domain"
)

func TestRPCClient_Login(t *testing.T) {
	var got map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/login", r.URL.Path)
		assert.Empty(t, r.Header.Get(sessionHeader))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = io.WriteString(w, `{"session":"tok-1","serverUrl":"https://eu.example.test/"}`)
	}))
	defer srv.Close()

	client := NewRPCClient(NewHTTPClient(time.Second), srv.URL+"/")
	session, err := client.Login(context.Background(), "user", "secret")

	require.NoError(t, err)
	assert.Equal(t, "tok-1", session.Token)
	assert.Equal(t, "https://eu.example.test", session.Endpoint)
	assert.Equal(t, map[string]string{"username": "user", "password": "secret"}, got)
}

func TestRPCClient_LoginFallsBackToBaseURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"session":"tok-1"}`)
	}))
	defer srv.Close()

	session, err := NewRPCClient(srv.Client(), srv.URL).Login(context.Background(), "u", "p")

	require.NoError(t, err)
	assert.Equal(t, srv.URL, session.Endpoint)
}

func TestRPCClient_FaultIsReturnedAsFault(t *testing.T) {
	for _, status := range []int{http.StatusOK, http.StatusInternalServerError} {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(status)
			_, _ = io.WriteString(w, `{"fault":{"code":"INVALID_SESSION","message":"expired"}}`)
		}))

		_, err := NewRPCClient(srv.Client(), srv.URL).Query(context.Background(), domain.Session{Token: "t", Endpoint: srv.URL}, "select")
		srv.Close()

		var fault *contracts.Fault
		require.True(t, errors.As(err, &fault), "status %d: %v", status, err)
		assert.Equal(t, domain.CodeInvalidSession, fault.Code)
		assert.Equal(t, "expired", fault.Message)
	}
}

func TestRPCClient_HTTPErrorIsTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad gateway", http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := NewRPCClient(srv.Client(), srv.URL).Query(context.Background(), domain.Session{Token: "t", Endpoint: srv.URL}, "select")

	require.Error(t, err)
	var fault *contracts.Fault
	assert.False(t, errors.As(err, &fault))
	assert.Contains(t, err.Error(), "status 502")
}

func TestRPCClient_QueryDecodesTypedRecords(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/query", r.URL.Path)
		assert.Equal(t, "tok", r.Header.Get(sessionHeader))
		var body map[string]string
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "select Id from Account", body["queryString"])
		_, _ = io.WriteString(w, `{
			"records": [
				{"type": "Account", "fields": {"Id": "acc-1", "Name": "alice", "AutoPay": true}},
				{"type": "Payment", "fields": {"Id": "pay-1", "Amount": 1500, "Comment": "key"}},
				null
			],
			"done": false,
			"queryLocator": "loc-2"
		}`)
	}))
	defer srv.Close()

	page, err := NewRPCClient(srv.Client(), srv.URL).Query(context.Background(), domain.Session{Token: "tok", Endpoint: srv.URL}, "select Id from Account")

	require.NoError(t, err)
	assert.False(t, page.Done)
	assert.Equal(t, "loc-2", page.Locator)
	require.Len(t, page.Records, 3)
	acct, ok := page.Records[0].(*domain.Account)
	require.True(t, ok)
	assert.Equal(t, "alice", acct.Name)
	assert.True(t, acct.IsAutoPay())
	payment, ok := page.Records[1].(*domain.Payment)
	require.True(t, ok)
	assert.Equal(t, int64(1500), payment.Amount)
	assert.Nil(t, page.Records[2])
}

func TestRPCClient_QueryRejectsUnknownType(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"records":[{"type":"Widget","fields":{}}],"done":true}`)
	}))
	defer srv.Close()

	_, err := NewRPCClient(srv.Client(), srv.URL).Query(context.Background(), domain.Session{Endpoint: srv.URL}, "q")

	assert.ErrorContains(t, err, `unknown record type "Widget"`)
}

func TestRPCClient_CreateSendsTypedObjects(t *testing.T) {
	var body struct {
		Objects []wireRecord `json:"objects"`
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/create", r.URL.Path)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		_, _ = io.WriteString(w, `{"results":[{"id":"inv-1","success":true},{"success":false,"errors":[{"code":"INVALID_VALUE","message":"bad date"}]}]}`)
	}))
	defer srv.Close()

	results, err := NewRPCClient(srv.Client(), srv.URL).Create(context.Background(), domain.Session{Token: "tok", Endpoint: srv.URL}, []domain.Object{
		&domain.Invoice{AccountID: "acc-1", CorrelationKey: "key"},
		&domain.Refund{PaymentID: "pay-1", Amount: 10},
	})

	require.NoError(t, err)
	require.Len(t, body.Objects, 2)
	assert.Equal(t, domain.TypeInvoice, body.Objects[0].Type)
	assert.JSONEq(t, `{"AccountId":"acc-1","CorrelationKey__c":"key"}`, string(body.Objects[0].Fields))
	assert.Equal(t, domain.TypeRefund, body.Objects[1].Type)

	require.Len(t, results, 2)
	assert.Equal(t, contracts.SaveResult{ID: "inv-1", Success: true}, results[0])
	assert.False(t, results[1].Success)
	assert.Equal(t, "INVALID_VALUE", results[1].Errors[0].Code)
}

func TestRPCClient_Subscribe(t *testing.T) {
	var body struct {
		Subscribes []domain.SubscribeRequest `json:"subscribes"`
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/subscribe", r.URL.Path)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		_, _ = io.WriteString(w, `{"results":[{"id":"sub-1","success":true}]}`)
	}))
	defer srv.Close()

	results, err := NewRPCClient(srv.Client(), srv.URL).Subscribe(context.Background(), domain.Session{Token: "tok", Endpoint: srv.URL}, []domain.SubscribeRequest{{
		AccountID:    "acc-1",
		Subscription: domain.Subscription{Name: "key", CorrelationKey: "key", InitialTerm: 1},
		Price:        500,
	}})

	require.NoError(t, err)
	require.Len(t, body.Subscribes, 1)
	assert.Equal(t, "key", body.Subscribes[0].Subscription.CorrelationKey)
	assert.Equal(t, int64(500), body.Subscribes[0].Price)
	assert.Equal(t, []contracts.SaveResult{{ID: "sub-1", Success: true}}, results)
}
