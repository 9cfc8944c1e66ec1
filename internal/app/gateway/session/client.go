package session

import (
	"context"
	"errors"
	"fmt"

	"pkt.systems/pslog"

	"github.com/wuyiadepoju/billing-gateway/internal/app/gateway/contracts"
	"github.com/wuyiadepoju/billing-gateway/internal/app/gateway/domain"
)

var _ contracts.Connection = (*Client)(nil)

// Client is one authenticated session with the billing back end. It is not
// safe for concurrent use; the pool hands it to one caller at a time.
type Client struct {
	api      contracts.RemoteAPI
	cfg      Config
	logger   pslog.Logger
	metrics  *clientMetrics
	session  domain.Session
	relogins int
}

// Dial builds a client and performs the initial login. A failed initial
// login is returned as is and never retried.
func Dial(ctx context.Context, api contracts.RemoteAPI, cfg Config, logger pslog.Logger) (*Client, error) {
	if logger == nil {
		logger = pslog.NoopLogger()
	}
	c := &Client{
		api:     api,
		cfg:     cfg,
		logger:  logger,
		metrics: sharedMetrics(logger),
	}
	if err := c.Login(ctx); err != nil {
		return nil, err
	}
	return c, nil
}

// Login replaces the client's session with a fresh one.
func (c *Client) Login(ctx context.Context) error {
	user, password, err := LoadCredentials(c.cfg)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrLoginFailed, err)
	}
	s, err := c.api.Login(ctx, user, password)
	if err != nil {
		c.logger.Warn("session.login.failed", "user", user, "error", err)
		return fmt.Errorf("%w: %w", domain.ErrLoginFailed, err)
	}
	if !s.Valid() {
		return fmt.Errorf("%w: empty session token", domain.ErrLoginFailed)
	}
	c.session = s
	c.logger.Debug("session.login.ok", "user", user, "endpoint", s.Endpoint)
	return nil
}

func (c *Client) Session() domain.Session { return c.session }

// Relogins reports how many times the session was replaced after expiring.
func (c *Client) Relogins() int { return c.relogins }

// Query runs a query and follows the locator until every page is read.
func (c *Client) Query(ctx context.Context, query string) domain.Result[[]domain.Object] {
	return retry(ctx, c, "query", func(ctx context.Context, s domain.Session) ([]domain.Object, error) {
		page, err := c.api.Query(ctx, s, query)
		if err != nil {
			return nil, err
		}
		records := append([]domain.Object(nil), page.Records...)
		for !page.Done {
			page, err = c.api.QueryMore(ctx, s, page.Locator)
			if err != nil {
				return nil, err
			}
			records = append(records, page.Records...)
		}
		return compact(records), nil
	})
}

// QuerySingle runs a query expected to match at most one record. Zero rows
// is a success with a nil record.
func (c *Client) QuerySingle(ctx context.Context, query string) domain.Result[domain.Object] {
	rows := c.Query(ctx, query)
	if rows.IsFailure() {
		return domain.Recast[domain.Object](rows)
	}
	switch records := rows.Value(); len(records) {
	case 0:
		return domain.Success[domain.Object](nil)
	case 1:
		return domain.Success(records[0])
	default:
		return domain.Failuref[domain.Object](domain.KindUnknown, "expected one record, got %d for query %q", len(records), query)
	}
}

func (c *Client) Create(ctx context.Context, obj domain.Object) domain.Result[string] {
	return retry(ctx, c, "create", func(ctx context.Context, s domain.Session) (string, error) {
		results, err := c.api.Create(ctx, s, []domain.Object{obj})
		if err != nil {
			return "", err
		}
		return firstID(results)
	})
}

func (c *Client) Update(ctx context.Context, obj domain.Object) domain.Result[string] {
	return retry(ctx, c, "update", func(ctx context.Context, s domain.Session) (string, error) {
		results, err := c.api.Update(ctx, s, []domain.Object{obj})
		if err != nil {
			return "", err
		}
		return firstID(results)
	})
}

// Delete removes objs. Deleting nothing succeeds without a remote call.
func (c *Client) Delete(ctx context.Context, objs []domain.Object) domain.Result[struct{}] {
	if len(objs) == 0 {
		return domain.Success(struct{}{})
	}
	return retry(ctx, c, "delete", func(ctx context.Context, s domain.Session) (struct{}, error) {
		results, err := c.api.Delete(ctx, s, objs)
		if err != nil {
			return struct{}{}, err
		}
		if len(results) == 0 {
			return struct{}{}, errNoResult
		}
		return struct{}{}, firstFault(results)
	})
}

// Subscribe creates a subscription and returns its id.
func (c *Client) Subscribe(ctx context.Context, req domain.SubscribeRequest) domain.Result[string] {
	return retry(ctx, c, "subscribe", func(ctx context.Context, s domain.Session) (string, error) {
		results, err := c.api.Subscribe(ctx, s, []domain.SubscribeRequest{req})
		if err != nil {
			return "", err
		}
		return firstID(results)
	})
}

var errNoResult = domain.NewRemoteError(domain.KindUnknown, "did not get any result back")

// retry runs call with the current session. An expired session is replaced
// and the call repeated, at most MaxLoginRetries attempts in all. Any other
// fault, a transport error or a failed re-login ends the loop at once.
func retry[T any](ctx context.Context, c *Client, op string, call func(context.Context, domain.Session) (T, error)) domain.Result[T] {
	attempts := c.cfg.maxAttempts()
	for attempt := 1; attempt <= attempts; attempt++ {
		v, err := call(ctx, c.session)
		if err == nil {
			return domain.Success(v)
		}

		var remoteErr *domain.RemoteError
		if errors.As(err, &remoteErr) {
			return domain.Failure[T](remoteErr)
		}
		var fault *contracts.Fault
		if !errors.As(err, &fault) {
			c.logger.Warn("session.call.transport_failed", "op", op, "error", err)
			return domain.Failuref[T](domain.KindUnknown, "%s failed: %v", op, err)
		}
		classified := domain.CodedError(fault.Code, fault.Message)
		if classified.Kind != domain.KindSessionInvalid {
			return domain.Failure[T](classified)
		}
		if attempt == attempts {
			break
		}

		c.logger.Info("session.login.retry", "op", op, "attempt", attempt, "code", fault.Code)
		if err := c.Login(ctx); err != nil {
			return domain.Failuref[T](domain.KindUnknown, "re-login during %s failed: %v", op, err)
		}
		c.relogins++
		c.metrics.addRelogin(ctx)
	}
	c.logger.Warn("session.login.exhausted", "op", op, "attempts", attempts)
	return domain.Failuref[T](domain.KindUnknown, "could not establish a valid session after %d attempts", attempts)
}

// compact drops nil records. The back end reports zero rows as a single nil
// record.
func compact(records []domain.Object) []domain.Object {
	out := make([]domain.Object, 0, len(records))
	for _, r := range records {
		if r != nil {
			out = append(out, r)
		}
	}
	return out
}

func firstID(results []contracts.SaveResult) (string, error) {
	if len(results) == 0 {
		return "", errNoResult
	}
	if err := firstFault(results[:1]); err != nil {
		return "", err
	}
	return results[0].ID, nil
}

// firstFault returns the fault to act on for a batch: a session fault on any
// object, otherwise the first error reported.
func firstFault(results []contracts.SaveResult) error {
	var first *contracts.Fault
	for i := range results {
		r := results[i]
		if r.Success {
			continue
		}
		if len(r.Errors) == 0 {
			if first == nil {
				first = &contracts.Fault{Code: domain.CodeUnknownError, Message: "operation failed without error details"}
			}
			continue
		}
		for j := range r.Errors {
			if r.Errors[j].Code == domain.CodeInvalidSession {
				return &r.Errors[j]
			}
		}
		if first == nil {
			first = &r.Errors[0]
		}
	}
	if first == nil {
		return nil
	}
	return first
}
