package domain

import (
	"errors"
	"fmt"
)

var (
	ErrPoolExhausted         = errors.New("connection pool exhausted")
	ErrPoolClosed            = errors.New("connection pool closed")
	ErrNotBorrowed           = errors.New("connection was not borrowed from this pool")
	ErrValidationFailed      = errors.New("new connection failed validation")
	ErrLoginFailed           = errors.New("could not log in to the billing back end")
	ErrAccountNotFound       = errors.New("account not found")
	ErrPaymentNotFound       = errors.New("payment not found")
	ErrPaymentMethodNotFound = errors.New("payment method not found")
	ErrInvoiceNotFound       = errors.New("invoice not found")
	ErrInvalidAmount         = errors.New("amount must be positive")
	ErrEmptyCorrelationKey   = errors.New("correlation key cannot be empty")
)

// ErrorKind classifies a RemoteError.
type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	KindNotFound
	KindSessionInvalid
	KindUnsupported
)

func (k ErrorKind) String() string {
	switch k {
	case KindNotFound:
		return "not found"
	case KindSessionInvalid:
		return "session invalid"
	case KindUnsupported:
		return "unsupported"
	default:
		return "unknown"
	}
}

// RemoteError is a classified failure of a remote operation. Code holds the
// back end's own error code when there was one.
type RemoteError struct {
	Kind    ErrorKind
	Code    string
	Message string
}

func NewRemoteError(kind ErrorKind, msg string) *RemoteError {
	return &RemoteError{Kind: kind, Message: msg}
}

func Errorf(kind ErrorKind, format string, args ...any) *RemoteError {
	return &RemoteError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// CodedError builds a RemoteError for a back end error code.
func CodedError(code, msg string) *RemoteError {
	return &RemoteError{Kind: KindForCode(code), Code: code, Message: msg}
}

func (e *RemoteError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("[%s] %s: %s", e.Kind, e.Code, e.Message)
	}
	return fmt.Sprintf("[%s] %s", e.Kind, e.Message)
}

// Remote error codes the client reacts to.
const (
	CodeInvalidSession = "INVALID_SESSION"
	CodeInvalidID      = "INVALID_ID"
	CodeObjectNotFound = "OBJECT_NOT_FOUND"
	CodeUnknownError   = "UNKNOWN_ERROR"
)

// KindForCode maps a back end error code onto an ErrorKind.
func KindForCode(code string) ErrorKind {
	switch code {
	case CodeInvalidSession:
		return KindSessionInvalid
	case CodeInvalidID, CodeObjectNotFound:
		return KindNotFound
	default:
		return KindUnknown
	}
}

// IsKind reports whether err is a *RemoteError of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var re *RemoteError
	return errors.As(err, &re) && re.Kind == kind
}
