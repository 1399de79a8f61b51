package domain

import "errors"

// Error kinds. Every error returned by the data access gate or the auth
// middleware unwraps to exactly one of these.
var (
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrForbidden       = errors.New("forbidden")
	ErrConflict        = errors.New("conflict")
	ErrNotFound        = errors.New("not found")
	ErrUnavailable     = errors.New("unavailable")
	ErrInvalidInput    = errors.New("invalid input")
)

// KindError is a client-safe error message tagged with its kind.
type KindError struct {
	Kind error
	Msg  string
}

func (e *KindError) Error() string { return e.Msg }

func (e *KindError) Unwrap() error { return e.Kind }

// NewError returns a KindError of the given kind.
func NewError(kind error, msg string) error {
	return &KindError{Kind: kind, Msg: msg}
}

var (
	ErrMissingToken       = NewError(ErrUnauthenticated, "access token required")
	ErrInvalidToken       = NewError(ErrUnauthenticated, "invalid or expired token")
	ErrInvalidCredentials = NewError(ErrUnauthenticated, "invalid credentials")
	ErrAdminRequired      = NewError(ErrForbidden, "admin access required")
	ErrUserBanned         = NewError(ErrForbidden, "account is banned")

	ErrUserNotFound  = NewError(ErrNotFound, "user not found")
	ErrUsernameTaken = NewError(ErrConflict, "username already exists")

	ErrProductNotFound    = NewError(ErrNotFound, "product not found")
	ErrProductExists      = NewError(ErrConflict, "product ID already exists")
	ErrProductUnavailable = NewError(ErrConflict, "product is not available")

	ErrOrderNotFound       = NewError(ErrNotFound, "order not found")
	ErrOrderExists         = NewError(ErrConflict, "order ID already exists")
	ErrInsufficientCredits = NewError(ErrConflict, "insufficient credits")
	ErrCreditPrecision     = NewError(ErrInvalidInput, "amount must have at most 2 decimal places")
	ErrInvalidTransition   = NewError(ErrConflict, "invalid order status transition")

	ErrPaymentMethodNotFound = NewError(ErrNotFound, "payment method not found")
)

// Message returns the client-safe text carried by err, or "" if it has none.
func Message(err error) string {
	var ke *KindError
	if errors.As(err, &ke) {
		return ke.Msg
	}
	return ""
}

// KindName returns a short label for err's kind, used in metrics.
func KindName(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrUnauthenticated):
		return "unauthenticated"
	case errors.Is(err, ErrForbidden):
		return "forbidden"
	case errors.Is(err, ErrConflict):
		return "conflict"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrInvalidInput):
		return "invalid_input"
	default:
		return "unavailable"
	}
}
