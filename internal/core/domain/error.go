package domain

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrInternal = errors.New("internal error")

	// * Data errors.
	ErrDataNotFound    = errors.New("order not found")
	ErrConflictingData = errors.New("order reference already exists")

	// * Communication errors.
	ErrBadRequest = errors.New("error parsing request")
	ErrGateway    = errors.New("payment gateway error")

	// * Business errors.
	ErrPaymentNotApproved = errors.New("payment not approved")
)

// GatewayError describes a failed call to the payment gateway. It matches
// ErrGateway with errors.Is.
type GatewayError struct {
	Op         string
	StatusCode int
	Message    string
	Err        error
}

func (e *GatewayError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: gateway status %d: %s", e.Op, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Message)
}

func (e *GatewayError) Unwrap() error {
	return e.Err
}

func (e *GatewayError) Is(target error) bool {
	return target == ErrGateway
}

// Temporary reports whether repeating the call may succeed: transport
// failures and timeouts, rate limiting and provider-side 5xx.
func (e *GatewayError) Temporary() bool {
	return e.StatusCode == 0 ||
		e.StatusCode == http.StatusTooManyRequests ||
		e.StatusCode >= http.StatusInternalServerError
}

// IsTemporaryGatewayError reports whether err wraps a GatewayError worth retrying.
func IsTemporaryGatewayError(err error) bool {
	var gwErr *GatewayError
	return errors.As(err, &gwErr) && gwErr.Temporary()
}
