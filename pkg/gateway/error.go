package gateway

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// GatewayError wraps provider errors with status metadata.
type GatewayError struct {
	Status    int
	Temporary bool
	Err       error
}

func (e *GatewayError) Error() string {
	if e == nil {
		return "gateway error"
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("gateway error (status=%d)", e.Status)
}

func (e *GatewayError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// IsTransient reports whether an error is safe to retry.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	if errors.Is(err, context.Canceled) {
		return false
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	var gatewayErr *GatewayError
	if errors.As(err, &gatewayErr) {
		if gatewayErr.Temporary {
			return true
		}
		if gatewayErr.Status == 429 || (gatewayErr.Status >= 500 && gatewayErr.Status <= 599) {
			return true
		}
	}
	return false
}
