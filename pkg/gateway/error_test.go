package gateway

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestIsTransient(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"plain error", errors.New("boom"), false},
		{"deadline exceeded", context.DeadlineExceeded, true},
		{"canceled", context.Canceled, false},
		{"rate limited", &GatewayError{Status: 429}, true},
		{"server error", &GatewayError{Status: 503}, true},
		{"auth error", &GatewayError{Status: 401}, false},
		{"temporary flag", &GatewayError{Status: 400, Temporary: true}, true},
		{"wrapped transient", fmt.Errorf("call failed: %w", &GatewayError{Status: 500}), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsTransient(tt.err); got != tt.want {
				t.Fatalf("IsTransient(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestGatewayErrorMessage(t *testing.T) {
	err := &GatewayError{Status: 500, Err: errors.New("upstream exploded")}
	if err.Error() != "upstream exploded" {
		t.Fatalf("unexpected message: %s", err.Error())
	}

	bare := &GatewayError{Status: 503}
	if bare.Error() != "gateway error (status=503)" {
		t.Fatalf("unexpected message: %s", bare.Error())
	}
}
