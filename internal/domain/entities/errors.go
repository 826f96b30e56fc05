package entities

import (
	"errors"
	"fmt"
)

type GatewayErrorKind string

const (
	GatewayErrorNetwork       GatewayErrorKind = "network"
	GatewayErrorRejected      GatewayErrorKind = "rejected"
	GatewayErrorConfiguration GatewayErrorKind = "configuration"
)

var (
	// ErrGatewayNetwork is transient; the caller may try again with a new attempt.
	ErrGatewayNetwork = errors.New("payment gateway unreachable")
	// ErrProviderRejected is a terminal card or data error.
	ErrProviderRejected = errors.New("payment rejected by provider")
	// ErrGatewayConfiguration means credentials are missing or invalid.
	ErrGatewayConfiguration = errors.New("payment gateway misconfigured")
)

// GatewayError is returned by gateway adapters.
type GatewayError struct {
	Kind    GatewayErrorKind
	Code    string
	Message string
	Err     error
}

func NewGatewayError(kind GatewayErrorKind, code, message string, err error) *GatewayError {
	return &GatewayError{Kind: kind, Code: code, Message: message, Err: err}
}

func (e *GatewayError) Error() string {
	msg := fmt.Sprintf("gateway %s error", e.Kind)
	if e.Code != "" {
		msg += " code=" + e.Code
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *GatewayError) Unwrap() error {
	return e.Err
}

func (e *GatewayError) Is(target error) bool {
	switch target {
	case ErrGatewayNetwork:
		return e.Kind == GatewayErrorNetwork
	case ErrProviderRejected:
		return e.Kind == GatewayErrorRejected
	case ErrGatewayConfiguration:
		return e.Kind == GatewayErrorConfiguration
	}
	return false
}
