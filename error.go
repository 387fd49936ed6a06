package statusweb3mockgo

import (
	"errors"
	"fmt"
)

// EIP-1193 and JSON-RPC error codes delivered to the content program.
const (
	CodeUserRejected      = 4001
	CodeUnauthorized      = 4100
	CodeUnsupportedMethod = 4200
	CodeDisconnected      = 4900
	CodeChainDisconnected = 4901
	CodeInvalidRequest    = -32600
	CodeInvalidParams     = -32602
	CodeInternal          = -32603
)

var (
	ErrMalformedMessage  = errors.New("malformed bridge message")
	ErrUnsupportedMethod = errors.New("unsupported method")
	ErrInvalidParams     = errors.New("invalid params")
	ErrInvalidAddress    = errors.New("invalid address")
	ErrUnknownIdentity   = errors.New("unknown provider identity")
	ErrBridgeClosed      = errors.New("bridge closed")
)

// RPCError is the error shape the content program rejects pending requests with.
type RPCError struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`

	cause error
}

func (e *RPCError) Error() string {
	return e.Message
}

func (e *RPCError) Unwrap() error {
	return e.cause
}

func unsupportedMethod(method string) *RPCError {
	return &RPCError{
		Code:    CodeUnsupportedMethod,
		Message: fmt.Sprintf("the method %q is not supported by the mock provider", method),
		Data:    map[string]string{"method": method},
		cause:   ErrUnsupportedMethod,
	}
}

func invalidParams(method string, reason string) *RPCError {
	return &RPCError{
		Code:    CodeInvalidParams,
		Message: fmt.Sprintf("invalid params for %s: %s", method, reason),
		Data:    map[string]string{"method": method},
		cause:   ErrInvalidParams,
	}
}

// toRPCError maps any dispatch failure onto the wire error shape.
func toRPCError(method string, err error) *RPCError {
	var rpcErr *RPCError
	if errors.As(err, &rpcErr) {
		return rpcErr
	}

	return &RPCError{
		Code:    CodeInternal,
		Message: fmt.Sprintf("%s failed: %v", method, err),
		Data:    map[string]string{"method": method},
		cause:   err,
	}
}
