package shared

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrNotImplemented = fmt.Errorf("not implemented")

	// Configuration errors
	ErrMissingConfig      = fmt.Errorf("configuration not found")
	ErrInvalidConfig      = fmt.Errorf("invalid configuration")
	ErrMissingCredentials = fmt.Errorf("missing credentials")

	// Transport and upstream errors
	ErrTransport          = fmt.Errorf("transport failure")
	ErrAlreadyUsed        = fmt.Errorf("client already used")
	ErrAPIRequest         = fmt.Errorf("API request failed")
	ErrUnexpectedResponse = fmt.Errorf("unexpected response")
	ErrContractViolation  = fmt.Errorf("response violates contract")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
)

// ErrorKind categorizes a [ClassifiedError].
type ErrorKind string

const (
	KindClient            ErrorKind = "client"
	KindTransport         ErrorKind = "transport"
	KindUpstreamHTTP      ErrorKind = "upstream_http"
	KindParse             ErrorKind = "parse"
	KindContractViolation ErrorKind = "contract_violation"
)

var kindSentinels = map[ErrorKind]error{
	KindClient:            ErrInvalidInput,
	KindTransport:         ErrTransport,
	KindUpstreamHTTP:      ErrAPIRequest,
	KindParse:             ErrUnexpectedResponse,
	KindContractViolation: ErrContractViolation,
}

// ClassifiedError is the error value returned by lookups instead of raising faults.
//
// Status is the HTTP status when an upstream response exists, a fixed bad-request or internal code for
// client, parse and contract errors, and zero for transport errors.
type ClassifiedError struct {
	Kind    ErrorKind
	Status  int
	Message string
	Err     error
}

func (e *ClassifiedError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s: status %d: %s", e.Kind, e.Status, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap returns the wrapped cause, falling back to the kind's sentinel so [errors.Is] works against
// [ErrInvalidInput], [ErrTransport], [ErrAPIRequest], [ErrUnexpectedResponse] and [ErrContractViolation].
func (e *ClassifiedError) Unwrap() []error {
	errs := []error{}
	if sentinel, ok := kindSentinels[e.Kind]; ok {
		errs = append(errs, sentinel)
	}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

// HTTPStatus returns the status to send to an outward-facing client.
//
// Transport errors carry no upstream status and map to 502. Anything outside the valid range maps to 500.
func (e *ClassifiedError) HTTPStatus() int {
	if e.Kind == KindTransport && e.Status == 0 {
		return http.StatusBadGateway
	}
	if http.StatusText(e.Status) == "" || e.Status < 400 {
		return http.StatusInternalServerError
	}
	return e.Status
}

// NewClientError builds a [KindClient] error with status 400.
func NewClientError(msg string) *ClassifiedError {
	return &ClassifiedError{Kind: KindClient, Status: http.StatusBadRequest, Message: msg}
}

// NewTransportError builds a [KindTransport] error. No status is set.
func NewTransportError(msg string, err error) *ClassifiedError {
	return &ClassifiedError{Kind: KindTransport, Message: msg, Err: err}
}

// NewUpstreamError builds a [KindUpstreamHTTP] error carrying the upstream status.
func NewUpstreamError(status int, msg string) *ClassifiedError {
	return &ClassifiedError{Kind: KindUpstreamHTTP, Status: status, Message: msg}
}

// NewParseError builds a [KindParse] error with status 500.
func NewParseError(msg string) *ClassifiedError {
	return &ClassifiedError{Kind: KindParse, Status: http.StatusInternalServerError, Message: msg}
}

// NewContractError builds a [KindContractViolation] error with status 500.
func NewContractError(msg string) *ClassifiedError {
	return &ClassifiedError{Kind: KindContractViolation, Status: http.StatusInternalServerError, Message: msg}
}

// AsClassified extracts a [ClassifiedError] from err.
//
// Errors that are not classified become an internal [KindParse] error so callers always get a status.
func AsClassified(err error) *ClassifiedError {
	if err == nil {
		return nil
	}
	var ce *ClassifiedError
	if errors.As(err, &ce) {
		return ce
	}
	return &ClassifiedError{Kind: KindParse, Status: http.StatusInternalServerError, Message: err.Error(), Err: err}
}
