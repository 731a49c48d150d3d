package rest

import (
	"time"

	"github.com/desertthunder/songfinder/internal/shared"
)

// Outcome classifies how a request ended.
type Outcome int

const (
	NotRun Outcome = iota
	Success
	HTTPError
	TransportError
)

func (o Outcome) String() string {
	switch o {
	case Success:
		return "success"
	case HTTPError:
		return "http_error"
	case TransportError:
		return "transport_error"
	default:
		return "not_run"
	}
}

// Response is the terminal, read-only result of a [Request].
type Response struct {
	outcome  Outcome
	target   string
	status   int
	body     []byte
	message  string
	cause    error
	duration time.Duration
}

// IsSuccess reports whether a 2xx response was received.
func (r *Response) IsSuccess() bool { return r.outcome == Success }

// Outcome returns the classification.
func (r *Response) Outcome() Outcome { return r.outcome }

// StatusCode returns the HTTP status, or 0 when no response was received.
func (r *Response) StatusCode() int { return r.status }

// RawBody returns the body of a successful response, or nil.
func (r *Response) RawBody() []byte {
	if r.outcome != Success {
		return nil
	}
	return r.body
}

// TextBody returns the body decoded as UTF-8.
//
// It is "" unless the request succeeded; callers check [Response.IsSuccess] first.
func (r *Response) TextBody() string {
	if r.outcome != Success {
		return ""
	}
	return string(r.body)
}

// ErrorMessage returns the failure message, or "" on success.
func (r *Response) ErrorMessage() string { return r.message }

// Target returns the full URL the request was sent to.
func (r *Response) Target() string { return r.target }

// Duration returns how long the round trip took. It is zero when no I/O happened.
func (r *Response) Duration() time.Duration { return r.duration }

// Err returns the failure as a [shared.ClassifiedError], or nil on success.
func (r *Response) Err() error {
	switch r.outcome {
	case HTTPError:
		return shared.NewUpstreamError(r.status, r.message)
	case TransportError:
		return shared.NewTransportError(r.message, r.cause)
	case NotRun:
		return shared.NewTransportError("request not run", nil)
	default:
		return nil
	}
}
