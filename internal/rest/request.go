package rest

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-resty/resty/v2"

	"github.com/desertthunder/songfinder/internal/shared"
)

// Request describes one GET against a base URL. It is consumed by its first verb call.
type Request struct {
	base     *url.URL
	rawBase  string
	buildErr error
	query    map[string]string
	headers  map[string]string
	client   *resty.Client
	logger   *log.Logger
	used     bool
}

// Option configures a [Request].
type Option func(*Request)

// WithClient executes the request through c.
func WithClient(c *resty.Client) Option {
	return func(r *Request) {
		r.client = c
	}
}

// WithHTTPClient executes the request through a resty client wrapping hc.
// Tests use it to inject a transport.
func WithHTTPClient(hc *http.Client) Option {
	return func(r *Request) {
		r.client = resty.NewWithClient(hc)
	}
}

// WithLogger sets the logger used for request tracing.
func WithLogger(l *log.Logger) Option {
	return func(r *Request) {
		r.logger = l
	}
}

// NewClient returns a [resty.Client] meant to be shared by many requests.
// It carries no cookie jar, so nothing from one response reaches a later request.
//
// A zero timeout leaves the transport without a deadline beyond the request context.
func NewClient(timeout time.Duration, userAgent string, logger *log.Logger) *resty.Client {
	c := resty.New()
	c.SetCookieJar(nil)
	if timeout > 0 {
		c.SetTimeout(timeout)
	}
	if userAgent != "" {
		c.SetHeader("User-Agent", userAgent)
	}
	if logger != nil {
		c.SetLogger(logger)
	}
	return c
}

// New starts a request against baseURL.
//
// A baseURL that is not an absolute http or https URL is remembered; the verb call then fails
// as a [TransportError] without any I/O.
func New(baseURL string, opts ...Option) *Request {
	r := &Request{
		rawBase: baseURL,
		query:   make(map[string]string),
		headers: make(map[string]string),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = log.Default()
	}

	u, err := url.Parse(baseURL)
	switch {
	case err != nil:
		r.buildErr = fmt.Errorf("%w: invalid URL %q: %v", shared.ErrInvalidInput, baseURL, err)
	case u.Scheme != "http" && u.Scheme != "https":
		r.buildErr = fmt.Errorf("%w: invalid URL %q: scheme must be http or https", shared.ErrInvalidInput, baseURL)
	case u.Host == "":
		r.buildErr = fmt.Errorf("%w: invalid URL %q: missing host", shared.ErrInvalidInput, baseURL)
	default:
		r.base = u
	}

	return r
}

// WithHeader sets a header. A repeated name overwrites the previous value.
func (r *Request) WithHeader(name, value string) *Request {
	r.logger.Debug("set header", "name", name)
	r.headers[name] = value
	return r
}

// WithQueryParam sets a query parameter. A repeated key overwrites the previous value,
// including a key already present in the base URL.
func (r *Request) WithQueryParam(key, value string) *Request {
	r.logger.Debug("set query parameter", "key", key, "value", value)
	r.query[key] = value
	return r
}

// URL returns the target URL with all query parameters applied, or the raw base URL when it is invalid.
func (r *Request) URL() string {
	if r.base == nil {
		return r.rawBase
	}
	u := *r.base
	q := u.Query()
	for k, v := range r.query {
		q.Set(k, v)
	}
	u.RawQuery = q.Encode()
	return u.String()
}

// Used reports whether a verb has already been called.
func (r *Request) Used() bool { return r.used }

// Get executes the request. It performs network I/O at most once per Request.
func (r *Request) Get(ctx context.Context) *Response {
	target := r.URL()

	if r.used {
		r.logger.Error("request has already been consumed", "url", target)
		return &Response{
			outcome: TransportError,
			target:  target,
			message: shared.ErrAlreadyUsed.Error(),
			cause:   shared.ErrAlreadyUsed,
		}
	}
	r.used = true

	if r.buildErr != nil {
		r.logger.Error("cannot send request", "error", r.buildErr)
		return &Response{outcome: TransportError, target: target, message: r.buildErr.Error(), cause: r.buildErr}
	}

	client := r.client
	if client == nil {
		client = NewClient(0, "", nil)
	}

	req := client.R().SetContext(ctx)
	for name, value := range r.headers {
		req.SetHeaderVerbatim(name, value)
	}

	r.logger.Debug("sending GET request", "url", target)
	start := time.Now()
	resp, err := req.Get(target)
	elapsed := time.Since(start)

	if err != nil {
		r.logger.Error("GET request failed", "url", target, "error", err, "duration", elapsed)
		return &Response{
			outcome:  TransportError,
			target:   target,
			message:  fmt.Sprintf("request to %s failed: %v", target, err),
			cause:    fmt.Errorf("%w: %w", shared.ErrTransport, err),
			duration: elapsed,
		}
	}

	out := &Response{target: target, status: resp.StatusCode(), duration: elapsed}
	if resp.IsSuccess() {
		out.outcome = Success
		out.body = resp.Body()
		r.logger.Debug("GET request completed", "url", target, "status", out.status, "bytes", len(out.body), "duration", elapsed)
		return out
	}

	out.outcome = HTTPError
	out.message = statusMessage(target, out.status, resp.Body())
	r.logger.Error("server returned an error", "url", target, "status", out.status, "message", out.message)
	return out
}

// Post is not implemented. It performs no I/O and does not consume the request.
func (r *Request) Post(context.Context) *Response { return r.notImplemented(http.MethodPost) }

// Put is not implemented. It performs no I/O and does not consume the request.
func (r *Request) Put(context.Context) *Response { return r.notImplemented(http.MethodPut) }

// Delete is not implemented. It performs no I/O and does not consume the request.
func (r *Request) Delete(context.Context) *Response { return r.notImplemented(http.MethodDelete) }

func (r *Request) notImplemented(method string) *Response {
	r.logger.Error("method is not implemented", "method", method)
	err := fmt.Errorf("%s: %w", method, shared.ErrNotImplemented)
	return &Response{outcome: TransportError, target: r.URL(), message: err.Error(), cause: err}
}
