// Package rest issues single-use HTTP GET requests and classifies the result.
//
// A [Request] collects a base URL, query parameters and headers, then is consumed by exactly one verb call.
// [Request.Get] returns a [Response] whose [Outcome] is one of:
//   - [Success] : a 2xx response; the body is available through [Response.RawBody] and [Response.TextBody]
//   - [HTTPError] : any other status; the message comes from [StatusMessages]
//   - [TransportError] : no response at all (bad URL, DNS, TLS, connection, reuse of a consumed request)
//
// Calling Get a second time on the same Request returns a [TransportError] response carrying
// [shared.ErrAlreadyUsed] and never touches the network. Only GET is implemented; [Request.Post],
// [Request.Put] and [Request.Delete] fail with [shared.ErrNotImplemented].
//
// Requests are executed through a [resty.Client]. Share one client (see [NewClient]) across requests so
// connections are pooled; the Request and Response values themselves are never shared.
//
// No retries happen here. A failed request is classified once and returned to the caller.
package rest
