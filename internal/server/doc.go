// Package server provides HTTP routing, middleware and the preview lookup endpoint.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] wraps handlers in reverse order (last added executes first), following the standard Go pattern.
//
// The [BasicRouter] implementation uses [http.ServeMux] internally with method filtering.
//
// # Endpoints
//
//	GET /rest/songfinder?songname=<q>&token=<t>  → audio/mpeg preview
//	GET /health                                  → {"status":"ok"}
//	GET /metrics                                 → Prometheus exposition
//
// The lookup endpoint checks the token before the song name. Failures are JSON:
//
//	{"statusCode":400,"errorMessage":"token cannot be empty"}
//
// The status comes from the classified error; transport failures become 502 and anything outside 400-599 becomes 500.
//
// # Middleware
//
// [NewRouter] installs [Recover], [RequestID], [Logging] and [RateLimit]. Logging never includes the query string,
// which carries the access token.
//
// # Handler Interface
//
// Custom handlers implement the [Handler] interface, which wraps the stdlib handler interface and adds routes,
// allowing handlers to register multiple routes to encapsulate route definitions within the implementation.
package server
