// Package server provides HTTP routing and middleware for the local search page.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] wraps handlers in reverse order (last added executes first), following the standard Go pattern.
//
// The [BasicRouter] implementation uses method-qualified [http.ServeMux] patterns, so a request with
// the wrong method is answered with 405 by the mux itself.
//
// # Middleware
//
//   - [RequestID] : tags every response with an X-Request-ID header
//   - [Logging] : logs method, path, status and elapsed time through charmbracelet/log
//   - [Recover] : turns a handler panic into a 500 response and a log entry
//
// # Handler Interface
//
// Custom handlers implement the [Handler] interface, which wraps the stdlib handler interface and adds routes,
// allowing handlers to register multiple routes to encapsulate route definitions within the implementation.
package server
