// Package services implements the HTTP client for the song search service.
//
// # Endpoints
//
// [Client] speaks to three endpoints relative to the configured base URL:
//   - POST /search with a JSON body {"query": ...}
//   - GET /suggest_playlists?vibe=... with a percent-encoded vibe
//   - GET /history
//
// The [SearchAPI] interface lets the controller and tests swap the HTTP client for a double.
//
// # Request Handling
//
// Each request is tagged with an X-Request-ID header (uuid v4) that is also attached to log entries,
// and is spaced by a token bucket limiter from golang.org/x/time/rate. The limiter only delays
// requests; failed requests are never retried.
//
// # Error Handling
//
// Every failure wraps [shared.ErrAPIRequest]:
//   - status outside 200-299 : [*shared.APIError] carrying the status code and raw body
//   - transport failure, canceled context, throttle wait failure
//   - body that cannot be decoded as the expected JSON shape
package services
