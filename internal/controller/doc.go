// Package controller owns the state of the search page and the operations that change it.
//
// A [Controller] is constructed once per front-end session (web server, TUI program, CLI
// invocation) and handed to that front end explicitly. Front ends never touch page state
// directly: they call an operation and then render the [Page] snapshot.
//
// # Operations
//
//   - [Controller.SubmitSearch] : validate a query, POST /search, render cards and the not-found list
//   - [Controller.RequestPlaylistSuggestions] : validate a vibe, GET /suggest_playlists, render entries
//   - [Controller.LoadHistory] : GET /history, render entries most recent first
//   - [Controller.ShowTransientError] : show the error banner and clear it after a fixed interval
//
// Each network operation moves its section through Idle → Loading → (Rendered | Errored) → Idle.
// The loading indicator is a counter of in-flight operations, released on every exit path.
//
// # Errors
//
// Empty input returns an error wrapping [shared.ErrInvalidInput] without a network call.
// Any failure to get a well-formed answer returns an error wrapping [shared.ErrAPIRequest];
// the banner shows a generic message for the operation and the detail goes to the logger.
//
// # Ordering
//
// Operations may overlap. Every operation takes a sequence number for its section and a
// completion that is no longer the latest for that section is returned to the caller but not
// rendered, so a slow first search cannot overwrite a faster second one. The sequence check and
// the page write happen under one lock.
//
// The same rule covers failures: a superseded operation still returns its transport error but
// does not show a banner, so an overlapping pair of requests can surface fewer messages than
// failures. Only the latest operation of each section reports to the page.
//
// # Change Notifications
//
// [Controller.Changes] delivers a coalesced signal after every page mutation, including the
// banner clearing itself. Live front ends wait on it to re-render.
package controller
