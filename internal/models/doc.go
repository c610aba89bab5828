// Package models defines the wire types exchanged with the song search service.
//
// Every type is a read-only Data Transfer Object decoded from a JSON response:
//   - [SearchResult] : answer to POST /search, resolved [Track] values plus unresolved names
//   - [PlaylistSuggestions] : answer to GET /suggest_playlists, a list of [Playlist]
//   - [History] : answer to GET /history, a chronological list of [HistoryEntry]
//
// Track and playlist fields mirror the subset of the Spotify Web API objects the service forwards.
// Optional fields (album art, external links) decode to their zero values and are exposed through
// accessor methods that report "" when absent.
package models
