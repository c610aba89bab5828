// package models defines the data model for the song search client
package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// SearchRequest is the JSON body sent to POST /search.
type SearchRequest struct {
	Query string `json:"query"`
}

// Image represents an album image resource.
type Image struct {
	URL    string `json:"url"`
	Height int    `json:"height,omitempty"`
	Width  int    `json:"width,omitempty"`
}

// ExternalURLs holds links to the track or playlist on external services.
type ExternalURLs struct {
	Spotify string `json:"spotify,omitempty"`
}

// Artist represents a credited artist on a track.
type Artist struct {
	Name string `json:"name"`
}

// Album represents the album a track belongs to.
type Album struct {
	Name   string  `json:"name,omitempty"`
	Images []Image `json:"images,omitempty"`
}

// Track represents a resolved catalog track.
type Track struct {
	Name         string       `json:"name"`
	Artists      []Artist     `json:"artists"`
	Album        *Album       `json:"album,omitempty"`
	ExternalURLs ExternalURLs `json:"external_urls"`
}

// ArtistNames joins the artist names with ", " in credit order.
func (t Track) ArtistNames() string {
	names := make([]string, 0, len(t.Artists))
	for _, a := range t.Artists {
		names = append(names, a.Name)
	}
	return strings.Join(names, ", ")
}

// ImageURL returns the first album image URL, or "" when the track has no art.
func (t Track) ImageURL() string {
	if t.Album == nil || len(t.Album.Images) == 0 {
		return ""
	}
	return t.Album.Images[0].URL
}

// ListenURL returns the Spotify link, or "" when absent.
func (t Track) ListenURL() string {
	return t.ExternalURLs.Spotify
}

// SearchResult is the response of POST /search.
type SearchResult struct {
	TracksFound    []Track  `json:"tracks_found"`
	TracksNotFound []string `json:"tracks_not_found"`
}

// Playlist is a suggested playlist.
type Playlist struct {
	Name         string       `json:"name"`
	ExternalURLs ExternalURLs `json:"external_urls"`
}

// ListenURL returns the Spotify link, or "" when absent.
func (p Playlist) ListenURL() string {
	return p.ExternalURLs.Spotify
}

// PlaylistSuggestions is the response of GET /suggest_playlists.
type PlaylistSuggestions struct {
	Playlists []Playlist `json:"playlists"`
}

// Timestamp is the time a history entry was recorded, kept as the text the service sent.
// The service may send it as a string or as a number (epoch seconds).
type Timestamp string

// UnmarshalJSON accepts a JSON string, number or null.
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*t = ""
		return nil
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*t = Timestamp(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("timestamp must be a string or number: %s", data)
	}
	*t = Timestamp(n.String())
	return nil
}

// HistoryEntry is a past search recorded by the service.
type HistoryEntry struct {
	Timestamp   Timestamp `json:"timestamp"`
	Query       string    `json:"query"`
	TracksFound []string  `json:"tracks_found"`
	NotFound    []string  `json:"not_found"`
}

// History is the response of GET /history, oldest entry first.
type History struct {
	History []HistoryEntry `json:"history"`
}
