package controller

import (
	"strings"

	"github.com/desertthunder/songsearch/internal/models"
)

const (
	NoResultsText   = "No results found."
	NoPlaylistsText = "No playlists found."
	NoHistoryText   = "No recent history."
	NotFoundHeading = "The following songs were not found on Spotify:"
	NotFoundMarker  = "🎵 "
	NoneText        = "None"

	// NoLink is the inert anchor target used when an item has no external link.
	NoLink = "#"
)

// Page is a snapshot of everything a front end draws. Treat it as read-only.
type Page struct {
	Loading     bool
	Results     ResultsSection
	NotFound    NotFoundSection
	Suggestions SuggestionsSection
	History     HistorySection
	Banner      string // Empty when the error banner is hidden
}

// ResultsSection holds either track cards or a placeholder message.
type ResultsSection struct {
	Cards       []Card
	Placeholder string
}

// Card is one rendered track.
type Card struct {
	Name     string
	Artists  string // Comma-joined, credit order
	ImageURL string // Empty renders a blank image
	Link     string // NoLink when the track has no external link
	HasLink  bool
}

// NotFoundSection lists unresolved song names. Hidden sections carry no items.
type NotFoundSection struct {
	Visible bool
	Heading string
	Items   []string
}

// SuggestionsSection holds either playlist entries or a message.
type SuggestionsSection struct {
	Playlists []PlaylistEntry
	Message   string
}

// PlaylistEntry is one rendered playlist.
type PlaylistEntry struct {
	Name    string
	Link    string
	HasLink bool
}

// HistorySection holds either history rows, most recent first, or a message.
type HistorySection struct {
	Entries []HistoryRow
	Message string
}

// HistoryRow is one rendered history entry.
type HistoryRow struct {
	Timestamp string
	Query     string
	Found     string // Comma-joined names or NoneText
	NotFound  string // Comma-joined names or NoneText
}

func linkOr(url string) (string, bool) {
	if url == "" {
		return NoLink, false
	}
	return url, true
}

func namesOrNone(names []string) string {
	if len(names) == 0 {
		return NoneText
	}
	return strings.Join(names, ", ")
}

// BuildResults renders tracks into cards, or the placeholder when there are none.
func BuildResults(tracks []models.Track) ResultsSection {
	if len(tracks) == 0 {
		return ResultsSection{Placeholder: NoResultsText}
	}

	cards := make([]Card, 0, len(tracks))
	for _, t := range tracks {
		link, ok := linkOr(t.ListenURL())
		cards = append(cards, Card{
			Name:     t.Name,
			Artists:  t.ArtistNames(),
			ImageURL: t.ImageURL(),
			Link:     link,
			HasLink:  ok,
		})
	}
	return ResultsSection{Cards: cards}
}

// BuildNotFound renders unresolved names; an empty list yields a hidden section.
func BuildNotFound(names []string) NotFoundSection {
	if len(names) == 0 {
		return NotFoundSection{}
	}

	items := make([]string, 0, len(names))
	for _, n := range names {
		items = append(items, NotFoundMarker+n)
	}
	return NotFoundSection{Visible: true, Heading: NotFoundHeading, Items: items}
}

// BuildSuggestions renders playlists, or the empty message when there are none.
func BuildSuggestions(playlists []models.Playlist) SuggestionsSection {
	if len(playlists) == 0 {
		return SuggestionsSection{Message: NoPlaylistsText}
	}

	entries := make([]PlaylistEntry, 0, len(playlists))
	for _, p := range playlists {
		link, ok := linkOr(p.ListenURL())
		entries = append(entries, PlaylistEntry{Name: p.Name, Link: link, HasLink: ok})
	}
	return SuggestionsSection{Playlists: entries}
}

// BuildHistory renders entries most recent first. The service returns them oldest first.
func BuildHistory(entries []models.HistoryEntry) HistorySection {
	if len(entries) == 0 {
		return HistorySection{Message: NoHistoryText}
	}

	rows := make([]HistoryRow, len(entries))
	for i, e := range entries {
		rows[len(entries)-1-i] = HistoryRow{
			Timestamp: string(e.Timestamp),
			Query:     e.Query,
			Found:     namesOrNone(e.TracksFound),
			NotFound:  namesOrNone(e.NotFound),
		}
	}
	return HistorySection{Entries: rows}
}
