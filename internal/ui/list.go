package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/desertthunder/songsearch/internal/controller"
)

var (
	_ list.Item = cardItem{}
	_ list.Item = playlistItem{}
	_ list.Item = historyItem{}
)

// cardItem wraps [controller.Card] to implement [list.Item].
type cardItem struct {
	card controller.Card
}

func (i cardItem) FilterValue() string { return i.card.Name }
func (i cardItem) Title() string       { return i.card.Name }
func (i cardItem) Description() string {
	if !i.card.HasLink {
		return i.card.Artists
	}
	return fmt.Sprintf("%s • %s", i.card.Artists, i.card.Link)
}

// playlistItem wraps [controller.PlaylistEntry] to implement [list.Item].
type playlistItem struct {
	entry controller.PlaylistEntry
}

func (i playlistItem) FilterValue() string { return i.entry.Name }
func (i playlistItem) Title() string       { return i.entry.Name }
func (i playlistItem) Description() string {
	if !i.entry.HasLink {
		return "no link"
	}
	return i.entry.Link
}

// historyItem wraps [controller.HistoryRow] to implement [list.Item].
type historyItem struct {
	row controller.HistoryRow
}

func (i historyItem) FilterValue() string { return i.row.Query }
func (i historyItem) Title() string       { return fmt.Sprintf("%s • %s", i.row.Timestamp, i.row.Query) }
func (i historyItem) Description() string {
	return fmt.Sprintf("found: %s | not found: %s", i.row.Found, i.row.NotFound)
}

func cardItems(cards []controller.Card) []list.Item {
	items := make([]list.Item, len(cards))
	for i, c := range cards {
		items[i] = cardItem{card: c}
	}
	return items
}

func playlistItems(entries []controller.PlaylistEntry) []list.Item {
	items := make([]list.Item, len(entries))
	for i, e := range entries {
		items[i] = playlistItem{entry: e}
	}
	return items
}

func historyItems(rows []controller.HistoryRow) []list.Item {
	items := make([]list.Item, len(rows))
	for i, r := range rows {
		items[i] = historyItem{row: r}
	}
	return items
}

// newList builds a list with filtering and its own help disabled; the model draws help itself.
func newList(title string) list.Model {
	l := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	l.Title = title
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)
	l.SetShowStatusBar(false)
	l.DisableQuitKeybindings()
	return l
}
