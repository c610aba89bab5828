// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI has three tabs backed by one [controller.Controller]:
//  1. [SearchTab] : Submit a query and browse matched tracks plus the songs that were not found
//  2. [SuggestTab] : Describe a vibe and browse suggested playlists
//  3. [HistoryTab] : Load recent searches, most recent first
//
// The [Model] implements bubbletea/Elm's standard Init/Update/View pattern, receiving messages via the Msg union type.
// Controller operations run as commands. Page changes flow through the controller's change channel, so the view
// also refreshes when the error banner clears itself.
//
// Keyboard: tab/shift+tab switch tabs, enter submits, ↑/↓ scroll the current list, esc or ctrl+c quits.
package ui
