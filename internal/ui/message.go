package ui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// MsgKind enumerates all message types in the application.
type MsgKind int

// Msg represents all possible messages in the TUI (Elm-style message union).
type Msg struct {
	kind MsgKind
	data any
}

var (
	_ tea.Msg = Msg{}
)

const (
	MsgSearchDone MsgKind = iota
	MsgSuggestDone
	MsgHistoryDone
	MsgPageChanged
)

// opResult carries the outcome of a controller operation.
type opResult struct {
	count int
	err   error
}

// searchDoneMsg is the constructor for [MsgSearchDone]
func searchDoneMsg(count int, err error) Msg {
	return Msg{kind: MsgSearchDone, data: opResult{count, err}}
}

// suggestDoneMsg is the constructor for [MsgSuggestDone]
func suggestDoneMsg(count int, err error) Msg {
	return Msg{kind: MsgSuggestDone, data: opResult{count, err}}
}

// historyDoneMsg is the constructor for [MsgHistoryDone]
func historyDoneMsg(count int, err error) Msg {
	return Msg{kind: MsgHistoryDone, data: opResult{count, err}}
}

// pageChangedMsg is the constructor for [MsgPageChanged]
func pageChangedMsg() Msg {
	return Msg{kind: MsgPageChanged}
}
