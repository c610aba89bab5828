package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/desertthunder/songsearch/internal/controller"
)

// Tab represents the current view in the TUI.
type Tab int

const (
	SearchTab Tab = iota
	SuggestTab
	HistoryTab
	tabCount
)

var tabNames = [tabCount]string{"Search", "Suggest", "History"}

func (t Tab) String() string {
	if t < 0 || t >= tabCount {
		return "Unknown"
	}
	return tabNames[t]
}

// lines used by everything around the list: title, tabs, input, spinner, banner, not-found block and help.
const chromeHeight = 14

// Model represents the TUI application state.
type Model struct {
	ctx     context.Context
	ctrl    *controller.Controller
	tab     Tab
	width   int
	height  int
	query   textinput.Model
	vibe    textinput.Model
	spinner spinner.Model
	lists   [tabCount]list.Model
	page    controller.Page
	pending int
	status  string
	help    help.Model
	keys    keyMap
}

// NewModel creates a new TUI model drawing the page owned by ctrl.
func NewModel(ctx context.Context, ctrl *controller.Controller) *Model {
	query := textinput.New()
	query.Placeholder = "Search for songs"
	query.Prompt = "query › "
	query.Focus()

	vibe := textinput.New()
	vibe.Placeholder = "Describe a vibe"
	vibe.Prompt = "vibe › "

	s := spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(styles.ok))

	m := &Model{
		ctx:     ctx,
		ctrl:    ctrl,
		tab:     SearchTab,
		query:   query,
		vibe:    vibe,
		spinner: s,
		help:    help.New(),
		keys:    newKeyMap(),
	}
	m.lists[SearchTab] = newList("Tracks")
	m.lists[SuggestTab] = newList("Playlists")
	m.lists[HistoryTab] = newList("Recent searches")
	m.resize(80, 24)
	m.refresh()
	return m
}

// Init starts the cursor blink and listens for page changes.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.waitForChange())
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		return m.handleKeys(msg)

	case spinner.TickMsg:
		if !m.loading() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case Msg:
		switch msg.kind {
		case MsgPageChanged:
			m.refresh()
			return m, m.waitForChange()
		case MsgSearchDone, MsgSuggestDone, MsgHistoryDone:
			m.handleDone(msg.kind, msg.data.(opResult))
			return m, nil
		}
	}

	return m.updateInput(msg)
}

// View renders the current tab.
func (m *Model) View() string {
	var b strings.Builder

	b.WriteString(styles.title.Render("Song Search"))
	b.WriteString("\n")
	b.WriteString(m.renderTabs())
	b.WriteString("\n\n")

	switch m.tab {
	case SearchTab:
		b.WriteString(m.query.View())
	case SuggestTab:
		b.WriteString(m.vibe.View())
	case HistoryTab:
		b.WriteString(styles.help.Render("Press enter to load recent searches"))
	}
	b.WriteString("\n\n")

	if m.loading() {
		b.WriteString(fmt.Sprintf("%s Loading...\n", m.spinner.View()))
	}
	if m.page.Banner != "" {
		b.WriteString(styles.err.Render(m.page.Banner))
		b.WriteString("\n")
	}
	if m.status != "" {
		b.WriteString(styles.ok.Render(m.status))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.renderContent())
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))

	return b.String()
}

// Tab returns the active tab.
func (m *Model) Tab() Tab {
	return m.tab
}

func (m *Model) handleKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.next):
		m.setTab((m.tab + 1) % tabCount)
		return m, nil
	case key.Matches(msg, m.keys.prev):
		m.setTab((m.tab + tabCount - 1) % tabCount)
		return m, nil
	case key.Matches(msg, m.keys.submit):
		return m, m.submit()
	case key.Matches(msg, m.keys.up, m.keys.down):
		var cmd tea.Cmd
		m.lists[m.tab], cmd = m.lists[m.tab].Update(msg)
		return m, cmd
	}

	return m.updateInput(msg)
}

// updateInput forwards msg to the focused text input.
func (m *Model) updateInput(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.tab {
	case SearchTab:
		m.query, cmd = m.query.Update(msg)
	case SuggestTab:
		m.vibe, cmd = m.vibe.Update(msg)
	}
	return m, cmd
}

func (m *Model) setTab(t Tab) {
	m.tab = t
	m.status = ""
	m.query.Blur()
	m.vibe.Blur()

	switch t {
	case SearchTab:
		m.query.Focus()
	case SuggestTab:
		m.vibe.Focus()
	}
}

// submit runs the operation behind the active tab and starts the spinner.
func (m *Model) submit() tea.Cmd {
	var run tea.Cmd
	switch m.tab {
	case SearchTab:
		run = m.searchCmd(m.query.Value())
	case SuggestTab:
		run = m.suggestCmd(m.vibe.Value())
	case HistoryTab:
		run = m.historyCmd()
	default:
		return nil
	}

	m.pending++
	m.status = ""
	return tea.Batch(m.spinner.Tick, run)
}

func (m *Model) searchCmd(query string) tea.Cmd {
	return func() tea.Msg {
		result, err := m.ctrl.SubmitSearch(m.ctx, query)
		if err != nil {
			return searchDoneMsg(0, err)
		}
		return searchDoneMsg(len(result.TracksFound), nil)
	}
}

func (m *Model) suggestCmd(vibe string) tea.Cmd {
	return func() tea.Msg {
		playlists, err := m.ctrl.RequestPlaylistSuggestions(m.ctx, vibe)
		return suggestDoneMsg(len(playlists), err)
	}
}

func (m *Model) historyCmd() tea.Cmd {
	return func() tea.Msg {
		entries, err := m.ctrl.LoadHistory(m.ctx)
		return historyDoneMsg(len(entries), err)
	}
}

// waitForChange blocks until the controller reports a page change.
func (m *Model) waitForChange() tea.Cmd {
	changes := m.ctrl.Changes()
	return func() tea.Msg {
		select {
		case <-changes:
			return pageChangedMsg()
		case <-m.ctx.Done():
			return nil
		}
	}
}

func (m *Model) handleDone(kind MsgKind, res opResult) {
	if m.pending > 0 {
		m.pending--
	}
	m.refresh()

	if res.err != nil {
		m.status = ""
		return
	}

	switch kind {
	case MsgSearchDone:
		m.status = fmt.Sprintf("%d tracks found", res.count)
	case MsgSuggestDone:
		m.status = fmt.Sprintf("%d playlists suggested", res.count)
	case MsgHistoryDone:
		m.status = fmt.Sprintf("%d searches in history", res.count)
	}
}

// refresh copies the controller's page into the model and rebuilds the lists.
func (m *Model) refresh() {
	m.page = m.ctrl.Page()
	m.lists[SearchTab].SetItems(cardItems(m.page.Results.Cards))
	m.lists[SuggestTab].SetItems(playlistItems(m.page.Suggestions.Playlists))
	m.lists[HistoryTab].SetItems(historyItems(m.page.History.Entries))
}

func (m *Model) resize(width, height int) {
	m.width = width
	m.height = height
	m.query.Width = max(width-12, 10)
	m.vibe.Width = max(width-12, 10)
	m.help.Width = width

	for i := range m.lists {
		m.lists[i].SetSize(max(width-4, 20), max(height-chromeHeight, 6))
	}
}

func (m *Model) loading() bool {
	return m.pending > 0 || m.page.Loading
}

func (m *Model) renderTabs() string {
	tabs := make([]string, 0, tabCount)
	for t := Tab(0); t < tabCount; t++ {
		if t == m.tab {
			tabs = append(tabs, styles.activeTab.Render(t.String()))
		} else {
			tabs = append(tabs, styles.tab.Render(t.String()))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m *Model) renderContent() string {
	switch m.tab {
	case SearchTab:
		return m.renderResults()
	case SuggestTab:
		if msg := m.page.Suggestions.Message; msg != "" {
			return styles.help.Render(msg) + "\n"
		}
		if len(m.page.Suggestions.Playlists) == 0 {
			return ""
		}
		return m.lists[SuggestTab].View() + "\n"
	case HistoryTab:
		if msg := m.page.History.Message; msg != "" {
			return styles.help.Render(msg) + "\n"
		}
		if len(m.page.History.Entries) == 0 {
			return ""
		}
		return m.lists[HistoryTab].View() + "\n"
	}
	return ""
}

func (m *Model) renderResults() string {
	var b strings.Builder

	if p := m.page.Results.Placeholder; p != "" {
		b.WriteString(styles.help.Render(p))
		b.WriteString("\n")
	} else if len(m.page.Results.Cards) > 0 {
		b.WriteString(m.lists[SearchTab].View())
		b.WriteString("\n")
	}

	if nf := m.page.NotFound; nf.Visible {
		b.WriteString("\n")
		b.WriteString(styles.warn.Render(nf.Heading))
		b.WriteString("\n")
		for _, item := range nf.Items {
			b.WriteString("  " + item + "\n")
		}
	}

	return b.String()
}
