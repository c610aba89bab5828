package controller

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/songsearch/internal/models"
	"github.com/desertthunder/songsearch/internal/services"
	"github.com/desertthunder/songsearch/internal/shared"
)

const (
	EmptyQueryMessage    = "Please enter a search query."
	EmptyVibeMessage     = "Please enter a vibe."
	SearchFailedMessage  = "Failed to fetch results. Please try again later."
	SuggestFailedMessage = "Failed to fetch playlist suggestions."
	HistoryFailedMessage = "Failed to fetch search history."

	DefaultBannerTimeout = 5 * time.Second
)

// section identifies a part of the page with its own request ordering.
type section int

const (
	searchSection section = iota
	suggestSection
	historySection
	sectionCount
)

// Controller owns the page state and runs the operations that change it.
// It is safe for concurrent use.
type Controller struct {
	api           services.SearchAPI
	logger        *log.Logger
	bannerTimeout time.Duration

	mu          sync.Mutex
	page        Page
	inFlight    int
	seq         [sectionCount]uint64
	bannerTimer *time.Timer
	bannerGen   uint64
	closed      bool

	changes chan struct{}
}

// Opts contains configuration options for creating a Controller.
type Opts struct {
	Logger        *log.Logger
	BannerTimeout time.Duration // Defaults to DefaultBannerTimeout
}

// New creates a Controller that fetches through api.
func New(api services.SearchAPI, opts Opts) *Controller {
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(io.Discard)
	}
	if opts.BannerTimeout <= 0 {
		opts.BannerTimeout = DefaultBannerTimeout
	}

	return &Controller{
		api:           api,
		logger:        opts.Logger,
		bannerTimeout: opts.BannerTimeout,
		changes:       make(chan struct{}, 1),
	}
}

// Page returns a snapshot of the current page state.
func (c *Controller) Page() Page {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.page
}

// Changes returns a channel that receives a value after page mutations.
// Signals coalesce: a slow reader sees at least one signal after the last mutation.
func (c *Controller) Changes() <-chan struct{} {
	return c.changes
}

// SubmitSearch validates query, sends it to the service and renders the answer.
func (c *Controller) SubmitSearch(ctx context.Context, query string) (*models.SearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		c.ShowTransientError(EmptyQueryMessage)
		return nil, fmt.Errorf("%w: %s", shared.ErrInvalidInput, EmptyQueryMessage)
	}

	seq := c.begin(searchSection, func(p *Page) {
		p.Results = ResultsSection{}
		p.NotFound = NotFoundSection{}
		p.Banner = ""
	})
	defer c.end()

	c.logger.Debug("submitting search", "query", query)

	result, err := c.api.Search(ctx, query)
	if err != nil {
		return nil, c.fail(searchSection, seq, "search", SearchFailedMessage, err)
	}
	if result == nil {
		result = &models.SearchResult{}
	}

	if !c.updateIf(searchSection, seq, renderResult(result)) {
		c.logger.Debug("dropping stale search result", "query", query)
	}
	return result, nil
}

// RenderSearchResult replaces the results and not-found sections with result.
func (c *Controller) RenderSearchResult(result *models.SearchResult) {
	c.update(renderResult(result))
}

func renderResult(result *models.SearchResult) func(*Page) {
	if result == nil {
		result = &models.SearchResult{}
	}

	results := BuildResults(result.TracksFound)
	notFound := BuildNotFound(result.TracksNotFound)

	return func(p *Page) {
		p.Results = results
		p.NotFound = notFound
	}
}

// RequestPlaylistSuggestions validates vibe, asks the service for playlists and renders them.
func (c *Controller) RequestPlaylistSuggestions(ctx context.Context, vibe string) ([]models.Playlist, error) {
	vibe = strings.TrimSpace(vibe)
	if vibe == "" {
		c.ShowTransientError(EmptyVibeMessage)
		return nil, fmt.Errorf("%w: %s", shared.ErrInvalidInput, EmptyVibeMessage)
	}

	seq := c.begin(suggestSection, nil)
	defer c.end()

	playlists, err := c.api.SuggestPlaylists(ctx, vibe)
	if err != nil {
		return nil, c.fail(suggestSection, seq, "suggest", SuggestFailedMessage, err)
	}

	suggestions := BuildSuggestions(playlists)
	c.updateIf(suggestSection, seq, func(p *Page) { p.Suggestions = suggestions })
	return playlists, nil
}

// LoadHistory fetches previous searches and renders them most recent first.
func (c *Controller) LoadHistory(ctx context.Context) ([]models.HistoryEntry, error) {
	seq := c.begin(historySection, nil)
	defer c.end()

	entries, err := c.api.History(ctx)
	if err != nil {
		return nil, c.fail(historySection, seq, "history", HistoryFailedMessage, err)
	}

	history := BuildHistory(entries)
	c.updateIf(historySection, seq, func(p *Page) { p.History = history })
	return entries, nil
}

// begin takes the next sequence number for s, raises the loading indicator and applies reset.
func (c *Controller) begin(s section, reset func(*Page)) uint64 {
	c.mu.Lock()
	c.seq[s]++
	seq := c.seq[s]
	c.inFlight++
	c.page.Loading = true
	if reset != nil {
		reset(&c.page)
	}
	c.mu.Unlock()

	c.notify()
	return seq
}

// end lowers the loading indicator once every in-flight operation has finished.
func (c *Controller) end() {
	c.mu.Lock()
	if c.inFlight > 0 {
		c.inFlight--
	}
	c.page.Loading = c.inFlight > 0
	c.mu.Unlock()

	c.notify()
}

// fail logs err, shows message when the operation is still current and returns err as a transport error.
// A superseded operation leaves the banner to the operation that replaced it.
func (c *Controller) fail(s section, seq uint64, op, message string, err error) error {
	if !errors.Is(err, shared.ErrAPIRequest) {
		err = fmt.Errorf("%w: %w", shared.ErrAPIRequest, err)
	}

	var apiErr *shared.APIError
	if errors.As(err, &apiErr) {
		c.logger.Error("operation failed", "op", op, "status", apiErr.StatusCode, "error", err)
	} else {
		c.logger.Error("operation failed", "op", op, "error", err)
	}

	c.mu.Lock()
	current := c.seq[s] == seq
	if current {
		c.setBanner(message)
	}
	c.mu.Unlock()

	if current {
		c.notify()
	}
	return err
}

func (c *Controller) update(fn func(*Page)) {
	c.mu.Lock()
	fn(&c.page)
	c.mu.Unlock()

	c.notify()
}

// updateIf applies fn only while seq is still the latest operation for s, under the same lock.
func (c *Controller) updateIf(s section, seq uint64, fn func(*Page)) bool {
	c.mu.Lock()
	current := c.seq[s] == seq
	if current {
		fn(&c.page)
	}
	c.mu.Unlock()

	if current {
		c.notify()
	}
	return current
}

func (c *Controller) notify() {
	select {
	case c.changes <- struct{}{}:
	default:
	}
}
