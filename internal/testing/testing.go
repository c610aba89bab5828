// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"io"
	"net/http"
	"sync"

	"github.com/desertthunder/songsearch/internal/models"
)

// MockSearchAPI is a test double for [services.SearchAPI].
//
// Each hook is optional; a nil hook returns an empty successful answer. Calls are counted per operation.
type MockSearchAPI struct {
	SearchFn  func(ctx context.Context, query string) (*models.SearchResult, error)
	SuggestFn func(ctx context.Context, vibe string) ([]models.Playlist, error)
	HistoryFn func(ctx context.Context) ([]models.HistoryEntry, error)

	mu           sync.Mutex
	searchCalls  int
	suggestCalls int
	historyCalls int
}

func (m *MockSearchAPI) Search(ctx context.Context, query string) (*models.SearchResult, error) {
	m.mu.Lock()
	m.searchCalls++
	m.mu.Unlock()
	if m.SearchFn == nil {
		return &models.SearchResult{}, nil
	}
	return m.SearchFn(ctx, query)
}

func (m *MockSearchAPI) SuggestPlaylists(ctx context.Context, vibe string) ([]models.Playlist, error) {
	m.mu.Lock()
	m.suggestCalls++
	m.mu.Unlock()
	if m.SuggestFn == nil {
		return nil, nil
	}
	return m.SuggestFn(ctx, vibe)
}

func (m *MockSearchAPI) History(ctx context.Context) ([]models.HistoryEntry, error) {
	m.mu.Lock()
	m.historyCalls++
	m.mu.Unlock()
	if m.HistoryFn == nil {
		return nil, nil
	}
	return m.HistoryFn(ctx)
}

// Calls returns the number of Search, SuggestPlaylists and History calls made so far.
func (m *MockSearchAPI) Calls() (search, suggest, history int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.searchCalls, m.suggestCalls, m.historyCalls
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

// FCloser simulates a failure when reading response body
type FCloser struct{}

func (f *FCloser) Read(p []byte) (n int, err error) {
	return 0, errors.New("read failed")
}

func (f *FCloser) Close() error {
	return nil
}
