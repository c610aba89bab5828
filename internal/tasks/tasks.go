package tasks

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/songsearch/internal/services"
	"github.com/desertthunder/songsearch/internal/shared"
)

const (
	DefaultWorkers = 3
	MaxWorkers     = 10
	ManifestName   = "batch_manifest.json"
)

// QueryResult is the outcome of one query in a batch.
type QueryResult struct {
	Index    int    `json:"index"`
	Query    string `json:"query"`
	File     string `json:"file,omitempty"`
	Found    int    `json:"found"`
	NotFound int    `json:"not_found"`
	Error    string `json:"error,omitempty"`
}

// Success reports whether the query was searched and written.
func (r QueryResult) Success() bool {
	return r.Error == ""
}

// BatchResult summarizes a batch run. It is also the manifest written next to the exports.
type BatchResult struct {
	TotalQueries    int           `json:"total_queries"`
	Succeeded       int           `json:"succeeded"`
	Failed          int           `json:"failed"`
	Format          string        `json:"format"`
	OutputDirectory string        `json:"output_directory"`
	ManifestPath    string        `json:"-"`
	Results         []QueryResult `json:"results"`
}

// BatchEngine runs many searches through a [services.SearchAPI].
type BatchEngine struct {
	api    services.SearchAPI
	logger *log.Logger
}

// NewBatchEngine creates a BatchEngine. A nil logger discards output.
func NewBatchEngine(api services.SearchAPI, logger *log.Logger) *BatchEngine {
	if logger == nil {
		logger = shared.NewLogger(io.Discard)
	}
	return &BatchEngine{api: api, logger: logger}
}

// ReadQueries returns the non-empty lines of r, trimmed. Lines starting with "#" are comments.
func ReadQueries(r io.Reader) ([]string, error) {
	var queries []string

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		queries = append(queries, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read queries: %w", err)
	}

	return queries, nil
}

// sendProgress sends a progress update through the channel without blocking.
// Uses select with default to ensure progress reporting never blocks execution.
func (e *BatchEngine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

// slug turns a query into a short file-name-safe string.
func slug(query string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(query) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			dash = false
		case !dash && b.Len() > 0:
			b.WriteByte('-')
			dash = true
		}
		if b.Len() >= 40 {
			break
		}
	}

	s := strings.TrimRight(b.String(), "-")
	if s == "" {
		return "query"
	}
	return s
}
