package tasks

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/desertthunder/songsearch/internal/controller"
	"github.com/desertthunder/songsearch/internal/formatter"
	"github.com/desertthunder/songsearch/internal/models"
	"github.com/desertthunder/songsearch/internal/shared"
)

// BatchOpts contains configuration for batch searches.
type BatchOpts struct {
	Format     string // Export format: text, markdown, csv, json
	OutputDir  string // Base output directory (default: songsearch_batch_{epoch})
	NumWorkers int    // Concurrent workers (default: 3, max: 10)
}

// batchJob is one query waiting for a worker.
type batchJob struct {
	index int
	query string
}

var extensions = map[string]string{
	formatter.FormatText:     "txt",
	formatter.FormatMarkdown: "md",
	formatter.FormatCSV:      "csv",
	formatter.FormatJSON:     "json",
}

// Run searches every query concurrently, writes one export per query and a manifest.
//
// A failed query is recorded in the result and does not stop the batch. When ctx ends, queries not yet
// started are skipped and the context error is returned with the partial result.
func (e *BatchEngine) Run(ctx context.Context, prog chan<- ProgressUpdate, queries []string, opts BatchOpts) (*BatchResult, error) {
	if e.api == nil {
		return nil, fmt.Errorf("%w: search service not initialized", shared.ErrServiceUnavailable)
	}
	if len(queries) == 0 {
		return nil, fmt.Errorf("%w: no queries to search", shared.ErrInvalidInput)
	}

	format, err := formatter.ParseFormat(opts.Format)
	if err != nil {
		return nil, err
	}
	opts.Format = format

	if opts.OutputDir == "" {
		opts.OutputDir = fmt.Sprintf("songsearch_batch_%d", time.Now().Unix())
	}
	if opts.NumWorkers <= 0 {
		opts.NumWorkers = DefaultWorkers
	}
	if opts.NumWorkers > MaxWorkers {
		opts.NumWorkers = MaxWorkers
	}

	if err := os.MkdirAll(opts.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	result := &BatchResult{
		TotalQueries:    len(queries),
		Format:          opts.Format,
		OutputDirectory: opts.OutputDir,
		Results:         make([]QueryResult, 0, len(queries)),
	}

	jobs := make(chan batchJob)
	results := make(chan QueryResult, len(queries))

	var wg sync.WaitGroup
	for i := 0; i < opts.NumWorkers; i++ {
		wg.Add(1)
		go e.worker(ctx, &wg, jobs, results, opts)
	}

	go func() {
		defer close(jobs)
		e.sendProgress(prog, startingUpdate(len(queries)))
		for i, q := range queries {
			select {
			case <-ctx.Done():
				return
			case jobs <- batchJob{index: i, query: q}:
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	completed := 0
	for res := range results {
		completed++
		result.Results = append(result.Results, res)

		if res.Success() {
			result.Succeeded++
			e.sendProgress(prog, searchDoneUpdate(completed, len(queries), res))
		} else {
			result.Failed++
			e.sendProgress(prog, searchFailedUpdate(completed, len(queries), res))
		}
	}

	slices.SortFunc(result.Results, func(a, b QueryResult) int { return a.Index - b.Index })

	manifestPath := filepath.Join(opts.OutputDir, ManifestName)
	data, err := shared.MarshalJSON(result, true)
	if err != nil {
		return result, fmt.Errorf("failed to marshal manifest: %w", err)
	}
	if err := os.WriteFile(manifestPath, data, 0644); err != nil {
		return result, fmt.Errorf("batch completed but failed to write manifest: %w", err)
	}
	result.ManifestPath = manifestPath
	e.sendProgress(prog, manifestUpdate(manifestPath))

	e.logger.Info("batch complete", "total", result.TotalQueries, "succeeded", result.Succeeded, "failed", result.Failed)

	if err := ctx.Err(); err != nil {
		return result, fmt.Errorf("batch interrupted: %w", err)
	}
	return result, nil
}

// worker searches queries from the jobs channel until it is closed.
func (e *BatchEngine) worker(
	ctx context.Context,
	wg *sync.WaitGroup,
	jobs <-chan batchJob,
	results chan<- QueryResult,
	opts BatchOpts,
) {
	defer wg.Done()

	for job := range jobs {
		results <- e.searchOne(ctx, job, opts)
	}
}

// searchOne runs a single query and writes its export.
func (e *BatchEngine) searchOne(ctx context.Context, j batchJob, opts BatchOpts) QueryResult {
	res := QueryResult{Index: j.index, Query: j.query}

	sr, err := e.api.Search(ctx, j.query)
	if err != nil {
		e.logger.Warn("batch query failed", "query", j.query, "error", err)
		res.Error = err.Error()
		return res
	}
	if sr == nil {
		sr = &models.SearchResult{}
	}
	res.Found = len(sr.TracksFound)
	res.NotFound = len(sr.TracksNotFound)

	var data []byte
	if opts.Format == formatter.FormatJSON {
		data, err = shared.MarshalJSON(sr, true)
	} else {
		page := controller.Page{
			Results:  controller.BuildResults(sr.TracksFound),
			NotFound: controller.BuildNotFound(sr.TracksNotFound),
		}
		data, err = formatter.ExportResults(page, opts.Format, j.query)
	}
	if err != nil {
		res.Error = fmt.Sprintf("render failed: %v", err)
		return res
	}

	name := fmt.Sprintf("%03d_%s.%s", j.index+1, slug(j.query), extensions[opts.Format])
	path := filepath.Join(opts.OutputDir, name)
	if err := formatter.WriteExport(data, path); err != nil {
		res.Error = err.Error()
		return res
	}

	res.File = path
	return res
}
