// Package tasks runs batches of searches against the song search service with real-time progress reporting.
//
// # Batch Search
//
// [BatchEngine.Run] reads a list of queries and fans them out to a small worker pool:
//   - Each query is searched once; failures are recorded and do not stop the batch
//   - Each result is rendered the same way the page renders it and written to its own file
//     in the requested format (text, markdown, csv or json)
//   - A manifest (batch_manifest.json) summarizes every query, in input order
//
// # Progress Reporting
//
// Progress updates are sent on an optional channel as [ProgressUpdate] values.
// Updates use select with default to prevent blocking, so a slow reader drops updates rather than stalling workers.
package tasks
