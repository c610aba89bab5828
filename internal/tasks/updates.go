package tasks

import (
	"fmt"
)

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Operation phase enumeration
type Phase int

const (
	SearchQueries Phase = iota
	WriteManifest
)

func (p Phase) String() string {
	switch p {
	case SearchQueries:
		return "search_queries"
	case WriteManifest:
		return "write_manifest"
	default:
		return ""
	}
}

func startingUpdate(total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   SearchQueries,
		Step:    0,
		Total:   total,
		Message: fmt.Sprintf("Searching %d queries...", total),
	}
}

func searchDoneUpdate(step, total int, res QueryResult) ProgressUpdate {
	return ProgressUpdate{
		Phase:   SearchQueries,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✓ %s (%d found, %d not found)", step, total, res.Query, res.Found, res.NotFound),
		Data:    res,
	}
}

func searchFailedUpdate(step, total int, res QueryResult) ProgressUpdate {
	return ProgressUpdate{
		Phase:   SearchQueries,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✗ %s: %s", step, total, res.Query, res.Error),
		Data:    res,
	}
}

func manifestUpdate(path string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   WriteManifest,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Manifest written to %s", path),
	}
}
