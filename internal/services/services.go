// package services defines interface SearchAPI for talking to the song search service
package services

import (
	"context"

	"github.com/desertthunder/songsearch/internal/models"
)

// SearchAPI defines the operations offered by the song search service.
type SearchAPI interface {
	// Search resolves a free text query into catalog tracks.
	Search(ctx context.Context, query string) (*models.SearchResult, error)

	// SuggestPlaylists returns playlists matching a vibe.
	SuggestPlaylists(ctx context.Context, vibe string) ([]models.Playlist, error)

	// History returns previous searches, oldest first.
	History(ctx context.Context) ([]models.HistoryEntry, error)
}

var _ SearchAPI = (*Client)(nil)
