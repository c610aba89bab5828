// package formatter renders page sections to plain text, Markdown and CSV for the CLI
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"strings"

	"github.com/desertthunder/songsearch/internal/controller"
	"github.com/desertthunder/songsearch/internal/shared"
)

// Format names accepted by [ExportResults].
const (
	FormatText     = "text"
	FormatMarkdown = "markdown"
	FormatCSV      = "csv"
	FormatJSON     = "json"
)

// ParseFormat normalizes a format name and its aliases ("txt", "md").
func ParseFormat(name string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", FormatText, "txt":
		return FormatText, nil
	case FormatMarkdown, "md":
		return FormatMarkdown, nil
	case FormatCSV:
		return FormatCSV, nil
	case FormatJSON:
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("%w: unknown format %q", shared.ErrInvalidFlag, name)
	}
}

// ResultsToText renders the results and not-found sections as plain text.
func ResultsToText(page controller.Page) []byte {
	var buf bytes.Buffer

	if page.Results.Placeholder != "" {
		buf.WriteString(page.Results.Placeholder + "\n")
	}
	for i, card := range page.Results.Cards {
		fmt.Fprintf(&buf, "%d. %s\n", i+1, card.Name)
		fmt.Fprintf(&buf, "   Artist: %s\n", card.Artists)
		if card.HasLink {
			fmt.Fprintf(&buf, "   Listen on Spotify: %s\n", card.Link)
		}
	}

	if page.NotFound.Visible {
		fmt.Fprintf(&buf, "\n%s\n", page.NotFound.Heading)
		for _, item := range page.NotFound.Items {
			fmt.Fprintf(&buf, "  %s\n", item)
		}
	}

	return buf.Bytes()
}

// ResultsToMarkdown renders the results and not-found sections as Markdown with album art.
func ResultsToMarkdown(page controller.Page, query string) []byte {
	var buf bytes.Buffer

	if query != "" {
		fmt.Fprintf(&buf, "# Results for \"%s\"\n\n", query)
	}

	if page.Results.Placeholder != "" {
		fmt.Fprintf(&buf, "_%s_\n", page.Results.Placeholder)
	}
	for _, card := range page.Results.Cards {
		fmt.Fprintf(&buf, "## %s\n\n", card.Name)
		if card.ImageURL != "" {
			fmt.Fprintf(&buf, "![%s](%s)\n\n", card.Name, card.ImageURL)
		}
		fmt.Fprintf(&buf, "**Artist**: %s\n\n", card.Artists)
		if card.HasLink {
			fmt.Fprintf(&buf, "[Listen on Spotify](%s)\n\n", card.Link)
		}
	}

	if page.NotFound.Visible {
		fmt.Fprintf(&buf, "\n%s\n\n", page.NotFound.Heading)
		for _, item := range page.NotFound.Items {
			fmt.Fprintf(&buf, "- %s\n", item)
		}
	}

	return buf.Bytes()
}

// ResultsToCSV renders one row per card with columns: Name, Artists, Image, Link.
func ResultsToCSV(page controller.Page) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write([]string{"Name", "Artists", "Image", "Link"}); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, card := range page.Results.Cards {
		link := ""
		if card.HasLink {
			link = card.Link
		}
		if err := writer.Write([]string{card.Name, card.Artists, card.ImageURL, link}); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportResults renders the results sections in the named format.
//
// JSON is not a page rendering; callers marshal the service response themselves.
func ExportResults(page controller.Page, format, query string) ([]byte, error) {
	f, err := ParseFormat(format)
	if err != nil {
		return nil, err
	}

	switch f {
	case FormatText:
		return ResultsToText(page), nil
	case FormatMarkdown:
		return ResultsToMarkdown(page, query), nil
	case FormatCSV:
		return ResultsToCSV(page)
	default:
		return nil, fmt.Errorf("%w: %s is not a page format", shared.ErrInvalidFlag, f)
	}
}

// SuggestionsToText renders playlist suggestions as plain text.
func SuggestionsToText(page controller.Page) []byte {
	var buf bytes.Buffer

	if page.Suggestions.Message != "" {
		buf.WriteString(page.Suggestions.Message + "\n")
	}
	for _, p := range page.Suggestions.Playlists {
		if p.HasLink {
			fmt.Fprintf(&buf, "• %s (%s)\n", p.Name, p.Link)
		} else {
			fmt.Fprintf(&buf, "• %s\n", p.Name)
		}
	}

	return buf.Bytes()
}

// HistoryToText renders history rows as plain text, most recent first.
func HistoryToText(page controller.Page) []byte {
	var buf bytes.Buffer

	if page.History.Message != "" {
		buf.WriteString(page.History.Message + "\n")
	}
	for i, row := range page.History.Entries {
		if i > 0 {
			buf.WriteString("\n")
		}
		fmt.Fprintf(&buf, "%s\n", row.Timestamp)
		fmt.Fprintf(&buf, "  Query: %s\n", row.Query)
		fmt.Fprintf(&buf, "  Tracks Found: %s\n", row.Found)
		fmt.Fprintf(&buf, "  Not Found: %s\n", row.NotFound)
	}

	return buf.Bytes()
}

// WriteExport writes data to path, creating or truncating the file.
func WriteExport(data []byte, path string) error {
	if path == "" {
		return fmt.Errorf("%w: output path", shared.ErrMissingArgument)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write export file: %w", err)
	}
	return nil
}
