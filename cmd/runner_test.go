package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/songsearch/internal/models"
	"github.com/desertthunder/songsearch/internal/services"
	"github.com/desertthunder/songsearch/internal/shared"
	tu "github.com/desertthunder/songsearch/internal/testing"
)

func sampleResult() *models.SearchResult {
	return &models.SearchResult{
		TracksFound: []models.Track{{
			Name:         "Song A",
			Artists:      []models.Artist{{Name: "X"}},
			ExternalURLs: models.ExternalURLs{Spotify: "https://open.spotify.com/track/a"},
		}},
		TracksNotFound: []string{"Song B"},
	}
}

// run executes the CLI against api with args (without the program name).
func run(t *testing.T, api *tu.MockSearchAPI, args ...string) (string, error) {
	t.Helper()
	output := &bytes.Buffer{}
	runner := NewRunner(RunnerOpts{
		API:    api,
		Output: output,
		Logger: shared.NewLogger(io.Discard),
	})

	err := newApp(runner).Run(context.Background(), append([]string{"songsearch"}, args...))
	return output.String(), err
}

func TestRunner(t *testing.T) {
	t.Run("NewRunner", func(t *testing.T) {
		t.Run("with all dependencies provided", func(t *testing.T) {
			config := shared.DefaultConfig()
			logger := shared.NewLogger(nil)
			output := &bytes.Buffer{}
			httpClient := &http.Client{}
			api := &tu.MockSearchAPI{}

			runner := NewRunner(RunnerOpts{
				Config:     config,
				ConfigPath: "/test/path/config.toml",
				Logger:     logger,
				Output:     output,
				HTTPClient: httpClient,
				API:        api,
			})

			if runner.config != config {
				t.Error("expected config to be set")
			}
			if runner.configPath != "/test/path/config.toml" {
				t.Errorf("expected configPath to be set, got %s", runner.configPath)
			}
			if runner.logger != logger {
				t.Error("expected logger to be set")
			}
			if runner.output != output {
				t.Error("expected output to be set")
			}
			if runner.httpClient != httpClient {
				t.Error("expected httpClient to be set")
			}
			if runner.client() != api {
				t.Error("expected injected api to be used")
			}
		})

		t.Run("with nil config uses defaults", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{})

			if runner.config == nil {
				t.Error("expected default config to be set")
			}
			if runner.logger == nil {
				t.Error("expected default logger to be set")
			}
			if runner.output != os.Stdout {
				t.Error("expected output to default to os.Stdout")
			}
		})

		t.Run("builds client from config", func(t *testing.T) {
			config := shared.DefaultConfig()
			config.API.BaseURL = "http://songs.example:8080/"
			runner := NewRunner(RunnerOpts{Config: config})

			client, ok := runner.client().(*services.Client)
			if !ok {
				t.Fatalf("expected *services.Client, got %T", runner.client())
			}
			if client.BaseURL() != "http://songs.example:8080" {
				t.Errorf("unexpected base URL %q", client.BaseURL())
			}
			if runner.client() != client {
				t.Error("expected client to be reused")
			}

			runner.SetLogger(shared.NewLogger(io.Discard))
			if runner.client() == client {
				t.Error("expected client rebuilt after logger change")
			}
		})

		t.Run("SetLogger keeps injected api", func(t *testing.T) {
			api := &tu.MockSearchAPI{}
			runner := NewRunner(RunnerOpts{API: api})
			runner.SetLogger(shared.NewLogger(io.Discard))

			if runner.client() != api {
				t.Error("expected injected api to survive logger change")
			}
		})
	})

	t.Run("writeJSON", func(t *testing.T) {
		t.Run("writes formatted JSON successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			err := runner.writeJSON(map[string]string{"key": "value"}, true)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			result := output.String()
			if !strings.Contains(result, `"key": "value"`) {
				t.Errorf("expected formatted JSON, got %s", result)
			}
			if !strings.HasSuffix(result, "\n") {
				t.Error("expected output to end with newline")
			}
		})

		t.Run("writes compact JSON successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			if err := runner.writeJSON(map[string]string{"key": "value"}, false); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			expected := `{"key":"value"}` + "\n"
			if output.String() != expected {
				t.Errorf("expected %q, got %q", expected, output.String())
			}
		})

		t.Run("handles marshal error with non-serializable data", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &bytes.Buffer{}})

			err := runner.writeJSON(make(chan int), false)
			if err == nil || !strings.Contains(err.Error(), "failed to marshal JSON") {
				t.Errorf("expected marshal error, got %v", err)
			}
		})

		t.Run("handles write failure", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &tu.FWriter{}})

			err := runner.writeJSON(map[string]string{"key": "value"}, false)
			if err == nil || !strings.Contains(err.Error(), "failed to write output") {
				t.Errorf("expected write error, got %v", err)
			}
		})

		t.Run("handles newline write failure", func(t *testing.T) {
			limitedWriter := tu.NewLimitedWriter(1, 0, &bytes.Buffer{})
			runner := NewRunner(RunnerOpts{Output: &limitedWriter})

			err := runner.writeJSON(map[string]string{"key": "value"}, false)
			if err == nil || !strings.Contains(err.Error(), "failed to write newline") {
				t.Errorf("expected newline write error, got %v", err)
			}
		})
	})

	t.Run("writePlain", func(t *testing.T) {
		t.Run("writes plain text successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			if err := runner.writePlain("hello %s", "world"); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if output.String() != "hello world" {
				t.Errorf("expected 'hello world', got %q", output.String())
			}
		})

		t.Run("handles write failure", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &tu.FWriter{}})

			err := runner.writePlain("test")
			if err == nil || !strings.Contains(err.Error(), "failed to write output") {
				t.Errorf("expected write error, got %v", err)
			}
		})
	})

	t.Run("register", func(t *testing.T) {
		runner := NewRunner(RunnerOpts{})
		commands := runner.register()

		names := map[string]bool{}
		for i, cmd := range commands {
			if cmd == nil {
				t.Fatalf("command at index %d is nil", i)
			}
			names[cmd.Name] = true
		}

		for _, want := range []string{"setup", "search", "suggest", "history", "batch", "web", "tui"} {
			if !names[want] {
				t.Errorf("expected command %q to be registered", want)
			}
		}
	})
}

func TestSearchCommand(t *testing.T) {
	newAPI := func(t *testing.T) *tu.MockSearchAPI {
		return &tu.MockSearchAPI{
			SearchFn: func(ctx context.Context, query string) (*models.SearchResult, error) {
				if query != "Song A by X" {
					t.Errorf("expected joined arguments, got %q", query)
				}
				return sampleResult(), nil
			},
		}
	}

	t.Run("text", func(t *testing.T) {
		out, err := run(t, newAPI(t), "search", "Song", "A", "by", "X")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		for _, want := range []string{"Song A", "X", "https://open.spotify.com/track/a", "Song B"} {
			if !strings.Contains(out, want) {
				t.Errorf("expected %q in output:\n%s", want, out)
			}
		}
	})

	t.Run("json", func(t *testing.T) {
		out, err := run(t, newAPI(t), "search", "--format", "json", "Song A by X")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		var got models.SearchResult
		if err := json.Unmarshal([]byte(out), &got); err != nil {
			t.Fatalf("expected JSON output, got %q: %v", out, err)
		}
		if len(got.TracksFound) != 1 || len(got.TracksNotFound) != 1 {
			t.Errorf("unexpected result %+v", got)
		}
	})

	t.Run("csv to file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "results.csv")
		out, err := run(t, newAPI(t), "search", "-f", "csv", "-o", path, "Song A by X")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !strings.Contains(out, path) {
			t.Errorf("expected confirmation naming %s, got %q", path, out)
		}

		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("failed to read export: %v", err)
		}
		if !strings.HasPrefix(string(data), "Name,Artists,Image,Link") {
			t.Errorf("unexpected CSV header in %q", data)
		}
	})

	t.Run("json to file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "results.json")
		if _, err := run(t, newAPI(t), "search", "-f", "json", "-o", path, "Song A by X"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("failed to read export: %v", err)
		}
		if !strings.Contains(string(data), `"tracks_found"`) {
			t.Errorf("expected service field names in %q", data)
		}
	})

	t.Run("unknown format makes no request", func(t *testing.T) {
		api := &tu.MockSearchAPI{}
		_, err := run(t, api, "search", "--format", "yaml", "x")
		if !errors.Is(err, shared.ErrInvalidFlag) {
			t.Errorf("expected ErrInvalidFlag, got %v", err)
		}
		if s, _, _ := api.Calls(); s != 0 {
			t.Errorf("expected no search calls, got %d", s)
		}
	})

	t.Run("missing query", func(t *testing.T) {
		api := &tu.MockSearchAPI{}
		_, err := run(t, api, "search", "   ")
		if !errors.Is(err, shared.ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput, got %v", err)
		}
		if !isUsageError(err) {
			t.Error("expected validation failure to be a usage error")
		}
		if s, _, _ := api.Calls(); s != 0 {
			t.Errorf("expected no search calls, got %d", s)
		}
	})

	t.Run("service failure carries page message", func(t *testing.T) {
		api := &tu.MockSearchAPI{
			SearchFn: func(ctx context.Context, query string) (*models.SearchResult, error) {
				return nil, &shared.APIError{StatusCode: http.StatusBadGateway}
			},
		}
		_, err := run(t, api, "search", "x")

		var apiErr *shared.APIError
		if !errors.As(err, &apiErr) || apiErr.StatusCode != http.StatusBadGateway {
			t.Fatalf("expected APIError with status, got %v", err)
		}
		if !strings.Contains(err.Error(), "Failed to fetch results") {
			t.Errorf("expected page message in %q", err.Error())
		}
		if isUsageError(err) {
			t.Error("service failure should not be a usage error")
		}
	})
}

func TestSuggestCommand(t *testing.T) {
	api := &tu.MockSearchAPI{
		SuggestFn: func(ctx context.Context, vibe string) ([]models.Playlist, error) {
			if vibe != "rainy day" {
				t.Errorf("unexpected vibe %q", vibe)
			}
			return []models.Playlist{{Name: "Rain", ExternalURLs: models.ExternalURLs{Spotify: "https://open.spotify.com/playlist/r"}}}, nil
		},
	}

	t.Run("text", func(t *testing.T) {
		out, err := run(t, api, "suggest", "rainy", "day")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !strings.Contains(out, "Playlists for rainy day") || !strings.Contains(out, "• Rain (https://open.spotify.com/playlist/r)") {
			t.Errorf("unexpected output:\n%s", out)
		}
	})

	t.Run("json", func(t *testing.T) {
		out, err := run(t, api, "suggest", "--json", "rainy day")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !strings.Contains(out, `"external_urls"`) {
			t.Errorf("expected raw playlists, got %q", out)
		}
	})

	t.Run("missing vibe", func(t *testing.T) {
		_, err := run(t, &tu.MockSearchAPI{}, "suggest")
		if !errors.Is(err, shared.ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput, got %v", err)
		}
	})
}

func TestHistoryCommand(t *testing.T) {
	t.Run("most recent first", func(t *testing.T) {
		api := &tu.MockSearchAPI{
			HistoryFn: func(ctx context.Context) ([]models.HistoryEntry, error) {
				return []models.HistoryEntry{
					{Timestamp: "2024-01-01", Query: "older"},
					{Timestamp: "2024-01-02", Query: "newer"},
				}, nil
			},
		}
		out, err := run(t, api, "history")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if strings.Index(out, "newer") > strings.Index(out, "older") {
			t.Errorf("expected newest entry first:\n%s", out)
		}
	})

	t.Run("empty", func(t *testing.T) {
		out, err := run(t, &tu.MockSearchAPI{}, "history")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !strings.Contains(out, "No recent history.") {
			t.Errorf("expected empty message, got %q", out)
		}
	})

	t.Run("failure", func(t *testing.T) {
		api := &tu.MockSearchAPI{
			HistoryFn: func(ctx context.Context) ([]models.HistoryEntry, error) {
				return nil, errors.New("connection refused")
			},
		}
		_, err := run(t, api, "history")
		if !errors.Is(err, shared.ErrAPIRequest) {
			t.Errorf("expected ErrAPIRequest, got %v", err)
		}
	})
}

func TestBefore(t *testing.T) {
	t.Run("loads config and applies env override", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.toml")
		conf := "[api]\nbase_url = \"http://from-file:1\"\n[log]\nlevel = \"warn\"\n"
		if err := os.WriteFile(path, []byte(conf), 0644); err != nil {
			t.Fatal(err)
		}
		t.Setenv(shared.EnvAPIURL, "http://from-env:2")

		logger := shared.NewLogger(io.Discard)
		runner := NewRunner(RunnerOpts{API: &tu.MockSearchAPI{}, Output: &bytes.Buffer{}, Logger: logger})
		if err := newApp(runner).Run(context.Background(), []string{"songsearch", "--config", path, "history"}); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if runner.config.API.BaseURL != "http://from-env:2" {
			t.Errorf("expected env override, got %q", runner.config.API.BaseURL)
		}
		if runner.configPath != path {
			t.Errorf("expected config path recorded, got %q", runner.configPath)
		}
		if logger.GetLevel() != log.WarnLevel {
			t.Errorf("expected warn level from config, got %v", logger.GetLevel())
		}
	})

	t.Run("verbose enables debug", func(t *testing.T) {
		logger := shared.NewLogger(io.Discard)
		runner := NewRunner(RunnerOpts{API: &tu.MockSearchAPI{}, Output: &bytes.Buffer{}, Logger: logger})
		if err := newApp(runner).Run(context.Background(), []string{"songsearch", "--verbose", "history"}); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if logger.GetLevel() != log.DebugLevel {
			t.Errorf("expected debug level, got %v", logger.GetLevel())
		}
	})

	t.Run("explicit missing config", func(t *testing.T) {
		_, err := run(t, &tu.MockSearchAPI{}, "--config", filepath.Join(t.TempDir(), "nope.toml"), "history")
		if !errors.Is(err, shared.ErrMissingConfig) {
			t.Errorf("expected ErrMissingConfig, got %v", err)
		}
	})

	t.Run("invalid config", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.toml")
		if err := os.WriteFile(path, []byte("[api]\nbase_url = \"  \"\n"), 0644); err != nil {
			t.Fatal(err)
		}
		_, err := run(t, &tu.MockSearchAPI{}, "--config", path, "history")
		if !errors.Is(err, shared.ErrInvalidConfig) {
			t.Errorf("expected ErrInvalidConfig, got %v", err)
		}
	})
}

func TestSetupConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")

	out, err := run(t, &tu.MockSearchAPI{}, "--config", path, "setup", "config")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !strings.Contains(out, "Configuration written to") {
		t.Errorf("unexpected output %q", out)
	}
	if _, err := shared.LoadConfig(path); err != nil {
		t.Errorf("expected loadable config, got %v", err)
	}

	if _, err := run(t, &tu.MockSearchAPI{}, "--config", path, "setup", "config"); err == nil {
		t.Error("expected error when config already exists")
	}
}

func TestWebCommand(t *testing.T) {
	t.Run("stops when context ends", func(t *testing.T) {
		output := &bytes.Buffer{}
		runner := NewRunner(RunnerOpts{API: &tu.MockSearchAPI{}, Output: output, Logger: shared.NewLogger(io.Discard)})

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		err := newApp(runner).Run(ctx, []string{"songsearch", "web", "--addr", "127.0.0.1:0"})
		if err != nil {
			t.Fatalf("expected clean shutdown, got %v", err)
		}
		if !strings.Contains(output.String(), "Serving song search at http://127.0.0.1:") {
			t.Errorf("unexpected output %q", output.String())
		}
	})

	t.Run("address in use", func(t *testing.T) {
		busy := httptest.NewServer(http.NotFoundHandler())
		defer busy.Close()

		addr := strings.TrimPrefix(busy.URL, "http://")
		_, err := run(t, &tu.MockSearchAPI{}, "web", "--addr", addr)
		if err == nil || !strings.Contains(err.Error(), "failed to listen") {
			t.Errorf("expected listen error, got %v", err)
		}
	})
}

func TestBatchCommand(t *testing.T) {
	t.Run("exports every query", func(t *testing.T) {
		dir := t.TempDir()
		queries := filepath.Join(dir, "queries.txt")
		if err := os.WriteFile(queries, []byte("Song A\n# skipped\nSong B\n"), 0644); err != nil {
			t.Fatal(err)
		}

		api := &tu.MockSearchAPI{
			SearchFn: func(ctx context.Context, query string) (*models.SearchResult, error) {
				return sampleResult(), nil
			},
		}
		outDir := filepath.Join(dir, "out")
		out, err := run(t, api, "batch", "--format", "md", "--out-dir", outDir, queries)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if s, _, _ := api.Calls(); s != 2 {
			t.Errorf("expected 2 searches, got %d", s)
		}
		if !strings.Contains(out, "Batch complete: 2 succeeded, 0 failed") {
			t.Errorf("unexpected output:\n%s", out)
		}
		for _, name := range []string{"001_song-a.md", "002_song-b.md", "batch_manifest.json"} {
			if _, err := os.Stat(filepath.Join(outDir, name)); err != nil {
				t.Errorf("expected %s: %v", name, err)
			}
		}
	})

	t.Run("missing file argument", func(t *testing.T) {
		_, err := run(t, &tu.MockSearchAPI{}, "batch")
		if !errors.Is(err, shared.ErrMissingArgument) {
			t.Errorf("expected ErrMissingArgument, got %v", err)
		}
	})

	t.Run("empty file", func(t *testing.T) {
		queries := filepath.Join(t.TempDir(), "empty.txt")
		if err := os.WriteFile(queries, []byte("\n# nothing\n"), 0644); err != nil {
			t.Fatal(err)
		}
		_, err := run(t, &tu.MockSearchAPI{}, "batch", queries)
		if !errors.Is(err, shared.ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput, got %v", err)
		}
	})
}
