package models

import (
	"encoding/json"
	"testing"
)

func TestTrack(t *testing.T) {
	t.Run("ArtistNames preserves credit order", func(t *testing.T) {
		track := Track{Artists: []Artist{{Name: "Daft Punk"}, {Name: "Pharrell Williams"}, {Name: "Nile Rodgers"}}}

		if got := track.ArtistNames(); got != "Daft Punk, Pharrell Williams, Nile Rodgers" {
			t.Errorf("unexpected artist join %q", got)
		}
	})

	t.Run("ArtistNames with no artists", func(t *testing.T) {
		if got := (Track{}).ArtistNames(); got != "" {
			t.Errorf("expected empty join, got %q", got)
		}
	})

	t.Run("Optional fields decode to empty accessors", func(t *testing.T) {
		var track Track
		if err := json.Unmarshal([]byte(`{"name":"A","artists":[{"name":"B"}]}`), &track); err != nil {
			t.Fatalf("failed to decode: %v", err)
		}

		if track.ImageURL() != "" {
			t.Errorf("expected no image URL, got %q", track.ImageURL())
		}
		if track.ListenURL() != "" {
			t.Errorf("expected no listen URL, got %q", track.ListenURL())
		}
	})

	t.Run("Album with empty images", func(t *testing.T) {
		var track Track
		if err := json.Unmarshal([]byte(`{"name":"A","artists":[],"album":{"images":[]}}`), &track); err != nil {
			t.Fatalf("failed to decode: %v", err)
		}
		if track.ImageURL() != "" {
			t.Errorf("expected no image URL, got %q", track.ImageURL())
		}
	})

	t.Run("First album image and spotify link", func(t *testing.T) {
		body := `{
			"name": "Get Lucky",
			"artists": [{"name": "Daft Punk"}],
			"album": {"images": [{"url": "https://i.scdn.co/large.jpg"}, {"url": "https://i.scdn.co/small.jpg"}]},
			"external_urls": {"spotify": "https://open.spotify.com/track/69kOkLUCkxIZYexIgSG8rq"}
		}`

		var track Track
		if err := json.Unmarshal([]byte(body), &track); err != nil {
			t.Fatalf("failed to decode: %v", err)
		}

		if track.ImageURL() != "https://i.scdn.co/large.jpg" {
			t.Errorf("expected first image, got %q", track.ImageURL())
		}
		if track.ListenURL() != "https://open.spotify.com/track/69kOkLUCkxIZYexIgSG8rq" {
			t.Errorf("unexpected listen URL %q", track.ListenURL())
		}
	})
}

func TestHistoryDecode(t *testing.T) {
	body := `{"history":[
		{"timestamp":"2024-05-01 10:00","query":"a by b","tracks_found":["a"],"not_found":[]},
		{"timestamp":"2024-05-02 11:00","query":"c by d","tracks_found":[],"not_found":["c"]}
	]}`

	var h History
	if err := json.Unmarshal([]byte(body), &h); err != nil {
		t.Fatalf("failed to decode: %v", err)
	}

	if len(h.History) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(h.History))
	}
	if h.History[1].NotFound[0] != "c" {
		t.Errorf("expected not_found to decode, got %v", h.History[1].NotFound)
	}
}

func TestTimestamp(t *testing.T) {
	tests := []struct {
		body string
		want Timestamp
	}{
		{`{"timestamp":"2024-05-01 10:00"}`, "2024-05-01 10:00"},
		{`{"timestamp":1714521600}`, "1714521600"},
		{`{"timestamp":1714521600.5}`, "1714521600.5"},
		{`{"timestamp":null}`, ""},
		{`{}`, ""},
	}
	for _, tt := range tests {
		var e HistoryEntry
		if err := json.Unmarshal([]byte(tt.body), &e); err != nil {
			t.Errorf("%s: unexpected error %v", tt.body, err)
			continue
		}
		if e.Timestamp != tt.want {
			t.Errorf("%s: expected %q, got %q", tt.body, tt.want, e.Timestamp)
		}
	}

	for _, body := range []string{`{"timestamp":true}`, `{"timestamp":{}}`} {
		var e HistoryEntry
		if err := json.Unmarshal([]byte(body), &e); err == nil {
			t.Errorf("%s: expected error", body)
		}
	}
}
