package tmdb

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/khuang/screenroast/models"
)

func testClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewClient("test-key", logger).WithBaseURL(srv.URL)
}

func TestTrending(t *testing.T) {
	var gotPath, gotKey string
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.URL.Query().Get("api_key")
		_, _ = w.Write([]byte(`{"results":[{"id":42,"title":"Dune","poster_path":"/p","backdrop_path":"/b"}]}`))
	})

	items, err := c.Trending(context.Background(), models.MediaMovie)
	if err != nil {
		t.Fatalf("trending: %v", err)
	}
	if gotPath != "/trending/movie/day" {
		t.Fatalf("unexpected path: %q", gotPath)
	}
	if gotKey != "test-key" {
		t.Fatalf("unexpected api key: %q", gotKey)
	}
	if len(items) != 1 || items[0].ID != 42 || items[0].Title != "Dune" {
		t.Fatalf("unexpected items: %+v", items)
	}
}

func TestDetails(t *testing.T) {
	var gotPath string
	var gotQuery map[string]string
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = map[string]string{
			"language":           r.URL.Query().Get("language"),
			"append_to_response": r.URL.Query().Get("append_to_response"),
		}
		_, _ = w.Write([]byte(`{
			"id": 42,
			"name": "Showtime",
			"first_air_date": "2020-01-01",
			"vote_average": 8.1,
			"genres": [{"id": 35, "name": "Comedy"}],
			"credits": {"cast": [{"name": "A"}], "crew": [{"name": "B", "job": "Director"}]},
			"images": {"backdrops": [{"file_path": "/bd1"}]},
			"external_ids": {"imdb_id": "tt0000042"},
			"seasons": [{"season_number": 1, "name": "Season 1", "air_date": "2020-01-01", "episode_count": 10}]
		}`))
	})

	d, err := c.Details(context.Background(), models.MediaTV, 42, "en-US")
	if err != nil {
		t.Fatalf("details: %v", err)
	}
	if gotPath != "/tv/42" {
		t.Fatalf("unexpected path: %q", gotPath)
	}
	if gotQuery["language"] != "en-US" || gotQuery["append_to_response"] != "credits,images,external_ids" {
		t.Fatalf("unexpected query: %v", gotQuery)
	}
	if !d.Usable() || d.DisplayTitle() != "Showtime" {
		t.Fatalf("unexpected detail: %+v", d)
	}
	if d.ExternalIDs.IMDBID != "tt0000042" || len(d.Seasons) != 1 || d.Seasons[0].SeasonNumber != 1 {
		t.Fatalf("unexpected appended data: %+v", d)
	}
}

func TestDetail_Usable(t *testing.T) {
	no := false
	cases := []struct {
		name string
		d    *Detail
		want bool
	}{
		{"nil", nil, false},
		{"empty", &Detail{}, false},
		{"failed lookup", &Detail{Title: "X", Success: &no}, false},
		{"movie", &Detail{Title: "X"}, true},
		{"show", &Detail{Name: "Y"}, true},
	}
	for _, tc := range cases {
		if got := tc.d.Usable(); got != tc.want {
			t.Fatalf("%s: Usable=%v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestImageURL(t *testing.T) {
	if got := ImageURL("/p.jpg", "w500"); got != "https://image.tmdb.org/t/p/w500/p.jpg" {
		t.Fatalf("unexpected url: %q", got)
	}
	if got := ImageURL("/p.jpg", ""); got != "https://image.tmdb.org/t/p/original/p.jpg" {
		t.Fatalf("expected original size default, got %q", got)
	}
	if got := ImageURL("", "w500"); got != "" {
		t.Fatalf("expected empty url for empty path, got %q", got)
	}
}
