package schedule

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/khuang/screenroast/lib/db"
	"github.com/khuang/screenroast/lib/state"
	"github.com/khuang/screenroast/models"
)

func testState(t *testing.T, apiKey string) *state.State {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store, err := db.Open(filepath.Join(t.TempDir(), "test.db"), logger)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	st, err := state.Load(store, logger)
	if err != nil {
		t.Fatalf("load state: %v", err)
	}
	if apiKey != "" {
		cfg := st.Config()
		cfg.TMDBAPIKey = apiKey
		if err := st.SetConfig(cfg); err != nil {
			t.Fatalf("set config: %v", err)
		}
	}
	return st
}

type fakeGen struct {
	calls []models.MediaType
	err   error
}

func (f *fakeGen) Generate(ctx context.Context, mediaType models.MediaType) (models.Review, error) {
	f.calls = append(f.calls, mediaType)
	return models.Review{}, f.err
}

func TestDue(t *testing.T) {
	day := time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)
	cases := []struct {
		name       string
		now        time.Time
		last       time.Time
		updateTime string
		want       bool
	}{
		{"before configured time", day.Add(0*time.Hour + 30*time.Minute), day.AddDate(0, 0, -1), "01:00", false},
		{"exactly at configured time", day.Add(1 * time.Hour), day.AddDate(0, 0, -1), "01:00", true},
		{"after configured time", day.Add(9 * time.Hour), day.AddDate(0, 0, -1), "01:00", true},
		{"already ran today", day.Add(9 * time.Hour), day.Add(1 * time.Hour), "01:00", false},
		{"never ran", day.Add(2 * time.Hour), time.Unix(0, 0).UTC(), "01:00", true},
		{"same hour earlier minute", day.Add(1*time.Hour + 29*time.Minute), day.AddDate(0, 0, -1), "01:30", false},
		{"same hour later minute", day.Add(1*time.Hour + 31*time.Minute), day.AddDate(0, 0, -1), "01:30", true},
		{"malformed configured time", day.Add(9 * time.Hour), day.AddDate(0, 0, -1), "soon", false},
	}
	for _, tc := range cases {
		if got := Due(tc.now, tc.last, tc.updateTime); got != tc.want {
			t.Fatalf("%s: Due=%v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestMediaTypeFor(t *testing.T) {
	even := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	odd := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
	if got := MediaTypeFor(even); got != models.MediaTV {
		t.Fatalf("expected tv on an even day, got %s", got)
	}
	if got := MediaTypeFor(odd); got != models.MediaMovie {
		t.Fatalf("expected movie on an odd day, got %s", got)
	}
}

func TestTick_SkipsWithoutCatalogKey(t *testing.T) {
	st := testState(t, "")
	gen := &fakeGen{}
	s := New(st, gen, slog.New(slog.NewTextHandler(io.Discard, nil)))
	s.now = func() time.Time { return time.Date(2026, 8, 31, 9, 0, 0, 0, time.UTC) }

	s.Tick(context.Background())
	if len(gen.calls) != 0 {
		t.Fatal("expected no generation without a catalog key")
	}
	if !st.Config().LastUpdateDate.Equal(time.Unix(0, 0).UTC()) {
		t.Fatal("expected last-update marker untouched")
	}
}

func TestTick_RunsWhenDueAndAdvancesMarker(t *testing.T) {
	st := testState(t, "key")
	gen := &fakeGen{}
	s := New(st, gen, slog.New(slog.NewTextHandler(io.Discard, nil)))
	now := time.Date(2026, 8, 31, 9, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }

	s.Tick(context.Background())
	if len(gen.calls) != 1 || gen.calls[0] != models.MediaMovie {
		t.Fatalf("expected one movie generation on an odd day, got %v", gen.calls)
	}
	if !st.Config().LastUpdateDate.Equal(now) {
		t.Fatalf("expected marker advanced to %v, got %v", now, st.Config().LastUpdateDate)
	}

	// A second tick on the same day does nothing.
	s.Tick(context.Background())
	if len(gen.calls) != 1 {
		t.Fatal("expected no second run on the same day")
	}
}

func TestTick_AdvancesMarkerEvenOnFailure(t *testing.T) {
	st := testState(t, "key")
	gen := &fakeGen{err: errors.New("provider down")}
	s := New(st, gen, slog.New(slog.NewTextHandler(io.Discard, nil)))
	now := time.Date(2026, 8, 31, 9, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }

	s.Tick(context.Background())
	if !st.Config().LastUpdateDate.Equal(now) {
		t.Fatal("expected marker advanced despite the failure")
	}

	s.Tick(context.Background())
	if len(gen.calls) != 1 {
		t.Fatal("expected the failed run not retried until tomorrow")
	}
}
