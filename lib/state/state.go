// Package state owns the in-memory collections and serializes every read and
// write through one controller, persisting whole collections to the
// key-value store on each mutation.
package state

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/khuang/screenroast/lib/db"
	"github.com/khuang/screenroast/models"
)

// State holds the four persisted collections. All methods are safe for
// concurrent use; a single mutex keeps the one-logical-writer invariant even
// when the scheduler and an admin action overlap.
type State struct {
	mu     sync.Mutex
	store  *db.Store
	logger *slog.Logger

	reviews       []models.Review
	config        models.AppConfig
	watchlist     []models.WatchlistItem
	adminPassword string
}

// Load reads all collections from the store. A missing or partial config is
// shallow-merged over the hardcoded defaults; a missing password falls back
// to the default.
func Load(store *db.Store, logger *slog.Logger) (*State, error) {
	s := &State{store: store, logger: logger}

	raw, err := store.Get(db.KeyReviews)
	if err != nil {
		return nil, err
	}
	if raw != nil {
		if err := json.Unmarshal(raw, &s.reviews); err != nil {
			return nil, fmt.Errorf("failed to decode reviews: %w", err)
		}
	}

	// Unmarshalling into a prefilled value only overwrites fields present in
	// the stored document, which is the shallow default-merge.
	s.config = models.DefaultConfig()
	raw, err = store.Get(db.KeyConfig)
	if err != nil {
		return nil, err
	}
	if raw != nil {
		if err := json.Unmarshal(raw, &s.config); err != nil {
			return nil, fmt.Errorf("failed to decode config: %w", err)
		}
	}

	raw, err = store.Get(db.KeyWatchlist)
	if err != nil {
		return nil, err
	}
	if raw != nil {
		if err := json.Unmarshal(raw, &s.watchlist); err != nil {
			return nil, fmt.Errorf("failed to decode watchlist: %w", err)
		}
	}

	s.adminPassword = models.DefaultAdminPassword
	raw, err = store.Get(db.KeyAdminPassword)
	if err != nil {
		return nil, err
	}
	if raw != nil {
		var pass string
		if err := json.Unmarshal(raw, &pass); err != nil {
			return nil, fmt.Errorf("failed to decode admin password: %w", err)
		}
		s.adminPassword = pass
	}

	logger.Info("Loaded state",
		slog.Int("reviews", len(s.reviews)),
		slog.Int("watchlist", len(s.watchlist)))
	return s, nil
}

func (s *State) persist(key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	return s.store.Set(key, raw)
}

// Reviews returns a copy of the review collection, most recent first.
func (s *State) Reviews() []models.Review {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Review, len(s.reviews))
	copy(out, s.reviews)
	return out
}

// Review looks up a review by id.
func (s *State) Review(id string) (models.Review, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.reviews {
		if r.ID == id {
			return r, true
		}
	}
	return models.Review{}, false
}

// AddReview prepends a new review and persists the full collection. Existing
// records are never touched.
func (s *State) AddReview(r models.Review) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	updated := make([]models.Review, 0, len(s.reviews)+1)
	updated = append(updated, r)
	updated = append(updated, s.reviews...)
	if err := s.persist(db.KeyReviews, updated); err != nil {
		return err
	}
	s.reviews = updated
	return nil
}

// UpdateReview replaces the review with the same id.
func (s *State) UpdateReview(r models.Review) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.reviews {
		if s.reviews[i].ID == r.ID {
			prev := s.reviews[i]
			s.reviews[i] = r
			if err := s.persist(db.KeyReviews, s.reviews); err != nil {
				s.reviews[i] = prev
				return err
			}
			return nil
		}
	}
	return fmt.Errorf("review %s not found", r.ID)
}

// DeleteReview removes the review with the given id.
func (s *State) DeleteReview(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	updated := make([]models.Review, 0, len(s.reviews))
	found := false
	for _, r := range s.reviews {
		if r.ID == id {
			found = true
			continue
		}
		updated = append(updated, r)
	}
	if !found {
		return fmt.Errorf("review %s not found", id)
	}
	if err := s.persist(db.KeyReviews, updated); err != nil {
		return err
	}
	s.reviews = updated
	return nil
}

// ToggleReviewVisibility flips the visibility flag and returns the updated
// review.
func (s *State) ToggleReviewVisibility(id string) (models.Review, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.reviews {
		if s.reviews[i].ID == id {
			s.reviews[i].Visible = !s.reviews[i].Visible
			if err := s.persist(db.KeyReviews, s.reviews); err != nil {
				s.reviews[i].Visible = !s.reviews[i].Visible
				return models.Review{}, err
			}
			return s.reviews[i], nil
		}
	}
	return models.Review{}, fmt.Errorf("review %s not found", id)
}

// Config returns a copy of the current configuration.
func (s *State) Config() models.AppConfig {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copyConfig(s.config)
}

// SetConfig replaces the configuration and persists it.
func (s *State) SetConfig(cfg models.AppConfig) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.persist(db.KeyConfig, cfg); err != nil {
		return err
	}
	s.config = copyConfig(cfg)
	return nil
}

// SetLastUpdate advances the daily-update marker.
func (s *State) SetLastUpdate(t time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	prev := s.config.LastUpdateDate
	s.config.LastUpdateDate = t
	if err := s.persist(db.KeyConfig, s.config); err != nil {
		s.config.LastUpdateDate = prev
		return err
	}
	return nil
}

// Watchlist returns a copy of the watchlist, most recent first.
func (s *State) Watchlist() []models.WatchlistItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.WatchlistItem, len(s.watchlist))
	copy(out, s.watchlist)
	return out
}

// WatchlistItemByTMDBID looks a bookmark up by catalog id, the key the
// original collection is addressed by.
func (s *State) WatchlistItemByTMDBID(tmdbID int) (models.WatchlistItem, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, w := range s.watchlist {
		if w.TMDBID == tmdbID {
			return w, true
		}
	}
	return models.WatchlistItem{}, false
}

// AddWatchlistItem prepends a bookmark and persists the list.
func (s *State) AddWatchlistItem(item models.WatchlistItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	updated := make([]models.WatchlistItem, 0, len(s.watchlist)+1)
	updated = append(updated, item)
	updated = append(updated, s.watchlist...)
	if err := s.persist(db.KeyWatchlist, updated); err != nil {
		return err
	}
	s.watchlist = updated
	return nil
}

// RemoveWatchlistItem deletes a bookmark by its own id.
func (s *State) RemoveWatchlistItem(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	updated := make([]models.WatchlistItem, 0, len(s.watchlist))
	found := false
	for _, w := range s.watchlist {
		if w.ID == id {
			found = true
			continue
		}
		updated = append(updated, w)
	}
	if !found {
		return fmt.Errorf("watchlist item %s not found", id)
	}
	if err := s.persist(db.KeyWatchlist, updated); err != nil {
		return err
	}
	s.watchlist = updated
	return nil
}

// ToggleWatched flips the watched flag on a bookmark.
func (s *State) ToggleWatched(id string) (models.WatchlistItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.watchlist {
		if s.watchlist[i].ID == id {
			s.watchlist[i].Watched = !s.watchlist[i].Watched
			if err := s.persist(db.KeyWatchlist, s.watchlist); err != nil {
				s.watchlist[i].Watched = !s.watchlist[i].Watched
				return models.WatchlistItem{}, err
			}
			return s.watchlist[i], nil
		}
	}
	return models.WatchlistItem{}, fmt.Errorf("watchlist item %s not found", id)
}

// AdminPassword returns the stored shared password.
func (s *State) AdminPassword() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.adminPassword
}

// SetAdminPassword replaces the shared password.
func (s *State) SetAdminPassword(pass string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.persist(db.KeyAdminPassword, pass); err != nil {
		return err
	}
	s.adminPassword = pass
	return nil
}

func copyConfig(cfg models.AppConfig) models.AppConfig {
	out := cfg
	out.Authors = make([]models.AuthorProfile, len(cfg.Authors))
	for i, a := range cfg.Authors {
		name := make(map[models.Language]string, len(a.Name))
		for k, v := range a.Name {
			name[k] = v
		}
		out.Authors[i] = models.AuthorProfile{Name: name, Style: a.Style}
	}
	return out
}
