// Package handlers exposes the JSON API consumed by the single-page client.
package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/khuang/screenroast/lib/auth"
	"github.com/khuang/screenroast/lib/state"
	"github.com/khuang/screenroast/lib/validation"
	"github.com/khuang/screenroast/lib/views"
	"github.com/khuang/screenroast/models"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", slog.Any("error", err))
	}
}

type reviewListResponse struct {
	Items  []models.Review `json:"items"`
	Genres []string        `json:"genres"`
	Years  []int           `json:"years"`
}

// HandleReviews serves the filtered review list plus the filter chips derived
// from the full collection. Hidden reviews appear only for admins.
func HandleReviews(st *state.State) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()

		f := views.Filters{
			MediaType:     models.MediaType(q.Get("type")),
			Genre:         q.Get("genre"),
			Region:        q.Get("region"),
			IncludeHidden: auth.IsAdmin(r.Context()),
		}
		if f.MediaType != "" && !f.MediaType.Valid() {
			validation.WriteError(w, errors.New("type must be movie or tv"), http.StatusBadRequest)
			return
		}
		if y := q.Get("year"); y != "" {
			year, err := strconv.Atoi(y)
			if err != nil {
				validation.WriteError(w, errors.New("year must be a number"), http.StatusBadRequest)
				return
			}
			f.Year = year
		}

		all := st.Reviews()
		writeJSON(w, http.StatusOK, reviewListResponse{
			Items:  views.Filter(all, f),
			Genres: views.GenreSet(all),
			Years:  views.YearSet(all),
		})
	}
}

type reviewDetailResponse struct {
	Review  models.Review   `json:"review"`
	Related []models.Review `json:"related"`
}

// HandleReview serves one review with up to three genre-related companions.
func HandleReview(st *state.State) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		review, ok := st.Review(id)
		if !ok || (!review.Visible && !auth.IsAdmin(r.Context())) {
			validation.WriteError(w, errors.New("review not found"), http.StatusNotFound)
			return
		}

		related := make([]models.Review, 0, 3)
		for _, other := range views.Filter(st.Reviews(), views.Filters{IncludeHidden: auth.IsAdmin(r.Context())}) {
			if other.ID == review.ID || !sharesGenre(review, other) {
				continue
			}
			related = append(related, other)
			if len(related) == 3 {
				break
			}
		}

		writeJSON(w, http.StatusOK, reviewDetailResponse{Review: review, Related: related})
	}
}

func sharesGenre(a, b models.Review) bool {
	for _, ga := range a.Genres {
		for _, gb := range b.Genres {
			if ga == gb {
				return true
			}
		}
	}
	return false
}

// HandleLottery draws one random visible review and an independent fortune
// string. An empty collection is a clean no-op.
func HandleLottery(st *state.State) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		lang := models.Language(r.URL.Query().Get("lang"))
		if lang == "" {
			lang = models.LangEN
		}

		visible := views.Filter(st.Reviews(), views.Filters{})
		draw, ok := views.Lottery(visible, lang)
		if !ok {
			validation.WriteError(w, errors.New("no visible reviews to draw from"), http.StatusNotFound)
			return
		}
		writeJSON(w, http.StatusOK, draw)
	}
}

type siteResponse struct {
	SiteName          string                 `json:"siteName"`
	Authors           []models.AuthorProfile `json:"authors"`
	ActiveAuthorIndex int                    `json:"activeAuthorIndex"`
}

// HandleSite serves the public branding slice of the configuration.
func HandleSite(st *state.State) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cfg := st.Config()
		writeJSON(w, http.StatusOK, siteResponse{
			SiteName:          cfg.SiteName,
			Authors:           cfg.Authors,
			ActiveAuthorIndex: cfg.ActiveAuthorIndex,
		})
	}
}

// HandleWatchlist serves the bookmark list.
func HandleWatchlist(st *state.State) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, st.Watchlist())
	}
}

type watchlistToggleRequest struct {
	TMDBID     int              `json:"tmdbId"`
	MediaType  models.MediaType `json:"mediaType"`
	Title      string           `json:"title"`
	PosterPath string           `json:"posterPath"`
}

// HandleWatchlistToggle adds the item when it is not bookmarked yet and
// removes it otherwise, keyed by catalog id.
func HandleWatchlistToggle(st *state.State) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req watchlistToggleRequest
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20)).Decode(&req); err != nil {
			validation.WriteError(w, errors.New("invalid JSON"), http.StatusBadRequest)
			return
		}
		if req.TMDBID == 0 {
			validation.WriteError(w, errors.New("tmdbId is required"), http.StatusBadRequest)
			return
		}

		if existing, ok := st.WatchlistItemByTMDBID(req.TMDBID); ok {
			if err := st.RemoveWatchlistItem(existing.ID); err != nil {
				validation.WriteError(w, err, http.StatusInternalServerError)
				return
			}
			writeJSON(w, http.StatusOK, map[string]bool{"bookmarked": false})
			return
		}

		if !req.MediaType.Valid() {
			validation.WriteError(w, errors.New("mediaType must be movie or tv"), http.StatusBadRequest)
			return
		}

		item := models.WatchlistItem{
			ID:         uuid.NewString(),
			TMDBID:     req.TMDBID,
			MediaType:  req.MediaType,
			Title:      req.Title,
			PosterPath: req.PosterPath,
		}
		if err := st.AddWatchlistItem(item); err != nil {
			validation.WriteError(w, err, http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusCreated, item)
	}
}

// HandleWatchlistRemove deletes a bookmark by its own id.
func HandleWatchlistRemove(st *state.State) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := st.RemoveWatchlistItem(chi.URLParam(r, "id")); err != nil {
			validation.WriteError(w, err, http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// HandleWatchlistWatched flips the watched flag on a bookmark.
func HandleWatchlistWatched(st *state.State) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		item, err := st.ToggleWatched(chi.URLParam(r, "id"))
		if err != nil {
			validation.WriteError(w, err, http.StatusNotFound)
			return
		}
		writeJSON(w, http.StatusOK, item)
	}
}
