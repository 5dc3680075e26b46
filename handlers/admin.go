package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/khuang/screenroast/lib/auth"
	"github.com/khuang/screenroast/lib/generate"
	"github.com/khuang/screenroast/lib/state"
	"github.com/khuang/screenroast/lib/types"
	"github.com/khuang/screenroast/lib/validation"
	"github.com/khuang/screenroast/lib/views"
	"github.com/khuang/screenroast/models"
)

const adminPageSize = 10

// Generator is the slice of the pipeline the admin console invokes.
type Generator interface {
	Generate(ctx context.Context, mediaType models.MediaType) (models.Review, error)
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// HandleLogin checks the admin credential and returns a session token.
func HandleLogin(st *state.State, svc auth.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20)).Decode(&req); err != nil {
			validation.WriteError(w, errors.New("invalid JSON"), http.StatusBadRequest)
			return
		}

		token, err := svc.Login(req.Username, req.Password, st.AdminPassword())
		if err != nil {
			validation.WriteError(w, auth.ErrInvalidCredentials, http.StatusUnauthorized)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"token": token})
	}
}

// HandleAdminReviews pages through the full, unfiltered collection,
// most-recent-first by construction.
func HandleAdminReviews(st *state.State) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page := 1
		if p := r.URL.Query().Get("page"); p != "" {
			parsed, err := strconv.Atoi(p)
			if err != nil {
				validation.WriteError(w, errors.New("page must be a number"), http.StatusBadRequest)
				return
			}
			page = parsed
		}
		if err := validation.ValidatePagination(page, adminPageSize); err != nil {
			validation.WriteError(w, err, http.StatusBadRequest)
			return
		}

		writeJSON(w, http.StatusOK, views.Paginate(st.Reviews(), page, adminPageSize))
	}
}

// HandleUpdateReview replaces an edited review, keeping the id from the URL.
func HandleUpdateReview(st *state.State) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var review models.Review
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20)).Decode(&review); err != nil {
			validation.WriteError(w, errors.New("invalid JSON"), http.StatusBadRequest)
			return
		}
		review.ID = chi.URLParam(r, "id")

		if err := st.UpdateReview(review); err != nil {
			validation.WriteError(w, err, http.StatusNotFound)
			return
		}
		writeJSON(w, http.StatusOK, review)
	}
}

// HandleDeleteReview removes a review permanently.
func HandleDeleteReview(st *state.State) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := st.DeleteReview(chi.URLParam(r, "id")); err != nil {
			validation.WriteError(w, err, http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// HandleToggleVisibility flips the visibility flag.
func HandleToggleVisibility(st *state.State) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		review, err := st.ToggleReviewVisibility(chi.URLParam(r, "id"))
		if err != nil {
			validation.WriteError(w, err, http.StatusNotFound)
			return
		}
		writeJSON(w, http.StatusOK, review)
	}
}

type generateRequest struct {
	MediaType models.MediaType `json:"mediaType"`
}

// HandleGenerate runs the pipeline once for the requested media type.
// Failures collapse to a one-shot message; a credential rejection maps to
// 401 so the client can prompt for re-authentication.
func HandleGenerate(gen Generator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req generateRequest
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20)).Decode(&req); err != nil {
			validation.WriteError(w, errors.New("invalid JSON"), http.StatusBadRequest)
			return
		}
		if !req.MediaType.Valid() {
			validation.WriteError(w, errors.New("mediaType must be movie or tv"), http.StatusBadRequest)
			return
		}

		review, err := gen.Generate(r.Context(), req.MediaType)
		switch {
		case err == nil:
			writeJSON(w, http.StatusCreated, review)
		case errors.Is(err, generate.ErrMissingCatalogKey),
			errors.Is(err, generate.ErrMissingGenerationKey):
			validation.WriteError(w, err, http.StatusBadRequest)
		case errors.Is(err, generate.ErrGenerationAuth):
			validation.WriteError(w, err, http.StatusUnauthorized)
		case errors.Is(err, generate.ErrBusy):
			validation.WriteError(w, err, http.StatusConflict)
		default:
			validation.WriteError(w, err, http.StatusBadGateway)
		}
	}
}

// HandleGetConfig serves the full configuration to the settings form.
func HandleGetConfig(st *state.State) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, st.Config())
	}
}

// HandleSetConfig replaces the configuration from the settings form.
func HandleSetConfig(st *state.State) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var cfg models.AppConfig
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20)).Decode(&cfg); err != nil {
			validation.WriteError(w, errors.New("invalid JSON"), http.StatusBadRequest)
			return
		}
		if err := validation.ValidateUpdateTime(cfg.UpdateTime); err != nil {
			validation.WriteError(w, err, http.StatusBadRequest)
			return
		}
		if cfg.ActiveAuthorIndex < 0 || cfg.ActiveAuthorIndex >= len(cfg.Authors) {
			validation.WriteError(w, errors.New("activeAuthorIndex is out of range"), http.StatusBadRequest)
			return
		}

		if err := st.SetConfig(cfg); err != nil {
			validation.WriteError(w, err, http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, st.Config())
	}
}

type passwordRequest struct {
	Password string `json:"password"`
}

// HandleSetPassword replaces the shared admin password.
func HandleSetPassword(st *state.State) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req passwordRequest
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20)).Decode(&req); err != nil {
			validation.WriteError(w, errors.New("invalid JSON"), http.StatusBadRequest)
			return
		}
		if req.Password == "" {
			validation.WriteError(w, errors.New("password must not be empty"), http.StatusBadRequest)
			return
		}

		if err := st.SetAdminPassword(req.Password); err != nil {
			validation.WriteError(w, err, http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// HandleStats summarizes the collection for the admin dashboard.
func HandleStats(st *state.State) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		reviews := st.Reviews()

		stats := types.StatsData{
			TotalReviews:  len(reviews),
			WatchlistSize: len(st.Watchlist()),
		}
		genreCounts := make(map[string]int)
		for _, rv := range reviews {
			if rv.Visible {
				stats.VisibleReviews++
			}
			switch rv.MediaType {
			case models.MediaMovie:
				stats.TotalMovies++
			case models.MediaTV:
				stats.TotalShows++
			}
			if rv.SeasonNumber > 0 {
				stats.SeasonReviews++
			}
			for _, g := range rv.Genres {
				genreCounts[g]++
			}
			if stats.FirstCreated.IsZero() || rv.CreatedAt.Before(stats.FirstCreated) {
				stats.FirstCreated = rv.CreatedAt
			}
			if rv.CreatedAt.After(stats.LastCreated) {
				stats.LastCreated = rv.CreatedAt
			}
		}
		for _, g := range views.GenreSet(reviews) {
			stats.GenreDistribution = append(stats.GenreDistribution, types.GenreCount{Genre: g, Count: genreCounts[g]})
		}

		writeJSON(w, http.StatusOK, stats)
	}
}
