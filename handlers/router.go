package handlers

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/khuang/screenroast/lib/auth"
	"github.com/khuang/screenroast/lib/health"
	"github.com/khuang/screenroast/lib/state"
	"gorm.io/gorm"
)

// NewRouter assembles the full API surface.
func NewRouter(st *state.State, gen Generator, authSvc auth.Service, gdb *gorm.DB) *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
	}))
	r.Use(authSvc.Middleware)

	r.Get("/healthz", health.Check(gdb))

	r.Route("/api", func(r chi.Router) {
		r.Get("/reviews", HandleReviews(st))
		r.Get("/reviews/{id}", HandleReview(st))
		r.Get("/lottery", HandleLottery(st))
		r.Get("/site", HandleSite(st))

		r.Get("/watchlist", HandleWatchlist(st))
		r.Post("/watchlist", HandleWatchlistToggle(st))
		r.Delete("/watchlist/{id}", HandleWatchlistRemove(st))
		r.Post("/watchlist/{id}/watched", HandleWatchlistWatched(st))

		r.Route("/admin", func(r chi.Router) {
			r.Post("/login", HandleLogin(st, authSvc))

			r.Group(func(r chi.Router) {
				r.Use(auth.RequireAdmin)
				r.Get("/reviews", HandleAdminReviews(st))
				r.Put("/reviews/{id}", HandleUpdateReview(st))
				r.Delete("/reviews/{id}", HandleDeleteReview(st))
				r.Post("/reviews/{id}/visibility", HandleToggleVisibility(st))
				r.Post("/generate", HandleGenerate(gen))
				r.Get("/config", HandleGetConfig(st))
				r.Put("/config", HandleSetConfig(st))
				r.Put("/password", HandleSetPassword(st))
				r.Get("/stats", HandleStats(st))
			})
		})
	})

	return r
}
