package types

import "time"

// GenreCount is one bucket of the genre distribution.
type GenreCount struct {
	Genre string `json:"genre"`
	Count int    `json:"count"`
}

// StatsData summarizes the review collection for the admin console.
type StatsData struct {
	TotalReviews      int          `json:"totalReviews"`
	VisibleReviews    int          `json:"visibleReviews"`
	TotalMovies       int          `json:"totalMovies"`
	TotalShows        int          `json:"totalShows"`
	SeasonReviews     int          `json:"seasonReviews"`
	WatchlistSize     int          `json:"watchlistSize"`
	FirstCreated      time.Time    `json:"firstCreated"`
	LastCreated       time.Time    `json:"lastCreated"`
	GenreDistribution []GenreCount `json:"genreDistribution"`
}
