package tmdb

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"log/slog"

	"github.com/khuang/screenroast/models"
)

type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// TrendingItem is one entry of the trending-today list.
type TrendingItem struct {
	ID           int    `json:"id"`
	Title        string `json:"title"`
	Name         string `json:"name"`
	PosterPath   string `json:"poster_path"`
	BackdropPath string `json:"backdrop_path"`
}

// TrendingResult is the trending list envelope.
type TrendingResult struct {
	Results []TrendingItem `json:"results"`
}

// Detail is the item detail record with credits, images, external ids and
// seasons appended. Title/ReleaseDate are set for movies, Name/FirstAirDate
// for shows.
type Detail struct {
	ID               int     `json:"id"`
	Title            string  `json:"title"`
	Name             string  `json:"name"`
	Overview         string  `json:"overview"`
	ReleaseDate      string  `json:"release_date"`
	FirstAirDate     string  `json:"first_air_date"`
	Runtime          int     `json:"runtime"`
	NumberOfSeasons  int     `json:"number_of_seasons"`
	NumberOfEpisodes int     `json:"number_of_episodes"`
	VoteAverage      float64 `json:"vote_average"`
	Genres           []struct {
		ID   int    `json:"id"`
		Name string `json:"name"`
	} `json:"genres"`
	ProductionCountries []struct {
		ISO3166 string `json:"iso_3166_1"`
	} `json:"production_countries"`
	Credits struct {
		Cast []struct {
			Name string `json:"name"`
		} `json:"cast"`
		Crew []struct {
			Name string `json:"name"`
			Job  string `json:"job"`
		} `json:"crew"`
	} `json:"credits"`
	Images struct {
		Backdrops []struct {
			FilePath string `json:"file_path"`
		} `json:"backdrops"`
	} `json:"images"`
	ExternalIDs struct {
		IMDBID string `json:"imdb_id"`
	} `json:"external_ids"`
	Seasons []Season `json:"seasons"`

	// The provider marks failed lookups with success=false in the body.
	Success *bool `json:"success,omitempty"`
}

// Season is a season summary on a show detail record.
type Season struct {
	SeasonNumber int    `json:"season_number"`
	Name         string `json:"name"`
	Overview     string `json:"overview"`
	PosterPath   string `json:"poster_path"`
	AirDate      string `json:"air_date"`
	EpisodeCount int    `json:"episode_count"`
}

// Usable reports whether the detail record can drive a review: the provider
// accepted the lookup and returned a display name.
func (d *Detail) Usable() bool {
	if d == nil {
		return false
	}
	if d.Success != nil && !*d.Success {
		return false
	}
	return d.Title != "" || d.Name != ""
}

// DisplayTitle returns the movie title or show name, whichever is set.
func (d *Detail) DisplayTitle() string {
	if d.Title != "" {
		return d.Title
	}
	return d.Name
}

func NewClient(apiKey string, logger *slog.Logger) *Client {
	return &Client{
		apiKey:     apiKey,
		baseURL:    "https://api.themoviedb.org/3",
		httpClient: &http.Client{},
		logger:     logger,
	}
}

// WithBaseURL points the client at a different API root. Used by tests.
func (c *Client) WithBaseURL(base string) *Client {
	c.baseURL = base
	return c
}

// Trending fetches today's trending list for the given media type.
func (c *Client) Trending(ctx context.Context, mediaType models.MediaType) ([]TrendingItem, error) {
	u := fmt.Sprintf("%s/trending/%s/day?api_key=%s", c.baseURL, mediaType, url.QueryEscape(c.apiKey))

	var result TrendingResult
	if err := c.getJSON(ctx, u, &result); err != nil {
		return nil, err
	}
	return result.Results, nil
}

// Details fetches the localized detail record for one item, with credits,
// images and external ids appended.
func (c *Client) Details(ctx context.Context, mediaType models.MediaType, id int, language string) (*Detail, error) {
	u := fmt.Sprintf("%s/%s/%d?api_key=%s&append_to_response=credits,images,external_ids&language=%s",
		c.baseURL, mediaType, id, url.QueryEscape(c.apiKey), url.QueryEscape(language))

	var detail Detail
	if err := c.getJSON(ctx, u, &detail); err != nil {
		return nil, err
	}
	return &detail, nil
}

func (c *Client) getJSON(ctx context.Context, u string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			c.logger.Error("failed to close response body", "error", err)
		}
	}()

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// ImageURL builds a CDN URL for a poster or backdrop path.
func ImageURL(path, size string) string {
	if path == "" {
		return ""
	}
	if size == "" {
		size = "original"
	}
	return fmt.Sprintf("https://image.tmdb.org/t/p/%s%s", size, path)
}
