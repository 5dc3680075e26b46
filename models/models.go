package models

import "time"

// Language is one of the locales every review must carry.
type Language string

const (
	LangEN Language = "en"
	LangTW Language = "zh-TW"
	LangCN Language = "zh-CN"
)

// Languages lists the supported locales in generation order.
func Languages() []Language {
	return []Language{LangEN, LangTW, LangCN}
}

// MediaType distinguishes movies from TV shows, matching the catalog
// provider's path segments.
type MediaType string

const (
	MediaMovie MediaType = "movie"
	MediaTV    MediaType = "tv"
)

func (m MediaType) Valid() bool {
	return m == MediaMovie || m == MediaTV
}

// AuthorStyle is the writing tone used to parameterize generated text.
type AuthorStyle string

const (
	StyleHumorous    AuthorStyle = "humorous"
	StyleToxic       AuthorStyle = "toxic"
	StyleSentimental AuthorStyle = "sentimental"
)

// AuthorProfile is a display persona attached to generated content.
type AuthorProfile struct {
	Name  map[Language]string `json:"name"`
	Style AuthorStyle         `json:"style"`
}

// Ratings holds the three scores shown on a review. Only the TMDB score is
// authentic; the other two are synthesized placeholders.
type Ratings struct {
	TMDB   float64 `json:"tmdb"`
	IMDB   float64 `json:"imdb"`
	Douban float64 `json:"douban"`
}

// ExternalIDs links a review to provider pages. Douban has no direct id, so
// it carries a search URL instead.
type ExternalIDs struct {
	IMDB   string `json:"imdb,omitempty"`
	TMDB   string `json:"tmdb,omitempty"`
	Douban string `json:"douban,omitempty"`
}

// ReviewMetadata is display metadata derived from the catalog detail record
// plus the persona that produced the text.
type ReviewMetadata struct {
	Duration    string      `json:"duration"`
	Director    string      `json:"director"`
	Actors      []string    `json:"actors"`
	AuthorID    int         `json:"authorId"`
	AuthorStyle AuthorStyle `json:"authorStyle"`
}

// Review is one generated piece of content. Title and Content must have an
// entry for every supported locale before the record is complete.
type Review struct {
	ID            string              `json:"id"`
	TMDBID        int                 `json:"tmdbId"`
	MediaType     MediaType           `json:"mediaType"`
	SeasonNumber  int                 `json:"seasonNumber,omitempty"`
	Title         map[Language]string `json:"title"`
	PosterPath    string              `json:"posterPath"`
	BackdropPaths []string            `json:"backdropPaths"`
	Content       map[Language]string `json:"content"`
	CreatedAt     time.Time           `json:"createdAt"`
	Genres        []string            `json:"genres"`
	ReleaseYear   int                 `json:"releaseYear"`
	Region        string              `json:"region"`
	Visible       bool                `json:"visible"`
	Ratings       Ratings             `json:"ratings"`
	ExternalIDs   ExternalIDs         `json:"externalIds"`
	Metadata      ReviewMetadata      `json:"metadata"`
}

// Complete reports whether every supported locale has both a title and a
// body.
func (r Review) Complete() bool {
	for _, lang := range Languages() {
		if r.Title[lang] == "" || r.Content[lang] == "" {
			return false
		}
	}
	return true
}

// WatchlistItem is a lightweight bookmark keyed by catalog id, independent of
// the review it points at.
type WatchlistItem struct {
	ID         string    `json:"id"`
	TMDBID     int       `json:"tmdbId"`
	MediaType  MediaType `json:"mediaType"`
	Title      string    `json:"title"`
	PosterPath string    `json:"posterPath"`
	Watched    bool      `json:"watched"`
}

// AppConfig is the site-wide configuration document. A partial config loaded
// from storage is shallow-merged over DefaultConfig so new fields acquire
// defaults automatically.
type AppConfig struct {
	TMDBAPIKey        string          `json:"tmdbApiKey"`
	UpdateTime        string          `json:"updateTime"`
	LastUpdateDate    time.Time       `json:"lastUpdateDate"`
	SiteName          string          `json:"siteName"`
	Authors           []AuthorProfile `json:"authors"`
	ActiveAuthorIndex int             `json:"activeAuthorIndex"`
}

// ActiveAuthor returns the currently selected persona, falling back to the
// first one when the index is out of range.
func (c AppConfig) ActiveAuthor() AuthorProfile {
	if c.ActiveAuthorIndex >= 0 && c.ActiveAuthorIndex < len(c.Authors) {
		return c.Authors[c.ActiveAuthorIndex]
	}
	if len(c.Authors) > 0 {
		return c.Authors[0]
	}
	return AuthorProfile{Style: StyleHumorous}
}

// AdminUsername is fixed; only the password is configurable.
const AdminUsername = "admin"

// DefaultAdminPassword is in effect until the admin changes it.
const DefaultAdminPassword = "admin"

// DefaultConfig returns the hardcoded configuration used before the admin
// saves anything.
func DefaultConfig() AppConfig {
	return AppConfig{
		UpdateTime:     "01:00",
		LastUpdateDate: time.Unix(0, 0).UTC(),
		SiteName:       "ScreenRoast",
		Authors: []AuthorProfile{
			{
				Name:  map[Language]string{LangEN: "Humor Bot", LangTW: "幽默大師", LangCN: "幽默大师"},
				Style: StyleHumorous,
			},
			{
				Name:  map[Language]string{LangEN: "Salty Critic", LangTW: "毒舌影評人", LangCN: "毒舌影评人"},
				Style: StyleToxic,
			},
			{
				Name:  map[Language]string{LangEN: "Dreamy Soul", LangTW: "感性靈魂", LangCN: "感性灵魂"},
				Style: StyleSentimental,
			},
		},
		ActiveAuthorIndex: 0,
	}
}
