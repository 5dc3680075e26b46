// Package generate runs the content pipeline: pick a trending item, fetch
// its localized detail records, ask the generation provider for one review
// per locale, and persist the assembled record.
package generate

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"net/url"
	"strconv"
	"time"

	"log/slog"

	"github.com/google/uuid"
	"github.com/khuang/screenroast/lib/lock"
	"github.com/khuang/screenroast/lib/state"
	"github.com/khuang/screenroast/lib/tmdb"
	"github.com/khuang/screenroast/models"
	"golang.org/x/sync/errgroup"
)

// Catalog is the slice of the TMDB client the pipeline needs.
type Catalog interface {
	Trending(ctx context.Context, mediaType models.MediaType) ([]tmdb.TrendingItem, error)
	Details(ctx context.Context, mediaType models.MediaType, id int, language string) (*tmdb.Detail, error)
}

// tmdbLanguages maps locales to the catalog provider's language parameter.
var tmdbLanguages = map[models.Language]string{
	models.LangEN: "en-US",
	models.LangTW: "zh-TW",
	models.LangCN: "zh-CN",
}

const generateLockKey = "generate"

// Generator produces exactly one new review per invocation, or declines
// cleanly without touching persisted state.
type Generator struct {
	state      *state.State
	text       TextGenerator
	locks      *lock.Keyed
	logger     *slog.Logger
	newCatalog func(apiKey string) Catalog
}

func New(st *state.State, text TextGenerator, logger *slog.Logger) *Generator {
	return &Generator{
		state:  st,
		text:   text,
		locks:  lock.New(logger),
		logger: logger,
		newCatalog: func(apiKey string) Catalog {
			return tmdb.NewClient(apiKey, logger)
		},
	}
}

// WithCatalogFactory overrides how the catalog client is built. Used by
// tests.
func (g *Generator) WithCatalogFactory(f func(apiKey string) Catalog) *Generator {
	g.newCatalog = f
	return g
}

// Generate runs the pipeline for one media type and returns the persisted
// review. On any failure nothing is written.
func (g *Generator) Generate(ctx context.Context, mediaType models.MediaType) (models.Review, error) {
	if !mediaType.Valid() {
		return models.Review{}, fmt.Errorf("unknown media type %q", mediaType)
	}

	cfg := g.state.Config()
	if cfg.TMDBAPIKey == "" {
		return models.Review{}, ErrMissingCatalogKey
	}
	if g.text == nil || !g.text.Ready() {
		return models.Review{}, ErrMissingGenerationKey
	}

	if !g.locks.TryLock(generateLockKey) {
		return models.Review{}, ErrBusy
	}
	defer g.locks.Unlock(generateLockKey)

	catalog := g.newCatalog(cfg.TMDBAPIKey)

	trending, err := catalog.Trending(ctx, mediaType)
	if err != nil {
		return models.Review{}, fmt.Errorf("failed to fetch trending list: %w", err)
	}
	if len(trending) == 0 {
		return models.Review{}, ErrEmptyTrending
	}

	reviews := g.state.Reviews()
	target := pickTarget(trending, reviews)
	g.logger.Info("Selected trending item",
		slog.Int("tmdb_id", target.ID),
		slog.String("media_type", string(mediaType)))

	details, err := g.fetchDetails(ctx, catalog, mediaType, target.ID)
	if err != nil {
		return models.Review{}, err
	}
	en := details[models.LangEN]
	if !en.Usable() {
		return models.Review{}, fmt.Errorf("catalog returned no usable record for item %d", target.ID)
	}

	author := cfg.ActiveAuthor()

	var season *tmdb.Season
	if mediaType == models.MediaTV && len(en.Seasons) > 0 {
		season = nextUnreviewedSeason(en.Seasons, reviews, target.ID)
	}

	contents, err := g.generateTexts(ctx, mediaType, details, season, author.Style)
	if err != nil {
		return models.Review{}, err
	}

	review := g.assemble(mediaType, target, details, season, contents, cfg)
	if !review.Complete() {
		return models.Review{}, fmt.Errorf("assembled review is missing a locale entry")
	}

	if err := g.state.AddReview(review); err != nil {
		return models.Review{}, fmt.Errorf("failed to persist review: %w", err)
	}
	g.logger.Info("Generated review",
		slog.String("id", review.ID),
		slog.Int("tmdb_id", review.TMDBID),
		slog.Int("season", review.SeasonNumber))
	return review, nil
}

// pickTarget returns the first trending item not already reviewed; when all
// are duplicates it falls back to the first item, so a title can be
// re-reviewed under a fresh id.
func pickTarget(trending []tmdb.TrendingItem, reviews []models.Review) tmdb.TrendingItem {
	existing := make(map[int]bool, len(reviews))
	for _, r := range reviews {
		existing[r.TMDBID] = true
	}
	for _, item := range trending {
		if !existing[item.ID] {
			return item
		}
	}
	return trending[0]
}

// fetchDetails loads the detail record in every supported locale. The calls
// are independent; all must finish before the pipeline continues.
func (g *Generator) fetchDetails(ctx context.Context, catalog Catalog, mediaType models.MediaType, id int) (map[models.Language]*tmdb.Detail, error) {
	langs := models.Languages()
	results := make([]*tmdb.Detail, len(langs))

	eg, ctx := errgroup.WithContext(ctx)
	for i, lang := range langs {
		eg.Go(func() error {
			d, err := catalog.Details(ctx, mediaType, id, tmdbLanguages[lang])
			if err != nil {
				return fmt.Errorf("failed to fetch %s details: %w", lang, err)
			}
			results[i] = d
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	details := make(map[models.Language]*tmdb.Detail, len(langs))
	for i, lang := range langs {
		details[lang] = results[i]
	}
	return details, nil
}

// nextUnreviewedSeason picks the lowest-numbered season (> 0) that has no
// review yet for this catalog id, or nil when every season is covered.
func nextUnreviewedSeason(seasons []tmdb.Season, reviews []models.Review, tmdbID int) *tmdb.Season {
	reviewed := make(map[int]bool)
	for _, r := range reviews {
		if r.TMDBID == tmdbID && r.SeasonNumber > 0 {
			reviewed[r.SeasonNumber] = true
		}
	}

	var pick *tmdb.Season
	for i := range seasons {
		s := &seasons[i]
		if s.SeasonNumber <= 0 || reviewed[s.SeasonNumber] {
			continue
		}
		if pick == nil || s.SeasonNumber < pick.SeasonNumber {
			pick = s
		}
	}
	return pick
}

// promptTitle is the title handed to the generation provider for one locale.
func promptTitle(lang models.Language, d *tmdb.Detail, season *tmdb.Season) string {
	if season == nil {
		return d.DisplayTitle()
	}
	if lang == models.LangEN {
		return fmt.Sprintf("%s Season %d", d.DisplayTitle(), season.SeasonNumber)
	}
	return fmt.Sprintf("%s 第 %d 季", d.DisplayTitle(), season.SeasonNumber)
}

// storedTitle is the display title persisted on the review record.
func storedTitle(lang models.Language, d *tmdb.Detail, season *tmdb.Season) string {
	if season == nil {
		return d.DisplayTitle()
	}
	if lang == models.LangEN {
		return fmt.Sprintf("%s S%d", d.DisplayTitle(), season.SeasonNumber)
	}
	return fmt.Sprintf("%s 第%d季", d.DisplayTitle(), season.SeasonNumber)
}

// generateTexts invokes the generation provider once per locale. The calls
// share the same style and season override and run independently; any one
// failing aborts the whole run so no partial multi-locale review exists.
func (g *Generator) generateTexts(ctx context.Context, mediaType models.MediaType, details map[models.Language]*tmdb.Detail, season *tmdb.Season, style models.AuthorStyle) (map[models.Language]string, error) {
	langs := models.Languages()
	results := make([]string, len(langs))

	eg, ctx := errgroup.WithContext(ctx)
	for i, lang := range langs {
		eg.Go(func() error {
			d := details[lang]
			overview := d.Overview
			if season != nil && season.Overview != "" {
				overview = season.Overview
			}
			text, err := g.text.Generate(ctx, Input{
				Title:     promptTitle(lang, d, season),
				MediaType: mediaType,
				Language:  lang,
				Overview:  overview,
				Style:     style,
			})
			if err != nil {
				return err
			}
			results[i] = text
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	contents := make(map[models.Language]string, len(langs))
	for i, lang := range langs {
		contents[lang] = results[i]
	}
	return contents, nil
}

func (g *Generator) assemble(mediaType models.MediaType, target tmdb.TrendingItem, details map[models.Language]*tmdb.Detail, season *tmdb.Season, contents map[models.Language]string, cfg models.AppConfig) models.Review {
	en := details[models.LangEN]
	cn := details[models.LangCN]
	author := cfg.ActiveAuthor()

	poster := target.PosterPath
	if season != nil && season.PosterPath != "" {
		poster = season.PosterPath
	}

	backdrops := make([]string, 0, 5)
	for _, b := range en.Images.Backdrops {
		if b.FilePath == poster {
			continue
		}
		backdrops = append(backdrops, b.FilePath)
		if len(backdrops) == 5 {
			break
		}
	}
	if len(backdrops) == 0 && target.BackdropPath != "" {
		backdrops = []string{target.BackdropPath}
	}

	genres := make([]string, 0, len(en.Genres))
	for _, genre := range en.Genres {
		genres = append(genres, genre.Name)
	}

	region := "US"
	if len(en.ProductionCountries) > 0 && en.ProductionCountries[0].ISO3166 != "" {
		region = en.ProductionCountries[0].ISO3166
	}

	titles := make(map[models.Language]string, 3)
	for _, lang := range models.Languages() {
		titles[lang] = storedTitle(lang, details[lang], season)
	}

	return models.Review{
		ID:            uuid.NewString(),
		TMDBID:        target.ID,
		MediaType:     mediaType,
		SeasonNumber:  seasonNumber(season),
		Title:         titles,
		PosterPath:    poster,
		BackdropPaths: backdrops,
		Content:       contents,
		CreatedAt:     time.Now().UTC(),
		Genres:        genres,
		ReleaseYear:   releaseYear(en, season),
		Region:        region,
		Visible:       true,
		Ratings: models.Ratings{
			TMDB:   math.Round(en.VoteAverage*10) / 10,
			IMDB:   placeholderRating(),
			Douban: placeholderRating(),
		},
		ExternalIDs: models.ExternalIDs{
			IMDB:   en.ExternalIDs.IMDBID,
			TMDB:   strconv.Itoa(target.ID),
			Douban: doubanSearchURL(cn.DisplayTitle()),
		},
		Metadata: models.ReviewMetadata{
			Duration:    duration(mediaType, en, season),
			Director:    director(en),
			Actors:      topCast(en, 5),
			AuthorID:    cfg.ActiveAuthorIndex,
			AuthorStyle: author.Style,
		},
	}
}

func seasonNumber(season *tmdb.Season) int {
	if season == nil {
		return 0
	}
	return season.SeasonNumber
}

func releaseYear(en *tmdb.Detail, season *tmdb.Season) int {
	date := en.ReleaseDate
	if date == "" {
		date = en.FirstAirDate
	}
	if season != nil && season.AirDate != "" {
		date = season.AirDate
	}
	if len(date) >= 4 {
		if y, err := strconv.Atoi(date[:4]); err == nil {
			return y
		}
	}
	return 0
}

func duration(mediaType models.MediaType, en *tmdb.Detail, season *tmdb.Season) string {
	switch {
	case season != nil:
		return fmt.Sprintf("%d Episodes", en.NumberOfEpisodes)
	case mediaType == models.MediaMovie:
		return fmt.Sprintf("%d min", en.Runtime)
	default:
		return fmt.Sprintf("%d Seasons", en.NumberOfSeasons)
	}
}

func director(en *tmdb.Detail) string {
	for _, c := range en.Credits.Crew {
		if c.Job == "Director" || c.Job == "Producer" {
			return c.Name
		}
	}
	return "Various"
}

func topCast(en *tmdb.Detail, n int) []string {
	actors := make([]string, 0, n)
	for _, c := range en.Credits.Cast {
		actors = append(actors, c.Name)
		if len(actors) == n {
			break
		}
	}
	return actors
}

// doubanSearchURL is the fallback link for the one provider that has no
// direct id to compose.
func doubanSearchURL(title string) string {
	return "https://movie.douban.com/subject_search?search_text=" + url.QueryEscape(title)
}

// placeholderRating synthesizes a plausible one-decimal score. Only the TMDB
// rating on a review is authentic.
func placeholderRating() float64 {
	return math.Round((6.5+rand.Float64()*2.8)*10) / 10
}
