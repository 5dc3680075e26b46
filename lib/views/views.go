// Package views derives display lists from the review collection: filtering,
// admin pagination, and the lottery picker. Everything here is a pure
// function of its inputs except the lottery's random draws.
package views

import (
	"math/rand"
	"sort"

	"github.com/khuang/screenroast/models"
)

// Filters is a conjunction of independent predicates. A zero value matches
// every visible review.
type Filters struct {
	MediaType models.MediaType // empty means all
	Genre     string           // empty means all
	Region    string           // empty means all
	Year      int              // zero means all
	// IncludeHidden is set only for authenticated admins.
	IncludeHidden bool
}

// Filter applies the predicate conjunction. Hidden reviews are excluded
// unless IncludeHidden is set. Input order is preserved.
func Filter(reviews []models.Review, f Filters) []models.Review {
	out := make([]models.Review, 0, len(reviews))
	for _, r := range reviews {
		if !r.Visible && !f.IncludeHidden {
			continue
		}
		if f.MediaType != "" && r.MediaType != f.MediaType {
			continue
		}
		if f.Genre != "" && !hasGenre(r, f.Genre) {
			continue
		}
		if f.Region != "" && r.Region != f.Region {
			continue
		}
		if f.Year != 0 && r.ReleaseYear != f.Year {
			continue
		}
		out = append(out, r)
	}
	return out
}

func hasGenre(r models.Review, genre string) bool {
	for _, g := range r.Genres {
		if g == genre {
			return true
		}
	}
	return false
}

// GenreSet returns the distinct genres across the collection, sorted.
func GenreSet(reviews []models.Review) []string {
	seen := make(map[string]bool)
	for _, r := range reviews {
		for _, g := range r.Genres {
			seen[g] = true
		}
	}
	out := make([]string, 0, len(seen))
	for g := range seen {
		out = append(out, g)
	}
	sort.Strings(out)
	return out
}

// YearSet returns the distinct release years, newest first.
func YearSet(reviews []models.Review) []int {
	seen := make(map[int]bool)
	for _, r := range reviews {
		if r.ReleaseYear != 0 {
			seen[r.ReleaseYear] = true
		}
	}
	out := make([]int, 0, len(seen))
	for y := range seen {
		out = append(out, y)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(out)))
	return out
}

// Page is one fixed-size slice of the full collection.
type Page struct {
	Items      []models.Review `json:"items"`
	Page       int             `json:"page"`
	TotalPages int             `json:"totalPages"`
	Total      int             `json:"total"`
}

// Paginate slices the collection into fixed-size pages. Page numbers start at
// 1; out-of-range pages return an empty item list.
func Paginate(reviews []models.Review, page, size int) Page {
	total := len(reviews)
	totalPages := (total + size - 1) / size
	if totalPages == 0 {
		totalPages = 1
	}

	start := (page - 1) * size
	if start < 0 || start >= total {
		return Page{Items: []models.Review{}, Page: page, TotalPages: totalPages, Total: total}
	}
	end := start + size
	if end > total {
		end = total
	}
	items := make([]models.Review, end-start)
	copy(items, reviews[start:end])
	return Page{Items: items, Page: page, TotalPages: totalPages, Total: total}
}

// Draw is the lottery result: one visible review and one fortune string,
// drawn independently.
type Draw struct {
	Review  models.Review `json:"review"`
	Fortune string        `json:"fortune"`
}

// Lottery draws one uniformly-random review from the input set and a fortune
// for the locale. An empty set returns ok=false and no draw happens.
func Lottery(reviews []models.Review, lang models.Language) (Draw, bool) {
	if len(reviews) == 0 {
		return Draw{}, false
	}
	review := reviews[rand.Intn(len(reviews))]
	fortunes := fortunesFor(lang)
	return Draw{
		Review:  review,
		Fortune: fortunes[rand.Intn(len(fortunes))],
	}, true
}
