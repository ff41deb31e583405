package search

import (
	"sort"
	"strings"
	"time"

	"bioskop-cli/model"
)

type SortKey string

const (
	SortNewest   SortKey = "newest"
	SortTitle    SortKey = "title"
	SortDuration SortKey = "duration"
)

var SortKeys = []SortKey{SortNewest, SortTitle, SortDuration}

// ParseSort maps user input onto a sort key, defaulting to newest.
func ParseSort(value string) SortKey {
	switch SortKey(strings.ToLower(strings.TrimSpace(value))) {
	case SortTitle:
		return SortTitle
	case SortDuration:
		return SortDuration
	default:
		return SortNewest
	}
}

// Next cycles through the sort keys.
func (k SortKey) Next() SortKey {
	for i, key := range SortKeys {
		if key == k {
			return SortKeys[(i+1)%len(SortKeys)]
		}
	}
	return SortNewest
}

type Query struct {
	Term  string
	Genre string
	Sort  SortKey
}

// Filter returns the films whose title contains the term and whose genre
// contains the selected genre, ordered by the query's sort key. The input is
// not modified.
func Filter(films []model.Film, q Query) []model.Film {
	term := strings.ToLower(strings.TrimSpace(q.Term))
	genre := strings.TrimSpace(q.Genre)

	out := make([]model.Film, 0, len(films))
	for _, f := range films {
		if term != "" && !strings.Contains(strings.ToLower(f.Title), term) {
			continue
		}
		if genre != "" && !strings.Contains(f.Genre, genre) {
			continue
		}
		out = append(out, f)
	}

	switch q.Sort {
	case SortTitle:
		sort.SliceStable(out, func(i, j int) bool {
			return strings.ToLower(out[i].Title) < strings.ToLower(out[j].Title)
		})
	case SortDuration:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].Duration.Int() > out[j].Duration.Int()
		})
	default:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].Created().After(out[j].Created())
		})
	}
	return out
}

// Genres lists the distinct non-empty genres in order of first appearance.
func Genres(films []model.Film) []string {
	seen := map[string]bool{}
	var genres []string
	for _, f := range films {
		g := strings.TrimSpace(f.Genre)
		if g == "" || seen[g] {
			continue
		}
		seen[g] = true
		genres = append(genres, g)
	}
	return genres
}

// NowPlaying keeps active films already released on now's date. Films
// without a release date count as released.
func NowPlaying(films []model.Film, now time.Time) []model.Film {
	today := dateOf(now)
	var out []model.Film
	for _, f := range films {
		if !bool(f.Active) {
			continue
		}
		if released, ok := f.Released(); ok && dateOf(released).After(today) {
			continue
		}
		out = append(out, f)
	}
	return out
}

// Upcoming is a film with the days left until its release.
type Upcoming struct {
	Film     model.Film
	DaysLeft int
}

// ComingSoon lists films released after now's date, soonest first.
func ComingSoon(films []model.Film, now time.Time) []Upcoming {
	today := dateOf(now)
	var out []Upcoming
	for _, f := range films {
		released, ok := f.Released()
		if !ok {
			continue
		}
		day := dateOf(released)
		if !day.After(today) {
			continue
		}
		out = append(out, Upcoming{Film: f, DaysLeft: DaysBetween(today, day)})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].DaysLeft < out[j].DaysLeft
	})
	return out
}

// DaysBetween counts calendar days from a to b.
func DaysBetween(a, b time.Time) int {
	a, b = dateOf(a), dateOf(b)
	return int(b.Sub(a).Round(24*time.Hour) / (24 * time.Hour))
}

func dateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
