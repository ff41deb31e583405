package search

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"

	"bioskop-cli/model"
)

func titles(films []model.Film) []string {
	out := make([]string, 0, len(films))
	for _, f := range films {
		out = append(out, f.Title)
	}
	return out
}

var catalogue = []model.Film{
	{Id: 1, Title: "Gowes", Genre: "Drama", Duration: 95, CreatedAt: "2026-01-05T10:00:00Z", Active: true, ReleaseDate: "2026-01-10"},
	{Id: 2, Title: "avatar", Genre: "Sci-Fi", Duration: 192, CreatedAt: "2026-03-01T10:00:00Z", Active: true, ReleaseDate: "2026-11-01"},
	{Id: 3, Title: "Bumi Manusia", Genre: "Drama, Romance", Duration: 181, CreatedAt: "2026-02-01T10:00:00Z", Active: false, ReleaseDate: "2025-08-15"},
	{Id: 4, Title: "Pengabdi Setan", Genre: "Horror", Duration: 107, CreatedAt: "", Active: true},
	{Id: 5, Title: "Agak Laen", Genre: "", Duration: 119, CreatedAt: "2026-02-15T10:00:00Z", Active: true, ReleaseDate: "2026-10-16"},
}

func TestFilter(t *testing.T) {
	tests := []struct {
		name  string
		query Query
		want  []string
	}{
		{
			name:  "newest by default",
			query: Query{},
			want:  []string{"avatar", "Agak Laen", "Bumi Manusia", "Gowes", "Pengabdi Setan"},
		},
		{
			name:  "title term is case-insensitive",
			query: Query{Term: " A", Sort: SortTitle},
			want:  []string{"Agak Laen", "avatar", "Bumi Manusia", "Pengabdi Setan"},
		},
		{
			name:  "genre matches by containment",
			query: Query{Genre: "Drama", Sort: SortDuration},
			want:  []string{"Bumi Manusia", "Gowes"},
		},
		{
			name:  "no match",
			query: Query{Term: "zzz"},
			want:  []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := titles(Filter(catalogue, tt.query))
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Fatalf("Filter() mismatch (-want +got):\n%s", diff)
			}
		})
	}

	assert.Equal(t, "Gowes", catalogue[0].Title, "input must not be reordered")
}

func TestGenres(t *testing.T) {
	want := []string{"Drama", "Sci-Fi", "Drama, Romance", "Horror"}
	if diff := cmp.Diff(want, Genres(catalogue)); diff != "" {
		t.Fatalf("Genres() mismatch (-want +got):\n%s", diff)
	}
}

func TestNowPlayingAndComingSoon(t *testing.T) {
	now := time.Date(2026, 10, 16, 20, 30, 0, 0, time.UTC)

	assert.Equal(t, []string{"Gowes", "Pengabdi Setan", "Agak Laen"}, titles(NowPlaying(catalogue, now)))

	upcoming := ComingSoon(catalogue, now)
	if assert.Len(t, upcoming, 1) {
		assert.Equal(t, "avatar", upcoming[0].Film.Title)
		assert.Equal(t, 16, upcoming[0].DaysLeft)
	}
}

func TestSortKeys(t *testing.T) {
	assert.Equal(t, SortTitle, ParseSort("Title"))
	assert.Equal(t, SortNewest, ParseSort("rating"))
	assert.Equal(t, SortTitle, SortNewest.Next())
	assert.Equal(t, SortNewest, SortDuration.Next())
	assert.Equal(t, 1, DaysBetween(time.Date(2026, 1, 1, 23, 0, 0, 0, time.UTC), time.Date(2026, 1, 2, 1, 0, 0, 0, time.UTC)))
}
