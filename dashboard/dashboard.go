package dashboard

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"bioskop-cli/listing"
	"bioskop-cli/model"
)

// Stats summarises the back office.
type Stats struct {
	Films    int
	Bookings int
	Users    int
	Revenue  decimal.Decimal
	ByStatus map[string]int
}

// Fetcher returns a raw list response.
type Fetcher func(ctx context.Context) (any, error)

// Load fetches films and bookings concurrently and computes the stats.
func Load(ctx context.Context, films, bookings Fetcher) (Stats, error) {
	var filmsBody, bookingsBody any
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		body, err := films(ctx)
		if err != nil {
			return fmt.Errorf("load films: %w", err)
		}
		filmsBody = body
		return nil
	})
	g.Go(func() error {
		body, err := bookings(ctx)
		if err != nil {
			return fmt.Errorf("load bookings: %w", err)
		}
		bookingsBody = body
		return nil
	})
	if err := g.Wait(); err != nil {
		return Stats{}, err
	}
	return Compute(filmsBody, bookingsBody), nil
}

// Compute derives the stats from raw films and bookings responses. Counts use
// the pagination total when the server reports one; users and revenue only
// see the bookings on the fetched page. Revenue counts bookings the server
// marked confirmed; a blank status is labelled confirmed but earns nothing.
func Compute(filmsBody, bookingsBody any) Stats {
	filmItems, filmPage := listing.Normalize(filmsBody)
	bookingItems, bookingPage := listing.Normalize(bookingsBody)

	stats := Stats{
		Films:    count(len(filmItems), filmPage),
		Bookings: count(len(bookingItems), bookingPage),
		Revenue:  decimal.Zero,
		ByStatus: map[string]int{},
	}

	users := map[int]bool{}
	for _, b := range model.DecodeAll[model.Booking](bookingItems) {
		if id := b.OwnerId(); id > 0 {
			users[id] = true
		}
		stats.ByStatus[b.StatusValue()]++
		if b.Confirmed() {
			stats.Revenue = stats.Revenue.Add(b.Total)
		}
	}
	stats.Users = len(users)
	return stats
}

func count(n int, p *listing.Pagination) int {
	if p != nil && p.Total > 0 {
		return p.Total
	}
	return n
}
