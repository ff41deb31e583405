package dashboard

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func booking(id, user float64, status string, total any) map[string]any {
	return map[string]any{"id": id, "user": map[string]any{"id": user}, "status": status, "total_harga": total}
}

func TestCompute(t *testing.T) {
	films := map[string]any{
		"data": []any{map[string]any{"id": 1.0}, map[string]any{"id": 2.0}},
		"meta": map[string]any{"current_page": 1.0, "last_page": 3.0, "total": 25.0},
	}
	bookings := []any{
		booking(1, 7, "confirmed", "50000.00"),
		booking(2, 7, "pending", 40000.0),
		booking(3, 8, "Confirmed", 45000.0),
		booking(4, 9, "cancelled", 10000.0),
		map[string]any{"id": 5.0, "user_id": 10.0, "status": "confirmed"},
	}

	stats := Compute(films, bookings)
	assert.Equal(t, 25, stats.Films)
	assert.Equal(t, 5, stats.Bookings)
	assert.Equal(t, 4, stats.Users)
	assert.True(t, stats.Revenue.Equal(decimal.NewFromInt(95000)), "revenue %s", stats.Revenue)
	assert.Equal(t, map[string]int{"confirmed": 3, "pending": 1, "cancelled": 1}, stats.ByStatus)
}

func TestComputeRevenueNeedsExplicitConfirmation(t *testing.T) {
	bookings := []any{
		booking(1, 7, "", 70000.0),
		map[string]any{"id": 2.0, "user_id": 8.0, "total_harga": "30000.00"},
		booking(3, 9, " CONFIRMED ", 20000.0),
	}

	stats := Compute(nil, bookings)
	assert.True(t, stats.Revenue.Equal(decimal.NewFromInt(20000)), "revenue %s", stats.Revenue)
	assert.Equal(t, map[string]int{"confirmed": 3}, stats.ByStatus)
}

func TestComputeUnrecognizedShapes(t *testing.T) {
	stats := Compute(nil, "oops")
	assert.Zero(t, stats.Films)
	assert.Zero(t, stats.Bookings)
	assert.Zero(t, stats.Users)
	assert.True(t, stats.Revenue.IsZero())
}

func TestLoad(t *testing.T) {
	films := func(ctx context.Context) (any, error) {
		return []any{map[string]any{"id": 1.0}}, nil
	}
	bookings := func(ctx context.Context) (any, error) {
		return map[string]any{"data": []any{booking(1, 3, "confirmed", 1000.0)}}, nil
	}

	stats, err := Load(context.Background(), films, bookings)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Films)
	assert.Equal(t, 1, stats.Users)

	failing := func(ctx context.Context) (any, error) {
		return nil, errors.New("forbidden")
	}
	_, err = Load(context.Background(), films, failing)
	assert.EqualError(t, err, "load bookings: forbidden")
}
