package model

import (
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

type Film struct {
	Id          FlexInt         `json:"id"`
	Title       string          `json:"judul"`
	Slug        string          `json:"slug"`
	Description string          `json:"deskripsi"`
	Genre       string          `json:"genre"`
	Price       decimal.Decimal `json:"harga_tiket"`
	ReleaseDate string          `json:"tanggal_rilis"`
	Duration    FlexInt         `json:"durasi"`
	Active      FlexBool        `json:"is_active"`
	PosterURL   string          `json:"poster_url"`
	CreatedAt   string          `json:"created_at"`
}

// Key is the path segment used to open the film detail.
func (f Film) Key() string {
	if f.Slug != "" {
		return f.Slug
	}
	return strconv.Itoa(f.Id.Int())
}

func (f Film) DisplayTitle() string {
	if f.Title == "" {
		return "Untitled Movie"
	}
	return f.Title
}

func (f Film) Released() (time.Time, bool) {
	return ParseDate(f.ReleaseDate)
}

func (f Film) Created() time.Time {
	t, _ := ParseDate(f.CreatedAt)
	return t
}

// Total is the display price for qty tickets; the server computes the charge.
func (f Film) Total(qty int) decimal.Decimal {
	return f.Price.Mul(decimal.NewFromInt(int64(qty)))
}

// FormatRupiah renders an amount as "Rp 50.000".
func FormatRupiah(amount decimal.Decimal) string {
	whole := amount.Round(0).StringFixed(0)
	negative := false
	if len(whole) > 0 && whole[0] == '-' {
		negative = true
		whole = whole[1:]
	}
	var out []byte
	for i := range len(whole) {
		if i > 0 && (len(whole)-i)%3 == 0 {
			out = append(out, '.')
		}
		out = append(out, whole[i])
	}
	if negative {
		return "Rp -" + string(out)
	}
	return "Rp " + string(out)
}
