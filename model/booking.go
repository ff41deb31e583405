package model

import (
	"strings"

	"github.com/shopspring/decimal"
)

const (
	BookingPending   = "pending"
	BookingConfirmed = "confirmed"
	BookingCancelled = "cancelled"
)

// BookingStatuses lists the statuses an admin may assign, in display order.
var BookingStatuses = []string{BookingPending, BookingConfirmed, BookingCancelled}

type Booking struct {
	Id        FlexInt         `json:"id"`
	FilmId    FlexInt         `json:"film_id"`
	UserId    FlexInt         `json:"user_id"`
	Quantity  FlexInt         `json:"jumlah_tiket"`
	Total     decimal.Decimal `json:"total_harga"`
	Status    string          `json:"status"`
	Film      *Film           `json:"film"`
	User      *User           `json:"user"`
	CreatedAt string          `json:"created_at"`
}

// Amount is total_harga, falling back to the film price when the server left
// it empty.
func (b Booking) Amount() decimal.Decimal {
	if !b.Total.IsZero() {
		return b.Total
	}
	if b.Film != nil {
		qty := b.Quantity.Int()
		if qty < 1 {
			qty = 1
		}
		return b.Film.Total(qty)
	}
	return decimal.Zero
}

// StatusValue is the normalized status. Bookings without one are confirmed.
func (b Booking) StatusValue() string {
	status := strings.ToLower(strings.TrimSpace(b.Status))
	if status == "" {
		return BookingConfirmed
	}
	return status
}

// Confirmed reports whether the server marked the booking confirmed. Unlike
// StatusValue, a blank status does not count.
func (b Booking) Confirmed() bool {
	return strings.ToLower(strings.TrimSpace(b.Status)) == BookingConfirmed
}

func (b Booking) StatusLabel() string {
	status := b.StatusValue()
	return strings.ToUpper(status[:1]) + status[1:]
}

func (b Booking) FilmTitle() string {
	if b.Film != nil {
		return b.Film.DisplayTitle()
	}
	return "Film #" + itoa(b.FilmId.Int())
}

// OwnerId is the booking's user id from either user_id or the nested user.
func (b Booking) OwnerId() int {
	if b.User != nil && b.User.Id != 0 {
		return b.User.Id.Int()
	}
	return b.UserId.Int()
}

// NextStatus cycles through BookingStatuses.
func NextStatus(current string) string {
	for i, status := range BookingStatuses {
		if strings.EqualFold(status, current) {
			return BookingStatuses[(i+1)%len(BookingStatuses)]
		}
	}
	return BookingStatuses[0]
}

// ValidStatus reports whether status is one the API accepts.
func ValidStatus(status string) bool {
	for _, s := range BookingStatuses {
		if s == status {
			return true
		}
	}
	return false
}
