package cmd

import (
	"fmt"
	"io"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"bioskop-cli/dashboard"
	"bioskop-cli/listing"
	"bioskop-cli/model"
	"bioskop-cli/search"
	"bioskop-cli/validate"
)

func newTable(out io.Writer, header table.Row) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(out)
	t.AppendHeader(header)
	t.SetStyle(table.StyleRounded)
	return t
}

func renderFilms(out io.Writer, films []model.Film, admin bool) {
	header := table.Row{"ID", "Title", "Genre", "Duration", "Price", "Release"}
	if admin {
		header = append(header, "Status")
	}
	t := newTable(out, header)
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, WidthMax: 32},
		{Number: 3, WidthMax: 18},
		{Number: 5, Align: text.AlignRight},
	})
	for _, f := range films {
		row := table.Row{f.Id.Int(), f.DisplayTitle(), orDash(f.Genre), duration(f), model.FormatRupiah(f.Price), releaseDate(f)}
		if admin {
			status := "Active"
			if !bool(f.Active) {
				status = "Inactive"
			}
			row = append(row, status)
		}
		t.AppendRow(row)
	}
	t.Render()
}

func renderUpcoming(out io.Writer, upcoming []search.Upcoming) {
	t := newTable(out, table.Row{"Title", "Genre", "Release", "Days left"})
	for _, u := range upcoming {
		t.AppendRow(table.Row{u.Film.DisplayTitle(), orDash(u.Film.Genre), releaseDate(u.Film), u.DaysLeft})
	}
	t.Render()
}

func renderFilm(out io.Writer, f model.Film, qty int) {
	t := table.NewWriter()
	t.SetOutputMirror(out)
	t.SetStyle(table.StyleLight)
	t.SetTitle(f.DisplayTitle())
	t.AppendRows([]table.Row{
		{"Slug", orDash(f.Slug)},
		{"Genre", orDash(f.Genre)},
		{"Duration", duration(f)},
		{"Release", releaseDate(f)},
		{"Price", model.FormatRupiah(f.Price)},
	})
	if f.Description != "" {
		t.AppendRow(table.Row{"Synopsis", text.WrapSoft(f.Description, 60)})
	}
	if qty > 0 {
		t.AppendSeparator()
		t.AppendRow(table.Row{fmt.Sprintf("Total (%d)", qty), model.FormatRupiah(f.Total(qty))})
	}
	t.Render()
}

func renderBookings(out io.Writer, bookings []model.Booking, admin bool) {
	header := table.Row{"ID", "Film", "Tickets", "Total", "Status", "Booked"}
	if admin {
		header = table.Row{"ID", "User", "Film", "Tickets", "Total", "Status", "Booked"}
	}
	t := newTable(out, header)
	for _, b := range bookings {
		booked := "-"
		if created, ok := model.ParseDate(b.CreatedAt); ok {
			booked = created.Local().Format("02 Jan 2006 15:04")
		}
		row := table.Row{b.Id.Int(), b.FilmTitle(), b.Quantity.Int(), model.FormatRupiah(b.Amount()), b.StatusLabel(), booked}
		if admin {
			user := "#" + strconv.Itoa(b.OwnerId())
			if b.User != nil && b.User.Name != "" {
				user = b.User.Name
			}
			row = append(table.Row{b.Id.Int(), user}, row[1:]...)
		}
		t.AppendRow(row)
	}
	t.Render()
}

func renderPromotions(out io.Writer, promos []model.Promotion) {
	t := newTable(out, table.Row{"Category", "Promotion", "Discount", "Valid until"})
	t.SetColumnConfigs([]table.ColumnConfig{{Number: 2, WidthMax: 48}})
	for _, p := range promos {
		until := p.ValidUntil
		if d, ok := model.ParseDate(p.ValidUntil); ok {
			until = d.Format("02 Jan 2006")
		}
		details := p.Title + "\n" + text.WrapSoft(p.Description, 46)
		for _, term := range p.Terms {
			details += "\n- " + term
		}
		t.AppendRow(table.Row{p.Category, details, p.Discount, until})
		t.AppendSeparator()
	}
	t.Render()
}

func renderStats(out io.Writer, stats dashboard.Stats) {
	t := newTable(out, table.Row{"Metric", "Value"})
	t.SetColumnConfigs([]table.ColumnConfig{{Number: 2, Align: text.AlignRight}})
	t.AppendRows([]table.Row{
		{"Films", stats.Films},
		{"Bookings", stats.Bookings},
		{"Customers", stats.Users},
		{"Revenue (confirmed)", model.FormatRupiah(stats.Revenue)},
	})
	t.AppendSeparator()
	for _, status := range model.BookingStatuses {
		t.AppendRow(table.Row{"Bookings " + status, stats.ByStatus[status]})
	}
	t.Render()
}

func renderPage(out io.Writer, st listing.State, noun string) {
	if st.Pagination == nil {
		return
	}
	p := st.Pagination
	last := p.LastPage
	if last < 1 {
		last = 1
	}
	fmt.Fprintf(out, "Page %d of %d", p.CurrentPage, last)
	if p.Total > 0 {
		fmt.Fprintf(out, " (%d %s)", p.Total, noun)
	}
	fmt.Fprintln(out)
}

func renderErrors(out io.Writer, errs validate.Errors) {
	for _, fe := range errs {
		fmt.Fprintf(out, "  %s: %s\n", fe.Field, fe.Message)
	}
}

func duration(f model.Film) string {
	if f.Duration.Int() <= 0 {
		return "-"
	}
	return fmt.Sprintf("%d min", f.Duration.Int())
}

func releaseDate(f model.Film) string {
	if t, ok := f.Released(); ok {
		return t.Format("02 Jan 2006")
	}
	return "-"
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
