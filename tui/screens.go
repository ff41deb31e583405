package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/paginator"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"bioskop-cli/dashboard"
	"bioskop-cli/listing"
	"bioskop-cli/model"
	"bioskop-cli/search"
	"bioskop-cli/service"
	"bioskop-cli/session"
	"bioskop-cli/store"
)

// maxCataloguePages bounds how many pages the now playing and coming soon
// screens walk.
const maxCataloguePages = 20

type fetchedMsg struct {
	screen appState
	result listing.Result
}

type bookedMsg struct {
	film model.Film
	qty  int
	body any
	err  error
}

type actionMsg struct {
	screen appState
	info   string
	err    error
}

type profileMsg struct {
	session session.Session
	err     error
}

type statsMsg struct {
	stats dashboard.Stats
	err   error
}

type logoutMsg struct {
	err error
}

// resource returns the render-state resource behind a list screen, creating
// it on first use.
func (m appModel) resource(screen appState) *listing.Resource {
	if res, ok := m.resources[screen]; ok {
		return res
	}
	res := listing.NewResource(m.fetcher(screen), listing.WithStrict(m.strict))
	m.resources[screen] = res
	return res
}

func (m appModel) fetcher(screen appState) listing.Fetcher {
	films := m.services.Films
	bookings := m.services.Bookings
	switch screen {
	case stateFilms:
		return store.CachedFilmPages(m.apiURL, films.List, false, m.logger)
	case stateNowPlaying, stateComingSoon:
		return catalogue(store.CachedFilmPages(m.apiURL, films.List, false, m.logger), m.strict)
	case stateBookings:
		return func(ctx context.Context, _ int) (any, error) {
			return bookings.Mine(ctx)
		}
	case stateAdminFilms:
		return films.ListAdmin
	case stateAdminBookings:
		return bookings.All
	default:
		return func(context.Context, int) (any, error) {
			return nil, fmt.Errorf("%s: nothing to load", screen)
		}
	}
}

// catalogue walks every page of fetch and returns the records as one list.
func catalogue(fetch listing.Fetcher, strict bool) listing.Fetcher {
	return func(ctx context.Context, _ int) (any, error) {
		all := []any{}
		for page := 1; page <= maxCataloguePages; page++ {
			body, err := fetch(ctx, page)
			if err != nil {
				return nil, err
			}
			items, pagination, err := listing.NormalizeStrict(body)
			if err != nil && strict {
				return nil, err
			}
			for _, item := range items {
				all = append(all, map[string]any(item))
			}
			if pagination == nil || !pagination.HasPage(page+1) {
				break
			}
		}
		return all, nil
	}
}

// load issues a fetch for page of screen. The result comes back as a
// fetchedMsg and is dropped if another request was issued meanwhile.
func (m appModel) load(screen appState, page int) tea.Cmd {
	res := m.resource(screen)
	req := res.Begin(m.ctx, page)
	return tea.Batch(func() tea.Msg {
		return fetchedMsg{screen: screen, result: res.Run(req)}
	}, m.spinner.Tick)
}

// reload refreshes whatever screen is showing.
func (m appModel) reload(screen appState) tea.Cmd {
	switch screen {
	case stateProfile:
		manager := m.session
		return tea.Batch(func() tea.Msg {
			s, err := manager.Refresh(m.ctx)
			return profileMsg{session: s, err: err}
		}, m.spinner.Tick)
	case stateDashboard:
		films := m.services.Films
		bookings := m.services.Bookings
		return tea.Batch(func() tea.Msg {
			stats, err := dashboard.Load(m.ctx,
				func(ctx context.Context) (any, error) { return films.ListAdmin(ctx, 1) },
				func(ctx context.Context) (any, error) { return bookings.All(ctx, 1) },
			)
			return statsMsg{stats: stats, err: err}
		}, m.spinner.Tick)
	case stateFilms, stateNowPlaying, stateComingSoon:
		if err := store.ClearFilmCache(); err != nil {
			m.logger.Warn("clear film cache", "err", err)
		}
	}
	res, ok := m.resources[screen]
	if !ok {
		return nil
	}
	return m.load(screen, res.State().Page)
}

func (m appModel) turnPage(delta int) (appModel, tea.Cmd) {
	res, ok := m.resources[m.state]
	if !ok {
		return m, nil
	}
	target := currentPage(res.State()) + delta
	if err := res.CheckPage(target); err != nil {
		return m, nil
	}
	return m, m.load(m.state, target)
}

func currentPage(st listing.State) int {
	if st.Pagination != nil && st.Pagination.CurrentPage > 0 {
		return st.Pagination.CurrentPage
	}
	return st.Page
}

func (m appModel) applyFetched(msg fetchedMsg) (appModel, tea.Cmd) {
	res, ok := m.resources[msg.screen]
	if !ok || !res.Apply(msg.result) {
		return m, nil
	}
	if msg.result.Err != nil && service.IsUnauthorized(msg.result.Err) && screenAccess[msg.screen] != session.Public {
		m.refreshMenu()
		return m.redirectToLogin(msg.screen, "session expired")
	}

	st := res.State()
	films := model.DecodeAll[model.Film](st.Items)
	now := time.Now()
	// SetItems re-runs an applied filter asynchronously.
	var cmd tea.Cmd
	switch msg.screen {
	case stateFilms:
		m.search.genres = search.Genres(films)
		m.refreshFilmList()
	case stateNowPlaying:
		cmd = m.playingList.SetItems(buildFilmItems(search.NowPlaying(films, now)))
	case stateComingSoon:
		cmd = m.soonList.SetItems(buildUpcomingItems(search.ComingSoon(films, now)))
	case stateFilmDetail:
		if len(films) > 0 {
			m.film = films[0]
		}
	case stateBookings:
		cmd = m.bookingList.SetItems(buildBookingItems(model.DecodeAll[model.Booking](st.Items), false))
	case stateAdminFilms:
		cmd = m.adminFilmList.SetItems(buildAdminFilmItems(films))
	case stateAdminBookings:
		cmd = m.adminBookingList.SetItems(buildBookingItems(model.DecodeAll[model.Booking](st.Items), true))
	}
	return m, cmd
}

// openFilm shows the detail screen for f while its full record loads.
func (m appModel) openFilm(f model.Film, from appState) (appModel, tea.Cmd) {
	if old, ok := m.resources[stateFilmDetail]; ok {
		old.Close()
	}
	slug := f.Key()
	films := m.services.Films
	m.resources[stateFilmDetail] = listing.NewResource(func(ctx context.Context, _ int) (any, error) {
		body, err := films.Get(ctx, slug)
		if err != nil {
			return nil, err
		}
		rec, ok := listing.Single(body)
		if !ok {
			return nil, fmt.Errorf("film %s: %w", slug, listing.ErrUnrecognizedShape)
		}
		return []any{map[string]any(rec)}, nil
	}, listing.WithStrict(m.strict))

	m.film = f
	m.filmFrom = from
	m.qty = 1
	m.notice = ""
	m.state = stateFilmDetail
	return m, m.load(stateFilmDetail, 1)
}

func (m *appModel) setQty(qty int) {
	if qty < 1 {
		qty = 1
	}
	if qty > 10 {
		qty = 10
	}
	m.qty = qty
}

// book places the order for the film on screen. Anonymous users are sent to
// the login form and come back here afterwards.
func (m appModel) book() (appModel, tea.Cmd) {
	if m.busy {
		return m, nil
	}
	if decision := session.Allow(m.session.Current(), session.Authenticated); !decision.Allowed {
		return m.redirectToLogin(stateFilmDetail, decision.Reason)
	}
	req := model.BookingRequest{FilmId: m.film.Id.Int(), Quantity: m.qty}
	if err := m.validator.Struct(req); err != nil {
		m.setNotice(formMessage(err), true)
		return m, nil
	}
	m.busy = true
	m.notice = ""
	film, qty := m.film, m.qty
	bookings := m.services.Bookings
	return m, tea.Batch(func() tea.Msg {
		body, err := bookings.Create(m.ctx, req)
		return bookedMsg{film: film, qty: qty, body: body, err: err}
	}, m.spinner.Tick)
}

func (m appModel) applyBooked(msg bookedMsg) (appModel, tea.Cmd) {
	m.busy = false
	if msg.err != nil {
		if service.IsUnauthorized(msg.err) {
			m.refreshMenu()
			return m.redirectToLogin(stateFilmDetail, "session expired")
		}
		m.setNotice(listing.Message(msg.err), true)
		return m, nil
	}
	total := model.FormatRupiah(msg.film.Total(msg.qty))
	if rec, ok := listing.Single(msg.body); ok {
		if booking, err := model.Decode[model.Booking](rec); err == nil && !booking.Total.IsZero() {
			total = model.FormatRupiah(booking.Total)
		}
	}
	m.setNotice(fmt.Sprintf("Booked %d ticket(s) for %s. Total %s.", msg.qty, msg.film.DisplayTitle(), total), false)
	m.logger.Info("booking created", "film", msg.film.Id.Int(), "qty", msg.qty)
	return m, nil
}

func (m appModel) askDelete() (appModel, tea.Cmd, bool) {
	listPtr := m.activeList()
	screen := m.state
	switch item := listPtr.SelectedItem().(type) {
	case bookingItem:
		id := item.booking.Id.Int()
		bookings := m.services.Bookings
		prompt := fmt.Sprintf("Delete booking #%d?", id)
		info := fmt.Sprintf("Booking #%d deleted.", id)
		if screen == stateBookings {
			prompt = fmt.Sprintf("Cancel booking #%d for %s?", id, item.booking.FilmTitle())
			info = fmt.Sprintf("Booking #%d cancelled.", id)
		}
		m.confirm = &pendingAction{
			prompt: prompt,
			run: func() tea.Msg {
				return actionMsg{screen: screen, info: info, err: bookings.Delete(m.ctx, id)}
			},
		}
	case adminFilmItem:
		id := item.film.Id.Int()
		title := item.film.DisplayTitle()
		films := m.services.Films
		logger := m.logger
		m.confirm = &pendingAction{
			prompt: fmt.Sprintf("Delete film %q?", title),
			run: func() tea.Msg {
				err := films.Delete(m.ctx, id)
				if err == nil {
					if cerr := store.ClearFilmCache(); cerr != nil {
						logger.Warn("clear film cache", "err", cerr)
					}
				}
				return actionMsg{screen: screen, info: fmt.Sprintf("Film %q deleted.", title), err: err}
			},
		}
	}
	return m, nil, true
}

// cycleStatus moves the selected booking to the next status.
func (m appModel) cycleStatus() (appModel, tea.Cmd) {
	item, ok := m.adminBookingList.SelectedItem().(bookingItem)
	if !ok || m.busy {
		return m, nil
	}
	id := item.booking.Id.Int()
	update := model.BookingUpdate{Status: model.NextStatus(item.booking.StatusValue())}
	if err := m.validator.Struct(update); err != nil {
		m.setNotice(formMessage(err), true)
		return m, nil
	}
	m.busy = true
	bookings := m.services.Bookings
	return m, tea.Batch(func() tea.Msg {
		_, err := bookings.UpdateStatus(m.ctx, id, update.Status)
		return actionMsg{screen: stateAdminBookings, info: fmt.Sprintf("Booking #%d is now %s.", id, update.Status), err: err}
	}, m.spinner.Tick)
}

func (m appModel) applyAction(msg actionMsg) (appModel, tea.Cmd) {
	m.busy = false
	if msg.err != nil {
		if service.IsUnauthorized(msg.err) {
			m.refreshMenu()
			return m.redirectToLogin(msg.screen, "session expired")
		}
		m.setNotice(listing.Message(msg.err), true)
		return m, nil
	}
	m.setNotice(msg.info, false)
	if m.state != msg.screen {
		return m, nil
	}
	return m, m.load(msg.screen, m.resource(msg.screen).State().Page)
}

func (m appModel) logoutCmd() tea.Cmd {
	manager := m.session
	return func() tea.Msg {
		return logoutMsg{err: manager.Logout(m.ctx)}
	}
}

func (m appModel) listView(screen appState, l list.Model, empty string) string {
	res, ok := m.resources[screen]
	if !ok {
		return m.loadingView(screen)
	}
	st := res.State()
	switch st.Status {
	case listing.StatusLoading:
		return m.loadingView(screen)
	case listing.StatusError:
		return errorView(st.Err)
	case listing.StatusEmpty:
		return hint(empty)
	}
	if len(l.Items()) == 0 {
		return hint(empty)
	}
	return l.View() + pageView(st)
}

func (m appModel) loadingView(screen appState) string {
	title := "Loading"
	switch screen {
	case stateFilms, stateNowPlaying, stateComingSoon, stateAdminFilms:
		title = "Loading films"
	case stateFilmDetail:
		title = "Loading film"
	case stateBookings, stateAdminBookings:
		title = "Loading bookings"
	case stateProfile:
		title = "Loading profile"
	case stateDashboard:
		title = "Loading dashboard"
	}
	return fmt.Sprintf("%s %s\n\n%s", m.spinner.View(), title, hint("Fetching data..."))
}

func errorView(message string) string {
	return errorText(message) + "\n\n" + hint("Press r to retry or esc to go back.")
}

func pageView(st listing.State) string {
	if st.Pagination == nil || st.Pagination.LastPage <= 1 {
		return ""
	}
	p := paginator.New()
	p.Type = paginator.Dots
	p.TotalPages = st.Pagination.LastPage
	p.Page = currentPage(st) - 1
	line := "\n" + p.View() + "  " + hint(fmt.Sprintf("page %d of %d", currentPage(st), st.Pagination.LastPage))
	if st.Pagination.Total > 0 {
		line += hint(fmt.Sprintf(" • %d total", st.Pagination.Total))
	}
	return line
}

func (m appModel) filmDetailView() string {
	res, ok := m.resources[stateFilmDetail]
	if ok {
		st := res.State()
		if st.Status == listing.StatusError {
			return errorView(st.Err)
		}
		if st.Status == listing.StatusLoading && m.film.Title == "" {
			return m.loadingView(stateFilmDetail)
		}
	}
	f := m.film
	title := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212")).Render(f.DisplayTitle())

	facts := []string{}
	if f.Genre != "" {
		facts = append(facts, f.Genre)
	}
	if f.Duration.Int() > 0 {
		facts = append(facts, fmt.Sprintf("%d min", f.Duration.Int()))
	}
	if released, ok := f.Released(); ok {
		facts = append(facts, "Release "+released.Format("02 Jan 2006"))
	}

	width := 72
	if m.width > 0 && m.width-4 < width {
		width = m.width - 4
	}
	lines := []string{title}
	if len(facts) > 0 {
		lines = append(lines, hint(strings.Join(facts, " • ")))
	}
	lines = append(lines, "", fmt.Sprintf("Price: %s per ticket", model.FormatRupiah(f.Price)))
	if f.Description != "" {
		lines = append(lines, "", lipgloss.NewStyle().Width(width).Render(f.Description))
	}

	qty := lipgloss.NewStyle().Bold(true).Padding(0, 1).Border(lipgloss.RoundedBorder()).Render(strconv.Itoa(m.qty))
	order := lipgloss.JoinHorizontal(lipgloss.Center,
		"Tickets ", qty, "   Total ",
		lipgloss.NewStyle().Bold(true).Render(model.FormatRupiah(f.Total(m.qty))),
	)
	lines = append(lines, "", order)
	if m.busy {
		lines = append(lines, "", m.spinner.View()+" Booking...")
	}
	return strings.Join(lines, "\n")
}

func (m appModel) promoDetailView() string {
	p := m.promo
	lines := []string{
		lipgloss.NewStyle().Bold(true).Render(p.Title),
		hint(strings.ToUpper(p.Category)),
		"",
		p.Description,
		"",
		"Discount: " + lipgloss.NewStyle().Bold(true).Render(p.Discount),
		"Valid until: " + displayDate(p.ValidUntil),
	}
	if len(p.Terms) > 0 {
		lines = append(lines, "", "Terms:")
		for _, term := range p.Terms {
			lines = append(lines, "  • "+term)
		}
	}
	return strings.Join(lines, "\n")
}

func (m appModel) profileView() string {
	if m.profileErr != "" {
		return errorView(m.profileErr)
	}
	if m.busy && m.profile.Email == "" {
		return m.loadingView(stateProfile)
	}
	label := lipgloss.NewStyle().Width(8).Faint(true)
	role := m.profile.Role
	if role == "" {
		role = "-"
	}
	lines := []string{
		label.Render("Name") + m.profile.Name,
		label.Render("Email") + m.profile.Email,
		label.Render("Role") + role,
	}
	if m.busy {
		lines = append(lines, "", m.spinner.View()+" Refreshing...")
	}
	return strings.Join(lines, "\n")
}

func (m appModel) dashboardView() string {
	if m.statsErr != "" {
		return errorView(m.statsErr)
	}
	if m.stats == nil {
		return m.loadingView(stateDashboard)
	}
	card := lipgloss.NewStyle().
		Padding(0, 2).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("63")).
		Width(18)
	stat := func(label, value string) string {
		return card.Render(hint(label) + "\n" + lipgloss.NewStyle().Bold(true).Render(value))
	}
	row := lipgloss.JoinHorizontal(lipgloss.Top,
		stat("Films", strconv.Itoa(m.stats.Films)),
		stat("Bookings", strconv.Itoa(m.stats.Bookings)),
		stat("Customers", strconv.Itoa(m.stats.Users)),
		stat("Revenue", model.FormatRupiah(m.stats.Revenue)),
	)
	parts := []string{}
	for _, status := range model.BookingStatuses {
		parts = append(parts, fmt.Sprintf("%s %d", status, m.stats.ByStatus[status]))
	}
	return row + "\n" + hint("Bookings by status: "+strings.Join(parts, " • "))
}

func displayDate(value string) string {
	if t, ok := model.ParseDate(value); ok {
		return t.Format("02 Jan 2006")
	}
	if value == "" {
		return "-"
	}
	return value
}

type menuItem struct {
	title  string
	desc   string
	target appState
	logout bool
}

func (i menuItem) Title() string       { return i.title }
func (i menuItem) Description() string { return i.desc }
func (i menuItem) FilterValue() string { return strings.ToLower(i.title) }

func buildMenuItems(s session.Session) []list.Item {
	items := []list.Item{
		menuItem{title: "Now Playing", desc: "Films showing today", target: stateNowPlaying},
		menuItem{title: "Coming Soon", desc: "Upcoming releases", target: stateComingSoon},
		menuItem{title: "All Films", desc: "Search, filter by genre and sort", target: stateFilms},
		menuItem{title: "Promotions", desc: "Current deals", target: statePromos},
		menuItem{title: "My Bookings", desc: "Tickets you have booked", target: stateBookings},
	}
	if s.IsAuthenticated() {
		items = append(items, menuItem{title: "Profile", desc: s.Name(), target: stateProfile})
	}
	if s.IsAdmin() {
		items = append(items,
			menuItem{title: "Manage Films", desc: "Back office", target: stateAdminFilms},
			menuItem{title: "Manage Bookings", desc: "Back office", target: stateAdminBookings},
			menuItem{title: "Dashboard", desc: "Films, bookings, customers and revenue", target: stateDashboard},
		)
	}
	if s.IsAuthenticated() {
		return append(items, menuItem{title: "Log out", desc: "End this session", logout: true})
	}
	return append(items,
		menuItem{title: "Log in", desc: "Sign in to book tickets", target: stateLogin},
		menuItem{title: "Register", desc: "Create an account", target: stateRegister},
	)
}

type filmItem struct {
	film     model.Film
	upcoming bool
	daysLeft int
}

func (f filmItem) Title() string {
	return f.film.DisplayTitle()
}

func (f filmItem) Description() string {
	parts := []string{}
	if f.film.Genre != "" {
		parts = append(parts, f.film.Genre)
	}
	if f.film.Duration.Int() > 0 {
		parts = append(parts, fmt.Sprintf("%d min", f.film.Duration.Int()))
	}
	parts = append(parts, model.FormatRupiah(f.film.Price))
	if f.upcoming {
		switch f.daysLeft {
		case 1:
			parts = append(parts, "tomorrow")
		default:
			parts = append(parts, fmt.Sprintf("in %d days", f.daysLeft))
		}
	}
	return strings.Join(parts, " • ")
}

func (f filmItem) FilterValue() string {
	return strings.ToLower(strings.Join([]string{f.film.Title, f.film.Genre}, " "))
}

func buildFilmItems(films []model.Film) []list.Item {
	items := make([]list.Item, 0, len(films))
	for _, f := range films {
		items = append(items, filmItem{film: f})
	}
	return items
}

func buildUpcomingItems(upcoming []search.Upcoming) []list.Item {
	items := make([]list.Item, 0, len(upcoming))
	for _, u := range upcoming {
		items = append(items, filmItem{film: u.Film, upcoming: true, daysLeft: u.DaysLeft})
	}
	return items
}

type adminFilmItem struct {
	film model.Film
}

func (f adminFilmItem) Title() string {
	return fmt.Sprintf("#%d %s", f.film.Id.Int(), f.film.DisplayTitle())
}

func (f adminFilmItem) Description() string {
	status := "Active"
	if !bool(f.film.Active) {
		status = "Inactive"
	}
	return strings.Join([]string{status, model.FormatRupiah(f.film.Price), displayDate(f.film.ReleaseDate)}, " • ")
}

func (f adminFilmItem) FilterValue() string {
	return strings.ToLower(f.film.Title + " " + f.film.Genre)
}

func buildAdminFilmItems(films []model.Film) []list.Item {
	items := make([]list.Item, 0, len(films))
	for _, f := range films {
		items = append(items, adminFilmItem{film: f})
	}
	return items
}

type bookingItem struct {
	booking model.Booking
	admin   bool
}

func (b bookingItem) Title() string {
	return fmt.Sprintf("#%d %s", b.booking.Id.Int(), b.booking.FilmTitle())
}

func (b bookingItem) Description() string {
	parts := []string{
		fmt.Sprintf("%d ticket(s)", b.booking.Quantity.Int()),
		model.FormatRupiah(b.booking.Amount()),
		b.booking.StatusLabel(),
	}
	if b.admin {
		if b.booking.User != nil && b.booking.User.Name != "" {
			parts = append(parts, b.booking.User.Name)
		} else if id := b.booking.OwnerId(); id > 0 {
			parts = append(parts, fmt.Sprintf("user #%d", id))
		}
	}
	return strings.Join(parts, " • ")
}

func (b bookingItem) FilterValue() string {
	fields := []string{b.booking.FilmTitle(), b.booking.StatusValue(), strconv.Itoa(b.booking.Id.Int())}
	if b.booking.User != nil {
		fields = append(fields, b.booking.User.Name)
	}
	return strings.ToLower(strings.Join(fields, " "))
}

func buildBookingItems(bookings []model.Booking, admin bool) []list.Item {
	items := make([]list.Item, 0, len(bookings))
	for _, b := range bookings {
		items = append(items, bookingItem{booking: b, admin: admin})
	}
	return items
}

type promoItem struct {
	promo model.Promotion
}

func (p promoItem) Title() string {
	return p.promo.Title
}

func (p promoItem) Description() string {
	return fmt.Sprintf("%s • %s • until %s", p.promo.Description, p.promo.Discount, displayDate(p.promo.ValidUntil))
}

func (p promoItem) FilterValue() string {
	return strings.ToLower(strings.Join([]string{p.promo.Title, p.promo.Category, p.promo.Description}, " "))
}

func buildPromoItems(promos []model.Promotion) []list.Item {
	items := make([]list.Item, 0, len(promos))
	for _, p := range promos {
		items = append(items, promoItem{promo: p})
	}
	return items
}
