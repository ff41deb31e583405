package tui

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"runtime/debug"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"bioskop-cli/config"
	"bioskop-cli/dashboard"
	"bioskop-cli/listing"
	"bioskop-cli/model"
	"bioskop-cli/service"
	"bioskop-cli/session"
	"bioskop-cli/validate"
)

type appState int

const (
	stateHome appState = iota
	stateFilms
	stateNowPlaying
	stateComingSoon
	stateFilmDetail
	statePromos
	statePromoDetail
	stateLogin
	stateRegister
	stateForgotPassword
	stateResetPassword
	stateBookings
	stateProfile
	stateAdminFilms
	stateAdminBookings
	stateDashboard
	stateRecovery
)

var stateNames = map[appState]string{
	stateHome:           "home",
	stateFilms:          "films",
	stateNowPlaying:     "now-playing",
	stateComingSoon:     "coming-soon",
	stateFilmDetail:     "film",
	statePromos:         "promos",
	statePromoDetail:    "promo",
	stateLogin:          "login",
	stateRegister:       "register",
	stateForgotPassword: "forgot-password",
	stateResetPassword:  "reset-password",
	stateBookings:       "bookings",
	stateProfile:        "profile",
	stateAdminFilms:     "admin-films",
	stateAdminBookings:  "admin-bookings",
	stateDashboard:      "dashboard",
	stateRecovery:       "recovery",
}

func (s appState) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return "unknown"
}

// screenAccess lists the guarded screens; anything missing is public.
var screenAccess = map[appState]session.Access{
	stateBookings:      session.Authenticated,
	stateProfile:       session.Authenticated,
	stateAdminFilms:    session.Admin,
	stateAdminBookings: session.Admin,
	stateDashboard:     session.Admin,
}

// Deps is the wiring the TUI shares with the command line.
type Deps struct {
	Services    service.Services
	Session     *session.Manager
	Validator   *validate.Validator
	Logger      *slog.Logger
	Strict      bool
	SearchDelay time.Duration
	APIURL      string
}

type appModel struct {
	services    service.Services
	session     *session.Manager
	validator   *validate.Validator
	logger      *slog.Logger
	strict      bool
	searchDelay time.Duration
	apiURL      string
	ctx         context.Context

	state  appState
	width  int
	height int

	notice    string
	noticeBad bool

	// afterLogin is the guarded screen the user was redirected from.
	afterLogin    appState
	afterLoginSet bool

	resources map[appState]*listing.Resource

	menuList         list.Model
	filmList         list.Model
	playingList      list.Model
	soonList         list.Model
	promoList        list.Model
	bookingList      list.Model
	adminFilmList    list.Model
	adminBookingList list.Model

	search searchBox

	film     model.Film
	filmFrom appState
	qty      int
	promo    model.Promotion

	loginForm    form
	registerForm form
	forgotForm   form
	resetForm    form

	profile    model.User
	profileErr string
	stats      *dashboard.Stats
	statsErr   string

	confirm *pendingAction
	busy    bool

	crash        string
	crashedState appState

	spinner spinner.Model
}

type pendingAction struct {
	prompt string
	run    tea.Cmd
}

func New(deps Deps) tea.Model {
	logger := deps.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	validator := deps.Validator
	if validator == nil {
		validator = validate.New()
	}
	manager := deps.Session
	if manager == nil {
		manager = session.NewManager(session.WithLogger(logger), session.WithValidator(validator))
	}
	delay := deps.SearchDelay
	if delay <= 0 {
		delay = config.DefaultSearchDelay
	}

	m := appModel{
		services:    deps.Services,
		session:     manager,
		validator:   validator,
		logger:      logger,
		strict:      deps.Strict,
		searchDelay: delay,
		apiURL:      deps.APIURL,
		ctx:         context.Background(),
		state:       stateHome,
		resources:   make(map[appState]*listing.Resource),
		qty:         1,
	}

	m.menuList = newList("Bioskop")
	m.menuList.SetFilteringEnabled(false)
	m.filmList = newList("All Films")
	m.filmList.SetFilteringEnabled(false)
	m.playingList = newList("Now Playing")
	m.soonList = newList("Coming Soon")
	m.promoList = newList("Promotions")
	m.bookingList = newList("My Bookings")
	m.adminFilmList = newList("Manage Films")
	m.adminBookingList = newList("Manage Bookings")

	m.search = newSearchBox()
	m.loginForm = newLoginForm()
	m.registerForm = newRegisterForm()
	m.forgotForm = newForgotForm()
	m.resetForm = newResetForm()

	m.refreshMenu()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("5"))
	m.spinner = sp

	return m
}

func (m appModel) Init() tea.Cmd {
	return m.spinner.Tick
}

// Update recovers from a panic in any handler and shows the recovery screen
// with the model as it was before the message.
func (m appModel) Update(msg tea.Msg) (next tea.Model, cmd tea.Cmd) {
	defer func() {
		if r := recover(); r != nil {
			m.logger.Error("recovered from panic", "panic", r, "screen", m.state, "stack", string(debug.Stack()))
			if m.state != stateRecovery {
				m.crashedState = m.state
			}
			m.crash = fmt.Sprint(r)
			m.state = stateRecovery
			m.confirm = nil
			m.busy = false
			next, cmd = m, nil
		}
	}()
	return m.update(msg)
}

func (m appModel) update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resizeLists()
		return m, nil

	case tea.KeyMsg:
		next, cmd, handled := m.handleKey(msg)
		if handled {
			return next, cmd
		}
		m = next
		// fallthrough to component update

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		if m.isLoading() {
			return m, cmd
		}
		return m, nil

	case fetchedMsg:
		return m.applyFetched(msg)

	case searchTickMsg:
		return m.applySearchTick(msg), nil

	case authMsg:
		return m.applyAuth(msg)

	case logoutMsg:
		m.busy = false
		if msg.err != nil {
			m.logger.Warn("server logout failed; local session cleared", "err", msg.err)
		}
		m.refreshMenu()
		m.setNotice("Signed out.", false)
		return m, nil

	case bookedMsg:
		return m.applyBooked(msg)

	case actionMsg:
		return m.applyAction(msg)

	case profileMsg:
		m.busy = false
		if msg.err != nil {
			if service.IsUnauthorized(msg.err) {
				return m.redirectToLogin(stateProfile, "session expired")
			}
			m.profileErr = listing.Message(msg.err)
			return m, nil
		}
		m.profileErr = ""
		m.profile, _ = msg.session.User()
		return m, nil

	case statsMsg:
		m.busy = false
		if msg.err != nil {
			if service.IsUnauthorized(msg.err) {
				return m.redirectToLogin(stateDashboard, "session expired")
			}
			m.statsErr = listing.Message(msg.err)
			return m, nil
		}
		stats := msg.stats
		m.stats = &stats
		m.statsErr = ""
		return m, nil
	}

	var cmd tea.Cmd
	if f := m.activeForm(); f != nil {
		cmd = f.updateFocused(msg)
		return m, cmd
	}
	if listPtr := m.activeList(); listPtr != nil {
		*listPtr, cmd = listPtr.Update(msg)
	}
	return m, cmd
}

// View falls back to a plain message when rendering panics; esc still works.
func (m appModel) View() (out string) {
	defer func() {
		if r := recover(); r != nil {
			m.logger.Error("recovered from panic in view", "panic", r, "screen", m.state, "stack", string(debug.Stack()))
			out = errorText("Something went wrong drawing this screen.") + "\n\n" + hint("Press esc to go back or ctrl+c to quit.")
		}
	}()
	return m.headerView() + "\n\n" + m.bodyView()
}

func (m appModel) bodyView() string {
	if m.confirm != nil {
		return m.confirmView()
	}
	switch m.state {
	case stateHome:
		return m.menuList.View()
	case stateFilms:
		return m.filmsView()
	case stateNowPlaying:
		return m.listView(stateNowPlaying, m.playingList, "No films are playing right now.")
	case stateComingSoon:
		return m.listView(stateComingSoon, m.soonList, "No upcoming releases yet.")
	case stateFilmDetail:
		return m.filmDetailView()
	case statePromos:
		return m.promoList.View()
	case statePromoDetail:
		return m.promoDetailView()
	case stateLogin:
		return m.loginForm.view(m.spinner.View())
	case stateRegister:
		return m.registerForm.view(m.spinner.View())
	case stateForgotPassword:
		return m.forgotForm.view(m.spinner.View())
	case stateResetPassword:
		return m.resetForm.view(m.spinner.View())
	case stateBookings:
		return m.listView(stateBookings, m.bookingList, "You have no bookings yet.")
	case stateProfile:
		return m.profileView()
	case stateAdminFilms:
		return m.listView(stateAdminFilms, m.adminFilmList, "No films yet.")
	case stateAdminBookings:
		return m.listView(stateAdminBookings, m.adminBookingList, "No bookings yet.")
	case stateDashboard:
		return m.dashboardView()
	case stateRecovery:
		return m.recoveryView()
	default:
		return ""
	}
}

func (m appModel) headerView() string {
	title := lipgloss.NewStyle().Bold(true).Render("Bioskop")
	sub := []string{}
	current := m.session.Current()
	if current.IsAuthenticated() {
		who := "Signed in as " + current.Name()
		if current.IsAdmin() {
			who += " (admin)"
		}
		sub = append(sub, who)
	} else {
		sub = append(sub, "Guest")
	}
	if m.apiURL != "" {
		sub = append(sub, m.apiURL)
	}
	meta := "\n" + lipgloss.NewStyle().Faint(true).Render(strings.Join(sub, " • "))

	noticeLine := ""
	if m.notice != "" {
		if m.noticeBad {
			noticeLine = "\n" + errorText(m.notice)
		} else {
			noticeLine = "\n" + okText(m.notice)
		}
	}
	filterLine := ""
	if listPtr := m.activeList(); listPtr != nil && listPtr.FilteringEnabled() {
		if filter := listPtr.FilterValue(); filter != "" {
			filterLine = "\n" + hint(fmt.Sprintf("Filter: %s", filter))
		}
	}
	return title + meta + noticeLine + filterLine + "\n" + hint(m.hints())
}

func (m appModel) hints() string {
	if m.confirm != nil {
		return "y confirm • n cancel"
	}
	switch m.state {
	case stateHome:
		return "ctrl+c quit • enter open • q quit"
	case stateFilms:
		return "ctrl+c quit • esc back • type to search • ctrl+g genre • ctrl+s sort • ctrl+n/ctrl+p page • ctrl+r reload • enter details"
	case stateNowPlaying, stateComingSoon:
		return "ctrl+c quit • esc back • type to filter • ctrl+r reload • enter details"
	case stateFilmDetail:
		return "ctrl+c quit • esc back • +/- tickets • enter book"
	case statePromos:
		return "ctrl+c quit • esc back • type to filter • enter details"
	case stateLogin:
		return "ctrl+c quit • esc back • tab next field • enter sign in • ctrl+o register • ctrl+f forgot password"
	case stateRegister:
		return "ctrl+c quit • esc back • tab next field • enter create account"
	case stateForgotPassword:
		return "ctrl+c quit • esc back • enter send token • ctrl+t I have a token"
	case stateResetPassword:
		return "ctrl+c quit • esc back • tab next field • enter reset password"
	case stateBookings:
		return "ctrl+c quit • esc back • type to filter • ctrl+x cancel booking • ctrl+r reload"
	case stateProfile, stateDashboard:
		return "ctrl+c quit • esc back • r reload"
	case stateAdminFilms:
		return "ctrl+c quit • esc back • type to filter • ctrl+x delete • ctrl+n/ctrl+p page • ctrl+r reload"
	case stateAdminBookings:
		return "ctrl+c quit • esc back • type to filter • ctrl+u next status • ctrl+x delete • ctrl+n/ctrl+p page • ctrl+r reload"
	case stateRecovery:
		return "ctrl+c quit • enter try again • h go home"
	default:
		return "ctrl+c quit • esc back"
	}
}

func (m appModel) handleKey(msg tea.KeyMsg) (appModel, tea.Cmd, bool) {
	key := msg.String()
	if key == "ctrl+c" {
		return m, tea.Quit, true
	}
	if m.confirm != nil {
		return m.answerConfirm(key)
	}
	if key == "r" && m.showingError() {
		return m, m.reload(m.state), true
	}

	switch m.state {
	case stateRecovery:
		return m.handleRecoveryKey(key)
	case stateLogin, stateRegister, stateForgotPassword, stateResetPassword:
		return m.handleFormKey(msg)
	case stateFilms:
		if next, cmd, ok := m.handleSearchKey(msg); ok {
			return next, cmd, true
		}
	}

	if m.handleFilterInput(msg) {
		return m, nil, true
	}

	switch key {
	case "esc":
		if listPtr := m.activeList(); listPtr != nil {
			if listPtr.SettingFilter() || listPtr.IsFiltered() {
				listPtr.ResetFilter()
				return m, nil, true
			}
		}
		next, cmd := m.goBack()
		return next, cmd, true
	case "q":
		if listPtr := m.activeList(); listPtr == nil || !listPtr.FilteringEnabled() {
			return m, tea.Quit, true
		}
	case "ctrl+r":
		if _, ok := m.resources[m.state]; ok {
			return m, m.reload(m.state), true
		}
	case "ctrl+n":
		next, cmd := m.turnPage(1)
		return next, cmd, true
	case "ctrl+p":
		next, cmd := m.turnPage(-1)
		return next, cmd, true
	}

	switch m.state {
	case stateFilmDetail:
		switch key {
		case "+", "right", "l":
			m.setQty(m.qty + 1)
			return m, nil, true
		case "-", "left", "h":
			m.setQty(m.qty - 1)
			return m, nil, true
		case "enter":
			next, cmd := m.book()
			return next, cmd, true
		}
	case stateProfile, stateDashboard:
		if key == "r" {
			return m, m.reload(m.state), true
		}
	case stateBookings, stateAdminFilms, stateAdminBookings:
		switch key {
		case "ctrl+x":
			return m.askDelete()
		case "ctrl+u":
			if m.state == stateAdminBookings {
				next, cmd := m.cycleStatus()
				return next, cmd, true
			}
		}
	}

	if msg.Type == tea.KeyEnter {
		switch m.state {
		case stateHome:
			item, ok := m.menuList.SelectedItem().(menuItem)
			if !ok {
				return m, nil, true
			}
			if item.logout {
				return m, m.logoutCmd(), true
			}
			next, cmd := m.open(item.target)
			return next, cmd, true
		case stateFilms, stateNowPlaying, stateComingSoon:
			item, ok := m.activeList().SelectedItem().(filmItem)
			if !ok {
				return m, nil, true
			}
			next, cmd := m.openFilm(item.film, m.state)
			return next, cmd, true
		case statePromos:
			item, ok := m.promoList.SelectedItem().(promoItem)
			if !ok {
				return m, nil, true
			}
			m.promo = item.promo
			m.state = statePromoDetail
			return m, nil, true
		}
	}
	return m, nil, false
}

// open enters target after checking its guard. Denied screens redirect to the
// login form and are reopened after a successful sign-in.
func (m appModel) open(target appState) (appModel, tea.Cmd) {
	decision := session.Allow(m.session.Current(), screenAccess[target])
	if !decision.Allowed {
		return m.redirectToLogin(target, decision.Reason)
	}
	m.notice = ""
	m.state = target

	switch target {
	case stateFilms:
		m.search.recent = recentSearches(m.logger)
		return m, m.load(target, 1)
	case stateHome:
		m.refreshMenu()
	case stateNowPlaying, stateComingSoon, stateBookings, stateAdminFilms, stateAdminBookings:
		return m, m.load(target, 1)
	case statePromos:
		return m, m.promoList.SetItems(buildPromoItems(model.Promotions()))
	case stateProfile:
		m.profile, _ = m.session.Current().User()
		m.profileErr = ""
		return m, m.reload(stateProfile)
	case stateDashboard:
		m.stats = nil
		m.statsErr = ""
		return m, m.reload(stateDashboard)
	case stateLogin, stateRegister, stateForgotPassword, stateResetPassword:
		return m, m.activeForm().start()
	}
	return m, nil
}

func (m appModel) redirectToLogin(target appState, reason string) (appModel, tea.Cmd) {
	m.afterLogin = target
	m.afterLoginSet = true
	m.busy = false
	m.setNotice(sentence(reason), true)
	m.state = stateLogin
	return m, m.loginForm.start()
}

// goBack leaves the current screen, cancelling whatever it still had in
// flight.
func (m appModel) goBack() (appModel, tea.Cmd) {
	if res, ok := m.resources[m.state]; ok {
		res.Close()
	}
	m.notice = ""
	m.busy = false

	switch m.state {
	case stateHome:
		return m, nil
	case stateFilmDetail:
		m.state = m.filmFrom
	case statePromoDetail:
		m.state = statePromos
	case stateForgotPassword, stateResetPassword:
		m.state = stateLogin
		return m, m.loginForm.start()
	case stateLogin:
		m.afterLoginSet = false
		m.state = stateHome
	default:
		m.state = stateHome
	}
	if m.state == stateHome {
		m.refreshMenu()
		return m, nil
	}
	if res, ok := m.resources[m.state]; ok && res.State().Status == listing.StatusLoading {
		return m, m.load(m.state, res.State().Page)
	}
	return m, nil
}

func (m appModel) handleRecoveryKey(key string) (appModel, tea.Cmd, bool) {
	switch key {
	case "enter", "t":
		m.crash = ""
		if m.crashedState == stateFilmDetail {
			m.state = stateFilmDetail
			return m, m.reload(stateFilmDetail), true
		}
		next, cmd := m.open(m.crashedState)
		return next, cmd, true
	case "h", "esc":
		m.crash = ""
		m.state = stateHome
		m.refreshMenu()
		return m, nil, true
	case "q":
		return m, tea.Quit, true
	}
	return m, nil, true
}

func (m appModel) answerConfirm(key string) (appModel, tea.Cmd, bool) {
	pending := m.confirm
	switch key {
	case "y", "Y", "enter":
		m.confirm = nil
		m.busy = true
		return m, tea.Batch(pending.run, m.spinner.Tick), true
	case "n", "N", "esc":
		m.confirm = nil
		return m, nil, true
	}
	return m, nil, true
}

func (m appModel) confirmView() string {
	return lipgloss.NewStyle().
		Padding(1, 3).
		Border(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("203")).
		Render(lipgloss.NewStyle().Bold(true).Render(m.confirm.prompt) + "\n\n" + hint("y yes • n no"))
}

func (m appModel) recoveryView() string {
	headerChip := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("0")).
		Background(lipgloss.Color("63")).
		Padding(0, 2)
	actionChip := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("0")).
		Background(lipgloss.Color("63")).
		Width(8).
		Align(lipgloss.Center).
		Padding(0, 1)

	content := strings.Join([]string{
		headerChip.Render("Something went wrong"),
		"",
		lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Bold(true).Render("This screen ran into an unexpected problem."),
		"",
		hint("The details were written to the log."),
		"",
		lipgloss.JoinHorizontal(lipgloss.Top, actionChip.Render("ENTER"), "  ", lipgloss.NewStyle().Bold(true).Render("Try again")),
		"",
		lipgloss.JoinHorizontal(lipgloss.Top, actionChip.Render("H"), "  ", "Go home"),
	}, "\n")

	panelStyle := lipgloss.NewStyle().
		Padding(1, 3).
		Border(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("63")).
		MarginTop(1)
	if m.width > 56 {
		cardWidth := m.width - 8
		if cardWidth > 84 {
			cardWidth = 84
		}
		panelStyle = panelStyle.Width(cardWidth)
	}
	panel := panelStyle.Render(content)
	if m.width > 0 {
		panel = lipgloss.PlaceHorizontal(m.width, lipgloss.Center, panel)
	}
	return panel
}

func (m *appModel) setNotice(text string, bad bool) {
	m.notice = text
	m.noticeBad = bad
}

func (m *appModel) refreshMenu() {
	m.menuList.SetItems(buildMenuItems(m.session.Current()))
}

func (m appModel) isLoading() bool {
	if m.busy {
		return true
	}
	if f := m.activeForm(); f != nil && f.busy {
		return true
	}
	res, ok := m.resources[m.state]
	return ok && res.State().Status == listing.StatusLoading
}

// showingError reports whether the current screen is showing a failed fetch.
func (m appModel) showingError() bool {
	switch m.state {
	case stateProfile:
		return m.profileErr != ""
	case stateDashboard:
		return m.statsErr != ""
	}
	res, ok := m.resources[m.state]
	return ok && res.State().Status == listing.StatusError
}

func (m *appModel) handleFilterInput(msg tea.KeyMsg) bool {
	listPtr := m.activeList()
	if listPtr == nil {
		return false
	}
	if !listPtr.FilteringEnabled() {
		return false
	}
	switch msg.Type {
	case tea.KeyRunes:
		if len(msg.Runes) == 0 {
			return false
		}
		m.appendFilter(listPtr, string(msg.Runes))
		return true
	case tea.KeySpace:
		m.appendFilter(listPtr, " ")
		return true
	case tea.KeyBackspace, tea.KeyDelete:
		if listPtr.FilterValue() == "" {
			return false
		}
		m.popFilter(listPtr)
		return true
	default:
		return false
	}
}

func (m *appModel) appendFilter(listPtr *list.Model, value string) {
	if value == "" {
		return
	}
	current := listPtr.FilterValue()
	listPtr.SetFilterText(current + value)
}

func (m *appModel) popFilter(listPtr *list.Model) {
	value := listPtr.FilterValue()
	if value == "" {
		return
	}
	value = trimLastRune(value)
	if value == "" {
		listPtr.ResetFilter()
		return
	}
	listPtr.SetFilterText(value)
}

func trimLastRune(value string) string {
	runes := []rune(value)
	if len(runes) <= 1 {
		return ""
	}
	return string(runes[:len(runes)-1])
}

func (m *appModel) activeList() *list.Model {
	switch m.state {
	case stateHome:
		return &m.menuList
	case stateFilms:
		return &m.filmList
	case stateNowPlaying:
		return &m.playingList
	case stateComingSoon:
		return &m.soonList
	case statePromos:
		return &m.promoList
	case stateBookings:
		return &m.bookingList
	case stateAdminFilms:
		return &m.adminFilmList
	case stateAdminBookings:
		return &m.adminBookingList
	default:
		return nil
	}
}

func (m *appModel) activeForm() *form {
	switch m.state {
	case stateLogin:
		return &m.loginForm
	case stateRegister:
		return &m.registerForm
	case stateForgotPassword:
		return &m.forgotForm
	case stateResetPassword:
		return &m.resetForm
	default:
		return nil
	}
}

func (m *appModel) resizeLists() {
	if m.width == 0 || m.height == 0 {
		return
	}
	h := m.height - 7
	if h < 6 {
		h = 6
	}
	m.menuList.SetSize(m.width, h)
	m.filmList.SetSize(m.width, h-3)
	m.playingList.SetSize(m.width, h)
	m.soonList.SetSize(m.width, h)
	m.promoList.SetSize(m.width, h)
	m.bookingList.SetSize(m.width, h-1)
	m.adminFilmList.SetSize(m.width, h-1)
	m.adminBookingList.SetSize(m.width, h-1)
	m.search.input.Width = m.width - 12
}

func newList(title string) list.Model {
	delegate := list.NewDefaultDelegate()
	delegate.ShowDescription = true
	l := list.New([]list.Item{}, delegate, 0, 0)
	l.Title = title
	l.Filter = caseInsensitiveFilter
	l.SetFilteringEnabled(true)
	l.SetShowFilter(true)
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	return l
}

func hint(text string) string {
	return lipgloss.NewStyle().Faint(true).Render(text)
}

func errorText(text string) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Render(text)
}

func okText(text string) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color("2")).Render(text)
}

// sentence capitalizes reason and ends it with a period.
func sentence(reason string) string {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return ""
	}
	return strings.ToUpper(reason[:1]) + reason[1:] + "."
}

func caseInsensitiveFilter(term string, targets []string) []list.Rank {
	term = strings.ToLower(term)
	lower := make([]string, len(targets))
	for i, t := range targets {
		lower[i] = strings.ToLower(t)
	}
	return list.DefaultFilter(term, lower)
}
