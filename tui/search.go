package tui

import (
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"bioskop-cli/model"
	"bioskop-cli/search"
	"bioskop-cli/store"
)

// searchBox is the live search above the film list. Every edit bumps tag and
// schedules a tick; only the tick carrying the latest tag applies the query.
type searchBox struct {
	input  textinput.Model
	tag    int
	query  search.Query
	genres []string
	recent []string
}

type searchTickMsg struct {
	tag int
}

func newSearchBox() searchBox {
	in := textinput.New()
	in.Prompt = "Search: "
	in.Placeholder = "film title"
	in.CharLimit = 100
	in.Focus()
	return searchBox{
		input: in,
		query: search.Query{Sort: search.SortNewest},
	}
}

func debounce(delay time.Duration, tag int) tea.Cmd {
	return tea.Tick(delay, func(time.Time) tea.Msg {
		return searchTickMsg{tag: tag}
	})
}

func (m appModel) handleSearchKey(msg tea.KeyMsg) (appModel, tea.Cmd, bool) {
	switch msg.String() {
	case "ctrl+g":
		m.search.query.Genre = nextGenre(m.search.genres, m.search.query.Genre)
		m.refreshFilmList()
		return m, nil, true
	case "ctrl+s":
		m.search.query.Sort = m.search.query.Sort.Next()
		m.refreshFilmList()
		return m, nil, true
	case "esc":
		if m.search.input.Value() == "" && m.search.query.Term == "" {
			return m, nil, false
		}
		m.search.input.Reset()
		m.search.tag++
		m.search.query.Term = ""
		m.refreshFilmList()
		return m, nil, true
	}

	switch msg.Type {
	case tea.KeyRunes, tea.KeySpace, tea.KeyBackspace, tea.KeyDelete:
	default:
		return m, nil, false
	}
	before := m.search.input.Value()
	var cmd tea.Cmd
	m.search.input, cmd = m.search.input.Update(msg)
	if m.search.input.Value() == before {
		return m, cmd, true
	}
	m.search.tag++
	return m, tea.Batch(cmd, debounce(m.searchDelay, m.search.tag)), true
}

func (m appModel) applySearchTick(msg searchTickMsg) appModel {
	if msg.tag != m.search.tag {
		return m
	}
	term := strings.TrimSpace(m.search.input.Value())
	if term == m.search.query.Term {
		return m
	}
	m.search.query.Term = term
	m.refreshFilmList()
	if term != "" {
		if err := store.RecordSearch(term); err != nil {
			m.logger.Warn("record search", "err", err)
		}
		m.search.recent = recentSearches(m.logger)
	}
	return m
}

// refreshFilmList applies the current query to the loaded page.
func (m *appModel) refreshFilmList() {
	res, ok := m.resources[stateFilms]
	if !ok {
		m.filmList.SetItems(nil)
		return
	}
	films := model.DecodeAll[model.Film](res.State().Items)
	m.filmList.SetItems(buildFilmItems(search.Filter(films, m.search.query)))
	m.filmList.ResetSelected()
}

func (m appModel) filmsView() string {
	genre := m.search.query.Genre
	if genre == "" {
		genre = "all"
	}
	lines := []string{
		m.search.input.View(),
		hint("Genre: " + genre + " • Sort: " + string(m.search.query.Sort)),
	}
	if m.search.input.Value() == "" && len(m.search.recent) > 0 {
		recent := m.search.recent
		if len(recent) > 5 {
			recent = recent[:5]
		}
		lines = append(lines, hint("Recent: "+strings.Join(recent, " • ")))
	}
	empty := "No films yet."
	if m.search.query.Term != "" || m.search.query.Genre != "" {
		empty = "No films match your search."
	}
	return strings.Join(lines, "\n") + "\n\n" + m.listView(stateFilms, m.filmList, empty)
}

// nextGenre cycles all → each genre → all.
func nextGenre(genres []string, current string) string {
	if current == "" {
		if len(genres) == 0 {
			return ""
		}
		return genres[0]
	}
	for i, g := range genres {
		if g == current && i+1 < len(genres) {
			return genres[i+1]
		}
	}
	return ""
}

func recentSearches(logger *slog.Logger) []string {
	recent, err := store.LoadSearchHistory()
	if err != nil {
		logger.Warn("load search history", "err", err)
		return nil
	}
	return recent
}
