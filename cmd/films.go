package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"bioskop-cli/listing"
	"bioskop-cli/model"
	"bioskop-cli/search"
	"bioskop-cli/session"
	"bioskop-cli/store"
)

// maxCataloguePages bounds how many pages the catalogue views walk.
const maxCataloguePages = 20

func (a *app) filmFetcher(admin, refresh bool) listing.Fetcher {
	if admin {
		return a.services.Films.ListAdmin
	}
	return store.CachedFilmPages(a.client.BaseURL(), a.services.Films.List, refresh, a.logger)
}

// loadList runs one page through a render-state resource and turns the
// Error state into an error.
func (a *app) loadList(ctx context.Context, fetch listing.Fetcher, page int) (listing.State, error) {
	res := listing.NewResource(fetch, listing.WithStrict(a.cfg.Strict))
	defer res.Close()
	st := res.Load(ctx, page)
	if st.Status == listing.StatusError {
		return st, errors.New(st.Err)
	}
	return st, nil
}

// allFilms walks every page of the public film list.
func (a *app) allFilms(ctx context.Context, refresh bool) ([]model.Film, error) {
	res := listing.NewResource(a.filmFetcher(false, refresh), listing.WithStrict(a.cfg.Strict))
	defer res.Close()

	st := res.Load(ctx, 1)
	var films []model.Film
	for pages := 1; ; pages++ {
		if st.Status == listing.StatusError {
			return nil, errors.New(st.Err)
		}
		films = append(films, model.DecodeAll[model.Film](st.Items)...)
		if st.Status != listing.StatusReady || st.Pagination == nil || !st.Pagination.HasPage(st.Page+1) || pages >= maxCataloguePages {
			return films, nil
		}
		next, err := res.Next(ctx)
		if err != nil {
			return nil, err
		}
		st = next
	}
}

func newFilmsCmd(a *app) *cobra.Command {
	var (
		page    int
		admin   bool
		refresh bool
		query   search.Query
		sortBy  string
	)
	cmd := &cobra.Command{
		Use:   "films",
		Short: "List films",
		Long:  "List films page by page. --search, --genre and --sort filter the fetched page locally.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if admin {
				if err := a.require(session.Admin); err != nil {
					return err
				}
			}
			st, err := a.loadList(cmd.Context(), a.filmFetcher(admin, refresh), page)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if st.Status == listing.StatusEmpty {
				fmt.Fprintln(out, "No films found.")
				return nil
			}
			query.Sort = search.ParseSort(sortBy)
			films := search.Filter(model.DecodeAll[model.Film](st.Items), query)
			if err := store.RecordSearch(query.Term); err != nil {
				a.logger.Warn("search history not updated; `search history clear` resets it", "err", err)
			}
			if len(films) == 0 {
				fmt.Fprintf(out, "No films match %q.\n", query.Term)
				return nil
			}
			renderFilms(out, films, admin)
			renderPage(out, st, "films")
			return nil
		},
	}
	cmd.Flags().IntVar(&page, "page", 1, "page number")
	cmd.Flags().BoolVar(&admin, "admin", false, "list every film, inactive ones included (admin)")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "bypass the local film cache")
	cmd.Flags().StringVar(&query.Term, "search", "", "filter by title")
	cmd.Flags().StringVar(&query.Genre, "genre", "", "filter by genre")
	cmd.Flags().StringVar(&sortBy, "sort", string(search.SortNewest), "sort by newest, title or duration")
	return cmd
}

func newNowPlayingCmd(a *app) *cobra.Command {
	var refresh bool
	cmd := &cobra.Command{
		Use:   "now-playing",
		Short: "Films showing today",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			films, err := a.allFilms(cmd.Context(), refresh)
			if err != nil {
				return err
			}
			playing := search.NowPlaying(films, time.Now())
			if len(playing) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "Nothing is playing right now.")
				return nil
			}
			renderFilms(cmd.OutOrStdout(), playing, false)
			return nil
		},
	}
	cmd.Flags().BoolVar(&refresh, "refresh", false, "bypass the local film cache")
	return cmd
}

func newComingSoonCmd(a *app) *cobra.Command {
	var refresh bool
	cmd := &cobra.Command{
		Use:   "coming-soon",
		Short: "Films with an upcoming release",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			films, err := a.allFilms(cmd.Context(), refresh)
			if err != nil {
				return err
			}
			upcoming := search.ComingSoon(films, time.Now())
			if len(upcoming) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No upcoming releases.")
				return nil
			}
			renderUpcoming(cmd.OutOrStdout(), upcoming)
			return nil
		},
	}
	cmd.Flags().BoolVar(&refresh, "refresh", false, "bypass the local film cache")
	return cmd
}

func (a *app) fetchFilm(ctx context.Context, slug string) (model.Film, error) {
	body, err := a.services.Films.Get(ctx, slug)
	if err != nil {
		return model.Film{}, err
	}
	rec, ok := listing.Single(body)
	if !ok {
		return model.Film{}, fmt.Errorf("film %q: %w", slug, listing.ErrUnrecognizedShape)
	}
	return model.Decode[model.Film](rec)
}

func newFilmCmd(a *app) *cobra.Command {
	var qty int
	cmd := &cobra.Command{
		Use:   "film <slug>",
		Short: "Show a film",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			film, err := a.fetchFilm(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			renderFilm(cmd.OutOrStdout(), film, qty)
			return nil
		},
	}
	cmd.Flags().IntVar(&qty, "qty", 0, "show the total for this many tickets")
	return cmd
}

func newPromosCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "promos",
		Short: "Current promotions",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			renderPromotions(cmd.OutOrStdout(), model.Promotions())
		},
	}
}

func newSearchCmd(a *app) *cobra.Command {
	var (
		genre   string
		sortBy  string
		refresh bool
	)
	cmd := &cobra.Command{
		Use:   "search <title>",
		Short: "Search films by title",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			term := strings.TrimSpace(strings.Join(args, " "))
			films, err := a.allFilms(cmd.Context(), refresh)
			if err != nil {
				return err
			}
			if err := store.RecordSearch(term); err != nil {
				a.logger.Warn("search history not updated; `search history clear` resets it", "err", err)
			}
			found := search.Filter(films, search.Query{Term: term, Genre: genre, Sort: search.ParseSort(sortBy)})
			if len(found) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "No films match %q.\n", term)
				return nil
			}
			renderFilms(cmd.OutOrStdout(), found, false)
			return nil
		},
	}
	cmd.Flags().StringVar(&genre, "genre", "", "filter by genre")
	cmd.Flags().StringVar(&sortBy, "sort", string(search.SortNewest), "sort by newest, title or duration")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "bypass the local film cache")

	cmd.AddCommand(&cobra.Command{
		Use:   "history",
		Short: "Show recent searches",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			history, err := store.LoadSearchHistory()
			if err != nil {
				return err
			}
			if len(history) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No recent searches.")
				return nil
			}
			for i, q := range history {
				fmt.Fprintf(cmd.OutOrStdout(), "%2d. %s\n", i+1, q)
			}
			return nil
		},
	}, &cobra.Command{
		Use:   "clear",
		Short: "Forget recent searches",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := store.ClearSearchHistory(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Search history cleared.")
			return nil
		},
	})
	return cmd
}
