package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"bioskop-cli/dashboard"
	"bioskop-cli/listing"
	"bioskop-cli/model"
	"bioskop-cli/session"
	"bioskop-cli/store"
)

func newAdminCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Back office: films, bookings and stats",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := a.setup(cmd, false); err != nil {
				return err
			}
			return a.require(session.Admin)
		},
	}
	cmd.AddCommand(newAdminFilmsCmd(a), newAdminBookingsCmd(a), newDashboardCmd(a))
	return cmd
}

func newAdminFilmsCmd(a *app) *cobra.Command {
	var page int
	cmd := &cobra.Command{
		Use:   "films",
		Short: "List every film",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := a.loadList(cmd.Context(), a.services.Films.ListAdmin, page)
			if err != nil {
				return err
			}
			if st.Status == listing.StatusEmpty {
				fmt.Fprintln(cmd.OutOrStdout(), "No films yet.")
				return nil
			}
			renderFilms(cmd.OutOrStdout(), model.DecodeAll[model.Film](st.Items), true)
			renderPage(cmd.OutOrStdout(), st, "films")
			return nil
		},
	}
	cmd.Flags().IntVar(&page, "page", 1, "page number")

	var form model.FilmForm
	create := &cobra.Command{
		Use:   "create",
		Short: "Add a film",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.validator.Struct(form); err != nil {
				return a.formError(cmd, err)
			}
			if _, err := a.services.Films.Create(cmd.Context(), form); err != nil {
				return err
			}
			a.dropFilmCache()
			fmt.Fprintf(cmd.OutOrStdout(), "Film %q created.\n", form.Title)
			return nil
		},
	}
	filmFlags(create.Flags(), &form)

	var (
		from   string
		update model.FilmForm
	)
	updateCmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Edit a film",
		Long:  "Edit a film. With --from <slug> the current values are loaded first and only the given flags change.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			next := update
			if from != "" {
				film, err := a.fetchFilm(cmd.Context(), from)
				if err != nil {
					return err
				}
				next = mergeFilmForm(model.FilmFormFrom(film), update, cmd.Flags())
			}
			if err := a.validator.Struct(next); err != nil {
				return a.formError(cmd, err)
			}
			if _, err := a.services.Films.Update(cmd.Context(), id, next); err != nil {
				return err
			}
			a.dropFilmCache()
			fmt.Fprintf(cmd.OutOrStdout(), "Film %d updated.\n", id)
			return nil
		},
	}
	filmFlags(updateCmd.Flags(), &update)
	updateCmd.Flags().StringVar(&from, "from", "", "slug of the film to start from")

	var yes bool
	deleteCmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Remove a film",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if !yes && !confirm(fmt.Sprintf("Delete film %d", id)) {
				return nil
			}
			if err := a.services.Films.Delete(cmd.Context(), id); err != nil {
				return err
			}
			a.dropFilmCache()
			fmt.Fprintf(cmd.OutOrStdout(), "Film %d deleted.\n", id)
			return nil
		},
	}
	deleteCmd.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")

	cmd.AddCommand(create, updateCmd, deleteCmd)
	return cmd
}

func filmFlags(flags *pflag.FlagSet, form *model.FilmForm) {
	flags.StringVar(&form.Title, "title", "", "title (judul)")
	flags.StringVar(&form.Description, "description", "", "synopsis (deskripsi)")
	flags.StringVar(&form.Price, "price", "", "ticket price in rupiah")
	flags.StringVar(&form.ReleaseDate, "release", "", "release date, YYYY-MM-DD")
	flags.StringVar(&form.Duration, "duration", "", "duration in minutes")
	flags.BoolVar(&form.Active, "active", true, "show the film to customers")
	flags.StringVar(&form.PosterPath, "poster", "", "poster image file (max 2MB)")
}

// mergeFilmForm overlays the flags the user set onto base.
func mergeFilmForm(base, given model.FilmForm, flags *pflag.FlagSet) model.FilmForm {
	if flags.Changed("title") {
		base.Title = given.Title
	}
	if flags.Changed("description") {
		base.Description = given.Description
	}
	if flags.Changed("price") {
		base.Price = given.Price
	}
	if flags.Changed("release") {
		base.ReleaseDate = given.ReleaseDate
	}
	if flags.Changed("duration") {
		base.Duration = given.Duration
	}
	if flags.Changed("active") {
		base.Active = given.Active
	}
	if flags.Changed("poster") {
		base.PosterPath = given.PosterPath
	}
	return base
}

func (a *app) dropFilmCache() {
	if err := store.ClearFilmCache(); err != nil {
		a.logger.Warn("clear film cache", "err", err)
	}
}

func newAdminBookingsCmd(a *app) *cobra.Command {
	var page int
	cmd := &cobra.Command{
		Use:   "bookings",
		Short: "List every booking",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := a.loadList(cmd.Context(), a.services.Bookings.All, page)
			if err != nil {
				return err
			}
			if st.Status == listing.StatusEmpty {
				fmt.Fprintln(cmd.OutOrStdout(), "No bookings yet.")
				return nil
			}
			renderBookings(cmd.OutOrStdout(), model.DecodeAll[model.Booking](st.Items), true)
			renderPage(cmd.OutOrStdout(), st, "bookings")
			return nil
		},
	}
	cmd.Flags().IntVar(&page, "page", 1, "page number")

	status := &cobra.Command{
		Use:       "status <id> [pending|confirmed|cancelled]",
		Short:     "Change a booking's status",
		Args:      cobra.RangeArgs(1, 2),
		ValidArgs: model.BookingStatuses,
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			var next string
			if len(args) == 2 {
				next = args[1]
			} else if next, err = choose("New status", model.BookingStatuses); err != nil {
				return err
			}
			update := model.BookingUpdate{Status: next}
			if err := a.validator.Struct(update); err != nil {
				return a.formError(cmd, err)
			}
			if _, err := a.services.Bookings.UpdateStatus(cmd.Context(), id, update.Status); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Booking %d is now %s.\n", id, update.Status)
			return nil
		},
	}

	var yes bool
	deleteCmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a booking",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if !yes && !confirm(fmt.Sprintf("Delete booking %d", id)) {
				return nil
			}
			if err := a.services.Bookings.Delete(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Booking %d deleted.\n", id)
			return nil
		},
	}
	deleteCmd.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")

	cmd.AddCommand(status, deleteCmd)
	return cmd
}

func newDashboardCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Films, bookings, customers and revenue",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			stats, err := dashboard.Load(cmd.Context(),
				func(ctx context.Context) (any, error) { return a.services.Films.ListAdmin(ctx, 1) },
				func(ctx context.Context) (any, error) { return a.services.Bookings.All(ctx, 1) },
			)
			if err != nil {
				return err
			}
			renderStats(cmd.OutOrStdout(), stats)
			return nil
		},
	}
}
