package cmd

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"bioskop-cli/listing"
	"bioskop-cli/model"
	"bioskop-cli/session"
	"bioskop-cli/validate"
)

func newBookCmd(a *app) *cobra.Command {
	var qty int
	cmd := &cobra.Command{
		Use:   "book <slug>",
		Short: "Book tickets for a film",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.require(session.Authenticated); err != nil {
				return err
			}
			film, err := a.fetchFilm(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			req := model.BookingRequest{FilmId: film.Id.Int(), Quantity: qty}
			if err := a.validator.Struct(req); err != nil {
				return a.formError(cmd, err)
			}
			body, err := a.services.Bookings.Create(cmd.Context(), req)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			total := model.FormatRupiah(film.Total(qty))
			if rec, ok := listing.Single(body); ok {
				if booking, err := model.Decode[model.Booking](rec); err == nil && !booking.Total.IsZero() {
					total = model.FormatRupiah(booking.Total)
				}
			}
			fmt.Fprintf(out, "Booked %d ticket(s) for %s. Total %s.\n", qty, film.DisplayTitle(), total)
			return nil
		},
	}
	cmd.Flags().IntVar(&qty, "qty", 1, "number of tickets (1-10)")
	return cmd
}

func newBookingsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bookings",
		Short: "Your booking history",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.require(session.Authenticated); err != nil {
				return err
			}
			st, err := a.loadList(cmd.Context(), func(ctx context.Context, page int) (any, error) {
				return a.services.Bookings.Mine(ctx)
			}, 1)
			if err != nil {
				return err
			}
			if st.Status == listing.StatusEmpty {
				fmt.Fprintln(cmd.OutOrStdout(), "You have no bookings yet.")
				return nil
			}
			renderBookings(cmd.OutOrStdout(), model.DecodeAll[model.Booking](st.Items), false)
			return nil
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show <id>",
		Short: "Show one booking",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := a.require(session.Authenticated); err != nil {
				return err
			}
			body, err := a.services.Bookings.Get(cmd.Context(), id)
			if err != nil {
				return err
			}
			rec, ok := listing.Single(body)
			if !ok {
				return fmt.Errorf("booking %d: %w", id, listing.ErrUnrecognizedShape)
			}
			booking, err := model.Decode[model.Booking](rec)
			if err != nil {
				return err
			}
			renderBookings(cmd.OutOrStdout(), []model.Booking{booking}, false)
			return nil
		},
	}, &cobra.Command{
		Use:   "cancel <id>",
		Short: "Cancel a booking",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := a.require(session.Authenticated); err != nil {
				return err
			}
			if err := a.services.Bookings.Delete(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Booking %d cancelled.\n", id)
			return nil
		},
	})
	return cmd
}

func parseID(value string) (int, error) {
	id, err := strconv.Atoi(value)
	if err != nil || id <= 0 {
		return 0, usage(fmt.Errorf("invalid id %q", value))
	}
	return id, nil
}

// formError prints field errors before returning err.
func (a *app) formError(cmd *cobra.Command, err error) error {
	if errs, ok := validate.AsErrors(err); ok {
		fmt.Fprintln(cmd.ErrOrStderr(), "Please fix the following:")
		renderErrors(cmd.ErrOrStderr(), errs)
		return fmt.Errorf("invalid input: %s", errs.First())
	}
	return err
}
