package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"bioskop-cli/model"
	"bioskop-cli/session"
	"bioskop-cli/validate"
)

func newLoginCmd(a *app) *cobra.Command {
	var creds model.Credentials
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := ask(&creds.Email, "Email", notBlank); err != nil {
				return err
			}
			if err := askSecret(&creds.Password, "Password", notBlank); err != nil {
				return err
			}
			s, err := a.session.Login(cmd.Context(), creds)
			if err != nil {
				return a.formError(cmd, err)
			}
			greet(cmd, s)
			return nil
		},
	}
	cmd.Flags().StringVar(&creds.Email, "email", "", "account email")
	cmd.Flags().StringVar(&creds.Password, "password", "", "account password (prompted when omitted)")
	return cmd
}

func newRegisterCmd(a *app) *cobra.Command {
	var reg model.Registration
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := ask(&reg.Name, "Name", notBlank); err != nil {
				return err
			}
			if err := ask(&reg.Email, "Email", validate.Email); err != nil {
				return err
			}
			if err := askSecret(&reg.Password, "Password", strongEnough); err != nil {
				return err
			}
			if err := askSecret(&reg.PasswordConfirmation, "Confirm password", notBlank); err != nil {
				return err
			}
			s, err := a.session.Register(cmd.Context(), reg)
			if err != nil {
				return a.formError(cmd, err)
			}
			greet(cmd, s)
			return nil
		},
	}
	cmd.Flags().StringVar(&reg.Name, "name", "", "full name")
	cmd.Flags().StringVar(&reg.Email, "email", "", "email address")
	cmd.Flags().StringVar(&reg.Password, "password", "", "password (prompted when omitted)")
	cmd.Flags().StringVar(&reg.PasswordConfirmation, "password-confirmation", "", "repeat the password")
	return cmd
}

func greet(cmd *cobra.Command, s session.Session) {
	role := ""
	if s.IsAdmin() {
		role = " (admin)"
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Signed in as %s%s.\n", s.Name(), role)
}

func newLogoutCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			wasSignedIn := a.session.Current().IsAuthenticated()
			err := a.session.Logout(cmd.Context())
			if wasSignedIn {
				fmt.Fprintln(cmd.OutOrStdout(), "Signed out.")
			}
			if err != nil {
				a.logger.Warn("server logout failed; local session cleared", "err", err)
			}
			return nil
		},
	}
}

func newProfileCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "profile",
		Short: "Show your account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.require(session.Authenticated); err != nil {
				return err
			}
			s, err := a.session.Refresh(cmd.Context())
			if err != nil {
				return err
			}
			user, _ := s.User()
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Name:  %s\n", user.Name)
			fmt.Fprintf(out, "Email: %s\n", user.Email)
			fmt.Fprintf(out, "Role:  %s\n", orDash(user.Role))
			return nil
		},
	}
}

func newPasswordCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "password",
		Short: "Recover a forgotten password",
	}

	var email string
	forgot := &cobra.Command{
		Use:   "forgot",
		Short: "Email a reset token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := ask(&email, "Email", validate.Email); err != nil {
				return err
			}
			if err := validate.Email(email); err != nil {
				return err
			}
			if err := a.services.Auth.ForgotPassword(cmd.Context(), email); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "If the address is registered, a reset token is on its way.")
			return nil
		},
	}
	forgot.Flags().StringVar(&email, "email", "", "account email")

	var reset model.PasswordReset
	resetCmd := &cobra.Command{
		Use:   "reset",
		Short: "Set a new password with a reset token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := ask(&reset.Email, "Email", notBlank); err != nil {
				return err
			}
			if err := ask(&reset.Token, "Reset token", notBlank); err != nil {
				return err
			}
			if err := askSecret(&reset.Password, "New password", notBlank); err != nil {
				return err
			}
			if err := askSecret(&reset.PasswordConfirmation, "Confirm password", notBlank); err != nil {
				return err
			}
			if err := a.validator.Struct(reset); err != nil {
				return a.formError(cmd, err)
			}
			if err := a.services.Auth.ResetPassword(cmd.Context(), reset); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Password updated. You can log in now.")
			return nil
		},
	}
	resetCmd.Flags().StringVar(&reset.Email, "email", "", "account email")
	resetCmd.Flags().StringVar(&reset.Token, "token", "", "reset token from the email")
	resetCmd.Flags().StringVar(&reset.Password, "password", "", "new password (prompted when omitted)")
	resetCmd.Flags().StringVar(&reset.PasswordConfirmation, "password-confirmation", "", "repeat the new password")

	cmd.AddCommand(forgot, resetCmd)
	return cmd
}
