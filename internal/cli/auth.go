package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/exes/food-network/internal/session"
)

func (a *app) loginCommand() *cobra.Command {
	var email, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in as an admin or volunteer",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if email == "" || password == "" {
				return errors.New("--email and --password are required")
			}
			res, err := a.api.Login(cmd.Context(), email, password)
			if err != nil {
				return fmt.Errorf("login failed: %w", err)
			}
			if err := session.Save(cmd.Context(), a.store, res.Session()); err != nil {
				return err
			}
			fmt.Fprintf(a.opts.Out, "Logged in as %s (%s)\n", res.User.Username, res.User.Role)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password")
	return cmd
}

// logoutCommand revokes the token server-side when possible and always clears
// the local session.
func (a *app) logoutCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "End the current session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			sess, err := session.Load(ctx, a.store)
			if err != nil {
				return err
			}
			if sess.Token != "" {
				if err := a.api.Logout(ctx, sess.Token); err != nil {
					a.log.Warn().Err(err).Msg("server logout failed; clearing local session anyway")
				}
			}
			if err := session.Clear(ctx, a.store); err != nil {
				return err
			}
			fmt.Fprintln(a.opts.Out, "Logged out")
			return nil
		},
	}
}
