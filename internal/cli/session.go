package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"bookmosh/internal/session"

	"github.com/spf13/cobra"
)

func formatterFor(cmd *cobra.Command, rootOpts *RootOptions) *OutputFormatter {
	return &OutputFormatter{
		Format:    rootOpts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   rootOpts.Verbose,
	}
}

func NewLoginCommand(app *App, rootOpts *RootOptions) *cobra.Command {
	var name string
	cmd := &cobra.Command{
		Use:   "login <user-id>",
		Short: "Remember the user this client acts as",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f := formatterFor(cmd, rootOpts)
			userID := strings.TrimSpace(args[0])
			if userID == "" {
				return f.Fail(&ExitError{Code: ExitCommandError, ErrCode: "INVALID_USER", Message: "user id must not be blank"})
			}
			id := session.Identity{UserID: userID, Name: strings.TrimSpace(name), SignedInAt: time.Now().UTC()}
			if err := app.Sessions.Set(cmd.Context(), id); err != nil {
				return f.Fail(&ExitError{Code: ExitFailure, ErrCode: "SESSION_WRITE", Message: "could not save session", Err: err})
			}
			return f.Success(id, func(w io.Writer) {
				fmt.Fprintln(w, SuccessStyle.Render("✓ signed in as "+displayName(id)))
			})
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "display name to show alongside the user id")
	return cmd
}

func NewLogoutCommand(app *App, rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the signed-in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := formatterFor(cmd, rootOpts)
			if err := app.Sessions.Clear(cmd.Context()); err != nil {
				return f.Fail(&ExitError{Code: ExitFailure, ErrCode: "SESSION_WRITE", Message: "could not clear session", Err: err})
			}
			return f.Success(map[string]bool{"signed_out": true}, func(w io.Writer) {
				fmt.Fprintln(w, SuccessStyle.Render("✓ signed out"))
			})
		},
	}
}

func NewWhoamiCommand(app *App, rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := formatterFor(cmd, rootOpts)
			id, err := app.Sessions.Get(cmd.Context())
			if errors.Is(err, session.ErrNoSession) {
				return f.Fail(&ExitError{Code: ExitFailure, ErrCode: "NO_SESSION", Message: "not signed in, run mosh login <user-id>"})
			}
			if err != nil {
				return f.Fail(&ExitError{Code: ExitFailure, ErrCode: "SESSION_READ", Message: "could not read session", Err: err})
			}
			return f.Success(id, func(w io.Writer) {
				fmt.Fprintln(w, TitleStyle.Render(displayName(id)))
				fmt.Fprintln(w, DimStyle.Render("signed in "+id.SignedInAt.Local().Format(time.RFC1123)))
			})
		},
	}
}

func displayName(id session.Identity) string {
	if id.Name == "" {
		return id.UserID
	}
	return fmt.Sprintf("%s (%s)", id.Name, id.UserID)
}
