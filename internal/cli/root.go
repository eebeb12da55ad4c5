// Package cli implements the mosh command line client.
package cli

import (
	"fmt"
	"io"
	"slices"
	"time"

	"bookmosh/internal/discovery"
	"bookmosh/internal/session"

	"github.com/spf13/cobra"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose bool
	Format  string // "json" | "text"
}

var ValidFormats = []string{"text", "json"}

// App carries the collaborators commands run against.
type App struct {
	Searcher discovery.Searcher
	Sessions session.Store
	// Interactive enables spinners and prompts; set when stdout is a terminal.
	Interactive bool
	// Debounce is the default browse quiet period.
	Debounce time.Duration
	// NewPrompt opens the line editor used by browse. Defaults to liner.
	NewPrompt func(in io.Reader) Prompt
}

func NewRootCommand(app *App) *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "mosh",
		Short: "BookMosh from the terminal",
		Long:  "Search books, keep track of who is signed in and browse results as you type.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(ValidFormats, opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return nil
		},
		SilenceUsage: true,
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")

	cmd.AddCommand(NewSearchCommand(app, opts))
	cmd.AddCommand(NewBrowseCommand(app, opts))
	cmd.AddCommand(NewLoginCommand(app, opts))
	cmd.AddCommand(NewLogoutCommand(app, opts))
	cmd.AddCommand(NewWhoamiCommand(app, opts))

	return cmd
}
