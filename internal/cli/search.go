package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"bookmosh/internal/discovery"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

type searchOptions struct {
	Limit int
}

func NewSearchCommand(app *App, rootOpts *RootOptions) *cobra.Command {
	opts := &searchOptions{}
	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search the book catalogue",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSearch(cmd.Context(), app, formatterFor(cmd, rootOpts), strings.Join(args, " "), opts)
		},
	}
	cmd.Flags().IntVarP(&opts.Limit, "limit", "n", 10, "maximum results to print (0 prints all)")
	return cmd
}

func runSearch(ctx context.Context, app *App, f *OutputFormatter, query string, opts *searchOptions) error {
	var res discovery.Result
	if app.Interactive && !f.JSON() {
		res = withSpinner(f.errWriter(), func() discovery.Result { return app.Searcher.Search(ctx, query) })
	} else {
		res = app.Searcher.Search(ctx, query)
	}
	f.VerboseLog("query %q: %s, %d results", res.Query, res.Status, len(res.Candidates))

	if res.Status == discovery.StatusUnavailable {
		return f.Fail(&ExitError{
			Code:    ExitCommandError,
			ErrCode: "SEARCH_UNAVAILABLE",
			Message: "search is temporarily unavailable, try again",
		})
	}

	shown := res.Candidates
	if opts.Limit > 0 && len(shown) > opts.Limit {
		shown = shown[:opts.Limit]
	}
	return f.Success(discovery.Result{Query: res.Query, Status: res.Status, Candidates: shown}, func(w io.Writer) {
		renderResult(w, res, shown)
	})
}

func renderResult(w io.Writer, res discovery.Result, shown []discovery.Candidate) {
	switch {
	case res.Status == discovery.StatusIdle:
		fmt.Fprintln(w, DimStyle.Render(fmt.Sprintf("type at least %d characters to search", discovery.MinQueryLength)))
		return
	case len(res.Candidates) == 0:
		fmt.Fprintln(w, DimStyle.Render(fmt.Sprintf("no books found for %q", res.Query)))
		return
	}

	fmt.Fprintln(w, HeaderStyle.Render(fmt.Sprintf("%d results for %q", len(res.Candidates), res.Query)))
	for i, c := range shown {
		line := fmt.Sprintf("%2d. %s %s %s",
			i+1,
			TitleStyle.Render(c.Title),
			AuthorStyle.Render("by "+c.Author),
			ScoreStyle.Render(fmt.Sprintf("[%d]", c.RelevanceScore)),
		)
		var extra []string
		if c.PublicationYear != nil {
			extra = append(extra, fmt.Sprintf("%d", *c.PublicationYear))
		}
		if c.ISBN != nil {
			extra = append(extra, "ISBN "+*c.ISBN)
		}
		if len(extra) > 0 {
			line += " " + DimStyle.Render(strings.Join(extra, " · "))
		}
		fmt.Fprintln(w, line)
	}
	if len(shown) < len(res.Candidates) {
		fmt.Fprintln(w, DimStyle.Render(fmt.Sprintf("… %d more", len(res.Candidates)-len(shown))))
	}
}

// withSpinner animates an indeterminate bar on w while fn runs.
func withSpinner[T any](w io.Writer, fn func() T) T {
	bar := progressbar.NewOptions(-1,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription("searching"),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionClearOnFinish(),
	)
	done := make(chan struct{})
	go func() {
		t := time.NewTicker(100 * time.Millisecond)
		defer t.Stop()
		for {
			select {
			case <-done:
				return
			case <-t.C:
				_ = bar.Add(1)
			}
		}
	}()
	v := fn()
	close(done)
	_ = bar.Finish()
	return v
}
