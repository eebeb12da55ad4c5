package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"bookmosh/internal/discovery"

	"github.com/peterh/liner"
	"github.com/spf13/cobra"
)

// Prompt reads one line of input at a time.
type Prompt interface {
	Prompt(prompt string) (string, error)
	AppendHistory(item string)
	Close() error
}

// scannerPrompt reads piped input without echoing a prompt.
type scannerPrompt struct {
	sc *bufio.Scanner
}

func (p *scannerPrompt) Prompt(string) (string, error) {
	if !p.sc.Scan() {
		if err := p.sc.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return p.sc.Text(), nil
}

func (p *scannerPrompt) AppendHistory(string) {}
func (p *scannerPrompt) Close() error         { return nil }

func newPrompt(app *App, in io.Reader) Prompt {
	if app.NewPrompt != nil {
		return app.NewPrompt(in)
	}
	if !app.Interactive {
		return &scannerPrompt{sc: bufio.NewScanner(in)}
	}
	l := liner.NewLiner()
	l.SetCtrlCAborts(true)
	return l
}

type browseOptions struct {
	Limit    int
	Debounce time.Duration
}

// NewBrowseCommand runs an interactive search loop. Each line replaces the
// pending query; only the latest query's results are printed.
func NewBrowseCommand(app *App, rootOpts *RootOptions) *cobra.Command {
	opts := &browseOptions{}
	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Search interactively, printing results for the latest query",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBrowse(app, cmd.OutOrStdout(), newPrompt(app, cmd.InOrStdin()), rootOpts, opts)
		},
	}
	cmd.Flags().IntVarP(&opts.Limit, "limit", "n", 5, "maximum results to print per query")
	window := app.Debounce
	if window <= 0 {
		window = discovery.DefaultDebounce
	}
	cmd.Flags().DurationVar(&opts.Debounce, "debounce", window, "quiet period before searching")
	return cmd
}

func runBrowse(app *App, w io.Writer, prompt Prompt, rootOpts *RootOptions, opts *browseOptions) error {
	defer prompt.Close()

	var mu sync.Mutex
	f := &OutputFormatter{Format: rootOpts.Format, Writer: w}
	d := discovery.NewDebouncer(app.Searcher, opts.Debounce, func(res discovery.Result) {
		shown := res.Candidates
		if opts.Limit > 0 && len(shown) > opts.Limit {
			shown = shown[:opts.Limit]
		}
		mu.Lock()
		defer mu.Unlock()
		if res.Status == discovery.StatusUnavailable {
			_ = f.Fail(&ExitError{ErrCode: "SEARCH_UNAVAILABLE", Message: "search is temporarily unavailable"})
			return
		}
		_ = f.Success(discovery.Result{Query: res.Query, Status: res.Status, Candidates: shown}, func(w io.Writer) {
			renderResult(w, res, shown)
		})
	})
	defer d.Stop()

	for {
		line, err := prompt.Prompt("mosh> ")
		if errors.Is(err, io.EOF) || errors.Is(err, liner.ErrPromptAborted) {
			if errors.Is(err, io.EOF) {
				d.Flush()
			}
			if app.Interactive && !f.JSON() {
				mu.Lock()
				fmt.Fprintln(w)
				mu.Unlock()
			}
			return nil
		}
		if err != nil {
			return err
		}
		if strings.TrimSpace(line) != "" {
			prompt.AppendHistory(line)
		}
		d.Submit(line)
	}
}
