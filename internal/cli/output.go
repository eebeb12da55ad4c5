package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

const (
	ExitSuccess      = 0
	ExitFailure      = 1
	ExitCommandError = 2
)

// ExitError carries the process exit code for a failed command.
type ExitError struct {
	Code    int
	ErrCode string
	Message string
	Err     error
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// GetExitCode returns ExitFailure for errors that are not an ExitError.
func GetExitCode(err error) int {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}

type OutputFormatter struct {
	Format    string
	Writer    io.Writer
	ErrWriter io.Writer
	Verbose   bool
}

type CLIResponse struct {
	Status string    `json:"status"`
	Data   any       `json:"data,omitempty"`
	Error  *CLIError `json:"error,omitempty"`
}

type CLIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (f *OutputFormatter) JSON() bool {
	return f.Format == "json"
}

// Success writes data as JSON, or calls text to render it for humans.
func (f *OutputFormatter) Success(data any, text func(io.Writer)) error {
	if f.JSON() {
		return writeJSON(f.Writer, CLIResponse{Status: "ok", Data: data})
	}
	text(f.Writer)
	return nil
}

// Fail reports err in the configured format and returns it for the exit
// code.
func (f *OutputFormatter) Fail(err *ExitError) error {
	if f.JSON() {
		_ = writeJSON(f.Writer, CLIResponse{Status: "error", Error: &CLIError{Code: err.ErrCode, Message: err.Message}})
		return err
	}
	fmt.Fprintln(f.errWriter(), ErrorStyle.Render("✗ "+err.Message))
	return err
}

func (f *OutputFormatter) VerboseLog(format string, args ...any) {
	if f.Verbose {
		fmt.Fprintf(f.errWriter(), format+"\n", args...)
	}
}

func (f *OutputFormatter) errWriter() io.Writer {
	if f.ErrWriter != nil {
		return f.ErrWriter
	}
	return f.Writer
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
