package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"text/tabwriter"

	"github.com/JonMunkholm/dashboard/internal/core"
)

// Exit codes for CLI commands.
const (
	ExitSuccess      = 0
	ExitFailure      = 1 // rejected input or failed write
	ExitCommandError = 2 // bad flags, config or connection
)

// ExitError carries the process exit code for a failed command.
type ExitError struct {
	Code    int
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

// NewExitError creates an ExitError with no underlying error.
func NewExitError(code int, message string) *ExitError {
	return &ExitError{Code: code, Message: message}
}

// WrapExitError wraps err with an exit code.
func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// GetExitCode extracts the exit code from err, defaulting to ExitFailure.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}

// Response is the JSON envelope for --format json.
type Response struct {
	Status string            `json:"status"` // "ok" or "error"
	Data   any               `json:"data,omitempty"`
	Errors core.FieldErrors  `json:"errors,omitempty"`
	Error  *core.UserMessage `json:"error,omitempty"`
}

func writeResponse(w io.Writer, resp Response) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(resp)
}

// reportActionError prints a failed action and converts it to an ExitError.
func reportActionError(w io.Writer, format string, state core.State, err error) error {
	msg := core.MapError(err)

	if format == "json" {
		if werr := writeResponse(w, Response{Status: "error", Errors: state.Errors, Error: &msg}); werr != nil {
			return werr
		}
	} else {
		if state.Message != "" {
			fmt.Fprintln(w, state.Message)
		}
		fields := make([]string, 0, len(state.Errors))
		for f := range state.Errors {
			fields = append(fields, f)
		}
		sort.Strings(fields)
		for _, f := range fields {
			fmt.Fprintf(w, "  %s: %s\n", f, state.Errors[f])
		}
		if state.Message == "" && len(fields) == 0 {
			fmt.Fprintf(w, "%s (%s)\n", msg.Message, msg.Code)
		}
	}

	return WrapExitError(ExitFailure, msg.Code, err)
}

func writeInvoiceTable(w io.Writer, rows []core.InvoiceRow) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tCUSTOMER\tAMOUNT\tSTATUS\tDATE")
	for _, r := range rows {
		customer := r.CustomerName
		if customer == "" {
			customer = r.CustomerID
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			r.ID, customer, core.FormatCents(r.Amount), r.Status, r.Date.Format(core.DateLayout))
	}
	return tw.Flush()
}
