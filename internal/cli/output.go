package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/Nazim-fad/prototype-of-an-AI-agent/internal/domain/entity"
)

// Exit codes for CLI commands.
const (
	ExitSuccess      = 0 // Successful execution
	ExitFailure      = 1 // At least one document failed
	ExitCommandError = 2 // Command error (bad config, missing file, etc.)
)

// ExitError represents an error with a specific exit code.
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

// NewExitError creates a new ExitError with the given code and message.
func NewExitError(code int, message string) *ExitError {
	return &ExitError{Code: code, Message: message}
}

// WrapExitError wraps an existing error with an exit code.
func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// GetExitCode extracts the exit code from an error.
// Returns ExitFailure if the error is not an ExitError.
func GetExitCode(err error) int {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}

// OutputFormatter handles JSON vs text output for CLI commands.
type OutputFormatter struct {
	Format    string
	Writer    io.Writer
	ErrWriter io.Writer
	Verbose   bool
}

// CLIResponse is the JSON envelope of CLI output.
type CLIResponse struct {
	Status string      `json:"status"` // "ok" or "error"
	Data   interface{} `json:"data,omitempty"`
	Error  string      `json:"error,omitempty"`
}

// JSON reports whether output is JSON.
func (f *OutputFormatter) JSON() bool {
	return f.Format == "json"
}

// Success outputs data. Text output uses text, JSON output encodes data.
func (f *OutputFormatter) Success(data interface{}, text string) error {
	if f.JSON() {
		return f.encode(CLIResponse{Status: "ok", Data: data})
	}
	_, err := io.WriteString(f.Writer, text)
	return err
}

// Failure outputs data together with an error.
func (f *OutputFormatter) Failure(data interface{}, text string, cause error) error {
	if f.JSON() {
		return f.encode(CLIResponse{Status: "error", Data: data, Error: cause.Error()})
	}
	_, err := io.WriteString(f.Writer, text)
	return err
}

// VerboseLog outputs a message only if verbose mode is enabled.
func (f *OutputFormatter) VerboseLog(format string, args ...interface{}) {
	if !f.Verbose {
		return
	}
	w := f.ErrWriter
	if w == nil {
		w = f.Writer
	}
	fmt.Fprintf(w, format+"\n", args...)
}

func (f *OutputFormatter) encode(v interface{}) error {
	enc := json.NewEncoder(f.Writer)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// renderResult writes the human readable summary of one run
func renderResult(b *strings.Builder, path string, result *entity.WorkflowResult, runErr error) {
	fmt.Fprintf(b, "== %s\n", path)
	if result == nil {
		fmt.Fprintf(b, "   error: %v\n", runErr)
		return
	}

	fmt.Fprintf(b, "   state:    %s\n", result.RunState)
	fmt.Fprintf(b, "   plan:     %s\n", strings.Join(result.Plan.Actions, ", "))
	fmt.Fprintf(b, "   type:     %s\n", valueOr(string(result.DocType), "-"))

	if inv := result.ParsedInvoice; inv != nil {
		fmt.Fprintf(b, "   invoice:  %s\n", valueOr(inv.ID(), "(no id)"))
	}
	if m := result.MathCheck; m != nil && m.IsValid != nil {
		if *m.IsValid {
			b.WriteString("   math:     ok\n")
		} else {
			fmt.Fprintf(b, "   math:     %s\n", strings.Join(m.Issues, "; "))
		}
	}
	if rec := result.Reconciliation; rec != nil && rec.IsMatch != nil {
		if *rec.IsMatch {
			b.WriteString("   record:   matches\n")
		} else {
			for _, d := range rec.Differences {
				fmt.Fprintf(b, "   record:   %s\n", d)
			}
		}
	} else if result.DBInvoice != nil {
		b.WriteString("   record:   stored\n")
	}
	if t := result.Ticket; t != nil {
		fmt.Fprintf(b, "   ticket:   %s (%s, %s)\n", t.TicketID, t.IssueType, t.Priority)
	}
	if result.EmailStatus != nil {
		fmt.Fprintf(b, "   email:    %s\n", *result.EmailStatus)
	}
	if runErr != nil {
		fmt.Fprintf(b, "   error:    %v\n", runErr)
	}
}

func valueOr(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
