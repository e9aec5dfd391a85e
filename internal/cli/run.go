package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Nazim-fad/prototype-of-an-AI-agent/internal/domain/entity"
	"github.com/Nazim-fad/prototype-of-an-AI-agent/pkg/utils"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	Instruction string
	AutoInsert  bool
	Recipient   string
}

// runOutput is the JSON form of one processed file
type runOutput struct {
	Path   string                 `json:"path"`
	Result *entity.WorkflowResult `json:"result,omitempty"`
	Error  string                 `json:"error,omitempty"`
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run <file>...",
		Short: "Run the workflow on documents",
		Long: `Run the document workflow on one or more PDF, text or markdown files.

Files are processed concurrently up to workflow.batch_concurrency. A failing
file does not stop the others; the exit code is 1 when any file failed.

Example:
  docflow run invoice.pdf
  docflow run --auto-insert --recipient ap@example.com inbox/*.pdf
  docflow run --instruction "only check the totals" --format json ticket.txt`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDocuments(opts, cmd, args)
		},
	}

	cmd.Flags().StringVarP(&opts.Instruction, "instruction", "i", "", "free-text instruction for the planner")
	cmd.Flags().BoolVar(&opts.AutoInsert, "auto-insert", false, "record unknown invoices (default from workflow.auto_insert_new_invoices)")
	cmd.Flags().StringVar(&opts.Recipient, "recipient", "", "fallback notification recipient")

	return cmd
}

func runDocuments(opts *RunOptions, cmd *cobra.Command, paths []string) error {
	c, err := opts.startContainer(cmd.Context())
	if err != nil {
		return err
	}
	defer c.Close()

	settings := c.Settings()
	if cmd.Flags().Changed("auto-insert") {
		settings.AutoInsert = opts.AutoInsert
	}
	if r := strings.TrimSpace(opts.Recipient); r != "" {
		if err := utils.ValidateEmail(r); err != nil {
			return WrapExitError(ExitCommandError, "invalid --recipient", err)
		}
		settings.DefaultRecipient = r
	}

	abs := make([]string, len(paths))
	for i, p := range paths {
		if a, err := filepath.Abs(p); err == nil {
			abs[i] = a
		} else {
			abs[i] = p
		}
	}

	out := opts.formatter(cmd)
	out.VerboseLog("Processing %d file(s), auto_insert=%t", len(abs), settings.AutoInsert)

	results := c.Services().Document.ProcessBatch(cmd.Context(), abs, opts.Instruction, settings)

	outputs := make([]runOutput, len(results))
	var text strings.Builder
	failed := 0
	for i, r := range results {
		outputs[i] = runOutput{Path: paths[i], Result: r.Result}
		if r.Err != nil {
			failed++
			outputs[i].Error = r.Err.Error()
		}
		renderResult(&text, paths[i], r.Result, r.Err)
	}

	if failed > 0 {
		runErr := NewExitError(ExitFailure, pluralFailed(failed, len(results)))
		if err := out.Failure(outputs, text.String(), runErr); err != nil {
			return err
		}
		return runErr
	}
	return out.Success(outputs, text.String())
}

func pluralFailed(failed, total int) string {
	if total == 1 {
		return "document failed"
	}
	return fmt.Sprintf("%d of %d documents failed", failed, total)
}
