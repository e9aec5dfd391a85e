package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Nazim-fad/prototype-of-an-AI-agent/internal/application/service"
	"github.com/Nazim-fad/prototype-of-an-AI-agent/internal/infrastructure/report"
	"github.com/Nazim-fad/prototype-of-an-AI-agent/pkg/utils"
)

// ExportOptions holds flags for the export command.
type ExportOptions struct {
	*RootOptions
	Out string
}

// NewExportCommand creates the export command.
func NewExportCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ExportOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "export <invoice-id>",
		Short: "Write an invoice and its tickets to an xlsx file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return exportInvoice(opts, cmd, args[0])
		},
	}

	cmd.Flags().StringVarP(&opts.Out, "out", "o", "", "output file (default <invoice-id>.xlsx)")

	return cmd
}

func exportInvoice(opts *ExportOptions, cmd *cobra.Command, invoiceID string) error {
	s, err := opts.openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	invoices := service.NewInvoiceService(
		s.repos.Invoice,
		s.repos.Ticket,
		report.NewExcelExporter(s.logger),
		utils.NewSugarLogger(s.logger),
	)

	data, err := invoices.Report(cmd.Context(), invoiceID)
	if err != nil {
		return WrapExitError(ExitFailure, "failed to export invoice", err)
	}

	out := opts.Out
	if out == "" {
		out = utils.SanitizeFilename(invoiceID) + ".xlsx"
	}
	if err := os.WriteFile(out, data, 0644); err != nil {
		return WrapExitError(ExitCommandError, "failed to write report", err)
	}

	result := map[string]interface{}{"invoice_id": invoiceID, "path": out, "bytes": len(data)}
	return opts.formatter(cmd).Success(result, fmt.Sprintf("Wrote %s (%d bytes)\n", out, len(data)))
}
