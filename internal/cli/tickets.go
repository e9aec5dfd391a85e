package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// NewTicketsCommand creates the tickets command.
func NewTicketsCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "tickets <invoice-id>",
		Short: "List the tickets of an invoice",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := rootOpts.openStore()
			if err != nil {
				return err
			}
			defer s.Close()

			tickets, err := s.repos.Ticket.ListByInvoiceID(cmd.Context(), args[0])
			if err != nil {
				return WrapExitError(ExitFailure, "failed to list tickets", err)
			}

			var text strings.Builder
			if len(tickets) == 0 {
				fmt.Fprintf(&text, "No tickets for %s\n", args[0])
			}
			for _, t := range tickets {
				fmt.Fprintf(&text, "%s  %s  %-8s %-6s %s\n", t.TicketID, t.CreatedDate, t.Priority, t.Status, t.IssueType)
				for _, line := range strings.Split(t.Description, "\n") {
					fmt.Fprintf(&text, "    %s\n", line)
				}
			}
			return rootOpts.formatter(cmd).Success(tickets, text.String())
		},
	}
}
