package dispatcher

import (
	"context"

	"github.com/Nazim-fad/prototype-of-an-AI-agent/internal/application/port"
	"github.com/Nazim-fad/prototype-of-an-AI-agent/internal/domain/entity"
	"github.com/Nazim-fad/prototype-of-an-AI-agent/internal/domain/event"
)

// AuditTypes are the events the audit log listens to
var AuditTypes = []event.Type{
	event.TypeDocumentParsed,
	event.TypeInvoiceRecorded,
	event.TypeTicketCreated,
	event.TypeNotificationSent,
	event.TypeRunCompleted,
	event.TypeRunFailed,
}

// AuditLogHandler writes every event it receives to logger
func AuditLogHandler(logger Logger) Handler {
	return func(ctx context.Context, evt *event.Event) error {
		logger.Info("Workflow event",
			"event_id", evt.ID,
			"type", string(evt.Type),
			"run_id", evt.RunID,
			"invoice_id", evt.InvoiceID,
			"source", evt.Source,
			"payload", evt.Payload)
		return nil
	}
}

// TicketAlertHandler forwards ticket.created events to alerter
func TicketAlertHandler(alerter port.TicketAlerter) Handler {
	return func(ctx context.Context, evt *event.Event) error {
		return alerter.AlertTicket(ctx, ticketFromEvent(evt))
	}
}

func ticketFromEvent(evt *event.Event) *entity.Ticket {
	ticket := &entity.Ticket{InvoiceID: evt.InvoiceID}
	if id, ok := evt.Payload["invoice_id"].(string); ok && id != "" {
		ticket.InvoiceID = id
	}
	ticket.TicketID, _ = evt.Payload["ticket_id"].(string)
	ticket.IssueType, _ = evt.Payload["issue_type"].(string)
	ticket.Priority, _ = evt.Payload["priority"].(string)
	ticket.Description, _ = evt.Payload["description"].(string)
	ticket.RecordedAmount = amount(evt.Payload["recorded_amount"])
	ticket.DocumentAmount = amount(evt.Payload["document_amount"])
	return ticket
}

func amount(v interface{}) *float64 {
	switch a := v.(type) {
	case *float64:
		return a
	case float64:
		return &a
	}
	return nil
}
