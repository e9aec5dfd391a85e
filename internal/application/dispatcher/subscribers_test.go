package dispatcher

import (
	"context"
	"errors"
	"testing"

	"github.com/Nazim-fad/prototype-of-an-AI-agent/internal/domain/entity"
	"github.com/Nazim-fad/prototype-of-an-AI-agent/internal/domain/event"
)

type recordingAlerter struct {
	got *entity.Ticket
	err error
}

func (a *recordingAlerter) AlertTicket(ctx context.Context, ticket *entity.Ticket) error {
	a.got = ticket
	return a.err
}

func TestAuditLogHandler(t *testing.T) {
	logger := &mockLogger{}
	d := NewDispatcher()
	for _, typ := range AuditTypes {
		d.SubscribeNamed(typ, "audit", AuditLogHandler(logger))
	}

	if err := d.Dispatch(context.Background(), newTestEvent(event.TypeRunCompleted)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(logger.infos) != 1 || logger.infos[0] != "Workflow event" {
		t.Errorf("expected one audit entry, got %v", logger.infos)
	}
}

func TestTicketAlertHandler(t *testing.T) {
	recorded := 4376.78
	evt := event.NewEvent(event.TypeTicketCreated, "run-1", "", map[string]interface{}{
		"ticket_id":       "TCK-2025-00AB",
		"invoice_id":      "INV-2025-000",
		"issue_type":      entity.IssueTypeAmountMismatch,
		"priority":        "High",
		"description":     "total differs",
		"recorded_amount": &recorded,
		"document_amount": (*float64)(nil),
	})

	alerter := &recordingAlerter{}
	if err := TicketAlertHandler(alerter)(context.Background(), evt); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got := alerter.got
	if got.TicketID != "TCK-2025-00AB" || got.InvoiceID != "INV-2025-000" {
		t.Errorf("unexpected ticket identity: %+v", got)
	}
	if got.RecordedAmount == nil || *got.RecordedAmount != recorded {
		t.Errorf("expected recorded amount %v, got %v", recorded, got.RecordedAmount)
	}
	if got.DocumentAmount != nil {
		t.Errorf("expected nil document amount, got %v", *got.DocumentAmount)
	}
}

func TestTicketAlertHandler_Error(t *testing.T) {
	boom := errors.New("lark down")
	alerter := &recordingAlerter{err: boom}

	err := TicketAlertHandler(alerter)(context.Background(), newTestEvent(event.TypeTicketCreated))
	if !errors.Is(err, boom) {
		t.Errorf("expected %v, got %v", boom, err)
	}
	if alerter.got.InvoiceID != "INV-2025-001" {
		t.Errorf("expected event invoice id, got %q", alerter.got.InvoiceID)
	}
}
