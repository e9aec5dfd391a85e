package workflow

import (
	"context"
	"fmt"
	"strings"

	"github.com/Nazim-fad/prototype-of-an-AI-agent/internal/application/port"
	"github.com/Nazim-fad/prototype-of-an-AI-agent/internal/domain/entity"
	"github.com/Nazim-fad/prototype-of-an-AI-agent/internal/domain/event"
	"github.com/Nazim-fad/prototype-of-an-AI-agent/internal/validation"
)

const discrepancyHeader = "Discrepancy between invoice document and DB:\n"

// parseDocument loads and extracts the document once per run
func (e *Executor) parseDocument(ctx context.Context, r *run) error {
	if r.result.RawText != "" {
		return nil
	}

	text := r.doc.Text
	if text == "" {
		loaded, err := e.loader.LoadText(ctx, r.doc.SourcePath)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrExtractionFailed, err)
		}
		text = loaded
	}

	parsed, err := e.extractor.Extract(ctx, text)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrExtractionFailed, err)
	}

	r.result.DocType = parsed.DocType
	r.result.ParsedInvoice = parsed.Invoice
	r.result.ParsedTicket = parsed.Ticket
	r.result.RawText = parsed.RawText
	if r.result.RawText == "" {
		r.result.RawText = text
	}

	e.logger.Debug("Document parsed",
		"run_id", r.id,
		"doc_type", parsed.DocType,
		"invoice_id", r.invoice().ID())
	e.emit(ctx, r, event.TypeDocumentParsed, map[string]interface{}{
		"doc_type": string(parsed.DocType),
	})
	return nil
}

func (e *Executor) validateInvoiceMath(ctx context.Context, r *run) error {
	r.result.MathCheck = validation.ValidateMath(r.invoice(), r.result.RawText)
	return nil
}

func (e *Executor) getDBInvoice(ctx context.Context, r *run) error {
	id := r.invoice().ID()
	if id == "" {
		return nil
	}

	record, err := e.invoices.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrStoreFailed, err)
	}
	r.result.DBInvoice = record
	return nil
}

// insertInvoice records a new invoice unless its arithmetic is known to be wrong
func (e *Executor) insertInvoice(ctx context.Context, r *run) error {
	invoice := r.invoice()
	id := invoice.ID()
	if !r.settings.AutoInsert || id == "" || r.result.DBInvoice != nil || r.result.MathCheck.Invalid() {
		return nil
	}

	record := entity.NewInvoiceRecord(invoice, entity.InvoiceStatusRecorded, r.doc.SourcePath)

	// the re-read must observe the upsert, so both share one transaction
	var stored *entity.InvoiceRecord
	err := e.tx.WithTransaction(ctx, func(ctx context.Context) error {
		if err := e.invoices.Upsert(ctx, record); err != nil {
			return err
		}
		var err error
		stored, err = e.invoices.GetByID(ctx, id)
		return err
	})
	if err != nil {
		return fmt.Errorf("%w: %w", ErrStoreFailed, err)
	}
	r.result.DBInvoice = stored

	e.logger.Info("Invoice recorded", "run_id", r.id, "invoice_id", id)
	e.emit(ctx, r, event.TypeInvoiceRecorded, map[string]interface{}{
		"status":       entity.InvoiceStatusRecorded,
		"total_amount": invoice.TotalAmount,
	})
	return nil
}

func (e *Executor) reconcileInvoice(ctx context.Context, r *run) error {
	if r.invoice().ID() == "" || r.result.DBInvoice == nil {
		return nil
	}
	r.result.Reconciliation = validation.Reconcile(r.invoice(), r.result.DBInvoice)
	return nil
}

// createTicket opens an amount mismatch ticket listing every difference
func (e *Executor) createTicket(ctx context.Context, r *run) error {
	invoice := r.invoice()
	rec := r.result.Reconciliation
	if rec == nil || len(rec.Differences) == 0 || invoice.ID() == "" {
		return nil
	}

	lines := make([]string, len(rec.Differences))
	for i, diff := range rec.Differences {
		lines[i] = "- " + diff
	}

	return e.openTicket(ctx, r, entity.TicketRequest{
		InvoiceID:      invoice.ID(),
		IssueType:      entity.IssueTypeAmountMismatch,
		Description:    discrepancyHeader + strings.Join(lines, "\n"),
		DocumentAmount: invoice.TotalAmount,
	})
}

func (e *Executor) draftEmail(ctx context.Context, r *run) error {
	return e.notify(ctx, r)
}

// ticketFromDocument files a ticket for an ingested ticket document that
// no action turned into one
func (e *Executor) ticketFromDocument(ctx context.Context, r *run) error {
	parsed := r.result.ParsedTicket
	if r.result.DocType != entity.DocTypeTicket || parsed == nil || r.result.Ticket != nil {
		return nil
	}

	invoiceID := entity.UnknownInvoiceID
	if parsed.InvoiceID != nil && *parsed.InvoiceID != "" {
		invoiceID = *parsed.InvoiceID
	}
	issue := entity.IssueTypeTicketFromDocument
	if parsed.IssueType != nil && *parsed.IssueType != "" {
		issue = *parsed.IssueType
	}
	description := fmt.Sprintf("Ticket %s from document.", deref(parsed.TicketID))
	if parsed.Description != nil && *parsed.Description != "" {
		description = *parsed.Description
	}

	return e.openTicket(ctx, r, entity.TicketRequest{
		InvoiceID:      invoiceID,
		IssueType:      issue,
		Description:    description,
		RecordedAmount: parsed.RecordedAmount,
		DocumentAmount: parsed.DocumentAmount,
	})
}

// notifyInvalidInvoice makes sure an invoice with broken arithmetic is
// reported once even when the plan had no draft_email
func (e *Executor) notifyInvalidInvoice(ctx context.Context, r *run) error {
	if !r.isInvoice() || !r.result.MathCheck.Invalid() || r.result.EmailStatus != nil {
		return nil
	}
	return e.notify(ctx, r)
}

func (e *Executor) openTicket(ctx context.Context, r *run, req entity.TicketRequest) error {
	ticket, err := e.tickets.Create(ctx, req)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrStoreFailed, err)
	}
	r.result.Ticket = ticket

	e.emit(ctx, r, event.TypeTicketCreated, map[string]interface{}{
		"ticket_id":       ticket.TicketID,
		"invoice_id":      ticket.InvoiceID,
		"issue_type":      ticket.IssueType,
		"priority":        ticket.Priority,
		"description":     ticket.Description,
		"document_amount": ticket.DocumentAmount,
		"recorded_amount": ticket.RecordedAmount,
	})
	return nil
}

// notify drafts the discrepancy message and sends it
func (e *Executor) notify(ctx context.Context, r *run) error {
	invoice := r.invoice()

	recipient := r.settings.DefaultRecipient
	if invoice.ContactEmail != nil && *invoice.ContactEmail != "" {
		recipient = *invoice.ContactEmail
	}

	bundle := &entity.NotificationContext{
		DocType:         r.result.DocType,
		Invoice:         r.result.ParsedInvoice,
		MathCheck:       r.result.MathCheck,
		DBInvoice:       r.result.DBInvoice,
		Reconciliation:  r.result.Reconciliation,
		CreatedTicket:   r.result.Ticket,
		UserInstruction: r.instruction,
	}

	ctx = port.WithInvoiceID(ctx, invoice.ID())

	draft, err := e.notifier.Draft(ctx, recipient, bundle)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrNotificationFailed, err)
	}
	if draft == nil {
		draft = &entity.EmailDraft{}
	}
	if draft.Recipient == "" {
		draft.Recipient = recipient
	}
	subjectID := invoice.ID()
	if subjectID == "" {
		subjectID = "unknown invoice"
	}
	draft.Subject = "Discrepancy detected on " + subjectID
	r.result.EmailDraft = draft

	status, err := e.notifier.Send(ctx, draft.Recipient, draft.Subject, draft.Body)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrNotificationFailed, err)
	}
	r.result.EmailStatus = &status

	e.emit(ctx, r, event.TypeNotificationSent, map[string]interface{}{
		"recipient": draft.Recipient,
		"subject":   draft.Subject,
		"status":    status,
	})
	return nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
