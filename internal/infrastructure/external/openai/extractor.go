package openai

import (
	"context"

	"github.com/Nazim-fad/prototype-of-an-AI-agent/internal/application/port"
	"github.com/Nazim-fad/prototype-of-an-AI-agent/internal/domain/entity"
	"go.uber.org/zap"
)

// FieldExtractor implements port.FieldModel with the extraction prompts
type FieldExtractor struct {
	client *Client
}

// NewFieldExtractor creates a field model on client
func NewFieldExtractor(client *Client) *FieldExtractor {
	return &FieldExtractor{client: client}
}

type textPrompt struct {
	Text string
}

// ExtractInvoice asks the model for the invoice schema. A response that is
// not valid JSON yields empty fields rather than an error.
func (e *FieldExtractor) ExtractInvoice(ctx context.Context, text string) (*entity.InvoiceFields, error) {
	tmpl := e.client.prompts.InvoiceExtraction
	messages, err := prompt(tmpl, textPrompt{Text: text})
	if err != nil {
		return nil, err
	}

	content, err := e.client.complete(ctx, messages, tmpl.Temperature, true)
	if err != nil {
		return nil, err
	}

	var fields entity.InvoiceFields
	if err := decodeJSON(content, &fields); err != nil {
		e.client.logger.Warn("Invoice extraction returned no usable JSON",
			zap.Error(err))
		return &entity.InvoiceFields{RawText: text}, nil
	}

	fields.RawText = text
	return &fields, nil
}

// ExtractTicket asks the model for the ticket schema, with the same
// tolerance for unusable responses as ExtractInvoice
func (e *FieldExtractor) ExtractTicket(ctx context.Context, text string) (*entity.TicketFields, error) {
	tmpl := e.client.prompts.TicketExtraction
	messages, err := prompt(tmpl, textPrompt{Text: text})
	if err != nil {
		return nil, err
	}

	content, err := e.client.complete(ctx, messages, tmpl.Temperature, true)
	if err != nil {
		return nil, err
	}

	var fields entity.TicketFields
	if err := decodeJSON(content, &fields); err != nil {
		e.client.logger.Warn("Ticket extraction returned no usable JSON",
			zap.Error(err))
		return &entity.TicketFields{RawText: text}, nil
	}

	fields.RawText = text
	return &fields, nil
}

// Verify interface compliance
var _ port.FieldModel = (*FieldExtractor)(nil)
