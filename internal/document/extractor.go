package document

import (
	"context"
	"fmt"

	"github.com/Nazim-fad/prototype-of-an-AI-agent/internal/application/port"
	"github.com/Nazim-fad/prototype-of-an-AI-agent/internal/domain/entity"
	"go.uber.org/zap"
)

// Extractor implements port.FieldExtractor by classifying the text and
// asking the field model for the matching schema
type Extractor struct {
	model  port.FieldModel
	logger *zap.Logger
}

// NewExtractor creates an extractor backed by model
func NewExtractor(model port.FieldModel, logger *zap.Logger) *Extractor {
	return &Extractor{
		model:  model,
		logger: logger,
	}
}

// Extract classifies text and extracts invoice or ticket fields. Unknown
// documents carry no fields. The raw text on the returned fields is always
// the input text, whatever the model echoed back.
func (e *Extractor) Extract(ctx context.Context, text string) (*entity.ParsedDocument, error) {
	classified := Classify(text)
	parsed := &entity.ParsedDocument{
		DocType: classified.DocType,
		RawText: text,
	}

	switch classified.DocType {
	case entity.DocTypeInvoice:
		fields, err := e.model.ExtractInvoice(ctx, text)
		if err != nil {
			return nil, fmt.Errorf("failed to extract invoice fields: %w", err)
		}
		if fields == nil {
			fields = &entity.InvoiceFields{}
		}
		fields.RawText = text
		parsed.Invoice = fields

		e.logger.Info("Invoice fields extracted",
			zap.String("invoice_id", fields.ID()))

	case entity.DocTypeTicket:
		fields, err := e.model.ExtractTicket(ctx, text)
		if err != nil {
			return nil, fmt.Errorf("failed to extract ticket fields: %w", err)
		}
		if fields == nil {
			fields = &entity.TicketFields{}
		}
		fields.RawText = text
		parsed.Ticket = fields

		e.logger.Info("Ticket fields extracted",
			zap.Stringp("ticket_id", fields.TicketID))

	default:
		e.logger.Debug("Document type unknown, no fields extracted",
			zap.Int("text_length", len(text)))
	}

	return parsed, nil
}

// Verify interface compliance
var _ port.FieldExtractor = (*Extractor)(nil)
