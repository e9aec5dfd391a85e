package port

import (
	"context"

	"github.com/Nazim-fad/prototype-of-an-AI-agent/internal/domain/entity"
)

// FieldExtractor classifies document text and extracts typed fields
type FieldExtractor interface {
	Extract(ctx context.Context, text string) (*entity.ParsedDocument, error)
}

// FieldModel is the language model behind field extraction
type FieldModel interface {
	ExtractInvoice(ctx context.Context, text string) (*entity.InvoiceFields, error)
	ExtractTicket(ctx context.Context, text string) (*entity.TicketFields, error)
}

// PlanSource proposes the ordered action list for a run
type PlanSource interface {
	Propose(ctx context.Context, instruction string, settings entity.Settings) (*entity.WorkflowPlan, error)
}

// Notifier drafts and delivers discrepancy notifications
type Notifier interface {
	Draft(ctx context.Context, recipient string, bundle *entity.NotificationContext) (*entity.EmailDraft, error)
	// Send returns a human readable delivery status
	Send(ctx context.Context, recipient, subject, body string) (string, error)
}

// EmailDrafter writes the body of a notification from its context bundle
type EmailDrafter interface {
	DraftEmail(ctx context.Context, recipient string, bundle *entity.NotificationContext) (*entity.EmailDraft, error)
}

// NotificationSender delivers a drafted message over one transport
type NotificationSender interface {
	Send(ctx context.Context, recipient, subject, body string) (string, error)
	Transport() string
}

// TicketAlerter posts a short alert when a ticket is opened
type TicketAlerter interface {
	AlertTicket(ctx context.Context, ticket *entity.Ticket) error
}

// ChatTurn is one past question and answer of a document chat
type ChatTurn struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// ChatFlags tells the tool planner what context is available
type ChatFlags struct {
	HasParsedInvoice bool `json:"has_parsed_invoice"`
	HasParsedTicket  bool `json:"has_parsed_ticket"`
	HasIndex         bool `json:"has_index"`
}

// ChatPrompt is the material the answer step is given
type ChatPrompt struct {
	History    string
	Question   string
	Structured string
	RAGContext string
}

// ChatModel is the language model behind the document assistant
type ChatModel interface {
	// ChooseTools returns the tools the model wants for question
	ChooseTools(ctx context.Context, question string, flags ChatFlags) ([]string, error)
	Answer(ctx context.Context, prompt ChatPrompt) (string, error)
}

// Embedder computes vector embeddings for text chunks
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}

// SpreadsheetExporter renders an invoice and its tickets as a workbook
type SpreadsheetExporter interface {
	ExportInvoice(ctx context.Context, invoice *entity.InvoiceRecord, tickets []*entity.Ticket) ([]byte, error)
}
