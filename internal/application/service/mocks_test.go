package service

import (
	"context"

	"github.com/Nazim-fad/prototype-of-an-AI-agent/internal/application/port"
	"github.com/Nazim-fad/prototype-of-an-AI-agent/internal/domain/entity"
	"github.com/stretchr/testify/mock"
)

type testLogger struct{}

func (testLogger) Info(msg string, keysAndValues ...interface{})  {}
func (testLogger) Error(msg string, keysAndValues ...interface{}) {}

type mockRunner struct {
	handleFunc func(ctx context.Context, doc entity.Document, instruction string, settings entity.Settings) (*entity.WorkflowResult, error)
}

func (m *mockRunner) Handle(ctx context.Context, doc entity.Document, instruction string, settings entity.Settings) (*entity.WorkflowResult, error) {
	return m.handleFunc(ctx, doc, instruction, settings)
}

type mockDrafter struct {
	draftFunc func(ctx context.Context, recipient string, bundle *entity.NotificationContext) (*entity.EmailDraft, error)
}

func (m *mockDrafter) DraftEmail(ctx context.Context, recipient string, bundle *entity.NotificationContext) (*entity.EmailDraft, error) {
	return m.draftFunc(ctx, recipient, bundle)
}

// mockSender records deliveries through testify/mock
type mockSender struct {
	mock.Mock
}

func (m *mockSender) Send(ctx context.Context, recipient, subject, body string) (string, error) {
	args := m.Called(ctx, recipient, subject, body)
	return args.String(0), args.Error(1)
}

func (m *mockSender) Transport() string {
	return entity.TransportOutbox
}

type mockNotificationRepo struct {
	created         []*entity.Notification
	createErr       error
	listByInvoiceFn func(ctx context.Context, invoiceID string) ([]*entity.Notification, error)
	listRecentFn    func(ctx context.Context, limit int) ([]*entity.Notification, error)
}

func (m *mockNotificationRepo) Create(ctx context.Context, notification *entity.Notification) error {
	if m.createErr != nil {
		return m.createErr
	}
	notification.ID = int64(len(m.created) + 1)
	m.created = append(m.created, notification)
	return nil
}

func (m *mockNotificationRepo) ListByInvoiceID(ctx context.Context, invoiceID string) ([]*entity.Notification, error) {
	return m.listByInvoiceFn(ctx, invoiceID)
}

func (m *mockNotificationRepo) ListRecent(ctx context.Context, limit int) ([]*entity.Notification, error) {
	return m.listRecentFn(ctx, limit)
}

type mockChatModel struct {
	chooseToolsFunc func(ctx context.Context, question string, flags port.ChatFlags) ([]string, error)
	prompts         []port.ChatPrompt
}

func (m *mockChatModel) ChooseTools(ctx context.Context, question string, flags port.ChatFlags) ([]string, error) {
	return m.chooseToolsFunc(ctx, question, flags)
}

func (m *mockChatModel) Answer(ctx context.Context, prompt port.ChatPrompt) (string, error) {
	m.prompts = append(m.prompts, prompt)
	return "The total is 4376.78 USD.", nil
}

type mockEmbedder struct {
	embedFunc func(ctx context.Context, texts []string) ([][]float32, error)
}

func (m *mockEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	return m.embedFunc(ctx, texts)
}

type mockInvoiceRepo struct {
	records map[string]*entity.InvoiceRecord
}

func (m *mockInvoiceRepo) GetByID(ctx context.Context, invoiceID string) (*entity.InvoiceRecord, error) {
	return m.records[invoiceID], nil
}

func (m *mockInvoiceRepo) Upsert(ctx context.Context, record *entity.InvoiceRecord) error {
	m.records[record.InvoiceID] = record
	return nil
}

func (m *mockInvoiceRepo) List(ctx context.Context, limit, offset int) ([]*entity.InvoiceRecord, error) {
	return nil, nil
}

type mockTicketRepo struct {
	tickets []*entity.Ticket
}

func (m *mockTicketRepo) Create(ctx context.Context, req entity.TicketRequest) (*entity.Ticket, error) {
	return nil, nil
}

func (m *mockTicketRepo) GetByID(ctx context.Context, ticketID string) (*entity.Ticket, error) {
	for _, t := range m.tickets {
		if t.TicketID == ticketID {
			return t, nil
		}
	}
	return nil, nil
}

func (m *mockTicketRepo) ListByInvoiceID(ctx context.Context, invoiceID string) ([]*entity.Ticket, error) {
	var out []*entity.Ticket
	for _, t := range m.tickets {
		if t.InvoiceID == invoiceID {
			out = append(out, t)
		}
	}
	return out, nil
}

type mockExporter struct {
	exportFunc func(ctx context.Context, invoice *entity.InvoiceRecord, tickets []*entity.Ticket) ([]byte, error)
}

func (m *mockExporter) ExportInvoice(ctx context.Context, invoice *entity.InvoiceRecord, tickets []*entity.Ticket) ([]byte, error) {
	return m.exportFunc(ctx, invoice, tickets)
}
