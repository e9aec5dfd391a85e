package port

import (
	"context"

	"github.com/Nazim-fad/prototype-of-an-AI-agent/internal/domain/entity"
)

// InvoiceRepository defines persistence operations for invoice records
type InvoiceRepository interface {
	// GetByID returns nil, nil when no record exists
	GetByID(ctx context.Context, invoiceID string) (*entity.InvoiceRecord, error)
	// Upsert inserts the record or replaces every column of an existing one
	Upsert(ctx context.Context, record *entity.InvoiceRecord) error
	List(ctx context.Context, limit, offset int) ([]*entity.InvoiceRecord, error)
}

// TicketRepository defines persistence operations for discrepancy tickets
type TicketRepository interface {
	// Create assigns a fresh ticket id and creation date, applies defaults and stores the ticket
	Create(ctx context.Context, req entity.TicketRequest) (*entity.Ticket, error)
	GetByID(ctx context.Context, ticketID string) (*entity.Ticket, error)
	// ListByInvoiceID returns tickets newest first
	ListByInvoiceID(ctx context.Context, invoiceID string) ([]*entity.Ticket, error)
}

// NotificationRepository defines persistence operations for the delivery log
type NotificationRepository interface {
	Create(ctx context.Context, notification *entity.Notification) error
	ListByInvoiceID(ctx context.Context, invoiceID string) ([]*entity.Notification, error)
	ListRecent(ctx context.Context, limit int) ([]*entity.Notification, error)
}

// TransactionManager handles database transactions
type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
