package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Nazim-fad/prototype-of-an-AI-agent/internal/application/port"
	"github.com/Nazim-fad/prototype-of-an-AI-agent/internal/domain/entity"
	"github.com/Nazim-fad/prototype-of-an-AI-agent/internal/infrastructure/persistence/sqlite"
	"github.com/google/uuid"
	"github.com/mattn/go-sqlite3"
	"go.uber.org/zap"
)

// maxTicketIDAttempts bounds the retries on a ticket id collision
const maxTicketIDAttempts = 3

const ticketColumns = `ticket_id, invoice_id, created_date, created_by, department,
	status, priority, issue_type, recorded_amount, document_amount, description`

// TicketRepository implements port.TicketRepository
type TicketRepository struct {
	db     *sql.DB
	logger *zap.Logger
	now    func() time.Time
	newID  func(now time.Time) string
}

// TicketOption configures the ticket repository
type TicketOption func(*TicketRepository)

// WithClock overrides the time source used for ids and creation dates
func WithClock(now func() time.Time) TicketOption {
	return func(r *TicketRepository) {
		r.now = now
	}
}

// WithIDGenerator overrides the ticket id generator
func WithIDGenerator(gen func(now time.Time) string) TicketOption {
	return func(r *TicketRepository) {
		r.newID = gen
	}
}

// NewTicketRepository creates a new ticket repository
func NewTicketRepository(db *sql.DB, logger *zap.Logger, opts ...TicketOption) port.TicketRepository {
	r := &TicketRepository{
		db:     db,
		logger: logger,
		now:    time.Now,
		newID:  NewTicketID,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// NewTicketID builds an id of the form TCK-<year>-<4 upper hex chars>
func NewTicketID(now time.Time) string {
	hex := strings.ReplaceAll(uuid.New().String(), "-", "")
	return fmt.Sprintf("TCK-%d-%s", now.UTC().Year(), strings.ToUpper(hex[:4]))
}

// Create stores a new ticket. A primary key collision on the short id is
// retried with a fresh id.
func (r *TicketRepository) Create(ctx context.Context, req entity.TicketRequest) (*entity.Ticket, error) {
	req = req.WithDefaults()

	query := `INSERT INTO tickets (` + ticketColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	var lastErr error
	for attempt := 1; attempt <= maxTicketIDAttempts; attempt++ {
		now := r.now().UTC()
		ticket := &entity.Ticket{
			TicketID:       r.newID(now),
			InvoiceID:      req.InvoiceID,
			CreatedDate:    now.Format(time.RFC3339),
			CreatedBy:      req.CreatedBy,
			Department:     req.Department,
			Status:         req.Status,
			Priority:       req.Priority,
			IssueType:      req.IssueType,
			RecordedAmount: req.RecordedAmount,
			DocumentAmount: req.DocumentAmount,
			Description:    req.Description,
		}

		_, err := sqlite.ExecutorFor(ctx, r.db).ExecContext(ctx, query,
			ticket.TicketID,
			ticket.InvoiceID,
			ticket.CreatedDate,
			ticket.CreatedBy,
			ticket.Department,
			ticket.Status,
			ticket.Priority,
			ticket.IssueType,
			ticket.RecordedAmount,
			ticket.DocumentAmount,
			ticket.Description,
		)
		if err == nil {
			r.logger.Info("Ticket created",
				zap.String("ticket_id", ticket.TicketID),
				zap.String("invoice_id", ticket.InvoiceID),
				zap.String("issue_type", ticket.IssueType))
			return ticket, nil
		}

		if !isPrimaryKeyViolation(err) {
			r.logger.Error("Failed to create ticket",
				zap.String("invoice_id", req.InvoiceID),
				zap.Error(err))
			return nil, fmt.Errorf("failed to create ticket: %w", err)
		}

		r.logger.Warn("Ticket id collision, retrying",
			zap.String("ticket_id", ticket.TicketID),
			zap.Int("attempt", attempt))
		lastErr = err
	}

	return nil, fmt.Errorf("failed to create ticket after %d attempts: %w", maxTicketIDAttempts, lastErr)
}

// GetByID retrieves a ticket by id
func (r *TicketRepository) GetByID(ctx context.Context, ticketID string) (*entity.Ticket, error) {
	query := `SELECT ` + ticketColumns + ` FROM tickets WHERE ticket_id = ?`

	ticket, err := scanTicket(sqlite.ExecutorFor(ctx, r.db).QueryRowContext(ctx, query, ticketID))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get ticket",
			zap.String("ticket_id", ticketID),
			zap.Error(err))
		return nil, fmt.Errorf("failed to get ticket: %w", err)
	}
	return ticket, nil
}

// ListByInvoiceID returns the tickets of an invoice, newest first
func (r *TicketRepository) ListByInvoiceID(ctx context.Context, invoiceID string) ([]*entity.Ticket, error) {
	query := `SELECT ` + ticketColumns + ` FROM tickets WHERE invoice_id = ? ORDER BY created_date DESC`

	rows, err := sqlite.ExecutorFor(ctx, r.db).QueryContext(ctx, query, invoiceID)
	if err != nil {
		r.logger.Error("Failed to list tickets",
			zap.String("invoice_id", invoiceID),
			zap.Error(err))
		return nil, fmt.Errorf("failed to list tickets: %w", err)
	}
	defer rows.Close()

	tickets := []*entity.Ticket{}
	for rows.Next() {
		ticket, err := scanTicket(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan ticket: %w", err)
		}
		tickets = append(tickets, ticket)
	}
	return tickets, rows.Err()
}

func scanTicket(row rowScanner) (*entity.Ticket, error) {
	var (
		ticket                                  entity.Ticket
		createdBy, department, status, priority sql.NullString
		issueType, description                  sql.NullString
		recordedAmount, documentAmount          sql.NullFloat64
	)

	if err := row.Scan(
		&ticket.TicketID,
		&ticket.InvoiceID,
		&ticket.CreatedDate,
		&createdBy,
		&department,
		&status,
		&priority,
		&issueType,
		&recordedAmount,
		&documentAmount,
		&description,
	); err != nil {
		return nil, err
	}

	ticket.CreatedBy = createdBy.String
	ticket.Department = department.String
	ticket.Status = status.String
	ticket.Priority = priority.String
	ticket.IssueType = issueType.String
	ticket.RecordedAmount = nullFloat(recordedAmount)
	ticket.DocumentAmount = nullFloat(documentAmount)
	ticket.Description = description.String
	return &ticket, nil
}

func isPrimaryKeyViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	return false
}

// Verify interface compliance
var _ port.TicketRepository = (*TicketRepository)(nil)
