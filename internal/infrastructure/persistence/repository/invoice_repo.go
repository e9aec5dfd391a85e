package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Nazim-fad/prototype-of-an-AI-agent/internal/application/port"
	"github.com/Nazim-fad/prototype-of-an-AI-agent/internal/domain/entity"
	"github.com/Nazim-fad/prototype-of-an-AI-agent/internal/infrastructure/persistence/sqlite"
	"go.uber.org/zap"
)

// ErrInvoiceIDRequired is returned when upserting a record without an id
var ErrInvoiceIDRequired = errors.New("invoice_id required")

const invoiceColumns = `invoice_id, supplier_name, customer_name, invoice_date, due_date,
	total_amount, tax_amount, currency, status, source_file`

// InvoiceRepository implements port.InvoiceRepository
type InvoiceRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewInvoiceRepository creates a new invoice repository
func NewInvoiceRepository(db *sql.DB, logger *zap.Logger) port.InvoiceRepository {
	return &InvoiceRepository{
		db:     db,
		logger: logger,
	}
}

// GetByID retrieves an invoice by its business id
func (r *InvoiceRepository) GetByID(ctx context.Context, invoiceID string) (*entity.InvoiceRecord, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE invoice_id = ?`

	record, err := scanInvoice(sqlite.ExecutorFor(ctx, r.db).QueryRowContext(ctx, query, invoiceID))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get invoice",
			zap.String("invoice_id", invoiceID),
			zap.Error(err))
		return nil, fmt.Errorf("failed to get invoice: %w", err)
	}
	return record, nil
}

// Upsert inserts the invoice or updates every column when the id exists
func (r *InvoiceRepository) Upsert(ctx context.Context, record *entity.InvoiceRecord) error {
	if record == nil || record.InvoiceID == "" {
		return ErrInvoiceIDRequired
	}

	query := `
		INSERT INTO invoices (` + invoiceColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(invoice_id) DO UPDATE SET
			supplier_name = excluded.supplier_name,
			customer_name = excluded.customer_name,
			invoice_date = excluded.invoice_date,
			due_date = excluded.due_date,
			total_amount = excluded.total_amount,
			tax_amount = excluded.tax_amount,
			currency = excluded.currency,
			status = excluded.status,
			source_file = excluded.source_file
	`

	_, err := sqlite.ExecutorFor(ctx, r.db).ExecContext(ctx, query,
		record.InvoiceID,
		record.SupplierName,
		record.CustomerName,
		record.InvoiceDate,
		record.DueDate,
		record.TotalAmount,
		record.TaxAmount,
		record.Currency,
		record.Status,
		record.SourceFile,
	)
	if err != nil {
		r.logger.Error("Failed to upsert invoice",
			zap.String("invoice_id", record.InvoiceID),
			zap.Error(err))
		return fmt.Errorf("failed to upsert invoice: %w", err)
	}

	r.logger.Info("Invoice upserted",
		zap.String("invoice_id", record.InvoiceID),
		zap.String("status", record.Status))
	return nil
}

// List returns invoices ordered by id
func (r *InvoiceRepository) List(ctx context.Context, limit, offset int) ([]*entity.InvoiceRecord, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices ORDER BY invoice_id LIMIT ? OFFSET ?`

	rows, err := sqlite.ExecutorFor(ctx, r.db).QueryContext(ctx, query, limit, offset)
	if err != nil {
		r.logger.Error("Failed to list invoices", zap.Error(err))
		return nil, fmt.Errorf("failed to list invoices: %w", err)
	}
	defer rows.Close()

	var records []*entity.InvoiceRecord
	for rows.Next() {
		record, err := scanInvoice(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan invoice: %w", err)
		}
		records = append(records, record)
	}
	return records, rows.Err()
}

// rowScanner is satisfied by *sql.Row and *sql.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanInvoice(row rowScanner) (*entity.InvoiceRecord, error) {
	var (
		record                                   entity.InvoiceRecord
		supplier, customer, invoiceDate, dueDate sql.NullString
		currency, status, sourceFile             sql.NullString
		total, tax                               sql.NullFloat64
	)

	if err := row.Scan(
		&record.InvoiceID,
		&supplier,
		&customer,
		&invoiceDate,
		&dueDate,
		&total,
		&tax,
		&currency,
		&status,
		&sourceFile,
	); err != nil {
		return nil, err
	}

	record.SupplierName = nullString(supplier)
	record.CustomerName = nullString(customer)
	record.InvoiceDate = nullString(invoiceDate)
	record.DueDate = nullString(dueDate)
	record.TotalAmount = nullFloat(total)
	record.TaxAmount = nullFloat(tax)
	record.Currency = nullString(currency)
	record.Status = status.String
	record.SourceFile = nullString(sourceFile)
	return &record, nil
}

func nullString(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	s := v.String
	return &s
}

func nullFloat(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}

// Verify interface compliance
var _ port.InvoiceRepository = (*InvoiceRepository)(nil)
