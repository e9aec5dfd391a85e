package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/Nazim-fad/prototype-of-an-AI-agent/internal/application/port"
	"github.com/Nazim-fad/prototype-of-an-AI-agent/internal/domain/entity"
)

var (
	// ErrInvoiceNotFound is returned when no stored invoice has the id
	ErrInvoiceNotFound = errors.New("invoice not found")

	// ErrTicketNotFound is returned when no ticket has the id
	ErrTicketNotFound = errors.New("ticket not found")
)

// InvoiceService reads the record store and renders invoice reports
type InvoiceService interface {
	List(ctx context.Context, limit, offset int) ([]*entity.InvoiceRecord, error)
	Get(ctx context.Context, invoiceID string) (*entity.InvoiceRecord, error)
	Tickets(ctx context.Context, invoiceID string) ([]*entity.Ticket, error)
	Ticket(ctx context.Context, ticketID string) (*entity.Ticket, error)
	// Report renders the invoice and its tickets as a spreadsheet
	Report(ctx context.Context, invoiceID string) ([]byte, error)
}

type invoiceServiceImpl struct {
	invoiceRepo port.InvoiceRepository
	ticketRepo  port.TicketRepository
	exporter    port.SpreadsheetExporter
	logger      Logger
}

// NewInvoiceService creates a new InvoiceService
func NewInvoiceService(
	invoiceRepo port.InvoiceRepository,
	ticketRepo port.TicketRepository,
	exporter port.SpreadsheetExporter,
	logger Logger,
) InvoiceService {
	return &invoiceServiceImpl{
		invoiceRepo: invoiceRepo,
		ticketRepo:  ticketRepo,
		exporter:    exporter,
		logger:      logger,
	}
}

func (s *invoiceServiceImpl) List(ctx context.Context, limit, offset int) ([]*entity.InvoiceRecord, error) {
	if limit <= 0 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}

	records, err := s.invoiceRepo.List(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}
	if records == nil {
		records = []*entity.InvoiceRecord{}
	}
	return records, nil
}

func (s *invoiceServiceImpl) Get(ctx context.Context, invoiceID string) (*entity.InvoiceRecord, error) {
	record, err := s.invoiceRepo.GetByID(ctx, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("get invoice: %w", err)
	}
	if record == nil {
		return nil, fmt.Errorf("%w: %s", ErrInvoiceNotFound, invoiceID)
	}
	return record, nil
}

func (s *invoiceServiceImpl) Tickets(ctx context.Context, invoiceID string) ([]*entity.Ticket, error) {
	tickets, err := s.ticketRepo.ListByInvoiceID(ctx, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("list tickets: %w", err)
	}
	return tickets, nil
}

func (s *invoiceServiceImpl) Ticket(ctx context.Context, ticketID string) (*entity.Ticket, error) {
	ticket, err := s.ticketRepo.GetByID(ctx, ticketID)
	if err != nil {
		return nil, fmt.Errorf("get ticket: %w", err)
	}
	if ticket == nil {
		return nil, fmt.Errorf("%w: %s", ErrTicketNotFound, ticketID)
	}
	return ticket, nil
}

// Report exports the stored invoice with its tickets
func (s *invoiceServiceImpl) Report(ctx context.Context, invoiceID string) ([]byte, error) {
	record, err := s.Get(ctx, invoiceID)
	if err != nil {
		return nil, err
	}

	tickets, err := s.Tickets(ctx, invoiceID)
	if err != nil {
		return nil, err
	}

	data, err := s.exporter.ExportInvoice(ctx, record, tickets)
	if err != nil {
		s.logger.Error("Failed to export invoice report", "invoice_id", invoiceID, "error", err)
		return nil, fmt.Errorf("export invoice report: %w", err)
	}

	s.logger.Info("Invoice report exported",
		"invoice_id", invoiceID,
		"tickets", len(tickets),
		"bytes", len(data),
	)
	return data, nil
}
