// Package report renders stored invoices as spreadsheets.
package report

import (
	"context"
	"fmt"

	"github.com/Nazim-fad/prototype-of-an-AI-agent/internal/application/port"
	"github.com/Nazim-fad/prototype-of-an-AI-agent/internal/domain/entity"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

// Sheet names of the invoice workbook
const (
	InvoiceSheet = "Invoice"
	TicketsSheet = "Tickets"
)

var ticketHeader = []string{
	"Ticket ID", "Created", "Created By", "Department", "Status",
	"Priority", "Issue Type", "Recorded Amount", "Document Amount", "Description",
}

// ExcelExporter implements port.SpreadsheetExporter
type ExcelExporter struct {
	logger *zap.Logger
}

// NewExcelExporter creates an xlsx exporter
func NewExcelExporter(logger *zap.Logger) *ExcelExporter {
	return &ExcelExporter{logger: logger}
}

// ExportInvoice writes the invoice fields on one sheet and its tickets on
// another, returning the workbook bytes
func (e *ExcelExporter) ExportInvoice(ctx context.Context, invoice *entity.InvoiceRecord, tickets []*entity.Ticket) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", InvoiceSheet); err != nil {
		return nil, fmt.Errorf("failed to rename sheet: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("failed to create style: %w", err)
	}

	rows := [][2]interface{}{
		{"Invoice ID", invoice.InvoiceID},
		{"Supplier", str(invoice.SupplierName)},
		{"Customer", str(invoice.CustomerName)},
		{"Invoice Date", str(invoice.InvoiceDate)},
		{"Due Date", str(invoice.DueDate)},
		{"Total Amount", amount(invoice.TotalAmount)},
		{"Tax Amount", amount(invoice.TaxAmount)},
		{"Currency", str(invoice.Currency)},
		{"Status", invoice.Status},
		{"Source File", str(invoice.SourceFile)},
	}
	for i, row := range rows {
		e.setRow(f, InvoiceSheet, 1, i+1, row[0], row[1])
	}
	if err := f.SetCellStyle(InvoiceSheet, "A1", fmt.Sprintf("A%d", len(rows)), bold); err != nil {
		return nil, fmt.Errorf("failed to style invoice sheet: %w", err)
	}
	_ = f.SetColWidth(InvoiceSheet, "A", "A", 16)
	_ = f.SetColWidth(InvoiceSheet, "B", "B", 40)

	if _, err := f.NewSheet(TicketsSheet); err != nil {
		return nil, fmt.Errorf("failed to create tickets sheet: %w", err)
	}

	header := make([]interface{}, len(ticketHeader))
	for i, h := range ticketHeader {
		header[i] = h
	}
	e.setRow(f, TicketsSheet, 1, 1, header...)
	lastHeader, _ := excelize.CoordinatesToCellName(len(ticketHeader), 1)
	if err := f.SetCellStyle(TicketsSheet, "A1", lastHeader, bold); err != nil {
		return nil, fmt.Errorf("failed to style tickets sheet: %w", err)
	}

	for i, t := range tickets {
		e.setRow(f, TicketsSheet, 1, i+2,
			t.TicketID, t.CreatedDate, t.CreatedBy, t.Department, t.Status,
			t.Priority, t.IssueType, amount(t.RecordedAmount), amount(t.DocumentAmount), t.Description,
		)
	}
	_ = f.SetColWidth(TicketsSheet, "J", "J", 60)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}

	e.logger.Info("Invoice workbook built",
		zap.String("invoice_id", invoice.InvoiceID),
		zap.Int("tickets", len(tickets)))

	return buf.Bytes(), nil
}

// setRow writes values left to right starting at column col
func (e *ExcelExporter) setRow(f *excelize.File, sheet string, col, row int, values ...interface{}) {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		e.logger.Warn("Invalid cell coordinates", zap.Int("col", col), zap.Int("row", row))
		return
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		e.logger.Warn("Failed to set row",
			zap.String("sheet", sheet),
			zap.String("cell", cell),
			zap.Error(err))
	}
}

func str(s *string) interface{} {
	if s == nil {
		return ""
	}
	return *s
}

// amount leaves the cell blank for a missing amount
func amount(f *float64) interface{} {
	if f == nil {
		return ""
	}
	return *f
}

var _ port.SpreadsheetExporter = (*ExcelExporter)(nil)
