package entity

// InvoiceFields holds the structured fields extracted from an invoice document.
// Any field the extractor could not read stays nil.
type InvoiceFields struct {
	InvoiceID    *string  `json:"invoice_id"`
	SupplierName *string  `json:"supplier_name"`
	CustomerName *string  `json:"customer_name"`
	InvoiceDate  *string  `json:"invoice_date"`
	DueDate      *string  `json:"due_date"`
	TotalAmount  *float64 `json:"total_amount"`
	TaxAmount    *float64 `json:"tax_amount"`
	Currency     *string  `json:"currency"`
	ContactEmail *string  `json:"contact_email"`
	RawText      string   `json:"raw_text"`
}

// ID returns the invoice identifier or an empty string when it is unknown.
func (f *InvoiceFields) ID() string {
	if f == nil || f.InvoiceID == nil {
		return ""
	}
	return *f.InvoiceID
}

// InvoiceRecord is a row of the invoices table.
type InvoiceRecord struct {
	InvoiceID    string   `json:"invoice_id"`
	SupplierName *string  `json:"supplier_name"`
	CustomerName *string  `json:"customer_name"`
	InvoiceDate  *string  `json:"invoice_date"`
	DueDate      *string  `json:"due_date"`
	TotalAmount  *float64 `json:"total_amount"`
	TaxAmount    *float64 `json:"tax_amount"`
	Currency     *string  `json:"currency"`
	Status       string   `json:"status"`
	SourceFile   *string  `json:"source_file"`
}

// NewInvoiceRecord builds the record to persist for an extracted invoice.
func NewInvoiceRecord(fields *InvoiceFields, status string, sourceFile string) *InvoiceRecord {
	rec := &InvoiceRecord{
		InvoiceID:    fields.ID(),
		SupplierName: fields.SupplierName,
		CustomerName: fields.CustomerName,
		InvoiceDate:  fields.InvoiceDate,
		DueDate:      fields.DueDate,
		TotalAmount:  fields.TotalAmount,
		TaxAmount:    fields.TaxAmount,
		Currency:     fields.Currency,
		Status:       status,
	}
	if sourceFile != "" {
		rec.SourceFile = &sourceFile
	}
	return rec
}
