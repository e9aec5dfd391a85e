package entity

// TicketFields holds the fields extracted from a discrepancy ticket document.
type TicketFields struct {
	TicketID       *string  `json:"ticket_id"`
	InvoiceID      *string  `json:"invoice_id"`
	CreatedDate    *string  `json:"created_date"`
	CreatedBy      *string  `json:"created_by"`
	Department     *string  `json:"department"`
	Status         *string  `json:"status"`
	Priority       *string  `json:"priority"`
	IssueType      *string  `json:"issue_type"`
	RecordedAmount *float64 `json:"recorded_amount"`
	DocumentAmount *float64 `json:"document_amount"`
	Description    *string  `json:"description"`
	RawText        string   `json:"raw_text"`
}

// Ticket is a row of the tickets table.
type Ticket struct {
	TicketID       string   `json:"ticket_id"`
	InvoiceID      string   `json:"invoice_id"`
	CreatedDate    string   `json:"created_date"`
	CreatedBy      string   `json:"created_by"`
	Department     string   `json:"department"`
	Status         string   `json:"status"`
	Priority       string   `json:"priority"`
	IssueType      string   `json:"issue_type"`
	RecordedAmount *float64 `json:"recorded_amount"`
	DocumentAmount *float64 `json:"document_amount"`
	Description    string   `json:"description"`
}

// TicketRequest carries what a caller decides about a new ticket.
// The store assigns the id, the creation date and the defaults.
type TicketRequest struct {
	InvoiceID      string
	IssueType      string
	Description    string
	RecordedAmount *float64
	DocumentAmount *float64
	Priority       string
	Status         string
	CreatedBy      string
	Department     string
}

// Ticket defaults applied by the store when the request leaves them empty.
const (
	DefaultTicketPriority   = "High"
	DefaultTicketStatus     = "Open"
	DefaultTicketCreatedBy  = "AI Agent"
	DefaultTicketDepartment = "Finance"
)

// WithDefaults returns a copy of the request with empty fields filled in.
func (r TicketRequest) WithDefaults() TicketRequest {
	if r.Priority == "" {
		r.Priority = DefaultTicketPriority
	}
	if r.Status == "" {
		r.Status = DefaultTicketStatus
	}
	if r.CreatedBy == "" {
		r.CreatedBy = DefaultTicketCreatedBy
	}
	if r.Department == "" {
		r.Department = DefaultTicketDepartment
	}
	return r
}
