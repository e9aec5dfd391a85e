package entity

// Classification is the output of the document classifier.
type Classification struct {
	DocType DocType `json:"doc_type"`
	Text    string  `json:"text"`
}

// ParsedDocument is what the field extractor returns for one document.
// At most one of Invoice and Ticket is set.
type ParsedDocument struct {
	DocType DocType        `json:"doc_type"`
	Invoice *InvoiceFields `json:"invoice"`
	Ticket  *TicketFields  `json:"ticket"`
	RawText string         `json:"raw_text"`
}

// MathCheckResult reports the internal arithmetic consistency of an invoice.
// A nil IsValid means there was not enough information to decide.
type MathCheckResult struct {
	IsValid  *bool    `json:"is_valid"`
	Issues   []string `json:"issues"`
	Subtotal *float64 `json:"subtotal"`
}

// Invalid reports whether the check ran and found problems.
func (m *MathCheckResult) Invalid() bool {
	return m != nil && m.IsValid != nil && !*m.IsValid
}

// ReconciliationResult compares an invoice document with its stored record.
// A nil IsMatch means no record existed.
type ReconciliationResult struct {
	IsMatch     *bool    `json:"is_match"`
	Differences []string `json:"differences"`
}

// WorkflowPlan is the ordered list of actions for one run.
type WorkflowPlan struct {
	Actions []string `json:"actions"`
	Notes   string   `json:"notes"`
}

// Has reports whether the plan contains the action.
func (p WorkflowPlan) Has(action string) bool {
	for _, a := range p.Actions {
		if a == action {
			return true
		}
	}
	return false
}

// Settings are the operator switches that shape a run.
type Settings struct {
	AutoInsert       bool   `json:"auto_insert_new_invoices"`
	DefaultRecipient string `json:"default_email_recipient"`
}

// Document is the input handed to the executor.
type Document struct {
	SourcePath string
	Text       string
}

// WorkflowResult is the state accumulated by one run. It is also the
// response body of the document API.
type WorkflowResult struct {
	Plan           WorkflowPlan          `json:"plan"`
	DocType        DocType               `json:"doc_type"`
	ParsedInvoice  *InvoiceFields        `json:"parsed_invoice"`
	ParsedTicket   *TicketFields         `json:"parsed_ticket"`
	RawText        string                `json:"raw_text"`
	MathCheck      *MathCheckResult      `json:"math_check"`
	DBInvoice      *InvoiceRecord        `json:"db_invoice"`
	Reconciliation *ReconciliationResult `json:"reconciliation"`
	Ticket         *Ticket               `json:"ticket"`
	EmailDraft     *EmailDraft           `json:"email_draft"`
	EmailStatus    *string               `json:"email_status"`
	RunState       string                `json:"run_state"`
}
