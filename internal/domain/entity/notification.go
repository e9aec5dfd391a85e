package entity

import "time"

// EmailDraft is a drafted notification message.
type EmailDraft struct {
	Recipient string `json:"recipient"`
	Subject   string `json:"subject"`
	Body      string `json:"body"`
}

// NotificationContext is the bundle handed to the drafter.
type NotificationContext struct {
	DocType         DocType               `json:"doc_type"`
	Invoice         *InvoiceFields        `json:"invoice"`
	MathCheck       *MathCheckResult      `json:"math_check"`
	DBInvoice       *InvoiceRecord        `json:"db_invoice"`
	Reconciliation  *ReconciliationResult `json:"reconciliation"`
	CreatedTicket   *Ticket               `json:"created_ticket"`
	UserInstruction string                `json:"user_instruction"`
}

// Notification is a delivery log entry for one sent message.
type Notification struct {
	ID           int64     `json:"id"`
	InvoiceID    string    `json:"invoice_id,omitempty"`
	Recipient    string    `json:"recipient"`
	Subject      string    `json:"subject"`
	Body         string    `json:"body"`
	Transport    string    `json:"transport"`
	Status       string    `json:"status"`
	StatusText   string    `json:"status_text,omitempty"`
	ErrorMessage string    `json:"error_message,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}
