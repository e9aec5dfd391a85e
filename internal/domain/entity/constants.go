package entity

// DocType is the classification of an ingested document.
type DocType string

const (
	DocTypeInvoice DocType = "invoice"
	DocTypeTicket  DocType = "ticket"
	DocTypeUnknown DocType = "unknown"
)

// Action names understood by the workflow executor.
const (
	ActionParseDocument       = "parse_document"
	ActionValidateInvoiceMath = "validate_invoice_math"
	ActionGetDBInvoice        = "get_db_invoice"
	ActionInsertInvoice       = "insert_invoice"
	ActionReconcileInvoice    = "reconcile_invoice"
	ActionCreateTicket        = "create_ticket"
	ActionDraftEmail          = "draft_email"
)

// Invoice status written by the workflow.
const (
	InvoiceStatusRecorded = "recorded"
)

// Ticket creation constants used by the workflow.
const (
	IssueTypeAmountMismatch     = "Amount mismatch"
	IssueTypeTicketFromDocument = "Ticket from document"
	UnknownInvoiceID            = "UNKNOWN"
)

// Notification status constants
const (
	NotificationStatusSent   = "SENT"
	NotificationStatusFailed = "FAILED"
)

// Notification transports
const (
	TransportOutbox = "outbox"
	TransportLark   = "lark"
)
