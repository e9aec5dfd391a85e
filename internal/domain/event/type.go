package event

// Type identifies the type of workflow event
type Type string

const (
	TypeDocumentParsed   Type = "document.parsed"
	TypeInvoiceRecorded  Type = "invoice.recorded"
	TypeTicketCreated    Type = "ticket.created"
	TypeNotificationSent Type = "notification.sent"
	TypeRunCompleted     Type = "run.completed"
	TypeRunFailed        Type = "run.failed"
)

func (t Type) String() string {
	return string(t)
}

// IsValid checks if the event type is one of the defined constants
func (t Type) IsValid() bool {
	switch t {
	case TypeDocumentParsed,
		TypeInvoiceRecorded,
		TypeTicketCreated,
		TypeNotificationSent,
		TypeRunCompleted,
		TypeRunFailed:
		return true
	default:
		return false
	}
}
