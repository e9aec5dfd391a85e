package event

import (
	"time"

	"github.com/google/uuid"
)

// Event is something that happened during a document run. Events of one
// run share its RunID.
type Event struct {
	ID        string                 `json:"id"`
	Type      Type                   `json:"type"`
	RunID     string                 `json:"run_id"`
	InvoiceID string                 `json:"invoice_id,omitempty"`
	Source    string                 `json:"source,omitempty"`
	Payload   map[string]interface{} `json:"payload"`
	Timestamp time.Time              `json:"timestamp"`
}

// NewEvent creates an event with a fresh id and the current time
func NewEvent(eventType Type, runID, invoiceID string, payload map[string]interface{}) *Event {
	if payload == nil {
		payload = map[string]interface{}{}
	}
	return &Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		RunID:     runID,
		InvoiceID: invoiceID,
		Payload:   payload,
		Timestamp: time.Now().UTC(),
	}
}

// NewRunID returns an identifier for a new run
func NewRunID() string {
	return uuid.NewString()
}

// WithSource returns a copy of the event tagged with the document path
func (e *Event) WithSource(source string) *Event {
	copied := *e
	copied.Source = source
	return &copied
}

// GetPayloadString retrieves a string value from the payload
func (e *Event) GetPayloadString(key string) string {
	if val, ok := e.Payload[key]; ok {
		if str, ok := val.(string); ok {
			return str
		}
	}
	return ""
}

// GetPayloadFloat retrieves a float64 value from the payload. Missing keys
// and nil pointers report ok=false.
func (e *Event) GetPayloadFloat(key string) (float64, bool) {
	switch v := e.Payload[key].(type) {
	case float64:
		return v, true
	case *float64:
		if v != nil {
			return *v, true
		}
	case int:
		return float64(v), true
	}
	return 0, false
}

// GetPayloadBool retrieves a bool value from the payload
func (e *Event) GetPayloadBool(key string) bool {
	b, _ := e.Payload[key].(bool)
	return b
}
