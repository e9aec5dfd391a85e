package port

import "context"

type contextKey string

const invoiceIDKey contextKey = "invoice_id"

// WithInvoiceID tags ctx with the invoice a call is about, so adapters can
// correlate their records without widening every signature
func WithInvoiceID(ctx context.Context, invoiceID string) context.Context {
	if invoiceID == "" {
		return ctx
	}
	return context.WithValue(ctx, invoiceIDKey, invoiceID)
}

// InvoiceIDFromContext returns the invoice set by WithInvoiceID, if any
func InvoiceIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(invoiceIDKey).(string)
	return id
}
