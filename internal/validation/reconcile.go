package validation

import (
	"fmt"

	"github.com/Nazim-fad/prototype-of-an-AI-agent/internal/domain/entity"
)

const noRecordFound = "No existing record found in the database."

// Reconcile compares the parsed invoice with the stored record on
// total_amount and tax_amount. Fields absent on either side are skipped.
func Reconcile(fields *entity.InvoiceFields, record *entity.InvoiceRecord) *entity.ReconciliationResult {
	if record == nil {
		return &entity.ReconciliationResult{
			IsMatch:     nil,
			Differences: []string{noRecordFound},
		}
	}
	if fields == nil {
		fields = &entity.InvoiceFields{}
	}

	pairs := []struct {
		name     string
		document *float64
		stored   *float64
	}{
		{"total_amount", fields.TotalAmount, record.TotalAmount},
		{"tax_amount", fields.TaxAmount, record.TaxAmount},
	}

	differences := []string{}
	for _, p := range pairs {
		if p.document == nil || p.stored == nil {
			continue
		}
		if differ(*p.document, *p.stored) {
			differences = append(differences, fmt.Sprintf("%s: db=%.2f, document=%.2f", p.name, *p.stored, *p.document))
		}
	}

	return &entity.ReconciliationResult{
		IsMatch:     boolPtr(len(differences) == 0),
		Differences: differences,
	}
}
