package validation

import (
	"testing"

	"github.com/Nazim-fad/prototype-of-an-AI-agent/internal/domain/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReconcile(t *testing.T) {
	tests := []struct {
		name      string
		fields    *entity.InvoiceFields
		record    *entity.InvoiceRecord
		wantMatch *bool
		wantDiffs []string
	}{
		{
			name:      "no stored record",
			fields:    &entity.InvoiceFields{TotalAmount: f64(10)},
			record:    nil,
			wantMatch: nil,
			wantDiffs: []string{"No existing record found in the database."},
		},
		{
			name:      "amounts agree",
			fields:    &entity.InvoiceFields{TotalAmount: f64(4376.78), TaxAmount: f64(356.78)},
			record:    &entity.InvoiceRecord{InvoiceID: "INV-2025-000", TotalAmount: f64(4376.78), TaxAmount: f64(356.78)},
			wantMatch: boolPtr(true),
			wantDiffs: []string{},
		},
		{
			name:      "total differs",
			fields:    &entity.InvoiceFields{TotalAmount: f64(4400.00), TaxAmount: f64(356.78)},
			record:    &entity.InvoiceRecord{InvoiceID: "INV-2025-000", TotalAmount: f64(4376.78), TaxAmount: f64(356.78)},
			wantMatch: boolPtr(false),
			wantDiffs: []string{"total_amount: db=4376.78, document=4400.00"},
		},
		{
			name:      "both differ in field order",
			fields:    &entity.InvoiceFields{TotalAmount: f64(120), TaxAmount: f64(20)},
			record:    &entity.InvoiceRecord{TotalAmount: f64(100), TaxAmount: f64(10)},
			wantMatch: boolPtr(false),
			wantDiffs: []string{
				"total_amount: db=100.00, document=120.00",
				"tax_amount: db=10.00, document=20.00",
			},
		},
		{
			name:      "field missing on document side is skipped",
			fields:    &entity.InvoiceFields{TotalAmount: f64(100)},
			record:    &entity.InvoiceRecord{TotalAmount: f64(100), TaxAmount: f64(10)},
			wantMatch: boolPtr(true),
			wantDiffs: []string{},
		},
		{
			name:      "field missing on stored side is skipped",
			fields:    &entity.InvoiceFields{TotalAmount: f64(100), TaxAmount: f64(99)},
			record:    &entity.InvoiceRecord{TotalAmount: f64(100)},
			wantMatch: boolPtr(true),
			wantDiffs: []string{},
		},
		{
			name:      "one cent is tolerated",
			fields:    &entity.InvoiceFields{TotalAmount: f64(100.01)},
			record:    &entity.InvoiceRecord{TotalAmount: f64(100.00)},
			wantMatch: boolPtr(true),
			wantDiffs: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Reconcile(tt.fields, tt.record)

			require.NotNil(t, result)
			assert.Equal(t, tt.wantMatch, result.IsMatch)
			assert.Equal(t, tt.wantDiffs, result.Differences)
		})
	}
}
