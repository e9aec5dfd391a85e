// Package validation checks invoices for internal arithmetic consistency and
// reconciles them against stored records.
package validation

import (
	"fmt"
	"strings"

	"github.com/Nazim-fad/prototype-of-an-AI-agent/internal/domain/entity"
)

const notEnoughInformation = "Not enough information to validate invoice math."

// tableSummary is what the markdown items table yields.
type tableSummary struct {
	lineTotals  []float64
	subtotalRow *float64
	taxRow      *float64
	totalRow    *float64
	lineItemsOK bool
	issues      []string
}

// ValidateMath checks the items table in rawText against itself and against
// the parsed tax and total amounts. It has no side effects.
func ValidateMath(fields *entity.InvoiceFields, rawText string) *entity.MathCheckResult {
	table := scanTable(rawText)
	issues := table.issues

	var subtotalFromItems *float64
	if len(table.lineTotals) > 0 {
		var sum float64
		for _, v := range table.lineTotals {
			sum += v
		}
		s := round2(sum)
		subtotalFromItems = &s
	}

	if subtotalFromItems != nil && table.subtotalRow != nil && differ(*subtotalFromItems, *table.subtotalRow) {
		issues = append(issues, fmt.Sprintf(
			"Subtotal mismatch: sum of line items = %.2f, but Subtotal row = %.2f.",
			*subtotalFromItems, *table.subtotalRow))
	}

	var tax, total *float64
	if fields != nil {
		tax, total = fields.TaxAmount, fields.TotalAmount
	}

	if table.taxRow != nil && tax != nil && differ(*table.taxRow, *tax) {
		issues = append(issues, fmt.Sprintf(
			"Tax mismatch: table tax = %.2f, parsed tax_amount = %.2f.", *table.taxRow, *tax))
	}

	if table.totalRow != nil && total != nil && differ(*table.totalRow, *total) {
		issues = append(issues, fmt.Sprintf(
			"Total mismatch: table total = %.2f, parsed total_amount = %.2f.", *table.totalRow, *total))
	}

	subtotalForCheck := table.subtotalRow
	if subtotalForCheck == nil {
		subtotalForCheck = subtotalFromItems
	}

	if subtotalForCheck != nil && tax != nil && total != nil {
		expected := round2(*subtotalForCheck + *tax)
		if differ(expected, *total) {
			issues = append(issues, fmt.Sprintf(
				"Subtotal + tax (%.2f) does not match total_amount (%.2f).", expected, *total))
		}
	}

	if subtotalForCheck == nil && tax == nil && total == nil && len(table.lineTotals) == 0 {
		return &entity.MathCheckResult{
			IsValid:  nil,
			Issues:   []string{notEnoughInformation},
			Subtotal: nil,
		}
	}

	if issues == nil {
		issues = []string{}
	}
	return &entity.MathCheckResult{
		IsValid:  boolPtr(len(issues) == 0 && table.lineItemsOK),
		Issues:   issues,
		Subtotal: subtotalForCheck,
	}
}

// scanTable walks the pipe-delimited rows of the document. The first two
// rows are taken as header and separator when there are more than two.
func scanTable(rawText string) tableSummary {
	summary := tableSummary{lineItemsOK: true}

	var rows []string
	for _, line := range strings.Split(rawText, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "|") {
			rows = append(rows, trimmed)
		}
	}
	if len(rows) > 2 {
		rows = rows[2:]
	}

	for _, row := range rows {
		parts := strings.Split(strings.Trim(row, "|"), "|")
		if len(parts) < 5 {
			continue
		}
		cells := make([]string, len(parts))
		for i, p := range parts {
			cells[i] = strings.TrimSpace(p)
		}

		first := cells[0]
		if isDigits(first) {
			summary.addItemRow(first, cells[2], cells[3], cells[4])
			continue
		}

		label := strings.ToLower(first)
		amount := parseNumber(cells[4])
		switch {
		case strings.Contains(label, "subtotal"):
			summary.subtotalRow = amount
		case strings.Contains(label, "tax"):
			summary.taxRow = amount
		// "total" also matches labels such as "Totals carried forward".
		case strings.Contains(label, "total amount due") || strings.HasPrefix(label, "total"):
			summary.totalRow = amount
		}
	}
	return summary
}

func (s *tableSummary) addItemRow(item, qtyCell, priceCell, totalCell string) {
	qty := parseNumber(qtyCell)
	price := parseNumber(priceCell)
	lineTotal := parseNumber(totalCell)

	if qty == nil || price == nil || lineTotal == nil {
		s.issues = append(s.issues, fmt.Sprintf("Could not parse numeric values for item row '%s'.", item))
		s.lineItemsOK = false
		return
	}

	expected := round2(*qty * *price)
	s.lineTotals = append(s.lineTotals, *lineTotal)

	if differ(expected, *lineTotal) {
		s.lineItemsOK = false
		s.issues = append(s.issues, fmt.Sprintf(
			"Line item %s: Qty * Unit Price = %.2f but Line Total is %.2f.", item, expected, *lineTotal))
	}
}
