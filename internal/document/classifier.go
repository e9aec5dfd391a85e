// Package document turns uploaded files into classified, structured
// documents.
package document

import (
	"strings"

	"github.com/Nazim-fad/prototype-of-an-AI-agent/internal/domain/entity"
)

// headLength is how many leading characters the classifier inspects
const headLength = 2000

// Classify decides the document type from the header of its text.
// Ticket markers win over invoice markers.
func Classify(text string) entity.Classification {
	head := strings.ToLower(leadingRunes(text, headLength))

	docType := entity.DocTypeUnknown
	switch {
	case strings.Contains(head, "invoice discrepancy ticket"), strings.Contains(head, "ticket id"):
		docType = entity.DocTypeTicket
	case strings.Contains(head, "invoice") && strings.Contains(head, "invoice #"):
		docType = entity.DocTypeInvoice
	}

	return entity.Classification{DocType: docType, Text: text}
}

func leadingRunes(s string, n int) string {
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}
