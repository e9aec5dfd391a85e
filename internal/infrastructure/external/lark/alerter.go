package lark

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Nazim-fad/prototype-of-an-AI-agent/internal/application/port"
	"github.com/Nazim-fad/prototype-of-an-AI-agent/internal/domain/entity"
	"go.uber.org/zap"
)

// Alerter posts ticket alerts into a Lark group chat
type Alerter struct {
	api    messageAPI
	chatID string
	logger *zap.Logger
}

// NewAlerter creates an alerter posting to chatID
func NewAlerter(client *Client, chatID string, logger *zap.Logger) *Alerter {
	return &Alerter{api: client, chatID: chatID, logger: logger}
}

// AlertTicket posts a short summary of a newly opened ticket
func (a *Alerter) AlertTicket(ctx context.Context, ticket *entity.Ticket) error {
	content, err := json.Marshal(map[string]string{"text": alertText(ticket)})
	if err != nil {
		return fmt.Errorf("failed to encode alert: %w", err)
	}

	if _, err := a.api.CreateMessage(ctx, ReceiveIDTypeChatID, a.chatID, "text", string(content)); err != nil {
		return fmt.Errorf("failed to post ticket alert: %w", err)
	}

	a.logger.Info("Ticket alert posted",
		zap.String("ticket_id", ticket.TicketID),
		zap.String("chat_id", a.chatID))
	return nil
}

func alertText(ticket *entity.Ticket) string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%s] %s ticket %s on invoice %s", ticket.Priority, ticket.IssueType, ticket.TicketID, ticket.InvoiceID)
	if ticket.DocumentAmount != nil {
		fmt.Fprintf(&b, "\nDocument amount: %.2f", *ticket.DocumentAmount)
	}
	if ticket.RecordedAmount != nil {
		fmt.Fprintf(&b, "\nRecorded amount: %.2f", *ticket.RecordedAmount)
	}
	if ticket.Description != "" {
		b.WriteString("\n")
		b.WriteString(ticket.Description)
	}
	return b.String()
}

var _ port.TicketAlerter = (*Alerter)(nil)
