package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Nazim-fad/prototype-of-an-AI-agent/internal/application/port"
	"github.com/Nazim-fad/prototype-of-an-AI-agent/internal/domain/entity"
)

// Drafter implements port.EmailDrafter
type Drafter struct {
	client *Client
}

// NewDrafter creates an email drafter on client
func NewDrafter(client *Client) *Drafter {
	return &Drafter{client: client}
}

type draftPrompt struct {
	Recipient   string
	ContextJSON string
}

// DraftEmail writes a ready to send body for recipient from the context
// bundle. The subject is left to the caller.
func (d *Drafter) DraftEmail(ctx context.Context, recipient string, bundle *entity.NotificationContext) (*entity.EmailDraft, error) {
	contextJSON, err := json.MarshalIndent(bundle, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode notification context: %w", err)
	}

	tmpl := d.client.prompts.EmailDraft
	messages, err := prompt(tmpl, draftPrompt{
		Recipient:   recipient,
		ContextJSON: string(contextJSON),
	})
	if err != nil {
		return nil, err
	}

	body, err := d.client.complete(ctx, messages, tmpl.Temperature, false)
	if err != nil {
		return nil, fmt.Errorf("failed to draft email: %w", err)
	}

	return &entity.EmailDraft{
		Recipient: recipient,
		Body:      strings.TrimSpace(body),
	}, nil
}

// Verify interface compliance
var _ port.EmailDrafter = (*Drafter)(nil)
