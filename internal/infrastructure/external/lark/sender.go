package lark

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/Nazim-fad/prototype-of-an-AI-agent/internal/application/port"
	"github.com/Nazim-fad/prototype-of-an-AI-agent/internal/domain/entity"
	"go.uber.org/zap"
)

// ErrEmptyRecipient is returned when a message has nobody to go to
var ErrEmptyRecipient = errors.New("recipient cannot be empty")

// Sender implements port.NotificationSender over Lark rich text messages
// addressed by email
type Sender struct {
	api    messageAPI
	logger *zap.Logger
}

// NewSender creates a notification sender on client
func NewSender(client *Client, logger *zap.Logger) *Sender {
	return &Sender{api: client, logger: logger}
}

type postElement struct {
	Tag  string `json:"tag"`
	Text string `json:"text"`
}

type postBody struct {
	Title   string          `json:"title"`
	Content [][]postElement `json:"content"`
}

// Send delivers subject and body as one post message
func (s *Sender) Send(ctx context.Context, recipient, subject, body string) (string, error) {
	if recipient == "" {
		return "", ErrEmptyRecipient
	}

	content, err := postContent(subject, body)
	if err != nil {
		return "", err
	}

	messageID, err := s.api.CreateMessage(ctx, ReceiveIDTypeEmail, recipient, "post", content)
	if err != nil {
		return "", err
	}

	s.logger.Info("Notification delivered via Lark",
		zap.String("recipient", recipient),
		zap.String("message_id", messageID))

	return fmt.Sprintf("Email sent to %s via Lark message %s", recipient, messageID), nil
}

// Transport names the delivery channel in the delivery log
func (s *Sender) Transport() string {
	return entity.TransportLark
}

// postContent renders one paragraph per line of body
func postContent(subject, body string) (string, error) {
	var paragraphs [][]postElement
	for _, line := range strings.Split(body, "\n") {
		paragraphs = append(paragraphs, []postElement{{Tag: "text", Text: line}})
	}

	data, err := json.Marshal(map[string]postBody{
		"en_us": {Title: subject, Content: paragraphs},
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode post content: %w", err)
	}
	return string(data), nil
}

var _ port.NotificationSender = (*Sender)(nil)
