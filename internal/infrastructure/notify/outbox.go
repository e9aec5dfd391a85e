// Package notify holds notification transports that need no remote service.
package notify

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/Nazim-fad/prototype-of-an-AI-agent/internal/application/port"
	"github.com/Nazim-fad/prototype-of-an-AI-agent/internal/domain/entity"
	"github.com/Nazim-fad/prototype-of-an-AI-agent/pkg/utils"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrInvalidRecipient is returned for a recipient that is not an email address
var ErrInvalidRecipient = errors.New("invalid recipient")

// OutboxSender implements port.NotificationSender by writing each message
// as an RFC 5322 style file under an outbox directory
type OutboxSender struct {
	storage    port.FileStorage
	dir        string
	senderName string
	logger     *zap.Logger
	now        func() time.Time
}

// NewOutboxSender creates an outbox sender writing into dir of storage
func NewOutboxSender(storage port.FileStorage, dir, senderName string, logger *zap.Logger) *OutboxSender {
	return &OutboxSender{
		storage:    storage,
		dir:        dir,
		senderName: senderName,
		logger:     logger,
		now:        time.Now,
	}
}

// Send writes the message and reports the file it went to
func (s *OutboxSender) Send(ctx context.Context, recipient, subject, body string) (string, error) {
	if err := utils.ValidateEmail(recipient); err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidRecipient, err)
	}

	now := s.now().UTC()
	name := fmt.Sprintf("%s-%s-%s.eml",
		now.Format("20060102T150405Z"),
		utils.SanitizeFilename(recipient),
		uuid.New().String()[:8],
	)
	rel := path.Join(s.dir, name)

	if err := s.storage.Save(ctx, rel, []byte(s.message(recipient, subject, body, now))); err != nil {
		s.logger.Error("Failed to write outbox message",
			zap.String("recipient", recipient),
			zap.Error(err))
		return "", fmt.Errorf("failed to write outbox message: %w", err)
	}

	full := s.storage.GetFullPath(rel)
	s.logger.Info("Notification written to outbox",
		zap.String("recipient", recipient),
		zap.String("path", full))

	return fmt.Sprintf("Email sent to %s via outbox file %s", recipient, full), nil
}

// Transport names the delivery channel in the delivery log
func (s *OutboxSender) Transport() string {
	return entity.TransportOutbox
}

func (s *OutboxSender) message(recipient, subject, body string, at time.Time) string {
	var b strings.Builder
	if s.senderName != "" {
		fmt.Fprintf(&b, "From: %s\r\n", s.senderName)
	}
	fmt.Fprintf(&b, "To: %s\r\n", recipient)
	fmt.Fprintf(&b, "Subject: %s\r\n", subject)
	fmt.Fprintf(&b, "Date: %s\r\n", at.Format(time.RFC1123Z))
	b.WriteString("Content-Type: text/plain; charset=utf-8\r\n\r\n")
	b.WriteString(body)
	if !strings.HasSuffix(body, "\n") {
		b.WriteString("\r\n")
	}
	return b.String()
}

var _ port.NotificationSender = (*OutboxSender)(nil)
