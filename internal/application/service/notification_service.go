package service

import (
	"context"
	"fmt"
	"time"

	"github.com/Nazim-fad/prototype-of-an-AI-agent/internal/application/port"
	"github.com/Nazim-fad/prototype-of-an-AI-agent/internal/domain/entity"
)

// NotificationService drafts, delivers and logs discrepancy notifications.
// It is the workflow's port.Notifier.
type NotificationService interface {
	port.Notifier
	// List returns the delivery log, filtered by invoice when invoiceID is set
	List(ctx context.Context, invoiceID string, limit int) ([]*entity.Notification, error)
}

type notificationServiceImpl struct {
	drafter          port.EmailDrafter
	sender           port.NotificationSender
	notificationRepo port.NotificationRepository
	logger           Logger
	now              func() time.Time
}

// NewNotificationService creates a new NotificationService
func NewNotificationService(
	drafter port.EmailDrafter,
	sender port.NotificationSender,
	notificationRepo port.NotificationRepository,
	logger Logger,
) NotificationService {
	return &notificationServiceImpl{
		drafter:          drafter,
		sender:           sender,
		notificationRepo: notificationRepo,
		logger:           logger,
		now:              time.Now,
	}
}

// Draft asks the drafter for a message body
func (s *notificationServiceImpl) Draft(ctx context.Context, recipient string, bundle *entity.NotificationContext) (*entity.EmailDraft, error) {
	draft, err := s.drafter.DraftEmail(ctx, recipient, bundle)
	if err != nil {
		s.logger.Error("Failed to draft notification", "recipient", recipient, "error", err)
		return nil, fmt.Errorf("draft notification: %w", err)
	}
	return draft, nil
}

// Send delivers the message and records the attempt in the delivery log
func (s *notificationServiceImpl) Send(ctx context.Context, recipient, subject, body string) (string, error) {
	invoiceID := port.InvoiceIDFromContext(ctx)

	status, sendErr := s.sender.Send(ctx, recipient, subject, body)

	notification := &entity.Notification{
		InvoiceID:  invoiceID,
		Recipient:  recipient,
		Subject:    subject,
		Body:       body,
		Transport:  s.sender.Transport(),
		Status:     entity.NotificationStatusSent,
		StatusText: status,
		CreatedAt:  s.now().UTC(),
	}
	if sendErr != nil {
		notification.Status = entity.NotificationStatusFailed
		notification.ErrorMessage = sendErr.Error()
	}

	if err := s.notificationRepo.Create(ctx, notification); err != nil {
		// the message went out either way, so the log failure is not returned
		s.logger.Error("Failed to record notification", "recipient", recipient, "error", err)
	}

	if sendErr != nil {
		s.logger.Error("Failed to send notification",
			"recipient", recipient,
			"transport", notification.Transport,
			"invoice_id", invoiceID,
			"error", sendErr,
		)
		return "", fmt.Errorf("send notification: %w", sendErr)
	}

	s.logger.Info("Notification sent",
		"recipient", recipient,
		"transport", notification.Transport,
		"invoice_id", invoiceID,
	)
	return status, nil
}

// List returns delivery log entries, newest first
func (s *notificationServiceImpl) List(ctx context.Context, invoiceID string, limit int) ([]*entity.Notification, error) {
	if invoiceID != "" {
		return s.notificationRepo.ListByInvoiceID(ctx, invoiceID)
	}
	if limit <= 0 {
		limit = 50
	}
	return s.notificationRepo.ListRecent(ctx, limit)
}
