package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Nazim-fad/prototype-of-an-AI-agent/internal/application/port"
	"github.com/Nazim-fad/prototype-of-an-AI-agent/internal/domain/entity"
	"github.com/Nazim-fad/prototype-of-an-AI-agent/internal/infrastructure/persistence/sqlite"
	"go.uber.org/zap"
)

const notificationColumns = `id, invoice_id, recipient, subject, body, transport,
	status, status_text, error_message, created_at`

// NotificationRepository implements port.NotificationRepository
type NotificationRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewNotificationRepository creates a new notification repository
func NewNotificationRepository(db *sql.DB, logger *zap.Logger) port.NotificationRepository {
	return &NotificationRepository{
		db:     db,
		logger: logger,
	}
}

// Create records one delivery attempt
func (r *NotificationRepository) Create(ctx context.Context, notification *entity.Notification) error {
	query := `
		INSERT INTO notifications (
			invoice_id, recipient, subject, body, transport,
			status, status_text, error_message, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	if notification.CreatedAt.IsZero() {
		notification.CreatedAt = time.Now().UTC()
	}

	result, err := sqlite.ExecutorFor(ctx, r.db).ExecContext(ctx, query,
		nullIfEmpty(notification.InvoiceID),
		notification.Recipient,
		notification.Subject,
		notification.Body,
		notification.Transport,
		notification.Status,
		nullIfEmpty(notification.StatusText),
		nullIfEmpty(notification.ErrorMessage),
		notification.CreatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create notification",
			zap.String("recipient", notification.Recipient),
			zap.Error(err))
		return fmt.Errorf("failed to create notification: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	notification.ID = id
	return nil
}

// ListByInvoiceID returns the delivery log of one invoice, newest first
func (r *NotificationRepository) ListByInvoiceID(ctx context.Context, invoiceID string) ([]*entity.Notification, error) {
	query := `SELECT ` + notificationColumns + ` FROM notifications WHERE invoice_id = ? ORDER BY id DESC`
	return r.query(ctx, query, invoiceID)
}

// ListRecent returns the latest delivery log entries
func (r *NotificationRepository) ListRecent(ctx context.Context, limit int) ([]*entity.Notification, error) {
	query := `SELECT ` + notificationColumns + ` FROM notifications ORDER BY id DESC LIMIT ?`
	return r.query(ctx, query, limit)
}

func (r *NotificationRepository) query(ctx context.Context, query string, args ...interface{}) ([]*entity.Notification, error) {
	rows, err := sqlite.ExecutorFor(ctx, r.db).QueryContext(ctx, query, args...)
	if err != nil {
		r.logger.Error("Failed to query notifications", zap.Error(err))
		return nil, fmt.Errorf("failed to query notifications: %w", err)
	}
	defer rows.Close()

	notifications := []*entity.Notification{}
	for rows.Next() {
		var (
			n                                 entity.Notification
			invoiceID, statusText, errMessage sql.NullString
		)
		if err := rows.Scan(
			&n.ID,
			&invoiceID,
			&n.Recipient,
			&n.Subject,
			&n.Body,
			&n.Transport,
			&n.Status,
			&statusText,
			&errMessage,
			&n.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan notification: %w", err)
		}
		n.InvoiceID = invoiceID.String
		n.StatusText = statusText.String
		n.ErrorMessage = errMessage.String
		notifications = append(notifications, &n)
	}
	return notifications, rows.Err()
}

func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

// Verify interface compliance
var _ port.NotificationRepository = (*NotificationRepository)(nil)
