package service

import (
	"context"
	"errors"
	"testing"

	"github.com/Nazim-fad/prototype-of-an-AI-agent/internal/application/port"
	"github.com/Nazim-fad/prototype-of-an-AI-agent/internal/domain/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestNotificationService_SendLogsDelivery(t *testing.T) {
	sender := &mockSender{}
	sender.On("Send", mock.Anything, "ap@example.com", "Discrepancy detected on INV-1", "body").
		Return("Email sent to ap@example.com via outbox file outbox/1.eml", nil).Once()
	repo := &mockNotificationRepo{}
	svc := NewNotificationService(nil, sender, repo, testLogger{})

	ctx := port.WithInvoiceID(context.Background(), "INV-1")
	status, err := svc.Send(ctx, "ap@example.com", "Discrepancy detected on INV-1", "body")
	require.NoError(t, err)

	assert.Equal(t, "Email sent to ap@example.com via outbox file outbox/1.eml", status)
	sender.AssertExpectations(t)

	require.Len(t, repo.created, 1)
	logged := repo.created[0]
	assert.Equal(t, "INV-1", logged.InvoiceID)
	assert.Equal(t, entity.NotificationStatusSent, logged.Status)
	assert.Equal(t, entity.TransportOutbox, logged.Transport)
	assert.Equal(t, status, logged.StatusText)
	assert.Empty(t, logged.ErrorMessage)
}

func TestNotificationService_SendFailure(t *testing.T) {
	sender := &mockSender{}
	sender.On("Send", mock.Anything, "ap@example.com", "s", "b").Return("", errors.New("disk full"))
	repo := &mockNotificationRepo{}
	svc := NewNotificationService(nil, sender, repo, testLogger{})

	_, err := svc.Send(context.Background(), "ap@example.com", "s", "b")
	require.Error(t, err)

	require.Len(t, repo.created, 1)
	assert.Equal(t, entity.NotificationStatusFailed, repo.created[0].Status)
	assert.Equal(t, "disk full", repo.created[0].ErrorMessage)
	assert.Empty(t, repo.created[0].InvoiceID)
}

func TestNotificationService_LogFailureDoesNotFailSend(t *testing.T) {
	sender := &mockSender{}
	sender.On("Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return("ok", nil)
	repo := &mockNotificationRepo{createErr: errors.New("database is locked")}
	svc := NewNotificationService(nil, sender, repo, testLogger{})

	status, err := svc.Send(context.Background(), "ap@example.com", "s", "b")
	require.NoError(t, err)
	assert.Equal(t, "ok", status)
}

func TestNotificationService_Draft(t *testing.T) {
	drafter := &mockDrafter{
		draftFunc: func(ctx context.Context, recipient string, bundle *entity.NotificationContext) (*entity.EmailDraft, error) {
			if bundle.UserInstruction != "be brief" {
				t.Errorf("instruction not passed through: %q", bundle.UserInstruction)
			}
			return &entity.EmailDraft{Recipient: recipient, Body: "Hello"}, nil
		},
	}
	svc := NewNotificationService(drafter, &mockSender{}, &mockNotificationRepo{}, testLogger{})

	draft, err := svc.Draft(context.Background(), "ap@example.com", &entity.NotificationContext{UserInstruction: "be brief"})
	require.NoError(t, err)
	assert.Equal(t, "Hello", draft.Body)

	drafter.draftFunc = func(ctx context.Context, recipient string, bundle *entity.NotificationContext) (*entity.EmailDraft, error) {
		return nil, errors.New("timeout")
	}
	_, err = svc.Draft(context.Background(), "ap@example.com", &entity.NotificationContext{})
	assert.Error(t, err)
}

func TestNotificationService_List(t *testing.T) {
	var gotLimit int
	repo := &mockNotificationRepo{
		listByInvoiceFn: func(ctx context.Context, invoiceID string) ([]*entity.Notification, error) {
			return []*entity.Notification{{InvoiceID: invoiceID}}, nil
		},
		listRecentFn: func(ctx context.Context, limit int) ([]*entity.Notification, error) {
			gotLimit = limit
			return []*entity.Notification{}, nil
		},
	}
	svc := NewNotificationService(nil, &mockSender{}, repo, testLogger{})

	byInvoice, err := svc.List(context.Background(), "INV-1", 0)
	require.NoError(t, err)
	require.Len(t, byInvoice, 1)
	assert.Equal(t, "INV-1", byInvoice[0].InvoiceID)

	_, err = svc.List(context.Background(), "", 0)
	require.NoError(t, err)
	assert.Equal(t, 50, gotLimit)
}
