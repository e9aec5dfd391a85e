package notify

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/Nazim-fad/prototype-of-an-AI-agent/internal/infrastructure/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestOutboxSender_Send(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	store := storage.NewDocumentStore(root, zap.NewNop())
	sender := NewOutboxSender(store, "outbox", "Finance Bot <finance@example.com>", zap.NewNop())
	sender.now = func() time.Time { return time.Date(2025, 6, 1, 9, 30, 0, 0, time.UTC) }

	status, err := sender.Send(ctx, "ap@example.com", "Discrepancy detected on INV-1", "Hello,\nplease check.")
	require.NoError(t, err)
	assert.Equal(t, "outbox", sender.Transport())

	files, err := store.List(ctx, "outbox")
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.True(t, strings.HasPrefix(filepath.Base(files[0]), "20250601T093000Z-ap@example.com-"))

	full := store.GetFullPath(files[0])
	assert.Equal(t, "Email sent to ap@example.com via outbox file "+full, status)

	data, err := store.Read(ctx, files[0])
	require.NoError(t, err)
	msg := string(data)
	assert.Contains(t, msg, "From: Finance Bot <finance@example.com>\r\n")
	assert.Contains(t, msg, "To: ap@example.com\r\n")
	assert.Contains(t, msg, "Subject: Discrepancy detected on INV-1\r\n")
	assert.True(t, strings.HasSuffix(msg, "\r\n\r\nHello,\nplease check.\r\n"))
}

func TestOutboxSender_RejectsInvalidRecipient(t *testing.T) {
	store := storage.NewDocumentStore(t.TempDir(), zap.NewNop())
	sender := NewOutboxSender(store, "outbox", "", zap.NewNop())

	for _, recipient := range []string{"", "not-an-email"} {
		_, err := sender.Send(context.Background(), recipient, "s", "b")
		if !errors.Is(err, ErrInvalidRecipient) {
			t.Errorf("recipient %q: expected ErrInvalidRecipient, got %v", recipient, err)
		}
	}
}
