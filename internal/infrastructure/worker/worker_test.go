package worker

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/Nazim-fad/prototype-of-an-AI-agent/internal/domain/entity"
	"github.com/Nazim-fad/prototype-of-an-AI-agent/internal/infrastructure/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type mockProcessor struct {
	mu          sync.Mutex
	paths       []string
	processFunc func(ctx context.Context, path string) (*entity.WorkflowResult, error)
}

func (m *mockProcessor) Process(ctx context.Context, path, instruction string, settings entity.Settings) (*entity.WorkflowResult, error) {
	m.mu.Lock()
	m.paths = append(m.paths, path)
	m.mu.Unlock()
	return m.processFunc(ctx, path)
}

func (m *mockProcessor) calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.paths)
}

type mockWorker struct {
	name     string
	startErr error
	log      *[]string
}

func (w *mockWorker) Start(ctx context.Context) error {
	*w.log = append(*w.log, "start "+w.name)
	return w.startErr
}

func (w *mockWorker) Stop() error {
	*w.log = append(*w.log, "stop "+w.name)
	return nil
}

func (w *mockWorker) Name() string { return w.name }

func TestInboxWorker_Poll(t *testing.T) {
	ctx := context.Background()
	inbox := storage.NewDocumentStore(t.TempDir(), zap.NewNop())
	require.NoError(t, inbox.Save(ctx, "INV-1.pdf", []byte("%PDF")))
	require.NoError(t, inbox.Save(ctx, "broken.txt", []byte("x")))
	require.NoError(t, inbox.Save(ctx, "photo.png", []byte("x")))

	processor := &mockProcessor{
		processFunc: func(ctx context.Context, path string) (*entity.WorkflowResult, error) {
			if strings.HasSuffix(path, "broken.txt") {
				return &entity.WorkflowResult{RunState: "FAILED"}, errors.New("extraction failed")
			}
			return &entity.WorkflowResult{DocType: entity.DocTypeInvoice, RunState: "COMPLETED"}, nil
		},
	}
	w := NewInboxWorker(InboxWorkerConfig{}, inbox, processor, zap.NewNop())

	w.poll(ctx)

	assert.Equal(t, 2, processor.calls())
	assert.Equal(t, inbox.GetFullPath("INV-1.pdf"), processor.paths[0])

	assert.True(t, inbox.Exists(ctx, "processed/INV-1.pdf"))
	assert.True(t, inbox.Exists(ctx, "failed/broken.txt"))
	assert.True(t, inbox.Exists(ctx, "photo.png"))
	assert.False(t, inbox.Exists(ctx, "INV-1.pdf"))

	processed, failed := w.Counts()
	assert.Equal(t, 1, processed)
	assert.Equal(t, 1, failed)
	assert.Error(t, w.LastError())

	// handled files are out of the inbox root and not picked up again
	w.poll(ctx)
	assert.Equal(t, 2, processor.calls())
}

func TestInboxWorker_StartStop(t *testing.T) {
	ctx := context.Background()
	inbox := storage.NewDocumentStore(t.TempDir(), zap.NewNop())
	require.NoError(t, inbox.Save(ctx, "a.md", []byte("Invoice")))

	processor := &mockProcessor{
		processFunc: func(ctx context.Context, path string) (*entity.WorkflowResult, error) {
			return &entity.WorkflowResult{RunState: "COMPLETED"}, nil
		},
	}
	w := NewInboxWorker(InboxWorkerConfig{PollInterval: time.Hour}, inbox, processor, zap.NewNop())

	require.NoError(t, w.Start(ctx))
	assert.Error(t, w.Start(ctx))

	require.Eventually(t, func() bool { return processor.calls() == 1 }, time.Second, 5*time.Millisecond)

	require.NoError(t, w.Stop())
	require.NoError(t, w.Stop())
	assert.True(t, inbox.Exists(ctx, "processed/a.md"))
}

func TestWorkerManager(t *testing.T) {
	var log []string
	m := NewWorkerManager(zap.NewNop())
	m.Register(&mockWorker{name: "first", log: &log})
	m.Register(&mockWorker{name: "second", log: &log, startErr: errors.New("boom")})

	assert.Equal(t, []string{"first", "second"}, m.Names())

	err := m.StartAll(context.Background())
	assert.Error(t, err)
	assert.True(t, m.IsRunning())
	assert.Error(t, m.StartAll(context.Background()))

	require.NoError(t, m.StopAll())
	assert.False(t, m.IsRunning())
	assert.Equal(t, []string{"start first", "start second", "stop second", "stop first"}, log)
}
