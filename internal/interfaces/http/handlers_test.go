package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Nazim-fad/prototype-of-an-AI-agent/internal/application/service"
	"github.com/Nazim-fad/prototype-of-an-AI-agent/internal/domain/entity"
	"github.com/Nazim-fad/prototype-of-an-AI-agent/internal/infrastructure/storage"
	"github.com/Nazim-fad/prototype-of-an-AI-agent/pkg/utils"
)

type mockDocuments struct {
	processFunc func(ctx context.Context, path, instruction string, settings entity.Settings) (*entity.WorkflowResult, error)
}

func (m *mockDocuments) Process(ctx context.Context, path, instruction string, settings entity.Settings) (*entity.WorkflowResult, error) {
	return m.processFunc(ctx, path, instruction, settings)
}

func (m *mockDocuments) ProcessBatch(ctx context.Context, paths []string, instruction string, settings entity.Settings) []service.BatchResult {
	return nil
}

type mockInvoices struct {
	records map[string]*entity.InvoiceRecord
}

func (m *mockInvoices) List(ctx context.Context, limit, offset int) ([]*entity.InvoiceRecord, error) {
	out := []*entity.InvoiceRecord{}
	for _, r := range m.records {
		out = append(out, r)
	}
	return out, nil
}

func (m *mockInvoices) Get(ctx context.Context, invoiceID string) (*entity.InvoiceRecord, error) {
	if r, ok := m.records[invoiceID]; ok {
		return r, nil
	}
	return nil, service.ErrInvoiceNotFound
}

func (m *mockInvoices) Tickets(ctx context.Context, invoiceID string) ([]*entity.Ticket, error) {
	return []*entity.Ticket{{TicketID: "TCK-2025-0001", InvoiceID: invoiceID}}, nil
}

func (m *mockInvoices) Ticket(ctx context.Context, ticketID string) (*entity.Ticket, error) {
	return nil, service.ErrTicketNotFound
}

func (m *mockInvoices) Report(ctx context.Context, invoiceID string) ([]byte, error) {
	if _, ok := m.records[invoiceID]; !ok {
		return nil, service.ErrInvoiceNotFound
	}
	return []byte("PK-xlsx"), nil
}

type mockNotifications struct {
	service.NotificationService
	gotInvoiceID string
}

func (m *mockNotifications) List(ctx context.Context, invoiceID string, limit int) ([]*entity.Notification, error) {
	m.gotInvoiceID = invoiceID
	return []*entity.Notification{{InvoiceID: invoiceID, Status: entity.NotificationStatusSent}}, nil
}

type mockChat struct {
	askFunc func(ctx context.Context, req service.ChatRequest) (*service.ChatResponse, error)
}

func (m *mockChat) Ask(ctx context.Context, req service.ChatRequest) (*service.ChatResponse, error) {
	return m.askFunc(ctx, req)
}

func newTestServer(t *testing.T, docs *mockDocuments, chat *mockChat) (*Server, *mockNotifications) {
	t.Helper()
	notifications := &mockNotifications{}
	deps := Dependencies{
		Documents: docs,
		Invoices: &mockInvoices{records: map[string]*entity.InvoiceRecord{
			"INV-2025-000": {InvoiceID: "INV-2025-000", Status: "recorded"},
		}},
		Notifications: notifications,
		Chat:          chat,
		Uploads:       storage.NewDocumentStore(t.TempDir(), zap.NewNop()),
		Settings:      entity.Settings{AutoInsert: false, DefaultRecipient: "ap@example.com"},
	}
	return NewServer(DefaultServerConfig(), deps, utils.NewSugarLogger(zap.NewNop())), notifications
}

func multipartBody(t *testing.T, filename string, content []byte, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	part, err := w.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	require.NoError(t, w.Close())
	return body, w.FormDataContentType()
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) Response {
	t.Helper()
	var resp Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestHealthCheck(t *testing.T) {
	srv, _ := newTestServer(t, &mockDocuments{}, &mockChat{})

	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, decode(t, rec).Success)
}

func TestProcessDocument(t *testing.T) {
	var gotPath, gotInstruction string
	var gotSettings entity.Settings
	docs := &mockDocuments{
		processFunc: func(ctx context.Context, path, instruction string, settings entity.Settings) (*entity.WorkflowResult, error) {
			gotPath, gotInstruction, gotSettings = path, instruction, settings
			return &entity.WorkflowResult{DocType: entity.DocTypeInvoice, RunState: "COMPLETED"}, nil
		},
	}
	srv, _ := newTestServer(t, docs, &mockChat{})

	body, contentType := multipartBody(t, "../INV-1.txt", []byte("Invoice INV-1"), map[string]string{
		"instruction": "check totals",
		"auto_insert": "true",
		"recipient":   "billing@example.com",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/documents", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.True(t, strings.HasSuffix(gotPath, "INV-1.txt"), gotPath)
	assert.NotContains(t, gotPath, "..")
	assert.Equal(t, "check totals", gotInstruction)
	assert.True(t, gotSettings.AutoInsert)
	assert.Equal(t, "billing@example.com", gotSettings.DefaultRecipient)

	var payload struct {
		Data struct {
			DocType  string `json:"doc_type"`
			RunState string `json:"run_state"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	assert.Equal(t, "invoice", payload.Data.DocType)
	assert.Equal(t, "COMPLETED", payload.Data.RunState)
}

func TestProcessDocument_Rejections(t *testing.T) {
	docs := &mockDocuments{
		processFunc: func(ctx context.Context, path, instruction string, settings entity.Settings) (*entity.WorkflowResult, error) {
			t.Fatal("workflow should not run")
			return nil, nil
		},
	}
	srv, _ := newTestServer(t, docs, &mockChat{})

	tests := []struct {
		name     string
		filename string
		content  []byte
		fields   map[string]string
	}{
		{name: "unsupported type", filename: "photo.png", content: []byte("png")},
		{name: "broken pdf", filename: "scan.pdf", content: []byte("not a pdf")},
		{name: "bad auto_insert", filename: "a.txt", content: []byte("x"), fields: map[string]string{"auto_insert": "maybe"}},
		{name: "bad recipient", filename: "a.txt", content: []byte("x"), fields: map[string]string{"recipient": "nobody"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body, contentType := multipartBody(t, tt.filename, tt.content, tt.fields)
			req := httptest.NewRequest(http.MethodPost, "/api/documents", body)
			req.Header.Set("Content-Type", contentType)
			rec := httptest.NewRecorder()
			srv.Router().ServeHTTP(rec, req)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.False(t, decode(t, rec).Success)
		})
	}
}

func TestProcessDocument_WorkflowError(t *testing.T) {
	docs := &mockDocuments{
		processFunc: func(ctx context.Context, path, instruction string, settings entity.Settings) (*entity.WorkflowResult, error) {
			return &entity.WorkflowResult{RunState: "FAILED"}, errors.New("record store failed")
		},
	}
	srv, _ := newTestServer(t, docs, &mockChat{})

	body, contentType := multipartBody(t, "a.md", []byte("x"), nil)
	req := httptest.NewRequest(http.MethodPost, "/api/documents", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	resp := decode(t, rec)
	assert.Equal(t, "record store failed", resp.Error)
	assert.Equal(t, "FAILED", resp.Data.(map[string]interface{})["run_state"])
}

func TestInvoiceRoutes(t *testing.T) {
	srv, notifications := newTestServer(t, &mockDocuments{}, &mockChat{})

	tests := []struct {
		name   string
		path   string
		status int
	}{
		{name: "list", path: "/api/invoices", status: http.StatusOK},
		{name: "get", path: "/api/invoices/INV-2025-000", status: http.StatusOK},
		{name: "get missing", path: "/api/invoices/INV-404", status: http.StatusNotFound},
		{name: "tickets", path: "/api/invoices/INV-2025-000/tickets", status: http.StatusOK},
		{name: "ticket missing", path: "/api/tickets/TCK-404", status: http.StatusNotFound},
		{name: "report missing", path: "/api/invoices/INV-404/report", status: http.StatusNotFound},
		{name: "notifications", path: "/api/notifications?invoice_id=INV-2025-000", status: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))
			assert.Equal(t, tt.status, rec.Code, rec.Body.String())
		})
	}
	assert.Equal(t, "INV-2025-000", notifications.gotInvoiceID)
}

func TestInvoiceReport(t *testing.T) {
	srv, _ := newTestServer(t, &mockDocuments{}, &mockChat{})

	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/invoices/INV-2025-000/report", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, xlsxContentType, rec.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="INV-2025-000.xlsx"`, rec.Header().Get("Content-Disposition"))
	assert.Equal(t, "PK-xlsx", rec.Body.String())
}

func TestChat(t *testing.T) {
	chat := &mockChat{
		askFunc: func(ctx context.Context, req service.ChatRequest) (*service.ChatResponse, error) {
			if req.Question != "What is the total?" {
				t.Errorf("unexpected question %q", req.Question)
			}
			return &service.ChatResponse{Answer: "4376.78", Tools: []string{"structured_fields"}}, nil
		},
	}
	srv, _ := newTestServer(t, &mockDocuments{}, chat)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(`{"question":"What is the total?","raw_text":"..."}`))
	req.Header.Set("Content-Type", "application/json")
	srv.Router().ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(`{"raw_text":"no question"}`))
	req.Header.Set("Content-Type", "application/json")
	srv.Router().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
