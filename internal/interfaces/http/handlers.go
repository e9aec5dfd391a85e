package http

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"path"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Nazim-fad/prototype-of-an-AI-agent/internal/application/service"
	"github.com/Nazim-fad/prototype-of-an-AI-agent/internal/document"
	"github.com/Nazim-fad/prototype-of-an-AI-agent/internal/domain/entity"
	"github.com/Nazim-fad/prototype-of-an-AI-agent/pkg/utils"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Handlers contains all HTTP request handlers
type Handlers struct {
	deps           Dependencies
	maxUploadBytes int64
	logger         Logger
}

// NewHandlers creates a new Handlers instance
func NewHandlers(deps Dependencies, maxUploadBytes int64, logger Logger) *Handlers {
	return &Handlers{
		deps:           deps,
		maxUploadBytes: maxUploadBytes,
		logger:         logger,
	}
}

// Response represents a standard JSON response
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Version   string `json:"version"`
}

// DocumentResponse is a workflow result plus upload metadata
type DocumentResponse struct {
	*entity.WorkflowResult
	FileName  string `json:"file_name"`
	PageCount int    `json:"page_count,omitempty"`
}

// ListRequest represents paging query parameters
type ListRequest struct {
	Limit  int `form:"limit"`
	Offset int `form:"offset"`
}

// HealthCheck handles GET /health
func (h *Handlers) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, Response{
		Success: true,
		Data: HealthResponse{
			Status:    "healthy",
			Timestamp: time.Now().UTC().Format(time.RFC3339),
			Version:   "1.0.0",
		},
	})
}

// ProcessDocument handles POST /api/documents. It stores the upload and
// runs the workflow on it.
func (h *Handlers) ProcessDocument(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		h.fail(c, http.StatusBadRequest, "missing file")
		return
	}
	if h.maxUploadBytes > 0 && fileHeader.Size > h.maxUploadBytes {
		h.fail(c, http.StatusRequestEntityTooLarge, "file too large")
		return
	}

	name := utils.SanitizeFilename(fileHeader.Filename)
	if !document.SupportedExtension(name) {
		h.fail(c, http.StatusBadRequest, fmt.Sprintf("unsupported file type %q", filepath.Ext(name)))
		return
	}

	settings, err := h.settingsFrom(c)
	if err != nil {
		h.fail(c, http.StatusBadRequest, err.Error())
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		h.fail(c, http.StatusBadRequest, "unreadable upload")
		return
	}
	data, err := io.ReadAll(f)
	f.Close()
	if err != nil {
		h.fail(c, http.StatusBadRequest, "unreadable upload")
		return
	}

	response := DocumentResponse{FileName: name}
	if strings.EqualFold(filepath.Ext(name), ".pdf") {
		pages, err := document.PageCount(data)
		if err != nil {
			h.logger.Error("Rejected unreadable PDF", "file", name, "error", err)
			h.fail(c, http.StatusBadRequest, "file is not a readable PDF")
			return
		}
		response.PageCount = pages
	}

	ctx := c.Request.Context()
	stored := path.Join(time.Now().UTC().Format("20060102"), uuid.New().String()[:8]+"-"+name)
	if err := h.deps.Uploads.Save(ctx, stored, data); err != nil {
		h.logger.Error("Failed to store upload", "file", name, "error", err)
		h.fail(c, http.StatusInternalServerError, "failed to store upload")
		return
	}

	result, err := h.deps.Documents.Process(ctx, h.deps.Uploads.GetFullPath(stored), c.PostForm("instruction"), settings)
	response.WorkflowResult = result
	if err != nil {
		h.logger.Error("Workflow failed", "file", name, "error", err)
		c.JSON(http.StatusInternalServerError, Response{
			Success: false,
			Data:    response,
			Error:   err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: response})
}

// settingsFrom overlays the optional form fields on the default settings
func (h *Handlers) settingsFrom(c *gin.Context) (entity.Settings, error) {
	settings := h.deps.Settings

	if v := c.PostForm("auto_insert"); v != "" {
		autoInsert, err := strconv.ParseBool(v)
		if err != nil {
			return settings, fmt.Errorf("invalid auto_insert %q", v)
		}
		settings.AutoInsert = autoInsert
	}
	if v := strings.TrimSpace(c.PostForm("recipient")); v != "" {
		if err := utils.ValidateEmail(v); err != nil {
			return settings, err
		}
		settings.DefaultRecipient = v
	}
	return settings, nil
}

// ListInvoices handles GET /api/invoices
func (h *Handlers) ListInvoices(c *gin.Context) {
	var req ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.fail(c, http.StatusBadRequest, "invalid query parameters")
		return
	}

	records, err := h.deps.Invoices.List(c.Request.Context(), req.Limit, req.Offset)
	if err != nil {
		h.logger.Error("Failed to list invoices", "error", err)
		h.fail(c, http.StatusInternalServerError, "failed to retrieve invoices")
		return
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: records})
}

// GetInvoice handles GET /api/invoices/:id
func (h *Handlers) GetInvoice(c *gin.Context) {
	record, err := h.deps.Invoices.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.failLookup(c, err)
		return
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: record})
}

// ListInvoiceTickets handles GET /api/invoices/:id/tickets
func (h *Handlers) ListInvoiceTickets(c *gin.Context) {
	tickets, err := h.deps.Invoices.Tickets(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.failLookup(c, err)
		return
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: tickets})
}

// InvoiceReport handles GET /api/invoices/:id/report
func (h *Handlers) InvoiceReport(c *gin.Context) {
	id := c.Param("id")
	data, err := h.deps.Invoices.Report(c.Request.Context(), id)
	if err != nil {
		h.failLookup(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s.xlsx"`, utils.SanitizeFilename(id)))
	c.Data(http.StatusOK, xlsxContentType, data)
}

// GetTicket handles GET /api/tickets/:id
func (h *Handlers) GetTicket(c *gin.Context) {
	ticket, err := h.deps.Invoices.Ticket(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.failLookup(c, err)
		return
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: ticket})
}

// ListNotifications handles GET /api/notifications
func (h *Handlers) ListNotifications(c *gin.Context) {
	var req ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.fail(c, http.StatusBadRequest, "invalid query parameters")
		return
	}

	notifications, err := h.deps.Notifications.List(c.Request.Context(), c.Query("invoice_id"), req.Limit)
	if err != nil {
		h.logger.Error("Failed to list notifications", "error", err)
		h.fail(c, http.StatusInternalServerError, "failed to retrieve notifications")
		return
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: notifications})
}

// Chat handles POST /api/chat
func (h *Handlers) Chat(c *gin.Context) {
	var req service.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, http.StatusBadRequest, "invalid request body")
		return
	}

	resp, err := h.deps.Chat.Ask(c.Request.Context(), req)
	if err != nil {
		h.logger.Error("Chat failed", "error", err)
		h.fail(c, http.StatusBadGateway, "failed to answer question")
		return
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: resp})
}

// failLookup maps not-found errors to 404 and the rest to 500
func (h *Handlers) failLookup(c *gin.Context, err error) {
	if errors.Is(err, service.ErrInvoiceNotFound) || errors.Is(err, service.ErrTicketNotFound) {
		h.fail(c, http.StatusNotFound, err.Error())
		return
	}
	h.logger.Error("Lookup failed", "path", c.Request.URL.Path, "error", err)
	h.fail(c, http.StatusInternalServerError, "failed to retrieve record")
}

func (h *Handlers) fail(c *gin.Context, status int, message string) {
	c.JSON(status, Response{Success: false, Error: message})
}
