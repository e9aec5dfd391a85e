package workflow

import (
	"context"
	"errors"
	"fmt"

	"github.com/Nazim-fad/prototype-of-an-AI-agent/internal/application/dispatcher"
	"github.com/Nazim-fad/prototype-of-an-AI-agent/internal/application/port"
	"github.com/Nazim-fad/prototype-of-an-AI-agent/internal/domain/entity"
	"github.com/Nazim-fad/prototype-of-an-AI-agent/internal/domain/event"
	domainwf "github.com/Nazim-fad/prototype-of-an-AI-agent/internal/domain/workflow"
)

var (
	// ErrExtractionFailed marks a run aborted while loading or extracting text
	ErrExtractionFailed = errors.New("document extraction failed")

	// ErrStoreFailed marks a run aborted by the record store
	ErrStoreFailed = errors.New("record store failed")

	// ErrNotificationFailed marks a run aborted while drafting or sending
	ErrNotificationFailed = errors.New("notification failed")
)

// actionHandler applies one planned action to a run
type actionHandler func(ctx context.Context, r *run) error

// run is the state owned by one Handle call
type run struct {
	id          string
	doc         entity.Document
	instruction string
	settings    entity.Settings
	result      *entity.WorkflowResult
	machine     *domainwf.Machine
}

// invoice returns the extracted invoice fields, never nil
func (r *run) invoice() *entity.InvoiceFields {
	if r.result.ParsedInvoice == nil {
		return &entity.InvoiceFields{}
	}
	return r.result.ParsedInvoice
}

func (r *run) isInvoice() bool {
	return r.result.DocType == entity.DocTypeInvoice
}

// Executor walks a plan over one document. It keeps no per-run state, so
// one Executor serves concurrent Handle calls.
type Executor struct {
	planner    *Planner
	loader     port.TextLoader
	extractor  port.FieldExtractor
	invoices   port.InvoiceRepository
	tickets    port.TicketRepository
	notifier   port.Notifier
	dispatcher dispatcher.Dispatcher
	tx         port.TransactionManager
	logger     Logger
	handlers   map[string]actionHandler
}

// ExecutorOption configures the executor
type ExecutorOption func(*Executor)

// WithDispatcher publishes workflow events on d
func WithDispatcher(d dispatcher.Dispatcher) ExecutorOption {
	return func(e *Executor) {
		e.dispatcher = d
	}
}

// WithTransactions runs the record store writes of a run inside tx
func WithTransactions(tx port.TransactionManager) ExecutorOption {
	return func(e *Executor) {
		e.tx = tx
	}
}

// NewExecutor creates an executor with its collaborators
func NewExecutor(
	planner *Planner,
	loader port.TextLoader,
	extractor port.FieldExtractor,
	invoices port.InvoiceRepository,
	tickets port.TicketRepository,
	notifier port.Notifier,
	logger Logger,
	opts ...ExecutorOption,
) *Executor {
	e := &Executor{
		planner:   planner,
		loader:    loader,
		extractor: extractor,
		invoices:  invoices,
		tickets:   tickets,
		notifier:  notifier,
		tx:        directTransactions{},
		logger:    logger,
	}
	if e.logger == nil {
		e.logger = nopLogger{}
	}

	e.handlers = map[string]actionHandler{
		entity.ActionParseDocument:       e.parseDocument,
		entity.ActionValidateInvoiceMath: invoiceOnly(e.validateInvoiceMath),
		entity.ActionGetDBInvoice:        invoiceOnly(e.getDBInvoice),
		entity.ActionInsertInvoice:       invoiceOnly(e.insertInvoice),
		entity.ActionReconcileInvoice:    invoiceOnly(e.reconcileInvoice),
		entity.ActionCreateTicket:        invoiceOnly(e.createTicket),
		entity.ActionDraftEmail:          invoiceOnly(e.draftEmail),
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Handle plans and runs the workflow for doc. On failure the partially
// filled result is returned along with the error.
func (e *Executor) Handle(ctx context.Context, doc entity.Document, instruction string, settings entity.Settings) (*entity.WorkflowResult, error) {
	r := &run{
		id:          event.NewRunID(),
		doc:         doc,
		instruction: instruction,
		settings:    settings,
		result:      &entity.WorkflowResult{},
		machine:     domainwf.NewRun(),
	}

	r.result.Plan = e.planner.Plan(ctx, instruction, settings)
	e.advance(ctx, r, domainwf.TriggerPlan)

	e.logger.Info("Workflow planned",
		"run_id", r.id,
		"source", doc.SourcePath,
		"actions", r.result.Plan.Actions)

	e.advance(ctx, r, domainwf.TriggerExecute)
	for _, action := range r.result.Plan.Actions {
		handler, ok := e.handlers[action]
		if !ok {
			e.logger.Debug("Ignoring unknown action", "run_id", r.id, "action", action)
			continue
		}
		if err := handler(ctx, r); err != nil {
			return e.fail(ctx, r, action, err)
		}
	}

	e.advance(ctx, r, domainwf.TriggerFinalize)
	if err := e.ticketFromDocument(ctx, r); err != nil {
		return e.fail(ctx, r, "ticket_from_document", err)
	}
	if err := e.notifyInvalidInvoice(ctx, r); err != nil {
		return e.fail(ctx, r, "notify_invalid_invoice", err)
	}

	e.advance(ctx, r, domainwf.TriggerComplete)
	e.emit(ctx, r, event.TypeRunCompleted, map[string]interface{}{
		"doc_type": string(r.result.DocType),
	})

	e.logger.Info("Workflow completed",
		"run_id", r.id,
		"doc_type", r.result.DocType,
		"invoice_id", r.invoice().ID())

	return r.result, nil
}

func (e *Executor) fail(ctx context.Context, r *run, step string, err error) (*entity.WorkflowResult, error) {
	e.advance(ctx, r, domainwf.TriggerFail)

	e.logger.Error("Workflow failed",
		"run_id", r.id,
		"source", r.doc.SourcePath,
		"step", step,
		"error", err)
	e.emit(ctx, r, event.TypeRunFailed, map[string]interface{}{
		"step":  step,
		"error": err.Error(),
	})

	return r.result, fmt.Errorf("%s: %w", step, err)
}

// advance fires trigger and mirrors the state into the result
func (e *Executor) advance(ctx context.Context, r *run, trigger domainwf.Trigger) {
	if err := r.machine.Fire(ctx, trigger); err != nil {
		e.logger.Error("Run lifecycle rejected trigger",
			"run_id", r.id,
			"trigger", trigger,
			"state", r.machine.State(),
			"error", err)
	}
	r.result.RunState = r.machine.State().String()
}

func (e *Executor) emit(ctx context.Context, r *run, eventType event.Type, payload map[string]interface{}) {
	if e.dispatcher == nil {
		return
	}
	evt := event.NewEvent(eventType, r.id, r.invoice().ID(), payload).WithSource(r.doc.SourcePath)
	e.dispatcher.DispatchAsync(ctx, evt)
}

// invoiceOnly skips h unless the document was classified as an invoice
// directTransactions runs fn on the caller's context when no store
// transaction manager is configured
type directTransactions struct{}

func (directTransactions) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func invoiceOnly(h actionHandler) actionHandler {
	return func(ctx context.Context, r *run) error {
		if !r.isInvoice() {
			return nil
		}
		return h(ctx, r)
	}
}
