// Package workflow plans and executes the action sequence for one document.
package workflow

import (
	"context"

	"github.com/Nazim-fad/prototype-of-an-AI-agent/internal/application/port"
	"github.com/Nazim-fad/prototype-of-an-AI-agent/internal/domain/entity"
)

// FallbackNotes explains a plan that did not come from the decision service
const FallbackNotes = "Fallback plan: parse + math + db + reconcile + ticket due to JSON parsing error."

// fallbackActions runs the full invoice pipeline
var fallbackActions = []string{
	entity.ActionParseDocument,
	entity.ActionValidateInvoiceMath,
	entity.ActionGetDBInvoice,
	entity.ActionInsertInvoice,
	entity.ActionReconcileInvoice,
	entity.ActionCreateTicket,
}

// lookupFollowUps are added after a planned record lookup, in this order
var lookupFollowUps = []string{
	entity.ActionReconcileInvoice,
	entity.ActionCreateTicket,
	entity.ActionInsertInvoice,
}

// Logger interface for minimal logging dependency
type Logger interface {
	Debug(msg string, keysAndValues ...interface{})
	Info(msg string, keysAndValues ...interface{})
	Warn(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...interface{}) {}
func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

// FallbackPlanSource always proposes the fixed full pipeline. It never
// fails and calls nothing external.
type FallbackPlanSource struct{}

// Propose returns a fresh copy of the fallback plan
func (FallbackPlanSource) Propose(ctx context.Context, instruction string, settings entity.Settings) (*entity.WorkflowPlan, error) {
	return &entity.WorkflowPlan{
		Actions: append([]string(nil), fallbackActions...),
		Notes:   FallbackNotes,
	}, nil
}

// Planner turns an instruction into a normalized action list
type Planner struct {
	source   port.PlanSource
	fallback FallbackPlanSource
	logger   Logger
}

// NewPlanner creates a planner over source. A nil source always plans the
// fallback.
func NewPlanner(source port.PlanSource, logger Logger) *Planner {
	if logger == nil {
		logger = nopLogger{}
	}
	return &Planner{
		source: source,
		logger: logger,
	}
}

// Plan asks the decision service for a plan, substitutes the fallback on
// any failure and normalizes the result
func (p *Planner) Plan(ctx context.Context, instruction string, settings entity.Settings) entity.WorkflowPlan {
	plan := p.propose(ctx, instruction, settings)
	plan.Actions = Normalize(plan.Actions)
	return plan
}

func (p *Planner) propose(ctx context.Context, instruction string, settings entity.Settings) entity.WorkflowPlan {
	if p.source != nil {
		plan, err := p.source.Propose(ctx, instruction, settings)
		if err == nil && plan != nil {
			return *plan
		}
		p.logger.Warn("Decision service failed, using fallback plan", "error", err)
	}

	plan, _ := p.fallback.Propose(ctx, instruction, settings)
	return *plan
}

// Normalize puts parse_document first, drops its duplicates and completes
// a planned record lookup with its follow-up actions. The input slice is
// not modified.
func Normalize(actions []string) []string {
	normalized := make([]string, 0, len(actions)+len(lookupFollowUps)+1)
	normalized = append(normalized, entity.ActionParseDocument)
	for _, a := range actions {
		if a != entity.ActionParseDocument {
			normalized = append(normalized, a)
		}
	}

	plan := entity.WorkflowPlan{Actions: normalized}
	if plan.Has(entity.ActionGetDBInvoice) {
		for _, extra := range lookupFollowUps {
			if !plan.Has(extra) {
				plan.Actions = append(plan.Actions, extra)
			}
		}
	}
	return plan.Actions
}
