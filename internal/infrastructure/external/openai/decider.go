package openai

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Nazim-fad/prototype-of-an-AI-agent/internal/application/port"
	"github.com/Nazim-fad/prototype-of-an-AI-agent/internal/domain/entity"
	"go.uber.org/zap"
)

// Decider implements port.PlanSource by asking the model for an action list
type Decider struct {
	client *Client
}

// NewDecider creates a decision service on client
func NewDecider(client *Client) *Decider {
	return &Decider{client: client}
}

type plannerPrompt struct {
	Instruction  string
	SettingsJSON string
}

// Propose returns the model's plan as it answered. Any failure, including
// an answer that is not JSON, is returned so the caller can fall back.
func (d *Decider) Propose(ctx context.Context, instruction string, settings entity.Settings) (*entity.WorkflowPlan, error) {
	settingsJSON, err := json.MarshalIndent(settings, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode settings: %w", err)
	}

	tmpl := d.client.prompts.WorkflowPlanner
	messages, err := prompt(tmpl, plannerPrompt{
		Instruction:  instruction,
		SettingsJSON: string(settingsJSON),
	})
	if err != nil {
		return nil, err
	}

	var plan entity.WorkflowPlan
	if err := d.client.completeJSON(ctx, messages, tmpl.Temperature, &plan); err != nil {
		return nil, err
	}

	d.client.logger.Info("Workflow plan proposed",
		zap.Strings("actions", plan.Actions),
		zap.String("notes", plan.Notes))
	return &plan, nil
}

// Verify interface compliance
var _ port.PlanSource = (*Decider)(nil)
