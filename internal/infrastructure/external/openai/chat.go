package openai

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Nazim-fad/prototype-of-an-AI-agent/internal/application/port"
	"go.uber.org/zap"
)

// ChatModel implements port.ChatModel for the document assistant
type ChatModel struct {
	client *Client
}

// NewChatModel creates a chat model on client
func NewChatModel(client *Client) *ChatModel {
	return &ChatModel{client: client}
}

type toolPlan struct {
	Actions []string `json:"actions"`
}

type toolPrompt struct {
	Question  string
	FlagsJSON string
}

// ChooseTools asks the model which context tools the question needs
func (m *ChatModel) ChooseTools(ctx context.Context, question string, flags port.ChatFlags) ([]string, error) {
	flagsJSON, err := json.MarshalIndent(flags, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode chat flags: %w", err)
	}

	tmpl := m.client.prompts.ChatPlanner
	messages, err := prompt(tmpl, toolPrompt{Question: question, FlagsJSON: string(flagsJSON)})
	if err != nil {
		return nil, err
	}

	var plan toolPlan
	if err := m.client.completeJSON(ctx, messages, tmpl.Temperature, &plan); err != nil {
		return nil, err
	}

	m.client.logger.Debug("Chat tools chosen", zap.Strings("actions", plan.Actions))
	return plan.Actions, nil
}

// Answer runs the final answer step
func (m *ChatModel) Answer(ctx context.Context, chat port.ChatPrompt) (string, error) {
	tmpl := m.client.prompts.ChatAnswer
	messages, err := prompt(tmpl, chat)
	if err != nil {
		return "", err
	}

	answer, err := m.client.complete(ctx, messages, tmpl.Temperature, false)
	if err != nil {
		return "", fmt.Errorf("failed to answer question: %w", err)
	}
	return answer, nil
}

// Verify interface compliance
var _ port.ChatModel = (*ChatModel)(nil)
