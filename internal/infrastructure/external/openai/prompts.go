package openai

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"text/template"

	"gopkg.in/yaml.v3"
)

//go:embed prompts.yaml
var defaultPromptsYAML []byte

// PromptTemplate is one system prompt with its user message template
type PromptTemplate struct {
	Temperature  float32 `yaml:"temperature"`
	System       string  `yaml:"system"`
	UserTemplate string  `yaml:"user_template"`
}

// PromptConfig holds every prompt the model adapters send
type PromptConfig struct {
	InvoiceExtraction PromptTemplate `yaml:"invoice_extraction"`
	TicketExtraction  PromptTemplate `yaml:"ticket_extraction"`
	WorkflowPlanner   PromptTemplate `yaml:"workflow_planner"`
	EmailDraft        PromptTemplate `yaml:"email_draft"`
	ChatPlanner       PromptTemplate `yaml:"chat_planner"`
	ChatAnswer        PromptTemplate `yaml:"chat_answer"`
}

// DefaultPrompts returns the built-in prompt catalogue
func DefaultPrompts() *PromptConfig {
	var prompts PromptConfig
	if err := yaml.Unmarshal(defaultPromptsYAML, &prompts); err != nil {
		panic(fmt.Sprintf("invalid embedded prompts: %v", err))
	}
	return &prompts
}

// LoadPrompts reads a prompts file over the built-in catalogue. Sections
// missing from the file keep their defaults. An empty path returns the
// defaults.
func LoadPrompts(promptsPath string) (*PromptConfig, error) {
	prompts := DefaultPrompts()
	if promptsPath == "" {
		return prompts, nil
	}

	data, err := os.ReadFile(promptsPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read prompts file: %w", err)
	}

	if err := yaml.Unmarshal(data, prompts); err != nil {
		return nil, fmt.Errorf("failed to unmarshal prompts: %w", err)
	}

	return prompts, nil
}

// renderTemplate renders a template with provided data
func renderTemplate(templateStr string, data interface{}) (string, error) {
	tmpl, err := template.New("prompt").Option("missingkey=error").Parse(templateStr)
	if err != nil {
		return "", fmt.Errorf("failed to parse template: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}

	return buf.String(), nil
}
