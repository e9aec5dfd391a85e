package openai

import (
	"context"
	"errors"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

// ErrEmptyResponse is returned when the model answers with no choices
var ErrEmptyResponse = errors.New("no response from model")

// Config holds the connection settings for an OpenAI compatible endpoint
type Config struct {
	APIKey         string
	BaseURL        string
	Model          string
	EmbeddingModel string
}

// chatMessage is one message of a completion request
type chatMessage struct {
	Role    string
	Content string
}

// api is the subset of the go-openai client used here
type api interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
	CreateEmbeddings(ctx context.Context, conv openai.EmbeddingRequestConverter) (openai.EmbeddingResponse, error)
}

// Client wraps the OpenAI API with the prompt catalogue. Every model backed
// adapter in this package shares one Client.
type Client struct {
	api            api
	model          string
	embeddingModel string
	prompts        *PromptConfig
	logger         *zap.Logger
}

// NewClient creates a client. An empty BaseURL keeps the public OpenAI
// endpoint; set it to reach Ollama or another compatible server.
func NewClient(cfg Config, prompts *PromptConfig, logger *zap.Logger) *Client {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	return newClient(openai.NewClientWithConfig(clientCfg), cfg, prompts, logger)
}

func newClient(a api, cfg Config, prompts *PromptConfig, logger *zap.Logger) *Client {
	if prompts == nil {
		prompts = DefaultPrompts()
	}
	return &Client{
		api:            a,
		model:          cfg.Model,
		embeddingModel: cfg.EmbeddingModel,
		prompts:        prompts,
		logger:         logger,
	}
}

// complete runs one chat completion and returns the first choice
func (c *Client) complete(ctx context.Context, messages []chatMessage, temperature float32, jsonMode bool) (string, error) {
	req := openai.ChatCompletionRequest{
		Model:       c.model,
		Temperature: temperature,
		Messages:    make([]openai.ChatCompletionMessage, 0, len(messages)),
	}
	for _, m := range messages {
		req.Messages = append(req.Messages, openai.ChatCompletionMessage{
			Role:    m.Role,
			Content: m.Content,
		})
	}
	if jsonMode {
		req.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		}
	}

	resp, err := c.api.CreateChatCompletion(ctx, req)
	if err != nil {
		c.logger.Error("OpenAI API call failed",
			zap.String("model", c.model),
			zap.Error(err))
		return "", fmt.Errorf("OpenAI API call failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", ErrEmptyResponse
	}

	return resp.Choices[0].Message.Content, nil
}

// completeJSON runs a JSON mode completion and decodes the answer into out
func (c *Client) completeJSON(ctx context.Context, messages []chatMessage, temperature float32, out interface{}) error {
	content, err := c.complete(ctx, messages, temperature, true)
	if err != nil {
		return err
	}
	if err := decodeJSON(content, out); err != nil {
		c.logger.Warn("Failed to parse model response",
			zap.Error(err),
			zap.Int("content_length", len(content)))
		return err
	}
	return nil
}

// prompt renders a template pair into system and user messages
func prompt(tmpl PromptTemplate, data interface{}) ([]chatMessage, error) {
	user, err := renderTemplate(tmpl.UserTemplate, data)
	if err != nil {
		return nil, err
	}
	return []chatMessage{
		{Role: openai.ChatMessageRoleSystem, Content: tmpl.System},
		{Role: openai.ChatMessageRoleUser, Content: user},
	}, nil
}
