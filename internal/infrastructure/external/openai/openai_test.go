package openai

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Nazim-fad/prototype-of-an-AI-agent/internal/application/port"
	"github.com/Nazim-fad/prototype-of-an-AI-agent/internal/domain/entity"
	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeAPI struct {
	chatFunc       func(req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
	embeddingsFunc func(req openai.EmbeddingRequest) (openai.EmbeddingResponse, error)
	requests       []openai.ChatCompletionRequest
}

func (f *fakeAPI) CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	f.requests = append(f.requests, req)
	return f.chatFunc(req)
}

func (f *fakeAPI) CreateEmbeddings(ctx context.Context, conv openai.EmbeddingRequestConverter) (openai.EmbeddingResponse, error) {
	return f.embeddingsFunc(conv.Convert())
}

func answering(content string) func(openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	return func(openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
		return openai.ChatCompletionResponse{
			Choices: []openai.ChatCompletionChoice{{Message: openai.ChatCompletionMessage{Content: content}}},
		}, nil
	}
}

func newTestClient(api *fakeAPI) *Client {
	return newClient(api, Config{Model: "gpt-4o-mini", EmbeddingModel: "text-embedding-3-small"}, nil, zap.NewNop())
}

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"plain object", `{"a":1}`, `{"a":1}`},
		{"markdown fence", "```json\n{\"a\":{\"b\":2}}\n```", `{"a":{"b":2}}`},
		{"braces inside strings", `Sure: {"notes":"use } carefully \" {"} trailing`, `{"notes":"use } carefully \" {"}`},
		{"no object", "no json here", ""},
		{"unbalanced", `{"a":1`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := extractJSON(tt.content); got != tt.want {
				t.Errorf("extractJSON() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDecodeJSON(t *testing.T) {
	var plan entity.WorkflowPlan
	require.NoError(t, decodeJSON("Here is the plan:\n{\"actions\":[\"parse_document\"],\"notes\":\"n\"}", &plan))
	assert.Equal(t, []string{"parse_document"}, plan.Actions)

	err := decodeJSON("I cannot help with that.", &plan)
	assert.True(t, errors.Is(err, ErrNoJSON))
}

func TestDefaultPrompts_RenderEveryTemplate(t *testing.T) {
	prompts := DefaultPrompts()

	cases := map[string]struct {
		tmpl PromptTemplate
		data interface{}
	}{
		"invoice": {prompts.InvoiceExtraction, textPrompt{Text: "INVOICE"}},
		"ticket":  {prompts.TicketExtraction, textPrompt{Text: "TICKET"}},
		"planner": {prompts.WorkflowPlanner, plannerPrompt{Instruction: "go", SettingsJSON: "{}"}},
		"email":   {prompts.EmailDraft, draftPrompt{Recipient: "ap@example.com", ContextJSON: "{}"}},
		"tools":   {prompts.ChatPlanner, toolPrompt{Question: "q", FlagsJSON: "{}"}},
		"answer":  {prompts.ChatAnswer, port.ChatPrompt{Question: "q"}},
	}

	for name, c := range cases {
		t.Run(name, func(t *testing.T) {
			assert.NotEmpty(t, c.tmpl.System)
			messages, err := prompt(c.tmpl, c.data)
			require.NoError(t, err)
			require.Len(t, messages, 2)
			assert.Equal(t, openai.ChatMessageRoleSystem, messages[0].Role)
			assert.NotContains(t, messages[1].Content, "{{")
		})
	}
}

func TestLoadPrompts_OverridesSection(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prompts.yaml")
	override := "email_draft:\n  temperature: 0.7\n  system: Be brief.\n  user_template: \"Write to {{.Recipient}}\"\n"
	require.NoError(t, os.WriteFile(path, []byte(override), 0644))

	prompts, err := LoadPrompts(path)
	require.NoError(t, err)
	assert.Equal(t, "Be brief.", prompts.EmailDraft.System)
	assert.Equal(t, float32(0.7), prompts.EmailDraft.Temperature)
	assert.Equal(t, DefaultPrompts().WorkflowPlanner, prompts.WorkflowPlanner)

	_, err = LoadPrompts(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestDecider_Propose(t *testing.T) {
	api := &fakeAPI{chatFunc: answering(`{"actions":["validate_invoice_math","get_db_invoice"],"notes":"math then db"}`)}
	decider := NewDecider(newTestClient(api))

	plan, err := decider.Propose(context.Background(), "check the totals", entity.Settings{AutoInsert: true, DefaultRecipient: "ap@example.com"})
	require.NoError(t, err)
	assert.Equal(t, []string{"validate_invoice_math", "get_db_invoice"}, plan.Actions)

	require.Len(t, api.requests, 1)
	req := api.requests[0]
	assert.Equal(t, "gpt-4o-mini", req.Model)
	require.NotNil(t, req.ResponseFormat)
	assert.Equal(t, openai.ChatCompletionResponseFormatTypeJSONObject, req.ResponseFormat.Type)
	assert.Contains(t, req.Messages[1].Content, "check the totals")
	assert.Contains(t, req.Messages[1].Content, `"auto_insert_new_invoices": true`)
}

func TestDecider_ProposeFailures(t *testing.T) {
	t.Run("transport error", func(t *testing.T) {
		api := &fakeAPI{chatFunc: func(openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
			return openai.ChatCompletionResponse{}, errors.New("connection refused")
		}}
		_, err := NewDecider(newTestClient(api)).Propose(context.Background(), "", entity.Settings{})
		assert.Error(t, err)
	})

	t.Run("not json", func(t *testing.T) {
		api := &fakeAPI{chatFunc: answering("parse it, then check the math")}
		_, err := NewDecider(newTestClient(api)).Propose(context.Background(), "", entity.Settings{})
		assert.Error(t, err)
	})

	t.Run("no choices", func(t *testing.T) {
		api := &fakeAPI{chatFunc: func(openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
			return openai.ChatCompletionResponse{}, nil
		}}
		_, err := NewDecider(newTestClient(api)).Propose(context.Background(), "", entity.Settings{})
		assert.True(t, errors.Is(err, ErrEmptyResponse))
	})
}

func TestFieldExtractor(t *testing.T) {
	text := "INVOICE\nInvoice #: INV-2025-001"

	t.Run("decodes invoice fields", func(t *testing.T) {
		api := &fakeAPI{chatFunc: answering(`{"invoice_id":"INV-2025-001","total_amount":4376.78,"tax_amount":null,"raw_text":"x"}`)}
		fields, err := NewFieldExtractor(newTestClient(api)).ExtractInvoice(context.Background(), text)
		require.NoError(t, err)
		assert.Equal(t, "INV-2025-001", fields.ID())
		assert.Equal(t, 4376.78, *fields.TotalAmount)
		assert.Nil(t, fields.TaxAmount)
		assert.Equal(t, text, fields.RawText)
		assert.Contains(t, api.requests[0].Messages[1].Content, text)
	})

	t.Run("unusable answer yields empty fields", func(t *testing.T) {
		api := &fakeAPI{chatFunc: answering("sorry")}
		fields, err := NewFieldExtractor(newTestClient(api)).ExtractTicket(context.Background(), text)
		require.NoError(t, err)
		assert.Nil(t, fields.TicketID)
		assert.Equal(t, text, fields.RawText)
	})

	t.Run("transport error propagates", func(t *testing.T) {
		api := &fakeAPI{chatFunc: func(openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
			return openai.ChatCompletionResponse{}, errors.New("timeout")
		}}
		_, err := NewFieldExtractor(newTestClient(api)).ExtractInvoice(context.Background(), text)
		assert.Error(t, err)
	})
}

func TestDrafter_DraftEmail(t *testing.T) {
	api := &fakeAPI{chatFunc: answering("\nHello,\n\nPlease review invoice INV-1.\n")}
	bundle := &entity.NotificationContext{
		DocType:         entity.DocTypeInvoice,
		UserInstruction: "notify the supplier",
	}

	draft, err := NewDrafter(newTestClient(api)).DraftEmail(context.Background(), "billing@example.com", bundle)
	require.NoError(t, err)
	assert.Equal(t, "billing@example.com", draft.Recipient)
	assert.Equal(t, "Hello,\n\nPlease review invoice INV-1.", draft.Body)
	assert.Empty(t, draft.Subject)

	user := api.requests[0].Messages[1].Content
	assert.Contains(t, user, "Recipient: billing@example.com")
	assert.Contains(t, user, `"user_instruction": "notify the supplier"`)
	assert.Nil(t, api.requests[0].ResponseFormat)
}

func TestChatModel(t *testing.T) {
	api := &fakeAPI{chatFunc: answering(`{"actions":["rag_over_text"]}`)}
	model := NewChatModel(newTestClient(api))

	tools, err := model.ChooseTools(context.Background(), "why was it disputed?", port.ChatFlags{HasIndex: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"rag_over_text"}, tools)
	assert.Contains(t, api.requests[0].Messages[1].Content, `"has_index": true`)

	api.chatFunc = answering("The totals differ.")
	answer, err := model.Answer(context.Background(), port.ChatPrompt{
		History:  "Turn 1 - User: hi\nTurn 1 - Agent: hello",
		Question: "why?",
	})
	require.NoError(t, err)
	assert.Equal(t, "The totals differ.", answer)
	assert.True(t, strings.HasPrefix(api.requests[1].Messages[1].Content, "Previous conversation (may be empty):\nTurn 1 - User: hi"))
}

func TestEmbedder_Embed(t *testing.T) {
	api := &fakeAPI{embeddingsFunc: func(req openai.EmbeddingRequest) (openai.EmbeddingResponse, error) {
		assert.Equal(t, openai.EmbeddingModel("text-embedding-3-small"), req.Model)
		return openai.EmbeddingResponse{Data: []openai.Embedding{
			{Index: 1, Embedding: []float32{0, 1}},
			{Index: 0, Embedding: []float32{1, 0}},
		}}, nil
	}}

	vectors, err := NewEmbedder(newTestClient(api)).Embed(context.Background(), []string{"a", "b"})
	require.NoError(t, err)
	assert.Equal(t, [][]float32{{1, 0}, {0, 1}}, vectors)

	empty, err := NewEmbedder(newTestClient(api)).Embed(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
}
