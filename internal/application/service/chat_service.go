package service

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/Nazim-fad/prototype-of-an-AI-agent/internal/application/port"
	"github.com/Nazim-fad/prototype-of-an-AI-agent/internal/domain/entity"
)

// Chat tools the planner can choose
const (
	ToolStructuredFields = "structured_fields"
	ToolRAGOverText      = "rag_over_text"
)

const (
	ragTopK      = 4
	chunkSize    = 1024
	chunkOverlap = 200
	ragSeparator = "\n\n-----\n\n"
)

// ChatRequest is one question about an already processed document
type ChatRequest struct {
	RawText       string                `json:"raw_text"`
	ParsedInvoice *entity.InvoiceFields `json:"parsed_invoice"`
	ParsedTicket  *entity.TicketFields  `json:"parsed_ticket"`
	Question      string                `json:"question" binding:"required"`
	History       []port.ChatTurn       `json:"history"`
}

// ChatResponse carries the answer and the tools used to build it
type ChatResponse struct {
	Answer string   `json:"answer"`
	Tools  []string `json:"tools"`
}

// ChatService answers questions about a document
type ChatService interface {
	Ask(ctx context.Context, req ChatRequest) (*ChatResponse, error)
}

type chatServiceImpl struct {
	model    port.ChatModel
	embedder port.Embedder
	logger   Logger
}

// NewChatService creates a new ChatService. A nil embedder disables
// retrieval over the raw text.
func NewChatService(model port.ChatModel, embedder port.Embedder, logger Logger) ChatService {
	return &chatServiceImpl{
		model:    model,
		embedder: embedder,
		logger:   logger,
	}
}

// Ask plans the tools, gathers their context and asks for the answer
func (s *chatServiceImpl) Ask(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	index, err := s.buildIndex(ctx, req.RawText)
	if err != nil {
		return nil, err
	}

	flags := port.ChatFlags{
		HasParsedInvoice: req.ParsedInvoice != nil,
		HasParsedTicket:  req.ParsedTicket != nil,
		HasIndex:         index != nil,
	}
	tools := s.chooseTools(ctx, req.Question, flags)

	prompt := port.ChatPrompt{
		History:  formatHistory(req.History),
		Question: req.Question,
	}

	if containsTool(tools, ToolStructuredFields) {
		prompt.Structured, err = structuredContext(req.ParsedInvoice, req.ParsedTicket)
		if err != nil {
			return nil, err
		}
	}

	if containsTool(tools, ToolRAGOverText) && index != nil {
		chunks, err := index.search(ctx, s.embedder, req.Question, ragTopK)
		if err != nil {
			return nil, err
		}
		prompt.RAGContext = strings.Join(chunks, ragSeparator)
	}

	answer, err := s.model.Answer(ctx, prompt)
	if err != nil {
		s.logger.Error("Failed to answer question", "error", err)
		return nil, fmt.Errorf("answer question: %w", err)
	}

	return &ChatResponse{Answer: answer, Tools: tools}, nil
}

// chooseTools asks the model for tools and falls back to retrieval when an
// index exists, structured fields otherwise
func (s *chatServiceImpl) chooseTools(ctx context.Context, question string, flags port.ChatFlags) []string {
	tools, err := s.model.ChooseTools(ctx, question, flags)
	if err != nil {
		s.logger.Info("Tool planner failed, using default tool", "error", err)
		tools = nil
	}
	if len(tools) > 0 {
		return tools
	}
	if flags.HasIndex {
		return []string{ToolRAGOverText}
	}
	return []string{ToolStructuredFields}
}

func (s *chatServiceImpl) buildIndex(ctx context.Context, rawText string) (*chunkIndex, error) {
	if s.embedder == nil || strings.TrimSpace(rawText) == "" {
		return nil, nil
	}

	chunks := splitChunks(rawText, chunkSize, chunkOverlap)
	vectors, err := s.embedder.Embed(ctx, chunks)
	if err != nil {
		s.logger.Error("Failed to embed document", "chunks", len(chunks), "error", err)
		return nil, fmt.Errorf("embed document: %w", err)
	}
	return &chunkIndex{chunks: chunks, vectors: vectors}, nil
}

// chunkIndex is an in-memory vector index over one document
type chunkIndex struct {
	chunks  []string
	vectors [][]float32
}

// search returns up to k chunks ranked by cosine similarity to query
func (idx *chunkIndex) search(ctx context.Context, embedder port.Embedder, query string, k int) ([]string, error) {
	vectors, err := embedder.Embed(ctx, []string{query})
	if err != nil {
		return nil, fmt.Errorf("embed question: %w", err)
	}
	if len(vectors) == 0 {
		return nil, nil
	}
	q := vectors[0]

	order := make([]int, len(idx.chunks))
	scores := make([]float64, len(idx.chunks))
	for i := range idx.chunks {
		order[i] = i
		scores[i] = cosine(q, idx.vectors[i])
	}
	sort.SliceStable(order, func(a, b int) bool {
		return scores[order[a]] > scores[order[b]]
	})

	if k > len(order) {
		k = len(order)
	}
	hits := make([]string, k)
	for i := 0; i < k; i++ {
		hits[i] = idx.chunks[order[i]]
	}
	return hits, nil
}

func cosine(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

// splitChunks cuts text into windows of size runes that overlap by overlap
// runes. Cuts prefer the last whitespace inside the window.
func splitChunks(text string, size, overlap int) []string {
	runes := []rune(text)
	if len(runes) <= size {
		return []string{text}
	}

	var chunks []string
	start := 0
	for start < len(runes) {
		end := start + size
		if end >= len(runes) {
			chunks = append(chunks, string(runes[start:]))
			break
		}
		for cut := end; cut > start+overlap; cut-- {
			if runes[cut] == ' ' || runes[cut] == '\n' {
				end = cut
				break
			}
		}
		chunks = append(chunks, string(runes[start:end]))
		start = end - overlap
	}
	return chunks
}

func formatHistory(history []port.ChatTurn) string {
	lines := make([]string, 0, 2*len(history))
	for i, turn := range history {
		lines = append(lines,
			fmt.Sprintf("Turn %d - User: %s", i+1, turn.Question),
			fmt.Sprintf("Turn %d - Agent: %s", i+1, turn.Answer),
		)
	}
	return strings.Join(lines, "\n")
}

func structuredContext(invoice *entity.InvoiceFields, ticket *entity.TicketFields) (string, error) {
	fields := map[string]interface{}{}
	if invoice != nil {
		fields["parsed_invoice"] = invoice
	}
	if ticket != nil {
		fields["parsed_ticket"] = ticket
	}
	if len(fields) == 0 {
		return "", nil
	}

	data, err := json.MarshalIndent(fields, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode structured fields: %w", err)
	}
	return string(data), nil
}

func containsTool(tools []string, tool string) bool {
	for _, t := range tools {
		if t == tool {
			return true
		}
	}
	return false
}
