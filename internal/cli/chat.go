package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Nazim-fad/prototype-of-an-AI-agent/internal/application/port"
	"github.com/Nazim-fad/prototype-of-an-AI-agent/internal/application/service"
)

// ChatOptions holds flags for the chat command.
type ChatOptions struct {
	*RootOptions
	Question    string
	HistoryFile string
}

// NewChatCommand creates the chat command.
func NewChatCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ChatOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "chat <file>",
		Short: "Ask a question about a document",
		Long: `Ask a question about a document. The document is read and its fields are
extracted, then the answer is built from the structured fields, from
retrieved passages of the text, or both.

The optional history file is a JSON array of {"question", "answer"} turns;
the new turn is appended to it after answering.

Example:
  docflow chat invoice.pdf --question "Who is the supplier?"
  docflow chat invoice.pdf -q "And the due date?" --history-file chat.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return chatWithDocument(opts, cmd, args[0])
		},
	}

	cmd.Flags().StringVarP(&opts.Question, "question", "q", "", "question to ask (required)")
	cmd.Flags().StringVar(&opts.HistoryFile, "history-file", "", "JSON file holding previous turns")
	_ = cmd.MarkFlagRequired("question")

	return cmd
}

func chatWithDocument(opts *ChatOptions, cmd *cobra.Command, path string) error {
	if strings.TrimSpace(opts.Question) == "" {
		return NewExitError(ExitCommandError, "--question must not be empty")
	}

	history, err := readHistory(opts.HistoryFile)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read history", err)
	}

	c, err := opts.startContainer(cmd.Context())
	if err != nil {
		return err
	}
	defer c.Close()

	ctx := cmd.Context()
	text, err := c.Documents().Loader.LoadText(ctx, path)
	if err != nil {
		return WrapExitError(ExitFailure, "failed to read document", err)
	}
	parsed, err := c.Documents().Extractor.Extract(ctx, text)
	if err != nil {
		return WrapExitError(ExitFailure, "failed to extract fields", err)
	}

	resp, err := c.Services().Chat.Ask(ctx, service.ChatRequest{
		RawText:       text,
		ParsedInvoice: parsed.Invoice,
		ParsedTicket:  parsed.Ticket,
		Question:      opts.Question,
		History:       history,
	})
	if err != nil {
		return WrapExitError(ExitFailure, "failed to answer", err)
	}

	if opts.HistoryFile != "" {
		history = append(history, port.ChatTurn{Question: opts.Question, Answer: resp.Answer})
		if err := writeHistory(opts.HistoryFile, history); err != nil {
			return WrapExitError(ExitCommandError, "failed to write history", err)
		}
	}

	out := opts.formatter(cmd)
	out.VerboseLog("Tools used: %s", strings.Join(resp.Tools, ", "))
	return out.Success(resp, fmt.Sprintf("%s\n", resp.Answer))
}

// readHistory returns no turns when path is empty or does not exist yet
func readHistory(path string) ([]port.ChatTurn, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var turns []port.ChatTurn
	if err := json.Unmarshal(data, &turns); err != nil {
		return nil, fmt.Errorf("invalid history file %s: %w", path, err)
	}
	return turns, nil
}

func writeHistory(path string, turns []port.ChatTurn) error {
	data, err := json.MarshalIndent(turns, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
