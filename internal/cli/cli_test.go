package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nazim-fad/prototype-of-an-AI-agent/internal/application/port"
	"github.com/Nazim-fad/prototype-of-an-AI-agent/internal/domain/entity"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand()
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true

	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(append([]string{"--env-file", ""}, args...))

	err := cmd.Execute()
	return out.String(), err
}

func withTempDB(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "docflow.db")
	t.Setenv("DOCFLOW_DB_PATH", path)
	return path
}

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "docflow", cmd.Use)
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand()
	commands := []string{"run", "migrate", "tickets", "export", "chat"}

	for _, cmdName := range commands {
		t.Run(cmdName, func(t *testing.T) {
			subCmd, _, err := cmd.Find([]string{cmdName})
			require.NoError(t, err, "Command %s should exist", cmdName)
			require.NotNil(t, subCmd)
			assert.Equal(t, cmdName, subCmd.Name())
		})
	}
}

func TestGlobalFlags(t *testing.T) {
	cmd := NewRootCommand()

	verboseFlag := cmd.PersistentFlags().Lookup("verbose")
	require.NotNil(t, verboseFlag)
	assert.Equal(t, "v", verboseFlag.Shorthand)
	assert.Equal(t, "false", verboseFlag.DefValue)

	formatFlag := cmd.PersistentFlags().Lookup("format")
	require.NotNil(t, formatFlag)
	assert.Equal(t, "text", formatFlag.DefValue)

	require.NotNil(t, cmd.PersistentFlags().Lookup("config"))
}

func TestRunCommandFlags(t *testing.T) {
	cmd := NewRootCommand()
	runCmd, _, err := cmd.Find([]string{"run"})
	require.NoError(t, err)

	for _, name := range []string{"instruction", "auto-insert", "recipient"} {
		assert.NotNil(t, runCmd.Flags().Lookup(name), name)
	}
}

func TestInvalidFormat(t *testing.T) {
	withTempDB(t)
	_, err := execute(t, "--format", "yaml", "migrate")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid format")
}

func TestMigrateCommand(t *testing.T) {
	withTempDB(t)

	out, err := execute(t, "--format", "json", "migrate")
	require.NoError(t, err)

	var resp struct {
		Status string         `json:"status"`
		Data   map[string]int `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, 4, resp.Data["applied"])

	out, err = execute(t, "migrate")
	require.NoError(t, err)
	assert.Equal(t, "Applied 0 migration(s)\n", out)
}

func TestTicketsCommand(t *testing.T) {
	withTempDB(t)

	out, err := execute(t, "tickets", "INV-2025-000")
	require.NoError(t, err)
	assert.Equal(t, "No tickets for INV-2025-000\n", out)

	_, err = execute(t, "tickets")
	assert.Error(t, err)
}

func TestExportCommand(t *testing.T) {
	withTempDB(t)
	target := filepath.Join(t.TempDir(), "report.xlsx")

	out, err := execute(t, "export", "INV-2025-000", "--out", target)
	require.NoError(t, err)
	assert.Contains(t, out, target)

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("PK")), "xlsx is a zip archive")

	_, err = execute(t, "export", "INV-MISSING", "--out", target)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
}

func TestChatRequiresQuestion(t *testing.T) {
	_, err := execute(t, "chat", "invoice.pdf")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "question")
}

func TestHistoryRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.json")

	turns, err := readHistory(path)
	require.NoError(t, err)
	assert.Empty(t, turns)

	want := []port.ChatTurn{{Question: "Who is the supplier?", Answer: "Gotham Office Supplies"}}
	require.NoError(t, writeHistory(path, want))

	got, err := readHistory(path)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))
	_, err = readHistory(path)
	assert.Error(t, err)
}

func TestRenderResult(t *testing.T) {
	valid := false
	match := false
	status := "Email sent to ap@example.com via outbox file outbox/x.eml"
	id := "INV-2025-000"

	result := &entity.WorkflowResult{
		Plan:          entity.WorkflowPlan{Actions: []string{entity.ActionParseDocument, entity.ActionValidateInvoiceMath}},
		DocType:       entity.DocTypeInvoice,
		ParsedInvoice: &entity.InvoiceFields{InvoiceID: &id},
		MathCheck:     &entity.MathCheckResult{IsValid: &valid, Issues: []string{"subtotal mismatch"}},
		Reconciliation: &entity.ReconciliationResult{
			IsMatch:     &match,
			Differences: []string{"total_amount: db=4376.78, document=4400.00"},
		},
		Ticket:      &entity.Ticket{TicketID: "TCK-2025-00AB", IssueType: entity.IssueTypeAmountMismatch, Priority: "High"},
		EmailStatus: &status,
		RunState:    "COMPLETED",
	}

	var b strings.Builder
	renderResult(&b, "invoice.pdf", result, nil)
	text := b.String()

	assert.Contains(t, text, "== invoice.pdf")
	assert.Contains(t, text, "state:    COMPLETED")
	assert.Contains(t, text, "invoice:  INV-2025-000")
	assert.Contains(t, text, "math:     subtotal mismatch")
	assert.Contains(t, text, "record:   total_amount: db=4376.78, document=4400.00")
	assert.Contains(t, text, "ticket:   TCK-2025-00AB")
	assert.Contains(t, text, "email:    "+status)

	b.Reset()
	renderResult(&b, "broken.pdf", nil, errors.New("boom"))
	assert.Contains(t, b.String(), "error: boom")
}
