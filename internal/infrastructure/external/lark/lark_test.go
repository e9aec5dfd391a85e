package lark

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/Nazim-fad/prototype-of-an-AI-agent/internal/domain/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type sentMessage struct {
	receiveIDType string
	receiveID     string
	msgType       string
	content       string
}

type fakeAPI struct {
	sent []sentMessage
	err  error
}

func (f *fakeAPI) CreateMessage(ctx context.Context, receiveIDType, receiveID, msgType, content string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.sent = append(f.sent, sentMessage{receiveIDType, receiveID, msgType, content})
	return "om_123", nil
}

func TestSender_Send(t *testing.T) {
	api := &fakeAPI{}
	sender := &Sender{api: api, logger: zap.NewNop()}

	status, err := sender.Send(context.Background(), "ap@example.com", "Discrepancy detected on INV-1", "Hello,\nplease check.")
	require.NoError(t, err)
	assert.Equal(t, "Email sent to ap@example.com via Lark message om_123", status)
	assert.Equal(t, "lark", sender.Transport())

	require.Len(t, api.sent, 1)
	msg := api.sent[0]
	assert.Equal(t, "email", msg.receiveIDType)
	assert.Equal(t, "ap@example.com", msg.receiveID)
	assert.Equal(t, "post", msg.msgType)

	var post map[string]postBody
	require.NoError(t, json.Unmarshal([]byte(msg.content), &post))
	assert.Equal(t, "Discrepancy detected on INV-1", post["en_us"].Title)
	require.Len(t, post["en_us"].Content, 2)
	assert.Equal(t, "please check.", post["en_us"].Content[1][0].Text)
}

func TestSender_Errors(t *testing.T) {
	sender := &Sender{api: &fakeAPI{}, logger: zap.NewNop()}
	_, err := sender.Send(context.Background(), "", "s", "b")
	assert.True(t, errors.Is(err, ErrEmptyRecipient))

	sender = &Sender{api: &fakeAPI{err: errors.New("lark api error: code=99991663")}, logger: zap.NewNop()}
	_, err = sender.Send(context.Background(), "ap@example.com", "s", "b")
	assert.Error(t, err)
}

func TestAlerter_AlertTicket(t *testing.T) {
	api := &fakeAPI{}
	alerter := &Alerter{api: api, chatID: "oc_finance", logger: zap.NewNop()}

	amount := 4400.0
	err := alerter.AlertTicket(context.Background(), &entity.Ticket{
		TicketID:       "TCK-2025-ABCD",
		InvoiceID:      "INV-2025-000",
		Priority:       "High",
		IssueType:      "Amount mismatch",
		DocumentAmount: &amount,
		Description:    "total differs",
	})
	require.NoError(t, err)

	require.Len(t, api.sent, 1)
	assert.Equal(t, "chat_id", api.sent[0].receiveIDType)
	assert.Equal(t, "oc_finance", api.sent[0].receiveID)

	var body map[string]string
	require.NoError(t, json.Unmarshal([]byte(api.sent[0].content), &body))
	assert.Equal(t, "[High] Amount mismatch ticket TCK-2025-ABCD on invoice INV-2025-000\n"+
		"Document amount: 4400.00\n"+
		"total differs", body["text"])
}
