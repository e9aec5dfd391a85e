// Package lark delivers notifications and ticket alerts through Lark IM.
package lark

import (
	"context"
	"fmt"

	lark "github.com/larksuite/oapi-sdk-go/v3"
	larkcore "github.com/larksuite/oapi-sdk-go/v3/core"
	larkim "github.com/larksuite/oapi-sdk-go/v3/service/im/v1"
	"go.uber.org/zap"
)

// Receive id types understood by the IM API
const (
	ReceiveIDTypeEmail  = "email"
	ReceiveIDTypeChatID = "chat_id"
)

// Config holds Lark client configuration
type Config struct {
	AppID     string
	AppSecret string
}

// messageAPI creates IM messages and returns the new message id
type messageAPI interface {
	CreateMessage(ctx context.Context, receiveIDType, receiveID, msgType, content string) (string, error)
}

// Client wraps the Lark SDK client
type Client struct {
	client *lark.Client
	logger *zap.Logger
}

// NewClient creates a Lark SDK client with a cached tenant token
func NewClient(cfg Config, logger *zap.Logger) *Client {
	client := lark.NewClient(cfg.AppID, cfg.AppSecret,
		lark.WithLogLevel(larkcore.LogLevelInfo),
		lark.WithEnableTokenCache(true),
	)

	return &Client{
		client: client,
		logger: logger,
	}
}

// CreateMessage sends one message to a user or a chat
func (c *Client) CreateMessage(ctx context.Context, receiveIDType, receiveID, msgType, content string) (string, error) {
	req := larkim.NewCreateMessageReqBuilder().
		ReceiveIdType(receiveIDType).
		Body(larkim.NewCreateMessageReqBodyBuilder().
			ReceiveId(receiveID).
			MsgType(msgType).
			Content(content).
			Build()).
		Build()

	resp, err := c.client.Im.Message.Create(ctx, req)
	if err != nil {
		c.logger.Error("Failed to send message",
			zap.String("receive_id", receiveID),
			zap.Error(err))
		return "", fmt.Errorf("failed to send message: %w", err)
	}

	if !resp.Success() {
		c.logger.Error("API returned failure",
			zap.String("receive_id", receiveID),
			zap.Int("code", resp.Code),
			zap.String("msg", resp.Msg))
		return "", fmt.Errorf("lark api error: code=%d, msg=%s", resp.Code, resp.Msg)
	}

	messageID := ""
	if resp.Data != nil && resp.Data.MessageId != nil {
		messageID = *resp.Data.MessageId
	}

	c.logger.Debug("Message sent",
		zap.String("message_id", messageID),
		zap.String("receive_id", receiveID))

	return messageID, nil
}

var _ messageAPI = (*Client)(nil)
