package dispatcher

import (
	"context"

	"github.com/Nazim-fad/prototype-of-an-AI-agent/internal/domain/event"
)

// Handler processes workflow events
type Handler func(ctx context.Context, evt *event.Event) error

// HandlerInfo describes a registered handler
type HandlerInfo struct {
	Name      string
	EventType event.Type
	Handler   Handler
}
