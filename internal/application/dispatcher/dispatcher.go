package dispatcher

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/Nazim-fad/prototype-of-an-AI-agent/internal/domain/event"
)

// ErrClosed is returned when dispatching on a closed dispatcher
var ErrClosed = errors.New("dispatcher is closed")

// Dispatcher routes events to registered handlers
type Dispatcher interface {
	// Subscribe registers a handler for an event type
	Subscribe(eventType event.Type, handler Handler)

	// SubscribeNamed registers a handler with a name used in logs
	SubscribeNamed(eventType event.Type, name string, handler Handler)

	// Dispatch runs every handler of the event type in order. A failing
	// handler does not stop the others; all failures are joined.
	Dispatch(ctx context.Context, evt *event.Event) error

	// DispatchAsync runs the handlers in background goroutines that
	// outlive ctx cancellation
	DispatchAsync(ctx context.Context, evt *event.Event)

	// HandlerCount returns how many handlers listen to an event type
	HandlerCount(eventType event.Type) int

	// Close rejects new events and waits for async handlers
	Close() error
}

// Logger interface for minimal logging dependency
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
}

type eventDispatcher struct {
	mu       sync.RWMutex
	handlers map[event.Type][]HandlerInfo
	logger   Logger

	wg     sync.WaitGroup
	closed atomic.Bool
}

// Option configures the dispatcher
type Option func(*eventDispatcher)

// WithLogger sets a logger for the dispatcher
func WithLogger(logger Logger) Option {
	return func(d *eventDispatcher) {
		d.logger = logger
	}
}

// NewDispatcher creates a new event dispatcher
func NewDispatcher(opts ...Option) Dispatcher {
	d := &eventDispatcher{
		handlers: make(map[event.Type][]HandlerInfo),
	}

	for _, opt := range opts {
		opt(d)
	}

	return d
}

// Subscribe registers a handler with a generated name
func (d *eventDispatcher) Subscribe(eventType event.Type, handler Handler) {
	d.mu.RLock()
	name := fmt.Sprintf("%s-handler-%d", eventType, len(d.handlers[eventType]))
	d.mu.RUnlock()

	d.SubscribeNamed(eventType, name, handler)
}

func (d *eventDispatcher) SubscribeNamed(eventType event.Type, name string, handler Handler) {
	d.mu.Lock()
	d.handlers[eventType] = append(d.handlers[eventType], HandlerInfo{
		Name:      name,
		EventType: eventType,
		Handler:   handler,
	})
	d.mu.Unlock()

	d.info("Handler registered",
		"event_type", eventType,
		"handler_name", name,
	)
}

func (d *eventDispatcher) Dispatch(ctx context.Context, evt *event.Event) error {
	if d.closed.Load() {
		return ErrClosed
	}

	handlers := d.snapshot(evt.Type)

	var errs []error
	for _, info := range handlers {
		if err := d.safeExecute(ctx, evt, info); err != nil {
			d.error("Handler error",
				"event_type", evt.Type,
				"event_id", evt.ID,
				"run_id", evt.RunID,
				"handler_name", info.Name,
				"error", err,
			)
			errs = append(errs, fmt.Errorf("handler %s failed: %w", info.Name, err))
		}
	}

	return errors.Join(errs...)
}

func (d *eventDispatcher) DispatchAsync(ctx context.Context, evt *event.Event) {
	if d.closed.Load() {
		d.error("Cannot dispatch async event, dispatcher is closed",
			"event_type", evt.Type,
			"event_id", evt.ID,
		)
		return
	}

	ctx = context.WithoutCancel(ctx)
	for _, info := range d.snapshot(evt.Type) {
		d.wg.Add(1)
		go func(h HandlerInfo) {
			defer d.wg.Done()

			if err := d.safeExecute(ctx, evt, h); err != nil {
				d.error("Async handler error",
					"event_type", evt.Type,
					"event_id", evt.ID,
					"run_id", evt.RunID,
					"handler_name", h.Name,
					"error", err,
				)
			}
		}(info)
	}
}

func (d *eventDispatcher) HandlerCount(eventType event.Type) int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.handlers[eventType])
}

func (d *eventDispatcher) Close() error {
	if !d.closed.CompareAndSwap(false, true) {
		return ErrClosed
	}

	d.info("Closing dispatcher, waiting for async handlers")
	d.wg.Wait()
	d.info("Dispatcher closed")

	return nil
}

func (d *eventDispatcher) snapshot(eventType event.Type) []HandlerInfo {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return append([]HandlerInfo(nil), d.handlers[eventType]...)
}

// safeExecute runs a handler with panic recovery
func (d *eventDispatcher) safeExecute(ctx context.Context, evt *event.Event, info HandlerInfo) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("handler panic: %v", r)
		}
	}()

	return info.Handler(ctx, evt)
}

func (d *eventDispatcher) info(msg string, keysAndValues ...interface{}) {
	if d.logger != nil {
		d.logger.Info(msg, keysAndValues...)
	}
}

func (d *eventDispatcher) error(msg string, keysAndValues ...interface{}) {
	if d.logger != nil {
		d.logger.Error(msg, keysAndValues...)
	}
}
