package queue

import "context"

const (
	// DispatchQueue carries full-transition and test-send dispatch requests.
	DispatchQueue = "dispatch"
	// DispatchDLQ receives dispatch messages rejected as unprocessable.
	DispatchDLQ = "dlq.dispatch"
)

// Publisher publishes dispatch messages to a queue.
type Publisher interface {
	Publish(ctx context.Context, queue string, msg DispatchMessage) error
	Close() error
}

// MessageHandler handles a consumed queue message.
type MessageHandler func(ctx context.Context, msg DispatchMessage) error

// Consumer consumes dispatch messages from a queue.
type Consumer interface {
	Consume(ctx context.Context, queue string, handler MessageHandler) error
	Close() error
}
