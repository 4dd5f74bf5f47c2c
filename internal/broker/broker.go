// Package broker carries the asynchronous AI round-trip: outbound triggering
// messages on one topic, inbound assistant replies on another.
package broker

import (
	"context"
	"errors"

	"studybuddy-backend/internal/models"
)

// Broker topics for the AI round-trip.
const (
	TopicAIMessageEvents  = "ai-message-events"
	TopicAIResponseEvents = "ai-response-events"
)

// ErrPublish indicates the broker could not accept an outbound event. Callers
// on the ingestion path treat it as non-fatal: the human message is already
// durably stored, and a missed AI turn is recoverable by resending.
var ErrPublish = errors.New("broker publish failed")

// Publisher emits AI request events. Implementations do not retry at the
// application level; the transport may retry within its own policy.
type Publisher interface {
	PublishAIMessage(ctx context.Context, event models.AIMessageEvent) error
}

// Handler processes a raw inbound payload. It must tolerate malformed input;
// errors are handled (logged and swallowed) inside the handler itself.
type Handler func(ctx context.Context, payload []byte)

// Consumer subscribes a handler to the AI response topic. The subscription
// lives until Close.
type Consumer interface {
	SubscribeAIResponses(ctx context.Context, h Handler) error
	Close()
}
