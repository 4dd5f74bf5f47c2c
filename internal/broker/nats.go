package broker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"

	"studybuddy-backend/internal/models"
)

// publishTimeout bounds the synchronous flush after a publish so a slow broker
// cannot stall message posting.
const publishTimeout = 5 * time.Second

// NATSBus implements Publisher and Consumer over core NATS. Core (not
// JetStream) is deliberate: the application drops failed events rather than
// redelivering them, so at-most-once transport matches the consumer's
// semantics.
type NATSBus struct {
	conn *nats.Conn
	log  zerolog.Logger
}

var (
	_ Publisher = (*NATSBus)(nil)
	_ Consumer  = (*NATSBus)(nil)
)

// NewNATSBus connects to the broker at url.
func NewNATSBus(url string, log zerolog.Logger) (*NATSBus, error) {
	conn, err := nats.Connect(url,
		nats.Name("studybuddy-backend"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			log.Warn().Err(err).Msg("NATS disconnected")
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			log.Info().Str("url", c.ConnectedUrl()).Msg("NATS reconnected")
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("connecting to NATS at %s: %w", url, err)
	}
	return &NATSBus{conn: conn, log: log}, nil
}

// PublishAIMessage emits an AIMessageEvent on the request topic. The flush is
// bounded by publishTimeout; on failure the event is reported as ErrPublish
// and not retried here.
func (b *NATSBus) PublishAIMessage(_ context.Context, event models.AIMessageEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("%w: marshaling event: %v", ErrPublish, err)
	}
	if err := b.conn.Publish(TopicAIMessageEvents, data); err != nil {
		return fmt.Errorf("%w: %v", ErrPublish, err)
	}
	if err := b.conn.FlushTimeout(publishTimeout); err != nil {
		return fmt.Errorf("%w: flush: %v", ErrPublish, err)
	}
	return nil
}

// SubscribeAIResponses attaches h to the reply topic. Each delivery is handed
// to h on a NATS callback goroutine; h owns all failure handling.
func (b *NATSBus) SubscribeAIResponses(ctx context.Context, h Handler) error {
	_, err := b.conn.Subscribe(TopicAIResponseEvents, func(msg *nats.Msg) {
		h(ctx, msg.Data)
	})
	if err != nil {
		return fmt.Errorf("subscribing to %s: %w", TopicAIResponseEvents, err)
	}
	b.log.Info().Str("topic", TopicAIResponseEvents).Msg("subscribed to AI responses")
	return nil
}

// Close drains the connection, letting in-flight deliveries finish.
func (b *NATSBus) Close() {
	if err := b.conn.Drain(); err != nil {
		b.log.Warn().Err(err).Msg("NATS drain failed")
	}
}
