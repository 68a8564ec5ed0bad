package events

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-redisstream/pkg/redisstream"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/lithammer/shortuuid/v3"
	"github.com/redis/go-redis/v9"
)

const journalConsumerGroup = "cinema_journal"

// Transport is the publisher/subscriber pair events travel over.
type Transport struct {
	Publisher  message.Publisher
	Subscriber message.Subscriber
}

// NewInProcessTransport keeps events inside the process.
func NewInProcessTransport(logger watermill.LoggerAdapter) Transport {
	pubSub := gochannel.NewGoChannel(gochannel.Config{OutputChannelBuffer: 256}, logger)

	return Transport{
		Publisher:  pubSub,
		Subscriber: pubSub,
	}
}

// NewRedisStreamTransport sends events through Redis streams so other
// services can consume them too.
func NewRedisStreamTransport(client redis.UniversalClient, logger watermill.LoggerAdapter) (Transport, error) {
	pub, err := redisstream.NewPublisher(redisstream.PublisherConfig{
		Client: client,
	}, logger)
	if err != nil {
		return Transport{}, fmt.Errorf("failed to create redis stream publisher: %w", err)
	}

	sub, err := redisstream.NewSubscriber(redisstream.SubscriberConfig{
		Client:        client,
		ConsumerGroup: journalConsumerGroup,
	}, logger)
	if err != nil {
		return Transport{}, fmt.Errorf("failed to create redis stream subscriber: %w", err)
	}

	return Transport{
		Publisher:  pub,
		Subscriber: sub,
	}, nil
}

func (t Transport) Close() error {
	pubErr := t.Publisher.Close()

	// gochannel serves both sides and tolerates a second Close
	subErr := t.Subscriber.Close()
	if pubErr != nil {
		return pubErr
	}

	return subErr
}

// NewRouter builds the message router the journal handlers run on.
func NewRouter(logger *slog.Logger) (*message.Router, error) {
	adapter := NewLoggerAdapter(logger)

	router, err := message.NewRouter(message.RouterConfig{}, adapter)
	if err != nil {
		return nil, err
	}

	router.AddMiddleware(dropAfterRetries(logger))
	router.AddMiddleware(middleware.Recoverer)
	router.AddMiddleware(middleware.Retry{
		MaxRetries:      5,
		InitialInterval: 50 * time.Millisecond,
		MaxInterval:     time.Second,
		Multiplier:      2,
		Logger:          adapter,
	}.Middleware)
	router.AddMiddleware(correlationMiddleware)
	router.AddMiddleware(loggingMiddleware(logger))

	return router, nil
}

// dropAfterRetries acks a message whose handler still fails once Retry gives
// up, so a broken journal never blocks the topic with redeliveries.
func dropAfterRetries(logger *slog.Logger) message.HandlerMiddleware {
	return func(h message.HandlerFunc) message.HandlerFunc {
		return func(msg *message.Message) ([]*message.Message, error) {
			msgs, err := h(msg)
			if err != nil {
				logger.Error("dropping message after retries",
					"message_uuid", msg.UUID,
					"handler", message.HandlerNameFromCtx(msg.Context()),
					"error", err,
				)
				return nil, nil
			}

			return msgs, nil
		}
	}
}

func correlationMiddleware(h message.HandlerFunc) message.HandlerFunc {
	return func(msg *message.Message) ([]*message.Message, error) {
		id := msg.Metadata.Get(correlationIDKey)
		if id == "" {
			id = shortuuid.New()
			msg.Metadata.Set(correlationIDKey, id)
		}

		msg.SetContext(ContextWithCorrelationID(msg.Context(), id))

		return h(msg)
	}
}

func loggingMiddleware(logger *slog.Logger) message.HandlerMiddleware {
	return func(h message.HandlerFunc) message.HandlerFunc {
		return func(msg *message.Message) ([]*message.Message, error) {
			log := logger.With(
				"message_uuid", msg.UUID,
				"correlation_id", msg.Metadata.Get(correlationIDKey),
				"handler", message.HandlerNameFromCtx(msg.Context()),
			)

			msgs, err := h(msg)
			if err != nil {
				log.Error("message handling error", "error", err)
				return msgs, err
			}

			log.Debug("handled message")

			return msgs, nil
		}
	}
}
