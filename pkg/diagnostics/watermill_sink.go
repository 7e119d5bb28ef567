package diagnostics

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

// DefaultTopic is the in-process topic diagnostic records are published on.
const DefaultTopic = "first5.diagnostics"

// WatermillSink fans records out over a watermill publisher so in-process
// consumers (metrics, run viewers) can subscribe without coupling to the
// gateway.
type WatermillSink struct {
	publisher message.Publisher
	topic     string
	logger    *slog.Logger
}

func NewWatermillSink(publisher message.Publisher, topic string, logger *slog.Logger) *WatermillSink {
	if topic == "" {
		topic = DefaultTopic
	}

	return &WatermillSink{publisher: publisher, topic: topic, logger: logger}
}

// NewChannelSink builds a WatermillSink backed by an in-memory GoChannel
// pub/sub and returns the subscriber side alongside it.
func NewChannelSink(logger *slog.Logger) (*WatermillSink, message.Subscriber) {
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{
			OutputChannelBuffer: 1000,
			Persistent:          false,
		},
		watermill.NewSlogLogger(logger),
	)

	return NewWatermillSink(pubSub, DefaultTopic, logger), pubSub
}

func (s *WatermillSink) Emit(ctx context.Context, record Record) {
	payload, err := json.Marshal(record)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to marshal diagnostic record", "error", err)

		return
	}

	msg := message.NewMessage(watermill.NewUUID(), payload)
	msg.Metadata.Set("stage", record.Stage)
	msg.Metadata.Set("status", string(record.Status))

	if err := s.publisher.Publish(s.topic, msg); err != nil {
		s.logger.ErrorContext(ctx, "Failed to publish diagnostic record", "error", err)
	}
}
