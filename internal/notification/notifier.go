package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ddrozdov/storefront-backend/pkg/logger"
	"github.com/segmentio/kafka-go"
)

// Event is the payload published for user-facing notifications.
type Event struct {
	Type      string    `json:"type"`
	Message   string    `json:"message"`
	UserID    uint      `json:"user_id"`
	Timestamp time.Time `json:"timestamp"`
}

// Notifier dispatches notification events. Implementations must treat
// delivery as best effort; callers never block on or fail from a dispatch.
type Notifier interface {
	Notify(ctx context.Context, event Event) error
	Close() error
}

// KafkaNotifier publishes events to a Kafka topic.
type KafkaNotifier struct {
	writer *kafka.Writer
}

func NewKafkaNotifier(brokers []string, topic string) *KafkaNotifier {
	return &KafkaNotifier{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.LeastBytes{},
			RequiredAcks: kafka.RequireOne,
			Async:        false,
		},
	}
}

func (n *KafkaNotifier) Notify(ctx context.Context, event Event) error {
	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("notification: marshal event: %w", err)
	}

	err = n.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(fmt.Sprintf("user-%d", event.UserID)),
		Value: value,
	})
	if err != nil {
		return fmt.Errorf("notification: write message: %w", err)
	}
	return nil
}

func (n *KafkaNotifier) Close() error {
	return n.writer.Close()
}

// LogNotifier writes events to the application log. Used when no broker
// is configured and in tests.
type LogNotifier struct{}

func NewLogNotifier() *LogNotifier {
	return &LogNotifier{}
}

func (n *LogNotifier) Notify(_ context.Context, event Event) error {
	logger.Info("Notification dispatched", map[string]interface{}{
		"type":    event.Type,
		"message": event.Message,
		"user_id": event.UserID,
	})
	return nil
}

func (n *LogNotifier) Close() error {
	return nil
}
