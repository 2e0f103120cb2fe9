package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/Afomiya21-negash/Tes-tour-sub001/internal/domain/models"
)

// AMQPSink publishes notifications as JSON to a topic exchange. Used
// when staff tooling consumes events off a broker instead of polling
// the notifications table.
type AMQPSink struct {
	exchange string
	conn     *amqp.Connection
	ch       *amqp.Channel
	mu       sync.Mutex
}

func NewAMQPSink(url, exchange string) (*AMQPSink, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("amqp dial: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("amqp channel: %w", err)
	}
	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("declare exchange: %w", err)
	}
	return &AMQPSink{exchange: exchange, conn: conn, ch: ch}, nil
}

func (s *AMQPSink) Publish(ctx context.Context, n models.Notification) error {
	body, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("marshal notification: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ch.PublishWithContext(ctx, s.exchange, n.Topic, false, false, amqp.Publishing{
		ContentType: "application/json",
		Body:        body,
	})
}

func (s *AMQPSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ch != nil {
		_ = s.ch.Close()
	}
	if s.conn != nil {
		return s.conn.Close()
	}
	return nil
}
