package mailer

import (
	"context"
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog/log"

	"rent_my_house/internal/adapters/observability"
)

// Queue is the durable queue holding outbound notification mail.
const Queue = "mail.outbound"

// Message is the payload exchanged over the broker.
type Message struct {
	To       string `json:"to"`
	Subject  string `json:"subject"`
	Body     string `json:"body"`
	QueuedAt string `json:"queuedAt"`
}

// Notifier publishes notification mail to RabbitMQ. Delivery happens out of
// process (cmd/notifier), so a slow mail provider never blocks the request
// path. Messages are persistent and survive broker restarts.
type Notifier struct {
	conn *amqp.Connection
	ch   *amqp.Channel
}

func New(url string) (*Notifier, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, err
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, err
	}
	if _, err := ch.QueueDeclare(Queue, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, err
	}
	return &Notifier{conn: conn, ch: ch}, nil
}

func (n *Notifier) Send(ctx context.Context, to, subject, body string) error {
	msg := Message{
		To:       to,
		Subject:  subject,
		Body:     body,
		QueuedAt: time.Now().UTC().Format(time.RFC3339),
	}
	b, err := json.Marshal(msg)
	if err != nil {
		observability.ObserveNotification("publish", err)
		return err
	}
	err = n.ch.PublishWithContext(ctx,
		"",    // default exchange
		Queue, // routing key = queue name
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now().UTC(),
			Body:         b,
		},
	)
	observability.ObserveNotification("publish", err)
	if err != nil {
		log.Error().Err(err).Str("to", to).Str("subject", subject).Msg("mail publish failed")
		return err
	}
	return nil
}

func (n *Notifier) Close() error {
	if err := n.ch.Close(); err != nil {
		_ = n.conn.Close()
		return err
	}
	return n.conn.Close()
}
