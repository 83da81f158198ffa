package mailer

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"rent_my_house/internal/adapters/observability"
)

// Sender delivers one queued message to its recipient.
type Sender interface {
	Deliver(ctx context.Context, m Message) error
}

// Consume drains the outbound mail queue, delivering each message through s
// with at most workers concurrent sends. It reconnects with exponential
// backoff and returns only when ctx is cancelled.
func Consume(ctx context.Context, url string, s Sender, workers int) error {
	if workers <= 0 {
		workers = 1
	}
	sem := semaphore.NewWeighted(int64(workers))

	backoff := time.Second
	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		conn, err := amqp.Dial(url)
		if err != nil {
			log.Warn().Err(err).Dur("retry_in", backoff).Msg("broker dial failed")
			if !sleepCtx(ctx, backoff) {
				return ctx.Err()
			}
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second // reset after successful connect

		err = consumeLoop(ctx, conn, s, sem)
		_ = conn.Close()
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}
		log.Warn().Err(err).Msg("consume loop ended, reconnecting")
		if !sleepCtx(ctx, 2*time.Second) {
			return ctx.Err()
		}
	}
}

func consumeLoop(ctx context.Context, conn *amqp.Connection, s Sender, sem *semaphore.Weighted) error {
	ch, err := conn.Channel()
	if err != nil {
		return err
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(50, 0, false); err != nil {
		log.Warn().Err(err).Msg("set QoS failed")
	}
	if _, err := ch.QueueDeclare(Queue, true, false, false, false, nil); err != nil {
		return err
	}
	msgs, err := ch.Consume(Queue, "", false, false, false, false, nil)
	if err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok := <-msgs:
			if !ok {
				return errors.New("deliveries channel closed")
			}
			if err := sem.Acquire(ctx, 1); err != nil {
				return err
			}
			go func(d amqp.Delivery) {
				defer sem.Release(1)
				handle(ctx, d, s)
			}(d)
		}
	}
}

func handle(ctx context.Context, d amqp.Delivery, s Sender) {
	var m Message
	if err := json.Unmarshal(d.Body, &m); err != nil {
		log.Error().Err(err).Msg("malformed mail message")
		observability.ObserveNotification("deliver", err)
		_ = d.Nack(false, false) // unparseable, do not requeue
		return
	}
	if err := s.Deliver(ctx, m); err != nil {
		log.Error().Err(err).Str("to", m.To).Str("subject", m.Subject).Msg("mail delivery failed")
		observability.ObserveNotification("deliver", err)
		_ = d.Nack(false, false) // no requeue to avoid tight loops
		return
	}
	observability.ObserveNotification("deliver", nil)
	log.Info().Str("to", m.To).Str("subject", m.Subject).Msg("mail delivered")
	_ = d.Ack(false)
}

// sleepCtx waits for dur or returns false if ctx is done first.
func sleepCtx(ctx context.Context, dur time.Duration) bool {
	t := time.NewTimer(dur)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
