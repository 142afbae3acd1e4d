package event

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

const publishTimeout = 2 * time.Second

// FanoutPublisher broadcasts realtime events on farm- and user-scoped
// channels. Publishing is fire-and-forget: callers enqueue onto an
// internal buffer and a dispatcher goroutine talks to the broker, so a
// slow or dead broker never delays the ingestion path. Dropped or
// failed messages are counted and logged only.
type FanoutPublisher struct {
	conn              *RabbitMQConnection
	queue             chan Envelope
	done              chan struct{}
	wg                sync.WaitGroup
	messagesPublished atomic.Int64
	messagesFailed    atomic.Int64
}

// NewFanoutPublisher creates the publisher and starts its dispatcher.
// A nil connection is allowed: every publish is then dropped and
// counted as failed, which keeps ingestion alive when the broker is
// down at boot.
func NewFanoutPublisher(conn *RabbitMQConnection, buffer int) *FanoutPublisher {
	if buffer <= 0 {
		buffer = 256
	}
	p := &FanoutPublisher{
		conn:  conn,
		queue: make(chan Envelope, buffer),
		done:  make(chan struct{}),
	}
	p.wg.Add(1)
	go p.dispatch()
	return p
}

// Publish enqueues one event for broadcast. It never blocks: when the
// buffer is full the event is dropped and counted as failed.
func (p *FanoutPublisher) Publish(channel, eventName string, payload any) {
	env := Envelope{Channel: channel, Event: eventName, Payload: payload}
	select {
	case p.queue <- env:
	default:
		p.messagesFailed.Add(1)
		slog.Warn("Fan-out buffer full, dropping event", "channel", channel, "event", eventName)
	}
}

// Close drains pending events and stops the dispatcher.
func (p *FanoutPublisher) Close() {
	close(p.queue)
	p.wg.Wait()
	close(p.done)
}

func (p *FanoutPublisher) dispatch() {
	defer p.wg.Done()
	for env := range p.queue {
		if err := p.publishOnce(env); err != nil {
			p.messagesFailed.Add(1)
			slog.Error("Fan-out publish failed",
				"channel", env.Channel,
				"event", env.Event,
				"error", err)
			continue
		}
		p.messagesPublished.Add(1)
	}
}

func (p *FanoutPublisher) publishOnce(env Envelope) error {
	if p.conn == nil || p.conn.Channel == nil {
		return &PublishError{Channel: env.Channel, Event: env.Event, Err: errNoBroker}
	}

	body, err := json.Marshal(env)
	if err != nil {
		return &PublishError{Channel: env.Channel, Event: env.Event, Err: err}
	}

	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()

	err = p.conn.Channel.PublishWithContext(
		ctx,
		FanoutExchange, // exchange
		env.Channel,    // routing key (channel name)
		false,          // mandatory
		false,          // immediate
		amqp.Publishing{
			ContentType: "application/json",
			Body:        body,
			Timestamp:   time.Now(),
		},
	)
	if err != nil {
		return &PublishError{Channel: env.Channel, Event: env.Event, Err: err}
	}
	return nil
}

// Metrics reports publisher counters.
func (p *FanoutPublisher) Metrics() map[string]any {
	return map[string]any{
		"messages_published": p.messagesPublished.Load(),
		"messages_failed":    p.messagesFailed.Load(),
		"exchange":           FanoutExchange,
	}
}

var errNoBroker = &brokerUnavailableError{}

type brokerUnavailableError struct{}

func (*brokerUnavailableError) Error() string { return "broker connection unavailable" }
