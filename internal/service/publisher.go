package service

import (
    "context"
    "encoding/json"
    "log"
    "time"

    amqp "github.com/rabbitmq/amqp091-go"

    "github.com/v1ih/quick-table-sub000/internal/queue"
)

// EventPublisher delivers reservation events.  Publishing is best effort:
// services log failures and never undo a committed reservation because of
// them.
type EventPublisher interface {
    Publish(ctx context.Context, ev queue.ReservationEvent) error
}

// NopPublisher drops every event.  Used when EVENTS_ENABLED is false.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, queue.ReservationEvent) error { return nil }

// AMQPPublisher publishes events to queue.ReservationQueue.  Each call dials
// its own connection so a broker outage never leaves a broken channel
// behind.
type AMQPPublisher struct {
    URL         string
    DialTimeout time.Duration
}

func NewAMQPPublisher(url string) *AMQPPublisher {
    return &AMQPPublisher{URL: url, DialTimeout: 2 * time.Second}
}

// Publish marshals ev and sends it as a persistent message.  Errors are
// logged and returned so the caller can ignore them.
func (p *AMQPPublisher) Publish(ctx context.Context, ev queue.ReservationEvent) error {
    conn, err := amqp.DialConfig(p.URL, amqp.Config{Dial: amqp.DefaultDial(p.DialTimeout)})
    if err != nil {
        log.Printf("rabbitmq: dial failed: %v", err)
        return err
    }
    defer func() { _ = conn.Close() }()

    ch, err := conn.Channel()
    if err != nil {
        log.Printf("rabbitmq: channel open failed: %v", err)
        return err
    }
    defer func() { _ = ch.Close() }()

    if _, err := ch.QueueDeclare(queue.ReservationQueue, true, false, false, false, nil); err != nil {
        log.Printf("rabbitmq: queue declare failed: %v", err)
        return err
    }

    body, err := json.Marshal(ev)
    if err != nil {
        log.Printf("rabbitmq: marshal event failed: %v", err)
        return err
    }

    pub := amqp.Publishing{
        ContentType:  "application/json",
        DeliveryMode: amqp.Persistent,
        MessageId:    ev.ID,
        Type:         ev.Type,
        Timestamp:    time.Now().UTC(),
        Body:         body,
    }
    if err := ch.PublishWithContext(ctx, "", queue.ReservationQueue, false, false, pub); err != nil {
        log.Printf("rabbitmq: publish failed: %v", err)
        return err
    }
    return nil
}

// publishTimeout bounds how long a request waits on the broker after its
// transaction has committed.
const publishTimeout = 3 * time.Second

func publish(ctx context.Context, p EventPublisher, ev queue.ReservationEvent) {
    if p == nil {
        return
    }
    ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
    defer cancel()
    if err := p.Publish(ctx, ev); err != nil {
        log.Printf("reservation %d: publish %s failed: %v", ev.ReservationID, ev.Type, err)
    }
}
