package service

import (
    "context"
    "encoding/json"
    "fmt"
    "time"

    amqp "github.com/rabbitmq/amqp091-go"
    "go.uber.org/zap"

    "github.com/iliyamo/travel-api/internal/queue"
)

// AuditPublisher sends catalog change events to RabbitMQ.  A connection is
// opened per event; admin writes are rare enough that pooling is not worth
// the reconnect handling.
type AuditPublisher struct {
    url string
    log *zap.Logger
}

func NewAuditPublisher(url string, log *zap.Logger) *AuditPublisher {
    return &AuditPublisher{url: url, log: log}
}

// PublishCatalogChanged publishes ev to the catalog.changed queue as a
// persistent message.  Errors are logged and returned so the caller can
// choose to ignore them.
func (p *AuditPublisher) PublishCatalogChanged(ctx context.Context, ev queue.CatalogChangedEvent) error {
    if err := p.publish(ctx, ev); err != nil {
        p.log.Warn("audit publish failed",
            zap.String("entity", ev.Entity),
            zap.Uint64("entity_id", ev.EntityID),
            zap.Error(err))
        return err
    }
    return nil
}

func (p *AuditPublisher) publish(ctx context.Context, ev queue.CatalogChangedEvent) error {
    conn, err := amqp.Dial(p.url)
    if err != nil {
        return fmt.Errorf("dial: %w", err)
    }
    defer func() { _ = conn.Close() }()

    ch, err := conn.Channel()
    if err != nil {
        return fmt.Errorf("channel open: %w", err)
    }
    defer func() { _ = ch.Close() }()

    // Durable so messages survive broker restarts.
    if _, err := ch.QueueDeclare(queue.CatalogQueueName, true, false, false, false, nil); err != nil {
        return fmt.Errorf("queue declare: %w", err)
    }

    body, err := json.Marshal(ev)
    if err != nil {
        return fmt.Errorf("marshal event: %w", err)
    }

    return ch.PublishWithContext(ctx,
        "",                     // default exchange
        queue.CatalogQueueName, // routing key = queue name
        false,                  // mandatory
        false,                  // immediate
        amqp.Publishing{
            ContentType:  "application/json",
            DeliveryMode: amqp.Persistent,
            Timestamp:    time.Now().UTC(),
            Body:         body,
        })
}

// NoopPublisher drops events.  It is used when auditing is disabled.
type NoopPublisher struct{}

func (NoopPublisher) PublishCatalogChanged(context.Context, queue.CatalogChangedEvent) error {
    return nil
}
