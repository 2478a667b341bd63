package rabbitmq

import (
	"context"
	"fmt"
	"time"

	"github.com/rabbitmq/amqp091-go"

	"StorefrontPlatform/pkg/logger"
)

// MessageHandler функция для обработки сообщения
type MessageHandler func(context.Context, amqp091.Delivery) error

// Consumer читает сообщения из очереди, привязанной к exchange
type Consumer struct {
	conn   *Connection
	config *Config
	log    logger.Logger
}

// NewConsumer создает нового консьюмера
func NewConsumer(conn *Connection, config *Config, log logger.Logger) *Consumer {
	return &Consumer{conn: conn, config: config, log: log}
}

// Consume объявляет очередь queue, привязывает ее к exchange по bindingKey
// и обрабатывает сообщения до отмены контекста или закрытия канала.
// Пустое имя очереди создает временную эксклюзивную очередь.
func (c *Consumer) Consume(ctx context.Context, queue, bindingKey string, handler MessageHandler) error {
	if c.conn == nil || c.conn.Channel() == nil {
		return fmt.Errorf("rabbitmq channel is not initialized")
	}
	channel := c.conn.Channel()

	temporary := queue == ""
	q, err := channel.QueueDeclare(
		queue,
		!temporary, // durable
		temporary,  // delete when unused
		temporary,  // exclusive
		false,      // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("failed to declare queue %s: %w", queue, err)
	}

	if c.config.Exchange != "" {
		if err := channel.QueueBind(q.Name, bindingKey, c.config.Exchange, false, nil); err != nil {
			return fmt.Errorf("failed to bind queue %s to exchange %s: %w", q.Name, c.config.Exchange, err)
		}
	}

	msgs, err := channel.Consume(q.Name, "", false, temporary, false, false, nil)
	if err != nil {
		return fmt.Errorf("failed to register a consumer: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-msgs:
			if !ok {
				return fmt.Errorf("consumer channel closed")
			}
			c.handle(ctx, msg, handler)
		}
	}
}

func (c *Consumer) handle(ctx context.Context, msg amqp091.Delivery, handler MessageHandler) {
	msgCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if err := handler(msgCtx, msg); err != nil {
		// Повторная доставка только для первой неудачи
		requeue := !msg.Redelivered
		c.log.Warn("Message handling failed",
			logger.String("routing_key", msg.RoutingKey),
			logger.String("message_id", msg.MessageId),
			logger.Bool("requeue", requeue),
			logger.Error(err),
		)
		if nackErr := msg.Nack(false, requeue); nackErr != nil {
			c.log.Error("Failed to nack delivery", logger.Error(nackErr))
		}
		return
	}

	if err := msg.Ack(false); err != nil {
		c.log.Error("Failed to ack delivery", logger.Error(err))
	}
}
