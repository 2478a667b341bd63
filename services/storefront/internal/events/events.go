// Package events публикует доменные события заказов в RabbitMQ.
// Публикация идет после коммита и не влияет на результат операции.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rabbitmq/amqp091-go"
	"github.com/shopspring/decimal"

	"StorefrontPlatform/pkg/logger"
	"StorefrontPlatform/pkg/rabbitmq"
	"StorefrontPlatform/services/storefront/internal/domain"
)

// Routing keys событий
const (
	RoutingOrderPlaced       = "order.placed"
	RoutingItemStatusChanged = "order_item.status_changed"
)

// Publisher публикация доменных событий
type Publisher interface {
	OrderPlaced(ctx context.Context, order *domain.Order) error
	ItemStatusChanged(ctx context.Context, item *domain.OrderItem, from domain.OrderStatus) error
}

// MessagePublisher транспорт сообщений, его реализует rabbitmq.Producer
type MessagePublisher interface {
	PublishWithRetry(ctx context.Context, body []byte, maxRetries int, retryInterval time.Duration, options ...rabbitmq.PublishOption) error
}

// Повторы публикации одного события. Общий срок ограничивает контекст вызывающего.
const (
	DefaultPublishRetries       = 2
	DefaultPublishRetryInterval = 200 * time.Millisecond
)

// OrderPlacedEvent тело события order.placed
type OrderPlacedEvent struct {
	EventID    string          `json:"eventId"`
	OccurredAt time.Time       `json:"occurredAt"`
	OrderID    int64           `json:"orderId"`
	UserID     int64           `json:"userId"`
	TotalPrice decimal.Decimal `json:"totalPrice"`
	Items      []PlacedItem    `json:"items"`
}

// PlacedItem позиция в событии order.placed
type PlacedItem struct {
	ID        int64           `json:"id"`
	ProductID int64           `json:"productId"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
}

// ItemStatusChangedEvent тело события order_item.status_changed
type ItemStatusChangedEvent struct {
	EventID     string             `json:"eventId"`
	OccurredAt  time.Time          `json:"occurredAt"`
	OrderItemID int64              `json:"orderItemId"`
	OrderID     int64              `json:"orderId"`
	From        domain.OrderStatus `json:"from"`
	To          domain.OrderStatus `json:"to"`
}

// RabbitPublisher публикует события в exchange через MessagePublisher
type RabbitPublisher struct {
	transport     MessagePublisher
	retries       int
	retryInterval time.Duration
	now           func() time.Time
}

// NewRabbitPublisher создает RabbitPublisher с повторами по умолчанию
func NewRabbitPublisher(transport MessagePublisher) *RabbitPublisher {
	return &RabbitPublisher{
		transport:     transport,
		retries:       DefaultPublishRetries,
		retryInterval: DefaultPublishRetryInterval,
		now:           time.Now,
	}
}

// OrderPlaced публикует событие об оформленном заказе
func (p *RabbitPublisher) OrderPlaced(ctx context.Context, order *domain.Order) error {
	event := OrderPlacedEvent{
		EventID:    uuid.New().String(),
		OccurredAt: p.now().UTC(),
		OrderID:    order.ID,
		TotalPrice: order.TotalPrice,
		Items:      make([]PlacedItem, 0, len(order.Items)),
	}
	for _, item := range order.Items {
		event.UserID = item.UserID
		event.Items = append(event.Items, PlacedItem{
			ID:        item.ID,
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Price:     item.Price,
		})
	}
	return p.publish(ctx, RoutingOrderPlaced, event.EventID, event)
}

// ItemStatusChanged публикует событие о смене статуса позиции
func (p *RabbitPublisher) ItemStatusChanged(ctx context.Context, item *domain.OrderItem, from domain.OrderStatus) error {
	event := ItemStatusChangedEvent{
		EventID:     uuid.New().String(),
		OccurredAt:  p.now().UTC(),
		OrderItemID: item.ID,
		OrderID:     item.OrderID,
		From:        from,
		To:          item.Status,
	}
	return p.publish(ctx, RoutingItemStatusChanged, event.EventID, event)
}

func (p *RabbitPublisher) publish(ctx context.Context, routingKey, eventID string, event interface{}) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to encode %s event: %w", routingKey, err)
	}
	headers := amqp091.Table{"event_type": routingKey}
	if traceID := logger.TraceID(ctx); traceID != "" {
		headers["trace_id"] = traceID
	}

	if err := p.transport.PublishWithRetry(ctx, body, p.retries, p.retryInterval,
		rabbitmq.WithRoutingKey(routingKey),
		rabbitmq.WithMessageID(eventID),
		rabbitmq.WithHeaders(headers),
	); err != nil {
		return fmt.Errorf("failed to publish %s event: %w", routingKey, err)
	}
	return nil
}

// NopPublisher ничего не публикует, используется при выключенном RabbitMQ
type NopPublisher struct{}

// OrderPlaced ничего не делает
func (NopPublisher) OrderPlaced(context.Context, *domain.Order) error { return nil }

// ItemStatusChanged ничего не делает
func (NopPublisher) ItemStatusChanged(context.Context, *domain.OrderItem, domain.OrderStatus) error {
	return nil
}
