package events

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"StorefrontPlatform/pkg/logger"
	"StorefrontPlatform/pkg/rabbitmq"
	"StorefrontPlatform/services/storefront/internal/domain"
)

// MockTransport мок транспорта сообщений
type MockTransport struct {
	mock.Mock
	last    *rabbitmq.PublishOptions
	retries int
}

func (m *MockTransport) PublishWithRetry(ctx context.Context, body []byte, maxRetries int, retryInterval time.Duration, options ...rabbitmq.PublishOption) error {
	opts := &rabbitmq.PublishOptions{}
	for _, option := range options {
		option(opts)
	}
	m.last = opts
	m.retries = maxRetries
	args := m.Called(opts.RoutingKey, body)
	return args.Error(0)
}

func fixedNow() time.Time {
	return time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
}

// TestRabbitPublisher_OrderPlaced проверяет тело и routing key события заказа
func TestRabbitPublisher_OrderPlaced(t *testing.T) {
	transport := &MockTransport{}
	publisher := NewRabbitPublisher(transport)
	publisher.now = fixedNow

	var body []byte
	transport.On("PublishWithRetry", RoutingOrderPlaced, mock.Anything).
		Run(func(args mock.Arguments) { body = args.Get(1).([]byte) }).
		Return(nil)

	order := &domain.Order{
		ID:         7,
		TotalPrice: decimal.RequireFromString("200.00"),
		Items: []domain.OrderItem{
			{ID: 11, ProductID: 3, UserID: 5, Quantity: 2, Price: decimal.RequireFromString("100.00")},
		},
	}
	require.NoError(t, publisher.OrderPlaced(context.Background(), order))
	transport.AssertExpectations(t)

	var event OrderPlacedEvent
	require.NoError(t, json.Unmarshal(body, &event))
	assert.NotEmpty(t, event.EventID)
	assert.Equal(t, fixedNow(), event.OccurredAt)
	assert.Equal(t, int64(7), event.OrderID)
	assert.Equal(t, int64(5), event.UserID)
	assert.True(t, decimal.RequireFromString("200").Equal(event.TotalPrice))
	require.Len(t, event.Items, 1)
	assert.Equal(t, int64(11), event.Items[0].ID)
}

// TestRabbitPublisher_ItemStatusChanged проверяет событие смены статуса
func TestRabbitPublisher_ItemStatusChanged(t *testing.T) {
	transport := &MockTransport{}
	publisher := NewRabbitPublisher(transport)

	var body []byte
	transport.On("PublishWithRetry", RoutingItemStatusChanged, mock.Anything).
		Run(func(args mock.Arguments) { body = args.Get(1).([]byte) }).
		Return(nil)

	item := &domain.OrderItem{ID: 11, OrderID: 7, Status: domain.StatusShipped}
	require.NoError(t, publisher.ItemStatusChanged(context.Background(), item, domain.StatusPending))

	var event ItemStatusChangedEvent
	require.NoError(t, json.Unmarshal(body, &event))
	assert.Equal(t, domain.StatusPending, event.From)
	assert.Equal(t, domain.StatusShipped, event.To)
	assert.Equal(t, int64(11), event.OrderItemID)
}

// TestRabbitPublisher_TransportError проверяет, что ошибка транспорта возвращается вызывающему
func TestRabbitPublisher_TransportError(t *testing.T) {
	transport := &MockTransport{}
	transport.On("PublishWithRetry", RoutingOrderPlaced, mock.Anything).Return(stderrors.New("channel closed"))

	err := NewRabbitPublisher(transport).OrderPlaced(context.Background(), &domain.Order{ID: 1})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "order.placed")
}

// TestRabbitPublisher_RetriesAndHeaders проверяет повторы и заголовки сообщения
func TestRabbitPublisher_RetriesAndHeaders(t *testing.T) {
	transport := &MockTransport{}
	transport.On("PublishWithRetry", RoutingItemStatusChanged, mock.Anything).Return(nil)

	ctx := logger.WithTraceID(context.Background(), "trace-42")
	err := NewRabbitPublisher(transport).ItemStatusChanged(ctx, &domain.OrderItem{ID: 3, Status: domain.StatusShipped}, domain.StatusPending)
	require.NoError(t, err)

	assert.Equal(t, DefaultPublishRetries, transport.retries)
	require.NotNil(t, transport.last)
	assert.NotEmpty(t, transport.last.MessageID)
	assert.Equal(t, RoutingItemStatusChanged, transport.last.Headers["event_type"])
	assert.Equal(t, "trace-42", transport.last.Headers["trace_id"])
}

// TestNopPublisher проверяет, что выключенная публикация не возвращает ошибок
func TestNopPublisher(t *testing.T) {
	var p Publisher = NopPublisher{}
	assert.NoError(t, p.OrderPlaced(context.Background(), &domain.Order{}))
	assert.NoError(t, p.ItemStatusChanged(context.Background(), &domain.OrderItem{}, domain.StatusPending))
}
