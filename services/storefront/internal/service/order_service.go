package service

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"StorefrontPlatform/pkg/errors"
	"StorefrontPlatform/pkg/logger"
	"StorefrontPlatform/services/storefront/internal/domain"
	"StorefrontPlatform/services/storefront/internal/events"
	"StorefrontPlatform/services/storefront/internal/query"
	"StorefrontPlatform/services/storefront/internal/repository"
)

// PublishTimeout верхняя граница публикации события вместе с повторами.
// Отмена запроса клиентом публикацию не прерывает.
const PublishTimeout = 3 * time.Second

// OrderWorkflow интерфейс оформления заказов и управления позициями
type OrderWorkflow interface {
	PlaceOrder(ctx context.Context, principal *domain.Principal, req domain.OrderRequest) (*domain.Order, error)
	UpdateItemStatus(ctx context.Context, itemID int64, statusName string) (*domain.OrderItem, error)
	FilterItems(ctx context.Context, filter query.ItemFilter, page domain.PageRequest) (*domain.Page[domain.OrderItem], error)
	FindItem(ctx context.Context, itemID int64) (*domain.OrderItem, error)
}

// OrderRecorder учет доменных метрик заказов
type OrderRecorder interface {
	RecordOrderPlaced()
	RecordItemStatusUpdate(status string)
}

// OrderService реализация OrderWorkflow
type OrderService struct {
	products  repository.ProductRepository
	orders    repository.OrderRepository
	publisher events.Publisher
	recorder  OrderRecorder
	logger    logger.Logger
}

// NewOrderService создает новый экземпляр OrderService
func NewOrderService(
	products repository.ProductRepository,
	orders repository.OrderRepository,
	publisher events.Publisher,
	recorder OrderRecorder,
	log logger.Logger,
) *OrderService {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &OrderService{
		products:  products,
		orders:    orders,
		publisher: publisher,
		recorder:  recorder,
		logger:    log,
	}
}

// PlaceOrder оформляет заказ от имени principal.
// Цена каждой позиции берется из каталога на момент оформления, итог от клиента игнорируется.
// Если хотя бы один товар не найден, ничего не сохраняется.
func (s *OrderService) PlaceOrder(ctx context.Context, principal *domain.Principal, req domain.OrderRequest) (*domain.Order, error) {
	if principal == nil {
		return nil, errors.New(errors.ErrUnauthorized, "authentication required")
	}
	if len(req.Items) == 0 {
		return nil, errors.InvalidArgument("order must contain at least one item")
	}
	for i, line := range req.Items {
		if line.Quantity <= 0 {
			return nil, errors.InvalidArgument("quantity of item %d must be positive, got %d", i, line.Quantity)
		}
	}

	order := &domain.Order{
		Items:      make([]domain.OrderItem, 0, len(req.Items)),
		TotalPrice: decimal.Zero,
	}
	for _, line := range req.Items {
		product, err := s.products.FindByID(ctx, line.ProductID)
		if err != nil {
			return nil, err
		}

		item := domain.OrderItem{
			ProductID: product.ID,
			UserID:    principal.ID,
			Quantity:  line.Quantity,
			Price:     product.Price,
			Status:    domain.InitialStatus,
		}
		order.TotalPrice = order.TotalPrice.Add(item.LineTotal())
		order.Items = append(order.Items, item)
	}

	if err := s.orders.Save(ctx, order); err != nil {
		return nil, err
	}

	s.logger.Info("Order placed",
		logger.CtxField(ctx),
		logger.Int64("order_id", order.ID),
		logger.Int64("user_id", principal.ID),
		logger.Int("items", len(order.Items)),
		logger.Stringer("total", order.TotalPrice))

	if s.recorder != nil {
		s.recorder.RecordOrderPlaced()
	}
	pubCtx, cancel := publishContext(ctx)
	defer cancel()
	if err := s.publisher.OrderPlaced(pubCtx, order); err != nil {
		s.logger.Warn("Failed to publish order event",
			logger.CtxField(ctx),
			logger.Int64("order_id", order.ID),
			logger.Error(err))
	}

	return order, nil
}

// UpdateItemStatus переводит позицию в новый статус. Имя статуса регистронезависимо.
// Конкурентные обновления не упорядочиваются: побеждает последняя запись.
func (s *OrderService) UpdateItemStatus(ctx context.Context, itemID int64, statusName string) (*domain.OrderItem, error) {
	next, err := domain.ParseOrderStatus(statusName)
	if err != nil {
		return nil, err
	}

	item, err := s.orders.FindItemByID(ctx, itemID)
	if err != nil {
		return nil, err
	}

	from := item.Status
	to, err := domain.Transition(from, next)
	if err != nil {
		return nil, err
	}

	if err := s.orders.UpdateItemStatus(ctx, item.ID, to); err != nil {
		return nil, err
	}
	item.Status = to

	s.logger.Info("Order item status updated",
		logger.CtxField(ctx),
		logger.Int64("order_item_id", item.ID),
		logger.String("from", string(from)),
		logger.String("to", string(to)))

	if s.recorder != nil {
		s.recorder.RecordItemStatusUpdate(string(to))
	}
	pubCtx, cancel := publishContext(ctx)
	defer cancel()
	if err := s.publisher.ItemStatusChanged(pubCtx, item, from); err != nil {
		s.logger.Warn("Failed to publish status event",
			logger.CtxField(ctx),
			logger.Int64("order_item_id", item.ID),
			logger.Error(err))
	}

	return item, nil
}

func publishContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(ctx), PublishTimeout)
}

// FilterItems возвращает страницу позиций, подходящих под фильтр.
// Пустая страница считается ошибкой NOT_FOUND.
func (s *OrderService) FilterItems(ctx context.Context, filter query.ItemFilter, page domain.PageRequest) (*domain.Page[domain.OrderItem], error) {
	if err := page.Validate(); err != nil {
		return nil, err
	}
	result, err := s.orders.QueryItems(ctx, filter.Predicate(), page.Normalize())
	if err != nil {
		return nil, err
	}
	if result.Empty() {
		return nil, errors.NotFound("no order items match the filter")
	}
	return result, nil
}

// FindItem возвращает позицию заказа по идентификатору
func (s *OrderService) FindItem(ctx context.Context, itemID int64) (*domain.OrderItem, error) {
	if itemID <= 0 {
		return nil, errors.InvalidArgument("order item id must be positive, got %d", itemID)
	}
	return s.orders.FindItemByID(ctx, itemID)
}
