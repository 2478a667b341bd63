package repository

import (
	"context"

	"StorefrontPlatform/services/storefront/internal/domain"
	"StorefrontPlatform/services/storefront/internal/query"
)

// UserRepository интерфейс для работы с пользователями (хранилище идентичностей)
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	FindByID(ctx context.Context, id int64) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
}

// ProductRepository интерфейс для работы с каталогом
type ProductRepository interface {
	Create(ctx context.Context, product *domain.Product) error
	FindByID(ctx context.Context, id int64) (*domain.Product, error)
	// List возвращает каталог по убыванию ID
	List(ctx context.Context) ([]domain.Product, error)
	ListByCategory(ctx context.Context, categoryID int64) ([]domain.Product, error)
	// Search ищет term в названии или описании без учета регистра
	Search(ctx context.Context, term string) ([]domain.Product, error)
}

// OrderRepository интерфейс для работы с заказами и их позициями
type OrderRepository interface {
	// Save сохраняет заказ вместе со всеми позициями атомарно и заполняет их идентификаторы
	Save(ctx context.Context, order *domain.Order) error
	FindItemByID(ctx context.Context, id int64) (*domain.OrderItem, error)
	// UpdateItemStatus перезаписывает статус позиции, последний писатель побеждает
	UpdateItemStatus(ctx context.Context, id int64, status domain.OrderStatus) error
	QueryItems(ctx context.Context, predicate query.Predicate, page domain.PageRequest) (*domain.Page[domain.OrderItem], error)
	ItemsByUser(ctx context.Context, userID int64) ([]domain.OrderItem, error)
}
