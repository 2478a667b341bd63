package service

import (
	"context"
	"strings"

	"StorefrontPlatform/pkg/errors"
	"StorefrontPlatform/services/storefront/internal/domain"
	"StorefrontPlatform/services/storefront/internal/repository"
)

// Catalog интерфейс чтения каталога
type Catalog interface {
	ProductByID(ctx context.Context, id int64) (*domain.Product, error)
	AllProducts(ctx context.Context) ([]domain.Product, error)
	ProductsByCategory(ctx context.Context, categoryID int64) ([]domain.Product, error)
	SearchProducts(ctx context.Context, term string) ([]domain.Product, error)
}

// CatalogService реализация Catalog
type CatalogService struct {
	products repository.ProductRepository
}

// NewCatalogService создает новый экземпляр CatalogService
func NewCatalogService(products repository.ProductRepository) *CatalogService {
	return &CatalogService{products: products}
}

// ProductByID возвращает товар по идентификатору
func (s *CatalogService) ProductByID(ctx context.Context, id int64) (*domain.Product, error) {
	if id <= 0 {
		return nil, errors.InvalidArgument("product id must be positive, got %d", id)
	}
	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		if errors.HasCode(err, errors.ErrNotFound) {
			return nil, errors.NotFound("The product was not found.")
		}
		return nil, err
	}
	return product, nil
}

// AllProducts возвращает каталог целиком, новые товары первыми. Пустой каталог не ошибка.
func (s *CatalogService) AllProducts(ctx context.Context) ([]domain.Product, error) {
	return s.products.List(ctx)
}

// ProductsByCategory возвращает товары категории, пустой результат дает NOT_FOUND
func (s *CatalogService) ProductsByCategory(ctx context.Context, categoryID int64) ([]domain.Product, error) {
	if categoryID <= 0 {
		return nil, errors.InvalidArgument("category id must be positive, got %d", categoryID)
	}
	products, err := s.products.ListByCategory(ctx, categoryID)
	if err != nil {
		return nil, err
	}
	if len(products) == 0 {
		return nil, errors.NotFound("No products were found for this category.")
	}
	return products, nil
}

// SearchProducts ищет term в названии или описании
func (s *CatalogService) SearchProducts(ctx context.Context, term string) ([]domain.Product, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil, errors.InvalidArgument("search value is required")
	}
	products, err := s.products.Search(ctx, term)
	if err != nil {
		return nil, err
	}
	if len(products) == 0 {
		return nil, errors.NotFound("No products were found.")
	}
	return products, nil
}
