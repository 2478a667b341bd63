package redis

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"golang.org/x/sync/singleflight"

	"StorefrontPlatform/pkg/logger"
	"StorefrontPlatform/services/storefront/internal/domain"
	"StorefrontPlatform/services/storefront/internal/repository"
)

const productKeyPrefix = "storefront:product:"

// Cache минимальный key-value интерфейс кэша, его реализует pkg/redis.Client
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

// LookupRecorder учитывает попадания и промахи кэша
type LookupRecorder interface {
	RecordCacheLookup(hit bool)
}

// CachedProductRepository read-through кэш каталога поверх основного хранилища.
// Одновременные промахи по одному товару схлопываются в один запрос к хранилищу.
// Ошибки кэша не ломают чтение, запрос уходит в хранилище.
type CachedProductRepository struct {
	store    repository.ProductRepository
	cache    Cache
	ttl      time.Duration
	log      logger.Logger
	recorder LookupRecorder
	group    singleflight.Group
}

// NewCachedProductRepository создает кэширующий репозиторий каталога
func NewCachedProductRepository(store repository.ProductRepository, cache Cache, ttl time.Duration, log logger.Logger, recorder LookupRecorder) *CachedProductRepository {
	return &CachedProductRepository{
		store:    store,
		cache:    cache,
		ttl:      ttl,
		log:      log,
		recorder: recorder,
	}
}

// Create сохраняет товар в хранилище и сбрасывает его ключ в кэше
func (r *CachedProductRepository) Create(ctx context.Context, product *domain.Product) error {
	if err := r.store.Create(ctx, product); err != nil {
		return err
	}
	r.invalidate(ctx, product.ID)
	return nil
}

// FindByID возвращает товар из кэша или из хранилища
func (r *CachedProductRepository) FindByID(ctx context.Context, id int64) (*domain.Product, error) {
	key := productKey(id)

	if product, ok := r.lookup(ctx, key); ok {
		r.record(true)
		return product, nil
	}
	r.record(false)

	value, err, _ := r.group.Do(key, func() (interface{}, error) {
		if product, ok := r.lookup(ctx, key); ok {
			return product, nil
		}

		product, err := r.store.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}
		r.fill(ctx, key, product)
		return product, nil
	})
	if err != nil {
		return nil, err
	}

	// Каждый вызывающий получает свою копию
	product := *value.(*domain.Product)
	return &product, nil
}

// List, ListByCategory и Search не кэшируются и идут в хранилище

func (r *CachedProductRepository) List(ctx context.Context) ([]domain.Product, error) {
	return r.store.List(ctx)
}

func (r *CachedProductRepository) ListByCategory(ctx context.Context, categoryID int64) ([]domain.Product, error) {
	return r.store.ListByCategory(ctx, categoryID)
}

func (r *CachedProductRepository) Search(ctx context.Context, term string) ([]domain.Product, error) {
	return r.store.Search(ctx, term)
}

func (r *CachedProductRepository) lookup(ctx context.Context, key string) (*domain.Product, bool) {
	data, found, err := r.cache.Get(ctx, key)
	if err != nil {
		r.log.Warn("Catalog cache read failed", logger.CtxField(ctx), logger.String("key", key), logger.Error(err))
		return nil, false
	}
	if !found {
		return nil, false
	}

	var product domain.Product
	if err := json.Unmarshal(data, &product); err != nil {
		r.log.Warn("Catalog cache entry is corrupted", logger.CtxField(ctx), logger.String("key", key), logger.Error(err))
		return nil, false
	}
	return &product, true
}

func (r *CachedProductRepository) fill(ctx context.Context, key string, product *domain.Product) {
	data, err := json.Marshal(product)
	if err != nil {
		r.log.Warn("Failed to encode product for cache", logger.Int64("product_id", product.ID), logger.Error(err))
		return
	}
	if err := r.cache.Set(ctx, key, data, r.ttl); err != nil {
		r.log.Warn("Catalog cache write failed", logger.CtxField(ctx), logger.String("key", key), logger.Error(err))
	}
}

func (r *CachedProductRepository) invalidate(ctx context.Context, id int64) {
	if err := r.cache.Delete(ctx, productKey(id)); err != nil {
		r.log.Warn("Catalog cache invalidation failed", logger.CtxField(ctx), logger.Int64("product_id", id), logger.Error(err))
	}
}

func (r *CachedProductRepository) record(hit bool) {
	if r.recorder != nil {
		r.recorder.RecordCacheLookup(hit)
	}
}

func productKey(id int64) string {
	return productKeyPrefix + strconv.FormatInt(id, 10)
}
