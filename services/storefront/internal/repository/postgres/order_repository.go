package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"StorefrontPlatform/pkg/errors"
	"StorefrontPlatform/services/storefront/internal/domain"
	"StorefrontPlatform/services/storefront/internal/query"
	"StorefrontPlatform/services/storefront/internal/repository"
)

// OrderRepository реализация репозитория заказов для PostgreSQL
type OrderRepository struct {
	db DB
}

// NewOrderRepository создает новый экземпляр OrderRepository
func NewOrderRepository(db DB) repository.OrderRepository {
	return &OrderRepository{db: db}
}

const itemColumns = `id, order_id, product_id, user_id, quantity, price::text, status, created_at`

// Save сохраняет заказ и все его позиции в одной транзакции: либо все строки, либо ни одной
func (r *OrderRepository) Save(ctx context.Context, order *domain.Order) error {
	err := pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx,
			`INSERT INTO orders (total_price) VALUES ($1::numeric) RETURNING id, created_at`,
			order.TotalPrice.StringFixed(2),
		).Scan(&order.ID, &order.CreatedAt)
		if err != nil {
			return fmt.Errorf("insert order: %w", err)
		}

		for i := range order.Items {
			item := &order.Items[i]
			item.OrderID = order.ID
			err := tx.QueryRow(ctx,
				`INSERT INTO order_items (order_id, product_id, user_id, quantity, price, status, created_at)
				VALUES ($1, $2, $3, $4, $5::numeric, $6, $7)
				RETURNING id`,
				item.OrderID,
				item.ProductID,
				item.UserID,
				item.Quantity,
				item.Price.StringFixed(2),
				string(item.Status),
				order.CreatedAt,
			).Scan(&item.ID)
			if err != nil {
				return fmt.Errorf("insert order item %d: %w", i, err)
			}
			item.CreatedAt = order.CreatedAt
		}
		return nil
	})
	if err != nil {
		return errors.Wrap(err, errors.ErrInternal, "failed to save order")
	}
	return nil
}

// FindItemByID возвращает позицию заказа по ID
func (r *OrderRepository) FindItemByID(ctx context.Context, id int64) (*domain.OrderItem, error) {
	item, err := scanItem(r.db.QueryRow(ctx, `SELECT `+itemColumns+` FROM order_items WHERE id = $1`, id))
	if err != nil {
		return nil, translate(err, "order item", id)
	}
	return item, nil
}

// UpdateItemStatus перезаписывает статус позиции
func (r *OrderRepository) UpdateItemStatus(ctx context.Context, id int64, status domain.OrderStatus) error {
	tag, err := r.db.Exec(ctx, `UPDATE order_items SET status = $2 WHERE id = $1`, id, string(status))
	if err != nil {
		return translate(err, "order item", id)
	}
	if tag.RowsAffected() == 0 {
		return errors.NotFound("order item %d was not found", id)
	}
	return nil
}

// QueryItems возвращает страницу позиций, удовлетворяющих предикату, отсортированных по ID
func (r *OrderRepository) QueryItems(ctx context.Context, predicate query.Predicate, page domain.PageRequest) (*domain.Page[domain.OrderItem], error) {
	page = page.Normalize()

	countArgs := &query.Args{}
	var total int64
	if err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM order_items`+query.Where(predicate, countArgs),
		countArgs.Values()...,
	).Scan(&total); err != nil {
		return nil, translate(err, "order items", "count")
	}

	args := &query.Args{}
	sql := `SELECT ` + itemColumns + ` FROM order_items` + query.Where(predicate, args)
	sql += ` ORDER BY id LIMIT ` + args.Add(page.Size) + ` OFFSET ` + args.Add(page.Offset())

	items, err := r.queryItems(ctx, sql, args.Values()...)
	if err != nil {
		return nil, err
	}

	return &domain.Page[domain.OrderItem]{
		Content:       items,
		Number:        page.Page,
		Size:          page.Size,
		TotalElements: total,
	}, nil
}

// ItemsByUser возвращает историю позиций пользователя, новые первыми
func (r *OrderRepository) ItemsByUser(ctx context.Context, userID int64) ([]domain.OrderItem, error) {
	return r.queryItems(ctx,
		`SELECT `+itemColumns+` FROM order_items WHERE user_id = $1 ORDER BY created_at DESC, id DESC`,
		userID,
	)
}

func (r *OrderRepository) queryItems(ctx context.Context, sql string, args ...interface{}) ([]domain.OrderItem, error) {
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, translate(err, "order items", "query")
	}
	defer rows.Close()

	items := make([]domain.OrderItem, 0)
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, translate(err, "order items", "scan")
		}
		items = append(items, *item)
	}
	if err := rows.Err(); err != nil {
		return nil, translate(err, "order items", "rows")
	}
	return items, nil
}

func scanItem(row rowScanner) (*domain.OrderItem, error) {
	var (
		item   domain.OrderItem
		price  string
		status string
	)
	err := row.Scan(
		&item.ID,
		&item.OrderID,
		&item.ProductID,
		&item.UserID,
		&item.Quantity,
		&price,
		&status,
		&item.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	item.Price, err = decimal.NewFromString(price)
	if err != nil {
		return nil, fmt.Errorf("parse price %q: %w", price, err)
	}
	item.Status = domain.OrderStatus(status)
	return &item, nil
}
