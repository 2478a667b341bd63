package postgres

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"

	"StorefrontPlatform/pkg/errors"
	"StorefrontPlatform/services/storefront/internal/domain"
	"StorefrontPlatform/services/storefront/internal/repository"
)

// ProductRepository реализация репозитория каталога для PostgreSQL
type ProductRepository struct {
	db DB
}

// NewProductRepository создает новый экземпляр ProductRepository
func NewProductRepository(db DB) repository.ProductRepository {
	return &ProductRepository{db: db}
}

// Create сохраняет товар. Нулевой CategoryID сохраняется как NULL.
func (r *ProductRepository) Create(ctx context.Context, product *domain.Product) error {
	query := `INSERT INTO products (name, description, image_url, price, category_id)
		VALUES ($1, $2, $3, $4::numeric, NULLIF($5::bigint, 0))
		RETURNING id, created_at`

	err := r.db.QueryRow(ctx, query,
		product.Name,
		product.Description,
		product.ImageURL,
		product.Price.StringFixed(2),
		product.CategoryID,
	).Scan(&product.ID, &product.CreatedAt)

	return translate(err, "product", product.Name)
}

const productColumns = `id, name, description, image_url, price::text, COALESCE(category_id, 0), created_at`

// FindByID возвращает товар по ID с текущей ценой
func (r *ProductRepository) FindByID(ctx context.Context, id int64) (*domain.Product, error) {
	product, err := scanProduct(r.db.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id))
	if err != nil {
		return nil, translate(err, "product", id)
	}
	return product, nil
}

// List возвращает весь каталог, новые товары первыми
func (r *ProductRepository) List(ctx context.Context) ([]domain.Product, error) {
	return r.list(ctx, `SELECT `+productColumns+` FROM products ORDER BY id DESC`)
}

// ListByCategory возвращает товары категории
func (r *ProductRepository) ListByCategory(ctx context.Context, categoryID int64) ([]domain.Product, error) {
	return r.list(ctx, `SELECT `+productColumns+` FROM products WHERE category_id = $1 ORDER BY id DESC`, categoryID)
}

// Search ищет подстроку в названии или описании без учета регистра.
// Символы % и _ в term трактуются буквально.
func (r *ProductRepository) Search(ctx context.Context, term string) ([]domain.Product, error) {
	return r.list(ctx, `SELECT `+productColumns+` FROM products
		WHERE name ILIKE $1 ESCAPE '\' OR description ILIKE $1 ESCAPE '\'
		ORDER BY id DESC`, "%"+likeEscaper.Replace(term)+"%")
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func (r *ProductRepository) list(ctx context.Context, sql string, args ...interface{}) ([]domain.Product, error) {
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, translate(err, "products", "list")
	}
	defer rows.Close()

	products := make([]domain.Product, 0)
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrInternal, "failed to scan product")
		}
		products = append(products, *product)
	}
	if err := rows.Err(); err != nil {
		return nil, translate(err, "products", "rows")
	}
	return products, nil
}

func scanProduct(row rowScanner) (*domain.Product, error) {
	var (
		product domain.Product
		price   string
	)
	err := row.Scan(
		&product.ID,
		&product.Name,
		&product.Description,
		&product.ImageURL,
		&price,
		&product.CategoryID,
		&product.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	product.Price, err = decimal.NewFromString(price)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrInternal, "failed to parse product price").WithDetails(price)
	}
	return &product, nil
}
