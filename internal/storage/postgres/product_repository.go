package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/vladislavdragonenkov/backoffice/internal/domain"
)

const (
	opTimeout = 5 * time.Second

	productColumns = `id, name, description, price_minor, quantity, COALESCE(category_id::text, ''), created_at, updated_at`
)

type productRepository struct {
	db *sql.DB
}

// NewProductRepository создаёт PostgreSQL-реализацию ProductRepository.
func NewProductRepository(store *Store) domain.ProductRepository {
	return &productRepository{db: store.DB()}
}

func (r *productRepository) Create(ctx context.Context, product domain.Product) (domain.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	if product.ID == "" {
		product.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if product.CreatedAt.IsZero() {
		product.CreatedAt = now
	}
	product.UpdatedAt = now

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO products (
			id, name, description, price_minor, quantity, category_id, created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,NULLIF($6,'')::uuid,$7,$8)
	`,
		product.ID, product.Name, product.Description, product.PriceMinor,
		product.Quantity, product.CategoryID, product.CreatedAt, product.UpdatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.Product{}, fmt.Errorf("category %s: %w", product.CategoryID, domain.ErrCategoryNotFound)
		}
		return domain.Product{}, fmt.Errorf("insert product: %w", err)
	}

	return product, nil
}

func (r *productRepository) Get(ctx context.Context, id string) (domain.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	var product domain.Product
	err := r.db.QueryRowContext(ctx, `
		SELECT `+productColumns+`
		FROM products
		WHERE id = $1 AND deleted_at IS NULL
	`, id).Scan(
		&product.ID, &product.Name, &product.Description, &product.PriceMinor,
		&product.Quantity, &product.CategoryID, &product.CreatedAt, &product.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Product{}, domain.ErrProductNotFound
		}
		return domain.Product{}, fmt.Errorf("select product: %w", err)
	}

	return product, nil
}

func (r *productRepository) List(ctx context.Context) ([]domain.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, `
		SELECT `+productColumns+`
		FROM products
		WHERE deleted_at IS NULL
		ORDER BY created_at, id
	`)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	return scanProducts(rows)
}

func (r *productRepository) Update(ctx context.Context, product domain.Product) (domain.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	// Остаток этим методом не меняется: им владеет транзакция размещения.
	var updated domain.Product
	err := r.db.QueryRowContext(ctx, `
		UPDATE products
		SET name = $2,
		    description = $3,
		    price_minor = $4,
		    category_id = NULLIF($5,'')::uuid,
		    updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL
		RETURNING `+productColumns+`
	`,
		product.ID, product.Name, product.Description, product.PriceMinor, product.CategoryID,
	).Scan(
		&updated.ID, &updated.Name, &updated.Description, &updated.PriceMinor,
		&updated.Quantity, &updated.CategoryID, &updated.CreatedAt, &updated.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Product{}, domain.ErrProductNotFound
		}
		if isForeignKeyViolation(err) {
			return domain.Product{}, fmt.Errorf("category %s: %w", product.CategoryID, domain.ErrCategoryNotFound)
		}
		return domain.Product{}, fmt.Errorf("update product: %w", err)
	}

	return updated, nil
}

func (r *productRepository) SoftDelete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	res, err := r.db.ExecContext(ctx, `
		UPDATE products
		SET deleted_at = NOW(), updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL
	`, id)
	if err != nil {
		return fmt.Errorf("soft delete product: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return domain.ErrProductNotFound
	}

	return nil
}

func (r *productRepository) Paginate(ctx context.Context, req domain.PageRequest) (domain.ProductPage, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	where := []string{"p.deleted_at IS NULL"}
	args := make([]any, 0, 4)

	if req.Search != "" {
		args = append(args, "%"+req.Search+"%")
		where = append(where, fmt.Sprintf("p.name ILIKE $%d", len(args)))
	}
	if req.Category != "" {
		args = append(args, req.Category)
		where = append(where, fmt.Sprintf(
			"p.category_id IN (SELECT c.id FROM categories c WHERE LOWER(c.name) = LOWER($%d) AND c.deleted_at IS NULL)",
			len(args),
		))
	}
	whereClause := strings.Join(where, " AND ")

	var total int
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM products p WHERE `+whereClause, args...,
	).Scan(&total); err != nil {
		return domain.ProductPage{}, fmt.Errorf("count products: %w", err)
	}

	orderBy := "p.created_at"
	if req.OrderBy == "name" {
		orderBy = "p.name"
	}
	direction := "ASC"
	if req.Desc {
		direction = "DESC"
	}

	page, limit := normalizePage(req.Page, req.Limit)
	args = append(args, limit, (page-1)*limit)

	query := fmt.Sprintf(`
		SELECT p.id, p.name, p.description, p.price_minor, p.quantity,
		       COALESCE(p.category_id::text, ''), p.created_at, p.updated_at
		FROM products p
		WHERE %s
		ORDER BY %s %s, p.id
		LIMIT $%d OFFSET $%d
	`, whereClause, orderBy, direction, len(args)-1, len(args))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return domain.ProductPage{}, fmt.Errorf("paginate products: %w", err)
	}
	defer rows.Close()

	items, err := scanProducts(rows)
	if err != nil {
		return domain.ProductPage{}, err
	}

	return domain.ProductPage{Items: items, Meta: pageMeta(page, limit, total)}, nil
}

func scanProducts(rows *sql.Rows) ([]domain.Product, error) {
	products := make([]domain.Product, 0)
	for rows.Next() {
		var product domain.Product
		if err := rows.Scan(
			&product.ID, &product.Name, &product.Description, &product.PriceMinor,
			&product.Quantity, &product.CategoryID, &product.CreatedAt, &product.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan product row: %w", err)
		}
		products = append(products, product)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate product rows: %w", err)
	}
	return products, nil
}

func normalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	return page, limit
}

func pageMeta(page, limit, total int) domain.PageMeta {
	totalPages := total / limit
	if total%limit != 0 {
		totalPages++
	}
	return domain.PageMeta{
		Page:       page,
		Limit:      limit,
		TotalItems: total,
		TotalPages: totalPages,
	}
}

var _ domain.ProductRepository = (*productRepository)(nil)
