package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/vladislavdragonenkov/backoffice/internal/domain"
)

type sellerRepository struct {
	db *sql.DB
}

// NewSellerRepository создаёт PostgreSQL-реализацию SellerRepository.
func NewSellerRepository(store *Store) domain.SellerRepository {
	return &sellerRepository{db: store.DB()}
}

func (r *sellerRepository) Create(ctx context.Context, seller domain.Seller) (domain.Seller, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	if seller.ID == "" {
		seller.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if seller.CreatedAt.IsZero() {
		seller.CreatedAt = now
	}
	seller.UpdatedAt = now

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO sellers (id, name, email, phone, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6)
	`, seller.ID, seller.Name, seller.Email, seller.Phone, seller.CreatedAt, seller.UpdatedAt)
	if err != nil {
		return domain.Seller{}, fmt.Errorf("insert seller: %w", err)
	}

	return seller, nil
}

func (r *sellerRepository) Get(ctx context.Context, id string) (domain.Seller, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	var seller domain.Seller
	err := r.db.QueryRowContext(ctx, `
		SELECT id, name, email, phone, created_at, updated_at
		FROM sellers
		WHERE id = $1 AND deleted_at IS NULL
	`, id).Scan(&seller.ID, &seller.Name, &seller.Email, &seller.Phone, &seller.CreatedAt, &seller.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Seller{}, domain.ErrSellerNotFound
		}
		return domain.Seller{}, fmt.Errorf("select seller: %w", err)
	}

	return seller, nil
}

func (r *sellerRepository) List(ctx context.Context) ([]domain.Seller, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, email, phone, created_at, updated_at
		FROM sellers
		WHERE deleted_at IS NULL
		ORDER BY created_at, id
	`)
	if err != nil {
		return nil, fmt.Errorf("list sellers: %w", err)
	}
	defer rows.Close()

	sellers := make([]domain.Seller, 0)
	for rows.Next() {
		var seller domain.Seller
		if err := rows.Scan(&seller.ID, &seller.Name, &seller.Email, &seller.Phone, &seller.CreatedAt, &seller.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan seller row: %w", err)
		}
		sellers = append(sellers, seller)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate seller rows: %w", err)
	}

	return sellers, nil
}

func (r *sellerRepository) Update(ctx context.Context, seller domain.Seller) (domain.Seller, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	var updated domain.Seller
	err := r.db.QueryRowContext(ctx, `
		UPDATE sellers
		SET name = $2, email = $3, phone = $4, updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL
		RETURNING id, name, email, phone, created_at, updated_at
	`, seller.ID, seller.Name, seller.Email, seller.Phone).Scan(
		&updated.ID, &updated.Name, &updated.Email, &updated.Phone, &updated.CreatedAt, &updated.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Seller{}, domain.ErrSellerNotFound
		}
		return domain.Seller{}, fmt.Errorf("update seller: %w", err)
	}

	return updated, nil
}

func (r *sellerRepository) SoftDelete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	res, err := r.db.ExecContext(ctx, `
		UPDATE sellers
		SET deleted_at = NOW(), updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL
	`, id)
	if err != nil {
		return fmt.Errorf("soft delete seller: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return domain.ErrSellerNotFound
	}

	return nil
}

var _ domain.SellerRepository = (*sellerRepository)(nil)
