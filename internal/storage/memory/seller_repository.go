package memory

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/vladislavdragonenkov/backoffice/internal/domain"
)

// sellerRepository — in-memory реализация SellerRepository.
type sellerRepository struct {
	store *Store
}

// NewSellerRepository возвращает in-memory репозиторий продавцов.
func NewSellerRepository(store *Store) domain.SellerRepository {
	return &sellerRepository{store: store}
}

func (r *sellerRepository) Create(_ context.Context, seller domain.Seller) (domain.Seller, error) {
	if seller.ID == "" {
		seller.ID = uuid.NewString()
	}
	now := nowUTC()
	if seller.CreatedAt.IsZero() {
		seller.CreatedAt = now
	}
	seller.UpdatedAt = now

	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.sellers[seller.ID] = seller
	return seller, nil
}

func (r *sellerRepository) Get(_ context.Context, id string) (domain.Seller, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	seller, ok := r.store.sellers[id]
	if !ok || seller.DeletedAt != nil {
		return domain.Seller{}, domain.ErrSellerNotFound
	}
	return seller, nil
}

func (r *sellerRepository) List(_ context.Context) ([]domain.Seller, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	result := make([]domain.Seller, 0, len(r.store.sellers))
	for _, seller := range r.store.sellers {
		if seller.DeletedAt != nil {
			continue
		}
		result = append(result, seller)
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	return result, nil
}

func (r *sellerRepository) Update(_ context.Context, seller domain.Seller) (domain.Seller, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	current, ok := r.store.sellers[seller.ID]
	if !ok || current.DeletedAt != nil {
		return domain.Seller{}, domain.ErrSellerNotFound
	}
	seller.CreatedAt = current.CreatedAt
	seller.UpdatedAt = nowUTC()
	r.store.sellers[seller.ID] = seller
	return seller, nil
}

func (r *sellerRepository) SoftDelete(_ context.Context, id string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	seller, ok := r.store.sellers[id]
	if !ok || seller.DeletedAt != nil {
		return domain.ErrSellerNotFound
	}
	now := nowUTC()
	seller.DeletedAt = &now
	seller.UpdatedAt = now
	r.store.sellers[id] = seller
	return nil
}

var _ domain.SellerRepository = (*sellerRepository)(nil)
