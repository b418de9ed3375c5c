package memory

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/vladislavdragonenkov/backoffice/internal/domain"
)

// categoryRepository — in-memory реализация CategoryRepository.
type categoryRepository struct {
	store *Store
}

// NewCategoryRepository возвращает in-memory репозиторий категорий.
func NewCategoryRepository(store *Store) domain.CategoryRepository {
	return &categoryRepository{store: store}
}

func (r *categoryRepository) Create(_ context.Context, category domain.Category) (domain.Category, error) {
	if category.ID == "" {
		category.ID = uuid.NewString()
	}
	now := nowUTC()
	if category.CreatedAt.IsZero() {
		category.CreatedAt = now
	}
	category.UpdatedAt = now

	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.categories[category.ID] = category
	return category, nil
}

func (r *categoryRepository) Get(_ context.Context, id string) (domain.Category, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	category, ok := r.store.categories[id]
	if !ok || category.DeletedAt != nil {
		return domain.Category{}, domain.ErrCategoryNotFound
	}
	return category, nil
}

func (r *categoryRepository) List(_ context.Context) ([]domain.Category, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	result := make([]domain.Category, 0, len(r.store.categories))
	for _, category := range r.store.categories {
		if category.DeletedAt != nil {
			continue
		}
		result = append(result, category)
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	return result, nil
}

func (r *categoryRepository) Update(_ context.Context, category domain.Category) (domain.Category, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	current, ok := r.store.categories[category.ID]
	if !ok || current.DeletedAt != nil {
		return domain.Category{}, domain.ErrCategoryNotFound
	}
	category.CreatedAt = current.CreatedAt
	category.UpdatedAt = nowUTC()
	r.store.categories[category.ID] = category
	return category, nil
}

func (r *categoryRepository) SoftDelete(_ context.Context, id string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	category, ok := r.store.categories[id]
	if !ok || category.DeletedAt != nil {
		return domain.ErrCategoryNotFound
	}
	now := nowUTC()
	category.DeletedAt = &now
	category.UpdatedAt = now
	r.store.categories[id] = category

	// Товары отвязываются от удалённой категории, как внешний ключ
	// с ON DELETE SET NULL на стороне Postgres.
	for _, slot := range r.store.products {
		if slot.product.CategoryID == id {
			slot.product.CategoryID = ""
		}
	}
	return nil
}

var _ domain.CategoryRepository = (*categoryRepository)(nil)
