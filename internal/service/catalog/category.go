package catalog

import (
	"context"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/backoffice/internal/domain"
)

// CategoryService — CRUD товарных категорий.
type CategoryService struct {
	categories domain.CategoryRepository
	logger     *log.Entry
}

// NewCategoryService создаёт сервис категорий.
func NewCategoryService(categories domain.CategoryRepository, logger *log.Entry) *CategoryService {
	if logger == nil {
		logger = log.New().WithField("component", "catalog-categories")
	}
	return &CategoryService{categories: categories, logger: logger}
}

// Create валидирует и сохраняет категорию.
func (s *CategoryService) Create(ctx context.Context, category domain.Category) (domain.Category, error) {
	if errs := category.Validate(); len(errs) > 0 {
		return domain.Category{}, errs[0]
	}
	return s.categories.Create(ctx, category)
}

// Get возвращает категорию по идентификатору.
func (s *CategoryService) Get(ctx context.Context, id string) (domain.Category, error) {
	return s.categories.Get(ctx, id)
}

// List возвращает все живые категории.
func (s *CategoryService) List(ctx context.Context) ([]domain.Category, error) {
	return s.categories.List(ctx)
}

// Update меняет имя и описание категории.
func (s *CategoryService) Update(ctx context.Context, category domain.Category) (domain.Category, error) {
	if category.ID == "" {
		return domain.Category{}, domain.ErrCategoryNotFound
	}
	if errs := category.Validate(); len(errs) > 0 {
		return domain.Category{}, errs[0]
	}
	return s.categories.Update(ctx, category)
}

// Remove помечает категорию удалённой; товары остаются без категории.
func (s *CategoryService) Remove(ctx context.Context, id string) error {
	return s.categories.SoftDelete(ctx, id)
}
