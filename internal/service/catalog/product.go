package catalog

import (
	"context"
	"errors"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/backoffice/internal/domain"
)

// ProductService управляет карточками товаров. Остаток товара здесь только
// задаётся при создании; дальнейшие списания выполняет транзакция размещения.
type ProductService struct {
	products   domain.ProductRepository
	categories domain.CategoryRepository
	logger     *log.Entry
}

// NewProductService создаёт сервис каталога товаров.
func NewProductService(products domain.ProductRepository, categories domain.CategoryRepository, logger *log.Entry) *ProductService {
	if logger == nil {
		logger = log.New().WithField("component", "catalog-products")
	}
	return &ProductService{
		products:   products,
		categories: categories,
		logger:     logger,
	}
}

// Create валидирует карточку, проверяет существование категории и сохраняет товар.
func (s *ProductService) Create(ctx context.Context, product domain.Product) (domain.Product, error) {
	if errs := product.ValidateInvariants(); len(errs) > 0 {
		return domain.Product{}, errs[0]
	}
	if err := s.checkCategory(ctx, product.CategoryID); err != nil {
		return domain.Product{}, err
	}

	created, err := s.products.Create(ctx, product)
	if err != nil {
		return domain.Product{}, err
	}

	s.logger.WithFields(log.Fields{
		"product_id": created.ID,
		"name":       created.Name,
	}).Info("product created")
	return created, nil
}

// Get возвращает живой товар.
func (s *ProductService) Get(ctx context.Context, id string) (domain.Product, error) {
	return s.products.Get(ctx, id)
}

// List возвращает все живые товары.
func (s *ProductService) List(ctx context.Context) ([]domain.Product, error) {
	return s.products.List(ctx)
}

// Paginate возвращает страницу товаров с поиском по имени и фильтром по категории.
func (s *ProductService) Paginate(ctx context.Context, req domain.PageRequest) (domain.ProductPage, error) {
	return s.products.Paginate(ctx, req)
}

// Update меняет карточку товара; остаток этим путём не меняется.
func (s *ProductService) Update(ctx context.Context, product domain.Product) (domain.Product, error) {
	if product.ID == "" {
		return domain.Product{}, domain.ErrProductNotFound
	}
	if errs := product.ValidateInvariants(); len(errs) > 0 {
		return domain.Product{}, errs[0]
	}
	if err := s.checkCategory(ctx, product.CategoryID); err != nil {
		return domain.Product{}, err
	}
	return s.products.Update(ctx, product)
}

// Remove помечает товар удалённым; размещённые заказы сохраняют ссылку на него.
func (s *ProductService) Remove(ctx context.Context, id string) error {
	return s.products.SoftDelete(ctx, id)
}

// checkCategory убеждается, что указанная категория существует и не удалена.
func (s *ProductService) checkCategory(ctx context.Context, categoryID string) error {
	if categoryID == "" {
		return nil
	}
	if _, err := s.categories.Get(ctx, categoryID); err != nil {
		if errors.Is(err, domain.ErrCategoryNotFound) {
			return fmt.Errorf("category %s: %w", categoryID, domain.ErrCategoryNotFound)
		}
		return err
	}
	return nil
}
