package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/vladislavdragonenkov/backoffice/internal/domain"
)

// productRepository — in-memory реализация ProductRepository поверх общего Store.
type productRepository struct {
	store *Store
}

// NewProductRepository возвращает in-memory репозиторий каталога товаров.
func NewProductRepository(store *Store) domain.ProductRepository {
	return &productRepository{store: store}
}

func (r *productRepository) Create(_ context.Context, product domain.Product) (domain.Product, error) {
	if product.ID == "" {
		product.ID = uuid.NewString()
	}
	now := nowUTC()
	if product.CreatedAt.IsZero() {
		product.CreatedAt = now
	}
	product.UpdatedAt = now

	r.store.putProduct(product)
	return product, nil
}

func (r *productRepository) Get(_ context.Context, id string) (domain.Product, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	slot, ok := r.store.products[id]
	if !ok || slot.product.DeletedAt != nil {
		return domain.Product{}, domain.ErrProductNotFound
	}
	return slot.product, nil
}

func (r *productRepository) List(_ context.Context) ([]domain.Product, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	result := make([]domain.Product, 0, len(r.store.products))
	for _, slot := range r.store.products {
		if slot.product.DeletedAt != nil {
			continue
		}
		result = append(result, slot.product)
	}
	sortProducts(result, "created_at", false)
	return result, nil
}

func (r *productRepository) Update(_ context.Context, product domain.Product) (domain.Product, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	slot, ok := r.store.products[product.ID]
	if !ok || slot.product.DeletedAt != nil {
		return domain.Product{}, domain.ErrProductNotFound
	}

	// Остаток этим методом не меняется: им владеет транзакция размещения.
	product.Quantity = slot.product.Quantity
	product.CreatedAt = slot.product.CreatedAt
	product.UpdatedAt = nowUTC()
	slot.product = product

	return slot.product, nil
}

func (r *productRepository) SoftDelete(_ context.Context, id string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	slot, ok := r.store.products[id]
	if !ok || slot.product.DeletedAt != nil {
		return domain.ErrProductNotFound
	}
	now := nowUTC()
	slot.product.DeletedAt = &now
	slot.product.UpdatedAt = now
	return nil
}

func (r *productRepository) Paginate(_ context.Context, req domain.PageRequest) (domain.ProductPage, error) {
	r.store.mu.RLock()

	filtered := make([]domain.Product, 0, len(r.store.products))
	for _, slot := range r.store.products {
		p := slot.product
		if p.DeletedAt != nil {
			continue
		}
		if req.Search != "" && !strings.Contains(strings.ToLower(p.Name), strings.ToLower(req.Search)) {
			continue
		}
		if req.Category != "" {
			category, ok := r.store.categories[p.CategoryID]
			if !ok || category.DeletedAt != nil || !strings.EqualFold(category.Name, req.Category) {
				continue
			}
		}
		filtered = append(filtered, p)
	}
	r.store.mu.RUnlock()

	orderBy := req.OrderBy
	if orderBy != "name" {
		orderBy = "created_at"
	}
	sortProducts(filtered, orderBy, req.Desc)

	page, limit := normalizePage(req.Page, req.Limit)
	meta := pageMeta(page, limit, len(filtered))

	start := (page - 1) * limit
	if start >= len(filtered) {
		return domain.ProductPage{Items: []domain.Product{}, Meta: meta}, nil
	}
	end := start + limit
	if end > len(filtered) {
		end = len(filtered)
	}

	return domain.ProductPage{Items: filtered[start:end], Meta: meta}, nil
}

func sortProducts(products []domain.Product, orderBy string, desc bool) {
	sort.SliceStable(products, func(i, j int) bool {
		var less bool
		switch orderBy {
		case "name":
			less = products[i].Name < products[j].Name
		default:
			less = products[i].CreatedAt.Before(products[j].CreatedAt)
		}
		if desc {
			return !less
		}
		return less
	})
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
