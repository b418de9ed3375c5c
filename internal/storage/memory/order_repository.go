package memory

import (
	"context"
	"sort"

	"github.com/vladislavdragonenkov/backoffice/internal/domain"
)

// orderRepository — in-memory реализация OrderRepository. Заказы попадают в
// Store только через транзакцию размещения; здесь лишь чтение и обновления.
type orderRepository struct {
	store *Store
}

// NewOrderRepository возвращает in-memory репозиторий заказов.
func NewOrderRepository(store *Store) domain.OrderRepository {
	return &orderRepository{store: store}
}

func (r *orderRepository) Get(_ context.Context, id string) (domain.Order, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	order, ok := r.store.orders[id]
	if !ok || order.DeletedAt != nil {
		return domain.Order{}, domain.ErrOrderNotFound
	}
	return order, nil
}

func (r *orderRepository) List(_ context.Context) ([]domain.Order, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	return r.collect(), nil
}

func (r *orderRepository) Paginate(_ context.Context, req domain.PageRequest) (domain.OrderPage, error) {
	r.store.mu.RLock()
	orders := r.collect()
	r.store.mu.RUnlock()

	if req.Desc {
		sort.SliceStable(orders, func(i, j int) bool {
			return orders[i].CreatedAt.After(orders[j].CreatedAt)
		})
	}

	page, limit := normalizePage(req.Page, req.Limit)
	meta := pageMeta(page, limit, len(orders))

	start := (page - 1) * limit
	if start >= len(orders) {
		return domain.OrderPage{Items: []domain.Order{}, Meta: meta}, nil
	}
	end := start + limit
	if end > len(orders) {
		end = len(orders)
	}
	return domain.OrderPage{Items: orders[start:end], Meta: meta}, nil
}

func (r *orderRepository) UpdateStatus(_ context.Context, id string, status domain.OrderStatus) (domain.Order, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	order, ok := r.store.orders[id]
	if !ok || order.DeletedAt != nil {
		return domain.Order{}, domain.ErrOrderNotFound
	}
	order.Status = status
	order.UpdatedAt = nowUTC()
	r.store.orders[id] = order
	return order, nil
}

func (r *orderRepository) UpdatePaymentStatus(_ context.Context, id string, status domain.PaymentStatus) (domain.Order, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	order, ok := r.store.orders[id]
	if !ok || order.DeletedAt != nil {
		return domain.Order{}, domain.ErrOrderNotFound
	}
	order.PaymentStatus = status
	order.UpdatedAt = nowUTC()
	r.store.orders[id] = order
	return order, nil
}

func (r *orderRepository) SoftDelete(_ context.Context, id string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	order, ok := r.store.orders[id]
	if !ok || order.DeletedAt != nil {
		return domain.ErrOrderNotFound
	}
	now := nowUTC()
	order.DeletedAt = &now
	order.UpdatedAt = now
	r.store.orders[id] = order
	return nil
}

// collect возвращает живые заказы, отсортированные по времени создания.
func (r *orderRepository) collect() []domain.Order {
	result := make([]domain.Order, 0, len(r.store.orders))
	for _, order := range r.store.orders {
		if order.DeletedAt != nil {
			continue
		}
		result = append(result, order)
	}
	sort.SliceStable(result, func(i, j int) bool {
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.Before(result[j].CreatedAt)
		}
		return result[i].ID < result[j].ID
	})
	return result
}

var _ domain.OrderRepository = (*orderRepository)(nil)
