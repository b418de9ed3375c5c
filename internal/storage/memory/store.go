package memory

import (
	"sync"
	"time"

	"github.com/vladislavdragonenkov/backoffice/internal/domain"
)

// Store — общая in-memory база для локальной разработки и тестов.
// Карта products хранит слоты с канальной блокировкой: канал вместимостью 1
// моделирует эксклюзивную блокировку строки, удерживаемую до конца транзакции.
type Store struct {
	mu         sync.RWMutex
	products   map[string]*productSlot
	categories map[string]domain.Category
	sellers    map[string]domain.Seller
	users      map[string]domain.User
	orders     map[string]domain.Order
}

type productSlot struct {
	// lock — эксклюзивная блокировка строки товара; захват = запись в канал.
	lock    chan struct{}
	product domain.Product
}

// NewStore создаёт пустое in-memory хранилище.
func NewStore() *Store {
	return &Store{
		products:   make(map[string]*productSlot),
		categories: make(map[string]domain.Category),
		sellers:    make(map[string]domain.Seller),
		users:      make(map[string]domain.User),
		orders:     make(map[string]domain.Order),
	}
}

// slot возвращает слот живого товара или nil.
func (s *Store) slot(id string) *productSlot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	slot, ok := s.products[id]
	if !ok || slot.product.DeletedAt != nil {
		return nil
	}
	return slot
}

// putProduct устанавливает или заменяет товар, сохраняя блокировку слота.
func (s *Store) putProduct(product domain.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if slot, ok := s.products[product.ID]; ok {
		slot.product = product
		return
	}
	s.products[product.ID] = &productSlot{
		lock:    make(chan struct{}, 1),
		product: product,
	}
}

func nowUTC() time.Time {
	return time.Now().UTC()
}
