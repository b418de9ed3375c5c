package memory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/vladislavdragonenkov/backoffice/internal/domain"
)

const defaultLockTimeout = 3 * time.Second

// unitOfWork — in-memory реализация PlacementUnitOfWork. Семантика как у
// транзакции БД: блокировки строк удерживаются до конца вызова, при ошибке
// все списания откатываются журналом undo.
type unitOfWork struct {
	store       *Store
	outbox      domain.OutboxRepository
	lockTimeout time.Duration
}

// NewPlacementUnitOfWork создаёт in-memory координатор транзакции размещения.
// outbox может быть nil — тогда события при коммите не сохраняются.
func NewPlacementUnitOfWork(store *Store, outbox domain.OutboxRepository, lockTimeout time.Duration) domain.PlacementUnitOfWork {
	if lockTimeout <= 0 {
		lockTimeout = defaultLockTimeout
	}
	return &unitOfWork{
		store:       store,
		outbox:      outbox,
		lockTimeout: lockTimeout,
	}
}

func (u *unitOfWork) WithinTx(ctx context.Context, fn func(ctx context.Context, tx domain.PlacementTx) error) error {
	tx := &placementTx{
		store:       u.store,
		lockTimeout: u.lockTimeout,
		locked:      make(map[string]*productSlot),
	}
	defer tx.releaseLocks()

	if err := fn(ctx, tx); err != nil {
		tx.rollback()
		return err
	}

	if err := tx.commit(u.outbox); err != nil {
		tx.rollback()
		return err
	}
	return nil
}

type placementTx struct {
	store       *Store
	lockTimeout time.Duration

	locked      map[string]*productSlot
	lockedOrder []*productSlot
	undo        []func()

	createdOrder *domain.Order
	events       []domain.OutboxMessage
}

// AcquireForUpdate захватывает блокировку слота товара с ограниченным ожиданием.
// Повторный захват в той же транзакции возвращает текущее состояние без ожидания.
func (tx *placementTx) AcquireForUpdate(ctx context.Context, productID string) (domain.Product, error) {
	if slot, ok := tx.locked[productID]; ok {
		return tx.snapshot(slot), nil
	}

	slot := tx.store.slot(productID)
	if slot == nil {
		return domain.Product{}, fmt.Errorf("product %s: %w", productID, domain.ErrProductNotFound)
	}

	timer := time.NewTimer(tx.lockTimeout)
	defer timer.Stop()

	select {
	case slot.lock <- struct{}{}:
	case <-timer.C:
		return domain.Product{}, fmt.Errorf("product %s: %w", productID, domain.ErrLockTimeout)
	case <-ctx.Done():
		return domain.Product{}, ctx.Err()
	}

	tx.locked[productID] = slot
	tx.lockedOrder = append(tx.lockedOrder, slot)

	// Товар мог быть удалён, пока транзакция ждала блокировку.
	if p := tx.snapshot(slot); p.DeletedAt == nil {
		return p, nil
	}
	return domain.Product{}, fmt.Errorf("product %s: %w", productID, domain.ErrProductNotFound)
}

// Decrement списывает qty единиц под уже удерживаемой блокировкой.
func (tx *placementTx) Decrement(_ context.Context, productID string, qty int32) error {
	slot, ok := tx.locked[productID]
	if !ok {
		return fmt.Errorf("product %s is not locked by this transaction", productID)
	}
	if qty <= 0 {
		return domain.ErrLineQtyInvalid
	}

	tx.store.mu.Lock()
	defer tx.store.mu.Unlock()

	if slot.product.Quantity < qty {
		return fmt.Errorf("product %q: %w", slot.product.Name, domain.ErrStockNegative)
	}

	prev := slot.product.Quantity
	slot.product.Quantity -= qty
	slot.product.UpdatedAt = nowUTC()
	tx.undo = append(tx.undo, func() {
		slot.product.Quantity = prev
	})

	return nil
}

// CreateOrder откладывает запись заказа до коммита.
func (tx *placementTx) CreateOrder(_ context.Context, order domain.Order) error {
	if tx.createdOrder != nil {
		return fmt.Errorf("order already created in this transaction: %w", domain.ErrPersistence)
	}
	tx.createdOrder = &order
	return nil
}

// EnqueueEvent откладывает событие outbox до коммита.
func (tx *placementTx) EnqueueEvent(_ context.Context, msg domain.OutboxMessage) error {
	if msg.ID == "" {
		msg.ID = uuid.NewString()
	}
	tx.events = append(tx.events, msg)
	return nil
}

func (tx *placementTx) commit(outbox domain.OutboxRepository) error {
	if tx.createdOrder != nil {
		tx.store.mu.Lock()
		if _, exists := tx.store.orders[tx.createdOrder.ID]; exists {
			tx.store.mu.Unlock()
			return fmt.Errorf("order %s already exists: %w", tx.createdOrder.ID, domain.ErrPersistence)
		}
		tx.store.orders[tx.createdOrder.ID] = *tx.createdOrder
		tx.store.mu.Unlock()
	}

	if outbox != nil {
		for _, msg := range tx.events {
			if _, err := outbox.Enqueue(msg); err != nil {
				// Коммит не состоялся: убираем уже записанный заказ.
				if tx.createdOrder != nil {
					tx.store.mu.Lock()
					delete(tx.store.orders, tx.createdOrder.ID)
					tx.store.mu.Unlock()
				}
				return fmt.Errorf("enqueue outbox event: %w", err)
			}
		}
	}

	tx.undo = nil
	return nil
}

// rollback отменяет списания в обратном порядке.
func (tx *placementTx) rollback() {
	tx.store.mu.Lock()
	defer tx.store.mu.Unlock()

	for i := len(tx.undo) - 1; i >= 0; i-- {
		tx.undo[i]()
	}
	tx.undo = nil
}

func (tx *placementTx) releaseLocks() {
	for i := len(tx.lockedOrder) - 1; i >= 0; i-- {
		<-tx.lockedOrder[i].lock
	}
	tx.lockedOrder = nil
	tx.locked = nil
}

func (tx *placementTx) snapshot(slot *productSlot) domain.Product {
	tx.store.mu.RLock()
	defer tx.store.mu.RUnlock()
	return slot.product
}

var _ domain.PlacementTx = (*placementTx)(nil)
var _ domain.PlacementUnitOfWork = (*unitOfWork)(nil)
