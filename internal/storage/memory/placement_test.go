package memory_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/vladislavdragonenkov/backoffice/internal/domain"
	"github.com/vladislavdragonenkov/backoffice/internal/storage/memory"
)

func seedProduct(t *testing.T, store *memory.Store, name string, qty int32) domain.Product {
	t.Helper()

	product, err := memory.NewProductRepository(store).Create(context.Background(), domain.Product{
		Name:       name,
		PriceMinor: 1000,
		Quantity:   qty,
	})
	if err != nil {
		t.Fatalf("seed product failed: %v", err)
	}
	return product
}

func TestPlacementUnitOfWork_Commit(t *testing.T) {
	store := memory.NewStore()
	outbox := memory.NewOutboxRepository()
	uow := memory.NewPlacementUnitOfWork(store, outbox, time.Second)
	ctx := context.Background()

	product := seedProduct(t, store, "keyboard", 10)

	err := uow.WithinTx(ctx, func(ctx context.Context, tx domain.PlacementTx) error {
		if _, err := tx.AcquireForUpdate(ctx, product.ID); err != nil {
			return err
		}
		if err := tx.Decrement(ctx, product.ID, 4); err != nil {
			return err
		}
		if err := tx.CreateOrder(ctx, domain.Order{ID: "order-1", CustomerName: "Alice"}); err != nil {
			return err
		}
		return tx.EnqueueEvent(ctx, domain.OutboxMessage{
			AggregateType: "order",
			AggregateID:   "order-1",
			EventType:     "order.created",
		})
	})
	if err != nil {
		t.Fatalf("transaction failed: %v", err)
	}

	stored, err := memory.NewProductRepository(store).Get(ctx, product.ID)
	if err != nil {
		t.Fatalf("get product failed: %v", err)
	}
	if stored.Quantity != 6 {
		t.Fatalf("expected quantity 6, got %d", stored.Quantity)
	}

	if _, err := memory.NewOrderRepository(store).Get(ctx, "order-1"); err != nil {
		t.Fatalf("expected committed order: %v", err)
	}

	pending, err := outbox.PullPending(10)
	if err != nil {
		t.Fatalf("pull pending failed: %v", err)
	}
	if len(pending) != 1 || pending[0].EventType != "order.created" {
		t.Fatalf("unexpected outbox content: %+v", pending)
	}
}

func TestPlacementUnitOfWork_RollbackRestoresStock(t *testing.T) {
	store := memory.NewStore()
	uow := memory.NewPlacementUnitOfWork(store, nil, time.Second)
	ctx := context.Background()

	first := seedProduct(t, store, "keyboard", 10)
	second := seedProduct(t, store, "mouse", 1)

	err := uow.WithinTx(ctx, func(ctx context.Context, tx domain.PlacementTx) error {
		if _, err := tx.AcquireForUpdate(ctx, first.ID); err != nil {
			return err
		}
		if err := tx.Decrement(ctx, first.ID, 5); err != nil {
			return err
		}
		if _, err := tx.AcquireForUpdate(ctx, second.ID); err != nil {
			return err
		}
		return tx.Decrement(ctx, second.ID, 3)
	})
	if !errors.Is(err, domain.ErrStockNegative) {
		t.Fatalf("expected ErrStockNegative, got %v", err)
	}

	repo := memory.NewProductRepository(store)
	stored, err := repo.Get(ctx, first.ID)
	if err != nil {
		t.Fatalf("get product failed: %v", err)
	}
	if stored.Quantity != 10 {
		t.Fatalf("expected first product restored to 10, got %d", stored.Quantity)
	}
	untouched, err := repo.Get(ctx, second.ID)
	if err != nil {
		t.Fatalf("get product failed: %v", err)
	}
	if untouched.Quantity != 1 {
		t.Fatalf("expected second product untouched, got %d", untouched.Quantity)
	}

	orders, err := memory.NewOrderRepository(store).List(ctx)
	if err != nil {
		t.Fatalf("list orders failed: %v", err)
	}
	if len(orders) != 0 {
		t.Fatalf("expected no orders after rollback, got %d", len(orders))
	}
}

func TestPlacementUnitOfWork_UnknownProduct(t *testing.T) {
	store := memory.NewStore()
	uow := memory.NewPlacementUnitOfWork(store, nil, time.Second)

	err := uow.WithinTx(context.Background(), func(ctx context.Context, tx domain.PlacementTx) error {
		_, err := tx.AcquireForUpdate(ctx, "missing")
		return err
	})
	if !errors.Is(err, domain.ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound, got %v", err)
	}
}

func TestPlacementUnitOfWork_LockTimeout(t *testing.T) {
	store := memory.NewStore()
	uow := memory.NewPlacementUnitOfWork(store, nil, 50*time.Millisecond)
	ctx := context.Background()

	product := seedProduct(t, store, "keyboard", 10)

	holding := make(chan struct{})
	release := make(chan struct{})
	done := make(chan error, 1)
	go func() {
		done <- uow.WithinTx(ctx, func(ctx context.Context, tx domain.PlacementTx) error {
			if _, err := tx.AcquireForUpdate(ctx, product.ID); err != nil {
				return err
			}
			close(holding)
			<-release
			return nil
		})
	}()

	<-holding
	err := uow.WithinTx(ctx, func(ctx context.Context, tx domain.PlacementTx) error {
		_, err := tx.AcquireForUpdate(ctx, product.ID)
		return err
	})
	if !errors.Is(err, domain.ErrLockTimeout) {
		t.Fatalf("expected ErrLockTimeout, got %v", err)
	}

	close(release)
	if err := <-done; err != nil {
		t.Fatalf("holder transaction failed: %v", err)
	}
}

func TestPlacementUnitOfWork_ConcurrentNoOversell(t *testing.T) {
	store := memory.NewStore()
	uow := memory.NewPlacementUnitOfWork(store, nil, time.Second)
	ctx := context.Background()

	product := seedProduct(t, store, "keyboard", 5)

	var wg sync.WaitGroup
	results := make(chan error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results <- uow.WithinTx(ctx, func(ctx context.Context, tx domain.PlacementTx) error {
				if _, err := tx.AcquireForUpdate(ctx, product.ID); err != nil {
					return err
				}
				return tx.Decrement(ctx, product.ID, 3)
			})
		}()
	}
	wg.Wait()
	close(results)

	var succeeded, rejected int
	for err := range results {
		switch {
		case err == nil:
			succeeded++
		case errors.Is(err, domain.ErrStockNegative):
			rejected++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if succeeded != 1 || rejected != 1 {
		t.Fatalf("expected exactly one winner, got %d committed and %d rejected", succeeded, rejected)
	}

	stored, err := memory.NewProductRepository(store).Get(ctx, product.ID)
	if err != nil {
		t.Fatalf("get product failed: %v", err)
	}
	if stored.Quantity != 2 {
		t.Fatalf("expected quantity 2, got %d", stored.Quantity)
	}
}
