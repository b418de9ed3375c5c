package order_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/vladislavdragonenkov/backoffice/internal/domain"
	"github.com/vladislavdragonenkov/backoffice/internal/service/order"
	"github.com/vladislavdragonenkov/backoffice/internal/storage/memory"
)

func placeTestOrder(t *testing.T, f *placerFixture) domain.Order {
	t.Helper()

	product := f.seed(t, "keyboard", 2500, 10)
	placed, err := f.placer.Place(context.Background(), order.PlaceRequest{
		CustomerName:  "Alice",
		CustomerEmail: "alice@example.com",
		Lines:         []domain.LineRequest{{ProductID: product.ID, Qty: 1}},
	})
	if err != nil {
		t.Fatalf("place failed: %v", err)
	}
	return placed
}

func TestService_UpdateStatus(t *testing.T) {
	f := newPlacerFixture(t)
	placed := placeTestOrder(t, f)
	svc := order.NewService(memory.NewOrderRepository(f.store), f.outbox, nil)
	ctx := context.Background()

	updated, err := svc.UpdateStatus(ctx, placed.ID, domain.OrderStatusShipped)
	if err != nil {
		t.Fatalf("update status failed: %v", err)
	}
	if updated.Status != domain.OrderStatusShipped {
		t.Fatalf("expected shipped, got %s", updated.Status)
	}

	if _, err := svc.UpdateStatus(ctx, placed.ID, "archived"); !errors.Is(err, domain.ErrOrderStatusInvalid) {
		t.Fatalf("expected ErrOrderStatusInvalid, got %v", err)
	}
	if _, err := svc.UpdateStatus(ctx, "missing", domain.OrderStatusShipped); !errors.Is(err, domain.ErrOrderNotFound) {
		t.Fatalf("expected ErrOrderNotFound, got %v", err)
	}

	pending, err := f.outbox.PullPending(10)
	if err != nil {
		t.Fatalf("pull pending failed: %v", err)
	}
	// order.created от размещения и order.status_changed от обновления.
	if len(pending) != 2 || pending[1].EventType != "order.status_changed" {
		t.Fatalf("unexpected outbox content: %+v", pending)
	}
}

func TestService_UpdatePaymentStatus(t *testing.T) {
	f := newPlacerFixture(t)
	placed := placeTestOrder(t, f)
	svc := order.NewService(memory.NewOrderRepository(f.store), f.outbox, nil)
	ctx := context.Background()

	updated, err := svc.UpdatePaymentStatus(ctx, placed.ID, domain.PaymentStatusPaid)
	if err != nil {
		t.Fatalf("update payment status failed: %v", err)
	}
	if updated.PaymentStatus != domain.PaymentStatusPaid {
		t.Fatalf("expected paid, got %s", updated.PaymentStatus)
	}

	if _, err := svc.UpdatePaymentStatus(ctx, placed.ID, "refunded"); !errors.Is(err, domain.ErrPaymentStatusInvalid) {
		t.Fatalf("expected ErrPaymentStatusInvalid, got %v", err)
	}
}

func TestService_Remove(t *testing.T) {
	f := newPlacerFixture(t)
	placed := placeTestOrder(t, f)
	svc := order.NewService(memory.NewOrderRepository(f.store), nil, nil)
	ctx := context.Background()

	stockBefore := f.quantity(t, placed.Lines[0].ProductID)

	if _, err := svc.Remove(ctx, placed.ID); err != nil {
		t.Fatalf("remove failed: %v", err)
	}
	if _, err := svc.Get(ctx, placed.ID); !errors.Is(err, domain.ErrOrderNotFound) {
		t.Fatalf("expected ErrOrderNotFound after removal, got %v", err)
	}
	// Удаление заказа не возвращает остатки на склад.
	if got := f.quantity(t, placed.Lines[0].ProductID); got != stockBefore {
		t.Fatalf("expected stock unchanged (%d), got %d", stockBefore, got)
	}

	if _, err := svc.Remove(ctx, placed.ID); !errors.Is(err, domain.ErrOrderNotFound) {
		t.Fatalf("expected ErrOrderNotFound on double removal, got %v", err)
	}
}

func TestService_PaginateOrdersByCreatedAt(t *testing.T) {
	f := newPlacerFixture(t)
	product := f.seed(t, "keyboard", 1000, 100)
	svc := order.NewService(memory.NewOrderRepository(f.store), nil, nil)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := f.placer.Place(ctx, order.PlaceRequest{
			CustomerName:  "Alice",
			CustomerEmail: "alice@example.com",
			Lines:         []domain.LineRequest{{ProductID: product.ID, Qty: 1}},
		}); err != nil {
			t.Fatalf("place failed: %v", err)
		}
		time.Sleep(time.Millisecond)
	}

	page, err := svc.Paginate(ctx, domain.PageRequest{Page: 1, Limit: 2, OrderBy: "name", Desc: true})
	if err != nil {
		t.Fatalf("paginate failed: %v", err)
	}
	if len(page.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(page.Items))
	}
	if page.Meta.TotalItems != 3 {
		t.Fatalf("expected total 3, got %d", page.Meta.TotalItems)
	}
	// Сортировка только по created_at: при desc первой идёт самая новая запись.
	if page.Items[0].CreatedAt.Before(page.Items[1].CreatedAt) {
		t.Fatalf("expected newest first, got %v then %v", page.Items[0].CreatedAt, page.Items[1].CreatedAt)
	}
}
