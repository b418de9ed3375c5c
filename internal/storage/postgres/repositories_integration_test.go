package postgres

import (
	"context"
	"errors"
	"testing"

	"github.com/vladislavdragonenkov/backoffice/internal/domain"
)

func TestProductRepository_PostgresCRUDAndPagination(t *testing.T) {
	store := openPostgresStoreForIntegrationTest(t)
	products := NewProductRepository(store)
	categories := NewCategoryRepository(store)
	ctx := context.Background()

	category, err := categories.Create(ctx, domain.Category{Name: "peripherals"})
	if err != nil {
		t.Fatalf("create category: %v", err)
	}

	created, err := products.Create(ctx, domain.Product{
		Name:       "gaming keyboard",
		PriceMinor: 2500,
		Quantity:   10,
		CategoryID: category.ID,
	})
	if err != nil {
		t.Fatalf("create product: %v", err)
	}
	if _, err := products.Create(ctx, domain.Product{Name: "desk", PriceMinor: 9900, Quantity: 2}); err != nil {
		t.Fatalf("create product: %v", err)
	}

	created.Description = "mechanical"
	created.Quantity = 999
	updated, err := products.Update(ctx, created)
	if err != nil {
		t.Fatalf("update product: %v", err)
	}
	if updated.Description != "mechanical" {
		t.Fatalf("expected updated description, got %q", updated.Description)
	}
	if updated.Quantity != 10 {
		t.Fatalf("update must keep stock at 10, got %d", updated.Quantity)
	}

	bySearch, err := products.Paginate(ctx, domain.PageRequest{Page: 1, Limit: 10, Search: "KEYBOARD"})
	if err != nil {
		t.Fatalf("paginate by search: %v", err)
	}
	if len(bySearch.Items) != 1 || bySearch.Items[0].ID != created.ID {
		t.Fatalf("unexpected search result: %+v", bySearch.Items)
	}

	byCategory, err := products.Paginate(ctx, domain.PageRequest{Page: 1, Limit: 10, Category: "Peripherals"})
	if err != nil {
		t.Fatalf("paginate by category: %v", err)
	}
	if len(byCategory.Items) != 1 || byCategory.Items[0].ID != created.ID {
		t.Fatalf("unexpected category result: %+v", byCategory.Items)
	}

	if err := products.SoftDelete(ctx, created.ID); err != nil {
		t.Fatalf("soft delete: %v", err)
	}
	if _, err := products.Get(ctx, created.ID); !errors.Is(err, domain.ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound, got %v", err)
	}
}

func TestProductRepository_PostgresCreateRejectsUnknownCategory(t *testing.T) {
	store := openPostgresStoreForIntegrationTest(t)
	products := NewProductRepository(store)

	_, err := products.Create(context.Background(), domain.Product{
		Name:       "keyboard",
		PriceMinor: 2500,
		CategoryID: "3f1f9f0e-0000-0000-0000-000000000000",
	})
	if !errors.Is(err, domain.ErrCategoryNotFound) {
		t.Fatalf("expected ErrCategoryNotFound, got %v", err)
	}
}

func TestCategoryRepository_PostgresSoftDeleteDetachesProducts(t *testing.T) {
	store := openPostgresStoreForIntegrationTest(t)
	products := NewProductRepository(store)
	categories := NewCategoryRepository(store)
	ctx := context.Background()

	category, err := categories.Create(ctx, domain.Category{Name: "peripherals"})
	if err != nil {
		t.Fatalf("create category: %v", err)
	}
	product, err := products.Create(ctx, domain.Product{Name: "keyboard", PriceMinor: 2500, CategoryID: category.ID})
	if err != nil {
		t.Fatalf("create product: %v", err)
	}

	if err := categories.SoftDelete(ctx, category.ID); err != nil {
		t.Fatalf("soft delete category: %v", err)
	}
	stored, err := products.Get(ctx, product.ID)
	if err != nil {
		t.Fatalf("get product: %v", err)
	}
	if stored.CategoryID != "" {
		t.Fatalf("expected detached product, got category %q", stored.CategoryID)
	}
}

func TestUserRepository_PostgresEmailUnique(t *testing.T) {
	store := openPostgresStoreForIntegrationTest(t)
	users := NewUserRepository(store)
	ctx := context.Background()

	created, err := users.Create(ctx, domain.User{Name: "Alice", Email: "alice@example.com", PasswordHash: "hash"})
	if err != nil {
		t.Fatalf("create user: %v", err)
	}

	if _, err := users.Create(ctx, domain.User{Name: "Copy", Email: "ALICE@example.com", PasswordHash: "hash"}); !errors.Is(err, domain.ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}

	found, err := users.GetByEmail(ctx, "Alice@Example.com")
	if err != nil {
		t.Fatalf("get by email: %v", err)
	}
	if found.ID != created.ID {
		t.Fatalf("expected id %s, got %s", created.ID, found.ID)
	}
}

func TestOrderRepository_PostgresLifecycle(t *testing.T) {
	store := openPostgresStoreForIntegrationTest(t)
	product := seedProductForIntegrationTest(t, store, "keyboard", 2500, 10)
	uow := NewPlacementUnitOfWork(store, 0)
	orders := NewOrderRepository(store)
	ctx := context.Background()

	order := placementOrder(product.ID, 2, product.PriceMinor)
	err := uow.WithinTx(ctx, func(ctx context.Context, tx domain.PlacementTx) error {
		if _, err := tx.AcquireForUpdate(ctx, product.ID); err != nil {
			return err
		}
		if err := tx.Decrement(ctx, product.ID, 2); err != nil {
			return err
		}
		return tx.CreateOrder(ctx, order)
	})
	if err != nil {
		t.Fatalf("placement tx: %v", err)
	}

	updated, err := orders.UpdateStatus(ctx, order.ID, domain.OrderStatusShipped)
	if err != nil {
		t.Fatalf("update status: %v", err)
	}
	if updated.Status != domain.OrderStatusShipped {
		t.Fatalf("expected shipped, got %s", updated.Status)
	}

	paid, err := orders.UpdatePaymentStatus(ctx, order.ID, domain.PaymentStatusPaid)
	if err != nil {
		t.Fatalf("update payment status: %v", err)
	}
	if paid.PaymentStatus != domain.PaymentStatusPaid {
		t.Fatalf("expected paid, got %s", paid.PaymentStatus)
	}

	page, err := orders.Paginate(ctx, domain.PageRequest{Page: 1, Limit: 10, Desc: true})
	if err != nil {
		t.Fatalf("paginate: %v", err)
	}
	if len(page.Items) != 1 || len(page.Items[0].Lines) != 1 {
		t.Fatalf("unexpected page: %+v", page.Items)
	}

	if err := orders.SoftDelete(ctx, order.ID); err != nil {
		t.Fatalf("soft delete: %v", err)
	}
	if _, err := orders.Get(ctx, order.ID); !errors.Is(err, domain.ErrOrderNotFound) {
		t.Fatalf("expected ErrOrderNotFound, got %v", err)
	}
}
