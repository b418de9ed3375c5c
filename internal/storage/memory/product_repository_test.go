package memory_test

import (
	"context"
	"errors"
	"testing"

	"github.com/vladislavdragonenkov/backoffice/internal/domain"
	"github.com/vladislavdragonenkov/backoffice/internal/storage/memory"
)

func newProduct(name string, qty int32) domain.Product {
	return domain.Product{
		Name:       name,
		PriceMinor: 1000,
		Quantity:   qty,
	}
}

func TestProductRepository_CreateGet(t *testing.T) {
	store := memory.NewStore()
	repo := memory.NewProductRepository(store)
	ctx := context.Background()

	created, err := repo.Create(ctx, newProduct("keyboard", 10))
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if created.ID == "" {
		t.Fatal("expected generated id")
	}

	stored, err := repo.Get(ctx, created.ID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if stored.Name != "keyboard" || stored.Quantity != 10 {
		t.Fatalf("unexpected product: %+v", stored)
	}
}

func TestProductRepository_UpdateKeepsQuantity(t *testing.T) {
	store := memory.NewStore()
	repo := memory.NewProductRepository(store)
	ctx := context.Background()

	created, err := repo.Create(ctx, newProduct("mouse", 7))
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	created.Name = "wireless mouse"
	created.Quantity = 999
	updated, err := repo.Update(ctx, created)
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.Name != "wireless mouse" {
		t.Fatalf("expected updated name, got %s", updated.Name)
	}
	if updated.Quantity != 7 {
		t.Fatalf("update must not touch stock, got %d", updated.Quantity)
	}
}

func TestProductRepository_SoftDelete(t *testing.T) {
	store := memory.NewStore()
	repo := memory.NewProductRepository(store)
	ctx := context.Background()

	created, err := repo.Create(ctx, newProduct("monitor", 3))
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if err := repo.SoftDelete(ctx, created.ID); err != nil {
		t.Fatalf("soft delete failed: %v", err)
	}

	if _, err := repo.Get(ctx, created.ID); !errors.Is(err, domain.ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound, got %v", err)
	}
	if err := repo.SoftDelete(ctx, created.ID); !errors.Is(err, domain.ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound on double delete, got %v", err)
	}
}

func TestProductRepository_PaginateSearch(t *testing.T) {
	store := memory.NewStore()
	repo := memory.NewProductRepository(store)
	ctx := context.Background()

	for _, name := range []string{"gaming keyboard", "office keyboard", "mouse"} {
		if _, err := repo.Create(ctx, newProduct(name, 1)); err != nil {
			t.Fatalf("create failed: %v", err)
		}
	}

	page, err := repo.Paginate(ctx, domain.PageRequest{Page: 1, Limit: 10, Search: "Keyboard"})
	if err != nil {
		t.Fatalf("paginate failed: %v", err)
	}
	if len(page.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(page.Items))
	}
	if page.Meta.TotalItems != 2 {
		t.Fatalf("expected total 2, got %d", page.Meta.TotalItems)
	}
}

func TestProductRepository_PaginateByCategory(t *testing.T) {
	store := memory.NewStore()
	products := memory.NewProductRepository(store)
	categories := memory.NewCategoryRepository(store)
	ctx := context.Background()

	category, err := categories.Create(ctx, domain.Category{Name: "peripherals"})
	if err != nil {
		t.Fatalf("create category failed: %v", err)
	}

	inCategory := newProduct("keyboard", 1)
	inCategory.CategoryID = category.ID
	if _, err := products.Create(ctx, inCategory); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if _, err := products.Create(ctx, newProduct("desk", 1)); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	page, err := products.Paginate(ctx, domain.PageRequest{Page: 1, Limit: 10, Category: "peripherals"})
	if err != nil {
		t.Fatalf("paginate failed: %v", err)
	}
	if len(page.Items) != 1 || page.Items[0].Name != "keyboard" {
		t.Fatalf("unexpected page items: %+v", page.Items)
	}
}

func TestProductRepository_PaginateMeta(t *testing.T) {
	store := memory.NewStore()
	repo := memory.NewProductRepository(store)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		if _, err := repo.Create(ctx, newProduct("item", 1)); err != nil {
			t.Fatalf("create failed: %v", err)
		}
	}

	page, err := repo.Paginate(ctx, domain.PageRequest{Page: 2, Limit: 2})
	if err != nil {
		t.Fatalf("paginate failed: %v", err)
	}
	if len(page.Items) != 2 {
		t.Fatalf("expected 2 items on page 2, got %d", len(page.Items))
	}
	if page.Meta.TotalPages != 3 {
		t.Fatalf("expected 3 pages, got %d", page.Meta.TotalPages)
	}
}
