package cache

import (
	"context"
	"testing"
	"time"

	"github.com/vladislavdragonenkov/backoffice/internal/domain"
)

// Кэш без клиента должен быть полностью нейтрален: промахи на чтении,
// no-op на записи и инвалидации.
func TestOrderCache_NilClientIsNoop(t *testing.T) {
	ctx := context.Background()

	var nilCache *OrderCache
	if _, ok := nilCache.Get(ctx, "order-1"); ok {
		t.Fatal("nil cache must miss")
	}
	nilCache.Set(ctx, domain.Order{ID: "order-1"})
	nilCache.Invalidate(ctx, "order-1")

	disabled := NewOrderCache(nil, time.Minute, nil)
	if _, ok := disabled.Get(ctx, "order-1"); ok {
		t.Fatal("disabled cache must miss")
	}
	disabled.Set(ctx, domain.Order{ID: "order-1"})
	disabled.Invalidate(ctx, "order-1")
}

func TestOrderKey(t *testing.T) {
	if got := orderKey("abc"); got != "backoffice:order:abc" {
		t.Fatalf("unexpected cache key: %s", got)
	}
}
