package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/backoffice/internal/domain"
)

const (
	orderKeyFormat  = "backoffice:order:%s"
	defaultCacheTTL = 5 * time.Minute
)

// NewClient создаёт redis-клиент и проверяет доступность сервера.
func NewClient(ctx context.Context, addr string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	return client, nil
}

// OrderCache хранит прочитанные заказы в redis с коротким TTL. Все методы
// терпимы к nil-клиенту и к недоступному redis: кэш ускоряет чтение, но не
// участвует в корректности.
type OrderCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *log.Entry
}

// NewOrderCache создаёт кэш заказов. client может быть nil — кэш выключен.
func NewOrderCache(client *redis.Client, ttl time.Duration, logger *log.Entry) *OrderCache {
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	if logger == nil {
		logger = log.New().WithField("component", "order-cache")
	}
	return &OrderCache{client: client, ttl: ttl, logger: logger}
}

// Get возвращает закэшированный заказ; второй результат false при промахе.
func (c *OrderCache) Get(ctx context.Context, id string) (domain.Order, bool) {
	if c == nil || c.client == nil {
		return domain.Order{}, false
	}

	raw, err := c.client.Get(ctx, orderKey(id)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.WithError(err).WithField("order_id", id).Warn("order cache read failed")
		}
		return domain.Order{}, false
	}

	var order domain.Order
	if err := json.Unmarshal(raw, &order); err != nil {
		c.logger.WithError(err).WithField("order_id", id).Warn("order cache entry is corrupt")
		return domain.Order{}, false
	}

	return order, true
}

// Set сохраняет заказ в кэш. Ошибки записи только логируются.
func (c *OrderCache) Set(ctx context.Context, order domain.Order) {
	if c == nil || c.client == nil {
		return
	}

	raw, err := json.Marshal(order)
	if err != nil {
		c.logger.WithError(err).WithField("order_id", order.ID).Warn("failed to marshal order for cache")
		return
	}
	if err := c.client.Set(ctx, orderKey(order.ID), raw, c.ttl).Err(); err != nil {
		c.logger.WithError(err).WithField("order_id", order.ID).Warn("order cache write failed")
	}
}

// Invalidate удаляет запись после изменения заказа.
func (c *OrderCache) Invalidate(ctx context.Context, id string) {
	if c == nil || c.client == nil {
		return
	}

	if err := c.client.Del(ctx, orderKey(id)).Err(); err != nil {
		c.logger.WithError(err).WithField("order_id", id).Warn("order cache invalidation failed")
	}
}

func orderKey(id string) string {
	return fmt.Sprintf(orderKeyFormat, id)
}
