package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/vladislavdragonenkov/backoffice/internal/domain"
)

const defaultLockTimeout = 3 * time.Second

// unitOfWork — PostgreSQL-реализация PlacementUnitOfWork. Вся транзакция
// размещения выполняется в одной БД-транзакции: блокировки строк товаров
// (SELECT ... FOR UPDATE), списание остатков, запись заказа и событие outbox.
type unitOfWork struct {
	db          *sql.DB
	lockTimeout time.Duration
}

// NewPlacementUnitOfWork создаёт координатор транзакции размещения.
// lockTimeout ограничивает ожидание блокировки строки товара; при
// неположительном значении используется значение по умолчанию.
func NewPlacementUnitOfWork(store *Store, lockTimeout time.Duration) domain.PlacementUnitOfWork {
	if lockTimeout <= 0 {
		lockTimeout = defaultLockTimeout
	}
	return &unitOfWork{db: store.DB(), lockTimeout: lockTimeout}
}

func (u *unitOfWork) WithinTx(ctx context.Context, fn func(ctx context.Context, tx domain.PlacementTx) error) error {
	sqlTx, err := u.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin placement tx: %w", err)
	}

	committed := false
	defer func() {
		if !committed {
			_ = sqlTx.Rollback()
		}
	}()

	// SET LOCAL действует до конца транзакции: зависшая блокировка строки
	// превращается в ошибку 55P03 вместо бесконечного ожидания.
	timeoutMs := u.lockTimeout.Milliseconds()
	if _, err := sqlTx.ExecContext(ctx, fmt.Sprintf("SET LOCAL lock_timeout = '%dms'", timeoutMs)); err != nil {
		return fmt.Errorf("set lock timeout: %w", err)
	}

	if err := fn(ctx, &placementTx{tx: sqlTx}); err != nil {
		return err
	}

	if err := sqlTx.Commit(); err != nil {
		return fmt.Errorf("commit placement tx: %w", err)
	}
	committed = true
	return nil
}

type placementTx struct {
	tx *sql.Tx
}

// AcquireForUpdate блокирует строку товара до конца транзакции и возвращает
// её текущее состояние. Удалённые товары невидимы.
func (t *placementTx) AcquireForUpdate(ctx context.Context, productID string) (domain.Product, error) {
	var product domain.Product
	err := t.tx.QueryRowContext(ctx, `
		SELECT id, name, description, price_minor, quantity, COALESCE(category_id::text, ''), created_at, updated_at
		FROM products
		WHERE id = $1 AND deleted_at IS NULL
		FOR UPDATE
	`, productID).Scan(
		&product.ID, &product.Name, &product.Description, &product.PriceMinor,
		&product.Quantity, &product.CategoryID, &product.CreatedAt, &product.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Product{}, fmt.Errorf("product %s: %w", productID, domain.ErrProductNotFound)
		}
		if isLockTimeout(err) {
			return domain.Product{}, fmt.Errorf("product %s: %w", productID, domain.ErrLockTimeout)
		}
		return domain.Product{}, fmt.Errorf("lock product row: %w", err)
	}

	return product, nil
}

// Decrement списывает qty единиц с уже заблокированной строки. CHECK на
// отрицательный остаток и условие quantity >= qty страхуют от гонки.
func (t *placementTx) Decrement(ctx context.Context, productID string, qty int32) error {
	if qty <= 0 {
		return domain.ErrLineQtyInvalid
	}

	res, err := t.tx.ExecContext(ctx, `
		UPDATE products
		SET quantity = quantity - $2, updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL AND quantity >= $2
	`, productID, qty)
	if err != nil {
		if isCheckViolation(err) {
			return fmt.Errorf("product %s: %w", productID, domain.ErrStockNegative)
		}
		return fmt.Errorf("decrement stock: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("product %s: %w", productID, domain.ErrStockNegative)
	}

	return nil
}

// CreateOrder записывает заказ и его позиции в текущей транзакции.
func (t *placementTx) CreateOrder(ctx context.Context, order domain.Order) error {
	_, err := t.tx.ExecContext(ctx, `
		INSERT INTO orders (
			id, customer_name, customer_email, status, payment_status, total_minor, created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
	`,
		order.ID, order.CustomerName, order.CustomerEmail, string(order.Status),
		string(order.PaymentStatus), order.TotalMinor, order.CreatedAt, order.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("order %s already exists: %w", order.ID, domain.ErrPersistence)
		}
		return fmt.Errorf("insert order: %w", err)
	}

	for _, line := range order.Lines {
		if _, err := t.tx.ExecContext(ctx, `
			INSERT INTO ordered_products (id, order_id, product_id, qty, price_minor, created_at)
			VALUES ($1,$2,$3,$4,$5,$6)
		`, line.ID, order.ID, line.ProductID, line.Qty, line.PriceMinor, line.CreatedAt); err != nil {
			return fmt.Errorf("insert order line: %w", err)
		}
	}

	return nil
}

// EnqueueEvent кладёт событие в outbox той же транзакцией, что и заказ.
func (t *placementTx) EnqueueEvent(ctx context.Context, msg domain.OutboxMessage) error {
	if msg.ID == "" {
		msg.ID = uuid.NewString()
	}
	now := time.Now().UTC()

	_, err := t.tx.ExecContext(ctx, `
		INSERT INTO outbox_messages (
			id, aggregate_type, aggregate_id, event_type, payload,
			status, attempt_count, created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,'pending',0,$6,$7)
	`, msg.ID, msg.AggregateType, msg.AggregateID, msg.EventType, msg.Payload, now, now)
	if err != nil {
		return fmt.Errorf("enqueue outbox event: %w", err)
	}

	return nil
}

var _ domain.PlacementTx = (*placementTx)(nil)
var _ domain.PlacementUnitOfWork = (*unitOfWork)(nil)
