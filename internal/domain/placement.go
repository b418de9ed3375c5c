package domain

import "context"

// LineRequest — одна запрошенная позиция (товар, количество) при размещении заказа.
type LineRequest struct {
	ProductID string
	Qty       int32
}

// Validate проверяет позицию до обращения к складу: нулевое или отрицательное
// количество отклоняется сразу, списание такой величины недопустимо.
func (l LineRequest) Validate() []error {
	var errs []error
	if l.ProductID == "" {
		errs = append(errs, ErrLineProductRequired)
	}
	if l.Qty <= 0 {
		errs = append(errs, ErrLineQtyInvalid)
	}
	return errs
}

// StockLedger — учёт остатков товара внутри активной транзакции.
type StockLedger interface {
	// AcquireForUpdate читает товар, удерживая эксклюзивную блокировку строки
	// до конца объемлющей транзакции. Возвращает ErrProductNotFound, если
	// товара нет или он удалён, и ErrLockTimeout при истечении времени ожидания.
	AcquireForUpdate(ctx context.Context, productID string) (Product, error)
	// Decrement списывает qty единиц остатка. Вызывается только после
	// AcquireForUpdate в той же транзакции; ErrStockNegative, если результат
	// ушёл бы в минус.
	Decrement(ctx context.Context, productID string, qty int32) error
}

// PlacementTx — операции, доступные внутри транзакции размещения заказа.
type PlacementTx interface {
	StockLedger
	// CreateOrder сохраняет заказ вместе с позициями одной каскадной записью.
	CreateOrder(ctx context.Context, order Order) error
	// EnqueueEvent кладёт событие в transactional outbox той же транзакцией.
	EnqueueEvent(ctx context.Context, msg OutboxMessage) error
}

// PlacementUnitOfWork исполняет fn в одной транзакции: либо все списания и
// запись заказа фиксируются вместе, либо при любой ошибке откатываются целиком.
type PlacementUnitOfWork interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context, tx PlacementTx) error) error
}
