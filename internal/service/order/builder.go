package order

import (
	"time"

	"github.com/google/uuid"

	"github.com/vladislavdragonenkov/backoffice/internal/domain"
)

// buildOrder собирает агрегат заказа из уже проверенных позиций: итоговая
// сумма, ссылки позиций на заказ, начальные статусы. Бизнес-валидации здесь
// нет — она выполнена до записи; позиции ссылаются на идентификаторы товаров,
// а не на заблокированные строки, чтобы не тащить их за пределы транзакции.
func buildOrder(req PlaceRequest, status domain.OrderStatus, processed []processedLine, now time.Time) domain.Order {
	orderID := uuid.NewString()

	lines := make([]domain.OrderLine, 0, len(processed))
	var total int64
	for _, pl := range processed {
		total += int64(pl.Qty) * pl.PriceMinor
		lines = append(lines, domain.OrderLine{
			ID:         uuid.NewString(),
			OrderID:    orderID,
			ProductID:  pl.ProductID,
			Qty:        pl.Qty,
			PriceMinor: pl.PriceMinor,
			CreatedAt:  now,
		})
	}

	return domain.Order{
		ID:            orderID,
		CustomerName:  req.CustomerName,
		CustomerEmail: req.CustomerEmail,
		Status:        status,
		PaymentStatus: domain.PaymentStatusUnpaid,
		TotalMinor:    total,
		Lines:         lines,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}
