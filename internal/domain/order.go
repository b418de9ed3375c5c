package domain

import "time"

// OrderStatus описывает стадию исполнения заказа.
type OrderStatus string

const (
	// OrderStatusPending — заказ создан, ещё не отгружен.
	OrderStatusPending OrderStatus = "pending"
	// OrderStatusShipped — заказ передан в доставку.
	OrderStatusShipped OrderStatus = "shipped"
	// OrderStatusDelivered — заказ доставлен покупателю.
	OrderStatusDelivered OrderStatus = "delivered"
)

// PaymentStatus описывает состояние оплаты заказа.
type PaymentStatus string

const (
	// PaymentStatusUnpaid — оплата не получена.
	PaymentStatusUnpaid PaymentStatus = "unpaid"
	// PaymentStatusPaid — оплата подтверждена.
	PaymentStatusPaid PaymentStatus = "paid"
)

// Valid проверяет, что статус относится к поддерживаемым значениям.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusShipped, OrderStatusDelivered:
		return true
	default:
		return false
	}
}

// Valid проверяет, что статус оплаты относится к поддерживаемым значениям.
func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentStatusUnpaid, PaymentStatusPaid:
		return true
	default:
		return false
	}
}

// OrderLine представляет одну позицию заказа. После записи позиция неизменяема.
type OrderLine struct {
	ID        string
	OrderID   string
	ProductID string
	// Qty — количество единиц; на момент резервирования не превышает остаток товара.
	Qty int32
	// PriceMinor — цена за единицу, зафиксированная в момент резервирования.
	PriceMinor int64
	CreatedAt  time.Time
}

// Order агрегирует заказ и его позиции.
type Order struct {
	ID            string
	CustomerName  string
	CustomerEmail string
	Status        OrderStatus
	PaymentStatus PaymentStatus
	// TotalMinor — сумма по позициям: qty * price на момент резервирования.
	TotalMinor int64
	Lines      []OrderLine
	CreatedAt  time.Time
	UpdatedAt  time.Time
	DeletedAt  *time.Time
}

// ValidateInvariants проверяет базовые инварианты заказа и возвращает список замечаний.
func (o *Order) ValidateInvariants() []error {
	var errs []error

	if o.CustomerName == "" {
		errs = append(errs, ErrCustomerNameRequired)
	}
	if o.CustomerEmail == "" {
		errs = append(errs, ErrCustomerEmailRequired)
	}
	if len(o.Lines) == 0 {
		errs = append(errs, ErrOrderLinesRequired)
	}
	if !o.Status.Valid() {
		errs = append(errs, ErrOrderStatusInvalid)
	}
	if !o.PaymentStatus.Valid() {
		errs = append(errs, ErrPaymentStatusInvalid)
	}

	// Сверяем сумму заказа с суммой позиций: qty * price.
	var calc int64
	for _, line := range o.Lines {
		if line.Qty <= 0 {
			errs = append(errs, ErrLineQtyInvalid)
		}
		if line.ProductID == "" {
			errs = append(errs, ErrLineProductRequired)
		}
		if line.PriceMinor < 0 {
			errs = append(errs, ErrPriceNegative)
		}
		calc += int64(line.Qty) * line.PriceMinor
	}
	if calc != o.TotalMinor {
		errs = append(errs, ErrTotalMismatch)
	}

	return errs
}
