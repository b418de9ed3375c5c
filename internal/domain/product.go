package domain

import "time"

// Product описывает товар каталога. Цена хранится в минимальных денежных
// единицах (копейки/центы); Quantity мутируется только операциями склада.
type Product struct {
	ID          string
	Name        string
	Description string
	// PriceMinor — цена за единицу в минимальных денежных единицах.
	PriceMinor int64
	// Quantity — доступный остаток; изменяется только под блокировкой строки.
	Quantity int32
	// CategoryID — необязательная ссылка на категорию.
	CategoryID string
	CreatedAt  time.Time
	UpdatedAt  time.Time
	// DeletedAt отмечает soft delete; читающие запросы такие записи не видят.
	DeletedAt *time.Time
}

// ValidateInvariants проверяет базовые инварианты товара и возвращает список замечаний.
func (p *Product) ValidateInvariants() []error {
	var errs []error

	if p.Name == "" {
		errs = append(errs, ErrNameRequired)
	}
	if p.PriceMinor < 0 {
		errs = append(errs, ErrPriceNegative)
	}
	if p.Quantity < 0 {
		errs = append(errs, ErrQuantityNegative)
	}

	return errs
}
