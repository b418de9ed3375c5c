package domain

import "time"

// Seller — продавец площадки. Обычный CRUD без бизнес-логики.
type Seller struct {
	ID        string
	Name      string
	Email     string
	Phone     string
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt *time.Time
}

// Validate проверяет обязательные поля продавца.
func (s *Seller) Validate() []error {
	var errs []error
	if s.Name == "" {
		errs = append(errs, ErrNameRequired)
	}
	if s.Email == "" {
		errs = append(errs, ErrEmailRequired)
	}
	return errs
}
