package domain

import "time"

// Category — узел товарной таксономии.
type Category struct {
	ID          string
	Name        string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
	DeletedAt   *time.Time
}

// Validate проверяет обязательные поля категории.
func (c *Category) Validate() []error {
	var errs []error
	if c.Name == "" {
		errs = append(errs, ErrNameRequired)
	}
	return errs
}
