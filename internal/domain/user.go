package domain

import "time"

// User — учётная запись back office. Пароль хранится только как bcrypt-хэш.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
	DeletedAt    *time.Time
}
