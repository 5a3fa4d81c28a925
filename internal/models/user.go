// Package models содержит доменные структуры системы управления зданием:
// пользователей, квартиры, договоры аренды, купоны, объявления и платежи.
// Структуры используются в бизнес‑логике, хранилище и при сериализации ответов.
package models

import "time"

// Роли пользователя.
const (
	RoleUser   = "user"
	RoleMember = "member"
	RoleAdmin  = "admin"
)

// User представляет зарегистрированного пользователя системы.
// Роль member означает, что у пользователя есть ровно один одобренный договор
// и арендованная квартира.
type User struct {
	ID                string    `json:"id"`
	Email             string    `json:"email"`
	Name              string    `json:"name"`
	PhotoURL          string    `json:"photoUrl,omitempty"`
	Role              string    `json:"role"`
	RentedApartmentID *string   `json:"rentedApartmentId,omitempty"`
	AgreementID       *string   `json:"agreementId,omitempty"`
	CreatedAt         time.Time `json:"timestamp"`
}

// RegisterUser входные данные самостоятельной регистрации пользователя.
type RegisterUser struct {
	Email    string `json:"email" validate:"required,email"`
	Name     string `json:"name" validate:"omitempty,max=100"`
	PhotoURL string `json:"photoUrl" validate:"omitempty,url"`
}
