// Package storage объявляет ошибки уровня хранилища, общие для всех реализаций.
package storage

import "errors"

var (
	// ErrNotFound запись не найдена.
	ErrNotFound = errors.New("record not found")
	// ErrAlreadyExists нарушено ограничение уникальности.
	ErrAlreadyExists = errors.New("record already exists")
	// ErrNotPending договор уже вышел из статуса pending.
	ErrNotPending = errors.New("agreement is not pending")
	// ErrAlreadyMember у пользователя уже есть одобренный договор.
	ErrAlreadyMember = errors.New("user already holds a checked agreement")
	// ErrApartmentRented квартира уже сдана по другому договору.
	ErrApartmentRented = errors.New("apartment is already rented")
	// ErrAdminTarget операция не применима к администратору.
	ErrAdminTarget = errors.New("operation is not allowed for admin")
)
