package models

import "time"

// Coupon промокод на скидку к арендной плате.
type Coupon struct {
	ID          string    `json:"id"`
	Code        string    `json:"code"`
	Discount    int       `json:"discount"`
	Description string    `json:"description"`
	IsAvailable bool      `json:"isAvailable"`
	CreatedAt   time.Time `json:"createdAt"`
}

// CreateCoupon тело запроса на создание купона.
type CreateCoupon struct {
	Code        string `json:"code" validate:"required,alphanum,max=32"`
	Discount    int    `json:"discount" validate:"required,min=1,max=100"`
	Description string `json:"description" validate:"max=500"`
	IsAvailable *bool  `json:"isAvailable"`
}

// SetCouponAvailability тело запроса на переключение доступности купона.
type SetCouponAvailability struct {
	IsAvailable *bool `json:"isAvailable" validate:"required"`
}

// ValidateCoupon тело запроса на проверку промокода.
type ValidateCoupon struct {
	Code string `json:"code" validate:"required"`
}

// CouponValidation результат проверки промокода. Невалидный код это
// штатный исход, а не ошибка.
type CouponValidation struct {
	Valid    bool   `json:"valid"`
	Code     string `json:"code,omitempty"`
	Discount int    `json:"discount,omitempty"`
}
