package models

import "time"

// Payment запись об оплате аренды. Сервис только журналирует платежи,
// расчёты выполняет внешний провайдер.
type Payment struct {
	ID            string    `json:"id"`
	Email         string    `json:"email"`
	ApartmentID   string    `json:"apartmentId"`
	Month         string    `json:"month"`
	Rent          int       `json:"rent"`
	Discount      int       `json:"discount"`
	Amount        int       `json:"amount"`
	CouponCode    string    `json:"couponCode,omitempty"`
	TransactionID string    `json:"transactionId"`
	CreatedAt     time.Time `json:"createdAt"`
}

// CreatePayment тело запроса на запись платежа.
type CreatePayment struct {
	ApartmentID   string `json:"apartmentId" validate:"required,uuid"`
	Month         string `json:"month" validate:"required"`
	Rent          int    `json:"rent" validate:"required,gt=0"`
	Discount      int    `json:"discount" validate:"min=0,max=100"`
	Amount        int    `json:"amount" validate:"required,gt=0"`
	CouponCode    string `json:"couponCode" validate:"omitempty,alphanum"`
	TransactionID string `json:"transactionId" validate:"required"`
}
