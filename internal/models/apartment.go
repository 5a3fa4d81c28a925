package models

import "time"

// Apartment квартира в здании. IsRented выставляется только движком
// жизненного цикла договоров.
type Apartment struct {
	ID          string    `json:"id"`
	ImageURL    string    `json:"apartmentImage"`
	FloorNo     int       `json:"floorNo"`
	BlockName   string    `json:"blockName"`
	ApartmentNo string    `json:"apartmentNo"`
	Rent        int       `json:"rent"`
	IsRented    bool      `json:"isRented"`
	CreatedAt   time.Time `json:"createdAt"`
}

// RentFilter диапазон арендной платы. Nil означает отсутствие фильтра.
type RentFilter struct {
	Min int
	Max int
}

// ApartmentPage параметры постраничной выборки квартир.
type ApartmentPage struct {
	Page   int
	Size   int
	Filter *RentFilter
}

// Offset возвращает смещение для SQL‑запроса.
func (p ApartmentPage) Offset() int {
	return (p.Page - 1) * p.Size
}

// AdminStats агрегированная статистика заполненности здания.
type AdminStats struct {
	TotalApartments     int     `json:"totalApartments"`
	AvailableApartments int     `json:"availableApartments"`
	RentedApartments    int     `json:"rentedApartments"`
	AvailablePercentage float64 `json:"availablePercentage"`
	RentedPercentage    float64 `json:"rentedPercentage"`
	Users               int     `json:"users"`
	Members             int     `json:"members"`
}
