package models

import "time"

// Статусы договора аренды.
const (
	AgreementPending    = "pending"
	AgreementChecked    = "checked"
	AgreementRejected   = "rejected"
	AgreementTerminated = "terminated"
)

// Agreement заявка пользователя на аренду квартиры.
type Agreement struct {
	ID             string     `json:"id"`
	UserEmail      string     `json:"userEmail"`
	UserName       string     `json:"userName"`
	ApartmentID    string     `json:"apartmentId"`
	FloorNo        int        `json:"floorNo"`
	BlockName      string     `json:"blockName"`
	ApartmentNo    string     `json:"apartmentNo"`
	Rent           int        `json:"rent"`
	Status         string     `json:"status"`
	CreatedAt      time.Time  `json:"createdAt"`
	CheckedDate    *time.Time `json:"checkedDate,omitempty"`
	TerminatedDate *time.Time `json:"terminatedDate,omitempty"`
}

// SubmitAgreement тело запроса на подачу заявки.
type SubmitAgreement struct {
	ApartmentID string `json:"apartmentId" validate:"required,uuid"`
}

// ChangeAgreementStatus тело запроса администратора на смену статуса.
type ChangeAgreementStatus struct {
	Status string `json:"status" validate:"required,oneof=checked rejected"`
}

// Результат одного шага каскада.
const (
	CascadeApplied  = "applied"
	CascadeSkipped  = "skipped"
	CascadeNotFound = "not_found"
)

// TransitionResult итог смены статуса договора вместе с состоянием каскада.
// Для rejected оба шага каскада имеют значение skipped.
type TransitionResult struct {
	Agreement Agreement `json:"agreement"`
	User      string    `json:"user"`
	Apartment string    `json:"apartment"`
}

// Partial сообщает, что основной статус записан, но хотя бы один шаг каскада не применился.
func (r TransitionResult) Partial() bool {
	return r.Agreement.Status == AgreementChecked &&
		(r.User != CascadeApplied || r.Apartment != CascadeApplied)
}

// ResetResult итог сброса участника до обычного пользователя.
type ResetResult struct {
	Modified              bool   `json:"modified"`
	TerminatedAgreementID string `json:"terminatedAgreementId,omitempty"`
	ReleasedApartmentID   string `json:"releasedApartmentId,omitempty"`
}

// ReconcileResult количество записей, исправленных проходом сверки.
type ReconcileResult struct {
	ApartmentsRented   int `json:"apartmentsRented"`
	ApartmentsReleased int `json:"apartmentsReleased"`
	UsersPromoted      int `json:"usersPromoted"`
	UsersDemoted       int `json:"usersDemoted"`
}

// Total общее число исправленных записей.
func (r ReconcileResult) Total() int {
	return r.ApartmentsRented + r.ApartmentsReleased + r.UsersPromoted + r.UsersDemoted
}
