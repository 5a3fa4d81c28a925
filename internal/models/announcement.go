package models

import "time"

// Announcement объявление администрации для жильцов.
type Announcement struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
}

// CreateAnnouncement тело запроса на публикацию объявления.
type CreateAnnouncement struct {
	Title       string `json:"title" validate:"required,max=200"`
	Description string `json:"description" validate:"required"`
}
