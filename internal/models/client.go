package models

import "time"

type Client struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Name         string `gorm:"size:100;not null" json:"name"`
	Phone        string `gorm:"size:20;index" json:"phone"`
	Email        string `gorm:"size:100" json:"email"`
	IsSubscriber bool   `gorm:"default:false" json:"is_subscriber"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
