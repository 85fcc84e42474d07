package model

import "time"

type User struct {
	ID        string `gorm:"primaryKey"`
	Email     string `gorm:"uniqueIndex;not null"`
	Username  string `gorm:"uniqueIndex;not null"`
	Password  string `gorm:"not null"`
	Role      string `gorm:"default:user"`
	IsActive  bool   `gorm:"default:true"`
	LastLogin *time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}
