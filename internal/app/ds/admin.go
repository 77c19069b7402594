package ds

import "time"

// Менеджер. Создаётся только утилитой cmd/create-admin
type Admin struct {
	ID           uint   `gorm:"primaryKey"`
	Username     string `gorm:"type:varchar(50);uniqueIndex;not null"`
	FullName     string `gorm:"type:varchar(100)"`
	PasswordHash string `gorm:"type:varchar(255);not null"`
	CreatedAt    time.Time
}
