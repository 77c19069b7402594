package ds

import "time"

// Клиент. Регистрируется сам, удаляется только вне системы
type Client struct {
	ID            uint    `gorm:"primaryKey"`
	ClientCode    *string `gorm:"type:varchar(16);uniqueIndex"` // последовательный номер, дополненный нулями
	FirstName     string  `gorm:"type:varchar(100);not null"`
	LastName      string  `gorm:"type:varchar(100);not null"`
	Email         string  `gorm:"type:varchar(100);uniqueIndex;not null"`
	Phone         string  `gorm:"type:varchar(30)"`
	Address       string  `gorm:"type:varchar(255)"`
	PasswordHash  string  `gorm:"type:varchar(255);not null"`
	CardReference string  `gorm:"type:varchar(4)"` // только последние 4 цифры карты
	CreatedAt     time.Time
}

func (c Client) FullName() string {
	if c.LastName == "" {
		return c.FirstName
	}
	return c.FirstName + " " + c.LastName
}

func (c Client) Code() string {
	if c.ClientCode == nil {
		return ""
	}
	return *c.ClientCode
}
