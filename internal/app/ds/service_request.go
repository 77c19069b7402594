package ds

import (
	"time"

	"gorm.io/datatypes"
)

type RequestState string

const (
	StateNew             RequestState = "new"
	StatePendingResponse RequestState = "pending_response"
	StateAccepted        RequestState = "accepted"
	StateRejected        RequestState = "rejected"
	StateCompleted       RequestState = "completed"
)

func (s RequestState) Valid() bool {
	switch s {
	case StateNew, StatePendingResponse, StateAccepted, StateRejected, StateCompleted:
		return true
	}
	return false
}

const (
	ServiceBasic     = "Basic"
	ServiceDeepClean = "Deep Clean"
	ServiceMoveOut   = "Move Out"
)

const MaxPhotos = 5

// Заявка на уборку
type ServiceRequest struct {
	ID       uint   `gorm:"primaryKey"`
	ClientID uint   `gorm:"not null;index"`
	Client   Client `gorm:"foreignKey:ClientID"`

	// Поля по предметной области
	ServiceType    string                      `gorm:"type:varchar(20);not null"` // Basic, Deep Clean, Move Out
	NumRooms       int                         `gorm:"type:int;not null"`
	RequestedDate  time.Time                   `gorm:"type:date;not null"`
	Address        string                      `gorm:"type:varchar(255);not null"`
	Note           string                      `gorm:"type:text"`
	Photos         datatypes.JSONSlice[string] `gorm:"type:jsonb"`
	ClientBudget   *float64                    `gorm:"type:decimal(10,2)"`
	SystemEstimate float64                     `gorm:"type:decimal(10,2);not null"`
	AddOutdoor     bool                        `gorm:"type:boolean;default:false;not null"`

	// Переговоры
	ManagerQuote   *float64   `gorm:"type:decimal(10,2)"`
	ScheduledTime  *time.Time `gorm:"default:null"`
	ManagerNote    string     `gorm:"type:text"`
	CurrentQuoteID *uint      `gorm:"default:null"` // последняя запись-предложение по заявке
	Round          int        `gorm:"type:int;default:0;not null"`

	// Оплата
	IsPaid         bool       `gorm:"type:boolean;default:false;not null"`
	ClientPaid     bool       `gorm:"type:boolean;default:false;not null"` // клиент сообщил об оплате, менеджер ещё не подтвердил
	IsDisputed     bool       `gorm:"type:boolean;default:false;not null"`
	DisputeNote    string     `gorm:"type:text"`
	CompletionDate *time.Time `gorm:"type:date;default:null"`

	State     RequestState `gorm:"type:varchar(20);not null;default:'new';index"`
	CreatedAt time.Time    `gorm:"not null"`
	UpdatedAt time.Time
}
