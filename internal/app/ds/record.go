package ds

import "time"

type ItemType string

const (
	ItemQuote   ItemType = "quote"
	ItemMessage ItemType = "message"
)

type Sender string

const (
	SenderManager Sender = "manager"
	SenderClient  Sender = "client"
)

type RecordState string

const (
	RecordPending    RecordState = "pending"
	RecordAccepted   RecordState = "accepted"
	RecordRejected   RecordState = "rejected"
	RecordSuperseded RecordState = "superseded"
	RecordSent       RecordState = "sent"
)

// Запись журнала переговоров. Предложение (quote) меняется один раз - при ответе клиента
type Record struct {
	ID             uint        `gorm:"primaryKey"`
	RequestID      uint        `gorm:"not null;index:idx_records_pending,priority:1"`
	Round          int         `gorm:"type:int;default:0;not null"`
	ItemType       ItemType    `gorm:"type:varchar(10);not null;index:idx_records_pending,priority:2"`
	Price          *float64    `gorm:"type:decimal(10,2)"`
	BusinessTime   *time.Time  `gorm:"default:null"`
	SenderName     Sender      `gorm:"type:varchar(10);not null"`
	MessageBody    string      `gorm:"type:text"`
	State          RecordState `gorm:"type:varchar(12);not null;index:idx_records_pending,priority:3"`
	ClientResponse *string     `gorm:"type:text"`
	ResponseTime   *time.Time  `gorm:"default:null"`
	CreatedAt      time.Time   `gorm:"not null"`
}

// QuoteDraft параметры нового предложения. Пустой State означает pending
type QuoteDraft struct {
	RequestID    uint
	Round        int
	Price        float64
	BusinessTime *time.Time
	Note         string
	Sender       Sender
	State        RecordState
}
