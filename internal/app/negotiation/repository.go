package negotiation

import (
	"context"

	"cleaning-backend/internal/app/ds"
)

//go:generate mockgen -source=repository.go -destination=mocks/mock_repository.go -package=mocks

// RequestFilter ограничивает выборку заявок. Nil ClientID - все клиенты
type RequestFilter struct {
	ClientID *uint
	State    ds.RequestState
}

// Repository хранилище заявок и журнала переговоров.
// Transaction выполняет fn в одной транзакции; ошибка fn откатывает все записи.
type Repository interface {
	Transaction(ctx context.Context, fn func(tx Repository) error) error

	CreateServiceRequest(ctx context.Context, req *ds.ServiceRequest) error
	GetServiceRequest(ctx context.Context, id uint) (*ds.ServiceRequest, error)
	// LockServiceRequest читает заявку с блокировкой строки до конца транзакции
	LockServiceRequest(ctx context.Context, id uint) (*ds.ServiceRequest, error)
	SaveServiceRequest(ctx context.Context, req *ds.ServiceRequest) error
	ListServiceRequests(ctx context.Context, filter RequestFilter) ([]ds.ServiceRequest, error)

	ListRecords(ctx context.Context, requestID *uint) ([]ds.Record, error)
	LatestPendingQuote(ctx context.Context, requestID uint) (*ds.Record, error)
	AppendQuote(ctx context.Context, draft ds.QuoteDraft) (uint, error)
	RespondToQuote(ctx context.Context, requestID uint, responseText string, responseState ds.RecordState) (int64, error)
	SupersedePendingQuotes(ctx context.Context, requestID uint) (int64, error)
	AppendMessage(ctx context.Context, requestID uint, sender ds.Sender, body string) (uint, error)
}

// Notifier получает события после фиксации транзакции
type Notifier interface {
	Notify(ctx context.Context, event Event) error
}
