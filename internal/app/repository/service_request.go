package repository

import (
	"context"

	"cleaning-backend/internal/app/ds"
	"cleaning-backend/internal/app/negotiation"

	"gorm.io/gorm/clause"
)

// Методы для работы с заявками

// Создаёт заявку и подгружает клиента для ответа
func (r *Repository) CreateServiceRequest(ctx context.Context, req *ds.ServiceRequest) error {
	db := r.db.WithContext(ctx)
	if err := db.Omit(clause.Associations).Create(req).Error; err != nil {
		return err
	}
	return notFound(db.First(&req.Client, req.ClientID).Error, "client", req.ClientID)
}

// Получить заявку по ID вместе с клиентом
func (r *Repository) GetServiceRequest(ctx context.Context, id uint) (*ds.ServiceRequest, error) {
	var req ds.ServiceRequest
	err := r.db.WithContext(ctx).Preload("Client").First(&req, id).Error
	if err != nil {
		return nil, notFound(err, "service request", id)
	}
	return &req, nil
}

// SELECT ... FOR UPDATE вместе с клиентом, вызывается только внутри Transaction
func (r *Repository) LockServiceRequest(ctx context.Context, id uint) (*ds.ServiceRequest, error) {
	var req ds.ServiceRequest
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Preload("Client").
		First(&req, id).Error
	if err != nil {
		return nil, notFound(err, "service request", id)
	}
	return &req, nil
}

// Сохраняет все поля заявки. Клиент не трогаем
func (r *Repository) SaveServiceRequest(ctx context.Context, req *ds.ServiceRequest) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(req).Error
}

// Список заявок, новые сверху
func (r *Repository) ListServiceRequests(ctx context.Context, filter negotiation.RequestFilter) ([]ds.ServiceRequest, error) {
	query := r.db.WithContext(ctx).Preload("Client").Order("id DESC")
	if filter.ClientID != nil {
		query = query.Where("client_id = ?", *filter.ClientID)
	}
	if filter.State != "" {
		query = query.Where("state = ?", filter.State)
	}

	requests := make([]ds.ServiceRequest, 0)
	if err := query.Find(&requests).Error; err != nil {
		return nil, err
	}
	return requests, nil
}
