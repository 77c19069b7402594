package repository

import (
	"context"
	"fmt"
	"strings"

	"cleaning-backend/internal/app/ds"

	"gorm.io/gorm"
)

// Методы для клиентов и менеджеров (ORM)

// CreateClient сохраняет клиента и в той же транзакции присваивает ему код 000042
func (r *Repository) CreateClient(ctx context.Context, client *ds.Client) error {
	client.Email = strings.ToLower(strings.TrimSpace(client.Email))

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(client).Error; err != nil {
			return duplicate(err, "client "+client.Email)
		}

		code := fmt.Sprintf("%06d", client.ID)
		if err := tx.Model(client).Update("client_code", code).Error; err != nil {
			return err
		}
		client.ClientCode = &code
		return nil
	})
}

func (r *Repository) GetClientByID(ctx context.Context, id uint) (*ds.Client, error) {
	var client ds.Client
	if err := r.db.WithContext(ctx).First(&client, id).Error; err != nil {
		return nil, notFound(err, "client", id)
	}
	return &client, nil
}

func (r *Repository) GetClientByEmail(ctx context.Context, email string) (*ds.Client, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	var client ds.Client
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&client).Error; err != nil {
		return nil, notFound(err, "client", email)
	}
	return &client, nil
}

// CreateAdmin используется только утилитой cmd/create-admin
func (r *Repository) CreateAdmin(ctx context.Context, admin *ds.Admin) error {
	if err := r.db.WithContext(ctx).Create(admin).Error; err != nil {
		return duplicate(err, "admin "+admin.Username)
	}
	return nil
}

func (r *Repository) GetAdminByID(ctx context.Context, id uint) (*ds.Admin, error) {
	var admin ds.Admin
	if err := r.db.WithContext(ctx).First(&admin, id).Error; err != nil {
		return nil, notFound(err, "admin", id)
	}
	return &admin, nil
}

func (r *Repository) GetAdminByUsername(ctx context.Context, username string) (*ds.Admin, error) {
	var admin ds.Admin
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&admin).Error; err != nil {
		return nil, notFound(err, "admin", username)
	}
	return &admin, nil
}
