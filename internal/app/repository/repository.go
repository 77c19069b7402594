package repository

import (
	"context"
	"errors"
	"fmt"

	"cleaning-backend/internal/app/ds"
	"cleaning-backend/internal/app/negotiation"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// ErrAlreadyExists нарушение уникального индекса (email клиента, логин менеджера)
var ErrAlreadyExists = errors.New("already exists")

type Repository struct {
	db *gorm.DB
}

func New(dsn string) (*Repository, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, err
	}

	// Автоматическая миграция всех таблиц
	if err = Migrate(db); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return &Repository{
		db: db,
	}, nil
}

// Migrate создаёт или обновляет таблицы admins, clients, service_requests, records
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&ds.Admin{},
		&ds.Client{},
		&ds.ServiceRequest{},
		&ds.Record{},
	)
}

var _ negotiation.Repository = (*Repository)(nil)

// Transaction открывает транзакцию gorm; fn получает репозиторий поверх неё
func (r *Repository) Transaction(ctx context.Context, fn func(tx negotiation.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Repository{db: tx})
	})
}

func (r *Repository) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func notFound(err error, entity string, key any) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s %v: %w", entity, key, negotiation.ErrNotFound)
	}
	return err
}

func duplicate(err error, entity string) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return fmt.Errorf("%s: %w", entity, ErrAlreadyExists)
	}
	return err
}
