package repository

import (
	"errors"
	"fmt"

	"greenbites/internal/app/ds"
	"greenbites/internal/app/lifecycle"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type Repository struct {
	db *gorm.DB
}

func New(dsn string) (*Repository, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	// Автоматическая миграция всех таблиц
	err = db.AutoMigrate(
		&ds.User{},
		&ds.Donation{},
		&ds.Request{},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return &Repository{
		db: db,
	}, nil
}

// репозиторий реализует контракт хранилища ядра
var _ lifecycle.Store = (*Repository)(nil)

func translateNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return lifecycle.ErrNotFound
	}
	return err
}
