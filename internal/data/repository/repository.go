package repository

import (
	"furniture-catalog/pkg/database"

	"go.uber.org/zap"
)

type Repository struct {
	User    UserRepository
	Catalog CatalogRepository
}

// NewRepository builds the repositories over db. When users is nil the
// usuarios table is used as the identity backend.
func NewRepository(db database.PgxIface, users UserRepository, log *zap.Logger) *Repository {
	if users == nil {
		users = NewUserRepository(db, log)
	}

	return &Repository{
		User:    users,
		Catalog: NewCatalogRepository(db, log),
	}
}
