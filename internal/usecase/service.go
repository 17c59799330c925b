package usecase

import (
	"furniture-catalog/internal/data/repository"
	"furniture-catalog/pkg/cache"
	"furniture-catalog/pkg/utils"

	"go.uber.org/zap"
)

type Service struct {
	Auth    AuthService
	User    UserService
	Catalog CatalogService
}

func NewService(repo *repository.Repository, tokens TokenIssuer, c cache.Cache, config *utils.Config, log *zap.Logger) *Service {
	return &Service{
		Auth:    NewAuthService(repo, tokens, log),
		User:    NewUserService(repo.User, log),
		Catalog: NewCatalogService(repo, c, config.Redis.CacheTTL, log),
	}
}
