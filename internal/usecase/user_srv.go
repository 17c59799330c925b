package usecase

import (
	"context"
	"fmt"

	"furniture-catalog/internal/data/repository"
	"furniture-catalog/internal/dto/response"
	"furniture-catalog/pkg/utils"

	"go.uber.org/zap"
)

type UserService interface {
	GetProfile(ctx context.Context, userID int64) (*response.UserResponse, error)
}

type userService struct {
	userRepo repository.UserRepository
	log      *zap.Logger
}

func NewUserService(userRepo repository.UserRepository, log *zap.Logger) UserService {
	return &userService{
		userRepo: userRepo,
		log:      log.With(zap.String("service", "user")),
	}
}

// GetProfile returns the account behind an authenticated request. Deactivated
// accounts are reported as missing.
func (us *userService) GetProfile(ctx context.Context, userID int64) (*response.UserResponse, error) {
	user, err := us.userRepo.FindByID(ctx, userID)
	if err != nil {
		us.log.Error("Failed to find user", zap.Error(err), zap.Int64("user_id", userID))
		return nil, fmt.Errorf("get profile: %w", err)
	}
	if user == nil || !user.IsActive {
		return nil, utils.NewNotFoundError("User not found")
	}

	resp := response.UserToResponse(user)
	return &resp, nil
}
