package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"furniture-catalog/internal/data/entity"
	"furniture-catalog/internal/data/repository"
	"furniture-catalog/internal/dto/request"
	"furniture-catalog/internal/dto/response"
	"furniture-catalog/pkg/utils"

	"go.uber.org/zap"
)

type AuthService interface {
	Register(ctx context.Context, req *request.RegisterRequest) (*response.AuthResponse, error)
	Login(ctx context.Context, req *request.LoginRequest) (*response.AuthResponse, error)
	Logout(ctx context.Context, ip, userAgent string)
	RefreshToken(ctx context.Context, req *request.RefreshTokenRequest) (*response.RefreshResponse, error)
	VerifyToken(ctx context.Context, token string) (*response.VerifyResponse, error)
}

// TokenIssuer signs and checks access tokens.
type TokenIssuer interface {
	Generate(userID int64, email, role string) (string, time.Time, error)
	Verify(token string) (*utils.Claims, error)
	VerifyIgnoringExpiry(token string) (*utils.Claims, error)
	Expiry() time.Duration
}

type authService struct {
	repo   *repository.Repository
	tokens TokenIssuer
	log    *zap.Logger
}

func NewAuthService(
	repo *repository.Repository,
	tokens TokenIssuer,
	log *zap.Logger,
) AuthService {
	return &authService{
		repo:   repo,
		tokens: tokens,
		log:    log.With(zap.String("service", "auth")),
	}
}

func (s *authService) Register(ctx context.Context, req *request.RegisterRequest) (*response.AuthResponse, error) {
	// 1. Validasi input
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Register validation failed", zap.Any("errors", errs))
		return nil, utils.NewValidationError("Validation failed", errs)
	}

	// 2. Create account on the identity backend
	user, err := s.repo.User.Register(ctx, entity.NewUser{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Phone:    req.Phone,
	})
	if err != nil {
		if utils.KindOf(err) != utils.KindInternal {
			return nil, err
		}
		s.log.Error("Failed to register user", zap.Error(err), zap.String("email", req.Email))
		return nil, utils.WrapError(utils.KindInternal, "Internal server error during registration", err)
	}

	// 3. Auto login setelah register
	resp, err := s.issue(user)
	if err != nil {
		return nil, err
	}

	s.log.Info("User registered",
		zap.Int64("user_id", user.ID),
		zap.String("email", user.Email),
	)

	return resp, nil
}

func (s *authService) Login(ctx context.Context, req *request.LoginRequest) (*response.AuthResponse, error) {
	// 1. Validasi
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Login validation failed", zap.Any("errors", errs))
		return nil, utils.NewValidationError("Validation failed", errs)
	}

	// 2. Check credentials
	user, err := s.repo.User.Authenticate(ctx, req.Email, req.Password)
	if err != nil {
		if utils.KindOf(err) != utils.KindInternal {
			s.log.Warn("Login rejected", zap.String("email", req.Email), zap.Error(err))
			return nil, err
		}
		s.log.Error("Failed to authenticate", zap.Error(err), zap.String("email", req.Email))
		return nil, utils.WrapError(utils.KindInternal, "Internal server error during login", err)
	}

	// 3. Check status
	if !user.IsActive {
		s.log.Warn("Login attempt on deactivated account", zap.Int64("user_id", user.ID))
		return nil, utils.NewForbiddenError("Account is deactivated")
	}

	resp, err := s.issue(user)
	if err != nil {
		return nil, err
	}

	s.log.Info("User logged in",
		zap.Int64("user_id", user.ID),
		zap.String("email", user.Email),
	)

	return resp, nil
}

// Logout only records the event; tokens are stateless and stay valid until
// they expire.
func (s *authService) Logout(ctx context.Context, ip, userAgent string) {
	fields := []zap.Field{
		zap.String("ip", ip),
		zap.String("user_agent", userAgent),
	}
	if userID, ok := utils.GetUserIDFromContext(ctx); ok {
		fields = append(fields, zap.Int64("user_id", userID))
	}

	s.log.Info("User logged out", fields...)
}

// RefreshToken issues a new token for a token with a valid signature,
// issuer and audience, even when it has expired, provided its subject is
// still an active user.
func (s *authService) RefreshToken(ctx context.Context, req *request.RefreshTokenRequest) (*response.RefreshResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, utils.NewValidationError("Token required for renewal", errs)
	}

	claims, err := s.tokens.VerifyIgnoringExpiry(req.Token)
	if err != nil {
		s.log.Warn("Refresh with invalid token", zap.Error(err))
		return nil, utils.NewUnauthorizedError("Invalid token for renewal")
	}

	user, err := s.activeUser(ctx, claims.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, utils.NewUnauthorizedError("User not valid for token renewal")
	}

	token, expiresAt, err := s.tokens.Generate(user.ID, user.Email, string(user.Role))
	if err != nil {
		s.log.Error("Failed to sign token", zap.Error(err), zap.Int64("user_id", user.ID))
		return nil, fmt.Errorf("sign token: %w", err)
	}

	s.log.Info("Token refreshed", zap.Int64("user_id", user.ID), zap.String("email", user.Email))

	return &response.RefreshResponse{
		Token:     token,
		ExpiresIn: response.FormatDuration(s.tokens.Expiry()),
		ExpiresAt: expiresAt,
	}, nil
}

func (s *authService) VerifyToken(ctx context.Context, token string) (*response.VerifyResponse, error) {
	if token == "" {
		return nil, utils.NewUnauthorizedError("Token not provided")
	}

	claims, err := s.tokens.Verify(token)
	if errors.Is(err, utils.ErrTokenExpired) {
		return nil, utils.NewUnauthorizedError("Token expired")
	}
	if err != nil {
		return nil, utils.NewUnauthorizedError("Invalid token")
	}

	user, err := s.activeUser(ctx, claims.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, utils.NewUnauthorizedError("User not valid")
	}

	expiresAt := claims.ExpiresAt.Time
	userResp := response.UserToResponse(user)

	return &response.VerifyResponse{
		Valid:     true,
		ExpiresAt: &expiresAt,
		User:      &userResp,
	}, nil
}

// activeUser loads id and returns nil when it is missing or deactivated.
func (s *authService) activeUser(ctx context.Context, id int64) (*entity.User, error) {
	user, err := s.repo.User.FindByID(ctx, id)
	if err != nil {
		s.log.Error("Failed to load token subject", zap.Error(err), zap.Int64("user_id", id))
		return nil, fmt.Errorf("load user %d: %w", id, err)
	}
	if user == nil || !user.IsActive {
		s.log.Warn("Token subject missing or inactive", zap.Int64("user_id", id))
		return nil, nil
	}
	return user, nil
}

func (s *authService) issue(user *entity.User) (*response.AuthResponse, error) {
	token, expiresAt, err := s.tokens.Generate(user.ID, user.Email, string(user.Role))
	if err != nil {
		s.log.Error("Failed to sign token", zap.Error(err), zap.Int64("user_id", user.ID))
		return nil, fmt.Errorf("sign token: %w", err)
	}

	resp := response.AuthToResponse(user, token, expiresAt)
	return &resp, nil
}
