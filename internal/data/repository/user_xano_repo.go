package repository

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"furniture-catalog/internal/data/entity"
	"furniture-catalog/pkg/utils"
	"furniture-catalog/pkg/xano"

	"go.uber.org/zap"
)

// XanoAPI is the part of the Xano client used for identity calls.
type XanoAPI interface {
	Get(ctx context.Context, endpoint string, params url.Values, token string, out any) error
	Post(ctx context.Context, endpoint string, body any, token string, out any) error
}

type xanoUser struct {
	ID        int64    `json:"id"`
	Name      string   `json:"nombre"`
	Email     string   `json:"email"`
	Phone     *string  `json:"telefono"`
	Role      string   `json:"rol"`
	Active    *bool    `json:"activo"`
	CreatedAt xanoTime `json:"created_at"`
}

type xanoAuthResponse struct {
	AuthToken string    `json:"authToken"`
	User      *xanoUser `json:"user"`
}

// xanoTime accepts Xano timestamps, which are epoch milliseconds, as well as
// RFC 3339 strings.
type xanoTime struct {
	time.Time
}

func (t *xanoTime) UnmarshalJSON(b []byte) error {
	raw := strings.Trim(string(b), `"`)
	if raw == "" || raw == "null" {
		return nil
	}

	if ms, err := strconv.ParseInt(raw, 10, 64); err == nil {
		t.Time = time.UnixMilli(ms).UTC()
		return nil
	}

	parsed, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return fmt.Errorf("parse xano timestamp %q: %w", raw, err)
	}
	t.Time = parsed
	return nil
}

func (u *xanoUser) toEntity() *entity.User {
	user := &entity.User{
		Name:     u.Name,
		Email:    u.Email,
		Phone:    u.Phone,
		Role:     entity.ParseRole(u.Role),
		IsActive: u.Active == nil || *u.Active,
	}
	user.ID = u.ID
	user.CreatedAt = u.CreatedAt.Time
	return user
}

type xanoUserRepository struct {
	api XanoAPI
	log *zap.Logger
}

func NewXanoUserRepository(api XanoAPI, log *zap.Logger) UserRepository {
	return &xanoUserRepository{
		api: api,
		log: log.With(zap.String("repository", "xano_user")),
	}
}

func (xr *xanoUserRepository) Register(ctx context.Context, input entity.NewUser) (*entity.User, error) {
	body := map[string]any{
		"nombre":   input.Name,
		"email":    strings.ToLower(strings.TrimSpace(input.Email)),
		"password": input.Password,
		"telefono": input.Phone,
	}

	var resp xanoAuthResponse
	err := xr.api.Post(ctx, "/auth/signup", body, "", &resp)
	if err != nil {
		status := xano.StatusOf(err)
		msg := strings.ToLower(err.Error())
		switch {
		case status == http.StatusConflict || strings.Contains(msg, "duplicate") || strings.Contains(msg, "already exists"):
			return nil, utils.NewConflictError(msgEmailTaken)
		case status == http.StatusBadRequest:
			return nil, utils.NewValidationError(remoteMessage(err, "Invalid registration data"), nil)
		}

		xr.log.Error("Xano signup failed", zap.Error(err), zap.String("email", input.Email))
		return nil, fmt.Errorf("xano signup: %w", err)
	}

	return xr.resolveUser(ctx, resp)
}

func (xr *xanoUserRepository) Authenticate(ctx context.Context, email, password string) (*entity.User, error) {
	body := map[string]string{
		"email":    strings.ToLower(strings.TrimSpace(email)),
		"password": password,
	}

	var resp xanoAuthResponse
	err := xr.api.Post(ctx, "/auth/login", body, "", &resp)
	if err != nil {
		switch xano.StatusOf(err) {
		case http.StatusUnauthorized, http.StatusForbidden:
			return nil, utils.NewUnauthorizedError(msgInvalidCredentials)
		case http.StatusNotFound:
			return nil, utils.NewUnauthorizedError("User not found. Check your email or register")
		case http.StatusBadRequest:
			return nil, utils.NewValidationError("Invalid login data", nil)
		}

		xr.log.Error("Xano login failed", zap.Error(err), zap.String("email", email))
		return nil, fmt.Errorf("xano login: %w", err)
	}

	return xr.resolveUser(ctx, resp)
}

func (xr *xanoUserRepository) FindByID(ctx context.Context, id int64) (*entity.User, error) {
	var u xanoUser
	err := xr.api.Get(ctx, "/user/"+strconv.FormatInt(id, 10), nil, "", &u)
	if xano.StatusOf(err) == http.StatusNotFound {
		return nil, nil
	}
	if err != nil {
		xr.log.Error("Xano user lookup failed", zap.Error(err), zap.Int64("user_id", id))
		return nil, fmt.Errorf("xano find user %d: %w", id, err)
	}
	if u.ID == 0 {
		return nil, nil
	}

	return u.toEntity(), nil
}

// resolveUser returns the user embedded in an auth response, falling back to
// /auth/me with the issued token when the endpoint only returns the token.
func (xr *xanoUserRepository) resolveUser(ctx context.Context, resp xanoAuthResponse) (*entity.User, error) {
	if resp.User != nil && resp.User.ID != 0 {
		return resp.User.toEntity(), nil
	}
	if resp.AuthToken == "" {
		return nil, errors.New("xano auth response carried neither user nor token")
	}

	var u xanoUser
	if err := xr.api.Get(ctx, "/auth/me", nil, resp.AuthToken, &u); err != nil {
		xr.log.Error("Xano /auth/me failed", zap.Error(err))
		return nil, fmt.Errorf("xano auth me: %w", err)
	}

	return u.toEntity(), nil
}

func remoteMessage(err error, fallback string) string {
	var apiErr *xano.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}
