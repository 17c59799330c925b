package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"furniture-catalog/internal/data/entity"
	"furniture-catalog/internal/dto/request"
	"furniture-catalog/pkg/utils"

	"go.uber.org/zap"
)

var testJWT = utils.JWTConfig{
	Secret:    "usecase-test-secret-usecase-test-secret",
	ExpiresIn: 24 * time.Hour,
	Issuer:    "sistema-muebles",
	Audience:  "sistema-muebles-users",
}

func setupAuthService(t *testing.T) (AuthService, *fakeUserRepository, *utils.TokenManager) {
	t.Helper()
	users := newFakeUserRepository()
	tokens := utils.NewTokenManager(testJWT)
	svc := NewAuthService(newTestRepository(users, newFakeCatalogRepository()), tokens, zap.NewNop())
	return svc, users, tokens
}

func validRegister() *request.RegisterRequest {
	return &request.RegisterRequest{
		Name:                 "Ana Pérez",
		Email:                "ana@example.com",
		Password:             "secret1",
		PasswordConfirmation: "secret1",
	}
}

func TestAuthService_RegisterIssuesValidToken(t *testing.T) {
	svc, _, tokens := setupAuthService(t)

	resp, err := svc.Register(context.Background(), validRegister())
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if resp.Token == "" || resp.RefreshToken != resp.Token {
		t.Fatalf("unexpected tokens: %+v", resp)
	}

	claims, err := tokens.Verify(resp.Token)
	if err != nil {
		t.Fatalf("issued token does not verify: %v", err)
	}
	if claims.UserID != resp.User.ID || claims.Role != utils.RoleCustomer || claims.Email != "ana@example.com" {
		t.Errorf("claims = %+v, user = %+v", claims, resp.User)
	}
}

func TestAuthService_RegisterDuplicate(t *testing.T) {
	svc, _, _ := setupAuthService(t)

	if _, err := svc.Register(context.Background(), validRegister()); err != nil {
		t.Fatalf("first Register() error = %v", err)
	}
	_, err := svc.Register(context.Background(), validRegister())
	if utils.KindOf(err) != utils.KindConflict {
		t.Errorf("second Register() kind = %v, want conflict", utils.KindOf(err))
	}
}

func TestAuthService_RegisterValidation(t *testing.T) {
	svc, _, _ := setupAuthService(t)

	req := validRegister()
	req.PasswordConfirmation = "different"
	req.Email = "not-an-email"

	_, err := svc.Register(context.Background(), req)
	var appErr *utils.AppError
	if !errors.As(err, &appErr) || appErr.Kind != utils.KindValidation {
		t.Fatalf("error = %v, want validation", err)
	}
	if appErr.Details["password_confirmation"] == "" || appErr.Details["email"] == "" {
		t.Errorf("details = %v", appErr.Details)
	}
}

func TestAuthService_RegisterBackendFailure(t *testing.T) {
	svc, users, _ := setupAuthService(t)
	users.err = errors.New("connection refused")

	_, err := svc.Register(context.Background(), validRegister())
	if utils.KindOf(err) != utils.KindInternal || err == nil {
		t.Errorf("error = %v, want internal", err)
	}
}

func TestAuthService_Login(t *testing.T) {
	svc, users, _ := setupAuthService(t)
	users.add("Ana", "ana@example.com", "secret1", entity.RoleAdmin, true)
	users.add("Old", "old@example.com", "secret1", entity.RoleCustomer, false)

	tests := []struct {
		name     string
		email    string
		password string
		wantKind utils.ErrorKind
		wantErr  bool
	}{
		{name: "ok", email: "ana@example.com", password: "secret1"},
		{name: "wrong password", email: "ana@example.com", password: "nope", wantErr: true, wantKind: utils.KindUnauthorized},
		{name: "unknown email", email: "who@example.com", password: "secret1", wantErr: true, wantKind: utils.KindUnauthorized},
		{name: "deactivated", email: "old@example.com", password: "secret1", wantErr: true, wantKind: utils.KindForbidden},
		{name: "invalid payload", email: "", password: "", wantErr: true, wantKind: utils.KindValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := svc.Login(context.Background(), &request.LoginRequest{Email: tt.email, Password: tt.password})
			if !tt.wantErr {
				if err != nil {
					t.Fatalf("Login() error = %v", err)
				}
				if resp.User.Role != entity.RoleAdmin {
					t.Errorf("role = %q", resp.User.Role)
				}
				return
			}
			if utils.KindOf(err) != tt.wantKind {
				t.Errorf("kind = %v, want %v (err=%v)", utils.KindOf(err), tt.wantKind, err)
			}
		})
	}
}

func TestAuthService_RefreshAcceptsExpiredToken(t *testing.T) {
	svc, users, tokens := setupAuthService(t)
	user := users.add("Ana", "ana@example.com", "secret1", entity.RoleCustomer, true)

	expiredCfg := testJWT
	expiredCfg.ExpiresIn = -time.Hour
	expired, _, err := utils.NewTokenManager(expiredCfg).Generate(user.ID, user.Email, utils.RoleCustomer)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	resp, err := svc.RefreshToken(context.Background(), &request.RefreshTokenRequest{Token: expired})
	if err != nil {
		t.Fatalf("RefreshToken() error = %v", err)
	}
	if resp.ExpiresIn != "24h" {
		t.Errorf("ExpiresIn = %q, want 24h", resp.ExpiresIn)
	}
	if claims, err := tokens.Verify(resp.Token); err != nil || claims.UserID != user.ID {
		t.Errorf("refreshed token invalid: %v", err)
	}
}

func TestAuthService_RefreshRejections(t *testing.T) {
	svc, users, tokens := setupAuthService(t)
	inactive := users.add("Old", "old@example.com", "pw", entity.RoleCustomer, false)
	inactiveToken, _, _ := tokens.Generate(inactive.ID, inactive.Email, utils.RoleCustomer)
	ghostToken, _, _ := tokens.Generate(999, "ghost@example.com", utils.RoleCustomer)

	otherCfg := testJWT
	otherCfg.Secret = "some-other-secret-some-other-secret"
	forged, _, _ := utils.NewTokenManager(otherCfg).Generate(inactive.ID, inactive.Email, utils.RoleAdmin)

	tests := []struct {
		name  string
		token string
		want  utils.ErrorKind
	}{
		{name: "missing", token: "", want: utils.KindValidation},
		{name: "bad signature", token: forged, want: utils.KindUnauthorized},
		{name: "inactive user", token: inactiveToken, want: utils.KindUnauthorized},
		{name: "unknown user", token: ghostToken, want: utils.KindUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.RefreshToken(context.Background(), &request.RefreshTokenRequest{Token: tt.token})
			if utils.KindOf(err) != tt.want || err == nil {
				t.Errorf("error = %v, want kind %v", err, tt.want)
			}
		})
	}
}

func TestAuthService_VerifyToken(t *testing.T) {
	svc, users, tokens := setupAuthService(t)
	user := users.add("Ana", "ana@example.com", "pw", entity.RoleCustomer, true)
	valid, exp, _ := tokens.Generate(user.ID, user.Email, utils.RoleCustomer)

	expiredCfg := testJWT
	expiredCfg.ExpiresIn = -time.Minute
	expired, _, _ := utils.NewTokenManager(expiredCfg).Generate(user.ID, user.Email, utils.RoleCustomer)

	resp, err := svc.VerifyToken(context.Background(), valid)
	if err != nil {
		t.Fatalf("VerifyToken() error = %v", err)
	}
	if !resp.Valid || resp.User.ID != user.ID || !resp.ExpiresAt.Equal(exp.Truncate(time.Second)) {
		t.Errorf("resp = %+v (exp %v)", resp, exp)
	}

	tests := []struct {
		name    string
		token   string
		message string
	}{
		{name: "missing", token: "", message: "Token not provided"},
		{name: "expired", token: expired, message: "Token expired"},
		{name: "garbage", token: "abc", message: "Invalid token"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.VerifyToken(context.Background(), tt.token)
			var appErr *utils.AppError
			if !errors.As(err, &appErr) || appErr.Kind != utils.KindUnauthorized {
				t.Fatalf("error = %v, want unauthorized", err)
			}
			if appErr.Message != tt.message {
				t.Errorf("message = %q, want %q", appErr.Message, tt.message)
			}
		})
	}
}
