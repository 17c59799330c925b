package response

import (
	"fmt"
	"time"

	"furniture-catalog/internal/data/entity"
)

type UserResponse struct {
	ID        int64           `json:"id"`
	Name      string          `json:"nombre"`
	Email     string          `json:"email"`
	Phone     *string         `json:"telefono"`
	Role      entity.UserRole `json:"rol"`
	IsActive  bool            `json:"activo"`
	CreatedAt *time.Time      `json:"fecha_registro,omitempty"`
}

type AuthResponse struct {
	Token        string       `json:"token"`
	RefreshToken string       `json:"refreshToken"`
	ExpiresAt    time.Time    `json:"expiresAt"`
	User         UserResponse `json:"usuario"`
}

type RefreshResponse struct {
	Token     string    `json:"token"`
	ExpiresIn string    `json:"expiresIn"`
	ExpiresAt time.Time `json:"expiresAt"`
}

type VerifyResponse struct {
	Valid     bool          `json:"valid"`
	ExpiresAt *time.Time    `json:"expiresAt,omitempty"`
	User      *UserResponse `json:"usuario,omitempty"`
}

// Helper converters
func UserToResponse(user *entity.User) UserResponse {
	resp := UserResponse{
		ID:       user.ID,
		Name:     user.Name,
		Email:    user.Email,
		Phone:    user.Phone,
		Role:     user.Role,
		IsActive: user.IsActive,
	}
	if !user.CreatedAt.IsZero() {
		created := user.CreatedAt
		resp.CreatedAt = &created
	}
	return resp
}

// AuthToResponse pairs a user with a freshly issued token. The same token is
// returned as refreshToken since refresh accepts expired access tokens.
func AuthToResponse(user *entity.User, token string, expiresAt time.Time) AuthResponse {
	return AuthResponse{
		Token:        token,
		RefreshToken: token,
		ExpiresAt:    expiresAt,
		User:         UserToResponse(user),
	}
}

// FormatDuration renders whole hours and minutes the short way ("24h",
// "30m") and anything else with time.Duration.String.
func FormatDuration(d time.Duration) string {
	switch {
	case d > 0 && d%time.Hour == 0:
		return fmt.Sprintf("%dh", d/time.Hour)
	case d > 0 && d%time.Minute == 0:
		return fmt.Sprintf("%dm", d/time.Minute)
	default:
		return d.String()
	}
}
