package utils

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	RoleCustomer = "customer"
	RoleAdmin    = "admin"
)

var (
	ErrTokenExpired = errors.New("token expired")
	ErrTokenInvalid = errors.New("invalid token")
)

// Claims is the payload of tokens issued by TokenManager. The subject holds
// the user id.
type Claims struct {
	UserID int64  `json:"-"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// TokenManager signs and verifies HS256 access tokens.
type TokenManager struct {
	secret   []byte
	expiry   time.Duration
	issuer   string
	audience string
	now      func() time.Time
}

func NewTokenManager(config JWTConfig) *TokenManager {
	return &TokenManager{
		secret:   []byte(config.Secret),
		expiry:   config.ExpiresIn,
		issuer:   config.Issuer,
		audience: config.Audience,
		now:      time.Now,
	}
}

// Expiry returns the lifetime of newly issued tokens.
func (m *TokenManager) Expiry() time.Duration {
	return m.expiry
}

// Generate issues a token for the given user and returns it with its expiry.
func (m *TokenManager) Generate(userID int64, email, role string) (string, time.Time, error) {
	now := m.now()
	exp := now.Add(m.expiry)

	claims := Claims{
		Email: email,
		Role:  role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(userID, 10),
			Issuer:    m.issuer,
			Audience:  jwt.ClaimStrings{m.audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}

	return signed, exp, nil
}

// Verify checks signature, issuer, audience and expiry. An expired but
// otherwise valid token yields ErrTokenExpired.
func (m *TokenManager) Verify(tokenString string) (*Claims, error) {
	claims, err := m.parse(tokenString)
	if err != nil {
		return nil, err
	}

	if claims.ExpiresAt == nil || !m.now().Before(claims.ExpiresAt.Time) {
		return claims, ErrTokenExpired
	}

	return claims, nil
}

// VerifyIgnoringExpiry checks everything Verify does except expiry. It backs
// token refresh, which accepts expired tokens.
func (m *TokenManager) VerifyIgnoringExpiry(tokenString string) (*Claims, error) {
	return m.parse(tokenString)
}

func (m *TokenManager) parse(tokenString string) (*Claims, error) {
	claims := &Claims{}
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithoutClaimsValidation(),
	)

	_, err := parser.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return m.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}

	if claims.Issuer != m.issuer || !slices.Contains(claims.Audience, m.audience) {
		return nil, fmt.Errorf("%w: issuer or audience mismatch", ErrTokenInvalid)
	}

	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil || userID < 1 {
		return nil, fmt.Errorf("%w: bad subject", ErrTokenInvalid)
	}
	claims.UserID = userID

	return claims, nil
}
