package entity

import "strings"

type UserRole string

const (
	RoleCustomer UserRole = "customer"
	RoleAdmin    UserRole = "admin"
)

// ParseRole normalises role names coming from either identity backend.
func ParseRole(raw string) UserRole {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "admin", "administrador":
		return RoleAdmin
	default:
		return RoleCustomer
	}
}

type User struct {
	Base
	Name         string   `db:"nombre"`
	Email        string   `db:"correo"`
	PasswordHash string   `db:"password_hash"`
	Phone        *string  `db:"telefono"`
	Role         UserRole `db:"rol"`
	IsActive     bool     `db:"activo"`
}

// NewUser is the data needed to create an account.
type NewUser struct {
	Name     string
	Email    string
	Password string
	Phone    *string
}
