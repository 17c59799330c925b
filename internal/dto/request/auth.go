package request

type RegisterRequest struct {
	Name                 string  `json:"nombre" validate:"required,min=2,max=100"`
	Email                string  `json:"email" validate:"required,email,max=150"`
	Password             string  `json:"password" validate:"required,min=6,max=100"`
	PasswordConfirmation string  `json:"password_confirmation" validate:"required,eqfield=Password"`
	Phone                *string `json:"telefono,omitempty" validate:"omitnil,max=20"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type RefreshTokenRequest struct {
	Token string `json:"token" validate:"required"`
}
