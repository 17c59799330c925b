package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"furniture-catalog/internal/data/entity"
	"furniture-catalog/pkg/database"
	"furniture-catalog/pkg/utils"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
)

// UserRepository is the identity backend used by authentication. It is
// implemented over the usuarios table and over the Xano auth API.
type UserRepository interface {
	// Register creates an account. A taken email yields a conflict AppError.
	Register(ctx context.Context, input entity.NewUser) (*entity.User, error)
	// Authenticate checks credentials. Unknown emails and wrong passwords
	// yield an unauthorized AppError. The active flag is not checked here.
	Authenticate(ctx context.Context, email, password string) (*entity.User, error)
	// FindByID returns nil, nil when the user does not exist.
	FindByID(ctx context.Context, id int64) (*entity.User, error)
}

const (
	msgEmailTaken         = "Email is already registered"
	msgInvalidCredentials = "Invalid credentials. Check your email and password"
)

const uniqueViolation = "23505"

type userRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewUserRepository(db database.PgxIface, log *zap.Logger) UserRepository {
	return &userRepository{
		db:  db,
		log: log.With(zap.String("repository", "user")),
	}
}

// Register hashes the password and inserts a new customer.
func (ur *userRepository) Register(ctx context.Context, input entity.NewUser) (*entity.User, error) {
	hash, err := utils.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	return ur.insert(ctx, input, hash, entity.RoleCustomer)
}

// UserSeeder provisions administrator accounts directly in usuarios.
type UserSeeder interface {
	// EnsureAdmin creates an active admin, or promotes and reactivates the
	// existing account with the same email. The password of an existing
	// account is left untouched.
	EnsureAdmin(ctx context.Context, input entity.NewUser) (*entity.User, error)
}

func NewUserSeeder(db database.PgxIface, log *zap.Logger) UserSeeder {
	return &userRepository{
		db:  db,
		log: log.With(zap.String("repository", "user")),
	}
}

func (ur *userRepository) EnsureAdmin(ctx context.Context, input entity.NewUser) (*entity.User, error) {
	hash, err := utils.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	query := `
		INSERT INTO usuarios (nombre, correo, password_hash, telefono, rol)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (correo) DO UPDATE SET rol = EXCLUDED.rol, activo = true
		RETURNING id, nombre, activo, fecha_creacion
	`

	user := entity.User{
		Email: strings.ToLower(strings.TrimSpace(input.Email)),
		Phone: input.Phone,
		Role:  entity.RoleAdmin,
	}

	err = ur.db.QueryRow(ctx, query,
		input.Name,
		user.Email,
		hash,
		input.Phone,
		string(entity.RoleAdmin),
	).Scan(&user.ID, &user.Name, &user.IsActive, &user.CreatedAt)
	if err != nil {
		ur.log.Error("Failed to seed admin", zap.Error(err), zap.String("email", user.Email))
		return nil, fmt.Errorf("seed admin %s: %w", user.Email, err)
	}

	ur.log.Info("Admin account ready", zap.Int64("user_id", user.ID), zap.String("email", user.Email))
	return &user, nil
}

func (ur *userRepository) insert(ctx context.Context, input entity.NewUser, hash string, role entity.UserRole) (*entity.User, error) {
	query := `
		INSERT INTO usuarios (nombre, correo, password_hash, telefono, rol)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, activo, fecha_creacion
	`

	user := entity.User{
		Name:         input.Name,
		Email:        strings.ToLower(strings.TrimSpace(input.Email)),
		PasswordHash: hash,
		Phone:        input.Phone,
		Role:         role,
	}

	err := ur.db.QueryRow(ctx, query,
		user.Name,
		user.Email,
		user.PasswordHash,
		user.Phone,
		string(user.Role),
	).Scan(&user.ID, &user.IsActive, &user.CreatedAt)

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		ur.log.Warn("Duplicate registration", zap.String("email", user.Email))
		return nil, utils.NewConflictError(msgEmailTaken)
	}
	if err != nil {
		ur.log.Error("Failed to create user",
			zap.Error(err),
			zap.String("email", user.Email),
		)
		return nil, fmt.Errorf("create user %s: %w", user.Email, err)
	}

	return &user, nil
}

func (ur *userRepository) Authenticate(ctx context.Context, email, password string) (*entity.User, error) {
	user, err := ur.findOne(ctx, "correo", strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return nil, err
	}

	if user == nil || !utils.CheckPasswordHash(password, user.PasswordHash) {
		return nil, utils.NewUnauthorizedError(msgInvalidCredentials)
	}

	return user, nil
}

func (ur *userRepository) FindByID(ctx context.Context, id int64) (*entity.User, error) {
	return ur.findOne(ctx, "id", id)
}

func (ur *userRepository) findOne(ctx context.Context, column string, value any) (*entity.User, error) {
	query := `
		SELECT id, nombre, correo, password_hash, telefono, rol, activo, fecha_creacion
		FROM usuarios
		WHERE ` + column + ` = $1
	`

	var (
		user entity.User
		role string
	)
	// QueryRow returns at most one row
	err := ur.db.QueryRow(ctx, query, value).Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.PasswordHash,
		&user.Phone,
		&role,
		&user.IsActive,
		&user.CreatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		ur.log.Error("Failed to find user",
			zap.Error(err),
			zap.String("by", column),
		)
		return nil, fmt.Errorf("find user by %s: %w", column, err)
	}

	user.Role = entity.ParseRole(role)
	return &user, nil
}
