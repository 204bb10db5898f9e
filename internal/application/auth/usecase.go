package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/sweetshop-api/internal/application/dto"
	"github.com/jhoicas/sweetshop-api/internal/domain"
	"github.com/jhoicas/sweetshop-api/internal/domain/entity"
	"github.com/jhoicas/sweetshop-api/internal/domain/repository"
	"github.com/jhoicas/sweetshop-api/pkg/jwt"
)

// MinPasswordLength largo mínimo de contraseña en el registro.
const MinPasswordLength = 6

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// AuthUseCase casos de uso de autenticación: registro, login y validación de token.
type AuthUseCase struct {
	userRepo         repository.UserRepository
	jwtCfg           JWTConfig
	allowAdminSignup bool
	hashCost         int
	now              func() time.Time
}

// Option ajusta el caso de uso al construirlo.
type Option func(*AuthUseCase)

// WithAdminSignup permite que el registro público asigne el rol admin.
func WithAdminSignup(allow bool) Option {
	return func(uc *AuthUseCase) { uc.allowAdminSignup = allow }
}

// WithHashCost cambia el costo de bcrypt (los tests usan bcrypt.MinCost).
func WithHashCost(cost int) Option {
	return func(uc *AuthUseCase) { uc.hashCost = cost }
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(userRepo repository.UserRepository, jwtCfg JWTConfig, opts ...Option) *AuthUseCase {
	uc := &AuthUseCase{userRepo: userRepo, jwtCfg: jwtCfg, hashCost: bcrypt.DefaultCost, now: time.Now}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// Register crea un usuario y devuelve token + usuario. ErrUsernameTaken si el username ya existe.
// Sin AllowAdminSignup el rol queda en user aunque se pida admin.
func (uc *AuthUseCase) Register(ctx context.Context, in dto.RegisterRequest) (*dto.AuthResponse, error) {
	role := entity.RoleUser
	if in.Role != "" {
		parsed, ok := entity.ParseRole(in.Role)
		if !ok {
			return nil, domain.NewValidationError("role", "Role must be user or admin")
		}
		if parsed == entity.RoleAdmin && uc.allowAdminSignup {
			role = entity.RoleAdmin
		}
	}
	user, err := uc.CreateUser(ctx, in.Username, in.Password, role)
	if err != nil {
		return nil, err
	}
	return uc.issue(user)
}

// CreateUser valida y persiste un usuario con el rol indicado, sin restricciones de signup.
// Lo usa también la CLI de operación para dar de alta administradores.
func (uc *AuthUseCase) CreateUser(ctx context.Context, username, password string, role entity.Role) (*entity.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, domain.NewValidationError("username", "Username is required")
	}
	if password == "" {
		return nil, domain.NewValidationError("password", "Password is required")
	}
	if len(password) < MinPasswordLength {
		return nil, domain.NewValidationError("password", "Password must be at least 6 characters")
	}
	if _, ok := entity.ParseRole(string(role)); !ok {
		return nil, domain.NewValidationError("role", "Role must be user or admin")
	}

	existing, err := uc.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrUsernameTaken
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), uc.hashCost)
	if err != nil {
		return nil, err
	}
	user := &entity.User{
		ID:           uuid.New().String(),
		Username:     username,
		PasswordHash: string(hash),
		Role:         role,
		CreatedAt:    uc.now(),
	}
	if err := uc.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Login verifica username/password y emite un token. Usuario inexistente y password
// incorrecta devuelven el mismo ErrInvalidCredentials.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.AuthResponse, error) {
	user, err := uc.userRepo.GetByUsername(ctx, strings.TrimSpace(in.Username))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}
	return uc.issue(user)
}

// Validate verifica firma y expiración del token y devuelve la identidad que porta.
// Cualquier fallo (incluido un rol desconocido) es ErrUnauthorized.
func (uc *AuthUseCase) Validate(token string) (*entity.Principal, error) {
	userID, rawRole, err := jwt.Parse(uc.jwtCfg.Secret, token)
	if err != nil {
		return nil, domain.ErrUnauthorized
	}
	role, ok := entity.ParseRole(rawRole)
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	return &entity.Principal{UserID: userID, Role: role}, nil
}

func (uc *AuthUseCase) issue(user *entity.User) (*dto.AuthResponse, error) {
	token, err := jwt.Generate(uc.jwtCfg.Secret, user.ID, user.Role.String(), uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	return &dto.AuthResponse{Token: token, User: toUserResponse(user)}, nil
}

func toUserResponse(u *entity.User) dto.UserResponse {
	return dto.UserResponse{ID: u.ID, Username: u.Username, Role: u.Role.String()}
}
