package services

import (
	"context"
	"errors"
	"log"

	"checkmovil-api/internal/adapters/persistence/models"
	"checkmovil-api/internal/adapters/persistence/repositories"
	"checkmovil-api/internal/config"
	"checkmovil-api/internal/core/domain"
	"checkmovil-api/internal/pkg/jwt"
	"checkmovil-api/internal/pkg/password"

	"gorm.io/gorm"
)

// AuthService handles registration, login and token validation
type AuthService struct {
	userRepo repositories.UserRepository
	cfg      *config.Config
}

// NewAuthService creates a new auth service
func NewAuthService(userRepo repositories.UserRepository, cfg *config.Config) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		cfg:      cfg,
	}
}

// RegisterInput represents registration input. Field format checks
// (username/password length, 4-digit PIN) happen at the handler; this
// layer owns the business rules.
type RegisterInput struct {
	Username string `json:"username"`
	Password string `json:"password"`
	PIN      string `json:"pin"`
}

// LoginInput represents login input
type LoginInput struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// AuthResponse represents a successful login
type AuthResponse struct {
	User  *models.UserResponse `json:"user"`
	Token string               `json:"token"`
}

// Register registers a new user, resolving the role from the PIN.
// No record is created when the PIN is rejected.
func (s *AuthService) Register(ctx context.Context, input *RegisterInput) (*models.UserResponse, error) {
	// 1. Check if username already exists (case-sensitive, as stored)
	exists, err := s.userRepo.ExistsByUsername(ctx, input.Username)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.ErrUsernameTaken
	}

	// 2. Resolve role from the PIN, re-reading superuser existence now.
	// This is still check-then-act; the RoleSlot index below is the real
	// guard under concurrency.
	superuserExists, err := s.userRepo.SuperuserExists(ctx)
	if err != nil {
		return nil, err
	}

	role, err := domain.ResolveRole(input.PIN, superuserExists)
	if err != nil {
		return nil, err
	}

	// 3. Hash password
	hashedPassword, err := password.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	// 4. Create user
	user := &models.User{
		Username:   input.Username,
		Password:   hashedPassword,
		PIN:        input.PIN,
		Role:       role,
		IsVerified: false,
		Status:     domain.StatusActive,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// Either a racing registration took the username, or a racing
			// superuser registration took the role slot.
			if role == domain.RoleSuperuser {
				return nil, domain.ErrSuperuserExists
			}
			return nil, domain.ErrUsernameTaken
		}
		return nil, err
	}

	log.Printf("✅ User registered: %s (role: %s)", user.Username, user.Role)

	return user.ToResponse(), nil
}

// Login authenticates a user and issues an access token
func (s *AuthService) Login(ctx context.Context, input *LoginInput) (*AuthResponse, error) {
	// 1. Find user by username
	user, err := s.userRepo.GetByUsername(ctx, input.Username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, err
	}

	// 2. Check if the account may authenticate
	if !user.IsActive() {
		return nil, domain.ErrAccountInactive
	}

	// 3. Verify password. The PIN is not re-checked here; it was consumed
	// at registration.
	if !password.Verify(input.Password, user.Password) {
		return nil, domain.ErrBadCredentials
	}

	// 4. Issue token
	token, err := jwt.GenerateAccessToken(
		user.ID,
		user.Username,
		user.Role,
		s.cfg.JWT.Secret,
		s.cfg.JWT.AccessTokenMins,
	)
	if err != nil {
		return nil, err
	}

	log.Printf("✅ User logged in: %s", user.Username)

	return &AuthResponse{
		User:  user.ToResponse(),
		Token: token,
	}, nil
}

// ValidateAccessToken validates an access token
func (s *AuthService) ValidateAccessToken(accessToken string) (*jwt.Claims, error) {
	return jwt.ValidateAccessToken(accessToken, s.cfg.JWT.Secret)
}

// GetUserByID gets a user by ID
func (s *AuthService) GetUserByID(ctx context.Context, userID uint) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, err
	}
	return user, nil
}
