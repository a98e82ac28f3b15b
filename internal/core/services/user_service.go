package services

import (
	"context"
	"errors"
	"log"

	"checkmovil-api/internal/adapters/persistence/models"
	"checkmovil-api/internal/adapters/persistence/repositories"
	"checkmovil-api/internal/core/domain"

	"gorm.io/gorm"
)

// User service errors
var (
	ErrInvalidStatus    = errors.New("invalid account status")
	ErrCannotChangeSelf = errors.New("cannot change your own account status")
)

// UserService handles account administration. Roles are immutable after
// registration; only status and the verification flag can change.
type UserService struct {
	userRepo repositories.UserRepository
}

// NewUserService creates a new user service
func NewUserService(userRepo repositories.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

// ListUsersOutput represents a page of users
type ListUsersOutput struct {
	Users []*models.UserResponse `json:"users"`
	Total int64                  `json:"total"`
}

// ListUsers lists all users with pagination
func (s *UserService) ListUsers(ctx context.Context, offset, limit int) (*ListUsersOutput, error) {
	users, total, err := s.userRepo.List(ctx, offset, limit)
	if err != nil {
		return nil, err
	}

	responses := make([]*models.UserResponse, len(users))
	for i, user := range users {
		responses[i] = user.ToResponse()
	}

	return &ListUsersOutput{Users: responses, Total: total}, nil
}

// UpdateUserInput represents an admin update to an account
type UpdateUserInput struct {
	Status     *string `json:"status"`
	IsVerified *bool   `json:"is_verified"`
}

// UpdateUser updates an account's status and/or verification flag
func (s *UserService) UpdateUser(ctx context.Context, callerID, targetID uint, input *UpdateUserInput) (*models.UserResponse, error) {
	user, err := s.userRepo.GetByID(ctx, targetID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, err
	}

	if input.Status != nil {
		// Locking yourself out would leave the system without its only
		// superuser.
		if callerID == targetID {
			return nil, ErrCannotChangeSelf
		}
		if !domain.ValidStatus(*input.Status) {
			return nil, ErrInvalidStatus
		}
		user.Status = *input.Status
	}

	if input.IsVerified != nil {
		user.IsVerified = *input.IsVerified
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	log.Printf("✅ User %d updated (status: %s, verified: %t)", user.ID, user.Status, user.IsVerified)

	return user.ToResponse(), nil
}
