package repositories

import (
	"context"

	"checkmovil-api/internal/adapters/persistence/models"
)

// UserRepository defines user repository interface
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	List(ctx context.Context, offset, limit int) ([]*models.User, int64, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	SuperuserExists(ctx context.Context) (bool, error)
}

// PaymentRepository defines payment repository interface
type PaymentRepository interface {
	Create(ctx context.Context, payment *models.Payment) error
	GetByID(ctx context.Context, id uint) (*models.Payment, error)
	ListByUser(ctx context.Context, userID uint, offset, limit int) ([]*models.Payment, int64, error)
	Update(ctx context.Context, payment *models.Payment) error
	Delete(ctx context.Context, id uint) error
	ListStalePending(ctx context.Context, olderThanDays int) ([]*models.Payment, error)
	ListImagePaths(ctx context.Context) ([]string, error)
}
