package repositories

import (
	"context"
	"time"

	"checkmovil-api/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// paymentRepository implements PaymentRepository interface
type paymentRepository struct {
	db *gorm.DB
}

// NewPaymentRepository creates a new payment repository
func NewPaymentRepository(db *gorm.DB) PaymentRepository {
	return &paymentRepository{db: db}
}

// Create creates a new payment record
func (r *paymentRepository) Create(ctx context.Context, payment *models.Payment) error {
	return r.db.WithContext(ctx).Create(payment).Error
}

// GetByID gets a payment by ID
func (r *paymentRepository) GetByID(ctx context.Context, id uint) (*models.Payment, error) {
	var payment models.Payment
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&payment).Error
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

// ListByUser lists payments submitted by a user, newest first
func (r *paymentRepository) ListByUser(ctx context.Context, userID uint, offset, limit int) ([]*models.Payment, int64, error) {
	var payments []*models.Payment
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Payment{}).Where("processed_by = ?", userID)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := query.Order("created_at DESC").Offset(offset).Limit(limit).Find(&payments).Error; err != nil {
		return nil, 0, err
	}

	return payments, total, nil
}

// Update updates a payment record
func (r *paymentRepository) Update(ctx context.Context, payment *models.Payment) error {
	return r.db.WithContext(ctx).Save(payment).Error
}

// Delete soft deletes a payment record
func (r *paymentRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Payment{}, id).Error
}

// ListStalePending lists pending payments older than the given number of
// days. Used by the maintenance sweep.
func (r *paymentRepository) ListStalePending(ctx context.Context, olderThanDays int) ([]*models.Payment, error) {
	cutoff := time.Now().AddDate(0, 0, -olderThanDays)

	var payments []*models.Payment
	err := r.db.WithContext(ctx).
		Where("status = ? AND created_at < ?", models.PaymentStatusPending, cutoff).
		Find(&payments).Error
	if err != nil {
		return nil, err
	}
	return payments, nil
}

// ListImagePaths returns the stored image paths of every payment record,
// soft-deleted rows included, so the orphan sweep never removes a file a
// recoverable record still points at.
func (r *paymentRepository) ListImagePaths(ctx context.Context) ([]string, error) {
	var paths []string
	err := r.db.WithContext(ctx).Unscoped().
		Model(&models.Payment{}).
		Pluck("image_path", &paths).Error
	if err != nil {
		return nil, err
	}
	return paths, nil
}
