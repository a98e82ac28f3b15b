package services

import (
	"context"
	"errors"
	"io"
	"log"
	"path/filepath"

	"checkmovil-api/internal/adapters/persistence/models"
	"checkmovil-api/internal/adapters/persistence/repositories"
	"checkmovil-api/internal/adapters/storage"
	"checkmovil-api/internal/core/domain"

	"gorm.io/gorm"
)

// Payment service errors
var (
	ErrUnsupportedImageType = errors.New("unsupported image type")
	ErrInvalidPaymentStatus = errors.New("invalid payment status")
)

// validImageTypes is the accepted mime whitelist for uploaded images
var validImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/jpg":  true,
	"image/png":  true,
	"image/gif":  true,
	"image/bmp":  true,
	"image/webp": true,
	"image/tiff": true,
	"image/tif":  true,
}

// PaymentService handles payment image intake and review
type PaymentService struct {
	paymentRepo repositories.PaymentRepository
	files       storage.FileStorage
}

// NewPaymentService creates a new payment service
func NewPaymentService(paymentRepo repositories.PaymentRepository, files storage.FileStorage) *PaymentService {
	return &PaymentService{
		paymentRepo: paymentRepo,
		files:       files,
	}
}

// UploadInput represents an image upload from an authenticated caller
type UploadInput struct {
	UserID           uint
	OriginalFilename string
	MimeType         string
	Content          io.Reader
}

// Upload stores the image and queues a pending payment record. The OCR
// fields stay empty until extraction exists.
func (s *PaymentService) Upload(ctx context.Context, input *UploadInput) (*models.Payment, error) {
	if !validImageTypes[input.MimeType] {
		return nil, ErrUnsupportedImageType
	}

	path, size, err := s.files.Save(ctx, filepath.Ext(input.OriginalFilename), input.Content)
	if err != nil {
		return nil, err
	}

	payment := &models.Payment{
		ProcessedBy:      input.UserID,
		ImagePath:        path,
		OriginalFilename: input.OriginalFilename,
		FileSize:         size,
		MimeType:         input.MimeType,
		Status:           models.PaymentStatusPending,
	}

	if err := s.paymentRepo.Create(ctx, payment); err != nil {
		// Don't leave the file behind without a record pointing at it
		_ = s.files.Remove(ctx, path)
		return nil, err
	}

	log.Printf("✅ Payment image queued: id=%d user=%d (%s, %d bytes)",
		payment.ID, input.UserID, input.MimeType, size)

	return payment, nil
}

// ListByUser lists the caller's own payment records, newest first
func (s *PaymentService) ListByUser(ctx context.Context, userID uint, offset, limit int) ([]*models.Payment, int64, error) {
	return s.paymentRepo.ListByUser(ctx, userID, offset, limit)
}

// Get returns a payment visible to the caller: the submitter or a
// superuser.
func (s *PaymentService) Get(ctx context.Context, id, callerID uint, callerRole string) (*models.Payment, error) {
	payment, err := s.paymentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrPaymentNotFound
		}
		return nil, err
	}

	if payment.ProcessedBy != callerID && callerRole != domain.RoleSuperuser {
		return nil, domain.ErrNotOwner
	}

	return payment, nil
}

// Delete removes a payment record and its stored image. Same visibility
// rule as Get.
func (s *PaymentService) Delete(ctx context.Context, id, callerID uint, callerRole string) error {
	payment, err := s.Get(ctx, id, callerID, callerRole)
	if err != nil {
		return err
	}

	if err := s.files.Remove(ctx, payment.ImagePath); err != nil {
		return err
	}

	return s.paymentRepo.Delete(ctx, payment.ID)
}

// UpdateStatus moves a payment to a new review status (supervisor-or-above
// at the route level).
func (s *PaymentService) UpdateStatus(ctx context.Context, id uint, status string) (*models.Payment, error) {
	if !models.ValidPaymentStatus(status) {
		return nil, ErrInvalidPaymentStatus
	}

	payment, err := s.paymentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrPaymentNotFound
		}
		return nil, err
	}

	payment.Status = status
	if err := s.paymentRepo.Update(ctx, payment); err != nil {
		return nil, err
	}

	log.Printf("✅ Payment %d status changed to %s", payment.ID, status)

	return payment, nil
}
