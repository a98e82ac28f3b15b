package models

import (
	"time"

	"checkmovil-api/internal/core/domain"

	"gorm.io/gorm"
)

// ============================================================
// Auth & User tables
// ============================================================

// User represents the users table
type User struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Username string `gorm:"uniqueIndex;size:30;not null" json:"username"`
	Password string `gorm:"size:255;not null" json:"-"`
	PIN      string `gorm:"column:pin;size:4" json:"-"`
	Role     string `gorm:"size:20;not null" json:"role"`
	// RoleSlot backs the single-superuser invariant at the storage layer:
	// it is set to the role name for roles that admit exactly one account
	// and left NULL otherwise. The unique index skips NULLs, so concurrent
	// superuser inserts collide here instead of both committing.
	RoleSlot   *string        `gorm:"uniqueIndex;size:20" json:"-"`
	IsVerified bool           `gorm:"default:false" json:"is_verified"`
	Status     string         `gorm:"size:20;default:'active'" json:"status"`
	CreatedAt  time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
}

func (User) TableName() string {
	return "users"
}

// IsActive reports whether the account may authenticate.
func (u *User) IsActive() bool {
	return u.Status == domain.StatusActive
}

// UserResponse is the public projection of a user. Password and PIN never
// leave the persistence layer.
type UserResponse struct {
	ID         uint      `json:"id"`
	Username   string    `json:"username"`
	Role       string    `json:"role"`
	IsVerified bool      `json:"is_verified"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (u *User) ToResponse() *UserResponse {
	return &UserResponse{
		ID:         u.ID,
		Username:   u.Username,
		Role:       u.Role,
		IsVerified: u.IsVerified,
		Status:     u.Status,
		CreatedAt:  u.CreatedAt,
		UpdatedAt:  u.UpdatedAt,
	}
}

// ============================================================
// Payment intake tables
// ============================================================

// Payment statuses
const (
	PaymentStatusPending   = "pending"
	PaymentStatusProcessed = "processed"
	PaymentStatusFailed    = "failed"
	PaymentStatusVerified  = "verified"
)

// ValidPaymentStatus reports whether s is a known payment status.
func ValidPaymentStatus(s string) bool {
	switch s {
	case PaymentStatusPending, PaymentStatusProcessed, PaymentStatusFailed, PaymentStatusVerified:
		return true
	}
	return false
}

// Payment represents an uploaded proof-of-payment image queued for
// processing. The extraction fields stay empty until OCR exists.
type Payment struct {
	ID               uint   `gorm:"primaryKey" json:"id"`
	ProcessedBy      uint   `gorm:"index;not null" json:"processed_by"`
	ImagePath        string `gorm:"size:255;not null" json:"-"`
	OriginalFilename string `gorm:"size:255" json:"original_filename"`
	FileSize         int64  `json:"file_size"`
	MimeType         string `gorm:"size:100" json:"mime_type"`
	Status           string `gorm:"size:20;default:'pending';index" json:"status"`

	// OCR extraction placeholders
	Amount        *float64 `gorm:"type:decimal(12,2)" json:"amount"`
	Currency      string   `gorm:"size:10;default:'USD'" json:"currency"`
	PaymentMethod *string  `gorm:"size:50" json:"payment_method"`
	TransactionID *string  `gorm:"size:100" json:"transaction_id"`

	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
	User      User           `gorm:"foreignKey:ProcessedBy" json:"-"`
}

func (Payment) TableName() string {
	return "payments"
}

// AutoMigrate creates/updates all tables
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
		&Payment{},
	)
}
