package handlers

import (
	"errors"
	"path/filepath"

	"checkmovil-api/internal/adapters/http/middleware"
	"checkmovil-api/internal/config"
	"checkmovil-api/internal/core/domain"
	"checkmovil-api/internal/core/services"
	"checkmovil-api/internal/pkg/pagination"
	"checkmovil-api/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// PaymentHandler handles payment intake endpoints
type PaymentHandler struct {
	paymentService *services.PaymentService
	cfg            *config.Config
}

// NewPaymentHandler creates a new payment handler
func NewPaymentHandler(paymentService *services.PaymentService, cfg *config.Config) *PaymentHandler {
	return &PaymentHandler{
		paymentService: paymentService,
		cfg:            cfg,
	}
}

// caller pulls the authenticated identity out of the request context
func caller(c *fiber.Ctx) (uint, string, bool) {
	userID, ok := c.Locals(middleware.LocalUserID).(uint)
	if !ok {
		return 0, "", false
	}
	role, ok := c.Locals(middleware.LocalRole).(string)
	return userID, role, ok
}

// Upload handles payment image upload
// @Summary Upload payment image
// @Description Upload a proof-of-payment image; it is queued for processing
// @Tags Payments
// @Accept multipart/form-data
// @Produce json
// @Param image formData file true "Payment image"
// @Security BearerAuth
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /payments/upload [post]
func (h *PaymentHandler) Upload(c *fiber.Ctx) error {
	userID, _, ok := caller(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		return response.BadRequest(c, "No image provided")
	}

	if fileHeader.Size > h.cfg.Upload.MaxSizeBytes {
		return response.BadRequest(c, "Image exceeds the maximum allowed size")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return response.InternalServerError(c, "Failed to read uploaded image")
	}
	defer file.Close()

	input := &services.UploadInput{
		UserID:           userID,
		OriginalFilename: fileHeader.Filename,
		MimeType:         fileHeader.Header.Get("Content-Type"),
		Content:          file,
	}

	payment, err := h.paymentService.Upload(c.Context(), input)
	if err != nil {
		if errors.Is(err, services.ErrUnsupportedImageType) {
			return response.BadRequest(c, "File must be an image")
		}
		return response.InternalServerError(c, "Failed to store payment image")
	}

	return response.Created(c, "Image uploaded successfully", fiber.Map{
		"id":            payment.ID,
		"filename":      filepath.Base(payment.ImagePath),
		"original_name": payment.OriginalFilename,
		"size":          payment.FileSize,
		"status":        payment.Status,
		"uploaded_at":   payment.CreatedAt,
	})
}

// List returns the caller's payment records
// @Summary List own payments
// @Tags Payments
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /payments [get]
func (h *PaymentHandler) List(c *fiber.Ctx) error {
	userID, _, ok := caller(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	params := pagination.GetParams(c)

	payments, total, err := h.paymentService.ListByUser(c.Context(), userID, params.Offset, params.Limit)
	if err != nil {
		return response.InternalServerError(c, "Failed to list payments")
	}

	return response.Success(c, "Payments retrieved successfully", fiber.Map{
		"payments": payments,
		"meta":     pagination.GetMeta(params, total),
	})
}

// Get returns a single payment record
// @Summary Get payment
// @Tags Payments
// @Produce json
// @Param id path int true "Payment ID"
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /payments/{id} [get]
func (h *PaymentHandler) Get(c *fiber.Ctx) error {
	userID, role, ok := caller(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return response.BadRequest(c, "Invalid payment ID")
	}

	payment, err := h.paymentService.Get(c.Context(), uint(id), userID, role)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrPaymentNotFound):
			return response.NotFound(c, "Payment not found")
		case errors.Is(err, domain.ErrNotOwner):
			return response.Forbidden(c, "You don't have permission to view this payment")
		default:
			return response.InternalServerError(c, "Failed to load payment")
		}
	}

	return response.Success(c, "Payment retrieved successfully", payment)
}

// Delete removes a payment record and its image
// @Summary Delete payment
// @Tags Payments
// @Produce json
// @Param id path int true "Payment ID"
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /payments/{id} [delete]
func (h *PaymentHandler) Delete(c *fiber.Ctx) error {
	userID, role, ok := caller(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return response.BadRequest(c, "Invalid payment ID")
	}

	if err := h.paymentService.Delete(c.Context(), uint(id), userID, role); err != nil {
		switch {
		case errors.Is(err, domain.ErrPaymentNotFound):
			return response.NotFound(c, "Payment not found")
		case errors.Is(err, domain.ErrNotOwner):
			return response.Forbidden(c, "You don't have permission to delete this payment")
		default:
			return response.InternalServerError(c, "Failed to delete payment")
		}
	}

	return response.Success(c, "Payment deleted successfully", nil)
}

// UpdateStatusRequest represents a payment review request body
type UpdateStatusRequest struct {
	Status string `json:"status"`
}

// UpdateStatus moves a payment to a new review status
// @Summary Update payment status
// @Tags Payments
// @Accept json
// @Produce json
// @Param id path int true "Payment ID"
// @Param body body UpdateStatusRequest true "New status"
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /payments/{id}/status [patch]
func (h *PaymentHandler) UpdateStatus(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return response.BadRequest(c, "Invalid payment ID")
	}

	var req UpdateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	payment, err := h.paymentService.UpdateStatus(c.Context(), uint(id), req.Status)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidPaymentStatus):
			return response.BadRequest(c, "Invalid payment status")
		case errors.Is(err, domain.ErrPaymentNotFound):
			return response.NotFound(c, "Payment not found")
		default:
			return response.InternalServerError(c, "Failed to update payment")
		}
	}

	return response.Success(c, "Payment status updated successfully", payment)
}
