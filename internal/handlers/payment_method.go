package handlers

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/mujtama/backend/internal/middleware"
	"github.com/mujtama/backend/internal/services"
	"github.com/mujtama/backend/pkg/response"
	"gorm.io/gorm"
)

type PaymentMethodHandler struct {
	paymentMethodService *services.PaymentMethodService
}

func NewPaymentMethodHandler(db *gorm.DB) *PaymentMethodHandler {
	return &PaymentMethodHandler{
		paymentMethodService: services.NewPaymentMethodService(db),
	}
}

// List returns the caller's payment methods
// GET /api/payment-methods
func (h *PaymentMethodHandler) List(c *gin.Context) {
	userID := middleware.GetUserID(c)
	methods, err := h.paymentMethodService.List(userID)
	if err != nil {
		response.ServerError(c, err.Error())
		return
	}

	response.Success(c, methods)
}

// Create adds a payment method
// POST /api/payment-methods
func (h *PaymentMethodHandler) Create(c *gin.Context) {
	var req services.CreatePaymentMethodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	userID := middleware.GetUserID(c)
	method, err := h.paymentMethodService.Create(userID, &req)
	if err != nil {
		if errors.Is(err, services.ErrPaymentKindInvalid) {
			response.BadRequest(c, err.Error())
			return
		}
		response.ServerError(c, err.Error())
		return
	}

	response.Created(c, method)
}

// SetDefault makes a payment method the caller's default
// POST /api/payment-methods/:id/default
func (h *PaymentMethodHandler) SetDefault(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "invalid payment method id")
		return
	}

	userID := middleware.GetUserID(c)
	if err := h.paymentMethodService.SetDefault(uint(id), userID); err != nil {
		if errors.Is(err, services.ErrPaymentMethodNotFound) {
			response.NotFound(c, "payment method not found")
			return
		}
		response.ServerError(c, err.Error())
		return
	}

	response.Success(c, gin.H{"message": "default payment method updated"})
}

// Delete removes a payment method
// DELETE /api/payment-methods/:id
func (h *PaymentMethodHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "invalid payment method id")
		return
	}

	userID := middleware.GetUserID(c)
	if err := h.paymentMethodService.Delete(uint(id), userID); err != nil {
		if errors.Is(err, services.ErrPaymentMethodNotFound) {
			response.NotFound(c, "payment method not found")
			return
		}
		response.ServerError(c, err.Error())
		return
	}

	response.Success(c, gin.H{"message": "payment method deleted"})
}
