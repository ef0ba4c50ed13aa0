package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"sjsilvers-api/internal/orders"
	"sjsilvers-api/pkg/ctxmanage"
	"sjsilvers-api/pkg/logkey"
)

// CreatePaymentOrder asks the payment gateway for a payment order covering
// the given amount.
func (h *Handler) CreatePaymentOrder(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)

	var request struct {
		Amount  float64 `json:"amount"`
		OrderID string  `json:"orderId"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "Invalid request body"})
		return
	}
	if request.Amount <= 0 {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "Amount must be positive"})
		return
	}

	ref, err := h.gateway.CreateOrder(c.Request.Context(), request.Amount)
	if err != nil {
		slog.Error("error creating payment order", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "Failed to create payment order"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"order": ref})
}

// VerifyPayment checks a completed payment with the gateway and marks the
// order as paid.
func (h *Handler) VerifyPayment(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)

	var request struct {
		OrderID           string `json:"orderId"`
		RazorpayOrderID   string `json:"razorpay_order_id"`
		RazorpayPaymentID string `json:"razorpay_payment_id"`
		RazorpaySignature string `json:"razorpay_signature"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "Invalid request body"})
		return
	}
	if request.OrderID == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "Order ID is required"})
		return
	}

	ok, err := h.gateway.Verify(c.Request.Context(), request.RazorpayOrderID, request.RazorpayPaymentID, request.RazorpaySignature)
	if err != nil {
		slog.Error("error verifying payment", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "Payment verification failed"})
		return
	}
	if !ok {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "Invalid payment signature"})
		return
	}

	order, err := h.o.SetPaymentStatus(c.Request.Context(), request.OrderID, "paid")
	if err != nil {
		if errors.Is(err, orders.ErrOrderNotFound) {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"message": "Order not found"})
			return
		}
		slog.Error("error updating payment status", slog.String(logkey.TraceID, traceId),
			slog.String("OrderID", request.OrderID), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "Failed to record payment"})
		return
	}

	slog.Info("payment verified", slog.String(logkey.TraceID, traceId), slog.String("OrderID", order.ID))

	c.JSON(http.StatusOK, gin.H{"message": "Payment verified", "order": order})
}
