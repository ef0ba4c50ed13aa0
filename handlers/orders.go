package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"sjsilvers-api/internal/orders"
	"sjsilvers-api/internal/stores/kafka"
	"sjsilvers-api/pkg/ctxmanage"
	"sjsilvers-api/pkg/logkey"
)

// CreateOrder freezes the user's cart into a new pending order. The response
// carries the full checkout charge breakdown; the cart is cleared by a
// separate client call after successful placement.
func (h *Handler) CreateOrder(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)

	var request struct {
		UserID          string                 `json:"userId"`
		ShippingAddress orders.ShippingAddress `json:"shippingAddress"`
		PaymentMethod   string                 `json:"paymentMethod"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		slog.Error("invalid request body", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "Invalid request body"})
		return
	}
	if request.UserID == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "User ID is required"})
		return
	}

	userCart, err := h.c.GetOrCreateCart(c.Request.Context(), request.UserID)
	if err != nil {
		slog.Error("error fetching cart", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch cart"})
		return
	}

	order, err := h.o.CreateOrder(c.Request.Context(), request.UserID, userCart, request.ShippingAddress, request.PaymentMethod)
	if err != nil {
		if errors.Is(err, orders.ErrEmptyCart) {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "Cart is empty"})
			return
		}
		slog.Error("error creating order", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "Failed to create order"})
		return
	}

	slog.Info("order created", slog.String(logkey.TraceID, traceId),
		slog.String("OrderID", order.ID), slog.String("UserID", order.UserID))

	h.publishOrderPlaced(order)
	h.feed.broadcast(order)

	c.JSON(http.StatusCreated, gin.H{
		"order":   order,
		"charges": orders.ComputeCharges(order.TotalAmount),
	})
}

// ListUserOrders returns a user's order history, newest first.
func (h *Handler) ListUserOrders(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)
	userId := c.Param("userId")

	list, err := h.o.ListUserOrders(c.Request.Context(), userId)
	if err != nil {
		slog.Error("error fetching user orders", slog.String(logkey.TraceID, traceId),
			slog.String(logkey.ERROR, err.Error()), slog.String("UserID", userId))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch orders"})
		return
	}
	if list == nil {
		list = []orders.Order{}
	}

	c.JSON(http.StatusOK, gin.H{"orders": list})
}

// GetOrder returns a single order.
func (h *Handler) GetOrder(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)
	orderID := c.Param("id")

	order, err := h.o.GetOrderByID(c.Request.Context(), orderID)
	if err != nil {
		if errors.Is(err, orders.ErrOrderNotFound) {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"message": "Order not found"})
			return
		}
		slog.Error("error fetching order", slog.String(logkey.TraceID, traceId),
			slog.String("OrderID", orderID), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch order"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"order": order})
}

// CancelOrder cancels an order that has not shipped yet.
func (h *Handler) CancelOrder(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)
	orderID := c.Param("id")

	order, err := h.o.CancelOrder(c.Request.Context(), orderID)
	if err != nil {
		switch {
		case errors.Is(err, orders.ErrOrderNotFound):
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"message": "Order not found"})
		case errors.Is(err, orders.ErrInvalidTransition):
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "Order can no longer be cancelled"})
		default:
			slog.Error("error cancelling order", slog.String(logkey.TraceID, traceId),
				slog.String("OrderID", orderID), slog.String(logkey.ERROR, err.Error()))
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "Failed to cancel order"})
		}
		return
	}

	h.publishStatusChange(order)
	h.feed.broadcast(order)

	c.JSON(http.StatusOK, gin.H{"order": order})
}

// ListOrders returns a page of all orders, optionally filtered by status
// (admin only).
func (h *Handler) ListOrders(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)

	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "Invalid page parameter"})
		return
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil || limit < 1 {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "Invalid limit parameter"})
		return
	}

	status := orders.Status(c.Query("status"))
	if status != "" && !status.Valid() {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "Invalid status filter"})
		return
	}

	list, total, err := h.o.ListOrders(c.Request.Context(), status, page, limit)
	if err != nil {
		slog.Error("error fetching orders", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch orders"})
		return
	}
	if list == nil {
		list = []orders.Order{}
	}

	c.JSON(http.StatusOK, gin.H{"orders": list, "total": total, "page": page})
}

// UpdateOrderStatus moves an order through the lifecycle (admin only).
func (h *Handler) UpdateOrderStatus(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)
	orderID := c.Param("id")

	var request struct {
		Status         string `json:"status"`
		TrackingNumber string `json:"trackingNumber"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		slog.Error("invalid request body", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "Invalid request body"})
		return
	}

	order, err := h.o.UpdateStatus(c.Request.Context(), orderID, orders.Status(request.Status), request.TrackingNumber)
	if err != nil {
		switch {
		case errors.Is(err, orders.ErrOrderNotFound):
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"message": "Order not found"})
		case errors.Is(err, orders.ErrInvalidTransition):
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "Invalid status transition"})
		default:
			slog.Error("error updating order status", slog.String(logkey.TraceID, traceId),
				slog.String("OrderID", orderID), slog.String(logkey.ERROR, err.Error()))
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "Failed to update order"})
		}
		return
	}

	h.publishStatusChange(order)
	h.feed.broadcast(order)

	c.JSON(http.StatusOK, gin.H{"order": order})
}

// Event timestamps come from the order record so consumers see the same
// times the API reports, not the publish time.
func orderPlacedEvent(order orders.Order) kafka.OrderPlacedEvent {
	return kafka.OrderPlacedEvent{
		OrderID:     order.ID,
		UserID:      order.UserID,
		TotalAmount: order.TotalAmount,
		ItemCount:   len(order.Items),
		CreatedAt:   order.CreatedAt,
	}
}

func orderStatusEvent(order orders.Order) kafka.OrderStatusEvent {
	return kafka.OrderStatusEvent{
		OrderID:   order.ID,
		UserID:    order.UserID,
		Status:    string(order.Status),
		CreatedAt: order.UpdatedAt,
	}
}

// publishOrderPlaced emits the checkout event, fire-and-forget.
func (h *Handler) publishOrderPlaced(order orders.Order) {
	if h.events == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		data, err := json.Marshal(orderPlacedEvent(order))
		if err != nil {
			slog.Error("failed to marshal order placed event", slog.String(logkey.ERROR, err.Error()))
			return
		}
		if err := h.events.ProduceEvent(ctx, kafka.TopicOrderPlaced, order.ID, data); err != nil {
			slog.Error("failed to publish order placed event", slog.String(logkey.ERROR, err.Error()),
				slog.String("OrderID", order.ID))
		}
	}()
}

func (h *Handler) publishStatusChange(order orders.Order) {
	if h.events == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		data, err := json.Marshal(orderStatusEvent(order))
		if err != nil {
			slog.Error("failed to marshal order status event", slog.String(logkey.ERROR, err.Error()))
			return
		}
		if err := h.events.ProduceEvent(ctx, kafka.TopicOrderStatusChanged, order.ID, data); err != nil {
			slog.Error("failed to publish order status event", slog.String(logkey.ERROR, err.Error()),
				slog.String("OrderID", order.ID))
		}
	}()
}
