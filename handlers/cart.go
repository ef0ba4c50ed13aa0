package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"sjsilvers-api/internal/cart"
	"sjsilvers-api/internal/products"
	"sjsilvers-api/pkg/ctxmanage"
	"sjsilvers-api/pkg/logkey"
)

// GetCart returns the user's cart, creating an empty one on first access.
func (h *Handler) GetCart(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)
	userId := c.Param("userId")

	userCart, err := h.c.GetOrCreateCart(c.Request.Context(), userId)
	if err != nil {
		slog.Error("error fetching cart", slog.String(logkey.TraceID, traceId),
			slog.String(logkey.ERROR, err.Error()), slog.String("UserID", userId))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch cart"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"cart": userCart})
}

// AddToCart adds a quantity of a product to the user's cart. The unit price
// snapshot is computed here from the current catalog entry so cart and
// catalog can never disagree.
func (h *Handler) AddToCart(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)

	var request struct {
		UserID    string `json:"userId"`
		ProductID string `json:"productId"`
		Quantity  int    `json:"quantity"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		slog.Error("invalid request body", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "Invalid request body"})
		return
	}
	if request.UserID == "" || request.ProductID == "" || request.Quantity < 1 {
		slog.Error("invalid add-to-cart payload", slog.String(logkey.TraceID, traceId))
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "User ID, product ID and quantity must be valid"})
		return
	}

	product, err := h.p.GetProductByID(c.Request.Context(), request.ProductID)
	if err != nil {
		if errors.Is(err, products.ErrNotFound) {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"message": "Product not found"})
			return
		}
		slog.Error("error fetching product", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch product"})
		return
	}

	if err := product.CheckStock(request.Quantity); err != nil {
		slog.Error("insufficient stock", slog.String(logkey.TraceID, traceId),
			slog.String(logkey.ERROR, err.Error()), slog.String("ProductID", request.ProductID))
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "Not enough stock"})
		return
	}

	item := cart.CartItem{
		ProductID: product.ID,
		Quantity:  request.Quantity,
		Price:     products.EffectivePrice(product.BasePrice, product.MakingCharges, product.DiscountPercent),
		Name:      product.Name,
	}
	if len(product.Images) > 0 {
		item.Image = product.Images[0].URL
	}

	userCart, err := h.c.AddItem(c.Request.Context(), request.UserID, item)
	if err != nil {
		slog.Error("error adding product to cart", slog.String(logkey.TraceID, traceId),
			slog.String(logkey.ERROR, err.Error()), slog.String("ProductID", request.ProductID))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "Failed to add product to cart"})
		return
	}

	slog.Info("product added to cart", slog.String(logkey.TraceID, traceId),
		slog.String("ProductID", request.ProductID), slog.Int("Quantity", request.Quantity),
		slog.String("UserID", request.UserID))

	c.JSON(http.StatusOK, gin.H{"cart": userCart})
}

// UpdateCartItem sets a line's quantity to an absolute value; a quantity of
// zero or less removes the line. The price snapshot is not refreshed here.
func (h *Handler) UpdateCartItem(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)

	var request struct {
		UserID    string `json:"userId"`
		ProductID string `json:"productId"`
		Quantity  int    `json:"quantity"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		slog.Error("invalid request body", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "Invalid request body"})
		return
	}
	if request.UserID == "" || request.ProductID == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "User ID and product ID are required"})
		return
	}

	// A positive quantity is an absolute set and must fit current stock.
	if request.Quantity > 0 {
		product, err := h.p.GetProductByID(c.Request.Context(), request.ProductID)
		if err != nil {
			if errors.Is(err, products.ErrNotFound) {
				c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"message": "Product not found"})
				return
			}
			slog.Error("error fetching product", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch product"})
			return
		}
		if err := product.CheckStock(request.Quantity); err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "Not enough stock"})
			return
		}
	}

	userCart, err := h.c.UpdateQuantity(c.Request.Context(), request.UserID, request.ProductID, request.Quantity)
	if err != nil {
		switch {
		case errors.Is(err, cart.ErrCartNotFound):
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"message": "Cart not found"})
		case errors.Is(err, cart.ErrItemNotFound):
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"message": "Item not found in cart"})
		default:
			slog.Error("error updating cart item", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "Failed to update cart"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"cart": userCart})
}

// RemoveFromCart deletes a line from the user's cart.
func (h *Handler) RemoveFromCart(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)

	var request struct {
		UserID    string `json:"userId"`
		ProductID string `json:"productId"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		slog.Error("invalid request body", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "Invalid request body"})
		return
	}

	userCart, err := h.c.RemoveItem(c.Request.Context(), request.UserID, request.ProductID)
	if err != nil {
		if errors.Is(err, cart.ErrCartNotFound) {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"message": "Cart not found"})
			return
		}
		slog.Error("error removing cart item", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "Failed to remove item"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"cart": userCart})
}

// ClearCart empties the user's cart. Clearing a nonexistent cart succeeds.
func (h *Handler) ClearCart(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)
	userId := c.Param("userId")

	if err := h.c.ClearCart(c.Request.Context(), userId); err != nil {
		slog.Error("error clearing cart", slog.String(logkey.TraceID, traceId),
			slog.String(logkey.ERROR, err.Error()), slog.String("UserID", userId))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "Failed to clear cart"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Cart cleared"})
}
