package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"sjsilvers-api/internal/products"
	"sjsilvers-api/pkg/ctxmanage"
	"sjsilvers-api/pkg/logkey"
)

// ListProducts runs the catalog query: AND-combined filters, sort and
// pagination, returning {products, pagination:{page, pages, total}}.
func (h *Handler) ListProducts(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)

	filter := products.ListFilter{
		Search:   c.Query("search"),
		Category: c.Query("category"),
		Metal:    c.Query("metal"),
		Purity:   c.Query("purity"),
		Gender:   c.Query("gender"),
		Featured: c.Query("featured") == "true",
		Sort:     c.Query("sort"),
	}

	var err error
	filter.Page, err = strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || filter.Page < 1 {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "Invalid page parameter"})
		return
	}
	filter.Limit, err = strconv.Atoi(c.DefaultQuery("limit", "12"))
	if err != nil || filter.Limit < 1 {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "Invalid limit parameter"})
		return
	}

	if v := c.Query("minPrice"); v != "" {
		min, err := strconv.ParseFloat(v, 64)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "Invalid minPrice parameter"})
			return
		}
		filter.MinPrice = &min
	}
	if v := c.Query("maxPrice"); v != "" {
		max, err := strconv.ParseFloat(v, 64)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "Invalid maxPrice parameter"})
			return
		}
		filter.MaxPrice = &max
	}

	list, total, err := h.p.ListProductsFromDB(c.Request.Context(), filter)
	if err != nil {
		slog.Error("error fetching products", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch products"})
		return
	}
	if list == nil {
		list = []products.Product{}
	}

	c.JSON(http.StatusOK, gin.H{
		"products": list,
		"pagination": products.Pagination{
			Page:  filter.Page,
			Pages: products.PageCount(total, filter.Limit),
			Total: total,
		},
	})
}

// GetProduct returns a single catalog entry.
func (h *Handler) GetProduct(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)
	productID := c.Param("id")

	product, err := h.p.GetProductByID(c.Request.Context(), productID)
	if err != nil {
		if errors.Is(err, products.ErrNotFound) {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"message": "Product not found"})
		} else {
			slog.Error("error retrieving product", slog.String(logkey.TraceID, traceId),
				slog.String("ProductID", productID), slog.String(logkey.ERROR, err.Error()))
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch product"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"product": product})
}

// CreateProduct saves a new catalog entry (admin only).
func (h *Handler) CreateProduct(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)

	if c.Request.ContentLength > 5*1024 {
		slog.Error("request body limit breached", slog.String(logkey.TraceID, traceId),
			slog.Int64("Size Received", c.Request.ContentLength))
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "Request body too large."})
		return
	}

	var newProduct products.NewProduct
	if err := c.ShouldBindJSON(&newProduct); err != nil {
		slog.Error("json validation error", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "Invalid product data"})
		return
	}

	validate := validator.New()
	if err := validate.Struct(newProduct); err != nil {
		var vErrs validator.ValidationErrors
		if errors.As(err, &vErrs) {
			for _, vErr := range vErrs {
				switch vErr.Tag() {
				case "required":
					c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": vErr.Field() + " value missing"})
					return
				case "gt", "gte":
					c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": vErr.Field() + " must be at least " + vErr.Param()})
					return
				case "lte":
					c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": vErr.Field() + " must be at most " + vErr.Param()})
					return
				default:
					c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": vErr.Field() + " is invalid"})
					return
				}
			}
		}
		slog.Error("validation failed", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "Invalid product data"})
		return
	}

	product, err := h.p.InsertProduct(c.Request.Context(), newProduct)
	if err != nil {
		slog.Error("error inserting product", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "Product creation failed"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"product": product})
}

// UpdateProduct overwrites a product's mutable fields (admin only).
func (h *Handler) UpdateProduct(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)
	productID := c.Param("id")

	current, err := h.p.GetProductByID(c.Request.Context(), productID)
	if err != nil {
		if errors.Is(err, products.ErrNotFound) {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"message": "Product not found"})
		} else {
			slog.Error("error retrieving product", slog.String(logkey.TraceID, traceId),
				slog.String("ProductID", productID), slog.String(logkey.ERROR, err.Error()))
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch product"})
		}
		return
	}

	var updated products.Product
	if err := c.ShouldBindJSON(&updated); err != nil {
		slog.Error("json validation error", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "Invalid JSON payload"})
		return
	}

	if updated.DiscountPercent < 0 || updated.DiscountPercent > 100 {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "discountPercent must be between 0 and 100"})
		return
	}
	if updated.Stock < 0 {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "stock must not be negative"})
		return
	}

	// Immutable fields
	updated.ID = productID
	updated.CreatedAt = current.CreatedAt

	product, err := h.p.UpdateProductInDB(c.Request.Context(), productID, updated)
	if err != nil {
		slog.Error("error updating product", slog.String(logkey.TraceID, traceId),
			slog.String("ProductID", productID), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "Product update failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"product": product})
}

// DeleteProduct removes a catalog entry (admin only).
func (h *Handler) DeleteProduct(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)
	productID := c.Param("id")

	if _, err := h.p.GetProductByID(c.Request.Context(), productID); err != nil {
		if errors.Is(err, products.ErrNotFound) {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"message": "Product not found"})
		} else {
			slog.Error("error retrieving product", slog.String(logkey.TraceID, traceId),
				slog.String("ProductID", productID), slog.String(logkey.ERROR, err.Error()))
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch product"})
		}
		return
	}

	if err := h.p.DeleteProductFromDB(c.Request.Context(), productID); err != nil {
		slog.Error("error deleting product", slog.String(logkey.TraceID, traceId),
			slog.String("ProductID", productID), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "Product deletion failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Product removed"})
}
