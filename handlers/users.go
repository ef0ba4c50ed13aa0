package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"sjsilvers-api/internal/auth"
	"sjsilvers-api/internal/products"
	"sjsilvers-api/internal/users"
	"sjsilvers-api/pkg/ctxmanage"
	"sjsilvers-api/pkg/logkey"
)

// Register creates an account and returns a session token.
func (h *Handler) Register(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)

	var newUser users.NewUser
	if err := c.ShouldBindJSON(&newUser); err != nil {
		slog.Error("invalid request body", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "Invalid request body"})
		return
	}

	validate := validator.New()
	if err := validate.Struct(newUser); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "Name, email and password (min 6 chars) are required"})
		return
	}

	user, err := h.u.InsertUser(c.Request.Context(), newUser)
	if err != nil {
		if errors.Is(err, users.ErrEmailTaken) {
			c.AbortWithStatusJSON(http.StatusConflict, gin.H{"message": "Email already registered"})
			return
		}
		slog.Error("error creating user", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "Registration failed"})
		return
	}

	token, err := h.a.GenerateToken(user.ID, user.Role)
	if err != nil {
		slog.Error("error generating token", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "Registration failed"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"user": user, "token": token})
}

// Login checks credentials and returns a session token.
func (h *Handler) Login(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)

	var request struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "Invalid request body"})
		return
	}

	user, err := h.u.Authenticate(c.Request.Context(), request.Email, request.Password)
	if err != nil {
		if errors.Is(err, users.ErrInvalidCredentials) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Invalid email or password"})
			return
		}
		slog.Error("error authenticating user", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "Login failed"})
		return
	}

	token, err := h.a.GenerateToken(user.ID, user.Role)
	if err != nil {
		slog.Error("error generating token", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "Login failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user, "token": token})
}

// Me returns the authenticated user's profile with the wishlist populated.
func (h *Handler) Me(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)

	claims, ok := c.Request.Context().Value(auth.ClaimsKey).(auth.Claims)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Not authorized"})
		return
	}

	user, err := h.u.GetUserByID(c.Request.Context(), claims.Subject)
	if err != nil {
		if errors.Is(err, users.ErrUserNotFound) {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"message": "User not found"})
			return
		}
		slog.Error("error fetching user", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch profile"})
		return
	}

	wishlist, err := h.populateWishlist(c, user.Wishlist)
	if err != nil {
		slog.Error("error populating wishlist", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch profile"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": gin.H{
		"id":        user.ID,
		"name":      user.Name,
		"email":     user.Email,
		"role":      user.Role,
		"wishlist":  wishlist,
		"addresses": user.Addresses,
	}})
}

// UpdateProfile changes the user's name and optionally the password.
func (h *Handler) UpdateProfile(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)
	userId := c.Param("id")

	var request struct {
		Name     string `json:"name"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "Invalid request body"})
		return
	}

	user, err := h.u.UpdateProfile(c.Request.Context(), userId, request.Name, request.Password)
	if err != nil {
		if errors.Is(err, users.ErrUserNotFound) {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"message": "User not found"})
			return
		}
		slog.Error("error updating profile", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "Failed to update profile"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user})
}

// AddAddress appends a delivery address to the user's profile.
func (h *Handler) AddAddress(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)
	userId := c.Param("id")

	var address users.Address
	if err := c.ShouldBindJSON(&address); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "Invalid request body"})
		return
	}

	addresses, err := h.u.AddAddress(c.Request.Context(), userId, address)
	if err != nil {
		if errors.Is(err, users.ErrUserNotFound) {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"message": "User not found"})
			return
		}
		slog.Error("error adding address", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "Failed to add address"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"addresses": addresses})
}

// AddToWishlist appends a product to the user's wishlist and returns the
// populated list.
func (h *Handler) AddToWishlist(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)
	userId := c.Param("id")

	var request struct {
		ProductID string `json:"productId"`
	}
	if err := c.ShouldBindJSON(&request); err != nil || request.ProductID == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "Product ID is required"})
		return
	}

	ids, err := h.u.AddToWishlist(c.Request.Context(), userId, request.ProductID)
	if err != nil {
		if errors.Is(err, users.ErrUserNotFound) {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"message": "User not found"})
			return
		}
		slog.Error("error updating wishlist", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "Failed to update wishlist"})
		return
	}

	wishlist, err := h.populateWishlist(c, ids)
	if err != nil {
		slog.Error("error populating wishlist", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch wishlist"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"wishlist": wishlist})
}

// RemoveFromWishlist drops a product from the user's wishlist.
func (h *Handler) RemoveFromWishlist(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)
	userId := c.Param("id")
	productId := c.Param("productId")

	ids, err := h.u.RemoveFromWishlist(c.Request.Context(), userId, productId)
	if err != nil {
		if errors.Is(err, users.ErrUserNotFound) {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"message": "User not found"})
			return
		}
		slog.Error("error updating wishlist", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "Failed to update wishlist"})
		return
	}

	wishlist, err := h.populateWishlist(c, ids)
	if err != nil {
		slog.Error("error populating wishlist", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch wishlist"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"wishlist": wishlist})
}

func (h *Handler) populateWishlist(c *gin.Context, ids []string) ([]products.Product, error) {
	list, err := h.p.GetProductsByIDs(c.Request.Context(), ids)
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []products.Product{}
	}
	return list, nil
}
