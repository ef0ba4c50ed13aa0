// Package handlers wires the REST API: routing, request decoding, and the
// mapping from domain errors to HTTP responses.
package handlers

import (
	"net/http"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"sjsilvers-api/internal/auth"
	"sjsilvers-api/internal/cart"
	"sjsilvers-api/internal/orders"
	"sjsilvers-api/internal/payment"
	"sjsilvers-api/internal/products"
	"sjsilvers-api/internal/stores/kafka"
	"sjsilvers-api/internal/users"
	"sjsilvers-api/middleware"
)

type Handler struct {
	p       products.Conf
	c       cart.Conf
	o       orders.Conf
	u       users.Conf
	a       *auth.Keys
	gateway payment.Gateway
	events  *kafka.Conf // nil when Kafka is not configured
	feed    *orderFeed
}

type Conf struct {
	Products products.Conf
	Cart     cart.Conf
	Orders   orders.Conf
	Users    users.Conf
	Keys     *auth.Keys
	Gateway  payment.Gateway
	Events   *kafka.Conf
}

func NewHandler(conf Conf) *Handler {
	return &Handler{
		p:       conf.Products,
		c:       conf.Cart,
		o:       conf.Orders,
		u:       conf.Users,
		a:       conf.Keys,
		gateway: conf.Gateway,
		events:  conf.Events,
		feed:    newOrderFeed(),
	}
}

// API builds the gin engine with all routes mounted under endpointPrefix.
func API(endpointPrefix string, conf Conf) *gin.Engine {
	r := gin.New()
	mode := os.Getenv("GIN_MODE")
	if mode == gin.ReleaseMode {
		gin.SetMode(mode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	m := middleware.NewMid(conf.Keys)
	h := NewHandler(conf)

	r.Use(middleware.Logger(), gin.Recovery())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/ping", healthCheck)

	api := r.Group(endpointPrefix)
	{
		api.POST("/auth/register", h.Register)
		api.POST("/auth/login", h.Login)

		api.GET("/products", h.ListProducts)
		api.GET("/products/:id", h.GetProduct)

		api.POST("/payment/create-order", h.CreatePaymentOrder)
		api.POST("/payment/verify", h.VerifyPayment)

		authed := api.Group("")
		authed.Use(m.Authentication())
		{
			authed.GET("/auth/me", h.Me)

			authed.GET("/cart/:userId", m.Authorize(h.GetCart, auth.RoleUser))
			authed.POST("/cart/add", m.Authorize(h.AddToCart, auth.RoleUser))
			authed.PUT("/cart/update", m.Authorize(h.UpdateCartItem, auth.RoleUser))
			authed.DELETE("/cart/remove", m.Authorize(h.RemoveFromCart, auth.RoleUser))
			authed.DELETE("/cart/clear/:userId", m.Authorize(h.ClearCart, auth.RoleUser))

			authed.POST("/orders", m.Authorize(h.CreateOrder, auth.RoleUser))
			authed.GET("/orders/user/:userId", m.Authorize(h.ListUserOrders, auth.RoleUser))
			authed.GET("/orders/:id", m.Authorize(h.GetOrder, auth.RoleUser))
			authed.PUT("/orders/:id/cancel", m.Authorize(h.CancelOrder, auth.RoleUser))

			authed.PUT("/users/profile/:id", m.Authorize(h.UpdateProfile, auth.RoleUser))
			authed.POST("/users/address/:id", m.Authorize(h.AddAddress, auth.RoleUser))
			authed.POST("/users/wishlist/:id", m.Authorize(h.AddToWishlist, auth.RoleUser))
			authed.DELETE("/users/wishlist/:id/:productId", m.Authorize(h.RemoveFromWishlist, auth.RoleUser))

			authed.POST("/products", m.Authorize(h.CreateProduct, auth.RoleAdmin))
			authed.PUT("/products/:id", m.Authorize(h.UpdateProduct, auth.RoleAdmin))
			authed.DELETE("/products/:id", m.Authorize(h.DeleteProduct, auth.RoleAdmin))

			authed.GET("/orders", m.Authorize(h.ListOrders, auth.RoleAdmin))
			authed.PUT("/orders/:id/status", m.Authorize(h.UpdateOrderStatus, auth.RoleAdmin))

			authed.GET("/admin/stats", m.Authorize(h.AdminStats, auth.RoleAdmin))
			authed.POST("/seed", m.Authorize(h.SeedProducts, auth.RoleAdmin))
			authed.GET("/admin/products/export", m.Authorize(h.ExportProductsExcel, auth.RoleAdmin))
		}

		// Websocket upgrade handles auth via query token, outside the
		// Bearer-header middleware.
		api.GET("/admin/orders/live", h.OrderFeed)
	}

	return r
}

func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
