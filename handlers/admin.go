package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tealeg/xlsx"

	"sjsilvers-api/internal/products"
	"sjsilvers-api/pkg/ctxmanage"
	"sjsilvers-api/pkg/logkey"
)

// AdminStats returns the dashboard counters: users, products, orders and
// gross revenue.
func (h *Handler) AdminStats(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)

	totalUsers, err := h.u.CountUsersByRole(c.Request.Context(), "user")
	if err != nil {
		slog.Error("error counting users", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "Error fetching stats"})
		return
	}

	totalProducts, err := h.p.CountProducts(c.Request.Context())
	if err != nil {
		slog.Error("error counting products", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "Error fetching stats"})
		return
	}

	totalOrders, totalRevenue, err := h.o.Stats(c.Request.Context())
	if err != nil {
		slog.Error("error aggregating orders", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "Error fetching stats"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"stats": gin.H{
		"totalUsers":    totalUsers,
		"totalProducts": totalProducts,
		"totalOrders":   totalOrders,
		"totalRevenue":  totalRevenue,
	}})
}

// SeedProducts replaces the catalog with the sample set (dev only).
func (h *Handler) SeedProducts(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)

	if err := h.p.ReplaceAllProducts(c.Request.Context(), sampleProducts); err != nil {
		slog.Error("error seeding products", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "Seeding failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Database seeded successfully"})
}

// ExportProductsExcel streams the whole catalog as an xlsx download.
func (h *Handler) ExportProductsExcel(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)

	list, err := h.p.GetAllProducts(c.Request.Context())
	if err != nil {
		slog.Error("error fetching products", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch products"})
		return
	}

	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Products")
	if err != nil {
		slog.Error("error creating sheet", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "Failed to create Excel sheet"})
		return
	}

	headers := []string{
		"ID", "Name", "SKU", "Category", "Metal", "Purity", "Weight",
		"BasePrice", "MakingCharges", "DiscountPercent", "Price", "Stock",
		"Gender", "Featured", "CreatedAt",
	}
	headerRow := sheet.AddRow()
	for _, header := range headers {
		headerRow.AddCell().SetValue(header)
	}

	for _, p := range list {
		row := sheet.AddRow()
		row.AddCell().SetValue(p.ID)
		row.AddCell().SetValue(p.Name)
		row.AddCell().SetValue(p.SKU)
		row.AddCell().SetValue(p.Category)
		row.AddCell().SetValue(p.Metal)
		row.AddCell().SetValue(p.Purity)
		row.AddCell().SetValue(p.Weight)
		row.AddCell().SetValue(p.BasePrice)
		row.AddCell().SetValue(p.MakingCharges)
		row.AddCell().SetValue(p.DiscountPercent)
		row.AddCell().SetValue(p.Price)
		row.AddCell().SetValue(p.Stock)
		row.AddCell().SetValue(p.Gender)
		row.AddCell().SetValue(p.Featured)
		row.AddCell().SetValue(p.CreatedAt.Format("2006-01-02 15:04:05"))
	}

	c.Header("Content-Disposition", "attachment; filename=products.xlsx")
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")

	if err := file.Write(c.Writer); err != nil {
		slog.Error("error writing excel file", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
	}
}

var sampleProducts = []products.NewProduct{
	{
		Name:          "Classic Gold Chain",
		Description:   "22K Yellow Gold Chain, perfect for daily wear. Elegant and durable.",
		Category:      "chains",
		Metal:         "gold",
		Purity:        "22K",
		Weight:        15.5,
		BasePrice:     85000,
		MakingCharges: 5000,
		Images:        []products.Image{{URL: "https://images.unsplash.com/photo-1611591437281-460bfbe1220a?w=500"}},
		Stock:         10,
		SKU:           "CHN-001",
		Gender:        "unisex",
	},
	{
		Name:          "Diamond Studded Ring",
		Description:   "18K Gold ring with certified VVS diamonds. A symbol of eternal love.",
		Category:      "rings",
		Metal:         "gold",
		Purity:        "18K",
		Weight:        4.2,
		BasePrice:     45000,
		MakingCharges: 3000,
		Images:        []products.Image{{URL: "https://images.unsplash.com/photo-1605100804763-247f67b3557e?w=500"}},
		Stock:         5,
		SKU:           "RNG-002",
		Gender:        "women",
		Featured:      true,
	},
	{
		Name:          "Silver Oxidized Bangles",
		Description:   "Traditional 925 Sterling Silver oxidized bangles with intricate antique design.",
		Category:      "bangles",
		Metal:         "silver",
		Purity:        "925",
		Weight:        45,
		BasePrice:     8500,
		MakingCharges: 1000,
		Images:        []products.Image{{URL: "https://images.unsplash.com/photo-1610694955371-d4a3e0ce4b52?w=500"}},
		Stock:         20,
		SKU:           "BNG-003",
		Gender:        "women",
	},
}
