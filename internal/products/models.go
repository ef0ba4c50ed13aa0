package products

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrNotFound means the product id does not resolve.
	ErrNotFound = errors.New("product not found")
	// ErrInsufficientStock means a requested quantity exceeds the
	// available stock.
	ErrInsufficientStock = errors.New("insufficient stock")
)

// Image is one catalog photo. Stored as a JSONB array on the product row.
type Image struct {
	URL string `json:"url"`
}

// Product is a catalog entry. Price is derived from basePrice, makingCharges
// and discountPercent and never stored.
type Product struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Description     string    `json:"description"`
	Category        string    `json:"category"`
	Metal           string    `json:"metal"`
	Purity          string    `json:"purity"`
	Weight          float64   `json:"weight"`
	BasePrice       float64   `json:"basePrice"`
	MakingCharges   float64   `json:"makingCharges"`
	DiscountPercent float64   `json:"discountPercent"`
	Images          []Image   `json:"images"`
	Stock           int       `json:"stock"`
	SKU             string    `json:"sku"`
	Gender          string    `json:"gender"`
	Featured        bool      `json:"featured"`
	Rating          float64   `json:"rating"`
	Price           float64   `json:"price"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// CheckStock reports whether the requested quantity can be fulfilled
// from the available stock.
func (p Product) CheckStock(requested int) error {
	if p.Stock < requested {
		return fmt.Errorf("requested %d of %s, only %d available: %w",
			requested, p.ID, p.Stock, ErrInsufficientStock)
	}
	return nil
}

// NewProduct is the payload accepted when an admin creates a product.
type NewProduct struct {
	Name            string  `json:"name" validate:"required"`
	Description     string  `json:"description" validate:"required"`
	Category        string  `json:"category" validate:"required"`
	Metal           string  `json:"metal" validate:"required"`
	Purity          string  `json:"purity" validate:"required"`
	Weight          float64 `json:"weight" validate:"required,gt=0"`
	BasePrice       float64 `json:"basePrice" validate:"required,gt=0"`
	MakingCharges   float64 `json:"makingCharges" validate:"gte=0"`
	DiscountPercent float64 `json:"discountPercent" validate:"gte=0,lte=100"`
	Images          []Image `json:"images"`
	Stock           int     `json:"stock" validate:"gte=0"`
	SKU             string  `json:"sku"`
	Gender          string  `json:"gender" validate:"omitempty,oneof=men women unisex kids"`
	Featured        bool    `json:"featured"`
}

// ListFilter carries the catalog query parameters. Zero values mean
// "not filtered". All present filters are AND-combined.
type ListFilter struct {
	Search   string
	Category string
	Metal    string
	Purity   string
	Gender   string
	Featured bool
	MinPrice *float64
	MaxPrice *float64
	Sort     string
	Page     int
	Limit    int
}

// Pagination is the catalog response envelope metadata.
type Pagination struct {
	Page  int `json:"page"`
	Pages int `json:"pages"`
	Total int `json:"total"`
}

// PageCount returns ceil(total/limit) page slots for a filtered set.
func PageCount(total, limit int) int {
	if limit <= 0 {
		return 0
	}
	return (total + limit - 1) / limit
}
