package cart

import "time"

// CartItem is one line in a user's cart. Price is a snapshot of the
// computed unit price taken when the item was added, not a live reference
// to the catalog.
type CartItem struct {
	ProductID string  `json:"productId"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
	Name      string  `json:"name"`
	Image     string  `json:"image"`
}

// Cart is the single mutable aggregate of a user's in-progress purchase
// selections. TotalAmount is always recomputed from the items, never set
// independently.
type Cart struct {
	UserID      string     `json:"userId"`
	Items       []CartItem `json:"items"`
	TotalAmount float64    `json:"totalAmount"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// Upsert applies add-to-cart semantics: if a line for the product already
// exists its quantity is incremented and its price snapshot refreshed,
// otherwise the item is appended. There is at most one line per product.
func (c *Cart) Upsert(item CartItem) {
	for i := range c.Items {
		if c.Items[i].ProductID == item.ProductID {
			c.Items[i].Quantity += item.Quantity
			c.Items[i].Price = item.Price
			c.recalcTotal()
			return
		}
	}
	c.Items = append(c.Items, item)
	c.recalcTotal()
}

// SetQuantity sets a line's quantity to an absolute value. A quantity of
// zero or less removes the line. The price snapshot is deliberately left
// untouched. Returns false when the product has no line in the cart.
func (c *Cart) SetQuantity(productID string, quantity int) bool {
	for i := range c.Items {
		if c.Items[i].ProductID != productID {
			continue
		}
		if quantity <= 0 {
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
		} else {
			c.Items[i].Quantity = quantity
		}
		c.recalcTotal()
		return true
	}
	return false
}

// Remove drops the line for the given product. Removing an absent product
// is a no-op.
func (c *Cart) Remove(productID string) {
	filtered := c.Items[:0]
	for _, item := range c.Items {
		if item.ProductID != productID {
			filtered = append(filtered, item)
		}
	}
	c.Items = filtered
	c.recalcTotal()
}

// Clear empties the cart.
func (c *Cart) Clear() {
	c.Items = nil
	c.recalcTotal()
}

func (c *Cart) recalcTotal() {
	var total float64
	for _, item := range c.Items {
		total += float64(item.Quantity) * item.Price
	}
	c.TotalAmount = total
}
