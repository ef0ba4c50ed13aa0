package kafka

import "time"

const (
	TopicOrderPlaced        = `orders.order-placed`
	TopicOrderStatusChanged = `orders.order-status-changed`
)

// OrderPlacedEvent is produced once per checkout.
type OrderPlacedEvent struct {
	OrderID     string    `json:"order_id"`
	UserID      string    `json:"user_id"`
	TotalAmount float64   `json:"total_amount"`
	ItemCount   int       `json:"item_count"`
	CreatedAt   time.Time `json:"created_at"`
}

// OrderStatusEvent is produced on every order status transition.
type OrderStatusEvent struct {
	OrderID   string    `json:"order_id"`
	UserID    string    `json:"user_id"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}
