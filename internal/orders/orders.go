// Package orders owns the order aggregate: checkout snapshots, the status
// lifecycle, and checkout charge computation.
package orders

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"sjsilvers-api/internal/cart"
)

var (
	// ErrOrderNotFound means the order id does not resolve.
	ErrOrderNotFound = errors.New("order not found")
	// ErrEmptyCart means checkout was attempted with no items.
	ErrEmptyCart = errors.New("cart is empty")
)

type Conf struct {
	db *sql.DB
}

func NewConf(db *sql.DB) (Conf, error) {
	if db == nil {
		return Conf{}, fmt.Errorf("db is nil")
	}
	return Conf{db: db}, nil
}

const orderColumns = `id, user_id, items, total_amount, status, shipping_address,
	payment_method, payment_status, tracking_number, created_at, updated_at`

// CreateOrder freezes the given cart into a new pending order. The cart must
// be non-empty. The persisted total mirrors the cart subtotal; clearing the
// cart afterwards is the caller's responsibility.
func (c *Conf) CreateOrder(ctx context.Context, userID string, userCart cart.Cart, address ShippingAddress, paymentMethod string) (Order, error) {
	if len(userCart.Items) == 0 {
		return Order{}, fmt.Errorf("user %s: %w", userID, ErrEmptyCart)
	}

	items := make([]OrderItem, 0, len(userCart.Items))
	for _, item := range userCart.Items {
		items = append(items, OrderItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Price:     item.Price,
			Name:      item.Name,
			Image:     item.Image,
		})
	}

	itemsJSON, err := json.Marshal(items)
	if err != nil {
		return Order{}, fmt.Errorf("failed to marshal order items: %w", err)
	}
	addressJSON, err := json.Marshal(address)
	if err != nil {
		return Order{}, fmt.Errorf("failed to marshal shipping address: %w", err)
	}

	order := Order{
		ID:              uuid.NewString(),
		UserID:          userID,
		Items:           items,
		TotalAmount:     userCart.TotalAmount,
		Status:          StatusPending,
		ShippingAddress: address,
		PaymentMethod:   paymentMethod,
		CreatedAt:       time.Now().UTC(),
		UpdatedAt:       time.Now().UTC(),
	}

	query := `
		INSERT INTO orders (id, user_id, items, total_amount, status, shipping_address,
			payment_method, payment_status, tracking_number, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, '', '', $8, $8)
	`
	_, err = c.db.ExecContext(ctx, query, order.ID, order.UserID, itemsJSON,
		order.TotalAmount, order.Status, addressJSON, order.PaymentMethod, order.CreatedAt)
	if err != nil {
		return Order{}, fmt.Errorf("failed to insert order: %w", err)
	}

	return order, nil
}

// GetOrderByID fetches a single order.
func (c *Conf) GetOrderByID(ctx context.Context, orderID string) (Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`

	order, err := scanOrder(c.db.QueryRowContext(ctx, query, orderID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Order{}, fmt.Errorf("order %s: %w", orderID, ErrOrderNotFound)
		}
		return Order{}, fmt.Errorf("failed to fetch order %s: %w", orderID, err)
	}
	return order, nil
}

// ListUserOrders returns all orders for a user, newest first.
func (c *Conf) ListUserOrders(ctx context.Context, userID string) ([]Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE user_id = $1 ORDER BY created_at DESC`

	rows, err := c.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	return collectOrders(rows)
}

// ListOrders returns a page of all orders (admin), optionally filtered by
// status, plus the total match count.
func (c *Conf) ListOrders(ctx context.Context, status Status, page, limit int) ([]Order, int, error) {
	where := ""
	var args []interface{}
	if status != "" {
		where = " WHERE status = $1"
		args = append(args, status)
	}

	var total int
	if err := c.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM orders`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count orders: %w", err)
	}

	if limit <= 0 {
		limit = 20
	}
	if page <= 0 {
		page = 1
	}

	query := `SELECT ` + orderColumns + ` FROM orders` + where +
		fmt.Sprintf(` ORDER BY created_at DESC LIMIT %d OFFSET %d`, limit, limit*(page-1))

	rows, err := c.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	list, err := collectOrders(rows)
	return list, total, err
}

// CancelOrder moves an order to cancelled. Allowed only while the order has
// not shipped; fails with ErrInvalidTransition otherwise.
func (c *Conf) CancelOrder(ctx context.Context, orderID string) (Order, error) {
	return c.transition(ctx, orderID, StatusCancelled, "")
}

// UpdateStatus moves an order to a new status (admin action), validated
// against the transition table. A tracking number may be attached.
func (c *Conf) UpdateStatus(ctx context.Context, orderID string, status Status, trackingNumber string) (Order, error) {
	if !status.Valid() {
		return Order{}, fmt.Errorf("status %q: %w", status, ErrInvalidTransition)
	}
	return c.transition(ctx, orderID, status, trackingNumber)
}

func (c *Conf) transition(ctx context.Context, orderID string, next Status, trackingNumber string) (Order, error) {
	order, err := c.GetOrderByID(ctx, orderID)
	if err != nil {
		return Order{}, err
	}

	if !order.Status.CanTransition(next) {
		return Order{}, fmt.Errorf("cannot move order %s from %q to %q: %w",
			orderID, order.Status, next, ErrInvalidTransition)
	}

	if trackingNumber == "" {
		trackingNumber = order.TrackingNumber
	}

	query := `UPDATE orders SET status = $1, tracking_number = $2, updated_at = NOW() WHERE id = $3`
	if _, err := c.db.ExecContext(ctx, query, next, trackingNumber, orderID); err != nil {
		return Order{}, fmt.Errorf("failed to update order %s: %w", orderID, err)
	}

	order.Status = next
	order.TrackingNumber = trackingNumber
	order.UpdatedAt = time.Now().UTC()
	return order, nil
}

// SetPaymentStatus records the payment outcome for an order.
func (c *Conf) SetPaymentStatus(ctx context.Context, orderID, paymentStatus string) (Order, error) {
	order, err := c.GetOrderByID(ctx, orderID)
	if err != nil {
		return Order{}, err
	}

	query := `UPDATE orders SET payment_status = $1, updated_at = NOW() WHERE id = $2`
	if _, err := c.db.ExecContext(ctx, query, paymentStatus, orderID); err != nil {
		return Order{}, fmt.Errorf("failed to update payment status for order %s: %w", orderID, err)
	}

	order.PaymentStatus = paymentStatus
	return order, nil
}

// Stats returns the order count and gross revenue (sum of persisted order
// totals) for the admin dashboard.
func (c *Conf) Stats(ctx context.Context) (int, float64, error) {
	var count int
	var revenue float64
	query := `SELECT COUNT(*), COALESCE(SUM(total_amount), 0) FROM orders`
	if err := c.db.QueryRowContext(ctx, query).Scan(&count, &revenue); err != nil {
		return 0, 0, fmt.Errorf("failed to aggregate order stats: %w", err)
	}
	return count, revenue, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanOrder(row rowScanner) (Order, error) {
	var o Order
	var items, address []byte

	err := row.Scan(&o.ID, &o.UserID, &items, &o.TotalAmount, &o.Status, &address,
		&o.PaymentMethod, &o.PaymentStatus, &o.TrackingNumber, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return Order{}, err
	}

	if err := json.Unmarshal(items, &o.Items); err != nil {
		return Order{}, fmt.Errorf("failed to unmarshal order items: %w", err)
	}
	if err := json.Unmarshal(address, &o.ShippingAddress); err != nil {
		return Order{}, fmt.Errorf("failed to unmarshal shipping address: %w", err)
	}
	return o, nil
}

func collectOrders(rows *sql.Rows) ([]Order, error) {
	var list []Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		list = append(list, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating orders: %w", err)
	}
	return list, nil
}
