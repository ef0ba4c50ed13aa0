// Package cart owns the per-user cart aggregate: one document row per user,
// mutated by read-modify-write of the whole item list.
package cart

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

var (
	// ErrCartNotFound means the user has no cart yet.
	ErrCartNotFound = errors.New("cart not found")
	// ErrItemNotFound means the product has no line in the cart.
	ErrItemNotFound = errors.New("item not found in cart")
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

// GetOrCreateCart returns the user's cart, creating an empty one on first
// access.
func (c *Conf) GetOrCreateCart(ctx context.Context, userID string) (Cart, error) {
	cart, err := c.loadCart(ctx, c.db, userID)
	if err == nil {
		return cart, nil
	}
	if !errors.Is(err, ErrCartNotFound) {
		return Cart{}, err
	}

	cart = Cart{UserID: userID, Items: []CartItem{}}
	if err := c.saveCart(ctx, c.db, &cart); err != nil {
		return Cart{}, err
	}
	return cart, nil
}

// AddItem applies add-to-cart semantics for the given line and persists the
// updated aggregate. Stock validation against the catalog happens in the
// caller, which also computes the price snapshot.
func (c *Conf) AddItem(ctx context.Context, userID string, item CartItem) (Cart, error) {
	return c.mutate(ctx, userID, true, func(cart *Cart) error {
		cart.Upsert(item)
		return nil
	})
}

// UpdateQuantity sets the absolute quantity of a line; zero or less removes
// it. Fails with ErrCartNotFound / ErrItemNotFound.
func (c *Conf) UpdateQuantity(ctx context.Context, userID, productID string, quantity int) (Cart, error) {
	return c.mutate(ctx, userID, false, func(cart *Cart) error {
		if !cart.SetQuantity(productID, quantity) {
			return ErrItemNotFound
		}
		return nil
	})
}

// RemoveItem drops the line for the product. Fails with ErrCartNotFound when
// the user has no cart; removing an absent product is a no-op.
func (c *Conf) RemoveItem(ctx context.Context, userID, productID string) (Cart, error) {
	return c.mutate(ctx, userID, false, func(cart *Cart) error {
		cart.Remove(productID)
		return nil
	})
}

// ClearCart empties the user's cart. A missing cart is not an error.
func (c *Conf) ClearCart(ctx context.Context, userID string) error {
	_, err := c.mutate(ctx, userID, false, func(cart *Cart) error {
		cart.Clear()
		return nil
	})
	if errors.Is(err, ErrCartNotFound) {
		return nil
	}
	return err
}

// mutate runs a read-modify-write cycle on the user's cart document inside
// a transaction. No row lock is taken: concurrent mutations for the same
// user are last-writer-wins, which mirrors the one-document-per-user model
// this service inherits.
func (c *Conf) mutate(ctx context.Context, userID string, createIfMissing bool, fn func(*Cart) error) (Cart, error) {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return Cart{}, fmt.Errorf("failed to begin tx: %w", err)
	}
	defer tx.Rollback()

	cart, err := c.loadCart(ctx, tx, userID)
	if err != nil {
		if !errors.Is(err, ErrCartNotFound) || !createIfMissing {
			return Cart{}, err
		}
		cart = Cart{UserID: userID, Items: []CartItem{}}
	}

	if err := fn(&cart); err != nil {
		return Cart{}, err
	}

	if err := c.saveCart(ctx, tx, &cart); err != nil {
		return Cart{}, err
	}

	if err := tx.Commit(); err != nil {
		return Cart{}, fmt.Errorf("failed to commit cart update: %w", err)
	}
	return cart, nil
}

type queryer interface {
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

func (c *Conf) loadCart(ctx context.Context, q queryer, userID string) (Cart, error) {
	query := `SELECT items, total_amount, updated_at FROM carts WHERE user_id = $1`

	var items []byte
	cart := Cart{UserID: userID}
	err := q.QueryRowContext(ctx, query, userID).Scan(&items, &cart.TotalAmount, &cart.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Cart{}, fmt.Errorf("user %s: %w", userID, ErrCartNotFound)
		}
		return Cart{}, fmt.Errorf("failed to query cart: %w", err)
	}

	if err := json.Unmarshal(items, &cart.Items); err != nil {
		return Cart{}, fmt.Errorf("failed to unmarshal cart items: %w", err)
	}
	return cart, nil
}

func (c *Conf) saveCart(ctx context.Context, q queryer, cart *Cart) error {
	if cart.Items == nil {
		cart.Items = []CartItem{}
	}
	items, err := json.Marshal(cart.Items)
	if err != nil {
		return fmt.Errorf("failed to marshal cart items: %w", err)
	}

	cart.UpdatedAt = time.Now().UTC()
	query := `
		INSERT INTO carts (user_id, items, total_amount, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id)
		DO UPDATE SET items = $2, total_amount = $3, updated_at = $4
	`
	if _, err := q.ExecContext(ctx, query, cart.UserID, items, cart.TotalAmount, cart.UpdatedAt); err != nil {
		return fmt.Errorf("failed to save cart: %w", err)
	}
	return nil
}
