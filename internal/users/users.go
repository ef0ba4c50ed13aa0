// Package users owns accounts: signup, login, profile, wishlist and
// addresses.
package users

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrUserNotFound means the user id or email does not resolve.
	ErrUserNotFound = errors.New("user not found")
	// ErrInvalidCredentials means the email/password pair did not match.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrEmailTaken means an account with the email already exists.
	ErrEmailTaken = errors.New("email already registered")
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

const userColumns = `id, name, email, password_hash, role, wishlist, addresses, created_at`

// InsertUser creates an account with a bcrypt-hashed password and the
// "user" role.
func (c *Conf) InsertUser(ctx context.Context, nu NewUser) (User, error) {
	var exists bool
	err := c.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM users WHERE email = $1)`, nu.Email).Scan(&exists)
	if err != nil {
		return User{}, fmt.Errorf("failed to check email: %w", err)
	}
	if exists {
		return User{}, fmt.Errorf("email %s: %w", nu.Email, ErrEmailTaken)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(nu.Password), bcrypt.DefaultCost)
	if err != nil {
		return User{}, fmt.Errorf("failed to hash password: %w", err)
	}

	user := User{
		ID:        uuid.NewString(),
		Name:      nu.Name,
		Email:     nu.Email,
		Role:      "user",
		Wishlist:  []string{},
		Addresses: []Address{},
		CreatedAt: time.Now().UTC(),
	}

	query := `
		INSERT INTO users (id, name, email, password_hash, role, wishlist, addresses, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, '[]', '[]', $6, $6)
	`
	_, err = c.db.ExecContext(ctx, query, user.ID, user.Name, user.Email, string(hash), user.Role, user.CreatedAt)
	if err != nil {
		return User{}, fmt.Errorf("failed to insert user: %w", err)
	}

	return user, nil
}

// Authenticate checks an email/password pair and returns the account.
func (c *Conf) Authenticate(ctx context.Context, email, password string) (User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`

	user, err := scanUser(c.db.QueryRowContext(ctx, query, email))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return User{}, ErrInvalidCredentials
		}
		return User{}, fmt.Errorf("failed to fetch user: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.passwordHash), []byte(password)) != nil {
		return User{}, ErrInvalidCredentials
	}
	return user, nil
}

// GetUserByID fetches an account.
func (c *Conf) GetUserByID(ctx context.Context, userID string) (User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	user, err := scanUser(c.db.QueryRowContext(ctx, query, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return User{}, fmt.Errorf("user %s: %w", userID, ErrUserNotFound)
		}
		return User{}, fmt.Errorf("failed to fetch user %s: %w", userID, err)
	}
	return user, nil
}

// UpdateProfile changes the user's name and, when non-empty, the password.
func (c *Conf) UpdateProfile(ctx context.Context, userID, name, password string) (User, error) {
	user, err := c.GetUserByID(ctx, userID)
	if err != nil {
		return User{}, err
	}

	if name != "" {
		user.Name = name
	}
	hash := user.passwordHash
	if password != "" {
		h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return User{}, fmt.Errorf("failed to hash password: %w", err)
		}
		hash = string(h)
	}

	query := `UPDATE users SET name = $1, password_hash = $2, updated_at = NOW() WHERE id = $3`
	if _, err := c.db.ExecContext(ctx, query, user.Name, hash, userID); err != nil {
		return User{}, fmt.Errorf("failed to update profile: %w", err)
	}
	return user, nil
}

// AddToWishlist appends a product id to the wishlist if not already present
// and returns the updated id list.
func (c *Conf) AddToWishlist(ctx context.Context, userID, productID string) ([]string, error) {
	user, err := c.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	for _, id := range user.Wishlist {
		if id == productID {
			return user.Wishlist, nil
		}
	}
	user.Wishlist = append(user.Wishlist, productID)

	if err := c.saveWishlist(ctx, userID, user.Wishlist); err != nil {
		return nil, err
	}
	return user.Wishlist, nil
}

// RemoveFromWishlist drops a product id from the wishlist.
func (c *Conf) RemoveFromWishlist(ctx context.Context, userID, productID string) ([]string, error) {
	user, err := c.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	filtered := user.Wishlist[:0]
	for _, id := range user.Wishlist {
		if id != productID {
			filtered = append(filtered, id)
		}
	}

	if err := c.saveWishlist(ctx, userID, filtered); err != nil {
		return nil, err
	}
	return filtered, nil
}

// AddAddress appends a delivery address to the profile and returns the
// updated list.
func (c *Conf) AddAddress(ctx context.Context, userID string, address Address) ([]Address, error) {
	user, err := c.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	user.Addresses = append(user.Addresses, address)
	addresses, err := json.Marshal(user.Addresses)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal addresses: %w", err)
	}

	query := `UPDATE users SET addresses = $1, updated_at = NOW() WHERE id = $2`
	if _, err := c.db.ExecContext(ctx, query, addresses, userID); err != nil {
		return nil, fmt.Errorf("failed to update addresses: %w", err)
	}
	return user.Addresses, nil
}

// CountUsersByRole counts accounts with the given role (admin stats).
func (c *Conf) CountUsersByRole(ctx context.Context, role string) (int, error) {
	var count int
	if err := c.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users WHERE role = $1`, role).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	return count, nil
}

func (c *Conf) saveWishlist(ctx context.Context, userID string, wishlist []string) error {
	if wishlist == nil {
		wishlist = []string{}
	}
	data, err := json.Marshal(wishlist)
	if err != nil {
		return fmt.Errorf("failed to marshal wishlist: %w", err)
	}

	query := `UPDATE users SET wishlist = $1, updated_at = NOW() WHERE id = $2`
	if _, err := c.db.ExecContext(ctx, query, data, userID); err != nil {
		return fmt.Errorf("failed to update wishlist: %w", err)
	}
	return nil
}

func scanUser(row *sql.Row) (User, error) {
	var u User
	var wishlist, addresses []byte

	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.passwordHash, &u.Role, &wishlist, &addresses, &u.CreatedAt)
	if err != nil {
		return User{}, err
	}

	if err := json.Unmarshal(wishlist, &u.Wishlist); err != nil {
		return User{}, fmt.Errorf("failed to unmarshal wishlist: %w", err)
	}
	if err := json.Unmarshal(addresses, &u.Addresses); err != nil {
		return User{}, fmt.Errorf("failed to unmarshal addresses: %w", err)
	}
	return u, nil
}
