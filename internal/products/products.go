// Package products owns the catalog: storage, filtering and pricing.
package products

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
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

const productColumns = `id, name, description, category, metal, purity, weight,
	base_price, making_charges, discount_percent, images, stock,
	COALESCE(sku, ''), COALESCE(gender, ''), featured, rating, created_at, updated_at`

// InsertProduct saves a new catalog entry and returns it with the derived
// price filled in.
func (c *Conf) InsertProduct(ctx context.Context, np NewProduct) (Product, error) {
	images, err := json.Marshal(np.Images)
	if err != nil {
		return Product{}, fmt.Errorf("failed to marshal images: %w", err)
	}

	id := uuid.NewString()
	now := time.Now().UTC()

	query := `
		INSERT INTO products (id, name, description, category, metal, purity, weight,
			base_price, making_charges, discount_percent, images, stock, sku, gender,
			featured, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, NULLIF($13, ''), NULLIF($14, ''), $15, $16, $16)
	`
	_, err = c.db.ExecContext(ctx, query, id, np.Name, np.Description, np.Category,
		np.Metal, np.Purity, np.Weight, np.BasePrice, np.MakingCharges,
		np.DiscountPercent, images, np.Stock, np.SKU, np.Gender, np.Featured, now)
	if err != nil {
		return Product{}, fmt.Errorf("failed to insert product: %w", err)
	}

	return c.GetProductByID(ctx, id)
}

// GetProductByID fetches a single product. Returns ErrNotFound (wrapped)
// when the id does not resolve.
func (c *Conf) GetProductByID(ctx context.Context, productID string) (Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`

	p, err := scanProduct(c.db.QueryRowContext(ctx, query, productID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Product{}, fmt.Errorf("product %s: %w", productID, ErrNotFound)
		}
		return Product{}, fmt.Errorf("failed to fetch product %s: %w", productID, err)
	}
	return p, nil
}

// UpdateProductInDB overwrites a product's mutable fields.
func (c *Conf) UpdateProductInDB(ctx context.Context, productID string, p Product) (Product, error) {
	images, err := json.Marshal(p.Images)
	if err != nil {
		return Product{}, fmt.Errorf("failed to marshal images: %w", err)
	}

	query := `
		UPDATE products
		SET name = $1, description = $2, category = $3, metal = $4, purity = $5,
			weight = $6, base_price = $7, making_charges = $8, discount_percent = $9,
			images = $10, stock = $11, sku = NULLIF($12, ''), gender = NULLIF($13, ''),
			featured = $14, rating = $15, updated_at = NOW()
		WHERE id = $16
	`
	_, err = c.db.ExecContext(ctx, query, p.Name, p.Description, p.Category, p.Metal,
		p.Purity, p.Weight, p.BasePrice, p.MakingCharges, p.DiscountPercent, images,
		p.Stock, p.SKU, p.Gender, p.Featured, p.Rating, productID)
	if err != nil {
		return Product{}, fmt.Errorf("failed to update product %s: %w", productID, err)
	}

	return c.GetProductByID(ctx, productID)
}

// DeleteProductFromDB removes a product from the catalog.
func (c *Conf) DeleteProductFromDB(ctx context.Context, productID string) error {
	_, err := c.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, productID)
	if err != nil {
		return fmt.Errorf("failed to delete product %s: %w", productID, err)
	}
	return nil
}

// ListProductsFromDB runs the catalog query: AND-combined filters, sort,
// and pagination. Returns the page of products plus the total match count.
func (c *Conf) ListProductsFromDB(ctx context.Context, f ListFilter) ([]Product, int, error) {
	where, args := buildListFilter(f)

	var total int
	countQuery := `SELECT COUNT(*) FROM products` + where
	if err := c.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count products: %w", err)
	}

	limit := f.Limit
	if limit <= 0 {
		limit = 12
	}
	page := f.Page
	if page <= 0 {
		page = 1
	}

	query := `SELECT ` + productColumns + ` FROM products` + where +
		` ORDER BY ` + orderClause(f.Sort) +
		fmt.Sprintf(` LIMIT %d OFFSET %d`, limit, limit*(page-1))

	rows, err := c.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	var list []Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan product: %w", err)
		}
		list = append(list, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating products: %w", err)
	}

	return list, total, nil
}

// GetProductsByIDs fetches the given products in one round trip. Missing ids
// are silently skipped (used to populate wishlists).
func (c *Conf) GetProductsByIDs(ctx context.Context, ids []string) ([]Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	placeholders := make([]string, len(ids))
	args := make([]interface{}, len(ids))
	for i, id := range ids {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		args[i] = id
	}

	query := `SELECT ` + productColumns + ` FROM products WHERE id IN (` +
		strings.Join(placeholders, ", ") + `)`

	rows, err := c.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query products by ids: %w", err)
	}
	defer rows.Close()

	var list []Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

// GetAllProducts returns the whole catalog, newest first (admin export).
func (c *Conf) GetAllProducts(ctx context.Context) ([]Product, error) {
	query := `SELECT ` + productColumns + ` FROM products ORDER BY created_at DESC`

	rows, err := c.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	var list []Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

// CountProducts returns the catalog size (admin stats).
func (c *Conf) CountProducts(ctx context.Context) (int, error) {
	var count int
	if err := c.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM products`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count products: %w", err)
	}
	return count, nil
}

// ReplaceAllProducts wipes the catalog and inserts the given set (dev seed).
func (c *Conf) ReplaceAllProducts(ctx context.Context, seed []NewProduct) error {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM products`); err != nil {
		return fmt.Errorf("failed to clear products: %w", err)
	}

	for _, np := range seed {
		images, err := json.Marshal(np.Images)
		if err != nil {
			return fmt.Errorf("failed to marshal images: %w", err)
		}
		query := `
			INSERT INTO products (id, name, description, category, metal, purity, weight,
				base_price, making_charges, discount_percent, images, stock, sku, gender,
				featured, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, NULLIF($13, ''), NULLIF($14, ''), $15, NOW(), NOW())
		`
		_, err = tx.ExecContext(ctx, query, uuid.NewString(), np.Name, np.Description,
			np.Category, np.Metal, np.Purity, np.Weight, np.BasePrice, np.MakingCharges,
			np.DiscountPercent, images, np.Stock, np.SKU, np.Gender, np.Featured)
		if err != nil {
			return fmt.Errorf("failed to seed product %s: %w", np.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit seed: %w", err)
	}
	return nil
}

// buildListFilter translates a ListFilter into a WHERE clause plus args.
// Keyword match is case-insensitive substring; the price range applies to
// base_price and is inclusive at both bounds.
func buildListFilter(f ListFilter) (string, []interface{}) {
	var conds []string
	var args []interface{}

	add := func(cond string, val interface{}) {
		args = append(args, val)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}

	if f.Search != "" {
		add("name ILIKE $%d", "%"+f.Search+"%")
	}
	if f.Category != "" {
		add("category = $%d", f.Category)
	}
	if f.Metal != "" {
		add("metal = $%d", f.Metal)
	}
	if f.Purity != "" {
		add("purity = $%d", f.Purity)
	}
	if f.Gender != "" {
		add("gender = $%d", f.Gender)
	}
	if f.Featured {
		conds = append(conds, "featured = TRUE")
	}
	if f.MinPrice != nil {
		add("base_price >= $%d", *f.MinPrice)
	}
	if f.MaxPrice != nil {
		add("base_price <= $%d", *f.MaxPrice)
	}

	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func orderClause(sort string) string {
	switch sort {
	case "price-asc":
		return "base_price ASC"
	case "price-desc":
		return "base_price DESC"
	case "rating":
		return "rating DESC"
	default:
		return "created_at DESC"
	}
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanProduct(row rowScanner) (Product, error) {
	var p Product
	var images []byte

	err := row.Scan(&p.ID, &p.Name, &p.Description, &p.Category, &p.Metal, &p.Purity,
		&p.Weight, &p.BasePrice, &p.MakingCharges, &p.DiscountPercent, &images,
		&p.Stock, &p.SKU, &p.Gender, &p.Featured, &p.Rating, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return Product{}, err
	}

	if err := json.Unmarshal(images, &p.Images); err != nil {
		return Product{}, fmt.Errorf("failed to unmarshal images: %w", err)
	}

	return p.WithPrice(), nil
}
