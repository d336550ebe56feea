package repository

import (
	"database/sql"
	"fmt"
	"time"

	"pricetrack/database"
	"pricetrack/models"
)

// historyLimit bounds the per-product price ledger
const historyLimit = 100

const productColumns = `id, url, title, store, current_price, lowest_price, highest_price,
	image_url, description, is_in_stock, alert_threshold, user_email,
	last_checked, created_at, updated_at, is_active`

type ProductRepository struct{}

func NewProductRepository() *ProductRepository {
	return &ProductRepository{}
}

// CreateProduct inserts a newly tracked product. The first snapshot seeds
// both price extremes.
func (r *ProductRepository) CreateProduct(url string, store models.Store, userEmail string, snap *models.ProductSnapshot) (*models.Product, error) {
	query := `
		INSERT INTO products (url, title, store, current_price, lowest_price, highest_price,
			image_url, description, is_in_stock, user_email, last_checked, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $4, $4, $5, $6, $7, $8, $9, $9, $9)
		RETURNING ` + productColumns

	now := time.Now()
	inStock := snap.Price > 0

	var product models.Product
	err := scanProduct(database.DB.QueryRow(query,
		url, snap.Title, store, snap.Price, snap.ImageURL, snap.Description,
		inStock, userEmail, now,
	), &product)
	if err != nil {
		return nil, fmt.Errorf("failed to create product: %v", err)
	}

	if err := r.appendHistory(product.ID, snap.Price); err != nil {
		return nil, err
	}

	return &product, nil
}

// GetProductByURL returns the tracked product for a url/user pair, or nil
// when the pair is not tracked yet.
func (r *ProductRepository) GetProductByURL(url, userEmail string) (*models.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE url = $1 AND user_email = $2 AND is_active = true`

	var product models.Product
	err := scanProduct(database.DB.QueryRow(query, url, userEmail), &product)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get product by URL: %v", err)
	}
	return &product, nil
}

// GetProducts returns all active products, optionally filtered by user
func (r *ProductRepository) GetProducts(userEmail string) ([]models.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE is_active = true`
	args := []interface{}{}
	if userEmail != "" {
		query += ` AND user_email = $1`
		args = append(args, userEmail)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := database.DB.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get products: %v", err)
	}
	defer rows.Close()

	return collectProducts(rows)
}

// GetProductByID returns a tracked product by ID
func (r *ProductRepository) GetProductByID(id int) (*models.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1 AND is_active = true`

	var product models.Product
	err := scanProduct(database.DB.QueryRow(query, id), &product)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("product not found")
		}
		return nil, fmt.Errorf("failed to get product: %v", err)
	}

	return &product, nil
}

// UpdateProductPrice applies a fresh snapshot: current price and extremes
// are updated, empty display fields keep their stored values, a price of 0
// marks the product out of stock, and the history ledger gets a new entry.
func (r *ProductRepository) UpdateProductPrice(id int, snap *models.ProductSnapshot) (*models.Product, error) {
	query := `
		UPDATE products
		SET current_price = $2,
			lowest_price = CASE WHEN $2 > 0 AND $2 < lowest_price THEN $2 ELSE lowest_price END,
			highest_price = CASE WHEN $2 > highest_price THEN $2 ELSE highest_price END,
			title = CASE WHEN $3 <> '' THEN $3 ELSE title END,
			image_url = CASE WHEN $4 <> '' THEN $4 ELSE image_url END,
			description = CASE WHEN $5 <> '' THEN $5 ELSE description END,
			is_in_stock = $6,
			last_checked = $7,
			updated_at = $7
		WHERE id = $1
		RETURNING ` + productColumns

	now := time.Now()
	inStock := snap.Price > 0

	var product models.Product
	err := scanProduct(database.DB.QueryRow(query,
		id, snap.Price, snap.Title, snap.ImageURL, snap.Description, inStock, now,
	), &product)
	if err != nil {
		return nil, fmt.Errorf("failed to update product price: %v", err)
	}

	if err := r.appendHistory(id, snap.Price); err != nil {
		return nil, err
	}

	return &product, nil
}

// MarkOutOfStock flags a product whose page could not be fetched
func (r *ProductRepository) MarkOutOfStock(id int) error {
	query := `UPDATE products SET is_in_stock = false, last_checked = $2, updated_at = $2 WHERE id = $1`
	_, err := database.DB.Exec(query, id, time.Now())
	if err != nil {
		return fmt.Errorf("failed to mark product out of stock: %v", err)
	}
	return nil
}

// SetAlertThreshold sets the price alert threshold for a product
func (r *ProductRepository) SetAlertThreshold(id int, threshold float64) error {
	query := `UPDATE products SET alert_threshold = $2, updated_at = $3 WHERE id = $1 AND is_active = true`
	result, err := database.DB.Exec(query, id, threshold, time.Now())
	if err != nil {
		return fmt.Errorf("failed to set alert threshold: %v", err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return fmt.Errorf("product not found")
	}
	return nil
}

// DeleteProduct soft-deletes a tracked product
func (r *ProductRepository) DeleteProduct(id int) error {
	query := `UPDATE products SET is_active = false WHERE id = $1`
	_, err := database.DB.Exec(query, id)
	if err != nil {
		return fmt.Errorf("failed to delete product: %v", err)
	}
	return nil
}

// GetPriceHistory returns the recorded price points, newest first
func (r *ProductRepository) GetPriceHistory(productID, limit int) ([]models.PricePoint, error) {
	if limit <= 0 || limit > historyLimit {
		limit = historyLimit
	}

	query := `
		SELECT id, product_id, price, checked_at
		FROM price_history
		WHERE product_id = $1
		ORDER BY checked_at DESC
		LIMIT $2
	`

	rows, err := database.DB.Query(query, productID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get price history: %v", err)
	}
	defer rows.Close()

	var history []models.PricePoint
	for rows.Next() {
		var point models.PricePoint
		if err := rows.Scan(&point.ID, &point.ProductID, &point.Price, &point.CheckedAt); err != nil {
			return nil, fmt.Errorf("failed to scan price point: %v", err)
		}
		history = append(history, point)
	}

	return history, nil
}

// GetProductsBelowHighest returns a user's products checked within the
// window whose current price sits below their recorded highest. This feeds
// the digest emails.
func (r *ProductRepository) GetProductsBelowHighest(userEmail string, since time.Time) ([]models.Product, error) {
	query := `SELECT ` + productColumns + `
		FROM products
		WHERE is_active = true AND user_email = $1 AND last_checked >= $2
		AND current_price > 0 AND current_price < highest_price
		ORDER BY highest_price DESC`

	rows, err := database.DB.Query(query, userEmail, since)
	if err != nil {
		return nil, fmt.Errorf("failed to get products below highest: %v", err)
	}
	defer rows.Close()

	return collectProducts(rows)
}

// PurgeStale removes products that have not been checked since the cutoff
func (r *ProductRepository) PurgeStale(cutoff time.Time) (int64, error) {
	query := `DELETE FROM products WHERE last_checked IS NOT NULL AND last_checked < $1`
	result, err := database.DB.Exec(query, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to purge stale products: %v", err)
	}
	count, _ := result.RowsAffected()
	return count, nil
}

// appendHistory records a price point and trims the ledger to the most
// recent entries.
func (r *ProductRepository) appendHistory(productID int, price float64) error {
	insert := `INSERT INTO price_history (product_id, price, checked_at) VALUES ($1, $2, $3)`
	if _, err := database.DB.Exec(insert, productID, price, time.Now()); err != nil {
		return fmt.Errorf("failed to add price history: %v", err)
	}

	trim := `
		DELETE FROM price_history
		WHERE product_id = $1 AND id NOT IN (
			SELECT id FROM price_history
			WHERE product_id = $1
			ORDER BY checked_at DESC
			LIMIT $2
		)
	`
	if _, err := database.DB.Exec(trim, productID, historyLimit); err != nil {
		return fmt.Errorf("failed to trim price history: %v", err)
	}

	return nil
}

// rowScanner covers both sql.Row and sql.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanProduct(row rowScanner, p *models.Product) error {
	return row.Scan(
		&p.ID, &p.URL, &p.Title, &p.Store, &p.CurrentPrice, &p.LowestPrice, &p.HighestPrice,
		&p.ImageURL, &p.Description, &p.InStock, &p.AlertThreshold, &p.UserEmail,
		&p.LastChecked, &p.CreatedAt, &p.UpdatedAt, &p.IsActive,
	)
}

func collectProducts(rows *sql.Rows) ([]models.Product, error) {
	var products []models.Product
	for rows.Next() {
		var product models.Product
		if err := scanProduct(rows, &product); err != nil {
			return nil, fmt.Errorf("failed to scan product: %v", err)
		}
		products = append(products, product)
	}
	return products, nil
}
