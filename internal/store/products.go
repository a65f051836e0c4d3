package store

import (
	"context"
	"database/sql"
	"errors"

	"furnistore/internal/errs"
	"furnistore/internal/models"

	"github.com/jmoiron/sqlx"
)

// CreateProduct inserts a new catalog product.
func (s *Store) CreateProduct(ctx context.Context, p *models.Product) error {
	query := `
		INSERT INTO products (sku, name, description, category, price, main_img)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at`

	return s.db.GetContext(ctx, p, query,
		p.SKU, p.Name, p.Description, p.Category, p.Price, p.MainImg)
}

// GetProductByID retrieves a product by ID
func (s *Store) GetProductByID(ctx context.Context, id int64) (*models.Product, error) {
	var p models.Product
	err := s.db.GetContext(ctx, &p,
		"SELECT * FROM products WHERE id = $1 AND is_deleted = FALSE", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errs.NotFound("product not found: %d", id)
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// ListProducts retrieves all non-deleted products.
func (s *Store) ListProducts(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	err := s.db.SelectContext(ctx, &products,
		"SELECT * FROM products WHERE is_deleted = FALSE ORDER BY id")
	return products, err
}

// UpdateProduct overwrites the mutable product fields.
func (s *Store) UpdateProduct(ctx context.Context, p *models.Product) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE products
		SET name = $1, description = $2, category = $3, price = $4, main_img = $5, updated_at = NOW()
		WHERE id = $6 AND is_deleted = FALSE`,
		p.Name, p.Description, p.Category, p.Price, p.MainImg, p.ID)
	return err
}

// SoftDeleteProduct marks a product deleted.
func (s *Store) SoftDeleteProduct(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE products SET is_deleted = TRUE, updated_at = NOW() WHERE id = $1 AND is_deleted = FALSE", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errs.NotFound("product not found: %d", id)
	}
	return nil
}

// CreateProductColor inserts a color variant with zero stock.
func (s *Store) CreateProductColor(ctx context.Context, c *models.ProductColor) error {
	query := `
		INSERT INTO product_colors (product_id, name, color_code, main_img, quantity)
		VALUES ($1, $2, $3, $4, 0)
		RETURNING id, quantity, created_at, updated_at`

	return s.db.GetContext(ctx, c, query,
		c.ProductID, c.Name, c.ColorCode, c.MainImg)
}

// GetProductColorByID retrieves a color variant by ID
func (s *Store) GetProductColorByID(ctx context.Context, id int64) (*models.ProductColor, error) {
	var c models.ProductColor
	err := s.db.GetContext(ctx, &c,
		"SELECT * FROM product_colors WHERE id = $1 AND is_deleted = FALSE", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errs.NotFound("product color not found: %d", id)
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// GetColorsByProductID retrieves all color variants for a product.
func (s *Store) GetColorsByProductID(ctx context.Context, productID int64) ([]models.ProductColor, error) {
	var colors []models.ProductColor
	err := s.db.SelectContext(ctx, &colors,
		"SELECT * FROM product_colors WHERE product_id = $1 AND is_deleted = FALSE ORDER BY id", productID)
	return colors, err
}

// UpdateProductColor overwrites the mutable color fields. Quantity is
// not touched here; only the guarded adjust function changes it.
func (s *Store) UpdateProductColor(ctx context.Context, c *models.ProductColor) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE product_colors
		SET name = $1, color_code = $2, main_img = $3, updated_at = NOW()
		WHERE id = $4 AND is_deleted = FALSE`,
		c.Name, c.ColorCode, c.MainImg, c.ID)
	return err
}

// GetColorForUpdateTx locks the color row for the remainder of the
// transaction so concurrent quantity adjustments serialize.
func (s *Store) GetColorForUpdateTx(ctx context.Context, tx *sqlx.Tx, id int64) (*models.ProductColor, error) {
	var c models.ProductColor
	err := tx.GetContext(ctx, &c,
		"SELECT * FROM product_colors WHERE id = $1 AND is_deleted = FALSE FOR UPDATE", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errs.NotFound("product color not found: %d", id)
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// AdjustColorQuantityTx is the single write path for the cached color
// quantity aggregate. The WHERE guard floors the aggregate at zero; a
// zero row count means the delta would have driven it negative.
func (s *Store) AdjustColorQuantityTx(ctx context.Context, tx *sqlx.Tx, colorID int64, delta int) error {
	res, err := tx.ExecContext(ctx, `
		UPDATE product_colors
		SET quantity = quantity + $1, updated_at = NOW()
		WHERE id = $2 AND quantity + $1 >= 0`,
		delta, colorID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errs.Conflict("stock adjustment of %d would underflow color %d", delta, colorID)
	}
	return nil
}

// CountInStockUnits returns the authoritative unit count behind the
// cached aggregate, for the stock report's consistency column.
func (s *Store) CountInStockUnits(ctx context.Context, productID, colorID int64) (int, error) {
	var n int
	err := s.db.GetContext(ctx, &n, `
		SELECT COUNT(*) FROM product_units
		WHERE product_id = $1 AND product_color_id = $2 AND status = $3`,
		productID, colorID, models.UnitStatusInStock)
	return n, err
}
