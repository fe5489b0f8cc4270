package repos

import (
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"localledger/internal/domain"
)

type ProductRepo struct{ db *sqlx.DB }

func NewProductRepo(db *sqlx.DB) *ProductRepo { return &ProductRepo{db: db} }

func (r *ProductRepo) List() ([]domain.Product, error) {
	var out []domain.Product
	err := r.db.Select(&out, `
  SELECT id, name, COALESCE(barcode,'') AS barcode, price, stock, min_quantity,
         created_at, COALESCE(updated_at,'') AS updated_at
  FROM products
  ORDER BY LOWER(name)
`)
	return out, err
}

// LowStock returns products at or below their own threshold.
func (r *ProductRepo) LowStock() ([]domain.Product, error) {
	var out []domain.Product
	err := r.db.Select(&out, `
  SELECT id, name, COALESCE(barcode,'') AS barcode, price, stock, min_quantity,
         created_at, COALESCE(updated_at,'') AS updated_at
  FROM products
  WHERE stock <= min_quantity
  ORDER BY stock ASC, LOWER(name)
`)
	return out, err
}

// ByName resolves case-insensitively. Names are not unique keys (only
// barcodes are); the oldest match wins.
func (r *ProductRepo) ByName(name string) (domain.Product, error) {
	var p domain.Product
	err := r.db.Get(&p, `
  SELECT id, name, COALESCE(barcode,'') AS barcode, price, stock, min_quantity,
         created_at, COALESCE(updated_at,'') AS updated_at
  FROM products
  WHERE LOWER(name) = LOWER(?)
  ORDER BY created_at, rowid
  LIMIT 1
`, name)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Product{}, domain.ErrProductNotFound
	}
	return p, err
}

func (r *ProductRepo) ByBarcode(barcode string) (domain.Product, error) {
	var p domain.Product
	err := r.db.Get(&p, `
  SELECT id, name, COALESCE(barcode,'') AS barcode, price, stock, min_quantity,
         created_at, COALESCE(updated_at,'') AS updated_at
  FROM products
  WHERE barcode = ?
`, barcode)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Product{}, domain.ErrProductNotFound
	}
	return p, err
}

func (r *ProductRepo) Insert(p domain.Product) error {
	barcode := any(p.Barcode)
	if p.Barcode == "" {
		barcode = nil
	}
	_, err := r.db.Exec(`
  INSERT INTO products(id, name, barcode, price, stock, min_quantity)
  VALUES (?, ?, ?, ?, ?, ?)
`, p.ID, p.Name, barcode, p.Price, p.Stock, p.MinQuantity)
	return err
}

func (r *ProductRepo) UpdatePrice(id string, price decimal.Decimal) error {
	res, err := r.db.Exec(`
  UPDATE products SET price = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?
`, price, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrProductNotFound
	}
	return nil
}

// Decrement atomically subtracts "by" units if enough stock exists.
func (r *ProductRepo) Decrement(id string, by int) error {
	res, err := r.db.Exec(`
  UPDATE products
  SET stock = stock - ?, updated_at = CURRENT_TIMESTAMP
  WHERE id = ? AND stock >= ?
`, by, id, by)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrInsufficientStock
	}
	return nil
}

func (r *ProductRepo) Increment(id string, by int) error {
	_, err := r.db.Exec(`
  UPDATE products SET stock = stock + ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?
`, by, id)
	return err
}
