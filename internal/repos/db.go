package repos

import (
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

func OpenDB(dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if err = db.Ping(); err != nil {
		return nil, err
	}

	if err := ensureSchema(db); err != nil {
		return nil, err
	}
	return db, nil
}

func ensureSchema(db *sqlx.DB) error {
	schema := `
PRAGMA foreign_keys = ON;

-- Products
CREATE TABLE IF NOT EXISTS products(
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  barcode TEXT,
  price NUMERIC NOT NULL CHECK (price >= 0),
  stock INTEGER NOT NULL DEFAULT 0 CHECK (stock >= 0),
  min_quantity INTEGER NOT NULL DEFAULT 0 CHECK (min_quantity >= 0),
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  updated_at TEXT
);
CREATE INDEX IF NOT EXISTS idx_products_name_nocase ON products(LOWER(name));
CREATE UNIQUE INDEX IF NOT EXISTS idx_products_barcode ON products(barcode) WHERE barcode IS NOT NULL AND barcode != '';
CREATE INDEX IF NOT EXISTS idx_products_stock ON products(stock);

-- Creditors
CREATE TABLE IF NOT EXISTS creditors(
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  phone TEXT,
  balance NUMERIC NOT NULL DEFAULT 0 CHECK (balance >= 0),
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  updated_at TEXT
);
CREATE UNIQUE INDEX IF NOT EXISTS idx_creditors_name_nocase ON creditors(LOWER(name));

-- Orders
CREATE TABLE IF NOT EXISTS orders(
  id TEXT PRIMARY KEY,
  customer_name TEXT,
  customer_phone TEXT,
  creditor_id TEXT REFERENCES creditors(id) ON DELETE SET NULL,
  total NUMERIC NOT NULL,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_orders_created_at ON orders(created_at);

CREATE TABLE IF NOT EXISTS order_items(
  order_id  TEXT NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
  product_id TEXT NOT NULL REFERENCES products(id),
  qty INTEGER NOT NULL CHECK (qty >= 1),
  price NUMERIC NOT NULL,
  PRIMARY KEY (order_id, product_id)
);

-- Payments against creditor balances
CREATE TABLE IF NOT EXISTS payments(
  id TEXT PRIMARY KEY,
  creditor_id TEXT NOT NULL REFERENCES creditors(id) ON DELETE CASCADE,
  amount NUMERIC NOT NULL CHECK (amount > 0),
  created_at TEXT DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_payments_creditor ON payments(creditor_id);
`
	_, err := db.Exec(schema)
	return err
}
