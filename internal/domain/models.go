package domain

import "github.com/shopspring/decimal"

type Product struct {
	ID          string          `db:"id"`
	Name        string          `db:"name"`
	Barcode     string          `db:"barcode"`
	Price       decimal.Decimal `db:"price"`
	Stock       int             `db:"stock"`
	MinQuantity int             `db:"min_quantity"`
	CreatedAt   string          `db:"created_at"`
	UpdatedAt   string          `db:"updated_at"`
}

// LowOnStock is the at-or-below rule: stock equal to the threshold
// already counts as low.
func (p Product) LowOnStock() bool { return p.Stock <= p.MinQuantity }

type Creditor struct {
	ID        string          `db:"id"`
	Name      string          `db:"name"`
	Phone     string          `db:"phone"`
	Balance   decimal.Decimal `db:"balance"`
	CreatedAt string          `db:"created_at"`
	UpdatedAt string          `db:"updated_at"`
}

type Order struct {
	ID            string          `db:"id"`
	CustomerName  string          `db:"customer_name"`
	CustomerPhone string          `db:"customer_phone"`
	CreditorID    string          `db:"creditor_id"`
	Total         decimal.Decimal `db:"total"`
	CreatedAt     string          `db:"created_at"`
}

type OrderItem struct {
	OrderID   string          `db:"order_id"`
	ProductID string          `db:"product_id"`
	Qty       int             `db:"qty"`
	Price     decimal.Decimal `db:"price"` // unit price at time of sale
}

type Payment struct {
	ID         string          `db:"id"`
	CreditorID string          `db:"creditor_id"`
	Amount     decimal.Decimal `db:"amount"`
	CreatedAt  string          `db:"created_at"`
}

// DayTotal is one row of a report's per-day breakdown.
type DayTotal struct {
	Day    string          `db:"day"`
	Orders int             `db:"orders"`
	Total  decimal.Decimal `db:"total"`
}

type SalesReport struct {
	From   string
	To     string
	Orders int
	Total  decimal.Decimal
	Days   []DayTotal
}
