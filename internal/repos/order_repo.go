package repos

import (
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"localledger/internal/domain"
)

type OrderRepo struct{ db *sqlx.DB }

func NewOrderRepo(db *sqlx.DB) *OrderRepo { return &OrderRepo{db: db} }

// sqliteTime matches CURRENT_TIMESTAMP's format so range comparisons
// stay lexical.
const sqliteTime = "2006-01-02 15:04:05"

func (r *OrderRepo) Create(o domain.Order) error {
	creditorID := any(o.CreditorID)
	if o.CreditorID == "" {
		creditorID = nil
	}
	createdAt := o.CreatedAt
	if createdAt == "" {
		createdAt = time.Now().UTC().Format(sqliteTime)
	}
	_, err := r.db.Exec(`
  INSERT INTO orders(id, customer_name, customer_phone, creditor_id, total, created_at)
  VALUES (?, ?, ?, ?, ?, ?)
`, o.ID, o.CustomerName, o.CustomerPhone, creditorID, o.Total, createdAt)
	return err
}

// Delete removes an order and, via the cascade, its items.
func (r *OrderRepo) Delete(id string) error {
	_, err := r.db.Exec(`DELETE FROM orders WHERE id = ?`, id)
	return err
}

func (r *OrderRepo) InsertItem(it domain.OrderItem) error {
	_, err := r.db.Exec(`
  INSERT INTO order_items(order_id, product_id, qty, price) VALUES (?, ?, ?, ?)
`, it.OrderID, it.ProductID, it.Qty, it.Price)
	return err
}

func (r *OrderRepo) InsertPayment(p domain.Payment) error {
	_, err := r.db.Exec(`
  INSERT INTO payments(id, creditor_id, amount) VALUES (?, ?, ?)
`, p.ID, p.CreditorID, p.Amount)
	return err
}

// SalesBetween sums orders with from <= created_at < to (UTC).
func (r *OrderRepo) SalesBetween(from, to time.Time) (domain.SalesReport, error) {
	lo := from.UTC().Format(sqliteTime)
	hi := to.UTC().Format(sqliteTime)

	var head struct {
		Orders int             `db:"orders"`
		Total  decimal.Decimal `db:"total"`
	}
	err := r.db.Get(&head, `
  SELECT COUNT(*) AS orders, COALESCE(SUM(total), 0) AS total
  FROM orders
  WHERE created_at >= ? AND created_at < ?
`, lo, hi)
	if err != nil {
		return domain.SalesReport{}, err
	}

	var days []domain.DayTotal
	err = r.db.Select(&days, `
  SELECT date(created_at) AS day, COUNT(*) AS orders, COALESCE(SUM(total), 0) AS total
  FROM orders
  WHERE created_at >= ? AND created_at < ?
  GROUP BY date(created_at)
  ORDER BY day
`, lo, hi)
	if err != nil {
		return domain.SalesReport{}, err
	}

	return domain.SalesReport{
		From:   from.UTC().Format("2006-01-02"),
		To:     to.UTC().Add(-time.Second).Format("2006-01-02"),
		Orders: head.Orders,
		Total:  head.Total,
		Days:   days,
	}, nil
}

// TotalSales sums every recorded order.
func (r *OrderRepo) TotalSales() (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.db.Get(&total, `SELECT COALESCE(SUM(total), 0) FROM orders`)
	return total, err
}
