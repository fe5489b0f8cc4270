package repos

import (
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"localledger/internal/domain"
)

type CreditorRepo struct{ db *sqlx.DB }

func NewCreditorRepo(db *sqlx.DB) *CreditorRepo { return &CreditorRepo{db: db} }

func (r *CreditorRepo) List() ([]domain.Creditor, error) {
	var out []domain.Creditor
	err := r.db.Select(&out, `
  SELECT id, name, COALESCE(phone,'') AS phone, balance,
         created_at, COALESCE(updated_at,'') AS updated_at
  FROM creditors
  ORDER BY LOWER(name)
`)
	return out, err
}

func (r *CreditorRepo) ByName(name string) (domain.Creditor, error) {
	var c domain.Creditor
	err := r.db.Get(&c, `
  SELECT id, name, COALESCE(phone,'') AS phone, balance,
         created_at, COALESCE(updated_at,'') AS updated_at
  FROM creditors
  WHERE LOWER(name) = LOWER(?)
`, name)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Creditor{}, domain.ErrCreditorNotFound
	}
	return c, err
}

func (r *CreditorRepo) Insert(c domain.Creditor) error {
	_, err := r.db.Exec(`
  INSERT INTO creditors(id, name, phone, balance) VALUES (?, ?, ?, ?)
`, c.ID, c.Name, c.Phone, c.Balance)
	return err
}

func (r *CreditorRepo) Delete(id string) error {
	res, err := r.db.Exec(`DELETE FROM creditors WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrCreditorNotFound
	}
	return nil
}

// AddToBalance applies a signed delta. The balance >= 0 guard is in SQL so a
// concurrent payment can never drive it negative.
func (r *CreditorRepo) AddToBalance(id string, delta decimal.Decimal) error {
	res, err := r.db.Exec(`
  UPDATE creditors
  SET balance = balance + ?, updated_at = CURRENT_TIMESTAMP
  WHERE id = ? AND balance + ? >= 0
`, delta, id, delta)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrOverpayment
	}
	return nil
}

func (r *CreditorRepo) TotalOutstanding() (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.db.Get(&total, `SELECT COALESCE(SUM(balance), 0) FROM creditors`)
	return total, err
}
