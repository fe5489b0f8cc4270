package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"localledger/internal/domain"
	"localledger/internal/repos"
)

type CreditService struct {
	Creditors *repos.CreditorRepo
	Orders    *repos.OrderRepo
}

func NewCreditService(creditors *repos.CreditorRepo, orders *repos.OrderRepo) *CreditService {
	return &CreditService{Creditors: creditors, Orders: orders}
}

func (s *CreditService) List() ([]domain.Creditor, error) {
	return s.Creditors.List()
}

func (s *CreditService) Add(name string, amount decimal.Decimal, phone string) (domain.Creditor, error) {
	if amount.IsNegative() {
		return domain.Creditor{}, domain.ErrInvalidAmount
	}
	if _, err := s.Creditors.ByName(name); err == nil {
		return domain.Creditor{}, fmt.Errorf("%w: %s", domain.ErrDuplicateCreditor, name)
	} else if !errors.Is(err, domain.ErrCreditorNotFound) {
		return domain.Creditor{}, err
	}

	c := domain.Creditor{
		ID:      uuid.NewString(),
		Name:    name,
		Phone:   phone,
		Balance: amount,
	}
	if err := s.Creditors.Insert(c); err != nil {
		return domain.Creditor{}, err
	}
	return c, nil
}

func (s *CreditService) Delete(name string) (domain.Creditor, error) {
	c, err := s.Creditors.ByName(name)
	if err != nil {
		return domain.Creditor{}, err
	}
	if err := s.Creditors.Delete(c.ID); err != nil {
		return domain.Creditor{}, err
	}
	return c, nil
}

// Pay applies a payment against the creditor's balance. A payment larger
// than the outstanding balance is rejected, never clamped.
func (s *CreditService) Pay(name string, amount decimal.Decimal) (domain.Creditor, error) {
	if !amount.IsPositive() {
		return domain.Creditor{}, domain.ErrInvalidAmount
	}
	c, err := s.Creditors.ByName(name)
	if err != nil {
		return domain.Creditor{}, err
	}
	if amount.GreaterThan(c.Balance) {
		return domain.Creditor{}, fmt.Errorf("%w: balance %s, payment %s",
			domain.ErrOverpayment, c.Balance, amount)
	}
	if err := s.Creditors.AddToBalance(c.ID, amount.Neg()); err != nil {
		return domain.Creditor{}, err
	}
	if err := s.Orders.InsertPayment(domain.Payment{
		ID:         uuid.NewString(),
		CreditorID: c.ID,
		Amount:     amount,
	}); err != nil {
		return domain.Creditor{}, err
	}
	c.Balance = c.Balance.Sub(amount)
	return c, nil
}

func (s *CreditService) Amount(name string) (domain.Creditor, error) {
	return s.Creditors.ByName(name)
}

func (s *CreditService) Total() (decimal.Decimal, error) {
	return s.Creditors.TotalOutstanding()
}

// Extend adds a sale-on-credit total to an existing creditor's balance.
func (s *CreditService) Extend(name string, amount decimal.Decimal) (domain.Creditor, error) {
	if !amount.IsPositive() {
		return domain.Creditor{}, domain.ErrInvalidAmount
	}
	c, err := s.Creditors.ByName(name)
	if err != nil {
		return domain.Creditor{}, err
	}
	if err := s.Creditors.AddToBalance(c.ID, amount); err != nil {
		return domain.Creditor{}, err
	}
	c.Balance = c.Balance.Add(amount)
	return c, nil
}
