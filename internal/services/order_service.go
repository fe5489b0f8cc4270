package services

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"localledger/internal/domain"
	"localledger/internal/repos"
)

type OrderLine struct {
	ProductName string
	Qty         int
}

type Customer struct {
	Name  string
	Phone string
}

type OrderResult struct {
	OrderID  string
	Total    decimal.Decimal
	Items    int
	LowStock []domain.Product // products at or below threshold after this sale
	Creditor *domain.Creditor // set when the sale went on credit
}

type OrderService struct {
	Products *repos.ProductRepo
	Orders   *repos.OrderRepo
	Credit   *CreditService
}

func NewOrderService(products *repos.ProductRepo, orders *repos.OrderRepo, credit *CreditService) *OrderService {
	return &OrderService{Products: products, Orders: orders, Credit: credit}
}

// Place records one sale: pre-checks stock for every line, decrements
// atomically, writes the order with per-line unit prices, and optionally
// books the total against the customer's creditor account. The low-stock
// check runs right after each decrement, not on a schedule.
func (s *OrderService) Place(customer Customer, lines []OrderLine, onCredit bool) (OrderResult, error) {
	if len(lines) == 0 {
		return OrderResult{}, domain.ErrEmptyOrder
	}

	type resolved struct {
		product domain.Product
		qty     int
	}
	// The same product may appear on several lines; they collapse into one
	// item so the order holds one row per product.
	items := make([]resolved, 0, len(lines))
	byID := map[string]int{}
	for _, ln := range lines {
		p, err := s.Products.ByName(ln.ProductName)
		if err != nil {
			return OrderResult{}, err
		}
		if i, ok := byID[p.ID]; ok {
			items[i].qty += ln.Qty
			continue
		}
		byID[p.ID] = len(items)
		items = append(items, resolved{product: p, qty: ln.Qty})
	}
	for _, it := range items {
		if it.product.Stock < it.qty {
			return OrderResult{}, fmt.Errorf("%w: %s (need %d, have %d)",
				domain.ErrInsufficientStock, it.product.Name, it.qty, it.product.Stock)
		}
	}

	// On credit the creditor must exist before any stock moves.
	var creditor *domain.Creditor
	if onCredit {
		c, err := s.Credit.Amount(customer.Name)
		if err != nil {
			return OrderResult{}, err
		}
		creditor = &c
	}

	var low []domain.Product
	total := decimal.Zero
	decremented := make([]resolved, 0, len(items))
	rollback := func() {
		for _, done := range decremented {
			_ = s.Products.Increment(done.product.ID, done.qty)
		}
	}
	for _, it := range items {
		if err := s.Products.Decrement(it.product.ID, it.qty); err != nil {
			// Lost a race since the pre-check: roll the earlier lines back.
			rollback()
			return OrderResult{}, fmt.Errorf("%w: %s", err, it.product.Name)
		}
		decremented = append(decremented, it)
		total = total.Add(it.product.Price.Mul(decimal.NewFromInt(int64(it.qty))))

		after := it.product
		after.Stock -= it.qty
		if after.LowOnStock() {
			low = append(low, after)
		}
	}

	order := domain.Order{
		ID:            uuid.NewString(),
		CustomerName:  customer.Name,
		CustomerPhone: customer.Phone,
		Total:         total,
	}
	if creditor != nil {
		order.CreditorID = creditor.ID
	}
	if err := s.Orders.Create(order); err != nil {
		rollback()
		return OrderResult{}, err
	}
	for _, it := range items {
		if err := s.Orders.InsertItem(domain.OrderItem{
			OrderID:   order.ID,
			ProductID: it.product.ID,
			Qty:       it.qty,
			Price:     it.product.Price,
		}); err != nil {
			// Keep the books consistent: no half-written order, no
			// consumed stock.
			_ = s.Orders.Delete(order.ID)
			rollback()
			return OrderResult{}, err
		}
	}

	if creditor != nil {
		c, err := s.Credit.Extend(creditor.Name, total)
		if err != nil {
			return OrderResult{}, err
		}
		creditor = &c
	}

	return OrderResult{
		OrderID:  order.ID,
		Total:    total,
		Items:    len(items),
		LowStock: low,
		Creditor: creditor,
	}, nil
}
