package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"localledger/internal/domain"
	"localledger/internal/repos"
)

type InventoryService struct {
	Products  *repos.ProductRepo
	Threshold int // default low-stock cutoff for new products
}

func NewInventoryService(products *repos.ProductRepo, threshold int) *InventoryService {
	return &InventoryService{Products: products, Threshold: threshold}
}

func (s *InventoryService) List() ([]domain.Product, error) {
	return s.Products.List()
}

func (s *InventoryService) LowStock() ([]domain.Product, error) {
	return s.Products.LowStock()
}

// Add creates a product. The barcode is the only unique key: adding the same
// name twice creates two distinct products, adding the same barcode twice is
// ErrDuplicateProduct.
func (s *InventoryService) Add(name string, price decimal.Decimal, stock int, barcode string) (domain.Product, error) {
	if !price.IsPositive() {
		return domain.Product{}, domain.ErrInvalidAmount
	}
	if stock < 0 {
		return domain.Product{}, fmt.Errorf("negative stock %d", stock)
	}
	if barcode != "" {
		if _, err := s.Products.ByBarcode(barcode); err == nil {
			return domain.Product{}, fmt.Errorf("%w: barcode %s", domain.ErrDuplicateProduct, barcode)
		} else if !errors.Is(err, domain.ErrProductNotFound) {
			return domain.Product{}, err
		}
	}

	p := domain.Product{
		ID:          uuid.NewString(),
		Name:        name,
		Barcode:     barcode,
		Price:       price,
		Stock:       stock,
		MinQuantity: s.Threshold,
	}
	if err := s.Products.Insert(p); err != nil {
		return domain.Product{}, err
	}
	return p, nil
}

func (s *InventoryService) ChangePriceByName(name string, price decimal.Decimal) (domain.Product, error) {
	return s.changePrice(func() (domain.Product, error) { return s.Products.ByName(name) }, price)
}

func (s *InventoryService) ChangePriceByBarcode(barcode string, price decimal.Decimal) (domain.Product, error) {
	return s.changePrice(func() (domain.Product, error) { return s.Products.ByBarcode(barcode) }, price)
}

func (s *InventoryService) changePrice(lookup func() (domain.Product, error), price decimal.Decimal) (domain.Product, error) {
	if !price.IsPositive() {
		return domain.Product{}, domain.ErrInvalidAmount
	}
	p, err := lookup()
	if err != nil {
		return domain.Product{}, err
	}
	if err := s.Products.UpdatePrice(p.ID, price); err != nil {
		return domain.Product{}, err
	}
	p.Price = price
	return p, nil
}
