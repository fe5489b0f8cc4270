package services_test

import (
	"errors"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"localledger/internal/domain"
	"localledger/internal/repos"
	"localledger/internal/services"
)

func memdb(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := repos.OpenDB(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	return db
}

func TestInventoryService_AddSeedsThreshold(t *testing.T) {
	db := memdb(t)
	svc := services.NewInventoryService(repos.NewProductRepo(db), 5)

	p, err := svc.Add("rice", decimal.NewFromInt(50), 20, "")
	if err != nil {
		t.Fatal(err)
	}
	if p.MinQuantity != 5 {
		t.Fatalf("want threshold 5, got %d", p.MinQuantity)
	}
	if p.ID == "" {
		t.Fatal("no id assigned")
	}
}

func TestInventoryService_DuplicateBarcodeRejected(t *testing.T) {
	db := memdb(t)
	svc := services.NewInventoryService(repos.NewProductRepo(db), 2)

	if _, err := svc.Add("rice", decimal.NewFromInt(50), 20, "890123"); err != nil {
		t.Fatal(err)
	}
	_, err := svc.Add("rice premium", decimal.NewFromInt(80), 5, "890123")
	if !errors.Is(err, domain.ErrDuplicateProduct) {
		t.Fatalf("want ErrDuplicateProduct, got %v", err)
	}
}

func TestInventoryService_DuplicateNameAllowed(t *testing.T) {
	db := memdb(t)
	repo := repos.NewProductRepo(db)
	svc := services.NewInventoryService(repo, 2)

	// only the barcode is a unique key; the same name may repeat
	if _, err := svc.Add("rice", decimal.NewFromInt(50), 20, ""); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Add("rice", decimal.NewFromInt(60), 5, ""); err != nil {
		t.Fatalf("second product with the same name should insert: %v", err)
	}

	var n int
	if err := db.Get(&n, `SELECT COUNT(*) FROM products WHERE name = 'rice'`); err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Fatalf("want 2 rows, got %d", n)
	}

	// name lookup resolves to the oldest match
	p, err := repo.ByName("rice")
	if err != nil {
		t.Fatal(err)
	}
	if !p.Price.Equal(decimal.NewFromInt(50)) {
		t.Fatalf("ByName should return the first insert, got price %s", p.Price)
	}
}

func TestInventoryService_ChangePrice(t *testing.T) {
	db := memdb(t)
	svc := services.NewInventoryService(repos.NewProductRepo(db), 2)

	if _, err := svc.Add("rice", decimal.NewFromInt(50), 20, "890123"); err != nil {
		t.Fatal(err)
	}

	p, err := svc.ChangePriceByName("rice", decimal.NewFromFloat(55.5))
	if err != nil {
		t.Fatal(err)
	}
	if !p.Price.Equal(decimal.NewFromFloat(55.5)) {
		t.Fatalf("want 55.5, got %s", p.Price)
	}

	p, err = svc.ChangePriceByBarcode("890123", decimal.NewFromInt(60))
	if err != nil {
		t.Fatal(err)
	}
	if !p.Price.Equal(decimal.NewFromInt(60)) {
		t.Fatalf("want 60, got %s", p.Price)
	}

	if _, err := svc.ChangePriceByName("ghee", decimal.NewFromInt(1)); !errors.Is(err, domain.ErrProductNotFound) {
		t.Fatalf("want ErrProductNotFound, got %v", err)
	}
}

func TestInventoryService_LowStockAtOrBelow(t *testing.T) {
	db := memdb(t)
	svc := services.NewInventoryService(repos.NewProductRepo(db), 2)

	for _, p := range []struct {
		name  string
		stock int
	}{
		{"rice", 1},  // below
		{"sugar", 2}, // exactly at threshold
		{"wheat", 3}, // above
	} {
		if _, err := svc.Add(p.name, decimal.NewFromInt(10), p.stock, ""); err != nil {
			t.Fatal(err)
		}
	}

	low, err := svc.LowStock()
	if err != nil {
		t.Fatal(err)
	}
	if len(low) != 2 {
		t.Fatalf("want rice and sugar, got %+v", low)
	}
	for _, p := range low {
		if p.Name == "wheat" {
			t.Fatal("stock above threshold reported as low")
		}
	}
}
