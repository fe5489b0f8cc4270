package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"localledger/internal/domain"
	"localledger/internal/repos"
)

type ReportService struct {
	Orders *repos.OrderRepo
	Now    func() time.Time
}

func NewReportService(orders *repos.OrderRepo) *ReportService {
	return &ReportService{Orders: orders, Now: time.Now}
}

// Daily covers the current UTC calendar day.
func (s *ReportService) Daily() (domain.SalesReport, error) {
	now := s.Now().UTC()
	from := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return s.Orders.SalesBetween(from, from.AddDate(0, 0, 1))
}

// Weekly covers Monday through Sunday of the current UTC week.
func (s *ReportService) Weekly() (domain.SalesReport, error) {
	now := s.Now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	offset := (int(today.Weekday()) + 6) % 7 // Monday = 0
	from := today.AddDate(0, 0, -offset)
	return s.Orders.SalesBetween(from, from.AddDate(0, 0, 7))
}

func (s *ReportService) TotalSales() (decimal.Decimal, error) {
	return s.Orders.TotalSales()
}

// QuickTotal sums free-form numbers, the "t 12 30.5" calculator command.
func (s *ReportService) QuickTotal(args []string) (decimal.Decimal, error) {
	if len(args) == 0 {
		return decimal.Zero, fmt.Errorf("no numbers given")
	}
	total := decimal.Zero
	for _, a := range args {
		d, err := decimal.NewFromString(strings.TrimSpace(a))
		if err != nil {
			return decimal.Zero, fmt.Errorf("not a number: %q", a)
		}
		total = total.Add(d)
	}
	return total, nil
}
