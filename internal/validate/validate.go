package validate

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	rePhone   = regexp.MustCompile(`^\+?[0-9]{7,15}$`)
	reBarcode = regexp.MustCompile(`^[0-9A-Za-z][0-9A-Za-z-]{3,63}$`)
	reName    = regexp.MustCompile(`^[\p{L}\p{M}0-9][\p{L}\p{M}0-9 .'&-]{0,49}$`)
)

// Phone accepts international or bare digit strings, normalized to +<digits>.
func Phone(s string) (string, bool) {
	s = strings.TrimSpace(strings.TrimPrefix(s, "whatsapp:"))
	if !rePhone.MatchString(s) {
		return "", false
	}
	if !strings.HasPrefix(s, "+") {
		s = "+" + s
	}
	return s, true
}

// Name validates a displayable product or creditor name.
func Name(s string) (string, bool) {
	s = strings.Join(strings.Fields(s), " ")
	return s, s != "" && reName.MatchString(s)
}

func Barcode(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, reBarcode.MatchString(s)
}

// Amount parses a strictly positive money value.
func Amount(s string) (decimal.Decimal, bool) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil || !d.IsPositive() {
		return decimal.Zero, false
	}
	return d, true
}

// Stock parses a non-negative whole quantity (opening stock may be zero).
func Stock(s string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 0 || n > 1000000 {
		return 0, false
	}
	return n, true
}

// Qty parses a strictly positive whole quantity; values above the ceiling
// are rejected.
func Qty(s string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 {
		return 0, false
	}
	if n > 10000 {
		return 0, false
	}
	return n, true
}
