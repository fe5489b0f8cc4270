package validate

import "testing"

func TestPhone(t *testing.T) {
	cases := []struct {
		in   string
		want string
		ok   bool
	}{
		{"whatsapp:+919876543210", "+919876543210", true},
		{"+919876543210", "+919876543210", true},
		{"9876543210", "+9876543210", true},
		{"  9876543 ", "+9876543", true}, // shortest accepted form
		{"123456", "", false},            // too short
		{"not-a-phone", "", false},
		{"+12 34", "", false},
		{"", "", false},
	}
	for _, c := range cases {
		got, ok := Phone(c.in)
		if ok != c.ok || got != c.want {
			t.Errorf("Phone(%q) = %q,%v; want %q,%v", c.in, got, ok, c.want, c.ok)
		}
	}
}

func TestName(t *testing.T) {
	good := []string{"rice", "Basmati Rice", "amul butter 500g", "D'Souza", "tea & coffee", "चावल", "मसूर दाल", "பருப்பு"}
	for _, s := range good {
		if _, ok := Name(s); !ok {
			t.Errorf("Name(%q) rejected", s)
		}
	}
	bad := []string{"", "  ", "-leading-dash", "semi;colon", "a<b"}
	for _, s := range bad {
		if _, ok := Name(s); ok {
			t.Errorf("Name(%q) accepted", s)
		}
	}
	// inner whitespace collapses
	if got, _ := Name("  basmati   rice "); got != "basmati rice" {
		t.Errorf("want collapsed name, got %q", got)
	}
}

func TestAmount(t *testing.T) {
	if d, ok := Amount(" 30.5 "); !ok || d.String() != "30.5" {
		t.Errorf("Amount(30.5) = %v,%v", d, ok)
	}
	for _, s := range []string{"0", "-5", "abc", "", "1,000"} {
		if _, ok := Amount(s); ok {
			t.Errorf("Amount(%q) accepted", s)
		}
	}
}

func TestStockAndQty(t *testing.T) {
	if n, ok := Stock("0"); !ok || n != 0 {
		t.Errorf("Stock(0) = %d,%v; zero opening stock is valid", n, ok)
	}
	if _, ok := Stock("-1"); ok {
		t.Error("Stock(-1) accepted")
	}
	if _, ok := Qty("0"); ok {
		t.Error("Qty(0) accepted; order lines need at least one unit")
	}
	if n, ok := Qty(" 3 "); !ok || n != 3 {
		t.Errorf("Qty(3) = %d,%v", n, ok)
	}
	if _, ok := Qty("10001"); ok {
		t.Error("Qty above ceiling accepted")
	}
}

func TestBarcode(t *testing.T) {
	if _, ok := Barcode("8901234567890"); !ok {
		t.Error("EAN-13 rejected")
	}
	if _, ok := Barcode("ab"); ok {
		t.Error("too-short barcode accepted")
	}
	if _, ok := Barcode("has space"); ok {
		t.Error("barcode with space accepted")
	}
}
