package bot_test

import (
	"errors"
	"testing"

	"localledger/internal/bot"
)

func TestParseRecognizedKeywords(t *testing.T) {
	cases := []struct {
		in      string
		keyword string
		flags   []string
		args    []string
	}{
		{"l", "l", nil, nil},
		{"low", "low", nil, nil},
		{"help", "help", nil, nil},
		{"creditors", "creditors", nil, nil},
		{"daily", "daily", nil, nil},
		{"weekly", "weekly", nil, nil},
		{"get total cred", "get total cred", nil, nil},
		{"add new -m", "add new", []string{"m"}, nil},
		{"add new -b", "add new", []string{"b"}, nil},
		{"add -v", "add", []string{"v"}, nil},
		{"change price -m", "change price", []string{"m"}, nil},
		{"change price -b", "change price", []string{"b"}, nil},
		{"order -m", "order", []string{"m"}, nil},
		{"order -b", "order", []string{"b"}, nil},
		{"add creditor", "add creditor", nil, nil},
		{"del creditor", "del creditor", nil, nil},
		{"pay", "pay", nil, nil},
		{"pay rahul 50", "pay", nil, []string{"rahul", "50"}},
		{"pay rahul kumar 50", "pay", nil, []string{"rahul", "kumar", "50"}},
		{"get cred amount rahul", "get cred amount", nil, []string{"rahul"}},
		{"t 12 30.5", "t", nil, []string{"12", "30.5"}},
		{"t", "t", nil, nil},
		// normalization: case and whitespace
		{"  Add   New   -M ", "add new", []string{"m"}, nil},
		{"LOW", "low", nil, nil},
		// spoken aliases
		{"add manual", "add new", []string{"m"}, nil},
		{"add products by barcode", "add new", []string{"b"}, nil},
		{"update price manual", "change price", []string{"m"}, nil},
		{"today sales", "daily", nil, nil},
		{"week sales", "weekly", nil, nil},
		{"pay creditor", "pay", nil, nil},
		{"total credit", "get total cred", nil, nil},
		{"delete creditor", "del creditor", nil, nil},
		{"total", "t", nil, nil},
	}

	for _, tc := range cases {
		cmd, err := bot.Parse(tc.in)
		if err != nil {
			t.Fatalf("Parse(%q): %v", tc.in, err)
		}
		if cmd.Keyword != tc.keyword {
			t.Fatalf("Parse(%q): keyword %q, want %q", tc.in, cmd.Keyword, tc.keyword)
		}
		for _, f := range tc.flags {
			if !cmd.Flag(f) {
				t.Fatalf("Parse(%q): missing flag -%s", tc.in, f)
			}
		}
		if len(cmd.Args) != len(tc.args) {
			t.Fatalf("Parse(%q): args %v, want %v", tc.in, cmd.Args, tc.args)
		}
		for i := range tc.args {
			if cmd.Args[i] != tc.args[i] {
				t.Fatalf("Parse(%q): args %v, want %v", tc.in, cmd.Args, tc.args)
			}
		}
	}
}

func TestParseUnknownInputs(t *testing.T) {
	cases := []string{
		"",
		"hello there",
		"lo",          // no partial match on "low"
		"ll",
		"addnew -m",
		"daily report please",
		"l extra",     // no-arg command with trailing tokens
		"creditors all",
		"weekly foo",
	}
	for _, in := range cases {
		_, err := bot.Parse(in)
		var unknown *bot.UnknownCommandError
		if !errors.As(err, &unknown) {
			t.Fatalf("Parse(%q): want UnknownCommandError, got %v", in, err)
		}
	}
}

func TestParseUnknownCarriesInput(t *testing.T) {
	_, err := bot.Parse("make me a sandwich")
	var unknown *bot.UnknownCommandError
	if !errors.As(err, &unknown) {
		t.Fatalf("want UnknownCommandError, got %v", err)
	}
	if unknown.Input != "make me a sandwich" {
		t.Fatalf("unexpected input %q", unknown.Input)
	}
}
