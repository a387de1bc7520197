package core

import (
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	cases := []struct {
		in string
		ok bool
	}{
		{"2024-01-05", true},
		{"2024-12-31", true},
		{"2024-02-30", false},
		{"05-01-2024", false},
		{"", false},
		{"not-a-date", false},
	}
	for _, tc := range cases {
		d, err := ParseDate(tc.in)
		if tc.ok && err != nil {
			t.Fatalf("%q expected ok, got %v", tc.in, err)
		}
		if !tc.ok && err == nil {
			t.Fatalf("%q expected error", tc.in)
		}
		if tc.ok && d.String() != tc.in {
			t.Fatalf("%q round trip mismatch: %q", tc.in, d.String())
		}
	}
}

func TestDateValidate(t *testing.T) {
	if err := NewDate(2024, 1, 5).Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if err := (Date{Time: time.Time{}}).Validate(); err == nil {
		t.Fatalf("expected error for zero date")
	}
}

func TestMoneyValidate(t *testing.T) {
	if err := (Money{Cents: 1}).Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if err := (Money{Cents: 0}).Validate(); err == nil {
		t.Fatalf("expected error for zero")
	}
	if err := (Money{Cents: -5}).Validate(); err == nil {
		t.Fatalf("expected error for negative")
	}
}

func TestExpenseValidate(t *testing.T) {
	good := Expense{
		Date:          NewDate(2024, 1, 5),
		Category:      "Food",
		Description:   "groceries",
		Amount:        Money{Cents: 2000},
		PaymentMethod: "Card",
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	// Description is optional.
	noDesc := good
	noDesc.Description = ""
	if err := noDesc.Validate(); err != nil {
		t.Fatalf("expected ok without description, got %v", err)
	}

	bads := []Expense{
		{Date: Date{Time: time.Time{}}, Category: "Food", Amount: Money{Cents: 1}, PaymentMethod: "Cash"},
		{Date: NewDate(2024, 1, 5), Category: "", Amount: Money{Cents: 1}, PaymentMethod: "Cash"},
		{Date: NewDate(2024, 1, 5), Category: "Food", Amount: Money{Cents: 0}, PaymentMethod: "Cash"},
		{Date: NewDate(2024, 1, 5), Category: "Food", Amount: Money{Cents: 1}, PaymentMethod: ""},
	}
	for i, e := range bads {
		if err := e.Validate(); err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}

func TestFilterMatches(t *testing.T) {
	e := Expense{
		Date:          NewDate(2024, 1, 20),
		Category:      "Food",
		Amount:        Money{Cents: 1500},
		PaymentMethod: "Cash",
	}

	cases := []struct {
		name string
		f    Filter
		want bool
	}{
		{"empty filter", Filter{}, true},
		{"inside range", Filter{From: NewDate(2024, 1, 1), To: NewDate(2024, 1, 31)}, true},
		{"on lower bound", Filter{From: NewDate(2024, 1, 20)}, true},
		{"on upper bound", Filter{To: NewDate(2024, 1, 20)}, true},
		{"before range", Filter{From: NewDate(2024, 2, 1)}, false},
		{"after range", Filter{To: NewDate(2024, 1, 19)}, false},
		{"matching category", Filter{Category: "Food"}, true},
		{"all category", Filter{Category: "All"}, true},
		{"other category", Filter{Category: "Transport"}, false},
	}
	for _, tc := range cases {
		if got := tc.f.Matches(e); got != tc.want {
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.want, got)
		}
	}
}
