package core

import (
	"fmt"
	"sort"
)

// CategoryAmount represents an amount aggregated by category name.
type CategoryAmount struct {
	Name   string
	Amount Money
}

// MonthTotal is the summed amount for one calendar month.
type MonthTotal struct {
	Year  int
	Month int // 1-12
	Total Money
}

// Key returns the month in YYYY-MM form.
func (m MonthTotal) Key() string {
	return fmt.Sprintf("%04d-%02d", m.Year, m.Month)
}

// TotalSpend sums the amounts of the given expenses. Zero for an empty slice.
func TotalSpend(items []Expense) Money {
	var cents int64
	for _, e := range items {
		cents += e.Amount.Cents
	}
	return Money{Cents: cents}
}

// SumByCategory groups expenses by category and sums their amounts.
// The result is sorted by amount descending, then name ascending, so
// chart rendering is stable. Categories without expenses are omitted.
func SumByCategory(items []Expense) []CategoryAmount {
	sums := make(map[string]int64)
	for _, e := range items {
		sums[e.Category] += e.Amount.Cents
	}
	out := make([]CategoryAmount, 0, len(sums))
	for name, cents := range sums {
		out = append(out, CategoryAmount{Name: name, Amount: Money{Cents: cents}})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Amount.Cents != out[j].Amount.Cents {
			return out[i].Amount.Cents > out[j].Amount.Cents
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// SumByMonth groups expenses by the calendar month of their date and sums
// their amounts, ordered chronologically. Months without expenses are omitted.
func SumByMonth(items []Expense) []MonthTotal {
	type ym struct{ year, month int }
	sums := make(map[ym]int64)
	for _, e := range items {
		sums[ym{e.Date.Year(), e.Date.Month()}] += e.Amount.Cents
	}
	out := make([]MonthTotal, 0, len(sums))
	for k, cents := range sums {
		out = append(out, MonthTotal{Year: k.year, Month: k.month, Total: Money{Cents: cents}})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Year != out[j].Year {
			return out[i].Year < out[j].Year
		}
		return out[i].Month < out[j].Month
	})
	return out
}

// TopCategory returns the category with the highest summed amount.
// The second return is false when there are no expenses.
func TopCategory(items []Expense) (string, bool) {
	byCat := SumByCategory(items)
	if len(byCat) == 0 {
		return "", false
	}
	return byCat[0].Name, true
}
