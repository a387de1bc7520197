package core

import (
	"errors"
	"strings"
	"time"
)

type (
	// Date is a calendar date, stored at UTC midnight.
	Date struct {
		time.Time
	}

	Money struct {
		Cents int64
	}

	// Expense is a single recorded transaction. ID is assigned by the
	// store on insert and never reused.
	Expense struct {
		ID            int64
		Date          Date
		Category      string
		Description   string
		Amount        Money
		PaymentMethod string
	}

	// Filter narrows which expenses a query returns. Zero-value fields
	// mean no constraint; date bounds are inclusive.
	Filter struct {
		From     Date
		To       Date
		Category string
	}
)

var (
	ErrInvalidDate        = errors.New("invalid date")
	ErrInvalidAmount      = errors.New("invalid amount")
	ErrEmptyCategory      = errors.New("empty category")
	ErrEmptyPaymentMethod = errors.New("empty payment method")
)

// Default labels offered by the entry form. Category and payment method
// are open string sets: stored values are not restricted to these.
var (
	DefaultCategories = []string{
		"Food", "Transport", "Rent", "Utilities", "Shopping",
		"Health", "Education", "Entertainment", "Other",
	}
	DefaultPaymentMethods = []string{"Cash", "UPI", "Card", "NetBanking", "Other"}
)

// DateLayout is the wire and storage format for dates.
const DateLayout = "2006-01-02"

// NewDate creates a Date from year, month, day.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a YYYY-MM-DD string. Out-of-range dates such as
// 2024-02-30 are rejected by the underlying parser.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, ErrInvalidDate
	}
	return Date{Time: t}, nil
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

// IsEmpty reports whether the date is unset (used for optional filter bounds).
func (d Date) IsEmpty() bool {
	return d.IsZero()
}

func (d Date) String() string {
	return d.Format(DateLayout)
}

// Day returns the day of the month.
func (d Date) Day() int {
	return d.Time.Day()
}

// Month returns the month as 1-12.
func (d Date) Month() int {
	return int(d.Time.Month())
}

// Year returns the year.
func (d Date) Year() int {
	return d.Time.Year()
}

func (m Money) Validate() error {
	if m.Cents <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

func (e Expense) Validate() error {
	if err := e.Date.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(e.Category) == "" {
		return ErrEmptyCategory
	}
	if len(e.Description) > 200 {
		return errors.New("description too long (max 200 characters)")
	}
	if err := e.Amount.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(e.PaymentMethod) == "" {
		return ErrEmptyPaymentMethod
	}
	return nil
}

// HasCategory reports whether the filter constrains the category.
// "All" is the UI's explicit no-constraint choice.
func (f Filter) HasCategory() bool {
	c := strings.TrimSpace(f.Category)
	return c != "" && c != "All"
}

// Matches reports whether e satisfies every set constraint of the filter.
func (f Filter) Matches(e Expense) bool {
	if !f.From.IsEmpty() && e.Date.Before(f.From.Time) {
		return false
	}
	if !f.To.IsEmpty() && e.Date.After(f.To.Time) {
		return false
	}
	if f.HasCategory() && e.Category != f.Category {
		return false
	}
	return true
}
