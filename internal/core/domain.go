package core

import (
	"errors"
	"strings"
	"time"
)

const (
	Income  Kind = "income"
	Expense Kind = "expense"

	StatusPending   Status = "pending"
	StatusPaid      Status = "paid"
	StatusCancelled Status = "cancelled"
)

type (
	// Kind says whether money came in or went out.
	Kind string

	// Status tracks the payment state of a transaction.
	Status string

	Date struct {
		time.Time
	}

	// Money is an amount in integer cents. Stored amounts are always
	// positive; direction is carried by the transaction's Kind.
	Money struct {
		Cents int64 `json:"cents"`
	}

	Transaction struct {
		ID          int64     `json:"id"`
		Date        Date      `json:"date"`
		Description string    `json:"description"`
		Amount      Money     `json:"amount"`
		Category    string    `json:"category"` // references Category by name
		Kind        Kind      `json:"kind"`
		CreatedAt   time.Time `json:"created_at"`
		DueDate     Date      `json:"due_date"` // zero when the transaction has no due date
		Status      Status    `json:"status"`
	}

	Category struct {
		ID     int64  `json:"id"`
		Name   string `json:"name"`
		Kind   Kind   `json:"kind"`
		Budget Money  `json:"budget"` // monthly budget, zero for income categories
		Color  string `json:"color"`
	}

	// CategorySummary is one row of the per-month aggregate: total and
	// count of a category's transactions of one kind.
	CategorySummary struct {
		Category string `json:"category"`
		Kind     Kind   `json:"kind"`
		Total    Money  `json:"total"`
		Count    int    `json:"count"`
	}
)

var (
	ErrInvalidDate      = errors.New("invalid date")
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrInvalidKind      = errors.New("invalid kind")
	ErrInvalidStatus    = errors.New("invalid status")
	ErrEmptyDescription = errors.New("empty description")
	ErrEmptyCategory    = errors.New("empty category")
	ErrCategoryInUse    = errors.New("category has transactions referencing it")
	ErrNotFound         = errors.New("not found")
)

// NewDate creates a Date at midnight UTC.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses the YYYY-MM-DD storage representation.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", s)
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

// IsEmpty reports whether the date is unset (used for optional due dates).
func (d Date) IsEmpty() bool {
	return d.IsZero()
}

// Year returns the calendar year.
func (d Date) Year() int {
	return d.Time.Year()
}

// Month returns the calendar month as 1-12.
func (d Date) Month() int {
	return int(d.Time.Month())
}

// String formats the date as YYYY-MM-DD, the storage representation.
func (d Date) String() string {
	return d.Format("2006-01-02")
}

// MarshalJSON emits the date as "YYYY-MM-DD", or null when unset.
func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return []byte(`"` + d.String() + `"`), nil
}

// UnmarshalJSON accepts "YYYY-MM-DD" or null.
func (d *Date) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "null" || s == "" {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

func (k Kind) Validate() error {
	switch k {
	case Income, Expense:
		return nil
	default:
		return ErrInvalidKind
	}
}

func (s Status) Validate() error {
	switch s {
	case StatusPending, StatusPaid, StatusCancelled:
		return nil
	default:
		return ErrInvalidStatus
	}
}

func (m Money) Validate() error {
	if m.Cents <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

// Units returns the amount in floating-point currency units. The analytics
// engine works in units because its statistics are floating-point anyway.
func (m Money) Units() float64 {
	return float64(m.Cents) / 100.0
}

func (t Transaction) Validate() error {
	if err := t.Date.Validate(); err != nil {
		return err
	}
	if len(strings.TrimSpace(t.Description)) == 0 {
		return ErrEmptyDescription
	}
	if len(t.Description) > 200 {
		return errors.New("description too long (max 200 characters)")
	}
	if err := t.Amount.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(t.Category) == "" {
		return ErrEmptyCategory
	}
	if err := t.Kind.Validate(); err != nil {
		return err
	}
	if err := t.Status.Validate(); err != nil {
		return err
	}
	return nil
}

func (c Category) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return ErrEmptyCategory
	}
	if err := c.Kind.Validate(); err != nil {
		return err
	}
	if c.Budget.Cents < 0 {
		return ErrInvalidAmount
	}
	return nil
}
