package core

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the calendar-date form used for transaction dates.
const DateLayout = "2006-01-02"

const maxDescriptionLen = 200

type (
	AccountID  = string
	CategoryID = string

	// Transaction is a single dated, signed money movement.
	// Non-negative amounts are inflows, negative amounts are outflows.
	Transaction struct {
		ID          string          `json:"id"`
		AccountID   AccountID       `json:"accountId"`
		CategoryID  *CategoryID     `json:"categoryId"`
		Amount      decimal.Decimal `json:"amount"`
		Date        string          `json:"date"`
		Description string          `json:"description,omitempty"`
	}
)

var (
	ErrEmptyID          = errors.New("empty transaction id")
	ErrEmptyAccount     = errors.New("empty account id")
	ErrInvalidDate      = errors.New("invalid date")
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrInvalidMonth     = errors.New("invalid month")
	ErrDescriptionLong  = errors.New("description too long (max 200 characters)")
	ErrEmptyCategoryRef = errors.New("empty category id")
)

// CategoryRef returns a pointer suitable for Transaction.CategoryID.
func CategoryRef(id CategoryID) *CategoryID {
	return &id
}

// Categorized reports whether the transaction carries a usable category.
// An empty id counts as uncategorized.
func (t Transaction) Categorized() bool {
	return t.CategoryID != nil && *t.CategoryID != ""
}

// Category returns the category id, or "" when uncategorized.
func (t Transaction) Category() CategoryID {
	if !t.Categorized() {
		return ""
	}
	return *t.CategoryID
}

// Month returns the month key derived from the transaction date.
func (t Transaction) Month() MonthKey {
	return MonthKeyOf(t.Date)
}

// Validate checks a transaction on the write path. The aggregator never calls it.
func (t Transaction) Validate() error {
	if strings.TrimSpace(t.ID) == "" {
		return ErrEmptyID
	}
	if strings.TrimSpace(t.AccountID) == "" {
		return ErrEmptyAccount
	}
	if t.CategoryID != nil && strings.TrimSpace(*t.CategoryID) == "" {
		return ErrEmptyCategoryRef
	}
	if _, err := time.Parse(DateLayout, t.Date); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidDate, t.Date)
	}
	if len(t.Description) > maxDescriptionLen {
		return ErrDescriptionLong
	}
	return nil
}

// Clone returns a copy that shares no pointers with t.
func (t Transaction) Clone() Transaction {
	if t.CategoryID != nil {
		t.CategoryID = CategoryRef(*t.CategoryID)
	}
	return t
}
