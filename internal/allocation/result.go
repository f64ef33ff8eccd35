package allocation

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	hundred = decimal.NewFromInt(100)

	// ErrOutOfRange is returned for a bond percentage outside [0, 100] or a
	// negative balance.
	ErrOutOfRange = errors.New("value out of range")
)

// Holding is one line of a target allocation.
type Holding struct {
	Label   string
	Ticker  string
	Percent decimal.Decimal
	// Amount is balance × Percent / 100; only meaningful when the result
	// was scaled with WithBalance.
	Amount decimal.Decimal
}

// Result is the target allocation produced by one strategy call. Holdings
// keep the order in which they should be displayed.
type Result struct {
	Strategy Strategy
	Holdings []Holding

	Balance decimal.Decimal
	Scaled  bool
}

// Percent returns the target percentage of ticker, zero if absent.
func (r Result) Percent(ticker string) decimal.Decimal {
	for _, h := range r.Holdings {
		if h.Ticker == ticker {
			return h.Percent
		}
	}
	return decimal.Zero
}

// Total sums the percentages of every holding.
func (r Result) Total() decimal.Decimal {
	total := decimal.Zero
	for _, h := range r.Holdings {
		total = total.Add(h.Percent)
	}
	return total
}

// WithBalance returns a copy of r with the dollar amount of each holding
// computed from balance.
func (r Result) WithBalance(balance decimal.Decimal) (Result, error) {
	if err := ValidateBalance(balance); err != nil {
		return Result{}, err
	}

	scaled := Result{
		Strategy: r.Strategy,
		Holdings: make([]Holding, len(r.Holdings)),
		Balance:  balance,
		Scaled:   true,
	}
	for i, h := range r.Holdings {
		h.Amount = balance.Mul(h.Percent).Shift(-2)
		scaled.Holdings[i] = h
	}
	return scaled, nil
}

func ValidateBonds(bonds decimal.Decimal) error {
	if bonds.IsNegative() || bonds.GreaterThan(hundred) {
		return fmt.Errorf("bond percentage %s is not in [0, 100]: %w", bonds, ErrOutOfRange)
	}
	return nil
}

func ValidateBalance(balance decimal.Decimal) error {
	if balance.IsNegative() {
		return fmt.Errorf("balance %s is negative: %w", balance, ErrOutOfRange)
	}
	return nil
}
