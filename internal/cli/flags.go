package cli

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/pflag"

	"github.com/dyike/boglehead/internal/allocation"
)

// decimalValue is a pflag.Value parsing its argument straight into a
// decimal, so "12.3" is never routed through a float.
type decimalValue struct {
	value  *decimal.Decimal
	places int32 // fixed places in help output, -1 for as-is
	check  func(decimal.Decimal) error
}

var _ pflag.Value = (*decimalValue)(nil)

func newDecimalValue(p *decimal.Decimal, def decimal.Decimal, places int32, check func(decimal.Decimal) error) *decimalValue {
	*p = def
	return &decimalValue{value: p, places: places, check: check}
}

func (d *decimalValue) Set(s string) error {
	v, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return fmt.Errorf("%q is not a decimal number", s)
	}
	if d.check != nil {
		if err := d.check(v); err != nil {
			return err
		}
	}
	*d.value = v
	return nil
}

func (d *decimalValue) String() string {
	if d.places >= 0 {
		return d.value.StringFixed(d.places)
	}
	return d.value.String()
}

func (d *decimalValue) Type() string {
	return "decimal"
}

// strategyFlags are shared by the strategy commands.
type strategyFlags struct {
	bonds   decimal.Decimal
	balance decimal.Decimal
}

func (f *strategyFlags) register(flags *pflag.FlagSet) {
	flags.VarP(newDecimalValue(&f.bonds, decimal.NewFromInt(10), 1, allocation.ValidateBonds),
		"bonds", "b", "Total percentage of bonds, between 0 and 100")
	flags.VarP(newDecimalValue(&f.balance, decimal.Zero, 2, allocation.ValidateBalance),
		"balance", "a", "Portfolio balance in dollars; prints the amount per fund")
}
