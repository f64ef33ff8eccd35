package cli

import (
	"fmt"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/shopspring/decimal"
)

// askDecimal is swapped out in tests; survey needs a real terminal.
var askDecimal = promptForDecimal

func promptForDecimal(message, help string, def decimal.Decimal, check func(decimal.Decimal) error) (decimal.Decimal, error) {
	var answer string
	prompt := &survey.Input{
		Message: message,
		Help:    help,
		Default: def.String(),
	}

	err := survey.AskOne(prompt, &answer, survey.WithValidator(func(val interface{}) error {
		str := strings.TrimSpace(val.(string))
		v, err := decimal.NewFromString(str)
		if err != nil {
			return fmt.Errorf("%q is not a number", str)
		}
		if check != nil {
			return check(v)
		}
		return nil
	}))
	if err != nil {
		return decimal.Zero, err
	}

	return decimal.NewFromString(strings.TrimSpace(answer))
}
