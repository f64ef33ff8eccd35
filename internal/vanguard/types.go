package vanguard

import (
	"sort"

	"github.com/shopspring/decimal"
)

// Composition maps an underlying ticker to its share of an umbrella fund,
// in percent.
type Composition map[string]decimal.Decimal

// Share returns the percentage held in ticker, zero when the ticker is not
// part of the composition.
func (c Composition) Share(ticker string) decimal.Decimal {
	if p, ok := c[ticker]; ok {
		return p
	}
	return decimal.Zero
}

// Tickers returns the tickers sorted by descending share, then by name.
func (c Composition) Tickers() []string {
	tickers := make([]string, 0, len(c))
	for t := range c {
		tickers = append(tickers, t)
	}
	sort.Slice(tickers, func(i, j int) bool {
		a, b := c[tickers[i]], c[tickers[j]]
		if !a.Equal(b) {
			return a.GreaterThan(b)
		}
		return tickers[i] < tickers[j]
	})
	return tickers
}

// characteristicResponse is the subset of /vmf/api/{fund}/characteristic we read.
type characteristicResponse struct {
	EquityCharacteristic *struct {
		Fund *struct {
			ForeignHolding *decimal.Decimal `json:"foreignHolding"`
		} `json:"fund"`
	} `json:"equityCharacteristic"`
}

// allocationResponse is the subset of /vmf/api/{fund}/allocation we read.
type allocationResponse struct {
	UnderlyingFund *struct {
		FundAllocated *[]fundAllocation `json:"fundAllocated"`
	} `json:"underlyingFund"`
}

type fundAllocation struct {
	Ticker  *string          `json:"ticker"`
	Percent *decimal.Decimal `json:"percent"`
}
