// Package allocation blends a bond percentage with umbrella-fund
// compositions into target weights for the boglehead lazy portfolios.
//
// All arithmetic uses decimal.Decimal so the percentages of a result add up
// to exactly 100.
package allocation

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/dyike/boglehead/internal/config"
	"github.com/dyike/boglehead/internal/vanguard"
)

type Strategy string

const (
	TwoFund   Strategy = "two-fund"
	ThreeFund Strategy = "three-fund"
	FourFund  Strategy = "four-fund"

	// compositions of the umbrella funds themselves
	EquitySplit Strategy = "equity-split"
	BondSplit   Strategy = "bond-split"
)

// Tickers names the umbrella funds and the underlying funds they are
// broken down into.
type Tickers struct {
	EquityFund string
	BondFund   string

	DomesticEquity string
	ForeignEquity  string
	DomesticBond   string
	ForeignBond    string
}

func DefaultTickers() Tickers {
	return Tickers{
		EquityFund:     "VT",
		BondFund:       "BNDW",
		DomesticEquity: "VTI",
		ForeignEquity:  "VXUS",
		DomesticBond:   "BND",
		ForeignBond:    "BNDX",
	}
}

func TickersFromConfig(cfg *config.Config) Tickers {
	return Tickers{
		EquityFund:     cfg.EquityFund,
		BondFund:       cfg.BondFund,
		DomesticEquity: cfg.DomesticEquity,
		ForeignEquity:  cfg.ForeignEquity,
		DomesticBond:   cfg.DomesticBond,
		ForeignBond:    cfg.ForeignBond,
	}
}

// Engine computes strategy results. It holds no state besides its
// collaborators; every call fetches what it needs again.
type Engine struct {
	provider vanguard.Provider
	tickers  Tickers
}

func New(provider vanguard.Provider, tickers Tickers) *Engine {
	return &Engine{
		provider: provider,
		tickers:  tickers,
	}
}

// TwoFund splits the portfolio between the equity and bond umbrella funds.
// It does not call the provider.
func (e *Engine) TwoFund(bonds decimal.Decimal) (Result, error) {
	if err := ValidateBonds(bonds); err != nil {
		return Result{}, err
	}

	return Result{
		Strategy: TwoFund,
		Holdings: []Holding{
			{Label: "Equities", Ticker: e.tickers.EquityFund, Percent: hundred.Sub(bonds)},
			{Label: "Bonds", Ticker: e.tickers.BondFund, Percent: bonds},
		},
	}, nil
}

// ThreeFund replaces the equity umbrella fund by its domestic and foreign
// underlying funds, weighted by the live foreign share of the equity fund.
func (e *Engine) ThreeFund(ctx context.Context, bonds decimal.Decimal) (Result, error) {
	if err := ValidateBonds(bonds); err != nil {
		return Result{}, err
	}
	stocks := hundred.Sub(bonds)

	equity, err := e.provider.EquityComposition(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("%s: %w", ThreeFund, err)
	}

	// foreign share is a percent of the equity sleeve, not of the portfolio
	foreign := stocks.Mul(equity.Share(e.tickers.ForeignEquity)).Shift(-2)
	domestic := stocks.Sub(foreign)

	return Result{
		Strategy: ThreeFund,
		Holdings: []Holding{
			{Label: "Domestic Equities", Ticker: e.tickers.DomesticEquity, Percent: domestic},
			{Label: "Foreign Equities", Ticker: e.tickers.ForeignEquity, Percent: foreign},
			{Label: "Bonds", Ticker: e.tickers.BondFund, Percent: bonds},
		},
	}, nil
}

// FourFund breaks down both umbrella funds. The two compositions are
// fetched concurrently and the first failure is returned.
func (e *Engine) FourFund(ctx context.Context, bonds decimal.Decimal) (Result, error) {
	if err := ValidateBonds(bonds); err != nil {
		return Result{}, err
	}
	stocks := hundred.Sub(bonds)

	var equity, bond vanguard.Composition
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		equity, err = e.provider.EquityComposition(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		bond, err = e.provider.BondComposition(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return Result{}, fmt.Errorf("%s: %w", FourFund, err)
	}

	// A bond fund missing upstream had no positive allocation; it gets 0.
	return Result{
		Strategy: FourFund,
		Holdings: []Holding{
			{Label: "Domestic Equities", Ticker: e.tickers.DomesticEquity,
				Percent: weight(equity.Share(e.tickers.DomesticEquity), stocks)},
			{Label: "Foreign Equities", Ticker: e.tickers.ForeignEquity,
				Percent: weight(equity.Share(e.tickers.ForeignEquity), stocks)},
			{Label: "Domestic Bonds", Ticker: e.tickers.DomesticBond,
				Percent: weight(bond.Share(e.tickers.DomesticBond), bonds)},
			{Label: "Foreign Bonds", Ticker: e.tickers.ForeignBond,
				Percent: weight(bond.Share(e.tickers.ForeignBond), bonds)},
		},
	}, nil
}

// EquityComposition reports the domestic/foreign split of the equity
// umbrella fund.
func (e *Engine) EquityComposition(ctx context.Context) (Result, error) {
	equity, err := e.provider.EquityComposition(ctx)
	if err != nil {
		return Result{}, err
	}
	return Result{
		Strategy: EquitySplit,
		Holdings: []Holding{
			{Label: "Percentage of domestic holdings", Ticker: e.tickers.DomesticEquity,
				Percent: equity.Share(e.tickers.DomesticEquity)},
			{Label: "Percentage of foreign holdings", Ticker: e.tickers.ForeignEquity,
				Percent: equity.Share(e.tickers.ForeignEquity)},
		},
	}, nil
}

// BondComposition reports the underlying funds of the bond umbrella fund.
// The configured domestic and foreign funds come first, any other
// allocated fund follows.
func (e *Engine) BondComposition(ctx context.Context) (Result, error) {
	bond, err := e.provider.BondComposition(ctx)
	if err != nil {
		return Result{}, err
	}

	res := Result{
		Strategy: BondSplit,
		Holdings: []Holding{
			{Label: "Percentage of domestic holdings", Ticker: e.tickers.DomesticBond,
				Percent: bond.Share(e.tickers.DomesticBond)},
			{Label: "Percentage of foreign holdings", Ticker: e.tickers.ForeignBond,
				Percent: bond.Share(e.tickers.ForeignBond)},
		},
	}
	for _, ticker := range bond.Tickers() {
		if ticker == e.tickers.DomesticBond || ticker == e.tickers.ForeignBond {
			continue
		}
		res.Holdings = append(res.Holdings, Holding{
			Label: "Percentage of other holdings", Ticker: ticker, Percent: bond[ticker],
		})
	}
	return res, nil
}

// weight scales share, a percent of a sleeve, to the sleeve's size in the
// portfolio. Shift keeps the division by 100 exact; Div would round.
func weight(share, sleeve decimal.Decimal) decimal.Decimal {
	return share.Mul(sleeve).Shift(-2)
}
