// Package vanguard reads umbrella-fund compositions from Vanguard's public
// fund API.
package vanguard

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/dyike/boglehead/internal/config"
)

var hundred = decimal.NewFromInt(100)

// Provider fetches the two umbrella-fund breakdowns the strategies blend.
type Provider interface {
	// EquityComposition returns the domestic/foreign split of the equity fund.
	EquityComposition(ctx context.Context) (Composition, error)
	// BondComposition returns the underlying funds of the bond fund.
	BondComposition(ctx context.Context) (Composition, error)
}

// Client is the HTTP implementation of Provider. It does not retry or
// cache: every call is a single GET.
type Client struct {
	client *resty.Client
	log    zerolog.Logger

	equityFund     string
	bondFund       string
	domesticEquity string
	foreignEquity  string
}

var _ Provider = (*Client)(nil)

// NewClient creates a client for the base URL, funds and timeout in cfg.
func NewClient(cfg *config.Config, log zerolog.Logger) *Client {
	client := resty.New()
	client.SetBaseURL(strings.TrimRight(cfg.BaseURL, "/"))
	client.SetTimeout(cfg.Timeout())
	client.SetHeader("Accept", "application/json")

	return &Client{
		client:         client,
		log:            log.With().Str("client", "vanguard").Logger(),
		equityFund:     cfg.EquityFund,
		bondFund:       cfg.BondFund,
		domesticEquity: cfg.DomesticEquity,
		foreignEquity:  cfg.ForeignEquity,
	}
}

// EquityComposition reads foreignHolding of the equity fund; the domestic
// share is the remainder to 100.
func (c *Client) EquityComposition(ctx context.Context) (Composition, error) {
	const op = "characteristic"

	var body characteristicResponse
	if err := c.get(ctx, op, c.equityFund, &body); err != nil {
		return nil, err
	}

	if body.EquityCharacteristic == nil || body.EquityCharacteristic.Fund == nil ||
		body.EquityCharacteristic.Fund.ForeignHolding == nil {
		return nil, &ProviderError{Op: op, Fund: c.equityFund,
			Err: errors.New("missing equityCharacteristic.fund.foreignHolding")}
	}

	foreign := *body.EquityCharacteristic.Fund.ForeignHolding
	if foreign.IsNegative() || foreign.GreaterThan(hundred) {
		return nil, &ProviderError{Op: op, Fund: c.equityFund,
			Err: fmt.Errorf("foreignHolding %s is outside [0, 100]", foreign)}
	}

	return Composition{
		c.domesticEquity: hundred.Sub(foreign),
		c.foreignEquity:  foreign,
	}, nil
}

// BondComposition lists the allocated underlying funds of the bond fund.
// Tickers are trimmed and entries without a positive percent are dropped;
// a percent above 100 is a malformed response.
func (c *Client) BondComposition(ctx context.Context) (Composition, error) {
	const op = "allocation"

	var body allocationResponse
	if err := c.get(ctx, op, c.bondFund, &body); err != nil {
		return nil, err
	}

	if body.UnderlyingFund == nil || body.UnderlyingFund.FundAllocated == nil {
		return nil, &ProviderError{Op: op, Fund: c.bondFund,
			Err: errors.New("missing underlyingFund.fundAllocated")}
	}

	composition := make(Composition)
	for i, item := range *body.UnderlyingFund.FundAllocated {
		if item.Ticker == nil || item.Percent == nil {
			return nil, &ProviderError{Op: op, Fund: c.bondFund,
				Err: fmt.Errorf("fundAllocated[%d]: missing ticker or percent", i)}
		}
		if item.Percent.GreaterThan(hundred) {
			return nil, &ProviderError{Op: op, Fund: c.bondFund,
				Err: fmt.Errorf("fundAllocated[%d]: percent %s is above 100", i, *item.Percent)}
		}
		if !item.Percent.IsPositive() {
			continue
		}
		composition[strings.TrimSpace(*item.Ticker)] = *item.Percent
	}
	return composition, nil
}

func (c *Client) get(ctx context.Context, op, fund string, out interface{}) error {
	path := fmt.Sprintf("/vmf/api/%s/%s", fund, op)

	resp, err := c.client.R().
		SetContext(ctx).
		Get(path)
	if err != nil {
		c.log.Debug().Err(err).Str("path", path).Msg("request failed")
		return &ProviderError{Op: op, Fund: fund, Err: err}
	}

	c.log.Debug().
		Str("path", path).
		Int("status", resp.StatusCode()).
		Dur("duration", resp.Time()).
		Msg("GET")

	if !resp.IsSuccess() {
		return &ProviderError{Op: op, Fund: fund, StatusCode: resp.StatusCode(),
			Err: fmt.Errorf("unexpected response %s", resp.Status())}
	}

	if err := json.Unmarshal(resp.Body(), out); err != nil {
		return &ProviderError{Op: op, Fund: fund,
			Err: fmt.Errorf("failed to parse response: %w", err)}
	}
	return nil
}
