package cli

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"

	"github.com/dyike/boglehead/internal/allocation"
	"github.com/dyike/boglehead/internal/config"
)

// printResult writes one line per holding:
//
//	Domestic Equities (VTI): 56.7%
//	Domestic Equities (VTI): 56.7% ($5670.00)
func printResult(w io.Writer, res allocation.Result) {
	for _, h := range res.Holdings {
		line := fmt.Sprintf("%s (%s): %s%%", h.Label, h.Ticker, h.Percent.String())
		if res.Scaled {
			line += fmt.Sprintf(" ($%s)", h.Amount.StringFixed(2))
		}
		fmt.Fprintln(w, line)
	}
}

// PrintError renders err on w, in red when w is a terminal.
func PrintError(w io.Writer, err error) {
	style := lipgloss.NewRenderer(w).NewStyle().
		Foreground(lipgloss.Color("#EF4444")).
		Bold(true)
	fmt.Fprintln(w, style.Render("Error:"), err)
}

func printConfig(w io.Writer, cfg *config.Config, source string) {
	r := lipgloss.NewRenderer(w)
	keyStyle := r.NewStyle().Foreground(lipgloss.Color("#3B82F6")).Width(18)
	titleStyle := r.NewStyle().Bold(true).Foreground(lipgloss.Color("#7C3AED"))

	fmt.Fprintln(w, titleStyle.Render("Configuration ("+source+")"))
	rows := [][2]string{
		{"base_url", cfg.BaseURL},
		{"timeout", cfg.Timeout().String()},
		{"equity_fund", cfg.EquityFund},
		{"bond_fund", cfg.BondFund},
		{"domestic_equity", cfg.DomesticEquity},
		{"foreign_equity", cfg.ForeignEquity},
		{"domestic_bond", cfg.DomesticBond},
		{"foreign_bond", cfg.ForeignBond},
		{"default_bonds", cfg.DefaultBonds.String() + "%"},
		{"log_level", cfg.LogLevel},
		{"debug", fmt.Sprint(cfg.Debug)},
	}
	for _, row := range rows {
		fmt.Fprintln(w, keyStyle.Render(row[0]), row[1])
	}
}
