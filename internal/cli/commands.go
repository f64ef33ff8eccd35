package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/dyike/boglehead/internal/allocation"
	"github.com/dyike/boglehead/internal/config"
	"github.com/dyike/boglehead/internal/logger"
	"github.com/dyike/boglehead/internal/vanguard"
)

const version = "v1.0.0"

// app is what the commands share once the configuration is loaded.
type app struct {
	configPath  string
	debug       bool
	interactive bool

	cfg    *config.Config
	log    zerolog.Logger
	engine *allocation.Engine
}

func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if a.debug {
		cfg.Debug = true
	}

	level := cfg.LogLevel
	if cfg.Debug {
		level = "debug"
	}
	a.cfg = cfg
	a.log = logger.New(logger.Config{Level: level, Pretty: true, Out: cmd.ErrOrStderr()})
	a.engine = allocation.New(vanguard.NewClient(cfg, a.log), allocation.TickersFromConfig(cfg))
	return nil
}

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "boglehead",
		Short: "Boglehead Portfolio Allocation CLI",
		Long: `boglehead computes target allocations for the two-, three- and four-fund
lazy portfolios from the live composition of Vanguard's VT and BNDW.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !needsSetup(cmd) {
				return nil
			}
			return a.setup(cmd)
		},
	}

	rootCmd.AddCommand(newVTCmd(a))
	rootCmd.AddCommand(newBNDWCmd(a))
	rootCmd.AddCommand(newTwoFundCmd(a))
	rootCmd.AddCommand(newThreeFundCmd(a))
	rootCmd.AddCommand(newFourFundCmd(a))
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newConfigCmd(a))

	// Global flags
	rootCmd.PersistentFlags().BoolVar(&a.debug, "debug", false, "Log provider requests to stderr")
	rootCmd.PersistentFlags().StringVar(&a.configPath, "config", "", "Configuration file path")
	rootCmd.PersistentFlags().BoolVarP(&a.interactive, "interactive", "i", false,
		"Prompt for values not given as flags")

	return rootCmd
}

// needsSetup reports whether cmd uses the configuration. cobra's own help
// and completion commands must work with a broken config.
func needsSetup(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		switch c.Name() {
		case "help", "completion", cobra.ShellCompRequestCmd, cobra.ShellCompNoDescRequestCmd:
			return false
		}
	}
	return true
}

func newVTCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "vt",
		Short: "Get the percentage of domestic and foreign holdings in VT",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := a.engine.EquityComposition(cmd.Context())
			if err != nil {
				return err
			}
			printResult(cmd.OutOrStdout(), res)
			return nil
		},
	}
}

func newBNDWCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "bndw",
		Short: "Get the percentage of domestic and foreign holdings in BNDW",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := a.engine.BondComposition(cmd.Context())
			if err != nil {
				return err
			}
			printResult(cmd.OutOrStdout(), res)
			return nil
		},
	}
}

func newTwoFundCmd(a *app) *cobra.Command {
	return newStrategyCmd(a, strategyCmd{
		use:   "two-fund",
		short: "Split between a total world stock fund and a total world bond fund",
		run: func(_ context.Context, bonds decimal.Decimal) (allocation.Result, error) {
			return a.engine.TwoFund(bonds)
		},
	})
}

func newThreeFundCmd(a *app) *cobra.Command {
	return newStrategyCmd(a, strategyCmd{
		use:   "three-fund",
		short: "Split stocks into domestic and foreign funds, plus a total bond fund",
		long:  "See: https://www.bogleheads.org/wiki/Three-fund_portfolio",
		run: func(ctx context.Context, bonds decimal.Decimal) (allocation.Result, error) {
			return a.engine.ThreeFund(ctx, bonds)
		},
	})
}

func newFourFundCmd(a *app) *cobra.Command {
	return newStrategyCmd(a, strategyCmd{
		use:   "four-fund",
		short: "Split both stocks and bonds into domestic and foreign funds",
		long:  "See: https://www.bogleheads.org/wiki/Vanguard_four_fund_portfolio",
		run: func(ctx context.Context, bonds decimal.Decimal) (allocation.Result, error) {
			return a.engine.FourFund(ctx, bonds)
		},
	})
}

// strategyCmd describes one strategy subcommand. run is called after setup,
// so it must reach the engine through app rather than capture it.
type strategyCmd struct {
	use, short, long string
	run              func(context.Context, decimal.Decimal) (allocation.Result, error)
}

func newStrategyCmd(a *app, s strategyCmd) *cobra.Command {
	var flags strategyFlags

	cmd := &cobra.Command{
		Use:   s.use,
		Short: s.short,
		Long:  s.long,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			bonds, balance, scaled, err := a.resolveInputs(cmd, flags)
			if err != nil {
				return err
			}

			res, err := s.run(cmd.Context(), bonds)
			if err != nil {
				return err
			}
			if scaled {
				if res, err = res.WithBalance(balance); err != nil {
					return err
				}
			}

			a.log.Debug().
				Str("strategy", string(res.Strategy)).
				Str("bonds", bonds.String()).
				Str("total", res.Total().String()).
				Msg("allocation computed")

			printResult(cmd.OutOrStdout(), res)
			return nil
		},
	}
	flags.register(cmd.Flags())
	return cmd
}

// resolveInputs picks the bond percentage and balance from flags, the
// configured default or, with --interactive, the user.
func (a *app) resolveInputs(cmd *cobra.Command, flags strategyFlags) (bonds, balance decimal.Decimal, scaled bool, err error) {
	bonds, balance = flags.bonds, flags.balance
	bondsSet := cmd.Flags().Changed("bonds")
	scaled = cmd.Flags().Changed("balance")

	if !bondsSet {
		bonds = a.cfg.DefaultBonds
	}
	if !a.interactive {
		return bonds, balance, scaled, nil
	}

	if !bondsSet {
		bonds, err = askDecimal("Total percentage of bonds:", "A number between 0 and 100",
			bonds, allocation.ValidateBonds)
		if err != nil {
			return
		}
	}
	if !scaled {
		balance, err = askDecimal("Portfolio balance in dollars (0 to skip):", "A non-negative amount",
			decimal.Zero, allocation.ValidateBalance)
		if err != nil {
			return
		}
		scaled = balance.IsPositive()
	}
	return bonds, balance, scaled, nil
}

// newVersionCmd creates the version command
func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return nil
		},
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "boglehead", version)
		},
	}
}

// newConfigCmd creates the config command
func newConfigCmd(a *app) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration management",
	}

	configCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			source := a.configPath
			if source == "" {
				source = "defaults and environment"
				if path, err := config.DefaultPath(); err == nil {
					if _, err := os.Stat(path); err == nil {
						source = path
					}
				}
			}
			printConfig(cmd.OutOrStdout(), a.cfg, source)
		},
	})

	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write a configuration file with the default settings",
		Args:  cobra.NoArgs,
		// the file may not exist yet, or be the broken one being replaced
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			path := a.configPath
			if path == "" {
				var err error
				if path, err = config.DefaultPath(); err != nil {
					return err
				}
			}
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists, use --force to overwrite", path)
			}
			if err := config.WriteFile(path, *config.Defaults()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "wrote", path)
			return nil
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing file")
	configCmd.AddCommand(initCmd)

	return configCmd
}
