package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"kalushael-go/internal/backtest"
	"kalushael-go/internal/config"
	"kalushael-go/internal/strategy"
	"kalushael-go/internal/util"
)

var backtestCmd = &cobra.Command{
	Use:   "backtest",
	Short: "Replay a candle CSV through a strategy",
	Long: `Replay historical candles through the configured strategy with a
long-only cash account and print the results.

The CSV must have the header: ts,open,high,low,close,volume

Example:
  kalushael backtest --csv data/solusdt_1m.csv --symbol SOLUSDT`,
	RunE: runBacktest,
}

var (
	backtestCSV    string
	backtestSymbol string
)

func init() {
	rootCmd.AddCommand(backtestCmd)

	backtestCmd.Flags().StringVar(&backtestCSV, "csv", "", "path to candle CSV (required)")
	backtestCmd.Flags().StringVar(&backtestSymbol, "symbol", "SOLUSDT", "symbol label for the series")
	backtestCmd.MarkFlagRequired("csv")
}

func runBacktest(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	log := util.NewLogger(cfg.App.LogLevel)

	candles, err := backtest.LoadCSV(backtestCSV, backtestSymbol)
	if err != nil {
		return fmt.Errorf("load candles: %w", err)
	}

	runner := &backtest.Runner{
		Strategy: strategy.Build(cfg.Strategy.Mode, strategy.Params{
			MomentumThreshold:    cfg.Strategy.Params.MomentumThreshold,
			MomentumWindowSecs:   cfg.Strategy.Params.MomentumWindowSecs,
			MomentumMinVolumeUSD: cfg.Strategy.Params.MomentumMinVolumeUSD,
			RSIPeriod:            cfg.Strategy.Params.RSIPeriod,
			RSIOversold:          cfg.Strategy.Params.RSIOversold,
			RSIOverbought:        cfg.Strategy.Params.RSIOverbought,
			MACDFast:             cfg.Strategy.Params.MACDFast,
			MACDSlow:             cfg.Strategy.Params.MACDSlow,
			MACDSignal:           cfg.Strategy.Params.MACDSignal,
		}),
		StartingCash: cfg.Paper.StartingCash,
		FeeBps:       cfg.Paper.FeeBps,
		Log:          log,
	}

	res, err := runner.Run(candles)
	if err != nil {
		return fmt.Errorf("backtest: %w", err)
	}

	fmt.Printf("Backtest: %s over %d candles (%s)\n", runner.Strategy.Name(), res.Candles, backtestSymbol)
	fmt.Printf("  Signals:       %d\n", res.Signals)
	fmt.Printf("  Trades:        %d (%d wins, %d losses, %.0f%% win rate)\n",
		len(res.Trades), res.Wins, res.Losses, res.WinRate()*100)
	fmt.Printf("  Net P&L:       $%.2f\n", res.NetPnL)
	fmt.Printf("  Fees paid:     $%.2f\n", res.FeesPaid)
	fmt.Printf("  Ending equity: $%.2f\n", res.EndingEquity)
	fmt.Printf("  Max drawdown:  %.1f%%\n", res.MaxDrawdown*100)
	if res.ATR > 0 {
		fmt.Printf("  ATR(14):       %.6f\n", res.ATR)
	}
	return nil
}
