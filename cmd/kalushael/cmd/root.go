package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "kalushael",
	Short: "A paper trading engine with a conversational console",
	Long: `Kalushael is a crypto paper trading engine with an attached memory.

It provides:
  - A tick-driven engine with momentum, RSI, and MACD strategies
  - Risk guard-rails: notional caps, daily loss limits, a drawdown kill switch
  - Realistic paper fills with slippage, fees, latency, and partial fills
  - A SQLite journal of every fill, signal, and equity sample
  - A candle backtester for strategy research
  - A chat console backed by an intent classifier and a resonance memory
  - Optional on-chain swaps on Solana through Jupiter`,
	SilenceUsage: true,
}

var cfgPath string

// Execute runs the root command tree.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "f", "config.yaml", "path to YAML config file")
}
