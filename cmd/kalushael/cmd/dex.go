package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"kalushael-go/internal/config"
	dex "kalushael-go/internal/dex/solana"
	"kalushael-go/internal/util"
)

var dexCmd = &cobra.Command{
	Use:   "dex",
	Short: "Quote and swap tokens on Solana via Jupiter",
	Long: `Interact with the Jupiter aggregator on Solana. Quoting is always
safe; swapping moves real funds and requires --yes.

Examples:
  kalushael dex quote --in So111...112 --out EPjF...t1v --amount 10000000
  kalushael dex swap  --in So111...112 --out EPjF...t1v --amount 10000000 --yes`,
}

var dexQuoteCmd = &cobra.Command{
	Use:   "quote",
	Short: "Fetch the best route for a swap",
	Args:  cobra.NoArgs,
	RunE:  runDexQuote,
}

var dexSwapCmd = &cobra.Command{
	Use:   "swap",
	Short: "Execute a swap with the configured wallet (real funds)",
	Args:  cobra.NoArgs,
	RunE:  runDexSwap,
}

var (
	dexInMint      string
	dexOutMint     string
	dexAmount      uint64
	dexSlippageBps int
	dexMaxImpact   float64
	dexConfirm     bool
)

func init() {
	rootCmd.AddCommand(dexCmd)
	dexCmd.AddCommand(dexQuoteCmd)
	dexCmd.AddCommand(dexSwapCmd)

	dexCmd.PersistentFlags().StringVar(&dexInMint, "in", "", "input token mint (required)")
	dexCmd.PersistentFlags().StringVar(&dexOutMint, "out", "", "output token mint (required)")
	dexCmd.PersistentFlags().Uint64Var(&dexAmount, "amount", 0, "amount in smallest units (required)")
	dexCmd.PersistentFlags().IntVar(&dexSlippageBps, "slippage-bps", 50, "max slippage in basis points")
	dexCmd.MarkPersistentFlagRequired("in")
	dexCmd.MarkPersistentFlagRequired("out")
	dexCmd.MarkPersistentFlagRequired("amount")

	dexSwapCmd.Flags().Float64Var(&dexMaxImpact, "max-impact-pct", 1.0, "reject swaps above this price impact")
	dexSwapCmd.Flags().BoolVar(&dexConfirm, "yes", false, "confirm spending real funds")
}

func dexClient() (*dex.Client, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	log := util.NewLogger(cfg.App.LogLevel)

	key, err := dex.LoadPrivateKey(cfg.Wallet)
	if err != nil {
		return nil, fmt.Errorf("wallet: %w", err)
	}
	return dex.NewClient(cfg.Dex, key, log), nil
}

func runDexQuote(cmd *cobra.Command, args []string) error {
	client, err := dexClient()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	quote, err := client.GetQuote(ctx, dexInMint, dexOutMint, dexAmount, dexSlippageBps)
	if err != nil {
		return fmt.Errorf("quote: %w", err)
	}
	fmt.Printf("Quote %s -> %s\n", quote.InputMint, quote.OutputMint)
	fmt.Printf("  In:            %s\n", quote.InAmount)
	fmt.Printf("  Out:           %s\n", quote.OutAmount)
	fmt.Printf("  Min out:       %s\n", quote.OtherAmount)
	fmt.Printf("  Price impact:  %.4f%%\n", quote.PriceImpactPct)
	return nil
}

func runDexSwap(cmd *cobra.Command, args []string) error {
	if !dexConfirm {
		return fmt.Errorf("swap spends real funds; re-run with --yes to confirm")
	}
	client, err := dexClient()
	if err != nil {
		return err
	}
	client.MaxPriceImpactPct = dexMaxImpact

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	quote, err := client.GetQuote(ctx, dexInMint, dexOutMint, dexAmount, dexSlippageBps)
	if err != nil {
		return fmt.Errorf("quote: %w", err)
	}
	sig, err := client.Swap(ctx, quote)
	if err != nil {
		return fmt.Errorf("swap: %w", err)
	}
	fmt.Printf("submitted tx: %s\n", sig.String())
	return nil
}
