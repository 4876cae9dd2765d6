package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"kalushael-go/internal/journal"
)

var journalCmd = &cobra.Command{
	Use:   "journal",
	Short: "Query the trading journal",
	Long: `Query the SQLite journal the engine writes to.

Subcommands:
  fills   - show the most recent fills
  equity  - show the equity curve
  pnl     - show realized flow per symbol

Examples:
  kalushael journal fills --limit 20
  kalushael journal equity --hours 24
  kalushael journal pnl`,
}

var journalFillsCmd = &cobra.Command{
	Use:   "fills",
	Short: "Show recent fills",
	Args:  cobra.NoArgs,
	RunE:  runJournalFills,
}

var journalEquityCmd = &cobra.Command{
	Use:   "equity",
	Short: "Show the equity curve",
	Args:  cobra.NoArgs,
	RunE:  runJournalEquity,
}

var journalPnLCmd = &cobra.Command{
	Use:   "pnl",
	Short: "Show per-symbol realized flow",
	Args:  cobra.NoArgs,
	RunE:  runJournalPnL,
}

var (
	journalDBPath string
	journalLimit  int
	journalHours  int
)

func init() {
	rootCmd.AddCommand(journalCmd)
	journalCmd.AddCommand(journalFillsCmd)
	journalCmd.AddCommand(journalEquityCmd)
	journalCmd.AddCommand(journalPnLCmd)

	journalCmd.PersistentFlags().StringVarP(&journalDBPath, "db", "d", "data/journal.db", "path to SQLite journal")
	journalFillsCmd.Flags().IntVar(&journalLimit, "limit", 20, "max fills to show")
	journalEquityCmd.Flags().IntVar(&journalHours, "hours", 24, "lookback window in hours")
}

func openJournal() (journal.Journal, error) {
	j, err := journal.NewSQLite(journalDBPath)
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}
	return j, nil
}

func runJournalFills(cmd *cobra.Command, args []string) error {
	j, err := openJournal()
	if err != nil {
		return err
	}
	defer j.Close()

	fills, err := j.RecentFills(journalLimit)
	if err != nil {
		return fmt.Errorf("query fills: %w", err)
	}
	if len(fills) == 0 {
		fmt.Println("no fills recorded")
		return nil
	}
	for _, f := range fills {
		partial := ""
		if f.Partial {
			partial = " (partial)"
		}
		fmt.Printf("%s  %-4s %-10s qty %.6f @ %.6f fee %.6f%s\n",
			f.Ts.Format(time.RFC3339), f.Side, f.Symbol, f.Qty, f.Price, f.Fee, partial)
	}
	return nil
}

func runJournalEquity(cmd *cobra.Command, args []string) error {
	j, err := openJournal()
	if err != nil {
		return err
	}
	defer j.Close()

	since := time.Now().UTC().Add(-time.Duration(journalHours) * time.Hour)
	curve, err := j.EquityCurve(since)
	if err != nil {
		return fmt.Errorf("query equity: %w", err)
	}
	if len(curve) == 0 {
		fmt.Println("no equity samples in window")
		return nil
	}
	for _, s := range curve {
		fmt.Printf("%s  equity %.2f  cash %.2f  realized %.2f  fees %.2f\n",
			s.Ts.Format(time.RFC3339), s.Equity, s.Cash, s.RealizedPnL, s.FeesPaid)
	}
	return nil
}

func runJournalPnL(cmd *cobra.Command, args []string) error {
	j, err := openJournal()
	if err != nil {
		return err
	}
	defer j.Close()

	rows, err := j.PnLBySymbol()
	if err != nil {
		return fmt.Errorf("query pnl: %w", err)
	}
	if len(rows) == 0 {
		fmt.Println("no fills recorded")
		return nil
	}
	fmt.Printf("%-12s %10s %10s %12s %6s\n", "symbol", "buy qty", "sell qty", "net cash", "fills")
	for _, r := range rows {
		fmt.Printf("%-12s %10.4f %10.4f %12.2f %6d\n", r.Symbol, r.BuyQty, r.SellQty, r.NetCash, r.Fills)
	}
	return nil
}
