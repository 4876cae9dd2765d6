package cmd

import (
	"context"
	"fmt"
	"os"
	ossignal "os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"kalushael-go/internal/api"
	"kalushael-go/internal/config"
	"kalushael-go/internal/engine"
	"kalushael-go/internal/metrics"
	"kalushael-go/internal/util"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the paper trading engine",
	Long: `Run the engine: stream market data, generate signals, place paper
orders through the risk gate, and serve the HTTP API.

Example:
  kalushael run -f config.yaml`,
	RunE: runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	log := util.NewLogger(cfg.App.LogLevel)

	ctx, cancel := ossignal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	_ = metrics.Serve(cfg.App.MetricsAddr)
	log.Info().Str("addr", cfg.App.MetricsAddr).Msg("metrics up")

	eng, err := engine.New(cfg, log)
	if err != nil {
		return fmt.Errorf("build engine: %w", err)
	}
	defer eng.Close()

	apiErr := make(chan error, 1)
	go func() {
		apiErr <- api.NewServer(log, eng).Start(ctx, cfg.API.Addr)
	}()

	if err := eng.Run(ctx); err != nil {
		cancel()
		<-apiErr
		return fmt.Errorf("engine: %w", err)
	}
	if err := <-apiErr; err != nil {
		return fmt.Errorf("api: %w", err)
	}
	log.Info().Msg("shutdown complete")
	return nil
}
