// Package engine wires feed, strategy, risk, execution, journal, and the mind
// into one run loop. It owns the channels and the shutdown order; everything
// else stays a library.
package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"kalushael-go/internal/config"
	"kalushael-go/internal/execution"
	"kalushael-go/internal/feed"
	"kalushael-go/internal/journal"
	"kalushael-go/internal/metrics"
	"kalushael-go/internal/mind/memory"
	"kalushael-go/internal/mind/spark"
	"kalushael-go/internal/paper"
	"kalushael-go/internal/risk"
	"kalushael-go/internal/signal"
	"kalushael-go/internal/strategy"
)

// Engine is the live trading loop in paper mode.
type Engine struct {
	cfg *config.Config
	log zerolog.Logger

	feed    *feed.Feed
	strat   strategy.Strategy
	riskMgr *risk.Manager
	account *paper.Account
	exec    *execution.Manager
	jnl     journal.Journal
	candles *signal.CandleBuilder

	classifier *spark.Classifier
	responder  *spark.Responder
	memories   *memory.Store

	recorder *paper.JSONLRecorder

	mu         sync.Mutex
	lastPrices map[string]float64

	ticks     atomic.Int64
	signals   atomic.Int64
	startedAt time.Time
}

// New builds a fully wired engine from configuration. The journal and memory
// databases are opened here and closed by Close.
func New(cfg *config.Config, log zerolog.Logger) (*Engine, error) {
	if cfg == nil {
		return nil, errors.New("nil config")
	}

	account := paper.NewAccount(cfg.Paper.StartingCash, cfg.Paper.MaxPositionPerSymbol, cfg.Paper.MaxPositionNotionalUSD)

	var recorder *paper.JSONLRecorder
	if cfg.Paper.FillsPath != "" {
		var err error
		recorder, err = paper.NewJSONLRecorder(cfg.Paper.FillsPath)
		if err != nil {
			return nil, fmt.Errorf("open fill recorder: %w", err)
		}
	}

	venue := paper.NewVenue(account, paper.VenueParams{
		SlippageBps:            cfg.Paper.SlippageBps,
		FeeBps:                 cfg.Paper.FeeBps,
		MaxLatency:             time.Duration(cfg.Paper.MaxLatencyMs) * time.Millisecond,
		PartialFillProbability: cfg.Paper.PartialFillProbability,
		MaxPartialFills:        cfg.Paper.MaxPartialFills,
		Seed:                   cfg.Feed.Sim.Seed,
	}, recorder)

	jnl, err := journal.NewSQLite(cfg.Journal.Path)
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}

	memories, err := memory.NewStore(cfg.Mind.MemoryPath, memory.Params{
		ResonanceFloor: cfg.Mind.ResonanceFloor,
		RecallBoost:    cfg.Mind.RecallBoost,
	})
	if err != nil {
		jnl.Close()
		return nil, fmt.Errorf("open memory store: %w", err)
	}

	classifier, trained, err := spark.TrainFromCorpus(cfg.Mind.CorpusPath)
	if err != nil {
		jnl.Close()
		memories.Close()
		return nil, fmt.Errorf("train classifier: %w", err)
	}
	seedClassifier(classifier)
	log.Info().Int("samples", trained).Msg("spark classifier trained")

	e := &Engine{
		cfg: cfg,
		log: log,
		feed: feed.NewFeed(cfg.Feed.Provider, cfg.Feed.Symbols, log, feed.WithSimParams(feed.SimParams{
			Seed:         cfg.Feed.Sim.Seed,
			Interval:     time.Duration(cfg.Feed.Sim.IntervalMs) * time.Millisecond,
			StartPrice:   cfg.Feed.Sim.StartPrice,
			DriftPerTick: cfg.Feed.Sim.DriftPerTick,
			Volatility:   cfg.Feed.Sim.Volatility,
		})),
		strat: strategy.Build(cfg.Strategy.Mode, strategy.Params{
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
		riskMgr: risk.NewManager(risk.Limits{
			MaxNotionalPerTrade:  cfg.Risk.MaxNotionalPerTrade,
			MaxPortfolioNotional: cfg.Risk.MaxPortfolioNotional,
			MaxDailyLoss:         cfg.Risk.MaxDailyLoss,
			KillSwitchDrawdown:   cfg.Risk.KillSwitchDrawdown,
			MaxConsecutiveLosses: cfg.Risk.MaxConsecutiveLosses,
			Cooldown:             time.Duration(cfg.Risk.CooldownSecs) * time.Second,
		}, cfg.Paper.StartingCash),
		account:    account,
		exec:       execution.NewManager(log, venue, 0),
		jnl:        jnl,
		candles:    signal.NewCandleBuilder(time.Duration(cfg.Strategy.Params.CandleIntervalSecs) * time.Second),
		classifier: classifier,
		responder:  defaultResponder(cfg.Feed.Sim.Seed),
		memories:   memories,
		recorder:   recorder,
		lastPrices: make(map[string]float64),
	}
	return e, nil
}

// Close releases the engine's file and database handles.
func (e *Engine) Close() error {
	var first error
	if e.recorder != nil {
		if err := e.recorder.Close(); err != nil {
			first = err
		}
	}
	if err := e.memories.Close(); err != nil && first == nil {
		first = err
	}
	if err := e.jnl.Close(); err != nil && first == nil {
		first = err
	}
	return first
}

// Run consumes the feed until the context is cancelled. It drives the
// strategy, places orders through the risk gate, and samples equity into the
// journal on a fixed cadence.
func (e *Engine) Run(ctx context.Context) error {
	e.startedAt = time.Now()
	ticks := make(chan signal.Tick, 1024)

	feedErr := make(chan error, 1)
	go func() {
		feedErr <- e.feed.Run(ctx, ticks)
	}()

	sampler := time.NewTicker(time.Duration(e.cfg.Journal.EquitySampleSecs) * time.Second)
	defer sampler.Stop()

	e.log.Info().Str("provider", e.cfg.Feed.Provider).Str("strategy", e.strat.Name()).
		Strs("symbols", e.cfg.Feed.Symbols).Msg("engine running")

	for {
		select {
		case <-ctx.Done():
			e.flushCandles()
			e.sampleEquity()
			err := <-feedErr
			if err != nil && ctx.Err() == nil {
				return err
			}
			return nil
		case err := <-feedErr:
			if err != nil && ctx.Err() == nil {
				return fmt.Errorf("feed stopped: %w", err)
			}
			return nil
		case <-sampler.C:
			e.sampleEquity()
		case tk := <-ticks:
			e.onTick(ctx, tk)
		}
	}
}

func (e *Engine) onTick(ctx context.Context, tk signal.Tick) {
	e.ticks.Add(1)

	e.mu.Lock()
	e.lastPrices[tk.Symbol] = tk.Price
	e.mu.Unlock()

	if sig := e.strat.OnTick(tk); sig != nil {
		e.onSignal(ctx, *sig, tk.Price)
	}
	if candle, ok := e.candles.Add(tk); ok {
		if sig := e.strat.OnCandle(candle); sig != nil {
			e.onSignal(ctx, *sig, candle.Close)
		}
	}
}

func (e *Engine) onSignal(ctx context.Context, sig signal.Signal, price float64) {
	e.signals.Add(1)
	metrics.SignalsTotal.WithLabelValues(sig.Strategy, sig.Symbol).Inc()
	if err := e.jnl.RecordSignal(sig); err != nil {
		e.log.Error().Err(err).Msg("journal signal")
	}

	intent, ok := e.sizeIntent(sig, price)
	if !ok {
		return
	}

	decision := e.riskMgr.Check(intent, risk.AccountState{
		Equity:            e.account.Snapshot(e.pricesCopy()).Equity,
		PortfolioNotional: e.account.PortfolioNotional(),
	})
	if !decision.Allowed {
		for _, code := range decision.Codes() {
			metrics.RiskBlocksTotal.WithLabelValues(code).Inc()
		}
		e.log.Warn().Str("sym", intent.Symbol).Strs("codes", decision.Codes()).Msg("intent blocked")
		return
	}

	order := execution.Order{
		ClientID: execution.NewClientOrderID(),
		Symbol:   intent.Symbol,
		Side:     execution.Side(intent.Side),
		Qty:      intent.Qty,
		Price:    intent.Price,
		Ts:       time.Now().UTC(),
	}
	fills, err := e.exec.Submit(ctx, order)
	if err != nil {
		e.log.Warn().Err(err).Str("sym", order.Symbol).Msg("order rejected")
		return
	}

	realizedBefore := e.account.RealizedPnL()
	for _, f := range fills {
		if err := e.jnl.RecordFill(f); err != nil {
			e.log.Error().Err(err).Msg("journal fill")
		}
	}
	if order.Side == execution.Sell {
		e.riskMgr.RecordRealized(e.account.RealizedPnL() - realizedBefore)
	}
}

// sizeIntent turns a scored signal into a concrete order intent. Positive
// scores buy with cash capped by the per-trade limit; negative scores close
// the open position.
func (e *Engine) sizeIntent(sig signal.Signal, price float64) (risk.Intent, bool) {
	if price <= 0 {
		return risk.Intent{}, false
	}
	switch {
	case sig.Score > 0:
		notional := e.cfg.Risk.MaxNotionalPerTrade
		if cash := e.account.AvailableCash(); cash < notional {
			notional = cash
		}
		// leave headroom for fees and slippage
		notional *= 0.99
		if notional < 1 {
			return risk.Intent{}, false
		}
		qty := notional / price
		return risk.Intent{Symbol: sig.Symbol, Side: string(execution.Buy), Qty: qty, Price: price, Notional: qty * price}, true
	case sig.Score < 0:
		qty := e.account.Position(sig.Symbol)
		if qty <= 0 {
			return risk.Intent{}, false
		}
		return risk.Intent{Symbol: sig.Symbol, Side: string(execution.Sell), Qty: qty, Price: price, Notional: qty * price}, true
	default:
		return risk.Intent{}, false
	}
}

func (e *Engine) sampleEquity() {
	snap := e.account.Snapshot(e.pricesCopy())
	metrics.EquityGauge.Set(snap.Equity)
	e.riskMgr.UpdateEquity(snap.Equity)
	err := e.jnl.RecordEquity(journal.EquitySnapshot{
		Ts:          time.Now().UTC(),
		Cash:        snap.Cash,
		Equity:      snap.Equity,
		RealizedPnL: snap.RealizedPnL,
		FeesPaid:    snap.FeesPaid,
	})
	if err != nil {
		e.log.Error().Err(err).Msg("journal equity")
	}
}

func (e *Engine) flushCandles() {
	for _, c := range e.candles.Flush() {
		if sig := e.strat.OnCandle(c); sig != nil {
			e.log.Debug().Str("sym", c.Symbol).Float64("score", sig.Score).Msg("signal at shutdown ignored")
		}
	}
}

func (e *Engine) pricesCopy() map[string]float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make(map[string]float64, len(e.lastPrices))
	for k, v := range e.lastPrices {
		out[k] = v
	}
	return out
}
