package engine

import (
	"fmt"
	"time"

	"kalushael-go/internal/api"
	"kalushael-go/internal/execution"
	"kalushael-go/internal/journal"
	"kalushael-go/internal/mind/spark"
	"kalushael-go/internal/paper"
	"kalushael-go/internal/risk"
)

// The engine doubles as the API's state source.
var _ api.State = (*Engine)(nil)

// Status reports the run-loop overview for /api/status.
func (e *Engine) Status() api.Status {
	snap := e.account.Snapshot(e.pricesCopy())
	riskSnap := e.riskMgr.Snapshot()
	orders, fills := e.exec.Stats()
	return api.Status{
		App:       e.cfg.App.Name,
		Mode:      "paper",
		Symbols:   e.cfg.Feed.Symbols,
		StartedAt: e.startedAt,
		UptimeSec: time.Since(e.startedAt).Seconds(),
		Equity:    snap.Equity,
		Cash:      snap.Cash,
		Ticks:     e.ticks.Load(),
		Signals:   e.signals.Load(),
		Orders:    orders,
		Fills:     fills,
		Halted:    riskSnap.EmergencyStop || riskSnap.KillSwitchTripped,
	}
}

// Account returns the marked account snapshot.
func (e *Engine) Account() paper.Snapshot {
	return e.account.Snapshot(e.pricesCopy())
}

// RiskState returns the guard-rail snapshot.
func (e *Engine) RiskState() risk.Snapshot {
	return e.riskMgr.Snapshot()
}

// RecentFills returns the newest fills from the execution manager.
func (e *Engine) RecentFills(limit int) []execution.Fill {
	return e.exec.RecentFills(limit)
}

// EquityCurve reads equity samples from the journal.
func (e *Engine) EquityCurve(since time.Time) ([]journal.EquitySnapshot, error) {
	return e.jnl.EquityCurve(since)
}

// PnLBySymbol aggregates journaled fills per symbol.
func (e *Engine) PnLBySymbol() ([]journal.SymbolPnL, error) {
	return e.jnl.PnLBySymbol()
}

// SetEmergencyStop toggles the operator stop.
func (e *Engine) SetEmergencyStop(stop bool) {
	e.riskMgr.SetEmergencyStop(stop)
	e.log.Warn().Bool("stop", stop).Msg("emergency stop set")
}

// Execute answers a console/API message: classify, recall related memories,
// render a reply, and remember the exchange.
func (e *Engine) Execute(text string) (api.ChatReply, error) {
	intent := e.classifier.Classify(text)

	reply := e.answerIntent(intent, text)

	query := text
	if len(intent.Matched) > 0 {
		query = intent.Matched[0]
	} else if keywords := spark.Tokenize(text); len(keywords) > 0 {
		query = keywords[0]
	}
	recalled, err := e.memories.Recall(query, 3)
	if err != nil {
		return api.ChatReply{}, err
	}
	out := api.ChatReply{Intent: intent.Name, Score: intent.Score, Reply: reply}
	for _, m := range recalled {
		out.Recalled = append(out.Recalled, m.Content)
	}

	if _, err := e.memories.Remember(text, []string{"conversation", intent.Name}, 1); err != nil {
		e.log.Error().Err(err).Msg("remember exchange")
	}
	return out, nil
}

// answerIntent handles the intents the engine can answer from live state and
// falls back to templates for the rest.
func (e *Engine) answerIntent(intent spark.Intent, text string) string {
	switch intent.Name {
	case "status":
		snap := e.account.Snapshot(e.pricesCopy())
		return fmt.Sprintf("cash %.2f, equity %.2f, realized pnl %.2f, fees %.2f",
			snap.Cash, snap.Equity, snap.RealizedPnL, snap.FeesPaid)
	case "risk":
		rs := e.riskMgr.Snapshot()
		return fmt.Sprintf("daily pnl %.2f, kill switch %v, emergency stop %v, cooldown %v",
			rs.DailyPnL, rs.KillSwitchTripped, rs.EmergencyStop, rs.InCooldown)
	case "trades":
		fills := e.exec.RecentFills(5)
		if len(fills) == 0 {
			return "no fills yet"
		}
		last := fills[len(fills)-1]
		return fmt.Sprintf("%d recent fills, last %s %s %.4f @ %.4f",
			len(fills), last.Side, last.Symbol, last.Qty, last.Price)
	default:
		return e.responder.Respond(intent)
	}
}
